// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/execsuid/lib/environ"
	"github.com/bureau-foundation/execsuid/lib/header"
	"github.com/bureau-foundation/execsuid/lib/hostfs"
	"github.com/bureau-foundation/execsuid/lib/identity"
	"github.com/bureau-foundation/execsuid/lib/pathtrust"
	"github.com/bureau-foundation/execsuid/lib/privilege"
)

// ErrExecutableMismatch is returned when the script header names a
// launcher other than the one running.
var ErrExecutableMismatch = errors.New("script header does not name this launcher")

// Launcher runs one script. Every field is required.
type Launcher struct {
	FileSystem  hostfs.FileSystem
	Validator   *pathtrust.Validator
	Credentials privilege.Credentials
	Executor    privilege.Executor

	Caller        identity.Caller
	Sources       environ.Sources
	DefaultPolicy environ.Policy

	Logger *slog.Logger
}

// Run validates the script, decides the interpreter's identity and
// environment, switches to that identity and execs the interpreter.
// It returns only on failure. No step runs after one fails.
func (l *Launcher) Run(inv invocation) error {
	if err := l.Validator.Validate(inv.script); err != nil {
		return err
	}

	file, err := l.FileSystem.Open(inv.script)
	if err != nil {
		return fmt.Errorf("%w (%v)", pathtrust.ErrNotFound, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("%w (%v)", pathtrust.ErrNotFound, err)
	}
	script := identity.FromStat(inv.script, stat)

	directive, err := header.Parse(file)
	if err != nil {
		return err
	}
	l.Logger.Debug("parsed header", "exec", directive.Exec, "interpreter", directive.Script)

	if launcher := directive.Launcher(); launcher == "" || launcher != inv.launcher {
		return fmt.Errorf("%w: header names %q, running as %q", ErrExecutableMismatch, launcher, inv.launcher)
	}

	options, err := header.ParseOptions(directive.Exec, l.DefaultPolicy)
	if err != nil {
		return err
	}

	decision := identity.Resolve(script, l.Caller, options.Real)
	l.Logger.Debug("resolved identity",
		"script_uid", script.UID,
		"script_gid", script.GID,
		"setuid", script.SetUID(),
		"setgid", script.SetGID(),
		"real", options.Real,
		"decision", decision,
		"elevated", decision.Elevated(l.Caller),
	)

	env, err := environ.Build(options.Environ, decision.EffectiveUID, l.Sources)
	if err != nil {
		return err
	}
	l.Logger.Debug("built environment", "policy", options.Environ, "variables", len(env))

	argv := directive.Argv(inv.script, inv.args)
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", inv.script, err)
	}

	if err := privilege.Transition(l.Credentials, decision); err != nil {
		return err
	}
	l.Logger.Debug("executing interpreter", "argv", argv)
	return privilege.Handoff(l.Executor, argv, env)
}
