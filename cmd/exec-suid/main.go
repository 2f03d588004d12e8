// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/bureau-foundation/execsuid/lib/config"
	"github.com/bureau-foundation/execsuid/lib/hostfs"
	"github.com/bureau-foundation/execsuid/lib/identity"
	"github.com/bureau-foundation/execsuid/lib/pathtrust"
	"github.com/bureau-foundation/execsuid/lib/privilege"
	"github.com/bureau-foundation/execsuid/lib/process"
	"github.com/bureau-foundation/execsuid/lib/version"
)

func main() {
	inv, err := parseInvocation(os.Args)
	if err != nil {
		process.Fatal("", err)
	}
	if inv.version {
		fmt.Printf("exec-suid %s\n", version.Info())
		return
	}

	if err := run(inv); err != nil {
		process.Fatal(inv.script, err)
	}
}

// logLevel is Debug only when the root-owned configuration asks for it.
// The caller's environment has no say, since debug output exposes mount
// points, canonical paths and resolved ids.
func logLevel(cfg *config.Config) slog.Level {
	if cfg.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func run(inv invocation) error {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	filesystem := hostfs.Host{}
	cfg, err := loadConfig(filesystem, pathtrust.New(pathtrust.Config{
		FileSystem: filesystem,
		Logger:     logger,
	}), configPath)
	if err != nil {
		return err
	}
	level.Set(logLevel(cfg))
	logger.Debug("exec-suid starting", version.Full()...)

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	launcher := &Launcher{
		FileSystem: filesystem,
		Validator: pathtrust.New(pathtrust.Config{
			FileSystem: filesystem,
			MountTable: cfg.MountTable,
			Logger:     logger,
		}),
		Credentials:   privilege.Host{},
		Executor:      privilege.Host{},
		Caller:        identity.CurrentCaller(),
		Sources:       cfg.Sources(filesystem, os.Environ()),
		DefaultPolicy: policy,
		Logger:        logger,
	}

	// The identity transition and exec happen on this thread.
	runtime.LockOSThread()
	return launcher.Run(inv)
}
