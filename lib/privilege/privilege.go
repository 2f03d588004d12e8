// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package privilege

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/execsuid/lib/identity"
)

// Unchanged tells setresuid and setresgid to leave an id as it is.
const Unchanged = -1

var (
	ErrTransition = errors.New("cannot change process identity")
	ErrHandoff    = errors.New("cannot execute interpreter")
)

// Credentials changes the real, effective and saved ids of the process.
type Credentials interface {
	Setresgid(rgid, egid, sgid int) error
	Setresuid(ruid, euid, suid int) error
}

// Executor replaces the process image.
type Executor interface {
	Exec(argv0 string, argv, environ []string) error
}

// Host is the real process. Its methods act on the calling thread's
// credentials as propagated by the Go runtime to every thread.
type Host struct{}

var (
	_ Credentials = Host{}
	_ Executor    = Host{}
)

func (Host) Setresgid(rgid, egid, sgid int) error {
	return unix.Setresgid(rgid, egid, sgid)
}

func (Host) Setresuid(ruid, euid, suid int) error {
	return unix.Setresuid(ruid, euid, suid)
}

func (Host) Exec(argv0 string, argv, environ []string) error {
	return unix.Exec(argv0, argv, environ)
}

// Transition sets the real and effective group ids, then the real and
// effective user ids, from decision. A group failure stops before the
// user ids are touched.
func Transition(credentials Credentials, decision identity.Decision) error {
	if err := credentials.Setresgid(decision.RealGID, decision.EffectiveGID, Unchanged); err != nil {
		return fmt.Errorf("%w: setresgid(%d, %d): %v", ErrTransition, decision.RealGID, decision.EffectiveGID, err)
	}
	if err := credentials.Setresuid(decision.RealUID, decision.EffectiveUID, Unchanged); err != nil {
		return fmt.Errorf("%w: setresuid(%d, %d): %v", ErrTransition, decision.RealUID, decision.EffectiveUID, err)
	}
	return nil
}

// Handoff executes argv[0] with argv and environ. It returns only on
// failure.
func Handoff(executor Executor, argv, environ []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("%w: empty argument vector", ErrHandoff)
	}
	if err := executor.Exec(argv[0], argv, environ); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrHandoff, argv[0], err)
	}
	return fmt.Errorf("%w: %s: exec returned", ErrHandoff, argv[0])
}
