// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package identity decides which user and group the interpreter runs as.
//
// [Resolve] is a pure function of the script's mode bits and owner, the
// caller's real ids, and the --real header flag. It performs no system
// calls; the decision is applied by package privilege.
package identity

import (
	"log/slog"

	"golang.org/x/sys/unix"
)

// Script is the stat metadata of the script being launched.
type Script struct {
	Path string

	// Mode is the raw st_mode, file type bits included.
	Mode uint32

	UID int
	GID int
}

// FromStat builds a Script from a stat result.
func FromStat(path string, stat *unix.Stat_t) Script {
	return Script{
		Path: path,
		Mode: uint32(stat.Mode),
		UID:  int(stat.Uid),
		GID:  int(stat.Gid),
	}
}

// SetUID reports whether the set-user-id bit is set.
func (s Script) SetUID() bool {
	return s.Mode&unix.S_ISUID != 0
}

// SetGID reports whether the set-group-id bit is set.
func (s Script) SetGID() bool {
	return s.Mode&unix.S_ISGID != 0
}

// Caller holds the real ids of the process that invoked the launcher.
type Caller struct {
	UID int
	GID int
}

// CurrentCaller returns the real ids of the current process.
func CurrentCaller() Caller {
	return Caller{UID: unix.Getuid(), GID: unix.Getgid()}
}

// Decision is the identity the interpreter runs under. Saved ids are
// left unchanged by the transition and are not part of the decision.
type Decision struct {
	RealUID      int
	RealGID      int
	EffectiveUID int
	EffectiveGID int
}

// Resolve derives the interpreter identity. The effective uid (gid) is
// the script owner when the set-user-id (set-group-id) bit is set and
// the caller's otherwise. With real set, the real ids follow the
// effective ones; without it they stay the caller's.
func Resolve(script Script, caller Caller, real bool) Decision {
	decision := Decision{
		RealUID:      caller.UID,
		RealGID:      caller.GID,
		EffectiveUID: caller.UID,
		EffectiveGID: caller.GID,
	}
	if script.SetUID() {
		decision.EffectiveUID = script.UID
	}
	if script.SetGID() {
		decision.EffectiveGID = script.GID
	}
	if real {
		decision.RealUID = decision.EffectiveUID
		decision.RealGID = decision.EffectiveGID
	}
	return decision
}

// Elevated reports whether the decision changes any id of caller.
func (d Decision) Elevated(caller Caller) bool {
	return d.RealUID != caller.UID || d.EffectiveUID != caller.UID ||
		d.RealGID != caller.GID || d.EffectiveGID != caller.GID
}

// LogValue implements slog.LogValuer.
func (d Decision) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("ruid", d.RealUID),
		slog.Int("euid", d.EffectiveUID),
		slog.Int("rgid", d.RealGID),
		slog.Int("egid", d.EffectiveGID),
	)
}
