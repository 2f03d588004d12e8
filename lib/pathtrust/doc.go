// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pathtrust proves that a script may be launched with elevated
// privilege.
//
// [Validator.Validate] establishes two properties of a path:
//
//   - Hierarchical root ownership ([Validator.CheckOwnership]): every
//     component of the literal absolute path, from "/" down to the file,
//     is owned by uid 0. Each component is examined with lstat, so a
//     symlink is judged by its own owner and an attacker-owned directory
//     anywhere on the way fails the check even when the file itself is
//     root-owned.
//
//   - Mount eligibility ([Validator.CheckMount]): the canonical location
//     of the file lies on a mount without the nosuid option, found in
//     the live mount table by longest mount point (last declaration
//     wins among equal mount points).
//
// The ownership walk deliberately works on the literal path the caller
// supplied, because that is the path the interpreter will open; the
// mount check deliberately works on the canonical path, because that is
// where the bytes are stored.
//
// Every failure wraps one of [ErrNotFound], [ErrUntrustedOwnership],
// [ErrNoSuidMount] or [ErrMountNotFound]. There is no degraded mode:
// any check that cannot be completed is a failure.
package pathtrust
