// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package privilege applies an identity decision to the running process
// and replaces it with the interpreter.
//
// [Transition] sets the group ids before the user ids: once the
// effective uid leaves root the process may no longer be permitted to
// change its groups. Saved ids are passed as [Unchanged] so the kernel
// keeps whatever the set-user-id execution of the launcher left there.
//
// [Handoff] calls execve. On success it does not return; the caller
// treats any return as failure.
//
// Both operations go through small interfaces ([Credentials] and
// [Executor]) so the launch pipeline can be tested without privileges.
// [Host] implements both with golang.org/x/sys/unix.
package privilege
