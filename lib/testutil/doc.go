// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for exec-suid packages.
//
// [FS] is an in-memory [hostfs.FileSystem]: a tree of directories, files
// and symlinks with arbitrary owners and modes, including the account
// database and the init environment block. Tests use it to build
// root-owned hierarchies, hostile ancestors, symlink detours and mount
// tables without needing root privileges on the test host.
//
// [Credentials] and [Executor] record the identity transition and the
// final exec instead of performing them, and can be told to fail.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package depends only on lib/hostfs.
package testutil
