// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package environ builds the environment handed to the interpreter.
//
// [Build] dispatches on a [Policy]. The [Safe] policy never copies an
// arbitrary caller variable: PATH comes from the init process's
// environment block rather than the caller's, account variables come
// from the account database, and only TERM, LANG, LANGUAGE, TZ,
// LS_COLORS and LC_* are taken from the caller. Account lookups go
// through github.com/moby/sys/user so that the login shell is available,
// which os/user does not expose. The account database and the init
// environment block are opened through [hostfs.FileSystem].
package environ
