// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package header parses the interpreter line of a script handed to
// exec-suid.
//
// The first line of the script has the form
//
//	#!/usr/bin/exec-suid [launcher flags...] -- <interpreter> [interpreter args...]
//
// [Parse] reads only that line and splits its tokens at the first "--"
// into a [Directive]: Exec holds the launcher invocation and its flags,
// Script holds the interpreter command prepended to the script path. The
// rest of the file is never read; it belongs to the interpreter.
//
// [ParseOptions] interprets the launcher flags in Directive.Exec:
//
//   - --real collapses the real uid/gid onto the effective ones
//   - --environ=safe|none|all selects the [environ.Policy]
//
// Every parse failure wraps [ErrMalformed].
package header
