// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the binary entrypoint error handler.
//
// exec-suid reports every failure the same way: one line on stderr
// naming the subject (usually the script path) and the error, then exit
// status 1. No partial launch ever follows a reported error. This
// package and lib/version are the only places that write raw output;
// everything else logs through log/slog.
package process
