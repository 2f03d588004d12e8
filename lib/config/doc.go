// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for exec-suid.
//
// The configuration file path is fixed when the binary is built. It is
// never taken from the environment or the command line, since both are
// controlled by the unprivileged caller. A missing file means [Default];
// a file that exists must be root-owned along its whole path and must
// not be writable by group or others ([CheckMode]). The ownership walk
// itself is done by the caller with package pathtrust.
//
// Unknown keys are rejected so that a typo in a security setting fails
// loudly instead of silently falling back to a default.
//
// Key exports:
//
//   - [Config] -- mount table, account database and environment settings
//   - [Default] -- the compiled-in values used when no file exists
//   - [Load] -- decodes a file over the defaults and validates it
//
// This package depends on lib/environ for policy names.
package config
