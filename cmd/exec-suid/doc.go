// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// exec-suid runs interpreted scripts with the privileges their set-user-id
// and set-group-id bits ask for.
//
// The kernel ignores the set-id bits of scripts. exec-suid is installed
// set-user-id root and named as the interpreter on the script's first
// line; the real interpreter follows a "--" separator:
//
//	#!/usr/local/bin/exec-suid --real --environ=safe -- /usr/bin/python3
//
// Before anything in the script is read, the script path must be owned
// by root at every component and must not sit on a nosuid mount. The
// launcher then reads the header, decides the interpreter's user and
// group ids from the script's mode bits and owner, builds the
// interpreter's environment, drops to those ids and execs the
// interpreter with the script path and the caller's arguments.
//
// Header flags:
//
//	--real               also set the real user and group ids
//	--environ=POLICY     safe (default), none, or all
//
// Configuration is read from a root-owned YAML file whose path is fixed
// at build time (-ldflags -X main.configPath=...; /etc/exec-suid.yaml by
// default). Setting "debug: true" there enables debug logging on stderr;
// the caller's environment cannot enable it.
//
// Every failure prints "<script>: <reason>" and exits with status 1.
package main
