// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "errors"

var errUsage = errors.New("usage: exec-suid <script> [args...]")

// invocation is the launcher's view of its own argument vector.
type invocation struct {
	// launcher is argv[0], which the script header must name exactly.
	launcher string

	// script is the path of the script to run.
	script string

	// args are passed to the interpreter after the script path.
	args []string

	version bool
}

// parseInvocation splits argv. When the kernel runs exec-suid for a
// script, argv[1] holds the rest of the header line as one string,
// argv[2] the script path and argv[3:] the caller's arguments. The
// header flags are read again from the script itself, so argv[1] is
// ignored. A direct "exec-suid <script>" call has no header argument.
func parseInvocation(argv []string) (invocation, error) {
	switch len(argv) {
	case 0, 1:
		return invocation{}, errUsage
	case 2:
		if argv[1] == "--version" {
			return invocation{launcher: argv[0], version: true}, nil
		}
		return invocation{launcher: argv[0], script: argv[1], args: []string{}}, nil
	}
	return invocation{launcher: argv[0], script: argv[2], args: argv[3:]}, nil
}
