// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"io"
	"os"
)

// exit is replaced in tests.
var exit = os.Exit

// Fatal writes "subject: err" to stderr and exits with code 1. An empty
// subject is reported as "error". Use it in main() for errors from
// run(), where the structured logger may not be initialized.
func Fatal(subject string, err error) {
	Report(os.Stderr, subject, err)
	exit(1)
}

// Report writes the line Fatal prints to w.
func Report(w io.Writer, subject string, err error) {
	if subject == "" {
		subject = "error"
	}
	fmt.Fprintf(w, "%s: %v\n", subject, err)
}
