// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package header

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/execsuid/lib/environ"
)

// Options are the launcher flags carried in the header.
type Options struct {
	// Real sets the real uid/gid to the effective ones instead of
	// keeping the caller's.
	Real bool

	// Environ selects the environment policy.
	Environ environ.Policy
}

// ParseOptions parses the launcher flags in exec, which starts with the
// launcher path. defaultPolicy applies when --environ is absent.
func ParseOptions(exec []string, defaultPolicy environ.Policy) (Options, error) {
	options := Options{Environ: defaultPolicy}
	if len(exec) <= 1 {
		return options, nil
	}

	flagSet := pflag.NewFlagSet("exec-suid", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.SortFlags = false
	flagSet.BoolVar(&options.Real, "real", false, "Set real user and group IDs")
	flagSet.Var(&options.Environ, "environ", "Environment policy: safe (default), none, or all")

	if err := flagSet.Parse(exec[1:]); err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return Options{}, fmt.Errorf("%w: unexpected launcher arguments %s", ErrMalformed, strings.Join(rest, " "))
	}

	return options, nil
}
