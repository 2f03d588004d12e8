// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package environ

import "fmt"

// Policy selects how the interpreter's environment is constructed.
type Policy int

const (
	// Safe builds a minimal environment for the target account. This
	// is the default and the only policy suitable for elevated runs.
	Safe Policy = iota

	// None hands off with an empty environment.
	None

	// All copies the caller's environment verbatim, attacker-controlled
	// variables included.
	All
)

// ParsePolicy returns the policy named by s.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "safe":
		return Safe, nil
	case "none":
		return None, nil
	case "all":
		return All, nil
	}
	return Safe, fmt.Errorf("unknown environment policy %q (want safe, none or all)", s)
}

func (p Policy) String() string {
	switch p {
	case Safe:
		return "safe"
	case None:
		return "none"
	case All:
		return "all"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Set implements pflag.Value.
func (p *Policy) Set(s string) error {
	policy, err := ParsePolicy(s)
	if err != nil {
		return err
	}
	*p = policy
	return nil
}

// Type implements pflag.Value.
func (p *Policy) Type() string {
	return "policy"
}
