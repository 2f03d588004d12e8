// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import "sync"

// Call is one recorded set*id call: the real, effective and saved ids.
type Call struct {
	Name string
	IDs  [3]int
}

// Credentials records Setresgid and Setresuid calls. A non-nil
// GroupErr or UserErr is returned from the matching call after it is
// recorded.
type Credentials struct {
	GroupErr error
	UserErr  error

	mu    sync.Mutex
	calls []Call
}

func (c *Credentials) Setresgid(rgid, egid, sgid int) error {
	c.record("setresgid", rgid, egid, sgid)
	return c.GroupErr
}

func (c *Credentials) Setresuid(ruid, euid, suid int) error {
	c.record("setresuid", ruid, euid, suid)
	return c.UserErr
}

// Calls returns the recorded calls in order.
func (c *Credentials) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

func (c *Credentials) record(name string, ids ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Call{Name: name, IDs: [3]int{ids[0], ids[1], ids[2]}})
}

// Executor records the final exec. Exec returns Err, or nil when Err is
// unset; the real exec never returns on success.
type Executor struct {
	Err error

	mu      sync.Mutex
	called  bool
	argv0   string
	argv    []string
	environ []string
}

func (e *Executor) Exec(argv0 string, argv, environ []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.called = true
	e.argv0 = argv0
	e.argv = append([]string(nil), argv...)
	e.environ = append([]string(nil), environ...)
	return e.Err
}

// Called reports whether Exec ran.
func (e *Executor) Called() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.called
}

// Invocation returns what Exec was called with.
func (e *Executor) Invocation() (argv0 string, argv, environ []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.argv0, e.argv, e.environ
}
