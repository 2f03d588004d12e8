// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package mounts reads the mount table in /proc/self/mounts format and
// finds the mount a path lives on.
package mounts

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// DefaultTable is the live mount table of the current process.
const DefaultTable = "/proc/self/mounts"

// OptionNoSuid is the mount option that disables set-user-id execution.
const OptionNoSuid = "nosuid"

// ErrFields is returned for a line with fewer than four fields.
var ErrFields = errors.New("unexpected field count")

// Record is one line of the mount table.
type Record struct {
	Device  string
	Point   string
	Type    string
	Options []string
}

// HasOption reports whether the record carries the mount option name.
func (r Record) HasOption(name string) bool {
	return slices.Contains(r.Options, name)
}

// NoSuid reports whether set-user-id execution is disabled on the mount.
func (r Record) NoSuid() bool {
	return r.HasOption(OptionNoSuid)
}

// Table is a mount table in declaration order.
type Table []Record

// Parse reads a mount table. Each line holds at least the device, the
// mount point, the filesystem type and the comma-separated options.
// Blank lines are skipped; a short line fails the whole parse.
func Parse(r io.Reader) (Table, error) {
	var table Table
	scanner := bufio.NewScanner(r)

	var line int
	for scanner.Scan() {
		line++

		// /dev/root / ext4 rw,relatime 0 0
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("line %d: %w", line, ErrFields)
		}

		table = append(table, Record{
			Device:  Unmangle(fields[0]),
			Point:   Unmangle(fields[1]),
			Type:    Unmangle(fields[2]),
			Options: strings.Split(fields[3], ","),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// Lookup returns the record whose mount point is the longest
// component-wise prefix of path. When several records share that mount
// point, the last declared one wins, since later mounts shadow earlier
// ones at the same point. path must be absolute and clean.
func (t Table) Lookup(path string) (Record, bool) {
	var (
		match Record
		found bool
	)
	for _, record := range t {
		if !contains(record.Point, path) {
			continue
		}
		if !found || len(record.Point) >= len(match.Point) {
			match = record
			found = true
		}
	}
	return match, found
}

// contains reports whether path is point or lies beneath it.
func contains(point, path string) bool {
	if point == "/" {
		return strings.HasPrefix(path, "/")
	}
	point = strings.TrimSuffix(point, "/")
	return path == point || strings.HasPrefix(path, point+"/")
}
