// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	original := []string{Version, GitCommit, GitDirty, BuildTime}
	t.Cleanup(func() {
		Version, GitCommit, GitDirty, BuildTime = original[0], original[1], original[2], original[3]
	})

	Version, GitCommit, GitDirty, BuildTime = "1.2.3", "abc1234", "false", "2026-10-01T00:00:00Z"
	if got, want := Info(), "1.2.3 (abc1234, 2026-10-01T00:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "true"
	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want a -dirty commit", got)
	}
}

func TestFull(t *testing.T) {
	attributes := Full()
	if len(attributes)%2 != 0 {
		t.Fatalf("Full() returned an odd number of values: %v", attributes)
	}
	if attributes[0] != "version" || attributes[1] != Info() {
		t.Errorf("Full() should start with the Info string, got %v", attributes[:2])
	}
}
