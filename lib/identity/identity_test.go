// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	caller := Caller{UID: 1000, GID: 1000}

	testCases := []struct {
		name   string
		mode   uint32
		owner  [2]int
		real   bool
		want   Decision
		raised bool
	}{
		{
			name:   "setuid root keeps real uid",
			mode:   unix.S_IFREG | unix.S_ISUID | 0755,
			owner:  [2]int{0, 0},
			want:   Decision{RealUID: 1000, RealGID: 1000, EffectiveUID: 0, EffectiveGID: 1000},
			raised: true,
		},
		{
			name:   "setuid root with real",
			mode:   unix.S_IFREG | unix.S_ISUID | 0755,
			owner:  [2]int{0, 0},
			real:   true,
			want:   Decision{RealUID: 0, RealGID: 1000, EffectiveUID: 0, EffectiveGID: 1000},
			raised: true,
		},
		{
			name:   "setgid only",
			mode:   unix.S_IFREG | unix.S_ISGID | 0755,
			owner:  [2]int{0, 50},
			want:   Decision{RealUID: 1000, RealGID: 1000, EffectiveUID: 1000, EffectiveGID: 50},
			raised: true,
		},
		{
			name:   "setuid and setgid with real",
			mode:   unix.S_IFREG | unix.S_ISUID | unix.S_ISGID | 0750,
			owner:  [2]int{0, 50},
			real:   true,
			want:   Decision{RealUID: 0, RealGID: 50, EffectiveUID: 0, EffectiveGID: 50},
			raised: true,
		},
		{
			name:  "no special bits",
			mode:  unix.S_IFREG | 0755,
			owner: [2]int{0, 0},
			want:  Decision{RealUID: 1000, RealGID: 1000, EffectiveUID: 1000, EffectiveGID: 1000},
		},
		{
			name:  "no special bits with real",
			mode:  unix.S_IFREG | 0755,
			owner: [2]int{0, 0},
			real:  true,
			want:  Decision{RealUID: 1000, RealGID: 1000, EffectiveUID: 1000, EffectiveGID: 1000},
		},
		{
			name:   "setuid to unprivileged owner",
			mode:   unix.S_IFREG | unix.S_ISUID | 0755,
			owner:  [2]int{1001, 1001},
			want:   Decision{RealUID: 1000, RealGID: 1000, EffectiveUID: 1001, EffectiveGID: 1000},
			raised: true,
		},
		{
			name:  "sticky bit is ignored",
			mode:  unix.S_IFREG | unix.S_ISVTX | 0755,
			owner: [2]int{0, 0},
			want:  Decision{RealUID: 1000, RealGID: 1000, EffectiveUID: 1000, EffectiveGID: 1000},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			script := Script{Path: "/usr/local/bin/tool", Mode: tc.mode, UID: tc.owner[0], GID: tc.owner[1]}
			got := Resolve(script, caller, tc.real)
			if got != tc.want {
				t.Errorf("Resolve = %+v, want %+v", got, tc.want)
			}
			if got.Elevated(caller) != tc.raised {
				t.Errorf("Elevated = %v, want %v", got.Elevated(caller), tc.raised)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	t.Parallel()

	script := Script{Mode: unix.S_IFREG | unix.S_ISUID | 0755, UID: 0, GID: 0}
	caller := Caller{UID: 1000, GID: 100}
	first := Resolve(script, caller, false)
	for range 10 {
		if got := Resolve(script, caller, false); got != first {
			t.Fatalf("Resolve changed between calls: %+v then %+v", first, got)
		}
	}
}

func TestFromStat(t *testing.T) {
	t.Parallel()

	stat := &unix.Stat_t{Uid: 0, Gid: 42, Mode: unix.S_IFREG | unix.S_ISGID | 0755}
	script := FromStat("/opt/tool", stat)
	if script.Path != "/opt/tool" || script.UID != 0 || script.GID != 42 {
		t.Errorf("FromStat = %+v", script)
	}
	if script.SetUID() {
		t.Error("SetUID() = true for a setgid-only file")
	}
	if !script.SetGID() {
		t.Error("SetGID() = false for a setgid file")
	}
}
