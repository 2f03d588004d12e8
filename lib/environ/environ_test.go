// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package environ

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/bureau-foundation/execsuid/lib/testutil"
)

const testPasswd = `root:x:0:0:root:/root:/bin/bash
daemon:x:1:1:daemon:/usr/sbin:/usr/sbin/nologin
alice:x:1000:1000:Alice:/home/alice:/bin/zsh
`

// newSources returns Sources reading a fake tree that holds testPasswd
// at /etc/passwd and initEnviron at /proc/1/environ.
func newSources(t *testing.T, initEnviron string) Sources {
	t.Helper()
	tree := testutil.NewFS("/").
		Dir(t, "/etc", 0).
		Dir(t, "/proc/1", 0).
		File(t, DefaultPasswd, 0, 0, 0644, testPasswd).
		File(t, DefaultInitEnviron, 0, 0, 0400, initEnviron)
	return Sources{FileSystem: tree}
}

func keys(environment []string) []string {
	result := make([]string, 0, len(environment))
	for _, entry := range environment {
		key, _, _ := strings.Cut(entry, "=")
		result = append(result, key)
	}
	return result
}

func TestBuildSafe(t *testing.T) {
	t.Parallel()

	sources := newSources(t, "HOME=/\x00PATH=/usr/sbin:/usr/bin:/sbin:/bin\x00TERM=linux\x00")
	sources.Caller = []string{
		"PATH=/tmp/evil",
		"HOME=/tmp/evil",
		"LD_PRELOAD=evil.so",
		"TERM=xterm-256color",
		"LC_TIME=de_DE.UTF-8",
		"TZ=Europe/Berlin",
		"IFS=x",
	}

	environment, err := BuildSafe(0, sources)
	if err != nil {
		t.Fatalf("BuildSafe: %v", err)
	}

	want := []string{
		"PATH=/usr/sbin:/usr/bin:/sbin:/bin",
		"LOGNAME=root",
		"USER=root",
		"HOME=/root",
		"SHELL=/bin/bash",
		"MAIL=/var/mail/root",
		"TERM=xterm-256color",
		"LANG=en_US.UTF-8",
		"LC_TIME=de_DE.UTF-8",
		"TZ=Europe/Berlin",
	}
	if !slices.Equal(environment, want) {
		t.Errorf("BuildSafe:\n got %q\nwant %q", environment, want)
	}
}

func TestBuildSafeDefaults(t *testing.T) {
	t.Parallel()

	sources := newSources(t, "PATH=/bin\x00")
	sources.MailDir = "/var/spool/mail"
	sources.DefaultTerm = "dumb"
	sources.DefaultLang = "C.UTF-8"

	environment, err := BuildSafe(1000, sources)
	if err != nil {
		t.Fatalf("BuildSafe: %v", err)
	}

	want := []string{
		"PATH=/bin",
		"LOGNAME=alice",
		"USER=alice",
		"HOME=/home/alice",
		"SHELL=/bin/zsh",
		"MAIL=/var/spool/mail/alice",
		"TERM=dumb",
		"LANG=C.UTF-8",
	}
	if !slices.Equal(environment, want) {
		t.Errorf("BuildSafe:\n got %q\nwant %q", environment, want)
	}
}

func TestBuildSafeAllowList(t *testing.T) {
	t.Parallel()

	sources := newSources(t, "PATH=/bin\x00")
	sources.Caller = []string{
		"LD_PRELOAD=evil",
		"LD_LIBRARY_PATH=/tmp",
		"PYTHONPATH=/tmp",
		"BASH_ENV=/tmp/x",
		"PERL5OPT=-Mevil",
		"GCONV_PATH=/tmp",
		"NLSPATH=/tmp/%N",
		"LANGUAGE=en",
		"LS_COLORS=di=34",
		"LC_ALL=C",
		"LC_=odd",
		"TZ=UTC",
		"TZ=Asia/Tokyo",
		"NOEQUALS",
		"=empty",
		"EXTRA=kept",
		"SHELL=/tmp/sh",
	}

	environment, err := BuildSafe(0, sources)
	if err != nil {
		t.Fatalf("BuildSafe: %v", err)
	}

	allowed := map[string]bool{
		"PATH": true, "LOGNAME": true, "USER": true, "HOME": true,
		"SHELL": true, "MAIL": true, "TERM": true, "LANG": true,
		"LANGUAGE": true, "TZ": true, "LS_COLORS": true,
	}
	seen := make(map[string]bool)
	for _, key := range keys(environment) {
		if seen[key] {
			t.Errorf("duplicate key %q in %q", key, environment)
		}
		seen[key] = true
		if !allowed[key] && !strings.HasPrefix(key, "LC_") {
			t.Errorf("unexpected key %q in safe environment", key)
		}
	}

	if slices.Contains(environment, "LD_PRELOAD=evil") {
		t.Error("LD_PRELOAD leaked into safe environment")
	}
	if !slices.Contains(environment, "TZ=UTC") {
		t.Errorf("expected first TZ to win, got %q", environment)
	}
	if !slices.Contains(environment, "SHELL=/bin/bash") || slices.Contains(environment, "SHELL=/tmp/sh") {
		t.Errorf("caller must not override SHELL, got %q", environment)
	}
	for _, key := range []string{"EXTRA", "PYTHONPATH", "BASH_ENV", "PERL5OPT", "GCONV_PATH", "NLSPATH"} {
		if seen[key] {
			t.Errorf("%s copied from the caller into the safe environment", key)
		}
	}
}

func TestBuildSafeReadsThroughFileSystem(t *testing.T) {
	t.Parallel()

	sources := newSources(t, "PATH=/bin\x00")
	tree := sources.FileSystem.(*testutil.FS)
	tree.File(t, "/etc/passwd.alt", 0, 0, 0644, "operator:x:0:0::/var/operator:/bin/sh\n")
	sources.Passwd = "/etc/passwd.alt"

	environment, err := BuildSafe(0, sources)
	if err != nil {
		t.Fatalf("BuildSafe: %v", err)
	}
	if !slices.Contains(environment, "USER=operator") || !slices.Contains(environment, "HOME=/var/operator") {
		t.Errorf("account not taken from the configured passwd file: %q", environment)
	}
	if opened := tree.Opened(); !slices.Equal(opened, []string{"/etc/passwd.alt", DefaultInitEnviron}) {
		t.Errorf("opened %q, want the passwd file then the init environment", opened)
	}
}

func TestBuildSafeMissingPasswd(t *testing.T) {
	t.Parallel()

	sources := newSources(t, "PATH=/bin\x00")
	sources.Passwd = "/etc/missing"
	if _, err := BuildSafe(0, sources); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("BuildSafe: error = %v, want ErrUnknownUser", err)
	}
}

func TestBuildSafeUnknownUser(t *testing.T) {
	t.Parallel()

	sources := newSources(t, "PATH=/bin\x00")
	_, err := BuildSafe(4242, sources)
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("BuildSafe(4242): error = %v, want ErrUnknownUser", err)
	}
}

func TestBuildSafeTrustedPath(t *testing.T) {
	t.Parallel()

	t.Run("missing PATH", func(t *testing.T) {
		t.Parallel()
		sources := newSources(t, "HOME=/\x00")
		sources.Caller = []string{"PATH=/tmp/evil"}
		if _, err := BuildSafe(0, sources); !errors.Is(err, ErrTrustedPath) {
			t.Fatalf("BuildSafe: error = %v, want ErrTrustedPath", err)
		}
	})

	t.Run("unreadable block", func(t *testing.T) {
		t.Parallel()
		sources := newSources(t, "")
		sources.InitEnviron = "/proc/1/missing"
		if _, err := BuildSafe(0, sources); !errors.Is(err, ErrTrustedPath) {
			t.Fatalf("BuildSafe: error = %v, want ErrTrustedPath", err)
		}
	})

	t.Run("PATH prefix only", func(t *testing.T) {
		t.Parallel()
		sources := newSources(t, "XPATH=/tmp\x00PATH=/usr/bin\x00")
		environment, err := BuildSafe(0, sources)
		if err != nil {
			t.Fatalf("BuildSafe: %v", err)
		}
		if environment[0] != "PATH=/usr/bin" {
			t.Errorf("PATH = %q, want PATH=/usr/bin", environment[0])
		}
	})
}

func TestBuild(t *testing.T) {
	t.Parallel()

	sources := newSources(t, "PATH=/bin\x00")
	sources.Caller = []string{"A=1", "LD_PRELOAD=evil", "A=2"}

	t.Run("none", func(t *testing.T) {
		t.Parallel()
		environment, err := Build(None, 0, sources)
		if err != nil {
			t.Fatalf("Build(None): %v", err)
		}
		if environment == nil || len(environment) != 0 {
			t.Errorf("Build(None) = %#v, want empty non-nil slice", environment)
		}
	})

	t.Run("all", func(t *testing.T) {
		t.Parallel()
		environment, err := Build(All, 0, sources)
		if err != nil {
			t.Fatalf("Build(All): %v", err)
		}
		if !slices.Equal(environment, sources.Caller) {
			t.Errorf("Build(All) = %q, want %q", environment, sources.Caller)
		}
		environment[0] = "mutated"
		if sources.Caller[0] != "A=1" {
			t.Error("Build(All) must copy the caller environment")
		}
	})

	t.Run("safe", func(t *testing.T) {
		t.Parallel()
		environment, err := Build(Safe, 0, sources)
		if err != nil {
			t.Fatalf("Build(Safe): %v", err)
		}
		if slices.Contains(environment, "LD_PRELOAD=evil") {
			t.Error("Build(Safe) leaked LD_PRELOAD")
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		t.Parallel()
		if _, err := Build(Policy(42), 0, sources); err == nil {
			t.Error("Build(Policy(42)) should fail")
		}
	})
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		want    Policy
		wantErr bool
	}{
		{"safe", Safe, false},
		{"none", None, false},
		{"all", All, false},
		{"", Safe, true},
		{"SAFE", Safe, true},
		{"everything", Safe, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePolicy(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParsePolicy(%q): error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParsePolicy(%q) = %v, want %v", tc.input, got, tc.want)
			}
			if !tc.wantErr && got.String() != tc.input {
				t.Errorf("%v.String() = %q, want %q", got, got.String(), tc.input)
			}
		})
	}
}

func TestPolicySet(t *testing.T) {
	t.Parallel()

	policy := Safe
	if err := policy.Set("none"); err != nil {
		t.Fatalf("Set(none): %v", err)
	}
	if policy != None {
		t.Errorf("policy = %v, want none", policy)
	}
	if err := policy.Set("bogus"); err == nil {
		t.Error("Set(bogus) should fail")
	}
	if policy != None {
		t.Errorf("failed Set changed policy to %v", policy)
	}
	if policy.Type() != "policy" {
		t.Errorf("Type() = %q", policy.Type())
	}
}

func TestReserved(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"PATH", "HOME", "SHELL", "MAIL", "LANG", "TERM", "USER", "LOGNAME"} {
		if !Reserved(name) {
			t.Errorf("Reserved(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"TZ", "LC_ALL", "LD_PRELOAD", "path", ""} {
		if Reserved(name) {
			t.Errorf("Reserved(%q) = true, want false", name)
		}
	}
}
