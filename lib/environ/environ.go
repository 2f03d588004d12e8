// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package environ

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/moby/sys/user"

	"github.com/bureau-foundation/execsuid/lib/hostfs"
)

// Defaults for Sources fields left empty.
const (
	DefaultInitEnviron = "/proc/1/environ"
	DefaultPasswd      = "/etc/passwd"
	DefaultMailDir     = "/var/mail"
	DefaultTerm        = "unknown"
	DefaultLang        = "en_US.UTF-8"
)

// localePrefix marks locale category variables copied from the caller.
const localePrefix = "LC_"

var (
	// ErrUnknownUser is returned when the target uid has no account.
	ErrUnknownUser = errors.New("unknown user")

	// ErrTrustedPath is returned when PATH cannot be taken from the
	// init process's environment.
	ErrTrustedPath = errors.New("trusted PATH unavailable")
)

// passthrough lists caller variables the safe policy copies verbatim,
// in addition to any LC_* variable.
var passthrough = []string{"LANGUAGE", "TZ", "LS_COLORS"}

// reserved lists variables the safe policy always sets itself.
var reserved = []string{"PATH", "LOGNAME", "USER", "HOME", "SHELL", "MAIL", "TERM", "LANG"}

// Sources describes where environment values come from.
type Sources struct {
	// FileSystem reads the account database and the init environment
	// block. Default: hostfs.Host.
	FileSystem hostfs.FileSystem

	// Caller is the caller's environment as KEY=VALUE entries.
	Caller []string

	// InitEnviron is the init process's NUL-separated environment
	// block. Default: /proc/1/environ.
	InitEnviron string

	// Passwd is the account database. Default: /etc/passwd.
	Passwd string

	// MailDir is the parent of per-user mailboxes. Default: /var/mail.
	MailDir string

	// DefaultTerm and DefaultLang replace TERM and LANG when the caller
	// does not set them.
	DefaultTerm string
	DefaultLang string
}

// Build constructs the environment for policy. uid is the effective uid
// the interpreter will run as; only the safe policy uses it.
func Build(policy Policy, uid int, sources Sources) ([]string, error) {
	switch policy {
	case None:
		return []string{}, nil
	case All:
		return slices.Clone(sources.Caller), nil
	case Safe:
		return BuildSafe(uid, sources)
	}
	return nil, fmt.Errorf("unsupported environment policy %v", policy)
}

// BuildSafe constructs the minimal environment for the account owning
// uid.
func BuildSafe(uid int, sources Sources) ([]string, error) {
	filesystem := sources.FileSystem
	if filesystem == nil {
		filesystem = hostfs.Host{}
	}

	account, err := LookupUser(filesystem, orDefault(sources.Passwd, DefaultPasswd), uid)
	if err != nil {
		return nil, err
	}

	trustedPath, err := TrustedPath(filesystem, orDefault(sources.InitEnviron, DefaultInitEnviron))
	if err != nil {
		return nil, err
	}

	caller := index(sources.Caller)
	term, ok := caller.lookup("TERM")
	if !ok {
		term = orDefault(sources.DefaultTerm, DefaultTerm)
	}
	lang, ok := caller.lookup("LANG")
	if !ok {
		lang = orDefault(sources.DefaultLang, DefaultLang)
	}

	environment := []string{
		"PATH=" + trustedPath,
		"LOGNAME=" + account.Name,
		"USER=" + account.Name,
		"HOME=" + account.Home,
		"SHELL=" + account.Shell,
		"MAIL=" + path.Join(orDefault(sources.MailDir, DefaultMailDir), account.Name),
		"TERM=" + term,
		"LANG=" + lang,
	}

	for _, key := range caller.keys {
		if !copyable(key) {
			continue
		}
		value, _ := caller.lookup(key)
		environment = append(environment, key+"="+value)
	}

	return environment, nil
}

// LookupUser returns the first account in the passwd file at passwdPath
// whose uid is uid.
func LookupUser(filesystem hostfs.FileSystem, passwdPath string, uid int) (user.User, error) {
	file, err := filesystem.Open(passwdPath)
	if err != nil {
		return user.User{}, fmt.Errorf("%w: uid %d: %v", ErrUnknownUser, uid, err)
	}
	defer file.Close()

	accounts, err := user.ParsePasswdFilter(file, func(account user.User) bool {
		return account.Uid == uid
	})
	if err != nil {
		return user.User{}, fmt.Errorf("%w: uid %d: %v", ErrUnknownUser, uid, err)
	}
	if len(accounts) == 0 {
		return user.User{}, fmt.Errorf("%w: no account for uid %d", ErrUnknownUser, uid)
	}
	return accounts[0], nil
}

// TrustedPath returns the PATH value from the NUL-separated environment
// block at environPath.
func TrustedPath(filesystem hostfs.FileSystem, environPath string) (string, error) {
	file, err := filesystem.Open(environPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTrustedPath, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrTrustedPath, environPath, err)
	}
	for _, entry := range bytes.Split(data, []byte{0}) {
		if value, ok := bytes.CutPrefix(entry, []byte("PATH=")); ok {
			return string(value), nil
		}
	}
	return "", fmt.Errorf("%w: PATH not set in %s", ErrTrustedPath, environPath)
}

// Reserved reports whether the safe policy sets name itself, so that a
// caller-supplied value for it is never copied.
func Reserved(name string) bool {
	return slices.Contains(reserved, name)
}

func copyable(key string) bool {
	if Reserved(key) {
		return false
	}
	return slices.Contains(passthrough, key) || strings.HasPrefix(key, localePrefix)
}

// callerEnv indexes KEY=VALUE entries. The first occurrence of a key
// wins, matching os.Getenv.
type callerEnv struct {
	keys   []string
	values map[string]string
}

func index(entries []string) callerEnv {
	env := callerEnv{values: make(map[string]string, len(entries))}
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		if _, seen := env.values[key]; seen {
			continue
		}
		env.keys = append(env.keys, key)
		env.values[key] = value
	}
	return env
}

func (e callerEnv) lookup(key string) (string, bool) {
	value, ok := e.values[key]
	return value, ok
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
