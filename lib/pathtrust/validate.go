// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pathtrust

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/execsuid/lib/hostfs"
	"github.com/bureau-foundation/execsuid/lib/mounts"
)

// TrustedOwner is the only uid allowed to own a path component.
const TrustedOwner = 0

var (
	ErrNotFound           = errors.New("no such file or directory")
	ErrUntrustedOwnership = errors.New("file not hierarchically owned by root")
	ErrNoSuidMount        = errors.New("file is in a nosuid mount")
	ErrMountNotFound      = errors.New("file not in any mount")
)

// Config holds configuration for creating a Validator.
type Config struct {
	// FileSystem answers the stat and open calls. Default: hostfs.Host.
	FileSystem hostfs.FileSystem

	// MountTable is the mount table path. Default: /proc/self/mounts.
	MountTable string

	// Logger receives per-step debug records. Default: slog.Default().
	Logger *slog.Logger
}

// Validator checks paths against the filesystem it was created with.
type Validator struct {
	fs         hostfs.FileSystem
	mountTable string
	logger     *slog.Logger
}

// New creates a Validator.
func New(config Config) *Validator {
	filesystem := config.FileSystem
	if filesystem == nil {
		filesystem = hostfs.Host{}
	}
	mountTable := config.MountTable
	if mountTable == "" {
		mountTable = mounts.DefaultTable
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{fs: filesystem, mountTable: mountTable, logger: logger}
}

// Validate runs every check on path: existence, then ownership, then
// mount eligibility.
func (v *Validator) Validate(path string) error {
	if _, err := v.fs.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("%w (%v)", ErrNotFound, err)
	}

	if err := v.CheckOwnership(path); err != nil {
		return err
	}
	if err := v.CheckMount(path); err != nil {
		return err
	}

	v.logger.Debug("path is trusted", "path", path)
	return nil
}

// CheckOwnership lstats every component of the literal absolute form of
// path and fails on the first one not owned by TrustedOwner.
func (v *Validator) CheckOwnership(path string) error {
	var cwd string
	if !filepath.IsAbs(path) {
		var err error
		if cwd, err = v.fs.Getwd(); err != nil {
			return fmt.Errorf("%w: cannot determine working directory: %v", ErrUntrustedOwnership, err)
		}
	}

	for _, component := range Components(path, cwd) {
		stat, err := v.fs.Lstat(component)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s vanished during validation", ErrNotFound, component)
			}
			return fmt.Errorf("%w: cannot stat %s: %v", ErrUntrustedOwnership, component, err)
		}
		if stat.Uid != TrustedOwner {
			return fmt.Errorf("%w: %s is owned by uid %d", ErrUntrustedOwnership, component, stat.Uid)
		}
		v.logger.Debug("component owned by root", "component", component)
	}
	return nil
}

// CheckMount canonicalizes path and fails if the mount holding it
// carries the nosuid option or cannot be found.
func (v *Validator) CheckMount(path string) error {
	canonical, err := v.canonical(path)
	if err != nil {
		return err
	}

	table, err := v.readMountTable()
	if err != nil {
		return err
	}

	record, ok := table.Lookup(canonical)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMountNotFound, canonical)
	}
	v.logger.Debug("found mount",
		"canonical", canonical,
		"mount_point", record.Point,
		"options", strings.Join(record.Options, ","),
	)
	if record.NoSuid() {
		return fmt.Errorf("%w: %s is mounted nosuid", ErrNoSuidMount, record.Point)
	}
	return nil
}

func (v *Validator) canonical(path string) (string, error) {
	canonical, err := v.fs.EvalSymlinks(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: cannot resolve %s: %v", ErrMountNotFound, path, err)
	}
	return canonical, nil
}

func (v *Validator) readMountTable() (mounts.Table, error) {
	file, err := v.fs.Open(v.mountTable)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read mount table: %v", ErrMountNotFound, err)
	}
	defer file.Close()

	table, err := mounts.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse %s: %v", ErrMountNotFound, v.mountTable, err)
	}
	return table, nil
}

// Components returns the literal absolute paths of every component of
// path, starting with "/". A relative path is taken relative to cwd.
// Empty and "." segments are dropped; ".." segments are kept verbatim so
// that each lstat sees exactly the path the kernel would walk.
func Components(path, cwd string) []string {
	full := path
	if !filepath.IsAbs(path) {
		full = cwd + "/" + path
	}

	components := []string{"/"}
	var current string
	for _, part := range strings.Split(full, "/") {
		if part == "" || part == "." {
			continue
		}
		current += "/" + part
		components = append(components, current)
	}
	return components
}
