// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hostfs is the filesystem seam between the trust checks and the
// host. [Host] talks to the kernel through golang.org/x/sys/unix; tests
// substitute the fake tree in lib/testutil.
package hostfs

import (
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// File is an open file whose metadata comes from the descriptor itself,
// so the bytes read and the mode reported belong to the same inode.
type File interface {
	io.ReadCloser
	Stat() (*unix.Stat_t, error)
}

// FileSystem is the set of filesystem queries the launcher makes.
type FileSystem interface {
	// Open opens name read-only, following symlinks.
	Open(name string) (File, error)

	// Stat follows symlinks.
	Stat(name string) (*unix.Stat_t, error)

	// Lstat does not follow a symlink in the final component.
	Lstat(name string) (*unix.Stat_t, error)

	// Getwd returns the absolute working directory.
	Getwd() (string, error)

	// EvalSymlinks returns the absolute canonical form of name.
	EvalSymlinks(name string) (string, error)
}

// Host is the real filesystem.
type Host struct{}

var _ FileSystem = Host{}

func (Host) Open(name string) (File, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return hostFile{file: file}, nil
}

func (Host) Stat(name string) (*unix.Stat_t, error) {
	var stat unix.Stat_t
	if err := unix.Stat(name, &stat); err != nil {
		return nil, &os.PathError{Op: "stat", Path: name, Err: err}
	}
	return &stat, nil
}

func (Host) Lstat(name string) (*unix.Stat_t, error) {
	var stat unix.Stat_t
	if err := unix.Lstat(name, &stat); err != nil {
		return nil, &os.PathError{Op: "lstat", Path: name, Err: err}
	}
	return &stat, nil
}

func (Host) Getwd() (string, error) {
	return os.Getwd()
}

func (Host) EvalSymlinks(name string) (string, error) {
	resolved, err := filepath.EvalSymlinks(name)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

type hostFile struct {
	file *os.File
}

func (f hostFile) Read(p []byte) (int, error) {
	return f.file.Read(p)
}

func (f hostFile) Close() error {
	return f.file.Close()
}

func (f hostFile) Stat() (*unix.Stat_t, error) {
	var stat unix.Stat_t
	if err := unix.Fstat(int(f.file.Fd()), &stat); err != nil {
		return nil, &os.PathError{Op: "fstat", Path: f.file.Name(), Err: err}
	}
	return &stat, nil
}
