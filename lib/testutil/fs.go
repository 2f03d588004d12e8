// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/execsuid/lib/hostfs"
)

// maxSymlinks matches the kernel's MAXSYMLINKS.
const maxSymlinks = 40

// Entry is one node of the fake tree.
type Entry struct {
	UID  uint32
	GID  uint32
	Mode uint32

	// Content is the file body for regular files.
	Content string

	// Target is the link target for symlinks.
	Target string
}

// FS is an in-memory filesystem rooted at "/". Paths are resolved
// component by component the way the kernel does, including relative
// and absolute symlink targets.
type FS struct {
	mu      sync.Mutex
	cwd     string
	entries map[string]Entry
	opened  []string
}

var _ hostfs.FileSystem = (*FS)(nil)

// NewFS returns a tree containing only a root-owned "/" with the given
// working directory, which must be absolute. The working directory
// itself is not created.
func NewFS(cwd string) *FS {
	return &FS{
		cwd: cwd,
		entries: map[string]Entry{
			"/": {Mode: unix.S_IFDIR | 0755},
		},
	}
}

// Dir creates the directory name and any missing ancestors, all owned
// by uid.
func (f *FS) Dir(t *testing.T, name string, uid uint32) *FS {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	current := "/"
	for _, part := range split(name) {
		current = path.Join(current, part)
		if existing, ok := f.entries[current]; ok {
			if existing.Mode&unix.S_IFMT != unix.S_IFDIR {
				t.Fatalf("testutil.FS: %s exists and is not a directory", current)
			}
			continue
		}
		f.entries[current] = Entry{UID: uid, GID: uid, Mode: unix.S_IFDIR | 0755}
	}
	return f
}

// Chown changes the owner of an existing entry without following
// symlinks.
func (f *FS) Chown(t *testing.T, name string, uid uint32) *FS {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[path.Clean(name)]
	if !ok {
		t.Fatalf("testutil.FS: chown of missing %s", name)
	}
	entry.UID = uid
	f.entries[path.Clean(name)] = entry
	return f
}

// File creates a regular file. perm may include the set-user-id and
// set-group-id bits. The parent directory must exist.
func (f *FS) File(t *testing.T, name string, uid, gid, perm uint32, content string) *FS {
	t.Helper()
	f.put(t, name, Entry{UID: uid, GID: gid, Mode: unix.S_IFREG | perm, Content: content})
	return f
}

// Symlink creates a symlink owned by uid pointing at target.
func (f *FS) Symlink(t *testing.T, name, target string, uid uint32) *FS {
	t.Helper()
	f.put(t, name, Entry{UID: uid, GID: uid, Mode: unix.S_IFLNK | 0777, Target: target})
	return f
}

// Remove deletes an entry, simulating a concurrent unlink.
func (f *FS) Remove(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, path.Clean(name))
}

// Opened returns the paths passed to Open, in order.
func (f *FS) Opened() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.opened...)
}

func (f *FS) put(t *testing.T, name string, entry Entry) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	name = path.Clean(name)
	parent, ok := f.entries[path.Dir(name)]
	if !ok || parent.Mode&unix.S_IFMT != unix.S_IFDIR {
		t.Fatalf("testutil.FS: parent of %s is not a directory", name)
	}
	f.entries[name] = entry
}

func (f *FS) Open(name string) (hostfs.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.opened = append(f.opened, name)
	resolved, err := f.resolve(name, true)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	entry := f.entries[resolved]
	if entry.Mode&unix.S_IFMT == unix.S_IFDIR {
		return nil, &os.PathError{Op: "read", Path: name, Err: unix.EISDIR}
	}
	return &file{Reader: strings.NewReader(entry.Content), stat: stat(entry)}, nil
}

func (f *FS) Stat(name string) (*unix.Stat_t, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	resolved, err := f.resolve(name, true)
	if err != nil {
		return nil, &os.PathError{Op: "stat", Path: name, Err: err}
	}
	return stat(f.entries[resolved]), nil
}

func (f *FS) Lstat(name string) (*unix.Stat_t, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	resolved, err := f.resolve(name, false)
	if err != nil {
		return nil, &os.PathError{Op: "lstat", Path: name, Err: err}
	}
	return stat(f.entries[resolved]), nil
}

func (f *FS) Getwd() (string, error) {
	return f.cwd, nil
}

func (f *FS) EvalSymlinks(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	resolved, err := f.resolve(name, true)
	if err != nil {
		return "", &os.PathError{Op: "lstat", Path: name, Err: err}
	}
	return resolved, nil
}

// resolve walks name from the root and returns the key of the entry it
// names. With follow unset, a symlink in the final component is
// returned as is.
func (f *FS) resolve(name string, follow bool) (string, error) {
	if !path.IsAbs(name) {
		name = path.Join(f.cwd, name)
	}

	pending := split(name)
	current := "/"
	hops := 0
	for len(pending) > 0 {
		part := pending[0]
		pending = pending[1:]

		switch part {
		case ".":
			continue
		case "..":
			current = path.Dir(current)
			continue
		}

		next := path.Join(current, part)
		entry, ok := f.entries[next]
		if !ok {
			return "", fs.ErrNotExist
		}

		if entry.Mode&unix.S_IFMT == unix.S_IFLNK && (follow || len(pending) > 0) {
			hops++
			if hops > maxSymlinks {
				return "", unix.ELOOP
			}
			if path.IsAbs(entry.Target) {
				current = "/"
			}
			pending = append(split(entry.Target), pending...)
			continue
		}

		if len(pending) > 0 && entry.Mode&unix.S_IFMT != unix.S_IFDIR {
			return "", unix.ENOTDIR
		}
		current = next
	}
	return current, nil
}

func split(name string) []string {
	var parts []string
	for _, part := range strings.Split(name, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func stat(entry Entry) *unix.Stat_t {
	return &unix.Stat_t{
		Uid:  entry.UID,
		Gid:  entry.GID,
		Mode: entry.Mode,
		Size: int64(len(entry.Content)),
	}
}

type file struct {
	io.Reader
	stat *unix.Stat_t
}

func (f *file) Close() error {
	return nil
}

func (f *file) Stat() (*unix.Stat_t, error) {
	return f.stat, nil
}
