// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/bureau-foundation/execsuid/lib/config"
	"github.com/bureau-foundation/execsuid/lib/hostfs"
	"github.com/bureau-foundation/execsuid/lib/pathtrust"
)

// configPath is set with -ldflags -X main.configPath=... . It is never
// read from the environment or the command line.
var configPath = config.DefaultPath

// loadConfig reads the configuration at path. A missing file yields the
// defaults. A file that exists must be root-owned along its whole path
// and not writable by group or others.
func loadConfig(filesystem hostfs.FileSystem, validator *pathtrust.Validator, path string) (*config.Config, error) {
	file, err := filesystem.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("%w: %v", config.ErrUntrustedConfig, err)
	}
	defer file.Close()

	if err := validator.CheckOwnership(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", config.ErrUntrustedConfig, path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", config.ErrUntrustedConfig, path, err)
	}
	if stat.Uid != pathtrust.TrustedOwner {
		return nil, fmt.Errorf("%w: %s is owned by uid %d", config.ErrUntrustedConfig, path, stat.Uid)
	}
	if err := config.CheckMode(stat.Mode); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg, err := config.Load(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
