// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/execsuid/lib/environ"
	"github.com/bureau-foundation/execsuid/lib/hostfs"
	"github.com/bureau-foundation/execsuid/lib/mounts"
)

// DefaultPath is the configuration file read when the build does not
// override it.
const DefaultPath = "/etc/exec-suid.yaml"

// ErrUntrustedConfig is returned for a configuration file that could
// have been written by someone other than root.
var ErrUntrustedConfig = errors.New("configuration file is not trusted")

// Config is the exec-suid configuration.
type Config struct {
	// MountTable is the mount table consulted for nosuid.
	// Default: /proc/self/mounts
	MountTable string `yaml:"mount_table"`

	// InitEnviron is the environment block PATH is taken from under the
	// safe policy.
	// Default: /proc/1/environ
	InitEnviron string `yaml:"init_environ"`

	// Passwd is the account database.
	// Default: /etc/passwd
	Passwd string `yaml:"passwd"`

	// MailDir is the directory MAIL points into.
	// Default: /var/mail
	MailDir string `yaml:"mail_dir"`

	// Environment configures the environment sanitizer.
	Environment EnvironmentConfig `yaml:"environment"`

	// Debug enables debug logging on stderr.
	Debug bool `yaml:"debug"`
}

// EnvironmentConfig configures the environment sanitizer.
type EnvironmentConfig struct {
	// DefaultPolicy applies when a script header has no --environ flag.
	// Values: "safe", "none". "all" must be requested per script.
	// Default: safe
	DefaultPolicy string `yaml:"default_policy"`

	// DefaultTerm is TERM when the caller has none.
	// Default: unknown
	DefaultTerm string `yaml:"default_term"`

	// DefaultLang is LANG when the caller has none.
	// Default: en_US.UTF-8
	DefaultLang string `yaml:"default_lang"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		MountTable:  mounts.DefaultTable,
		InitEnviron: environ.DefaultInitEnviron,
		Passwd:      environ.DefaultPasswd,
		MailDir:     environ.DefaultMailDir,
		Environment: EnvironmentConfig{
			DefaultPolicy: environ.Safe.String(),
			DefaultTerm:   environ.DefaultTerm,
			DefaultLang:   environ.DefaultLang,
		},
	}
}

// Load decodes r over [Default] and validates the result.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CheckMode fails with [ErrUntrustedConfig] unless mode describes a
// regular file without group or other write permission.
func CheckMode(mode uint32) error {
	if mode&unix.S_IFMT != unix.S_IFREG {
		return fmt.Errorf("%w: not a regular file", ErrUntrustedConfig)
	}
	if mode&(unix.S_IWGRP|unix.S_IWOTH) != 0 {
		return fmt.Errorf("%w: writable by group or others (mode %04o)", ErrUntrustedConfig, mode&0o7777)
	}
	return nil
}

// Policy returns the parsed default environment policy.
func (c *Config) Policy() (environ.Policy, error) {
	return environ.ParsePolicy(c.Environment.DefaultPolicy)
}

// Sources returns the environment sources described by c, read through
// filesystem, with the given caller environment.
func (c *Config) Sources(filesystem hostfs.FileSystem, caller []string) environ.Sources {
	return environ.Sources{
		FileSystem:  filesystem,
		Caller:      caller,
		InitEnviron: c.InitEnviron,
		Passwd:      c.Passwd,
		MailDir:     c.MailDir,
		DefaultTerm: c.Environment.DefaultTerm,
		DefaultLang: c.Environment.DefaultLang,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	for _, field := range []struct {
		name  string
		value string
	}{
		{"mount_table", c.MountTable},
		{"init_environ", c.InitEnviron},
		{"passwd", c.Passwd},
		{"mail_dir", c.MailDir},
	} {
		if !filepath.IsAbs(field.value) {
			errs = append(errs, fmt.Errorf("%s must be an absolute path, got %q", field.name, field.value))
		}
	}

	policy, err := c.Policy()
	if err != nil {
		errs = append(errs, fmt.Errorf("environment.default_policy: %w", err))
	} else if policy == environ.All {
		errs = append(errs, fmt.Errorf("environment.default_policy cannot be %q; request it in the script header", environ.All))
	}

	if c.Environment.DefaultTerm == "" {
		errs = append(errs, fmt.Errorf("environment.default_term is required"))
	}
	if c.Environment.DefaultLang == "" {
		errs = append(errs, fmt.Errorf("environment.default_lang is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
