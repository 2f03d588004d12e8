// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package header

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxLine is the longest first line accepted, newline included.
const MaxLine = 1024

const (
	marker    = "#!"
	separator = "--"
)

// ErrMalformed is wrapped by every error returned from this package.
var ErrMalformed = errors.New("malformed header")

// Directive is the parsed interpreter line.
type Directive struct {
	// Exec is the launcher invocation: the launcher path followed by
	// its flags.
	Exec []string

	// Script is the interpreter command. The script path and the
	// caller's remaining arguments are appended to it at handoff.
	Script []string
}

// Parse reads the first line from r and parses it. At most MaxLine
// bytes are consumed.
func Parse(r io.Reader) (*Directive, error) {
	reader := bufio.NewReaderSize(io.LimitReader(r, MaxLine), MaxLine)

	line, err := reader.ReadBytes('\n')
	switch {
	case err == nil:
		line = bytes.TrimSuffix(line, []byte{'\n'})
	case errors.Is(err, io.EOF):
		if len(line) == MaxLine {
			return nil, fmt.Errorf("%w: header line exceeds %d bytes", ErrMalformed, MaxLine)
		}
		if len(line) == 0 {
			return nil, fmt.Errorf("%w: file is empty", ErrMalformed)
		}
	default:
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformed, err)
	}

	return ParseLine(string(line))
}

// ParseLine parses a single interpreter line, without its newline.
func ParseLine(line string) (*Directive, error) {
	if !strings.HasPrefix(line, marker) {
		return nil, fmt.Errorf("%w: header does not start with %s", ErrMalformed, marker)
	}

	tokens := strings.Fields(line[len(marker):])
	for i, token := range tokens {
		if token != separator {
			continue
		}
		if i == 0 {
			return nil, fmt.Errorf("%w: no launcher before %s separator", ErrMalformed, separator)
		}
		directive := &Directive{
			Exec:   tokens[:i:i],
			Script: tokens[i+1:],
		}
		if len(directive.Script) == 0 {
			return nil, fmt.Errorf("%w: no interpreter after %s separator", ErrMalformed, separator)
		}
		return directive, nil
	}

	return nil, fmt.Errorf("%w: header does not contain a %s separator", ErrMalformed, separator)
}

// Launcher returns the launcher path named by the header, or "" when the
// header names none.
func (d *Directive) Launcher() string {
	if len(d.Exec) == 0 {
		return ""
	}
	return d.Exec[0]
}

// Argv builds the interpreter argument vector: the interpreter command,
// the script path, then the caller's arguments.
func (d *Directive) Argv(scriptPath string, args []string) []string {
	argv := make([]string, 0, len(d.Script)+1+len(args))
	argv = append(argv, d.Script...)
	argv = append(argv, scriptPath)
	return append(argv, args...)
}
