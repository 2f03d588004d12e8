// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mounts

import "strings"

// Unmangle decodes the octal escapes the kernel writes for space, tab,
// newline and backslash in mount table fields.
func Unmangle(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	decoded := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+3 < len(s) &&
			(s[i+1] == '0' || s[i+1] == '1') &&
			isOctal(s[i+2]) && isOctal(s[i+3]) {
			c = (s[i+1]-'0')<<6 | (s[i+2]-'0')<<3 | (s[i+3] - '0')
			i += 3
		}
		decoded = append(decoded, c)
	}
	return string(decoded)
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}
