// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"regexp"
	"strings"
)

var uciEmailPattern = regexp.MustCompile(`^[^@\s]+@uci\.edu$`)

// IsUCIEmail reports whether email is an institutional address:
// exactly one @, the uci.edu domain, no whitespace. Matching is
// case-insensitive and ignores surrounding whitespace; the empty
// string does not match.
func IsUCIEmail(email string) bool {
	v := strings.ToLower(strings.TrimSpace(email))
	if v == "" {
		return false
	}
	return uciEmailPattern.MatchString(v)
}
