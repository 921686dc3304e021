// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package app

import "testing"

func TestIsUCIEmail(t *testing.T) {
	t.Parallel()
	for _, tt := range []struct {
		email string
		want  bool
	}{
		{"alice@uci.edu", true},
		{"Alice@UCI.EDU", true},
		{"  alice@uci.edu  ", true},
		{"a.b-c+d@uci.edu", true},
		{"", false},
		{"   ", false},
		{"alice@gmail.com", false},
		{"alice@uci.edu.evil.com", false},
		{"alice@sub.uci.edu", false},
		{"@uci.edu", false},
		{"alice@", false},
		{"al ice@uci.edu", false},
		{"alice@@uci.edu", false},
		{"uci.edu", false},
	} {
		if got := IsUCIEmail(tt.email); got != tt.want {
			t.Errorf("IsUCIEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}
