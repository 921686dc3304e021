// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared helpers for ICS Connect tests:
// channel operations with timeout safety valves so tests never hang
// on a blocked receive.
package testutil
