// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for the ICS Connect client. The
// application controller computes UTC week and month search bounds
// from an injected Clock rather than calling time.Now directly, so
// date-boundary behavior (ISO week start, December rollover) is
// testable against a pinned fake clock.
package clock
