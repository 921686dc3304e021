// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package connectui

import (
	"testing"

	"github.com/ics-connect/connect/lib/wire"
)

func TestStatusColor(t *testing.T) {
	theme := DefaultTheme

	if got := theme.StatusColor(wire.StatusConfirmed); got != theme.StatusConfirmed {
		t.Errorf("confirmed color = %v", got)
	}
	if got := theme.StatusColor(wire.StatusWaitlisted); got != theme.StatusWaitlisted {
		t.Errorf("waitlisted color = %v", got)
	}
	if got := theme.StatusColor(wire.StatusCanceled); got != theme.StatusCanceled {
		t.Errorf("canceled color = %v", got)
	}
	if got := theme.StatusColor(wire.ReservationStatus("unknown")); got != theme.FaintText {
		t.Errorf("unknown status color = %v, want FaintText", got)
	}
}
