// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"errors"
	"testing"
	"time"
)

func validWireEvent() Event {
	description := "Weekly project meetup"
	location := "DBH 6011"
	return Event{
		ID:             "evt-1",
		Title:          "Hack Night",
		Description:    &description,
		StartsAt:       "2026-03-04T18:00:00Z",
		EndsAt:         "2026-03-04T20:00:00.500Z",
		LocationText:   &location,
		Tags:           []string{"club", "tech"},
		Public:         true,
		Capacity:       50,
		ConfirmedCount: 12,
	}
}

func TestToEventViewParsesInstants(t *testing.T) {
	t.Parallel()

	view, err := ToEventView(validWireEvent())
	if err != nil {
		t.Fatalf("ToEventView: %v", err)
	}
	wantStart := time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC)
	if !view.StartsAt.Equal(wantStart) {
		t.Errorf("StartsAt = %v, want %v", view.StartsAt, wantStart)
	}
	wantEnd := time.Date(2026, 3, 4, 20, 0, 0, 500_000_000, time.UTC)
	if !view.EndsAt.Equal(wantEnd) {
		t.Errorf("EndsAt = %v, want %v", view.EndsAt, wantEnd)
	}
}

func TestToEventViewRejectsInvalidInstants(t *testing.T) {
	t.Parallel()

	bad := validWireEvent()
	bad.StartsAt = "not-a-date"
	if _, err := ToEventView(bad); !errors.Is(err, ErrInvalidInstant) {
		t.Errorf("invalid starts_at: err = %v, want ErrInvalidInstant", err)
	}

	bad = validWireEvent()
	bad.EndsAt = "2026-13-99T00:00:00Z"
	if _, err := ToEventView(bad); !errors.Is(err, ErrInvalidInstant) {
		t.Errorf("invalid ends_at: err = %v, want ErrInvalidInstant", err)
	}
}

func TestToEventViewCopiesTags(t *testing.T) {
	t.Parallel()

	event := validWireEvent()
	view, err := ToEventView(event)
	if err != nil {
		t.Fatalf("ToEventView: %v", err)
	}
	view.Tags[0] = "mutated"
	if event.Tags[0] != "club" {
		t.Error("view tags alias the wire slice")
	}
}

// TestToEventViewRoundTrip checks that every non-instant field passes
// through unchanged.
func TestToEventViewRoundTrip(t *testing.T) {
	t.Parallel()

	event := validWireEvent()
	view, err := ToEventView(event)
	if err != nil {
		t.Fatalf("ToEventView: %v", err)
	}
	if view.ID != event.ID || view.Title != event.Title {
		t.Errorf("identity fields changed: %+v", view)
	}
	if *view.Description != *event.Description || *view.LocationText != *event.LocationText {
		t.Error("nullable fields changed")
	}
	if view.Public != event.Public || view.Capacity != event.Capacity ||
		view.ConfirmedCount != event.ConfirmedCount || view.WaitlistCount != event.WaitlistCount ||
		view.RequiresJoinCode != event.RequiresJoinCode {
		t.Errorf("scalar fields changed: %+v", view)
	}
}
