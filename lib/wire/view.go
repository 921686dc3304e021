// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrInvalidInstant is wrapped by ToEventView when a wire event
// carries an unparseable starts_at or ends_at value. Callers branch
// with errors.Is.
var ErrInvalidInstant = errors.New("invalid event instant")

// EventView is the validated, language-native representation of a
// wire Event: instants parsed, list fields copied.
type EventView struct {
	ID               string
	Title            string
	Description      *string
	Type             *string
	StartsAt         time.Time
	EndsAt           time.Time
	LocationText     *string
	DiscordLink      *string
	WebsiteLink      *string
	Tags             []string
	Public           bool
	Capacity         int
	ConfirmedCount   int
	WaitlistCount    int
	RequiresJoinCode bool
}

// ToEventView converts a validated wire Event into an EventView. The
// two instant strings must parse as ISO-8601; an unparseable instant
// fails the conversion rather than producing a zero or garbage time.
func ToEventView(w Event) (EventView, error) {
	starts, err := parseInstant(w.StartsAt)
	if err != nil {
		return EventView{}, fmt.Errorf("event %s: starts_at %q: %w", w.ID, w.StartsAt, err)
	}
	ends, err := parseInstant(w.EndsAt)
	if err != nil {
		return EventView{}, fmt.Errorf("event %s: ends_at %q: %w", w.ID, w.EndsAt, err)
	}
	return EventView{
		ID:               w.ID,
		Title:            w.Title,
		Description:      w.Description,
		Type:             w.Type,
		StartsAt:         starts,
		EndsAt:           ends,
		LocationText:     w.LocationText,
		DiscordLink:      w.DiscordLink,
		WebsiteLink:      w.WebsiteLink,
		Tags:             slices.Clone(w.Tags),
		Public:           w.Public,
		Capacity:         w.Capacity,
		ConfirmedCount:   w.ConfirmedCount,
		WaitlistCount:    w.WaitlistCount,
		RequiresJoinCode: w.RequiresJoinCode,
	}, nil
}

// parseInstant accepts RFC 3339 with or without fractional seconds,
// plus the date-only form some datetime inputs produce.
func parseInstant(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidInstant
}
