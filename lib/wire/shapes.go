// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"fmt"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	// StatusConfirmed means the reservation holds a seat.
	StatusConfirmed ReservationStatus = "confirmed"
	// StatusWaitlisted means the event was at capacity and the
	// reservation is queued.
	StatusWaitlisted ReservationStatus = "waitlisted"
	// StatusCanceled means the reservation was canceled.
	StatusCanceled ReservationStatus = "canceled"
)

// OK is the health check response.
type OK struct {
	Ok bool
}

// Event is a campus event as the server describes it. The client
// renders whatever the server returns; in particular
// ConfirmedCount+WaitlistCount <= Capacity is NOT assumed to hold.
type Event struct {
	ID               string
	Title            string
	Description      *string
	Type             *string
	StartsAt         string // ISO-8601 instant
	EndsAt           string // ISO-8601 instant
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

// SearchResult is a page of events plus the server-side total count.
type SearchResult struct {
	Events []Event
	Total  int
}

// Profile identifies an authenticated user.
type Profile struct {
	ID          string
	Email       string
	DisplayName string
}

// AuthResponse is the login result: a profile and a session token.
type AuthResponse struct {
	Profile Profile
	Token   string
}

// Reservation is one user's reservation for one event.
type Reservation struct {
	ID          string
	EventID     string
	DisplayName string
	Email       *string
	Status      ReservationStatus
}

// ReserveResponse is the reserve result: the reservation and an
// event-scoped reservation token.
type ReserveResponse struct {
	Reservation Reservation
	Token       string
}

// CancelResponse confirms a cancellation.
type CancelResponse struct {
	Status ReservationStatus
}

// ParseOK validates a decoded health check response.
func ParseOK(v any) (OK, error) {
	obj, err := asObject("ok response", v)
	if err != nil {
		return OK{}, err
	}
	if obj["ok"] != true {
		return OK{}, fmt.Errorf("ok response: ok must be exactly true")
	}
	return OK{Ok: true}, nil
}

// ParseEvent validates a decoded event record.
func ParseEvent(v any) (Event, error) {
	const shape = "event"
	obj, err := asObject(shape, v)
	if err != nil {
		return Event{}, err
	}
	var event Event
	if event.ID, err = stringField(shape, obj, "id"); err != nil {
		return Event{}, err
	}
	if event.Title, err = stringField(shape, obj, "title"); err != nil {
		return Event{}, err
	}
	if event.Description, err = nullableStringField(shape, obj, "description"); err != nil {
		return Event{}, err
	}
	if event.Type, err = nullableStringField(shape, obj, "type"); err != nil {
		return Event{}, err
	}
	if event.StartsAt, err = stringField(shape, obj, "starts_at"); err != nil {
		return Event{}, err
	}
	if event.EndsAt, err = stringField(shape, obj, "ends_at"); err != nil {
		return Event{}, err
	}
	if event.LocationText, err = nullableStringField(shape, obj, "location_text"); err != nil {
		return Event{}, err
	}
	if event.DiscordLink, err = nullableStringField(shape, obj, "discord_link"); err != nil {
		return Event{}, err
	}
	if event.WebsiteLink, err = nullableStringField(shape, obj, "website_link"); err != nil {
		return Event{}, err
	}
	if event.Tags, err = stringSliceField(shape, obj, "tags"); err != nil {
		return Event{}, err
	}
	if event.Public, err = boolField(shape, obj, "public"); err != nil {
		return Event{}, err
	}
	if event.Capacity, err = intField(shape, obj, "capacity"); err != nil {
		return Event{}, err
	}
	if event.ConfirmedCount, err = intField(shape, obj, "confirmed_count"); err != nil {
		return Event{}, err
	}
	if event.WaitlistCount, err = intField(shape, obj, "waitlist_count"); err != nil {
		return Event{}, err
	}
	if event.RequiresJoinCode, err = boolField(shape, obj, "requires_join_code"); err != nil {
		return Event{}, err
	}
	return event, nil
}

// ParseSearchResult validates a decoded search page.
func ParseSearchResult(v any) (SearchResult, error) {
	const shape = "search result"
	obj, err := asObject(shape, v)
	if err != nil {
		return SearchResult{}, err
	}
	rawEvents, present := obj["events"]
	if !present {
		return SearchResult{}, fmt.Errorf("%s: events is required", shape)
	}
	items, ok := rawEvents.([]any)
	if !ok {
		return SearchResult{}, fmt.Errorf("%s: events must be an array, got %T", shape, rawEvents)
	}
	result := SearchResult{Events: make([]Event, len(items))}
	for i, item := range items {
		event, err := ParseEvent(item)
		if err != nil {
			return SearchResult{}, fmt.Errorf("%s: events[%d]: %w", shape, i, err)
		}
		result.Events[i] = event
	}
	if result.Total, err = intField(shape, obj, "total"); err != nil {
		return SearchResult{}, err
	}
	return result, nil
}

// ParseProfile validates a decoded profile record.
func ParseProfile(v any) (Profile, error) {
	const shape = "profile"
	obj, err := asObject(shape, v)
	if err != nil {
		return Profile{}, err
	}
	var profile Profile
	if profile.ID, err = stringField(shape, obj, "id"); err != nil {
		return Profile{}, err
	}
	if profile.Email, err = stringField(shape, obj, "email"); err != nil {
		return Profile{}, err
	}
	if profile.DisplayName, err = stringField(shape, obj, "display_name"); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// ParseAuthResponse validates a decoded login response.
func ParseAuthResponse(v any) (AuthResponse, error) {
	const shape = "auth response"
	obj, err := asObject(shape, v)
	if err != nil {
		return AuthResponse{}, err
	}
	rawProfile, present := obj["profile"]
	if !present {
		return AuthResponse{}, fmt.Errorf("%s: profile is required", shape)
	}
	var response AuthResponse
	if response.Profile, err = ParseProfile(rawProfile); err != nil {
		return AuthResponse{}, fmt.Errorf("%s: %w", shape, err)
	}
	if response.Token, err = stringField(shape, obj, "token"); err != nil {
		return AuthResponse{}, err
	}
	return response, nil
}

// ParseReservation validates a decoded reservation record.
func ParseReservation(v any) (Reservation, error) {
	const shape = "reservation"
	obj, err := asObject(shape, v)
	if err != nil {
		return Reservation{}, err
	}
	var reservation Reservation
	if reservation.ID, err = stringField(shape, obj, "id"); err != nil {
		return Reservation{}, err
	}
	if reservation.EventID, err = stringField(shape, obj, "event_id"); err != nil {
		return Reservation{}, err
	}
	if reservation.DisplayName, err = stringField(shape, obj, "display_name"); err != nil {
		return Reservation{}, err
	}
	if reservation.Email, err = nullableStringField(shape, obj, "email"); err != nil {
		return Reservation{}, err
	}
	status, err := stringField(shape, obj, "status")
	if err != nil {
		return Reservation{}, err
	}
	switch ReservationStatus(status) {
	case StatusConfirmed, StatusWaitlisted, StatusCanceled:
		reservation.Status = ReservationStatus(status)
	default:
		return Reservation{}, fmt.Errorf("%s: unknown status %q", shape, status)
	}
	return reservation, nil
}

// ParseReserveResponse validates a decoded reserve response.
func ParseReserveResponse(v any) (ReserveResponse, error) {
	const shape = "reserve response"
	obj, err := asObject(shape, v)
	if err != nil {
		return ReserveResponse{}, err
	}
	rawReservation, present := obj["reservation"]
	if !present {
		return ReserveResponse{}, fmt.Errorf("%s: reservation is required", shape)
	}
	var response ReserveResponse
	if response.Reservation, err = ParseReservation(rawReservation); err != nil {
		return ReserveResponse{}, fmt.Errorf("%s: %w", shape, err)
	}
	if response.Token, err = stringField(shape, obj, "token"); err != nil {
		return ReserveResponse{}, err
	}
	return response, nil
}

// ParseCancelResponse validates a decoded cancel response. The server
// confirms cancellation with the literal status "canceled"; anything
// else is a shape error.
func ParseCancelResponse(v any) (CancelResponse, error) {
	const shape = "cancel response"
	obj, err := asObject(shape, v)
	if err != nil {
		return CancelResponse{}, err
	}
	status, err := stringField(shape, obj, "status")
	if err != nil {
		return CancelResponse{}, err
	}
	if ReservationStatus(status) != StatusCanceled {
		return CancelResponse{}, fmt.Errorf("%s: status must be %q, got %q", shape, StatusCanceled, status)
	}
	return CancelResponse{Status: StatusCanceled}, nil
}
