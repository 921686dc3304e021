// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ics-connect/connect/lib/api"
	"github.com/ics-connect/connect/lib/testutil"
	"github.com/ics-connect/connect/lib/wire"
)

// selectEvent drives the fixture to a state with a signed-in session
// and the sample event open in the detail pane.
func (f *fixture) selectEvent(t *testing.T) {
	t.Helper()
	if err := f.store.SetAuthToken("utok"); err != nil {
		t.Fatalf("seeding auth token: %v", err)
	}
	f.mustInit(t)
	link := f.doc.Query("a[href]")
	if link == nil {
		t.Fatal("no result card to open")
	}
	f.doc.Click(link)
}

func TestReserveSuccess(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.selectEvent(t)

	f.setValue("display_name", " Alice ")
	f.setValue("email", "")
	f.submit("rsvp-form")

	f.client.mu.Lock()
	reserves := append([]api.ReserveRequest(nil), f.client.reserves...)
	f.client.mu.Unlock()
	if len(reserves) != 1 {
		t.Fatalf("got %d reserve calls, want 1", len(reserves))
	}
	if reserves[0].DisplayName != "Alice" {
		t.Errorf("display name = %q", reserves[0].DisplayName)
	}
	if reserves[0].Email != nil || reserves[0].JoinCode != nil {
		t.Errorf("empty optional fields must be nil: %+v", reserves[0])
	}

	if tok, _ := f.store.GetReservationToken("e1"); tok != "rtok" {
		t.Errorf("reservation token = %q", tok)
	}
	if got := f.doc.ElementByID("rsvp-result").Text(); got != "Reservation confirmed" {
		t.Errorf("rsvp result = %q", got)
	}
	submitBtn := f.doc.ElementByID("rsvp-form").Query(`button[type="submit"]`)
	if submitBtn.Disabled() {
		t.Error("submit button left disabled after success")
	}
	// The aggregate view now lists the reservation with its cancel row.
	rows := f.doc.QueryAll(`[data-action="cancel-item"]`)
	if len(rows) != 1 {
		t.Fatalf("got %d aggregate rows, want 1", len(rows))
	}
	if id, _ := rows[0].Attr("data-event-id"); id != "e1" {
		t.Errorf("row event id = %q", id)
	}
}

func TestReserveSendsOptionalFields(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.selectEvent(t)

	f.setValue("display_name", "Alice")
	f.setValue("email", "alice@uci.edu")
	f.setValue("join_code", " SECRET ")
	f.submit("rsvp-form")

	f.client.mu.Lock()
	defer f.client.mu.Unlock()
	if len(f.client.reserves) != 1 {
		t.Fatalf("got %d reserve calls, want 1", len(f.client.reserves))
	}
	body := f.client.reserves[0]
	if body.Email == nil || *body.Email != "alice@uci.edu" {
		t.Errorf("email = %v", body.Email)
	}
	if body.JoinCode == nil || *body.JoinCode != "SECRET" {
		t.Errorf("join code = %v", body.JoinCode)
	}
}

func TestReserveRequiresSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.mustInit(t)
	f.doc.Click(f.doc.Query("a[href]"))

	f.setValue("display_name", "Alice")
	f.submit("rsvp-form")

	if got := f.client.reserveCount(); got != 0 {
		t.Fatalf("unauthenticated submit issued %d reserves", got)
	}
	text, visible := f.bannerText(t)
	if !visible || text != "Please sign in to reserve" {
		t.Fatalf("banner = %q visible=%v", text, visible)
	}
	if f.doc.ElementByID("rsvp-form").Query(`button[type="submit"]`).Disabled() {
		t.Fatal("submit button left disabled after guard")
	}
}

func TestReserveRequiresSelectedEvent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.store.SetAuthToken("utok")
	f.mustInit(t)

	f.setValue("display_name", "Alice")
	f.submit("rsvp-form")

	if got := f.client.reserveCount(); got != 0 {
		t.Fatalf("submit without a selected event issued %d reserves", got)
	}
	if _, visible := f.bannerText(t); visible {
		t.Fatal("no-event guard must stay silent")
	}
	if f.doc.ElementByID("rsvp-form").Query(`button[type="submit"]`).Disabled() {
		t.Fatal("submit button left disabled after guard")
	}
}

func TestReserveRejectsNonUCIEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.selectEvent(t)

	f.setValue("display_name", "Alice")
	f.setValue("email", "alice@gmail.com")
	f.submit("rsvp-form")

	if got := f.client.reserveCount(); got != 0 {
		t.Fatalf("invalid email issued %d reserves", got)
	}
	text, visible := f.bannerText(t)
	if !visible || text != "UCI email (@uci.edu) required" {
		t.Fatalf("banner = %q visible=%v", text, visible)
	}
}

func TestReserveFailureShowsBanner(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.selectEvent(t)
	f.client.mu.Lock()
	f.client.reserveFn = func(string, api.ReserveRequest) (wire.ReserveResponse, error) {
		return wire.ReserveResponse{}, context.DeadlineExceeded
	}
	f.client.mu.Unlock()

	f.setValue("display_name", "Alice")
	f.submit("rsvp-form")

	text, visible := f.bannerText(t)
	if !visible || text != "RSVP failed" {
		t.Fatalf("banner = %q visible=%v", text, visible)
	}
	if f.doc.ElementByID("rsvp-form").Query(`button[type="submit"]`).Disabled() {
		t.Fatal("submit button left disabled after failure")
	}
	if tok, _ := f.store.GetReservationToken("e1"); tok != "" {
		t.Fatalf("failed reserve stored token %q", tok)
	}
}

func TestReserveDebouncesConcurrentSubmits(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.selectEvent(t)

	block := make(chan struct{})
	started := make(chan struct{})
	f.client.mu.Lock()
	f.client.reserveFn = func(eventID string, _ api.ReserveRequest) (wire.ReserveResponse, error) {
		close(started)
		<-block
		return wire.ReserveResponse{
			Reservation: wire.Reservation{ID: "r1", EventID: eventID, DisplayName: "Alice", Status: wire.StatusConfirmed},
			Token:       "rtok",
		}, nil
	}
	f.client.mu.Unlock()
	f.setValue("display_name", "Alice")

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.submit("rsvp-form")
	}()
	testutil.RequireClosed(t, started, 5*time.Second, "waiting for the first reserve to reach the client")

	// The winner is parked inside the client call; every further
	// submit must hit the in-flight guard and return without a call.
	for range 7 {
		f.submit("rsvp-form")
	}
	if got := f.client.reserveCount(); got != 1 {
		t.Fatalf("submits during an in-flight reserve issued %d calls, want 1", got)
	}

	close(block)
	testutil.RequireClosed(t, done, 5*time.Second, "waiting for the winning reserve to settle")

	if got := f.client.reserveCount(); got != 1 {
		t.Fatalf("got %d reserve calls after release, want 1", got)
	}
	if f.doc.ElementByID("rsvp-form").Query(`button[type="submit"]`).Disabled() {
		t.Fatal("submit button left disabled")
	}
}

func TestCancelCurrentReservation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.selectEvent(t)
	f.store.SetReservationToken("e1", "rtok")

	btn := f.doc.ElementByID("cancel-reservation")
	label := btn.Text()
	f.doc.Click(btn)

	if got := f.client.cancelCount(); got != 1 {
		t.Fatalf("got %d cancel calls, want 1", got)
	}
	if tok, _ := f.store.GetReservationToken("e1"); tok != "" {
		t.Fatalf("token not cleared: %q", tok)
	}
	if btn.Disabled() {
		t.Fatal("cancel button left disabled")
	}
	if got := btn.Text(); got != label {
		t.Fatalf("cancel label = %q, want %q restored", got, label)
	}
}

func TestCancelRequiresSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.mustInit(t)
	f.doc.Click(f.doc.Query("a[href]"))

	f.doc.Click(f.doc.ElementByID("cancel-reservation"))

	if got := f.client.cancelCount(); got != 0 {
		t.Fatalf("unauthenticated cancel issued %d calls", got)
	}
	text, visible := f.bannerText(t)
	if !visible || text != "Please sign in to cancel" {
		t.Fatalf("banner = %q visible=%v", text, visible)
	}
}

func TestCancelWithoutEventShowsEmptyState(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.store.SetAuthToken("utok")
	f.mustInit(t)

	f.doc.Click(f.doc.ElementByID("cancel-reservation"))

	if got := f.client.cancelCount(); got != 0 {
		t.Fatalf("cancel without event issued %d calls", got)
	}
	if got := f.doc.ElementByID("my-reservation").Text(); got != "No reservation yet." {
		t.Fatalf("my reservation = %q", got)
	}
	if !f.doc.ElementByID("cancel-reservation").HasClass("hidden") {
		t.Fatal("cancel button visible in empty state")
	}
}

func TestCancelFailureRestoresButton(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.selectEvent(t)
	f.client.mu.Lock()
	f.client.cancelFn = func(string) (wire.CancelResponse, error) {
		return wire.CancelResponse{}, context.DeadlineExceeded
	}
	f.client.mu.Unlock()

	btn := f.doc.ElementByID("cancel-reservation")
	label := btn.Text()
	f.doc.Click(btn)

	text, visible := f.bannerText(t)
	if !visible || text != "Cancel failed" {
		t.Fatalf("banner = %q visible=%v", text, visible)
	}
	if btn.Disabled() || btn.Text() != label {
		t.Fatalf("button not restored: disabled=%v label=%q", btn.Disabled(), btn.Text())
	}
}

func TestCancelClickWhileInFlightIgnored(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.selectEvent(t)

	block := make(chan struct{})
	started := make(chan struct{})
	f.client.mu.Lock()
	f.client.cancelFn = func(string) (wire.CancelResponse, error) {
		close(started)
		<-block
		return wire.CancelResponse{Status: wire.StatusCanceled}, nil
	}
	f.client.mu.Unlock()

	btn := f.doc.ElementByID("cancel-reservation")
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.doc.Click(btn)
	}()
	testutil.RequireClosed(t, started, 5*time.Second, "waiting for the cancel to reach the client")

	// The button is disabled while the cancel is in flight; further
	// clicks are suppressed and must not duplicate the call.
	if !btn.Disabled() {
		t.Fatal("cancel button enabled while a cancel is in flight")
	}
	f.doc.Click(btn)
	if got := f.client.cancelCount(); got != 1 {
		t.Fatalf("in-flight cancel allowed %d calls, want 1", got)
	}

	close(block)
	testutil.RequireClosed(t, done, 5*time.Second, "waiting for the cancel to settle")
	if got := f.client.cancelCount(); got != 1 {
		t.Fatalf("got %d cancel calls after release, want 1", got)
	}
	if btn.Disabled() {
		t.Fatal("cancel button left disabled")
	}
}

func TestAggregateViewListsStoredReservations(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.store.SetAuthToken("utok")
	f.store.SetReservationToken("e1", "t1")
	f.store.SetReservationToken("e2", "t2")
	f.client.eventFn = func(eventID string) (wire.Event, error) {
		title := map[string]string{"e1": "Event One", "e2": "Event Two"}[eventID]
		return sampleWireEvent(eventID, title), nil
	}
	f.mustInit(t)

	rows := f.doc.QueryAll(`[data-action="cancel-item"]`)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	spans := f.doc.ElementByID("my-reservation").QueryAll("span")
	if len(spans) != 2 {
		t.Fatalf("got %d row labels, want 2", len(spans))
	}
	want := "Event One — Alice (confirmed)"
	if got := spans[0].Text(); got != want {
		t.Fatalf("row text = %q, want %q", got, want)
	}
}

func TestAggregateViewDropsDeadEntries(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.store.SetAuthToken("utok")
	f.store.SetReservationToken("e1", "t1")
	f.store.SetReservationToken("dead", "t2")
	f.client.myResvFn = func(eventID string) (wire.Reservation, error) {
		if eventID == "dead" {
			return wire.Reservation{}, context.DeadlineExceeded
		}
		return wire.Reservation{ID: "r1", EventID: eventID, DisplayName: "Alice", Status: wire.StatusWaitlisted}, nil
	}
	f.mustInit(t)

	rows := f.doc.QueryAll(`[data-action="cancel-item"]`)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if tok, _ := f.store.GetReservationToken("dead"); tok != "" {
		t.Fatalf("dead entry's token kept: %q", tok)
	}
	if tok, _ := f.store.GetReservationToken("e1"); tok != "t1" {
		t.Fatalf("live entry's token lost: %q", tok)
	}
	spans := f.doc.ElementByID("my-reservation").QueryAll("span")
	if len(spans) != 1 || !strings.Contains(spans[0].Text(), "waitlisted") {
		t.Fatalf("row labels = %v", spans)
	}
}

func TestCancelItemRow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.store.SetAuthToken("utok")
	f.store.SetReservationToken("e7", "t7")
	f.mustInit(t)

	rows := f.doc.QueryAll(`[data-action="cancel-item"]`)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	// Simulate clicking after the reservation expired server-side too.
	f.doc.Click(rows[0])

	f.client.mu.Lock()
	cancels := append([]string(nil), f.client.cancels...)
	f.client.mu.Unlock()
	if len(cancels) != 1 || cancels[0] != "e7" {
		t.Fatalf("cancels = %v", cancels)
	}
	if tok, _ := f.store.GetReservationToken("e7"); tok != "" {
		t.Fatalf("token not cleared: %q", tok)
	}
}

func TestCancelItemFailureRestoresRowButton(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.store.SetAuthToken("utok")
	f.store.SetReservationToken("e7", "t7")
	f.client.cancelFn = func(string) (wire.CancelResponse, error) {
		return wire.CancelResponse{}, context.DeadlineExceeded
	}
	f.mustInit(t)

	row := f.doc.Query(`[data-action="cancel-item"]`)
	f.doc.Click(row)

	if row.Disabled() || row.Text() != "Cancel" {
		t.Fatalf("row button not restored: disabled=%v label=%q", row.Disabled(), row.Text())
	}
	text, visible := f.bannerText(t)
	if !visible || text != "Cancel failed" {
		t.Fatalf("banner = %q visible=%v", text, visible)
	}
	if tok, _ := f.store.GetReservationToken("e7"); tok != "t7" {
		t.Fatalf("failed cancel cleared the token: %q", tok)
	}
}
