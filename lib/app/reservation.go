// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ics-connect/connect/lib/api"
	"github.com/ics-connect/connect/lib/dom"
)

// refreshMyReservation renders the current event's reservation line
// and cancel button. Absent section, no selected event, or no session
// all resolve to the empty-state presentation; a lookup failure reads
// as "no reservation" rather than an error.
func (app *App) refreshMyReservation(ctx context.Context) {
	if !app.isActive() {
		return
	}
	my := app.doc.ElementByID("my-reservation")
	cancelBtn := app.doc.ElementByID("cancel-reservation")
	if my == nil || cancelBtn == nil {
		return
	}
	eventID := app.currentEvent()
	if eventID == "" {
		SetNoReservationUI(app.doc)
		return
	}
	token := app.authToken()
	if token == "" {
		SetNoReservationUI(app.doc)
		return
	}
	resv, err := app.apiClient().GetMyReservation(ctx, eventID, token)
	if err != nil {
		app.logger.Warn("reservation lookup failed", "event", eventID, "err", err)
		if !app.isActive() {
			return
		}
		my.SetText("No reservation found.")
		cancelBtn.AddClass("hidden")
		return
	}
	if !app.isActive() {
		return
	}
	my.SetText(resv.DisplayName + " – " + string(resv.Status))
	cancelBtn.RemoveClass("hidden")
}

// refreshAllReservations renders one row per stored reservation token:
// event title, holder, status, and an inline cancel button. Rows are
// fetched concurrently; an entry whose reservation no longer resolves
// is dropped along with its stored token.
func (app *App) refreshAllReservations(ctx context.Context) {
	if !app.isActive() {
		return
	}
	my := app.doc.ElementByID("my-reservation")
	if my == nil {
		return
	}
	token := app.authToken()
	if token == "" {
		my.SetText("No reservation yet.")
		return
	}
	entries, err := app.deps.Store.ListReservationEntries()
	if err != nil {
		app.logger.Warn("listing reservation entries", "err", err)
	}
	if len(entries) == 0 {
		my.SetText("No reservation yet.")
		return
	}

	type row struct {
		text    string
		eventID string
	}
	rows := make([]*row, len(entries))
	client := app.apiClient()
	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resv, err := client.GetMyReservation(ctx, entry.EventID, token)
			if err == nil {
				event, eventErr := client.GetEvent(ctx, entry.EventID)
				if eventErr == nil {
					rows[i] = &row{
						text:    fmt.Sprintf("%s — %s (%s)", event.Title, resv.DisplayName, resv.Status),
						eventID: entry.EventID,
					}
					return
				}
				err = eventErr
			}
			app.logger.Warn("reservation row failed; dropping token",
				"event", entry.EventID, "err", err)
			if clearErr := app.deps.Store.ClearReservationToken(entry.EventID); clearErr != nil {
				app.logger.Warn("clearing reservation token", "event", entry.EventID, "err", clearErr)
			}
		}()
	}
	wg.Wait()

	if !app.isActive() {
		return
	}
	list := app.doc.CreateElement("ul")
	list.AddClass("list")
	list.SetAttr("aria-live", "polite")
	for _, r := range rows {
		if r == nil {
			continue
		}
		li := app.doc.CreateElement("li")
		text := app.doc.CreateElement("span")
		text.SetText(r.text)
		btn := app.doc.CreateElement("button")
		btn.SetAttr("type", "button")
		btn.AddClass("btn")
		btn.AddClass("btn--danger")
		btn.AddClass("btn--chip")
		btn.SetText("Cancel")
		btn.SetAttr("data-action", "cancel-item")
		btn.SetAttr("data-event-id", r.eventID)
		li.AppendChild(text)
		li.AppendChild(btn)
		list.AppendChild(li)
	}
	my.SetText("")
	my.AppendChild(list)
}

// reserveSubmitHandler builds the submit handler for the RSVP form.
// At most one reservation request is in flight at a time: the first
// submit wins an atomic flag and disables the submit button before
// any slower path can race it; further submits are dropped until the
// request settles.
func (app *App) reserveSubmitHandler(form *dom.Node) dom.Handler {
	return func(*dom.Event) {
		if !app.isActive() {
			return
		}
		HideBanner(app.doc)

		submitBtn := form.Query(`button[type="submit"]`)
		if submitBtn == nil || submitBtn.Disabled() {
			return
		}
		if !app.reserving.CompareAndSwap(false, true) {
			return
		}
		submitBtn.SetDisabled(true)
		release := func() {
			submitBtn.SetDisabled(false)
			app.reserving.Store(false)
		}

		token := app.authToken()
		if token == "" {
			ShowBanner(app.doc, "Please sign in to reserve")
			release()
			return
		}
		eventID := app.currentEvent()
		if eventID == "" {
			release()
			return
		}
		displayName := strings.TrimSpace(app.inputValue("display_name"))
		email := strings.TrimSpace(app.inputValue("email"))
		if email != "" && !IsUCIEmail(email) {
			ShowBanner(app.doc, "UCI email (@uci.edu) required")
			release()
			return
		}
		joinCode := strings.TrimSpace(app.inputValue("join_code"))

		res, err := app.apiClient().Reserve(app.ctx, eventID, api.ReserveRequest{
			DisplayName: displayName,
			Email:       nilIfEmpty(email),
			JoinCode:    nilIfEmpty(joinCode),
		}, token)
		if err != nil {
			app.logger.Warn("reserve failed", "event", eventID, "err", err)
			ShowBanner(app.doc, "RSVP failed")
			release()
			return
		}
		if err := app.deps.Store.SetReservationToken(eventID, res.Token); err != nil {
			app.logger.Warn("persisting reservation token", "event", eventID, "err", err)
		}
		if app.isActive() {
			if result := app.doc.ElementByID("rsvp-result"); result != nil {
				result.SetText("Reservation " + string(res.Reservation.Status))
			}
			// Attendee counts changed server-side; re-render from the
			// server rather than adjusting locally.
			app.refreshAfter(app.ctx, eventID, true)
		}
		release()
	}
}

// cancelCurrent cancels the reservation for the currently displayed
// event via the detail pane's cancel button.
func (app *App) cancelCurrent(ctx context.Context) {
	HideBanner(app.doc)
	eventID := app.currentEvent()
	if eventID == "" {
		SetNoReservationUI(app.doc)
		return
	}
	token := app.authToken()
	if token == "" {
		ShowBanner(app.doc, "Please sign in to cancel")
		return
	}
	btn := app.doc.ElementByID("cancel-reservation")
	if btn == nil {
		return
	}
	btn.SetDisabled(true)
	prev := btn.Text()
	btn.SetText("Canceling...")

	_, err := app.apiClient().CancelMyReservation(ctx, eventID, token)
	if err != nil {
		app.logger.Warn("cancel failed", "event", eventID, "err", err)
		ShowBanner(app.doc, "Cancel failed")
	} else {
		if clearErr := app.deps.Store.ClearReservationToken(eventID); clearErr != nil {
			app.logger.Warn("clearing reservation token", "event", eventID, "err", clearErr)
		}
		app.refreshAfter(ctx, eventID, true)
	}
	btn.SetText(prev)
	btn.SetDisabled(false)
}

// cancelItem cancels the reservation behind one aggregate-view row.
// The row's button carries the event id; on failure the button is
// restored, on success the refresh replaces the whole row.
func (app *App) cancelItem(ctx context.Context, target *dom.Node) {
	HideBanner(app.doc)
	token := app.authToken()
	if token == "" {
		ShowBanner(app.doc, "Please sign in to cancel")
		return
	}
	btn := target.Closest(`[data-action="cancel-item"]`)
	if btn == nil {
		return
	}
	eventID, ok := btn.Attr("data-event-id")
	if !ok || eventID == "" {
		return
	}
	btn.SetDisabled(true)
	prev := btn.Text()
	btn.SetText("Canceling...")

	_, err := app.apiClient().CancelMyReservation(ctx, eventID, token)
	if err != nil {
		app.logger.Warn("cancel failed", "event", eventID, "err", err)
		btn.SetText(prev)
		btn.SetDisabled(false)
		ShowBanner(app.doc, "Cancel failed")
		return
	}
	if clearErr := app.deps.Store.ClearReservationToken(eventID); clearErr != nil {
		app.logger.Warn("clearing reservation token", "event", eventID, "err", clearErr)
	}
	app.refreshAfter(ctx, eventID, app.currentEvent() == eventID)
}

// refreshAfter re-renders the views a reservation change invalidates:
// optionally the detail pane (when the changed event is on screen),
// the current-event reservation line, and the aggregate list. They
// run in that order; the views share the reservation section, so the
// aggregate list owns its final state.
func (app *App) refreshAfter(ctx context.Context, eventID string, withDetails bool) {
	if withDetails {
		app.showEventDetails(ctx, eventID)
	}
	app.refreshMyReservation(ctx)
	app.refreshAllReservations(ctx)
}

// logout drops the session and every stored reservation token, then
// reverts to the signed-out presentation.
func (app *App) logout(ctx context.Context) {
	app.clearStoredAuth()
	if err := app.deps.Store.ClearAllReservationTokens(); err != nil {
		app.logger.Warn("clearing reservation tokens", "err", err)
	}
	app.showLoggedOut()
	app.refreshAfter(ctx, "", false)
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
