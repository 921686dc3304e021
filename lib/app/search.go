// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ics-connect/connect/lib/api"
	"github.com/ics-connect/connect/lib/wire"
)

// isoMillis formats a UTC instant the way the server expects range
// bounds: millisecond precision with a literal Z.
const isoMillis = "2006-01-02T15:04:05.000Z"

const defaultSearchLimit = 10

// Search runs one search page. With more=false the current offset is
// used and the results region is replaced; with more=true the next
// page is appended. Each call stamps a generation; a response that
// arrives after a newer search started is discarded without touching
// the document or the offset.
func (app *App) Search(ctx context.Context, more bool) error {
	if !app.isActive() {
		return nil
	}
	HideBanner(app.doc)

	limitInput := app.doc.ElementByID("limit")
	queryInput := app.doc.ElementByID("q")
	startInput := app.doc.ElementByID("start")
	toInput := app.doc.ElementByID("to")
	if limitInput == nil || queryInput == nil || startInput == nil || toInput == nil {
		return fmt.Errorf("search inputs missing from document")
	}

	limit := defaultSearchLimit
	if v, err := strconv.Atoi(strings.TrimSpace(limitInput.Value())); err == nil && v > 0 {
		limit = v
	}

	query := strings.TrimSpace(queryInput.Value())
	if club := app.doc.ElementByID("club-filter"); club != nil {
		if v := club.Value(); v != "" && v != "all" {
			if query == "" {
				query = v
			} else {
				query = v + " " + query
			}
		}
	}

	start := startInput.Value()
	to := toInput.Value()
	if date := app.doc.ElementByID("date-filter"); date != nil {
		switch date.Value() {
		case "week":
			start, to = weekRangeUTC(app.clk.Now())
		case "month":
			start, to = monthRangeUTC(app.clk.Now())
		}
	}

	app.mu.Lock()
	offset := app.offset
	app.generation++
	generation := app.generation
	client := app.client
	app.mu.Unlock()

	res, err := client.Search(ctx, api.SearchParams{
		Query:  query,
		Start:  start,
		To:     to,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	views := make([]wire.EventView, 0, len(res.Events))
	for _, ev := range res.Events {
		view, err := wire.ToEventView(ev)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		views = append(views, view)
	}

	if !app.isActive() {
		return nil
	}
	app.mu.Lock()
	if generation != app.generation {
		app.mu.Unlock()
		app.logger.Debug("discarding superseded search response",
			"generation", generation)
		return nil
	}
	newOffset := offset + len(views)
	app.offset = newOffset
	app.mu.Unlock()

	results := app.doc.ElementByID("results")
	loadMore := app.doc.ElementByID("load-more")
	if results == nil || loadMore == nil {
		return fmt.Errorf("results region missing from document")
	}
	if !more {
		results.SetText("")
	}
	for _, view := range views {
		results.AppendChild(RenderEventCard(app.doc, view, func(id string) {
			app.showEventDetails(app.ctx, id)
		}))
	}
	loadMore.SetDisabled(newOffset >= res.Total || len(views) == 0)
	return nil
}

// weekRangeUTC is the UTC ISO week containing now: Monday 00:00:00.000
// through one millisecond before the following Monday.
func weekRangeUTC(now time.Time) (start, to string) {
	now = now.UTC()
	mondayDelta := (int(now.Weekday()) + 6) % 7
	first := time.Date(now.Year(), now.Month(), now.Day()-mondayDelta, 0, 0, 0, 0, time.UTC)
	last := first.Add(7*24*time.Hour - time.Millisecond)
	return first.Format(isoMillis), last.Format(isoMillis)
}

// monthRangeUTC is the UTC calendar month containing now: the 1st
// through one millisecond before the 1st of the next month. December
// rolls over into January of the next year.
func monthRangeUTC(now time.Time) (start, to string) {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Millisecond)
	return first.Format(isoMillis), last.Format(isoMillis)
}

// showEventDetails renders the detail pane for eventID and records it
// as the current and last-selected event. Failures surface as the
// detail banner; the selection still sticks so a retry targets the
// same event.
func (app *App) showEventDetails(ctx context.Context, eventID string) {
	if !app.isActive() {
		return
	}
	if err := app.renderEventDetails(ctx, eventID); err != nil {
		app.logger.Error("loading event details failed", "event", eventID, "err", err)
		ShowBanner(app.doc, "Failed to load event")
	}
}

func (app *App) renderEventDetails(ctx context.Context, eventID string) error {
	app.setCurrentEvent(eventID)
	if err := app.deps.Store.SetLastSelectedEvent(eventID); err != nil {
		app.logger.Warn("persisting last selected event", "err", err)
	}

	evw, err := app.apiClient().GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	ev, err := wire.ToEventView(evw)
	if err != nil {
		return err
	}
	if !app.isActive() {
		return nil
	}

	fields := map[string]string{
		"event-title":    ev.Title,
		"event-datetime": FormatRange(ev.StartsAt, ev.EndsAt),
		"event-location": textOr(ev.LocationText, "TBD"),
		"event-desc":     textOr(ev.Description, ""),
		"event-stats":    fmt.Sprintf("%d/%d attending", ev.ConfirmedCount, ev.Capacity),
	}
	for id, text := range fields {
		n := app.doc.ElementByID(id)
		if n == nil {
			return fmt.Errorf("element not found: #%s", id)
		}
		n.SetText(text)
	}
	joinRow := app.doc.ElementByID("join-code-row")
	if joinRow == nil {
		return fmt.Errorf("element not found: #join-code-row")
	}
	if ev.RequiresJoinCode {
		show(joinRow)
	} else {
		hide(joinRow)
	}

	app.refreshMyReservation(ctx)

	details := app.doc.ElementByID("details")
	if details == nil {
		return fmt.Errorf("element not found: #details")
	}
	details.ScrollIntoView()
	return nil
}

func textOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
