// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package app

import "github.com/ics-connect/connect/lib/dom"

// BuildLayout populates doc with the standard page structure the
// controller binds to: error banner, login form with identity chip,
// search form with filters, results region, detail pane, RSVP form,
// and the reservation section. The terminal front-end renders this
// tree; tests build it to exercise full flows.
func BuildLayout(doc *dom.Document) {
	body := doc.Body()

	header := doc.CreateElement("header")
	header.AddClass("site-header")
	nav := doc.CreateElement("nav")
	nav.AddClass("site-nav")
	for _, label := range []string{"Events", "About"} {
		link := doc.CreateElement("a")
		link.AddClass("nav__link")
		link.SetText(label)
		nav.AppendChild(link)
	}
	header.AppendChild(nav)
	body.AppendChild(header)

	main := doc.CreateElement("main")
	main.AddClass("container")
	body.AppendChild(main)

	banner := doc.CreateElement("section").SetID("error-banner")
	banner.AddClass("banner")
	banner.AddClass("banner--error")
	banner.AddClass("hidden")
	main.AppendChild(banner)

	// Sign-in.
	auth := doc.CreateElement("section").SetID("auth-section")
	auth.AddClass("card")
	loginForm := doc.CreateElement("form").SetID("login-form")
	loginForm.AddClass("form-grid")
	loginForm.AppendChild(labeledInput(doc, "login_display_name", "Name"))
	loginForm.AppendChild(labeledInput(doc, "login_email", "UCI email"))
	loginSubmit := doc.CreateElement("button")
	loginSubmit.SetAttr("type", "submit")
	loginSubmit.SetText("Sign in")
	loginForm.AppendChild(loginSubmit)
	auth.AppendChild(loginForm)
	loginResult := doc.CreateElement("div").SetID("login-result")
	loginResult.AddClass("note")
	auth.AppendChild(loginResult)
	chip := doc.CreateElement("div").SetID("auth-chip")
	chip.AddClass("chip")
	chip.AddClass("hidden")
	chipName := doc.CreateElement("span").SetID("auth-name")
	chip.AppendChild(chipName)
	logout := doc.CreateElement("button").SetID("logout")
	logout.SetAttr("type", "button")
	logout.SetText("Sign out")
	chip.AppendChild(logout)
	auth.AppendChild(chip)
	main.AppendChild(auth)

	// Search.
	search := doc.CreateElement("section").SetID("search")
	search.AddClass("card")
	searchForm := doc.CreateElement("form").SetID("search-form")
	searchForm.AddClass("form-grid")
	for _, id := range []string{"q", "start", "to"} {
		searchForm.AppendChild(doc.CreateElement("input").SetID(id))
	}
	limit := doc.CreateElement("input").SetID("limit")
	limit.SetValue("10")
	searchForm.AppendChild(limit)
	club := doc.CreateElement("select").SetID("club-filter")
	club.SetValue("all")
	searchForm.AppendChild(club)
	date := doc.CreateElement("select").SetID("date-filter")
	date.SetValue("all")
	searchForm.AppendChild(date)
	searchSubmit := doc.CreateElement("button")
	searchSubmit.SetAttr("type", "submit")
	searchSubmit.SetText("Search")
	searchForm.AppendChild(searchSubmit)
	search.AppendChild(searchForm)
	main.AppendChild(search)

	// Results.
	resultsSection := doc.CreateElement("section").SetID("results-section")
	resultsSection.AppendChild(doc.CreateElement("div").SetID("results"))
	actions := doc.CreateElement("div")
	actions.AddClass("actions")
	loadMore := doc.CreateElement("button").SetID("load-more")
	loadMore.SetAttr("type", "button")
	loadMore.SetText("More")
	actions.AppendChild(loadMore)
	resultsSection.AppendChild(actions)
	main.AppendChild(resultsSection)

	// Detail pane.
	details := doc.CreateElement("section").SetID("details")
	details.AddClass("card")
	details.AppendChild(doc.CreateElement("h2").SetID("event-title"))
	for _, id := range []string{"event-datetime", "event-location", "event-desc", "event-stats"} {
		details.AppendChild(doc.CreateElement("p").SetID(id))
	}
	main.AppendChild(details)

	// RSVP.
	rsvpSection := doc.CreateElement("section").SetID("rsvp-section")
	rsvpSection.AddClass("card")
	rsvpForm := doc.CreateElement("form").SetID("rsvp-form")
	rsvpForm.AddClass("form-grid")
	rsvpForm.AppendChild(labeledInput(doc, "display_name", "Name"))
	rsvpForm.AppendChild(labeledInput(doc, "email", "UCI email (optional)"))
	joinRow := doc.CreateElement("div").SetID("join-code-row")
	joinRow.AddClass("hidden")
	joinRow.AppendChild(doc.CreateElement("input").SetID("join_code"))
	rsvpForm.AppendChild(joinRow)
	rsvpSubmit := doc.CreateElement("button")
	rsvpSubmit.SetAttr("type", "submit")
	rsvpSubmit.SetText("Reserve")
	rsvpForm.AppendChild(rsvpSubmit)
	rsvpSection.AppendChild(rsvpForm)
	rsvpResult := doc.CreateElement("div").SetID("rsvp-result")
	rsvpResult.AddClass("note")
	rsvpSection.AppendChild(rsvpResult)
	main.AppendChild(rsvpSection)

	// Reservations.
	mine := doc.CreateElement("section").SetID("mine-section")
	mine.AddClass("card")
	my := doc.CreateElement("div").SetID("my-reservation")
	my.AddClass("note")
	my.SetText("No reservation yet.")
	mine.AppendChild(my)
	cancel := doc.CreateElement("button").SetID("cancel-reservation")
	cancel.SetAttr("type", "button")
	cancel.AddClass("hidden")
	cancel.SetText("Cancel reservation")
	mine.AppendChild(cancel)
	main.AppendChild(mine)
}

func labeledInput(doc *dom.Document, id, label string) *dom.Node {
	wrap := doc.CreateElement("div")
	wrap.AddClass("field")
	lbl := doc.CreateElement("label")
	lbl.SetAttr("for", id)
	lbl.SetText(label)
	wrap.AppendChild(lbl)
	wrap.AppendChild(doc.CreateElement("input").SetID(id))
	return wrap
}
