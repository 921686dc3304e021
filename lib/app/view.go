// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"time"

	"github.com/ics-connect/connect/lib/dom"
	"github.com/ics-connect/connect/lib/wire"
)

const rangeLayout = "Jan 2, 2006 15:04"

// FormatRange renders an event's start and end instants for display.
func FormatRange(start, end time.Time) string {
	return start.Format(rangeLayout) + " - " + end.Format(rangeLayout)
}

// RenderEventCard builds a result card for one event: a linked title,
// a meta line, and the description. Clicking the title link invokes
// onOpen with the event id.
func RenderEventCard(doc *dom.Document, ev wire.EventView, onOpen func(eventID string)) *dom.Node {
	card := doc.CreateElement("article")
	card.AddClass("card")

	title := doc.CreateElement("h3")
	title.AddClass("card__title")
	link := doc.CreateElement("a")
	link.SetAttr("href", "#details")
	link.SetText(ev.Title)
	id := ev.ID
	link.On(dom.Click, func(*dom.Event) { onOpen(id) })
	title.AppendChild(link)

	meta := doc.CreateElement("div")
	meta.AddClass("card__meta")
	meta.SetText(fmt.Sprintf("%s • %s • %d/%d",
		FormatRange(ev.StartsAt, ev.EndsAt),
		textOr(ev.LocationText, "TBD"),
		ev.ConfirmedCount, ev.Capacity))

	desc := doc.CreateElement("p")
	desc.AddClass("card__desc")
	desc.SetText(textOr(ev.Description, ""))

	card.AppendChild(title)
	card.AppendChild(meta)
	card.AppendChild(desc)
	return card
}

// SetNoReservationUI renders the detail reservation section's empty
// state: placeholder text, cancel button hidden.
func SetNoReservationUI(doc *dom.Document) {
	if my := doc.ElementByID("my-reservation"); my != nil {
		my.SetText("No reservation yet.")
	}
	if btn := doc.ElementByID("cancel-reservation"); btn != nil {
		btn.AddClass("hidden")
	}
}

// ShowBanner sets and reveals the error banner.
func ShowBanner(doc *dom.Document, text string) {
	banner := doc.ElementByID("error-banner")
	if banner == nil {
		return
	}
	banner.SetText(text)
	show(banner)
}

// HideBanner hides the error banner.
func HideBanner(doc *dom.Document) {
	if banner := doc.ElementByID("error-banner"); banner != nil {
		hide(banner)
	}
}

func show(n *dom.Node) { n.RemoveClass("hidden") }
func hide(n *dom.Node) { n.AddClass("hidden") }
