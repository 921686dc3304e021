// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"strings"

	"github.com/ics-connect/connect/lib/api"
	"github.com/ics-connect/connect/lib/dom"
)

// handleLoginSubmit validates the login form, exchanges it for a
// session token, and switches to the signed-in presentation.
func (app *App) handleLoginSubmit(*dom.Event) {
	if !app.isActive() {
		return
	}
	HideBanner(app.doc)

	displayName := strings.TrimSpace(app.inputValue("login_display_name"))
	email := strings.TrimSpace(app.inputValue("login_email"))
	if displayName == "" {
		ShowBanner(app.doc, "Name is required")
		return
	}
	if !IsUCIEmail(email) {
		ShowBanner(app.doc, "UCI email (@uci.edu) required")
		return
	}

	res, err := app.apiClient().Login(app.ctx, api.LoginRequest{
		Email:       email,
		DisplayName: displayName,
	})
	if err != nil {
		app.logger.Warn("login failed", "err", err)
		ShowBanner(app.doc, "Sign in failed")
		return
	}
	if err := app.deps.Store.SetAuthToken(res.Token); err != nil {
		app.logger.Warn("persisting auth token", "err", err)
	}
	if !app.isActive() {
		return
	}
	app.showLoggedIn(res.Profile.DisplayName)
}

// showLoggedIn switches the document to the signed-in presentation:
// login form and nav links hidden, identity chip shown, and the
// manual RSVP identity fields hidden (the session supplies them).
// Every element is optional; absent ones are skipped.
func (app *App) showLoggedIn(name string) {
	if result := app.doc.ElementByID("login-result"); result != nil {
		result.SetText("Signed in: " + name)
	}
	if form := app.doc.ElementByID("login-form"); form != nil {
		hide(form)
	}
	if chip := app.doc.ElementByID("auth-chip"); chip != nil {
		show(chip)
	}
	if nameEl := app.doc.ElementByID("auth-name"); nameEl != nil {
		nameEl.SetText(name)
	}
	for _, link := range app.doc.QueryAll(".nav__link") {
		hide(link)
	}
	app.setIdentityFieldsHidden(true)
}

// showLoggedOut reverts showLoggedIn.
func (app *App) showLoggedOut() {
	if result := app.doc.ElementByID("login-result"); result != nil {
		result.SetText("")
	}
	if form := app.doc.ElementByID("login-form"); form != nil {
		show(form)
	}
	if chip := app.doc.ElementByID("auth-chip"); chip != nil {
		hide(chip)
	}
	if nameEl := app.doc.ElementByID("auth-name"); nameEl != nil {
		nameEl.SetText("")
	}
	for _, link := range app.doc.QueryAll(".nav__link") {
		show(link)
	}
	app.setIdentityFieldsHidden(false)
}

func (app *App) setIdentityFieldsHidden(hidden bool) {
	nodes := []*dom.Node{
		app.doc.Query(`label[for="display_name"]`),
		app.doc.ElementByID("display_name"),
		app.doc.Query(`label[for="email"]`),
		app.doc.ElementByID("email"),
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if hidden {
			hide(n)
		} else {
			show(n)
		}
	}
}
