// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ics-connect/connect/lib/api"
	"github.com/ics-connect/connect/lib/clock"
	"github.com/ics-connect/connect/lib/config"
	"github.com/ics-connect/connect/lib/dom"
	"github.com/ics-connect/connect/lib/tokenstore"
)

// instanceAttr marks the document body with the id of the controller
// instance that currently owns it.
const instanceAttr = "data-app-instance"

// Deps are the collaborators the controller is constructed with.
type Deps struct {
	// LoadConfig fetches the deployment's app config resource.
	LoadConfig func(ctx context.Context) (*config.AppConfig, error)

	// NewClient builds an API client for the given base URL. Init
	// calls it once the config resolves; tests substitute fakes.
	NewClient func(baseURL string) api.Caller

	// Store persists the session token, per-event reservation tokens,
	// and the last selected event.
	Store *tokenstore.Store

	// Clock supplies the current time for the week/month search
	// ranges. Nil means the real clock.
	Clock clock.Clock

	// Logger receives flow diagnostics. Nil discards.
	Logger *slog.Logger
}

// App drives a document. Construct with New, then call Init once.
type App struct {
	doc        *dom.Document
	deps       Deps
	clk        clock.Clock
	logger     *slog.Logger
	instanceID string

	// ctx is the lifetime handed to Init; interaction-driven flows
	// (handlers have no context of their own) run under it.
	ctx context.Context

	mu             sync.Mutex
	client         api.Caller
	currentEventID string
	offset         int
	generation     uint64
	bound          map[*dom.Node]struct{}

	reserving atomic.Bool
}

// New creates a controller for doc and stamps the body as owned by
// this instance. Any previously constructed controller for the same
// document goes inert.
func New(doc *dom.Document, deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real()
	}
	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		panic(fmt.Sprintf("reading instance id entropy: %v", err))
	}
	app := &App{
		doc:        doc,
		deps:       deps,
		clk:        clk,
		logger:     logger,
		instanceID: hex.EncodeToString(raw),
		ctx:        context.Background(),
		client:     deps.NewClient(""),
		bound:      make(map[*dom.Node]struct{}),
	}
	doc.Body().SetAttr(instanceAttr, app.instanceID)
	return app
}

// isActive reports whether this instance still owns the document.
func (app *App) isActive() bool {
	v, _ := app.doc.Body().Attr(instanceAttr)
	return v == app.instanceID
}

// Init loads configuration, binds the document, restores any
// persisted session, runs the initial search, and reopens the last
// viewed event. Interaction handlers bound here run under ctx for
// the controller's lifetime. Any failure shows the initialization
// banner and leaves the document unbound.
func (app *App) Init(ctx context.Context) error {
	app.ctx = ctx
	if err := app.init(ctx); err != nil {
		app.logger.Error("init failed", "err", err)
		if banner := app.doc.ElementByID("error-banner"); banner != nil {
			banner.SetText("Initialization failed")
			show(banner)
		}
		return err
	}
	return nil
}

func (app *App) init(ctx context.Context) error {
	cfg, err := app.deps.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("loading app config: %w", err)
	}
	app.mu.Lock()
	app.client = app.deps.NewClient(cfg.APIBaseURL)
	app.mu.Unlock()

	app.tryBindForms()

	// Session restore: probe the stored token; a rejected token is
	// cleared rather than retried.
	if tok := app.authToken(); tok != "" {
		profile, err := app.apiClient().GetMe(ctx, tok)
		switch {
		case err != nil:
			app.logger.Warn("session restore failed", "err", err)
			app.clearStoredAuth()
			app.showLoggedOut()
		case app.isActive():
			app.showLoggedIn(profile.DisplayName)
		}
	} else {
		app.showLoggedOut()
	}

	app.bindFilters()
	app.doc.Observe(func() {
		if app.isActive() {
			app.tryBindForms()
		}
	})
	app.doc.On(dom.Click, app.handleClick)

	// Both views write the reservation section; the aggregate list
	// runs last so it owns the final state.
	app.refreshMyReservation(ctx)
	app.refreshAllReservations(ctx)

	if err := app.Search(ctx, false); err != nil {
		return fmt.Errorf("initial search: %w", err)
	}

	if id := app.lastSelectedEvent(); id != "" {
		app.showEventDetails(ctx, id)
	}
	return nil
}

// Refresh re-renders the current event's reservation section.
func (app *App) Refresh(ctx context.Context) {
	app.refreshMyReservation(ctx)
}

// apiClient returns the current client under the lock; Init swaps it
// once the config resolves.
func (app *App) apiClient() api.Caller {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.client
}

func (app *App) currentEvent() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.currentEventID
}

func (app *App) setCurrentEvent(eventID string) {
	app.mu.Lock()
	app.currentEventID = eventID
	app.mu.Unlock()
}

func (app *App) resetOffset() {
	app.mu.Lock()
	app.offset = 0
	app.mu.Unlock()
}

// Token store accessors. Store failures degrade to "absent" with a
// warning; flows never abort on local persistence trouble.

func (app *App) authToken() string {
	tok, err := app.deps.Store.GetAuthToken()
	if err != nil {
		app.logger.Warn("reading auth token", "err", err)
		return ""
	}
	return tok
}

func (app *App) clearStoredAuth() {
	if err := app.deps.Store.ClearAuthToken(); err != nil {
		app.logger.Warn("clearing auth token", "err", err)
	}
}

func (app *App) lastSelectedEvent() string {
	id, err := app.deps.Store.GetLastSelectedEvent()
	if err != nil {
		app.logger.Warn("reading last selected event", "err", err)
		return ""
	}
	return id
}

// bindOnce attaches handler to node exactly once per node identity.
// A replaced node is a new identity and rebinds.
func (app *App) bindOnce(node *dom.Node, typ dom.EventType, handler dom.Handler) {
	app.mu.Lock()
	if _, ok := app.bound[node]; ok {
		app.mu.Unlock()
		return
	}
	app.bound[node] = struct{}{}
	app.mu.Unlock()
	node.On(typ, handler)
}

// tryBindForms binds the submit handlers for whichever forms are
// present. The subtree observer re-runs it after structural changes
// so forms that were swapped out rebind.
func (app *App) tryBindForms() {
	if form := app.doc.ElementByID("search-form"); form != nil {
		app.bindOnce(form, dom.Submit, app.handleSearchSubmit)
	}
	if form := app.doc.ElementByID("rsvp-form"); form != nil {
		app.bindOnce(form, dom.Submit, app.reserveSubmitHandler(form))
	}
	if form := app.doc.ElementByID("login-form"); form != nil {
		app.bindOnce(form, dom.Submit, app.handleLoginSubmit)
	}
}

func (app *App) bindFilters() {
	handler := func(*dom.Event) {
		if !app.isActive() {
			return
		}
		app.resetOffset()
		if err := app.Search(app.ctx, false); err != nil {
			app.logger.Warn("filter search failed", "err", err)
			ShowBanner(app.doc, "Search failed")
		}
	}
	for _, id := range []string{"club-filter", "date-filter"} {
		if sel := app.doc.ElementByID(id); sel != nil {
			app.bindOnce(sel, dom.Change, handler)
		}
	}
}

func (app *App) handleSearchSubmit(*dom.Event) {
	if !app.isActive() {
		return
	}
	app.resetOffset()
	if err := app.Search(app.ctx, false); err != nil {
		app.logger.Warn("search failed", "err", err)
		ShowBanner(app.doc, "Search failed")
	}
}

// handleClick is the document-level delegated click handler: load
// more, cancel current reservation, per-row cancel, and logout all
// route through here via ancestor matching.
func (app *App) handleClick(ev *dom.Event) {
	if !app.isActive() {
		return
	}
	target := ev.Target
	switch {
	case target.Closest("#load-more") != nil:
		if err := app.Search(app.ctx, true); err != nil {
			app.logger.Warn("load more failed", "err", err)
			ShowBanner(app.doc, "Load more failed")
		}
	case target.Closest("#cancel-reservation") != nil:
		app.cancelCurrent(app.ctx)
	case target.Closest(`[data-action="cancel-item"]`) != nil:
		app.cancelItem(app.ctx, target)
	case target.Closest("#logout") != nil:
		app.logout(app.ctx)
	}
}

// inputValue reads an input's raw value, empty when the element is
// absent.
func (app *App) inputValue(id string) string {
	n := app.doc.ElementByID(id)
	if n == nil {
		return ""
	}
	return n.Value()
}
