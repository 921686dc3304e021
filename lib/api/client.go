// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

// Package api provides a typed HTTP client for the ICS Connect events
// API: one method per server capability, each validating the decoded
// response against its wire shape before returning. Malformed server
// responses never reach callers as untyped data.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ics-connect/connect/lib/httpx"
	"github.com/ics-connect/connect/lib/wire"
)

// Caller is the API surface the application controller depends on.
// *Client implements it; tests substitute fakes.
type Caller interface {
	Health(ctx context.Context) (wire.OK, error)
	Search(ctx context.Context, params SearchParams) (wire.SearchResult, error)
	GetEvent(ctx context.Context, eventID string) (wire.Event, error)
	Login(ctx context.Context, body LoginRequest) (wire.AuthResponse, error)
	GetMe(ctx context.Context, token string) (wire.Profile, error)
	Reserve(ctx context.Context, eventID string, body ReserveRequest, token string) (wire.ReserveResponse, error)
	GetMyReservation(ctx context.Context, eventID string, token string) (wire.Reservation, error)
	CancelMyReservation(ctx context.Context, eventID string, token string) (wire.CancelResponse, error)
}

// SearchParams are the free-text query, optional instant bounds, and
// pagination window for a search. Empty strings omit the respective
// query parameters; Limit and Offset are always sent.
type SearchParams struct {
	Query  string
	Start  string
	To     string
	Limit  int
	Offset int
}

// LoginRequest is the login body.
type LoginRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// ReserveRequest is the reserve body. Email and JoinCode serialize as
// null when absent, matching the server contract.
type ReserveRequest struct {
	DisplayName string  `json:"display_name"`
	Email       *string `json:"email"`
	JoinCode    *string `json:"join_code"`
}

// Options configures a Client. The zero value uses http.DefaultClient,
// no per-request timeout, and a discard logger.
type Options struct {
	// HTTPClient overrides the underlying HTTP client. Tests pass the
	// httptest server's client.
	HTTPClient *http.Client

	// Timeout bounds each request. Zero means requests are bounded
	// only by the caller's context.
	Timeout time.Duration

	// Logger receives one debug record per request.
	Logger *slog.Logger
}

// Client is a typed HTTP client for the ICS Connect events API.
type Client struct {
	base       string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

var _ Caller = (*Client)(nil)

// New creates a Client for the API rooted at baseURL. A trailing
// slash on baseURL is tolerated.
func New(baseURL string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		base:       strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		timeout:    opts.Timeout,
		logger:     logger,
	}
}

// BaseURL returns the API root this client was configured with.
func (client *Client) BaseURL() string {
	return client.base
}

// Health checks the server's health endpoint.
func (client *Client) Health(ctx context.Context) (wire.OK, error) {
	result, err := client.request(ctx, http.MethodGet, "/health", nil, "")
	if err != nil {
		return wire.OK{}, fmt.Errorf("health: %w", err)
	}
	ok, err := wire.ParseOK(result.Data)
	if err != nil {
		return wire.OK{}, fmt.Errorf("health: invalid response: %w", err)
	}
	return ok, nil
}

// Search returns a page of events matching the query, with the
// server-side total count.
func (client *Client) Search(ctx context.Context, params SearchParams) (wire.SearchResult, error) {
	values := url.Values{}
	if params.Query != "" {
		values.Set("q", params.Query)
	}
	if params.Start != "" {
		values.Set("start", params.Start)
	}
	if params.To != "" {
		values.Set("to", params.To)
	}
	values.Set("limit", strconv.Itoa(params.Limit))
	values.Set("offset", strconv.Itoa(params.Offset))

	result, err := client.request(ctx, http.MethodGet, "/search?"+values.Encode(), nil, "")
	if err != nil {
		return wire.SearchResult{}, fmt.Errorf("search: %w", err)
	}
	page, err := wire.ParseSearchResult(result.Data)
	if err != nil {
		return wire.SearchResult{}, fmt.Errorf("search: invalid response: %w", err)
	}
	return page, nil
}

// GetEvent fetches one event by id.
func (client *Client) GetEvent(ctx context.Context, eventID string) (wire.Event, error) {
	result, err := client.request(ctx, http.MethodGet, "/events/"+url.PathEscape(eventID), nil, "")
	if err != nil {
		return wire.Event{}, fmt.Errorf("get event: %w", err)
	}
	event, err := wire.ParseEvent(result.Data)
	if err != nil {
		return wire.Event{}, fmt.Errorf("get event: invalid response: %w", err)
	}
	return event, nil
}

// Login exchanges a display name and institutional email for a
// session token and profile.
func (client *Client) Login(ctx context.Context, body LoginRequest) (wire.AuthResponse, error) {
	result, err := client.request(ctx, http.MethodPost, "/auth/login", body, "")
	if err != nil {
		return wire.AuthResponse{}, fmt.Errorf("login: %w", err)
	}
	auth, err := wire.ParseAuthResponse(result.Data)
	if err != nil {
		return wire.AuthResponse{}, fmt.Errorf("login: invalid response: %w", err)
	}
	return auth, nil
}

// GetMe fetches the profile for a session token. A failing probe is
// how the controller detects a stale persisted session.
func (client *Client) GetMe(ctx context.Context, token string) (wire.Profile, error) {
	result, err := client.request(ctx, http.MethodGet, "/auth/me", nil, token)
	if err != nil {
		return wire.Profile{}, fmt.Errorf("get me: %w", err)
	}
	profile, err := wire.ParseProfile(result.Data)
	if err != nil {
		return wire.Profile{}, fmt.Errorf("get me: invalid response: %w", err)
	}
	return profile, nil
}

// Reserve creates (or idempotently returns) the caller's reservation
// for an event. The session token is optional — the legacy anonymous
// flow reserves without one.
func (client *Client) Reserve(ctx context.Context, eventID string, body ReserveRequest, token string) (wire.ReserveResponse, error) {
	result, err := client.request(ctx, http.MethodPost, "/events/"+url.PathEscape(eventID)+"/reserve", body, token)
	if err != nil {
		return wire.ReserveResponse{}, fmt.Errorf("reserve: %w", err)
	}
	response, err := wire.ParseReserveResponse(result.Data)
	if err != nil {
		return wire.ReserveResponse{}, fmt.Errorf("reserve: invalid response: %w", err)
	}
	return response, nil
}

// GetMyReservation fetches the caller's reservation for an event. The
// credential is either a session token or an event-scoped reservation
// token; the server accepts both as bearer values.
func (client *Client) GetMyReservation(ctx context.Context, eventID string, token string) (wire.Reservation, error) {
	result, err := client.request(ctx, http.MethodGet, "/events/"+url.PathEscape(eventID)+"/mine", nil, token)
	if err != nil {
		return wire.Reservation{}, fmt.Errorf("get my reservation: %w", err)
	}
	reservation, err := wire.ParseReservation(result.Data)
	if err != nil {
		return wire.Reservation{}, fmt.Errorf("get my reservation: invalid response: %w", err)
	}
	return reservation, nil
}

// CancelMyReservation cancels the caller's reservation for an event.
func (client *Client) CancelMyReservation(ctx context.Context, eventID string, token string) (wire.CancelResponse, error) {
	result, err := client.request(ctx, http.MethodPost, "/events/"+url.PathEscape(eventID)+"/cancel", map[string]any{}, token)
	if err != nil {
		return wire.CancelResponse{}, fmt.Errorf("cancel my reservation: %w", err)
	}
	response, err := wire.ParseCancelResponse(result.Data)
	if err != nil {
		return wire.CancelResponse{}, fmt.Errorf("cancel my reservation: invalid response: %w", err)
	}
	return response, nil
}

// request performs one transport call against the API root, attaching
// the bearer token when present.
func (client *Client) request(ctx context.Context, method string, path string, body any, token string) (*httpx.Result, error) {
	opts := httpx.Options{Timeout: client.timeout}
	if token != "" {
		opts.Headers = map[string]string{"Authorization": "Bearer " + token}
	}
	client.logger.Debug("api request", "method", method, "path", path)
	return httpx.Request(ctx, client.httpClient, method, client.base+path, body, opts)
}
