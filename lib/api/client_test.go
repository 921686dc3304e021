// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ics-connect/connect/lib/httpx"
	"github.com/ics-connect/connect/lib/wire"
)

// testClient starts a server for the given handler and returns a
// Client pointed at it.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, Options{HTTPClient: server.Client()})
}

func eventPayload(id string, title string) map[string]any {
	return map[string]any{
		"id": id, "title": title, "description": nil, "type": nil,
		"starts_at": "2026-03-04T18:00:00Z", "ends_at": "2026-03-04T20:00:00Z",
		"location_text": nil, "discord_link": nil, "website_link": nil,
		"tags": []string{}, "public": true, "capacity": 50,
		"confirmed_count": 10, "waitlist_count": 0, "requires_join_code": false,
	}
}

func writeJSON(writer http.ResponseWriter, v any) {
	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(v)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(writer, map[string]any{"ok": true})
	})
	client := testClient(t, mux)
	if _, err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}

func TestSearchBuildsQuery(t *testing.T) {
	t.Parallel()

	var query map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", func(writer http.ResponseWriter, request *http.Request) {
		values := request.URL.Query()
		query = map[string]string{
			"q": values.Get("q"), "start": values.Get("start"), "to": values.Get("to"),
			"limit": values.Get("limit"), "offset": values.Get("offset"),
		}
		writeJSON(writer, map[string]any{
			"events": []any{eventPayload("evt-1", "Hack Night")},
			"total":  1,
		})
	})
	client := testClient(t, mux)

	result, err := client.Search(context.Background(), SearchParams{
		Query:  "robotics club",
		Start:  "2026-03-02T00:00:00.000Z",
		To:     "2026-03-08T23:59:59.999Z",
		Limit:  10,
		Offset: 20,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total != 1 || len(result.Events) != 1 || result.Events[0].ID != "evt-1" {
		t.Errorf("result = %+v", result)
	}
	if query["q"] != "robotics club" || query["limit"] != "10" || query["offset"] != "20" {
		t.Errorf("query = %v", query)
	}
	if query["start"] != "2026-03-02T00:00:00.000Z" || query["to"] != "2026-03-08T23:59:59.999Z" {
		t.Errorf("bounds = %v", query)
	}
}

func TestSearchOmitsEmptyParams(t *testing.T) {
	t.Parallel()

	var rawQuery map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", func(writer http.ResponseWriter, request *http.Request) {
		rawQuery = request.URL.Query()
		writeJSON(writer, map[string]any{"events": []any{}, "total": 0})
	})
	client := testClient(t, mux)

	if _, err := client.Search(context.Background(), SearchParams{Limit: 10}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, absent := range []string{"q", "start", "to"} {
		if _, present := rawQuery[absent]; present {
			t.Errorf("empty %q was sent as a query parameter", absent)
		}
	}
}

func TestGetEventEscapesID(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /events/{id}", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(writer, eventPayload(request.PathValue("id"), "Escaped"))
	})
	client := testClient(t, mux)

	event, err := client.GetEvent(context.Background(), "evt with space")
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if event.ID != "evt with space" {
		t.Errorf("ID = %q", event.ID)
	}
}

func TestLoginAndGetMe(t *testing.T) {
	t.Parallel()

	var loginBody map[string]any
	var bearer string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(writer http.ResponseWriter, request *http.Request) {
		json.NewDecoder(request.Body).Decode(&loginBody)
		writeJSON(writer, map[string]any{
			"profile": map[string]any{"id": "u1", "email": "alice@uci.edu", "display_name": "Alice"},
			"token":   "session-tok",
		})
	})
	mux.HandleFunc("GET /auth/me", func(writer http.ResponseWriter, request *http.Request) {
		bearer = request.Header.Get("Authorization")
		writeJSON(writer, map[string]any{"id": "u1", "email": "alice@uci.edu", "display_name": "Alice"})
	})
	client := testClient(t, mux)

	auth, err := client.Login(context.Background(), LoginRequest{Email: "alice@uci.edu", DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if auth.Token != "session-tok" || auth.Profile.DisplayName != "Alice" {
		t.Errorf("auth = %+v", auth)
	}
	if loginBody["email"] != "alice@uci.edu" || loginBody["display_name"] != "Alice" {
		t.Errorf("login body = %v", loginBody)
	}

	if _, err := client.GetMe(context.Background(), auth.Token); err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if bearer != "Bearer session-tok" {
		t.Errorf("Authorization = %q", bearer)
	}
}

func TestReserveSendsNullableFields(t *testing.T) {
	t.Parallel()

	var body map[string]any
	var bearer string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /events/{id}/reserve", func(writer http.ResponseWriter, request *http.Request) {
		bearer = request.Header.Get("Authorization")
		json.NewDecoder(request.Body).Decode(&body)
		writeJSON(writer, map[string]any{
			"reservation": map[string]any{
				"id": "rsv-1", "event_id": request.PathValue("id"),
				"display_name": "Alice", "email": nil, "status": "confirmed",
			},
			"token": "resv-tok",
		})
	})
	client := testClient(t, mux)

	response, err := client.Reserve(context.Background(), "evt-1", ReserveRequest{DisplayName: "Alice"}, "session-tok")
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if response.Token != "resv-tok" || response.Reservation.Status != wire.StatusConfirmed {
		t.Errorf("response = %+v", response)
	}
	if bearer != "Bearer session-tok" {
		t.Errorf("Authorization = %q", bearer)
	}
	if email, present := body["email"]; !present || email != nil {
		t.Errorf("email = %v, want explicit null", email)
	}
	if joinCode, present := body["join_code"]; !present || joinCode != nil {
		t.Errorf("join_code = %v, want explicit null", joinCode)
	}
}

func TestReserveWithoutSessionOmitsAuthorization(t *testing.T) {
	t.Parallel()

	var bearer string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /events/{id}/reserve", func(writer http.ResponseWriter, request *http.Request) {
		bearer = request.Header.Get("Authorization")
		writeJSON(writer, map[string]any{
			"reservation": map[string]any{
				"id": "rsv-1", "event_id": "evt-1",
				"display_name": "Alice", "email": nil, "status": "waitlisted",
			},
			"token": "resv-tok",
		})
	})
	client := testClient(t, mux)

	if _, err := client.Reserve(context.Background(), "evt-1", ReserveRequest{DisplayName: "Alice"}, ""); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if bearer != "" {
		t.Errorf("Authorization = %q, want unset for anonymous reserve", bearer)
	}
}

func TestCancelMyReservation(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /events/{id}/cancel", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(writer, map[string]any{"status": "canceled"})
	})
	client := testClient(t, mux)

	response, err := client.CancelMyReservation(context.Background(), "evt-1", "session-tok")
	if err != nil {
		t.Fatalf("CancelMyReservation: %v", err)
	}
	if response.Status != wire.StatusCanceled {
		t.Errorf("Status = %q", response.Status)
	}
}

func TestShapeMismatchIsHardFailure(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /events/{id}", func(writer http.ResponseWriter, request *http.Request) {
		// Missing almost every required field.
		writeJSON(writer, map[string]any{"id": "evt-1"})
	})
	client := testClient(t, mux)

	if _, err := client.GetEvent(context.Background(), "evt-1"); err == nil {
		t.Fatal("GetEvent accepted a malformed event")
	}
}

func TestServerErrorSurfacesEnvelope(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /events/{id}/mine", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusNotFound)
		json.NewEncoder(writer).Encode(map[string]any{
			"error": map[string]any{"code": "NOT_FOUND", "message": "no reservation"},
		})
	})
	client := testClient(t, mux)

	_, err := client.GetMyReservation(context.Background(), "evt-1", "tok")
	var apiErr *httpx.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *httpx.APIError", err)
	}
	if apiErr.Code != "NOT_FOUND" || apiErr.Status != http.StatusNotFound {
		t.Errorf("apiErr = %+v", apiErr)
	}
}
