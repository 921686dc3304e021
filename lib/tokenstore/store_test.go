// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package tokenstore

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAuthTokenRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if token, err := store.GetAuthToken(); err != nil || token != "" {
		t.Fatalf("GetAuthToken on empty store = %q, %v", token, err)
	}
	if err := store.SetAuthToken("session-tok"); err != nil {
		t.Fatalf("SetAuthToken: %v", err)
	}
	if token, _ := store.GetAuthToken(); token != "session-tok" {
		t.Errorf("GetAuthToken = %q", token)
	}
	if err := store.SetAuthToken("replaced"); err != nil {
		t.Fatalf("SetAuthToken overwrite: %v", err)
	}
	if token, _ := store.GetAuthToken(); token != "replaced" {
		t.Errorf("GetAuthToken after overwrite = %q", token)
	}
	if err := store.ClearAuthToken(); err != nil {
		t.Fatalf("ClearAuthToken: %v", err)
	}
	if token, _ := store.GetAuthToken(); token != "" {
		t.Errorf("GetAuthToken after clear = %q", token)
	}
}

func TestReservationTokensAreScopedPerEvent(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	store.SetReservationToken("evt-1", "tok-1")
	store.SetReservationToken("evt-2", "tok-2")

	if token, _ := store.GetReservationToken("evt-1"); token != "tok-1" {
		t.Errorf("evt-1 token = %q", token)
	}
	if token, _ := store.GetReservationToken("evt-3"); token != "" {
		t.Errorf("unknown event token = %q", token)
	}

	store.ClearReservationToken("evt-1")
	if token, _ := store.GetReservationToken("evt-1"); token != "" {
		t.Errorf("cleared token = %q", token)
	}
	if token, _ := store.GetReservationToken("evt-2"); token != "tok-2" {
		t.Errorf("unrelated token affected by clear: %q", token)
	}
}

func TestClearAllReservationTokensPreservesOtherKeys(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	store.SetAuthToken("session-tok")
	store.SetLastSelectedEvent("evt-9")
	store.SetReservationToken("evt-1", "tok-1")
	store.SetReservationToken("evt-2", "tok-2")

	if err := store.ClearAllReservationTokens(); err != nil {
		t.Fatalf("ClearAllReservationTokens: %v", err)
	}

	entries, err := store.ListReservationEntries()
	if err != nil {
		t.Fatalf("ListReservationEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries after clear = %v", entries)
	}
	if token, _ := store.GetAuthToken(); token != "session-tok" {
		t.Errorf("auth token lost: %q", token)
	}
	if eventID, _ := store.GetLastSelectedEvent(); eventID != "evt-9" {
		t.Errorf("last event lost: %q", eventID)
	}
}

func TestListReservationEntriesSkipsEmptyTokens(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	store.SetReservationToken("evt-1", "tok-1")
	store.SetReservationToken("evt-2", "")
	store.SetReservationToken("evt-3", "tok-3")

	entries, err := store.ListReservationEntries()
	if err != nil {
		t.Fatalf("ListReservationEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %v, want 2", entries)
	}
	if entries[0].EventID != "evt-1" || entries[0].Token != "tok-1" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].EventID != "evt-3" || entries[1].Token != "tok-3" {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestLastSelectedEventRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if eventID, _ := store.GetLastSelectedEvent(); eventID != "" {
		t.Errorf("initial last event = %q", eventID)
	}
	store.SetLastSelectedEvent("evt-5")
	if eventID, _ := store.GetLastSelectedEvent(); eventID != "evt-5" {
		t.Errorf("last event = %q", eventID)
	}
	store.ClearLastSelectedEvent()
	if eventID, _ := store.GetLastSelectedEvent(); eventID != "" {
		t.Errorf("last event after clear = %q", eventID)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.db")
	store, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store.SetAuthToken("survives")
	store.SetReservationToken("evt-1", "tok-1")
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })
	if token, _ := reopened.GetAuthToken(); token != "survives" {
		t.Errorf("auth token after reopen = %q", token)
	}
	if token, _ := reopened.GetReservationToken("evt-1"); token != "tok-1" {
		t.Errorf("reservation token after reopen = %q", token)
	}
}
