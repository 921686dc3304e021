// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package tokenstore

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Storage keys. The auth token and last-selected event are single
// values; reservation tokens are a keyed collection under a shared
// prefix, one entry per event.
const (
	authKey           = "auth.token"
	lastEventKey      = "last.event"
	reservationPrefix = "resv."
)

// Entry is one persisted reservation credential.
type Entry struct {
	EventID string
	Token   string
}

// Config holds the parameters for opening a token store.
type Config struct {
	// Path is the filesystem path to the SQLite database file. The
	// parent directory must exist; the file is created if it does
	// not. Use ":memory:" for tests.
	Path string

	// Logger receives operational messages. If nil, a no-op logger
	// is used.
	Logger *slog.Logger
}

// Store is durable key-value persistence for the client's capability
// strings: the session token, per-event reservation tokens, and the
// last-selected event id. Values are opaque strings with no expiry —
// they persist until explicitly cleared.
//
// All operations are synchronous. Store is safe for concurrent use;
// a single connection behind a mutex serializes access, which is
// plenty for a client whose writers are user-triggered flows.
type Store struct {
	mu     sync.Mutex
	conn   *sqlite.Conn
	logger *slog.Logger
	path   string
}

// Open creates or opens the token store at cfg.Path.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("tokenstore: Path is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	conn, err := sqlite.OpenConn(cfg.Path, sqlite.OpenReadWrite|sqlite.OpenCreate|sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("tokenstore: opening %s: %w", cfg.Path, err)
	}
	conn.SetBusyTimeout(5 * time.Second)

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if err := sqlitex.ExecuteTransient(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tokenstore: creating schema: %w", err)
	}

	logger.Debug("token store opened", "path", cfg.Path)
	return &Store{conn: conn, logger: logger, path: cfg.Path}, nil
}

// Close releases the underlying connection.
func (store *Store) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.conn == nil {
		return nil
	}
	err := store.conn.Close()
	store.conn = nil
	if err != nil {
		return fmt.Errorf("tokenstore: closing %s: %w", store.path, err)
	}
	return nil
}

// SetAuthToken persists the session token.
func (store *Store) SetAuthToken(token string) error {
	return store.set(authKey, token)
}

// GetAuthToken returns the persisted session token, or "" when none
// is stored.
func (store *Store) GetAuthToken() (string, error) {
	return store.get(authKey)
}

// ClearAuthToken removes the session token.
func (store *Store) ClearAuthToken() error {
	return store.delete(authKey)
}

// SetReservationToken persists the event-scoped reservation token.
func (store *Store) SetReservationToken(eventID string, token string) error {
	return store.set(reservationPrefix+eventID, token)
}

// GetReservationToken returns the reservation token for an event, or
// "" when none is stored.
func (store *Store) GetReservationToken(eventID string) (string, error) {
	return store.get(reservationPrefix + eventID)
}

// ClearReservationToken removes the reservation token for one event.
func (store *Store) ClearReservationToken(eventID string) error {
	return store.delete(reservationPrefix + eventID)
}

// ClearAllReservationTokens removes every reservation-scoped entry,
// preserving the auth token and the last-selected event.
func (store *Store) ClearAllReservationTokens() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	err := sqlitex.Execute(store.conn,
		`DELETE FROM kv WHERE substr(key, 1, ?) = ?`,
		&sqlitex.ExecOptions{Args: []any{len(reservationPrefix), reservationPrefix}})
	if err != nil {
		return fmt.Errorf("tokenstore: clearing reservation tokens: %w", err)
	}
	return nil
}

// ListReservationEntries returns every stored (event id, token) pair,
// skipping entries whose token is the empty string. Order is stable
// (by event id) so rendered reservation lists do not reshuffle.
func (store *Store) ListReservationEntries() ([]Entry, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var entries []Entry
	err := sqlitex.Execute(store.conn,
		`SELECT key, value FROM kv WHERE substr(key, 1, ?) = ? AND value <> '' ORDER BY key`,
		&sqlitex.ExecOptions{
			Args: []any{len(reservationPrefix), reservationPrefix},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				entries = append(entries, Entry{
					EventID: strings.TrimPrefix(stmt.ColumnText(0), reservationPrefix),
					Token:   stmt.ColumnText(1),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("tokenstore: listing reservation entries: %w", err)
	}
	return entries, nil
}

// SetLastSelectedEvent persists the id of the event whose detail view
// is open, for restore after the next load.
func (store *Store) SetLastSelectedEvent(eventID string) error {
	return store.set(lastEventKey, eventID)
}

// GetLastSelectedEvent returns the persisted last-selected event id,
// or "" when none is stored.
func (store *Store) GetLastSelectedEvent() (string, error) {
	return store.get(lastEventKey)
}

// ClearLastSelectedEvent removes the last-selected event id.
func (store *Store) ClearLastSelectedEvent() error {
	return store.delete(lastEventKey)
}

func (store *Store) set(key string, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	err := sqlitex.Execute(store.conn,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		&sqlitex.ExecOptions{Args: []any{key, value}})
	if err != nil {
		return fmt.Errorf("tokenstore: setting %s: %w", key, err)
	}
	return nil
}

func (store *Store) get(key string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var value string
	err := sqlitex.Execute(store.conn,
		`SELECT value FROM kv WHERE key = ?`,
		&sqlitex.ExecOptions{
			Args: []any{key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				value = stmt.ColumnText(0)
				return nil
			},
		})
	if err != nil {
		return "", fmt.Errorf("tokenstore: reading %s: %w", key, err)
	}
	return value, nil
}

func (store *Store) delete(key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	err := sqlitex.Execute(store.conn,
		`DELETE FROM kv WHERE key = ?`,
		&sqlitex.ExecOptions{Args: []any{key}})
	if err != nil {
		return fmt.Errorf("tokenstore: deleting %s: %w", key, err)
	}
	return nil
}
