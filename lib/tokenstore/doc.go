// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

// Package tokenstore persists the client's capability strings — the
// session token, per-event reservation tokens, and the last-selected
// event id — in a local SQLite database. Tokens are stored as opaque
// strings with no encryption and no expiry: whoever holds the
// database file holds the capabilities, exactly as with browser
// local storage.
package tokenstore
