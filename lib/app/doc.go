// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

// Package app is the application controller: it wires the event
// search, detail, reservation, and sign-in flows to a dom.Document
// and a typed API client. Every collaborator is injected through
// Deps; the controller reaches for no ambient state, so tests drive
// it against an in-memory document and a fake client.
//
// A controller instance stamps the document body with a random
// instance marker and checks the stamp before every flow and after
// every network response. When a newer instance has taken over the
// document, the stale instance performs no document mutations and
// issues no further requests.
package app
