// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire defines the JSON shapes exchanged with the ICS Connect
// API and their runtime validation.
//
// Validation is structural, not nominal: every Parse function inspects
// a decoded JSON value field by field, requiring each field to be
// present with exactly the expected primitive type. Nullable fields
// must be exactly null or the expected type; numbers must be finite;
// array elements are checked individually. A single missing or
// mistyped field fails the whole parse — there is no partial or
// duck-typed acceptance. This is the hard boundary that keeps
// malformed server responses from ever reaching the application
// controller as untyped data.
//
// ToEventView converts a validated Event into the internal view model,
// parsing the two ISO-8601 instants and rejecting unparseable values
// rather than propagating them.
package wire
