// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

// Package httpx is the HTTP transport under the ICS Connect API
// client: JSON request serialization, bounded response reads,
// content-type-aware decoding, structured error extraction from the
// server's error envelope, and timeout/cancellation bridging via
// derived contexts.
//
// The transport issues exactly one network call per invocation and
// never retries; the API client and controller decide retry policy.
package httpx
