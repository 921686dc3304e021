// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MaxResponseSize is the bound on API response body reads: 256 MB.
// This exists solely to prevent a pathological response from
// exhausting memory. Legitimate API responses are orders of magnitude
// smaller; the limit is intentionally generous so that it never
// interferes with normal operation.
const MaxResponseSize int64 = 256 << 20

// APIError is the structured failure for a non-2xx response. Code and
// Message come from the server's error envelope when present and
// well-typed; otherwise Code is "APP_ERROR" and Message is
// "HTTP <status>". Status and the request correlation id are always
// attached.
type APIError struct {
	Code      string
	Message   string
	Status    int
	RequestID string
	Details   any
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s: %s (status %d, request %s)", e.Code, e.Message, e.Status, e.RequestID)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.Status)
}

// Options adjusts a single request. The zero value means no timeout
// and no extra headers.
type Options struct {
	// Timeout bounds the whole request. When set, a derived context
	// cancels the request after the timeout elapses; cancellation of
	// the caller's context still aborts the derived context (the two
	// signals are bridged, not replaced). When zero, the caller's
	// context passes through unchanged.
	Timeout time.Duration

	// Headers are merged over the defaults. A caller header wins over
	// a default of the same name, including Accept and Content-Type.
	Headers map[string]string
}

// Result is a decoded response: Data is the JSON payload (or the
// {"raw": ...} wrapper for non-JSON bodies), Response carries status
// and headers. The response body has been fully read and closed.
type Result struct {
	Data     any
	Response *http.Response
}

// Request performs one HTTP request and decodes the response.
//
// A non-nil body is JSON-serialized with Content-Type:
// application/json; Accept: application/json is always set. If the
// response declares a JSON content type, a malformed body is a hard
// decode error. Otherwise the body is read as text and parsed
// best-effort: unparseable text is wrapped as {"raw": <text>} rather
// than failing.
//
// Exactly one network call is issued per invocation; retries are the
// caller's responsibility.
func Request(ctx context.Context, client *http.Client, method, url string, body any, opts Options) (*Result, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	for name, value := range opts.Headers {
		request.Header.Set(name, value)
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading response body: %w", method, url, err)
	}

	data, err := decodeBody(response.Header.Get("Content-Type"), raw)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, envelopeError(data, response)
	}
	return &Result{Data: data, Response: response}, nil
}

// decodeBody interprets a response body according to its declared
// content type.
func decodeBody(contentType string, raw []byte) (any, error) {
	if strings.Contains(contentType, "application/json") {
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("decoding JSON response: %w", err)
		}
		return data, nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return map[string]any{"raw": string(raw)}, nil
	}
	return data, nil
}

// envelopeError builds the APIError for a non-2xx response from the
// decoded {error: {code, message, details}} envelope, falling back to
// generic code and message when the envelope is absent or mistyped.
func envelopeError(data any, response *http.Response) *APIError {
	apiErr := &APIError{
		Code:      "APP_ERROR",
		Message:   fmt.Sprintf("HTTP %d", response.StatusCode),
		Status:    response.StatusCode,
		RequestID: response.Header.Get("X-Request-Id"),
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return apiErr
	}
	inner, ok := obj["error"].(map[string]any)
	if !ok {
		return apiErr
	}
	if code, ok := inner["code"].(string); ok {
		apiErr.Code = code
	}
	if message, ok := inner["message"].(string); ok {
		apiErr.Message = message
	}
	apiErr.Details = inner["details"]
	return apiErr
}
