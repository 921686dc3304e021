// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// maxAppConfigSize bounds the app config read. The resource is a
// handful of keys; anything near this limit is not our config.
const maxAppConfigSize int64 = 1 << 20

// AppConfig is the deployment configuration resource shared with the
// web client. The wire key casing is the deployment's, not ours.
type AppConfig struct {
	APIBaseURL string `json:"API_BASE_URL"`
}

// LoadAppConfig fetches and validates the app config resource.
// Location is an http(s) URL or a local file path. The JSON may carry
// comments and trailing commas (hand-edited deployment files do);
// they are stripped before decoding. A missing resource or a shape
// without a non-empty API_BASE_URL string is an error — the client
// cannot run without an API root.
func LoadAppConfig(ctx context.Context, client *http.Client, location string) (*AppConfig, error) {
	if location == "" {
		return nil, fmt.Errorf("app config location is empty")
	}

	var raw []byte
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, fmt.Errorf("building app config request: %w", err)
		}
		request.Header.Set("Accept", "application/json")
		if client == nil {
			client = http.DefaultClient
		}
		response, err := client.Do(request)
		if err != nil {
			return nil, fmt.Errorf("fetching app config from %s: %w", location, err)
		}
		defer response.Body.Close()
		if response.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetching app config from %s: HTTP %d", location, response.StatusCode)
		}
		raw, err = io.ReadAll(io.LimitReader(response.Body, maxAppConfigSize))
		if err != nil {
			return nil, fmt.Errorf("reading app config from %s: %w", location, err)
		}
	} else {
		var err error
		raw, err = os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("reading app config %s: %w", location, err)
		}
	}

	var cfg AppConfig
	if err := json.Unmarshal(jsonc.ToJSON(raw), &cfg); err != nil {
		return nil, fmt.Errorf("parsing app config %s: %w", location, err)
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("app config %s: API_BASE_URL must be a non-empty string", location)
	}
	return &cfg, nil
}
