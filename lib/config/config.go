// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the ICS Connect
// client.
//
// Two layers exist. The client config is a local YAML file specified
// by the ICS_CONNECT_CONFIG environment variable or a --config flag —
// no fallbacks or automatic discovery, which keeps configuration
// deterministic and auditable. The app config is the deployment's
// JSON resource (the same config.json the web client fetches) naming
// the API base URL; it is loaded at startup from a URL or file path
// and its absence or a malformed shape is a fatal initialization
// error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that points at the client
// config file.
const EnvVar = "ICS_CONNECT_CONFIG"

// ClientConfig is the local configuration for the terminal client.
type ClientConfig struct {
	// AppConfig is where to fetch the deployment's app config
	// resource: an http(s) URL or a local file path. Required unless
	// an API base URL is supplied directly on the command line.
	AppConfig string `yaml:"app_config"`

	// StoragePath is the SQLite file for persisted tokens. Defaults
	// to tokens.db under the user config directory.
	StoragePath string `yaml:"storage_path"`

	// APITimeout bounds each API request. Zero means no per-request
	// timeout.
	APITimeout time.Duration `yaml:"api_timeout"`

	// LogLevel is debug, info, warn, or error. Defaults to info.
	LogLevel string `yaml:"log_level"`
}

// Load reads the client config from flagPath, or from $ICS_CONNECT_CONFIG
// when flagPath is empty. When neither is set, defaults are returned.
func Load(flagPath string) (*ClientConfig, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	cfg := &ClientConfig{LogLevel: "info"}
	if path == "" {
		applyDefaults(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading client config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing client config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("client config %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func (cfg *ClientConfig) validate() error {
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", cfg.LogLevel)
	}
	if cfg.APITimeout < 0 {
		return errors.New("api_timeout must not be negative")
	}
	return nil
}

func applyDefaults(cfg *ClientConfig) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.StoragePath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.StoragePath = filepath.Join(dir, "ics-connect", "tokens.db")
		} else {
			cfg.StoragePath = "tokens.db"
		}
	}
}
