// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

// connect is the ICS Connect terminal client: search UCI campus
// events, open details, sign in, and manage RSVPs from the keyboard.
//
// The client reads its local settings from a YAML file named by
// --config or $ICS_CONNECT_CONFIG, then fetches the deployment's app
// config resource to learn the API base URL. --api-url skips that
// fetch and targets the API directly, which is the usual shape for
// local development against a dev server.
//
// --check performs a one-shot health probe against the API and exits;
// it needs no terminal and is meant for deployment smoke tests.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ics-connect/connect/lib/api"
	"github.com/ics-connect/connect/lib/app"
	"github.com/ics-connect/connect/lib/config"
	"github.com/ics-connect/connect/lib/connectui"
	"github.com/ics-connect/connect/lib/dom"
	"github.com/ics-connect/connect/lib/tokenstore"
	"github.com/ics-connect/connect/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var apiURL string
	var storagePath string
	var logOutput string
	var check bool

	flagSet := pflag.NewFlagSet("connect", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "client config YAML (default: $"+config.EnvVar+")")
	flagSet.StringVar(&apiURL, "api-url", "", "API base URL (skips the app config fetch)")
	flagSet.StringVar(&storagePath, "storage", "", "SQLite token store path (overrides the config file)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (in addition to the status bar)")
	flagSet.BoolVar(&check, "check", false, "probe the API health endpoint and exit")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match the other binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("connect")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	args := flagSet.Args()
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if storagePath != "" {
		cfg.StoragePath = storagePath
	}
	if apiURL == "" && cfg.AppConfig == "" {
		return fmt.Errorf("no API target: set app_config in the client config or pass --api-url")
	}

	ctx := context.Background()

	if check {
		return runCheck(ctx, cfg, apiURL)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal (use --check for non-interactive probes)")
	}

	// Background logging goes to the status bar, never stderr: stderr
	// writes would corrupt the alt-screen display. An optional file
	// logger captures everything for post-mortem debugging.
	tuiHandler := connectui.NewLogHandler(parseLogLevel(cfg.LogLevel))
	var logger *slog.Logger
	if logOutput != "" {
		fileHandler, fileCloser, fileErr := openFileLogHandler(logOutput)
		if fileErr != nil {
			return fmt.Errorf("cannot open log file %s: %w", logOutput, fileErr)
		}
		defer fileCloser()
		logger = slog.New(fanoutHandler{tuiHandler, fileHandler})
	} else {
		logger = slog.New(tuiHandler)
	}

	store, err := tokenstore.Open(tokenstore.Config{Path: cfg.StoragePath, Logger: logger})
	if err != nil {
		return err
	}
	defer store.Close()

	doc := dom.NewDocument()
	app.BuildLayout(doc)

	controller := app.New(doc, app.Deps{
		LoadConfig: func(ctx context.Context) (*config.AppConfig, error) {
			if apiURL != "" {
				return &config.AppConfig{APIBaseURL: apiURL}, nil
			}
			return config.LoadAppConfig(ctx, http.DefaultClient, cfg.AppConfig)
		},
		NewClient: func(baseURL string) api.Caller {
			return api.New(baseURL, api.Options{Timeout: cfg.APITimeout, Logger: logger})
		},
		Store:  store,
		Logger: logger,
	})

	model := connectui.NewModel(ctx, doc, controller)
	program := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(program)
	tuiHandler.SetProgram(program)

	_, err = program.Run()
	return err
}

// runCheck resolves the API base URL the same way the client would
// and probes the health endpoint once.
func runCheck(ctx context.Context, cfg *config.ClientConfig, apiURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	baseURL := apiURL
	if baseURL == "" {
		appCfg, err := config.LoadAppConfig(ctx, http.DefaultClient, cfg.AppConfig)
		if err != nil {
			return err
		}
		baseURL = appCfg.APIBaseURL
	}

	client := api.New(baseURL, api.Options{Timeout: cfg.APITimeout})
	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("health check against %s: %w", baseURL, err)
	}
	if !health.Ok {
		return fmt.Errorf("health check against %s: server reports not ok", baseURL)
	}
	fmt.Printf("ok: %s\n", baseURL)
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `ICS Connect — terminal client for UCI campus events.

Searches events, opens details, signs in with a UCI email, and
manages RSVPs. Session and reservation tokens persist in a local
SQLite store, so reservations survive restarts.

The API base URL comes from the deployment's app config resource
(app_config in the client config YAML), or directly from --api-url.

Usage:
  connect [flags]

Examples:
  # Run against a deployment's app config
  ICS_CONNECT_CONFIG=~/.config/ics-connect/config.yaml connect

  # Run against a local dev server
  connect --api-url http://localhost:8787

  # Smoke-test a deployment without a terminal
  connect --api-url https://api.example.edu --check

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}

// openFileLogHandler creates a slog.JSONHandler writing to path. The
// file is created or truncated.
func openFileLogHandler(path string) (slog.Handler, func(), error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return handler, func() { file.Close() }, nil
}

// fanoutHandler sends each record to multiple underlying handlers. A
// record is enabled if any sub-handler is enabled for that level.
type fanoutHandler []slog.Handler

func (handlers fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (handlers fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers fanoutHandler) WithGroup(name string) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}
