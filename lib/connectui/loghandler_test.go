// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package connectui

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestLogHandlerEnabled(t *testing.T) {
	handler := NewLogHandler(slog.LevelWarn)
	ctx := context.Background()

	if handler.Enabled(ctx, slog.LevelDebug) {
		t.Error("debug should be disabled at warn level")
	}
	if handler.Enabled(ctx, slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !handler.Enabled(ctx, slog.LevelWarn) {
		t.Error("warn should be enabled at warn level")
	}
	if !handler.Enabled(ctx, slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestLogHandlerSummarize(t *testing.T) {
	handler := NewLogHandler(slog.LevelInfo)

	record := slog.NewRecord(time.Time{}, slog.LevelInfo, "search complete", 0)
	record.AddAttrs(slog.Int("count", 3), slog.String("query", "game"))

	got := handler.summarize(record)
	want := "search complete (count=3, query=game)"
	if got != want {
		t.Errorf("summarize = %q, want %q", got, want)
	}
}

func TestLogHandlerSummarizeNoAttrs(t *testing.T) {
	handler := NewLogHandler(slog.LevelInfo)

	record := slog.NewRecord(time.Time{}, slog.LevelInfo, "signed out", 0)
	if got := handler.summarize(record); got != "signed out" {
		t.Errorf("summarize = %q, want %q", got, "signed out")
	}
}

func TestLogHandlerWithAttrsPrepends(t *testing.T) {
	base := NewLogHandler(slog.LevelInfo)
	derived, ok := base.WithAttrs([]slog.Attr{slog.String("event", "e1")}).(*LogHandler)
	if !ok {
		t.Fatal("WithAttrs should return a *LogHandler")
	}

	record := slog.NewRecord(time.Time{}, slog.LevelInfo, "reserve failed", 0)
	record.AddAttrs(slog.String("status", "409"))

	got := derived.summarize(record)
	want := "reserve failed (event=e1, status=409)"
	if got != want {
		t.Errorf("summarize = %q, want %q", got, want)
	}

	// The base handler is unaffected.
	if got := base.summarize(slog.NewRecord(time.Time{}, slog.LevelInfo, "plain", 0)); got != "plain" {
		t.Errorf("base summarize = %q, want %q", got, "plain")
	}
}

func TestLogHandlerHandleWithoutProgram(t *testing.T) {
	handler := NewLogHandler(slog.LevelInfo)
	record := slog.NewRecord(time.Time{}, slog.LevelInfo, "dropped", 0)

	if err := handler.Handle(context.Background(), record); err != nil {
		t.Errorf("Handle before SetProgram should be a no-op, got %v", err)
	}
}

func TestLogHandlerWithGroupFlattens(t *testing.T) {
	handler := NewLogHandler(slog.LevelInfo)
	if handler.WithGroup("api") != slog.Handler(handler) {
		t.Error("WithGroup should return the same handler")
	}
}
