// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Levels(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
		{slog.LevelError + 4, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			captureGlobal(t)
			var buf bytes.Buffer
			logger := slog.New(NewSlogHandler(NewTestLogger(&buf)))

			logger.Log(context.Background(), tt.level, "event")

			m := decodeLine(t, buf.Bytes())
			if m["level"] != tt.want {
				t.Errorf("level = %v, want %s", m["level"], tt.want)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	captureGlobal(t)
	var buf bytes.Buffer
	h := NewSlogHandler(NewTestLogger(&buf).Level(zerolog.WarnLevel))

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled on a warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled on a warn logger")
	}
}

func TestSlogHandler_Attrs(t *testing.T) {
	captureGlobal(t)
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(NewTestLogger(&buf))).
		With("supervisor", "letspopin").
		WithGroup("service")

	logger.Info("restarting",
		"name", "http-server",
		"attempt", 2,
		"backoff", time.Second,
		"healthy", false,
		"err", errors.New("listen failed"),
		slog.Group("limits", "burst", 20),
	)

	m := decodeLine(t, buf.Bytes())
	checks := map[string]any{
		"supervisor":           "letspopin",
		"service.name":         "http-server",
		"service.attempt":      float64(2),
		"service.healthy":      false,
		"service.err":          "listen failed",
		"service.limits.burst": float64(20),
	}
	for k, want := range checks {
		if m[k] != want {
			t.Errorf("%s = %v (%T), want %v", k, m[k], m[k], want)
		}
	}
	if _, ok := m["service.backoff"]; !ok {
		t.Error("duration attribute missing")
	}
}

func TestSlogHandler_WithAttrsDoesNotLeak(t *testing.T) {
	captureGlobal(t)
	var buf bytes.Buffer
	base := NewSlogHandler(NewTestLogger(&buf))
	_ = base.WithAttrs([]slog.Attr{slog.String("k", "v")})
	_ = base.WithGroup("g")

	slog.New(base).Info("plain")

	m := decodeLine(t, buf.Bytes())
	if _, ok := m["k"]; ok {
		t.Error("WithAttrs mutated the parent handler")
	}
	if len(base.groups) != 0 {
		t.Error("WithGroup mutated the parent handler")
	}
}

func TestNewSlogLogger(t *testing.T) {
	buf := captureGlobal(t)
	NewSlogLogger().Warn("via slog", "k", "v")

	m := decodeLine(t, buf.Bytes())
	if m["message"] != "via slog" || m["k"] != "v" {
		t.Errorf("entry = %v", m)
	}
}
