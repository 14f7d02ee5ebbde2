// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/christiankenc/letspopin-matching/internal/models"
)

const pingTimeout = 2 * time.Second

// HealthLive handles GET /api/health/live. It always answers 200; the
// status field reports "degraded" when the store cannot be reached.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.health(r.Context()), time.Now())
}

// HealthReady handles GET /api/health/ready and answers 503 until the store
// is reachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	hr := h.health(r.Context())
	if hr.Store != "ok" {
		writeError(w, http.StatusServiceUnavailable, &models.APIError{Code: CodeDatabaseError, Message: "Profile store unavailable"})
		return
	}
	respondSuccess(w, hr, time.Now())
}

func (h *Handler) health(ctx context.Context) models.HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	hr := models.HealthResponse{
		Status:   "healthy",
		Store:    "ok",
		Embedder: h.embedder,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}
	if err := h.store.Ping(ctx); err != nil {
		hr.Status = "degraded"
		hr.Store = "unavailable"
	}
	return hr
}
