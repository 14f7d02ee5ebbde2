// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/christiankenc/letspopin-matching/internal/logging"
	"github.com/christiankenc/letspopin-matching/internal/models"
	"github.com/christiankenc/letspopin-matching/internal/recommend"
	"github.com/christiankenc/letspopin-matching/internal/tags"
	"github.com/christiankenc/letspopin-matching/internal/validation"
)

// ExtractKeywords handles POST /api/ai/extract-keywords.
//
// Free text takes precedence over the stored profile as extraction input.
// When an id is present the extracted tags are written to that profile.
func (h *Handler) ExtractKeywords(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.ExtractKeywordsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, r, http.StatusBadRequest, CodeInvalidBody, "Request body must be a JSON object", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}
	if h.extractor == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeExtractUnavailable, "Keyword extraction is not configured", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	payload := models.TextPayload(req.Text)
	if req.Text == "" {
		p, err := h.store.GetProfile(ctx, req.ID)
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		payload = p.ExtractPayload()
	}

	extracted, err := h.extractor.Extract(ctx, payload)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeExtractFailed, "Failed to extract keywords", err)
		return
	}
	extracted = extracted.Normalized()

	resp := models.ExtractKeywordsResponse{Tags: extracted}
	if req.ID != "" {
		id := req.ID
		resp.ID = &id
		if err := h.store.UpdateTags(ctx, id, extracted); err != nil {
			if errors.Is(err, recommend.ErrProfileNotFound) {
				respondError(w, r, http.StatusNotFound, CodeNotFound, "Profile not found", nil)
				return
			}
			// the extracted tags are still valid for the caller
			logging.Ctx(r.Context()).Warn().Err(err).Str("profile_id", sanitizeLogValue(id)).Msg("failed to persist extracted tags")
		}
	}

	respondSuccess(w, resp, start)
}

// Match handles GET /api/ai/match/{id}?topk=N. A missing or non-numeric
// topk selects the default size.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	k := 0
	if raw := r.URL.Query().Get("topk"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			k = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.matcher.Match(ctx, id, k)
	if err != nil {
		if errors.Is(err, recommend.ErrProfileNotFound) {
			respondError(w, r, http.StatusNotFound, CodeNotFound, "Profile not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, CodeMatchFailed, "Match failed", err)
		return
	}

	out := models.MatchResponse{Query: res.QueryID, Results: make([]models.MatchResult, 0, len(res.Items))}
	for _, item := range res.Items {
		reasons := item.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		out.Results = append(out.Results, models.MatchResult{
			ID:       item.Profile.ID,
			Name:     item.Profile.Name,
			Headline: item.Profile.Headline,
			Score:    item.Score,
			Reasons:  reasons,
		})
	}
	respondSuccess(w, out, start)
}

// GoalCounts handles GET /api/ai/get-count.
func (h *Handler) GoalCounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	profiles, err := h.store.ListProfiles(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeDatabaseError, "Failed to load profiles", err)
		return
	}

	people := make([]tags.Person, len(profiles))
	for i, p := range profiles {
		people[i] = tags.Person{ID: p.ID, LookingFor: p.Tags.LookingFor, Offering: p.Tags.Offering}
	}
	respondSuccess(w, tags.TallyCoreGoals(people), start)
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, recommend.ErrProfileNotFound) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Profile not found", nil)
		return
	}
	respondError(w, r, http.StatusInternalServerError, CodeDatabaseError, "Failed to load profile", err)
}
