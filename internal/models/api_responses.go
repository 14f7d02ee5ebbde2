// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package models

import (
	"time"

	"github.com/christiankenc/letspopin-matching/internal/tags"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"query": "p-1", "results": [...]},
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z", "query_time_ms": 45}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "NOT_FOUND", "message": "Profile not found"},
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid request body or parameters
//   - NOT_FOUND: Unknown profile id
//   - EXTRACT_FAILED: Keyword extractor failed on both attempts
//   - MATCH_FAILED: Matching pipeline failed (store unavailable)
//   - DATABASE_ERROR: Profile store failure
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ExtractKeywordsRequest is the body of POST /api/ai/extract-keywords.
// At least one of ID and Text must be set.
type ExtractKeywordsRequest struct {
	ID   string `json:"id" validate:"required_without=Text,max=128"`
	Text string `json:"text" validate:"max=20000"`
}

// ExtractKeywordsResponse carries the normalized tags. ID is null when the
// tags were extracted from free text.
type ExtractKeywordsResponse struct {
	ID   *string     `json:"id"`
	Tags tags.TagSet `json:"tags"`
}

// MatchResult is one ranked candidate in a match response.
type MatchResult struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Headline string   `json:"headline"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons"`
}

// MatchResponse is the payload of GET /api/ai/match/{id}.
type MatchResponse struct {
	Query   string        `json:"query"`
	Results []MatchResult `json:"results"`
}

// HealthResponse is the payload of the liveness endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Store    string `json:"store"`
	Embedder string `json:"embedder"`
	Uptime   string `json:"uptime"`
}
