// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package recommend

import (
	"context"
	"time"

	"github.com/christiankenc/letspopin-matching/internal/models"
	"github.com/christiankenc/letspopin-matching/internal/tags"
)

// ProfileStore is the repository the engine reads profiles from and
// writes lazily computed vectors back to.
type ProfileStore interface {
	// GetProfile returns the profile with the given id or ErrProfileNotFound.
	GetProfile(ctx context.Context, id string) (*models.Profile, error)

	// ListOtherProfiles returns every profile except excludeID.
	ListOtherProfiles(ctx context.Context, excludeID string) ([]*models.Profile, error)

	// ListProfiles returns every profile.
	ListProfiles(ctx context.Context) ([]*models.Profile, error)

	// UpdateTags replaces the four tag slots of a profile.
	UpdateTags(ctx context.Context, id string, t tags.TagSet) error

	// UpdateVectors replaces both embedding vectors of a profile in one write.
	UpdateVectors(ctx context.Context, id string, offering, looking []float64) error

	// PutProfile inserts or replaces a whole profile.
	PutProfile(ctx context.Context, p *models.Profile) error
}

// VectorWriter persists the two derived vectors of a profile.
type VectorWriter interface {
	UpdateVectors(ctx context.Context, id string, offering, looking []float64) error
}

// Embedder turns phrases into unit vectors. Blank phrases are dropped, so
// the output aligns with the non-blank inputs. It never fails.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) [][]float64
}

// Scored is the compatibility of one candidate with the query profile.
type Scored struct {
	// Score is the pair score including any presentation bonus.
	Score float64

	// Reasons are human-readable justifications, most specific first.
	Reasons []string
}

// Scorer rates a candidate against the query. Both profiles carry
// resolved vectors.
type Scorer interface {
	// Name returns the scorer identifier.
	Name() string

	// Score computes the directional compatibility of candidate for query.
	Score(query, candidate *models.Profile) Scored
}

// Candidate is a scored profile within one match request.
type Candidate struct {
	// Profile is the candidate record.
	Profile *models.Profile

	// Score is the relevance score used for ranking.
	Score float64

	// Handle is the balanced vector (mean of both embeddings) used only for
	// diversity comparisons.
	Handle []float64

	// Reasons explain the match.
	Reasons []string
}

// Reranker modifies a ranked list for diversity or other objectives.
type Reranker interface {
	// Name returns the reranker identifier (e.g., "mmr").
	Name() string

	// Rerank selects up to k candidates from items, which are sorted by
	// descending Score.
	Rerank(ctx context.Context, items []Candidate, k int) []Candidate
}

// Response is the outcome of one match request.
type Response struct {
	// QueryID is the id of the query profile.
	QueryID string

	// Items are the selected candidates in display order.
	Items []Candidate

	// TotalCandidates is the number of profiles scored.
	TotalCandidates int

	// Duration is the wall time of the request.
	Duration time.Duration
}
