// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/christiankenc/letspopin-matching/internal/embedding"
	"github.com/christiankenc/letspopin-matching/internal/logging"
	"github.com/christiankenc/letspopin-matching/internal/metrics"
	"github.com/christiankenc/letspopin-matching/internal/models"
)

// Dependencies are the collaborators injected into the engine.
type Dependencies struct {
	Store    ProfileStore
	Embedder Embedder
	Scorer   Scorer
	Reranker Reranker
}

// Engine ranks candidate profiles against a query profile. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	store    ProfileStore
	resolver *VectorResolver
	scorer   Scorer
	reranker Reranker
}

// NewEngine creates a new matching engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	switch {
	case deps.Store == nil:
		return nil, errors.New("engine requires a profile store")
	case deps.Embedder == nil:
		return nil, errors.New("engine requires an embedder")
	case deps.Scorer == nil:
		return nil, errors.New("engine requires a scorer")
	case deps.Reranker == nil:
		return nil, errors.New("engine requires a reranker")
	}

	logger = logger.With().Str("component", "recommend").Logger()
	logger.Info().
		Str("scorer", deps.Scorer.Name()).
		Str("reranker", deps.Reranker.Name()).
		Float64("mmr_lambda", cfg.Diversity.MMRLambda).
		Int("shortlist", cfg.Limits.ShortlistSize).
		Msg("matching engine initialized")

	return &Engine{
		config:   cfg.Clone(),
		logger:   logger,
		store:    deps.Store,
		resolver: NewVectorResolver(deps.Embedder, deps.Store, logger),
		scorer:   deps.Scorer,
		reranker: deps.Reranker,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Match returns up to k candidates for the profile id, ranked by pair score
// and diversified with the reranker. k is resolved with Config.ClampK.
// An unknown id yields ErrProfileNotFound.
func (e *Engine) Match(ctx context.Context, id string, k int) (*Response, error) {
	start := time.Now()
	k = e.config.ClampK(k)

	query, err := e.store.GetProfile(ctx, id)
	if err != nil {
		result := "error"
		if errors.Is(err, ErrProfileNotFound) {
			result = "not_found"
		}
		metrics.RecordMatch(result, 0, time.Since(start))
		return nil, fmt.Errorf("load query profile: %w", err)
	}
	e.resolver.Ensure(ctx, query)

	others, err := e.store.ListOtherProfiles(ctx, id)
	if err != nil {
		metrics.RecordMatch("error", 0, time.Since(start))
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	if err := e.resolver.EnsureAll(ctx, others, e.config.Resolve.Workers); err != nil {
		metrics.RecordMatch("error", 0, time.Since(start))
		return nil, fmt.Errorf("resolve candidate vectors: %w", err)
	}

	scored := make([]Candidate, 0, len(others))
	for _, c := range others {
		s := e.scorer.Score(query, c)
		scored = append(scored, Candidate{
			Profile: c,
			Score:   s.Score,
			Handle:  embedding.MeanVec([][]float64{c.OfferingVec, c.LookingVec}),
			Reasons: s.Reasons,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > e.config.Limits.ShortlistSize {
		scored = scored[:e.config.Limits.ShortlistSize]
	}

	items := e.reranker.Rerank(ctx, scored, k)
	duration := time.Since(start)
	metrics.RecordMatch("success", len(others), duration)

	e.logger.Debug().
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Str("profile_id", id).
		Int("candidates", len(others)).
		Int("returned", len(items)).
		Dur("duration", duration).
		Msg("match completed")

	return &Response{
		QueryID:         id,
		Items:           items,
		TotalCandidates: len(others),
		Duration:        duration,
	}, nil
}

// Warm resolves vectors for every stored profile that is missing one, so
// that the first match request after an import or tag update does not pay
// for embedding. It returns how many profiles needed work.
func (e *Engine) Warm(ctx context.Context) (int, error) {
	profiles, err := e.store.ListProfiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("list profiles: %w", err)
	}

	pending := make([]*models.Profile, 0, len(profiles))
	for _, p := range profiles {
		if needsVectors(p) {
			pending = append(pending, p)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}
	if err := e.resolver.EnsureAll(ctx, pending, e.config.Resolve.Workers); err != nil {
		return 0, fmt.Errorf("resolve vectors: %w", err)
	}
	return len(pending), nil
}

// needsVectors reports whether Ensure would compute anything for p.
func needsVectors(p *models.Profile) bool {
	return (len(p.OfferingVec) == 0 && len(p.Tags.Offering) > 0) ||
		(len(p.LookingVec) == 0 && len(p.Tags.LookingFor) > 0)
}
