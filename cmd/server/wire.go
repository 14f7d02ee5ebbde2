// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/christiankenc/letspopin-matching/internal/api"
	"github.com/christiankenc/letspopin-matching/internal/config"
	"github.com/christiankenc/letspopin-matching/internal/database"
	"github.com/christiankenc/letspopin-matching/internal/embedding"
	"github.com/christiankenc/letspopin-matching/internal/extract"
	"github.com/christiankenc/letspopin-matching/internal/logging"
	"github.com/christiankenc/letspopin-matching/internal/recommend"
	"github.com/christiankenc/letspopin-matching/internal/recommend/algorithms"
	"github.com/christiankenc/letspopin-matching/internal/recommend/reranking"
	"github.com/christiankenc/letspopin-matching/internal/store/badgerstore"
)

// profileStore is what both store drivers provide.
type profileStore interface {
	recommend.ProfileStore
	Ping(ctx context.Context) error
	io.Closer
}

var (
	_ profileStore     = (*badgerstore.Store)(nil)
	_ profileStore     = (*database.DB)(nil)
	_ api.ProfileStore = profileStore(nil)
)

func openStore(cfg *config.StoreConfig) (profileStore, error) {
	switch cfg.Driver {
	case config.DriverDuckDB:
		db, err := database.New(&cfg.DuckDB)
		if err != nil {
			return nil, fmt.Errorf("open duckdb store: %w", err)
		}
		logging.Info().Str("path", cfg.DuckDB.Path).Msg("DuckDB store opened")
		return db, nil
	case config.DriverBadger:
		s, err := badgerstore.Open(badgerstore.Options{Path: cfg.Badger.Path, InMemory: cfg.Badger.InMemory})
		if err != nil {
			return nil, fmt.Errorf("open badger store: %w", err)
		}
		logging.Info().Str("path", cfg.Badger.Path).Bool("in_memory", cfg.Badger.InMemory).Msg("Badger store opened")
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// newEmbedder returns the adapter. Without a usable provider it runs on
// the hash fallback alone.
func newEmbedder(cfg *config.EmbeddingConfig) (*embedding.Adapter, error) {
	logger := logging.Logger()
	adapterCfg := embedding.AdapterConfig{
		Timeout:   cfg.Timeout,
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
	}
	if !cfg.Enabled || cfg.APIKey == "" {
		logging.Warn().Msg("Embedding provider not configured, using hash embeddings")
		return embedding.NewAdapter(nil, adapterCfg, logger), nil
	}

	provider, err := embedding.NewGeminiProvider(embedding.GeminiConfig{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	logging.Info().Str("model", cfg.Model).Msg("Gemini embeddings enabled")
	return embedding.NewAdapter(provider, adapterCfg, logger), nil
}

// newExtractor returns nil when extraction is disabled or has no key.
func newExtractor(cfg *config.ExtractorConfig) (api.Extractor, error) {
	if !cfg.Enabled || cfg.APIKey == "" {
		logging.Warn().Msg("Keyword extractor not configured, extraction endpoint disabled")
		return nil, nil
	}
	g, err := extract.NewGemini(extract.Config{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		Temperature: cfg.Temperature,
	}, logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("keyword extractor: %w", err)
	}
	logging.Info().Str("model", cfg.Model).Msg("Gemini keyword extractor enabled")
	return g, nil
}

func engineConfig(m *config.MatchConfig) *recommend.Config {
	return &recommend.Config{
		Limits: recommend.LimitsConfig{
			DefaultK:      m.DefaultK,
			MaxK:          m.MaxK,
			ShortlistSize: m.ShortlistSize,
		},
		Diversity: recommend.DiversityConfig{MMRLambda: m.MMRLambda},
		Scoring: recommend.ScoringConfig{
			TitleBonus:              m.TitleBonus,
			SemanticReasonThreshold: m.SemanticReasonThreshold,
		},
		Resolve: recommend.ResolveConfig{Workers: m.ResolveWorkers},
	}
}

func newEngine(m *config.MatchConfig, store recommend.ProfileStore, embedder recommend.Embedder) (*recommend.Engine, error) {
	cfg := engineConfig(m)
	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
		Store:    store,
		Embedder: embedder,
		Scorer:   algorithms.NewPairScorer(cfg.Scoring),
		Reranker: reranking.NewMMR(cfg.Diversity.MMRLambda),
	}, logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("matching engine: %w", err)
	}
	return engine, nil
}
