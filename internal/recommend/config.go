// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package recommend

import (
	"fmt"
)

// Config contains all configuration for the matching engine.
type Config struct {
	// Limits contains result size limits.
	Limits LimitsConfig `json:"limits"`

	// Diversity contains parameters for diversity reranking.
	Diversity DiversityConfig `json:"diversity"`

	// Scoring contains presentation-layer scoring knobs.
	Scoring ScoringConfig `json:"scoring"`

	// Resolve contains vector resolution parameters.
	Resolve ResolveConfig `json:"resolve"`
}

// LimitsConfig bounds how many candidates are returned and reranked.
type LimitsConfig struct {
	// DefaultK is used when the caller does not ask for a size.
	DefaultK int `json:"default_k"`

	// MaxK caps the requested size.
	MaxK int `json:"max_k"`

	// ShortlistSize is how many top-scored candidates enter reranking.
	ShortlistSize int `json:"shortlist_size"`
}

// DiversityConfig contains parameters for diversity reranking.
type DiversityConfig struct {
	// MMRLambda balances relevance (1.0) against diversity (0.0).
	MMRLambda float64 `json:"mmr_lambda"`
}

// ScoringConfig holds constants applied on top of the pair score.
type ScoringConfig struct {
	// TitleBonus is added when query and candidate share a title tag.
	TitleBonus float64 `json:"title_bonus"`

	// SemanticReasonThreshold is the cosine above which a "strong semantic
	// fit" reason is emitted when no tag-based reason applies.
	SemanticReasonThreshold float64 `json:"semantic_reason_threshold"`
}

// ResolveConfig controls candidate vector resolution.
type ResolveConfig struct {
	// Workers bounds concurrent candidate resolutions.
	Workers int `json:"workers"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultK:      10,
			MaxK:          50,
			ShortlistSize: 200,
		},
		Diversity: DiversityConfig{
			MMRLambda: 0.8,
		},
		Scoring: ScoringConfig{
			TitleBonus:              0.02,
			SemanticReasonThreshold: 0.45,
		},
		Resolve: ResolveConfig{
			Workers: 8,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= default_k (%d), got %d", c.Limits.DefaultK, c.Limits.MaxK)
	}
	if c.Limits.ShortlistSize < c.Limits.MaxK {
		return fmt.Errorf("limits.shortlist_size must be >= max_k (%d), got %d", c.Limits.MaxK, c.Limits.ShortlistSize)
	}

	if c.Diversity.MMRLambda < 0 || c.Diversity.MMRLambda > 1 {
		return fmt.Errorf("diversity.mmr_lambda must be in [0, 1], got %f", c.Diversity.MMRLambda)
	}

	if c.Scoring.TitleBonus < 0 || c.Scoring.TitleBonus > 0.1 {
		return fmt.Errorf("scoring.title_bonus must be in [0, 0.1], got %f", c.Scoring.TitleBonus)
	}
	if c.Scoring.SemanticReasonThreshold < -1 || c.Scoring.SemanticReasonThreshold > 1 {
		return fmt.Errorf("scoring.semantic_reason_threshold must be in [-1, 1], got %f", c.Scoring.SemanticReasonThreshold)
	}

	if c.Resolve.Workers < 1 {
		return fmt.Errorf("resolve.workers must be positive, got %d", c.Resolve.Workers)
	}
	return nil
}

// ClampK resolves a requested result size. Zero selects DefaultK; other
// values are clamped to [1, MaxK].
func (c *Config) ClampK(k int) int {
	if k == 0 {
		k = c.Limits.DefaultK
	}
	return max(1, min(c.Limits.MaxK, k))
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	// all nested structs contain only value types
	clone := *c
	return &clone
}
