// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Warmer precomputes profile vectors.
type Warmer interface {
	// Warm resolves missing vectors and returns how many profiles needed it.
	Warm(ctx context.Context) (int, error)
}

// VectorWarmerConfig controls when warming runs.
type VectorWarmerConfig struct {
	// OnStartup runs one pass as soon as the service starts.
	OnStartup bool

	// Interval between passes. Zero disables periodic passes.
	Interval time.Duration

	// PassTimeout bounds a single pass.
	PassTimeout time.Duration
}

// VectorWarmerService embeds tags of profiles that have none stored yet,
// so the first match request after an import or a tag update is not the
// one paying for the provider calls.
type VectorWarmerService struct {
	warmer Warmer
	config VectorWarmerConfig
	logger zerolog.Logger
}

// NewVectorWarmerService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewVectorWarmerService(warmer Warmer, cfg VectorWarmerConfig, logger zerolog.Logger) *VectorWarmerService {
	if cfg.PassTimeout <= 0 {
		cfg.PassTimeout = 10 * time.Minute
	}
	return &VectorWarmerService{
		warmer: warmer,
		config: cfg,
		logger: logger.With().Str("service", "vector-warmer").Logger(),
	}
}

// Serve implements suture.Service. Pass failures are logged and retried on
// the next tick; they never restart the service.
func (s *VectorWarmerService) Serve(ctx context.Context) error {
	if s.config.OnStartup {
		s.pass(ctx)
	}
	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

func (s *VectorWarmerService) pass(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.config.PassTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.warmer.Warm(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("vector warm pass failed")
		return
	}
	if n > 0 {
		s.logger.Info().Int("profiles", n).Dur("duration", time.Since(start)).Msg("vector warm pass complete")
	}
}

// String names the service in supervisor events.
func (s *VectorWarmerService) String() string {
	return "vector-warmer"
}
