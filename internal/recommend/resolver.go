// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package recommend

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/christiankenc/letspopin-matching/internal/embedding"
	"github.com/christiankenc/letspopin-matching/internal/logging"
	"github.com/christiankenc/letspopin-matching/internal/metrics"
	"github.com/christiankenc/letspopin-matching/internal/models"
)

// Direction labels prefixed to each tag before embedding.
const (
	OfferingPrefix = "offering: "
	LookingPrefix  = "looking: "
)

// VectorResolver fills in missing profile vectors from tags and persists
// them so later requests hit the stored copy.
type VectorResolver struct {
	embedder Embedder
	writer   VectorWriter
	logger   zerolog.Logger
}

// NewVectorResolver creates a resolver. A nil writer disables write-back.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewVectorResolver(embedder Embedder, writer VectorWriter, logger zerolog.Logger) *VectorResolver {
	return &VectorResolver{
		embedder: embedder,
		writer:   writer,
		logger:   logger.With().Str("component", "vector_resolver").Logger(),
	}
}

// Ensure guarantees p carries non-nil OfferingVec and LookingVec.
//
// A direction whose stored vector is empty and whose tag slot is non-empty
// is computed as the mean of its prefixed tag embeddings. A direction with
// no tags stays empty. When anything was computed, p has an id and at least
// one vector is non-empty, both vectors are written back in one update.
// Write-back failures are logged and never returned.
func (r *VectorResolver) Ensure(ctx context.Context, p *models.Profile) {
	if p.OfferingVec == nil {
		p.OfferingVec = []float64{}
	}
	if p.LookingVec == nil {
		p.LookingVec = []float64{}
	}

	dirty := false
	if len(p.OfferingVec) == 0 && len(p.Tags.Offering) > 0 {
		p.OfferingVec = r.embedTags(ctx, OfferingPrefix, p.Tags.Offering)
		dirty = true
	}
	if len(p.LookingVec) == 0 && len(p.Tags.LookingFor) > 0 {
		p.LookingVec = r.embedTags(ctx, LookingPrefix, p.Tags.LookingFor)
		dirty = true
	}

	if !dirty || p.ID == "" || r.writer == nil {
		return
	}
	if len(p.OfferingVec) == 0 && len(p.LookingVec) == 0 {
		return
	}

	err := r.writer.UpdateVectors(ctx, p.ID, p.OfferingVec, p.LookingVec)
	metrics.RecordVectorWriteBack(err)
	if err != nil {
		r.logger.Warn().Err(err).
			Str("profile_id", p.ID).
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Msg("failed to persist profile vectors")
	}
}

func (r *VectorResolver) embedTags(ctx context.Context, prefix string, phrases []string) []float64 {
	texts := make([]string, len(phrases))
	for i, t := range phrases {
		texts[i] = prefix + t
	}
	return embedding.MeanVec(r.embedder.EmbedBatch(ctx, texts))
}

// EnsureAll resolves profiles concurrently with at most workers in flight.
// It only fails when ctx is cancelled.
func (r *VectorResolver) EnsureAll(ctx context.Context, profiles []*models.Profile, workers int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))

	for _, p := range profiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.Ensure(gctx, p)
			return nil
		})
	}
	return g.Wait()
}
