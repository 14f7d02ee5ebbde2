// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package embedding

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/christiankenc/letspopin-matching/internal/cache"
	"github.com/christiankenc/letspopin-matching/internal/metrics"
	"github.com/christiankenc/letspopin-matching/internal/resilience"
)

// Fallback reasons reported to metrics.
const (
	fallbackDisabled  = "disabled"
	fallbackError     = "error"
	fallbackMalformed = "malformed"
	fallbackRejected  = "rejected"
	fallbackTimeout   = "timeout"
)

// AdapterConfig controls the remote call budget and the per-text memo.
type AdapterConfig struct {
	// Timeout bounds each provider call. Zero disables the adapter deadline.
	Timeout time.Duration
	// CacheSize is the number of memoized vectors. Zero disables memoization.
	CacheSize int
	// CacheTTL expires memoized vectors. Zero keeps them until evicted.
	CacheTTL time.Duration
}

// Adapter embeds text batches through a Provider and degrades to HashEmbed
// when the provider is absent, slow, failing or returns a malformed batch.
// It never returns an error. It is safe for concurrent use.
type Adapter struct {
	provider Provider
	timeout  time.Duration
	memo     *cache.LRUCache[[]float64]
	logger   zerolog.Logger
}

// NewAdapter creates an adapter. A nil provider makes every batch use the
// deterministic fallback.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAdapter(provider Provider, cfg AdapterConfig, logger zerolog.Logger) *Adapter {
	a := &Adapter{
		provider: provider,
		timeout:  cfg.Timeout,
		logger:   logger.With().Str("component", "embedding").Logger(),
	}
	if provider != nil && cfg.CacheSize > 0 {
		a.memo = cache.NewLRUCache[[]float64](cfg.CacheSize, cfg.CacheTTL)
	}
	return a
}

// ProviderName returns the configured provider name or "hash".
func (a *Adapter) ProviderName() string {
	if a.provider == nil {
		return "hash"
	}
	return a.provider.Name()
}

// EmbedBatch returns one unit vector per non-blank text, in input order.
//
// Blank texts are dropped before embedding, so the output is positionally
// aligned with the trimmed, filtered input rather than with texts itself.
// Either every vector comes from the provider (directly or via the memo) or
// every vector comes from HashEmbed; a batch is never mixed.
func (a *Adapter) EmbedBatch(ctx context.Context, texts []string) [][]float64 {
	items := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			items = append(items, t)
		}
	}
	if len(items) == 0 {
		return [][]float64{}
	}

	if a.provider == nil {
		metrics.RecordEmbeddingFallback(fallbackDisabled, len(items))
		return HashEmbedAll(items)
	}

	out := make([][]float64, len(items))
	pending := a.lookup(items, out)
	if len(pending) == 0 {
		return out
	}

	vectors, err := a.callProvider(ctx, pending)
	if err != nil {
		reason := fallbackReason(ctx, err)
		a.logger.Warn().Err(err).
			Str("provider", a.provider.Name()).
			Str("reason", reason).
			Int("texts", len(items)).
			Msg("embedding provider failed, using hash fallback")
		metrics.RecordEmbeddingFallback(reason, len(items))
		return HashEmbedAll(items)
	}

	byText := make(map[string][]float64, len(pending))
	for i, text := range pending {
		byText[text] = vectors[i]
		if a.memo != nil {
			a.memo.Add(text, vectors[i])
		}
	}
	if a.memo != nil {
		metrics.EmbeddingCacheEntries.Set(float64(a.memo.Len()))
	}
	for i, text := range items {
		if out[i] == nil {
			out[i] = slices.Clone(byText[text])
		}
	}
	return out
}

// lookup fills out from the memo and returns the distinct texts that still
// need embedding, in first-seen order.
func (a *Adapter) lookup(items []string, out [][]float64) []string {
	pending := make([]string, 0, len(items))
	queued := make(map[string]struct{}, len(items))
	hits := 0
	for i, text := range items {
		if a.memo != nil {
			if v, ok := a.memo.Get(text); ok {
				out[i] = slices.Clone(v)
				hits++
				continue
			}
		}
		if _, ok := queued[text]; ok {
			continue
		}
		queued[text] = struct{}{}
		pending = append(pending, text)
	}
	if a.memo != nil {
		metrics.RecordEmbeddingCache(hits, len(items)-hits)
	}
	return pending
}

func (a *Adapter) callProvider(ctx context.Context, texts []string) ([][]float64, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	vectors, err := a.provider.Embed(ctx, texts)
	if err == nil && len(vectors) != len(texts) {
		err = fmt.Errorf("%w: provider returned %d vectors for %d texts", ErrMalformedResponse, len(vectors), len(texts))
	}
	if err == nil {
		for i, v := range vectors {
			if len(v) == 0 {
				err = fmt.Errorf("%w: vector %d is empty", ErrMalformedResponse, i)
				break
			}
			if len(v) > Dimension {
				vectors[i] = v[:Dimension]
			}
			L2Normalize(vectors[i])
		}
	}
	metrics.RecordEmbeddingCall(a.provider.Name(), len(texts), time.Since(start), err)
	return vectors, err
}

func fallbackReason(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, ErrMalformedResponse):
		return fallbackMalformed
	case resilience.IsRejected(err):
		return fallbackRejected
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fallbackTimeout
	default:
		return fallbackError
	}
}
