// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

/*
Package embedding turns tag phrases into fixed-dimension unit vectors.

The Adapter is the only entry point used by the matcher. It forwards
batches to a remote Provider (Gemini batchEmbedContents in production) and
falls back to HashEmbed, a deterministic character n-gram hashing scheme,
whenever the provider is not configured, exceeds its timeout, is rejected
by its circuit breaker, errors, or answers with a malformed batch.

	adapter := embedding.NewAdapter(provider, embedding.AdapterConfig{
	    Timeout:   5 * time.Second,
	    CacheSize: 4096,
	}, logger)
	vecs := adapter.EmbedBatch(ctx, []string{"offering: product design"})
	profileVec := embedding.MeanVec(vecs)

All vectors have Dimension entries and unit length, except the zero vector
which normalizes to itself.
*/
package embedding
