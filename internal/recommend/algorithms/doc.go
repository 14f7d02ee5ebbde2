// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

// Package algorithms implements the similarity primitives and the pair
// scorer used by the matching engine.
//
// # Similarity
//
//   - Cosine: dot product over the shared prefix, zero norms treated as 1
//   - Jaccard: set overlap of phrase lists, 0 when both are empty
//
// # Pair Score
//
// PairScore blends two directional cosines (my needs vs their offering,
// their needs vs my offering) with tag overlap:
//
//	h      = harmonic(cos1, cos2) if both > 0, else 0, floored at 0.05*max(cos1, cos2)
//	jBoost = clamp((j1+j2)/2, 0, 0.2) / 0.2
//	score  = 0.85*h + 0.15*jBoost
//
// PairScorer wraps PairScore with the title bonus and reason strings and
// implements recommend.Scorer.
package algorithms
