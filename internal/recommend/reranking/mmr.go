// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package reranking

import (
	"context"
	"math"

	"github.com/christiankenc/letspopin-matching/internal/recommend"
	"github.com/christiankenc/letspopin-matching/internal/recommend/algorithms"
)

// maxRerankSize bounds k regardless of what the caller passes.
const maxRerankSize = 10000

// MMR implements Maximal Marginal Relevance reranking.
//
// The first pick is the highest-scored candidate. Every later pick maximizes
//
//	lambda * score(c) - (1-lambda) * max(cos(handle(c), handle(p)) for p in picked)
//
// Ties go to the candidate encountered first.
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct {
	lambda float64
}

// NewMMR creates a new MMR reranker. lambda is clamped to [0, 1].
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Lambda returns the relevance weight.
func (m *MMR) Lambda() float64 {
	return m.lambda
}

// Rerank selects min(k, len(items)) candidates. items is not modified.
//
//nolint:gocritic // rangeValCopy: Candidate passed by value in range, acceptable for clarity
func (m *MMR) Rerank(_ context.Context, items []recommend.Candidate, k int) []recommend.Candidate {
	if len(items) == 0 || k <= 0 {
		return []recommend.Candidate{}
	}
	k = min(k, maxRerankSize, len(items))

	rest := make([]recommend.Candidate, len(items))
	copy(rest, items)
	picked := make([]recommend.Candidate, 0, k)

	for len(rest) > 0 && len(picked) < k {
		bestIdx := 0
		bestVal := math.Inf(-1)
		for i, c := range rest {
			val := c.Score
			if len(picked) > 0 {
				val = m.lambda*c.Score - (1-m.lambda)*maxSimilarity(c, picked)
			}
			if val > bestVal {
				bestVal = val
				bestIdx = i
			}
		}

		picked = append(picked, rest[bestIdx])
		rest = append(rest[:bestIdx], rest[bestIdx+1:]...)
	}

	return picked
}

// maxSimilarity is the cosine to the closest already-picked candidate.
func maxSimilarity(c recommend.Candidate, picked []recommend.Candidate) float64 {
	best := math.Inf(-1)
	for _, p := range picked {
		if sim := algorithms.Cosine(c.Handle, p.Handle); sim > best {
			best = sim
		}
	}
	return best
}

// Ensure MMR implements the interface.
var _ recommend.Reranker = (*MMR)(nil)
