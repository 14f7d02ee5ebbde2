// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package algorithms

import (
	"fmt"
	"strings"

	"github.com/christiankenc/letspopin-matching/internal/models"
	"github.com/christiankenc/letspopin-matching/internal/recommend"
	"github.com/christiankenc/letspopin-matching/internal/tags"
)

// Pair score weights.
const (
	harmonicWeight = 0.85
	jaccardWeight  = 0.15
	oneWayFloor    = 0.05
	jaccardCap     = 0.2
)

// PairScore combines directional cosines and tag overlaps into one score.
//
// cos1 is query-looking vs candidate-offering, cos2 is candidate-looking vs
// query-offering, j1 and j2 are the matching tag Jaccards. The harmonic
// term only counts when both cosines are positive and is floored at 5% of
// the larger cosine. The Jaccard average saturates at 0.2.
func PairScore(cos1, cos2, j1, j2 float64) float64 {
	var hraw float64
	if cos1 > 0 && cos2 > 0 {
		hraw = (2 * cos1 * cos2) / (cos1 + cos2)
	}
	h := max(hraw, oneWayFloor*max(cos1, cos2))

	jAvg := (j1 + j2) / 2
	jBoost := min(jaccardCap, max(0, jAvg)) / jaccardCap

	return harmonicWeight*h + jaccardWeight*jBoost
}

// directional is the cosine of two resolved vectors, or 0 when either
// direction has no vector.
func directional(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return Cosine(a, b)
}

// PairScorer scores candidates for the matching engine.
type PairScorer struct {
	titleBonus        float64
	semanticThreshold float64
}

// NewPairScorer creates a scorer from the engine's scoring configuration.
func NewPairScorer(cfg recommend.ScoringConfig) *PairScorer {
	return &PairScorer{
		titleBonus:        cfg.TitleBonus,
		semanticThreshold: cfg.SemanticReasonThreshold,
	}
}

// Name returns the scorer identifier.
func (s *PairScorer) Name() string {
	return "pair"
}

// Score rates candidate for query. Vectors must already be resolved.
func (s *PairScorer) Score(query, candidate *models.Profile) recommend.Scored {
	q, c := query.Tags, candidate.Tags

	cos1 := directional(query.LookingVec, candidate.OfferingVec)
	cos2 := directional(candidate.LookingVec, query.OfferingVec)
	j1 := Jaccard(q.LookingFor, c.Offering)
	j2 := Jaccard(c.LookingFor, q.Offering)

	score := PairScore(cos1, cos2, j1, j2)
	sharedTitles := tags.Overlap(q.Title, c.Title)
	if len(sharedTitles) > 0 {
		score += s.titleBonus
	}

	return recommend.Scored{
		Score: score,
		Reasons: Reasons(ReasonInput{
			Seeking:        tags.Overlap(q.LookingFor, c.Offering),
			TheyNeed:       tags.Overlap(c.LookingFor, q.Offering),
			SharedTopics:   tags.Overlap(q.Offering, c.Offering),
			SharedTitles:   sharedTitles,
			SharedOrgs:     tags.Overlap(q.Company, c.Company),
			J1:             j1,
			J2:             j2,
			Cos1:           cos1,
			Cos2:           cos2,
			SemanticCutoff: s.semanticThreshold,
		}),
	}
}

// ReasonInput holds the overlaps and similarities reasons are built from.
type ReasonInput struct {
	Seeking      []string // query looking ∩ candidate offering
	TheyNeed     []string // candidate looking ∩ query offering
	SharedTopics []string // query offering ∩ candidate offering
	SharedTitles []string
	SharedOrgs   []string

	J1, J2     float64
	Cos1, Cos2 float64

	SemanticCutoff float64
}

// Reasons builds the ordered explanation strings for a match. Tag overlaps
// come first; the generic overlap note and the semantic-fit note are only
// used when nothing more specific applies.
func Reasons(in ReasonInput) []string {
	reasons := []string{}
	add := func(label string, items []string, limit int) {
		if len(items) == 0 {
			return
		}
		if len(items) > limit {
			items = items[:limit]
		}
		reasons = append(reasons, label+strings.Join(items, ", "))
	}

	add("matches what you're seeking: ", in.Seeking, 3)
	add("you can help them with: ", in.TheyNeed, 3)
	add("shared topics: ", in.SharedTopics, 3)
	add("similar roles: ", in.SharedTitles, 2)
	add("shared orgs: ", in.SharedOrgs, 2)

	if len(reasons) == 0 && (in.J1 > 0 || in.J2 > 0) {
		reasons = append(reasons, "overlapping tags (need/offer)")
	}

	if len(reasons) == 0 && (in.Cos1 > in.SemanticCutoff || in.Cos2 > in.SemanticCutoff) {
		which := "their offering ~ your needs"
		if in.Cos1 < in.Cos2 {
			which = "your offering ~ their needs"
		}
		reasons = append(reasons, fmt.Sprintf("strong semantic fit (%s: %.2f)", which, max(in.Cos1, in.Cos2)))
	}

	return reasons
}

// Ensure PairScorer implements the interface.
var _ recommend.Scorer = (*PairScorer)(nil)
