// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package algorithms

import "math"

// Cosine returns the cosine similarity of a and b. The dot product runs
// over the shared prefix while each norm covers its whole vector. A zero
// vector has norm 1 by convention, so its similarity with anything is 0.
func Cosine(a, b []float64) float64 {
	return dot(a, b) / (norm(a) * norm(b))
}

func dot(a, b []float64) float64 {
	n := min(len(a), len(b))
	var s float64
	for i := 0; i < n; i++ {
		s += a[i] * b[i]
	}
	return s
}

func norm(a []float64) float64 {
	n := math.Sqrt(dot(a, a))
	if n == 0 {
		return 1
	}
	return n
}

// Jaccard returns |A ∩ B| / |A ∪ B| with duplicates ignored.
// Two empty lists have similarity 0.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}
