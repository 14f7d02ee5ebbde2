// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package embedding

import (
	"math"

	"github.com/goccy/go-json"
)

// Dimension is the length of every embedding vector.
const Dimension = 768

// L2Normalize scales v to unit Euclidean length in place and returns it.
// The zero vector is returned unchanged.
func L2Normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}

// MeanVec returns the renormalized elementwise mean of vectors over
// Dimension slots. Entries missing from short vectors contribute zero.
// An empty input yields the zero vector.
func MeanVec(vectors [][]float64) []float64 {
	out := make([]float64, Dimension)
	if len(vectors) == 0 {
		return out
	}
	for _, v := range vectors {
		n := min(len(v), Dimension)
		for i := 0; i < n; i++ {
			out[i] += v[i]
		}
	}
	count := float64(len(vectors))
	for i := range out {
		out[i] /= count
	}
	return L2Normalize(out)
}

// ParseVector decodes a stored JSON vector. Absent, null and malformed
// input all decode to an empty, non-nil slice.
func ParseVector(data []byte) []float64 {
	if len(data) == 0 {
		return []float64{}
	}
	var v []float64
	if err := json.Unmarshal(data, &v); err != nil || v == nil {
		return []float64{}
	}
	return v
}

// EncodeVector renders v as a JSON array. A nil vector encodes as [].
func EncodeVector(v []float64) ([]byte, error) {
	if v == nil {
		v = []float64{}
	}
	return json.Marshal(v)
}
