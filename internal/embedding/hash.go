// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package embedding

import (
	"strings"
	"unicode/utf16"
)

// Character n-gram window sizes for HashEmbed.
const (
	minGram = 3
	maxGram = 5
)

// HashEmbed returns a deterministic bag-of-n-grams vector for text.
//
// The lowercased text is scanned as UTF-16 code units with windows of 3 to
// 5 units. Each window is hashed twice with bases 131 and 137 (uint32
// wraparound), the sum of both hashes picks a bucket, and the bucket
// counts are L2-normalized. Texts shorter than three units map to the zero
// vector.
func HashEmbed(text string) []float64 {
	v := make([]float64, Dimension)
	units := utf16.Encode([]rune(strings.ToLower(text)))

	for n := minGram; n <= maxGram; n++ {
		for i := 0; i+n <= len(units); i++ {
			var h1, h2 uint32
			for _, c := range units[i : i+n] {
				h1 = h1*131 + uint32(c)
				h2 = h2*137 + uint32(c)
			}
			// the sum is taken before reduction and may exceed 32 bits
			bucket := (uint64(h1) + uint64(h2)) % Dimension
			v[bucket]++
		}
	}

	return L2Normalize(v)
}

// HashEmbedAll applies HashEmbed to each text.
func HashEmbedAll(texts []string) [][]float64 {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = HashEmbed(t)
	}
	return out
}
