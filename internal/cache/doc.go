// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

/*
Package cache provides a thread-safe, generic LRU cache with optional TTL.

The matching service uses it to memoize embedding vectors per normalized
phrase. Tag vocabularies are small and highly repetitive across profiles,
so most phrases of a match request are served from memory and only new
phrases reach the embedding provider.

# Usage Example

	vectors := cache.NewLRUCache[[]float64](4096, 24*time.Hour)
	vectors.Add("product design", vec)
	if v, ok := vectors.Get("product design"); ok {
	    use(v)
	}

# Thread Safety

All methods are safe for concurrent use. Expired entries are removed
lazily on Get.
*/
package cache
