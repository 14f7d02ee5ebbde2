// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

// Package reranking implements post-processing of scored match lists.
//
// Rerankers run after the pair scorer has ordered the shortlist:
//
//	Scorer -> Shortlist (top 200) -> Reranker -> Top K
//	(relevance)                      (diversity)
//
// # Maximal Marginal Relevance
//
// MMR greedily picks the most relevant candidate first and then trades
// relevance against similarity to what was already picked. Similarity is
// the cosine between candidate handles, the mean of each candidate's
// offering and looking vectors.
//
// All rerankers implement recommend.Reranker and never mutate their input.
package reranking
