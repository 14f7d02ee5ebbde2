// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

// Package recommend implements the profile matching engine.
//
// # Pipeline
//
// For a query profile the engine:
//
//  1. loads the profile and resolves its offering/looking vectors, computing
//     and persisting any that are missing (VectorResolver)
//  2. loads every other profile and resolves their vectors concurrently
//  3. scores each candidate with the injected Scorer
//  4. sorts by score, keeps a shortlist and hands it to the Reranker
//
// The scorer and reranker live in the algorithms and reranking
// subpackages; the engine only depends on the Scorer and Reranker
// interfaces so they can be swapped in tests.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
//	    Store:    store,
//	    Embedder: adapter,
//	    Scorer:   algorithms.NewPairScorer(cfg.Scoring),
//	    Reranker: reranking.NewMMR(cfg.Diversity.MMRLambda),
//	}, logger)
//	resp, err := engine.Match(ctx, profileID, 10)
//
// # Failure Model
//
// Only two conditions fail a match: an unknown query id
// (ErrProfileNotFound) and a store read error. Embedding failures degrade
// to hash vectors inside the embedder and vector write-back failures are
// logged, so a request always completes with whatever vectors were
// computed in memory.
package recommend
