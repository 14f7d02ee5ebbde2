// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

// Package api exposes the matcher over HTTP with a chi router.
//
// Routes:
//
//	POST /api/ai/extract-keywords   extract tags from {id} or {text}; persist for id
//	GET  /api/ai/match/{id}?topk=N  ranked, diversified matches for a profile
//	GET  /api/ai/get-count          core-goal tallies across all profiles
//	GET  /api/health/live           process liveness
//	GET  /api/health/ready          store reachability (503 when unreachable)
//	GET  /metrics                   Prometheus exposition
//
// Every JSON response uses the models.APIResponse envelope. Handlers depend
// on small interfaces (Matcher, Extractor, ProfileStore) so tests can swap
// in fakes without a database or model provider.
package api
