// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

// Package middleware provides the chi-compatible HTTP middleware shared by
// every route: request id propagation, access logging and Prometheus
// request metrics.
//
// Order matters. RequestID must run first so that AccessLog and handler
// logs carry the id:
//
//	r.Use(middleware.RequestID)
//	r.Use(middleware.AccessLog)
//	r.Use(middleware.Metrics)
//
// Metrics labels requests by the matched chi route pattern
// ("/api/ai/match/{id}") rather than the raw path, so profile ids never
// become label values.
package middleware
