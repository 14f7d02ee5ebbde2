// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

// Package main is the entry point for the LetsPopIn matching server.
//
// The server ranks attendee profiles against each other for networking
// events and extracts matching tags from free-form profile text.
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, environment (koanf v2)
//  2. Logging: zerolog, with a slog bridge for the supervisor
//  3. Store: Badger (default) or DuckDB, selected by STORE_DRIVER
//  4. Seeding: profiles from SEED_FILE are upserted when set
//  5. Embedding: Gemini batch embeddings behind a hash fallback
//  6. Extractor: Gemini structured generation, optional
//  7. Engine: pair scorer and MMR reranker
//  8. Supervisor: HTTP server and the vector warmer under suture
//
// # Signals
//
// SIGINT and SIGTERM cancel the supervisor context. The HTTP server drains
// in-flight requests for SHUTDOWN_TIMEOUT and the store is closed last.
//
// # Example
//
//	export GEMINI_API_KEY=...
//	export STORE_DRIVER=duckdb DUCKDB_PATH=/data/profiles.duckdb
//	export SEED_FILE=/data/attendees.json
//	./letspopin-matching
//
// Without GEMINI_API_KEY the server still runs: embeddings use the
// deterministic hash fallback and /api/ai/extract-keywords answers 503.
package main
