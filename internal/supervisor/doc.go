// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

// Package supervisor runs the long-lived services of the matcher under a
// suture v4 supervision tree.
//
// The tree has two layers so that a crash-looping background job cannot
// take the HTTP server down with it:
//
//	letspopin-matching (root)
//	├── data-layer   vector warmer
//	└── api-layer    HTTP server
//
// Supervisor events (restarts, backoff, stop timeouts) are logged through
// sutureslog on a slog.Logger; cmd/server passes logging.NewSlogLogger()
// so they land in the same zerolog stream as everything else.
package supervisor
