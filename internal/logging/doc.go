// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

// Package logging holds the process-wide zerolog logger.
//
// Components take a zerolog.Logger by value in their constructors and derive
// a child with a "component" field. Code without an injected logger (store
// adapters, the circuit breaker, startup wiring) uses the package-level
// helpers, which read the global logger under a lock:
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Str("driver", "badger").Msg("profile store opened")
//
// Request-scoped fields travel in the context. The HTTP layer stores the
// request id with ContextWithRequestID and Ctx adds it to every line:
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("vector write-back failed")
//
// Environment variables (see internal/config):
//
//	LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  json, console (default: json)
//	LOG_CALLER  true, false (default: false)
//
// NewSlogLogger bridges the global logger into log/slog for sutureslog.
package logging
