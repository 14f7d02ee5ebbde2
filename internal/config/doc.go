// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

/*
Package config provides centralized configuration management for the
matching service.

# Configuration Sources

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, or config.yaml in the working directory)
 3. Environment variables, through an explicit mapping table

Unmapped environment variables are ignored.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, SHUTDOWN_TIMEOUT

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: include caller file:line (default: false)

Store:
  - STORE_DRIVER: badger or duckdb (default: badger)
  - BADGER_PATH, BADGER_IN_MEMORY, DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - SEED_FILE: JSON array of profiles upserted at startup

Embedding provider:
  - EMBEDDING_ENABLED, GEMINI_API_KEY, EMBEDDING_MODEL, EMBEDDING_BASE_URL
  - EMBEDDING_TIMEOUT (default: 5s), EMBEDDING_RATE_LIMIT, EMBEDDING_BURST
  - EMBEDDING_CACHE_SIZE, EMBEDDING_CACHE_TTL

Extractor:
  - EXTRACTOR_ENABLED, EXTRACTOR_API_KEY (falls back to GEMINI_API_KEY),
    EXTRACTOR_MODEL, EXTRACTOR_BASE_URL, EXTRACTOR_TIMEOUT,
    EXTRACTOR_TEMPERATURE

Matching:
  - MATCH_DEFAULT_K, MATCH_MAX_K, MATCH_SHORTLIST_SIZE, MATCH_MMR_LAMBDA,
    MATCH_TITLE_BONUS, MATCH_SEMANTIC_THRESHOLD, MATCH_RESOLVE_WORKERS
  - MATCH_WARM_ON_STARTUP, MATCH_WARM_INTERVAL: background vector warming

Security:
  - CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW,
    DISABLE_RATE_LIMIT

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    return fmt.Errorf("load config: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
*/
package config
