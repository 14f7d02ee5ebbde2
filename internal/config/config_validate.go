// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package config

import (
	"fmt"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateEmbedding(); err != nil {
		return err
	}
	if err := c.validateExtractor(); err != nil {
		return err
	}
	if err := c.validateMatch(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case DriverBadger:
		if c.Store.Badger.Path == "" && !c.Store.Badger.InMemory {
			return fmt.Errorf("BADGER_PATH is required when STORE_DRIVER=badger")
		}
	case DriverDuckDB:
		if c.Store.DuckDB.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when STORE_DRIVER=duckdb")
		}
		if c.Store.DuckDB.Threads < 0 {
			return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Store.DuckDB.Threads)
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverBadger, DriverDuckDB, c.Store.Driver)
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	e := c.Embedding
	if e.Timeout <= 0 {
		return fmt.Errorf("EMBEDDING_TIMEOUT must be positive, got %v", e.Timeout)
	}
	if e.CacheSize < 0 {
		return fmt.Errorf("EMBEDDING_CACHE_SIZE must be >= 0, got %d", e.CacheSize)
	}
	if !e.Enabled || e.APIKey == "" {
		return nil
	}
	if e.Model == "" || e.BaseURL == "" {
		return fmt.Errorf("EMBEDDING_MODEL and EMBEDDING_BASE_URL are required when embeddings are enabled")
	}
	if e.RateLimit <= 0 {
		return fmt.Errorf("EMBEDDING_RATE_LIMIT must be positive, got %f", e.RateLimit)
	}
	if e.Burst < 1 {
		return fmt.Errorf("EMBEDDING_BURST must be at least 1, got %d", e.Burst)
	}
	return nil
}

func (c *Config) validateExtractor() error {
	x := c.Extractor
	if !x.Enabled {
		return nil
	}
	if x.Model == "" || x.BaseURL == "" {
		return fmt.Errorf("EXTRACTOR_MODEL and EXTRACTOR_BASE_URL are required when the extractor is enabled")
	}
	if x.Timeout <= 0 {
		return fmt.Errorf("EXTRACTOR_TIMEOUT must be positive, got %v", x.Timeout)
	}
	if x.Temperature < 0 || x.Temperature > 2 {
		return fmt.Errorf("EXTRACTOR_TEMPERATURE must be in [0, 2], got %f", x.Temperature)
	}
	return nil
}

func (c *Config) validateMatch() error {
	m := c.Match
	if m.DefaultK < 1 {
		return fmt.Errorf("MATCH_DEFAULT_K must be positive, got %d", m.DefaultK)
	}
	if m.MaxK < m.DefaultK {
		return fmt.Errorf("MATCH_MAX_K must be >= MATCH_DEFAULT_K (%d), got %d", m.DefaultK, m.MaxK)
	}
	if m.ShortlistSize < m.MaxK {
		return fmt.Errorf("MATCH_SHORTLIST_SIZE must be >= MATCH_MAX_K (%d), got %d", m.MaxK, m.ShortlistSize)
	}
	if m.MMRLambda < 0 || m.MMRLambda > 1 {
		return fmt.Errorf("MATCH_MMR_LAMBDA must be in [0, 1], got %f", m.MMRLambda)
	}
	if m.TitleBonus < 0 || m.TitleBonus > 0.1 {
		return fmt.Errorf("MATCH_TITLE_BONUS must be in [0, 0.1], got %f", m.TitleBonus)
	}
	if m.SemanticReasonThreshold < -1 || m.SemanticReasonThreshold > 1 {
		return fmt.Errorf("MATCH_SEMANTIC_THRESHOLD must be in [-1, 1], got %f", m.SemanticReasonThreshold)
	}
	if m.ResolveWorkers < 1 {
		return fmt.Errorf("MATCH_RESOLVE_WORKERS must be positive, got %d", m.ResolveWorkers)
	}
	if m.WarmInterval < 0 {
		return fmt.Errorf("MATCH_WARM_INTERVAL must not be negative, got %v", m.WarmInterval)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}
