// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package config

import (
	"fmt"
	"time"
)

// Store drivers.
const (
	DriverBadger = "badger"
	DriverDuckDB = "duckdb"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Store     StoreConfig     `koanf:"store"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Extractor ExtractorConfig `koanf:"extractor"`
	Match     MatchConfig     `koanf:"match"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// StoreConfig selects and configures the profile repository.
type StoreConfig struct {
	Driver string         `koanf:"driver"`
	Badger BadgerConfig   `koanf:"badger"`
	DuckDB DatabaseConfig `koanf:"duckdb"`

	// SeedFile is an optional JSON array of profiles upserted at startup.
	SeedFile string `koanf:"seed_file"`
}

// BadgerConfig configures the Badger profile store.
type BadgerConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// DatabaseConfig configures the DuckDB profile store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = NumCPU
}

// EmbeddingConfig configures the remote embedding provider. When disabled,
// or when no API key is set, every phrase uses the hash embedding.
type EmbeddingConfig struct {
	Enabled   bool          `koanf:"enabled"`
	APIKey    string        `koanf:"api_key"`
	Model     string        `koanf:"model"`
	BaseURL   string        `koanf:"base_url"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit_per_second"`
	Burst     int           `koanf:"burst"`
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// ExtractorConfig configures the keyword extractor.
type ExtractorConfig struct {
	Enabled     bool          `koanf:"enabled"`
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	BaseURL     string        `koanf:"base_url"`
	Timeout     time.Duration `koanf:"timeout"`
	Temperature float64       `koanf:"temperature"`
}

// MatchConfig holds the matching engine parameters.
type MatchConfig struct {
	DefaultK                int     `koanf:"default_k"`
	MaxK                    int     `koanf:"max_k"`
	ShortlistSize           int     `koanf:"shortlist_size"`
	MMRLambda               float64 `koanf:"mmr_lambda"`
	TitleBonus              float64 `koanf:"title_bonus"`
	SemanticReasonThreshold float64 `koanf:"semantic_reason_threshold"`
	ResolveWorkers          int     `koanf:"resolve_workers"`

	// WarmOnStartup embeds tags of profiles without stored vectors at boot.
	WarmOnStartup bool `koanf:"warm_on_startup"`

	// WarmInterval repeats the warm pass. Zero disables it.
	WarmInterval time.Duration `koanf:"warm_interval"`
}

// SecurityConfig holds HTTP-level protections.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}
