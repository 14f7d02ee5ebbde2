// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/letspopin/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Store: StoreConfig{
			Driver: DriverBadger,
			Badger: BadgerConfig{
				Path: "/data/profiles",
			},
			DuckDB: DatabaseConfig{
				Path:      "/data/letspopin.duckdb",
				MaxMemory: "1GB",
				Threads:   0,
			},
		},
		Embedding: EmbeddingConfig{
			Enabled:   true,
			Model:     "text-embedding-004",
			BaseURL:   "https://generativelanguage.googleapis.com/v1beta",
			Timeout:   5 * time.Second,
			RateLimit: 10,
			Burst:     20,
			CacheSize: 10000,
			CacheTTL:  24 * time.Hour,
		},
		Extractor: ExtractorConfig{
			Enabled:     true,
			Model:       "gemini-2.0-flash-lite",
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
			Timeout:     30 * time.Second,
			Temperature: 0.2,
		},
		Match: MatchConfig{
			DefaultK:                10,
			MaxK:                    50,
			ShortlistSize:           200,
			MMRLambda:               0.8,
			TitleBonus:              0.02,
			SemanticReasonThreshold: 0.45,
			ResolveWorkers:          8,
			WarmOnStartup:           true,
			WarmInterval:            time.Hour,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Config file (optional)
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	return load(findConfigFile())
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// GEMINI_API_KEY -> embedding.api_key, LOG_LEVEL -> logging.level, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.applyFallbacks()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyFallbacks fills settings that default to another setting.
func (c *Config) applyFallbacks() {
	if c.Extractor.APIKey == "" {
		c.Extractor.APIKey = c.Embedding.APIKey
	}
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to config paths.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"port":             "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Store
	"store_driver":      "store.driver",
	"badger_path":       "store.badger.path",
	"badger_in_memory":  "store.badger.in_memory",
	"duckdb_path":       "store.duckdb.path",
	"duckdb_max_memory": "store.duckdb.max_memory",
	"duckdb_threads":    "store.duckdb.threads",
	"seed_file":         "store.seed_file",

	// Embedding provider
	"embedding_enabled":    "embedding.enabled",
	"gemini_api_key":       "embedding.api_key",
	"embedding_model":      "embedding.model",
	"embedding_base_url":   "embedding.base_url",
	"embedding_timeout":    "embedding.timeout",
	"embedding_rate_limit": "embedding.rate_limit_per_second",
	"embedding_burst":      "embedding.burst",
	"embedding_cache_size": "embedding.cache_size",
	"embedding_cache_ttl":  "embedding.cache_ttl",

	// Extractor
	"extractor_enabled":     "extractor.enabled",
	"extractor_api_key":     "extractor.api_key",
	"extractor_model":       "extractor.model",
	"extractor_base_url":    "extractor.base_url",
	"extractor_timeout":     "extractor.timeout",
	"extractor_temperature": "extractor.temperature",

	// Matching
	"match_default_k":          "match.default_k",
	"match_max_k":              "match.max_k",
	"match_shortlist_size":     "match.shortlist_size",
	"match_mmr_lambda":         "match.mmr_lambda",
	"match_title_bonus":        "match.title_bonus",
	"match_semantic_threshold": "match.semantic_reason_threshold",
	"match_resolve_workers":    "match.resolve_workers",
	"match_warm_on_startup":    "match.warm_on_startup",
	"match_warm_interval":      "match.warm_interval",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc transforms environment variable names to koanf paths.
// Unmapped keys return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
