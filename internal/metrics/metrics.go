// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Instrumentation for:
// - Profile store queries (BadgerDB / DuckDB)
// - API endpoint latency and throughput
// - Match pipeline latency and candidate volume
// - Embedding provider calls, fallbacks and memo cache
// - Keyword extraction attempts
// - Circuit breakers guarding the Gemini APIs

var (
	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "profile_store_query_duration_seconds",
			Help:    "Duration of profile store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "driver"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_store_errors_total",
			Help: "Total number of profile store errors",
		},
		[]string{"operation", "driver"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Match Pipeline Metrics
	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_duration_seconds",
			Help:    "End-to-end duration of a match request in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	MatchCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_candidates",
			Help:    "Number of candidate profiles scored per match request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
	)

	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_requests_total",
			Help: "Total number of match requests",
		},
		[]string{"result"}, // "success", "not_found", "error"
	)

	VectorWriteBacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vector_writebacks_total",
			Help: "Total number of lazily computed vectors persisted back to the store",
		},
		[]string{"result"}, // "success", "failure"
	)

	// Embedding Metrics
	EmbeddingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding provider calls",
		},
		[]string{"provider", "result"}, // result: "success", "failure"
	)

	EmbeddingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_request_duration_seconds",
			Help:    "Duration of embedding provider calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	EmbeddingFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_fallbacks_total",
			Help: "Total number of batches embedded with the deterministic hash fallback",
		},
		[]string{"reason"}, // "disabled", "error", "malformed", "rejected", "timeout"
	)

	EmbeddingTexts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_texts_total",
			Help: "Total number of texts embedded",
		},
	)

	EmbeddingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_cache_hits_total",
			Help: "Total number of embedding memo cache hits",
		},
	)

	EmbeddingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_cache_misses_total",
			Help: "Total number of embedding memo cache misses",
		},
	)

	EmbeddingCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "embedding_cache_entries",
			Help: "Current number of memoized embedding vectors",
		},
	)

	// Extraction Metrics
	ExtractionAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyword_extraction_attempts_total",
			Help: "Total number of keyword extraction attempts",
		},
		[]string{"attempt", "result"}, // attempt: "structured", "relaxed"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordStoreQuery records a profile store operation
func RecordStoreQuery(operation, driver string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(operation, driver).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(operation, driver).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordMatch records the outcome of one match request.
func RecordMatch(result string, candidates int, duration time.Duration) {
	MatchRequests.WithLabelValues(result).Inc()
	MatchDuration.Observe(duration.Seconds())
	if result == "success" {
		MatchCandidates.Observe(float64(candidates))
	}
}

// RecordVectorWriteBack records a lazy vector persistence attempt
func RecordVectorWriteBack(err error) {
	if err != nil {
		VectorWriteBacks.WithLabelValues("failure").Inc()
		return
	}
	VectorWriteBacks.WithLabelValues("success").Inc()
}

// RecordEmbeddingCall records one remote embedding call
func RecordEmbeddingCall(provider string, texts int, duration time.Duration, err error) {
	EmbeddingDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err != nil {
		EmbeddingRequests.WithLabelValues(provider, "failure").Inc()
		return
	}
	EmbeddingRequests.WithLabelValues(provider, "success").Inc()
	EmbeddingTexts.Add(float64(texts))
}

// RecordEmbeddingFallback records a batch served by the hash fallback
func RecordEmbeddingFallback(reason string, texts int) {
	EmbeddingFallbacks.WithLabelValues(reason).Inc()
	EmbeddingTexts.Add(float64(texts))
}

// RecordEmbeddingCache records memo cache lookups
func RecordEmbeddingCache(hits, misses int) {
	EmbeddingCacheHits.Add(float64(hits))
	EmbeddingCacheMisses.Add(float64(misses))
}

// RecordExtraction records a keyword extraction attempt
func RecordExtraction(attempt string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ExtractionAttempts.WithLabelValues(attempt, result).Inc()
}
