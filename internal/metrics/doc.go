// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

/*
Package metrics provides Prometheus metrics collection and export.

Metrics are registered on the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Match pipeline:
  - match_requests_total{result}
  - match_duration_seconds
  - match_candidates
  - vector_writebacks_total{result}

Embedding:
  - embedding_requests_total{provider,result}
  - embedding_request_duration_seconds{provider}
  - embedding_fallbacks_total{reason}
  - embedding_texts_total
  - embedding_cache_hits_total, embedding_cache_misses_total

Extraction and resilience:
  - keyword_extraction_attempts_total{attempt,result}
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

HTTP and storage:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - profile_store_query_duration_seconds{operation,driver}
  - profile_store_errors_total{operation,driver}

Helpers such as RecordMatch and RecordEmbeddingFallback keep label values
consistent across call sites.
*/
package metrics
