// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

// Package metrics defines the Prometheus instrumentation for CineBot.
//
// All collectors are registered with the default registry through promauto and
// exposed by the API at /metrics. Callers use the Record* helpers rather than
// touching the collectors directly so label sets stay consistent.
//
// Metric families:
//   - cinebot_pipeline_*: stage durations, run outcomes, table row counts
//   - cinebot_model_*: model build durations and outcomes
//   - cinebot_db_query_*: analytical store query latency and errors
//   - cinebot_memo_cache_*: memoization hits, misses and invalidations
//   - cinebot_circuit_breaker_*: store circuit breaker state
//   - cinebot_chat_intents_total: responder intent dispatch counts
//   - cinebot_api_*: HTTP request counts and latency
package metrics
