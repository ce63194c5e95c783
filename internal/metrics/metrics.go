// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline Metrics
	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinebot_pipeline_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"}, // "load_raw", "normalize", "derive"
	)

	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinebot_pipeline_runs_total",
			Help: "Total number of pipeline runs by outcome",
		},
		[]string{"status"}, // "success", "error", "busy"
	)

	PipelineTableRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinebot_pipeline_rows",
			Help: "Row count of each pipeline table after the last successful stage",
		},
		[]string{"table"},
	)

	PipelineMalformedGenres = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinebot_pipeline_malformed_genres_total",
			Help: "Raw rows whose genre field could not be decoded",
		},
	)

	// Model Metrics
	ModelBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinebot_model_build_duration_seconds",
			Help:    "Duration of model builds in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"variant"},
	)

	ModelBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinebot_model_builds_total",
			Help: "Total number of model builds by variant and outcome",
		},
		[]string{"variant", "status"},
	)

	ModelEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinebot_model_entities",
			Help: "Entities (similarity) or training rows (regression) in the loaded model",
		},
		[]string{"variant"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinebot_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinebot_db_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	// Memo Cache Metrics
	MemoCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinebot_memo_cache_total",
			Help: "Memoized query lookups by operation and result",
		},
		[]string{"operation", "result"}, // result: "hit", "miss"
	)

	MemoCacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinebot_memo_cache_invalidations_total",
			Help: "Number of times the memo cache was invalidated by a rebuild",
		},
	)

	MemoCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinebot_memo_cache_entries",
			Help: "Current number of memoized results",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinebot_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinebot_circuit_breaker_requests_total",
			Help: "Requests passing through the circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinebot_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Chat Metrics
	ChatIntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinebot_chat_intents_total",
			Help: "Chat messages by resolved intent",
		},
		[]string{"intent"},
	)

	ChatActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinebot_chat_active_sessions",
			Help: "Chat sessions currently held in memory",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinebot_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinebot_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinebot_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)
)

// RecordPipelineStage records one pipeline stage.
func RecordPipelineStage(stage string, duration time.Duration) {
	PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordPipelineRun records a pipeline run outcome.
func RecordPipelineRun(status string) {
	PipelineRunsTotal.WithLabelValues(status).Inc()
}

// SetTableRows publishes the row count of a pipeline table.
func SetTableRows(table string, rows int64) {
	PipelineTableRows.WithLabelValues(table).Set(float64(rows))
}

// RecordModelBuild records a model build.
func RecordModelBuild(variant string, duration time.Duration, err error) {
	ModelBuildDuration.WithLabelValues(variant).Observe(duration.Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	ModelBuildsTotal.WithLabelValues(variant, status).Inc()
}

// RecordDBQuery records a database query and its error, if any.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordMemoLookup records a memo cache hit or miss.
func RecordMemoLookup(operation string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	MemoCacheRequests.WithLabelValues(operation, result).Inc()
}

// RecordChatIntent counts a resolved responder intent.
func RecordChatIntent(intent string) {
	ChatIntentsTotal.WithLabelValues(intent).Inc()
}

// RecordAPIRequest records an API request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
