// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package api

import (
	"context"
	"net/http"
	"time"
)

// readinessPingTimeout bounds the database ping of the readiness probe.
const readinessPingTimeout = 2 * time.Second

// ReadinessStatus is the body of GET /health/ready.
type ReadinessStatus struct {
	DatabaseConnected bool    `json:"database_connected"`
	ModelReady        bool    `json:"model_ready"`
	PipelineRunning   bool    `json:"pipeline_running"`
	CircuitBreaker    string  `json:"circuit_breaker,omitempty"`
	ReadyToServe      bool    `json:"ready_to_serve"`
	Uptime            float64 `json:"uptime"`
}

// HealthLive handles liveness probe requests.
// Returns 200 OK as long as the process can serve HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 OK only if the database answers and the configured model
// variant is trained; otherwise 503 with the same body.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), readinessPingTimeout)
	defer cancel()

	status := ReadinessStatus{
		DatabaseConnected: h.db != nil && h.db.Ping(ctx) == nil,
		ModelReady:        h.models != nil && h.models.Ready(),
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.pipeline != nil {
		status.PipelineRunning = h.pipeline.Running()
	}
	if h.query != nil {
		status.CircuitBreaker = h.query.BreakerState()
	}
	status.ReadyToServe = status.DatabaseConnected && status.ModelReady

	if !status.ReadyToServe {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service is not ready", status)
		return
	}
	rw.Success(status)
}
