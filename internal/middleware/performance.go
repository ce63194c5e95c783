// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package middleware

import (
	"net/http"
	"slices"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/cinebot/internal/logging"
)

// Performance monitor defaults.
const (
	DefaultPerformanceWindow = 1000
	DefaultSlowThreshold     = time.Second
)

// RequestSample is one observed request.
type RequestSample struct {
	Route      string
	Method     string
	Duration   time.Duration
	StatusCode int
}

// EndpointStats aggregates the samples of one method and route.
type EndpointStats struct {
	Endpoint     string  `json:"endpoint"`
	RequestCount int     `json:"request_count"`
	ErrorCount   int     `json:"error_count"`
	AvgMS        float64 `json:"avg_ms"`
	P50MS        int64   `json:"p50_ms"`
	P95MS        int64   `json:"p95_ms"`
	P99MS        int64   `json:"p99_ms"`
	MaxMS        int64   `json:"max_ms"`
}

// PerformanceMonitor keeps a sliding window of recent requests for latency
// percentiles and logs requests slower than a threshold. Prometheus
// histograms cover long-term trends; this answers "what is slow right now".
type PerformanceMonitor struct {
	mu      sync.RWMutex
	samples []RequestSample
	next    int
	full    bool
	slow    time.Duration
}

// NewPerformanceMonitor creates a monitor keeping the last window samples.
func NewPerformanceMonitor(window int, slow time.Duration) *PerformanceMonitor {
	if window <= 0 {
		window = DefaultPerformanceWindow
	}
	if slow <= 0 {
		slow = DefaultSlowThreshold
	}
	return &PerformanceMonitor{
		samples: make([]RequestSample, window),
		slow:    slow,
	}
}

// Record adds a sample, overwriting the oldest once the window is full.
func (pm *PerformanceMonitor) Record(s RequestSample) {
	pm.mu.Lock()
	pm.samples[pm.next] = s
	pm.next = (pm.next + 1) % len(pm.samples)
	if pm.next == 0 {
		pm.full = true
	}
	pm.mu.Unlock()
}

// Len returns the number of samples held.
func (pm *PerformanceMonitor) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	if pm.full {
		return len(pm.samples)
	}
	return pm.next
}

// Stats aggregates the window per endpoint, busiest first.
func (pm *PerformanceMonitor) Stats() []EndpointStats {
	pm.mu.RLock()
	n := pm.next
	if pm.full {
		n = len(pm.samples)
	}
	window := make([]RequestSample, n)
	copy(window, pm.samples[:n])
	pm.mu.RUnlock()

	type acc struct {
		durations []int64
		errors    int
	}
	byEndpoint := make(map[string]*acc)
	for _, s := range window {
		key := s.Method + " " + s.Route
		a := byEndpoint[key]
		if a == nil {
			a = &acc{}
			byEndpoint[key] = a
		}
		a.durations = append(a.durations, s.Duration.Milliseconds())
		if s.StatusCode >= http.StatusInternalServerError {
			a.errors++
		}
	}

	stats := make([]EndpointStats, 0, len(byEndpoint))
	for endpoint, a := range byEndpoint {
		slices.Sort(a.durations)
		var sum int64
		for _, d := range a.durations {
			sum += d
		}
		stats = append(stats, EndpointStats{
			Endpoint:     endpoint,
			RequestCount: len(a.durations),
			ErrorCount:   a.errors,
			AvgMS:        float64(sum) / float64(len(a.durations)),
			P50MS:        percentile(a.durations, 0.50),
			P95MS:        percentile(a.durations, 0.95),
			P99MS:        percentile(a.durations, 0.99),
			MaxMS:        a.durations[len(a.durations)-1],
		})
	}

	slices.SortFunc(stats, func(a, b EndpointStats) int {
		if a.RequestCount != b.RequestCount {
			return b.RequestCount - a.RequestCount
		}
		if a.Endpoint < b.Endpoint {
			return -1
		}
		if a.Endpoint > b.Endpoint {
			return 1
		}
		return 0
	})
	return stats
}

// Middleware records every request and warns about slow ones.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		sample := RequestSample{
			Route:      RoutePattern(r),
			Method:     r.Method,
			Duration:   time.Since(start),
			StatusCode: statusOf(ww),
		}
		pm.Record(sample)

		if sample.Duration > pm.slow {
			logging.Ctx(r.Context()).Warn().
				Str("route", sample.Route).
				Int("status", sample.StatusCode).
				Int64("duration_ms", sample.Duration.Milliseconds()).
				Int64("threshold_ms", pm.slow.Milliseconds()).
				Msg("Slow request detected")
		}
	})
}

// percentile returns the nearest-rank value of a sorted slice.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
