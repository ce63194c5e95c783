// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

/*
Package middleware provides the HTTP middleware the API router mounts
alongside chi's own.

Key Components:

  - RequestID: request and correlation IDs in the header and logging context
  - PrometheusMetrics: request count, latency and in-flight gauges labelled
    by chi route pattern
  - PerformanceMonitor: sliding-window latency percentiles per endpoint and
    slow request warnings

All components are func(http.Handler) http.Handler and mount with r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)

RoutePattern must be read after the router has served the request; before
that chi has not matched a route yet.

Thread Safety:

All middleware is safe for concurrent use. PerformanceMonitor guards its
ring buffer with a sync.RWMutex.
*/
package middleware
