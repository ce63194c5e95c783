// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

// Package api exposes the pipeline, model, query and chat operations over a
// JSON HTTP API routed with chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinebot/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	perfMon       *middleware.PerformanceMonitor
}

// NewRouter creates a router. A nil middleware factory uses the defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		perfMon:       middleware.NewPerformanceMonitor(middleware.DefaultPerformanceWindow, middleware.DefaultSlowThreshold),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.perfMon.Middleware)
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusNotFound, ErrCodeNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/performance", router.performance)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// ========================
	// Core API Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.Method(http.MethodGet, "/metrics", promhttp.Handler())

		r.Post("/chat", router.handler.Chat)

		r.Route("/pipeline", func(r chi.Router) {
			r.Post("/run", router.handler.PipelineRun)
			r.Get("/runs", router.handler.PipelineRuns)
		})

		r.Route("/model", func(r chi.Router) {
			r.Post("/build", router.handler.ModelBuild)
			r.Get("/status", router.handler.ModelStatus)
		})

		r.Route("/genres", func(r chi.Router) {
			r.Get("/", router.handler.Genres)
			r.Get("/best", router.handler.BestGenre)
			r.Get("/{genre}/top", router.handler.TopMovies)
		})

		r.Route("/movies", func(r chi.Router) {
			r.Get("/similar", router.handler.SimilarMovies)
			r.Get("/search", router.handler.SearchTitles)
		})
	})

	return r
}

// performance reports per-endpoint latency over the recent request window.
func (router *Router) performance(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(router.perfMon.Stats())
}
