// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package api

import (
	"context"
	"time"

	"github.com/tomtom215/cinebot/internal/chatbot"
	"github.com/tomtom215/cinebot/internal/models"
	"github.com/tomtom215/cinebot/internal/recommend/storage"
)

// PipelineRunner runs and reports on ETL pipeline runs.
// *pipeline.Runner satisfies it.
type PipelineRunner interface {
	Run(ctx context.Context, sourcePath, transformScript string) (*models.RunStats, error)
	Running() bool
	History(ctx context.Context, limit int) ([]models.RunStats, error)
}

// ModelBuilder trains and reports on recommendation models.
// *recommend.Engine satisfies it.
type ModelBuilder interface {
	Build(ctx context.Context, variant string) (*storage.ModelMetadata, error)
	Status() []models.ModelStatus
	Ready() bool
	Variant() string
}

// QueryService answers catalog questions.
// *query.Service satisfies it.
type QueryService interface {
	BestGenre(ctx context.Context) (models.GenreRating, bool, error)
	TopMoviesByGenre(ctx context.Context, genre string, n int) ([]models.MovieRating, error)
	SimilarMovies(title string) (models.SimilarResult, error)
	SearchTitles(ctx context.Context, q string, minScore, limit int) ([]models.TitleMatch, error)
	BreakerState() string
}

// Pinger checks database connectivity.
// *database.DB satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_chat.go: chat
//   - handlers_pipeline.go: pipeline run and history
//   - handlers_model.go: model build and status
//   - handlers_query.go: genre, similar-movie and title search queries
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	db        Pinger
	pipeline  PipelineRunner
	models    ModelBuilder
	query     QueryService
	responder *chatbot.Responder
	sessions  *chatbot.SessionStore
	topN      int
	dataDir   string
	startTime time.Time
}

// Deps groups the services the handler needs.
type Deps struct {
	DB        Pinger
	Pipeline  PipelineRunner
	Models    ModelBuilder
	Query     QueryService
	Responder *chatbot.Responder
	Sessions  *chatbot.SessionStore

	// TopN is the default limit for top-movies queries.
	TopN int

	// DataDir bounds the paths a pipeline run request may name.
	// Empty rejects every path override.
	DataDir string
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(api.Deps{DB: db, Pipeline: runner, ...})
//	router := api.NewRouter(handler, api.NewChiMiddleware(nil))
//	http.ListenAndServe(":3857", router.SetupChi())
func NewHandler(deps Deps) *Handler {
	sessions := deps.Sessions
	if sessions == nil {
		sessions = chatbot.NewSessionStore(0, 0)
	}
	topN := deps.TopN
	if topN <= 0 {
		topN = 5
	}
	return &Handler{
		db:        deps.DB,
		pipeline:  deps.Pipeline,
		models:    deps.Models,
		query:     deps.Query,
		responder: deps.Responder,
		sessions:  sessions,
		topN:      topN,
		dataDir:   deps.DataDir,
		startTime: time.Now(),
	}
}
