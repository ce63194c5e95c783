// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

// Package main is the entry point for the CineBot server.
//
// CineBot loads a movie catalog CSV into DuckDB, normalizes it into clean
// movie and genre tables, builds a similarity or regression model over the
// result, and answers Portuguese chat messages about genres, top movies and
// similar titles over a JSON API.
//
// # Application Architecture
//
// Components are initialized in this order:
//
//  1. Configuration: Koanf v2 (defaults, optional config file, environment)
//  2. Logging: zerolog, JSON or console output
//  3. Database: DuckDB holding the raw, clean and derived tables
//  4. Pipeline: ETL runner with a BadgerDB or in-memory run ledger
//  5. Models: recommendation engine over the versioned artifact store
//  6. Query layer: memoized queries behind a circuit breaker
//  7. Chat: rule-based responder and the session store
//  8. Supervisor tree: bootstrap, HTTP server and session sweeper
//
// # Configuration
//
// Priority: environment variables > config file > defaults. Common variables:
//
//	HTTP_PORT=3857
//	DUCKDB_PATH=/data/cinebot.duckdb
//	PIPELINE_SOURCE_PATH=/data/movies.csv
//	PIPELINE_RUN_ON_STARTUP=true
//	PIPELINE_LEDGER_PATH=/data/ledger
//	MODEL_VARIANT=similarity
//	MODEL_BUILD_ON_STARTUP=true
//	LOG_LEVEL=info
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests before the database is checkpointed and closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cinebot/internal/api"
	"github.com/tomtom215/cinebot/internal/cache"
	"github.com/tomtom215/cinebot/internal/chatbot"
	"github.com/tomtom215/cinebot/internal/config"
	"github.com/tomtom215/cinebot/internal/database"
	"github.com/tomtom215/cinebot/internal/logging"
	"github.com/tomtom215/cinebot/internal/pipeline"
	"github.com/tomtom215/cinebot/internal/query"
	"github.com/tomtom215/cinebot/internal/recommend"
	"github.com/tomtom215/cinebot/internal/recommend/storage"
	"github.com/tomtom215/cinebot/internal/supervisor"
	"github.com/tomtom215/cinebot/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("CineBot stopped with an error")
	}
}

//nolint:gocyclo // sequential component setup
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("model_variant", cfg.Model.Variant).
		Str("model_dir", cfg.Model.Dir).
		Msg("Starting CineBot")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	ledger, closeLedger, err := openLedger(cfg.Pipeline.LedgerPath)
	if err != nil {
		return err
	}
	defer closeLedger()

	runner := pipeline.NewRunner(db, ledger, cfg.Pipeline, logging.WithComponent("pipeline"))

	artifacts, err := storage.NewStore(cfg.Model.Dir)
	if err != nil {
		return fmt.Errorf("failed to open model store: %w", err)
	}
	engine := recommend.NewEngine(cfg.Model, artifacts, db, logging.WithComponent("recommend"))

	memo := cache.NewMemo(cfg.Cache.Capacity, cfg.Cache.TTL)
	svc := query.NewService(db, engine, memo, cfg.Query, logging.WithComponent("query"))

	// A new catalog or model makes every memoized answer stale.
	runner.OnChange(svc.Invalidate)
	engine.OnChange(svc.Invalidate)

	responder := chatbot.NewResponder(svc, cfg.Model.Variant, cfg.Query.TopN, logging.WithComponent("chatbot"))
	sessions := chatbot.NewSessionStore(cfg.Server.MaxSessions, 0)

	handler := api.NewHandler(api.Deps{
		DB:        db,
		Pipeline:  runner,
		Models:    engine,
		Query:     svc,
		Responder: responder,
		Sessions:  sessions,
		TopN:      cfg.Query.TopN,
		DataDir:   cfg.Pipeline.AllowedDir(),
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(cfg.Server)))

	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Pipeline runs and model builds answer synchronously.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewBootstrapService(engine, runner, services.BootstrapConfig{
		RunPipeline:     cfg.Pipeline.RunOnStartup,
		SourcePath:      cfg.Pipeline.SourcePath,
		TransformScript: cfg.Pipeline.TransformScript,
		BuildModel:      cfg.Model.BuildOnStartup,
	}, logging.WithComponent("bootstrap")))
	tree.AddAPIService(services.NewHTTPServerService(server, services.DefaultShutdownTimeout))
	tree.AddAPIService(services.NewSessionSweeperService(sessions, services.DefaultSweepInterval))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped unexpectedly")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, u := range unstopped {
		logging.Warn().Str("service", u.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("CineBot stopped")
	return nil
}

// openLedger returns the run ledger and its close function. An empty path
// keeps run history in memory only.
func openLedger(path string) (pipeline.Ledger, func(), error) {
	if path == "" {
		logging.Info().Msg("Pipeline run history kept in memory (no ledger path configured)")
		return pipeline.NewInMemoryLedger(), func() {}, nil
	}

	ledger, err := pipeline.OpenBadgerLedger(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open run ledger: %w", err)
	}
	logging.Info().Str("path", path).Msg("Pipeline run ledger opened")
	return ledger, func() {
		if err := ledger.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing run ledger")
		}
	}, nil
}
