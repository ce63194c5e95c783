// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinebot/internal/models"
	"github.com/tomtom215/cinebot/internal/recommend/storage"
)

// ModelEngine is the part of the recommendation engine the bootstrap drives.
type ModelEngine interface {
	Load(ctx context.Context)
	Ready() bool
	Variant() string
	Build(ctx context.Context, variant string) (*storage.ModelMetadata, error)
}

// PipelineRunner runs one ETL pass.
type PipelineRunner interface {
	Run(ctx context.Context, sourcePath, transformScript string) (*models.RunStats, error)
}

// BootstrapConfig selects the startup steps beyond loading saved artifacts.
type BootstrapConfig struct {
	// RunPipeline loads SourcePath through the ETL before any model work.
	RunPipeline     bool
	SourcePath      string
	TransformScript string

	// BuildModel builds the configured variant when no artifact could be
	// loaded, or always after a successful startup pipeline run.
	BuildModel bool

	// Timeout bounds the whole bootstrap. Default: 30m
	Timeout time.Duration
}

// BootstrapService prepares the catalog and models once at startup.
//
// Failures are logged and leave the API serving with whatever state exists;
// operators can retry through the pipeline and model endpoints. After the
// startup steps the service idles until shutdown.
type BootstrapService struct {
	engine   ModelEngine
	pipeline PipelineRunner
	config   BootstrapConfig
	logger   zerolog.Logger
}

// NewBootstrapService creates the startup service. pipeline may be nil when
// RunPipeline is false.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func NewBootstrapService(engine ModelEngine, pipeline PipelineRunner, cfg BootstrapConfig, logger zerolog.Logger) *BootstrapService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &BootstrapService{
		engine:   engine,
		pipeline: pipeline,
		config:   cfg,
		logger:   logger.With().Str("service", "bootstrap").Logger(),
	}
}

// Serve implements suture.Service.
func (s *BootstrapService) Serve(ctx context.Context) error {
	s.bootstrap(ctx)
	<-ctx.Done()
	return ctx.Err()
}

// bootstrap runs the startup steps once.
func (s *BootstrapService) bootstrap(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.config.Timeout)
	defer cancel()

	start := time.Now()
	s.engine.Load(ctx)

	refreshed := false
	if s.config.RunPipeline && s.pipeline != nil && s.config.SourcePath != "" {
		stats, err := s.pipeline.Run(ctx, s.config.SourcePath, s.config.TransformScript)
		if err != nil {
			s.logger.Warn().Err(err).Str("source", s.config.SourcePath).Msg("Startup pipeline run failed")
		} else {
			refreshed = true
			event := s.logger.Info().Str("run_id", stats.RunID).Int64("duration_ms", stats.DurationMS)
			if stats.Normalize != nil {
				event = event.Int64("clean_rows", stats.Normalize.CleanRows)
			}
			event.Msg("Startup pipeline run complete")
		}
	}

	// A loaded artifact was trained on the previous catalog.
	if s.config.BuildModel && (refreshed || !s.engine.Ready()) {
		variant := s.engine.Variant()
		if _, err := s.engine.Build(ctx, variant); err != nil {
			s.logger.Warn().Err(err).Str("variant", variant).Msg("Startup model build failed")
		}
	}

	if parent.Err() != nil {
		return
	}
	s.logger.Info().
		Bool("model_ready", s.engine.Ready()).
		Dur("duration", time.Since(start)).
		Msg("Bootstrap complete")
}

func (s *BootstrapService) String() string {
	return "bootstrap"
}
