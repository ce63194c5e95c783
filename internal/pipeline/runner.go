// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinebot/internal/config"
	"github.com/tomtom215/cinebot/internal/database"
	"github.com/tomtom215/cinebot/internal/logging"
	"github.com/tomtom215/cinebot/internal/metrics"
	"github.com/tomtom215/cinebot/internal/models"
)

// Stage names, also used as metric labels.
const (
	StageLoadRaw   = "load_raw"
	StageNormalize = "normalize"
	StageDerive    = "derive"
)

// ErrRunInProgress is returned when Run is called while another run is active.
var ErrRunInProgress = errors.New("pipeline run already in progress")

// Store is the analytical store the pipeline writes to.
// *database.DB satisfies it.
type Store interface {
	LoadRawCSV(ctx context.Context, path string) (*models.RawLoadStats, error)
	NormalizeMovies(ctx context.Context, minVoteCount int) (*models.NormalizeStats, error)
	BuildDerived(ctx context.Context, scriptPath string) (*models.DerivedStats, error)
	ResetDownstream(ctx context.Context) error
	TableCounts(ctx context.Context) (map[string]int64, error)
}

// Runner executes the raw load, normalize and derive stages in order.
// Only one run executes at a time; concurrent callers get ErrRunInProgress.
type Runner struct {
	store  Store
	ledger Ledger
	cfg    config.PipelineConfig
	logger zerolog.Logger

	runMu sync.Mutex // held for the duration of a run

	hookMu   sync.RWMutex
	onChange []func()
}

// NewRunner creates a pipeline runner. A nil ledger falls back to an
// in-memory ledger.
func NewRunner(store Store, ledger Ledger, cfg config.PipelineConfig, logger zerolog.Logger) *Runner {
	if ledger == nil {
		ledger = NewInMemoryLedger()
	}
	return &Runner{
		store:  store,
		ledger: ledger,
		cfg:    cfg,
		logger: logger.With().Str("component", "pipeline").Logger(),
	}
}

// OnChange registers fn to run after a run has modified the clean or
// derived tables, whether the run succeeded or not.
func (r *Runner) OnChange(fn func()) {
	r.hookMu.Lock()
	defer r.hookMu.Unlock()
	r.onChange = append(r.onChange, fn)
}

func (r *Runner) notifyChange() {
	r.hookMu.RLock()
	hooks := append([]func(){}, r.onChange...)
	r.hookMu.RUnlock()

	for _, fn := range hooks {
		fn()
	}
}

// Running reports whether a run is active.
func (r *Runner) Running() bool {
	if r.runMu.TryLock() {
		r.runMu.Unlock()
		return false
	}
	return true
}

// Run executes a full-replace pipeline run. Empty arguments fall back to
// the configured source path and transform script. The returned stats are
// non-nil whenever the run started, including failed runs.
func (r *Runner) Run(ctx context.Context, sourcePath, transformScript string) (*models.RunStats, error) {
	if !r.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.runMu.Unlock()

	if sourcePath == "" {
		sourcePath = r.cfg.SourcePath
	}
	if transformScript == "" {
		transformScript = r.cfg.TransformScript
	}

	stats := &models.RunStats{
		RunID:      uuid.New().String(),
		Status:     models.RunStatusRunning,
		SourcePath: sourcePath,
		Script:     transformScript,
		StartedAt:  time.Now().UTC(),
	}
	if stats.Script == "" {
		stats.Script = database.BuiltinScript
	}

	ctx = logging.ContextWithRunID(ctx, stats.RunID)
	logger := r.logger.With().Str("run_id", stats.RunID).Logger()
	logger.Info().
		Str("source", sourcePath).
		Str("script", stats.Script).
		Int("min_vote_count", r.cfg.MinVoteCount).
		Msg("Pipeline run started")

	changed, err := r.execute(ctx, logger, stats, sourcePath, transformScript)

	stats.FinishedAt = time.Now().UTC()
	stats.DurationMS = stats.FinishedAt.Sub(stats.StartedAt).Milliseconds()
	if err != nil {
		stats.Status = models.RunStatusFailed
		stats.Error = err.Error()
		logger.Error().Err(err).Str("stage", stats.FailedStep).Int64("duration_ms", stats.DurationMS).Msg("Pipeline run failed")
	} else {
		stats.Status = models.RunStatusSuccess
		logger.Info().Int64("duration_ms", stats.DurationMS).Msg("Pipeline run completed")
	}
	metrics.RecordPipelineRun(stats.Status)

	r.recordTableRows(ctx, logger)
	if changed {
		r.notifyChange()
	}

	if saveErr := r.ledger.Save(context.WithoutCancel(ctx), stats); saveErr != nil {
		logger.Warn().Err(saveErr).Msg("Failed to record pipeline run")
	}

	if err != nil {
		return stats, fmt.Errorf("pipeline %s: %w", stats.FailedStep, err)
	}
	return stats, nil
}

// execute runs the stages and reports whether downstream tables changed.
func (r *Runner) execute(ctx context.Context, logger zerolog.Logger, stats *models.RunStats, sourcePath, transformScript string) (changed bool, err error) {
	err = r.stage(logger, stats, StageLoadRaw, func() (zerolog.Context, error) {
		raw, err := r.store.LoadRawCSV(ctx, sourcePath)
		if err != nil {
			return zerolog.Context{}, err
		}
		stats.Raw = raw
		return logger.With().Int64("rows", raw.Rows).Int("columns", len(raw.Columns)), nil
	})
	if err != nil {
		if errors.Is(err, database.ErrEmptySource) {
			// The loader has already emptied the raw table.
			if resetErr := r.store.ResetDownstream(ctx); resetErr != nil {
				logger.Error().Err(resetErr).Msg("Failed to reset downstream tables")
				return false, errors.Join(err, resetErr)
			}
			logger.Warn().Msg("Empty source: downstream tables reset")
			return true, err
		}
		return false, err
	}

	err = r.stage(logger, stats, StageNormalize, func() (zerolog.Context, error) {
		norm, err := r.store.NormalizeMovies(ctx, r.cfg.MinVoteCount)
		if err != nil {
			return zerolog.Context{}, err
		}
		stats.Normalize = norm
		if norm.MalformedGenres > 0 {
			logger.Warn().Int64("malformed_genres", norm.MalformedGenres).Msg("Rows with undecodable genres treated as untagged")
		}
		return logger.With().
			Int64("candidate_rows", norm.CandidateRows).
			Int64("clean_rows", norm.CleanRows).
			Int64("edge_rows", norm.EdgeRows).
			Int64("feature_rows", norm.FeatureRows), nil
	})
	if err != nil {
		return false, err
	}

	err = r.stage(logger, stats, StageDerive, func() (zerolog.Context, error) {
		derived, err := r.store.BuildDerived(ctx, transformScript)
		if err != nil {
			return zerolog.Context{}, err
		}
		stats.Derived = derived
		return logger.With().Int64("rows", derived.Rows).Str("script", derived.Script), nil
	})
	return true, err
}

// stage times fn, records metrics and logs the outcome with the fields fn returns.
func (r *Runner) stage(logger zerolog.Logger, stats *models.RunStats, name string, fn func() (zerolog.Context, error)) error {
	logger.Debug().Str("stage", name).Msg("Stage started")
	start := time.Now()

	fields, err := fn()
	elapsed := time.Since(start)
	metrics.RecordPipelineStage(name, elapsed)

	if err != nil {
		stats.FailedStep = name
		return err
	}

	stageLogger := fields.Logger()
	stageLogger.Info().Str("stage", name).Dur("duration", elapsed).Msg("Stage completed")
	return nil
}

func (r *Runner) recordTableRows(ctx context.Context, logger zerolog.Logger) {
	counts, err := r.store.TableCounts(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read table counts")
		return
	}
	for table, rows := range counts {
		metrics.SetTableRows(table, rows)
	}
}

// LastRun returns the most recent run, or nil if none has been recorded.
func (r *Runner) LastRun(ctx context.Context) (*models.RunStats, error) {
	return r.ledger.Last(ctx)
}

// History returns up to limit runs, newest first.
func (r *Runner) History(ctx context.Context, limit int) ([]models.RunStats, error) {
	return r.ledger.History(ctx, limit)
}
