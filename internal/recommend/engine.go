// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinebot/internal/config"
	"github.com/tomtom215/cinebot/internal/metrics"
	"github.com/tomtom215/cinebot/internal/models"
	"github.com/tomtom215/cinebot/internal/recommend/storage"
)

// Artifact names.
const (
	SimilarityArtifact = "similarity"
	RegressionArtifact = "regression"
)

// ErrUnknownVariant is returned for a variant other than similarity or regression.
var ErrUnknownVariant = errors.New("unknown model variant")

// DataProvider supplies training data. It is implemented by the database layer.
type DataProvider interface {
	// SimilarityCorpus returns one genre document per entity, ordered by title.
	SimilarityCorpus(ctx context.Context, keyByID bool) ([]models.CorpusDocument, error)

	// RegressionRows returns the regression feature table.
	RegressionRows(ctx context.Context) ([]models.FeatureRow, error)
}

// Engine owns the serving models. It is safe for concurrent use.
type Engine struct {
	cfg    config.ModelConfig
	store  *storage.Store
	data   DataProvider
	logger zerolog.Logger

	// Serialize builds
	buildMu sync.Mutex

	mu         sync.RWMutex
	similarity *SimilarityModel
	regression *RegressionModel
	onChange   []func()
}

// NewEngine creates an engine. Models are not loaded until Load or Build is called.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg config.ModelConfig, store *storage.Store, data DataProvider, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		store:  store,
		data:   data,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
}

// OnChange registers fn to run after a serving model is replaced.
func (e *Engine) OnChange(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = append(e.onChange, fn)
}

func (e *Engine) notify() {
	e.mu.RLock()
	hooks := append([]func(){}, e.onChange...)
	e.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

// Variant returns the configured serving variant.
func (e *Engine) Variant() string {
	return e.cfg.Variant
}

// Similarity returns the serving similarity model, or nil when not ready.
func (e *Engine) Similarity() *SimilarityModel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.similarity
}

// Regression returns the serving regression model, or nil when not trained.
func (e *Engine) Regression() *RegressionModel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.regression
}

// Ready reports whether the configured variant has a serving model.
func (e *Engine) Ready() bool {
	if e.cfg.Variant == config.VariantRegression {
		return e.Regression() != nil
	}
	return e.Similarity() != nil
}

// Status describes both variants.
func (e *Engine) Status() []models.ModelStatus {
	out := make([]models.ModelStatus, 0, 2)
	if m := e.Similarity(); m != nil {
		out = append(out, m.Status())
	} else {
		out = append(out, models.ModelStatus{Variant: storage.KindSimilarity})
	}
	if m := e.Regression(); m != nil {
		out = append(out, m.Status())
	} else {
		out = append(out, models.ModelStatus{Variant: storage.KindRegression})
	}
	return out
}

// Build trains the given variant. An empty variant builds the configured one.
func (e *Engine) Build(ctx context.Context, variant string) (*storage.ModelMetadata, error) {
	if variant == "" {
		variant = e.cfg.Variant
	}
	switch variant {
	case config.VariantSimilarity:
		m, err := e.BuildSimilarity(ctx)
		if err != nil {
			return nil, err
		}
		meta := m.Metadata()
		return &meta, nil
	case config.VariantRegression:
		m, err := e.BuildRegression(ctx)
		if err != nil {
			return nil, err
		}
		meta := m.Metadata()
		return &meta, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}

// BuildSimilarity trains the similarity model from the clean tables, saves it
// as a new artifact version and starts serving it.
func (e *Engine) BuildSimilarity(ctx context.Context) (m *SimilarityModel, err error) {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	start := time.Now()
	defer func() { metrics.RecordModelBuild(config.VariantSimilarity, time.Since(start), err) }()

	keyedBy := KeyedByTitle
	if e.cfg.KeyByID {
		keyedBy = KeyedByID
	}

	docs, err := e.data.SimilarityCorpus(ctx, e.cfg.KeyByID)
	if err != nil {
		return nil, fmt.Errorf("load similarity corpus: %w", err)
	}

	m, err = TrainSimilarity(docs, keyedBy)
	if err != nil {
		if errors.Is(err, ErrEmptyCorpus) {
			e.logger.Warn().Msg("similarity corpus is empty, run the pipeline first")
		}
		return nil, err
	}

	meta, err := e.save(ctx, SimilarityArtifact, m.state(), storage.ModelMetadata{
		Kind:               storage.KindSimilarity,
		TrainedAt:          time.Now(),
		EntityCount:        m.Len(),
		TrainingDurationMS: time.Since(start).Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	m.meta = *meta

	e.mu.Lock()
	e.similarity = m
	e.mu.Unlock()
	metrics.ModelEntities.WithLabelValues(config.VariantSimilarity).Set(float64(m.Len()))
	e.notify()

	e.logger.Info().
		Int("entities", m.Len()).
		Str("keyed_by", keyedBy).
		Int("version", meta.Version).
		Dur("duration", time.Since(start)).
		Msg("similarity model built")
	return m, nil
}

// BuildRegression trains the regression model from sot_movie_features, saves it
// and starts serving it.
func (e *Engine) BuildRegression(ctx context.Context) (m *RegressionModel, err error) {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	start := time.Now()
	defer func() { metrics.RecordModelBuild(config.VariantRegression, time.Since(start), err) }()

	rows, err := e.data.RegressionRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load regression rows: %w", err)
	}

	m, err = TrainRegression(rows, e.cfg.TestSize, e.cfg.RandomSeed)
	if err != nil {
		return nil, err
	}

	meta, err := e.save(ctx, RegressionArtifact, m.state(), storage.ModelMetadata{
		Kind:               storage.KindRegression,
		TrainedAt:          time.Now(),
		EntityCount:        len(rows),
		TrainingDurationMS: time.Since(start).Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	m.meta = *meta

	e.mu.Lock()
	e.regression = m
	e.mu.Unlock()
	metrics.ModelEntities.WithLabelValues(config.VariantRegression).Set(float64(len(rows)))
	e.notify()

	e.logger.Info().
		Int("rows", len(rows)).
		Float64("r2", m.metrics.R2).
		Float64("mse", m.metrics.MSE).
		Int("version", meta.Version).
		Msg("regression model built")
	return m, nil
}

//nolint:gocritic // meta passed by value is acceptable for this write operation
func (e *Engine) save(ctx context.Context, name string, state any, meta storage.ModelMetadata) (*storage.ModelMetadata, error) {
	saved, err := e.store.Save(ctx, name, e.store.NextVersion(name), state, meta)
	if err != nil {
		return nil, fmt.Errorf("save %s artifact: %w", name, err)
	}
	if removed, err := e.store.Prune(ctx, name, e.cfg.KeepVersions); err != nil {
		e.logger.Warn().Err(err).Str("artifact", name).Msg("failed to prune old artifact versions")
	} else if removed > 0 {
		e.logger.Debug().Int("removed", removed).Str("artifact", name).Msg("pruned old artifact versions")
	}
	return saved, nil
}

// Load restores the latest artifacts of both variants. Missing or unreadable
// artifacts leave that variant not ready.
func (e *Engine) Load(ctx context.Context) {
	sim := LoadSimilarity(ctx, e.store, e.logger)
	reg := LoadRegression(ctx, e.store, e.logger)

	e.mu.Lock()
	if sim != nil {
		e.similarity = sim
	}
	if reg != nil {
		e.regression = reg
	}
	e.mu.Unlock()

	if sim != nil {
		metrics.ModelEntities.WithLabelValues(config.VariantSimilarity).Set(float64(sim.Len()))
	}
	if reg != nil {
		metrics.ModelEntities.WithLabelValues(config.VariantRegression).Set(float64(reg.metrics.TrainRows + reg.metrics.TestRows))
	}
	if sim != nil || reg != nil {
		e.notify()
	}
}

// LoadSimilarity loads the latest similarity artifact. It returns nil, after
// logging a warning, when the artifact is missing or cannot be read.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func LoadSimilarity(ctx context.Context, store *storage.Store, logger zerolog.Logger) *SimilarityModel {
	var state storage.SimilarityState
	meta, err := store.Load(ctx, SimilarityArtifact, 0, &state)
	if err == nil && meta.Kind != storage.KindSimilarity {
		err = fmt.Errorf("artifact kind %q, want %q", meta.Kind, storage.KindSimilarity)
	}
	var m *SimilarityModel
	if err == nil {
		m, err = similarityFromState(&state, meta)
	}
	if err != nil {
		logArtifactLoadFailure(logger, SimilarityArtifact, err)
		return nil
	}
	logger.Info().Int("entities", m.Len()).Int("version", meta.Version).Msg("similarity model loaded")
	return m
}

// LoadRegression loads the latest regression artifact, or returns nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func LoadRegression(ctx context.Context, store *storage.Store, logger zerolog.Logger) *RegressionModel {
	var state storage.RegressionState
	meta, err := store.Load(ctx, RegressionArtifact, 0, &state)
	if err == nil && meta.Kind != storage.KindRegression {
		err = fmt.Errorf("artifact kind %q, want %q", meta.Kind, storage.KindRegression)
	}
	var m *RegressionModel
	if err == nil {
		m, err = regressionFromState(&state, meta)
	}
	if err != nil {
		logArtifactLoadFailure(logger, RegressionArtifact, err)
		return nil
	}
	logger.Info().Float64("r2", m.metrics.R2).Int("version", meta.Version).Msg("regression model loaded")
	return m
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func logArtifactLoadFailure(logger zerolog.Logger, name string, err error) {
	if errors.Is(err, storage.ErrModelNotFound) {
		logger.Warn().Str("artifact", name).Msg("no model artifact found, model not ready until built")
		return
	}
	logger.Warn().Err(err).Str("artifact", name).Msg("model artifact unreadable, model not ready until rebuilt")
}
