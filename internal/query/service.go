// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package query

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinebot/internal/cache"
	"github.com/tomtom215/cinebot/internal/config"
	"github.com/tomtom215/cinebot/internal/models"
	"github.com/tomtom215/cinebot/internal/recommend"
)

// ErrModelNotReady is returned when a query needs a model that is not loaded.
var ErrModelNotReady = errors.New("model not ready")

// Memoized operation names, also used as metric labels.
const (
	OpBestGenre = "best_genre"
	OpTopMovies = "top_movies"
	OpSimilar   = "similar_movies"
)

// Store is the read side of the analytical store.
// *database.DB satisfies it.
type Store interface {
	BestGenre(ctx context.Context) (*models.GenreRating, error)
	TopMoviesByGenre(ctx context.Context, genre string, limit int) ([]models.MovieRating, error)
	SearchTitles(ctx context.Context, q string, minScore, limit int) ([]models.TitleMatch, error)
}

// ModelSource exposes the currently loaded models.
// *recommend.Engine satisfies it.
type ModelSource interface {
	Similarity() *recommend.SimilarityModel
	Regression() *recommend.RegressionModel
}

// RegressionInsights summarizes the trained regression model.
type RegressionInsights struct {
	Trained     bool                       `json:"trained"`
	Metrics     *models.RegressionMetrics  `json:"metrics,omitempty"`
	Importances []models.FeatureImportance `json:"importances,omitempty"`
	Intercept   float64                    `json:"intercept,omitempty"`
}

// TopFeature returns the feature with the largest absolute coefficient.
func (r RegressionInsights) TopFeature() (string, bool) {
	if len(r.Importances) == 0 {
		return "", false
	}
	return r.Importances[0].Feature, true
}

type bestGenreResult struct {
	Rating models.GenreRating
	Found  bool
}

// Service answers best-genre, top-movies, similar-movies and regression
// questions. Store reads run behind a circuit breaker and the first three
// operations are memoized until the next Invalidate.
type Service struct {
	store   Store
	models  ModelSource
	memo    *cache.Memo
	breaker *storeBreaker
	cfg     config.QueryConfig
	logger  zerolog.Logger
}

// NewService creates a query service. memo may be nil to disable memoization.
func NewService(store Store, src ModelSource, memo *cache.Memo, cfg config.QueryConfig, logger zerolog.Logger) *Service {
	logger = logger.With().Str("component", "query").Logger()
	return &Service{
		store:   store,
		models:  src,
		memo:    memo,
		breaker: newStoreBreaker(cfg.BreakerTimeout, logger),
		cfg:     cfg,
		logger:  logger,
	}
}

// Invalidate drops all memoized results.
func (s *Service) Invalidate() {
	if s.memo != nil {
		s.memo.Invalidate()
	}
}

// BreakerState returns the store circuit breaker state.
func (s *Service) BreakerState() string {
	return s.breaker.State()
}

// BestGenre returns the genre with the highest average rating.
// found is false when the derived table is empty.
func (s *Service) BestGenre(ctx context.Context) (models.GenreRating, bool, error) {
	res, err := cache.Remember(s.memo, OpBestGenre, func() (bestGenreResult, error) {
		best, err := guarded(s.breaker, func() (*models.GenreRating, error) {
			return s.store.BestGenre(ctx)
		})
		if err != nil || best == nil {
			return bestGenreResult{}, err
		}
		return bestGenreResult{Rating: *best, Found: true}, nil
	})
	if err != nil {
		return models.GenreRating{}, false, err
	}
	return res.Rating, res.Found, nil
}

// TopMoviesByGenre returns up to n movies tagged genre, best rated first.
// Non-positive n falls back to the configured default.
func (s *Service) TopMoviesByGenre(ctx context.Context, genre string, n int) ([]models.MovieRating, error) {
	if n <= 0 {
		n = s.cfg.TopN
	}
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return []models.MovieRating{}, nil
	}

	return cache.Remember(s.memo, OpTopMovies, func() ([]models.MovieRating, error) {
		return guarded(s.breaker, func() ([]models.MovieRating, error) {
			return s.store.TopMoviesByGenre(ctx, genre, n)
		})
	}, genre, n)
}

// SimilarMovies fuzzy-matches title against the loaded similarity model and
// returns its nearest neighbours. An unmatched title is a result with
// Found false, not an error.
//
// The model is read inside the load so a result is only memoized against
// the data version that was current when the model was taken.
func (s *Service) SimilarMovies(title string) (models.SimilarResult, error) {
	return cache.Remember(s.memo, OpSimilar, func() (models.SimilarResult, error) {
		model := s.models.Similarity()
		if model == nil {
			return models.SimilarResult{Query: title, Recommendations: []models.Neighbor{}}, ErrModelNotReady
		}
		res := model.Similar(title, s.cfg.SimilarCount, s.cfg.FuzzyThreshold)
		if !res.Found {
			s.logger.Debug().Str("title", title).Msg("No title above fuzzy threshold")
		}
		return res, nil
	}, title, s.cfg.SimilarCount, s.cfg.FuzzyThreshold)
}

// SearchTitles runs the database-side fuzzy title search.
func (s *Service) SearchTitles(ctx context.Context, q string, minScore, limit int) ([]models.TitleMatch, error) {
	return guarded(s.breaker, func() ([]models.TitleMatch, error) {
		return s.store.SearchTitles(ctx, q, minScore, limit)
	})
}

// RegressionInsights reports the regression model's metrics and feature
// importances. Trained is false when no regression model is loaded.
func (s *Service) RegressionInsights() RegressionInsights {
	model := s.models.Regression()
	if model == nil {
		return RegressionInsights{}
	}
	m := model.Metrics()
	return RegressionInsights{
		Trained:     true,
		Metrics:     &m,
		Importances: model.Importances(),
		Intercept:   model.Intercept(),
	}
}

// SimilarityReady reports whether a similarity model is loaded.
func (s *Service) SimilarityReady() bool {
	return s.models.Similarity() != nil
}
