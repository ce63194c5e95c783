// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package models

import "time"

// Neighbor is one similarity query result.
type Neighbor struct {
	Title  string  `json:"title"`
	Genres string  `json:"genres"`
	Score  float64 `json:"score"`
}

// SimilarResult is the answer to a similar-movies query.
// Found is false when no title scored above the fuzzy threshold.
type SimilarResult struct {
	Query           string     `json:"query"`
	Found           bool       `json:"found"`
	MatchedTitle    string     `json:"matched_title,omitempty"`
	MatchScore      int        `json:"match_score,omitempty"`
	Recommendations []Neighbor `json:"recommendations"`
}

// FeatureImportance is a regression coefficient on the standardized scale.
type FeatureImportance struct {
	Feature     string  `json:"feature"`
	Coefficient float64 `json:"coefficient"`
}

// RegressionMetrics are the held-out evaluation metrics of a regression model.
type RegressionMetrics struct {
	R2        float64 `json:"r2"`
	MSE       float64 `json:"mse"`
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
}

// ModelStatus describes the model currently loaded for serving.
type ModelStatus struct {
	Variant     string              `json:"variant"`
	Ready       bool                `json:"ready"`
	Version     int                 `json:"version,omitempty"`
	TrainedAt   time.Time           `json:"trained_at,omitempty"`
	EntityCount int                 `json:"entity_count,omitempty"`
	KeyedBy     string              `json:"keyed_by,omitempty"` // "title" or "id"
	Metrics     *RegressionMetrics  `json:"metrics,omitempty"`
	Importances []FeatureImportance `json:"importances,omitempty"`
}
