// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package storage

import "encoding/gob"

// SimilarityState is the serializable state of a genre-similarity model.
type SimilarityState struct {
	// Titles is the entity table, in matrix order.
	Titles []string

	// MovieIDs parallels Titles when the corpus was keyed by identifier.
	MovieIDs []int64

	// Genres holds each entity's genre document.
	Genres []string

	// Scores is the N x N similarity matrix in row-major order.
	Scores []float64

	// KeyedBy is "title" or "id".
	KeyedBy string
}

// RegressionState is the serializable state of a rating regression model.
type RegressionState struct {
	Features     []string
	Means        []float64
	Scales       []float64
	Coefficients []float64
	Intercept    float64

	R2        float64
	MSE       float64
	TrainRows int
	TestRows  int

	TestSize float64
	Seed     int64
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(SimilarityState{})
	gob.Register(RegressionState{})
	gob.Register(ModelMetadata{})
	gob.Register(storedFile{})
}
