// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

// Package models defines the fixed-field record types shared by the pipeline,
// the model builders, the query layer and the HTTP API.
//
// Each table the pipeline writes has an explicit record type here rather than a
// schema inferred at runtime:
//
//	sot_movies_clean   -> CleanMovie
//	sot_movie_genres   -> GenreEdge
//	sot_movie_features -> FeatureRow
//	spec_genre_ratings -> GenreRating
//
// Types carry JSON tags because they are returned unchanged by the API.
package models
