// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package models

// CleanMovie is one row of sot_movies_clean.
type CleanMovie struct {
	MovieID     int64   `json:"movie_id"`
	Title       string  `json:"title"`
	VoteAverage float64 `json:"vote_average"`
}

// GenreEdge is one row of sot_movie_genres. (MovieID, GenreName) is unique.
type GenreEdge struct {
	MovieID   int64  `json:"movie_id"`
	GenreName string `json:"genre_name"`
}

// FeatureRow is one row of sot_movie_features, the regression training input.
type FeatureRow struct {
	MovieID     int64   `json:"movie_id"`
	Budget      float64 `json:"budget"`
	Revenue     float64 `json:"revenue"`
	Popularity  float64 `json:"popularity"`
	Runtime     float64 `json:"runtime"`
	VoteAverage float64 `json:"vote_average"` // Regression target
}

// GenreRating is one row of spec_genre_ratings.
type GenreRating struct {
	GenreName     string  `json:"genre_name"`
	AverageRating float64 `json:"average_rating"`
}

// MovieRating is a top-N-by-genre result row.
type MovieRating struct {
	Title       string  `json:"title"`
	VoteAverage float64 `json:"vote_average"`
}

// CorpusDocument is one synthetic document of the similarity corpus:
// an entity and its genre names joined by spaces.
type CorpusDocument struct {
	MovieID int64  `json:"movie_id,omitempty"` // Only set when the corpus is keyed by identifier
	Title   string `json:"title"`
	Genres  string `json:"genres"`
}

// TitleMatch is a database-side fuzzy title search hit.
type TitleMatch struct {
	MovieID     int64   `json:"movie_id"`
	Title       string  `json:"title"`
	VoteAverage float64 `json:"vote_average"`
	Score       int     `json:"score"` // 0-100
}
