// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/cinebot/internal/models"
)

// BestGenre returns the genre with the highest average rating, or nil when the
// derived table is empty. Ties resolve alphabetically.
func (db *DB) BestGenre(ctx context.Context) (result *models.GenreRating, err error) {
	start := time.Now()
	defer func() { observe("best_genre", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT genre_name, average_rating
		FROM spec_genre_ratings
		WHERE average_rating IS NOT NULL
		ORDER BY average_rating DESC, genre_name
		LIMIT 1`

	var r models.GenreRating
	err = db.conn.QueryRowContext(ctx, query).Scan(&r.GenreName, &r.AverageRating)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query best genre: %w", err)
	}
	return &r, nil
}

// GenreRatings returns every row of the derived table, best first.
func (db *DB) GenreRatings(ctx context.Context) (result []models.GenreRating, err error) {
	start := time.Now()
	defer func() { observe("genre_ratings", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT genre_name, COALESCE(average_rating, 0)
		FROM spec_genre_ratings
		ORDER BY average_rating DESC NULLS LAST, genre_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query genre ratings: %w", err)
	}
	defer closeWithLog(rows, "rows")

	result = make([]models.GenreRating, 0)
	for rows.Next() {
		var r models.GenreRating
		if err = rows.Scan(&r.GenreName, &r.AverageRating); err != nil {
			return nil, fmt.Errorf("failed to scan genre rating: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// TopMoviesByGenre returns up to limit movies tagged with genre, highest rated first.
// The genre name must match exactly.
func (db *DB) TopMoviesByGenre(ctx context.Context, genre string, limit int) (result []models.MovieRating, err error) {
	start := time.Now()
	defer func() { observe("top_movies_by_genre", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT m.title, COALESCE(m.vote_average, 0)
		FROM sot_movies_clean m
		INNER JOIN sot_movie_genres g ON m.movie_id = g.movie_id
		WHERE g.genre_name = ?
		ORDER BY m.vote_average DESC NULLS LAST, m.title, m.movie_id
		LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, genre, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top movies for %s: %w", genre, err)
	}
	defer closeWithLog(rows, "rows")

	result = make([]models.MovieRating, 0, limit)
	for rows.Next() {
		var r models.MovieRating
		if err = rows.Scan(&r.Title, &r.VoteAverage); err != nil {
			return nil, fmt.Errorf("failed to scan movie rating: %w", err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movie ratings: %w", err)
	}
	return result, nil
}

// SimilarityCorpus returns one document per title, holding the title's genre
// names joined by spaces. With keyByID each movie identifier is its own document.
// Movies without genres are excluded.
func (db *DB) SimilarityCorpus(ctx context.Context, keyByID bool) (result []models.CorpusDocument, err error) {
	start := time.Now()
	defer func() { observe("similarity_corpus", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT 0 AS movie_id, m.title, string_agg(g.genre_name, ' ' ORDER BY g.genre_name)
		FROM sot_movies_clean m
		INNER JOIN sot_movie_genres g ON m.movie_id = g.movie_id
		GROUP BY m.title
		ORDER BY m.title`
	if keyByID {
		query = `SELECT m.movie_id, m.title, string_agg(g.genre_name, ' ' ORDER BY g.genre_name)
			FROM sot_movies_clean m
			INNER JOIN sot_movie_genres g ON m.movie_id = g.movie_id
			GROUP BY m.movie_id, m.title
			ORDER BY m.title, m.movie_id`
	}

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query similarity corpus: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var d models.CorpusDocument
		if err = rows.Scan(&d.MovieID, &d.Title, &d.Genres); err != nil {
			return nil, fmt.Errorf("failed to scan corpus document: %w", err)
		}
		result = append(result, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating corpus: %w", err)
	}
	return result, nil
}

// RegressionRows returns the regression feature table ordered by movie identifier.
func (db *DB) RegressionRows(ctx context.Context) (result []models.FeatureRow, err error) {
	start := time.Now()
	defer func() { observe("regression_rows", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT movie_id, budget, revenue, popularity, runtime, vote_average
		FROM sot_movie_features
		ORDER BY movie_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query regression rows: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var f models.FeatureRow
		if err = rows.Scan(&f.MovieID, &f.Budget, &f.Revenue, &f.Popularity, &f.Runtime, &f.VoteAverage); err != nil {
			return nil, fmt.Errorf("failed to scan regression row: %w", err)
		}
		result = append(result, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating regression rows: %w", err)
	}
	return result, nil
}
