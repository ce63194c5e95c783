// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinebot/internal/logging"
	"github.com/tomtom215/cinebot/internal/models"
)

// featureColumns are the optional raw columns feeding sot_movie_features.
var featureColumns = []string{"budget", "revenue", "popularity", "runtime"}

type rawMovie struct {
	id          int64
	title       string
	genres      sql.NullString
	voteAverage sql.NullFloat64
}

// NormalizeMovies rebuilds sot_movies_clean and sot_movie_genres from sor_movies,
// keeping movies with vote_count >= minVoteCount. When the raw table carries the
// numeric feature columns it also rebuilds sot_movie_features.
func (db *DB) NormalizeMovies(ctx context.Context, minVoteCount int) (stats *models.NormalizeStats, err error) {
	start := time.Now()
	defer func() { observe("normalize", start, err) }()

	exists, err := db.tableExists(ctx, TableRaw)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrEmptyUpstream, TableRaw)
	}

	movies, candidates, err := db.readCandidates(ctx, minVoteCount)
	if err != nil {
		return nil, err
	}

	stats = &models.NormalizeStats{
		CandidateRows: candidates,
		MinVoteCount:  minVoteCount,
		DuplicateIDs:  candidates - int64(len(movies)),
	}

	cols, err := db.tableColumns(ctx, TableRaw)
	if err != nil {
		return nil, err
	}
	var features []models.FeatureRow
	if hasColumns(cols, featureColumns) {
		if features, err = db.readFeatures(ctx); err != nil {
			return nil, err
		}
	}

	if err = db.writeClean(ctx, movies, features, stats); err != nil {
		return nil, err
	}

	if stats.MalformedGenres > 0 {
		logging.Warn().
			Int64("malformed", stats.MalformedGenres).
			Msg("Some genre values could not be decoded and contributed no tags")
	}
	logging.Info().
		Int64("candidates", stats.CandidateRows).
		Int64("clean_rows", stats.CleanRows).
		Int64("edges", stats.EdgeRows).
		Int64("feature_rows", stats.FeatureRows).
		Msg("Movies normalized")
	return stats, nil
}

// readCandidates returns the qualifying raw rows in source order, first row per id.
func (db *DB) readCandidates(ctx context.Context, minVoteCount int) ([]rawMovie, int64, error) {
	query := fmt.Sprintf(`SELECT TRY_CAST(id AS BIGINT) AS movie_id,
			CAST(title AS VARCHAR),
			CAST(genres AS VARCHAR),
			TRY_CAST(vote_average AS DOUBLE)
		FROM %s
		WHERE TRY_CAST(vote_count AS DOUBLE) >= ?
			AND TRY_CAST(id AS BIGINT) IS NOT NULL
			AND title IS NOT NULL`, TableRaw)

	rows, err := db.conn.QueryContext(ctx, query, minVoteCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read raw movies: %w", err)
	}
	defer closeWithLog(rows, "rows")

	seen := make(map[int64]bool)
	var movies []rawMovie
	var candidates int64
	for rows.Next() {
		var m rawMovie
		if err := rows.Scan(&m.id, &m.title, &m.genres, &m.voteAverage); err != nil {
			return nil, 0, fmt.Errorf("failed to scan raw movie: %w", err)
		}
		candidates++
		if seen[m.id] {
			continue
		}
		seen[m.id] = true
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating raw movies: %w", err)
	}
	return movies, candidates, nil
}

func (db *DB) readFeatures(ctx context.Context) ([]models.FeatureRow, error) {
	query := fmt.Sprintf(`SELECT movie_id, budget, revenue, popularity, runtime, vote_average FROM (
			SELECT TRY_CAST(id AS BIGINT) AS movie_id,
				TRY_CAST(budget AS DOUBLE) AS budget,
				TRY_CAST(revenue AS DOUBLE) AS revenue,
				TRY_CAST(popularity AS DOUBLE) AS popularity,
				TRY_CAST(runtime AS DOUBLE) AS runtime,
				TRY_CAST(vote_average AS DOUBLE) AS vote_average
			FROM %s
		)
		WHERE movie_id IS NOT NULL
			AND budget > 1000 AND revenue > 1000
			AND runtime > 0 AND vote_average > 0
			AND popularity IS NOT NULL`, TableRaw)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature rows: %w", err)
	}
	defer closeWithLog(rows, "rows")

	seen := make(map[int64]bool)
	var out []models.FeatureRow
	for rows.Next() {
		var f models.FeatureRow
		if err := rows.Scan(&f.MovieID, &f.Budget, &f.Revenue, &f.Popularity, &f.Runtime, &f.VoteAverage); err != nil {
			return nil, fmt.Errorf("failed to scan feature row: %w", err)
		}
		if seen[f.MovieID] {
			continue
		}
		seen[f.MovieID] = true
		out = append(out, f)
	}
	return out, rows.Err()
}

// writeClean replaces the clean tables in a single transaction.
func (db *DB) writeClean(ctx context.Context, movies []rawMovie, features []models.FeatureRow, stats *models.NormalizeStats) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logErrRollback(rbErr, err)
			}
		}
	}()

	for _, table := range []string{TableGenres, TableClean, TableFeatures} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	movieStmt, err := tx.PrepareContext(ctx, "INSERT INTO "+TableClean+" (movie_id, title, vote_average) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare movie insert: %w", err)
	}
	defer closeWithLog(movieStmt, "statement")

	genreStmt, err := tx.PrepareContext(ctx, "INSERT INTO "+TableGenres+" (movie_id, genre_name) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare genre insert: %w", err)
	}
	defer closeWithLog(genreStmt, "statement")

	for _, m := range movies {
		var voteAverage any
		if m.voteAverage.Valid {
			voteAverage = m.voteAverage.Float64
		}
		if _, err = movieStmt.ExecContext(ctx, m.id, m.title, voteAverage); err != nil {
			return fmt.Errorf("failed to insert movie %d: %w", m.id, err)
		}
		stats.CleanRows++

		names, ok := parseGenreNames(m.genres)
		if !ok {
			stats.MalformedGenres++
		}
		for _, name := range names {
			if _, err = genreStmt.ExecContext(ctx, m.id, name); err != nil {
				return fmt.Errorf("failed to insert genre %q for movie %d: %w", name, m.id, err)
			}
			stats.EdgeRows++
		}
	}

	if len(features) > 0 {
		featureStmt, prepErr := tx.PrepareContext(ctx, "INSERT INTO "+TableFeatures+
			" (movie_id, budget, revenue, popularity, runtime, vote_average) VALUES (?, ?, ?, ?, ?, ?)")
		if prepErr != nil {
			err = prepErr
			return fmt.Errorf("failed to prepare feature insert: %w", err)
		}
		defer closeWithLog(featureStmt, "statement")

		for _, f := range features {
			if _, err = featureStmt.ExecContext(ctx, f.MovieID, f.Budget, f.Revenue, f.Popularity, f.Runtime, f.VoteAverage); err != nil {
				return fmt.Errorf("failed to insert features for movie %d: %w", f.MovieID, err)
			}
			stats.FeatureRows++
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit normalized tables: %w", err)
	}
	return nil
}

// parseGenreNames decodes a genre list of the form [{"id": 28, "name": "Action"}, ...].
// It returns the distinct non-empty names in order, and false when the value is
// not a JSON array. Array elements that are not objects with a string name are skipped.
func parseGenreNames(value sql.NullString) ([]string, bool) {
	if !value.Valid {
		return nil, false
	}

	text := strings.TrimSpace(value.String)
	if !strings.HasPrefix(text, "[") {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(text), &elems); err != nil {
		return nil, false
	}

	seen := make(map[string]bool, len(elems))
	names := make([]string, 0, len(elems))
	for _, raw := range elems {
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			continue
		}
		name, ok := obj["name"].(string)
		if !ok || name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, true
}

func hasColumns(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, c := range have {
		set[c] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}
