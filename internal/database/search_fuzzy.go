// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/cinebot/internal/models"
)

// Search defaults.
const (
	DefaultSearchMinScore = 70
	DefaultSearchLimit    = 20
	MaxSearchLimit        = 100
)

// SearchTitles finds clean movies whose title resembles q. With the rapidfuzz
// extension results carry a 0-100 similarity score; without it a case-insensitive
// substring match is used and every hit scores 100.
func (db *DB) SearchTitles(ctx context.Context, q string, minScore, limit int) (result []models.TitleMatch, err error) {
	start := time.Now()
	defer func() { observe("search_titles", start, err) }()

	q = strings.TrimSpace(q)
	if q == "" {
		return []models.TitleMatch{}, nil
	}
	if minScore <= 0 {
		minScore = DefaultSearchMinScore
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var query string
	var args []any
	if db.rapidfuzzAvailable {
		query = `SELECT movie_id, title, vote_average, score FROM (
				SELECT movie_id, title, COALESCE(vote_average, 0) AS vote_average,
					CAST(ROUND(rapidfuzz_ratio(LOWER(title), LOWER(?))) AS INTEGER) AS score
				FROM sot_movies_clean
			)
			WHERE score >= ?
			ORDER BY score DESC, vote_average DESC, title
			LIMIT ?`
		args = []any{q, minScore, limit}
	} else {
		query = `SELECT movie_id, title, COALESCE(vote_average, 0), 100 AS score
			FROM sot_movies_clean
			WHERE contains(LOWER(title), LOWER(?))
			ORDER BY vote_average DESC NULLS LAST, title
			LIMIT ?`
		args = []any{q, limit}
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search titles: %w", err)
	}
	defer closeWithLog(rows, "rows")

	result = make([]models.TitleMatch, 0)
	for rows.Next() {
		var m models.TitleMatch
		if err = rows.Scan(&m.MovieID, &m.Title, &m.VoteAverage, &m.Score); err != nil {
			return nil, fmt.Errorf("failed to scan title match: %w", err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating title matches: %w", err)
	}
	return result, nil
}
