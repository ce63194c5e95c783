// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package database

import (
	"context"
	"fmt"
)

// Table names.
const (
	TableRaw      = "sor_movies"
	TableClean    = "sot_movies_clean"
	TableGenres   = "sot_movie_genres"
	TableFeatures = "sot_movie_features"
	TableDerived  = "spec_genre_ratings"

	tableRawStaging = "sor_movies_staging"
)

// Fixed-field schemas. sor_movies has no fixed schema; it mirrors the source file.
const (
	createCleanSQL = `CREATE TABLE IF NOT EXISTS sot_movies_clean (
		movie_id BIGINT PRIMARY KEY,
		title VARCHAR NOT NULL,
		vote_average DOUBLE
	)`

	createGenresSQL = `CREATE TABLE IF NOT EXISTS sot_movie_genres (
		movie_id BIGINT NOT NULL,
		genre_name VARCHAR NOT NULL,
		PRIMARY KEY (movie_id, genre_name)
	)`

	createFeaturesSQL = `CREATE TABLE IF NOT EXISTS sot_movie_features (
		movie_id BIGINT PRIMARY KEY,
		budget DOUBLE NOT NULL,
		revenue DOUBLE NOT NULL,
		popularity DOUBLE NOT NULL,
		runtime DOUBLE NOT NULL,
		vote_average DOUBLE NOT NULL
	)`

	createDerivedSQL = `CREATE TABLE IF NOT EXISTS spec_genre_ratings (
		genre_name VARCHAR NOT NULL,
		average_rating DOUBLE
	)`

	// resetDerivedSQL replaces the derived table with an empty one of the fixed schema.
	resetDerivedSQL = `CREATE OR REPLACE TABLE spec_genre_ratings (
		genre_name VARCHAR NOT NULL,
		average_rating DOUBLE
	)`
)

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range []string{createCleanSQL, createGenresSQL, createFeaturesSQL, createDerivedSQL} {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return nil
}

// ResetDownstream empties the clean, feature and derived tables so that a failed
// run never leaves stale results queryable.
func (db *DB) ResetDownstream(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

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

	for _, stmt := range []string{
		"DELETE FROM " + TableGenres,
		"DELETE FROM " + TableClean,
		"DELETE FROM " + TableFeatures,
		resetDerivedSQL,
	} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to reset downstream tables: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}
	return nil
}
