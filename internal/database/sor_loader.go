// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

/*
sor_loader.go - Raw Source Ingestion

LoadRawCSV copies the source file into sor_movies verbatim. The file is first
read into a staging table; only after the staging table passes validation
(required columns present, at least one row) is it swapped in for the previous
raw table inside one transaction. A failed load leaves the previous raw table
untouched, except for an empty source, which empties it.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tomtom215/cinebot/internal/logging"
	"github.com/tomtom215/cinebot/internal/models"
)

// RequiredRawColumns are the source columns the normalizer reads.
var RequiredRawColumns = []string{"id", "title", "genres", "vote_average", "vote_count"}

// LoadRawCSV replaces sor_movies with the contents of the CSV file at path.
// A source without data rows empties sor_movies and returns ErrEmptySource.
func (db *DB) LoadRawCSV(ctx context.Context, path string) (stats *models.RawLoadStats, err error) {
	start := time.Now()
	defer func() { observe("load_raw", start, err) }()

	info, statErr := os.Stat(path)
	if statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat source %s: %w", path, statErr)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, path)
	}
	if info.Size() == 0 {
		return nil, db.clearRaw(ctx, fmt.Errorf("%w: %s", ErrEmptySource, path))
	}

	// read_csv does not accept a bound parameter for the file name.
	stageSQL := fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv(%s, header = true, auto_detect = true)",
		tableRawStaging, quoteLiteral(path))
	if _, err = db.conn.ExecContext(ctx, stageSQL); err != nil {
		return nil, fmt.Errorf("failed to read source %s: %w", path, err)
	}

	stats, err = db.validateStaging(ctx, path)
	if err != nil {
		db.dropStaging(ctx)
		if errors.Is(err, ErrEmptySource) {
			return nil, db.clearRaw(ctx, err)
		}
		return nil, err
	}

	if err = db.swapStaging(ctx); err != nil {
		db.dropStaging(ctx)
		return nil, err
	}

	logging.Info().
		Str("source", path).
		Int64("rows", stats.Rows).
		Int("columns", len(stats.Columns)).
		Msg("Raw source loaded")
	return stats, nil
}

func (db *DB) validateStaging(ctx context.Context, path string) (*models.RawLoadStats, error) {
	cols, err := db.tableColumns(ctx, tableRawStaging)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}
	var missing []string
	for _, req := range RequiredRawColumns {
		if !present[req] {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var rows int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+tableRawStaging).Scan(&rows); err != nil {
		return nil, fmt.Errorf("failed to count staged rows: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, path)
	}

	return &models.RawLoadStats{SourcePath: path, Rows: rows, Columns: cols}, nil
}

func (db *DB) swapStaging(ctx context.Context) (err error) {
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

	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+TableRaw); err != nil {
		return fmt.Errorf("failed to drop previous raw table: %w", err)
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", tableRawStaging, TableRaw)); err != nil {
		return fmt.Errorf("failed to promote staged raw table: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit raw table swap: %w", err)
	}
	return nil
}

// clearRaw deletes every sor_movies row and returns cause, joined with any
// failure to clear.
func (db *DB) clearRaw(ctx context.Context, cause error) error {
	exists, err := db.tableExists(ctx, TableRaw)
	if err == nil && exists {
		_, err = db.conn.ExecContext(ctx, "DELETE FROM "+TableRaw)
	}
	if err != nil {
		return errors.Join(cause, fmt.Errorf("failed to clear raw table: %w", err))
	}
	logging.Warn().Str("table", TableRaw).Msg("Empty source: raw table cleared")
	return cause
}

func (db *DB) dropStaging(ctx context.Context) {
	if _, err := db.conn.ExecContext(context.WithoutCancel(ctx), "DROP TABLE IF EXISTS "+tableRawStaging); err != nil {
		logging.Warn().Err(err).Msg("Failed to drop staging table")
	}
}
