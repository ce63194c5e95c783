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

	"github.com/tomtom215/cinebot/internal/logging"
	"github.com/tomtom215/cinebot/internal/metrics"
)

// ensureContext adds a 30-second deadline when ctx has none.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}
	if _, ok := ctx.Deadline(); !ok {
		return context.WithTimeout(ctx, 30*time.Second)
	}
	return ctx, func() {}
}

// Checkpoint forces a WAL checkpoint.
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// GetDatabasePath returns the configured database path.
func (db *DB) GetDatabasePath() string {
	return db.cfg.Path
}

// TableRowCount returns the number of rows in table, or 0 if it does not exist.
func (db *DB) TableRowCount(ctx context.Context, table string) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	exists, err := db.tableExists(ctx, table)
	if err != nil || !exists {
		return 0, err
	}

	var n int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// TableCounts returns row counts for every pipeline table.
func (db *DB) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, 5)
	for _, table := range []string{TableRaw, TableClean, TableGenres, TableFeatures, TableDerived} {
		n, err := db.TableRowCount(ctx, table)
		if err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}

func (db *DB) tableExists(ctx context.Context, table string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?", table).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to look up table %s: %w", table, err)
	}
	return n > 0, nil
}

// tableColumns returns the lower-cased column names of table in ordinal order.
func (db *DB) tableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT column_name FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position", table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer closeWithLog(rows, "rows")

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		cols = append(cols, strings.ToLower(c))
	}
	return cols, rows.Err()
}

// quoteIdent quotes a SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteral quotes a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// observe records a query's duration and outcome.
func observe(operation string, start time.Time, err error) {
	metrics.RecordDBQuery(operation, time.Since(start), err)
}

func logErrRollback(rbErr, original error) {
	logging.Error().
		Err(rbErr).
		AnErr("original_error", original).
		Msg("Transaction rollback failed")
}
