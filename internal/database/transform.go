// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package database

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tomtom215/cinebot/internal/logging"
	"github.com/tomtom215/cinebot/internal/models"
)

// BuiltinScript names the embedded transform in DerivedStats.
const BuiltinScript = "builtin"

//go:embed transforms/spec_genre_ratings.sql
var defaultTransformSQL string

// BuildDerived runs the transform script that builds spec_genre_ratings from the
// clean tables. An empty scriptPath selects the built-in script. On any failure
// the derived table is reset to empty.
func (db *DB) BuildDerived(ctx context.Context, scriptPath string) (stats *models.DerivedStats, err error) {
	start := time.Now()
	defer func() { observe("build_derived", start, err) }()

	defer func() {
		if err != nil {
			if resetErr := db.resetDerived(context.WithoutCancel(ctx)); resetErr != nil {
				logging.Error().Err(resetErr).Msg("Failed to reset derived table after transform failure")
			}
		}
	}()

	for _, table := range []string{TableClean, TableGenres} {
		n, countErr := db.TableRowCount(ctx, table)
		if countErr != nil {
			return nil, countErr
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyUpstream, table)
		}
	}

	name, script, err := loadScript(scriptPath)
	if err != nil {
		return nil, err
	}
	statements := splitStatements(script)
	if len(statements) == 0 {
		return nil, fmt.Errorf("%w: %s contains no statements", ErrInvalidScript, name)
	}

	if err = db.execScript(ctx, statements); err != nil {
		return nil, fmt.Errorf("transform %s failed: %w", name, err)
	}

	exists, err := db.tableExists(ctx, TableDerived)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s did not create %s", ErrInvalidScript, name, TableDerived)
	}
	rows, err := db.TableRowCount(ctx, TableDerived)
	if err != nil {
		return nil, err
	}

	logging.Info().Str("script", name).Int64("rows", rows).Msg("Derived table built")
	return &models.DerivedStats{Script: name, Rows: rows}, nil
}

func loadScript(path string) (name, script string, err error) {
	if path == "" {
		return BuiltinScript, defaultTransformSQL, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied transform path
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	return path, string(data), nil
}

func (db *DB) execScript(ctx context.Context, statements []string) (err error) {
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

	for i, stmt := range statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

func (db *DB) resetDerived(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	if _, err := db.conn.ExecContext(ctx, resetDerivedSQL); err != nil {
		return fmt.Errorf("failed to reset %s: %w", TableDerived, err)
	}
	return nil
}

// splitStatements splits a SQL script on semicolons that are outside string
// literals, quoted identifiers and comments. Empty statements are dropped.
func splitStatements(script string) []string {
	var (
		out     []string
		current strings.Builder
		quote   rune
	)
	runes := []rune(script)

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		current.Reset()
		if stmt != "" {
			out = append(out, stmt)
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			current.WriteRune(r)
			if r == quote {
				// Doubled quote is an escaped quote.
				if i+1 < len(runes) && runes[i+1] == quote {
					current.WriteRune(runes[i+1])
					i++
					continue
				}
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
			current.WriteRune(r)
		case r == '-' && i+1 < len(runes) && runes[i+1] == '-':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			current.WriteRune('\n')
		case r == '/' && i+1 < len(runes) && runes[i+1] == '*':
			i += 2
			for i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/') {
				i++
			}
			i++
			current.WriteRune(' ')
		case r == ';':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return out
}
