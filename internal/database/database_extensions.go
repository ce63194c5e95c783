// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

/*
database_extensions.go - Optional DuckDB Extensions

The pipeline itself only needs DuckDB core (read_csv, string_agg, window
functions). One community extension is used when present:

  - rapidfuzz: rapidfuzz_ratio() for DB-side fuzzy title search

Community extensions are never downloaded at runtime. CGO calls ignore context
cancellation, so a hung INSTALL would block startup forever; the extension is
loaded only if its file already exists under ~/.duckdb/extensions and the process
is not running in CI.

Environment Variables:
  - DUCKDB_EXTENSION_TIMEOUT: hard timeout for LOAD/verify calls (default 30s)
  - CI, GITHUB_ACTIONS: any value disables community extensions
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/tomtom215/cinebot/internal/logging"
)

// duckdbVersion must match the duckdb-go-bindings version in go.mod.
const duckdbVersion = "v1.4.3"

var communityExtensionTimeout = getExtensionTimeout()

func getExtensionTimeout() time.Duration {
	if v := os.Getenv("DUCKDB_EXTENSION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 30 * time.Second
}

func isCI() bool {
	return os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != ""
}

// isExtensionInstalledLocally checks ~/.duckdb/extensions/{version}/{platform}/{name}.duckdb_extension.
func isExtensionInstalledLocally(name string) bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	platform := runtime.GOOS + "_" + runtime.GOARCH
	path := filepath.Join(home, ".duckdb", "extensions", duckdbVersion, platform, name+".duckdb_extension")
	_, err = os.Stat(path)
	return err == nil
}

// execWithHardTimeout runs query in a goroutine and gives up after the
// extension timeout. The goroutine may outlive the call if CGO hangs.
func (db *DB) execWithHardTimeout(query string) error {
	ctx, cancel := context.WithTimeout(context.Background(), communityExtensionTimeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		_, err := db.conn.ExecContext(ctx, query)
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-time.After(communityExtensionTimeout):
		return fmt.Errorf("operation timed out after %v", communityExtensionTimeout)
	}
}

// installExtensions loads optional extensions. Failures only disable features.
func (db *DB) installExtensions() {
	if isCI() {
		db.rapidfuzzAvailable = false
		logging.Debug().Msg("CI environment detected, community extensions disabled")
		return
	}
	db.installRapidFuzzIfLocal()
}

func (db *DB) installRapidFuzzIfLocal() {
	if !isExtensionInstalledLocally("rapidfuzz") {
		db.rapidfuzzAvailable = false
		logging.Info().Msg("rapidfuzz extension not found locally, title search will use LIKE matching")
		return
	}

	if err := db.execWithHardTimeout("LOAD rapidfuzz;"); err != nil {
		db.rapidfuzzAvailable = false
		logging.Warn().Err(err).Msg("rapidfuzz extension installed but failed to load")
		return
	}
	if err := db.execWithHardTimeout("SELECT rapidfuzz_ratio('hello', 'helo')"); err != nil {
		db.rapidfuzzAvailable = false
		logging.Warn().Err(err).Msg("rapidfuzz extension functions unavailable")
		return
	}

	db.rapidfuzzAvailable = true
	logging.Info().Msg("rapidfuzz extension loaded")
}
