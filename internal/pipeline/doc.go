// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

/*
Package pipeline orchestrates full-replace ETL runs.

A run executes three stages against the analytical store, in order:

 1. load_raw: the source CSV replaces sor_movies
 2. normalize: sor_movies is filtered and exploded into the SOT tables
 3. derive: the transform script rebuilds spec_genre_ratings

Runs are serialized by a single-writer guard; a second caller receives
ErrRunInProgress immediately instead of queueing. An empty source fails
the run and resets the clean and derived tables so nothing stale stays
queryable.

Every run, successful or not, is appended to a Ledger. BadgerLedger keeps
the last MaxHistory runs on disk; InMemoryLedger is used when no ledger
path is configured.

Usage:

	runner := pipeline.NewRunner(db, ledger, cfg.Pipeline, logging.Logger())
	runner.OnChange(memo.Invalidate)

	stats, err := runner.Run(ctx, "", "")
	if errors.Is(err, pipeline.ErrRunInProgress) {
	    // another run is active
	}
*/
package pipeline
