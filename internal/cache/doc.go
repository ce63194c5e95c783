// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

/*
Package cache provides thread-safe in-memory caching with TTL support.

# Overview

The package has two layers:
  - LRU: a generic O(1) least-recently-used cache with lazy TTL expiry
  - Memo: an explicit memoization layer for query results built on LRU

The query layer memoizes best-genre, top-movies and similar-movies
lookups through Remember. The pipeline and the model engine call
Memo.Invalidate after they replace tables or swap a model, which bumps
the data version and drops every entry.

# Usage

	memo := cache.NewMemo(1000, 10*time.Minute)

	top, err := cache.Remember(memo, "top_movies", func() ([]models.MovieRating, error) {
	    return db.TopMoviesByGenre(ctx, genre, 5)
	}, genre, 5)

	// After a pipeline run
	memo.Invalidate()

The chat session store uses LRU directly with an eviction callback to
keep the active-session gauge accurate.

# Metrics

Memo lookups are recorded as cinebot_memo_cache_total{operation,result}.
Invalidations and the current entry count are exported as well.

# Thread Safety

All types are safe for concurrent use.
*/
package cache
