// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

// Package query is the inference layer between callers and the analytical
// store and trained models.
//
// Service answers the best-genre, top-movies-by-genre and similar-movies
// questions, memoizing each keyed by (operation, args) in a cache.Memo that
// is invalidated when the pipeline replaces tables or a model is rebuilt.
// Store reads pass through a gobreaker circuit breaker; an open circuit is
// reported as ErrStoreUnavailable. Lookups that find nothing return empty
// results, never errors.
package query
