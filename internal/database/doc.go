// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

/*
Package database provides the DuckDB analytical store behind the CineBot pipeline.

It owns every table the pipeline writes and every SQL query the query layer runs:

	sor_movies          raw CSV, verbatim columns (LoadRawCSV)
	sot_movies_clean    movie_id, title, vote_average (NormalizeMovies)
	sot_movie_genres    movie_id, genre_name (NormalizeMovies)
	sot_movie_features  numeric regression inputs (NormalizeMovies)
	spec_genre_ratings  genre_name, average_rating (BuildDerived)

All writes use full-replace semantics: a stage supersedes the previous content of
its tables entirely and never appends. The store is single-writer; serializing
pipeline runs is the caller's job (see internal/pipeline).

# Extensions

DuckDB auto-install and auto-load are disabled. The optional rapidfuzz community
extension is loaded only when it is already installed locally and the process is
not running in CI. Without it, SearchTitles falls back to LIKE matching.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	raw, err := db.LoadRawCSV(ctx, "/data/movies.csv")
	norm, err := db.NormalizeMovies(ctx, 500)
	derived, err := db.BuildDerived(ctx, "")
	best, err := db.BestGenre(ctx)
*/
package database
