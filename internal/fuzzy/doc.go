// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

/*
Package fuzzy implements in-process fuzzy string scoring for movie title lookup.

Scores are integers from 0 to 100 and follow the rapidfuzz family of scorers:

  - Ratio: normalized Indel similarity, 200 * LCS / (len(a) + len(b))
  - PartialRatio: best Ratio of the shorter string against windows of the longer
  - TokenSortRatio: Ratio after sorting whitespace-separated tokens
  - TokenSetRatio: Ratio over the token intersection and differences
  - WRatio: weighted combination used for free-text lookup

Lengths are measured in runes. Ratio and PartialRatio compare the inputs as given;
TokenSortRatio, TokenSetRatio, WRatio and ExtractOne run Process on both sides first.

The database layer offers a DB-side alternative (rapidfuzz DuckDB extension, see
database.SearchTitles). This package serves the similarity model, whose titles live
in memory.

Usage:

	m, ok := fuzzy.ExtractOne("avatr", titles)
	if ok && m.Score > 80 {
	    fmt.Println(titles[m.Index])
	}
*/
package fuzzy
