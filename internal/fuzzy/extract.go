// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package fuzzy

// Match is the best choice found by ExtractOne.
type Match struct {
	Choice string `json:"choice"`
	Score  int    `json:"score"`
	Index  int    `json:"index"`
}

// ExtractOne scores query against every choice with WRatio and returns the first
// choice with the highest score. It returns false only when choices is empty.
func ExtractOne(query string, choices []string) (Match, bool) {
	if len(choices) == 0 {
		return Match{}, false
	}

	q := Process(query)
	best := Match{Index: -1, Score: -1}
	for i, choice := range choices {
		s := score(wratio(q, Process(choice)))
		if s > best.Score {
			best = Match{Choice: choice, Score: s, Index: i}
			if s == 100 {
				break
			}
		}
	}
	return best, true
}
