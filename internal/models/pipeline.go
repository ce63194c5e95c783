// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package models

import "time"

// RawLoadStats summarizes a raw CSV load into sor_movies.
type RawLoadStats struct {
	SourcePath string   `json:"source_path"`
	Rows       int64    `json:"rows"`
	Columns    []string `json:"columns"`
}

// NormalizeStats summarizes a normalization pass.
type NormalizeStats struct {
	CandidateRows   int64 `json:"candidate_rows"`   // Raw rows passing the vote threshold
	CleanRows       int64 `json:"clean_rows"`       // Rows written to sot_movies_clean
	EdgeRows        int64 `json:"edge_rows"`        // Rows written to sot_movie_genres
	DuplicateIDs    int64 `json:"duplicate_ids"`    // Raw rows dropped for a repeated identifier
	MalformedGenres int64 `json:"malformed_genres"` // Rows whose genre field could not be decoded
	FeatureRows     int64 `json:"feature_rows"`     // Rows written to sot_movie_features
	MinVoteCount    int   `json:"min_vote_count"`
}

// DerivedStats summarizes a derived-table build.
type DerivedStats struct {
	Script string `json:"script"` // "builtin" or the script path
	Rows   int64  `json:"rows"`
}

// Run statuses.
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// RunStats records one pipeline run.
type RunStats struct {
	RunID      string          `json:"run_id"`
	Status     string          `json:"status"`
	SourcePath string          `json:"source_path"`
	Script     string          `json:"script"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at,omitempty"`
	DurationMS int64           `json:"duration_ms"`
	Raw        *RawLoadStats   `json:"raw,omitempty"`
	Normalize  *NormalizeStats `json:"normalize,omitempty"`
	Derived    *DerivedStats   `json:"derived,omitempty"`
	FailedStep string          `json:"failed_step,omitempty"`
	Error      string          `json:"error,omitempty"`
}
