// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package api

// Request structs validated with go-playground/validator before processing.
// Body fields are reported by their json name and query parameters by their
// query name.

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,uuid"`
	Message   string `json:"message" validate:"required,notblank,max=1000"`
}

// ChatResponse is returned by POST /chat.
type ChatResponse struct {
	SessionID  string `json:"session_id"`
	Response   string `json:"response"`
	NewSession bool   `json:"new_session"`
}

// PipelineRunRequest is the optional body of POST /pipeline/run.
// Empty fields fall back to the configured source and transform script.
type PipelineRunRequest struct {
	SourcePath      string `json:"source_path" validate:"omitempty,max=4096"`
	TransformScript string `json:"transform_script" validate:"omitempty,max=4096"`
}

// PipelineRunsRequest holds the query parameters of GET /pipeline/runs.
type PipelineRunsRequest struct {
	Limit int `query:"limit" validate:"min=1,max=100"`
}

// ModelBuildRequest is the optional body of POST /model/build.
type ModelBuildRequest struct {
	Variant string `json:"variant" validate:"omitempty,oneof=similarity regression"`
}

// TopMoviesRequest holds the parameters of GET /genres/{genre}/top.
type TopMoviesRequest struct {
	Genre string `query:"genre" validate:"required,notblank,max=100"`
	Limit int    `query:"limit" validate:"min=1,max=100"`
}

// SimilarMoviesRequest holds the query parameters of GET /movies/similar.
type SimilarMoviesRequest struct {
	Title string `query:"title" validate:"required,notblank,max=200"`
}

// SearchTitlesRequest holds the query parameters of GET /movies/search.
type SearchTitlesRequest struct {
	Query    string `query:"q" validate:"required,notblank,max=200"`
	MinScore int    `query:"min_score" validate:"min=0,max=100"`
	Limit    int    `query:"limit" validate:"min=1,max=100"`
}
