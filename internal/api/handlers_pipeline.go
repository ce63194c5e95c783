// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/cinebot/internal/logging"
	"github.com/tomtom215/cinebot/internal/models"
	"github.com/tomtom215/cinebot/internal/pipeline"
)

// PipelineRun runs the pipeline synchronously and returns its stats.
// The run is detached from the client connection so a disconnect cannot
// leave the tables half replaced.
func (h *Handler) PipelineRun(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req PipelineRunRequest
	if err := decodeJSONBody(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		rw.BadRequest("Request body must be a JSON object")
		return
	}
	if !validateRequest(rw, &req) {
		return
	}

	source, err := h.confinePath(req.SourcePath)
	if err != nil {
		rejectPath(rw, r, "source_path", req.SourcePath)
		return
	}
	script, err := h.confinePath(req.TransformScript)
	if err != nil {
		rejectPath(rw, r, "transform_script", req.TransformScript)
		return
	}

	if h.pipeline.Running() {
		respondPipelineError(rw, r, pipeline.ErrRunInProgress, nil)
		return
	}

	stats, err := h.pipeline.Run(context.WithoutCancel(r.Context()), source, script)
	if err != nil {
		respondPipelineError(rw, r, err, stats)
		return
	}
	rw.Success(publicRunStats(*stats))
}

// confinePath resolves a requested path against the data directory. Empty
// stays empty so the runner falls back to its configured path.
func (h *Handler) confinePath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	return withinDir(h.dataDir, p)
}

func rejectPath(rw *ResponseWriter, r *http.Request, field, value string) {
	logging.Ctx(r.Context()).Warn().
		Str("field", field).
		Str("path", sanitizeLogValue(value)).
		Msg("Rejected pipeline path outside the data directory")
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation,
		field+" must be inside the data directory",
		map[string]interface{}{"field": field, "tag": "data_dir"})
}

// PipelineRuns returns the most recent runs, newest first.
func (h *Handler) PipelineRuns(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := PipelineRunsRequest{Limit: getIntParam(r, "limit", pipeline.DefaultHistoryLimit)}
	if !validateRequest(rw, &req) {
		return
	}

	runs, err := h.pipeline.History(r.Context(), req.Limit)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	out := make([]models.RunStats, len(runs))
	for i := range runs {
		out[i] = publicRunStats(runs[i])
	}
	rw.Success(out)
}
