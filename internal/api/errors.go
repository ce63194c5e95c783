// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/cinebot/internal/database"
	"github.com/tomtom215/cinebot/internal/logging"
	"github.com/tomtom215/cinebot/internal/models"
	"github.com/tomtom215/cinebot/internal/pipeline"
	"github.com/tomtom215/cinebot/internal/query"
	"github.com/tomtom215/cinebot/internal/recommend"
)

// respondPipelineError maps a pipeline failure to a status and a client-safe
// message. The error text stays in the log; stats of a failed run, when
// present, are returned as details.
func respondPipelineError(rw *ResponseWriter, r *http.Request, err error, stats *models.RunStats) {
	logging.Ctx(r.Context()).Error().Err(err).Msg("Pipeline request failed")

	var details interface{}
	if stats != nil {
		details = publicRunStats(*stats)
	}

	status, message := http.StatusInternalServerError, "Pipeline run failed"
	switch {
	case errors.Is(err, pipeline.ErrRunInProgress):
		rw.Error(http.StatusConflict, ErrCodePipelineBusy, "A pipeline run is already in progress")
		return
	case errors.Is(err, database.ErrSourceNotFound):
		status, message = http.StatusUnprocessableEntity, "Source file not found"
	case errors.Is(err, database.ErrEmptySource):
		status, message = http.StatusUnprocessableEntity, "Source contains no rows"
	case errors.Is(err, database.ErrMissingColumns):
		status, message = http.StatusUnprocessableEntity, "Source is missing required columns"
	case errors.Is(err, database.ErrInvalidScript):
		status, message = http.StatusUnprocessableEntity, "Transform script could not be used"
	case errors.Is(err, database.ErrEmptyUpstream):
		status, message = http.StatusUnprocessableEntity, "No movies survived normalization"
	}
	rw.ErrorWithDetails(status, ErrCodePipelineError, message, details)
}

// respondBuildError maps a model build failure.
func respondBuildError(rw *ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Error().Err(err).Msg("Model build failed")

	switch {
	case errors.Is(err, recommend.ErrUnknownVariant):
		rw.BadRequest("variant must be one of: similarity regression")
	case errors.Is(err, recommend.ErrEmptyCorpus), errors.Is(err, recommend.ErrNotEnoughRows):
		rw.Error(http.StatusUnprocessableEntity, ErrCodeModelBuildError, "Not enough data to train the model; run the pipeline first")
	default:
		rw.Error(http.StatusInternalServerError, ErrCodeModelBuildError, "Model build failed")
	}
}

// respondQueryError maps a query layer failure.
func respondQueryError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, query.ErrModelNotReady):
		rw.Error(http.StatusServiceUnavailable, ErrCodeModelNotReady, "Similarity model is not trained yet")
	case errors.Is(err, query.ErrStoreUnavailable):
		logging.Warn().Err(err).Msg("Store circuit open")
		rw.ServiceUnavailable("Movie store temporarily unavailable")
	default:
		rw.DatabaseError(err)
	}
}

// publicRunStats clears the raw error text of a run before it leaves the
// process. FailedStep still says where the run stopped.
func publicRunStats(stats models.RunStats) models.RunStats {
	stats.Error = ""
	return stats
}
