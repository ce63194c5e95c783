// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/cinebot/internal/models"
)

// ModelStatusResponse is returned by GET /model/status.
type ModelStatusResponse struct {
	// Variant is the variant the chatbot serves
	Variant string `json:"variant"`

	// Ready reports whether that variant has a trained model
	Ready bool `json:"ready"`

	Models []models.ModelStatus `json:"models"`
}

// ModelBuild trains a model variant from the clean tables and returns the
// saved artifact metadata. An empty variant builds the configured one.
func (h *Handler) ModelBuild(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ModelBuildRequest
	if err := decodeJSONBody(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		rw.BadRequest("Request body must be a JSON object")
		return
	}
	if !validateRequest(rw, &req) {
		return
	}

	meta, err := h.models.Build(context.WithoutCancel(r.Context()), req.Variant)
	if err != nil {
		respondBuildError(rw, r, err)
		return
	}
	rw.Success(meta)
}

// ModelStatus reports readiness and metadata of every model variant.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(ModelStatusResponse{
		Variant: h.models.Variant(),
		Ready:   h.models.Ready(),
		Models:  h.models.Status(),
	})
}
