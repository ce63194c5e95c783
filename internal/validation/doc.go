// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps the validator in a thread-safe singleton and converts
// failures into the API's VALIDATION_ERROR format. Fields are reported by
// their json or query tag name, so messages match what the client sent.
//
// # Custom Tags
//
//   - notblank: string must contain something other than whitespace
//
// # Usage
//
//	type ChatRequest struct {
//	    SessionID string `json:"session_id" validate:"omitempty,uuid"`
//	    Message   string `json:"message" validate:"required,notblank,max=1000"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use; the validator
// caches struct metadata after the first validation of each type.
package validation
