// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/cinebot/internal/logging"
)

var (
	// ErrSourceNotFound is returned when the raw source file does not exist.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrEmptySource is returned when the raw source contains no data rows.
	ErrEmptySource = errors.New("source contains no rows")

	// ErrMissingColumns is returned when the raw source lacks a required column.
	ErrMissingColumns = errors.New("source is missing required columns")

	// ErrEmptyUpstream is returned when a stage finds its input tables empty.
	ErrEmptyUpstream = errors.New("upstream table is empty")

	// ErrInvalidScript is returned when a transform script is unusable.
	ErrInvalidScript = errors.New("invalid transform script")
)

// closeWithLog closes a resource and logs a failure.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource on an error path where the close error is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
