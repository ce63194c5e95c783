// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

// Package logging provides the process-wide zerolog logger used by CineBot.
//
// The logger is configured once at startup from the logging section of the
// application config and is then reached through package-level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Int("rows", n).Msg("Raw table loaded")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Artifact not ready")
//
// # Context Fields
//
// Request-scoped identifiers travel through context.Context and are attached
// automatically by Ctx:
//   - request_id: set by the HTTP middleware for every API call
//   - correlation_id: short id shared by related operations
//   - run_id: pipeline run identifier
//   - session_id: chat session identifier
//
// # Suture Integration
//
// NewSlogLogger adapts the zerolog logger to log/slog so it can be handed to
// sutureslog when building the supervisor tree.
//
// Always terminate an event chain with Msg or Send, otherwise nothing is written.
package logging
