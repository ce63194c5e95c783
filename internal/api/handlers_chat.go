// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package api

import (
	"net/http"

	"github.com/tomtom215/cinebot/internal/logging"
)

// Chat answers one message in a conversation.
//
// A missing or unknown session_id starts a new session; the returned
// session_id must be sent back to continue it.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.responder == nil {
		rw.ServiceUnavailable("Chat is not available")
		return
	}

	var req ChatRequest
	if err := decodeJSONBody(r, &req); err != nil {
		rw.BadRequest("Request body must be a JSON object with a message")
		return
	}
	if !validateRequest(rw, &req) {
		return
	}

	session, created := h.sessions.GetOrCreate(req.SessionID)
	ctx := logging.ContextWithSessionID(r.Context(), session.ID)

	reply := h.responder.Respond(ctx, session, req.Message)

	logging.Ctx(ctx).Debug().
		Bool("new_session", created).
		Str("message", sanitizeLogValue(req.Message)).
		Msg("Chat message answered")

	rw.Success(ChatResponse{
		SessionID:  session.ID,
		Response:   reply,
		NewSession: created,
	})
}
