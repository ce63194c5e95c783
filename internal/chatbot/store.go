// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package chatbot

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cinebot/internal/cache"
	"github.com/tomtom215/cinebot/internal/metrics"
)

// DefaultSessionTTL expires sessions idle for longer than this.
const DefaultSessionTTL = 30 * time.Minute

// SessionStore holds in-process sessions, bounded by an LRU.
// Sessions do not survive a restart.
type SessionStore struct {
	sessions *cache.LRU[string, *Session]
}

// NewSessionStore creates a store holding at most capacity sessions.
func NewSessionStore(capacity int, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s := &SessionStore{sessions: cache.NewLRU[string, *Session](capacity, ttl)}
	s.sessions.OnEvict(func(string, *Session) {
		metrics.ChatActiveSessions.Dec()
	})
	return s
}

// GetOrCreate returns the session for id. An empty, unknown or expired id
// yields a new session; a well-formed unknown id is reused as the new
// session's ID.
func (s *SessionStore) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if session, ok := s.sessions.Get(id); ok {
			// refresh TTL
			s.sessions.Add(id, session)
			return session, false
		}
	}

	var session *Session
	if _, err := uuid.Parse(id); err == nil {
		session = NewSessionWithID(id)
	} else {
		session = NewSession()
	}
	s.sessions.Add(session.ID, session)
	metrics.ChatActiveSessions.Inc()
	return session, true
}

// Get returns an existing session.
func (s *SessionStore) Get(id string) (*Session, bool) {
	return s.sessions.Get(id)
}

// Delete removes a session.
func (s *SessionStore) Delete(id string) bool {
	return s.sessions.Remove(id)
}

// Len returns the number of held sessions.
func (s *SessionStore) Len() int {
	return s.sessions.Len()
}

// Cleanup drops expired sessions and returns how many were removed.
func (s *SessionStore) Cleanup() int {
	return s.sessions.CleanupExpired()
}
