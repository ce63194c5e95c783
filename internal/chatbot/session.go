// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package chatbot

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxHistory bounds the messages kept per session.
const DefaultMaxHistory = 50

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// Session is the explicit conversation context passed to the responder.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	history    []Message
	maxHistory int
	lastSeen   time.Time
}

// NewSession creates a session with a fresh ID.
func NewSession() *Session {
	return NewSessionWithID(uuid.New().String())
}

// NewSessionWithID creates a session with the given ID.
func NewSessionWithID(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:         id,
		CreatedAt:  now,
		lastSeen:   now,
		maxHistory: DefaultMaxHistory,
	}
}

// Append records a message, dropping the oldest beyond the history bound.
func (s *Session) Append(role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	s.history = append(s.history, Message{Role: role, Text: text, Time: now})
	if over := len(s.history) - s.maxHistory; over > 0 {
		s.history = append([]Message(nil), s.history[over:]...)
	}
	s.lastSeen = now
}

// History returns a copy of the recorded messages, oldest first.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.history...)
}

// LastSeen returns the time of the last recorded message.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
