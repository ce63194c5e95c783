// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package services

import (
	"context"
	"time"

	"github.com/tomtom215/cinebot/internal/logging"
)

// DefaultSweepInterval is how often idle chat sessions are evicted.
const DefaultSweepInterval = time.Minute

// SessionCleaner evicts expired chat sessions and reports how many were removed.
type SessionCleaner interface {
	Cleanup() int
	Len() int
}

// SessionSweeperService periodically removes expired chat sessions so idle
// conversations do not hold memory until the store reaches capacity.
type SessionSweeperService struct {
	sessions SessionCleaner
	interval time.Duration
}

// NewSessionSweeperService creates a sweeper. A non-positive interval uses DefaultSweepInterval.
func NewSessionSweeperService(sessions SessionCleaner, interval time.Duration) *SessionSweeperService {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &SessionSweeperService{sessions: sessions, interval: interval}
}

// Serve implements suture.Service.
func (s *SessionSweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.sessions.Cleanup(); n > 0 {
				logging.Debug().
					Int("evicted", n).
					Int("active", s.sessions.Len()).
					Msg("Evicted expired chat sessions")
			}
		}
	}
}

func (s *SessionSweeperService) String() string {
	return "session-sweeper"
}
