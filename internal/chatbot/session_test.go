// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package chatbot

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSession_HistoryBounded(t *testing.T) {
	s := NewSession()
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Fatalf("session ID %q is not a UUID: %v", s.ID, err)
	}

	for i := 0; i < DefaultMaxHistory+10; i++ {
		s.Append(RoleUser, fmt.Sprintf("msg %d", i))
	}

	history := s.History()
	if len(history) != DefaultMaxHistory {
		t.Fatalf("history has %d messages, want %d", len(history), DefaultMaxHistory)
	}
	if history[0].Text != "msg 10" {
		t.Errorf("oldest kept = %q, want msg 10", history[0].Text)
	}

	// History returns a copy
	history[0].Text = "changed"
	if s.History()[0].Text == "changed" {
		t.Error("History() exposed internal storage")
	}
}

func TestSessionStore_GetOrCreate(t *testing.T) {
	store := NewSessionStore(10, time.Minute)

	s1, created := store.GetOrCreate("")
	if !created {
		t.Fatal("expected a new session for an empty id")
	}

	s2, created := store.GetOrCreate(s1.ID)
	if created || s2 != s1 {
		t.Error("expected the existing session to be returned")
	}

	id := uuid.New().String()
	s3, created := store.GetOrCreate(id)
	if !created || s3.ID != id {
		t.Errorf("GetOrCreate(%s) = %s, %v; want new session reusing the id", id, s3.ID, created)
	}

	s4, created := store.GetOrCreate("not-a-uuid")
	if !created || s4.ID == "not-a-uuid" {
		t.Errorf("malformed id was reused: %s", s4.ID)
	}

	if store.Len() != 3 {
		t.Errorf("Len() = %d, want 3", store.Len())
	}
	if !store.Delete(s1.ID) {
		t.Error("Delete() = false for held session")
	}
	if _, ok := store.Get(s1.ID); ok {
		t.Error("session still present after Delete")
	}
}

func TestSessionStore_Bounded(t *testing.T) {
	store := NewSessionStore(2, time.Minute)

	first, _ := store.GetOrCreate("")
	store.GetOrCreate("")
	store.GetOrCreate("")

	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
	if _, ok := store.Get(first.ID); ok {
		t.Error("least recently used session was not evicted")
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore(10, 30*time.Millisecond)
	s, _ := store.GetOrCreate("")

	time.Sleep(40 * time.Millisecond)

	if removed := store.Cleanup(); removed != 1 {
		t.Errorf("Cleanup() = %d, want 1", removed)
	}
	if _, created := store.GetOrCreate(s.ID); !created {
		t.Error("expired session was returned")
	}
}
