// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package cache

import (
	"sync"
	"time"

	"github.com/tomtom215/cinebot/internal/metrics"
)

// Memo memoizes query results keyed by (operation, args).
//
// Entries belong to a data version. Invalidate bumps the version and drops
// every entry, so results computed against replaced tables or a replaced
// model are never served again. A load that started before an Invalidate
// returns its result to the caller but does not populate the cache.
type Memo struct {
	mu      sync.RWMutex
	entries *LRU[string, interface{}]
	version uint64
}

// NewMemo creates a memo backed by an LRU of the given capacity and TTL.
func NewMemo(capacity int, ttl time.Duration) *Memo {
	return &Memo{entries: NewLRU[string, interface{}](capacity, ttl)}
}

// Version returns the current data version.
func (m *Memo) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Invalidate bumps the data version and drops all memoized results.
func (m *Memo) Invalidate() {
	m.mu.Lock()
	m.version++
	m.entries.Clear()
	m.mu.Unlock()

	metrics.MemoCacheInvalidations.Inc()
	metrics.MemoCacheEntries.Set(0)
}

// Len returns the number of memoized results.
func (m *Memo) Len() int {
	return m.entries.Len()
}

// Stats returns hit/miss statistics of the underlying LRU.
func (m *Memo) Stats() (hits, misses int64, size int) {
	return m.entries.Stats()
}

func (m *Memo) lookup(key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries.Get(key)
}

func (m *Memo) store(key string, version uint64, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if version != m.version {
		return
	}
	m.entries.Add(key, value)
	metrics.MemoCacheEntries.Set(float64(m.entries.Len()))
}

// Remember returns the memoized result of operation(args...) or calls load
// and memoizes its result. Errors are never memoized.
func Remember[T any](m *Memo, operation string, load func() (T, error), args ...interface{}) (T, error) {
	if m == nil {
		return load()
	}

	key := GenerateKey(operation, args...)
	if v, ok := m.lookup(key); ok {
		if typed, ok := v.(T); ok {
			metrics.RecordMemoLookup(operation, true)
			return typed, nil
		}
	}
	metrics.RecordMemoLookup(operation, false)

	version := m.Version()
	result, err := load()
	if err != nil {
		return result, err
	}
	m.store(key, version, result)
	return result, nil
}
