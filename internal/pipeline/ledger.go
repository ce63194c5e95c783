// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinebot/internal/models"
)

const (
	// runKeyPrefix prefixes one ledger entry per run, ordered by start time.
	runKeyPrefix = "pipeline:run:"

	// MaxHistory is the number of runs kept in the ledger.
	MaxHistory = 100

	// DefaultHistoryLimit is used when History is called with a non-positive limit.
	DefaultHistoryLimit = 20
)

// Ledger records pipeline runs.
type Ledger interface {
	Save(ctx context.Context, stats *models.RunStats) error
	Last(ctx context.Context) (*models.RunStats, error)
	History(ctx context.Context, limit int) ([]models.RunStats, error)
}

func runKey(stats *models.RunStats) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", runKeyPrefix, stats.StartedAt.UnixNano(), stats.RunID))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistory {
		return MaxHistory
	}
	return limit
}

// BadgerLedger implements Ledger using BadgerDB for persistence.
// Run history survives application restarts.
type BadgerLedger struct {
	db *badger.DB
}

// OpenBadgerLedger opens (or creates) a BadgerDB at path and wraps it in a ledger.
func OpenBadgerLedger(path string) (*BadgerLedger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for pipeline ledger: %w", err)
	}
	return &BadgerLedger{db: db}, nil
}

// NewBadgerLedger creates a ledger using the provided BadgerDB instance.
func NewBadgerLedger(db *badger.DB) *BadgerLedger {
	return &BadgerLedger{db: db}
}

// Close closes the underlying BadgerDB.
func (l *BadgerLedger) Close() error {
	return l.db.Close()
}

// Save persists a run and prunes entries beyond MaxHistory.
func (l *BadgerLedger) Save(_ context.Context, stats *models.RunStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal run stats: %w", err)
	}

	err = l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(stats), data)
	})
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	return l.prune()
}

// Last returns the most recent run, or nil if none has been recorded.
func (l *BadgerLedger) Last(ctx context.Context) (*models.RunStats, error) {
	runs, err := l.History(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// History returns up to limit runs, newest first.
func (l *BadgerLedger) History(_ context.Context, limit int) ([]models.RunStats, error) {
	limit = clampLimit(limit)
	runs := make([]models.RunStats, 0, limit)

	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(runKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(runKeyPrefix)
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(runs) < limit; it.Next() {
			var stats models.RunStats
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &stats)
			})
			if err != nil {
				return err
			}
			runs = append(runs, stats)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load run history: %w", err)
	}
	return runs, nil
}

// prune deletes the oldest runs beyond MaxHistory.
func (l *BadgerLedger) prune() error {
	var stale [][]byte

	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true
		opts.Prefix = []byte(runKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(runKeyPrefix)
		seek := append(append([]byte{}, prefix...), 0xFF)
		n := 0
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			n++
			if n > MaxHistory {
				stale = append(stale, it.Item().KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil || len(stale) == 0 {
		return err
	}

	return l.db.Update(func(txn *badger.Txn) error {
		for _, key := range stale {
			if err := txn.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
}

// InMemoryLedger implements Ledger in memory.
// Used when no ledger path is configured and in tests.
type InMemoryLedger struct {
	mu   sync.RWMutex
	runs []models.RunStats // oldest first
}

// NewInMemoryLedger creates an empty in-memory ledger.
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{}
}

// Save stores a copy of the run.
func (l *InMemoryLedger) Save(_ context.Context, stats *models.RunStats) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.runs = append(l.runs, *stats)
	if len(l.runs) > MaxHistory {
		l.runs = append([]models.RunStats(nil), l.runs[len(l.runs)-MaxHistory:]...)
	}
	return nil
}

// Last returns the most recent run, or nil if none has been recorded.
func (l *InMemoryLedger) Last(_ context.Context) (*models.RunStats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.runs) == 0 {
		return nil, nil
	}
	last := l.runs[len(l.runs)-1]
	return &last, nil
}

// History returns up to limit runs, newest first.
func (l *InMemoryLedger) History(_ context.Context, limit int) ([]models.RunStats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	limit = clampLimit(limit)
	runs := make([]models.RunStats, 0, limit)
	for i := len(l.runs) - 1; i >= 0 && len(runs) < limit; i-- {
		runs = append(runs, l.runs[i])
	}
	return runs, nil
}
