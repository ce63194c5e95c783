// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/cinebot/internal/config"
	"github.com/tomtom215/cinebot/internal/database"
	"github.com/tomtom215/cinebot/internal/logging"
	"github.com/tomtom215/cinebot/internal/models"
	"github.com/tomtom215/cinebot/internal/recommend"
)

// fakeStore records stage calls and fails on demand.
type fakeStore struct {
	mu      sync.Mutex
	calls   []string
	rawErr  error
	normErr error
	derErr  error
	block   chan struct{} // when set, LoadRawCSV waits on it
	started chan struct{} // closed when LoadRawCSV is entered
	resets  int
}

func (f *fakeStore) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeStore) LoadRawCSV(_ context.Context, path string) (*models.RawLoadStats, error) {
	f.record(StageLoadRaw)
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	if f.rawErr != nil {
		return nil, f.rawErr
	}
	return &models.RawLoadStats{SourcePath: path, Rows: 2, Columns: database.RequiredRawColumns}, nil
}

func (f *fakeStore) NormalizeMovies(_ context.Context, minVoteCount int) (*models.NormalizeStats, error) {
	f.record(StageNormalize)
	if f.normErr != nil {
		return nil, f.normErr
	}
	return &models.NormalizeStats{CandidateRows: 2, CleanRows: 2, EdgeRows: 3, MinVoteCount: minVoteCount}, nil
}

func (f *fakeStore) BuildDerived(_ context.Context, script string) (*models.DerivedStats, error) {
	f.record(StageDerive)
	if f.derErr != nil {
		return nil, f.derErr
	}
	if script == "" {
		script = database.BuiltinScript
	}
	return &models.DerivedStats{Script: script, Rows: 2}, nil
}

func (f *fakeStore) ResetDownstream(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	return nil
}

func (f *fakeStore) TableCounts(_ context.Context) (map[string]int64, error) {
	return map[string]int64{database.TableClean: 2}, nil
}

func newTestRunner(store Store, ledger Ledger) *Runner {
	cfg := config.PipelineConfig{SourcePath: "/data/movies.csv", MinVoteCount: 500}
	return NewRunner(store, ledger, cfg, logging.NewTestLogger(io.Discard))
}

func checkCalls(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunner_Run(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name        string
		store       *fakeStore
		wantErr     error
		wantStatus  string
		wantFailed  string
		wantCalls   []string
		wantChanged bool
		wantResets  int
	}{
		{
			name:        "success runs every stage in order",
			store:       &fakeStore{},
			wantStatus:  models.RunStatusSuccess,
			wantCalls:   []string{StageLoadRaw, StageNormalize, StageDerive},
			wantChanged: true,
		},
		{
			name:        "empty source resets downstream",
			store:       &fakeStore{rawErr: database.ErrEmptySource},
			wantErr:     database.ErrEmptySource,
			wantStatus:  models.RunStatusFailed,
			wantFailed:  StageLoadRaw,
			wantCalls:   []string{StageLoadRaw},
			wantChanged: true,
			wantResets:  1,
		},
		{
			name:       "missing source leaves tables alone",
			store:      &fakeStore{rawErr: database.ErrSourceNotFound},
			wantErr:    database.ErrSourceNotFound,
			wantStatus: models.RunStatusFailed,
			wantFailed: StageLoadRaw,
			wantCalls:  []string{StageLoadRaw},
		},
		{
			name:       "normalize failure stops the run",
			store:      &fakeStore{normErr: errBoom},
			wantErr:    errBoom,
			wantStatus: models.RunStatusFailed,
			wantFailed: StageNormalize,
			wantCalls:  []string{StageLoadRaw, StageNormalize},
		},
		{
			name:        "derive failure still signals a change",
			store:       &fakeStore{derErr: database.ErrEmptyUpstream},
			wantErr:     database.ErrEmptyUpstream,
			wantStatus:  models.RunStatusFailed,
			wantFailed:  StageDerive,
			wantCalls:   []string{StageLoadRaw, StageNormalize, StageDerive},
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewInMemoryLedger()
			runner := newTestRunner(tt.store, ledger)

			changed := 0
			runner.OnChange(func() { changed++ })

			stats, err := runner.Run(context.Background(), "", "")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if stats == nil {
				t.Fatal("Run() returned nil stats")
			}
			if stats.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", stats.Status, tt.wantStatus)
			}
			if stats.FailedStep != tt.wantFailed {
				t.Errorf("FailedStep = %q, want %q", stats.FailedStep, tt.wantFailed)
			}
			if stats.RunID == "" {
				t.Error("RunID is empty")
			}
			if stats.SourcePath != "/data/movies.csv" {
				t.Errorf("SourcePath = %q, want configured default", stats.SourcePath)
			}
			if stats.Script != database.BuiltinScript {
				t.Errorf("Script = %q, want %q", stats.Script, database.BuiltinScript)
			}
			checkCalls(t, tt.store.calls, tt.wantCalls)

			if (changed > 0) != tt.wantChanged {
				t.Errorf("change hook fired %d times, want changed=%v", changed, tt.wantChanged)
			}
			if tt.store.resets != tt.wantResets {
				t.Errorf("resets = %d, want %d", tt.store.resets, tt.wantResets)
			}

			last, err := runner.LastRun(context.Background())
			if err != nil {
				t.Fatalf("LastRun() error = %v", err)
			}
			if last == nil || last.RunID != stats.RunID {
				t.Errorf("LastRun() = %+v, want run %s", last, stats.RunID)
			}
			if tt.wantErr != nil && last.Error == "" {
				t.Error("failed run recorded without an error message")
			}
		})
	}
}

func TestRunner_ExplicitArguments(t *testing.T) {
	store := &fakeStore{}
	runner := newTestRunner(store, nil)

	stats, err := runner.Run(context.Background(), "/tmp/other.csv", "/tmp/custom.sql")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.SourcePath != "/tmp/other.csv" {
		t.Errorf("SourcePath = %q", stats.SourcePath)
	}
	if stats.Derived == nil || stats.Derived.Script != "/tmp/custom.sql" {
		t.Errorf("Derived = %+v, want custom script", stats.Derived)
	}
	if stats.Normalize == nil || stats.Normalize.MinVoteCount != 500 {
		t.Errorf("Normalize = %+v, want min vote count 500", stats.Normalize)
	}
}

func TestRunner_SingleWriterGuard(t *testing.T) {
	store := &fakeStore{
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	runner := newTestRunner(store, nil)

	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(context.Background(), "", "")
		done <- err
	}()

	select {
	case <-store.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first run did not start")
	}

	if !runner.Running() {
		t.Error("Running() = false during a run")
	}
	stats, err := runner.Run(context.Background(), "", "")
	if !errors.Is(err, ErrRunInProgress) {
		t.Errorf("concurrent Run() error = %v, want ErrRunInProgress", err)
	}
	if stats != nil {
		t.Errorf("concurrent Run() stats = %+v, want nil", stats)
	}

	close(store.block)
	if err := <-done; err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if runner.Running() {
		t.Error("Running() = true after the run finished")
	}
}

func TestRunner_History(t *testing.T) {
	runner := newTestRunner(&fakeStore{}, nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		stats, err := runner.Run(ctx, "", "")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		ids = append(ids, stats.RunID)
	}

	history, err := runner.History(ctx, 2)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("History(2) returned %d runs", len(history))
	}
	if history[0].RunID != ids[2] || history[1].RunID != ids[1] {
		t.Errorf("History order = [%s %s], want newest first", history[0].RunID, history[1].RunID)
	}
}

// testDBSemaphore limits concurrent database creation to one.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "1GB"})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write CSV fixture: %v", err)
	}
	return path
}

const scenarioCSV = "id,title,genres,vote_average,vote_count\n" +
	`1,A,"[{""name"": ""Action""}]",8.0,600` + "\n" +
	`2,B,"[{""name"": ""Action""}, {""name"": ""Drama""}]",6.0,800` + "\n"

func TestRunner_DuckDBScenario(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	runner := newTestRunner(db, nil)

	stats, err := runner.Run(ctx, writeCSV(t, scenarioCSV), "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Normalize.CleanRows != 2 || stats.Normalize.EdgeRows != 3 {
		t.Errorf("Normalize = %+v, want 2 clean rows and 3 edges", stats.Normalize)
	}
	if stats.Derived.Rows != 2 {
		t.Errorf("Derived rows = %d, want 2", stats.Derived.Rows)
	}

	best, err := db.BestGenre(ctx)
	if err != nil {
		t.Fatalf("BestGenre() error = %v", err)
	}
	if best == nil || best.GenreName != "Action" || best.AverageRating != 7.0 {
		t.Errorf("BestGenre() = %+v, want Action at 7.0", best)
	}

	corpus, err := db.SimilarityCorpus(ctx, false)
	if err != nil {
		t.Fatalf("SimilarityCorpus() error = %v", err)
	}
	model, err := recommend.TrainSimilarity(corpus, recommend.KeyedByTitle)
	if err != nil {
		t.Fatalf("TrainSimilarity() error = %v", err)
	}
	similar := model.Similar("A", 5, 80)
	if !similar.Found || len(similar.Recommendations) != 1 || similar.Recommendations[0].Title != "B" {
		t.Errorf("Similar(A) = %+v, want B as the only neighbour", similar)
	}

	for _, empty := range []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"header only", "id,title,genres,vote_average,vote_count\n"},
	} {
		t.Run(empty.name, func(t *testing.T) {
			if _, err := runner.Run(ctx, writeCSV(t, scenarioCSV), ""); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			// An empty source must not leave any previous rows queryable.
			_, err := runner.Run(ctx, writeCSV(t, empty.content), "")
			if !errors.Is(err, database.ErrEmptySource) {
				t.Fatalf("Run(empty) error = %v, want ErrEmptySource", err)
			}

			counts, err := db.TableCounts(ctx)
			if err != nil {
				t.Fatalf("TableCounts() error = %v", err)
			}
			for _, table := range []string{database.TableRaw, database.TableClean, database.TableGenres, database.TableDerived} {
				if counts[table] != 0 {
					t.Errorf("%s rows = %d after empty source, want 0", table, counts[table])
				}
			}
			best, err := db.BestGenre(ctx)
			if err != nil {
				t.Fatalf("BestGenre() error = %v", err)
			}
			if best != nil {
				t.Errorf("BestGenre() = %+v after empty source, want nil", best)
			}
		})
	}
}
