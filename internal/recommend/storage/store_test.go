// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package storage

import (
	"context"
	"encoding/gob"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func testSimilarityState() SimilarityState {
	return SimilarityState{
		Titles:   []string{"A", "B", "C"},
		MovieIDs: []int64{1, 2, 3},
		Genres:   []string{"Action", "Action Drama", "Drama"},
		Scores: []float64{
			1, 0.7071067811865475, 0,
			0.7071067811865475, 1, 0.7071067811865476,
			0, 0.7071067811865476, 1,
		},
		KeyedBy: "id",
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "creates directory if not exists",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "new_dir")
			},
		},
		{
			name: "uses existing directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
		},
		{
			name: "path is a file",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "file")
				if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
					t.Fatal(err)
				}
				return path
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.setup(t))
			if (err != nil) != tt.wantErr {
				t.Errorf("NewStore() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && store == nil {
				t.Error("NewStore() returned nil store without error")
			}
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	state := testSimilarityState()
	trainedAt := time.Now().Add(-time.Minute)

	saved, err := store.Save(ctx, "similarity", 1, state, ModelMetadata{
		Kind:               KindSimilarity,
		TrainedAt:          trainedAt,
		EntityCount:        3,
		TrainingDurationMS: 12,
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.FormatVersion != FormatVersion {
		t.Errorf("FormatVersion = %d, want %d", saved.FormatVersion, FormatVersion)
	}
	if saved.Checksum == "" || saved.SizeBytes <= 0 {
		t.Errorf("Save() metadata missing checksum/size: %+v", saved)
	}

	var loaded SimilarityState
	meta, err := store.Load(ctx, "similarity", 0, &loaded)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !reflect.DeepEqual(loaded, state) {
		t.Errorf("Load() state = %+v, want %+v", loaded, state)
	}
	for i := range state.Scores {
		if math.Float64bits(loaded.Scores[i]) != math.Float64bits(state.Scores[i]) {
			t.Fatalf("score %d not bit-identical: %v vs %v", i, loaded.Scores[i], state.Scores[i])
		}
	}

	if meta.Kind != KindSimilarity || meta.Name != "similarity" || meta.Version != 1 {
		t.Errorf("Load() metadata = %+v", meta)
	}
	if meta.EntityCount != 3 || meta.TrainingDurationMS != 12 {
		t.Errorf("Load() metadata counts = %+v", meta)
	}
	if !meta.TrainedAt.Equal(trainedAt) {
		t.Errorf("TrainedAt = %v, want %v", meta.TrainedAt, trainedAt)
	}
}

func TestStore_RegressionRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	state := RegressionState{
		Features:     []string{"budget", "revenue", "popularity", "runtime"},
		Means:        []float64{1e7, 5e7, 10.5, 110},
		Scales:       []float64{2e6, 1e7, 3.3, 15},
		Coefficients: []float64{-0.1, 0.25, 0.4, 0.33},
		Intercept:    6.4,
		R2:           0.31,
		MSE:          0.52,
		TrainRows:    80,
		TestRows:     20,
		TestSize:     0.2,
		Seed:         42,
	}
	if _, err := store.Save(ctx, "regression", 1, state, ModelMetadata{Kind: KindRegression}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var loaded RegressionState
	if _, err := store.Load(ctx, "regression", 1, &loaded); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, state) {
		t.Errorf("Load() = %+v, want %+v", loaded, state)
	}
}

func TestStore_LoadErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing name", func(t *testing.T) {
		store, _ := NewStore(t.TempDir())
		var s SimilarityState
		_, err := store.Load(ctx, "similarity", 0, &s)
		if !errors.Is(err, ErrModelNotFound) {
			t.Errorf("Load() error = %v, want ErrModelNotFound", err)
		}
	})

	t.Run("missing version", func(t *testing.T) {
		store, _ := NewStore(t.TempDir())
		if _, err := store.Save(ctx, "similarity", 1, testSimilarityState(), ModelMetadata{}); err != nil {
			t.Fatal(err)
		}
		var s SimilarityState
		_, err := store.Load(ctx, "similarity", 7, &s)
		if !errors.Is(err, ErrModelNotFound) {
			t.Errorf("Load() error = %v, want ErrModelNotFound", err)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "similarity_v1.gob.gz"), []byte("not a gob"), 0o600); err != nil {
			t.Fatal(err)
		}
		store, err := NewStore(dir)
		if err != nil {
			t.Fatal(err)
		}
		var s SimilarityState
		if _, err := store.Load(ctx, "similarity", 0, &s); err == nil {
			t.Error("Load() expected error for corrupt file")
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		dir := t.TempDir()
		writeRawStoredFile(t, filepath.Join(dir, "similarity_v1.gob.gz"), storedFile{
			Metadata: ModelMetadata{FormatVersion: 0, Name: "similarity", Version: 1},
		})
		store, _ := NewStore(dir)
		var s SimilarityState
		_, err := store.Load(ctx, "similarity", 0, &s)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Load() error = %v, want ErrUnsupportedFormat", err)
		}
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		dir := t.TempDir()
		store, _ := NewStore(dir)
		if _, err := store.Save(ctx, "similarity", 1, testSimilarityState(), ModelMetadata{}); err != nil {
			t.Fatal(err)
		}

		path := filepath.Join(dir, "similarity_v1.gob.gz")
		sf := readRawStoredFile(t, path)
		sf.Metadata.Checksum = "0000"
		writeRawStoredFile(t, path, sf)

		var s SimilarityState
		_, err := store.Load(ctx, "similarity", 0, &s)
		if !errors.Is(err, ErrChecksumMismatch) {
			t.Errorf("Load() error = %v, want ErrChecksumMismatch", err)
		}
	})
}

func TestStore_VersionsAndPrune(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if v := store.NextVersion("similarity"); v != 1 {
		t.Errorf("NextVersion() on empty store = %d, want 1", v)
	}

	for i := 0; i < 3; i++ {
		v := store.NextVersion("similarity")
		if _, err := store.Save(ctx, "similarity", v, testSimilarityState(), ModelMetadata{}); err != nil {
			t.Fatal(err)
		}
	}
	if latest, ok := store.GetLatestVersion("similarity"); !ok || latest != 3 {
		t.Errorf("GetLatestVersion() = %d, %v, want 3, true", latest, ok)
	}

	removed, err := store.Prune(ctx, "similarity", 1)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune() removed %d, want 2", removed)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "similarity_v*.gob.gz"))
	if len(matches) != 1 || filepath.Base(matches[0]) != "similarity_v3.gob.gz" {
		t.Errorf("files after prune = %v, want [similarity_v3.gob.gz]", matches)
	}

	// A fresh store sees the surviving version.
	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if v := reopened.NextVersion("similarity"); v != 4 {
		t.Errorf("NextVersion() after reopen = %d, want 4", v)
	}
}

func TestStore_ListAndDelete(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	ctx := context.Background()

	if _, err := store.Save(ctx, "similarity", 1, testSimilarityState(), ModelMetadata{Kind: KindSimilarity}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(ctx, "similarity", 2, testSimilarityState(), ModelMetadata{Kind: KindSimilarity}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(ctx, "regression", 1, RegressionState{Features: []string{"budget"}}, ModelMetadata{Kind: KindRegression}); err != nil {
		t.Fatal(err)
	}

	list, err := store.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(list) != 2 || list[0].Name != "regression" || list[1].Version != 2 {
		t.Errorf("ListModels() = %+v", list)
	}

	if err := store.Delete(ctx, "similarity", 2); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if latest, _ := store.GetLatestVersion("similarity"); latest != 1 {
		t.Errorf("latest after delete = %d, want 1", latest)
	}
	if err := store.Delete(ctx, "similarity", 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := store.GetLatestVersion("similarity"); ok {
		t.Error("GetLatestVersion() should report no versions after deleting all")
	}
	if err := store.Delete(ctx, "similarity", 1); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Delete() of missing version error = %v, want ErrModelNotFound", err)
	}
}

func TestParseModelFilename(t *testing.T) {
	tests := []struct {
		in          string
		wantName    string
		wantVersion int
	}{
		{"similarity_v1", "similarity", 1},
		{"genre_sim_v12", "genre_sim", 12},
		{"similarity", "", 0},
		{"_v1", "", 0},
		{"similarity_vx", "", 0},
		{"similarity_v0", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, version := parseModelFilename(tt.in)
			if name != tt.wantName || version != tt.wantVersion {
				t.Errorf("parseModelFilename(%q) = (%q, %d), want (%q, %d)", tt.in, name, version, tt.wantName, tt.wantVersion)
			}
		})
	}
}

func readRawStoredFile(t *testing.T, path string) storedFile {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		t.Fatal(err)
	}
	return sf
}

func writeRawStoredFile(t *testing.T, path string, sf storedFile) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(sf); err != nil {
		t.Fatal(err)
	}
}
