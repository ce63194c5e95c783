// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

// Package storage persists trained model artifacts.
//
// # Storage Format
//
// Each artifact is one file:
//
//	filename: {name}_v{version}.gob.gz
//
//	structure (gob):
//	  - Metadata (ModelMetadata)
//	  - CompressedData (gzip of the gob-encoded model state)
//
// Metadata carries a FormatVersion and a Kind. Load rejects files written with an
// unknown format (ErrUnsupportedFormat) and files whose payload no longer matches
// the SHA-256 checksum recorded at save time (ErrChecksumMismatch). There is no
// fallback for unversioned files.
//
// Files are written to a temporary name and renamed into place, so a reader never
// observes a partially written artifact.
//
// # Versions
//
// Every save uses a new version number. Prune keeps the newest N versions of a
// name; the default configuration keeps one.
//
// # Usage Example
//
//	store, err := storage.NewStore("/data/models")
//	if err != nil {
//	    return err
//	}
//
//	version := store.NextVersion("similarity")
//	meta, err := store.Save(ctx, "similarity", version, state, storage.ModelMetadata{
//	    Kind:        storage.KindSimilarity,
//	    TrainedAt:   time.Now(),
//	    EntityCount: len(state.Titles),
//	})
//
//	var loaded storage.SimilarityState
//	meta, err = store.Load(ctx, "similarity", 0, &loaded)
//
// # Thread Safety
//
// A Store is safe for concurrent use within one process.
package storage
