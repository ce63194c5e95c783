// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FormatVersion is the artifact layout written by this package.
const FormatVersion = 1

const modelExt = ".gob.gz"

// Artifact kinds.
const (
	KindSimilarity = "similarity"
	KindRegression = "regression"
)

var (
	// ErrModelNotFound is returned when no artifact exists for a name/version.
	ErrModelNotFound = errors.New("model artifact not found")

	// ErrUnsupportedFormat is returned for artifacts with an unknown FormatVersion.
	ErrUnsupportedFormat = errors.New("unsupported artifact format")

	// ErrChecksumMismatch is returned when the payload does not match its checksum.
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")
)

// ModelMetadata describes a stored artifact.
type ModelMetadata struct {
	// FormatVersion is the layout version of the file.
	FormatVersion int `json:"format_version"`

	// Kind is similarity or regression.
	Kind string `json:"kind"`

	// Name is the artifact name (file prefix).
	Name string `json:"name"`

	// Version is the artifact version (monotonically increasing).
	Version int `json:"version"`

	// TrainedAt is when the model was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the artifact was written.
	SavedAt time.Time `json:"saved_at"`

	// EntityCount is the number of titles (similarity) or training rows (regression).
	EntityCount int `json:"entity_count"`

	// Checksum is the SHA-256 of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is how long training took.
	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// storedFile is the on-disk format for artifact files.
type storedFile struct {
	Metadata       ModelMetadata
	CompressedData []byte
}

// Store manages artifact persistence.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// Latest version per artifact name
	versions map[string]int
}

// NewStore creates a store at baseDir, creating the directory if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	if err := s.scanModels(); err != nil {
		return nil, fmt.Errorf("scan existing models: %w", err)
	}
	return s, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// scanModels records the latest version of every artifact in the directory.
func (s *Store) scanModels() error {
	versions, err := s.listVersions("")
	if err != nil {
		return err
	}
	for name, vs := range versions {
		s.versions[name] = vs[0]
	}
	return nil
}

// listVersions returns artifact versions per name, newest first.
// An empty filter returns every name.
func (s *Store) listVersions(filter string) (map[string][]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), modelExt) {
			continue
		}
		name, version := parseModelFilename(strings.TrimSuffix(entry.Name(), modelExt))
		if name == "" || (filter != "" && name != filter) {
			continue
		}
		out[name] = append(out[name], version)
	}
	for _, vs := range out {
		sort.Sort(sort.Reverse(sort.IntSlice(vs)))
	}
	return out, nil
}

// parseModelFilename splits "similarity_v3" into ("similarity", 3).
func parseModelFilename(name string) (modelName string, version int) {
	idx := strings.LastIndex(name, "_v")
	if idx <= 0 {
		return "", 0
	}
	if _, err := fmt.Sscanf(name[idx+2:], "%d", &version); err != nil || version <= 0 {
		return "", 0
	}
	return name[:idx], version
}

// NextVersion returns the version number the next save of name should use.
func (s *Store) NextVersion(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[name] + 1
}

// GetLatestVersion returns the latest version number for name.
func (s *Store) GetLatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	return version, ok
}

// Save writes data as version of name. Checksum, size, name, version, format and
// save time in meta are filled in by Save.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, data any, meta ModelMetadata) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	meta.FormatVersion = FormatVersion
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()
	meta.Name = name
	meta.Version = version

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeFile(s.modelPath(name, version), storedFile{
		Metadata:       meta,
		CompressedData: compressed.Bytes(),
	}); err != nil {
		return nil, err
	}

	if current, ok := s.versions[name]; !ok || version > current {
		s.versions[name] = version
	}
	return &meta, nil
}

// writeFile writes sf to a temporary file and renames it over path.
func (s *Store) writeFile(path string, sf storedFile) error {
	tmp, err := os.CreateTemp(s.baseDir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	tmpName := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("install model file: %w", err)
	}
	return nil
}

// Load decodes version of name into target. Version 0 loads the latest.
func (s *Store) Load(ctx context.Context, name string, version int, target any) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
		}
	}

	sf, err := s.readFile(s.modelPath(name, version))
	if err != nil {
		return nil, err
	}
	if sf.Metadata.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, sf.Metadata.FormatVersion)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &sf.Metadata, nil
}

func (s *Store) readFile(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the store directory and artifact name
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, filepath.Base(path))
		}
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return &sf, nil
}

// ListModels returns metadata for the latest version of every artifact.
func (s *Store) ListModels(ctx context.Context) ([]ModelMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.versions))
	for name := range s.versions {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []ModelMetadata
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sf, err := s.readFile(s.modelPath(name, s.versions[name]))
		if err != nil {
			continue
		}
		out = append(out, sf.Metadata)
	}
	return out, nil
}

// Delete removes one version of name.
func (s *Store) Delete(ctx context.Context, name string, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.modelPath(name, version)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s v%d", ErrModelNotFound, name, version)
		}
		return fmt.Errorf("delete model: %w", err)
	}

	if s.versions[name] != version {
		return nil
	}
	versions, err := s.listVersions(name)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	if vs := versions[name]; len(vs) > 0 {
		s.versions[name] = vs[0]
	} else {
		delete(s.versions, name)
	}
	return nil
}

// Prune removes all but the newest keepVersions versions of name.
func (s *Store) Prune(ctx context.Context, name string, keepVersions int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keepVersions < 1 {
		keepVersions = 1
	}

	versions, err := s.listVersions(name)
	if err != nil {
		return 0, fmt.Errorf("read directory: %w", err)
	}

	removed := 0
	vs := versions[name]
	for i := keepVersions; i < len(vs); i++ {
		if err := os.Remove(s.modelPath(name, vs[i])); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("remove %s v%d: %w", name, vs[i], err)
		}
		removed++
	}
	return removed, nil
}

// modelPath returns the file path for an artifact version.
func (s *Store) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, modelExt))
}
