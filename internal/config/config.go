// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package config

import (
	"path/filepath"
	"time"
)

// Model variants.
const (
	VariantSimilarity = "similarity"
	VariantRegression = "regression"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Model    ModelConfig    `koanf:"model"`
	Query    QueryConfig    `koanf:"query"`
	Cache    CacheConfig    `koanf:"cache"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig configures the embedded DuckDB analytical store.
type DatabaseConfig struct {
	// Path is the database file. ":memory:" keeps everything in RAM.
	Path string `koanf:"path"`

	// MaxMemory is passed to DuckDB as max_memory (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB worker thread count. 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// PipelineConfig configures the raw -> clean -> derived pipeline.
//
// Environment Variables:
//   - PIPELINE_SOURCE_PATH: CSV file loaded into the raw table
//   - PIPELINE_TRANSFORM_SCRIPT: SQL script building the derived table (empty = built-in)
//   - MIN_VOTE_COUNT: minimum vote count for a movie to reach the clean tables
//   - PIPELINE_LEDGER_PATH: BadgerDB directory for run history (empty disables)
//   - PIPELINE_RUN_ON_STARTUP: run the pipeline once when the server starts
//   - PIPELINE_DATA_DIR: directory that API run requests may read from
type PipelineConfig struct {
	SourcePath      string `koanf:"source_path"`
	TransformScript string `koanf:"transform_script"`
	MinVoteCount    int    `koanf:"min_vote_count"`
	LedgerPath      string `koanf:"ledger_path"`
	RunOnStartup    bool   `koanf:"run_on_startup"`

	// DataDir confines the source_path and transform_script overrides of
	// POST /api/v1/pipeline/run. Default: the directory of SourcePath
	DataDir string `koanf:"data_dir"`
}

// AllowedDir returns DataDir, or the directory of SourcePath when unset.
func (c PipelineConfig) AllowedDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	if c.SourcePath == "" {
		return ""
	}
	return filepath.Dir(c.SourcePath)
}

// ModelConfig configures model building and the artifact store.
type ModelConfig struct {
	// Variant selects the model served by the chat responder: similarity or regression.
	// Default: similarity
	Variant string `koanf:"variant"`

	// Dir is where artifacts are written.
	// Default: /data/models
	Dir string `koanf:"dir"`

	// KeepVersions is how many artifact versions survive a rebuild.
	// Default: 1
	KeepVersions int `koanf:"keep_versions"`

	// KeyByID groups the similarity corpus by movie identifier instead of title.
	// Title grouping merges distinct movies that share a title.
	// Default: false
	KeyByID bool `koanf:"key_by_id"`

	// BuildOnStartup builds the configured variant when no artifact can be loaded.
	BuildOnStartup bool `koanf:"build_on_startup"`

	// TestSize is the held-out fraction for regression evaluation.
	// Default: 0.2
	TestSize float64 `koanf:"test_size"`

	// RandomSeed drives the regression train/test shuffle.
	// Default: 42
	RandomSeed int64 `koanf:"random_seed"`
}

// QueryConfig configures the query layer.
type QueryConfig struct {
	// FuzzyThreshold is the score a title match must exceed (0-100).
	FuzzyThreshold int `koanf:"fuzzy_threshold"`

	// TopN is the default size of top-movies-by-genre results.
	TopN int `koanf:"top_n"`

	// SimilarCount is how many neighbours a similarity query returns.
	SimilarCount int `koanf:"similar_count"`

	// BreakerTimeout is how long the store circuit breaker stays open.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// CacheConfig configures the query memoization layer.
type CacheConfig struct {
	Capacity int           `koanf:"capacity"`
	TTL      time.Duration `koanf:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	MaxSessions       int           `koanf:"max_sessions"`
}

// LoggingConfig configures zerolog output.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, the optional config file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
