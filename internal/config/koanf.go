// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinebot/config.yaml",
	"/etc/cinebot/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "/data/cinebot.duckdb",
			MaxMemory: "2GB",
			Threads:   0,
		},
		Pipeline: PipelineConfig{
			SourcePath:      "/data/movies.csv",
			TransformScript: "",
			MinVoteCount:    500,
			LedgerPath:      "/data/ledger",
			RunOnStartup:    false,
		},
		Model: ModelConfig{
			Variant:        VariantSimilarity,
			Dir:            "/data/models",
			KeepVersions:   1,
			KeyByID:        false,
			BuildOnStartup: false,
			TestSize:       0.2,
			RandomSeed:     42,
		},
		Query: QueryConfig{
			FuzzyThreshold: 80,
			TopN:           5,
			SimilarCount:   5,
			BreakerTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Capacity: 1000,
			TTL:      10 * time.Minute,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              3857,
			Timeout:           30 * time.Second,
			RateLimitRequests: 100,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
			MaxSessions:       1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with precedence ENV > file > defaults
// and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings (env vars).
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"pipeline_source_path":      "pipeline.source_path",
	"pipeline_transform_script": "pipeline.transform_script",
	"min_vote_count":            "pipeline.min_vote_count",
	"pipeline_ledger_path":      "pipeline.ledger_path",
	"pipeline_run_on_startup":   "pipeline.run_on_startup",
	"pipeline_data_dir":         "pipeline.data_dir",

	"model_variant":          "model.variant",
	"model_dir":              "model.dir",
	"model_keep_versions":    "model.keep_versions",
	"model_key_by_id":        "model.key_by_id",
	"model_build_on_startup": "model.build_on_startup",
	"model_test_size":        "model.test_size",
	"model_random_seed":      "model.random_seed",

	"fuzzy_threshold":       "query.fuzzy_threshold",
	"query_top_n":           "query.top_n",
	"query_similar_count":   "query.similar_count",
	"query_breaker_timeout": "query.breaker_timeout",

	"cache_capacity": "cache.capacity",
	"cache_ttl":      "cache.ttl",

	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"rate_limit_requests": "server.rate_limit_requests",
	"disable_rate_limit":  "server.rate_limit_disabled",
	"cors_origins":        "server.cors_origins",
	"max_chat_sessions":   "server.max_sessions",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - MIN_VOTE_COUNT -> pipeline.min_vote_count
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
