// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package config

import (
	"fmt"

	"github.com/tomtom215/cinebot/internal/logging"
)

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that every setting is present and in range.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateQuery(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.MinVoteCount < 0 {
		return fmt.Errorf("MIN_VOTE_COUNT must be >= 0, got %d", c.Pipeline.MinVoteCount)
	}
	return nil
}

func (c *Config) validateModel() error {
	switch c.Model.Variant {
	case VariantSimilarity, VariantRegression:
	default:
		return fmt.Errorf("MODEL_VARIANT must be one of: %s, %s", VariantSimilarity, VariantRegression)
	}
	if c.Model.Dir == "" {
		return fmt.Errorf("MODEL_DIR is required")
	}
	if c.Model.KeepVersions < 1 {
		return fmt.Errorf("MODEL_KEEP_VERSIONS must be >= 1, got %d", c.Model.KeepVersions)
	}
	if c.Model.TestSize <= 0 || c.Model.TestSize >= 1 {
		return fmt.Errorf("MODEL_TEST_SIZE must be between 0 and 1 (exclusive), got %g", c.Model.TestSize)
	}
	return nil
}

func (c *Config) validateQuery() error {
	if c.Query.FuzzyThreshold <= 0 || c.Query.FuzzyThreshold > 100 {
		return fmt.Errorf("FUZZY_THRESHOLD must be between 1 and 100, got %d", c.Query.FuzzyThreshold)
	}
	if c.Query.TopN < 1 {
		return fmt.Errorf("QUERY_TOP_N must be >= 1, got %d", c.Query.TopN)
	}
	if c.Query.SimilarCount < 1 {
		return fmt.Errorf("QUERY_SIMILAR_COUNT must be >= 1, got %d", c.Query.SimilarCount)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !c.Server.RateLimitDisabled && c.Server.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be >= 1 when rate limiting is enabled")
	}
	if c.Server.MaxSessions < 1 {
		return fmt.Errorf("MAX_CHAT_SESSIONS must be >= 1, got %d", c.Server.MaxSessions)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
