// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty database path", func(c *Config) { c.Database.Path = "" }, "DUCKDB_PATH"},
		{"negative threads", func(c *Config) { c.Database.Threads = -1 }, "DUCKDB_THREADS"},
		{"negative min votes", func(c *Config) { c.Pipeline.MinVoteCount = -1 }, "MIN_VOTE_COUNT"},
		{"zero min votes allowed", func(c *Config) { c.Pipeline.MinVoteCount = 0 }, ""},
		{"unknown variant", func(c *Config) { c.Model.Variant = "knn" }, "MODEL_VARIANT"},
		{"regression variant", func(c *Config) { c.Model.Variant = VariantRegression }, ""},
		{"empty model dir", func(c *Config) { c.Model.Dir = "" }, "MODEL_DIR"},
		{"keep zero versions", func(c *Config) { c.Model.KeepVersions = 0 }, "MODEL_KEEP_VERSIONS"},
		{"test size one", func(c *Config) { c.Model.TestSize = 1 }, "MODEL_TEST_SIZE"},
		{"test size zero", func(c *Config) { c.Model.TestSize = 0 }, "MODEL_TEST_SIZE"},
		{"threshold zero", func(c *Config) { c.Query.FuzzyThreshold = 0 }, "FUZZY_THRESHOLD"},
		{"threshold over 100", func(c *Config) { c.Query.FuzzyThreshold = 101 }, "FUZZY_THRESHOLD"},
		{"top n zero", func(c *Config) { c.Query.TopN = 0 }, "QUERY_TOP_N"},
		{"similar count zero", func(c *Config) { c.Query.SimilarCount = 0 }, "QUERY_SIMILAR_COUNT"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"rate limit zero", func(c *Config) { c.Server.RateLimitRequests = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit zero but disabled", func(c *Config) {
			c.Server.RateLimitRequests = 0
			c.Server.RateLimitDisabled = true
		}, ""},
		{"no sessions", func(c *Config) { c.Server.MaxSessions = 0 }, "MAX_CHAT_SESSIONS"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"empty log format allowed", func(c *Config) { c.Logging.Format = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}
