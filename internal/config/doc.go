// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

// Package config loads and validates CineBot configuration.
//
// Configuration is layered with koanf, later layers overriding earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml, /etc/cinebot/config.yaml
//  3. Environment variables, through an explicit name mapping (envTransformFunc)
//
// Unknown environment variables are ignored. The loaded Config is validated
// before it is returned, so callers can rely on every field being in range.
//
// # Example config.yaml
//
//	database:
//	  path: /data/cinebot.duckdb
//	pipeline:
//	  source_path: /data/movies.csv
//	  min_vote_count: 500
//	model:
//	  variant: similarity
//	  dir: /data/models
//	query:
//	  fuzzy_threshold: 80
package config
