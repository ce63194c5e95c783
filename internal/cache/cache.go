// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package cache

import (
	"crypto/sha256"
	"fmt"

	"github.com/goccy/go-json"
)

// GenerateKey builds a cache key from an operation name and its arguments.
// Arguments are JSON-encoded and hashed so keys stay compact regardless of
// argument size. The operation stays readable as the key prefix.
func GenerateKey(operation string, args ...interface{}) string {
	if len(args) == 0 {
		return operation
	}

	data, err := json.Marshal(args)
	if err != nil {
		// Fallback to simple string key
		return fmt.Sprintf("%s:%v", operation, args)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", operation, hash[:16])
}
