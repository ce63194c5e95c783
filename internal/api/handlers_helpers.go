// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinebot/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

var (
	errEmptyBody      = errors.New("empty body")
	errOutsideDataDir = errors.New("path outside data directory")
)

// withinDir returns p as an absolute path if it lies inside dir. Relative
// paths are taken relative to dir. Existing paths are also checked after
// symlink resolution.
func withinDir(dir, p string) (string, error) {
	if dir == "" {
		return "", errOutsideDataDir
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	p = filepath.Clean(p)
	if !contains(root, p) {
		return "", errOutsideDataDir
	}

	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		// Missing files pass here and fail in the loader.
		return p, nil
	}
	if realRoot, err := filepath.EvalSymlinks(root); err == nil && !contains(realRoot, resolved) {
		return "", errOutsideDataDir
	}
	return p, nil
}

func contains(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// decodeJSONBody decodes the request body into v. It returns errEmptyBody
// for a missing body so callers with optional bodies can ignore it.
func decodeJSONBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errEmptyBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// validateRequest validates a struct and writes a 400 VALIDATION_ERROR
// response when it fails. It reports whether the request is valid.
func validateRequest(rw *ResponseWriter, v interface{}) bool {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	return false
}

// getIntParam extracts an integer query parameter with a default value.
// A malformed value yields -1 so validation rejects it instead of silently
// falling back.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}
