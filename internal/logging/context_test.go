// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGenerateCorrelationID(t *testing.T) {
	t.Parallel()

	a, b := GenerateCorrelationID(), GenerateCorrelationID()
	if len(a) != 8 {
		t.Errorf("len(correlation id) = %d, want 8", len(a))
	}
	if a == b {
		t.Errorf("expected unique correlation ids, got %q twice", a)
	}
}

func TestContextIdentifiers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	ctx = ContextWithRunID(ctx, "run-1")
	ctx = ContextWithSessionID(ctx, "sess-1")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"request", RequestIDFromContext(ctx), "req-1"},
		{"correlation", CorrelationIDFromContext(ctx), "corr-1"},
		{"run", RunIDFromContext(ctx), "run-1"},
		{"session", SessionIDFromContext(ctx), "sess-1"},
		{"missing", RequestIDFromContext(context.Background()), ""},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s id = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestCtx_AddsContextFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRunID(ctx, "run-42")
	ctx = ContextWithSessionID(ctx, "sess-7")

	Ctx(ctx).Info().Msg("stage done")

	out := buf.String()
	for _, want := range []string{`"run_id":"run-42"`, `"session_id":"sess-7"`, `"message":"stage done"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
	if strings.Contains(out, "request_id") {
		t.Errorf("unexpected request_id in %q", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	defer Init(DefaultConfig())

	l := WithComponent("pipeline")
	l.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"pipeline"`) {
		t.Errorf("component field missing: %s", buf.String())
	}
}
