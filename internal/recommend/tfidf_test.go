// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package recommend

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Action Drama", []string{"action", "drama"}},
		{"Science Fiction", []string{"science", "fiction"}},
		{"TV Movie", []string{"tv", "movie"}},
		{"a b cd", []string{"cd"}},
		{"Sci-Fi & Fantasy", []string{"sci", "fi", "fantasy"}},
		{"Animação", []string{"animação"}},
		{"snake_case x1", []string{"snake_case", "x1"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := tokenize(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFitTFIDF(t *testing.T) {
	m, err := fitTFIDF([]string{"Action", "Action Drama"})
	if err != nil {
		t.Fatalf("fitTFIDF() error = %v", err)
	}

	if !reflect.DeepEqual(m.vocabulary, []string{"action", "drama"}) {
		t.Fatalf("vocabulary = %v", m.vocabulary)
	}

	// action appears everywhere: idf = ln(3/3) + 1 = 1. drama: ln(3/2) + 1.
	dramaIDF := math.Log(1.5) + 1
	if math.Abs(m.idf[0]-1) > 1e-12 || math.Abs(m.idf[1]-dramaIDF) > 1e-12 {
		t.Errorf("idf = %v, want [1 %v]", m.idf, dramaIDF)
	}

	norm := math.Sqrt(1 + dramaIDF*dramaIDF)
	want := [][]float64{{1, 0}, {1 / norm, dramaIDF / norm}}
	for i := range want {
		for j := range want[i] {
			if math.Abs(m.rows[i][j]-want[i][j]) > 1e-12 {
				t.Errorf("rows[%d][%d] = %v, want %v", i, j, m.rows[i][j], want[i][j])
			}
		}
	}
}

func TestFitTFIDF_RepeatedTermsCount(t *testing.T) {
	m, err := fitTFIDF([]string{"drama drama action", "action"})
	if err != nil {
		t.Fatal(err)
	}
	// Row 0: action (idf 1, tf 1) and drama (idf ln(1.5)+1, tf 2).
	drama := 2 * (math.Log(1.5) + 1)
	norm := math.Sqrt(1 + drama*drama)
	if math.Abs(m.rows[0][1]-drama/norm) > 1e-12 {
		t.Errorf("drama weight = %v, want %v", m.rows[0][1], drama/norm)
	}
}

func TestFitTFIDF_Empty(t *testing.T) {
	tests := []struct {
		name string
		docs []string
	}{
		{"no documents", nil},
		{"no tokens", []string{"a", "b c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fitTFIDF(tt.docs); !errors.Is(err, ErrEmptyCorpus) {
				t.Errorf("fitTFIDF() error = %v, want ErrEmptyCorpus", err)
			}
		})
	}
}

func TestCosineMatrix(t *testing.T) {
	m, err := fitTFIDF([]string{"Action", "Action Drama", "Drama", "Comedy", "Comedy Drama Romance"})
	if err != nil {
		t.Fatal(err)
	}
	scores := cosineMatrix(m.rows)
	n := len(m.rows)

	for i := 0; i < n; i++ {
		if scores[i*n+i] != 1 {
			t.Errorf("diagonal[%d] = %v, want exactly 1", i, scores[i*n+i])
		}
		for j := 0; j < n; j++ {
			if math.Float64bits(scores[i*n+j]) != math.Float64bits(scores[j*n+i]) {
				t.Errorf("scores[%d][%d] = %v but scores[%d][%d] = %v", i, j, scores[i*n+j], j, i, scores[j*n+i])
			}
			if s := scores[i*n+j]; s < 0 || s > 1+1e-12 {
				t.Errorf("scores[%d][%d] = %v out of [0, 1]", i, j, s)
			}
		}
	}

	// Action and Comedy share nothing.
	if scores[0*n+3] != 0 {
		t.Errorf("Action vs Comedy = %v, want 0", scores[0*n+3])
	}
}
