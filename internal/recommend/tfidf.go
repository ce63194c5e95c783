// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// tfidfMatrix holds L2-normalized TF-IDF rows over a sorted vocabulary.
type tfidfMatrix struct {
	vocabulary []string
	idf        []float64
	rows       [][]float64
}

// tokenize lowercases doc and returns its tokens of two or more word runes
// (letters, numbers, underscore).
func tokenize(doc string) []string {
	var tokens []string
	var current []rune
	flush := func() {
		if len(current) >= 2 {
			tokens = append(tokens, string(current))
		}
		current = current[:0]
	}
	for _, r := range strings.ToLower(doc) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			current = append(current, r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// fitTFIDF vectorizes docs. It returns ErrEmptyCorpus when there are no
// documents or no document yields a token.
func fitTFIDF(docs []string) (*tfidfMatrix, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, tok := range tokenize(doc) {
			counts[i][tok]++
		}
		for tok := range counts[i] {
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyCorpus
	}

	vocabulary := make([]string, 0, len(df))
	for tok := range df {
		vocabulary = append(vocabulary, tok)
	}
	sort.Strings(vocabulary)

	n := float64(len(docs))
	idf := make([]float64, len(vocabulary))
	for j, tok := range vocabulary {
		idf[j] = math.Log((1+n)/(1+float64(df[tok]))) + 1
	}

	rows := make([][]float64, len(docs))
	for i := range docs {
		row := make([]float64, len(vocabulary))
		var norm float64
		for j, tok := range vocabulary {
			if c := counts[i][tok]; c > 0 {
				row[j] = float64(c) * idf[j]
				norm += row[j] * row[j]
			}
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		rows[i] = row
	}

	return &tfidfMatrix{vocabulary: vocabulary, idf: idf, rows: rows}, nil
}

// cosineMatrix returns the row-major N x N matrix of dot products of rows.
// Rows are L2-normalized, so this is cosine similarity. The upper triangle is
// computed once and mirrored; the diagonal is set to exactly 1.
func cosineMatrix(rows [][]float64) []float64 {
	n := len(rows)
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		out[i*n+i] = 1
		for j := i + 1; j < n; j++ {
			var dot float64
			a, b := rows[i], rows[j]
			for k := range a {
				dot += a[k] * b[k]
			}
			out[i*n+j] = dot
			out[j*n+i] = dot
		}
	}
	return out
}
