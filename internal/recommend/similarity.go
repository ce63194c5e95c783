// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tomtom215/cinebot/internal/fuzzy"
	"github.com/tomtom215/cinebot/internal/models"
	"github.com/tomtom215/cinebot/internal/recommend/storage"
)

// Corpus keys.
const (
	KeyedByTitle = "title"
	KeyedByID    = "id"
)

// ErrEmptyCorpus is returned when there is nothing to vectorize.
var ErrEmptyCorpus = errors.New("similarity corpus is empty")

// SimilarityModel is a trained genre-similarity model. It is immutable.
type SimilarityModel struct {
	titles   []string
	movieIDs []int64
	genres   []string
	scores   []float64
	keyedBy  string

	meta storage.ModelMetadata
}

// TrainSimilarity builds a model from corpus documents, which must already be in
// their final order (the query layer orders them by title).
func TrainSimilarity(docs []models.CorpusDocument, keyedBy string) (*SimilarityModel, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	texts := make([]string, len(docs))
	titles := make([]string, len(docs))
	var ids []int64
	if keyedBy == KeyedByID {
		ids = make([]int64, len(docs))
	}
	for i, d := range docs {
		texts[i] = d.Genres
		titles[i] = d.Title
		if ids != nil {
			ids[i] = d.MovieID
		}
	}

	matrix, err := fitTFIDF(texts)
	if err != nil {
		return nil, err
	}

	return &SimilarityModel{
		titles:   titles,
		movieIDs: ids,
		genres:   texts,
		scores:   cosineMatrix(matrix.rows),
		keyedBy:  keyedBy,
	}, nil
}

func similarityFromState(state *storage.SimilarityState, meta *storage.ModelMetadata) (*SimilarityModel, error) {
	n := len(state.Titles)
	if n == 0 || len(state.Scores) != n*n || len(state.Genres) != n {
		return nil, fmt.Errorf("inconsistent similarity state: %d titles, %d scores", n, len(state.Scores))
	}
	if state.MovieIDs != nil && len(state.MovieIDs) != n {
		return nil, fmt.Errorf("inconsistent similarity state: %d ids for %d titles", len(state.MovieIDs), n)
	}
	return &SimilarityModel{
		titles:   state.Titles,
		movieIDs: state.MovieIDs,
		genres:   state.Genres,
		scores:   state.Scores,
		keyedBy:  state.KeyedBy,
		meta:     *meta,
	}, nil
}

func (m *SimilarityModel) state() storage.SimilarityState {
	return storage.SimilarityState{
		Titles:   m.titles,
		MovieIDs: m.movieIDs,
		Genres:   m.genres,
		Scores:   m.scores,
		KeyedBy:  m.keyedBy,
	}
}

// Len returns the number of entities.
func (m *SimilarityModel) Len() int {
	return len(m.titles)
}

// Titles returns the entity titles in matrix order. Callers must not modify it.
func (m *SimilarityModel) Titles() []string {
	return m.titles
}

// KeyedBy reports whether entities are titles or movie identifiers.
func (m *SimilarityModel) KeyedBy() string {
	return m.keyedBy
}

// Metadata returns the artifact metadata the model was saved or loaded with.
func (m *SimilarityModel) Metadata() storage.ModelMetadata {
	return m.meta
}

// Score returns the similarity of entities i and j.
func (m *SimilarityModel) Score(i, j int) float64 {
	return m.scores[i*len(m.titles)+j]
}

// IndexOf returns the first entity whose title equals title, or -1.
func (m *SimilarityModel) IndexOf(title string) int {
	for i, t := range m.titles {
		if t == title {
			return i
		}
	}
	return -1
}

// Neighbors returns the k entities most similar to idx, excluding idx itself.
// Equal scores keep matrix order.
func (m *SimilarityModel) Neighbors(idx, k int) []models.Neighbor {
	n := len(m.titles)
	if idx < 0 || idx >= n || k <= 0 {
		return []models.Neighbor{}
	}

	order := make([]int, 0, n-1)
	for j := 0; j < n; j++ {
		if j != idx {
			order = append(order, j)
		}
	}
	row := m.scores[idx*n : (idx+1)*n]
	sort.SliceStable(order, func(a, b int) bool {
		return row[order[a]] > row[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	out := make([]models.Neighbor, k)
	for i := 0; i < k; i++ {
		j := order[i]
		out[i] = models.Neighbor{Title: m.titles[j], Genres: m.genres[j], Score: row[j]}
	}
	return out
}

// Similar resolves query to a title by fuzzy matching and returns up to k
// neighbours of that title's first occurrence. The match is accepted only when
// its score is strictly greater than threshold.
func (m *SimilarityModel) Similar(query string, k, threshold int) models.SimilarResult {
	result := models.SimilarResult{Query: query, Recommendations: []models.Neighbor{}}

	match, ok := fuzzy.ExtractOne(query, m.titles)
	if !ok || match.Score <= threshold {
		return result
	}

	idx := m.IndexOf(match.Choice)
	result.Found = true
	result.MatchedTitle = match.Choice
	result.MatchScore = match.Score
	result.Recommendations = m.Neighbors(idx, k)
	return result
}

// Status describes the model for the status endpoint.
func (m *SimilarityModel) Status() models.ModelStatus {
	return models.ModelStatus{
		Variant:     storage.KindSimilarity,
		Ready:       true,
		Version:     m.meta.Version,
		TrainedAt:   m.meta.TrainedAt,
		EntityCount: len(m.titles),
		KeyedBy:     m.keyedBy,
	}
}
