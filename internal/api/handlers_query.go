// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinebot/internal/chatbot"
	"github.com/tomtom215/cinebot/internal/database"
	"github.com/tomtom215/cinebot/internal/models"
)

// BestGenreResponse is returned by GET /genres/best. Genre is nil when the
// derived table is empty.
type BestGenreResponse struct {
	Found bool                `json:"found"`
	Genre *models.GenreRating `json:"genre"`
}

// Genres lists the genres the chatbot understands, with their PT-BR names.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(chatbot.Genres())
}

// BestGenre returns the genre with the highest average rating.
func (h *Handler) BestGenre(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	best, found, err := h.query.BestGenre(r.Context())
	if err != nil {
		respondQueryError(rw, err)
		return
	}

	resp := BestGenreResponse{Found: found}
	if found {
		resp.Genre = &best
	}
	rw.Success(resp)
}

// TopMovies returns the best rated movies of one genre. An unknown genre
// yields an empty list.
func (h *Handler) TopMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := TopMoviesRequest{
		Genre: chi.URLParam(r, "genre"),
		Limit: getIntParam(r, "limit", h.topN),
	}
	if !validateRequest(rw, &req) {
		return
	}

	movies, err := h.query.TopMoviesByGenre(r.Context(), req.Genre, req.Limit)
	if err != nil {
		respondQueryError(rw, err)
		return
	}
	rw.Success(movies)
}

// SimilarMovies fuzzy-matches the title and returns its nearest neighbours.
// An unmatched title is a 200 with found=false.
func (h *Handler) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := SimilarMoviesRequest{Title: r.URL.Query().Get("title")}
	if !validateRequest(rw, &req) {
		return
	}

	res, err := h.query.SimilarMovies(req.Title)
	if err != nil {
		respondQueryError(rw, err)
		return
	}
	rw.Success(res)
}

// SearchTitles runs the database-side fuzzy title search.
func (h *Handler) SearchTitles(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := SearchTitlesRequest{
		Query:    r.URL.Query().Get("q"),
		MinScore: getIntParam(r, "min_score", database.DefaultSearchMinScore),
		Limit:    getIntParam(r, "limit", database.DefaultSearchLimit),
	}
	if !validateRequest(rw, &req) {
		return
	}

	matches, err := h.query.SearchTitles(r.Context(), req.Query, req.MinScore, req.Limit)
	if err != nil {
		respondQueryError(rw, err)
		return
	}
	rw.Success(matches)
}
