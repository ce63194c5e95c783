// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package chatbot

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GenreTranslation maps a Portuguese genre name to the catalog's English one.
type GenreTranslation struct {
	PT string `json:"pt"`
	EN string `json:"en"`
}

// genreTable is scanned in order; the first Portuguese name contained in
// the input wins.
var genreTable = []GenreTranslation{
	{"ação", "Action"},
	{"aventura", "Adventure"},
	{"animação", "Animation"},
	{"comédia", "Comedy"},
	{"crime", "Crime"},
	{"documentário", "Documentary"},
	{"drama", "Drama"},
	{"família", "Family"},
	{"fantasia", "Fantasy"},
	{"história", "History"},
	{"terror", "Horror"},
	{"música", "Music"},
	{"mistério", "Mystery"},
	{"romance", "Romance"},
	{"ficção científica", "Science Fiction"},
	{"cinema tv", "TV Movie"},
	{"suspense", "Thriller"},
	{"guerra", "War"},
	{"faroeste", "Western"},
}

// Genres returns the translation table in scan order.
func Genres() []GenreTranslation {
	return append([]GenreTranslation(nil), genreTable...)
}

// findGenre returns the first table entry whose Portuguese name occurs in
// the lower-cased input.
func findGenre(lowered string) (GenreTranslation, bool) {
	for _, g := range genreTable {
		if strings.Contains(lowered, g.PT) {
			return g, true
		}
	}
	return GenreTranslation{}, false
}

// portugueseName returns the Portuguese name of an English genre, or the
// English name itself when it has no translation.
func portugueseName(en string) string {
	for _, g := range genreTable {
		if g.EN == en {
			return g.PT
		}
	}
	return en
}

// capitalize upper-cases the first letter and lower-cases the rest:
// "ficção científica" becomes "Ficção científica".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.BrazilianPortuguese).String(s[:size]) + lowerPT(s[size:])
}

// lowerPT lower-cases s with Portuguese rules. Casers hold state, so each
// call gets its own.
func lowerPT(s string) string {
	return cases.Lower(language.BrazilianPortuguese).String(s)
}
