// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package fuzzy

import "testing"

func TestProcess(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Avatar", "avatar"},
		{"  The Dark Knight  ", "the dark knight"},
		{"Spider-Man: Homecoming!", "spider man  homecoming"},
		{"Amélie", "amélie"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Process(tt.in); got != tt.want {
				t.Errorf("Process(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestScorers(t *testing.T) {
	tests := []struct {
		name   string
		scorer func(a, b string) int
		a, b   string
		want   int
	}{
		{"ratio identical", Ratio, "avatar", "avatar", 100},
		{"ratio disjoint", Ratio, "abcd", "xyz", 0},
		{"ratio one missing letter", Ratio, "avatr", "avatar", 91},
		{"ratio trailing punctuation", Ratio, "this is a test", "this is a test!", 97},
		{"ratio is case sensitive", Ratio, "ABC", "abc", 0},
		{"partial substring", PartialRatio, "this is a test", "this is a test!", 100},
		{"partial embedded", PartialRatio, "matrix", "the matrix reloaded", 100},
		{"partial empty", PartialRatio, "", "abc", 0},
		{"token sort reordered", TokenSortRatio, "fuzzy wuzzy was a bear", "wuzzy fuzzy was a bear", 100},
		{"token set repeated", TokenSetRatio, "fuzzy was a bear", "fuzzy fuzzy was a bear", 100},
		{"token set empty", TokenSetRatio, "", "fuzzy", 0},
		{"wratio typo", WRatio, "avatr", "Avatar", 91},
		{"wratio case insensitive", WRatio, "AVATAR", "avatar", 100},
		{"wratio long choice", WRatio, "The Matrix", "The Matrix Reloaded", 90},
		{"wratio punctuation only", WRatio, "!!!", "Avatar", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scorer(tt.a, tt.b); got != tt.want {
				t.Errorf("score(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestScorers_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"avatr", "Avatar"},
		{"the dark knight", "dark knight rises"},
		{"toy story", "story toy 2"},
	}
	scorers := map[string]func(a, b string) int{
		"Ratio":          Ratio,
		"PartialRatio":   PartialRatio,
		"TokenSortRatio": TokenSortRatio,
		"TokenSetRatio":  TokenSetRatio,
		"WRatio":         WRatio,
	}
	for name, fn := range scorers {
		for _, p := range pairs {
			if ab, ba := fn(p[0], p[1]), fn(p[1], p[0]); ab != ba {
				t.Errorf("%s(%q, %q) = %d but reversed = %d", name, p[0], p[1], ab, ba)
			}
		}
	}
}

func TestScoresInRange(t *testing.T) {
	inputs := []string{"", "a", "Avatar", "The Lord of the Rings", "x y z", "ção"}
	for _, a := range inputs {
		for _, b := range inputs {
			for _, s := range []int{Ratio(a, b), PartialRatio(a, b), TokenSortRatio(a, b), TokenSetRatio(a, b), WRatio(a, b)} {
				if s < 0 || s > 100 {
					t.Fatalf("score(%q, %q) = %d out of range", a, b, s)
				}
			}
		}
	}
}

func TestLCSLength(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 0},
		{"abc", "abc", 3},
		{"avatr", "avatar", 5},
		{"abcbdab", "bdcaba", 4},
		{"ação", "acao", 2},
	}
	for _, tt := range tests {
		if got := lcsLength([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("lcsLength(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
