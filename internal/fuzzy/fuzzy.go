// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const unbaseScale = 0.95

// Process lowercases s, replaces every non-alphanumeric rune with a space and trims.
func Process(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

// Ratio returns the normalized Indel similarity of a and b.
func Ratio(a, b string) int {
	return score(ratio([]rune(a), []rune(b)))
}

// PartialRatio returns the best Ratio of the shorter string against any
// equally long window of the longer one.
func PartialRatio(a, b string) int {
	return score(partialRatio([]rune(a), []rune(b)))
}

// TokenSortRatio compares the processed inputs with their tokens sorted.
func TokenSortRatio(a, b string) int {
	return score(tokenSortRatio(Process(a), Process(b)))
}

// TokenSetRatio compares the processed inputs by token intersection and differences.
func TokenSetRatio(a, b string) int {
	return score(tokenSetRatio(Process(a), Process(b)))
}

// WRatio is the weighted ratio used for free-text matching.
func WRatio(a, b string) int {
	return score(wratio(Process(a), Process(b)))
}

// score rounds half to even, matching the reference scorers.
func score(f float64) int {
	return int(math.RoundToEven(f))
}

func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcsLength(a, b)) / float64(total)
}

// lcsLength returns the length of the longest common subsequence.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func partialRatio(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		if len(a) == 0 && len(b) == 0 {
			return 100
		}
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	best := partialWindows(a, b)
	if len(a) == len(b) && best < 100 {
		best = math.Max(best, partialWindows(b, a))
	}
	return best
}

// partialWindows scores short against every window of long of len(short),
// including the windows clipped at either end.
func partialWindows(short, long []rune) float64 {
	n := len(short)
	best := 0.0
	consider := func(window []rune) {
		if r := ratio(short, window); r > best {
			best = r
		}
	}
	for i := 1; i < n; i++ {
		consider(long[:i])
	}
	for i := 0; i+n <= len(long); i++ {
		consider(long[i : i+n])
		if best == 100 {
			return best
		}
	}
	for i := len(long) - n + 1; i < len(long); i++ {
		consider(long[i:])
	}
	return best
}

func sortedTokens(s string) []string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return tokens
}

func tokenSortRatio(a, b string) float64 {
	return ratio(
		[]rune(strings.Join(sortedTokens(a), " ")),
		[]rune(strings.Join(sortedTokens(b), " ")),
	)
}

// tokenSets returns the sorted intersection and the two sorted differences.
func tokenSets(a, b string) (intersect, onlyA, onlyB []string) {
	setA := make(map[string]bool)
	for _, t := range strings.Fields(a) {
		setA[t] = true
	}
	setB := make(map[string]bool)
	for _, t := range strings.Fields(b) {
		setB[t] = true
	}
	for t := range setA {
		if setB[t] {
			intersect = append(intersect, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(intersect)
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	return intersect, onlyA, onlyB
}

func tokenSetRatio(a, b string) float64 {
	if len(strings.Fields(a)) == 0 || len(strings.Fields(b)) == 0 {
		return 0
	}
	intersect, onlyA, onlyB := tokenSets(a, b)
	if len(intersect) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	sect := strings.Join(intersect, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := ratio([]rune(combinedA), []rune(combinedB))
	if sect == "" {
		return best
	}
	best = math.Max(best, ratio([]rune(sect), []rune(combinedA)))
	best = math.Max(best, ratio([]rune(sect), []rune(combinedB)))
	return best
}

func partialTokenRatio(a, b string) float64 {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	intersect, onlyA, onlyB := tokenSets(a, b)
	if len(intersect) > 0 {
		return 100
	}

	best := partialRatio(
		[]rune(strings.Join(sortedTokens(a), " ")),
		[]rune(strings.Join(sortedTokens(b), " ")),
	)
	// Without repeated tokens the differences equal the sorted inputs.
	if len(tokensA) == len(onlyA) && len(tokensB) == len(onlyB) {
		return best
	}
	return math.Max(best, partialRatio(
		[]rune(strings.Join(onlyA, " ")),
		[]rune(strings.Join(onlyB, " ")),
	))
}

func wratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	lenRatio := float64(len(ra)) / float64(len(rb))
	if lenRatio < 1 {
		lenRatio = 1 / lenRatio
	}

	end := ratio(ra, rb)
	if lenRatio < 1.5 {
		tokenRatio := math.Max(tokenSortRatio(a, b), tokenSetRatio(a, b))
		return math.Max(end, tokenRatio*unbaseScale)
	}

	partialScale := 0.9
	if lenRatio >= 8 {
		partialScale = 0.6
	}
	end = math.Max(end, partialRatio(ra, rb)*partialScale)
	return math.Max(end, partialTokenRatio(a, b)*unbaseScale*partialScale)
}
