package main

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// normalizeWord lowercases, trims surrounding whitespace, and strips one
// trailing punctuation rune. Both guesses and target keywords go through
// this before any comparison or table lookup.
func normalizeWord(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return s
	}
	r, size := utf8.DecodeLastRuneInString(s)
	if unicode.IsPunct(r) {
		s = s[:len(s)-size]
	}
	return s
}

// lookupScore returns the similarity score for a guess against a target
// keyword. A missing table, missing keyword row, or unknown guess all score
// 0; nothing here ever fails. Scores are clamped to [0,1] so a stale or
// sloppy table cannot leak out-of-range values into the history.
func lookupScore(table map[string]map[string]float64, target, guess string) float64 {
	if table == nil {
		return 0
	}
	row, ok := table[normalizeWord(target)]
	if !ok {
		return 0
	}
	score, ok := row[normalizeWord(guess)]
	if !ok {
		return 0
	}
	return math.Min(1, math.Max(0, score))
}
