package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// recapGrid renders guess history as one emoji line per submitted round.
// Identical history always yields byte-identical output; the persisted
// daily-gate record stores exactly this string.
func recapGrid(history [][]GuessRecord) string {
	lines := lo.Map(history, func(round []GuessRecord, _ int) string {
		var b strings.Builder
		for _, record := range round {
			switch {
			case record.Score == 1:
				b.WriteString(GlyphLocked)
			case record.Score > 0:
				b.WriteString(GlyphClose)
			default:
				b.WriteString(GlyphMiss)
			}
		}
		return b.String()
	})
	return strings.Join(lines, "\n")
}

// generateRecap builds the shareable recap text: a header line with the
// final round count followed by the emoji grid.
func generateRecap(label string, history [][]GuessRecord) string {
	header := fmt.Sprintf("%s %d/%d", label, len(history), MaxRounds)
	if len(history) == 0 {
		return header
	}
	return header + "\n" + recapGrid(history)
}

// parseRecapGrid splits a persisted grid back into per-round glyph rows so
// a replayed session can rebuild its board without any stored history.
func parseRecapGrid(grid string) [][]string {
	if grid == "" {
		return nil
	}
	return lo.Map(strings.Split(grid, "\n"), func(line string, _ int) []string {
		return lo.Map([]rune(line), func(r rune, _ int) string {
			return string(r)
		})
	})
}
