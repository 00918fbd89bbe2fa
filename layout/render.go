package layout

import (
	"sort"
	"strings"
)

// RenderConfig controls fixed-width rendering of a grid.
type RenderConfig struct {
	// ColumnSpacing is the character distance between the target offsets of
	// consecutive column indices.
	ColumnSpacing int

	// MinGap is the minimum number of characters between a word and its
	// predecessor on the same line when the predecessor overflows past the
	// word's target offset.
	MinGap int

	// LineLength is the width of the render buffer; text past it is cut.
	LineLength int
}

// DefaultRenderConfig returns the rendering constants the pipeline was
// tuned with.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		ColumnSpacing: 6,
		MinGap:        2,
		LineLength:    200,
	}
}

// Render produces one fixed-width text line per row index, ascending.
//
// Each column index maps to a target character offset, increasing by
// ColumnSpacing over the sorted column indices. A word lands at
// max(cursor+MinGap, target), which guarantees two words on a line never
// overlap even when a long word runs past the next column's offset.
// Trailing whitespace is trimmed from every line.
func Render(g *Grid, cfg RenderConfig) string {
	if len(g.Entries) == 0 {
		return ""
	}

	byRow := make(map[int][]Entry)
	colSet := make(map[int]struct{})
	for _, e := range g.Entries {
		byRow[e.Row] = append(byRow[e.Row], e)
		colSet[e.Col] = struct{}{}
	}

	cols := make([]int, 0, len(colSet))
	for c := range colSet {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	colOffset := make(map[int]int, len(cols))
	pos := 0
	for _, c := range cols {
		colOffset[c] = pos
		pos += cfg.ColumnSpacing
	}

	rowIndices := make([]int, 0, len(byRow))
	for r := range byRow {
		rowIndices = append(rowIndices, r)
	}
	sort.Ints(rowIndices)

	lines := make([]string, 0, len(rowIndices))
	for _, r := range rowIndices {
		entries := byRow[r]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Col != entries[j].Col {
				return entries[i].Col < entries[j].Col
			}
			return entries[i].Text < entries[j].Text
		})

		line := make([]rune, cfg.LineLength)
		for i := range line {
			line[i] = ' '
		}
		cursor := 0
		for _, e := range entries {
			target, ok := colOffset[e.Col]
			if !ok {
				target = cursor
			}
			at := cursor + cfg.MinGap
			if target > at {
				at = target
			}
			runes := []rune(e.Text)
			for i, ch := range runes {
				if at+i < cfg.LineLength {
					line[at+i] = ch
				}
			}
			cursor = at + len(runes)
		}
		lines = append(lines, strings.TrimRight(string(line), " "))
	}

	return strings.Join(lines, "\n")
}
