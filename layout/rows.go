package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/reflow/model"
)

// GroupRows groups a page's words into rows of cells.
//
// Words are sorted by vertical position and swept top to bottom: a word
// joins the current row while its Top is within vTol of the Top of the row's
// first word, otherwise it starts a new row. Within a row the same sweep
// runs left to right on X0 with hTol to form cells. The clustering is
// sequential, keyed on the first member of the open group, not symmetric.
//
// Ties are broken by X0 and then by text so the partition depends only on
// the word set, never on input order.
func GroupRows(words []model.Word, vTol, hTol float64) [][]model.Cell {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]model.Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Top != b.Top {
			return a.Top < b.Top
		}
		if a.X0 != b.X0 {
			return a.X0 < b.X0
		}
		return a.Text < b.Text
	})

	var lines [][]model.Word
	current := []model.Word{sorted[0]}
	refTop := sorted[0].Top
	for _, w := range sorted[1:] {
		if math.Abs(w.Top-refTop) <= vTol {
			current = append(current, w)
			continue
		}
		lines = append(lines, current)
		current = []model.Word{w}
		refTop = w.Top
	}
	lines = append(lines, current)

	rows := make([][]model.Cell, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, groupCells(line, hTol))
	}
	return rows
}

// groupCells splits one row's words into cells by horizontal proximity,
// using the same sequential sweep as the row grouping.
func groupCells(line []model.Word, hTol float64) []model.Cell {
	sort.Slice(line, func(i, j int) bool {
		a, b := line[i], line[j]
		if a.X0 != b.X0 {
			return a.X0 < b.X0
		}
		return a.Text < b.Text
	})

	var groups [][]model.Word
	current := []model.Word{line[0]}
	refX := line[0].X0
	for _, w := range line[1:] {
		if math.Abs(w.X0-refX) <= hTol {
			current = append(current, w)
			continue
		}
		groups = append(groups, current)
		current = []model.Word{w}
		refX = w.X0
	}
	groups = append(groups, current)

	cells := make([]model.Cell, 0, len(groups))
	for _, g := range groups {
		cells = append(cells, mergeCell(g))
	}
	return cells
}

// mergeCell combines a cell's member words: text joined left to right with
// single spaces, box equal to the union of the member boxes rounded to whole
// points.
func mergeCell(words []model.Word) model.Cell {
	texts := make([]string, len(words))
	c := model.Cell{
		X0:     words[0].X0,
		X1:     words[0].X1,
		Top:    words[0].Top,
		Bottom: words[0].Bottom,
	}
	for i, w := range words {
		texts[i] = w.Text
		c.X0 = math.Min(c.X0, w.X0)
		c.X1 = math.Max(c.X1, w.X1)
		c.Top = math.Min(c.Top, w.Top)
		c.Bottom = math.Max(c.Bottom, w.Bottom)
	}
	c.Text = strings.Join(texts, " ")
	c.X0 = math.Round(c.X0)
	c.X1 = math.Round(c.X1)
	c.Top = math.Round(c.Top)
	c.Bottom = math.Round(c.Bottom)
	return c
}

// MergeClose fuses horizontally adjacent cells within each row when the gap
// between them is at most spacing. This runs before column binning so that a
// single visual token split by the word extractor does not land in two
// column bins. The fused cell keeps the left cell's vertical extent, matching
// the behavior downstream consumers were tuned against.
func MergeClose(rows [][]model.Cell, spacing float64) [][]model.Cell {
	merged := make([][]model.Cell, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			merged = append(merged, nil)
			continue
		}
		out := []model.Cell{row[0]}
		for _, cur := range row[1:] {
			last := &out[len(out)-1]
			if math.Abs(last.X1-cur.X0) <= spacing {
				last.Text = last.Text + " " + cur.Text
				last.X1 = cur.X1
				continue
			}
			out = append(out, cur)
		}
		merged = append(merged, out)
	}
	return merged
}
