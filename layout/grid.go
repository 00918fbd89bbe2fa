package layout

import (
	"sort"

	"github.com/tsawler/reflow/model"
)

// Entry is one piece of text assigned to a discrete grid slot.
type Entry struct {
	Row  int
	Col  int
	Text string
}

// Grid is the discrete row/column arrangement of one page's cells.
//
// Within a page, row indices increase strictly with vertical position and
// column indices with horizontal position. Indices carry no meaning across
// pages except through Shift.
type Grid struct {
	Entries []Entry
}

// BuildGrid snaps each cell's top and left coordinates to bins clustered
// with tolerance tol, then assigns integer indices by the sort order of the
// distinct snapped values. Coordinates that fall outside every bin keep
// their raw value and still receive an index, so no cell is ever dropped.
func BuildGrid(rows [][]model.Cell, tol float64) *Grid {
	var xs, ys []float64
	var texts []string
	for _, row := range rows {
		for _, c := range row {
			xs = append(xs, c.X0)
			ys = append(ys, c.Top)
			texts = append(texts, c.Text)
		}
	}
	if len(texts) == 0 {
		return &Grid{}
	}

	yBins := Cluster(ys, tol)
	xBins := Cluster(xs, tol)

	snappedY := make([]float64, len(ys))
	snappedX := make([]float64, len(xs))
	for i := range texts {
		snappedY[i] = yBins.Map(ys[i])
		snappedX[i] = xBins.Map(xs[i])
	}

	yIndex := indexByValue(snappedY)
	xIndex := indexByValue(snappedX)

	g := &Grid{Entries: make([]Entry, len(texts))}
	for i, text := range texts {
		g.Entries[i] = Entry{
			Row:  yIndex[snappedY[i]],
			Col:  xIndex[snappedX[i]],
			Text: text,
		}
	}
	return g
}

// indexByValue ranks the distinct values ascending and maps each value to
// its rank.
func indexByValue(values []float64) map[float64]int {
	uniq := make([]float64, 0, len(values))
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}
	sort.Float64s(uniq)

	idx := make(map[float64]int, len(uniq))
	for i, v := range uniq {
		idx[v] = i
	}
	return idx
}

// Shift offsets every row index by delta. The stitcher uses this to keep row
// indices from colliding across pages; it does not affect visual alignment.
func (g *Grid) Shift(delta int) {
	for i := range g.Entries {
		g.Entries[i].Row += delta
	}
}

// MaxRow returns the largest row index in the grid, or -1 when empty.
func (g *Grid) MaxRow() int {
	max := -1
	for _, e := range g.Entries {
		if e.Row > max {
			max = e.Row
		}
	}
	return max
}

// MinRow returns the smallest row index in the grid, or -1 when empty.
func (g *Grid) MinRow() int {
	if len(g.Entries) == 0 {
		return -1
	}
	min := g.Entries[0].Row
	for _, e := range g.Entries[1:] {
		if e.Row < min {
			min = e.Row
		}
	}
	return min
}
