package layout

import (
	"reflect"
	"testing"

	"github.com/tsawler/reflow/model"
)

func makeWord(text string, x0, x1, top, bottom float64) model.Word {
	return model.Word{Text: text, X0: x0, X1: x1, Top: top, Bottom: bottom}
}

func TestGroupRows_TwoByTwo(t *testing.T) {
	words := []model.Word{
		makeWord("Name", 0, 10, 0, 10),
		makeWord("Age", 50, 60, 0, 10),
		makeWord("Alice", 0, 10, 15, 25),
		makeWord("30", 50, 55, 15, 25),
	}

	rows := GroupRows(words, 5, 10)

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != 2 {
			t.Errorf("Row %d: expected 2 cells, got %d", i, len(row))
		}
	}
	if rows[0][0].Text != "Name" || rows[0][1].Text != "Age" {
		t.Errorf("Row 0 cells wrong: %+v", rows[0])
	}
	if rows[1][0].Text != "Alice" || rows[1][1].Text != "30" {
		t.Errorf("Row 1 cells wrong: %+v", rows[1])
	}
}

func TestGroupRows_Deterministic(t *testing.T) {
	words := []model.Word{
		makeWord("a", 0, 5, 0, 8),
		makeWord("b", 20, 25, 1, 9),
		makeWord("c", 0, 5, 12, 20),
		makeWord("d", 20, 26, 13, 21),
		makeWord("e", 40, 44, 0, 8),
	}

	want := GroupRows(words, 5, 10)

	// Rotate through several input orders; the partition must not change.
	perms := [][]int{
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
		{1, 4, 0, 3, 2},
	}
	for _, p := range perms {
		shuffled := make([]model.Word, len(words))
		for i, j := range p {
			shuffled[i] = words[j]
		}
		got := GroupRows(shuffled, 5, 10)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Grouping depends on input order: perm %v gave %+v, want %+v", p, got, want)
		}
	}
}

func TestGroupRows_CellJoinsWordsInReadingOrder(t *testing.T) {
	words := []model.Word{
		makeWord("world", 8, 16, 0.4, 10),
		makeWord("hello", 0, 7, 0, 10.2),
	}

	rows := GroupRows(words, 5, 10)

	if len(rows) != 1 || len(rows[0]) != 1 {
		t.Fatalf("Expected a single cell, got %+v", rows)
	}
	cell := rows[0][0]
	if cell.Text != "hello world" {
		t.Errorf("Expected joined text %q, got %q", "hello world", cell.Text)
	}
	if cell.X0 != 0 || cell.X1 != 16 || cell.Top != 0 || cell.Bottom != 10 {
		t.Errorf("Cell box not the rounded union: %+v", cell)
	}
}

func TestGroupRows_VerticalReferenceIsFirstWord(t *testing.T) {
	// 0 and 4 share a line (|4-0| <= 5); 8 does not (|8-0| > 5), even though
	// it is within tolerance of the previous word. Sequential, not symmetric.
	words := []model.Word{
		makeWord("a", 0, 5, 0, 10),
		makeWord("b", 20, 25, 4, 14),
		makeWord("c", 40, 45, 8, 18),
	}

	rows := GroupRows(words, 5, 100)

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0][0].Text != "a b" || rows[1][0].Text != "c" {
		t.Errorf("Unexpected grouping: %+v", rows)
	}
}

func TestMergeClose(t *testing.T) {
	rows := [][]model.Cell{
		{
			{Text: "Total", X0: 0, X1: 30, Top: 0, Bottom: 10},
			{Text: "amount", X0: 33, X1: 70, Top: 1, Bottom: 11},
			{Text: "due", X0: 120, X1: 140, Top: 0, Bottom: 10},
		},
		nil,
	}

	merged := MergeClose(rows, 4)

	if len(merged) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(merged))
	}
	if len(merged[0]) != 2 {
		t.Fatalf("Expected 2 cells after merging, got %+v", merged[0])
	}
	first := merged[0][0]
	if first.Text != "Total amount" {
		t.Errorf("Expected fused text %q, got %q", "Total amount", first.Text)
	}
	if first.X0 != 0 || first.X1 != 70 {
		t.Errorf("Fused cell should span 0..70, got %+v", first)
	}
	if first.Top != 0 || first.Bottom != 10 {
		t.Errorf("Fused cell keeps the left cell's vertical extent, got %+v", first)
	}
	if merged[0][1].Text != "due" {
		t.Errorf("Distant cell must survive unmerged, got %+v", merged[0][1])
	}
	if merged[1] != nil {
		t.Errorf("Empty row should stay empty, got %+v", merged[1])
	}
}
