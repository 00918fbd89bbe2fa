package visual

import (
	"sort"
	"strings"

	"github.com/tsawler/reflow/model"
)

// usable drops OCR records with empty text or a filtered confidence value
// (the engine reports -1 for layout artifacts that carry no recognized
// word).
func usable(words []model.VisualWord) []model.VisualWord {
	out := make([]model.VisualWord, 0, len(words))
	for _, w := range words {
		w.Text = strings.TrimSpace(w.Text)
		if w.Text == "" || w.Confidence < 0 {
			continue
		}
		out = append(out, w)
	}
	return out
}

// ReconstructLines rebuilds a reading-order approximation of a page from OCR
// word boxes.
//
// Words group into lines keyed by the top coordinate of the first word seen
// for that line: a word joins the first existing line whose key is within
// lineTol (first match in insertion order, not nearest match). Lines emit in
// ascending key order; within a line, words sort by their left coordinate
// and join with single spaces.
func ReconstructLines(words []model.VisualWord, lineTol float64) string {
	var keys []float64
	lines := make(map[float64][]model.VisualWord)

	for _, w := range words {
		key := w.Top
		for _, k := range keys {
			if diff := k - w.Top; diff <= lineTol && diff >= -lineTol {
				key = k
				break
			}
		}
		if _, ok := lines[key]; !ok {
			keys = append(keys, key)
		}
		lines[key] = append(lines[key], w)
	}

	sort.Float64s(keys)

	reconstructed := make([]string, 0, len(keys))
	for _, k := range keys {
		lineWords := lines[k]
		sort.SliceStable(lineWords, func(i, j int) bool {
			return lineWords[i].Left < lineWords[j].Left
		})
		texts := make([]string, len(lineWords))
		for i, w := range lineWords {
			texts[i] = w.Text
		}
		reconstructed = append(reconstructed, strings.Join(texts, " "))
	}

	return strings.Join(reconstructed, "\n")
}
