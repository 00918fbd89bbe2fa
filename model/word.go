package model

// Word is a positioned text fragment from a PDF's native text layer.
type Word struct {
	Text   string
	X0     float64 // left edge
	X1     float64 // right edge
	Top    float64
	Bottom float64
}

// VisualWord is a single word recognized by the OCR engine. OCR output
// carries less geometry than the native text layer: only the top-left
// corner of the word box and the engine's confidence score.
type VisualWord struct {
	Text       string
	Left       float64
	Top        float64
	Confidence float64
}

// Cell is a run of words merged into one grid cell. Its box is the union of
// the member word boxes, rounded to whole points.
type Cell struct {
	Text   string
	X0     float64
	X1     float64
	Top    float64
	Bottom float64
}
