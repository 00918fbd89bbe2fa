// Package reader provides access to the raw material of a PDF document: the
// positioned words of its native text layer, the plain embedded text used
// for the token-yield estimate, and the embedded page rasters the OCR path
// consumes.
//
// The text layer comes from ledongthuc/pdf; page validation and image
// extraction go through pdfcpu. Coordinates are converted from the PDF's
// bottom-up system to the top-down system the rest of the module uses.
package reader

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/reflow/model"
)

const (
	// wordXTolerance is the largest horizontal gap between two text
	// fragments that still belong to the same word.
	wordXTolerance = 3.0

	// lineYTolerance groups fragments onto the same baseline during word
	// assembly. This is finer than the layout package's row tolerance; it
	// only reunites fragments the PDF split within a single line.
	lineYTolerance = 3.0

	// baselineRatio approximates where the baseline sits within the font
	// box when computing the top edge from a fragment's baseline Y.
	baselineRatio = 0.8

	// Default page size (US Letter) when a page carries no MediaBox.
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Reader provides positioned words, raw embedded text, and page images for
// one PDF document. It is not safe for concurrent use.
type Reader struct {
	data []byte
	pdf  *lpdf.Reader
}

// Open reads the PDF at filename into memory.
func Open(filename string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return FromBytes(data)
}

// FromBytes opens an in-memory PDF.
func FromBytes(data []byte) (*Reader, error) {
	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	return &Reader{data: data, pdf: r}, nil
}

// PageCount returns the number of pages in the document.
func (r *Reader) PageCount() int {
	return r.pdf.NumPage()
}

// RawText returns the embedded text layer of the whole document with no
// layout reconstruction. It is the input to the token-yield estimate, never
// part of the reconstructed output.
func (r *Reader) RawText() (text string, err error) {
	// The underlying parser panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("extract embedded text: %v", rec)
		}
	}()

	plain, err := r.pdf.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract embedded text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("extract embedded text: %w", err)
	}
	return string(raw), nil
}

// PageWords extracts the positioned words of page pageNum (1-based).
//
// Fragments from the content stream are normalized (NFKC, which also folds
// non-breaking spaces), flipped to top-down coordinates, and fused into
// words when they sit on one baseline with at most wordXTolerance between
// them.
func (r *Reader) PageWords(pageNum int) (words []model.Word, err error) {
	if pageNum < 1 || pageNum > r.pdf.NumPage() {
		return nil, fmt.Errorf("page %d out of range [1, %d]", pageNum, r.pdf.NumPage())
	}

	// The underlying parser panics on some malformed content streams; a bad
	// page must surface as a page-level error, not kill the document.
	defer func() {
		if rec := recover(); rec != nil {
			words = nil
			err = fmt.Errorf("page %d: content extraction failed: %v", pageNum, rec)
		}
	}()

	page := r.pdf.Page(pageNum)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d has no content", pageNum)
	}

	_, height := pageSize(page)

	content := page.Content()
	frags := make([]fragment, 0, len(content.Text))
	for _, t := range content.Text {
		text := norm.NFKC.String(t.S)
		top := height - t.Y - t.FontSize*baselineRatio
		frags = append(frags, fragment{
			text:   text,
			x0:     t.X,
			x1:     t.X + t.W,
			top:    top,
			bottom: top + t.FontSize,
		})
	}

	return assembleWords(frags), nil
}

// pageSize reads the page's MediaBox, falling back to US Letter.
func pageSize(page lpdf.Page) (width, height float64) {
	width, height = defaultPageWidth, defaultPageHeight
	mediaBox := page.V.Key("MediaBox")
	if mediaBox.Kind() == lpdf.Array && mediaBox.Len() == 4 {
		width = mediaBox.Index(2).Float64() - mediaBox.Index(0).Float64()
		height = mediaBox.Index(3).Float64() - mediaBox.Index(1).Float64()
	}
	return width, height
}

// fragment is a raw positioned run of text from the content stream, usually
// a single glyph.
type fragment struct {
	text   string
	x0     float64
	x1     float64
	top    float64
	bottom float64
}

// assembleWords fuses content-stream fragments into words: fragments are
// grouped onto baselines, ordered left to right, and concatenated while the
// horizontal gap stays within wordXTolerance. Whitespace fragments separate
// words and are dropped.
func assembleWords(frags []fragment) []model.Word {
	if len(frags) == 0 {
		return nil
	}

	sorted := make([]fragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].top < sorted[j].top
	})

	var lines [][]fragment
	current := []fragment{sorted[0]}
	refTop := sorted[0].top
	for _, f := range sorted[1:] {
		if math.Abs(f.top-refTop) <= lineYTolerance {
			current = append(current, f)
			continue
		}
		lines = append(lines, current)
		current = []fragment{f}
		refTop = f.top
	}
	lines = append(lines, current)

	var words []model.Word
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].x0 < line[j].x0
		})
		words = append(words, wordsFromLine(line)...)
	}
	return words
}

// wordsFromLine walks one baseline's fragments left to right and closes a
// word at every whitespace fragment or oversized gap.
func wordsFromLine(line []fragment) []model.Word {
	var words []model.Word
	var cur *model.Word

	flush := func() {
		if cur != nil && cur.Text != "" {
			words = append(words, *cur)
		}
		cur = nil
	}

	for _, f := range line {
		if strings.TrimSpace(f.text) == "" {
			flush()
			continue
		}
		if cur == nil || f.x0-cur.X1 > wordXTolerance {
			flush()
			cur = &model.Word{
				Text:   f.text,
				X0:     f.x0,
				X1:     f.x1,
				Top:    f.top,
				Bottom: f.bottom,
			}
			continue
		}
		cur.Text += f.text
		cur.X1 = math.Max(cur.X1, f.x1)
		cur.Top = math.Min(cur.Top, f.top)
		cur.Bottom = math.Max(cur.Bottom, f.bottom)
	}
	flush()

	return words
}
