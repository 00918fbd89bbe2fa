// Package textual reconstructs layout-preserving page text from a PDF's
// native text layer. It drives the layout pipeline page by page and stitches
// the pages into one document: row indices of later pages are offset past
// the previous page's maximum so they never collide, and the page texts are
// joined with a fixed delimiter.
package textual

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/reflow/events"
	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/model"
)

// Method tags reconstructions produced by this path.
const Method = "TEXT-PDF"

// PageDelimiter separates page texts in the assembled document.
const PageDelimiter = "\n------------\n"

// PageSource provides the positioned words of a document's pages.
// *reader.Reader implements it.
type PageSource interface {
	PageCount() int
	PageWords(pageNum int) ([]model.Word, error)
}

// Config holds the thresholds of the native-text pipeline.
type Config struct {
	// MaxPages caps how many pages are ingested.
	MaxPages int

	// VerticalTolerance groups words into rows; HorizontalTolerance groups a
	// row's words into cells.
	VerticalTolerance   float64
	HorizontalTolerance float64

	// WordSpacing is the largest horizontal gap at which two adjacent cells
	// are fused into one token before column binning.
	WordSpacing float64

	// BinTolerance clusters row/column coordinates into bins.
	BinTolerance float64

	Render layout.RenderConfig
}

// DefaultConfig returns the thresholds the pipeline was tuned with.
func DefaultConfig() Config {
	return Config{
		MaxPages:            10,
		VerticalTolerance:   5,
		HorizontalTolerance: 10,
		WordSpacing:         4,
		BinTolerance:        5,
		Render:              layout.DefaultRenderConfig(),
	}
}

// Document is the output of the native-text path.
type Document struct {
	// PagesText holds the rendered grid of every successfully processed
	// page, in page order.
	PagesText []string

	// RawText is PagesText joined with PageDelimiter.
	RawText string
}

// Parse reconstructs up to cfg.MaxPages pages from src.
//
// A page whose words cannot be extracted is reported to the sink and
// skipped; the document degrades instead of aborting, and pages already
// reconstructed are never retracted. Row indices across pages share one
// document coordinate space: each page's indices start just past the
// previous successful page's maximum. The offset only keeps indices from
// colliding; it says nothing about visual ordering across pages.
func Parse(ctx context.Context, parseID uuid.UUID, src PageSource, cfg Config, sink events.Sink) (*Document, error) {
	pageCount := src.PageCount()
	if pageCount > cfg.MaxPages {
		pageCount = cfg.MaxPages
	}

	offset := 0
	pagesText := make([]string, 0, pageCount)
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("native reconstruction canceled at page %d: %w", pageNum, err)
		}

		words, err := src.PageWords(pageNum)
		if err != nil {
			sink.Publish(events.Event{
				ParseID: parseID,
				Kind:    events.KindPageFailed,
				Time:    time.Now(),
				Page:    pageNum,
				Method:  Method,
				Err:     err,
				Detail:  "failed to process page",
			})
			continue
		}

		rows := layout.GroupRows(words, cfg.VerticalTolerance, cfg.HorizontalTolerance)
		rows = layout.MergeClose(rows, cfg.WordSpacing)
		grid := layout.BuildGrid(rows, cfg.BinTolerance)

		if len(grid.Entries) == 0 {
			// A page with no words still contributes an (empty) page so page
			// numbering downstream stays aligned; the offset is unchanged.
			pagesText = append(pagesText, "")
			continue
		}

		grid.Shift(offset)
		offset = grid.MaxRow() + 1

		pagesText = append(pagesText, layout.Render(grid, cfg.Render))
		sink.Publish(events.Event{
			ParseID:  parseID,
			Kind:     events.KindPageProcessed,
			Time:     time.Now(),
			Page:     pageNum,
			Method:   Method,
			FirstRow: grid.MinRow(),
			LastRow:  grid.MaxRow(),
			Detail:   "page reconstructed",
		})
	}

	return &Document{
		PagesText: pagesText,
		RawText:   strings.Join(pagesText, PageDelimiter),
	}, nil
}
