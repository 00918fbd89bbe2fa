// Package visual reconstructs page text from image-only (scanned) PDFs.
//
// It is the simpler, lower-fidelity sibling of the textual package: page
// rasters are preprocessed and handed to an external OCR engine, and the
// resulting word boxes are regrouped into lines. Pages with too little
// usable OCR data fall back to the engine's plain transcription, lower-cased.
package visual

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/reflow/events"
	"github.com/tsawler/reflow/model"
)

// Method tags reconstructions produced by this path.
const Method = "IMAGE-PDF"

// PageDelimiter separates page texts in the assembled document.
const PageDelimiter = "\n------------\n"

// Engine is the OCR collaborator. ocr.Client implements it when the module
// is built with the ocr tag.
type Engine interface {
	// Words returns confidence-annotated word boxes for a preprocessed page
	// image.
	Words(ctx context.Context, img []byte) ([]model.VisualWord, error)

	// PlainText returns the engine's own transcription of the image, used as
	// a degraded fallback when word boxes are too sparse.
	PlainText(ctx context.Context, img []byte) (string, error)
}

// ImageSource provides encoded page rasters in page order.
// *reader.Reader implements it.
type ImageSource interface {
	PageImages(ctx context.Context, maxImages int) ([][]byte, error)
}

// Config holds the thresholds of the OCR pipeline.
type Config struct {
	// MaxPages caps how many pages contribute text.
	MaxPages int

	// ExtraImages is how many page rasters beyond MaxPages may be pulled
	// from the source before the page cap applies; damaged rasters consume
	// slots without producing pages.
	ExtraImages int

	// LineTolerance is the vertical distance within which OCR words share a
	// line.
	LineTolerance float64

	// MinWords is the least usable OCR words per page for structured line
	// reconstruction; below it the plain transcription fallback is used.
	MinWords int
}

// DefaultConfig returns the thresholds the pipeline was tuned with.
func DefaultConfig() Config {
	return Config{
		MaxPages:      10,
		ExtraImages:   5,
		LineTolerance: 10,
		MinWords:      10,
	}
}

// Document is the output of the OCR path.
type Document struct {
	PagesText []string
	RawText   string
}

// Parse runs OCR-based reconstruction over the document's page images.
//
// A page whose raster cannot be decoded or whose OCR call fails is reported
// to the sink and skipped; it contributes no text and processing continues.
// Completed pages are never retracted.
func Parse(ctx context.Context, parseID uuid.UUID, src ImageSource, engine Engine, cfg Config, sink events.Sink) (*Document, error) {
	images, err := src.PageImages(ctx, cfg.MaxPages+cfg.ExtraImages)
	if err != nil {
		return nil, fmt.Errorf("extract page images: %w", err)
	}

	pagesText := make([]string, 0, cfg.MaxPages)
	for i, img := range images {
		pageNum := i + 1
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("OCR reconstruction canceled at page %d: %w", pageNum, err)
		}

		pageText, err := parsePage(ctx, engine, img, cfg)
		if err != nil {
			sink.Publish(events.Event{
				ParseID: parseID,
				Kind:    events.KindPageFailed,
				Time:    time.Now(),
				Page:    pageNum,
				Method:  Method,
				Err:     err,
				Detail:  "OCR failed for page",
			})
			continue
		}

		pagesText = append(pagesText, pageText)
		sink.Publish(events.Event{
			ParseID: parseID,
			Kind:    events.KindPageProcessed,
			Time:    time.Now(),
			Page:    pageNum,
			Method:  Method,
			Detail:  "page transcribed",
		})

		if len(pagesText) == cfg.MaxPages {
			break
		}
	}

	return &Document{
		PagesText: pagesText,
		RawText:   strings.Join(pagesText, PageDelimiter),
	}, nil
}

// parsePage preprocesses one raster and turns the engine's output into page
// text, falling back to a lower-cased plain transcription when the word
// boxes are too sparse to be worth regrouping.
func parsePage(ctx context.Context, engine Engine, img []byte, cfg Config) (string, error) {
	pre, err := preprocessEncoded(img)
	if err != nil {
		return "", err
	}

	words, err := engine.Words(ctx, pre)
	if err != nil {
		return "", fmt.Errorf("recognize words: %w", err)
	}

	kept := usable(words)
	if len(kept) < cfg.MinWords {
		text, err := engine.PlainText(ctx, pre)
		if err != nil {
			return "", fmt.Errorf("plain transcription: %w", err)
		}
		return strings.ToLower(strings.TrimSpace(text)), nil
	}

	return ReconstructLines(kept, cfg.LineTolerance), nil
}
