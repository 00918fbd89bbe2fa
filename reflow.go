// Package reflow reconstructs a layout-preserving plain-text rendition of a
// PDF's pages, suitable for downstream structured-data extraction.
//
// Basic usage:
//
//	result, warnings, err := reflow.Open("report.pdf").Parse(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", reflow.FormatWarnings(warnings))
//	}
//	fmt.Println(result.RawText)
//
// With options:
//
//	result, _, err := reflow.Open("scan.pdf").
//	    MaxPages(5).
//	    Language("eng+nld").
//	    Parse(ctx)
//
// Two reconstruction paths exist: the native text layer (method "TEXT-PDF")
// and OCR over page rasters (method "IMAGE-PDF"). The parser picks per
// document: a text layer that tokenizes to almost nothing, raises during
// reconstruction, or contains binary artifacts is distrusted and the
// document falls back to OCR. For advanced use the textual, visual, and
// layout packages are also available directly.
package reflow

import (
	"github.com/tsawler/reflow/textual"
	"github.com/tsawler/reflow/visual"
)

// DocumentSource provides the raw material for both reconstruction paths:
// positioned words and plain embedded text for the native path, page rasters
// for the OCR path. *reader.Reader implements it.
type DocumentSource interface {
	textual.PageSource
	visual.ImageSource
	RawText() (string, error)
}

// Open prepares a parser for the PDF at filename.
//
// Example:
//
//	result, warnings, err := reflow.Open("document.pdf").Parse(ctx)
func Open(filename string) *Parser {
	return &Parser{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes prepares a parser for an in-memory PDF. name participates only
// in extension validation and the file-name header of the output.
func FromBytes(name string, data []byte) *Parser {
	return &Parser{
		filename: name,
		data:     data,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	result := reflow.Must(reflow.Open("document.pdf").Parse(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult wraps a call returning (T, []Warning, error) and panics if the
// error is non-nil, discarding warnings.
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
