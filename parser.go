package reflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/reflow/events"
	"github.com/tsawler/reflow/ocr"
	"github.com/tsawler/reflow/reader"
	"github.com/tsawler/reflow/textual"
	"github.com/tsawler/reflow/token"
	"github.com/tsawler/reflow/visual"
)

// ErrUnsupportedFileType is returned when the input is not a PDF.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Parser selects and runs a reconstruction path for one PDF document.
// Create one with Open or FromBytes; configuration methods return modified
// copies, so a Parser value is safe to reuse as a template.
type Parser struct {
	filename string
	data     []byte
	options  Options
}

// Parse reconstructs the document and returns the result, any non-fatal
// warnings accumulated along the way, and an error if no text could be
// produced at all.
//
// The native text layer is preferred: when the embedded text tokenizes above
// the configured threshold, the native path runs, and its output is accepted
// unless it contains binary artifacts. A sparse, failing, or garbage text
// layer sends the document to the OCR path instead. Which path ran is
// recorded in Result.Method.
func (p *Parser) Parse(ctx context.Context) (*Result, []Warning, error) {
	if ext := strings.ToLower(filepath.Ext(p.filename)); ext != ".pdf" {
		return nil, nil, fmt.Errorf("%w: %q (only PDF documents are supported)", ErrUnsupportedFileType, ext)
	}

	src := p.options.source
	if src == nil {
		r, err := p.openReader()
		if err != nil {
			return nil, nil, err
		}
		src = r
	}

	parseID := uuid.New()
	sink := p.options.sink
	if sink == nil {
		sink = events.NopSink{}
	}
	sink.Publish(events.Event{
		ParseID: parseID,
		Kind:    events.KindParseStarted,
		Time:    time.Now(),
		Detail:  p.filename,
	})

	var warnings []Warning
	tokens := p.estimateTokens(src, &warnings)

	method := MethodImage
	var native *textual.Document
	if tokens > p.options.tokenThreshold {
		cfg := p.options.textual
		cfg.MaxPages = p.options.maxPages
		doc, err := textual.Parse(ctx, parseID, src, cfg, sink)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, warnings, err
			}
			warnings = append(warnings, Warning{Message: fmt.Sprintf("native reconstruction failed: %v", err)})
			sink.Publish(events.Event{
				ParseID: parseID,
				Kind:    events.KindOCRFallback,
				Time:    time.Now(),
				Err:     err,
				Detail:  "native reconstruction failed",
			})
		case HasBinaryArtifacts(doc.RawText):
			warnings = append(warnings, Warning{Message: "native text layer contains binary artifacts"})
			sink.Publish(events.Event{
				ParseID: parseID,
				Kind:    events.KindOCRFallback,
				Time:    time.Now(),
				Detail:  "binary artifacts in native text layer",
			})
		default:
			method = MethodText
			native = doc
		}
	} else {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("embedded text layer too sparse (%d tokens)", tokens)})
		sink.Publish(events.Event{
			ParseID: parseID,
			Kind:    events.KindOCRFallback,
			Time:    time.Now(),
			Detail:  fmt.Sprintf("embedded text layer too sparse (%d tokens)", tokens),
		})
	}

	sink.Publish(events.Event{
		ParseID: parseID,
		Kind:    events.KindMethodSelected,
		Time:    time.Now(),
		Method:  string(method),
		Detail:  "reconstruction method selected",
	})

	var pagesText []string
	var rawText string
	if method == MethodText {
		pagesText, rawText = native.PagesText, native.RawText
	} else {
		doc, err := p.parseVisual(ctx, parseID, src, sink, &warnings)
		if err != nil {
			return nil, warnings, err
		}
		pagesText, rawText = doc.PagesText, doc.RawText
	}

	result := newResult(parseID, method, p.filename, pagesText, rawText, tokens)
	sink.Publish(events.Event{
		ParseID: parseID,
		Kind:    events.KindParseFinished,
		Time:    time.Now(),
		Method:  string(method),
		Detail:  fmt.Sprintf("%d pages reconstructed", len(pagesText)),
	})
	return result, warnings, nil
}

// openReader opens the document through the PDF reader, from memory when the
// parser was built with FromBytes.
func (p *Parser) openReader() (*reader.Reader, error) {
	if p.data != nil {
		return reader.FromBytes(p.data)
	}
	return reader.Open(p.filename)
}

// estimateTokens computes the token yield of the embedded text layer. Every
// failure mode counts as zero tokens: a document whose text cannot even be
// extracted or tokenized belongs on the OCR path.
func (p *Parser) estimateTokens(src DocumentSource, warnings *[]Warning) int {
	raw, err := src.RawText()
	if err != nil {
		*warnings = append(*warnings, Warning{Message: fmt.Sprintf("embedded text unavailable: %v", err)})
		return 0
	}

	counter := p.options.counter
	if counter == nil {
		tc, err := token.NewTiktokenCounter(p.options.tokenModel)
		if err != nil {
			*warnings = append(*warnings, Warning{Message: fmt.Sprintf("tokenizer unavailable: %v", err)})
			return 0
		}
		counter = tc
	}

	n, err := counter.Count(raw)
	if err != nil {
		*warnings = append(*warnings, Warning{Message: fmt.Sprintf("token estimate failed: %v", err)})
		return 0
	}
	return n
}

// parseVisual runs the OCR path, constructing the default engine when none
// was injected.
func (p *Parser) parseVisual(ctx context.Context, parseID uuid.UUID, src DocumentSource, sink events.Sink, warnings *[]Warning) (*visual.Document, error) {
	engine := p.options.engine
	if engine == nil {
		client, err := ocr.New()
		if err != nil {
			return nil, fmt.Errorf("OCR fallback unavailable: %w", err)
		}
		defer client.Close()
		if p.options.language != "" {
			if err := client.SetLanguage(p.options.language); err != nil {
				*warnings = append(*warnings, Warning{Message: fmt.Sprintf("set OCR language %q: %v", p.options.language, err)})
			}
		}
		engine = client
	}

	cfg := p.options.visual
	cfg.MaxPages = p.options.maxPages
	return visual.Parse(ctx, parseID, src, engine, cfg, sink)
}
