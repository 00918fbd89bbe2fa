// Package extract turns reconstructed document text into structured tables
// with an LLM. The model is instructed to answer with fenced JSON arrays of
// row objects, one fence per table; everything else in the response is
// ignored.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/phuslu/log"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "claude-sonnet-4-20250514"

// DefaultMaxTokens bounds the completion length.
const DefaultMaxTokens = 4096

// DefaultRowThreshold is the minimum row count for a page-level table to be
// kept; smaller fragments are usually header noise.
const DefaultRowThreshold = 5

const systemPrompt = "You are a data extraction tool. Your job is to extract all tables " +
	"from raw text extracted from PDF files. Return only JSON arrays (one per table)."

var jsonBlockPattern = regexp.MustCompile("(?s)```json\\s*(.*?)```")

// Table is one extracted table. Columns preserves the key order of the
// model's output; Rows holds one map per row, keyed by column name.
type Table struct {
	Columns []string
	Rows    []map[string]any
}

// completer is the LLM call seam. The production implementation talks to the
// Anthropic API; tests substitute canned responses.
type completer interface {
	complete(ctx context.Context, system, user string) (string, error)
}

type anthropicCompleter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func (c *anthropicCompleter) complete(ctx context.Context, system, user string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(0),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty response from model %s", c.model)
	}
	return strings.TrimSpace(b.String()), nil
}

// Config configures an Extractor.
type Config struct {
	// APIKey authenticates against the Anthropic API.
	APIKey string

	// Model defaults to DefaultModel.
	Model string

	// MaxTokens defaults to DefaultMaxTokens.
	MaxTokens int64

	// RowThreshold defaults to DefaultRowThreshold.
	RowThreshold int

	// Logger receives warnings about skipped tables and failed pages.
	// Defaults to the package-level default logger.
	Logger *log.Logger
}

// Extractor extracts tables from document text.
type Extractor struct {
	completer    completer
	logger       *log.Logger
	rowThreshold int
}

// New builds an Extractor talking to the Anthropic API.
func New(cfg Config) *Extractor {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	c := &anthropicCompleter{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
	return newExtractor(c, cfg)
}

func newExtractor(c completer, cfg Config) *Extractor {
	if cfg.RowThreshold <= 0 {
		cfg.RowThreshold = DefaultRowThreshold
	}
	logger := cfg.Logger
	if logger == nil {
		logger = &log.DefaultLogger
	}
	return &Extractor{
		completer:    c,
		logger:       logger,
		rowThreshold: cfg.RowThreshold,
	}
}

// buildUserPrompt assembles the extraction instructions for one piece of
// text. When previousColumns is non-empty the model is told to reuse those
// names for continuation tables whose header row fell on the previous page.
func buildUserPrompt(text string, previousColumns []string) string {
	var b strings.Builder
	b.WriteString("Given the following OCR or PDF-extracted raw text, extract all tables you can find. ")
	b.WriteString("Output only valid JSON arrays. Wrap each in triple backticks using the json tag like:\n")
	b.WriteString("```json\n[{...}, {...}]\n```\n\n")
	b.WriteString("If multiple tables exist, include them all one after another.\n\n")

	if len(previousColumns) > 0 {
		b.WriteString("The previous page contained tables with the following column names:\n[")
		b.WriteString(strings.Join(previousColumns, ", "))
		b.WriteString("]\n")
		b.WriteString("If column names are missing from the current page, attempt to assign them ")
		b.WriteString("based on the structure and values, using these previous column names as a guide.\n\n")
	}

	b.WriteString("RAW TEXT:\n")
	b.WriteString(text)
	return b.String()
}

// Extract pulls every table out of one piece of document text.
func (e *Extractor) Extract(ctx context.Context, text string) ([]Table, error) {
	return e.extract(ctx, text, nil)
}

// ExtractFromPage pulls tables out of a single page's text. previousColumns
// carries the column names of the last table found on an earlier page, so
// continuation tables keep consistent headers.
func (e *Extractor) ExtractFromPage(ctx context.Context, pageText string, previousColumns []string) ([]Table, error) {
	return e.extract(ctx, pageText, previousColumns)
}

func (e *Extractor) extract(ctx context.Context, text string, previousColumns []string) ([]Table, error) {
	content, err := e.completer.complete(ctx, systemPrompt, buildUserPrompt(text, previousColumns))
	if err != nil {
		return nil, err
	}
	return e.parseTables(content)
}

// ExtractFromPages extracts tables from each page independently and combines
// the results. A failed page is logged and skipped; tables below the row
// threshold are dropped. The column names of the last kept table are threaded
// into the next page's prompt.
func (e *Extractor) ExtractFromPages(ctx context.Context, pagesText []string) ([]Table, error) {
	var all []Table
	var previousColumns []string

	for i, pageText := range pagesText {
		pageNum := i + 1
		if err := ctx.Err(); err != nil {
			return all, err
		}

		tables, err := e.ExtractFromPage(ctx, pageText, previousColumns)
		if err != nil {
			e.logger.Warn().Int("page", pageNum).Err(err).Msg("table extraction failed for page")
			continue
		}

		var kept []Table
		for _, t := range tables {
			if len(t.Rows) >= e.rowThreshold {
				kept = append(kept, t)
				continue
			}
			e.logger.Warn().
				Int("page", pageNum).
				Int("rows", len(t.Rows)).
				Msg("skipped undersized table")
		}

		all = append(all, kept...)
		if len(kept) > 0 {
			previousColumns = kept[len(kept)-1].Columns
		}
	}

	return all, nil
}

// parseTables pulls every fenced JSON block out of the model's response and
// decodes each into a Table. A malformed block is logged and skipped; no
// blocks at all is an error.
func (e *Extractor) parseTables(content string) ([]Table, error) {
	blocks := jsonBlockPattern.FindAllStringSubmatch(content, -1)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("no JSON table blocks in model response")
	}

	var tables []Table
	for _, m := range blocks {
		t, err := decodeTable([]byte(m[1]))
		if err != nil {
			e.logger.Warn().Err(err).Msg("failed to parse one JSON table")
			continue
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// decodeTable decodes one JSON array of row objects. The column list
// preserves first-appearance order across rows, which encoding/json's map
// decoding would lose; hence the token-level walk.
func decodeTable(data []byte) (Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return Table{}, fmt.Errorf("decode table: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return Table{}, fmt.Errorf("decode table: expected an array of row objects, got %v", tok)
	}

	t := Table{Rows: []map[string]any{}}
	seen := make(map[string]bool)
	for dec.More() {
		row, order, err := decodeRow(dec)
		if err != nil {
			return Table{}, fmt.Errorf("decode table row %d: %w", len(t.Rows), err)
		}
		for _, col := range order {
			if !seen[col] {
				seen[col] = true
				t.Columns = append(t.Columns, col)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if _, err := dec.Token(); err != nil {
		return Table{}, fmt.Errorf("decode table: %w", err)
	}

	return t, nil
}

// decodeRow decodes one row object, returning both the values and the order
// its keys appeared in.
func decodeRow(dec *json.Decoder) (map[string]any, []string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected a row object, got %v", tok)
	}

	row := make(map[string]any)
	var order []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected a string key, got %v", keyTok)
		}

		var val any
		if err := dec.Decode(&val); err != nil {
			return nil, nil, err
		}
		row[key] = val
		order = append(order, key)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}

	return row, order, nil
}
