package reflow

import (
	"github.com/tsawler/reflow/events"
	"github.com/tsawler/reflow/textual"
	"github.com/tsawler/reflow/token"
	"github.com/tsawler/reflow/visual"
)

// Options holds the configuration of a Parser.
type Options struct {
	// Page cap applied to both reconstruction paths.
	maxPages int

	// Selector thresholds
	tokenThreshold int
	tokenModel     string

	// OCR language(s), "+"-separated (e.g. "eng+nld").
	language string

	// Pipeline thresholds
	textual textual.Config
	visual  visual.Config

	// Injected collaborators; nil means the production default.
	sink    events.Sink
	counter token.Counter
	engine  visual.Engine
	source  DocumentSource
}

// defaultOptions returns the configuration the pipelines were tuned with.
func defaultOptions() Options {
	return Options{
		maxPages:       10,
		tokenThreshold: 10,
		tokenModel:     token.DefaultModel,
		language:       "eng",
		textual:        textual.DefaultConfig(),
		visual:         visual.DefaultConfig(),
		sink:           events.NopSink{},
	}
}

// clone creates a copy of the parser so fluent methods never mutate the
// receiver. A configured parser can therefore be kept as a template.
func (p *Parser) clone() *Parser {
	c := *p
	return &c
}

// MaxPages caps how many pages either reconstruction path processes.
// The default is 10.
func (p *Parser) MaxPages(n int) *Parser {
	c := p.clone()
	c.options.maxPages = n
	return c
}

// TokenThreshold sets the minimum token yield of the embedded text layer
// below which the native path is skipped entirely. The default is 10.
func (p *Parser) TokenThreshold(n int) *Parser {
	c := p.clone()
	c.options.tokenThreshold = n
	return c
}

// TokenizerModel selects the tokenizer rules used for the token-yield
// estimate.
func (p *Parser) TokenizerModel(model string) *Parser {
	c := p.clone()
	c.options.tokenModel = model
	return c
}

// Language sets the OCR language(s). Multiple languages can be specified as
// a "+" separated string (e.g. "eng+nld"). Default is "eng" (English).
func (p *Parser) Language(lang string) *Parser {
	c := p.clone()
	c.options.language = lang
	return c
}

// TextualConfig replaces the native-text pipeline thresholds. MaxPages set
// through the parser still takes precedence.
func (p *Parser) TextualConfig(cfg textual.Config) *Parser {
	c := p.clone()
	c.options.textual = cfg
	return c
}

// VisualConfig replaces the OCR pipeline thresholds. MaxPages set through
// the parser still takes precedence.
func (p *Parser) VisualConfig(cfg visual.Config) *Parser {
	c := p.clone()
	c.options.visual = cfg
	return c
}

// WithSink injects an event sink that receives progress and failure events
// during parsing. The default discards events.
func (p *Parser) WithSink(sink events.Sink) *Parser {
	c := p.clone()
	c.options.sink = sink
	return c
}

// WithCounter injects the token counter used for the selection estimate.
// The default counts with the tokenizer of TokenizerModel.
func (p *Parser) WithCounter(counter token.Counter) *Parser {
	c := p.clone()
	c.options.counter = counter
	return c
}

// WithEngine injects the OCR engine used by the image path. The default is
// the Tesseract client, available when the module is built with the ocr tag.
func (p *Parser) WithEngine(engine visual.Engine) *Parser {
	c := p.clone()
	c.options.engine = engine
	return c
}

// WithSource injects the document source, bypassing the PDF reader. Intended
// for tests and for callers that already hold an open document.
func (p *Parser) WithSource(src DocumentSource) *Parser {
	c := p.clone()
	c.options.source = src
	return c
}
