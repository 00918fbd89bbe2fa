// Package events defines the structured event sink the reconstruction
// pipeline reports progress and failures through.
//
// The core never logs through process-wide state: callers inject a Sink and
// decide what to do with the events (log them, stream them to a UI, drop
// them). LogSink is the production implementation.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"
)

// Kind identifies what an event reports.
type Kind string

const (
	KindParseStarted   Kind = "parse_started"
	KindMethodSelected Kind = "method_selected"
	KindPageProcessed  Kind = "page_processed"
	KindPageFailed     Kind = "page_failed"
	KindOCRFallback    Kind = "ocr_fallback"
	KindParseFinished  Kind = "parse_finished"
)

// Event is a single structured notification from a parse run.
type Event struct {
	ParseID uuid.UUID
	Kind    Kind
	Time    time.Time

	// Page is 1-based; zero when the event is not page-scoped.
	Page int

	// Method is "TEXT-PDF" or "IMAGE-PDF" when the event concerns one of the
	// reconstruction paths.
	Method string

	Detail string
	Err    error

	// FirstRow and LastRow are the document-wide row indices a processed
	// page occupies; only set on KindPageProcessed events from the
	// native-text path.
	FirstRow int
	LastRow  int
}

// Sink receives events. The pipeline publishes from a single goroutine per
// parse; implementations that are shared across parses must be safe for
// concurrent use.
type Sink interface {
	Publish(Event)
}

// NopSink discards every event. It is the default when no sink is injected.
type NopSink struct{}

// Publish discards the event.
func (NopSink) Publish(Event) {}

// LogSink writes events to a structured logger. Failures log at warn level,
// everything else at info.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink returns a sink writing to logger.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Publish writes the event as one structured log line.
func (s *LogSink) Publish(e Event) {
	entry := s.logger.Info()
	if e.Err != nil || e.Kind == KindPageFailed {
		entry = s.logger.Warn()
	}
	entry = entry.
		Str("parse_id", e.ParseID.String()).
		Str("kind", string(e.Kind))
	if e.Page > 0 {
		entry = entry.Int("page", e.Page)
	}
	if e.Method != "" {
		entry = entry.Str("method", e.Method)
	}
	if e.Err != nil {
		entry = entry.Err(e.Err)
	}
	entry.Msg(e.Detail)
}
