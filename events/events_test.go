package events

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phuslu/log"
)

func TestLogSink_Publish(t *testing.T) {
	var buf bytes.Buffer
	logger := &log.Logger{Writer: &log.IOWriter{Writer: &buf}}
	sink := NewLogSink(logger)

	id := uuid.New()
	sink.Publish(Event{
		ParseID: id,
		Kind:    KindPageProcessed,
		Page:    3,
		Method:  "TEXT-PDF",
		Detail:  "page reconstructed",
	})

	out := buf.String()
	for _, want := range []string{id.String(), "page_processed", `"page":3`, "TEXT-PDF", "page reconstructed"} {
		if !strings.Contains(out, want) {
			t.Errorf("Log line missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, `"warn"`) {
		t.Errorf("Success event should not log at warn level: %s", out)
	}
}

func TestLogSink_FailuresLogAtWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := &log.Logger{Writer: &log.IOWriter{Writer: &buf}}
	sink := NewLogSink(logger)

	sink.Publish(Event{
		Kind:   KindPageFailed,
		Page:   2,
		Err:    errors.New("boom"),
		Detail: "page skipped",
	})

	out := buf.String()
	if !strings.Contains(out, `"warn"`) {
		t.Errorf("Failure event should log at warn level: %s", out)
	}
	if !strings.Contains(out, "boom") {
		t.Errorf("Log line missing wrapped error: %s", out)
	}
}

func TestNopSink(t *testing.T) {
	// Must not panic and must accept any event.
	NopSink{}.Publish(Event{Kind: KindParseStarted})
}
