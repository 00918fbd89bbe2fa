package textual

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tsawler/reflow/events"
	"github.com/tsawler/reflow/model"
)

// fakeSource serves canned words per page; pages listed in fail return an
// error.
type fakeSource struct {
	pages [][]model.Word
	fail  map[int]error
}

func (f *fakeSource) PageCount() int { return len(f.pages) }

func (f *fakeSource) PageWords(pageNum int) ([]model.Word, error) {
	if err, ok := f.fail[pageNum]; ok {
		return nil, err
	}
	return f.pages[pageNum-1], nil
}

// recordingSink retains every published event.
type recordingSink struct {
	published []events.Event
}

func (r *recordingSink) Publish(e events.Event) { r.published = append(r.published, e) }

func (r *recordingSink) byKind(k events.Kind) []events.Event {
	var out []events.Event
	for _, e := range r.published {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

func tablePage() []model.Word {
	return []model.Word{
		{Text: "Name", X0: 0, X1: 10, Top: 0, Bottom: 10},
		{Text: "Age", X0: 50, X1: 60, Top: 0, Bottom: 10},
		{Text: "Alice", X0: 0, X1: 10, Top: 15, Bottom: 25},
		{Text: "30", X0: 50, X1: 55, Top: 15, Bottom: 25},
	}
}

func TestParse_SinglePage(t *testing.T) {
	src := &fakeSource{pages: [][]model.Word{tablePage()}}
	sink := &recordingSink{}

	doc, err := Parse(context.Background(), uuid.New(), src, DefaultConfig(), sink)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(doc.PagesText) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(doc.PagesText))
	}
	lines := strings.Split(doc.PagesText[0], "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 rendered lines, got %d: %q", len(lines), doc.PagesText[0])
	}
	if strings.Index(lines[0], "Name") >= strings.Index(lines[0], "Age") {
		t.Errorf("Header column order wrong: %q", lines[0])
	}
	if strings.Index(lines[1], "Alice") >= strings.Index(lines[1], "30") {
		t.Errorf("Data column order wrong: %q", lines[1])
	}
}

func TestParse_RowOffsetsNeverCollideAcrossPages(t *testing.T) {
	src := &fakeSource{pages: [][]model.Word{tablePage(), tablePage(), tablePage()}}
	sink := &recordingSink{}

	if _, err := Parse(context.Background(), uuid.New(), src, DefaultConfig(), sink); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	processed := sink.byKind(events.KindPageProcessed)
	if len(processed) != 3 {
		t.Fatalf("Expected 3 processed pages, got %d", len(processed))
	}
	for i := 1; i < len(processed); i++ {
		prev, cur := processed[i-1], processed[i]
		if cur.FirstRow <= prev.LastRow {
			t.Errorf("Page %d rows %d..%d collide with page %d rows %d..%d",
				cur.Page, cur.FirstRow, cur.LastRow, prev.Page, prev.FirstRow, prev.LastRow)
		}
	}
}

func TestParse_SkipsFailingPage(t *testing.T) {
	src := &fakeSource{
		pages: [][]model.Word{tablePage(), tablePage(), tablePage()},
		fail:  map[int]error{2: errors.New("damaged content stream")},
	}
	sink := &recordingSink{}

	doc, err := Parse(context.Background(), uuid.New(), src, DefaultConfig(), sink)
	if err != nil {
		t.Fatalf("A bad page must not abort the document: %v", err)
	}

	if len(doc.PagesText) != 2 {
		t.Fatalf("Expected 2 surviving pages, got %d", len(doc.PagesText))
	}
	failed := sink.byKind(events.KindPageFailed)
	if len(failed) != 1 || failed[0].Page != 2 {
		t.Errorf("Expected a failure event for page 2, got %+v", failed)
	}

	// Offset continuity must survive the gap.
	processed := sink.byKind(events.KindPageProcessed)
	if len(processed) != 2 || processed[1].FirstRow <= processed[0].LastRow {
		t.Errorf("Row offset broken across a skipped page: %+v", processed)
	}
}

func TestParse_PageDelimiter(t *testing.T) {
	src := &fakeSource{pages: [][]model.Word{tablePage(), tablePage()}}

	doc, err := Parse(context.Background(), uuid.New(), src, DefaultConfig(), events.NopSink{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := strings.Count(doc.RawText, PageDelimiter); got != 1 {
		t.Errorf("Expected exactly 1 delimiter between 2 pages, got %d", got)
	}
}

func TestParse_HonorsMaxPages(t *testing.T) {
	src := &fakeSource{pages: [][]model.Word{
		tablePage(), tablePage(), tablePage(), tablePage(),
	}}
	cfg := DefaultConfig()
	cfg.MaxPages = 2

	doc, err := Parse(context.Background(), uuid.New(), src, cfg, events.NopSink{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.PagesText) != 2 {
		t.Errorf("Expected ingestion capped at 2 pages, got %d", len(doc.PagesText))
	}
}

func TestParse_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{pages: [][]model.Word{tablePage()}}
	if _, err := Parse(ctx, uuid.New(), src, DefaultConfig(), events.NopSink{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestParse_EmptyPageKeepsAlignmentAndOffset(t *testing.T) {
	src := &fakeSource{pages: [][]model.Word{tablePage(), nil, tablePage()}}
	sink := &recordingSink{}

	doc, err := Parse(context.Background(), uuid.New(), src, DefaultConfig(), sink)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(doc.PagesText) != 3 {
		t.Fatalf("Expected 3 pages with the empty one preserved, got %d", len(doc.PagesText))
	}
	if doc.PagesText[1] != "" {
		t.Errorf("Empty page should render as empty text, got %q", doc.PagesText[1])
	}
	processed := sink.byKind(events.KindPageProcessed)
	if len(processed) != 2 || processed[1].FirstRow != processed[0].LastRow+1 {
		t.Errorf("Empty page must not advance the row offset: %+v", processed)
	}
}
