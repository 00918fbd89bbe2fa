package reflow

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Method identifies which reconstruction path produced a result.
type Method string

const (
	// MethodText means the native text layer was reconstructed.
	MethodText Method = "TEXT-PDF"

	// MethodImage means the pages were transcribed with OCR.
	MethodImage Method = "IMAGE-PDF"
)

// previewLength is how many characters of the cleaned text the Preview
// field carries.
const previewLength = 1500

// Result is the outcome of parsing one document.
type Result struct {
	// ParseID identifies this parse run across its events.
	ParseID uuid.UUID

	// Method is the reconstruction path that produced the text.
	Method Method

	// PagesText holds one reconstructed text per contributing page, in page
	// order.
	PagesText []string

	// RawText is the full document text: a "*File name*:" header line
	// followed by the page texts joined with the page delimiter. Non-breaking
	// spaces are folded to regular spaces.
	RawText string

	// Preview is the first previewLength characters of the cleaned document
	// text, without the file-name header.
	Preview string

	// TokenCount is the token-yield estimate of the embedded text layer that
	// drove method selection.
	TokenCount int
}

// newResult assembles the caller-facing result from a reconstruction.
func newResult(parseID uuid.UUID, method Method, name string, pagesText []string, rawText string, tokenCount int) *Result {
	// Fold non-breaking spaces so downstream consumers see plain spaces.
	cleaned := strings.ReplaceAll(rawText, "\u00a0", " ")

	preview := cleaned
	if runes := []rune(preview); len(runes) > previewLength {
		preview = string(runes[:previewLength])
	}

	return &Result{
		ParseID:    parseID,
		Method:     method,
		PagesText:  pagesText,
		RawText:    fmt.Sprintf("*File name*: %s\n%s", name, cleaned),
		Preview:    preview,
		TokenCount: tokenCount,
	}
}

// Warning indicates a non-fatal issue encountered during parsing: a page
// that had to be skipped, a degraded fallback, a collaborator that was
// unavailable. The parse still produced a result.
type Warning struct {
	// Page is 1-based; zero when the warning is not page-scoped.
	Page    int
	Message string
}

// String renders the warning as a single human-readable line.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into one line for logging.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
