package reflow

import (
	"regexp"
	"strings"
)

var (
	// hexEscapePattern matches literal \xNN escape sequences that leak into
	// the text layer when a PDF's embedded fonts decode to garbage.
	hexEscapePattern = regexp.MustCompile(`\\x[0-9A-Fa-f]{2}`)

	// controlCharPattern matches control characters that have no business in
	// reconstructed text. Newline, tab, and carriage return are exempted
	// before matching.
	controlCharPattern = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F-\x9F]`)
)

// HasBinaryArtifacts reports whether text looks like a corrupted or binary
// text layer rather than readable content. Some PDFs advertise a text layer
// that is really font-subsetting garbage; this check sends such documents to
// the OCR path instead.
func HasBinaryArtifacts(text string) bool {
	if hexEscapePattern.MatchString(text) {
		return true
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\t', '\r':
			return -1
		}
		return r
	}, text)
	return controlCharPattern.MatchString(cleaned)
}
