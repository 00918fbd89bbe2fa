// Package token estimates the token yield of a document's embedded text.
// The count only feeds the parser-selection heuristic: a text layer that
// tokenizes to almost nothing is too sparse to be worth reconstructing.
package token

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultModel selects the tokenizer rules used for the estimate.
const DefaultModel = "gpt-3.5-turbo"

// Counter estimates the token count of a piece of text.
type Counter interface {
	Count(text string) (int, error)
}

// TiktokenCounter counts tokens with the byte-pair encoding of an
// OpenAI-compatible model.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter builds a counter for the given model's encoding
// (DefaultModel when model is empty).
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	if model == "" {
		model = DefaultModel
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer for %s: %w", model, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (c *TiktokenCounter) Count(text string) (int, error) {
	return len(c.enc.Encode(text, nil, nil)), nil
}
