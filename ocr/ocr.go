//go:build ocr

// Package ocr adapts the Tesseract OCR engine to the visual reconstruction
// pipeline.
//
// This package wraps Tesseract via gosseract and requires it to be installed
// on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Build with the "ocr" tag to compile this implementation in:
//
//	go build -tags ocr
package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/reflow/model"
)

// Client wraps Tesseract for OCR operations. It implements visual.Engine.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g.
// "eng+nld"). Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// Words recognizes imageData and returns one confidence-annotated record per
// word box.
func (c *Client) Words(ctx context.Context, imageData []byte) ([]model.VisualWord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]model.VisualWord, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, model.VisualWord{
			Text:       b.Word,
			Left:       float64(b.Box.Min.X),
			Top:        float64(b.Box.Min.Y),
			Confidence: b.Confidence,
		})
	}
	return words, nil
}

// PlainText performs whole-image OCR on imageData.
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) PlainText(ctx context.Context, imageData []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}
