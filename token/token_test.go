package token

import "testing"

func TestNewTiktokenCounter_UnknownModel(t *testing.T) {
	if _, err := NewTiktokenCounter("definitely-not-a-model"); err == nil {
		t.Error("Expected an error for an unknown model")
	}
}
