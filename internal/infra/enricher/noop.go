package enricher

import "context"

// NoOp is an extractor that returns no keywords. Useful for development and
// tests where users should stay effectively unmatched without API calls.
type NoOp struct{}

// NewNoOp creates a new NoOp extractor.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// ExtractKeywords always returns an empty phrase list.
func (n *NoOp) ExtractKeywords(_ context.Context, _ string) ([]string, error) {
	return []string{}, nil
}
