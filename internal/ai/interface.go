package ai

import (
	"context"
)

// Provider defines the contract for interacting with AI models.
// Implementations return the raw text of the model's reply; decoding and
// validation belong to the caller.
type Provider interface {
	// GenerateStructured sends req to the model once and returns the raw
	// JSON text it produced. It returns ErrEmptyResponse when the model
	// answered without any text.
	GenerateStructured(ctx context.Context, req StructuredRequest) (string, error)
}
