package ai

import (
	"errors"

	"github.com/google/generative-ai-go/genai"
)

var (
	// ErrMissingAPIKey is returned when a provider is built without a credential.
	ErrMissingAPIKey = errors.New("ai: missing api key")
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("ai: empty response")
)

// StructuredRequest is a single prompt plus the JSON schema the reply must follow.
type StructuredRequest struct {
	Prompt string

	// Schema is declared to the model as its response schema. Nil means
	// plain JSON mode without a schema.
	Schema *genai.Schema

	// Model overrides the provider's default model when non-empty.
	Model string

	// Temperature overrides the provider's default when non-nil.
	Temperature *float32
}
