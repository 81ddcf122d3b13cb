package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
)

func TestCleanJSONString(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                 `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		"   \n":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, cleanJSONString(in), "input %q", in)
	}
}

func TestResponseTextJoinsTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("```json\n{\"tripDistanceKm\":"),
				genai.Blob{MIMEType: "image/png"},
				genai.Text("12}\n```"),
			}},
		}},
	}
	assert.Equal(t, `{"tripDistanceKm":12}`, responseText(resp))
}

func TestResponseTextEmpty(t *testing.T) {
	assert.Empty(t, responseText(nil))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{}))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: nil}},
	}))
}

func TestNewGeminiProviderRequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), "  ", "", DefaultTemperature)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}
