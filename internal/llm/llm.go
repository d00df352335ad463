// Package llm generates structured content from hosted language models.
// The local assessment server uses it to write diagnostic questions.
package llm

import (
	"context"
	"encoding/json"
)

// Provider turns a prompt into JSON.
type Provider interface {
	// Generate runs a single-turn prompt. When req.Schema is set the
	// returned Content has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Model is the model the provider sends requests to.
	Model() string
}

// Request is a single-turn prompt.
type Request struct {
	System      string
	Prompt      string
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Schema is a named JSON Schema the output must satisfy.
type Schema struct {
	// Name is kebab-case, e.g. "diagnostic-question".
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
	// Truncated is set when generation stopped at MaxTokens.
	Truncated bool
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
