// Package llm wraps chat-completion providers behind a single capability.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrMissingAPIKey is returned when neither the stored configuration nor
	// the process environment supplies a key.
	ErrMissingAPIKey = errors.New("llm: api key not configured")
	// ErrUnsupportedProvider is returned for provider names the factory does not know.
	ErrUnsupportedProvider = errors.New("llm: unsupported provider")
	// ErrEmptyResponse is returned when the provider answers without choices.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Params are the per-request generation settings.
type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Provider answers a single prompt. Implementations hold no conversation state.
type Provider interface {
	Name() string
	Answer(ctx context.Context, prompt string, params Params) (string, error)
}
