// Package llm provides chat-completion clients for the scoring providers
// dealdesk-engine can delegate buyer-fit reasoning to.
package llm

import (
	"context"
)

// GenerateResponseResult holds a chat completion with usage stats.
type GenerateResponseResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client defines the interface for chat-completion operations.
// Use this interface for dependency injection to enable mocking in tests.
type Client interface {
	// GenerateResponse generates a chat completion response.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (*GenerateResponseResult, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Ensure both providers implement Client at compile time.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*AnthropicClient)(nil)
)
