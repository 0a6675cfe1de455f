package llm

import (
	"context"
	"errors"
)

// ErrGeneration indicates the upstream chat completion call failed or
// returned an unexpected shape. It never corrupts retrieval state; the
// caller can surface it and retry.
var ErrGeneration = errors.New("chat generation failed")

// ChatRequest is a provider-agnostic chat completion request.
type ChatRequest struct {
	// Model name. Empty uses the client's configured default.
	Model string `json:"model,omitempty"`

	// System prompt, handled separately from messages by some providers.
	System string `json:"system,omitempty"`

	// Conversation messages.
	Messages []Message `json:"messages"`

	// Generation parameters. Nil leaves the provider default in place.
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// ChatResponse is a provider-agnostic chat completion response.
type ChatResponse struct {
	// Model that generated the response.
	Model string `json:"model"`

	// Content is the assistant's reply text.
	Content string `json:"content"`

	// Usage holds token counts when the provider reports them.
	Usage *Usage `json:"usage,omitempty"`
}

// Usage contains token counts.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// Chatter is a chat completion client.
type Chatter interface {
	// Chat sends a completion request and returns the full response.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// Close releases any resources held by the client.
	Close() error
}
