package testutils

import (
	"context"

	"github.com/lecternhq/lectern/pkg/llm"
)

// MockChatter is a test chat client that records requests and returns a
// canned answer.
type MockChatter struct {
	// Requests accumulates every request passed to Chat.
	Requests []llm.ChatRequest

	// Answer is returned as the response content.
	Answer string

	// FailWith causes Chat to return this error.
	FailWith error
}

func NewMockChatter(answer string) *MockChatter {
	return &MockChatter{
		Answer: answer,
	}
}

func (m *MockChatter) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	m.Requests = append(m.Requests, req)

	if m.FailWith != nil {
		return nil, m.FailWith
	}

	return &llm.ChatResponse{
		Model:   req.Model,
		Content: m.Answer,
	}, nil
}

func (m *MockChatter) Close() error {
	return nil
}
