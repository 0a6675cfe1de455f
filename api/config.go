// Package api provides an HTTP API server for querying the indexed corpus.
package api

import (
	"github.com/lecternhq/lectern/pkg/llm"
	"github.com/lecternhq/lectern/pkg/rag"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// Index serves retrieval requests. Required for /v1/search and /v1/ask.
	Index *rag.Index

	// Chatter generates answers. Required for /v1/ask.
	Chatter llm.Chatter

	// ChatModel overrides the chatter's default model when non-empty.
	ChatModel string

	// TopK is the default number of chunks retrieved per request.
	TopK int

	// TopSources is the default number of distinct sources reported.
	TopSources int
}
