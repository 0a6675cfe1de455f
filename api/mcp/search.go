package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	apisearch "github.com/lecternhq/lectern/api/search"
)

var (
	searchToolName    = "search"
	searchDescription = "Search the indexed document corpus using semantic search. Returns the most relevant chunks with their source document, page number, and distance, plus a per-source summary."
)

// SearchInput represents the input arguments for the search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the search query text to find relevant document chunks"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"number of chunks to return (default: 12)"`
	TopSources int    `json:"top_sources,omitempty" jsonschema:"number of distinct source documents to summarize (default: 3)"`
}

// handleSearch processes a search request.
func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, apisearch.SearchOutput, error) {
	logger := s.config.Logger

	topK := input.TopK
	if topK <= 0 {
		topK = s.config.TopK
	}

	topSources := input.TopSources
	if topSources <= 0 {
		topSources = s.config.TopSources
	}

	logger.Debug("MCP search request",
		zap.String("query", input.Query),
		zap.Int("topK", topK),
	)

	output, err := apisearch.Search(ctx, input.Query, topK, topSources, s.config.Index, logger)
	if err != nil {
		logger.Error("failed to search index", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to search index: %v", err)},
			},
		}, apisearch.SearchOutput{}, nil
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal search output", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, apisearch.SearchOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, *output, nil
}
