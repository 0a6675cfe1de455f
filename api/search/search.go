// Package search provides shared retrieval types and logic for semantic
// search over the indexed document corpus. It is used by the REST API
// endpoints, the MCP server tool, and the CLI commands.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lecternhq/lectern/pkg/llm"
	"github.com/lecternhq/lectern/pkg/rag"
	"github.com/lecternhq/lectern/pkg/utils"
)

const (
	// DefaultTopK is how many nearest chunks to retrieve when the caller
	// does not specify.
	DefaultTopK = 12

	// DefaultTopSources is how many distinct source documents to report
	// when the caller does not specify.
	DefaultTopSources = 3

	// previewLen bounds the chunk preview returned in source summaries.
	previewLen = 200

	askSystemPrompt = "You are a study assistant. Answer questions using only the provided context. When the context does not contain the answer, say so instead of guessing."
)

// SearchInput represents the input arguments for a search request.
type SearchInput struct {
	Query      string `json:"query"`
	TopK       int    `json:"top_k,omitempty"`
	TopSources int    `json:"top_sources,omitempty"`
}

// ChunkResult is a single retrieved chunk with its provenance.
type ChunkResult struct {
	ID         string  `json:"id"`
	Source     string  `json:"source"`
	Page       int     `json:"page"`
	ChunkIndex int     `json:"chunk_index"`
	Distance   float32 `json:"distance"`
	Text       string  `json:"text"`
}

// SourceResult summarizes one distinct source document from a search,
// carrying its nearest chunk's distance and a preview of its text.
type SourceResult struct {
	Source       string   `json:"source"`
	Page         int      `json:"page"`
	Distance     float32  `json:"distance"`
	Preview      string   `json:"preview"`
	MatchedTerms []string `json:"matched_terms,omitempty"`
}

// SearchOutput represents the output of a search operation.
type SearchOutput struct {
	Query   string         `json:"query"`
	Results []ChunkResult  `json:"results"`
	Sources []SourceResult `json:"sources"`
	Count   int            `json:"count"`
}

// AskInput represents the input arguments for an ask request.
type AskInput struct {
	Question   string `json:"question"`
	TopK       int    `json:"top_k,omitempty"`
	TopSources int    `json:"top_sources,omitempty"`
	Model      string `json:"model,omitempty"`
}

// AskOutput represents the output of an ask operation.
type AskOutput struct {
	Question string         `json:"question"`
	Answer   string         `json:"answer"`
	Model    string         `json:"model,omitempty"`
	Sources  []SourceResult `json:"sources"`
	Usage    *llm.Usage     `json:"usage,omitempty"`
}

// Search embeds the query, retrieves the nearest chunks, and summarizes
// the top distinct source documents.
func Search(
	ctx context.Context,
	query string,
	topK int,
	topSources int,
	index *rag.Index,
	logger *zap.Logger,
) (*SearchOutput, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topSources <= 0 {
		topSources = DefaultTopSources
	}

	logger.Debug("search request",
		zap.String("query", query),
		zap.Int("topK", topK),
		zap.Int("topSources", topSources),
	)

	results, err := index.QueryText(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}

	chunkResults := make([]ChunkResult, 0, len(results))
	for _, r := range results {
		chunkResults = append(chunkResults, ChunkResult{
			ID:         r.ID,
			Source:     r.Source,
			Page:       r.Page,
			ChunkIndex: r.ChunkIndex,
			Distance:   r.Distance,
			Text:       r.Text,
		})
	}

	sources := make([]SourceResult, 0, topSources)
	for _, ranked := range rag.TopDistinctSources(results, topSources) {
		sources = append(sources, SourceResult{
			Source:       ranked.Source,
			Page:         ranked.Page,
			Distance:     ranked.Distance,
			Preview:      utils.Truncate(ranked.SampleText, previewLen),
			MatchedTerms: rag.MatchedTerms(query, ranked.SampleText),
		})
	}

	return &SearchOutput{
		Query:   query,
		Results: chunkResults,
		Sources: sources,
		Count:   len(chunkResults),
	}, nil
}

// Ask retrieves context for the question, assembles a prompt, and sends
// it to the chat client for generation. Retrieval failures and generation
// failures both surface as errors; no partial answer is returned.
func Ask(
	ctx context.Context,
	question string,
	topK int,
	topSources int,
	model string,
	index *rag.Index,
	chatter llm.Chatter,
	logger *zap.Logger,
) (*AskOutput, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topSources <= 0 {
		topSources = DefaultTopSources
	}

	logger.Debug("ask request",
		zap.String("question", question),
		zap.Int("topK", topK),
	)

	results, err := index.QueryText(ctx, question, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}

	contextBlock, _ := rag.BuildContext(results)
	prompt := rag.BuildPrompt(contextBlock, question)

	resp, err := chatter.Chat(ctx, llm.ChatRequest{
		Model:  model,
		System: askSystemPrompt,
		Messages: []llm.Message{
			llm.NewUserMessage(prompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	sources := make([]SourceResult, 0, topSources)
	for _, ranked := range rag.TopDistinctSources(results, topSources) {
		sources = append(sources, SourceResult{
			Source:       ranked.Source,
			Page:         ranked.Page,
			Distance:     ranked.Distance,
			Preview:      utils.Truncate(ranked.SampleText, previewLen),
			MatchedTerms: rag.MatchedTerms(question, ranked.SampleText),
		})
	}

	return &AskOutput{
		Question: question,
		Answer:   resp.Content,
		Model:    resp.Model,
		Sources:  sources,
		Usage:    resp.Usage,
	}, nil
}
