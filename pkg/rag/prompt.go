package rag

import (
	"fmt"
	"strings"

	"github.com/lecternhq/lectern/pkg/vector"
)

// BuildContext formats retrieved chunks into a numbered, source-attributed
// context block for a generation call. Each chunk becomes one block in
// input order:
//
//	[Context N] Source: file.pdf (Page P)
//	chunk text
//
// Blocks are separated by a blank line. The second return value lists the
// distinct source names in first-occurrence order, for citation display.
func BuildContext(results []vector.QueryResult) (string, []string) {
	if len(results) == 0 {
		return "", nil
	}

	blocks := make([]string, 0, len(results))
	seen := make(map[string]bool)
	var sources []string

	for i, r := range results {
		blocks = append(blocks, fmt.Sprintf("[Context %d] Source: %s (Page %d)\n%s", i+1, r.Source, r.Page, r.Text))
		if !seen[r.Source] {
			seen[r.Source] = true
			sources = append(sources, r.Source)
		}
	}

	return strings.Join(blocks, "\n\n"), sources
}

// BuildPrompt wraps an assembled context block and the user's question
// into the final prompt for the generation call.
func BuildPrompt(contextBlock, question string) string {
	if contextBlock == "" {
		return question
	}
	return fmt.Sprintf("Use the following context to answer the question.\n\n%s\n\nQuestion: %s", contextBlock, question)
}
