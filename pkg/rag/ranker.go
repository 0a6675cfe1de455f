package rag

import "github.com/lecternhq/lectern/pkg/vector"

// RankedSource is one distinct source document drawn from a query
// result, carrying its nearest occurrence's distance and text.
type RankedSource struct {
	// Source is the originating document filename.
	Source string

	// Distance is the source's minimum distance in the query result,
	// which is its first occurrence since results arrive nearest-first.
	Distance float32

	// SampleText is the text of that nearest chunk.
	SampleText string

	// Page is the page the nearest chunk came from.
	Page int
}

// TopDistinctSources walks results in their given ascending-distance
// order and collects the first occurrence of each distinct source, up to
// limit. Fewer than limit distinct sources yields a shorter list.
func TopDistinctSources(results []vector.QueryResult, limit int) []RankedSource {
	if limit <= 0 {
		return nil
	}

	seen := make(map[string]bool, limit)
	var ranked []RankedSource
	for _, r := range results {
		if seen[r.Source] {
			continue
		}
		seen[r.Source] = true
		ranked = append(ranked, RankedSource{
			Source:     r.Source,
			Distance:   r.Distance,
			SampleText: r.Text,
			Page:       r.Page,
		})
		if len(ranked) == limit {
			break
		}
	}
	return ranked
}
