package rag

import "strings"

// MatchedTerms reports which query terms longer than two characters
// appear in the sample text, case-insensitively. An empty result means
// the match should be reviewed manually rather than trusted.
func MatchedTerms(query, sample string) []string {
	sampleLower := strings.ToLower(sample)

	var matched []string
	for _, term := range strings.Fields(query) {
		if len(term) <= 2 {
			continue
		}
		term = strings.ToLower(term)
		if strings.Contains(sampleLower, term) {
			matched = append(matched, term)
		}
	}
	return matched
}
