package utils

// Truncate is a simple string truncate. maxLen counts runes, so the cut
// never lands inside a multi-byte character.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
