// Package chunk splits normalized text into fixed-size overlapping windows.
package chunk

import "strings"

const (
	// DefaultSize is the default window size in characters.
	DefaultSize = 1200

	// DefaultOverlap is the default number of characters shared by
	// consecutive windows.
	DefaultOverlap = 200
)

// Splitter produces overlapping character windows over normalized text.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter creates a Splitter with the given window size and overlap,
// both in characters. Non-positive size falls back to DefaultSize; negative
// overlap falls back to DefaultOverlap.
func NewSplitter(size, overlap int) *Splitter {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	return &Splitter{size: size, overlap: overlap}
}

// Normalize collapses all whitespace runs to single spaces and trims the ends.
// Window offsets are relative to the normalized text, not the original.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Split normalizes text and returns its overlapping windows in order.
// Size, overlap, and offsets are all counted in runes, never bytes, so
// window boundaries cannot land inside a multi-byte character.
// The window at offset i covers [i, i+size), clipped at the end of the text.
// The step between windows is max(size-overlap, 1), so an overlap equal to
// or larger than the window size still advances.
// Empty or whitespace-only input yields nil.
func (s *Splitter) Split(text string) []string {
	cleaned := []rune(Normalize(text))
	if len(cleaned) == 0 {
		return nil
	}

	step := s.size - s.overlap
	if step < 1 {
		step = 1
	}

	var windows []string
	for start := 0; start < len(cleaned); start += step {
		end := start + s.size
		if end > len(cleaned) {
			end = len(cleaned)
		}
		windows = append(windows, string(cleaned[start:end]))
	}

	return windows
}

// Size returns the configured window size.
func (s *Splitter) Size() int { return s.size }

// Overlap returns the configured window overlap.
func (s *Splitter) Overlap() int { return s.overlap }
