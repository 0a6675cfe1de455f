package ingest

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageExtractor turns raw document bytes into per-page plain text.
// A page that yields no text comes back as an empty string, not an error.
type PageExtractor interface {
	ExtractPages(content []byte) ([]string, error)
}

// PDFExtractor extracts per-page text from PDF bytes.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF page extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractPages returns one string per page in document order. Pages that
// cannot be read (image-only or malformed) yield empty strings so page
// numbering stays aligned with the document.
func (e *PDFExtractor) ExtractPages(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	numPages := r.NumPage()
	pages := make([]string, numPages)
	for i := 0; i < numPages; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Extraction noise is expected on scanned pages.
			continue
		}
		pages[i] = text
	}

	return pages, nil
}

var _ PageExtractor = (*PDFExtractor)(nil)
