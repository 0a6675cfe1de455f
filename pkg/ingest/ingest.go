// Package ingest extracts per-page text from documents and chunks it
// with provenance metadata for indexing.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/lecternhq/lectern/pkg/chunk"
)

// Chunk is an immutable piece of normalized page text with provenance.
type Chunk struct {
	// ID is "{source}::p{page}::c{index}", unique within a collection.
	ID string

	// Text is the normalized chunk text, never empty.
	Text string

	// Source is the originating document filename.
	Source string

	// Page is the 1-based page number in document order.
	Page int

	// ChunkIndex is the 0-based position within the page's chunk sequence.
	ChunkIndex int
}

// Ingestor turns documents into chunk sequences.
type Ingestor struct {
	extractor PageExtractor
	splitter  *chunk.Splitter
	logger    *zap.Logger
}

// NewIngestor creates an Ingestor using the given page extractor and
// chunk splitter.
func NewIngestor(extractor PageExtractor, splitter *chunk.Splitter, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		extractor: extractor,
		splitter:  splitter,
		logger:    logger,
	}
}

// IngestBytes chunks raw document bytes under the given source name.
// Pages whose extracted text is empty or whitespace-only contribute no
// chunks; surviving pages keep their original 1-based page numbers.
func (ig *Ingestor) IngestBytes(content []byte, source string) ([]Chunk, error) {
	pages, err := ig.extractor.ExtractPages(content)
	if err != nil {
		return nil, fmt.Errorf("extracting pages from %s: %w", source, err)
	}

	var chunks []Chunk
	for i, pageText := range pages {
		pageNum := i + 1
		windows := ig.splitter.Split(pageText)
		if len(windows) == 0 {
			continue
		}
		for ci, text := range windows {
			chunks = append(chunks, Chunk{
				ID:         fmt.Sprintf("%s::p%d::c%d", source, pageNum, ci),
				Text:       text,
				Source:     source,
				Page:       pageNum,
				ChunkIndex: ci,
			})
		}
	}

	ig.logger.Debug("ingested document",
		zap.String("source", source),
		zap.Int("pages", len(pages)),
		zap.Int("chunks", len(chunks)),
	)

	return chunks, nil
}

// IngestFile reads and chunks a single document from disk. The source
// name recorded on chunks is the file's base name.
func (ig *Ingestor) IngestFile(path string) ([]Chunk, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ig.IngestBytes(content, filepath.Base(path))
}

// IngestBatch ingests a batch of files. A missing or unreadable file is
// skipped with a warning and returned in skipped; ingestion of the
// remaining files continues. Extraction failures on readable files are
// treated the same way, so the batch as a whole never fails.
func (ig *Ingestor) IngestBatch(paths []string) (chunks []Chunk, skipped []string) {
	for _, path := range paths {
		cs, err := ig.IngestFile(path)
		if err != nil {
			ig.logger.Warn("skipping document",
				zap.String("path", path),
				zap.Error(err),
			)
			skipped = append(skipped, filepath.Base(path))
			continue
		}
		chunks = append(chunks, cs...)
	}
	return chunks, skipped
}

// IngestDir ingests every file in a directory whose extension matches
// exts (e.g. ".pdf"). An empty exts list accepts every regular file.
func (ig *Ingestor) IngestDir(dir string, exts ...string) (chunks []Chunk, skipped []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if len(exts) > 0 && !matchesExt(entry.Name(), exts) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	chunks, skipped = ig.IngestBatch(paths)
	return chunks, skipped, nil
}

func matchesExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
