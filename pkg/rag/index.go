// Package rag wires chunked documents, embeddings, and a vector store
// into a retrieval pipeline: populate a collection once, query it by
// text, and assemble grounded prompt context from the results.
package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lecternhq/lectern/pkg/embeddings"
	"github.com/lecternhq/lectern/pkg/ingest"
	"github.com/lecternhq/lectern/pkg/vector"
)

// Index is a handle to an embedding-backed chunk collection. It owns the
// populate-once policy and query-time embedding; storage is delegated to
// the vector driver.
type Index struct {
	driver   vector.Driver
	embedder embeddings.Embedder
	logger   *zap.Logger
}

// NewIndex creates an Index over the given driver and embedder. The same
// embedder must be used for population and queries; mixing embedding
// models across the two breaks distance comparability.
func NewIndex(driver vector.Driver, embedder embeddings.Embedder, logger *zap.Logger) *Index {
	return &Index{
		driver:   driver,
		embedder: embedder,
		logger:   logger,
	}
}

// Count returns the number of chunks currently stored.
func (ix *Index) Count(ctx context.Context) (int, error) {
	return ix.driver.Count(ctx)
}

// PopulateIfEmpty embeds and stores chunks only when the collection holds
// nothing. A non-empty collection is left untouched, whatever its
// contents, so repeated calls cost one Count check and no embedding work.
// Returns true when a bulk insert was performed.
//
// The check-then-insert sequence is not safe against concurrent
// populators of the same collection; callers must ensure at most one.
func (ix *Index) PopulateIfEmpty(ctx context.Context, chunks []ingest.Chunk) (bool, error) {
	n, err := ix.driver.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("checking collection count: %w", err)
	}
	if n > 0 {
		ix.logger.Debug("collection already populated, skipping build",
			zap.Int("count", n),
		)
		return false, nil
	}

	if len(chunks) == 0 {
		return false, nil
	}

	// Duplicate ids within one bulk insert would make the stored state
	// depend on driver upsert order, so they are rejected up front.
	seen := make(map[string]bool, len(chunks))
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		if seen[c.ID] {
			return false, fmt.Errorf("duplicate chunk id %q in bulk populate", c.ID)
		}
		seen[c.ID] = true
		texts[i] = c.Text
	}

	embs, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return false, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}

	docs := make([]vector.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = vector.Document{
			ID:         c.ID,
			Text:       c.Text,
			Source:     c.Source,
			Page:       c.Page,
			ChunkIndex: c.ChunkIndex,
			Embedding:  embs[i],
		}
	}

	if err := ix.driver.Add(ctx, docs); err != nil {
		return false, fmt.Errorf("storing %d chunks: %w", len(docs), err)
	}

	ix.logger.Info("collection populated",
		zap.Int("chunks", len(docs)),
	)

	return true, nil
}

// QueryText embeds the query with the index's embedder and returns the
// topK nearest chunks by ascending distance.
func (ix *Index) QueryText(ctx context.Context, query string, topK int) ([]vector.QueryResult, error) {
	emb, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query %q: %w", query, err)
	}

	results, err := ix.driver.Query(ctx, emb, topK)
	if err != nil {
		return nil, fmt.Errorf("querying for %q: %w", query, err)
	}

	ix.logger.Debug("query complete",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Drop empties the collection so the next PopulateIfEmpty rebuilds it.
// This is the only way to pick up corpus changes, since population is
// monotonic within a collection's lifetime.
func (ix *Index) Drop(ctx context.Context) error {
	if err := ix.driver.Drop(ctx); err != nil {
		return fmt.Errorf("dropping collection: %w", err)
	}
	ix.logger.Info("collection dropped")
	return nil
}

// Close releases the underlying driver and embedder.
func (ix *Index) Close() error {
	if err := ix.embedder.Close(); err != nil {
		ix.driver.Close()
		return err
	}
	return ix.driver.Close()
}
