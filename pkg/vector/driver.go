// Package vector provides interfaces and shared types for vector storage
// and nearest-neighbor retrieval.
package vector

import "context"

// Document represents a stored chunk with its embedding and provenance.
type Document struct {
	// ID uniquely identifies the chunk within a collection,
	// in the form "source::pN::cM".
	ID string

	// Text is the chunk text as stored.
	Text string

	// Source is the originating document filename.
	Source string

	// Page is the 1-based page number the chunk was extracted from.
	Page int

	// ChunkIndex is the 0-based position within the page's chunk sequence.
	ChunkIndex int

	// Embedding is the vector representation of Text.
	Embedding []float32
}

// QueryResult is a single nearest-neighbor hit.
type QueryResult struct {
	Document

	// Distance is a non-negative dissimilarity score; smaller means more
	// similar. Results are ordered by ascending distance as produced by
	// the backing store and are not re-sorted.
	Distance float32
}

// Driver handles storage and retrieval of embedded chunks for one named
// collection. Implementations upsert when Add sees an ID that already
// exists in the store; rejecting duplicate IDs within a single bulk call
// is the caller's responsibility.
type Driver interface {
	// Count returns the number of documents currently stored.
	Count(ctx context.Context) (int, error)

	// Add stores documents with their embeddings in one bulk operation.
	// Either all documents are stored or the store is left unchanged.
	Add(ctx context.Context, docs []Document) error

	// Query returns the topK documents nearest to the given embedding,
	// ordered by ascending distance.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Delete removes documents by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Drop removes every document, returning the collection to its
	// empty state so a subsequent populate rebuilds it.
	Drop(ctx context.Context) error

	// Close releases any resources held by the driver.
	Close() error
}
