// Package memory provides an in-memory vector driver using brute-force
// search. Suitable for tests and small corpora with no external services.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/lecternhq/lectern/pkg/vector"
)

// Driver is an in-memory vector.Driver. Distances are cosine distances
// (1 - cosine similarity), so they are ascending-better like the remote
// backends. Contents live exactly as long as the Driver value.
type Driver struct {
	mu   sync.RWMutex
	ids  []string
	docs map[string]vector.Document
}

// NewDriver creates an empty in-memory driver.
func NewDriver() *Driver {
	return &Driver{docs: make(map[string]vector.Document)}
}

// Count returns the number of stored documents.
func (d *Driver) Count(ctx context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.ids), nil
}

// Add stores documents, overwriting any existing entry with the same ID.
// Embeddings are validated up front so a bad document leaves the store
// unchanged.
func (d *Driver) Add(ctx context.Context, docs []vector.Document) error {
	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			return fmt.Errorf("%w: document %s has no embedding", vector.ErrEmbedding, doc.ID)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, doc := range docs {
		if _, exists := d.docs[doc.ID]; !exists {
			d.ids = append(d.ids, doc.ID)
		}
		emb := make([]float32, len(doc.Embedding))
		copy(emb, doc.Embedding)
		doc.Embedding = emb
		d.docs[doc.ID] = doc
	}
	return nil
}

// Query returns the topK documents by ascending cosine distance.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 || len(embedding) == 0 {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	results := make([]vector.QueryResult, 0, len(d.ids))
	for _, id := range d.ids {
		doc := d.docs[id]
		results = append(results, vector.QueryResult{
			Document: doc,
			Distance: cosineDistance(embedding, doc.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Delete removes documents by ID. Unknown IDs are ignored.
func (d *Driver) Delete(ctx context.Context, ids []string) error {
	remove := make(map[string]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.ids[:0]
	for _, id := range d.ids {
		if remove[id] {
			delete(d.docs, id)
			continue
		}
		kept = append(kept, id)
	}
	d.ids = kept
	return nil
}

// Drop clears the store.
func (d *Driver) Drop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = nil
	d.docs = make(map[string]vector.Document)
	return nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

// cosineDistance returns 1 - cosine similarity, clamped to [0, 2].
// Mismatched or zero-length vectors score as maximally distant.
func cosineDistance(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 2
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	dist := 1 - sim
	if dist < 0 {
		dist = 0
	}
	return float32(dist)
}

var _ vector.Driver = (*Driver)(nil)
