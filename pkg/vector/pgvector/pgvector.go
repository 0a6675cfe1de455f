// Package pgvector provides a PostgreSQL-backed vector driver using the
// pgvector extension.
package pgvector

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lecternhq/lectern/pkg/vector"
)

// Driver implements vector.Driver on PostgreSQL with pgvector.
type Driver struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Config holds configuration for the pgvector driver.
type Config struct {
	// ConnString is a PostgreSQL connection string or URL.
	ConnString string

	// Dimensions is the number of dimensions for the embedding vectors.
	// Must match the embedder in use.
	Dimensions uint
}

// NewDriver connects to PostgreSQL, ensures the pgvector extension and
// the chunks table exist, and returns a driver.
func NewDriver(ctx context.Context, c Config, logger *zap.Logger) (*Driver, error) {
	if c.ConnString == "" {
		return nil, fmt.Errorf("connection string is required")
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("pgvector embedding dimensions cannot be 0, must be configured")
	}

	pool, err := pgxpool.New(ctx, c.ConnString)
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to postgres: %v", vector.ErrConnection, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: pinging postgres: %v", vector.ErrConnection, err)
	}

	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS chunks (
			doc_id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			page_number INTEGER NOT NULL DEFAULT 0,
			chunk_index INTEGER NOT NULL DEFAULT 0,
			embedding vector(%d) NOT NULL
		)
	`, c.Dimensions)
	if _, err := pool.Exec(ctx, createTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating chunks table: %w", err)
	}

	if _, err := pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS chunks_embedding_idx ON chunks
		USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)
	`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating vector index: %w", err)
	}

	logger.Info("pgvector driver initialized",
		zap.Uint("dimensions", c.Dimensions),
	)

	return &Driver{
		pool:   pool,
		logger: logger,
	}, nil
}

// formatVector renders an embedding as a pgvector literal, e.g. "[1,2,3]".
func formatVector(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// Count returns the number of stored documents.
func (d *Driver) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Add stores documents with their embeddings.
// If a document with the same ID already exists, it is updated.
func (d *Driver) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			return fmt.Errorf("%w: document %s has no embedding", vector.ErrEmbedding, doc.ID)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO chunks (doc_id, text, source, page_number, chunk_index, embedding)
			VALUES ($1, $2, $3, $4, $5, $6::vector)
			ON CONFLICT (doc_id) DO UPDATE SET
				text = EXCLUDED.text,
				source = EXCLUDED.source,
				page_number = EXCLUDED.page_number,
				chunk_index = EXCLUDED.chunk_index,
				embedding = EXCLUDED.embedding
		`, doc.ID, doc.Text, doc.Source, doc.Page, doc.ChunkIndex, formatVector(doc.Embedding)); err != nil {
			return fmt.Errorf("inserting document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	d.logger.Debug("added documents to pgvector",
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query finds the topK nearest documents by cosine distance, ascending.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		return nil, nil
	}

	rows, err := d.pool.Query(ctx, `
		SELECT doc_id, text, source, page_number, chunk_index,
		       embedding <=> $1::vector AS distance
		FROM chunks
		ORDER BY distance
		LIMIT $2
	`, formatVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var results []vector.QueryResult
	for rows.Next() {
		var doc vector.Document
		var distance float64
		if err := rows.Scan(&doc.ID, &doc.Text, &doc.Source, &doc.Page, &doc.ChunkIndex, &distance); err != nil {
			return nil, fmt.Errorf("scanning query result: %w", err)
		}
		results = append(results, vector.QueryResult{
			Document: doc,
			Distance: float32(distance),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	d.logger.Debug("queried pgvector",
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Delete removes documents by their IDs.
func (d *Driver) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	if _, err := d.pool.Exec(ctx,
		`DELETE FROM chunks WHERE doc_id = ANY($1)`, ids,
	); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}

	d.logger.Debug("deleted documents from pgvector",
		zap.Int("count", len(ids)),
	)

	return nil
}

// Drop removes all documents.
func (d *Driver) Drop(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, `TRUNCATE chunks`); err != nil {
		return fmt.Errorf("dropping chunks: %w", err)
	}
	d.logger.Info("dropped pgvector collection")
	return nil
}

// Close releases the connection pool.
func (d *Driver) Close() error {
	d.pool.Close()
	return nil
}

var _ vector.Driver = (*Driver)(nil)
