package testutils

import (
	"context"

	"github.com/lecternhq/lectern/pkg/vector"
)

// MockVectorDriver is a test vector driver
type MockVectorDriver struct {
	documents []vector.Document
	results   []vector.QueryResult

	// FailQuery causes Query to return this error.
	FailQuery error
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		documents: make([]vector.Document, 0),
		results:   make([]vector.QueryResult, 0),
	}
}

// SetResults sets the canned results returned by Query.
func (m *MockVectorDriver) SetResults(results []vector.QueryResult) {
	m.results = results
}

// Documents returns every document passed to Add so far.
func (m *MockVectorDriver) Documents() []vector.Document {
	return m.documents
}

func (m *MockVectorDriver) Count(_ context.Context) (int, error) {
	return len(m.documents), nil
}

func (m *MockVectorDriver) Add(_ context.Context, docs []vector.Document) error {
	m.documents = append(m.documents, docs...)
	return nil
}

func (m *MockVectorDriver) Query(_ context.Context, _ []float32, topK int) ([]vector.QueryResult, error) {
	if m.FailQuery != nil {
		return nil, m.FailQuery
	}
	if len(m.results) < topK || topK < 0 {
		return m.results, nil
	}
	return m.results[:topK], nil
}

func (m *MockVectorDriver) Delete(_ context.Context, ids []string) error {
	keep := m.documents[:0]
	for _, doc := range m.documents {
		drop := false
		for _, id := range ids {
			if doc.ID == id {
				drop = true
				break
			}
		}
		if !drop {
			keep = append(keep, doc)
		}
	}
	m.documents = keep
	return nil
}

func (m *MockVectorDriver) Drop(_ context.Context) error {
	m.documents = m.documents[:0]
	return nil
}

func (m *MockVectorDriver) Close() error {
	return nil
}
