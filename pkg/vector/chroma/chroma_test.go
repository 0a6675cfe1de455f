package chroma_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/lecternhq/lectern/pkg/vector"
	"github.com/lecternhq/lectern/pkg/vector/chroma"
)

// newChromaStub returns an httptest server that answers the collection
// lookup and records upsert/query/count bodies for inspection.
func newChromaStub(handler http.HandlerFunc) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/collections/test") {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"id": "col-1", "name": "test"})
			return
		}
		handler(w, r)
	}))
}

var _ = Describe("Driver", func() {
	var logger *zap.Logger

	BeforeEach(func() {
		logger = zap.NewNop()
	})

	Describe("NewDriver", func() {
		It("returns an error when URL is empty", func() {
			_, err := chroma.NewDriver(chroma.Config{URL: ""}, logger)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("chroma URL is required"))
		})

		It("resolves the collection id on startup", func() {
			server := newChromaStub(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "unexpected call", http.StatusInternalServerError)
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{URL: server.URL, CollectionName: "test"}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(driver).NotTo(BeNil())
		})

		It("creates the collection when it does not exist", func() {
			var created bool
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					http.NotFound(w, r)
				case http.MethodPost:
					created = true
					w.Header().Set("Content-Type", "application/json")
					json.NewEncoder(w).Encode(map[string]string{"id": "col-new", "name": "test"})
				}
			}))
			defer server.Close()

			_, err := chroma.NewDriver(chroma.Config{URL: server.URL, CollectionName: "test"}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())
		})

		It("does not create when the collection lookup hits a server fault", func() {
			var created bool
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					http.Error(w, "internal error", http.StatusInternalServerError)
				case http.MethodPost:
					created = true
				}
			}))
			defer server.Close()

			_, err := chroma.NewDriver(chroma.Config{URL: server.URL, CollectionName: "test"}, logger)
			Expect(err).To(MatchError(vector.ErrConnection))
			Expect(err.Error()).To(ContainSubstring("status 500"))
			Expect(created).To(BeFalse())
		})

		It("wraps startup failures as connection errors", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			}))
			defer server.Close()

			_, err := chroma.NewDriver(chroma.Config{URL: server.URL, CollectionName: "test"}, logger)
			Expect(err).To(MatchError(vector.ErrConnection))
		})
	})

	Describe("Count", func() {
		It("decodes the bare integer count response", func() {
			server := newChromaStub(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(HaveSuffix("/col-1/count"))
				w.Write([]byte("42"))
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{URL: server.URL, CollectionName: "test"}, logger)
			Expect(err).NotTo(HaveOccurred())

			count, err := driver.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(42))
		})
	})

	Describe("Add", func() {
		It("sends ids, embeddings, documents, and metadata in one upsert", func() {
			var body map[string]any
			server := newChromaStub(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(HaveSuffix("/col-1/upsert"))
				Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
				w.WriteHeader(http.StatusOK)
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{URL: server.URL, CollectionName: "test"}, logger)
			Expect(err).NotTo(HaveOccurred())

			docs := []vector.Document{
				{ID: "a.pdf::p1::c0", Text: "alpha", Source: "a.pdf", Page: 1, ChunkIndex: 0, Embedding: []float32{0.1, 0.2}},
				{ID: "a.pdf::p2::c0", Text: "beta", Source: "a.pdf", Page: 2, ChunkIndex: 0, Embedding: []float32{0.3, 0.4}},
			}
			Expect(driver.Add(context.Background(), docs)).To(Succeed())

			Expect(body["ids"]).To(HaveLen(2))
			Expect(body["documents"]).To(Equal([]any{"alpha", "beta"}))
			metadatas := body["metadatas"].([]any)
			first := metadatas[0].(map[string]any)
			Expect(first["source"]).To(Equal("a.pdf"))
			Expect(first["page_number"]).To(BeNumerically("==", 1))
			Expect(first["chunk_index"]).To(BeNumerically("==", 0))
		})

		It("is a no-op for an empty batch", func() {
			server := newChromaStub(func(w http.ResponseWriter, r *http.Request) {
				Fail("no request expected for empty batch")
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{URL: server.URL, CollectionName: "test"}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(driver.Add(context.Background(), nil)).To(Succeed())
		})
	})

	Describe("Query", func() {
		It("maps nested response groups into ordered results", func() {
			server := newChromaStub(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(HaveSuffix("/col-1/query"))
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"ids":       [][]string{{"a.pdf::p1::c0", "b.pdf::p3::c1"}},
					"distances": [][]float32{{0.12, 0.48}},
					"documents": [][]string{{"alpha", "gamma"}},
					"metadatas": [][]map[string]any{{
						{"source": "a.pdf", "page_number": 1, "chunk_index": 0},
						{"source": "b.pdf", "page_number": 3, "chunk_index": 1},
					}},
				})
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{URL: server.URL, CollectionName: "test"}, logger)
			Expect(err).NotTo(HaveOccurred())

			results, err := driver.Query(context.Background(), []float32{0.1, 0.2}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))

			Expect(results[0].ID).To(Equal("a.pdf::p1::c0"))
			Expect(results[0].Text).To(Equal("alpha"))
			Expect(results[0].Source).To(Equal("a.pdf"))
			Expect(results[0].Page).To(Equal(1))
			Expect(results[0].Distance).To(BeNumerically("~", 0.12, 1e-6))

			Expect(results[1].Source).To(Equal("b.pdf"))
			Expect(results[1].Page).To(Equal(3))
			Expect(results[1].ChunkIndex).To(Equal(1))
		})

		It("returns empty results for an empty collection", func() {
			server := newChromaStub(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"ids": [][]string{{}}, "distances": [][]float32{{}},
				})
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{URL: server.URL, CollectionName: "test"}, logger)
			Expect(err).NotTo(HaveOccurred())

			results, err := driver.Query(context.Background(), []float32{0.1}, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})
	})

	Describe("Interface compliance", func() {
		It("implements vector.Driver", func() {
			var _ vector.Driver = (*chroma.Driver)(nil)
		})
	})
})
