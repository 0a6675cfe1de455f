package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lecternhq/lectern/pkg/embeddings/ollama"
	"github.com/lecternhq/lectern/pkg/vector"
)

var _ = Describe("Embedder", func() {
	var (
		ctx      context.Context
		server   *httptest.Server
		requests []map[string]any
	)

	BeforeEach(func() {
		ctx = context.Background()
		requests = nil
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	newServer := func(embeddings [][]float32, status int) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/api/embed"))
			var body map[string]any
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
			requests = append(requests, body)

			if status != http.StatusOK {
				w.WriteHeader(status)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"embeddings": embeddings})
		}))
	}

	Describe("NewEmbedder", func() {
		It("applies defaults for empty config", func() {
			embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(embedder).NotTo(BeNil())
			Expect(embedder.Close()).To(Succeed())
		})
	})

	Describe("Embed", func() {
		It("returns the first embedding from the response", func() {
			server = newServer([][]float32{{0.1, 0.2, 0.3}}, http.StatusOK)
			embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL, Model: "all-minilm"})
			Expect(err).NotTo(HaveOccurred())

			emb, err := embedder.Embed(ctx, "hello world")
			Expect(err).NotTo(HaveOccurred())
			Expect(emb).To(Equal([]float32{0.1, 0.2, 0.3}))

			Expect(requests).To(HaveLen(1))
			Expect(requests[0]["model"]).To(Equal("all-minilm"))
			Expect(requests[0]["input"]).To(Equal("hello world"))
		})

		It("wraps upstream failures in ErrEmbedding", func() {
			server = newServer(nil, http.StatusInternalServerError)
			embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
			Expect(err).NotTo(HaveOccurred())

			_, err = embedder.Embed(ctx, "hello")
			Expect(err).To(MatchError(vector.ErrEmbedding))
		})

		It("errors when the response carries no embeddings", func() {
			server = newServer([][]float32{}, http.StatusOK)
			embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
			Expect(err).NotTo(HaveOccurred())

			_, err = embedder.Embed(ctx, "hello")
			Expect(err).To(MatchError(vector.ErrEmbedding))
		})
	})

	Describe("EmbedBatch", func() {
		It("sends all texts in one request and keeps order", func() {
			server = newServer([][]float32{{1, 0}, {0, 1}}, http.StatusOK)
			embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
			Expect(err).NotTo(HaveOccurred())

			embs, err := embedder.EmbedBatch(ctx, []string{"first", "second"})
			Expect(err).NotTo(HaveOccurred())
			Expect(embs).To(Equal([][]float32{{1, 0}, {0, 1}}))

			Expect(requests).To(HaveLen(1))
			Expect(requests[0]["input"]).To(Equal([]any{"first", "second"}))
		})

		It("errors when the embedding count does not match the input count", func() {
			server = newServer([][]float32{{1, 0}}, http.StatusOK)
			embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
			Expect(err).NotTo(HaveOccurred())

			_, err = embedder.EmbedBatch(ctx, []string{"first", "second"})
			Expect(err).To(MatchError(vector.ErrEmbedding))
		})

		It("does nothing for an empty batch", func() {
			embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: "http://unused"})
			Expect(err).NotTo(HaveOccurred())

			embs, err := embedder.EmbedBatch(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(embs).To(BeNil())
		})
	})
})
