package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lecternhq/lectern/pkg/logger"
	"github.com/lecternhq/lectern/pkg/rag"
	testutils "github.com/lecternhq/lectern/pkg/utils/test"
	"github.com/lecternhq/lectern/pkg/vector"
)

var _ = Describe("Server", func() {
	var (
		server       *Server
		vectorDriver *testutils.MockVectorDriver
		embedder     *testutils.MockEmbedder
		index        *rag.Index
	)

	BeforeEach(func() {
		vectorDriver = testutils.NewMockVectorDriver()
		embedder = testutils.NewMockEmbedder()
		index = rag.NewIndex(vectorDriver, embedder, logger.Nop())

		server = NewServer(Config{
			ListenAddr: ":0",
			Index:      index,
			TopK:       12,
			TopSources: 3,
		}, logger.Nop())
	})

	Describe("GET /ping", func() {
		It("returns pong", func() {
			req, err := http.NewRequest(http.MethodGet, "/ping", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal(`"pong"`))
		})
	})

	Describe("GET /v1/stats", func() {
		It("returns the chunk count", func() {
			err := vectorDriver.Add(context.Background(), []vector.Document{
				{ID: "notes.pdf::p1::c0", Text: "alpha", Source: "notes.pdf", Page: 1, Embedding: []float32{1, 0, 0}},
				{ID: "notes.pdf::p1::c1", Text: "beta", Source: "notes.pdf", Page: 1, Embedding: []float32{0, 1, 0}},
			})
			Expect(err).NotTo(HaveOccurred())

			req, err := http.NewRequest(http.MethodGet, "/v1/stats", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var stats StatsResponse
			Expect(json.NewDecoder(resp.Body).Decode(&stats)).To(Succeed())
			Expect(stats.Chunks).To(Equal(2))
		})

		It("returns 503 when no index is configured", func() {
			noIndexServer := NewServer(Config{ListenAddr: ":0"}, logger.Nop())

			req, err := http.NewRequest(http.MethodGet, "/v1/stats", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := noIndexServer.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusServiceUnavailable))
		})
	})
})
