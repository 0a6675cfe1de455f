package api

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apisearch "github.com/lecternhq/lectern/api/search"
	"github.com/lecternhq/lectern/pkg/logger"
	"github.com/lecternhq/lectern/pkg/rag"
	testutils "github.com/lecternhq/lectern/pkg/utils/test"
	"github.com/lecternhq/lectern/pkg/vector"
)

var _ = Describe("handleSearchEndpoint", func() {
	var (
		server       *Server
		vectorDriver *testutils.MockVectorDriver
		embedder     *testutils.MockEmbedder
	)

	BeforeEach(func() {
		vectorDriver = testutils.NewMockVectorDriver()
		embedder = testutils.NewMockEmbedder()
		index := rag.NewIndex(vectorDriver, embedder, logger.Nop())

		server = NewServer(Config{
			ListenAddr: ":0",
			Index:      index,
			TopK:       12,
			TopSources: 3,
		}, logger.Nop())
	})

	Context("when search is not configured", func() {
		It("returns 503 when the index is nil", func() {
			noSearchServer := NewServer(Config{ListenAddr: ":0"}, logger.Nop())

			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=test", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := noSearchServer.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusServiceUnavailable))
		})
	})

	Context("when query parameter is missing", func() {
		It("returns 400", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			var errResp ErrorResponse
			Expect(json.NewDecoder(resp.Body).Decode(&errResp)).To(Succeed())
			Expect(errResp.Error).To(ContainSubstring("query parameter is required"))
		})
	})

	Context("when top_k is invalid", func() {
		It("returns 400 for non-numeric values", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=test&top_k=lots", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns 400 for zero", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=test&top_k=0", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Context("when the store holds matching chunks", func() {
		BeforeEach(func() {
			vectorDriver.SetResults([]vector.QueryResult{
				{
					Document: vector.Document{
						ID: "calculus.pdf::p3::c1", Text: "the derivative measures change",
						Source: "calculus.pdf", Page: 3, ChunkIndex: 1,
					},
					Distance: 0.12,
				},
				{
					Document: vector.Document{
						ID: "calculus.pdf::p7::c0", Text: "integration accumulates area",
						Source: "calculus.pdf", Page: 7, ChunkIndex: 0,
					},
					Distance: 0.25,
				},
				{
					Document: vector.Document{
						ID: "algebra.pdf::p1::c0", Text: "a derivative-free view",
						Source: "algebra.pdf", Page: 1, ChunkIndex: 0,
					},
					Distance: 0.31,
				},
			})
		})

		It("returns ranked chunks and distinct sources", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=derivative", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var output apisearch.SearchOutput
			Expect(json.NewDecoder(resp.Body).Decode(&output)).To(Succeed())

			Expect(output.Query).To(Equal("derivative"))
			Expect(output.Count).To(Equal(3))
			Expect(output.Results[0].ID).To(Equal("calculus.pdf::p3::c1"))
			Expect(output.Results[0].Distance).To(BeNumerically("~", 0.12, 0.001))

			Expect(output.Sources).To(HaveLen(2))
			Expect(output.Sources[0].Source).To(Equal("calculus.pdf"))
			Expect(output.Sources[0].Page).To(Equal(3))
			Expect(output.Sources[1].Source).To(Equal("algebra.pdf"))
		})

		It("honors top_sources", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=derivative&top_sources=1", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var output apisearch.SearchOutput
			Expect(json.NewDecoder(resp.Body).Decode(&output)).To(Succeed())
			Expect(output.Sources).To(HaveLen(1))
			Expect(output.Sources[0].Source).To(Equal("calculus.pdf"))
		})
	})
})
