package api

import (
	"bytes"
	"encoding/json"
	"errors"
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

func askRequest(input apisearch.AskInput) *http.Request {
	body, err := json.Marshal(input)
	Expect(err).NotTo(HaveOccurred())

	req, err := http.NewRequest(http.MethodPost, "/v1/ask", bytes.NewReader(body))
	Expect(err).NotTo(HaveOccurred())
	req.Header.Set("Content-Type", "application/json")
	return req
}

var _ = Describe("handleAskEndpoint", func() {
	var (
		server       *Server
		vectorDriver *testutils.MockVectorDriver
		chatter      *testutils.MockChatter
	)

	BeforeEach(func() {
		vectorDriver = testutils.NewMockVectorDriver()
		vectorDriver.SetResults([]vector.QueryResult{
			{
				Document: vector.Document{
					ID: "physics.pdf::p2::c0", Text: "force equals mass times acceleration",
					Source: "physics.pdf", Page: 2, ChunkIndex: 0,
				},
				Distance: 0.1,
			},
		})

		chatter = testutils.NewMockChatter("Newton's second law relates force to acceleration.")
		index := rag.NewIndex(vectorDriver, testutils.NewMockEmbedder(), logger.Nop())

		server = NewServer(Config{
			ListenAddr: ":0",
			Index:      index,
			Chatter:    chatter,
			ChatModel:  "llama3.2",
			TopK:       12,
			TopSources: 3,
		}, logger.Nop())
	})

	Context("when ask is not configured", func() {
		It("returns 503 without a chat client", func() {
			noChatServer := NewServer(Config{
				ListenAddr: ":0",
				Index:      rag.NewIndex(vectorDriver, testutils.NewMockEmbedder(), logger.Nop()),
			}, logger.Nop())

			resp, err := noChatServer.app.Test(askRequest(apisearch.AskInput{Question: "what is force?"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusServiceUnavailable))
		})
	})

	Context("when the question is missing", func() {
		It("returns 400", func() {
			resp, err := server.app.Test(askRequest(apisearch.AskInput{}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Context("with a valid question", func() {
		It("returns the generated answer with sources", func() {
			resp, err := server.app.Test(askRequest(apisearch.AskInput{Question: "what is force?"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var output apisearch.AskOutput
			Expect(json.NewDecoder(resp.Body).Decode(&output)).To(Succeed())

			Expect(output.Question).To(Equal("what is force?"))
			Expect(output.Answer).To(Equal("Newton's second law relates force to acceleration."))
			Expect(output.Sources).To(HaveLen(1))
			Expect(output.Sources[0].Source).To(Equal("physics.pdf"))
			Expect(output.Sources[0].Page).To(Equal(2))
		})

		It("sends the retrieved context to the chat client", func() {
			_, err := server.app.Test(askRequest(apisearch.AskInput{Question: "what is force?"}))
			Expect(err).NotTo(HaveOccurred())

			Expect(chatter.Requests).To(HaveLen(1))
			sent := chatter.Requests[0]
			Expect(sent.Model).To(Equal("llama3.2"))
			Expect(sent.Messages).To(HaveLen(1))
			Expect(sent.Messages[0].Content).To(ContainSubstring("[Context 1] Source: physics.pdf (Page 2)"))
			Expect(sent.Messages[0].Content).To(ContainSubstring("Question: what is force?"))
		})

		It("lets the request override the configured model", func() {
			_, err := server.app.Test(askRequest(apisearch.AskInput{Question: "what is force?", Model: "qwen2.5"}))
			Expect(err).NotTo(HaveOccurred())

			Expect(chatter.Requests).To(HaveLen(1))
			Expect(chatter.Requests[0].Model).To(Equal("qwen2.5"))
		})
	})

	Context("when generation fails", func() {
		It("returns 500", func() {
			chatter.FailWith = errors.New("upstream unavailable")

			resp, err := server.app.Test(askRequest(apisearch.AskInput{Question: "what is force?"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
		})
	})
})
