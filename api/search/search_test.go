package search_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apisearch "github.com/lecternhq/lectern/api/search"
	"github.com/lecternhq/lectern/pkg/logger"
	"github.com/lecternhq/lectern/pkg/rag"
	testutils "github.com/lecternhq/lectern/pkg/utils/test"
	"github.com/lecternhq/lectern/pkg/vector"
)

func chunkDoc(id, text, source string, page, chunkIndex int, distance float32) vector.QueryResult {
	return vector.QueryResult{
		Document: vector.Document{
			ID: id, Text: text, Source: source, Page: page, ChunkIndex: chunkIndex,
		},
		Distance: distance,
	}
}

var _ = Describe("Search", func() {
	var (
		vectorDriver *testutils.MockVectorDriver
		index        *rag.Index
		ctx          context.Context
	)

	BeforeEach(func() {
		vectorDriver = testutils.NewMockVectorDriver()
		index = rag.NewIndex(vectorDriver, testutils.NewMockEmbedder(), logger.Nop())
		ctx = context.Background()
	})

	It("returns chunks in store order with source summaries", func() {
		vectorDriver.SetResults([]vector.QueryResult{
			chunkDoc("a.pdf::p1::c0", "neural networks learn features", "a.pdf", 1, 0, 0.10),
			chunkDoc("a.pdf::p2::c0", "backpropagation computes gradients", "a.pdf", 2, 0, 0.20),
			chunkDoc("b.pdf::p5::c1", "decision trees split on features", "b.pdf", 5, 1, 0.30),
		})

		output, err := apisearch.Search(ctx, "neural networks", 10, 3, index, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		Expect(output.Count).To(Equal(3))
		Expect(output.Results[0].ID).To(Equal("a.pdf::p1::c0"))
		Expect(output.Results[1].ID).To(Equal("a.pdf::p2::c0"))
		Expect(output.Results[2].ID).To(Equal("b.pdf::p5::c1"))

		Expect(output.Sources).To(HaveLen(2))
		Expect(output.Sources[0].Source).To(Equal("a.pdf"))
		Expect(output.Sources[0].Distance).To(BeNumerically("~", 0.10, 0.001))
		Expect(output.Sources[1].Source).To(Equal("b.pdf"))
	})

	It("reports which query terms the nearest chunk contains", func() {
		vectorDriver.SetResults([]vector.QueryResult{
			chunkDoc("a.pdf::p1::c0", "neural networks learn features", "a.pdf", 1, 0, 0.10),
		})

		output, err := apisearch.Search(ctx, "neural architecture", 10, 3, index, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		Expect(output.Sources[0].MatchedTerms).To(Equal([]string{"neural"}))
	})

	It("truncates long previews", func() {
		long := strings.Repeat("chunk text ", 40)
		vectorDriver.SetResults([]vector.QueryResult{
			chunkDoc("a.pdf::p1::c0", long, "a.pdf", 1, 0, 0.10),
		})

		output, err := apisearch.Search(ctx, "chunk", 10, 3, index, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		Expect(len(output.Sources[0].Preview)).To(BeNumerically("<", len(long)))
		Expect(output.Sources[0].Preview).To(HaveSuffix("..."))
	})

	It("returns an empty result set for an empty store", func() {
		output, err := apisearch.Search(ctx, "anything", 10, 3, index, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		Expect(output.Count).To(BeZero())
		Expect(output.Results).To(BeEmpty())
		Expect(output.Sources).To(BeEmpty())
	})

	It("propagates store failures", func() {
		vectorDriver.FailQuery = errors.New("store offline")

		_, err := apisearch.Search(ctx, "anything", 10, 3, index, logger.Nop())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("store offline"))
	})
})

var _ = Describe("Ask", func() {
	var (
		vectorDriver *testutils.MockVectorDriver
		chatter      *testutils.MockChatter
		index        *rag.Index
		ctx          context.Context
	)

	BeforeEach(func() {
		vectorDriver = testutils.NewMockVectorDriver()
		vectorDriver.SetResults([]vector.QueryResult{
			chunkDoc("notes.pdf::p4::c2", "entropy always increases", "notes.pdf", 4, 2, 0.15),
		})
		chatter = testutils.NewMockChatter("It increases.")
		index = rag.NewIndex(vectorDriver, testutils.NewMockEmbedder(), logger.Nop())
		ctx = context.Background()
	})

	It("assembles the retrieved context into the prompt", func() {
		output, err := apisearch.Ask(ctx, "what happens to entropy?", 10, 3, "llama3.2", index, chatter, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		Expect(output.Answer).To(Equal("It increases."))
		Expect(output.Sources).To(HaveLen(1))
		Expect(output.Sources[0].Source).To(Equal("notes.pdf"))

		Expect(chatter.Requests).To(HaveLen(1))
		prompt := chatter.Requests[0].Messages[0].Content
		Expect(prompt).To(ContainSubstring("[Context 1] Source: notes.pdf (Page 4)"))
		Expect(prompt).To(ContainSubstring("entropy always increases"))
		Expect(prompt).To(ContainSubstring("Question: what happens to entropy?"))
	})

	It("asks the bare question when nothing is indexed", func() {
		vectorDriver.SetResults(nil)

		_, err := apisearch.Ask(ctx, "what happens to entropy?", 10, 3, "llama3.2", index, chatter, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		Expect(chatter.Requests).To(HaveLen(1))
		Expect(chatter.Requests[0].Messages[0].Content).To(Equal("what happens to entropy?"))
	})

	It("propagates generation failures without a partial answer", func() {
		chatter.FailWith = errors.New("model not loaded")

		output, err := apisearch.Ask(ctx, "what happens to entropy?", 10, 3, "llama3.2", index, chatter, logger.Nop())
		Expect(err).To(HaveOccurred())
		Expect(output).To(BeNil())
	})
})
