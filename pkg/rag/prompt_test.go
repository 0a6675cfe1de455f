package rag_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lecternhq/lectern/pkg/rag"
	"github.com/lecternhq/lectern/pkg/vector"
)

var _ = Describe("BuildContext", func() {
	It("numbers blocks with source and page, separated by blank lines", func() {
		results := []vector.QueryResult{
			{Document: vector.Document{Source: "A.pdf", Page: 1, Text: "alpha text"}},
			{Document: vector.Document{Source: "B.pdf", Page: 2, Text: "beta text"}},
		}

		contextBlock, sources := rag.BuildContext(results)
		Expect(contextBlock).To(Equal(
			"[Context 1] Source: A.pdf (Page 1)\nalpha text\n\n[Context 2] Source: B.pdf (Page 2)\nbeta text",
		))
		Expect(sources).To(Equal([]string{"A.pdf", "B.pdf"}))
	})

	It("lists each distinct source once, in first-occurrence order", func() {
		results := []vector.QueryResult{
			{Document: vector.Document{Source: "B.pdf", Page: 1, Text: "one"}},
			{Document: vector.Document{Source: "A.pdf", Page: 2, Text: "two"}},
			{Document: vector.Document{Source: "B.pdf", Page: 3, Text: "three"}},
		}

		_, sources := rag.BuildContext(results)
		Expect(sources).To(Equal([]string{"B.pdf", "A.pdf"}))
	})

	It("returns empty output for no results", func() {
		contextBlock, sources := rag.BuildContext(nil)
		Expect(contextBlock).To(BeEmpty())
		Expect(sources).To(BeEmpty())
	})
})

var _ = Describe("BuildPrompt", func() {
	It("wraps context and question", func() {
		prompt := rag.BuildPrompt("[Context 1] Source: A.pdf (Page 1)\ntext", "what is this?")
		Expect(prompt).To(ContainSubstring("[Context 1]"))
		Expect(prompt).To(HaveSuffix("Question: what is this?"))
	})

	It("falls back to the bare question without context", func() {
		Expect(rag.BuildPrompt("", "what is this?")).To(Equal("what is this?"))
	})
})

var _ = Describe("MatchedTerms", func() {
	It("matches query terms longer than two characters, case-insensitively", func() {
		matched := rag.MatchedTerms("Text Mining AI", "an overview of text mining methods")
		Expect(matched).To(Equal([]string{"text", "mining"}))
	})

	It("returns nothing when no terms match", func() {
		Expect(rag.MatchedTerms("quantum physics", "a cooking guide")).To(BeEmpty())
	})

	It("ignores short terms entirely", func() {
		Expect(rag.MatchedTerms("an is to", "an is to")).To(BeEmpty())
	})
})
