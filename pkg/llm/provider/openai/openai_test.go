package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lecternhq/lectern/pkg/llm"
	"github.com/lecternhq/lectern/pkg/llm/provider/openai"
)

var _ = Describe("Client", func() {
	var (
		ctx    context.Context
		server *httptest.Server
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	Describe("NewClient", func() {
		It("requires an API key", func() {
			_, err := openai.NewClient(openai.Config{})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("api key is required"))
		})
	})

	Describe("Chat", func() {
		It("returns the first choice with usage and sends a bearer token", func() {
			var gotAuth string
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/chat/completions"))
				gotAuth = r.Header.Get("Authorization")
				json.NewEncoder(w).Encode(map[string]any{
					"model": "gpt-4o-mini",
					"choices": []map[string]any{
						{"message": map[string]any{"role": "assistant", "content": "the answer"}},
					},
					"usage": map[string]any{
						"prompt_tokens":     5,
						"completion_tokens": 7,
						"total_tokens":      12,
					},
				})
			}))

			client, err := openai.NewClient(openai.Config{BaseURL: server.URL, APIKey: "sk-test"})
			Expect(err).NotTo(HaveOccurred())

			resp, err := client.Chat(ctx, llm.ChatRequest{
				Messages: []llm.Message{llm.NewUserMessage("the question")},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Content).To(Equal("the answer"))
			Expect(resp.Usage.TotalTokens).To(Equal(12))
			Expect(gotAuth).To(Equal("Bearer sk-test"))
		})

		It("wraps non-200 responses in ErrGeneration", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			}))

			client, err := openai.NewClient(openai.Config{BaseURL: server.URL, APIKey: "sk-test"})
			Expect(err).NotTo(HaveOccurred())

			_, err = client.Chat(ctx, llm.ChatRequest{
				Messages: []llm.Message{llm.NewUserMessage("hi")},
			})
			Expect(err).To(MatchError(llm.ErrGeneration))
		})

		It("treats a response without choices as a generation failure", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"model": "gpt-4o-mini", "choices": []any{}})
			}))

			client, err := openai.NewClient(openai.Config{BaseURL: server.URL, APIKey: "sk-test"})
			Expect(err).NotTo(HaveOccurred())

			_, err = client.Chat(ctx, llm.ChatRequest{
				Messages: []llm.Message{llm.NewUserMessage("hi")},
			})
			Expect(err).To(MatchError(llm.ErrGeneration))
		})
	})
})
