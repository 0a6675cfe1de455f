// Package llmutils is the chat client utility package
package llmutils

import (
	"fmt"

	"github.com/lecternhq/lectern/pkg/llm"
	"github.com/lecternhq/lectern/pkg/llm/provider/ollama"
	"github.com/lecternhq/lectern/pkg/llm/provider/openai"
)

type NewChatterOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
}

func NewChatter(o *NewChatterOpts) (llm.Chatter, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewClient(ollama.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "openai":
		return openai.NewClient(openai.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			APIKey:  o.APIKey,
		})
	default:
		return nil, fmt.Errorf("unsupported chat provider: %s", o.ProviderType)
	}
}
