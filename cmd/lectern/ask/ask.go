// Package askcmder provides the ask command for question answering over documents.
package askcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apisearch "github.com/lecternhq/lectern/api/search"
	"github.com/lecternhq/lectern/pkg/cliui"
	"github.com/lecternhq/lectern/pkg/config"
	"github.com/lecternhq/lectern/pkg/logger"
)

type askCommander struct {
	question   string
	topK       int
	topSources int
	model      string
	plain      bool

	apiTarget string

	debug  bool
	logger *zap.Logger
}

const askLongDesc string = `Ask a question answered from your indexed documents.

Retrieves the chunks nearest to the question, assembles them into a
source-attributed context, and sends the context plus question to the
configured chat model. The answer is rendered as markdown along with the
source documents it drew from.

Requires a running Lectern API server with an indexed collection and a
configured chat provider.

Examples:
  lectern ask "what is the second law of thermodynamics?"
  lectern ask "summarize chapter 3" --chat-model qwen2.5
  lectern ask "what is entropy?" --plain`

const askShortDesc string = "Ask a question about your documents"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}
	flagSet := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("api-target") {
				cmder.apiTarget = cfg.Client.APITarget
			}
			if !cmd.Flags().Changed("top-k") {
				cmder.topK = cfg.Retrieval.TopK
			}
			if !cmd.Flags().Changed("top-sources") {
				cmder.topSources = cfg.Retrieval.TopSources
			}
			if !cmd.Flags().Changed("chat-model") {
				cmder.model = cfg.Chat.Model
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.question = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Print the answer without markdown rendering")
	config.AddStringFlag(cmd, flagSet, config.FlagAPITarget, &cmder.apiTarget)
	config.AddStringFlag(cmd, flagSet, config.FlagChatModel, &cmder.model)
	config.AddIntFlag(cmd, flagSet, config.FlagTopK, &cmder.topK)
	config.AddIntFlag(cmd, flagSet, config.FlagTopSources, &cmder.topSources)

	return cmd
}

func (c *askCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	output, err := AskAPI(c.apiTarget, apisearch.AskInput{
		Question:   c.question,
		TopK:       c.topK,
		TopSources: c.topSources,
		Model:      c.model,
	})
	if err != nil {
		return err
	}

	if c.plain {
		fmt.Println(output.Answer)
	} else {
		rendered, renderErr := cliui.RenderMarkdown(output.Answer)
		if renderErr != nil {
			c.logger.Debug("markdown rendering failed, printing raw", zap.Error(renderErr))
			rendered = output.Answer
		}
		fmt.Print(rendered)
	}

	if len(output.Sources) > 0 {
		fmt.Println("Sources:")
		for _, source := range output.Sources {
			fmt.Printf("  %s\n", cliui.FormatSource(source.Source, source.Page))
		}
		fmt.Println()
	}

	return nil
}

// AskAPI calls the lectern ask API and returns the parsed output.
func AskAPI(apiTarget string, input apisearch.AskInput) (*apisearch.AskOutput, error) {
	askURL, err := url.Parse(apiTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	askURL.Path = "/v1/ask"

	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encoding ask request: %w", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, askURL.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Lectern API at %s: %w", apiTarget, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ask request failed (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var output apisearch.AskOutput
	if err := json.Unmarshal(body, &output); err != nil {
		return nil, fmt.Errorf("failed to parse ask response: %w", err)
	}

	return &output, nil
}
