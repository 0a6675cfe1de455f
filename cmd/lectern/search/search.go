// Package searchcmder provides the search command for semantic search over documents.
package searchcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apisearch "github.com/lecternhq/lectern/api/search"
	"github.com/lecternhq/lectern/pkg/config"
	"github.com/lecternhq/lectern/pkg/logger"
	"github.com/lecternhq/lectern/pkg/utils"
)

var (
	rankStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	distanceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	previewStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	matchedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type searchCommander struct {
	query      string
	topK       int
	topSources int
	quiet      bool

	apiTarget string

	debug  bool
	logger *zap.Logger
}

const searchLongDesc string = `Search indexed documents via the Lectern API.

Retrieves the chunks nearest to the query text, grouped by distinct source
document. Requires a running Lectern API server with an indexed collection.

Use --quiet to output only source filenames, one per line. This is useful
for piping into other commands.

Example:
  lectern search "gradient descent convergence"
  lectern search "entropy" --api-target http://localhost:8081
  lectern search "entropy" --top-k 20 --top-sources 5
  lectern search "entropy" --quiet`

const searchShortDesc string = "Search indexed documents"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}
	flagSet := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
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
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only source filenames, one per line (for piping)")
	config.AddStringFlag(cmd, flagSet, config.FlagAPITarget, &cmder.apiTarget)
	config.AddIntFlag(cmd, flagSet, config.FlagTopK, &cmder.topK)
	config.AddIntFlag(cmd, flagSet, config.FlagTopSources, &cmder.topSources)

	return cmd
}

func (c *searchCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	output, err := SearchAPI(c.apiTarget, c.query, c.topK, c.topSources)
	if err != nil {
		return err
	}

	if output.Count == 0 {
		if !c.quiet {
			fmt.Println("No results found.")
		}
		return nil
	}

	if c.quiet {
		for _, source := range output.Sources {
			fmt.Println(source.Source)
		}
		return nil
	}

	fmt.Printf("\n%s %s\n\n",
		headerStyle.Render("Search Results for:"),
		sourceStyle.Render(fmt.Sprintf("%q", output.Query)),
	)

	for i, source := range output.Sources {
		c.printSource(i+1, source)
	}

	fmt.Printf("%s\n\n", dimStyle.Render(fmt.Sprintf("%d chunks retrieved", output.Count)))

	return nil
}

func (c *searchCommander) printSource(rank int, source apisearch.SourceResult) {
	fmt.Printf("  %s  %s  %s\n",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		sourceStyle.Render(source.Source),
		distanceStyle.Render(fmt.Sprintf("page %d, distance: %.4f", source.Page, source.Distance)),
	)

	preview := utils.Truncate(strings.ReplaceAll(source.Preview, "\n", " "), 157)
	fmt.Printf("  %s\n", previewStyle.Render(preview))

	if len(source.MatchedTerms) > 0 {
		fmt.Printf("  %s %s\n",
			dimStyle.Render("matched:"),
			matchedStyle.Render(strings.Join(source.MatchedTerms, ", ")),
		)
	} else {
		fmt.Printf("  %s\n", dimStyle.Render("no query terms matched, verify relevance manually"))
	}

	fmt.Println()
}

// SearchAPI calls the lectern search API and returns the parsed output.
// Exported so other commands can reuse it.
func SearchAPI(apiTarget, query string, topK, topSources int) (*apisearch.SearchOutput, error) {
	searchURL, err := url.Parse(apiTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	searchURL.Path = "/v1/search"
	q := searchURL.Query()
	q.Set("query", query)
	q.Set("top_k", strconv.Itoa(topK))
	q.Set("top_sources", strconv.Itoa(topSources))
	searchURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

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
		return nil, fmt.Errorf("search request failed (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var output apisearch.SearchOutput
	if err := json.Unmarshal(body, &output); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	return &output, nil
}
