// Package servecmder provides the serve command for running the Lectern servers.
package servecmder

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lecternhq/lectern/api"
	"github.com/lecternhq/lectern/api/mcp"
	"github.com/lecternhq/lectern/pkg/config"
	embeddingutils "github.com/lecternhq/lectern/pkg/embeddings/utils"
	"github.com/lecternhq/lectern/pkg/llm"
	llmutils "github.com/lecternhq/lectern/pkg/llm/utils"
	"github.com/lecternhq/lectern/pkg/logger"
	"github.com/lecternhq/lectern/pkg/rag"
	vectorutils "github.com/lecternhq/lectern/pkg/vector/utils"
)

type serveCommander struct {
	listen    string
	mcpListen string
	noMCP     bool

	vectorProvider string
	vectorTarget   string
	collection     string

	embeddingProvider   string
	embeddingTarget     string
	embeddingModel      string
	embeddingDimensions uint

	chatProvider string
	chatTarget   string
	chatModel    string

	topK       int
	topSources int

	debug  bool
	logger *zap.Logger
}

var serveFlagKeys = []string{
	config.FlagAPIListen,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagCollection,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagChatProv,
	config.FlagChatTgt,
	config.FlagChatModel,
	config.FlagTopK,
	config.FlagTopSources,
}

const serveLongDesc string = `Run the Lectern servers.

Starts the HTTP API server (/v1/search, /v1/ask, /v1/stats) and, unless
disabled, the MCP server exposing the search tool over streamable HTTP.
Both servers share one index and chat client.

Examples:
  lectern serve
  lectern serve --listen :8081 --mcp-listen :8082
  lectern serve --no-mcp`

const serveShortDesc string = "Run the Lectern API and MCP servers"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}
	flagSet := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, flagSet, serveFlagKeys)

			cmder.listen = v.GetString("api.listen")
			cmder.vectorProvider = v.GetString("vector_store.provider")
			cmder.vectorTarget = v.GetString("vector_store.target")
			cmder.collection = v.GetString("vector_store.collection")
			cmder.embeddingProvider = v.GetString("embedding.provider")
			cmder.embeddingTarget = v.GetString("embedding.target")
			cmder.embeddingModel = v.GetString("embedding.model")
			cmder.embeddingDimensions = v.GetUint("embedding.dimensions")
			cmder.chatProvider = v.GetString("chat.provider")
			cmder.chatTarget = v.GetString("chat.target")
			cmder.chatModel = v.GetString("chat.model")
			cmder.topK = v.GetInt("retrieval.top_k")
			cmder.topSources = v.GetInt("retrieval.top_sources")

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cmder.mcpListen, "mcp-listen", ":8082", "Address for the MCP server to listen on")
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Disable the MCP server")
	config.AddStringFlag(cmd, flagSet, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, flagSet, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, flagSet, config.FlagVectorStoreTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, flagSet, config.FlagCollection, &cmder.collection)
	config.AddStringFlag(cmd, flagSet, config.FlagEmbeddingProv, &cmder.embeddingProvider)
	config.AddStringFlag(cmd, flagSet, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, flagSet, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, flagSet, config.FlagEmbeddingDims, &cmder.embeddingDimensions)
	config.AddStringFlag(cmd, flagSet, config.FlagChatProv, &cmder.chatProvider)
	config.AddStringFlag(cmd, flagSet, config.FlagChatTgt, &cmder.chatTarget)
	config.AddStringFlag(cmd, flagSet, config.FlagChatModel, &cmder.chatModel)
	config.AddIntFlag(cmd, flagSet, config.FlagTopK, &cmder.topK)
	config.AddIntFlag(cmd, flagSet, config.FlagTopSources, &cmder.topSources)

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	driver, err := vectorutils.NewVectorDriver(ctx, &vectorutils.NewVectorDriverOpts{
		ProviderType: c.vectorProvider,
		TargetURL:    c.vectorTarget,
		Collection:   c.collection,
		Dimensions:   c.embeddingDimensions,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating vector driver: %w", err)
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: c.embeddingProvider,
		TargetURL:    c.embeddingTarget,
		Model:        c.embeddingModel,
		APIKey:       os.Getenv("OPENAI_API_KEY"),
	})
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("creating embedder: %w", err)
	}

	index := rag.NewIndex(driver, embedder, c.logger)
	defer func() { _ = index.Close() }()

	chatter, err := c.newChatter()
	if err != nil {
		c.logger.Warn("chat client unavailable, /v1/ask disabled", zap.Error(err))
	} else {
		defer func() { _ = chatter.Close() }()
	}

	apiServer := api.NewServer(api.Config{
		ListenAddr: c.listen,
		Index:      index,
		Chatter:    chatter,
		ChatModel:  c.chatModel,
		TopK:       c.topK,
		TopSources: c.topSources,
	}, c.logger)

	// Channel to capture errors from goroutines
	errChan := make(chan error, 2)

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	if !c.noMCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Index:      index,
			TopK:       c.topK,
			TopSources: c.topSources,
			Logger:     c.logger,
		})
		if err != nil {
			return fmt.Errorf("creating MCP server: %w", err)
		}

		c.logger.Info("starting MCP server",
			zap.String("listen", c.mcpListen),
		)

		go func() {
			if err := http.ListenAndServe(c.mcpListen, mcpServer.Handler()); err != nil {
				errChan <- fmt.Errorf("MCP server error: %w", err)
			}
		}()
	}

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}

func (c *serveCommander) newChatter() (llm.Chatter, error) {
	return llmutils.NewChatter(&llmutils.NewChatterOpts{
		ProviderType: c.chatProvider,
		TargetURL:    c.chatTarget,
		Model:        c.chatModel,
		APIKey:       os.Getenv("OPENAI_API_KEY"),
	})
}
