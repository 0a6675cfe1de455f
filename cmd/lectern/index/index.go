// Package indexcmder provides the index command for ingesting and embedding documents.
package indexcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lecternhq/lectern/pkg/chunk"
	"github.com/lecternhq/lectern/pkg/cliui"
	"github.com/lecternhq/lectern/pkg/config"
	embeddingutils "github.com/lecternhq/lectern/pkg/embeddings/utils"
	"github.com/lecternhq/lectern/pkg/ingest"
	"github.com/lecternhq/lectern/pkg/logger"
	"github.com/lecternhq/lectern/pkg/rag"
	vectorutils "github.com/lecternhq/lectern/pkg/vector/utils"
)

type indexCommander struct {
	documentsDir string

	vectorProvider string
	vectorTarget   string
	collection     string

	embeddingProvider   string
	embeddingTarget     string
	embeddingModel      string
	embeddingDimensions uint

	chunkSize    int
	chunkOverlap int

	debug  bool
	logger *zap.Logger
}

var indexFlagKeys = []string{
	config.FlagDocumentsDir,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagCollection,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagChunkSize,
	config.FlagChunkOverlap,
}

const indexLongDesc string = `Ingest, chunk, and embed documents into the vector store.

Walks the documents directory for PDF files, extracts text page by page,
splits each page into fixed-size overlapping chunks, embeds the chunks, and
stores them with source and page provenance.

Indexing only runs against an empty collection. If the collection already
holds chunks, the existing index is reused untouched; run "lectern drop"
first to rebuild from scratch.

Example:
  lectern index --documents-dir ./papers
  lectern index --documents-dir ./papers --vector-store-provider chroma --vector-store-target http://localhost:8000`

const indexShortDesc string = "Ingest and embed documents"

func NewIndexCmd() *cobra.Command {
	cmder := &indexCommander{}
	flagSet := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "index",
		Short: indexShortDesc,
		Long:  indexLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, flagSet, indexFlagKeys)

			cmder.documentsDir = v.GetString("documents.dir")
			cmder.vectorProvider = v.GetString("vector_store.provider")
			cmder.vectorTarget = v.GetString("vector_store.target")
			cmder.collection = v.GetString("vector_store.collection")
			cmder.embeddingProvider = v.GetString("embedding.provider")
			cmder.embeddingTarget = v.GetString("embedding.target")
			cmder.embeddingModel = v.GetString("embedding.model")
			cmder.embeddingDimensions = v.GetUint("embedding.dimensions")
			cmder.chunkSize = v.GetInt("chunking.size")
			cmder.chunkOverlap = v.GetInt("chunking.overlap")

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

	config.AddStringFlag(cmd, flagSet, config.FlagDocumentsDir, &cmder.documentsDir)
	config.AddStringFlag(cmd, flagSet, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, flagSet, config.FlagVectorStoreTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, flagSet, config.FlagCollection, &cmder.collection)
	config.AddStringFlag(cmd, flagSet, config.FlagEmbeddingProv, &cmder.embeddingProvider)
	config.AddStringFlag(cmd, flagSet, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, flagSet, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, flagSet, config.FlagEmbeddingDims, &cmder.embeddingDimensions)
	config.AddIntFlag(cmd, flagSet, config.FlagChunkSize, &cmder.chunkSize)
	config.AddIntFlag(cmd, flagSet, config.FlagChunkOverlap, &cmder.chunkOverlap)

	return cmd
}

func (c *indexCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	if c.documentsDir == "" {
		return fmt.Errorf("documents directory is required (set --documents-dir or documents.dir)")
	}

	if _, err := os.Stat(c.documentsDir); err != nil {
		return fmt.Errorf("documents directory %s: %w", c.documentsDir, err)
	}

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

	splitter := chunk.NewSplitter(c.chunkSize, c.chunkOverlap)
	ingestor := ingest.NewIngestor(ingest.NewPDFExtractor(), splitter, c.logger)

	var chunks []ingest.Chunk
	var skipped []string
	err = cliui.Step(os.Stdout, fmt.Sprintf("Ingesting documents from %s", c.documentsDir), func() error {
		var ingestErr error
		chunks, skipped, ingestErr = ingestor.IngestDir(c.documentsDir, ".pdf")
		return ingestErr
	})
	if err != nil {
		return err
	}

	for _, path := range skipped {
		fmt.Printf("  %s skipped %s\n", cliui.FailMark, path)
	}

	if len(chunks) == 0 {
		fmt.Println("No chunks produced; nothing to index.")
		return nil
	}

	var populated bool
	err = cliui.Step(os.Stdout, fmt.Sprintf("Embedding and storing %d chunks", len(chunks)), func() error {
		var popErr error
		populated, popErr = index.PopulateIfEmpty(ctx, chunks)
		return popErr
	})
	if err != nil {
		return err
	}

	if !populated {
		count, countErr := index.Count(ctx)
		if countErr != nil {
			return countErr
		}
		fmt.Printf("Collection already holds %d chunks; existing index reused. Run \"lectern drop\" to rebuild.\n", count)
		return nil
	}

	fmt.Printf("Indexed %d chunks.\n", len(chunks))
	return nil
}
