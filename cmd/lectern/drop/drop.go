// Package dropcmder provides the drop command for clearing the indexed collection.
package dropcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lecternhq/lectern/pkg/cliui"
	"github.com/lecternhq/lectern/pkg/config"
	"github.com/lecternhq/lectern/pkg/logger"
	vectorutils "github.com/lecternhq/lectern/pkg/vector/utils"
)

type dropCommander struct {
	force bool

	vectorProvider string
	vectorTarget   string
	collection     string
	dimensions     uint

	debug  bool
	logger *zap.Logger
}

var dropFlagKeys = []string{
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagCollection,
	config.FlagEmbeddingDims,
}

const dropLongDesc string = `Remove every chunk from the indexed collection.

Returns the collection to its empty state so the next "lectern index" run
rebuilds it from scratch. Requires --force to actually delete.

Examples:
  lectern drop --force
  lectern drop --collection papers --force`

const dropShortDesc string = "Clear the indexed collection"

func NewDropCmd() *cobra.Command {
	cmder := &dropCommander{}
	flagSet := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "drop",
		Short: dropShortDesc,
		Long:  dropLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, flagSet, dropFlagKeys)

			cmder.vectorProvider = v.GetString("vector_store.provider")
			cmder.vectorTarget = v.GetString("vector_store.target")
			cmder.collection = v.GetString("vector_store.collection")
			cmder.dimensions = v.GetUint("embedding.dimensions")

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

	cmd.Flags().BoolVar(&cmder.force, "force", false, "Actually delete the collection contents")
	config.AddStringFlag(cmd, flagSet, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, flagSet, config.FlagVectorStoreTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, flagSet, config.FlagCollection, &cmder.collection)
	config.AddUintFlag(cmd, flagSet, config.FlagEmbeddingDims, &cmder.dimensions)

	return cmd
}

func (c *dropCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	if !c.force {
		fmt.Printf("This removes every chunk in collection %q. Re-run with --force to proceed.\n", c.collection)
		return nil
	}

	driver, err := vectorutils.NewVectorDriver(ctx, &vectorutils.NewVectorDriverOpts{
		ProviderType: c.vectorProvider,
		TargetURL:    c.vectorTarget,
		Collection:   c.collection,
		Dimensions:   c.dimensions,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating vector driver: %w", err)
	}
	defer func() { _ = driver.Close() }()

	count, err := driver.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting chunks: %w", err)
	}

	err = cliui.Step(os.Stdout, fmt.Sprintf("Dropping %d chunks from %q", count, c.collection), func() error {
		return driver.Drop(ctx)
	})
	if err != nil {
		return err
	}

	fmt.Println("Collection emptied. The next \"lectern index\" run rebuilds it.")
	return nil
}
