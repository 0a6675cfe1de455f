// Package configcmder provides the config command for managing persistent
// lectern configuration stored in the .lectern/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent lectern configuration.

Configuration is stored as config.toml in the .lectern/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  documents.dir,
  api.listen, client.api_target,
  vector_store.provider, vector_store.target, vector_store.collection,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  chat.provider, chat.target, chat.model,
  retrieval.top_k, retrieval.top_sources,
  chunking.size, chunking.overlap

Use subcommands to get, set, or list configuration values:
  lectern config set <key> <value>    Set a configuration value
  lectern config get <key>            Get a configuration value
  lectern config list                 List all configuration values

Examples:
  lectern config set documents.dir ./papers
  lectern config set embedding.model nomic-embed-text
  lectern config get chat.model
  lectern config list`

const configShortDesc string = "Manage persistent lectern configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
