// Package lecterncmder
package lecterncmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/lecternhq/lectern/cmd/lectern/ask"
	configcmder "github.com/lecternhq/lectern/cmd/lectern/config"
	dropcmder "github.com/lecternhq/lectern/cmd/lectern/drop"
	indexcmder "github.com/lecternhq/lectern/cmd/lectern/index"
	searchcmder "github.com/lecternhq/lectern/cmd/lectern/search"
	servecmder "github.com/lecternhq/lectern/cmd/lectern/serve"
	versioncmder "github.com/lecternhq/lectern/cmd/lectern/version"
)

const lecternLongDesc string = `Lectern indexes your documents and answers questions about them.

Typical workflow:
  lectern index        Ingest and embed documents into the vector store
  lectern serve        Run the API and MCP servers
  lectern search       Retrieve the most relevant chunks for a query
  lectern ask          Ask a question answered from your documents`

const lecternShortDesc string = "Lectern - retrieval over your documents"

func NewLecternCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lectern",
		Short: lecternShortDesc,
		Long:  lecternLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Path to the .lectern config directory")

	// Add subcommands
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(dropcmder.NewDropCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
