// Package sidedoorcmder
package sidedoorcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/sidedoor/cmd/sidedoor/config"
	servecmder "github.com/papercomputeco/sidedoor/cmd/sidedoor/serve"
	versioncmder "github.com/papercomputeco/sidedoor/cmd/version"
)

const sidedoorLongDesc string = `Sidedoor is an OpenAI-compatible gateway for upstream chat services
that speak their own streaming protocol.

Point any OpenAI chat-completions client at sidedoor and it translates
requests and response streams in both directions:
  sidedoor serve           Run the gateway server
  sidedoor config          Manage persistent configuration
  sidedoor version         Show build information`

const sidedoorShortDesc string = "Sidedoor - OpenAI-compatible chat gateway"

func NewSidedoorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sidedoor",
		Short: sidedoorShortDesc,
		Long:  sidedoorLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .sidedoor/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
