// Package configcmder provides the config command for managing persistent
// sidedoor configuration stored in the .sidedoor/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent sidedoor configuration.

Configuration is stored as config.toml in the .sidedoor/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  server.listen,
  auth.shared_secret,
  upstream.url, upstream.origin, upstream.complete_mode,
  models.ids, models.default

Use subcommands to get, set, or list configuration values:
  sidedoor config set <key> <value>    Set a configuration value
  sidedoor config get <key>            Get a configuration value
  sidedoor config list                 List all configuration values

Examples:
  sidedoor config set upstream.url https://chat.example.com/api/chat
  sidedoor config set models.ids alpha,beta
  sidedoor config get server.listen
  sidedoor config list`

const configShortDesc string = "Manage persistent sidedoor configuration"

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
