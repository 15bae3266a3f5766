package cli

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// configCommand prints the effective configuration as TOML.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after applying the defaults, the --config file and
VECTORCAD_* environment variables. The output is valid input for --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}
}
