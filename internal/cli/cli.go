package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vectorcad/pkg/buildinfo"
	"github.com/matzehuels/vectorcad/pkg/config"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and completions.
	appName = "vectorcad"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is bound to the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "vectorcad drives the 2D transform core from the command line",
		Long:         `vectorcad loads a JSON drawing, plays gesture scripts against it through the interaction core and reports what changed. It can also serve a drawing over HTTP for debugging.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file (env: VECTORCAD_*)")

	root.AddCommand(c.replayCommand())
	root.AddCommand(c.stepCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the layered configuration and applies its log level
// unless --verbose selected debug output.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil && c.Logger.GetLevel() != log.DebugLevel {
		c.Logger.SetLevel(level)
	}
	return cfg, nil
}
