package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vectorcad/pkg/buildinfo"
)

// SetVersion overrides the build information shown by --version.
// Builds that set the buildinfo variables through ldflags don't need it.
//
// Parameters:
//   - v: semantic version string (e.g., "v1.2.3")
//   - c: git commit SHA (short or long form)
//   - d: build timestamp (e.g., "2025-12-20T14:32:01Z")
func SetVersion(v, c, d string) {
	buildinfo.Version = v
	buildinfo.Commit = c
	buildinfo.Date = d
}

// Execute runs the vectorcad CLI with the given arguments and returns an
// error if the command fails. A nil args slice uses os.Args.
//
// Logging:
//   - Default: the config file's log.level, info when unset (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	var verbose bool

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	if args != nil {
		root.SetArgs(args)
	}
	return root.ExecuteContext(ctx)
}
