package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	docio "github.com/matzehuels/vectorcad/pkg/io"
	"github.com/matzehuels/vectorcad/pkg/script"
)

// replayOptions holds the flags of the replay command.
type replayOptions struct {
	out     string
	log     bool
	publish string
	quiet   bool
}

// replayCommand creates the replay command, which runs a gesture script
// against a document.
func (c *CLI) replayCommand() *cobra.Command {
	var opts replayOptions

	cmd := &cobra.Command{
		Use:   "replay <document.json> <script.toml>",
		Short: "Run a gesture script against a document",
		Long: `Load a JSON document, play the steps of a TOML gesture script through the
interaction core and print the resulting entities and commit results.

Use --out to write the edited document, --log to record and print the
transform log, and --publish to append the emitted events to a Redis stream.`,
		Example: `  vectorcad replay drawing.json drag.toml
  vectorcad replay drawing.json drag.toml --out edited.json --log
  vectorcad replay drawing.json drag.toml --publish redis://localhost:6379/0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the edited document to this file")
	cmd.Flags().BoolVar(&opts.log, "log", false, "record and print the transform log")
	cmd.Flags().StringVar(&opts.publish, "publish", "", "Redis URL to publish events to (overrides events.redis_url)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "skip the entity and result tables")

	return cmd
}

func (c *CLI) runReplay(ctx context.Context, docPath, scriptPath string, opts replayOptions) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.publish != "" {
		cfg.Events.RedisURL = opts.publish
	}
	if opts.log {
		cfg.TransformLog.Enabled = true
	}

	sc, err := script.Load(scriptPath)
	if err != nil {
		return err
	}
	ws, err := openWorkspace(docPath, cfg, logger)
	if err != nil {
		return err
	}
	defer ws.close()

	prog := newProgress(logger)
	report, err := ws.runner.Run(ctx, sc)
	if err != nil {
		return err
	}
	prog.done("script finished", "script", sc.Name, "steps", len(report.Steps), "applied", report.Applied())

	if !opts.quiet {
		fmt.Println(StyleTitle.Render("Entities"))
		fmt.Println(entityTable(ws.doc.Entities()))
		if len(report.Results) > 0 {
			fmt.Println(StyleTitle.Render("Commit results"))
			fmt.Println(resultTable(report.Results))
		}
	}
	if opts.log {
		if ws.session.LogOverflowed() {
			printWarning("transform log overflowed")
		} else {
			fmt.Println(StyleTitle.Render("Transform log"))
			fmt.Println(logTable(ws.session.LogEntries(), ws.session.LogIDs()))
		}
	}
	if ws.session.Active() {
		printWarning("script ended with an active gesture")
	}

	if ws.publisher != nil {
		spinner := newSpinnerWithContext(ctx, "Publishing events...")
		spinner.Start()
		n, err := ws.publisher.Flush(ctx)
		if err != nil {
			spinner.StopWithError("Publishing failed")
			return err
		}
		spinner.StopWithSuccess(fmt.Sprintf("Published %d events to %s", n, ws.publisher.Stream()))
	}

	if opts.out != "" {
		if err := docio.ExportJSON(ws.doc, opts.out); err != nil {
			return err
		}
		printSuccess("Wrote document")
		printFile(opts.out)
	}
	return nil
}
