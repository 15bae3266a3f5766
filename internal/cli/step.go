package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vectorcad/pkg/script"
)

// stepCommand creates the interactive step command.
func (c *CLI) stepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "step <document.json> <script.toml>",
		Short: "Step through a gesture script interactively",
		Long: `Open a terminal UI that applies one script step per key press and shows
the document after each step. Undo and redo act on the document history.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStep(cmd.Context(), args[0], args[1])
		},
	}
}

func (c *CLI) runStep(ctx context.Context, docPath, scriptPath string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	sc, err := script.Load(scriptPath)
	if err != nil {
		return err
	}
	// The TUI owns the terminal; keep session logs out of it.
	ws, err := openWorkspace(docPath, cfg, nil)
	if err != nil {
		return err
	}
	defer ws.close()

	final, err := tea.NewProgram(newStepModel(ctx, ws, sc), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(StepModel); ok {
		printInfo("applied %d of %d steps", m.Next, len(sc.Steps))
	}
	return nil
}
