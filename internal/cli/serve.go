package cli

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vectorcad/internal/server"
	"github.com/matzehuels/vectorcad/pkg/metrics"
)

// serveCommand creates the serve command, which exposes a document over
// HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <document.json>",
		Short: "Serve a document over HTTP for debugging",
		Long: `Load a JSON document and serve it with its history, session and transform
log. Gesture scripts can be posted to /script; Prometheus metrics are on
/metrics.`,
		Example: `  vectorcad serve drawing.json
  vectorcad serve drawing.json --addr :9000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, docPath, addr string) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ws, err := openWorkspace(docPath, cfg, logger)
	if err != nil {
		return err
	}
	defer ws.close()

	reg := prometheus.NewRegistry()
	metrics.New(reg).Install()

	srv := server.New(ws.doc, ws.hist, ws.session,
		server.WithGatherer(reg),
		server.WithLogger(logger),
	)
	printInfo("serving %s on http://%s", docPath, addr)
	if err := srv.ListenAndServe(ctx, addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
