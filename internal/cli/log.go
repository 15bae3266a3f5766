// Package cli implements the vectorcad command-line interface.
//
// The commands load a JSON document, wire it to a pick index, an undo
// history and an interaction session, and then drive that session from a
// gesture script, an interactive terminal UI or an HTTP server. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - replay: Run a gesture script and print entities and commit results
//   - step: Apply a gesture script one step at a time in a terminal UI
//   - serve: Serve a document, its history and metrics over HTTP
//   - config: Print the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so commands share the root logger.
//
// # Example
//
//	import "github.com/matzehuels/vectorcad/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.Execute(ctx, nil); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the root CLI logger. Timestamps are formatted as
// "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// componentLogger derives the logger handed to one workspace component
// (session, history, script, events). A nil root stays nil so the component
// discards its output.
func componentLogger(root *log.Logger, component string) *log.Logger {
	if root == nil {
		return nil
	}
	return root.WithPrefix(component)
}

// progress times one CLI operation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time rounded to milliseconds,
// e.g. "script finished steps=3 applied=3 elapsed=12ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches the root logger to ctx for the subcommands.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default when commands run outside the root command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
