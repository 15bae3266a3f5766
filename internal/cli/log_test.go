package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vectorcad/pkg/config"
	"github.com/matzehuels/vectorcad/pkg/script"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{name: "info at info level", level: log.InfoLevel, logFunc: func(l *log.Logger) { l.Info("replay") }, wantLog: true},
		{name: "debug at info level", level: log.InfoLevel, logFunc: func(l *log.Logger) { l.Debug("gesture begin") }},
		{name: "debug at debug level", level: log.DebugLevel, logFunc: func(l *log.Logger) { l.Debug("gesture begin") }, wantLog: true},
		{name: "info at warn level", level: log.WarnLevel, logFunc: func(l *log.Logger) { l.Info("replay") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			assert.Equal(t, tt.wantLog, buf.Len() > 0)
		})
	}
}

func TestComponentLogger(t *testing.T) {
	assert.Nil(t, componentLogger(nil, "session"))

	var buf bytes.Buffer
	root := newLogger(&buf, log.InfoLevel)
	componentLogger(root, "history").Info("undo")
	assert.Contains(t, buf.String(), "history")
	assert.Contains(t, buf.String(), "undo")
	assert.Empty(t, root.GetPrefix(), "root logger keeps its prefix")
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("script finished", "steps", 3, "applied", 2)

	out := buf.String()
	assert.Contains(t, out, "script finished")
	assert.Contains(t, out, "steps=3")
	assert.Contains(t, out, "applied=2")
	assert.Contains(t, out, "elapsed=")
}

func TestLoggerContext(t *testing.T) {
	assert.Same(t, log.Default(), loggerFromContext(context.Background()))

	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)
	assert.Same(t, custom, loggerFromContext(withLogger(context.Background(), custom)))
}

// lineWith returns the first log line containing msg.
func lineWith(out, msg string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, msg) {
			return line
		}
	}
	return ""
}

func TestWorkspaceLogsPerComponent(t *testing.T) {
	var buf bytes.Buffer
	ws, err := newWorkspace(testDocument(t), config.Default(), newLogger(&buf, log.DebugLevel))
	require.NoError(t, err)
	defer ws.close()

	sc, err := script.Decode(strings.NewReader(dragScript))
	require.NoError(t, err)
	_, err = ws.runner.Run(context.Background(), sc)
	require.NoError(t, err)
	require.True(t, ws.hist.Undo())

	out := buf.String()
	assert.Contains(t, lineWith(out, "gesture commit"), "session")
	assert.Contains(t, lineWith(out, "history entry"), "history")
	assert.Contains(t, lineWith(out, "undo"), "history")
}

func TestWorkspaceRunsWithoutLogger(t *testing.T) {
	ws, err := newWorkspace(testDocument(t), config.Default(), nil)
	require.NoError(t, err)
	defer ws.close()

	sc, err := script.Decode(strings.NewReader(dragScript))
	require.NoError(t, err)
	report, err := ws.runner.Run(context.Background(), sc)
	require.NoError(t, err)
	assert.Len(t, report.Results, 1)
}
