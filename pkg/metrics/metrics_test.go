package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vectorcad/pkg/observability"
)

func TestTransformMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Transform.OnBegin("move", 3)
	m.Transform.OnUpdate("move", time.Millisecond, 5, 2)
	m.Transform.OnUpdate("move", time.Millisecond, 1, 0)
	m.Transform.OnCommit("move", 3, 20*time.Millisecond)
	m.Transform.OnBegin("rotate", 1)
	m.Transform.OnCancel("rotate")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transform.gestures.WithLabelValues("move", "commit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transform.gestures.WithLabelValues("rotate", "cancel")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transform.snapHits))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Transform.participants))
}

func TestHistoryAndScriptMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.History.OnCommit(2)
	m.History.OnUndo()
	m.History.OnUndo()
	m.History.OnRedo()
	m.History.OnDiscard()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.History.ops.WithLabelValues("undo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.History.ops.WithLabelValues("discard")))

	ctx := context.Background()
	m.Script.OnStepComplete(ctx, "s.toml", 0, "begin", time.Microsecond, nil)
	m.Script.OnStepComplete(ctx, "s.toml", 1, "update", time.Microsecond, errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Script.steps.WithLabelValues("update", "error")))

	m.HTTP.OnRequest(ctx, "GET", "/healthz", 200, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTP.requests.WithLabelValues("GET", "/healthz", "200")))
}

func TestInstall(t *testing.T) {
	t.Cleanup(observability.Reset)
	m := New(prometheus.NewRegistry())
	m.Install()

	observability.Transform().OnCancel("move")
	observability.History().OnRedo()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transform.gestures.WithLabelValues("move", "cancel")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.History.ops.WithLabelValues("redo")))
}

func TestNewPanicsOnDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	require.Panics(t, func() { New(reg) })
}
