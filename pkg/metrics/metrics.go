// Package metrics implements the observability hooks on Prometheus.
//
// Create the collectors once, register them with a registry and install
// them as the global hooks:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	m.Install()
//
// The debug server exposes the registry on /metrics.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/vectorcad/pkg/observability"
)

const namespace = "vectorcad"

// Metrics bundles the hook implementations for every instrumented area.
type Metrics struct {
	Transform *Transform
	History   *History
	Script    *Script
	HTTP      *HTTP
}

// New creates every collector and registers it with reg. A nil reg uses
// the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Transform: newTransform(),
		History:   newHistory(),
		Script:    newScript(),
		HTTP:      newHTTP(),
	}
	reg.MustRegister(m.Transform.collectors()...)
	reg.MustRegister(m.History.collectors()...)
	reg.MustRegister(m.Script.collectors()...)
	reg.MustRegister(m.HTTP.collectors()...)
	return m
}

// Install registers m as the global observability hooks.
func (m *Metrics) Install() {
	observability.SetTransformHooks(m.Transform)
	observability.SetHistoryHooks(m.History)
	observability.SetScriptHooks(m.Script)
	observability.SetHTTPHooks(m.HTTP)
}

// =============================================================================
// Transform
// =============================================================================

// Transform implements observability.TransformHooks.
type Transform struct {
	gestures       *prometheus.CounterVec
	participants   *prometheus.HistogramVec
	updateDuration *prometheus.HistogramVec
	snapCandidates prometheus.Histogram
	snapHits       prometheus.Counter
	gestureLength  *prometheus.HistogramVec
}

func newTransform() *Transform {
	return &Transform{
		gestures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transform",
			Name:      "gestures_total",
			Help:      "Transform gestures by mode and outcome.",
		}, []string{"mode", "outcome"}),
		participants: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transform",
			Name:      "participants",
			Help:      "Entities taking part in a gesture.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"mode"}),
		updateDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transform",
			Name:      "update_duration_seconds",
			Help:      "Time spent applying one pointer update.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"mode"}),
		snapCandidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "snap",
			Name:      "candidates",
			Help:      "Pick index candidates examined per update.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		snapHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snap",
			Name:      "hits_total",
			Help:      "Axes snapped to an object feature.",
		}),
		gestureLength: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transform",
			Name:      "gesture_duration_seconds",
			Help:      "Time from begin to commit.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
	}
}

func (t *Transform) collectors() []prometheus.Collector {
	return []prometheus.Collector{t.gestures, t.participants, t.updateDuration, t.snapCandidates, t.snapHits, t.gestureLength}
}

func (t *Transform) OnBegin(mode string, participants int) {
	t.gestures.WithLabelValues(mode, "begin").Inc()
	t.participants.WithLabelValues(mode).Observe(float64(participants))
}

func (t *Transform) OnUpdate(mode string, d time.Duration, candidates, hits int) {
	t.updateDuration.WithLabelValues(mode).Observe(d.Seconds())
	t.snapCandidates.Observe(float64(candidates))
	t.snapHits.Add(float64(hits))
}

func (t *Transform) OnCommit(mode string, _ int, d time.Duration) {
	t.gestures.WithLabelValues(mode, "commit").Inc()
	t.gestureLength.WithLabelValues(mode).Observe(d.Seconds())
}

func (t *Transform) OnCancel(mode string) {
	t.gestures.WithLabelValues(mode, "cancel").Inc()
}

// =============================================================================
// History
// =============================================================================

// History implements observability.HistoryHooks.
type History struct {
	ops     *prometheus.CounterVec
	changes prometheus.Histogram
}

func newHistory() *History {
	return &History{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "operations_total",
			Help:      "History operations by kind.",
		}, []string{"op"}),
		changes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "entry_changes",
			Help:      "Entity changes stored per history entry.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

func (h *History) collectors() []prometheus.Collector {
	return []prometheus.Collector{h.ops, h.changes}
}

func (h *History) OnCommit(changes int) {
	h.ops.WithLabelValues("commit").Inc()
	h.changes.Observe(float64(changes))
}

func (h *History) OnDiscard() { h.ops.WithLabelValues("discard").Inc() }
func (h *History) OnUndo()    { h.ops.WithLabelValues("undo").Inc() }
func (h *History) OnRedo()    { h.ops.WithLabelValues("redo").Inc() }

// =============================================================================
// Script
// =============================================================================

// Script implements observability.ScriptHooks.
type Script struct {
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newScript() *Script {
	return &Script{
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "script",
			Name:      "steps_total",
			Help:      "Gesture script steps by op and result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "script",
			Name:      "step_duration_seconds",
			Help:      "Time spent per script step.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"op"}),
	}
}

func (s *Script) collectors() []prometheus.Collector {
	return []prometheus.Collector{s.steps, s.duration}
}

func (s *Script) OnStepStart(context.Context, string, int, string) {}

func (s *Script) OnStepComplete(_ context.Context, _ string, _ int, op string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.steps.WithLabelValues(op, result).Inc()
	s.duration.WithLabelValues(op).Observe(d.Seconds())
}

// =============================================================================
// HTTP
// =============================================================================

// HTTP implements observability.HTTPHooks.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newHTTP() *HTTP {
	return &HTTP{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Debug server requests by route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Debug server request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (h *HTTP) collectors() []prometheus.Collector {
	return []prometheus.Collector{h.requests, h.duration}
}

func (h *HTTP) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.TransformHooks = (*Transform)(nil)
	_ observability.HistoryHooks   = (*History)(nil)
	_ observability.ScriptHooks    = (*Script)(nil)
	_ observability.HTTPHooks      = (*HTTP)(nil)
)
