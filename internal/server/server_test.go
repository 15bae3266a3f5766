package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vectorcad/pkg/document"
	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/history"
	"github.com/matzehuels/vectorcad/pkg/interaction"
	docio "github.com/matzehuels/vectorcad/pkg/io"
	"github.com/matzehuels/vectorcad/pkg/metrics"
	"github.com/matzehuels/vectorcad/pkg/observability"
	"github.com/matzehuels/vectorcad/pkg/pick"
	"github.com/matzehuels/vectorcad/pkg/snap"
)

const moveScript = `
[[step]]
op = "begin"
mode = "move"
ids = [1]
x = 0.0
y = 0.0

[[step]]
op = "update"
x = 25.0
y = 0.0

[[step]]
op = "commit"
`

type fixture struct {
	doc     *document.Document
	session *interaction.Session
	handler http.Handler
	reg     *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d := document.New()
	require.NoError(t, d.Insert(entity.Entity{ID: 1, Flags: entity.DefaultFlags, Geometry: entity.Rect{W: 10, H: 10}}))
	ix := pick.New()
	d.Reindex(ix)
	h := history.New(d, history.WithIndex(ix))
	s := interaction.New(d, ix, interaction.WithHistory(h), interaction.WithSnapOptions(snap.Options{}))

	reg := prometheus.NewRegistry()
	srv := New(d, h, s, WithGatherer(reg))
	return &fixture{doc: d, session: s, handler: srv.Handler(), reg: reg}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestDocument(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/document", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	d, err := docio.ReadJSON(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
}

func TestScriptThenUndoRedo(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/script", moveScript)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[struct {
		Steps   []stepResponse       `json:"steps"`
		Results []interaction.Result `json:"results"`
	}](t, rec)
	assert.Len(t, body.Steps, 3)
	require.Len(t, body.Results, 1)
	assert.Equal(t, [4]float64{25, 0, 0, 0}, body.Results[0].Payload)

	hist := decodeBody[historyResponse](t, f.do(t, http.MethodGet, "/history", ""))
	assert.Equal(t, 1, hist.Cursor)
	assert.True(t, hist.CanUndo)
	require.Len(t, hist.Entries, 1)

	rec = f.do(t, http.MethodPost, "/history/undo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	e, _ := f.doc.Entity(1)
	assert.Equal(t, entity.Rect{W: 10, H: 10}, e.Geometry)

	rec = f.do(t, http.MethodPost, "/history/undo", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decodeBody[errorResponse](t, rec).Code)

	rec = f.do(t, http.MethodPost, "/history/redo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	e, _ = f.doc.Entity(1)
	assert.Equal(t, entity.Rect{X: 25, W: 10, H: 10}, e.Geometry)
}

func TestScriptRejectsInvalid(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/script", "[[step]]\nop = \"fly\"")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_SCRIPT", decodeBody[errorResponse](t, rec).Code)
}

func TestTransformLogAndReplay(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/transform-log/replay", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "REPLAY_UNAVAILABLE", decodeBody[errorResponse](t, rec).Code)

	rec = f.do(t, http.MethodPut, "/transform-log", `{"enabled": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[transformLogResponse](t, rec).Enabled)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/script", moveScript).Code)

	log := decodeBody[transformLogResponse](t, f.do(t, http.MethodGet, "/transform-log", ""))
	require.Len(t, log.Entries, 3)
	assert.Equal(t, interaction.LogBegin, log.Entries[0].Type)
	assert.Equal(t, interaction.LogCommit, log.Entries[2].Type)
	assert.Equal(t, []entity.ID{1}, log.IDs)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/history/undo", "").Code)
	rec = f.do(t, http.MethodPost, "/transform-log/replay", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	e, _ := f.doc.Entity(1)
	assert.Equal(t, entity.Rect{X: 25, W: 10, H: 10}, e.Geometry)

	rec = f.do(t, http.MethodPut, "/transform-log", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSession(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, false, body["active"])
	assert.Equal(t, false, body["dragging"])
}

func TestMetricsEndpointAndHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	f := newFixture(t)
	metrics.New(f.reg).Install()

	f.do(t, http.MethodGet, "/healthz", "")
	f.do(t, http.MethodPost, "/history/undo", "")

	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `vectorcad_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
	assert.Contains(t, out, `vectorcad_http_requests_total{method="POST",route="/history/undo",status="409"} 1`)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	srv := New(f.doc, history.New(f.doc), f.session)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
