package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/document"
	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/errors"
)

func sample(t *testing.T) *document.Document {
	t.Helper()
	d := document.New()
	require.NoError(t, d.Insert(entity.Entity{ID: 1, Flags: entity.DefaultFlags, Geometry: entity.Rect{W: 10, H: 5}}))
	require.NoError(t, d.Insert(entity.Entity{ID: 2, Flags: entity.DefaultFlags, Geometry: entity.Circle{CX: 20, RX: 4, RY: 4}}))
	require.NoError(t, d.Insert(entity.Entity{
		ID:       3,
		Flags:    entity.DefaultFlags | entity.FlagLocked,
		Geometry: entity.Line{B: r2.Vec{X: 5, Y: 5}},
	}))
	d.SetSelection([]entity.ID{2})
	d.SetDrawOrder([]entity.ID{3, 1, 2})
	return d
}

func TestRoundTrip(t *testing.T) {
	d := sample(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(d, &buf))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, d.DrawOrder(), got.DrawOrder())
	assert.Equal(t, d.Selection(), got.Selection())
	assert.Equal(t, d.NextID(), got.NextID())
	for _, e := range d.Entities() {
		g, ok := got.Entity(e.ID)
		require.True(t, ok)
		assert.True(t, e.Equal(g), "entity %d", e.ID)
	}
	assert.False(t, got.IsPickable(3))
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, ExportJSON(sample(t), path))

	got, err := ImportJSON(path)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"entities": [`},
		{"unknown kind", `{"entities": [{"id": 1, "kind": "blob", "geometry": {}}]}`},
		{"zero id", `{"entities": [{"id": 0, "kind": "rect", "geometry": {"w": 1, "h": 1}}]}`},
		{"duplicate id", `{"entities": [
			{"id": 1, "kind": "rect", "geometry": {"w": 1, "h": 1}},
			{"id": 1, "kind": "rect", "geometry": {"w": 1, "h": 1}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "got %v", err)
		})
	}
}

func TestReadJSONPlacesAllocatorAfterIDs(t *testing.T) {
	got, err := ReadJSON(strings.NewReader(`{"next_id": 2, "entities": [{"id": 9, "kind": "rect", "geometry": {"w": 1, "h": 1}}]}`))
	require.NoError(t, err)
	assert.Equal(t, entity.ID(10), got.NextID())
}

func TestImportJSONMissingFile(t *testing.T) {
	_, err := ImportJSON(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
}
