package entity

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestPickable(t *testing.T) {
	tests := []struct {
		name string
		e    Entity
		want bool
	}{
		{"visible", Entity{ID: 1, Flags: FlagVisible, Geometry: Rect{W: 1, H: 1}}, true},
		{"hidden", Entity{ID: 1, Flags: 0, Geometry: Rect{W: 1, H: 1}}, false},
		{"locked", Entity{ID: 1, Flags: FlagVisible | FlagLocked, Geometry: Rect{W: 1, H: 1}}, false},
		{"no geometry", Entity{ID: 1, Flags: FlagVisible}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Pickable(); got != tt.want {
				t.Errorf("Pickable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectBounds(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 4}
	assert.Equal(t, r2.Box{Min: r2.Vec{}, Max: r2.Vec{X: 10, Y: 4}}, r.Bounds())

	r.Rot = math.Pi / 2
	b := r.Bounds()
	assert.InDelta(t, 3, b.Min.X, 1e-9)
	assert.InDelta(t, -3, b.Min.Y, 1e-9)
	assert.InDelta(t, 7, b.Max.X, 1e-9)
	assert.InDelta(t, 7, b.Max.Y, 1e-9)
}

func TestEllipseBoundsRotated(t *testing.T) {
	c := Circle{CX: 0, CY: 0, RX: 10, RY: 2, Rot: math.Pi / 2}
	b := c.Bounds()
	assert.InDelta(t, -2, b.Min.X, 1e-9)
	assert.InDelta(t, 10, b.Max.Y, 1e-9)
}

func TestArrowBoundsIncludeHead(t *testing.T) {
	a := Arrow{A: r2.Vec{X: 0, Y: 0}, B: r2.Vec{X: 10, Y: 0}, Head: 2}
	assert.Equal(t, r2.Box{Min: r2.Vec{X: -2, Y: -2}, Max: r2.Vec{X: 12, Y: 2}}, a.Bounds())
}

func TestGeometryIsImmutable(t *testing.T) {
	p := Polyline{Points: []r2.Vec{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 0}}}
	moved := p.Translate(r2.Vec{X: 1, Y: 1}).(Polyline)
	edited := p.WithVertex(1, r2.Vec{X: 7, Y: 7}).(Polyline)

	assert.Equal(t, r2.Vec{X: 5, Y: 5}, p.Points[1])
	assert.Equal(t, r2.Vec{X: 6, Y: 6}, moved.Points[1])
	assert.Equal(t, r2.Vec{X: 7, Y: 7}, edited.Points[1])
	assert.False(t, p.Equal(moved))
	assert.True(t, p.Equal(p.Clone()))
}

func TestAngleAnchor(t *testing.T) {
	line := Line{}
	i, ok := line.AngleAnchor(0)
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	poly := Polyline{Points: make([]r2.Vec, 4)}
	tests := []struct {
		vertex int
		want   int
		ok     bool
	}{
		{0, 1, true},
		{3, 2, true},
		{1, 0, false},
		{2, 0, false},
	}
	for _, tt := range tests {
		got, ok := poly.AngleAnchor(tt.vertex)
		if ok != tt.ok || got != tt.want {
			t.Errorf("AngleAnchor(%d) = %d, %v, want %d, %v", tt.vertex, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRotateAboutOrbit(t *testing.T) {
	r := Rect{X: 10, Y: -1, W: 2, H: 2}
	got := r.RotateAbout(r2.Vec{}, math.Pi/2, true).(Rect)
	c := got.Center()
	assert.InDelta(t, 0, c.X, 1e-9)
	assert.InDelta(t, 11, c.Y, 1e-9)
	assert.InDelta(t, math.Pi/2, got.Rot, 1e-12)

	still := r.RotateAbout(r2.Vec{}, math.Pi/2, false).(Rect)
	assert.Equal(t, r.Center(), still.Center())
}

func TestPolygonCorners(t *testing.T) {
	p := Polygon{CX: 0, CY: 0, RX: 1, RY: 1, Sides: 4}
	c := p.Corners()
	require.Len(t, c, 4)
	assert.InDelta(t, 0, c[0].X, 1e-9)
	assert.InDelta(t, -1, c[0].Y, 1e-9)
	assert.Len(t, p.Midpoints(), 4)

	p.Sides = 1
	assert.Len(t, p.Corners(), MinSides)
}

func TestEntityJSONRoundTrip(t *testing.T) {
	entities := []Entity{
		{ID: 1, Flags: DefaultFlags, Geometry: Rect{X: 1, Y: 2, W: 3, H: 4, Rot: 0.5}},
		{ID: 2, Flags: DefaultFlags | FlagLocked, Geometry: Circle{CX: 1, CY: 1, RX: 2, RY: 2}},
		{ID: 3, Layer: 2, Flags: 0, Geometry: Polyline{Points: []r2.Vec{{X: 1}, {Y: 1}}}},
		{ID: 4, Flags: DefaultFlags, Geometry: Text{Position: r2.Vec{X: 1}, Content: "hi"}},
	}
	for _, e := range entities {
		data, err := json.Marshal(e)
		require.NoError(t, err)

		var got Entity
		require.NoError(t, json.Unmarshal(data, &got))
		assert.True(t, e.Equal(got), "round trip of %s: %s", e.Kind(), data)
	}
}

func TestEntityJSONRejectsUnknownKind(t *testing.T) {
	var e Entity
	err := json.Unmarshal([]byte(`{"id":1,"kind":"spline","geometry":{}}`), &e)
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for k := range kindNames {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
}
