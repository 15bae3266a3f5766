package entity

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/geom"
)

// =============================================================================
// Line
// =============================================================================

// Line is a straight segment from A to B.
type Line struct {
	A r2.Vec `json:"a"`
	B r2.Vec `json:"b"`
}

func (l Line) Kind() Kind            { return KindLine }
func (l Line) Origin() r2.Vec        { return l.A }
func (l Line) Center() r2.Vec        { return geom.Midpoint(l.A, l.B) }
func (l Line) Clone() Geometry       { return l }
func (l Line) Equal(o Geometry) bool { return o == Geometry(l) }
func (l Line) Endpoints() []r2.Vec   { return []r2.Vec{l.A, l.B} }
func (l Line) Midpoints() []r2.Vec   { return []r2.Vec{l.Center()} }
func (l Line) Vertices() []r2.Vec    { return l.Endpoints() }

func (l Line) Bounds() r2.Box {
	b, _ := geom.BoxFromPoints(l.A, l.B)
	return b
}

// Rotation returns the direction of A→B in radians.
func (l Line) Rotation() float64 { return segmentAngle(l.A, l.B) }

func (l Line) Translate(d r2.Vec) Geometry {
	l.A, l.B = r2.Add(l.A, d), r2.Add(l.B, d)
	return l
}

func (l Line) ScaleAbout(anchor, scale, _ r2.Vec) Geometry {
	l.A, l.B = scaleAbout(l.A, anchor, scale), scaleAbout(l.B, anchor, scale)
	return l
}

// RotateAbout rotates both endpoints about pivot. A segment has no rotation
// of its own, so orbit is ignored.
func (l Line) RotateAbout(pivot r2.Vec, delta float64, _ bool) Geometry {
	l.A, l.B = r2.Rotate(l.A, delta, pivot), r2.Rotate(l.B, delta, pivot)
	return l
}

func (l Line) WithVertex(i int, p r2.Vec) Geometry {
	switch i {
	case 0:
		l.A = p
	case 1:
		l.B = p
	}
	return l
}

func (l Line) AngleAnchor(i int) (int, bool) { return segmentAnchor(i) }

// =============================================================================
// Arrow
// =============================================================================

// Arrow is a segment from A to B with a head of size Head at B.
type Arrow struct {
	A    r2.Vec  `json:"a"`
	B    r2.Vec  `json:"b"`
	Head float64 `json:"head"`
}

func (a Arrow) Kind() Kind            { return KindArrow }
func (a Arrow) Origin() r2.Vec        { return a.A }
func (a Arrow) Center() r2.Vec        { return geom.Midpoint(a.A, a.B) }
func (a Arrow) Rotation() float64     { return segmentAngle(a.A, a.B) }
func (a Arrow) Clone() Geometry       { return a }
func (a Arrow) Equal(o Geometry) bool { return o == Geometry(a) }
func (a Arrow) Endpoints() []r2.Vec   { return []r2.Vec{a.A, a.B} }
func (a Arrow) Midpoints() []r2.Vec   { return []r2.Vec{a.Center()} }
func (a Arrow) Vertices() []r2.Vec    { return a.Endpoints() }

// Bounds returns the segment's box grown by the head size.
func (a Arrow) Bounds() r2.Box {
	b, _ := geom.BoxFromPoints(a.A, a.B)
	return geom.Expand(b, math.Abs(a.Head))
}

func (a Arrow) Translate(d r2.Vec) Geometry {
	a.A, a.B = r2.Add(a.A, d), r2.Add(a.B, d)
	return a
}

func (a Arrow) ScaleAbout(anchor, scale, _ r2.Vec) Geometry {
	a.A, a.B = scaleAbout(a.A, anchor, scale), scaleAbout(a.B, anchor, scale)
	return a
}

func (a Arrow) RotateAbout(pivot r2.Vec, delta float64, _ bool) Geometry {
	a.A, a.B = r2.Rotate(a.A, delta, pivot), r2.Rotate(a.B, delta, pivot)
	return a
}

func (a Arrow) WithVertex(i int, p r2.Vec) Geometry {
	switch i {
	case 0:
		a.A = p
	case 1:
		a.B = p
	}
	return a
}

func (a Arrow) AngleAnchor(i int) (int, bool) { return segmentAnchor(i) }

// =============================================================================
// Polyline
// =============================================================================

// Polyline is an open path through Points.
type Polyline struct {
	Points []r2.Vec `json:"points"`
}

func (p Polyline) Kind() Kind         { return KindPolyline }
func (p Polyline) Rotation() float64  { return 0 }
func (p Polyline) Center() r2.Vec     { return p.Bounds().Center() }
func (p Polyline) Vertices() []r2.Vec { return slices.Clone(p.Points) }

// Endpoints returns every point of the path.
func (p Polyline) Endpoints() []r2.Vec { return p.Vertices() }

// Midpoints returns the midpoint of each segment.
func (p Polyline) Midpoints() []r2.Vec {
	if len(p.Points) < 2 {
		return nil
	}
	out := make([]r2.Vec, 0, len(p.Points)-1)
	for i := 0; i+1 < len(p.Points); i++ {
		out = append(out, geom.Midpoint(p.Points[i], p.Points[i+1]))
	}
	return out
}

func (p Polyline) Origin() r2.Vec {
	if len(p.Points) == 0 {
		return r2.Vec{}
	}
	return p.Points[0]
}

func (p Polyline) Bounds() r2.Box {
	b, _ := geom.BoxFromPoints(p.Points...)
	return b
}

func (p Polyline) Clone() Geometry {
	return Polyline{Points: slices.Clone(p.Points)}
}

func (p Polyline) Equal(o Geometry) bool {
	q, ok := o.(Polyline)
	return ok && slices.Equal(p.Points, q.Points)
}

func (p Polyline) Translate(d r2.Vec) Geometry {
	return p.mapPoints(func(v r2.Vec) r2.Vec { return r2.Add(v, d) })
}

func (p Polyline) ScaleAbout(anchor, scale, _ r2.Vec) Geometry {
	return p.mapPoints(func(v r2.Vec) r2.Vec { return scaleAbout(v, anchor, scale) })
}

func (p Polyline) RotateAbout(pivot r2.Vec, delta float64, _ bool) Geometry {
	return p.mapPoints(func(v r2.Vec) r2.Vec { return r2.Rotate(v, delta, pivot) })
}

func (p Polyline) WithVertex(i int, v r2.Vec) Geometry {
	out := Polyline{Points: slices.Clone(p.Points)}
	if i >= 0 && i < len(out.Points) {
		out.Points[i] = v
	}
	return out
}

// AngleAnchor only snaps the two ends, each around its neighbour.
func (p Polyline) AngleAnchor(i int) (int, bool) {
	last := len(p.Points) - 1
	if last < 1 {
		return 0, false
	}
	switch i {
	case 0:
		return 1, true
	case last:
		return last - 1, true
	}
	return 0, false
}

func (p Polyline) mapPoints(fn func(r2.Vec) r2.Vec) Polyline {
	out := Polyline{Points: make([]r2.Vec, len(p.Points))}
	for i, v := range p.Points {
		out.Points[i] = fn(v)
	}
	return out
}

func segmentAngle(a, b r2.Vec) float64 {
	d := r2.Sub(b, a)
	return math.Atan2(d.Y, d.X)
}

func segmentAnchor(i int) (int, bool) {
	switch i {
	case 0:
		return 1, true
	case 1:
		return 0, true
	}
	return 0, false
}
