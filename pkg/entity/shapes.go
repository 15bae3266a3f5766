package entity

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/geom"
)

// =============================================================================
// Rect
// =============================================================================

// Rect is a rectangle stored by its unrotated min corner and size. It
// rotates about its center.
type Rect struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	W   float64 `json:"w"`
	H   float64 `json:"h"`
	Rot float64 `json:"rot,omitempty"`
}

func (r Rect) Kind() Kind            { return KindRect }
func (r Rect) Origin() r2.Vec        { return r2.Vec{X: r.X, Y: r.Y} }
func (r Rect) Center() r2.Vec        { return r2.Vec{X: r.X + r.W*0.5, Y: r.Y + r.H*0.5} }
func (r Rect) Rotation() float64     { return r.Rot }
func (r Rect) Clone() Geometry       { return r }
func (r Rect) Equal(o Geometry) bool { return o == Geometry(r) }

// Bounds returns the AABB of the rotated corners.
func (r Rect) Bounds() r2.Box {
	if r.Rot == 0 {
		return r2.Box{Min: r.Origin(), Max: r2.Vec{X: r.X + r.W, Y: r.Y + r.H}}
	}
	f := geom.Frame{Center: r.Center(), Rotation: r.Rot}
	hw, hh := r.W*0.5, r.H*0.5
	b, _ := geom.BoxFromPoints(
		f.ToWorld(r2.Vec{X: -hw, Y: -hh}),
		f.ToWorld(r2.Vec{X: hw, Y: -hh}),
		f.ToWorld(r2.Vec{X: hw, Y: hh}),
		f.ToWorld(r2.Vec{X: -hw, Y: hh}),
	)
	return b
}

func (r Rect) Translate(d r2.Vec) Geometry {
	r.X += d.X
	r.Y += d.Y
	return r
}

func (r Rect) Frame() (r2.Vec, r2.Vec, float64) {
	return r.Center(), r2.Vec{X: r.W * 0.5, Y: r.H * 0.5}, r.Rot
}

func (r Rect) WithFrame(center, half r2.Vec) Geometry {
	r.X = center.X - half.X
	r.Y = center.Y - half.Y
	r.W = half.X * 2
	r.H = half.Y * 2
	return r
}

func (r Rect) Extent() (x, y, w, h float64) { return r.X, r.Y, r.W, r.H }

func (r Rect) ScaleAbout(anchor, scale, size r2.Vec) Geometry {
	c := scaleAbout(r.Center(), anchor, scale)
	r.W = math.Max(geom.MinExtent, r.W*size.X)
	r.H = math.Max(geom.MinExtent, r.H*size.Y)
	r.X = c.X - r.W*0.5
	r.Y = c.Y - r.H*0.5
	return r
}

func (r Rect) RotateAbout(pivot r2.Vec, delta float64, orbit bool) Geometry {
	r.Rot += delta
	if orbit {
		c := r2.Rotate(r.Center(), delta, pivot)
		r.X = c.X - r.W*0.5
		r.Y = c.Y - r.H*0.5
	}
	return r
}

// =============================================================================
// Circle
// =============================================================================

// Circle is an ellipse with independent radii.
type Circle struct {
	CX  float64 `json:"cx"`
	CY  float64 `json:"cy"`
	RX  float64 `json:"rx"`
	RY  float64 `json:"ry"`
	Rot float64 `json:"rot,omitempty"`
}

func (c Circle) Kind() Kind            { return KindCircle }
func (c Circle) Origin() r2.Vec        { return c.Center() }
func (c Circle) Center() r2.Vec        { return r2.Vec{X: c.CX, Y: c.CY} }
func (c Circle) Rotation() float64     { return c.Rot }
func (c Circle) Clone() Geometry       { return c }
func (c Circle) Equal(o Geometry) bool { return o == Geometry(c) }
func (c Circle) Bounds() r2.Box        { return ellipseBounds(c.Center(), c.RX, c.RY, c.Rot) }

func (c *Circle) setCenter(v r2.Vec) { c.CX, c.CY = v.X, v.Y }

// IsRound reports whether the radii are equal within tolerance.
func (c Circle) IsRound() bool { return geom.IsApproximatelyRound(c.RX, c.RY) }

func (c Circle) Translate(d r2.Vec) Geometry {
	c.CX += d.X
	c.CY += d.Y
	return c
}

func (c Circle) Frame() (r2.Vec, r2.Vec, float64) {
	return c.Center(), r2.Vec{X: c.RX, Y: c.RY}, c.Rot
}

func (c Circle) WithFrame(center, half r2.Vec) Geometry {
	c.CX, c.CY = center.X, center.Y
	c.RX, c.RY = half.X, half.Y
	return c
}

func (c Circle) Extent() (x, y, w, h float64) {
	return c.CX, c.CY, c.RX * 2, c.RY * 2
}

func (c Circle) ScaleAbout(anchor, scale, size r2.Vec) Geometry {
	c.setCenter(scaleAbout(c.Center(), anchor, scale))
	c.RX = math.Max(geom.MinExtent, c.RX*size.X)
	c.RY = math.Max(geom.MinExtent, c.RY*size.Y)
	return c
}

func (c Circle) RotateAbout(pivot r2.Vec, delta float64, orbit bool) Geometry {
	c.Rot += delta
	if orbit {
		c.setCenter(r2.Rotate(c.Center(), delta, pivot))
	}
	return c
}

// =============================================================================
// Polygon
// =============================================================================

// MinSides is the smallest side count a polygon is drawn with.
const MinSides = 3

// Polygon is a regular polygon inscribed in an ellipse. Its first vertex
// points down (-Y) before rotation.
type Polygon struct {
	CX    float64 `json:"cx"`
	CY    float64 `json:"cy"`
	RX    float64 `json:"rx"`
	RY    float64 `json:"ry"`
	Rot   float64 `json:"rot,omitempty"`
	Sides int     `json:"sides"`
}

func (p Polygon) Kind() Kind            { return KindPolygon }
func (p Polygon) Origin() r2.Vec        { return p.Center() }
func (p Polygon) Center() r2.Vec        { return r2.Vec{X: p.CX, Y: p.CY} }
func (p Polygon) Rotation() float64     { return p.Rot }
func (p Polygon) Clone() Geometry       { return p }
func (p Polygon) Equal(o Geometry) bool { return o == Geometry(p) }

// Bounds returns the AABB of the circumscribing ellipse.
func (p Polygon) Bounds() r2.Box { return ellipseBounds(p.Center(), p.RX, p.RY, p.Rot) }

func (p *Polygon) setCenter(v r2.Vec) { p.CX, p.CY = v.X, v.Y }

// Corners returns the polygon's vertices in world space.
func (p Polygon) Corners() []r2.Vec {
	sides := max(MinSides, p.Sides)
	f := geom.Frame{Center: p.Center(), Rotation: p.Rot}
	out := make([]r2.Vec, sides)
	for i := range sides {
		t := float64(i)/float64(sides)*2*math.Pi - math.Pi/2
		out[i] = f.ToWorld(r2.Vec{X: math.Cos(t) * p.RX, Y: math.Sin(t) * p.RY})
	}
	return out
}

// Endpoints returns the polygon's corners.
func (p Polygon) Endpoints() []r2.Vec { return p.Corners() }

// Midpoints returns the midpoints of each edge, closing edge last.
func (p Polygon) Midpoints() []r2.Vec {
	c := p.Corners()
	out := make([]r2.Vec, len(c))
	for i := range c {
		out[i] = geom.Midpoint(c[i], c[(i+1)%len(c)])
	}
	return out
}

func (p Polygon) Translate(d r2.Vec) Geometry {
	p.CX += d.X
	p.CY += d.Y
	return p
}

func (p Polygon) Frame() (r2.Vec, r2.Vec, float64) {
	return p.Center(), r2.Vec{X: p.RX, Y: p.RY}, p.Rot
}

func (p Polygon) WithFrame(center, half r2.Vec) Geometry {
	p.CX, p.CY = center.X, center.Y
	p.RX, p.RY = half.X, half.Y
	return p
}

func (p Polygon) Extent() (x, y, w, h float64) {
	return p.CX, p.CY, p.RX * 2, p.RY * 2
}

func (p Polygon) ScaleAbout(anchor, scale, size r2.Vec) Geometry {
	p.setCenter(scaleAbout(p.Center(), anchor, scale))
	p.RX = math.Max(geom.MinExtent, p.RX*size.X)
	p.RY = math.Max(geom.MinExtent, p.RY*size.Y)
	return p
}

func (p Polygon) RotateAbout(pivot r2.Vec, delta float64, orbit bool) Geometry {
	p.Rot += delta
	if orbit {
		p.setCenter(r2.Rotate(p.Center(), delta, pivot))
	}
	return p
}

// =============================================================================
// Helpers
// =============================================================================

func scaleAbout(p, anchor, scale r2.Vec) r2.Vec {
	return r2.Vec{
		X: anchor.X + (p.X-anchor.X)*scale.X,
		Y: anchor.Y + (p.Y-anchor.Y)*scale.Y,
	}
}

func ellipseBounds(c r2.Vec, rx, ry, rot float64) r2.Box {
	rx, ry = math.Abs(rx), math.Abs(ry)
	ex, ey := rx, ry
	if rot != 0 {
		cos, sin := math.Cos(rot), math.Sin(rot)
		ex = math.Hypot(rx*cos, ry*sin)
		ey = math.Hypot(rx*sin, ry*cos)
	}
	return r2.Box{
		Min: r2.Vec{X: c.X - ex, Y: c.Y - ey},
		Max: r2.Vec{X: c.X + ex, Y: c.Y + ey},
	}
}
