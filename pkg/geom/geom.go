// Package geom provides the 2D math shared by the interaction core.
//
// Vectors and boxes are gonum's [r2.Vec] and [r2.Box]. This package adds the
// pieces the editor needs on top of them: degenerate-safe box unions (a
// horizontal line has a zero-height box and must still participate), the
// screen to world mapping with its Y flip, rotation-compensated local frames,
// and the small numeric guards used by resize and rotate.
//
// # Coordinate Spaces
//
// World space is Y-up. Screen space is Y-down with the view origin at
// (View.X, View.Y) in screen pixels:
//
//	world = ((sx - View.X) / scale, -(sy - View.Y) / scale)
//
// Every anchor, snap and guide computation downstream assumes this mapping.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the smallest extent treated as non-zero by resize math.
const Epsilon = 1e-6

// MinExtent is the smallest width, height or radius a resize may produce.
const MinExtent = 1e-3

// MinScale is the smallest absolute group scale factor.
const MinScale = 1e-4

// Vec is shorthand for gonum's 2D vector.
type Vec = r2.Vec

// Box is shorthand for gonum's 2D box.
type Box = r2.Box

// BoxFromPoints returns the tightest box containing pts.
// It returns false when pts is empty.
func BoxFromPoints(pts ...r2.Vec) (r2.Box, bool) {
	if len(pts) == 0 {
		return r2.Box{}, false
	}
	b := r2.Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b = Include(b, p)
	}
	return b, true
}

// Include grows b to contain p.
func Include(b r2.Box, p r2.Vec) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y)},
		Max: r2.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y)},
	}
}

// Union returns the box enclosing a and b. Unlike r2.Box.Union, zero-area
// boxes are not skipped.
func Union(a, b r2.Box) r2.Box {
	return Include(Include(a, b.Min), b.Max)
}

// Expand grows b by d on every side.
func Expand(b r2.Box, d float64) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: b.Min.X - d, Y: b.Min.Y - d},
		Max: r2.Vec{X: b.Max.X + d, Y: b.Max.Y + d},
	}
}

// Translate moves b by d.
func Translate(b r2.Box, d r2.Vec) r2.Box {
	return r2.Box{Min: r2.Add(b.Min, d), Max: r2.Add(b.Max, d)}
}

// Overlaps reports whether a and b intersect, edges included.
func Overlaps(a, b r2.Box) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

// Midpoint returns the point halfway between p and q.
func Midpoint(p, q r2.Vec) r2.Vec {
	return r2.Scale(0.5, r2.Add(p, q))
}

// ClampScale keeps a group scale factor usable: non-finite values become 1
// and magnitudes below MinScale are pushed out to MinScale keeping the sign.
func ClampScale(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	if math.Abs(s) >= MinScale {
		return s
	}
	if s == 0 {
		return MinScale
	}
	return math.Copysign(MinScale, s)
}

// IsApproximatelyRound reports whether radii rx and ry describe a circle
// within a relative tolerance of 1e-3.
func IsApproximatelyRound(rx, ry float64) bool {
	ax, ay := math.Abs(rx), math.Abs(ry)
	m := math.Max(ax, ay)
	if math.IsNaN(m) || math.IsInf(m, 0) || m <= Epsilon {
		return false
	}
	return math.Abs(ax-ay) <= m*1e-3
}

// Sign returns -1 for negative v and 1 otherwise.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
