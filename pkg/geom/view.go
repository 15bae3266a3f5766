package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// View describes the caller's viewport: screen-space origin, zoom and size
// in pixels.
type View struct {
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Scale  float64 `json:"scale" toml:"scale"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Identity is a view with no pan and unit zoom.
var Identity = View{Scale: 1}

// NormalizedScale returns the zoom factor, substituting 1 for degenerate values.
func (v View) NormalizedScale() float64 {
	if v.Scale <= Epsilon || math.IsNaN(v.Scale) || math.IsInf(v.Scale, 0) {
		return 1
	}
	return v.Scale
}

// ToWorld maps a screen point into world space.
func (v View) ToWorld(screen r2.Vec) r2.Vec {
	s := v.NormalizedScale()
	return r2.Vec{
		X: (screen.X - v.X) / s,
		Y: -(screen.Y - v.Y) / s,
	}
}

// ToScreen is the inverse of ToWorld.
func (v View) ToScreen(world r2.Vec) r2.Vec {
	s := v.NormalizedScale()
	return r2.Vec{
		X: world.X*s + v.X,
		Y: -world.Y*s + v.Y,
	}
}

// PixelsToWorld converts a screen distance to world units.
func (v View) PixelsToWorld(px float64) float64 {
	if v.Scale <= Epsilon {
		return px
	}
	return px / v.Scale
}

// VisibleRange returns the world-space box covered by the viewport.
// It returns false when the view has no usable size.
func (v View) VisibleRange() (r2.Box, bool) {
	if v.Scale <= Epsilon || v.Width <= 0 || v.Height <= 0 {
		return r2.Box{}, false
	}
	return r2.Box{
		Min: r2.Vec{X: -v.X / v.Scale, Y: -v.Y / v.Scale},
		Max: r2.Vec{X: (v.Width - v.X) / v.Scale, Y: (v.Height - v.Y) / v.Scale},
	}, true
}
