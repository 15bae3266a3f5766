package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Frame is a rotated local coordinate system centered on a shape.
type Frame struct {
	Center   r2.Vec
	Rotation float64 // radians, counter-clockwise
}

// ToLocal expresses the world point p in the frame.
func (f Frame) ToLocal(p r2.Vec) r2.Vec {
	return r2.Rotate(r2.Sub(p, f.Center), -f.Rotation, r2.Vec{})
}

// ToWorld maps a local point back to world space.
func (f Frame) ToWorld(local r2.Vec) r2.Vec {
	return r2.Add(f.Center, r2.Rotate(local, f.Rotation, r2.Vec{}))
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// WrapDegrees folds an angle difference into [-180, 180].
func WrapDegrees(d float64) float64 {
	if d > 180 {
		d -= 360
	}
	if d < -180 {
		d += 360
	}
	return d
}

// RoundTo rounds v to the nearest multiple of step. A non-positive step
// returns v unchanged.
func RoundTo(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

// SnapDirection rotates p around anchor onto the nearest multiple of step
// radians while keeping its distance to anchor. It returns false when p is
// too close to anchor to define a direction.
func SnapDirection(anchor, p r2.Vec, step float64) (r2.Vec, bool) {
	v := r2.Sub(p, anchor)
	length := r2.Norm(v)
	if length <= Epsilon {
		return p, false
	}
	angle := RoundTo(math.Atan2(v.Y, v.X), step)
	return r2.Vec{
		X: anchor.X + math.Cos(angle)*length,
		Y: anchor.Y + math.Sin(angle)*length,
	}, true
}
