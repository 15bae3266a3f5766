package interaction

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/geom"
)

// =============================================================================
// Corner resize
// =============================================================================

// cornerAnchor returns the local-space corner opposite handle.
func cornerAnchor(handle int, half r2.Vec) r2.Vec {
	switch handle {
	case CornerBottomLeft:
		return r2.Vec{X: half.X, Y: half.Y}
	case CornerBottomRight:
		return r2.Vec{X: -half.X, Y: half.Y}
	case CornerTopRight:
		return r2.Vec{X: -half.X, Y: -half.Y}
	default:
		return r2.Vec{X: half.X, Y: -half.Y}
	}
}

// cornerFor names the corner that lies in the direction of d from the anchor.
func cornerFor(d r2.Vec) int {
	right, top := d.X >= 0, d.Y >= 0
	switch {
	case right && top:
		return CornerTopRight
	case right:
		return CornerBottomRight
	case top:
		return CornerTopLeft
	default:
		return CornerBottomLeft
	}
}

// updateResize resizes the grabbed entity in its own rotated frame, keeping
// the anchor corner fixed.
func (s *Session) updateResize(f frame) bool {
	if s.g.handle < CornerBottomLeft || s.g.handle > CornerTopLeft {
		return false
	}
	geo, r, ok := s.g.resizable()
	if !ok {
		return false
	}
	center, half, rot := r.Frame()
	fr := geom.Frame{Center: center, Rotation: rot}
	local := fr.ToLocal(f.world)

	anchor := s.g.anchor
	if !s.g.anchorValid {
		anchor = cornerAnchor(s.g.handle, half)
	}
	d := r2.Sub(local, anchor)

	if f.mods.Has(Shift) {
		d = s.lockAspect(d, half)
	}

	locked := geo.Kind() == entity.KindCircle &&
		geom.IsApproximatelyRound(half.X, half.Y) &&
		!f.mods.Has(Alt)
	if locked {
		ax, ay := math.Abs(d.X), math.Abs(d.Y)
		if ax >= ay {
			d.Y = math.Copysign(ax, d.Y)
		} else {
			d.X = math.Copysign(ay, d.X)
		}
	}

	if s.g.anchorValid {
		s.g.handle = cornerFor(d)
	}

	lo := r2.Vec{X: min(anchor.X, anchor.X+d.X), Y: min(anchor.Y, anchor.Y+d.Y)}
	hi := r2.Vec{X: max(anchor.X, anchor.X+d.X), Y: max(anchor.Y, anchor.Y+d.Y)}
	w := max(geom.MinExtent, hi.X-lo.X)
	h := max(geom.MinExtent, hi.Y-lo.Y)
	if locked {
		w = max(w, h)
		h = w
	}

	c := fr.ToWorld(geom.Midpoint(lo, hi))
	return s.write(s.g.specificID, r.WithFrame(c, r2.Vec{X: w * 0.5, Y: h * 0.5}))
}

// lockAspect constrains d to the base aspect ratio, driven by whichever axis
// moved further relative to its base size.
func (s *Session) lockAspect(d, half r2.Vec) r2.Vec {
	base, aspect := s.g.baseSize, s.g.aspect
	if !s.g.anchorValid {
		base = r2.Vec{X: math.Abs(half.X * 2), Y: math.Abs(half.Y * 2)}
		aspect = 1
		if base.X > geom.Epsilon && base.Y > geom.Epsilon {
			aspect = base.X / base.Y
		}
	}
	if math.IsNaN(aspect) || math.IsInf(aspect, 0) || aspect <= geom.Epsilon {
		aspect = 1
	}

	ax, ay := math.Abs(d.X), math.Abs(d.Y)
	useX := ax >= ay
	if base.X > geom.Epsilon && base.Y > geom.Epsilon {
		useX = ax/base.X >= ay/base.Y
	}
	if useX {
		d.Y = geom.Sign(d.Y) * (ax / aspect)
	} else {
		d.X = geom.Sign(d.X) * (ay * aspect)
	}
	return d
}

// updateGroupResize scales every participant about the union box corner
// opposite the grabbed handle.
func (s *Session) updateGroupResize(f frame) bool {
	b := s.g.base
	var anchor, handle r2.Vec
	switch s.g.handle {
	case CornerBottomLeft:
		anchor, handle = b.Max, b.Min
	case CornerBottomRight:
		anchor, handle = r2.Vec{X: b.Min.X, Y: b.Max.Y}, r2.Vec{X: b.Max.X, Y: b.Min.Y}
	case CornerTopRight:
		anchor, handle = b.Min, b.Max
	case CornerTopLeft:
		anchor, handle = r2.Vec{X: b.Max.X, Y: b.Min.Y}, r2.Vec{X: b.Min.X, Y: b.Max.Y}
	default:
		return false
	}

	baseD := r2.Sub(handle, anchor)
	d := r2.Sub(f.world, anchor)
	absBase := r2.Vec{X: max(geom.Epsilon, math.Abs(baseD.X)), Y: max(geom.Epsilon, math.Abs(baseD.Y))}

	if f.mods.Has(Shift) {
		aspect := absBase.X / absBase.Y
		if math.Abs(d.X)/absBase.X >= math.Abs(d.Y)/absBase.Y {
			d.Y = math.Copysign(math.Abs(d.X)/max(geom.Epsilon, aspect), d.Y)
		} else {
			d.X = math.Copysign(math.Abs(d.Y)*aspect, d.X)
		}
	}

	scale := r2.Vec{X: 1, Y: 1}
	if math.Abs(baseD.X) > geom.Epsilon {
		scale.X = d.X / baseD.X
	}
	if math.Abs(baseD.Y) > geom.Epsilon {
		scale.Y = d.Y / baseD.Y
	}
	scale = r2.Vec{X: geom.ClampScale(scale.X), Y: geom.ClampScale(scale.Y)}
	size := r2.Vec{X: math.Abs(scale.X), Y: math.Abs(scale.Y)}
	alt := f.mods.Has(Alt)

	updated := false
	for _, snapshot := range s.g.snapshots {
		sc, ok := snapshot.Geometry.(entity.Scalable)
		if !ok {
			continue
		}
		sz := size
		if c, ok := snapshot.Geometry.(entity.Circle); ok && c.IsRound() && !alt {
			u := max(sz.X, sz.Y)
			sz = r2.Vec{X: u, Y: u}
		}
		if s.write(snapshot.ID, sc.ScaleAbout(anchor, scale, sz)) {
			updated = true
		}
	}
	return updated
}

// =============================================================================
// Side resize
// =============================================================================

func vertical(side int) bool { return side == SideSouth || side == SideNorth }

// updateSideResize moves one edge of the grabbed entity. Alt keeps the
// center fixed instead of the opposite edge, except on round circles where
// it frees the aspect ratio instead.
func (s *Session) updateSideResize(f frame) bool {
	side := s.g.handle
	if side < SideSouth || side > SideWest || !s.g.anchorValid {
		return false
	}
	geo, r, ok := s.g.resizable()
	if !ok {
		return false
	}
	center, half, rot := r.Frame()
	fr := geom.Frame{Center: center, Rotation: rot}
	local := fr.ToLocal(f.world)

	alt := f.mods.Has(Alt)
	nearCircle := geo.Kind() == entity.KindCircle && geom.IsApproximatelyRound(half.X, half.Y)
	uniform := nearCircle && !alt
	symmetric := alt && !nearCircle

	next := half
	var c r2.Vec
	edge := func(p, a float64) (halfExtent, centerOffset float64) {
		d := p - a
		return max(geom.MinExtent, math.Abs(d)*0.5), a + d*0.5
	}
	switch side {
	case SideSouth, SideNorth:
		if symmetric {
			next.Y = max(geom.MinExtent, math.Abs(local.Y))
		} else {
			a := -half.Y
			if side == SideNorth {
				a = half.Y
			}
			next.Y, c.Y = edge(local.Y, a)
		}
	case SideEast, SideWest:
		if symmetric {
			next.X = max(geom.MinExtent, math.Abs(local.X))
		} else {
			a := -half.X
			if side == SideWest {
				a = half.X
			}
			next.X, c.X = edge(local.X, a)
		}
	}

	if uniform {
		u := next.X
		if vertical(side) {
			u = next.Y
		}
		next = r2.Vec{X: u, Y: u}
	}
	return s.write(s.g.specificID, r.WithFrame(fr.ToWorld(c), next))
}

// updateGroupSideResize scales the selection along one axis from the
// opposite edge of the union box, or from its center with Alt. Only
// entities with a rotated frame take part.
func (s *Session) updateGroupSideResize(f frame) bool {
	side := s.g.handle
	if side < SideSouth || side > SideWest {
		return false
	}
	b := s.g.base
	c := b.Center()
	alt := f.mods.Has(Alt)

	anchor := c
	baseD := r2.Vec{X: max(geom.Epsilon, b.Max.X-b.Min.X), Y: max(geom.Epsilon, b.Max.Y-b.Min.Y)}
	pick := func(onAlt, otherwise float64) float64 {
		if alt {
			return onAlt
		}
		return otherwise
	}
	switch side {
	case SideSouth:
		anchor.Y = pick(c.Y, b.Min.Y)
		baseD.Y = pick(b.Max.Y-c.Y, b.Max.Y-b.Min.Y)
	case SideEast:
		anchor.X = pick(c.X, b.Min.X)
		baseD.X = pick(b.Max.X-c.X, b.Max.X-b.Min.X)
	case SideNorth:
		anchor.Y = pick(c.Y, b.Max.Y)
		baseD.Y = pick(b.Min.Y-c.Y, b.Min.Y-b.Max.Y)
	case SideWest:
		anchor.X = pick(c.X, b.Max.X)
		baseD.X = pick(b.Min.X-c.X, b.Min.X-b.Max.X)
	}

	denom := func(v float64) float64 {
		if math.Abs(v) > geom.Epsilon {
			return v
		}
		return math.Copysign(geom.Epsilon, v)
	}
	scale := r2.Vec{X: 1, Y: 1}
	if vertical(side) {
		scale.Y = geom.ClampScale((f.world.Y - anchor.Y) / denom(baseD.Y))
	} else {
		scale.X = geom.ClampScale((f.world.X - anchor.X) / denom(baseD.X))
	}
	size := r2.Vec{X: math.Abs(scale.X), Y: math.Abs(scale.Y)}

	updated := false
	for _, snapshot := range s.g.snapshots {
		if _, ok := snapshot.Geometry.(entity.Resizable); !ok {
			continue
		}
		sc, ok := snapshot.Geometry.(entity.Scalable)
		if !ok {
			continue
		}
		sz := size
		if circle, ok := snapshot.Geometry.(entity.Circle); ok && circle.IsRound() && !alt {
			u := size.X
			if vertical(side) {
				u = size.Y
			}
			sz = r2.Vec{X: u, Y: u}
		}
		if s.write(snapshot.ID, sc.ScaleAbout(anchor, scale, sz)) {
			updated = true
		}
	}
	return updated
}
