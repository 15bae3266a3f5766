// Package snap computes grid and object snapping for a moving selection.
//
// Both solvers are pure: they read the pick index and the entity store but
// never mutate them. [Object] aligns the moving selection's AABB (its min,
// max and optionally center on each axis) with nearby candidate features and
// returns at most one offset per axis, plus guide segments and up to two
// feature hits for display.
package snap

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/geom"
)

// DefaultTolerancePx is used when Options.TolerancePx is not positive.
const DefaultTolerancePx = 10.0

// minGridSize is the smallest grid size that enables grid snapping.
const minGridSize = 1e-4

// hitEpsilon is the distance under which two hits are the same point.
const hitEpsilon = 1e-4

// Options configures snapping.
type Options struct {
	Enabled     bool    `json:"enabled" toml:"enabled" koanf:"enabled"`
	GridEnabled bool    `json:"grid_enabled" toml:"grid_enabled" koanf:"grid_enabled"`
	GridSize    float64 `json:"grid_size" toml:"grid_size" koanf:"grid_size"`
	TolerancePx float64 `json:"tolerance_px" toml:"tolerance_px" koanf:"tolerance_px"`
	Endpoint    bool    `json:"endpoint" toml:"endpoint" koanf:"endpoint"`
	Midpoint    bool    `json:"midpoint" toml:"midpoint" koanf:"midpoint"`
	Center      bool    `json:"center" toml:"center" koanf:"center"`
	Nearest     bool    `json:"nearest" toml:"nearest" koanf:"nearest"`
}

// DefaultOptions returns snapping with grid and every object feature on.
func DefaultOptions() Options {
	return Options{
		Enabled:     true,
		GridEnabled: true,
		GridSize:    10,
		TolerancePx: DefaultTolerancePx,
		Endpoint:    true,
		Midpoint:    true,
		Center:      true,
		Nearest:     true,
	}
}

// GridActive reports whether grid snapping applies.
func (o Options) GridActive() bool {
	return o.Enabled && o.GridEnabled && o.GridSize > minGridSize
}

// ObjectActive reports whether object snapping applies.
func (o Options) ObjectActive() bool {
	return o.Enabled && (o.Endpoint || o.Midpoint || o.Center || o.Nearest)
}

// Kind names the feature a snap hit landed on.
type Kind uint8

const (
	KindNone Kind = iota
	KindEndpoint
	KindMidpoint
	KindCenter
)

var kindNames = map[Kind]string{
	KindNone:     "none",
	KindEndpoint: "endpoint",
	KindMidpoint: "midpoint",
	KindCenter:   "center",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Hit is a snapped-to feature point.
type Hit struct {
	Kind  Kind   `json:"kind"`
	Point r2.Vec `json:"point"`
}

// Guide is a segment drawn along a snapped axis.
type Guide struct {
	From r2.Vec `json:"from"`
	To   r2.Vec `json:"to"`
}

// Result is the outcome of [Object].
type Result struct {
	Delta    r2.Vec
	SnappedX bool
	SnappedY bool
	Hits     []Hit
	Guides   []Guide
	// Candidates is the number of ids returned by the index query.
	Candidates int
}

// Index finds candidate ids near the moving selection.
type Index interface {
	QueryArea(area r2.Box) []entity.ID
}

// Store resolves candidate ids to entities.
type Store interface {
	Entity(id entity.ID) (entity.Entity, bool)
}

// Query describes the moving selection.
type Query struct {
	// Base is the selection AABB at gesture start.
	Base r2.Box
	// Delta is the current, possibly grid-snapped, translation.
	Delta r2.Vec
	// Moving lists ids that never snap to themselves.
	Moving []entity.ID
	View   geom.View
	AllowX bool
	AllowY bool
}

// Grid rounds each axis of p to the nearest grid multiple when grid
// snapping is active.
func Grid(p r2.Vec, o Options) r2.Vec {
	if !o.GridActive() {
		return p
	}
	s := o.GridSize
	return r2.Vec{X: math.Round(p.X/s) * s, Y: math.Round(p.Y/s) * s}
}

// Tolerance converts a pixel tolerance into world units.
func Tolerance(px, viewScale float64) float64 {
	if px <= 0 {
		px = DefaultTolerancePx
	}
	if viewScale <= geom.Epsilon {
		return px
	}
	return px / viewScale
}

type endpointer interface{ Endpoints() []r2.Vec }
type midpointer interface{ Midpoints() []r2.Vec }

type axisBest struct {
	snapped  bool
	delta    float64
	guide    float64
	dist     float64
	kind     Kind
	point    r2.Vec
	hasPoint bool
}

func (b *axisBest) consider(candidate float64, point r2.Vec, kind Kind, targets []float64, tol float64) {
	for _, target := range targets {
		delta := candidate - target
		dist := math.Abs(delta)
		if dist <= tol && dist < b.dist {
			b.dist = dist
			b.delta = delta
			b.guide = candidate
			b.snapped = true
			b.kind = kind
			b.point = point
			b.hasPoint = kind != KindNone
		}
	}
}

// Object aligns the moved selection box with nearby entities.
func Object(q Query, o Options, index Index, store Store) Result {
	var res Result
	if !o.ObjectActive() || (!q.AllowX && !q.AllowY) {
		return res
	}

	tol := Tolerance(o.TolerancePx, q.View.Scale)
	moved := geom.Translate(q.Base, q.Delta)

	targetsX := []float64{moved.Min.X, moved.Max.X}
	targetsY := []float64{moved.Min.Y, moved.Max.Y}
	if o.Center {
		c := moved.Center()
		targetsX = append(targetsX, c.X)
		targetsY = append(targetsY, c.Y)
	}

	moving := make(map[entity.ID]struct{}, len(q.Moving))
	for _, id := range q.Moving {
		moving[id] = struct{}{}
	}

	candidates := index.QueryArea(geom.Expand(moved, tol))
	res.Candidates = len(candidates)

	bestX := axisBest{dist: math.Inf(1)}
	bestY := axisBest{dist: math.Inf(1)}
	considerPoint := func(p r2.Vec, kind Kind) {
		if q.AllowX {
			bestX.consider(p.X, p, kind, targetsX, tol)
		}
		if q.AllowY {
			bestY.consider(p.Y, p, kind, targetsY, tol)
		}
	}

	for _, id := range candidates {
		if _, skip := moving[id]; skip {
			continue
		}
		e, ok := store.Entity(id)
		if !ok || !e.Pickable() {
			continue
		}
		box := e.Geometry.Bounds()

		if q.AllowX {
			bestX.consider(box.Min.X, r2.Vec{X: box.Min.X}, KindNone, targetsX, tol)
			bestX.consider(box.Max.X, r2.Vec{X: box.Max.X}, KindNone, targetsX, tol)
		}
		if q.AllowY {
			bestY.consider(box.Min.Y, r2.Vec{Y: box.Min.Y}, KindNone, targetsY, tol)
			bestY.consider(box.Max.Y, r2.Vec{Y: box.Max.Y}, KindNone, targetsY, tol)
		}
		if o.Center {
			considerPoint(box.Center(), KindCenter)
		}
		if o.Endpoint {
			if g, ok := e.Geometry.(endpointer); ok {
				for _, p := range g.Endpoints() {
					considerPoint(p, KindEndpoint)
				}
			}
		}
		if o.Midpoint {
			if g, ok := e.Geometry.(midpointer); ok {
				for _, p := range g.Midpoints() {
					considerPoint(p, KindMidpoint)
				}
			}
		}
	}

	if q.AllowX && bestX.snapped {
		res.SnappedX = true
		res.Delta.X = bestX.delta
	}
	if q.AllowY && bestY.snapped {
		res.SnappedY = true
		res.Delta.Y = bestY.delta
	}
	if !res.SnappedX && !res.SnappedY {
		return res
	}

	res.Hits = collectHits(res, bestX, bestY)
	res.Guides = guides(res, bestX, bestY, moved, q.View)
	return res
}

func collectHits(res Result, bestX, bestY axisBest) []Hit {
	var hits []Hit
	push := func(b axisBest) {
		if !b.hasPoint || b.kind == KindNone || len(hits) >= 2 {
			return
		}
		hits = append(hits, Hit{Kind: b.kind, Point: b.point})
	}
	same := func(h Hit, b axisBest) bool {
		return h.Kind == b.kind &&
			math.Abs(h.Point.X-b.point.X) <= hitEpsilon &&
			math.Abs(h.Point.Y-b.point.Y) <= hitEpsilon
	}

	if res.SnappedX && res.SnappedY && bestX.hasPoint && bestY.hasPoint &&
		same(Hit{Kind: bestX.kind, Point: bestX.point}, bestY) {
		push(bestX)
		return hits
	}
	if res.SnappedX {
		push(bestX)
	}
	if res.SnappedY && !(len(hits) > 0 && same(hits[0], bestY)) {
		push(bestY)
	}
	return hits
}

func guides(res Result, bestX, bestY axisBest, moved r2.Box, view geom.View) []Guide {
	span := moved
	if vr, ok := view.VisibleRange(); ok {
		span = vr
	}
	var out []Guide
	if res.SnappedX {
		out = append(out, Guide{
			From: r2.Vec{X: bestX.guide, Y: span.Min.Y},
			To:   r2.Vec{X: bestX.guide, Y: span.Max.Y},
		})
	}
	if res.SnappedY {
		out = append(out, Guide{
			From: r2.Vec{X: span.Min.X, Y: bestY.guide},
			To:   r2.Vec{X: span.Max.X, Y: bestY.guide},
		})
	}
	return out
}
