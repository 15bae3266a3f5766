package entity

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// ID identifies an entity within a document. Zero is never a valid id.
type ID uint32

// Kind is the geometry variant of an entity.
type Kind uint8

const (
	KindRect Kind = iota + 1
	KindCircle
	KindPolygon
	KindLine
	KindPolyline
	KindArrow
	KindText
)

var kindNames = map[Kind]string{
	KindRect:     "rect",
	KindCircle:   "circle",
	KindPolygon:  "polygon",
	KindLine:     "line",
	KindPolyline: "polyline",
	KindArrow:    "arrow",
	KindText:     "text",
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind converts a kind name back into a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// Flags carry per-entity visibility and editability bits.
type Flags uint32

const (
	FlagVisible Flags = 1 << iota
	FlagLocked
)

// DefaultFlags is the flag set for a freshly created, editable entity.
const DefaultFlags = FlagVisible

// Entity is one record in a document.
type Entity struct {
	ID       ID
	Layer    uint32
	Flags    Flags
	Geometry Geometry
}

// Kind returns the geometry kind, or zero for an entity without geometry.
func (e Entity) Kind() Kind {
	if e.Geometry == nil {
		return 0
	}
	return e.Geometry.Kind()
}

// Pickable reports whether the entity may participate in hit-testing,
// snapping and transforms: it must be visible, unlocked and have geometry.
func (e Entity) Pickable() bool {
	return e.Geometry != nil && e.Flags&FlagVisible != 0 && e.Flags&FlagLocked == 0
}

// Clone returns a deep copy of the entity.
func (e Entity) Clone() Entity {
	out := e
	if e.Geometry != nil {
		out.Geometry = e.Geometry.Clone()
	}
	return out
}

// Equal reports whether two entities carry identical ids, attributes and geometry.
func (e Entity) Equal(o Entity) bool {
	if e.ID != o.ID || e.Layer != o.Layer || e.Flags != o.Flags {
		return false
	}
	if e.Geometry == nil || o.Geometry == nil {
		return e.Geometry == nil && o.Geometry == nil
	}
	return e.Geometry.Equal(o.Geometry)
}

// Geometry is the closed set of entity shapes.
type Geometry interface {
	Kind() Kind
	// Bounds is the world-space AABB used for picking and snapping.
	Bounds() r2.Box
	// Origin is the reference point reported for moves: the rect min corner,
	// a circle or polygon center, the text anchor or the first control point.
	Origin() r2.Vec
	Clone() Geometry
	Equal(Geometry) bool
}

// Movable geometry can be translated.
type Movable interface {
	Translate(d r2.Vec) Geometry
}

// Resizable geometry has a rotated local frame with half extents.
type Resizable interface {
	// Frame returns the local frame and the half extents along its axes.
	Frame() (center r2.Vec, half r2.Vec, rotation float64)
	// WithFrame returns a copy with a new center and half extents. Rotation
	// is kept.
	WithFrame(center, half r2.Vec) Geometry
	// Extent returns the x, y, w, h reported for resize results: the min
	// corner and size for a rect, the center and diameters otherwise.
	Extent() (x, y, w, h float64)
}

// Scalable geometry can be scaled about a shared anchor.
type Scalable interface {
	// ScaleAbout scales positions by scale about anchor. Extents are
	// multiplied by size, which callers pass as absolute factors.
	ScaleAbout(anchor, scale, size r2.Vec) Geometry
}

// Rotatable geometry can be rotated about a pivot.
type Rotatable interface {
	Rotation() float64
	Center() r2.Vec
	// RotateAbout adds delta radians to the geometry's own rotation. With
	// orbit set, its center also moves around pivot by the same angle.
	RotateAbout(pivot r2.Vec, delta float64, orbit bool) Geometry
}

// VertexEditable geometry exposes individually draggable control points.
type VertexEditable interface {
	Vertices() []r2.Vec
	WithVertex(i int, p r2.Vec) Geometry
	// AngleAnchor returns the index of the point that vertex i is
	// angle-snapped around, or false when vertex i does not angle-snap.
	AngleAnchor(i int) (int, bool)
}

var (
	_ Geometry = Rect{}
	_ Geometry = Circle{}
	_ Geometry = Polygon{}
	_ Geometry = Line{}
	_ Geometry = Arrow{}
	_ Geometry = Polyline{}
	_ Geometry = Text{}

	_ Resizable = Rect{}
	_ Resizable = Circle{}
	_ Resizable = Polygon{}

	_ VertexEditable = Line{}
	_ VertexEditable = Arrow{}
	_ VertexEditable = Polyline{}
)
