package entity

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/geom"
)

// Text is a laid-out text box. Layout belongs to the text system; the editor
// only moves the anchor and carries the laid-out bounds along with it.
type Text struct {
	Position r2.Vec  `json:"position"`
	Rot      float64 `json:"rot,omitempty"`
	Box      r2.Box  `json:"box"`
	Content  string  `json:"content,omitempty"`
}

func (t Text) Kind() Kind            { return KindText }
func (t Text) Origin() r2.Vec        { return t.Position }
func (t Text) Center() r2.Vec        { return t.Position }
func (t Text) Rotation() float64     { return t.Rot }
func (t Text) Bounds() r2.Box        { return t.Box }
func (t Text) Clone() Geometry       { return t }
func (t Text) Equal(o Geometry) bool { return o == Geometry(t) }

// Translate moves the anchor and shifts the laid-out bounds with it.
func (t Text) Translate(d r2.Vec) Geometry {
	t.Position = r2.Add(t.Position, d)
	t.Box = geom.Translate(t.Box, d)
	return t
}

// ScaleAbout repositions the anchor. Glyph size is owned by the text style
// and does not scale.
func (t Text) ScaleAbout(anchor, scale, _ r2.Vec) Geometry {
	return t.Translate(r2.Sub(scaleAbout(t.Position, anchor, scale), t.Position))
}

func (t Text) RotateAbout(pivot r2.Vec, delta float64, orbit bool) Geometry {
	t.Rot += delta
	if !orbit {
		return t
	}
	return t.Translate(r2.Sub(r2.Rotate(t.Position, delta, pivot), t.Position))
}
