package entity

import (
	"encoding/json"
	"fmt"
)

type wireEntity struct {
	ID       ID              `json:"id"`
	Kind     string          `json:"kind"`
	Layer    uint32          `json:"layer,omitempty"`
	Hidden   bool            `json:"hidden,omitempty"`
	Locked   bool            `json:"locked,omitempty"`
	Geometry json.RawMessage `json:"geometry"`
}

// MarshalJSON encodes the entity with its kind as a discriminator.
func (e Entity) MarshalJSON() ([]byte, error) {
	if e.Geometry == nil {
		return nil, fmt.Errorf("entity %d has no geometry", e.ID)
	}
	g, err := json.Marshal(e.Geometry)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireEntity{
		ID:       e.ID,
		Kind:     e.Kind().String(),
		Layer:    e.Layer,
		Hidden:   e.Flags&FlagVisible == 0,
		Locked:   e.Flags&FlagLocked != 0,
		Geometry: g,
	})
}

// UnmarshalJSON decodes an entity written by MarshalJSON.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var w wireEntity
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind, err := ParseKind(w.Kind)
	if err != nil {
		return err
	}
	g, err := decodeGeometry(kind, w.Geometry)
	if err != nil {
		return fmt.Errorf("entity %d: %w", w.ID, err)
	}

	flags := DefaultFlags
	if w.Hidden {
		flags &^= FlagVisible
	}
	if w.Locked {
		flags |= FlagLocked
	}
	*e = Entity{ID: w.ID, Layer: w.Layer, Flags: flags, Geometry: g}
	return nil
}

func decodeGeometry(kind Kind, raw json.RawMessage) (Geometry, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing %s geometry", kind)
	}
	switch kind {
	case KindRect:
		return decodeAs[Rect](raw)
	case KindCircle:
		return decodeAs[Circle](raw)
	case KindPolygon:
		return decodeAs[Polygon](raw)
	case KindLine:
		return decodeAs[Line](raw)
	case KindPolyline:
		return decodeAs[Polyline](raw)
	case KindArrow:
		return decodeAs[Arrow](raw)
	case KindText:
		return decodeAs[Text](raw)
	}
	return nil, fmt.Errorf("unsupported kind %s", kind)
}

func decodeAs[G Geometry](raw json.RawMessage) (Geometry, error) {
	var g G
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return g, nil
}
