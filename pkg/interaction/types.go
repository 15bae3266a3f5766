package interaction

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
)

// =============================================================================
// Modes
// =============================================================================

// Mode selects what a gesture does to its participants.
type Mode uint8

const (
	Move Mode = iota
	VertexDrag
	EdgeDrag
	Resize
	Rotate
	SideResize
)

var modeNames = map[Mode]string{
	Move:       "move",
	VertexDrag: "vertex_drag",
	EdgeDrag:   "edge_drag",
	Resize:     "resize",
	Rotate:     "rotate",
	SideResize: "side_resize",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode converts a mode name back into a Mode. Dashes are accepted in
// place of underscores.
func ParseMode(s string) (Mode, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown transform mode %q", s)
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText decodes a mode name.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// translates reports whether the mode moves whole entities.
func (m Mode) translates() bool { return m == Move || m == EdgeDrag }

// AxisLock constrains a move to one world axis.
type AxisLock uint8

const (
	AxisNone AxisLock = iota
	AxisX
	AxisY
)

func (a AxisLock) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	}
	return "none"
}

// =============================================================================
// Modifiers
// =============================================================================

// Modifiers is the keyboard modifier bitmask passed with every call.
type Modifiers uint32

const (
	Shift Modifiers = 1 << iota
	Ctrl
	Alt
	Meta
)

// Has reports whether every bit in m is set.
func (mods Modifiers) Has(m Modifiers) bool { return mods&m == m }

// SnapSuppressed reports whether Ctrl or Meta is held.
func (mods Modifiers) SnapSuppressed() bool { return mods&(Ctrl|Meta) != 0 }

// ParseModifiers reads a "+" or "," separated list such as "shift+alt".
func ParseModifiers(s string) (Modifiers, error) {
	var out Modifiers
	for _, part := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	}) {
		switch part {
		case "shift":
			out |= Shift
		case "ctrl", "control":
			out |= Ctrl
		case "alt", "option":
			out |= Alt
		case "meta", "cmd", "super":
			out |= Meta
		default:
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
	}
	return out, nil
}

func (mods Modifiers) String() string {
	var parts []string
	for _, m := range []struct {
		bit  Modifiers
		name string
	}{{Shift, "shift"}, {Ctrl, "ctrl"}, {Alt, "alt"}, {Meta, "meta"}} {
		if mods.Has(m.bit) {
			parts = append(parts, m.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// =============================================================================
// Handles
// =============================================================================

// Corner handle indices for Resize.
const (
	CornerBottomLeft = iota
	CornerBottomRight
	CornerTopRight
	CornerTopLeft
)

// Side handle indices for SideResize.
const (
	SideSouth = iota
	SideEast
	SideNorth
	SideWest
)

// =============================================================================
// Results
// =============================================================================

// OpCode tags a commit result.
type OpCode uint8

const (
	OpMove       OpCode = 1
	OpVertexSet  OpCode = 2
	OpResize     OpCode = 3
	OpRotate     OpCode = 4
	OpSideResize OpCode = 5
)

var opNames = map[OpCode]string{
	OpMove:       "MOVE",
	OpVertexSet:  "VERTEX_SET",
	OpResize:     "RESIZE",
	OpRotate:     "ROTATE",
	OpSideResize: "SIDE_RESIZE",
}

func (o OpCode) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("OP(%d)", uint8(o))
}

// MarshalText encodes the op code by name.
func (o OpCode) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText decodes an op code name.
func (o *OpCode) UnmarshalText(b []byte) error {
	for code, name := range opNames {
		if name == string(b) {
			*o = code
			return nil
		}
	}
	return fmt.Errorf("unknown op code %q", b)
}

// Result is one committed change, reported per participant.
//
// Payloads by op code:
//
//	MOVE         dx, dy, 0, 0       translation of the entity origin
//	VERTEX_SET   index, x, y, 0
//	RESIZE       x, y, w, h         rect min corner and size; center and
//	SIDE_RESIZE  x, y, w, h         diameters for circles and polygons
//	ROTATE       degrees, cx, cy, 0
type Result struct {
	ID      entity.ID  `json:"id"`
	Op      OpCode     `json:"op"`
	Payload [4]float64 `json:"payload"`
}

// =============================================================================
// Introspection
// =============================================================================

// State is the externally visible session state.
type State struct {
	Active bool   `json:"active"`
	Mode   Mode   `json:"mode"`
	Pivot  r2.Vec `json:"pivot"`
	// RotationDeltaDeg is the accumulated rotation of the current gesture.
	RotationDeltaDeg float64 `json:"rotation_delta_deg"`
}

// Stats describes the most recent update.
type Stats struct {
	LastUpdate     time.Duration `json:"last_update"`
	SnapCandidates int           `json:"snap_candidates"`
	SnapHits       int           `json:"snap_hits"`
}

// Snapshot is the pre-gesture geometry of one participant. Snapshots never
// change while the gesture is active.
type Snapshot struct {
	ID       entity.ID
	Geometry entity.Geometry
}
