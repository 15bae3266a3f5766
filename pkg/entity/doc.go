// Package entity defines the vector entities the editor manipulates.
//
// An [Entity] couples an [ID], layer and flag bits with a [Geometry] value.
// Geometry is a closed sum type: [Rect], [Circle], [Polygon], [Line],
// [Arrow], [Polyline] and [Text]. Geometry values are immutable from the
// caller's point of view; every edit returns a new value, which is what lets
// an interaction keep a pre-gesture copy and restore it exactly.
//
// # Capabilities
//
// Transform code does not switch over kinds. It asks a geometry for a
// capability instead:
//
//   - [Movable]: translate by a world delta (every kind)
//   - [Resizable]: rotated local frame with half extents (rect, circle, polygon)
//   - [Scalable]: scale about a shared group anchor (every kind)
//   - [Rotatable]: rotate about a pivot, optionally orbiting it (every kind)
//   - [VertexEditable]: move one control point (line, arrow, polyline)
//
// A geometry that lacks a capability is skipped by the mode that needs it,
// without aborting the rest of the batch.
//
// # Coordinates
//
// World space is Y-up. A [Rect] is stored by its unrotated min corner and
// size and rotates about its center. Circles and polygons are stored by center
// and radii. Rotations are radians, counter-clockwise.
package entity
