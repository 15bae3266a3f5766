// Package pkg provides the core libraries of the vectorcad interaction core.
//
// # Overview
//
// vectorcad turns pointer gestures into geometry edits on a 2D vector
// document. A gesture begins on a handle or a selection, follows the
// pointer through snapping and axis locking, and ends in a single undoable
// commit. The pkg directory is organized into four areas:
//
//  1. Model - [geom], [entity], [document] and the [pick] spatial index
//  2. Interaction - [snap], [interaction] and [history]
//  3. Integration - [events], [script] and [io]
//  4. Ambient - [config], [errors], [metrics], [observability] and [buildinfo]
//
// # Architecture
//
// The data flow of one gesture:
//
//	Pointer (screen px, modifiers)
//	         ↓
//	    [geom] package (screen → world through the view)
//	         ↓
//	    [snap] package (grid and object snapping)
//	         ↓
//	    [interaction] package (mode math, preview, commit)
//	         ↓
//	    [document] + [history] (mutation, undo/redo)
//	         ↓
//	    [events] (change notifications, Redis stream)
//
// # Quick Start
//
// Move an entity by 30 units and undo it:
//
//	import (
//	    "github.com/matzehuels/vectorcad/pkg/document"
//	    "github.com/matzehuels/vectorcad/pkg/entity"
//	    "github.com/matzehuels/vectorcad/pkg/geom"
//	    "github.com/matzehuels/vectorcad/pkg/history"
//	    "github.com/matzehuels/vectorcad/pkg/interaction"
//	    "github.com/matzehuels/vectorcad/pkg/pick"
//	    "gonum.org/v1/gonum/spatial/r2"
//	)
//
//	// 1. Build a document and its index
//	doc := document.New()
//	_ = doc.Insert(entity.Entity{ID: 1, Flags: entity.DefaultFlags, Geometry: entity.Rect{W: 10, H: 10}})
//	index := pick.New()
//	doc.Reindex(index)
//
//	// 2. Wire history and a session
//	hist := history.New(doc, history.WithIndex(index))
//	s := interaction.New(doc, index, interaction.WithHistory(hist))
//
//	// 3. Drag
//	s.Begin(interaction.BeginParams{IDs: []entity.ID{1}, Mode: interaction.Move, View: geom.Identity})
//	s.Update(r2.Vec{X: 30}, geom.Identity, interaction.Ctrl)
//	results := s.Commit()
//
//	// 4. Undo
//	hist.Undo()
//
// # Main Packages
//
// ## Model
//
// [geom] - Vectors, boxes, frames and the viewport mapping between screen
// pixels and world units. World y points up; screen y points down.
//
// [entity] - Entity records and their geometry variants (rectangles, circles,
// lines, arrows, polylines, polygons, text) with JSON encoding.
//
// [document] - The aggregate that owns entities, draw order, selection and
// id allocation, plus snapshots used by history.
//
// [pick] - An R-tree of entity bounds for hit-testing and snap
// candidate discovery.
//
// ## Interaction
//
// [snap] - Grid rounding and object snapping against bounds, centers,
// endpoints and midpoints of nearby entities.
//
// [interaction] - The transform session: begin/update/commit/cancel over
// six modes (move, edge drag, vertex drag, resize, side resize, rotate), with
// drag thresholds, axis lock, and a bounded transform log for replay.
//
// [history] - Snapshot-based undo/redo over the document.
//
// ## Integration
//
// [events] - Change events with in-memory, log and Redis stream sinks.
//
// [script] - TOML gesture scripts and the runner that drives a session
// from them.
//
// [io] - JSON import and export of whole documents.
//
// ## Ambient
//
// [config] - Layered configuration from defaults, TOML files and
// VECTORCAD_* environment variables.
//
// [errors] - Coded errors shared by every package, with HTTP status mapping.
//
// [metrics] and [observability] - Prometheus collectors installed behind
// no-op hooks.
//
// [buildinfo] - Version information set at link time.
package pkg
