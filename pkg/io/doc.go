// Package io provides JSON import and export for documents.
//
// # JSON Format
//
// A document is a single object. Entities are listed back to front:
//
//	{
//	  "next_id": 4,
//	  "selection": [2],
//	  "entities": [
//	    {"id": 1, "kind": "rect", "geometry": {"x": 0, "y": 0, "w": 10, "h": 5}},
//	    {"id": 2, "kind": "circle", "geometry": {"cx": 20, "cy": 0, "rx": 4, "ry": 4}},
//	    {"id": 3, "kind": "line", "locked": true, "geometry": {"a": {"X": 0, "Y": 0}, "b": {"X": 5, "Y": 5}}}
//	  ]
//	}
//
// # Entity Fields
//
// Required:
//   - id: Non-zero unique identifier
//   - kind: One of rect, circle, polygon, line, polyline, arrow, text
//   - geometry: Kind-specific object
//
// Optional:
//   - layer: Layer number (defaults to 0)
//   - hidden, locked: Flags that exclude the entity from picking and transforms
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, or [ReadJSON] to read
// from any io.Reader. Both reject duplicate and zero ids. When next_id is
// missing or too small, the allocator is placed after the highest id so new
// entities never collide with loaded ones.
//
// # Export
//
// Use [ExportJSON] to write a document to a file, or [WriteJSON] to write to
// any io.Writer. Export followed by import reproduces the document, its draw
// order, selection, allocator and generation.
//
// The pick index is not serialized; rebuild it with [document.Document.Reindex]
// after import.
package io
