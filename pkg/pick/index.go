// Package pick maintains the spatial index used for hit-testing and for
// discovering snap candidates.
//
// The index stores one axis-aligned box per entity id in an R-tree. It knows
// nothing about geometry: callers push a fresh box with [Index.Update] after
// every mutation and drop ids with [Index.Remove].
//
// Area queries return ids ordered front to back (highest z first, then
// ascending id), so the first result is what a click would hit.
package pick

import (
	"cmp"
	"math"
	"slices"

	"github.com/tidwall/rtree"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/geom"
)

type entry struct {
	box r2.Box
	z   uint64
	// unbounded boxes have a NaN or infinite corner and live outside the tree.
	unbounded bool
}

// Index is an R-tree of entity AABBs.
//
// The zero value is not usable; call [New]. Index is not safe for
// concurrent use.
type Index struct {
	tree      rtree.RTreeG[entity.ID]
	entries   map[entity.ID]*entry
	unbounded map[entity.ID]struct{}
	nextZ     uint64
}

// New creates an empty index.
func New() *Index {
	return &Index{
		entries:   make(map[entity.ID]*entry),
		unbounded: make(map[entity.ID]struct{}),
	}
}

// Len returns the number of indexed ids.
func (ix *Index) Len() int { return len(ix.entries) }

// Bounds returns the box stored for id.
func (ix *Index) Bounds(id entity.ID) (r2.Box, bool) {
	e, ok := ix.entries[id]
	if !ok {
		return r2.Box{}, false
	}
	return e.box, true
}

// Update stores box for id. A new id is placed on top of the z order; an
// existing id keeps its z.
func (ix *Index) Update(id entity.ID, box r2.Box) {
	box = box.Canon()
	e, ok := ix.entries[id]
	if ok {
		if e.box == box {
			return
		}
		ix.unlink(id, e)
	} else {
		ix.nextZ++
		e = &entry{z: ix.nextZ}
		ix.entries[id] = e
	}
	e.box = box
	ix.link(id, e)
}

// Remove drops id from the index.
func (ix *Index) Remove(id entity.ID) {
	e, ok := ix.entries[id]
	if !ok {
		return
	}
	ix.unlink(id, e)
	delete(ix.entries, id)
}

// Clear empties the index.
func (ix *Index) Clear() {
	ix.tree = rtree.RTreeG[entity.ID]{}
	clear(ix.entries)
	clear(ix.unbounded)
	ix.nextZ = 0
}

// SetOrder reassigns z so that later ids in order draw above earlier ones.
// Indexed ids missing from order keep their relative z below the ordered ones.
func (ix *Index) SetOrder(order []entity.ID) {
	base := ix.nextZ
	for i, id := range order {
		if e, ok := ix.entries[id]; ok {
			e.z = base + uint64(i) + 1
		}
	}
	ix.nextZ = base + uint64(len(order))
}

// QueryArea returns the ids whose boxes overlap area, edges included,
// ordered by z descending and id ascending.
func (ix *Index) QueryArea(area r2.Box) []entity.ID {
	area = area.Canon()
	var out []entity.ID
	consider := func(id entity.ID) {
		if geom.Overlaps(ix.entries[id].box, area) {
			out = append(out, id)
		}
	}

	if lo, hi, ok := corners(area); ok {
		ix.tree.Search(lo, hi, func(_, _ [2]float64, id entity.ID) bool {
			consider(id)
			return true
		})
	} else {
		ix.tree.Scan(func(_, _ [2]float64, id entity.ID) bool {
			consider(id)
			return true
		})
	}
	for id := range ix.unbounded {
		consider(id)
	}

	slices.SortFunc(out, func(a, b entity.ID) int {
		if c := cmp.Compare(ix.entries[b].z, ix.entries[a].z); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return out
}

// QueryPoint returns the ids whose boxes, grown by tol, contain p.
func (ix *Index) QueryPoint(p r2.Vec, tol float64) []entity.ID {
	return ix.QueryArea(geom.Expand(r2.Box{Min: p, Max: p}, tol))
}

func (ix *Index) link(id entity.ID, e *entry) {
	lo, hi, ok := corners(e.box)
	e.unbounded = !ok
	if !ok {
		ix.unbounded[id] = struct{}{}
		return
	}
	ix.tree.Insert(lo, hi, id)
}

func (ix *Index) unlink(id entity.ID, e *entry) {
	if e.unbounded {
		delete(ix.unbounded, id)
		return
	}
	lo, hi, _ := corners(e.box)
	ix.tree.Delete(lo, hi, id)
}

// corners converts b to R-tree coordinates. It returns false when a corner
// is NaN or infinite.
func corners(b r2.Box) (lo, hi [2]float64, ok bool) {
	for _, v := range []float64{b.Min.X, b.Min.Y, b.Max.X, b.Max.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return lo, hi, false
		}
	}
	return [2]float64{b.Min.X, b.Min.Y}, [2]float64{b.Max.X, b.Max.Y}, true
}
