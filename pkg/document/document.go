// Package document holds the editable drawing: its entities, draw order,
// selection and the counters that used to be process-wide state.
//
// A [Document] is the single aggregate every editing component receives by
// reference. It owns:
//
//   - the entity records, stored densely with an id→slot map so lookups by
//     id never scan
//   - the draw order (back to front)
//   - the ordered selection
//   - the id allocator (nextID)
//   - the generation counter, bumped whenever visible state changes
//   - dirty flags for consumers that cache derived data (snapshots, text quads)
//
// The document does not maintain the pick index. Components that mutate
// geometry refresh the index themselves; [Document.Reindex] rebuilds it from
// scratch after a load.
//
// Document is not safe for concurrent use.
package document

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
)

var (
	// ErrZeroID is returned by [Document.Insert] for an entity with id 0.
	ErrZeroID = errors.New("entity id must not be zero")

	// ErrDuplicateID is returned by [Document.Insert] when the id is taken.
	ErrDuplicateID = errors.New("duplicate entity id")

	// ErrNoGeometry is returned by [Document.Insert] for an entity without geometry.
	ErrNoGeometry = errors.New("entity has no geometry")
)

// Indexer receives entity bounds. It is satisfied by the pick index.
type Indexer interface {
	Update(id entity.ID, box r2.Box)
	SetOrder(order []entity.ID)
}

// Document is the editable drawing.
//
// The zero value is not usable; call [New].
type Document struct {
	entities  []entity.Entity
	slots     map[entity.ID]int
	order     []entity.ID
	selection []entity.ID

	nextID     entity.ID
	generation uint64

	snapshotDirty bool
	textDirty     map[entity.ID]struct{}
}

// New returns an empty document whose first allocated id is 1.
func New() *Document {
	return &Document{
		slots:     make(map[entity.ID]int),
		nextID:    1,
		textDirty: make(map[entity.ID]struct{}),
	}
}

// =============================================================================
// Entities
// =============================================================================

// Len returns the number of entities.
func (d *Document) Len() int { return len(d.entities) }

// Entity returns the record for id.
func (d *Document) Entity(id entity.ID) (entity.Entity, bool) {
	slot, ok := d.slots[id]
	if !ok {
		return entity.Entity{}, false
	}
	return d.entities[slot], true
}

// Has reports whether id exists.
func (d *Document) Has(id entity.ID) bool {
	_, ok := d.slots[id]
	return ok
}

// Entities returns all records in draw order, back to front.
func (d *Document) Entities() []entity.Entity {
	out := make([]entity.Entity, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.entities[d.slots[id]])
	}
	return out
}

// IsPickable reports whether id exists and may be hit-tested or transformed.
func (d *Document) IsPickable(id entity.ID) bool {
	e, ok := d.Entity(id)
	return ok && e.Pickable()
}

// Insert adds a new entity on top of the draw order. The allocator is
// advanced past e.ID so later allocations never collide.
func (d *Document) Insert(e entity.Entity) error {
	switch {
	case e.ID == 0:
		return ErrZeroID
	case e.Geometry == nil:
		return fmt.Errorf("entity %d: %w", e.ID, ErrNoGeometry)
	case d.Has(e.ID):
		return fmt.Errorf("entity %d: %w", e.ID, ErrDuplicateID)
	}
	d.slots[e.ID] = len(d.entities)
	d.entities = append(d.entities, e)
	d.order = append(d.order, e.ID)
	if e.ID >= d.nextID {
		d.nextID = e.ID + 1
	}
	d.markChanged(e)
	return nil
}

// Put replaces the record for e.ID, or inserts it when absent. It is the
// restore path for history and does not touch the allocator.
func (d *Document) Put(e entity.Entity) error {
	if slot, ok := d.slots[e.ID]; ok {
		if e.Geometry == nil {
			return fmt.Errorf("entity %d: %w", e.ID, ErrNoGeometry)
		}
		d.entities[slot] = e
		d.markChanged(e)
		return nil
	}
	next := d.nextID
	if err := d.Insert(e); err != nil {
		return err
	}
	d.nextID = next
	return nil
}

// SetGeometry replaces the geometry of id. It reports false when id does not
// exist or g is nil.
func (d *Document) SetGeometry(id entity.ID, g entity.Geometry) bool {
	slot, ok := d.slots[id]
	if !ok || g == nil {
		return false
	}
	d.entities[slot].Geometry = g
	d.markChanged(d.entities[slot])
	return true
}

// Delete removes id from the document, its draw order and the selection.
func (d *Document) Delete(id entity.ID) bool {
	slot, ok := d.slots[id]
	if !ok {
		return false
	}
	last := len(d.entities) - 1
	if slot != last {
		moved := d.entities[last]
		d.entities[slot] = moved
		d.slots[moved.ID] = slot
	}
	d.entities = d.entities[:last]
	delete(d.slots, id)
	delete(d.textDirty, id)
	d.order = slices.DeleteFunc(d.order, func(v entity.ID) bool { return v == id })
	d.selection = slices.DeleteFunc(d.selection, func(v entity.ID) bool { return v == id })
	return true
}

// Clone copies the entity id to a freshly allocated id placed on top of the
// draw order. Kind, layer and flags are kept.
func (d *Document) Clone(id entity.ID) (entity.ID, error) {
	src, ok := d.Entity(id)
	if !ok {
		return 0, fmt.Errorf("clone %d: not found", id)
	}
	dup := src.Clone()
	dup.ID = d.AllocateID()
	if err := d.Insert(dup); err != nil {
		return 0, err
	}
	return dup.ID, nil
}

func (d *Document) markChanged(e entity.Entity) {
	if e.Kind() == entity.KindText {
		d.textDirty[e.ID] = struct{}{}
	}
}

// =============================================================================
// Order and selection
// =============================================================================

// DrawOrder returns the ids back to front.
func (d *Document) DrawOrder() []entity.ID { return slices.Clone(d.order) }

// SetDrawOrder replaces the draw order. Unknown ids are dropped and existing
// ids missing from order are appended in their previous relative order.
func (d *Document) SetDrawOrder(order []entity.ID) {
	d.order = d.normalize(order, d.order)
}

// Selection returns the selected ids in selection order.
func (d *Document) Selection() []entity.ID { return slices.Clone(d.selection) }

// SetSelection replaces the selection. Unknown and repeated ids are dropped.
func (d *Document) SetSelection(ids []entity.ID) {
	d.selection = d.normalize(ids, nil)
}

func (d *Document) normalize(ids, rest []entity.ID) []entity.ID {
	seen := make(map[entity.ID]struct{}, len(ids))
	out := make([]entity.ID, 0, len(ids)+len(rest))
	add := func(id entity.ID) {
		if _, dup := seen[id]; dup || !d.Has(id) {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range ids {
		add(id)
	}
	for _, id := range rest {
		add(id)
	}
	return out
}

// =============================================================================
// Counters and flags
// =============================================================================

// AllocateID returns the next free id and advances the allocator.
func (d *Document) AllocateID() entity.ID {
	id := d.nextID
	d.nextID++
	for d.Has(d.nextID) {
		d.nextID++
	}
	return id
}

// NextID returns the id the next allocation will return.
func (d *Document) NextID() entity.ID { return d.nextID }

// SetNextID rewinds or advances the allocator.
func (d *Document) SetNextID(id entity.ID) {
	if id == 0 {
		id = 1
	}
	d.nextID = id
}

// Generation returns the change counter.
func (d *Document) Generation() uint64 { return d.generation }

// BumpGeneration records a visible change.
func (d *Document) BumpGeneration() { d.generation++ }

// SnapshotDirty reports whether the document changed since the last
// [Document.ClearSnapshotDirty].
func (d *Document) SnapshotDirty() bool { return d.snapshotDirty }

// MarkSnapshotDirty flags cached snapshots as stale.
func (d *Document) MarkSnapshotDirty() { d.snapshotDirty = true }

// ClearSnapshotDirty resets the snapshot flag.
func (d *Document) ClearSnapshotDirty() { d.snapshotDirty = false }

// MarkTextDirty flags a text entity for re-layout.
func (d *Document) MarkTextDirty(id entity.ID) {
	if d.Has(id) {
		d.textDirty[id] = struct{}{}
	}
}

// TakeTextDirty returns and clears the text ids awaiting re-layout, sorted.
func (d *Document) TakeTextDirty() []entity.ID {
	out := make([]entity.ID, 0, len(d.textDirty))
	for id := range d.textDirty {
		out = append(out, id)
	}
	clear(d.textDirty)
	slices.Sort(out)
	return out
}

// Reindex pushes every entity's bounds into ix and syncs its z order with
// the draw order.
func (d *Document) Reindex(ix Indexer) {
	for _, id := range d.order {
		ix.Update(id, d.entities[d.slots[id]].Geometry.Bounds())
	}
	ix.SetOrder(d.order)
}
