package interaction

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/events"
)

// Store is the entity-mutation port. It is satisfied by *document.Document.
type Store interface {
	Entity(id entity.ID) (entity.Entity, bool)
	IsPickable(id entity.ID) bool
	SetGeometry(id entity.ID, g entity.Geometry) bool
	Insert(e entity.Entity) error
	Delete(id entity.ID) bool

	Selection() []entity.ID
	SetSelection(ids []entity.ID)

	AllocateID() entity.ID
	NextID() entity.ID
	SetNextID(id entity.ID)

	BumpGeneration()
	MarkSnapshotDirty()
}

// PickIndex is the spatial index port. It is satisfied by *pick.Index.
type PickIndex interface {
	Update(id entity.ID, box r2.Box)
	Remove(id entity.ID)
	QueryArea(area r2.Box) []entity.ID
}

// HistoryRecorder is the undo port. It is satisfied by *history.Manager.
type HistoryRecorder interface {
	BeginEntry() bool
	MarkEntityChange(id entity.ID)
	MarkSelectionChange()
	CommitEntry() bool
	DiscardEntry()
	Suppressed() bool
	SetSuppressed(v bool)
}

// EventSink receives change notifications. It is satisfied by every sink in
// package events.
type EventSink interface {
	Emit(e events.Event)
}

// TextSystem is told when a text entity moved so it can re-layout.
// It is satisfied by *document.Document.
type TextSystem interface {
	MarkTextDirty(id entity.ID)
}

type noHistory struct{ suppressed bool }

func (*noHistory) BeginEntry() bool           { return false }
func (*noHistory) MarkEntityChange(entity.ID) {}
func (*noHistory) MarkSelectionChange()       {}
func (*noHistory) CommitEntry() bool          { return false }
func (*noHistory) DiscardEntry()              {}
func (h *noHistory) Suppressed() bool         { return h.suppressed }
func (h *noHistory) SetSuppressed(v bool)     { h.suppressed = v }
