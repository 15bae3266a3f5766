package document

import (
	"fmt"

	"github.com/matzehuels/vectorcad/pkg/entity"
)

// Snapshot is the serializable state of a document. Entities are listed in
// draw order.
type Snapshot struct {
	NextID     entity.ID       `json:"next_id"`
	Generation uint64          `json:"generation,omitempty"`
	Selection  []entity.ID     `json:"selection,omitempty"`
	Entities   []entity.Entity `json:"entities"`
}

// Snapshot captures the document.
func (d *Document) Snapshot() Snapshot {
	entities := d.Entities()
	for i := range entities {
		entities[i] = entities[i].Clone()
	}
	return Snapshot{
		NextID:     d.nextID,
		Generation: d.generation,
		Selection:  d.Selection(),
		Entities:   entities,
	}
}

// FromSnapshot builds a document from s. The allocator is never placed
// below the highest entity id.
func FromSnapshot(s Snapshot) (*Document, error) {
	d := New()
	for _, e := range s.Entities {
		if err := d.Insert(e); err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
	}
	if s.NextID > d.nextID {
		d.nextID = s.NextID
	}
	d.generation = s.Generation
	d.SetSelection(s.Selection)
	d.TakeTextDirty()
	return d, nil
}
