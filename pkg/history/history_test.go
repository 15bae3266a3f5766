package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/document"
	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/pick"
)

func setup(t *testing.T) (*document.Document, *pick.Index, *Manager) {
	t.Helper()
	d := document.New()
	require.NoError(t, d.Insert(entity.Entity{ID: 1, Flags: entity.DefaultFlags, Geometry: entity.Rect{W: 10, H: 10}}))
	require.NoError(t, d.Insert(entity.Entity{ID: 2, Flags: entity.DefaultFlags, Geometry: entity.Circle{CX: 50, RX: 5, RY: 5}}))
	ix := pick.New()
	d.Reindex(ix)
	return d, ix, New(d, WithIndex(ix))
}

func rectX(t *testing.T, d *document.Document, id entity.ID) float64 {
	t.Helper()
	e, ok := d.Entity(id)
	require.True(t, ok)
	return e.Geometry.(entity.Rect).X
}

func TestCommitAndUndoRedo(t *testing.T) {
	d, ix, h := setup(t)

	require.True(t, h.BeginEntry())
	h.MarkEntityChange(1)
	d.SetGeometry(1, entity.Rect{X: 50, W: 10, H: 10})
	h.MarkEntityChange(1)
	require.True(t, h.CommitEntry())
	assert.Equal(t, 1, h.Len())

	gen := d.Generation()
	require.True(t, h.Undo())
	assert.Equal(t, 0.0, rectX(t, d, 1))
	assert.Equal(t, gen+1, d.Generation())
	box, _ := ix.Bounds(1)
	assert.Equal(t, 0.0, box.Min.X)

	require.True(t, h.Redo())
	assert.Equal(t, 50.0, rectX(t, d, 1))
	box, _ = ix.Bounds(1)
	assert.Equal(t, 50.0, box.Min.X)

	assert.False(t, h.Redo())
}

func TestUnchangedEntryIsDropped(t *testing.T) {
	d, _, h := setup(t)

	require.True(t, h.BeginEntry())
	h.MarkEntityChange(1)
	h.MarkEntityChange(2)
	h.MarkSelectionChange()
	d.SetSelection([]entity.ID{1})
	d.SetSelection(nil)
	assert.False(t, h.CommitEntry())
	assert.Equal(t, 0, h.Len())
	assert.False(t, h.Active())
}

func TestOnlyChangedEntitiesAreKeptSorted(t *testing.T) {
	d, _, h := setup(t)

	require.True(t, h.BeginEntry())
	h.MarkEntityChange(2)
	h.MarkEntityChange(1)
	d.SetGeometry(2, entity.Circle{CX: 60, RX: 5, RY: 5})
	require.NoError(t, d.Insert(entity.Entity{ID: 3, Flags: entity.DefaultFlags, Geometry: entity.Rect{W: 1, H: 1}}))
	h.MarkEntityChange(3)
	require.True(t, h.CommitEntry())

	entry := h.Entries()[0]
	require.Len(t, entry.Entities, 1)
	assert.Equal(t, entity.ID(2), entry.Entities[0].ID)
}

func TestUndoCreation(t *testing.T) {
	d, ix, h := setup(t)

	require.True(t, h.BeginEntry())
	id := d.AllocateID()
	h.MarkEntityChange(id)
	h.MarkSelectionChange()
	require.NoError(t, d.Insert(entity.Entity{ID: id, Flags: entity.DefaultFlags, Geometry: entity.Rect{X: 5, W: 1, H: 1}}))
	ix.Update(id, entity.Rect{X: 5, W: 1, H: 1}.Bounds())
	d.SetSelection([]entity.ID{id})
	require.True(t, h.CommitEntry())

	entry := h.Entries()[0]
	assert.Equal(t, entity.ID(3), entry.NextIDBefore)
	assert.Equal(t, entity.ID(4), entry.NextIDAfter)

	require.True(t, h.Undo())
	assert.False(t, d.Has(id))
	assert.Empty(t, d.Selection())
	assert.Equal(t, entity.ID(3), d.NextID())
	_, indexed := ix.Bounds(id)
	assert.False(t, indexed)

	require.True(t, h.Redo())
	assert.True(t, d.Has(id))
	assert.Equal(t, []entity.ID{id}, d.Selection())
	assert.Equal(t, entity.ID(4), d.NextID())
}

func TestCommitTruncatesRedoTail(t *testing.T) {
	d, _, h := setup(t)
	move := func(x float64) {
		require.True(t, h.BeginEntry())
		h.MarkEntityChange(1)
		d.SetGeometry(1, entity.Rect{X: x, W: 10, H: 10})
		require.True(t, h.CommitEntry())
	}
	move(1)
	move(2)
	require.True(t, h.Undo())
	move(3)

	assert.Equal(t, 2, h.Len())
	assert.False(t, h.CanRedo())
	require.True(t, h.Undo())
	assert.Equal(t, 1.0, rectX(t, d, 1))
}

func TestLimit(t *testing.T) {
	d := document.New()
	require.NoError(t, d.Insert(entity.Entity{ID: 1, Flags: entity.DefaultFlags, Geometry: entity.Rect{W: 1, H: 1}}))
	h := New(d, WithLimit(2))
	for x := 1; x <= 3; x++ {
		require.True(t, h.BeginEntry())
		h.MarkEntityChange(1)
		d.SetGeometry(1, entity.Rect{X: float64(x), W: 1, H: 1})
		require.True(t, h.CommitEntry())
	}
	assert.Equal(t, 2, h.Len())
	require.True(t, h.Undo())
	require.True(t, h.Undo())
	assert.False(t, h.Undo())
	assert.Equal(t, 1.0, rectX(t, d, 1))
}

func TestSuppression(t *testing.T) {
	_, _, h := setup(t)

	h.SetSuppressed(true)
	assert.False(t, h.BeginEntry())
	h.SetSuppressed(false)

	require.True(t, h.BeginEntry())
	assert.False(t, h.BeginEntry())
	assert.False(t, h.CanUndo())

	h.SetSuppressed(true)
	h.MarkEntityChange(1)
	h.SetSuppressed(false)
	h.DiscardEntry()
	assert.False(t, h.Active())
	assert.Equal(t, 0, h.Len())
}

func TestDrawOrderChange(t *testing.T) {
	d, ix, h := setup(t)

	require.True(t, h.BeginEntry())
	h.MarkDrawOrderChange()
	d.SetDrawOrder([]entity.ID{2, 1})
	require.True(t, h.CommitEntry())

	require.True(t, h.Undo())
	assert.Equal(t, []entity.ID{1, 2}, d.DrawOrder())
	everything := r2.Box{Min: r2.Vec{X: -100, Y: -100}, Max: r2.Vec{X: 100, Y: 100}}
	assert.Equal(t, []entity.ID{2, 1}, ix.QueryArea(everything))
}
