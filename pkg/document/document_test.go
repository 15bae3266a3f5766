package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
)

func rect(id entity.ID, x, y float64) entity.Entity {
	return entity.Entity{ID: id, Flags: entity.DefaultFlags, Geometry: entity.Rect{X: x, Y: y, W: 10, H: 10}}
}

func TestInsertValidates(t *testing.T) {
	d := New()
	require.NoError(t, d.Insert(rect(1, 0, 0)))

	tests := []struct {
		name string
		e    entity.Entity
		want error
	}{
		{"zero id", rect(0, 0, 0), ErrZeroID},
		{"duplicate", rect(1, 0, 0), ErrDuplicateID},
		{"no geometry", entity.Entity{ID: 5}, ErrNoGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, d.Insert(tt.e), tt.want)
		})
	}
	assert.Equal(t, 1, d.Len())
}

func TestInsertAdvancesAllocator(t *testing.T) {
	d := New()
	assert.Equal(t, entity.ID(1), d.NextID())
	require.NoError(t, d.Insert(rect(7, 0, 0)))
	assert.Equal(t, entity.ID(8), d.NextID())

	require.NoError(t, d.Insert(rect(3, 0, 0)))
	assert.Equal(t, entity.ID(8), d.NextID())
}

func TestAllocateIDSkipsTaken(t *testing.T) {
	d := New()
	require.NoError(t, d.Insert(rect(1, 0, 0)))
	require.NoError(t, d.Insert(rect(3, 0, 0)))
	d.SetNextID(2)

	assert.Equal(t, entity.ID(2), d.AllocateID())
	assert.Equal(t, entity.ID(4), d.NextID())

	d.SetNextID(0)
	assert.Equal(t, entity.ID(1), d.NextID())
}

func TestDeleteKeepsLookupsValid(t *testing.T) {
	d := New()
	for id := entity.ID(1); id <= 4; id++ {
		require.NoError(t, d.Insert(rect(id, float64(id), 0)))
	}
	d.SetSelection([]entity.ID{2, 4})

	assert.True(t, d.Delete(2))
	assert.False(t, d.Delete(2))

	for _, id := range []entity.ID{1, 3, 4} {
		e, ok := d.Entity(id)
		require.True(t, ok, "id %d", id)
		assert.Equal(t, id, e.ID)
		assert.Equal(t, float64(id), e.Geometry.(entity.Rect).X)
	}
	assert.Equal(t, []entity.ID{1, 3, 4}, d.DrawOrder())
	assert.Equal(t, []entity.ID{4}, d.Selection())
}

func TestCloneAllocatesOnTop(t *testing.T) {
	d := New()
	e := rect(1, 5, 5)
	e.Layer = 3
	require.NoError(t, d.Insert(e))
	require.NoError(t, d.Insert(rect(2, 0, 0)))

	id, err := d.Clone(1)
	require.NoError(t, err)
	assert.Equal(t, entity.ID(3), id)

	dup, ok := d.Entity(id)
	require.True(t, ok)
	assert.Equal(t, uint32(3), dup.Layer)
	assert.True(t, dup.Geometry.Equal(e.Geometry))
	assert.Equal(t, []entity.ID{1, 2, 3}, d.DrawOrder())

	_, err = d.Clone(99)
	assert.Error(t, err)
}

func TestPutPreservesAllocator(t *testing.T) {
	d := New()
	require.NoError(t, d.Insert(rect(1, 0, 0)))
	d.SetNextID(2)

	require.NoError(t, d.Put(rect(9, 0, 0)))
	assert.Equal(t, entity.ID(2), d.NextID())
	assert.True(t, d.Has(9))

	require.NoError(t, d.Put(rect(1, 4, 4)))
	e, _ := d.Entity(1)
	assert.Equal(t, 4.0, e.Geometry.(entity.Rect).X)
}

func TestSelectionAndOrderNormalize(t *testing.T) {
	d := New()
	for id := entity.ID(1); id <= 3; id++ {
		require.NoError(t, d.Insert(rect(id, 0, 0)))
	}

	d.SetSelection([]entity.ID{3, 3, 42, 1})
	assert.Equal(t, []entity.ID{3, 1}, d.Selection())

	d.SetDrawOrder([]entity.ID{3, 99})
	assert.Equal(t, []entity.ID{3, 1, 2}, d.DrawOrder())
}

func TestIsPickable(t *testing.T) {
	d := New()
	locked := rect(2, 0, 0)
	locked.Flags |= entity.FlagLocked
	require.NoError(t, d.Insert(rect(1, 0, 0)))
	require.NoError(t, d.Insert(locked))

	assert.True(t, d.IsPickable(1))
	assert.False(t, d.IsPickable(2))
	assert.False(t, d.IsPickable(3))
}

func TestTextDirty(t *testing.T) {
	d := New()
	text := entity.Entity{ID: 5, Flags: entity.DefaultFlags, Geometry: entity.Text{Content: "a"}}
	require.NoError(t, d.Insert(text))
	require.NoError(t, d.Insert(rect(1, 0, 0)))
	assert.Equal(t, []entity.ID{5}, d.TakeTextDirty())
	assert.Empty(t, d.TakeTextDirty())

	d.SetGeometry(5, entity.Text{Position: r2.Vec{X: 1}, Content: "a"})
	d.MarkTextDirty(1)
	d.MarkTextDirty(77)
	assert.Equal(t, []entity.ID{1, 5}, d.TakeTextDirty())
}

func TestCountersAndFlags(t *testing.T) {
	d := New()
	d.BumpGeneration()
	d.BumpGeneration()
	assert.Equal(t, uint64(2), d.Generation())

	assert.False(t, d.SnapshotDirty())
	d.MarkSnapshotDirty()
	assert.True(t, d.SnapshotDirty())
	d.ClearSnapshotDirty()
	assert.False(t, d.SnapshotDirty())
}

type recordingIndexer struct {
	boxes map[entity.ID]r2.Box
	order []entity.ID
}

func (r *recordingIndexer) Update(id entity.ID, box r2.Box) { r.boxes[id] = box }
func (r *recordingIndexer) SetOrder(order []entity.ID)      { r.order = order }

func TestReindex(t *testing.T) {
	d := New()
	require.NoError(t, d.Insert(rect(2, 0, 0)))
	require.NoError(t, d.Insert(rect(1, 20, 0)))

	ix := &recordingIndexer{boxes: map[entity.ID]r2.Box{}}
	d.Reindex(ix)
	assert.Len(t, ix.boxes, 2)
	assert.Equal(t, 20.0, ix.boxes[1].Min.X)
	assert.Equal(t, []entity.ID{2, 1}, ix.order)
}

func TestSnapshotRoundTrip(t *testing.T) {
	d := New()
	require.NoError(t, d.Insert(rect(4, 0, 0)))
	require.NoError(t, d.Insert(rect(2, 1, 1)))
	d.SetSelection([]entity.ID{2})
	d.SetNextID(10)
	d.BumpGeneration()

	got, err := FromSnapshot(d.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, entity.ID(10), got.NextID())
	assert.Equal(t, []entity.ID{4, 2}, got.DrawOrder())
	assert.Equal(t, []entity.ID{2}, got.Selection())
	assert.Equal(t, uint64(1), got.Generation())

	_, err = FromSnapshot(Snapshot{Entities: []entity.Entity{rect(1, 0, 0), rect(1, 0, 0)}})
	assert.ErrorIs(t, err, ErrDuplicateID)
}
