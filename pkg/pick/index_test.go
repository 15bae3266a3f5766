package pick

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
)

func box(x0, y0, x1, y1 float64) r2.Box {
	return r2.Box{Min: r2.Vec{X: x0, Y: y0}, Max: r2.Vec{X: x1, Y: y1}}
}

func TestQueryAreaOrdersByZThenID(t *testing.T) {
	ix := New()
	ix.Update(3, box(0, 0, 5, 5))
	ix.Update(1, box(2, 2, 8, 8))
	ix.Update(2, box(100, 100, 110, 110))

	got := ix.QueryArea(box(0, 0, 10, 10))
	assert.Equal(t, []entity.ID{1, 3}, got)

	ix.SetOrder([]entity.ID{1, 3})
	assert.Equal(t, []entity.ID{3, 1}, ix.QueryArea(box(0, 0, 10, 10)))
}

func TestUpdateMovesEntry(t *testing.T) {
	ix := New()
	ix.Update(1, box(0, 0, 1, 1))
	ix.Update(1, box(50, 50, 51, 51))

	assert.Empty(t, ix.QueryArea(box(0, 0, 2, 2)))
	assert.Equal(t, []entity.ID{1}, ix.QueryArea(box(49, 49, 52, 52)))
	assert.Equal(t, 1, ix.Len())
}

func TestQueryIncludesEdgesAndDegenerateBoxes(t *testing.T) {
	ix := New()
	ix.Update(1, box(0, 5, 10, 5))

	assert.Equal(t, []entity.ID{1}, ix.QueryArea(box(10, 5, 20, 20)))
	assert.Equal(t, []entity.ID{1}, ix.QueryPoint(r2.Vec{X: 5, Y: 6}, 1))
	assert.Empty(t, ix.QueryPoint(r2.Vec{X: 5, Y: 7}, 1))
}

func TestLargeBoxes(t *testing.T) {
	ix := New()
	ix.Update(1, box(-1000, -1000, 1000, 1000))
	ix.Update(2, box(0, 0, 1, 1))

	assert.Equal(t, []entity.ID{2, 1}, ix.QueryArea(box(0.5, 0.5, 0.6, 0.6)))

	ix.Remove(1)
	assert.Equal(t, []entity.ID{2}, ix.QueryArea(box(0.5, 0.5, 0.6, 0.6)))
}

func TestRemoveAndClear(t *testing.T) {
	ix := New()
	ix.Update(1, box(0, 0, 1, 1))
	ix.Update(2, box(0, 0, 1, 1))
	ix.Remove(1)
	ix.Remove(42)

	_, ok := ix.Bounds(1)
	assert.False(t, ok)
	assert.Equal(t, []entity.ID{2}, ix.QueryArea(box(0, 0, 1, 1)))

	ix.Clear()
	assert.Equal(t, 0, ix.Len())
	assert.Empty(t, ix.QueryArea(box(0, 0, 1, 1)))
}

func TestHugeAndUnboundedBoxes(t *testing.T) {
	ix := New()
	ix.Update(1, box(-math.MaxFloat64, -math.MaxFloat64, math.MaxFloat64, math.MaxFloat64))
	ix.Update(2, box(1e300, 1e300, 1.5e300, 1.5e300))
	ix.Update(3, box(math.Inf(-1), 0, 1, 1))
	ix.Update(4, box(0, 0, 1, 1))

	assert.Equal(t, []entity.ID{4, 3, 1}, ix.QueryArea(box(0.5, 0.5, 0.6, 0.6)))
	assert.Equal(t, []entity.ID{2, 1}, ix.QueryArea(box(1.2e300, 1.2e300, 1.3e300, 1.3e300)))

	ix.Update(3, box(5, 5, 6, 6))
	assert.Equal(t, []entity.ID{4, 1}, ix.QueryArea(box(0.5, 0.5, 0.6, 0.6)))

	ix.Remove(1)
	ix.Remove(2)
	assert.Empty(t, ix.QueryArea(box(1.2e300, 1.2e300, 1.3e300, 1.3e300)))
	assert.Equal(t, 2, ix.Len())
}
