package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestViewToWorld(t *testing.T) {
	tests := []struct {
		name   string
		view   View
		screen r2.Vec
		want   r2.Vec
	}{
		{"identity", Identity, r2.Vec{X: 10, Y: 20}, r2.Vec{X: 10, Y: -20}},
		{"panned", View{X: 100, Y: 50, Scale: 1}, r2.Vec{X: 150, Y: 0}, r2.Vec{X: 50, Y: 50}},
		{"zoomed", View{Scale: 2}, r2.Vec{X: 10, Y: 10}, r2.Vec{X: 5, Y: -5}},
		{"degenerate scale", View{Scale: 0}, r2.Vec{X: 3, Y: 4}, r2.Vec{X: 3, Y: -4}},
		{"nan scale", View{Scale: math.NaN()}, r2.Vec{X: 3, Y: 4}, r2.Vec{X: 3, Y: -4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.view.ToWorld(tt.screen)
			if got != tt.want {
				t.Errorf("ToWorld() = %v, want %v", got, tt.want)
			}
			back := tt.view.ToScreen(got)
			assert.InDelta(t, tt.screen.X, back.X, 1e-9)
			assert.InDelta(t, tt.screen.Y, back.Y, 1e-9)
		})
	}
}

func TestUnionKeepsDegenerateBoxes(t *testing.T) {
	line := r2.Box{Min: r2.Vec{X: 0, Y: 5}, Max: r2.Vec{X: 10, Y: 5}}
	rect := r2.Box{Min: r2.Vec{X: 20, Y: 0}, Max: r2.Vec{X: 30, Y: 10}}

	got := Union(line, rect)
	want := r2.Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 30, Y: 10}}
	if got != want {
		t.Errorf("Union() = %v, want %v", got, want)
	}
}

func TestClampScale(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2, 2},
		{-0.5, -0.5},
		{0, MinScale},
		{1e-9, MinScale},
		{-1e-9, -MinScale},
		{math.Inf(1), 1},
		{math.NaN(), 1},
	}
	for _, tt := range tests {
		if got := ClampScale(tt.in); got != tt.want {
			t.Errorf("ClampScale(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsApproximatelyRound(t *testing.T) {
	assert.True(t, IsApproximatelyRound(10, 10))
	assert.True(t, IsApproximatelyRound(10, 10.005))
	assert.False(t, IsApproximatelyRound(10, 12))
	assert.False(t, IsApproximatelyRound(0, 0))
}

func TestFrameRoundTrip(t *testing.T) {
	f := Frame{Center: r2.Vec{X: 5, Y: 5}, Rotation: math.Pi / 2}
	local := f.ToLocal(r2.Vec{X: 5, Y: 10})
	assert.InDelta(t, 5, local.X, 1e-9)
	assert.InDelta(t, 0, local.Y, 1e-9)

	world := f.ToWorld(local)
	assert.InDelta(t, 5, world.X, 1e-9)
	assert.InDelta(t, 10, world.Y, 1e-9)
}

func TestWrapDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{10, 10},
		{190, -170},
		{-190, 170},
		{180, 180},
	}
	for _, tt := range tests {
		if got := WrapDegrees(tt.in); got != tt.want {
			t.Errorf("WrapDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSnapDirection(t *testing.T) {
	got, ok := SnapDirection(r2.Vec{}, r2.Vec{X: 10, Y: 1}, math.Pi/4)
	assert.True(t, ok)
	assert.InDelta(t, math.Hypot(10, 1), got.X, 1e-9)
	assert.InDelta(t, 0, got.Y, 1e-9)

	_, ok = SnapDirection(r2.Vec{X: 1, Y: 1}, r2.Vec{X: 1, Y: 1}, math.Pi/4)
	assert.False(t, ok)
}

func TestVisibleRange(t *testing.T) {
	_, ok := View{Scale: 1}.VisibleRange()
	assert.False(t, ok)

	b, ok := View{Scale: 2, Width: 200, Height: 100}.VisibleRange()
	assert.True(t, ok)
	assert.Equal(t, r2.Vec{X: 0, Y: 0}, b.Min)
	assert.Equal(t, r2.Vec{X: 100, Y: 50}, b.Max)
}
