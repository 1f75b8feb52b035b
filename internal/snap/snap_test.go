package snap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tilemapper/internal/input"
	"tilemapper/internal/render"
	"tilemapper/pkg/geometry"
)

func TestSnapPointToGrid(t *testing.T) {
	h := NewHelper(render.NewOrthogonal(32, 32), Config{SnapToGrid: true}, 0)

	assert.True(t, h.Snaps())
	assert.Equal(t, geometry.NewPoint2D(32, 64), h.SnapPoint(geometry.NewPoint2D(33, 50)))
	assert.Equal(t, geometry.NewPoint2D(0, 0), h.SnapPoint(geometry.NewPoint2D(15, -10)))
}

func TestSnapPointToFineGrid(t *testing.T) {
	h := NewHelper(render.NewOrthogonal(32, 32), Config{SnapToFineGrid: true, GridFine: 4}, 0)

	// Fine snapping rounds to quarter-tile steps of 8 pixels.
	assert.Equal(t, geometry.NewPoint2D(32, 48), h.SnapPoint(geometry.NewPoint2D(33, 50)))
}

func TestSnapDisabledLeavesPointAlone(t *testing.T) {
	h := NewHelper(render.NewOrthogonal(32, 32), Config{}, 0)

	assert.False(t, h.Snaps())
	p := geometry.NewPoint2D(33.7, 50.1)
	assert.Equal(t, p, h.SnapPoint(p))
}

func TestCtrlInvertsSnapping(t *testing.T) {
	renderer := render.NewOrthogonal(32, 32)

	// Snapping on, Ctrl held: both flavors invert, so nothing snaps.
	h := NewHelper(renderer, Config{SnapToGrid: true, SnapToFineGrid: true, GridFine: 4}, input.Ctrl)
	p := geometry.NewPoint2D(33, 50)
	assert.False(t, h.Snaps())
	assert.Equal(t, p, h.SnapPoint(p))

	// Snapping off, Ctrl held: fine snapping kicks in.
	h = NewHelper(renderer, Config{GridFine: 4}, input.Ctrl)
	assert.True(t, h.Snaps())
	assert.Equal(t, geometry.NewPoint2D(32, 48), h.SnapPoint(p))
}

func TestToggle(t *testing.T) {
	h := NewHelper(render.NewOrthogonal(32, 32), Config{SnapToGrid: true, GridFine: 4}, 0)

	h.Toggle()
	// Grid snapping went off, fine snapping came on.
	assert.True(t, h.Snaps())
	assert.Equal(t, geometry.NewPoint2D(32, 48), h.SnapPoint(geometry.NewPoint2D(33, 50)))

	h.Toggle()
	assert.Equal(t, geometry.NewPoint2D(32, 64), h.SnapPoint(geometry.NewPoint2D(33, 50)))
}

func TestGridFineFloor(t *testing.T) {
	h := NewHelper(render.NewOrthogonal(32, 32), Config{SnapToFineGrid: true, GridFine: 0}, 0)

	// A degenerate subdivision falls back to whole tiles instead of dividing
	// by zero.
	assert.Equal(t, geometry.NewPoint2D(32, 64), h.SnapPoint(geometry.NewPoint2D(33, 50)))
}
