package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tilemapper/pkg/geometry"
)

func TestOrthogonalScreenIsPixelSpace(t *testing.T) {
	r := NewOrthogonal(32, 32)

	p := geometry.NewPoint2D(123.5, -7)
	assert.Equal(t, p, r.PixelToScreenCoords(p))
	assert.Equal(t, p, r.ScreenToPixelCoords(p))
}

func TestOrthogonalTileCoords(t *testing.T) {
	r := NewOrthogonal(32, 16)

	tile := r.PixelToTileCoords(geometry.NewPoint2D(48, 40))
	assert.Equal(t, geometry.NewPoint2D(1.5, 2.5), tile)
	assert.Equal(t, geometry.NewPoint2D(48, 40), r.TileToPixelCoords(tile))
}

func TestIsometricKnownPoints(t *testing.T) {
	// 64x32 tiles, 10 tiles tall: the pixel-space origin projects to the top
	// corner of the diamond, in the horizontal middle of the rendered map.
	r := NewIsometric(64, 32, 10)

	tests := []struct {
		name   string
		pixel  geometry.Point2D
		screen geometry.Point2D
	}{
		{"origin", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(320, 0)},
		{"one tile in", geometry.NewPoint2D(32, 32), geometry.NewPoint2D(320, 32)},
		{"x axis", geometry.NewPoint2D(32, 0), geometry.NewPoint2D(352, 16)},
		{"y axis", geometry.NewPoint2D(0, 32), geometry.NewPoint2D(288, 16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.screen, r.PixelToScreenCoords(tt.pixel))
		})
	}
}

func TestIsometricRoundTrip(t *testing.T) {
	r := NewIsometric(64, 32, 10)

	points := []geometry.Point2D{
		{X: 0, Y: 0},
		{X: 32, Y: 32},
		{X: 100, Y: 7},
		{X: -16, Y: 48},
	}
	for _, p := range points {
		back := r.ScreenToPixelCoords(r.PixelToScreenCoords(p))
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}

	screens := []geometry.Point2D{
		{X: 320, Y: 0},
		{X: 123, Y: 456},
		{X: -50, Y: 10},
	}
	for _, p := range screens {
		back := r.PixelToScreenCoords(r.ScreenToPixelCoords(p))
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}
}

func TestIsometricTileCoords(t *testing.T) {
	r := NewIsometric(64, 32, 10)

	// In isometric pixel space both axes are measured in tile heights.
	assert.Equal(t, geometry.NewPoint2D(2, 1), r.PixelToTileCoords(geometry.NewPoint2D(64, 32)))
	assert.Equal(t, geometry.NewPoint2D(64, 32), r.TileToPixelCoords(geometry.NewPoint2D(2, 1)))
}
