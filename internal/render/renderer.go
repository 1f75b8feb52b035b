// Package render converts between the coordinate spaces of a tile map:
// pixel space (object positions), tile space (grid coordinates) and screen
// space (what the canvas displays).
package render

import (
	"tilemapper/pkg/geometry"
)

// Renderer converts between pixel, tile and screen coordinates for one map
// projection. PixelToScreenCoords and ScreenToPixelCoords are exact inverses
// of each other.
type Renderer interface {
	PixelToScreenCoords(p geometry.Point2D) geometry.Point2D
	ScreenToPixelCoords(p geometry.Point2D) geometry.Point2D
	PixelToTileCoords(p geometry.Point2D) geometry.Point2D
	TileToPixelCoords(p geometry.Point2D) geometry.Point2D
}

// Orthogonal renders a plain top-down map. Pixel space and screen space
// coincide.
type Orthogonal struct {
	TileWidth  float64
	TileHeight float64
}

// NewOrthogonal creates a renderer for an orthogonal map.
func NewOrthogonal(tileWidth, tileHeight float64) *Orthogonal {
	return &Orthogonal{TileWidth: tileWidth, TileHeight: tileHeight}
}

func (r *Orthogonal) PixelToScreenCoords(p geometry.Point2D) geometry.Point2D {
	return p
}

func (r *Orthogonal) ScreenToPixelCoords(p geometry.Point2D) geometry.Point2D {
	return p
}

func (r *Orthogonal) PixelToTileCoords(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{X: p.X / r.TileWidth, Y: p.Y / r.TileHeight}
}

func (r *Orthogonal) TileToPixelCoords(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{X: p.X * r.TileWidth, Y: p.Y * r.TileHeight}
}

// Isometric renders a diamond-projected map. In pixel space both axes are
// measured in units of the tile height, so screen conversion shears the
// plane along the diamond diagonals.
type Isometric struct {
	TileWidth  float64
	TileHeight float64
	MapHeight  int // in tiles, fixes the screen-space origin
}

// NewIsometric creates a renderer for an isometric map.
func NewIsometric(tileWidth, tileHeight float64, mapHeight int) *Isometric {
	return &Isometric{TileWidth: tileWidth, TileHeight: tileHeight, MapHeight: mapHeight}
}

// originX is the screen x of pixel-space (0, 0); the top corner of the
// diamond sits at the horizontal middle of the rendered map.
func (r *Isometric) originX() float64 {
	return float64(r.MapHeight) * r.TileWidth / 2
}

func (r *Isometric) PixelToScreenCoords(p geometry.Point2D) geometry.Point2D {
	tileX := p.X / r.TileHeight
	tileY := p.Y / r.TileHeight
	return geometry.Point2D{
		X: (tileX-tileY)*r.TileWidth/2 + r.originX(),
		Y: (tileX + tileY) * r.TileHeight / 2,
	}
}

func (r *Isometric) ScreenToPixelCoords(p geometry.Point2D) geometry.Point2D {
	x := p.X - r.originX()
	tileX := x / r.TileWidth
	tileY := p.Y / r.TileHeight
	return geometry.Point2D{
		X: (tileY + tileX) * r.TileHeight,
		Y: (tileY - tileX) * r.TileHeight,
	}
}

func (r *Isometric) PixelToTileCoords(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{X: p.X / r.TileHeight, Y: p.Y / r.TileHeight}
}

func (r *Isometric) TileToPixelCoords(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{X: p.X * r.TileHeight, Y: p.Y * r.TileHeight}
}
