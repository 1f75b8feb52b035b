// Package tileset provides tilesets, tiles and tile image loading.
package tileset

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"tilemapper/pkg/geometry"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Tile is a single tile of a tileset.
type Tile struct {
	ID    int
	Image image.Image
}

// ImageSize returns the tile image dimensions, or zero when no image is set.
func (t *Tile) ImageSize() geometry.Size {
	if t == nil || t.Image == nil {
		return geometry.Size{}
	}
	b := t.Image.Bounds()
	return geometry.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// Tileset is a collection of tiles sharing a tile size and drawing offset.
type Tileset struct {
	Name       string
	TileWidth  int
	TileHeight int

	// TileOffset shifts tiles of this set when drawn. It is expressed in
	// pixels relative to the tile image's unscaled size.
	TileOffset geometry.PointInt

	tiles map[int]*Tile
}

// NewTileset creates an empty tileset.
func NewTileset(name string, tileWidth, tileHeight int) *Tileset {
	return &Tileset{
		Name:       name,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		tiles:      make(map[int]*Tile),
	}
}

// AddTile registers a tile with the given ID and image.
func (ts *Tileset) AddTile(id int, img image.Image) *Tile {
	tile := &Tile{ID: id, Image: img}
	ts.tiles[id] = tile
	return tile
}

// Tile returns the tile with the given ID, or nil.
func (ts *Tileset) Tile(id int) *Tile {
	return ts.tiles[id]
}

// TileCount returns the number of tiles in the set.
func (ts *Tileset) TileCount() int {
	return len(ts.tiles)
}

// Cell references a tile within a tileset. The zero value is the empty cell.
type Cell struct {
	Tileset *Tileset
	Tile    *Tile
}

// IsEmpty returns true if the cell references no tile.
func (c Cell) IsEmpty() bool {
	return c.Tile == nil
}

// LoadTileImage loads a tile image from disk. PNG, JPEG, BMP and TIFF are
// supported.
func LoadTileImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	_ = format

	return img, nil
}

// ScaledTileImage returns the tile image resampled to the given footprint,
// used when an object stretches a tile beyond its source size.
func ScaledTileImage(tile *Tile, size geometry.Size) image.Image {
	if tile == nil || tile.Image == nil || size.Width <= 0 || size.Height <= 0 {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(size.Width), int(size.Height)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), tile.Image, tile.Image.Bounds(), xdraw.Over, nil)
	return dst
}
