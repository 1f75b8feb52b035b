// Package snap rounds pixel positions to the map grid during interactive
// edits.
package snap

import (
	"math"

	"tilemapper/internal/input"
	"tilemapper/internal/render"
	"tilemapper/pkg/geometry"
)

// Config selects the snapping behavior. GridFine subdivides each tile when
// fine-grid snapping is enabled.
type Config struct {
	SnapToGrid     bool
	SnapToFineGrid bool
	GridFine       int
}

// Helper snaps points for one gesture. Holding Ctrl at construction inverts
// the configured snapping.
type Helper struct {
	renderer render.Renderer
	snaps    bool
	fine     bool
	gridFine int
}

// NewHelper captures the snap configuration and the modifier state at the
// start of a gesture.
func NewHelper(renderer render.Renderer, cfg Config, modifiers input.Modifiers) *Helper {
	h := &Helper{
		renderer: renderer,
		snaps:    cfg.SnapToGrid,
		fine:     cfg.SnapToFineGrid,
		gridFine: cfg.GridFine,
	}
	if h.gridFine < 1 {
		h.gridFine = 1
	}
	if modifiers.Has(input.Ctrl) {
		h.Toggle()
	}
	return h
}

// Toggle inverts both grid and fine-grid snapping.
func (h *Helper) Toggle() {
	h.snaps = !h.snaps
	h.fine = !h.fine
}

// Snaps reports whether SnapPoint will modify points at all.
func (h *Helper) Snaps() bool {
	return h.snaps || h.fine
}

// SnapPoint rounds a pixel-space point to the nearest grid intersection.
// Fine-grid snapping subdivides each tile into GridFine steps.
func (h *Helper) SnapPoint(pixelPos geometry.Point2D) geometry.Point2D {
	if !h.Snaps() {
		return pixelPos
	}

	subdivisions := 1.0
	if h.fine {
		subdivisions = float64(h.gridFine)
	}

	tilePos := h.renderer.PixelToTileCoords(pixelPos)
	tilePos = geometry.Point2D{
		X: math.Round(tilePos.X*subdivisions) / subdivisions,
		Y: math.Round(tilePos.Y*subdivisions) / subdivisions,
	}
	return h.renderer.TileToPixelCoords(tilePos)
}
