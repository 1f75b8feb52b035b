// Package colorutil provides the shared colors used by the editor's canvas.
package colorutil

import (
	"image/color"
)

// Common drawing colors.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	// ObjectOutline is the stroke color of unselected map objects.
	ObjectOutline = color.RGBA{R: 0x64, G: 0xB5, B: 0xF6, A: 255}
	// SelectionOutline is the stroke color of selected map objects.
	SelectionOutline = color.RGBA{R: 0xFF, G: 0xD5, B: 0x00, A: 255}
	// RubberBand is the color of the dashed drag-selection rectangle.
	RubberBand = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	// HandleFill is the interior of the resize and rotate handles.
	HandleFill = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 255}
	// OriginMarker is the color of the rotation/resize pivot indicator.
	OriginMarker = color.RGBA{R: 0xEF, G: 0x53, B: 0x50, A: 255}
)

// WithAlpha returns the color with its alpha channel replaced.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}
