package tilemap

import (
	"tilemapper/internal/render"
	"tilemapper/pkg/geometry"
)

// ObjectItem is the scene-side representation of a map object: its cached
// screen position and stacking order. Items are kept in sync with their
// objects by the scene.
type ObjectItem struct {
	Object *MapObject

	screenPos geometry.Point2D
	z         float64
}

// Pos returns the object's position converted to screen coordinates.
func (it *ObjectItem) Pos() geometry.Point2D {
	return it.screenPos
}

// Z returns the stacking value; higher values draw on top.
func (it *ObjectItem) Z() float64 {
	return it.z
}

// SetZ overrides the stacking value. Used by layers with top-down draw
// order, where stacking follows the vertical screen position.
func (it *ObjectItem) SetZ(z float64) {
	it.z = z
}

// Sync recomputes the cached screen position from the object's pixel
// position.
func (it *ObjectItem) Sync(renderer render.Renderer) {
	it.screenPos = renderer.PixelToScreenCoords(it.Object.Position)
}

// ScreenBounds returns the object's rotated bounds in screen space.
func (it *ObjectItem) ScreenBounds(renderer render.Renderer) geometry.Rect {
	return ObjectBounds(it.Object, renderer, ObjectTransform(it.Object, renderer))
}
