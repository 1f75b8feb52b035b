package tool

import (
	"tilemapper/internal/tilemap"
	"tilemapper/pkg/geometry"
)

// UpdateHandles recomputes every handle's position and rotation from the
// current selection. It is a no-op while a move, rotate or resize gesture is
// in progress: the handles track committed geometry, not intermediate drag
// state.
func (t *SelectionTool) UpdateHandles() {
	if t.action == Moving || t.action == Rotating || t.action == Resizing {
		return
	}

	objects := t.doc.Selection()

	if len(objects) > 0 {
		renderer := t.doc.Renderer

		boundingRect := tilemap.ObjectBounds(objects[0], renderer,
			tilemap.ObjectTransform(objects[0], renderer))
		for _, object := range objects[1:] {
			boundingRect = boundingRect.Union(tilemap.ObjectBounds(object, renderer,
				tilemap.ObjectTransform(object, renderer)))
		}

		topLeft := boundingRect.TopLeft()
		topRight := boundingRect.TopRight()
		bottomLeft := boundingRect.BottomLeft()
		bottomRight := boundingRect.BottomRight()
		center := boundingRect.Center()

		handleRotation := 0.0

		// A single selected object gets handles on its own corners, aligned
		// to its orientation, instead of the axis-aligned union.
		if len(objects) == 1 {
			object := objects[0]
			handleRotation = object.Rotation

			if tilemap.ResizeInPixelSpace(object) {
				bounds := tilemap.PixelBounds(object)

				transform := tilemap.ObjectTransform(object, renderer)
				topLeft = transform.Apply(renderer.PixelToScreenCoords(bounds.TopLeft()))
				topRight = transform.Apply(renderer.PixelToScreenCoords(bounds.TopRight()))
				bottomLeft = transform.Apply(renderer.PixelToScreenCoords(bounds.BottomLeft()))
				bottomRight = transform.Apply(renderer.PixelToScreenCoords(bounds.BottomRight()))
				center = transform.Apply(renderer.PixelToScreenCoords(bounds.Center()))

				// Purely cosmetic: screen-aligned handle glyphs look wrong on
				// a diamond-projected shape.
				if t.doc.Map.Orientation == tilemap.Isometric {
					handleRotation += 45
				}
			} else {
				bounds := tilemap.ObjectBounds(object, renderer, geometry.Identity())

				transform := tilemap.ObjectTransform(object, renderer)
				topLeft = transform.Apply(bounds.TopLeft())
				topRight = transform.Apply(bounds.TopRight())
				bottomLeft = transform.Apply(bounds.BottomLeft())
				bottomRight = transform.Apply(bounds.BottomRight())
				center = transform.Apply(bounds.Center())
			}
		}

		t.originIndicator.SetPos(center)

		t.rotateHandles[TopLeftAnchor].SetPos(topLeft)
		t.rotateHandles[TopRightAnchor].SetPos(topRight)
		t.rotateHandles[BottomLeftAnchor].SetPos(bottomLeft)
		t.rotateHandles[BottomRightAnchor].SetPos(bottomRight)

		top := midpoint(topLeft, topRight)
		left := midpoint(topLeft, bottomLeft)
		right := midpoint(topRight, bottomRight)
		bottom := midpoint(bottomLeft, bottomRight)

		t.resizeHandles[TopAnchor].SetPos(top)
		t.resizeHandles[TopAnchor].SetResizingOrigin(bottom)
		t.resizeHandles[LeftAnchor].SetPos(left)
		t.resizeHandles[LeftAnchor].SetResizingOrigin(right)
		t.resizeHandles[RightAnchor].SetPos(right)
		t.resizeHandles[RightAnchor].SetResizingOrigin(left)
		t.resizeHandles[BottomAnchor].SetPos(bottom)
		t.resizeHandles[BottomAnchor].SetResizingOrigin(top)

		t.resizeHandles[TopLeftAnchor].SetPos(topLeft)
		t.resizeHandles[TopLeftAnchor].SetResizingOrigin(bottomRight)
		t.resizeHandles[TopRightAnchor].SetPos(topRight)
		t.resizeHandles[TopRightAnchor].SetResizingOrigin(bottomLeft)
		t.resizeHandles[BottomLeftAnchor].SetPos(bottomLeft)
		t.resizeHandles[BottomLeftAnchor].SetResizingOrigin(topRight)
		t.resizeHandles[BottomRightAnchor].SetPos(bottomRight)
		t.resizeHandles[BottomRightAnchor].SetResizingOrigin(topLeft)

		for _, h := range t.rotateHandles {
			h.SetRotation(handleRotation)
		}
		for _, h := range t.resizeHandles {
			h.SetRotation(handleRotation)
		}
	}

	t.updateHandleVisibility()
}

// updateHandleVisibility applies the visibility rules: resize handles in
// resize mode, rotate handles in rotate mode, neither during a conflicting
// gesture. The origin indicator also shows during an active resize, where it
// marks the live pivot.
func (t *SelectionTool) updateHandleVisibility() {
	hasSelection := t.doc.SelectedCount() > 0
	showHandles := hasSelection && (t.action == NoAction || t.action == Selecting)
	showOrigin := hasSelection &&
		t.action != Moving && (t.mode == RotateMode || t.action == Resizing)

	for _, h := range t.rotateHandles {
		h.SetVisible(showHandles && t.mode == RotateMode)
	}
	for _, h := range t.resizeHandles {
		h.SetVisible(showHandles && t.mode == ResizeMode)
	}

	t.originIndicator.SetVisible(showOrigin)
}

func midpoint(a, b geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
