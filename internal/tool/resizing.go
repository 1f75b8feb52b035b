package tool

import (
	"math"

	"tilemapper/internal/input"
	"tilemapper/internal/snap"
	"tilemapper/internal/tilemap"
	"tilemapper/pkg/geometry"
)

// Minimum scale factor, protecting against collapsing the selection to zero
// size or inverting it.
const minScale = 0.01

// startResizing begins resizing the selection with the clicked handle. The
// gesture's reference start point is the handle's own position, not the
// press point.
func (t *SelectionTool) startResizing() {
	t.action = Resizing
	t.origin = t.originIndicator.Pos()

	t.resizingLimitHorizontal = t.target.Resize.ResizingLimitHorizontal()
	t.resizingLimitVertical = t.target.Resize.ResizingLimitVertical()

	t.start = t.target.Resize.Pos()

	t.saveSelectionState()
	t.updateHandleVisibility()
	t.log.Debug().Int("objects", len(t.movingObjects)).Msg("start resizing")
}

func (t *SelectionTool) updateResizingItems(pos geometry.Point2D, modifiers input.Modifiers) {
	renderer := t.doc.Renderer

	resizingOrigin := t.target.Resize.ResizingOrigin()
	if modifiers.Has(input.Shift) {
		resizingOrigin = t.origin
	}

	t.originIndicator.SetPos(resizingOrigin)

	// Alt toggles snapping for this gesture; Ctrl is taken by the preserve
	// aspect ratio option.
	helper := snap.NewHelper(renderer, t.cfg.Snap, 0)
	if modifiers.Has(input.Alt) {
		helper.Toggle()
	}
	pixelPos := helper.SnapPoint(renderer.ScreenToPixelCoords(pos))
	snappedScreenPos := renderer.PixelToScreenCoords(pixelPos)

	if len(t.movingObjects) == 1 {
		// Single objects resize in their own space, which supports distinct
		// X and Y factors and growing 0-sized objects.
		t.updateResizingSingleItem(resizingOrigin, snappedScreenPos, modifiers)
		return
	}

	diff := snappedScreenPos.Sub(resizingOrigin)
	startDiff := t.start.Sub(resizingOrigin)

	var scale float64
	switch {
	case t.resizingLimitHorizontal:
		scale = math.Max(minScale, diff.Y/startDiff.Y)
	case t.resizingLimitVertical:
		scale = math.Max(minScale, diff.X/startDiff.X)
	default:
		scale = math.Min(math.Max(minScale, diff.X/startDiff.X),
			math.Max(minScale, diff.Y/startDiff.Y))
	}

	for _, object := range t.movingObjects {
		oldRelPos := object.oldItemPosition.Sub(resizingOrigin)
		newScreenPos := resizingOrigin.Add(oldRelPos.Scale(scale))
		mapObject := object.item.Object

		if mapObject.HasPolygon() {
			// Polygon points live in the object's unrotated local space, so
			// rotate them into the screen-aligned frame, scale, rotate back.
			rotation := mapObject.Rotation * math.Pi / -180
			sn := math.Sin(rotation)
			cs := math.Cos(rotation)

			newPolygon := make([]geometry.Point2D, len(object.oldPolygon))
			for n, oldPoint := range object.oldPolygon {
				rotPoint := geometry.Point2D{
					X: oldPoint.X*cs + oldPoint.Y*sn,
					Y: oldPoint.Y*cs - oldPoint.X*sn,
				}
				scaledPoint := rotPoint.Scale(scale)
				newPolygon[n] = geometry.Point2D{
					X: scaledPoint.X*cs - scaledPoint.Y*sn,
					Y: scaledPoint.Y*cs + scaledPoint.X*sn,
				}
			}
			mapObject.SetPolygon(newPolygon)
		}

		mapObject.Size = object.oldSize.Scaled(scale, scale)
		mapObject.Position = renderer.ScreenToPixelCoords(newScreenPos)
	}

	t.scene.SyncObjects(t.snapshotObjects())
	t.doc.NotifyObjectsChanged(t.snapshotObjects())
}

// updateResizingSingleItem resizes a lone object in its own rotation frame:
// in pixel space for shape objects so non-orthogonal projections behave, in
// screen space for tile objects which are only positioned by the projection.
func (t *SelectionTool) updateResizingSingleItem(resizingOrigin, screenPos geometry.Point2D, modifiers input.Modifiers) {
	renderer := t.doc.Renderer
	object := t.movingObjects[0]
	mapObject := object.item.Object

	// These transforms undo and redo the object rotation, which is always
	// applied in screen space.
	unrotate := geometry.RotateAt(object.oldItemPosition, -object.oldRotation)
	rotate := geometry.RotateAt(object.oldItemPosition, object.oldRotation)

	origin := unrotate.Apply(resizingOrigin)
	pos := unrotate.Apply(screenPos)
	start := unrotate.Apply(t.start)
	oldPos := object.oldItemPosition

	pixelSpace := tilemap.ResizeInPixelSpace(mapObject)
	preserveAspect := modifiers.Has(input.Ctrl)

	if pixelSpace {
		origin = renderer.ScreenToPixelCoords(origin)
		pos = renderer.ScreenToPixelCoords(pos)
		start = renderer.ScreenToPixelCoords(start)
		oldPos = object.oldPosition
	}

	newPos := oldPos
	newSize := object.oldSize

	// When the handle's own anchor is still the pivot, rectangle and ellipse
	// objects can take their new bounds directly from the cursor, clamping
	// the dragged edges. That grows 0-sized objects without an infinite
	// scale factor. Polygons and aspect-preserving resizes can't take this
	// path.
	if t.target.Resize.ResizingOrigin() == resizingOrigin &&
		(mapObject.Shape == tilemap.Rectangle || mapObject.Shape == tilemap.Ellipse) &&
		!preserveAspect {

		newBounds := geometry.Rect{X: newPos.X, Y: newPos.Y, Width: newSize.Width, Height: newSize.Height}
		newBounds = tilemap.Align(newBounds, mapObject.Alignment)

		switch t.target.Resize.Anchor() {
		case LeftAnchor, TopLeftAnchor, BottomLeftAnchor:
			setRectLeft(&newBounds, math.Min(pos.X, origin.X))
		case RightAnchor, TopRightAnchor, BottomRightAnchor:
			setRectRight(&newBounds, math.Max(pos.X, origin.X))
		}

		switch t.target.Resize.Anchor() {
		case TopAnchor, TopLeftAnchor, TopRightAnchor:
			setRectTop(&newBounds, math.Min(pos.Y, origin.Y))
		case BottomAnchor, BottomLeftAnchor, BottomRightAnchor:
			setRectBottom(&newBounds, math.Max(pos.Y, origin.Y))
		}

		newBounds = tilemap.Unalign(newBounds, mapObject.Alignment)

		newSize = newBounds.Size()
		newPos = newBounds.TopLeft()
	} else {
		relPos := pos.Sub(origin)
		startDiff := start.Sub(origin)

		scaleX := math.Max(minScale, relPos.X/startDiff.X)
		scaleY := math.Max(minScale, relPos.Y/startDiff.Y)

		switch {
		case t.resizingLimitHorizontal:
			if preserveAspect {
				scaleX = scaleY
			} else {
				scaleX = 1
			}
		case t.resizingLimitVertical:
			if preserveAspect {
				scaleY = scaleX
			} else {
				scaleY = 1
			}
		case preserveAspect:
			scale := math.Min(scaleX, scaleY)
			scaleX = scale
			scaleY = scale
		}

		oldRelPos := oldPos.Sub(origin)
		newPos = origin.Add(geometry.Point2D{X: oldRelPos.X * scaleX, Y: oldRelPos.Y * scaleY})
		newSize = newSize.Scaled(scaleX, scaleY)

		if len(object.oldPolygon) > 0 {
			newPolygon := make([]geometry.Point2D, len(object.oldPolygon))
			for n, point := range object.oldPolygon {
				newPolygon[n] = geometry.Point2D{X: point.X * scaleX, Y: point.Y * scaleY}
			}
			mapObject.SetPolygon(newPolygon)
		}
	}

	if pixelSpace {
		newPos = renderer.PixelToScreenCoords(newPos)
	}
	newPos = renderer.ScreenToPixelCoords(rotate.Apply(newPos))

	mapObject.Size = newSize
	mapObject.Position = newPos

	t.scene.SyncObjects(t.snapshotObjects())
	t.doc.NotifyObjectsChanged(t.snapshotObjects())
}

func (t *SelectionTool) finishResizing(pos geometry.Point2D) {
	t.action = NoAction
	t.UpdateHandles()

	if t.start == pos { // no scaling at all
		t.movingObjects = nil
		return
	}

	t.doc.History.BeginGroup("Resize Objects")
	for _, object := range t.movingObjects {
		mapObject := object.item.Object
		t.doc.History.Push(tilemap.NewMoveObjectCommand(t.doc, mapObject, object.oldPosition))
		t.doc.History.Push(tilemap.NewResizeObjectCommand(t.doc, mapObject, object.oldSize))

		if len(object.oldPolygon) > 0 {
			t.doc.History.Push(tilemap.NewChangePolygonCommand(t.doc, mapObject, object.oldPolygon))
		}
	}
	t.doc.History.EndGroup()

	t.log.Debug().Int("objects", len(t.movingObjects)).Msg("finish resizing")
	t.movingObjects = nil
}

// Qt-style edge setters: moving one edge keeps the opposite edge in place.

func setRectLeft(r *geometry.Rect, x float64) {
	r.Width += r.X - x
	r.X = x
}

func setRectRight(r *geometry.Rect, x float64) {
	r.Width = x - r.X
}

func setRectTop(r *geometry.Rect, y float64) {
	r.Height += r.Y - y
	r.Y = y
}

func setRectBottom(r *geometry.Rect, y float64) {
	r.Height = y - r.Y
}
