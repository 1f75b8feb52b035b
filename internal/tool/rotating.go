package tool

import (
	"math"

	"tilemapper/internal/input"
	"tilemapper/internal/tilemap"
	"tilemapper/pkg/geometry"
)

// startRotating begins rotating the selection about the origin indicator.
func (t *SelectionTool) startRotating() {
	t.action = Rotating
	t.origin = t.originIndicator.Pos()

	t.saveSelectionState()
	t.updateHandleVisibility()
	t.log.Debug().Int("objects", len(t.movingObjects)).Msg("start rotating")
}

func (t *SelectionTool) updateRotatingItems(pos geometry.Point2D, modifiers input.Modifiers) {
	renderer := t.doc.Renderer

	startDiff := t.origin.Sub(t.start)
	currentDiff := t.origin.Sub(pos)

	startAngle := math.Atan2(startDiff.Y, startDiff.X)
	currentAngle := math.Atan2(currentDiff.Y, currentDiff.X)
	angleDiff := currentAngle - startAngle

	if modifiers.Has(input.Ctrl) {
		angleDiff = math.Floor((angleDiff+rotateSnapStep/2)/rotateSnapStep) * rotateSnapStep
	}

	sn := math.Sin(angleDiff)
	cs := math.Cos(angleDiff)

	for _, object := range t.movingObjects {
		oldRelPos := object.oldItemPosition.Sub(t.origin)
		newRelPos := geometry.Point2D{
			X: oldRelPos.X*cs - oldRelPos.Y*sn,
			Y: oldRelPos.X*sn + oldRelPos.Y*cs,
		}
		newScreenPos := t.origin.Add(newRelPos)

		mapObject := object.item.Object
		mapObject.Position = renderer.ScreenToPixelCoords(newScreenPos)
		mapObject.Rotation = object.oldRotation + angleDiff*180/math.Pi
	}

	t.scene.SyncObjects(t.snapshotObjects())
	t.doc.NotifyObjectsChanged(t.snapshotObjects())
}

// finishRotating pushes one transaction restoring both position and rotation
// per object; they changed together and must revert together.
func (t *SelectionTool) finishRotating(pos geometry.Point2D) {
	t.action = NoAction
	t.UpdateHandles()

	if t.start == pos { // no rotation at all
		t.movingObjects = nil
		return
	}

	t.doc.History.BeginGroup("Rotate Objects")
	for _, object := range t.movingObjects {
		mapObject := object.item.Object
		t.doc.History.Push(tilemap.NewMoveObjectCommand(t.doc, mapObject, object.oldPosition))
		t.doc.History.Push(tilemap.NewRotateObjectCommand(t.doc, mapObject, object.oldRotation))
	}
	t.doc.History.EndGroup()

	t.log.Debug().Int("objects", len(t.movingObjects)).Msg("finish rotating")
	t.movingObjects = nil
}
