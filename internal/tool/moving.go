package tool

import (
	"tilemapper/internal/input"
	"tilemapper/internal/snap"
	"tilemapper/internal/tilemap"
	"tilemapper/pkg/geometry"
)

// startMoving begins dragging the selection. When the press landed on an
// object outside the selection, the selection collapses to that object
// first.
func (t *SelectionTool) startMoving(modifiers input.Modifiers) {
	if t.target.Kind == ObjectTarget && !modifiers.Has(input.Alt) {
		clicked := t.target.Item.Object
		if !t.doc.IsSelected(clicked) {
			t.doc.SetSelection([]*tilemap.MapObject{clicked})
		}
	}

	t.saveSelectionState()

	t.action = Moving
	t.log.Debug().Int("objects", len(t.movingObjects)).Msg("start moving")

	// Snapping is computed relative to one stable reference point: the
	// top-left of the selection's pixel-space footprint. That keeps the
	// relative offsets between objects intact no matter which one was
	// dragged.
	if len(t.movingObjects) > 0 {
		t.alignPosition = t.movingObjects[0].oldPosition
		for _, object := range t.movingObjects {
			pos := object.oldPosition
			if pos.X < t.alignPosition.X {
				t.alignPosition.X = pos.X
			}
			if pos.Y < t.alignPosition.Y {
				t.alignPosition.Y = pos.Y
			}
		}
	}

	t.updateHandleVisibility()
}

func (t *SelectionTool) updateMovingItems(pos geometry.Point2D, modifiers input.Modifiers) {
	renderer := t.doc.Renderer
	diff := t.snapToGrid(pos.Sub(t.start), modifiers)

	for _, object := range t.movingObjects {
		newScreenPos := object.oldItemPosition.Add(diff)
		newPixelPos := renderer.ScreenToPixelCoords(newScreenPos)
		object.item.Object.Position = newPixelPos
	}

	t.scene.SyncObjects(t.snapshotObjects())
	t.doc.NotifyObjectsChanged(t.snapshotObjects())
}

// snapToGrid snaps a screen-space displacement by snapping the alignment
// reference point and returning the resulting displacement.
func (t *SelectionTool) snapToGrid(diff geometry.Point2D, modifiers input.Modifiers) geometry.Point2D {
	renderer := t.doc.Renderer
	helper := snap.NewHelper(renderer, t.cfg.Snap, modifiers)

	if helper.Snaps() {
		alignScreenPos := renderer.PixelToScreenCoords(t.alignPosition)
		newAlignScreenPos := alignScreenPos.Add(diff)

		newAlignPixelPos := helper.SnapPoint(renderer.ScreenToPixelCoords(newAlignScreenPos))
		return renderer.PixelToScreenCoords(newAlignPixelPos).Sub(alignScreenPos)
	}

	return diff
}

func (t *SelectionTool) finishMoving(pos geometry.Point2D) {
	t.action = NoAction
	t.UpdateHandles()

	if t.start == pos { // move is a no-op
		t.movingObjects = nil
		return
	}

	t.doc.History.BeginGroup("Move Objects")
	for _, object := range t.movingObjects {
		t.doc.History.Push(tilemap.NewMoveObjectCommand(t.doc, object.item.Object, object.oldPosition))
	}
	t.doc.History.EndGroup()

	t.log.Debug().Int("objects", len(t.movingObjects)).Msg("finish moving")
	t.movingObjects = nil
}
