package tool

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilemapper/internal/input"
	"tilemapper/internal/render"
	"tilemapper/internal/snap"
	"tilemapper/internal/tilemap"
	"tilemapper/pkg/geometry"
)

func newTestTool(t *testing.T) (*tilemap.Document, *tilemap.Scene, *SelectionTool) {
	t.Helper()

	m := tilemap.NewMap(tilemap.Orthogonal, 20, 20, 32, 32)
	doc := tilemap.NewDocument(m, render.NewOrthogonal(32, 32), zerolog.Nop())
	scene := tilemap.NewScene(m, doc.Renderer)

	tool := NewSelectionTool(doc, scene, Config{DragThreshold: 10}, zerolog.Nop())
	tool.Activate()
	return doc, scene, tool
}

func addRect(doc *tilemap.Document, x, y, w, h float64) *tilemap.MapObject {
	o := &tilemap.MapObject{
		Position: geometry.NewPoint2D(x, y),
		Size:     geometry.NewSize(w, h),
		Shape:    tilemap.Rectangle,
	}
	doc.AddObject(doc.Map.Layers[0], o)
	return o
}

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func TestClickSelectsObject(t *testing.T) {
	doc, _, tool := newTestTool(t)
	o := addRect(doc, 64, 64, 32, 32)

	tool.MousePressed(pt(70, 70), input.LeftButton, 0)
	tool.MouseReleased(pt(70, 70), input.LeftButton, 0)

	assert.True(t, doc.IsSelected(o))
	assert.Equal(t, 1, doc.SelectedCount())
	assert.Equal(t, ResizeMode, tool.Mode())
}

func TestClickEmptySpaceClearsSelection(t *testing.T) {
	doc, _, tool := newTestTool(t)
	o := addRect(doc, 64, 64, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{o})

	tool.MousePressed(pt(500, 500), input.LeftButton, 0)
	tool.MouseReleased(pt(500, 500), input.LeftButton, 0)

	assert.Equal(t, 0, doc.SelectedCount())
}

func TestShiftClickEmptySpaceKeepsSelection(t *testing.T) {
	doc, _, tool := newTestTool(t)
	o := addRect(doc, 64, 64, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{o})

	tool.MousePressed(pt(500, 500), input.LeftButton, input.Shift)
	tool.MouseReleased(pt(500, 500), input.LeftButton, input.Shift)

	assert.True(t, doc.IsSelected(o))
}

func TestClickSelectedObjectTogglesMode(t *testing.T) {
	doc, _, tool := newTestTool(t)
	o := addRect(doc, 64, 64, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{o})
	require.Equal(t, ResizeMode, tool.Mode())

	// Press away from the corner and edge handles so the object is hit.
	tool.MousePressed(pt(80, 80), input.LeftButton, 0)
	tool.MouseReleased(pt(80, 80), input.LeftButton, 0)
	assert.Equal(t, RotateMode, tool.Mode())
	assert.True(t, doc.IsSelected(o))

	tool.MousePressed(pt(80, 80), input.LeftButton, 0)
	tool.MouseReleased(pt(80, 80), input.LeftButton, 0)
	assert.Equal(t, ResizeMode, tool.Mode())
}

func TestCtrlClickTogglesMembership(t *testing.T) {
	doc, _, tool := newTestTool(t)
	a := addRect(doc, 64, 64, 32, 32)
	b := addRect(doc, 160, 64, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{a})

	tool.MousePressed(pt(170, 80), input.LeftButton, input.Ctrl)
	tool.MouseReleased(pt(170, 80), input.LeftButton, input.Ctrl)
	assert.True(t, doc.IsSelected(a))
	assert.True(t, doc.IsSelected(b))

	tool.MousePressed(pt(80, 72), input.LeftButton, input.Ctrl)
	tool.MouseReleased(pt(80, 72), input.LeftButton, input.Ctrl)
	assert.False(t, doc.IsSelected(a))
	assert.True(t, doc.IsSelected(b))
	assert.Equal(t, ResizeMode, tool.Mode(), "modifier clicks never toggle the mode")
}

func TestSubThresholdDragStartsNoGesture(t *testing.T) {
	doc, _, tool := newTestTool(t)
	o := addRect(doc, 64, 64, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{o})

	tool.MousePressed(pt(80, 80), input.LeftButton, 0)
	tool.MouseMoved(pt(84, 87), 0) // Manhattan distance 7, below the threshold
	assert.Equal(t, NoAction, tool.Action())
	assert.Equal(t, geometry.NewPoint2D(64, 64), o.Position)

	tool.MouseReleased(pt(84, 87), input.LeftButton, 0)
	assert.Equal(t, NoAction, tool.Action())
	assert.Equal(t, 0, doc.History.Len())

	// The same holds with modifiers held and with a handle as the target.
	// The click above toggled the handle mode; switch back so the resize
	// handles are hittable.
	tool.SetMode(ResizeMode)
	handle := tool.resizeHandles[BottomRightAnchor]
	tool.MousePressed(handle.Pos(), input.LeftButton, input.Ctrl)
	tool.MouseMoved(handle.Pos().Add(pt(4, 3)), input.Ctrl)
	assert.Equal(t, NoAction, tool.Action())
	tool.MouseReleased(handle.Pos().Add(pt(4, 3)), input.LeftButton, input.Ctrl)
	assert.Equal(t, NoAction, tool.Action())
	assert.Equal(t, geometry.NewSize(32, 32), o.Size)
	assert.Equal(t, 0, doc.History.Len())
}

func TestRubberBandSelection(t *testing.T) {
	doc, _, tool := newTestTool(t)
	addRect(doc, 0, 0, 32, 32)
	b := addRect(doc, 200, 200, 32, 32)

	tool.MousePressed(pt(140, 140), input.LeftButton, 0)
	tool.MouseMoved(pt(250, 250), 0)
	require.Equal(t, Selecting, tool.Action())

	rect, active := tool.SelectionRect()
	assert.True(t, active)
	assert.Equal(t, geometry.NewRect(140, 140, 110, 110), rect)

	tool.MouseReleased(pt(250, 250), input.LeftButton, 0)
	assert.Equal(t, NoAction, tool.Action())

	_, active = tool.SelectionRect()
	assert.False(t, active)

	assert.Equal(t, 1, doc.SelectedCount())
	assert.True(t, doc.IsSelected(b))
}

func TestRubberBandExtendsWithShift(t *testing.T) {
	doc, _, tool := newTestTool(t)
	a := addRect(doc, 0, 0, 32, 32)
	b := addRect(doc, 200, 200, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{a})

	tool.MousePressed(pt(140, 140), input.LeftButton, input.Shift)
	tool.MouseMoved(pt(250, 250), input.Shift)
	tool.MouseReleased(pt(250, 250), input.LeftButton, input.Shift)

	assert.True(t, doc.IsSelected(a))
	assert.True(t, doc.IsSelected(b))
}

func TestMoveTwoObjectsOneTransaction(t *testing.T) {
	doc, _, tool := newTestTool(t)
	a := addRect(doc, 64, 64, 32, 32)
	b := addRect(doc, 160, 96, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{a, b})

	tool.MousePressed(pt(80, 80), input.LeftButton, 0)
	tool.MouseMoved(pt(90, 90), 0)
	require.Equal(t, Moving, tool.Action())

	tool.MouseMoved(pt(85, 85), 0)
	tool.MouseReleased(pt(85, 85), input.LeftButton, 0)
	assert.Equal(t, NoAction, tool.Action())

	// Both objects moved by the same (5, 5) delta.
	assert.Equal(t, geometry.NewPoint2D(69, 69), a.Position)
	assert.Equal(t, geometry.NewPoint2D(165, 101), b.Position)

	// One undo step restores both.
	require.Equal(t, 1, doc.History.Len())
	require.NoError(t, doc.History.Undo())
	assert.Equal(t, geometry.NewPoint2D(64, 64), a.Position)
	assert.Equal(t, geometry.NewPoint2D(160, 96), b.Position)
}

func TestMoveCollapsesSelectionToClickedObject(t *testing.T) {
	doc, _, tool := newTestTool(t)
	a := addRect(doc, 64, 64, 32, 32)
	b := addRect(doc, 160, 96, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{b})

	// Dragging an unselected object moves just that object.
	tool.MousePressed(pt(70, 70), input.LeftButton, 0)
	tool.MouseMoved(pt(90, 90), 0)
	require.Equal(t, Moving, tool.Action())
	tool.MouseReleased(pt(90, 90), input.LeftButton, 0)

	assert.True(t, doc.IsSelected(a))
	assert.False(t, doc.IsSelected(b))
	assert.Equal(t, geometry.NewPoint2D(84, 84), a.Position)
	assert.Equal(t, geometry.NewPoint2D(160, 96), b.Position)
}

func TestMoveSnapsToGrid(t *testing.T) {
	doc, _, tool := newTestTool(t)
	tool.SetSnapConfig(snap.Config{SnapToGrid: true})
	a := addRect(doc, 64, 64, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{a})

	tool.MousePressed(pt(80, 80), input.LeftButton, 0)

	// A small drag snaps back onto the original grid position.
	tool.MouseMoved(pt(94, 93), 0)
	require.Equal(t, Moving, tool.Action())
	assert.Equal(t, geometry.NewPoint2D(64, 64), a.Position)

	// Past the half-tile point it snaps to the next intersection.
	tool.MouseMoved(pt(105, 105), 0)
	assert.Equal(t, geometry.NewPoint2D(96, 96), a.Position)

	tool.MouseReleased(pt(105, 105), input.LeftButton, 0)
	assert.Equal(t, geometry.NewPoint2D(96, 96), a.Position)
}

func TestRotateWithAngleSnap(t *testing.T) {
	doc, _, tool := newTestTool(t)
	o := addRect(doc, 64, 64, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{o})
	tool.SetMode(RotateMode)

	origin := pt(80, 80) // selection center
	start := tool.RotateHandles()[TopLeftAnchor].Pos()
	require.Equal(t, pt(64, 64), start)

	// Drag the corner handle through roughly 92 degrees; with Ctrl held the
	// angle snaps to the nearest 15-degree step, exactly 90.
	angle := 92 * math.Pi / 180
	pos := origin.Sub(origin.Sub(start).Rotated(angle))

	tool.MousePressed(start, input.LeftButton, input.Ctrl)
	tool.MouseMoved(pos, input.Ctrl)
	require.Equal(t, Rotating, tool.Action())
	tool.MouseReleased(pos, input.LeftButton, input.Ctrl)

	assert.InDelta(t, 90, o.Rotation, 1e-9)
	// The position rotates about the pivot along with the shape.
	assert.InDelta(t, 96, o.Position.X, 1e-9)
	assert.InDelta(t, 64, o.Position.Y, 1e-9)

	// Position and rotation revert together in one step.
	require.Equal(t, 1, doc.History.Len())
	require.NoError(t, doc.History.Undo())
	assert.Equal(t, 0.0, o.Rotation)
	assert.Equal(t, geometry.NewPoint2D(64, 64), o.Position)
}

func TestKeyboardNudge(t *testing.T) {
	doc, _, tool := newTestTool(t)
	a := addRect(doc, 64, 64, 32, 32)
	b := addRect(doc, 160, 96, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{a, b})

	require.True(t, tool.KeyPressed(input.KeyRight, 0))
	assert.Equal(t, geometry.NewPoint2D(65, 64), a.Position)
	assert.Equal(t, geometry.NewPoint2D(161, 96), b.Position)

	require.Equal(t, 1, doc.History.Len())
	require.NoError(t, doc.History.Undo())
	assert.Equal(t, geometry.NewPoint2D(64, 64), a.Position)
}

func TestKeyboardNudgeWithShiftMovesByTile(t *testing.T) {
	doc, _, tool := newTestTool(t)
	a := addRect(doc, 64, 64, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{a})

	require.True(t, tool.KeyPressed(input.KeyDown, input.Shift))
	assert.Equal(t, geometry.NewPoint2D(64, 96), a.Position)
}

func TestKeyboardNudgeWithShiftAndFineGrid(t *testing.T) {
	doc, _, tool := newTestTool(t)
	tool.SetSnapConfig(snap.Config{SnapToFineGrid: true, GridFine: 4})
	a := addRect(doc, 64, 64, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{a})

	require.True(t, tool.KeyPressed(input.KeyDown, input.Shift))
	assert.Equal(t, geometry.NewPoint2D(64, 72), a.Position)
}

func TestKeyboardNudgeIgnored(t *testing.T) {
	doc, _, tool := newTestTool(t)
	a := addRect(doc, 64, 64, 32, 32)

	// No selection.
	assert.False(t, tool.KeyPressed(input.KeyRight, 0))

	// Ctrl is reserved for other shortcuts.
	doc.SetSelection([]*tilemap.MapObject{a})
	assert.False(t, tool.KeyPressed(input.KeyRight, input.Ctrl))

	// Unhandled key.
	assert.False(t, tool.KeyPressed(input.KeyEscape, 0))

	assert.Equal(t, geometry.NewPoint2D(64, 64), a.Position)
	assert.Equal(t, 0, doc.History.Len())
}

func TestDeletionAbortsMoveAndRollsBack(t *testing.T) {
	doc, _, tool := newTestTool(t)
	a := addRect(doc, 64, 64, 32, 32)
	b := addRect(doc, 160, 96, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{a, b})

	tool.MousePressed(pt(80, 80), input.LeftButton, 0)
	tool.MouseMoved(pt(100, 100), 0)
	require.Equal(t, Moving, tool.Action())
	require.Equal(t, geometry.NewPoint2D(84, 84), a.Position)

	doc.RemoveObjects([]*tilemap.MapObject{b})

	// The survivor snaps back to where the gesture started and the gesture
	// ends.
	assert.Equal(t, NoAction, tool.Action())
	assert.Equal(t, geometry.NewPoint2D(64, 64), a.Position)
	assert.Equal(t, 0, doc.History.Len())
	assert.True(t, doc.IsSelected(a))
	assert.False(t, doc.IsSelected(b))
}

func TestDeletionAbortsRotationAndRestoresAngle(t *testing.T) {
	doc, _, tool := newTestTool(t)
	a := addRect(doc, 64, 64, 32, 32)
	b := addRect(doc, 160, 96, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{a, b})
	tool.SetMode(RotateMode)

	start := tool.RotateHandles()[TopLeftAnchor].Pos()
	tool.MousePressed(start, input.LeftButton, 0)
	tool.MouseMoved(start.Add(pt(40, 5)), 0)
	require.Equal(t, Rotating, tool.Action())
	require.NotEqual(t, 0.0, a.Rotation)

	doc.RemoveObjects([]*tilemap.MapObject{b})

	assert.Equal(t, NoAction, tool.Action())
	assert.Equal(t, 0.0, a.Rotation)
	assert.Equal(t, geometry.NewPoint2D(64, 64), a.Position)
}

func TestDeactivateAbortsPress(t *testing.T) {
	doc, _, tool := newTestTool(t)
	o := addRect(doc, 64, 64, 32, 32)
	doc.SetSelection([]*tilemap.MapObject{o})

	tool.MousePressed(pt(80, 80), input.LeftButton, 0)
	tool.Deactivate()

	// The press was dropped, so no drag can start a gesture anymore.
	tool.MouseMoved(pt(120, 120), 0)
	assert.Equal(t, NoAction, tool.Action())
	assert.Equal(t, geometry.NewPoint2D(64, 64), o.Position)
}

func TestRightButtonIgnored(t *testing.T) {
	doc, _, tool := newTestTool(t)
	o := addRect(doc, 64, 64, 32, 32)

	tool.MousePressed(pt(70, 70), input.RightButton, 0)
	tool.MouseMoved(pt(90, 90), 0)
	tool.MouseReleased(pt(90, 90), input.RightButton, 0)

	assert.Equal(t, NoAction, tool.Action())
	assert.False(t, doc.IsSelected(o))
	assert.Equal(t, geometry.NewPoint2D(64, 64), o.Position)
}
