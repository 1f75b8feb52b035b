package tool

import (
	"math"

	"github.com/rs/zerolog"

	"tilemapper/internal/input"
	"tilemapper/internal/snap"
	"tilemapper/internal/tilemap"
	"tilemapper/pkg/geometry"
)

// Mode selects which handles the tool shows around the selection.
type Mode int

const (
	ResizeMode Mode = iota
	RotateMode
)

// Action is the gesture currently in progress. Exactly one is active at a
// time; transitions happen only through the start/update/finish methods.
type Action int

const (
	NoAction Action = iota
	Selecting
	Moving
	Rotating
	Resizing
)

// Rotation snap step applied while the snap modifier is held, in radians.
const rotateSnapStep = 15 * math.Pi / 180

// Config carries the tool's tunables. Snapping preferences are passed in
// explicitly so gesture behavior is a function of its inputs.
type Config struct {
	// DragThreshold is the Manhattan distance, in screen pixels, a pressed
	// pointer must travel before a gesture starts.
	DragThreshold float64
	Snap          snap.Config
}

// DefaultConfig returns the stock tool configuration.
func DefaultConfig() Config {
	return Config{
		DragThreshold: 10,
		Snap:          snap.Config{GridFine: 4},
	}
}

// movingObject is the pre-gesture snapshot of one selected object. It is the
// baseline for all live updates and for undo-command construction, and is
// discarded when the gesture commits or aborts.
type movingObject struct {
	item            *tilemap.ObjectItem
	oldItemPosition geometry.Point2D // screen
	oldPosition     geometry.Point2D // pixel
	oldSize         geometry.Size
	oldPolygon      []geometry.Point2D
	oldRotation     float64
}

// SelectionTool lets the user select, move, rotate and resize map objects.
// It consumes already-decoded pointer and key events from the canvas.
type SelectionTool struct {
	doc   *tilemap.Document
	scene *tilemap.Scene
	cfg   Config
	log   zerolog.Logger

	mode   Mode
	action Action
	active bool

	mousePressed bool
	target       ClickTarget
	start        geometry.Point2D // screen position of the press
	modifiers    input.Modifiers

	selectionRect    geometry.Rect
	hasSelectionRect bool

	origin                  geometry.Point2D // pivot for rotate/resize
	alignPosition           geometry.Point2D // snap reference while moving
	resizingLimitHorizontal bool
	resizingLimitVertical   bool

	movingObjects []movingObject

	originIndicator *OriginIndicator
	rotateHandles   [CornerAnchorCount]*RotateHandle
	resizeHandles   [AnchorCount]*ResizeHandle
}

// NewSelectionTool creates the tool for the given document and scene.
func NewSelectionTool(doc *tilemap.Document, scene *tilemap.Scene, cfg Config, log zerolog.Logger) *SelectionTool {
	if cfg.DragThreshold <= 0 {
		cfg.DragThreshold = DefaultConfig().DragThreshold
	}

	t := &SelectionTool{
		doc:             doc,
		scene:           scene,
		cfg:             cfg,
		log:             log.With().Str("component", "selection-tool").Logger(),
		originIndicator: &OriginIndicator{},
	}
	for i := 0; i < CornerAnchorCount; i++ {
		t.rotateHandles[i] = NewRotateHandle(AnchorPosition(i))
	}
	for i := 0; i < AnchorCount; i++ {
		t.resizeHandles[i] = NewResizeHandle(AnchorPosition(i))
	}
	return t
}

// Activate hooks the tool up to document change notifications.
func (t *SelectionTool) Activate() {
	t.active = true

	t.doc.On(tilemap.EventSelectionChanged, func(any) {
		if t.active {
			t.UpdateHandles()
		}
	})
	t.doc.On(tilemap.EventMapChanged, func(any) {
		if t.active {
			t.scene.Refresh()
			t.UpdateHandles()
		}
	})
	t.doc.On(tilemap.EventObjectsChanged, func(payload any) {
		if !t.active {
			return
		}
		if objects, ok := payload.([]*tilemap.MapObject); ok {
			t.scene.SyncObjects(objects)
		}
		t.UpdateHandles()
	})
	t.doc.On(tilemap.EventObjectsRemoved, func(payload any) {
		if !t.active {
			return
		}
		if objects, ok := payload.([]*tilemap.MapObject); ok {
			t.ObjectsRemoved(objects)
		}
		t.scene.Refresh()
		t.UpdateHandles()
	})

	t.UpdateHandles()
}

// Deactivate detaches the tool; document notifications are ignored until the
// next Activate.
func (t *SelectionTool) Deactivate() {
	t.active = false
	t.abortPress()
}

// Mode returns the current handle mode.
func (t *SelectionTool) Mode() Mode { return t.mode }

// SetMode switches between resize and rotate handles.
func (t *SelectionTool) SetMode(mode Mode) {
	if t.mode != mode {
		t.mode = mode
		t.UpdateHandles()
	}
}

// Action returns the gesture currently in progress.
func (t *SelectionTool) Action() Action { return t.action }

// SnapConfig returns the snapping configuration in effect.
func (t *SelectionTool) SnapConfig() snap.Config { return t.cfg.Snap }

// SetSnapConfig replaces the snapping configuration. Takes effect on the
// next gesture.
func (t *SelectionTool) SetSnapConfig(cfg snap.Config) { t.cfg.Snap = cfg }

// OriginIndicator exposes the pivot marker for drawing.
func (t *SelectionTool) OriginIndicator() *OriginIndicator { return t.originIndicator }

// RotateHandles exposes the corner rotate handles for drawing.
func (t *SelectionTool) RotateHandles() []*RotateHandle { return t.rotateHandles[:] }

// ResizeHandles exposes the resize handles for drawing.
func (t *SelectionTool) ResizeHandles() []*ResizeHandle { return t.resizeHandles[:] }

// SelectionRect returns the rubber-band rectangle and whether one is active.
func (t *SelectionTool) SelectionRect() (geometry.Rect, bool) {
	return t.selectionRect, t.hasSelectionRect
}

// MousePressed records the press point and classifies what was hit. Handles
// take priority over objects. No gesture starts until the pointer travels
// past the drag threshold.
func (t *SelectionTool) MousePressed(pos geometry.Point2D, button input.MouseButton, modifiers input.Modifiers) {
	if t.action != NoAction || button != input.LeftButton {
		return
	}

	t.mousePressed = true
	t.start = pos
	t.modifiers = modifiers
	t.target = t.hitTestHandles(pos)

	if t.target.Kind == NoTarget {
		if item := t.scene.TopMostItemAt(pos); item != nil {
			t.target = ClickTarget{Kind: ObjectTarget, Item: item}
		}
	}
}

// hitTestHandles classifies a press against the visible handles.
func (t *SelectionTool) hitTestHandles(pos geometry.Point2D) ClickTarget {
	for _, h := range t.rotateHandles {
		if h.HitTest(pos) {
			return ClickTarget{Kind: RotateTarget, Rotate: h}
		}
	}
	for _, h := range t.resizeHandles {
		if h.HitTest(pos) {
			return ClickTarget{Kind: ResizeTarget, Resize: h}
		}
	}
	return ClickTarget{}
}

// MouseMoved dispatches a gesture once the drag threshold is exceeded and
// feeds the active gesture afterwards.
func (t *SelectionTool) MouseMoved(pos geometry.Point2D, modifiers input.Modifiers) {
	t.modifiers = modifiers

	if t.action == NoAction && t.mousePressed {
		dragDistance := pos.Sub(t.start).ManhattanLength()
		if dragDistance >= t.cfg.DragThreshold {
			// Holding shift makes sure a selection operation starts
			switch {
			case (t.target.Kind == ObjectTarget || modifiers.Has(input.Alt)) && !modifiers.Has(input.Shift):
				t.startMoving(modifiers)
			case t.target.Kind == RotateTarget:
				t.startRotating()
			case t.target.Kind == ResizeTarget:
				t.startResizing()
			default:
				t.startSelecting()
			}
		}
	}

	switch t.action {
	case Selecting:
		t.selectionRect = geometry.RectFromPoints(t.start, pos)
	case Moving:
		t.updateMovingItems(pos, modifiers)
	case Rotating:
		t.updateRotatingItems(pos, modifiers)
	case Resizing:
		t.updateResizingItems(pos, modifiers)
	case NoAction:
		t.updateHover(pos)
	}
}

func (t *SelectionTool) updateHover(pos geometry.Point2D) {
	for _, h := range t.rotateHandles {
		h.SetHovered(h.HitTest(pos))
	}
	for _, h := range t.resizeHandles {
		h.SetHovered(h.HitTest(pos))
	}
}

// MouseReleased finalizes the active gesture, or updates the selection when
// no gesture started.
func (t *SelectionTool) MouseReleased(pos geometry.Point2D, button input.MouseButton, modifiers input.Modifiers) {
	if button != input.LeftButton {
		return
	}

	switch t.action {
	case NoAction:
		t.handleClick(modifiers)
	case Selecting:
		t.applySelectionRect(pos, modifiers)
		t.hasSelectionRect = false
		t.action = NoAction
		t.UpdateHandles()
	case Moving:
		t.finishMoving(pos)
	case Rotating:
		t.finishRotating(pos)
	case Resizing:
		t.finishResizing(pos)
	}

	t.abortPress()
}

func (t *SelectionTool) abortPress() {
	t.mousePressed = false
	t.target = ClickTarget{}
}

// handleClick resolves a press-and-release that never became a drag.
// Clicking a handle leaves the selection alone. Clicking an already selected
// object toggles between resize and rotate handles.
func (t *SelectionTool) handleClick(modifiers input.Modifiers) {
	switch t.target.Kind {
	case RotateTarget, ResizeTarget:
		return
	case ObjectTarget:
		clicked := t.target.Item.Object
		selection := t.doc.Selection()

		if modifiers.Has(input.Shift) || modifiers.Has(input.Ctrl) {
			if t.doc.IsSelected(clicked) {
				selection = withoutObject(selection, clicked)
			} else {
				selection = append(selection, clicked)
			}
		} else if t.doc.IsSelected(clicked) {
			t.SetMode(oppositeMode(t.mode))
			return
		} else {
			selection = []*tilemap.MapObject{clicked}
			t.SetMode(ResizeMode)
		}
		t.doc.SetSelection(selection)
	case NoTarget:
		if !modifiers.Has(input.Shift) {
			t.doc.ClearSelection()
		}
	}
}

func oppositeMode(m Mode) Mode {
	if m == ResizeMode {
		return RotateMode
	}
	return ResizeMode
}

func withoutObject(objects []*tilemap.MapObject, o *tilemap.MapObject) []*tilemap.MapObject {
	out := objects[:0]
	for _, obj := range objects {
		if obj != o {
			out = append(out, obj)
		}
	}
	return out
}

// ModifiersChanged tracks the modifier state between pointer events.
func (t *SelectionTool) ModifiersChanged(modifiers input.Modifiers) {
	t.modifiers = modifiers
}

// KeyPressed nudges the selection with the arrow keys. Returns false when
// the key was not handled. Holding shift moves by a tile dimension instead
// of a single pixel, divided by the fine-grid subdivision when fine-grid
// snapping is on.
func (t *SelectionTool) KeyPressed(key input.Key, modifiers input.Modifiers) bool {
	if t.action != NoAction {
		return false
	}

	var moveBy geometry.Point2D
	switch key {
	case input.KeyUp:
		moveBy = geometry.Point2D{Y: -1}
	case input.KeyDown:
		moveBy = geometry.Point2D{Y: 1}
	case input.KeyLeft:
		moveBy = geometry.Point2D{X: -1}
	case input.KeyRight:
		moveBy = geometry.Point2D{X: 1}
	default:
		return false
	}

	selection := t.doc.Selection()
	if len(selection) == 0 || modifiers.Has(input.Ctrl) {
		return false
	}

	if modifiers.Has(input.Shift) {
		moveBy.X *= float64(t.doc.Map.TileWidth)
		moveBy.Y *= float64(t.doc.Map.TileHeight)
		if t.cfg.Snap.SnapToFineGrid && t.cfg.Snap.GridFine > 0 {
			moveBy = moveBy.Scale(1 / float64(t.cfg.Snap.GridFine))
		}
	}

	t.doc.History.BeginGroup("Move Objects")
	for _, object := range selection {
		oldPos := object.Position
		object.Position = oldPos.Add(moveBy)
		t.doc.History.Push(tilemap.NewMoveObjectCommand(t.doc, object, oldPos))
	}
	t.doc.History.EndGroup()
	t.doc.NotifyObjectsChanged(selection)
	return true
}

// applySelectionRect selects the objects under the rubber band. Holding a
// multi-select modifier extends the current selection instead of replacing
// it.
func (t *SelectionTool) applySelectionRect(pos geometry.Point2D, modifiers input.Modifiers) {
	rect := geometry.RectFromPoints(t.start, pos)
	// Give the rect some contents, otherwise intersection tests always fail
	rect.Width = math.Max(1, rect.Width)
	rect.Height = math.Max(1, rect.Height)

	var selection []*tilemap.MapObject
	for _, item := range t.scene.ItemsInRect(rect) {
		selection = append(selection, item.Object)
	}

	if modifiers.Has(input.Shift) || modifiers.Has(input.Ctrl) {
		for _, o := range t.doc.Selection() {
			if !objectInSlice(selection, o) {
				selection = append(selection, o)
			}
		}
	} else {
		t.SetMode(ResizeMode)
	}

	t.doc.SetSelection(selection)
}

func objectInSlice(objects []*tilemap.MapObject, o *tilemap.MapObject) bool {
	for _, obj := range objects {
		if obj == o {
			return true
		}
	}
	return false
}

func (t *SelectionTool) startSelecting() {
	t.action = Selecting
	t.hasSelectionRect = true
	t.selectionRect = geometry.RectFromPoints(t.start, t.start)
}

// saveSelectionState snapshots every selected object before a move, rotate
// or resize gesture.
func (t *SelectionTool) saveSelectionState() {
	t.movingObjects = t.movingObjects[:0]

	for _, object := range t.doc.Selection() {
		item := t.scene.ItemFor(object)
		if item == nil {
			continue
		}
		t.movingObjects = append(t.movingObjects, movingObject{
			item:            item,
			oldItemPosition: item.Pos(),
			oldPosition:     object.Position,
			oldSize:         object.Size,
			oldPolygon:      object.PolygonCopy(),
			oldRotation:     object.Rotation,
		})
	}
}

// ObjectsRemoved aborts an in-progress move or rotate when objects are
// deleted under it: every remaining snapshot object is rolled back to its
// pre-gesture state and the gesture ends.
func (t *SelectionTool) ObjectsRemoved(objects []*tilemap.MapObject) {
	if t.action != Moving && t.action != Rotating {
		return
	}

	var restored []*tilemap.MapObject
	for _, object := range t.movingObjects {
		mapObject := object.item.Object
		if objectInSlice(objects, mapObject) {
			continue
		}
		mapObject.Position = object.oldPosition
		if t.action == Rotating {
			mapObject.Rotation = object.oldRotation
		}
		restored = append(restored, mapObject)
	}

	t.movingObjects = nil
	t.action = NoAction
	t.log.Debug().Int("restored", len(restored)).Msg("gesture aborted by deletion")

	if len(restored) > 0 {
		t.scene.SyncObjects(restored)
	}
}

// snapshotObjects returns the objects of the current snapshot.
func (t *SelectionTool) snapshotObjects() []*tilemap.MapObject {
	out := make([]*tilemap.MapObject, len(t.movingObjects))
	for i, object := range t.movingObjects {
		out[i] = object.item.Object
	}
	return out
}
