// Package canvas provides the map view widget: it renders the object layers
// with the selection handles and feeds pointer and key events to the active
// tool.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"tilemapper/internal/input"
	"tilemapper/internal/tilemap"
	"tilemapper/internal/tool"
	"tilemapper/pkg/geometry"
)

const (
	minZoom  = 0.25
	maxZoom  = 8.0
	zoomStep = 1.25
)

// MapView displays a map document and drives the selection tool with decoded
// pointer events. Widget-local positions are divided by the zoom factor
// before they reach the tool, so the tool always works in screen coordinates.
type MapView struct {
	widget.BaseWidget

	doc   *tilemap.Document
	scene *tilemap.Scene
	tool  *tool.SelectionTool

	raster *fynecanvas.Raster
	scroll *container.Scroll
	zoom   float64

	// Modifier keys are tracked from key events because Fyne's typed-key
	// callbacks don't carry the modifier mask.
	modifiers input.Modifiers

	onZoomChange func(zoom float64)
}

// NewMapView creates the view for a document and its selection tool.
func NewMapView(doc *tilemap.Document, scene *tilemap.Scene, selectionTool *tool.SelectionTool) *MapView {
	v := &MapView{
		doc:   doc,
		scene: scene,
		tool:  selectionTool,
		zoom:  1.0,
	}

	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.raster.SetMinSize(v.contentSize())

	v.scroll = container.NewScroll(v.raster)
	v.scroll.Direction = container.ScrollBoth

	doc.On(tilemap.EventObjectsChanged, func(any) { v.Refresh() })
	doc.On(tilemap.EventSelectionChanged, func(any) { v.Refresh() })
	doc.On(tilemap.EventMapChanged, func(any) { v.Refresh() })

	v.ExtendBaseWidget(v)
	return v
}

// Container returns the scrollable view for embedding in layouts.
func (v *MapView) Container() fyne.CanvasObject {
	return v.scroll
}

// contentSize is the rendered map size at the current zoom, with a margin so
// handles on the map edge stay reachable.
func (v *MapView) contentSize() fyne.Size {
	m := v.doc.Map
	w := float64(m.Width*m.TileWidth) + 2*float64(m.TileWidth)
	h := float64(m.Height*m.TileHeight) + 2*float64(m.TileHeight)
	if m.Orientation == tilemap.Isometric {
		w = float64((m.Width + m.Height) * m.TileWidth / 2)
		h = float64((m.Width+m.Height)*m.TileHeight/2) + 2*float64(m.TileHeight)
	}
	return fyne.NewSize(float32(w*v.zoom), float32(h*v.zoom))
}

// Zoom returns the current zoom factor.
func (v *MapView) Zoom() float64 {
	return v.zoom
}

// SetZoom clamps and applies the zoom factor.
func (v *MapView) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	v.zoom = zoom
	v.raster.SetMinSize(v.contentSize())
	v.raster.Refresh()
	v.scroll.Refresh()

	if v.onZoomChange != nil {
		v.onZoomChange(zoom)
	}
}

// ZoomIn increases the zoom one step.
func (v *MapView) ZoomIn() { v.SetZoom(v.zoom * zoomStep) }

// ZoomOut decreases the zoom one step.
func (v *MapView) ZoomOut() { v.SetZoom(v.zoom / zoomStep) }

// OnZoomChange registers a zoom-change callback.
func (v *MapView) OnZoomChange(fn func(zoom float64)) {
	v.onZoomChange = fn
}

// Refresh redraws the raster.
func (v *MapView) Refresh() {
	v.raster.Refresh()
}

// Scrolled zooms with the mouse wheel.
func (v *MapView) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		v.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		v.ZoomOut()
	}
}

// toScreen converts a widget-local position to tool screen coordinates.
func (v *MapView) toScreen(pos fyne.Position) geometry.Point2D {
	offset := v.scroll.Offset
	return geometry.Point2D{
		X: float64(pos.X+offset.X) / v.zoom,
		Y: float64(pos.Y+offset.Y) / v.zoom,
	}
}

func toModifiers(m fyne.KeyModifier) input.Modifiers {
	var out input.Modifiers
	if m&fyne.KeyModifierShift != 0 {
		out |= input.Shift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= input.Ctrl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= input.Alt
	}
	return out
}

func toButton(b desktop.MouseButton) input.MouseButton {
	switch b {
	case desktop.MouseButtonPrimary:
		return input.LeftButton
	case desktop.MouseButtonSecondary:
		return input.RightButton
	case desktop.MouseButtonTertiary:
		return input.MiddleButton
	default:
		return input.NoButton
	}
}

// MouseDown implements desktop.Mouseable.
func (v *MapView) MouseDown(ev *desktop.MouseEvent) {
	v.modifiers = toModifiers(ev.Modifier)
	v.tool.MousePressed(v.toScreen(ev.Position), toButton(ev.Button), v.modifiers)
	v.Refresh()
}

// MouseUp implements desktop.Mouseable.
func (v *MapView) MouseUp(ev *desktop.MouseEvent) {
	v.modifiers = toModifiers(ev.Modifier)
	v.tool.MouseReleased(v.toScreen(ev.Position), toButton(ev.Button), v.modifiers)
	v.Refresh()
}

// MouseMoved implements desktop.Hoverable.
func (v *MapView) MouseMoved(ev *desktop.MouseEvent) {
	v.modifiers = toModifiers(ev.Modifier)
	v.tool.MouseMoved(v.toScreen(ev.Position), v.modifiers)
	v.Refresh()
}

// MouseIn implements desktop.Hoverable.
func (v *MapView) MouseIn(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (v *MapView) MouseOut() {}

// HandleKeyDown feeds key presses to the tool and tracks modifier keys.
// Returns true when the key was consumed.
func (v *MapView) HandleKeyDown(ev *fyne.KeyEvent) bool {
	if mod := modifierForKey(ev.Name); mod != 0 {
		v.modifiers |= mod
		v.tool.ModifiersChanged(v.modifiers)
		return true
	}

	key := input.KeyNone
	switch ev.Name {
	case fyne.KeyUp:
		key = input.KeyUp
	case fyne.KeyDown:
		key = input.KeyDown
	case fyne.KeyLeft:
		key = input.KeyLeft
	case fyne.KeyRight:
		key = input.KeyRight
	case fyne.KeyDelete, fyne.KeyBackspace:
		key = input.KeyDelete
	default:
		return false
	}

	if key == input.KeyDelete {
		v.deleteSelection()
		return true
	}

	handled := v.tool.KeyPressed(key, v.modifiers)
	if handled {
		v.Refresh()
	}
	return handled
}

// HandleKeyUp clears tracked modifier keys.
func (v *MapView) HandleKeyUp(ev *fyne.KeyEvent) {
	if mod := modifierForKey(ev.Name); mod != 0 {
		v.modifiers &^= mod
		v.tool.ModifiersChanged(v.modifiers)
	}
}

func modifierForKey(name fyne.KeyName) input.Modifiers {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return input.Shift
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return input.Ctrl
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		return input.Alt
	}
	return 0
}

// deleteSelection removes the selected objects as one undoable step.
func (v *MapView) deleteSelection() {
	selection := v.doc.Selection()
	if len(selection) == 0 {
		return
	}

	cmd := tilemap.NewRemoveObjectsCommand(v.doc, selection)
	if err := cmd.Do(); err != nil {
		return
	}
	v.doc.History.Push(cmd)
	v.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (v *MapView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.scroll)
}

// draw renders the full view: grid, objects, selection outlines, handles and
// the rubber band.
func (v *MapView) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	v.fillBackground(output)
	v.drawGrid(output)

	selection := v.doc.Selection()
	for _, item := range v.scene.Items() {
		v.drawObject(output, item.Object, objectInSelection(selection, item.Object))
	}

	if rect, ok := v.tool.SelectionRect(); ok {
		v.drawRubberBand(output, rect)
	}

	v.drawHandles(output)
	return output
}

func objectInSelection(selection []*tilemap.MapObject, o *tilemap.MapObject) bool {
	for _, sel := range selection {
		if sel == o {
			return true
		}
	}
	return false
}
