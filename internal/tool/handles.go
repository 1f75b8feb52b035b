// Package tool implements the object selection tool: selecting, moving,
// rotating and resizing map objects through handles drawn over the canvas.
package tool

import (
	"tilemapper/internal/tilemap"
	"tilemapper/pkg/geometry"
)

// AnchorPosition names a resize handle's place on the selection bounds.
type AnchorPosition int

const (
	TopLeftAnchor AnchorPosition = iota
	TopRightAnchor
	BottomLeftAnchor
	BottomRightAnchor
	TopAnchor
	LeftAnchor
	RightAnchor
	BottomAnchor

	CornerAnchorCount = 4
	AnchorCount       = 8
)

// Half-extent of a handle's clickable square, in screen pixels.
const handleHitExtent = 7.0

// Handle is a screen-space marker. Position and rotation are recomputed on
// every selection or geometry change; rotation only affects how the handle
// is drawn.
type Handle struct {
	pos      geometry.Point2D
	rotation float64
	visible  bool
	hovered  bool
}

func (h *Handle) Pos() geometry.Point2D     { return h.pos }
func (h *Handle) SetPos(p geometry.Point2D) { h.pos = p }
func (h *Handle) Rotation() float64         { return h.rotation }
func (h *Handle) SetRotation(deg float64)   { h.rotation = deg }
func (h *Handle) Visible() bool             { return h.visible }
func (h *Handle) SetVisible(v bool)         { h.visible = v }
func (h *Handle) Hovered() bool             { return h.hovered }
func (h *Handle) SetHovered(v bool)         { h.hovered = v }

// HitTest reports whether the screen point falls on the handle. Hidden
// handles are never hit.
func (h *Handle) HitTest(screenPos geometry.Point2D) bool {
	if !h.visible {
		return false
	}
	return geometry.Rect{
		X:      h.pos.X - handleHitExtent,
		Y:      h.pos.Y - handleHitExtent,
		Width:  handleHitExtent * 2,
		Height: handleHitExtent * 2,
	}.Contains(screenPos)
}

// OriginIndicator marks the pivot used by rotate and resize gestures.
type OriginIndicator struct {
	Handle
}

// RotateHandle sits on one corner of the selection bounds.
type RotateHandle struct {
	Handle
	corner AnchorPosition
}

// NewRotateHandle creates the handle for the given corner anchor.
func NewRotateHandle(corner AnchorPosition) *RotateHandle {
	return &RotateHandle{corner: corner}
}

// Corner returns which corner the handle occupies.
func (h *RotateHandle) Corner() AnchorPosition { return h.corner }

// ResizeHandle sits on a corner or edge midpoint of the selection bounds.
// Edge handles lock the perpendicular axis: dragging the top or bottom edge
// never scales horizontally, dragging the left or right edge never scales
// vertically.
type ResizeHandle struct {
	Handle
	anchor          AnchorPosition
	resizingOrigin  geometry.Point2D
	limitHorizontal bool
	limitVertical   bool
}

// NewResizeHandle creates the handle for the given anchor, with the axis
// locks implied by its position.
func NewResizeHandle(anchor AnchorPosition) *ResizeHandle {
	return &ResizeHandle{
		anchor:          anchor,
		limitHorizontal: anchor == TopAnchor || anchor == BottomAnchor,
		limitVertical:   anchor == LeftAnchor || anchor == RightAnchor,
	}
}

// Anchor returns the handle's anchor position.
func (h *ResizeHandle) Anchor() AnchorPosition { return h.anchor }

// ResizingOrigin returns the opposite corner or edge midpoint, the default
// pivot when resizing with this handle.
func (h *ResizeHandle) ResizingOrigin() geometry.Point2D { return h.resizingOrigin }

// SetResizingOrigin records the opposite point for the current handle layout.
func (h *ResizeHandle) SetResizingOrigin(p geometry.Point2D) { h.resizingOrigin = p }

// ResizingLimitHorizontal reports whether the handle locks horizontal scale.
func (h *ResizeHandle) ResizingLimitHorizontal() bool { return h.limitHorizontal }

// ResizingLimitVertical reports whether the handle locks vertical scale.
func (h *ResizeHandle) ResizingLimitVertical() bool { return h.limitVertical }

// TargetKind tags what a mouse press landed on.
type TargetKind int

const (
	NoTarget TargetKind = iota
	ObjectTarget
	RotateTarget
	ResizeTarget
)

// ClickTarget is the classified result of hit-testing a mouse press. Exactly
// the field matching Kind is set.
type ClickTarget struct {
	Kind   TargetKind
	Item   *tilemap.ObjectItem
	Rotate *RotateHandle
	Resize *ResizeHandle
}
