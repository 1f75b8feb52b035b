// Package tilemap provides the map document model: maps, object layers,
// map objects and the selection/edit state shared by the editor tools.
package tilemap

import (
	"tilemapper/internal/tileset"
	"tilemapper/pkg/geometry"
)

// Shape describes the geometric kind of a map object.
type Shape int

const (
	Rectangle Shape = iota
	Ellipse
	Polygon
	Polyline
)

func (s Shape) String() string {
	switch s {
	case Rectangle:
		return "rectangle"
	case Ellipse:
		return "ellipse"
	case Polygon:
		return "polygon"
	case Polyline:
		return "polyline"
	default:
		return "unknown"
	}
}

// Alignment names the reference point within an object's bounds that its
// stored position refers to.
type Alignment int

const (
	TopLeft Alignment = iota
	Top
	TopRight
	Left
	Center
	Right
	BottomLeft
	Bottom
	BottomRight
)

// AlignmentOffset returns the vector from the rectangle's top-left corner to
// the anchor point implied by the alignment.
func AlignmentOffset(r geometry.Rect, alignment Alignment) geometry.Point2D {
	switch alignment {
	case Top:
		return geometry.Point2D{X: r.Width / 2}
	case TopRight:
		return geometry.Point2D{X: r.Width}
	case Left:
		return geometry.Point2D{Y: r.Height / 2}
	case Center:
		return geometry.Point2D{X: r.Width / 2, Y: r.Height / 2}
	case Right:
		return geometry.Point2D{X: r.Width, Y: r.Height / 2}
	case BottomLeft:
		return geometry.Point2D{Y: r.Height}
	case Bottom:
		return geometry.Point2D{X: r.Width / 2, Y: r.Height}
	case BottomRight:
		return geometry.Point2D{X: r.Width, Y: r.Height}
	default: // TopLeft
		return geometry.Point2D{}
	}
}

// Align translates the rectangle so that its alignment anchor lands on the
// rectangle's original position. Unalign is its exact inverse.
func Align(r geometry.Rect, alignment Alignment) geometry.Rect {
	return r.Translated(AlignmentOffset(r, alignment).Scale(-1))
}

// Unalign undoes Align for the same alignment value.
func Unalign(r geometry.Rect, alignment Alignment) geometry.Rect {
	return r.Translated(AlignmentOffset(r, alignment))
}

// MapObject is a selectable map entity: a shape, a tile stamp, or a polygon.
//
// Position is in pixel space. Polygon vertices are stored in local,
// unrotated space relative to Position and are non-empty exactly when Shape
// is Polygon or Polyline. Size is meaningless for polygonal shapes.
type MapObject struct {
	ID        int
	Name      string
	Position  geometry.Point2D
	Size      geometry.Size
	Shape     Shape
	Polygon   []geometry.Point2D
	Rotation  float64 // degrees, clockwise
	Alignment Alignment
	Cell      tileset.Cell

	layer *ObjectLayer
}

// Bounds returns the raw, unaligned bounds: Position extended by Size.
func (o *MapObject) Bounds() geometry.Rect {
	return geometry.Rect{
		X:      o.Position.X,
		Y:      o.Position.Y,
		Width:  o.Size.Width,
		Height: o.Size.Height,
	}
}

// HasPolygon returns true for polygon and polyline objects.
func (o *MapObject) HasPolygon() bool {
	return len(o.Polygon) > 0
}

// SetPolygon replaces the polygon with a copy of the given vertices.
func (o *MapObject) SetPolygon(polygon []geometry.Point2D) {
	o.Polygon = make([]geometry.Point2D, len(polygon))
	copy(o.Polygon, polygon)
}

// PolygonCopy returns an independent copy of the polygon vertices.
func (o *MapObject) PolygonCopy() []geometry.Point2D {
	out := make([]geometry.Point2D, len(o.Polygon))
	copy(out, o.Polygon)
	return out
}

// Layer returns the object layer this object belongs to, or nil.
func (o *MapObject) Layer() *ObjectLayer {
	return o.layer
}
