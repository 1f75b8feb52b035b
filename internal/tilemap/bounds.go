package tilemap

import (
	"tilemapper/internal/render"
	"tilemapper/pkg/geometry"
)

// ResizeInPixelSpace reports whether an object's geometry lives in pixel
// space. Tile objects are placed in screen space: their footprint is not
// affected by the map projection, only their position is.
func ResizeInPixelSpace(o *MapObject) bool {
	return o.Cell.IsEmpty()
}

// PixelBounds returns the object's bounds in pixel space. Only valid for
// non-tile objects; tile objects have screen bounds only.
func PixelBounds(o *MapObject) geometry.Rect {
	switch o.Shape {
	case Rectangle, Ellipse:
		return Align(o.Bounds(), o.Alignment)
	case Polygon, Polyline:
		// Alignment is irrelevant for polygon objects since they have no size.
		return geometry.PolygonBounds(geometry.TranslatePolygon(o.Polygon, o.Position))
	}
	return geometry.Rect{}
}

// ObjectBounds returns the actual bounds of the object in screen space,
// after applying the given transform (typically a rotation about the
// object's screen position).
func ObjectBounds(o *MapObject, renderer render.Renderer, transform geometry.AffineTransform) geometry.Rect {
	if !o.Cell.IsEmpty() {
		// Tile objects can have a tile offset, which is scaled along with
		// the image. A zero-sized image axis scales to zero rather than
		// dividing by zero.
		imgSize := o.Cell.Tile.ImageSize()
		position := renderer.PixelToScreenCoords(o.Position)

		tileOffset := o.Cell.Tileset.TileOffset.ToFloat()
		var scaleX, scaleY float64
		if imgSize.Width > 0 {
			scaleX = o.Size.Width / imgSize.Width
		}
		if imgSize.Height > 0 {
			scaleY = o.Size.Height / imgSize.Height
		}

		bounds := geometry.Rect{
			X:      position.X + tileOffset.X*scaleX,
			Y:      position.Y + tileOffset.Y*scaleY,
			Width:  o.Size.Width,
			Height: o.Size.Height,
		}
		bounds = Align(bounds, o.Alignment)

		return transform.ApplyToRect(bounds)
	}

	switch o.Shape {
	case Rectangle, Ellipse:
		bounds := Align(o.Bounds(), o.Alignment)
		screenPolygon := rectToScreenPolygon(bounds, renderer)
		return geometry.PolygonBounds(geometry.TransformPolygon(transform, screenPolygon))
	case Polygon, Polyline:
		// Alignment is irrelevant for polygon objects since they have no size.
		polygon := geometry.TranslatePolygon(o.Polygon, o.Position)
		screenPolygon := make([]geometry.Point2D, len(polygon))
		for i, p := range polygon {
			screenPolygon[i] = renderer.PixelToScreenCoords(p)
		}
		return geometry.PolygonBounds(geometry.TransformPolygon(transform, screenPolygon))
	}

	return geometry.Rect{}
}

// ObjectTransform returns the screen-space transform of the object: identity
// when unrotated, otherwise a rotation about the object's screen position.
func ObjectTransform(o *MapObject, renderer render.Renderer) geometry.AffineTransform {
	if o.Rotation != 0 {
		pos := renderer.PixelToScreenCoords(o.Position)
		return geometry.RotateAt(pos, o.Rotation)
	}
	return geometry.Identity()
}

// rectToScreenPolygon maps the rectangle's corners through the renderer.
// Under a non-orthogonal projection an axis-aligned pixel rectangle becomes
// an arbitrary quad on screen.
func rectToScreenPolygon(r geometry.Rect, renderer render.Renderer) []geometry.Point2D {
	return []geometry.Point2D{
		renderer.PixelToScreenCoords(r.TopLeft()),
		renderer.PixelToScreenCoords(r.TopRight()),
		renderer.PixelToScreenCoords(r.BottomRight()),
		renderer.PixelToScreenCoords(r.BottomLeft()),
	}
}
