package tilemap

import (
	"math"
	"sort"

	"tilemapper/internal/render"
	"tilemapper/pkg/geometry"
)

// Hit-test slop for line-like and point-like objects, in screen pixels.
const (
	polylineHitTolerance = 4.0
	markerHitRadius      = 10.0
)

// Scene maintains one ObjectItem per map object and answers the spatial
// queries the tools need: what is under the cursor, what falls inside a
// rubber band.
type Scene struct {
	mapData  *Map
	renderer render.Renderer
	items    []*ObjectItem
	byObject map[*MapObject]*ObjectItem
}

// NewScene builds the item set for the given map.
func NewScene(m *Map, renderer render.Renderer) *Scene {
	s := &Scene{mapData: m, renderer: renderer}
	s.Refresh()
	return s
}

// Renderer returns the renderer the scene positions items with.
func (s *Scene) Renderer() render.Renderer {
	return s.renderer
}

// Refresh rebuilds the item set from the map. Call after objects are added
// or removed.
func (s *Scene) Refresh() {
	s.items = s.items[:0]
	s.byObject = make(map[*MapObject]*ObjectItem)

	for _, layer := range s.mapData.Layers {
		for i, o := range layer.Objects {
			item := &ObjectItem{Object: o}
			item.Sync(s.renderer)
			if layer.DrawOrder == TopDownOrder {
				item.SetZ(item.Pos().Y)
			} else {
				item.SetZ(float64(i))
			}
			s.items = append(s.items, item)
			s.byObject[o] = item
		}
	}
}

// SyncObjects refreshes the items of the given objects after their
// properties changed. Objects on top-down layers restack to their new
// vertical screen position.
func (s *Scene) SyncObjects(objects []*MapObject) {
	for _, o := range objects {
		item := s.byObject[o]
		if item == nil {
			continue
		}
		item.Sync(s.renderer)
		if layer := o.Layer(); layer != nil && layer.DrawOrder == TopDownOrder {
			item.SetZ(item.Pos().Y)
		}
	}
}

// ItemFor returns the item representing the given object, or nil.
func (s *Scene) ItemFor(o *MapObject) *ObjectItem {
	return s.byObject[o]
}

// Items returns all items in stacking order, bottom-most first.
func (s *Scene) Items() []*ObjectItem {
	sorted := make([]*ObjectItem, len(s.items))
	copy(sorted, s.items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Z() < sorted[j].Z()
	})
	return sorted
}

// TopMostItemAt returns the highest-stacked item whose shape contains the
// given screen position, or nil.
func (s *Scene) TopMostItemAt(screenPos geometry.Point2D) *ObjectItem {
	stacked := s.Items()
	for i := len(stacked) - 1; i >= 0; i-- {
		if s.hitTest(stacked[i].Object, screenPos) {
			return stacked[i]
		}
	}
	return nil
}

// ItemsInRect returns the items whose rotated screen bounds intersect the
// given screen rectangle, in stacking order.
func (s *Scene) ItemsInRect(screenRect geometry.Rect) []*ObjectItem {
	var out []*ObjectItem
	for _, item := range s.Items() {
		if item.ScreenBounds(s.renderer).Intersects(screenRect) {
			out = append(out, item)
		}
	}
	return out
}

// hitTest checks the screen point against the object's actual shape. The
// point is first mapped into the object's unrotated frame so the shape tests
// can work on axis-aligned geometry.
func (s *Scene) hitTest(o *MapObject, screenPos geometry.Point2D) bool {
	transform := ObjectTransform(o, s.renderer)
	if !transform.IsIdentity() {
		inv, ok := transform.Inverse()
		if !ok {
			return false
		}
		screenPos = inv.Apply(screenPos)
	}

	if !o.Cell.IsEmpty() {
		return ObjectBounds(o, s.renderer, geometry.Identity()).Contains(screenPos)
	}

	pixelPos := s.renderer.ScreenToPixelCoords(screenPos)

	switch o.Shape {
	case Rectangle:
		bounds := Align(o.Bounds(), o.Alignment)
		if bounds.Width == 0 && bounds.Height == 0 {
			return screenPos.Distance(s.renderer.PixelToScreenCoords(o.Position)) <= markerHitRadius
		}
		return bounds.Contains(pixelPos)
	case Ellipse:
		bounds := Align(o.Bounds(), o.Alignment)
		if bounds.Width == 0 && bounds.Height == 0 {
			return screenPos.Distance(s.renderer.PixelToScreenCoords(o.Position)) <= markerHitRadius
		}
		c := bounds.Center()
		rx, ry := bounds.Width/2, bounds.Height/2
		if rx == 0 || ry == 0 {
			return bounds.Contains(pixelPos)
		}
		dx := (pixelPos.X - c.X) / rx
		dy := (pixelPos.Y - c.Y) / ry
		return dx*dx+dy*dy <= 1
	case Polygon:
		return geometry.PointInPolygon(pixelPos, geometry.TranslatePolygon(o.Polygon, o.Position))
	case Polyline:
		return nearPolyline(screenPos, s.screenPolygon(o), polylineHitTolerance)
	}
	return false
}

// screenPolygon returns the object's polygon in unrotated screen space.
func (s *Scene) screenPolygon(o *MapObject) []geometry.Point2D {
	polygon := geometry.TranslatePolygon(o.Polygon, o.Position)
	out := make([]geometry.Point2D, len(polygon))
	for i, p := range polygon {
		out[i] = s.renderer.PixelToScreenCoords(p)
	}
	return out
}

// nearPolyline reports whether the point is within tolerance of any segment
// of the open polyline.
func nearPolyline(p geometry.Point2D, points []geometry.Point2D, tolerance float64) bool {
	for i := 0; i+1 < len(points); i++ {
		if distanceToSegment(p, points[i], points[i+1]) <= tolerance {
			return true
		}
	}
	return false
}

func distanceToSegment(p, a, b geometry.Point2D) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Distance(a)
	}
	ap := p.Sub(a)
	t := (ap.X*ab.X + ap.Y*ab.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Distance(a.Add(ab.Scale(t)))
}
