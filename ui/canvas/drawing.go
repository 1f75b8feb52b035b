package canvas

import (
	"image"
	"image/color"
	"math"

	"tilemapper/internal/tilemap"
	"tilemapper/internal/tileset"
	"tilemapper/pkg/colorutil"
	"tilemapper/pkg/geometry"
)

// Segments used to approximate an ellipse outline.
const ellipseSegments = 64

var (
	backgroundColor = color.RGBA{R: 0x2B, G: 0x2B, B: 0x2B, A: 255}
	gridColor       = color.RGBA{R: 0x3C, G: 0x3C, B: 0x3C, A: 255}
	objectColor     = colorutil.ObjectOutline
	selectedColor   = colorutil.SelectionOutline
	rubberBandColor = colorutil.RubberBand
	handleFill      = colorutil.HandleFill
	handleStroke    = colorutil.Black
	originColor     = colorutil.OriginMarker
)

func (v *MapView) fillBackground(output *image.RGBA) {
	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i] = backgroundColor.R
		output.Pix[i+1] = backgroundColor.G
		output.Pix[i+2] = backgroundColor.B
		output.Pix[i+3] = 255
	}
}

// drawGrid draws the tile grid by running tile-space grid lines through the
// renderer, so isometric maps get their diamond grid.
func (v *MapView) drawGrid(output *image.RGBA) {
	m := v.doc.Map
	renderer := v.doc.Renderer

	for x := 0; x <= m.Width; x++ {
		a := renderer.PixelToScreenCoords(renderer.TileToPixelCoords(geometry.Point2D{X: float64(x)}))
		b := renderer.PixelToScreenCoords(renderer.TileToPixelCoords(geometry.Point2D{X: float64(x), Y: float64(m.Height)}))
		v.drawLine(output, a, b, gridColor, 1)
	}
	for y := 0; y <= m.Height; y++ {
		a := renderer.PixelToScreenCoords(renderer.TileToPixelCoords(geometry.Point2D{Y: float64(y)}))
		b := renderer.PixelToScreenCoords(renderer.TileToPixelCoords(geometry.Point2D{X: float64(m.Width), Y: float64(y)}))
		v.drawLine(output, a, b, gridColor, 1)
	}
}

// drawObject renders one object in its rotated screen frame.
func (v *MapView) drawObject(output *image.RGBA, o *tilemap.MapObject, selected bool) {
	renderer := v.doc.Renderer
	transform := tilemap.ObjectTransform(o, renderer)

	col := objectColor
	thickness := 2
	if selected {
		col = selectedColor
		thickness = 3
	}

	if !o.Cell.IsEmpty() {
		v.drawTileObject(output, o, transform)
		if selected {
			v.drawScreenPolygon(output, boundsCorners(tilemap.ObjectBounds(o, renderer, geometry.Identity()), transform), true, col, thickness)
		}
		return
	}

	switch o.Shape {
	case tilemap.Rectangle:
		bounds := tilemap.Align(o.Bounds(), o.Alignment)
		corners := v.pixelRectCorners(bounds, transform)
		v.drawScreenPolygon(output, corners, true, col, thickness)
	case tilemap.Ellipse:
		bounds := tilemap.Align(o.Bounds(), o.Alignment)
		points := make([]geometry.Point2D, 0, ellipseSegments)
		c := bounds.Center()
		for i := 0; i < ellipseSegments; i++ {
			angle := 2 * math.Pi * float64(i) / ellipseSegments
			p := geometry.Point2D{
				X: c.X + math.Cos(angle)*bounds.Width/2,
				Y: c.Y + math.Sin(angle)*bounds.Height/2,
			}
			points = append(points, transform.Apply(renderer.PixelToScreenCoords(p)))
		}
		v.drawScreenPolygon(output, points, true, col, thickness)
	case tilemap.Polygon, tilemap.Polyline:
		polygon := geometry.TranslatePolygon(o.Polygon, o.Position)
		points := make([]geometry.Point2D, len(polygon))
		for i, p := range polygon {
			points[i] = transform.Apply(renderer.PixelToScreenCoords(p))
		}
		v.drawScreenPolygon(output, points, o.Shape == tilemap.Polygon, col, thickness)
	}

	if o.Name != "" {
		pos := transform.Apply(renderer.PixelToScreenCoords(o.Position))
		v.drawLabel(output, o.Name, v.toCanvasX(pos.X), v.toCanvasY(pos.Y)-8, col)
	}
}

// drawTileObject composites the tile image into the object's rotated screen
// footprint by sampling with the inverse transform.
func (v *MapView) drawTileObject(output *image.RGBA, o *tilemap.MapObject, transform geometry.AffineTransform) {
	renderer := v.doc.Renderer
	img := tileset.ScaledTileImage(o.Cell.Tile, o.Size)
	if img == nil {
		return
	}

	inverse, ok := transform.Inverse()
	if !ok {
		return
	}

	screenBounds := tilemap.ObjectBounds(o, renderer, transform)
	unrotated := tilemap.ObjectBounds(o, renderer, geometry.Identity())
	imgBounds := img.Bounds()
	outBounds := output.Bounds()

	x1 := v.toCanvasX(screenBounds.X)
	y1 := v.toCanvasY(screenBounds.Y)
	x2 := v.toCanvasX(screenBounds.X + screenBounds.Width)
	y2 := v.toCanvasY(screenBounds.Y + screenBounds.Height)

	for y := y1; y <= y2; y++ {
		if y < outBounds.Min.Y || y >= outBounds.Max.Y {
			continue
		}
		for x := x1; x <= x2; x++ {
			if x < outBounds.Min.X || x >= outBounds.Max.X {
				continue
			}
			screenPos := geometry.Point2D{X: float64(x) / v.zoom, Y: float64(y) / v.zoom}
			local := inverse.Apply(screenPos)

			srcX := imgBounds.Min.X + int(local.X-unrotated.X)
			srcY := imgBounds.Min.Y + int(local.Y-unrotated.Y)
			if srcX < imgBounds.Min.X || srcX >= imgBounds.Max.X ||
				srcY < imgBounds.Min.Y || srcY >= imgBounds.Max.Y {
				continue
			}

			_, _, _, a := img.At(srcX, srcY).RGBA()
			if a > 0 {
				output.Set(x, y, img.At(srcX, srcY))
			}
		}
	}
}

// drawHandles renders the origin indicator, rotate handles and resize
// handles on top of everything else.
func (v *MapView) drawHandles(output *image.RGBA) {
	origin := v.tool.OriginIndicator()
	if origin.Visible() {
		v.drawOriginIndicator(output, origin.Pos())
	}

	for _, h := range v.tool.RotateHandles() {
		if h.Visible() {
			v.drawCircleHandle(output, h.Pos(), h.Hovered())
		}
	}
	for _, h := range v.tool.ResizeHandles() {
		if h.Visible() {
			v.drawSquareHandle(output, h.Pos(), h.Hovered())
		}
	}
}

func (v *MapView) drawOriginIndicator(output *image.RGBA, pos geometry.Point2D) {
	cx := v.toCanvasX(pos.X)
	cy := v.toCanvasY(pos.Y)
	arm := 8

	v.drawLine(output,
		geometry.Point2D{X: pos.X - float64(arm)/v.zoom, Y: pos.Y},
		geometry.Point2D{X: pos.X + float64(arm)/v.zoom, Y: pos.Y},
		originColor, 1)
	v.drawLine(output,
		geometry.Point2D{X: pos.X, Y: pos.Y - float64(arm)/v.zoom},
		geometry.Point2D{X: pos.X, Y: pos.Y + float64(arm)/v.zoom},
		originColor, 1)

	v.drawRing(output, cx, cy, 5, originColor)
}

func (v *MapView) drawSquareHandle(output *image.RGBA, pos geometry.Point2D, hovered bool) {
	cx := v.toCanvasX(pos.X)
	cy := v.toCanvasY(pos.Y)
	half := 4
	if hovered {
		half = 5
	}
	bounds := output.Bounds()

	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			onEdge := x == cx-half || x == cx+half || y == cy-half || y == cy+half
			if onEdge {
				output.Set(x, y, handleStroke)
			} else {
				output.Set(x, y, handleFill)
			}
		}
	}
}

func (v *MapView) drawCircleHandle(output *image.RGBA, pos geometry.Point2D, hovered bool) {
	cx := v.toCanvasX(pos.X)
	cy := v.toCanvasY(pos.Y)
	r := 5
	if hovered {
		r = 6
	}
	bounds := output.Bounds()
	r2 := r * r
	inner2 := (r - 1) * (r - 1)

	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			dx := x - cx
			dy := y - cy
			d2 := dx*dx + dy*dy
			if d2 > r2 {
				continue
			}
			if d2 >= inner2 {
				output.Set(x, y, handleStroke)
			} else {
				output.Set(x, y, handleFill)
			}
		}
	}
}

func (v *MapView) drawRing(output *image.RGBA, cx, cy, r int, col color.RGBA) {
	bounds := output.Bounds()
	r2 := r * r
	inner2 := (r - 1) * (r - 1)
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			dx := x - cx
			dy := y - cy
			d2 := dx*dx + dy*dy
			if d2 <= r2 && d2 >= inner2 {
				output.Set(x, y, col)
			}
		}
	}
}

// drawRubberBand draws the dashed selection rectangle, in screen coords.
func (v *MapView) drawRubberBand(output *image.RGBA, rect geometry.Rect) {
	x1 := v.toCanvasX(rect.X)
	y1 := v.toCanvasY(rect.Y)
	x2 := v.toCanvasX(rect.X + rect.Width)
	y2 := v.toCanvasY(rect.Y + rect.Height)
	bounds := output.Bounds()

	set := func(x, y int) {
		if (x+y)%4 < 2 && x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.Set(x, y, rubberBandColor)
		}
	}
	for x := x1; x <= x2; x++ {
		set(x, y1)
		set(x, y2)
	}
	for y := y1; y <= y2; y++ {
		set(x1, y)
		set(x2, y)
	}
}

// drawScreenPolygon strokes a polygon given in screen coords; closed joins
// the last point back to the first.
func (v *MapView) drawScreenPolygon(output *image.RGBA, points []geometry.Point2D, closed bool, col color.RGBA, thickness int) {
	if len(points) < 2 {
		return
	}
	for i := 0; i+1 < len(points); i++ {
		v.drawLine(output, points[i], points[i+1], col, thickness)
	}
	if closed {
		v.drawLine(output, points[len(points)-1], points[0], col, thickness)
	}
}

// pixelRectCorners maps a pixel-space rectangle's corners to transformed
// screen coordinates.
func (v *MapView) pixelRectCorners(r geometry.Rect, transform geometry.AffineTransform) []geometry.Point2D {
	renderer := v.doc.Renderer
	return []geometry.Point2D{
		transform.Apply(renderer.PixelToScreenCoords(r.TopLeft())),
		transform.Apply(renderer.PixelToScreenCoords(r.TopRight())),
		transform.Apply(renderer.PixelToScreenCoords(r.BottomRight())),
		transform.Apply(renderer.PixelToScreenCoords(r.BottomLeft())),
	}
}

func boundsCorners(r geometry.Rect, transform geometry.AffineTransform) []geometry.Point2D {
	return []geometry.Point2D{
		transform.Apply(r.TopLeft()),
		transform.Apply(r.TopRight()),
		transform.Apply(r.BottomRight()),
		transform.Apply(r.BottomLeft()),
	}
}

func (v *MapView) toCanvasX(x float64) int { return int(x * v.zoom) }
func (v *MapView) toCanvasY(y float64) int { return int(y * v.zoom) }

// drawLine draws a thick line between two screen-space points using
// Bresenham's algorithm.
func (v *MapView) drawLine(output *image.RGBA, a, b geometry.Point2D, col color.RGBA, thickness int) {
	x1, y1 := v.toCanvasX(a.X), v.toCanvasY(a.Y)
	x2, y2 := v.toCanvasX(b.X), v.toCanvasY(b.Y)
	bounds := output.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// 3x5 bitmap font for object name labels, digits and upper-case letters.
var glyphPatterns = map[rune][5]uint8{
	'0': {0b111, 0b101, 0b101, 0b101, 0b111},
	'1': {0b010, 0b110, 0b010, 0b010, 0b111},
	'2': {0b111, 0b001, 0b111, 0b100, 0b111},
	'3': {0b111, 0b001, 0b111, 0b001, 0b111},
	'4': {0b101, 0b101, 0b111, 0b001, 0b001},
	'5': {0b111, 0b100, 0b111, 0b001, 0b111},
	'6': {0b111, 0b100, 0b111, 0b101, 0b111},
	'7': {0b111, 0b001, 0b001, 0b001, 0b001},
	'8': {0b111, 0b101, 0b111, 0b101, 0b111},
	'9': {0b111, 0b101, 0b111, 0b001, 0b111},
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b111, 0b011},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b101, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

func glyphFor(ch rune) [5]uint8 {
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	return glyphPatterns[ch]
}

// drawLabel draws the text centered on the given canvas position.
func (v *MapView) drawLabel(output *image.RGBA, label string, centerX, centerY int, col color.RGBA) {
	scale := int(v.zoom)
	if scale < 1 {
		scale = 1
	}
	if scale > 4 {
		scale = 4
	}

	charWidth := 3 * scale
	charHeight := 5 * scale
	spacing := scale
	labelWidth := len(label)*charWidth + (len(label)-1)*spacing

	startX := centerX - labelWidth/2
	startY := centerY - charHeight/2
	bounds := output.Bounds()

	for i, ch := range label {
		pattern := glyphFor(ch)
		charX := startX + i*(charWidth+spacing)

		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := charX + c*scale + dx
						py := startY + row*scale + dy
						if px >= bounds.Min.X && px < bounds.Max.X &&
							py >= bounds.Min.Y && py < bounds.Max.Y {
							output.Set(px, py, col)
						}
					}
				}
			}
		}
	}
}
