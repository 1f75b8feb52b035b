package geometry

import (
	"gonum.org/v1/gonum/mat"
)

// TranslatePolygon returns a copy of the polygon moved by the given offset.
func TranslatePolygon(polygon []Point2D, offset Point2D) []Point2D {
	out := make([]Point2D, len(polygon))
	for i, p := range polygon {
		out[i] = p.Add(offset)
	}
	return out
}

// PolygonBounds returns the axis-aligned bounding box of the polygon.
func PolygonBounds(polygon []Point2D) Rect {
	return BoundingBox(polygon)
}

// TransformPolygon applies an affine transform to every vertex. The vertices
// are packed into a 3xN column matrix of homogeneous coordinates and mapped
// with a single matrix product.
func TransformPolygon(t AffineTransform, polygon []Point2D) []Point2D {
	n := len(polygon)
	if n == 0 {
		return nil
	}

	data := make([]float64, 3*n)
	for i, p := range polygon {
		data[i] = p.X
		data[n+i] = p.Y
		data[2*n+i] = 1
	}
	points := mat.NewDense(3, n, data)

	m := mat.NewDense(2, 3, []float64{
		t.A, t.B, t.TX,
		t.C, t.D, t.TY,
	})

	var mapped mat.Dense
	mapped.Mul(m, points)

	out := make([]Point2D, n)
	for i := range out {
		out[i] = Point2D{X: mapped.At(0, i), Y: mapped.At(1, i)}
	}
	return out
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}
