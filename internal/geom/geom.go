// Package geom holds the single 2D point type shared by every stage of
// the pipeline, from contour tracing through curve fitting.
package geom

import "math"

// Point is the one coordinate container used across the core. No stage
// interchanges {x,y} maps, [x,y] pairs, or image.Point; everything is a
// Point.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Lerp returns the point t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistSq returns the squared Euclidean distance between p and q.
func (p Point) DistSq(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Area returns the rectangle's area.
func (r Rect) Area() float64 {
	if r.MaxX <= r.MinX || r.MaxY <= r.MinY {
		return 0
	}
	return (r.MaxX - r.MinX) * (r.MaxY - r.MinY)
}

// BBox computes the bounding box of a point slice.
func BBox(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{MinX: pts[0].X, MaxX: pts[0].X, MinY: pts[0].Y, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		r.MinX = min(r.MinX, p.X)
		r.MaxX = max(r.MaxX, p.X)
		r.MinY = min(r.MinY, p.Y)
		r.MaxY = max(r.MaxY, p.Y)
	}
	return r
}

// ShoelaceArea computes the signed area of a closed polyline via the
// Shoelace formula. Positive means counter-clockwise winding (outer
// contour by this package's convention); negative means a hole.
func ShoelaceArea(pts []Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}

// Perimeter returns the total edge length of a closed polyline.
func Perimeter(pts []Point) float64 {
	n := len(pts)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += pts[i].Dist(pts[j])
	}
	return total
}

// PerpDist returns the perpendicular distance from p to the line
// through a and b.
func PerpDist(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l < 1e-12 {
		return p.Dist(a)
	}
	return math.Abs((p.X-a.X)*dy-(p.Y-a.Y)*dx) / l
}

// Closed reports whether the first and last points of pts coincide.
func Closed(pts []Point) bool {
	if len(pts) < 2 {
		return false
	}
	return pts[0] == pts[len(pts)-1]
}
