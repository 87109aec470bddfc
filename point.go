package xform

import "math"

// Point represents a 2D point or vector.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	d := p.Sub(q)
	return math.Hypot(d.X, d.Y)
}

// NDCToPixel converts a point in normalized device coordinates to device
// pixels of a width x height viewport. It is the inverse of Projection.
func NDCToPixel(p Point, width, height float64) Point {
	return Point{
		X: (p.X + 1) / 2 * width,
		Y: (1 - p.Y) / 2 * height,
	}
}
