package viewport

import "math"

// Point represents a 2D point or vector in either data or screen space.
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

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Length returns the length of the vector.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// PointStatus classifies how a tracked sample was produced.
type PointStatus int

const (
	// StatusTracked marks a sample produced by the tracker.
	StatusTracked PointStatus = iota
	// StatusKeyframe marks a sample placed or confirmed by the user.
	StatusKeyframe
	// StatusInterpolated marks a sample filled in between keyframes.
	StatusInterpolated
)

// String returns the lowercase name of the status.
func (s PointStatus) String() string {
	switch s {
	case StatusTracked:
		return "tracked"
	case StatusKeyframe:
		return "keyframe"
	case StatusInterpolated:
		return "interpolated"
	default:
		return "unknown"
	}
}

// TrackPoint is a single tracked sample: a data-space position tied to a
// frame number.
type TrackPoint struct {
	Frame  int
	Point  Point
	Status PointStatus
}
