package figura

import "math"

// Point is a 3D point or vector. 2D geometry leaves Z at zero.
type Point struct {
	X, Y, Z float64
}

// Pt returns a point in the z=0 plane.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s, p.Z * s}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Cross returns the cross product p × q.
func (p Point) Cross(q Point) Point {
	return Point{
		p.Y*q.Z - p.Z*q.Y,
		p.Z*q.X - p.X*q.Z,
		p.X*q.Y - p.Y*q.X,
	}
}

// Len returns the magnitude of p.
func (p Point) Len() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Normalize returns p scaled to unit length. The zero vector is returned as is.
func (p Point) Normalize() Point {
	l := p.Len()
	if l == 0 {
		return p
	}
	return p.Scale(1 / l)
}

// Round rounds each component to the given number of decimal places.
func (p Point) Round(precision int) Point {
	return Point{roundTo(p.X, precision), roundTo(p.Y, precision), roundTo(p.Z, precision)}
}

// WithinDelta reports whether every component of p is within delta of q.
func (p Point) WithinDelta(q Point, delta float64) bool {
	return math.Abs(p.X-q.X) <= delta &&
		math.Abs(p.Y-q.Y) <= delta &&
		math.Abs(p.Z-q.Z) <= delta
}

// IsFinite reports whether no component is NaN or infinite.
func (p Point) IsFinite() bool {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sanitize clamps NaN and infinite components to ±MaxFinite so degenerate
// input cannot poison a whole subtree's matrices.
func Sanitize(p Point) Point {
	return Point{sanitize(p.X), sanitize(p.Y), sanitize(p.Z)}
}
