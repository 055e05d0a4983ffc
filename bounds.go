package figura

import "math"

// Bounds limits where a moving value may go. Implemented by *RangeBounds for
// scalar values and by *RectBounds and *LineBounds for points.
type Bounds interface {
	// IsDefined reports whether at least one limit is finite.
	IsDefined() bool
}

// PointBounds is the point flavour of Bounds used by vector deceleration.
type PointBounds interface {
	Bounds
	Contains(p Point) bool
	Clip(p Point) Point
	// Intersect casts a ray from p along the unit vector dir and returns the
	// first boundary hit, the distance to it and the reflected direction.
	// ok is false when the ray never leaves the bounds.
	Intersect(p, dir Point) (hit Point, distance float64, reflection Point, ok bool)
	// Project restricts a velocity to the degrees of freedom of the bounds.
	Project(v Point) Point
}

// --- RangeBounds ---

// RangeBounds limits a scalar to [Min, Max]. Use ±Inf for an open side.
type RangeBounds struct {
	Min, Max float64
}

// NewRangeBounds returns bounds on [lo, hi].
func NewRangeBounds(lo, hi float64) *RangeBounds {
	return &RangeBounds{Min: lo, Max: hi}
}

// IsDefined reports whether either limit is finite.
func (b *RangeBounds) IsDefined() bool {
	return !math.IsInf(b.Min, -1) || !math.IsInf(b.Max, 1)
}

// Contains reports whether v lies within the range.
func (b *RangeBounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Clip clamps v into the range.
func (b *RangeBounds) Clip(v float64) float64 {
	return clamp(v, b.Min, b.Max)
}

// Intersect returns the limit reached moving from v in the direction of dir's
// sign, the distance to it and the sign of the reflected direction.
func (b *RangeBounds) Intersect(v, dir float64) (hit, distance, reflection float64, ok bool) {
	switch {
	case dir > 0 && !math.IsInf(b.Max, 1):
		return b.Max, math.Abs(b.Max - v), -1, true
	case dir < 0 && !math.IsInf(b.Min, -1):
		return b.Min, math.Abs(v - b.Min), 1, true
	}
	return v, math.Inf(1), dir, false
}

// --- RectBounds ---

// RectBounds limits a point to an axis-aligned rectangle in the z=0 plane.
// Any side may be ±Inf.
type RectBounds struct {
	Left, Bottom, Right, Top float64
}

// NewRectBounds returns bounds covering the rectangle with the given corner
// and size.
func NewRectBounds(left, bottom, width, height float64) *RectBounds {
	return &RectBounds{Left: left, Bottom: bottom, Right: left + width, Top: bottom + height}
}

// IsDefined reports whether any side is finite.
func (b *RectBounds) IsDefined() bool {
	return !math.IsInf(b.Left, 0) || !math.IsInf(b.Right, 0) ||
		!math.IsInf(b.Bottom, 0) || !math.IsInf(b.Top, 0)
}

// isFinite reports whether all four sides are finite and the rectangle has
// area.
func (b *RectBounds) isFinite() bool {
	return !math.IsInf(b.Left, 0) && !math.IsInf(b.Right, 0) &&
		!math.IsInf(b.Bottom, 0) && !math.IsInf(b.Top, 0) &&
		b.Right > b.Left && b.Top > b.Bottom
}

// Contains reports whether p lies inside the rectangle, edges included.
func (b *RectBounds) Contains(p Point) bool {
	return p.X >= b.Left && p.X <= b.Right &&
		p.Y >= b.Bottom && p.Y <= b.Top
}

// Clip clamps p into the rectangle and onto the z=0 plane.
func (b *RectBounds) Clip(p Point) Point {
	return Point{clamp(p.X, b.Left, b.Right), clamp(p.Y, b.Bottom, b.Top), 0}
}

// Project drops the z component of v.
func (b *RectBounds) Project(v Point) Point {
	return Point{v.X, v.Y, 0}
}

// Intersect returns the first side hit moving from p along dir. Hitting a
// side mirrors the direction about that side's normal; hitting a corner
// reverses it.
func (b *RectBounds) Intersect(p, dir Point) (Point, float64, Point, bool) {
	tx := math.Inf(1)
	if dir.X > 0 && !math.IsInf(b.Right, 1) {
		tx = (b.Right - p.X) / dir.X
	} else if dir.X < 0 && !math.IsInf(b.Left, -1) {
		tx = (b.Left - p.X) / dir.X
	}
	ty := math.Inf(1)
	if dir.Y > 0 && !math.IsInf(b.Top, 1) {
		ty = (b.Top - p.Y) / dir.Y
	} else if dir.Y < 0 && !math.IsInf(b.Bottom, -1) {
		ty = (b.Bottom - p.Y) / dir.Y
	}
	if math.IsInf(tx, 1) && math.IsInf(ty, 1) {
		return p, math.Inf(1), dir, false
	}
	tx = math.Max(tx, 0)
	ty = math.Max(ty, 0)

	var t float64
	var reflection Point
	switch {
	case math.Abs(tx-ty) < 1e-10:
		t = tx
		reflection = Point{-dir.X, -dir.Y, 0}
	case tx < ty:
		t = tx
		reflection = Point{-dir.X, dir.Y, 0}
	default:
		t = ty
		reflection = Point{dir.X, -dir.Y, 0}
	}
	hit := Point{p.X + dir.X*t, p.Y + dir.Y*t, 0}
	return b.Clip(hit), t, reflection, true
}

// --- LineBounds ---

// LineBounds limits a point to the line through P1 and P2. Ends selects
// which ends are closed: 0 is an infinite line, 1 a ray starting at P1 and
// 2 the segment P1-P2.
type LineBounds struct {
	P1, P2 Point
	Ends   int
}

// lineTolerance absorbs rounding in LineBounds containment.
const lineTolerance = 1e-9

// NewLineBounds returns segment bounds from p1 to p2.
func NewLineBounds(p1, p2 Point) *LineBounds {
	return &LineBounds{P1: p1, P2: p2, Ends: 2}
}

// IsDefined always reports true: a line constrains two of three axes.
func (b *LineBounds) IsDefined() bool {
	return true
}

func (b *LineBounds) unit() (Point, float64) {
	d := b.P2.Sub(b.P1)
	l := d.Len()
	if l == 0 {
		return Point{1, 0, 0}, 0
	}
	return d.Scale(1 / l), l
}

// param returns the signed distance of p's projection along the line from P1.
func (b *LineBounds) param(p Point) float64 {
	u, _ := b.unit()
	return p.Sub(b.P1).Dot(u)
}

func (b *LineBounds) clampParam(s float64) float64 {
	_, l := b.unit()
	if b.Ends >= 1 && s < 0 {
		s = 0
	}
	if b.Ends >= 2 && s > l {
		s = l
	}
	return s
}

// Contains reports whether p lies on the line within its closed ends.
func (b *LineBounds) Contains(p Point) bool {
	u, _ := b.unit()
	s := b.param(p)
	onLine := b.P1.Add(u.Scale(s))
	if onLine.Sub(p).Len() > lineTolerance {
		return false
	}
	cs := b.clampParam(s)
	return math.Abs(cs-s) <= lineTolerance
}

// Clip projects p onto the line and clamps it between the closed ends.
func (b *LineBounds) Clip(p Point) Point {
	u, _ := b.unit()
	return b.P1.Add(u.Scale(b.clampParam(b.param(p))))
}

// Project returns the component of v along the line.
func (b *LineBounds) Project(v Point) Point {
	u, _ := b.unit()
	return u.Scale(v.Dot(u))
}

// Intersect returns the closed end reached moving from p along dir.
// Reflection off an end reverses the direction.
func (b *LineBounds) Intersect(p, dir Point) (Point, float64, Point, bool) {
	u, l := b.unit()
	d := dir.Dot(u)
	s := b.param(p)
	switch {
	case d > 0 && b.Ends >= 2:
		return b.P2, math.Max(l-s, 0), dir.Scale(-1), true
	case d < 0 && b.Ends >= 1:
		return b.P1, math.Max(s, 0), dir.Scale(-1), true
	}
	return p, math.Inf(1), dir, false
}
