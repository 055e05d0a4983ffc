package figura

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default node color.
var ColorWhite = Color{1, 1, 1, 1}

// WithinDelta reports whether every channel of c is within delta of o.
func (c Color) WithinDelta(o Color, delta float64) bool {
	return math.Abs(c.R-o.R) <= delta && math.Abs(c.G-o.G) <= delta &&
		math.Abs(c.B-o.B) <= delta && math.Abs(c.A-o.A) <= delta
}

// Lerp returns the color t of the way from c to o.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// Rect is an axis-aligned rectangle with its origin at the bottom-left and
// Y increasing upward, matching figure space.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Buffer returns r grown by b on every side.
func (r Rect) Buffer(b float64) Rect {
	return Rect{X: r.X - b, Y: r.Y - b, Width: r.Width + 2*b, Height: r.Height + 2*b}
}

// Polygon returns the rectangle's corners counter-clockwise from the
// bottom-left.
func (r Rect) Polygon() []Point {
	return []Point{
		{r.X, r.Y, 0},
		{r.X + r.Width, r.Y, 0},
		{r.X + r.Width, r.Y + r.Height, 0},
		{r.X, r.Y + r.Height, 0},
	}
}

// Space names a coordinate frame a point can be expressed in.
type Space uint8

const (
	SpaceDraw   Space = iota // a node's own vertex frame
	SpaceLocal               // draw space after the node's own transform
	SpaceFigure              // local space after every ancestor transform
	SpaceGL                  // figure space after the scene projection
	SpacePixel               // GL space scaled to the viewport, y down
)

// String returns the space name.
func (s Space) String() string {
	switch s {
	case SpaceDraw:
		return "draw"
	case SpaceLocal:
		return "local"
	case SpaceFigure:
		return "figure"
	case SpaceGL:
		return "gl"
	case SpacePixel:
		return "pixel"
	}
	return "unknown"
}

// MovementMode is the state of a node's movement state machine.
type MovementMode uint8

const (
	MovementIdle         MovementMode = iota // not moving
	MovementBeingMoved                       // following a pointer
	MovementMovingFreely                     // coasting after release
)

// String returns the mode name.
func (m MovementMode) String() string {
	switch m {
	case MovementIdle:
		return "idle"
	case MovementBeingMoved:
		return "beingMoved"
	case MovementMovingFreely:
		return "movingFreely"
	}
	return "unknown"
}

// EventType identifies a kind of figure-level interaction event.
type EventType uint8

const (
	EventTouchDown         EventType = iota // a pointer went down (on a node or not)
	EventTouchMove                          // a pointer moved while down
	EventTouchUp                            // a pointer was released
	EventStartBeingMoved                    // a node started following a pointer
	EventStopBeingMoved                     // a node stopped following a pointer
	EventStartMovingFreely                  // a node started coasting
	EventStopMovingFreely                   // a node came to rest or was stopped
)

// String returns the event name.
func (e EventType) String() string {
	switch e {
	case EventTouchDown:
		return "touchDown"
	case EventTouchMove:
		return "touchMove"
	case EventTouchUp:
		return "touchUp"
	case EventStartBeingMoved:
		return "startBeingMoved"
	case EventStopBeingMoved:
		return "stopBeingMoved"
	case EventStartMovingFreely:
		return "startMovingFreely"
	case EventStopMovingFreely:
		return "stopMovingFreely"
	}
	return "unknown"
}
