package figura

import (
	"math"
)

// minScaleDistance keeps scale drags from dividing by zero when the pointer
// starts on the node's center.
const minScaleDistance = 1e-6

// Event is delivered to handlers registered with Figure.On.
type Event struct {
	Type EventType
	// Node is the node the event concerns. It is nil for touches that hit
	// nothing.
	Node *Node
	// Pixel is the pointer position for touch events.
	Pixel Point
	// Time is the figure time of the event.
	Time float64
}

// --- Handler registry ---

type eventHandler struct {
	id uint32
	fn func(Event)
}

type handlerRegistry struct {
	byType map[EventType][]eventHandler
	nextID uint32
}

// CallbackHandle allows removing a registered figure-level handler.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this handler so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.byType[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			h.reg.byType[h.event] = s[:len(s)-1]
			return
		}
	}
}

// On registers fn for events of the given type.
func (f *Figure) On(event EventType, fn func(Event)) CallbackHandle {
	if f.handlers.byType == nil {
		f.handlers.byType = make(map[EventType][]eventHandler)
	}
	f.handlers.nextID++
	id := f.handlers.nextID
	f.handlers.byType[event] = append(f.handlers.byType[event], eventHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &f.handlers, event: event}
}

func (f *Figure) emit(e Event) {
	for _, h := range f.handlers.byType[e.Type] {
		h.fn(e)
	}
}

// publish emits a movement event for n.
func (f *Figure) publish(t EventType, n *Node) {
	if f == nil {
		return
	}
	f.emit(Event{Type: t, Node: n, Time: f.now})
}

// --- Touch ---

// touchState tracks the single pointer driving the figure.
type touchState struct {
	down  bool
	node  *Node // node being moved, or nil
	pixel Point // last pointer position
}

// IsTouched reports whether a pointer is down.
func (f *Figure) IsTouched() bool {
	return f.touch.down
}

// BeingMoved returns the node the pointer is moving, or nil.
func (f *Figure) BeingMoved() *Node {
	return f.touch.node
}

// TouchDown handles a pointer press at pixel (x, y). The top-most touched
// node is reported to EventTouchDown handlers; if it is movable it starts
// being moved.
func (f *Figure) TouchDown(x, y float64) error {
	p := Point{x, y, 0}
	f.touch = touchState{down: true, pixel: p}
	top, err := f.TopTouched(p, SpacePixel)
	if err != nil {
		return err
	}
	f.emit(Event{Type: EventTouchDown, Node: top, Pixel: p, Time: f.now})
	if top != nil && top.IsMovable {
		f.touch.node = top
		top.StartBeingMoved(f.now)
	}
	return nil
}

// TouchMove handles a pointer move to pixel (x, y) while the pointer is
// down. The node being moved follows the pointer according to its
// Move.Type.
func (f *Figure) TouchMove(x, y float64) error {
	if !f.touch.down {
		return nil
	}
	prev, cur := f.touch.pixel, Point{x, y, 0}
	f.touch.pixel = cur
	n := f.touch.node
	f.emit(Event{Type: EventTouchMove, Node: n, Pixel: cur, Time: f.now})
	if n == nil || n.disposed || !n.IsBeingMoved() {
		return nil
	}
	from, err := n.TransformPoint(prev, SpacePixel, SpaceLocal)
	if err != nil {
		return err
	}
	to, err := n.TransformPoint(cur, SpacePixel, SpaceLocal)
	if err != nil {
		return err
	}
	n.Moved(n.dragTransform(from, to), f.now)
	return nil
}

// TouchUp handles a pointer release. A node being moved is released with
// its drag velocity and starts moving freely.
func (f *Figure) TouchUp() {
	if !f.touch.down {
		return
	}
	n := f.touch.node
	f.emit(Event{Type: EventTouchUp, Node: n, Pixel: f.touch.pixel, Time: f.now})
	if n != nil && !n.disposed && n.IsBeingMoved() {
		n.StopBeingMoved(f.now)
		n.StartMovingFreely(f.now, Callback{})
	}
	f.touch = touchState{}
}

// dragTransform returns n's transform after the pointer moved from prev to
// cur, both in n's local space.
func (n *Node) dragTransform(prev, cur Point) *Transform {
	t := n.Transform.Dup()
	center := n.Position()
	switch n.Move.Type {
	case MoveTranslation:
		d := cur.Sub(prev)
		d.Z = 0
		t.UpdateTranslation(n.Position().Add(d))
	case MoveRotation:
		a0 := math.Atan2(prev.Y-center.Y, prev.X-center.X)
		a1 := math.Atan2(cur.Y-center.Y, cur.X-center.X)
		d := ClipAngle(a1-a0, ClipMinus180To180)
		_ = t.UpdateRotation(n.Rotation() + d)
	case MoveScale:
		p0 := math.Max(Point{prev.X - center.X, prev.Y - center.Y, 0}.Len(), minScaleDistance)
		p1 := Point{cur.X - center.X, cur.Y - center.Y, 0}.Len()
		s := n.Scale()
		_ = t.UpdateScale(Point{s.X * p1 / p0, s.Y * p1 / p0, s.Z})
	case MoveScaleX:
		p0 := math.Max(math.Abs(prev.X-center.X), minScaleDistance)
		s := n.Scale()
		s.X *= math.Abs(cur.X-center.X) / p0
		_ = t.UpdateScale(s)
	case MoveScaleY:
		p0 := math.Max(math.Abs(prev.Y-center.Y), minScaleDistance)
		s := n.Scale()
		s.Y *= math.Abs(cur.Y-center.Y) / p0
		_ = t.UpdateScale(s)
	}
	return t
}
