package figura

import (
	"math"
)

// movementState tracks dragging and free movement for one node.
type movementState struct {
	mode          MovementMode
	velocity      *Transform
	prevTime      float64
	hasPrevTime   bool
	prevTransform *Transform // clipped transform at prevTime
	done          Callback
}

// --- Queries ---

// MovementMode returns whether n is idle, being dragged or moving freely.
func (n *Node) MovementMode() MovementMode {
	return n.move.mode
}

// IsBeingMoved reports whether n is being dragged.
func (n *Node) IsBeingMoved() bool {
	return n.move.mode == MovementBeingMoved
}

// IsMovingFreely reports whether n is coasting after a release.
func (n *Node) IsMovingFreely() bool {
	return n.move.mode == MovementMovingFreely
}

// Velocity returns a copy of n's current velocity, shaped like its
// transform. It is zero while idle.
func (n *Node) Velocity() *Transform {
	if n.move.velocity == nil || !n.move.velocity.IsEqualShapeTo(n.Transform) {
		return n.Transform.Zero()
	}
	return n.move.velocity.Dup()
}

// SetVelocity sets the velocity used by the next StartMovingFreely. It must
// have the same shape as the node's transform.
func (n *Node) SetVelocity(v *Transform) error {
	if !v.IsEqualShapeTo(n.Transform) {
		return ErrShapeMismatch
	}
	n.move.velocity = v.Dup()
	return nil
}

// --- Being moved ---

// StartBeingMoved begins a drag at time now. Any scenario tween or
// animation is frozen, free movement is stopped with StopFreeze and the velocity is
// reset.
func (n *Node) StartBeingMoved(now float64) {
	n.StopAnimating(StopFreeze)
	n.StopAnimations(StopFreeze)
	n.StopMovingFreely(StopFreeze)
	n.move.velocity = n.Transform.Zero()
	n.move.prevTransform = n.Transform.Dup()
	n.move.prevTime = now
	n.move.hasPrevTime = true
	n.move.mode = MovementBeingMoved
	Logger().Debug("start being moved", "node", n.Name)
	n.fig.publish(EventStartBeingMoved, n)
}

// Moved sets n's transform to t (clipped to the move bounds) and updates
// the drag velocity from the change since the previous sample.
//
// Inside finite rectangular bounds the velocity is computed from the
// unclipped transform, so releasing a node pushed against a wall throws it
// in the direction of the drag rather than along the wall.
//
// Samples closer than MinVelocitySampleDt are skipped; the next sample
// measures from the last one taken.
func (n *Node) Moved(t *Transform, now float64) {
	prev := n.move.prevTransform
	if prev == nil || !prev.IsEqualShapeTo(n.Transform) {
		prev = n.Transform.Dup()
	}
	n.SetTransform(t)
	next := n.Transform
	if rb, ok := n.Move.Bounds.(*RectBounds); ok && rb != nil && rb.isFinite() {
		next = t
	}
	n.calcVelocity(prev, next, now)
}

// MovedToPosition drags n so that its first translation is p.
func (n *Node) MovedToPosition(p Point, now float64) {
	t := n.Transform.Dup()
	t.UpdateTranslation(p)
	n.Moved(t, now)
}

// MovedToRotation drags n so that its first rotation is angle. It is a
// no-op when the transform has no rotation.
func (n *Node) MovedToRotation(angle float64, now float64) {
	t := n.Transform.Dup()
	if t.UpdateRotation(angle) == nil {
		n.Moved(t, now)
	}
}

// MovedToScale drags n so that its first scale is s. It is a no-op when the
// transform has no scale.
func (n *Node) MovedToScale(s Point, now float64) {
	t := n.Transform.Dup()
	if t.UpdateScale(s) == nil {
		n.Moved(t, now)
	}
}

func (n *Node) calcVelocity(prev, next *Transform, now float64) {
	th := n.thresholds()
	if !n.move.hasPrevTime {
		n.move.prevTime = now
		n.move.hasPrevTime = true
		n.move.prevTransform = n.Transform.Dup()
		return
	}
	dt := now - n.move.prevTime
	if dt < th.MinVelocitySampleDt {
		return
	}
	v, err := next.Velocity(prev, dt, n.Move.ZeroVelocityThreshold, n.Move.MaxVelocity)
	if err != nil {
		if globalDebug {
			debugLog("velocity of %q: %v", n.Name, err)
		}
		v = next.Zero()
	}
	n.move.velocity = v
	n.move.prevTime = now
	n.move.prevTransform = n.Transform.Dup()
}

// StopBeingMoved ends a drag at time now. If the last sample is older than
// the drag pause threshold the velocity is discarded: the pointer was held
// still before release.
func (n *Node) StopBeingMoved(now float64) {
	if n.move.mode != MovementBeingMoved {
		return
	}
	if n.move.hasPrevTime && now-n.move.prevTime > n.thresholds().DragPauseThreshold {
		n.move.velocity = n.Transform.Zero()
	}
	n.move.mode = MovementIdle
	n.move.hasPrevTime = false
	Logger().Debug("stop being moved", "node", n.Name, "velocity", n.Velocity().String())
	n.fig.publish(EventStopBeingMoved, n)
}

// --- Moving freely ---

// StartMovingFreely releases n at time now with its current velocity
// clipped to the move limits. done is called once when free movement ends.
func (n *Node) StartMovingFreely(now float64, done Callback) {
	n.StopAnimating(StopFreeze)
	n.StopAnimations(StopFreeze)
	n.StopBeingMoved(now)
	if !done.IsZero() {
		n.move.done = done
	}
	n.move.velocity = n.Velocity().ClipMag(n.Move.ZeroVelocityThreshold, n.Move.MaxVelocity)
	n.move.prevTime = now
	n.move.hasPrevTime = true
	n.move.mode = MovementMovingFreely
	Logger().Debug("start moving freely", "node", n.Name, "velocity", n.move.velocity.String())
	n.fig.publish(EventStartMovingFreely, n)
}

// nextMovingFreelyFrame decelerates n from the previous frame to now and
// stops it with StopComplete once the velocity reaches zero.
func (n *Node) nextMovingFreelyFrame(now float64) {
	if n.move.mode != MovementMovingFreely {
		return
	}
	if !n.move.hasPrevTime {
		n.move.prevTime = now
		n.move.hasPrevTime = true
		return
	}
	dt := now - n.move.prevTime
	n.move.prevTime = now
	next, velocity, _ := n.decelerate(dt, false)
	n.move.velocity = velocity
	n.SetTransform(next)
	if isStill(velocity) {
		n.move.velocity = velocity.Zero()
		n.StopMovingFreely(StopComplete)
	}
}

// StopMovingFreely ends free movement. StopComplete jumps to where the node
// would have come to rest; StopFreeze and StopCancel leave it where it is.
// The done callback is called once with how.
func (n *Node) StopMovingFreely(how StopHow) {
	wasMoving := n.move.mode == MovementMovingFreely
	if how == StopComplete && wasMoving {
		end, _ := n.MovingFreelyEnd()
		n.SetTransform(end)
	}
	if wasMoving {
		n.move.mode = MovementIdle
		n.move.velocity = n.Transform.Zero()
	}
	n.move.hasPrevTime = false
	done := n.move.done
	n.move.done = Callback{}
	done.Call(how)
	if wasMoving {
		Logger().Debug("stop moving freely", "node", n.Name, "how", how.String())
		n.fig.publish(EventStopMovingFreely, n)
	}
}

// MovingFreelyEnd returns the transform n would come to rest at and the
// time it would take. The duration is +Inf when the node never stops.
func (n *Node) MovingFreelyEnd() (*Transform, float64) {
	end, _, d := n.decelerate(0, true)
	return end, d
}

// RemainingMovingFreelyTime returns how long n will keep coasting, or 0
// when it is not moving freely.
func (n *Node) RemainingMovingFreelyTime() float64 {
	if n.move.mode != MovementMovingFreely {
		return 0
	}
	_, d := n.MovingFreelyEnd()
	return d
}

// --- Deceleration ---

// decelerate advances the node's transform by dt using its velocity. Only
// the component selected by Move.Type sees the move bounds; every other
// component decelerates unbounded. Matrix components never move.
func (n *Node) decelerate(dt float64, toRest bool) (next, velocity *Transform, duration float64) {
	p := newDecel(n.Move, n.thresholds())
	t := n.Transform
	v := n.Velocity()
	next = t.Dup()
	velocity = v.Zero()

	boundIdx := -1
	switch n.Move.Type {
	case MoveTranslation:
		boundIdx, _ = t.ComponentIndex(ComponentTranslate, 0)
	case MoveRotation:
		boundIdx, _ = t.ComponentIndex(ComponentRotate, 0)
	default:
		boundIdx, _ = t.ComponentIndex(ComponentScale, 0)
	}

	value := func(x, vx float64, b *RangeBounds) (float64, float64) {
		r := decelerateValue(x, vx, dt, toRest, b, p)
		duration = math.Max(duration, r.duration)
		return r.value, r.velocity
	}

	for i, c := range t.components {
		vc := v.components[i]
		nc, nv := c, vc.mapValues(func(float64) float64 { return 0 })
		bounded := i == boundIdx
		switch c.Kind {
		case ComponentTranslate:
			var b PointBounds
			if bounded {
				b = n.pointBounds()
			}
			r := decelerateVector(c.Value, vc.Value, dt, toRest, b, p)
			duration = math.Max(duration, r.duration)
			nc.Value, nv.Value = r.position, r.velocity
		case ComponentRotate:
			var b *RangeBounds
			if bounded {
				b = n.rangeBounds()
			}
			switch c.Rotation {
			case RotateZ:
				nc.Angle, nv.Angle = value(c.Angle, vc.Angle, b)
			case RotateXYZ:
				nc.Value.X, nv.Value.X = value(c.Value.X, vc.Value.X, nil)
				nc.Value.Y, nv.Value.Y = value(c.Value.Y, vc.Value.Y, nil)
				nc.Value.Z, nv.Value.Z = value(c.Value.Z, vc.Value.Z, b)
			case RotateAxis:
				nc.Angle, nv.Angle = value(c.Angle, vc.Angle, b)
			}
		case ComponentScale:
			var bx, by, bz *RangeBounds
			if bounded {
				rb := n.rangeBounds()
				switch n.Move.Type {
				case MoveScaleX:
					bx = rb
				case MoveScaleY:
					by = rb
				default:
					bx, by, bz = rb, rb, rb
				}
			}
			nc.Value.X, nv.Value.X = value(c.Value.X, vc.Value.X, bx)
			nc.Value.Y, nv.Value.Y = value(c.Value.Y, vc.Value.Y, by)
			nc.Value.Z, nv.Value.Z = value(c.Value.Z, vc.Value.Z, bz)
		}
		next.components[i] = nc
		velocity.components[i] = nv
	}
	next.valid = false
	velocity.valid = false
	return next, velocity, duration
}

// pointBounds returns the move bounds as point bounds, or nil.
func (n *Node) pointBounds() PointBounds {
	switch b := n.Move.Bounds.(type) {
	case *RectBounds:
		if b != nil {
			return b
		}
	case *LineBounds:
		if b != nil {
			return b
		}
	}
	return nil
}

// rangeBounds returns the move bounds as range bounds, or nil.
func (n *Node) rangeBounds() *RangeBounds {
	if b, ok := n.Move.Bounds.(*RangeBounds); ok {
		return b
	}
	return nil
}

// clipToBounds clips the component selected by Move.Type into the move
// bounds in place.
func (n *Node) clipToBounds(t *Transform) {
	if n.Move.Bounds == nil {
		return
	}
	switch n.Move.Type {
	case MoveTranslation:
		b := n.pointBounds()
		if b == nil {
			return
		}
		if p, ok := t.T(); ok {
			t.UpdateTranslation(b.Clip(p))
		}
	case MoveRotation:
		b := n.rangeBounds()
		if b == nil {
			return
		}
		if r, ok := t.R(); ok {
			_ = t.UpdateRotation(b.Clip(r))
		}
	default:
		b := n.rangeBounds()
		if b == nil {
			return
		}
		s, ok := t.S()
		if !ok {
			return
		}
		switch n.Move.Type {
		case MoveScaleX:
			s.X = b.Clip(s.X)
		case MoveScaleY:
			s.Y = b.Clip(s.Y)
		default:
			s = Point{b.Clip(s.X), b.Clip(s.Y), b.Clip(s.Z)}
		}
		_ = t.UpdateScale(s)
	}
}

// isStill reports whether every translation, rotation and scale rate of v
// is exactly zero.
func isStill(v *Transform) bool {
	for _, c := range v.components {
		if c.Kind == ComponentMatrix {
			continue
		}
		if c.Value != (Point{}) || c.Angle != 0 {
			return false
		}
	}
	return true
}
