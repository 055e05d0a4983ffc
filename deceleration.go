package figura

import "math"

// maxBounces caps bounce recursion. With a deceleration at the floor and no
// bounce loss a value could otherwise ricochet for a very long time.
const maxBounces = 256

// decel holds the physical parameters of one deceleration step.
type decel struct {
	deceleration float64
	bounceLoss   float64
	zero         float64 // zero velocity threshold
	floor        float64 // minimum deceleration
	precision    int
}

func newDecel(c MoveConfig, th Thresholds) decel {
	return decel{
		deceleration: c.Deceleration,
		bounceLoss:   c.BounceLoss,
		zero:         c.ZeroVelocityThreshold,
		floor:        th.DecelerationFloor,
		precision:    th.Precision,
	}
}

// valueStop is the result of decelerating a scalar.
type valueStop struct {
	value    float64
	velocity float64
	duration float64 // +Inf when the value never comes to rest
}

// pointStop is the result of decelerating a vector.
type pointStop struct {
	position Point
	velocity Point
	duration float64
}

// travel returns the distance covered by speed v0 decelerating at d over dt
// and the time actually spent moving. Motion stops once the speed reaches
// the zero threshold; toRest ignores dt and runs until then.
func travel(v0, dt float64, toRest bool, d, zero float64) (float64, float64) {
	v0 = math.Abs(v0)
	stopTime := math.Abs((v0 - zero) / d)
	if toRest || dt > stopTime {
		dt = stopTime
	}
	return v0*dt - 0.5*d*dt*dt, dt
}

// timeToDistance returns how long speed v0 decelerating at d takes to cover
// distance s and the speed on arrival.
func timeToDistance(v0, s, d float64) (float64, float64) {
	v0 = math.Abs(v0)
	if s <= 0 {
		return 0, v0
	}
	// s = v0·t - d·t²/2, smaller root.
	disc := v0*v0 - 2*d*s
	if disc < 0 {
		disc = 0
	}
	t := (v0 - math.Sqrt(disc)) / d
	return t, v0 - d*t
}

// decelerateValue advances a scalar moving at velocity over dt, bouncing off
// bounds. With toRest set, dt is ignored and the result is the state when the
// velocity reaches zero.
func decelerateValue(value, velocity, dt float64, toRest bool, b *RangeBounds, p decel) valueStop {
	return decelerateValueN(value, velocity, dt, toRest, b, p, 0)
}

func decelerateValueN(value0, velocity, dt float64, toRest bool, b *RangeBounds, p decel, depth int) valueStop {
	bounded := b != nil && b.IsDefined()
	if toRest && roundTo(p.deceleration, p.precision) == 0 && (p.bounceLoss == 0 || !bounded) {
		return valueStop{value: value0, velocity: velocity, duration: math.Inf(1)}
	}
	if math.Abs(velocity) <= p.zero {
		return valueStop{value: value0, duration: 0}
	}

	value := value0
	if bounded {
		value = b.Clip(value0)
	}
	d := math.Max(p.deceleration, p.floor)
	dir := sign(velocity)
	dist, t := travel(velocity, dt, toRest, d, p.zero)
	next := value + dir*dist

	if !bounded || b.Contains(roundTo(next, p.precision)) {
		if toRest {
			return valueStop{value: next, duration: t}
		}
		v1 := math.Abs(velocity) - d*t
		if roundTo(v1, p.precision) <= roundTo(p.zero, p.precision) {
			v1 = 0
		}
		return valueStop{value: next, velocity: v1 * dir, duration: t}
	}

	hit, toBound, reflection, ok := b.Intersect(value, dir)
	if !ok {
		return valueStop{value: b.Clip(next), duration: t}
	}
	toBound = math.Min(toBound, dist)
	tHit, vHit := timeToDistance(velocity, toBound, d)
	if p.bounceLoss >= 1 || depth >= maxBounces {
		return valueStop{value: hit, duration: tHit}
	}

	bounce := vHit * (1 - p.bounceLoss) * reflection
	if toRest {
		rest := decelerateValueN(hit, bounce, 0, true, b, p, depth+1)
		return valueStop{value: rest.value, duration: tHit + rest.duration}
	}
	return decelerateValueN(hit, bounce, t-tHit, false, b, p, depth+1)
}

// decelerateVector advances a point moving at velocity over dt, bouncing off
// bounds. The velocity is first restricted to the degrees of freedom of the
// bounds.
func decelerateVector(position, velocity Point, dt float64, toRest bool, b PointBounds, p decel) pointStop {
	return decelerateVectorN(position, velocity, dt, toRest, b, p, 0)
}

func decelerateVectorN(position0, velocity Point, dt float64, toRest bool, b PointBounds, p decel, depth int) pointStop {
	bounded := b != nil && b.IsDefined()
	if toRest && roundTo(p.deceleration, p.precision) == 0 && (p.bounceLoss == 0 || !bounded) {
		return pointStop{position: position0, velocity: velocity, duration: math.Inf(1)}
	}
	if b != nil {
		velocity = b.Project(velocity)
	}
	mag := velocity.Len()
	if mag <= p.zero {
		return pointStop{position: position0, duration: 0}
	}
	dir := velocity.Scale(1 / mag)

	position := position0
	if b != nil {
		position = b.Clip(position0)
	}
	d := math.Max(p.deceleration, p.floor)
	dist, t := travel(mag, dt, toRest, d, p.zero)
	next := position.Add(dir.Scale(dist))

	if b == nil || b.Contains(next.Round(p.precision)) {
		if toRest {
			return pointStop{position: next, duration: t}
		}
		v1 := mag - d*t
		if roundTo(v1, p.precision) <= roundTo(p.zero, p.precision) {
			v1 = 0
		}
		return pointStop{position: next, velocity: dir.Scale(v1), duration: t}
	}

	hit, toBound, reflection, ok := b.Intersect(position, dir)
	if !ok {
		return pointStop{position: b.Clip(next), duration: t}
	}
	toBound = math.Min(toBound, dist)
	tHit, vHit := timeToDistance(mag, toBound, d)
	if p.bounceLoss >= 1 || depth >= maxBounces {
		return pointStop{position: hit, duration: tHit}
	}

	bounce := reflection.Scale(vHit * (1 - p.bounceLoss))
	if toRest {
		rest := decelerateVectorN(hit, bounce, 0, true, b, p, depth+1)
		return pointStop{position: rest.position, duration: tHit + rest.duration}
	}
	return decelerateVectorN(hit, bounce, t-tHit, false, b, p, depth+1)
}
