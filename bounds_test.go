package figura

import (
	"math"
	"testing"
)

func TestRangeBounds(t *testing.T) {
	b := NewRangeBounds(-1, 2)
	if !b.IsDefined() {
		t.Error("IsDefined = false")
	}
	if !b.Contains(2) || b.Contains(2.1) {
		t.Error("Contains wrong at the edge")
	}
	assertNear(t, "clip", b.Clip(5), 2)

	hit, dist, refl, ok := b.Intersect(0, 1)
	if !ok || hit != 2 || dist != 2 || refl != -1 {
		t.Errorf("Intersect = %v %v %v %v", hit, dist, refl, ok)
	}

	open := NewRangeBounds(math.Inf(-1), math.Inf(1))
	if open.IsDefined() {
		t.Error("open range should not be defined")
	}
	if _, _, _, ok := open.Intersect(0, 1); ok {
		t.Error("open range should never be hit")
	}
}

func TestRectBoundsIntersect(t *testing.T) {
	b := NewRectBounds(-1, -1, 2, 2)
	tests := []struct {
		name     string
		p, dir   Point
		hit      Point
		dist     float64
		reflects Point
	}{
		{"right wall", Point{0, 0, 0}, Point{1, 0, 0}, Point{1, 0, 0}, 1, Point{-1, 0, 0}},
		{"top wall", Point{0.5, 0, 0}, Point{0, 1, 0}, Point{0.5, 1, 0}, 1, Point{0, -1, 0}},
		{"corner", Point{0, 0, 0}, Point{math.Sqrt2 / 2, math.Sqrt2 / 2, 0}, Point{1, 1, 0}, math.Sqrt2, Point{-math.Sqrt2 / 2, -math.Sqrt2 / 2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, dist, refl, ok := b.Intersect(tt.p, tt.dir)
			if !ok {
				t.Fatal("no intersection")
			}
			assertPoint(t, "hit", hit, tt.hit)
			assertNear(t, "dist", dist, tt.dist)
			assertPoint(t, "reflection", refl, tt.reflects)
		})
	}
}

func TestRectBoundsClipAndOpenSides(t *testing.T) {
	b := &RectBounds{Left: 0, Bottom: math.Inf(-1), Right: math.Inf(1), Top: math.Inf(1)}
	if !b.IsDefined() || b.isFinite() {
		t.Error("half-open rect flags wrong")
	}
	assertPoint(t, "clip", b.Clip(Point{-3, -100, 5}), Point{0, -100, 0})
	if _, _, _, ok := b.Intersect(Point{1, 0, 0}, Point{1, 0, 0}); ok {
		t.Error("open side should never be hit")
	}
}

func TestLineBounds(t *testing.T) {
	b := NewLineBounds(Point{0, 0, 0}, Point{2, 0, 0})
	if !b.Contains(Point{1, 0, 0}) || b.Contains(Point{1, 0.1, 0}) || b.Contains(Point{3, 0, 0}) {
		t.Error("Contains wrong")
	}
	assertPoint(t, "clip", b.Clip(Point{3, 5, 0}), Point{2, 0, 0})
	assertPoint(t, "project", b.Project(Point{1, 1, 0}), Point{1, 0, 0})

	hit, dist, refl, ok := b.Intersect(Point{0.5, 0, 0}, Point{1, 0, 0})
	if !ok {
		t.Fatal("no intersection")
	}
	assertPoint(t, "hit", hit, Point{2, 0, 0})
	assertNear(t, "dist", dist, 1.5)
	assertPoint(t, "reflection", refl, Point{-1, 0, 0})

	b.Ends = 0
	if _, _, _, ok := b.Intersect(Point{}, Point{1, 0, 0}); ok {
		t.Error("infinite line should never be hit")
	}
	assertPoint(t, "infinite clip", b.Clip(Point{-5, 1, 0}), Point{-5, 0, 0})
}

// --- Deceleration ---

func testDecel() decel {
	return decel{deceleration: 1, zero: 1e-4, floor: 1e-7, precision: DefaultPrecision}
}

func TestDecelerateValueToRest(t *testing.T) {
	r := decelerateValue(0, 1, 0, true, nil, testDecel())
	assertNearDelta(t, "value", r.value, 0.5, 1e-3)
	assertNearDelta(t, "duration", r.duration, 1, 1e-3)
}

func TestDecelerateValueStep(t *testing.T) {
	r := decelerateValue(0, 1, 0.5, false, nil, testDecel())
	assertNear(t, "value", r.value, 0.375)
	assertNear(t, "velocity", r.velocity, 0.5)
}

func TestDecelerateValueBounce(t *testing.T) {
	p := testDecel()
	p.bounceLoss = 0.5
	p.deceleration = 0
	r := decelerateValue(0.9, 1, 0.2, false, NewRangeBounds(-1, 1), p)
	assertNearDelta(t, "value", r.value, 0.95, 1e-6)
	assertNearDelta(t, "velocity", r.velocity, -0.5, 1e-6)
}

func TestDecelerateValueNoDecelerationNeverRests(t *testing.T) {
	p := testDecel()
	p.deceleration = 0
	r := decelerateValue(0, 1, 0, true, nil, p)
	if !math.IsInf(r.duration, 1) {
		t.Errorf("duration = %v, want +Inf", r.duration)
	}
}

func TestDecelerateValueStopsAtFullLoss(t *testing.T) {
	p := testDecel()
	p.bounceLoss = 1
	r := decelerateValue(0, 10, 5, false, NewRangeBounds(-1, 1), p)
	assertNear(t, "value", r.value, 1)
	assertNear(t, "velocity", r.velocity, 0)
}

func TestDecelerateVectorBounce(t *testing.T) {
	p := testDecel()
	p.bounceLoss = 0.5
	p.deceleration = 0
	r := decelerateVector(Point{0.9, 0, 0}, Point{1, 0, 0}, 0.2, false, NewRectBounds(-1, -1, 2, 2), p)
	assertPoint(t, "position", r.position, Point{0.95, 0, 0})
	assertPoint(t, "velocity", r.velocity, Point{-0.5, 0, 0})
}

func TestDecelerateVectorAlongLine(t *testing.T) {
	r := decelerateVector(Point{}, Point{1, 1, 0}, 0, true, NewLineBounds(Point{-10, 0, 0}, Point{10, 0, 0}), testDecel())
	if r.position.Y != 0 {
		t.Errorf("position left the line: %v", r.position)
	}
	assertNearDelta(t, "x", r.position.X, 0.5, 1e-3)
}
