package figura

import (
	"math"
	"testing"
)

func advanceTo(t *testing.T, f *Figure, now float64) {
	t.Helper()
	if err := f.Advance(FrameContext{Now: now}); err != nil {
		t.Fatalf("Advance(%v): %v", now, err)
	}
}

func TestPulseAmplitudesSingle(t *testing.T) {
	a, b, c := pulseAmplitudes(1, 1, 2, 1)
	assertNear(t, "a", a[0], 1.5)
	assertNear(t, "b", b[0], 0.5)
	assertNear(t, "c", c[0], -math.Pi/2)
	assertNear(t, "start", Sinusoid(0, 1, a[0], b[0], c[0]), 1)
}

func TestPulseAmplitudesFlat(t *testing.T) {
	a, b, c := pulseAmplitudes(1, 1, 1, 1)
	if a[0] != 1 || b[0] != 0 || c[0] != 0 {
		t.Errorf("flat pulse = %v %v %v", a, b, c)
	}
}

func TestPulseAmplitudesSeveral(t *testing.T) {
	a, b, _ := pulseAmplitudes(1, 1, 2, 3)
	peaks := []float64{2, 1.5, 1}
	for i, want := range peaks {
		assertNear(t, "peak", a[i]+b[i], want)
		assertNear(t, "trough", a[i]-b[i], 1)
	}
	// peaks below the start swing downwards
	a, b, c := pulseAmplitudes(1, 0.5, 0.5, 2)
	assertNear(t, "low a", a[0], 0.75)
	assertNear(t, "low b", b[0], 0.25)
	assertNear(t, "low c", c[0], math.Pi/2)
}

func TestPulseLifecycle(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("n", Rectangle(1, 1))
	f.Add(n)

	var got []StopHow
	n.Pulse(PulseOptions{Done: Func(func(h StopHow) { got = append(got, h) })})
	if !n.IsPulsing() {
		t.Fatal("expected pulsing")
	}
	if len(n.PulseTransforms()) != 0 || !IsIdentity(n.DrawMatrix()) {
		t.Error("pulse should not show before the first frame")
	}

	advanceTo(t, f, 0)
	assertMat4(t, "t=0", n.DrawMatrix(), Identity())
	assertNear(t, "remaining", n.RemainingPulseTime(), 1)

	advanceTo(t, f, 0.5)
	assertPoint(t, "peak", TransformPoint(n.DrawMatrix(), Point{1, 1, 0}), Point{2, 2, 0})
	assertNear(t, "magnitude", n.PulseMagnitudes()[0], 2)
	if !IsIdentity(n.FigureMatrix()) {
		t.Error("FigureMatrix should ignore the pulse")
	}

	advanceTo(t, f, 1)
	if n.IsPulsing() {
		t.Error("pulse should stop after its duration")
	}
	if !IsIdentity(n.DrawMatrix()) {
		t.Errorf("DrawMatrix after pulse = %v", n.DrawMatrix())
	}
	advanceTo(t, f, 2)
	if len(got) != 1 || got[0] != StopComplete {
		t.Errorf("callbacks = %v, want [complete]", got)
	}
	if n.RemainingPulseTime() != 0 {
		t.Error("RemainingPulseTime should be 0 when stopped")
	}
}

func TestPulseStartsOnFirstFrameAfterCall(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("n", Rectangle(1, 1))
	f.Add(n)
	advanceTo(t, f, 10)
	n.Pulse(PulseOptions{})
	advanceTo(t, f, 10.25)
	// the pulse clock starts here, not at the figure's first frame
	assertNear(t, "magnitude", n.PulseMagnitudes()[0], 1)
	advanceTo(t, f, 10.5)
	assertNear(t, "magnitude", n.PulseMagnitudes()[0], 1.5)
}

func TestPulseCopies(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("n", Rectangle(1, 1))
	f.Add(n)
	n.Pulse(PulseOptions{Num: Ptr(3)})
	advanceTo(t, f, 0)
	advanceTo(t, f, 0.5)
	ms := n.DrawMatrices()
	if len(ms) != 3 {
		t.Fatalf("DrawMatrices len = %d, want 3", len(ms))
	}
	for i, want := range []float64{2, 1.5, 1} {
		assertNear(t, "copy scale", ms[i][0], want)
	}
	if len(n.LastDrawMatrices()) != 3 {
		t.Errorf("LastDrawMatrices len = %d", len(n.LastDrawMatrices()))
	}
}

func TestPulseCopiesMultiplyDownTheTree(t *testing.T) {
	f := newTestFigure()
	p := f.NewCollection("p")
	c := f.NewPrimitive("c", Rectangle(1, 1))
	f.Add(p)
	p.AddChild(c)
	p.Pulse(PulseOptions{Num: Ptr(2)})
	c.Pulse(PulseOptions{Num: Ptr(3)})
	advanceTo(t, f, 0)
	if got := len(c.DrawMatrices()); got != 6 {
		t.Errorf("child draw matrices = %d, want 6", got)
	}
}

func TestPulseRotationAboutCenter(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("n", Rectangle(1, 1))
	f.Add(n)
	n.Pulse(PulseOptions{Rotation: Ptr(math.Pi / 2), Center: &Point{1, 0, 0}})
	advanceTo(t, f, 0)
	advanceTo(t, f, 0.5)
	m := n.DrawMatrix()
	assertPoint(t, "center", TransformPoint(m, Point{1, 0, 0}), Point{1, 0, 0})
	assertPoint(t, "arm", TransformPoint(m, Point{2, 0, 0}), Point{1, 1, 0})
}

func TestPulseTranslationAlongAngle(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("n", Rectangle(1, 1))
	f.Add(n)
	n.Pulse(PulseOptions{Translation: Ptr(1.0), Angle: Ptr(math.Pi / 2)})
	advanceTo(t, f, 0)
	advanceTo(t, f, 0.5)
	assertPoint(t, "p", TransformPoint(n.DrawMatrix(), Point{}), Point{0, 1, 0})
}

func TestPulseWithoutDuration(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("n", Rectangle(1, 1))
	f.Add(n)
	n.Pulse(PulseOptions{Duration: Ptr(0.0)})
	advanceTo(t, f, 0)
	advanceTo(t, f, 100)
	if !n.IsPulsing() {
		t.Error("pulse without duration should run until stopped")
	}
	if !math.IsInf(n.RemainingPulseTime(), 1) {
		t.Errorf("remaining = %v, want +Inf", n.RemainingPulseTime())
	}
}

func TestPulseFreezeKeepsOverlay(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("n", Rectangle(1, 1))
	f.Add(n)
	n.Pulse(PulseOptions{})
	advanceTo(t, f, 0)
	advanceTo(t, f, 0.5)
	n.StopPulsing(StopFreeze)
	if len(n.FrozenPulseTransforms()) != 1 {
		t.Fatal("expected a frozen overlay")
	}
	assertNear(t, "frozen scale", n.DrawMatrix()[0], 2)

	n.Pulse(PulseOptions{})
	advanceTo(t, f, 0.75) // first frame of the new pulse: magnitude 1
	assertNear(t, "frozen under new pulse", n.DrawMatrix()[0], 2)

	n.StopPulsing(StopCancel)
	n.ClearFrozenPulseTransforms()
	if !IsIdentity(n.DrawMatrix()) {
		t.Error("clearing the frozen overlay should restore identity")
	}
}

func TestPulseLiveAndFrozenCrossProduct(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("n", Rectangle(1, 1))
	f.Add(n)
	n.Pulse(PulseOptions{Num: Ptr(2)})
	advanceTo(t, f, 0)
	advanceTo(t, f, 0.5)
	n.StopPulsing(StopFreeze)
	if len(n.FrozenPulseTransforms()) != 2 {
		t.Fatalf("frozen = %d, want 2", len(n.FrozenPulseTransforms()))
	}

	n.Pulse(PulseOptions{Num: Ptr(3)})
	advanceTo(t, f, 0.75)
	ms := n.DrawMatrices()
	if len(ms) != 6 {
		t.Fatalf("DrawMatrices len = %d, want 3 × 2", len(ms))
	}
	// Every live copy starts at scale 1, so the frozen pair repeats.
	for i, m := range ms {
		want := n.FrozenPulseTransforms()[i%2][0]
		assertNear(t, "scale", m[0], want)
	}
}

func TestPulseReplacedCancelsPrevious(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("n", Rectangle(1, 1))
	var got []StopHow
	n.Pulse(PulseOptions{Done: Func(func(h StopHow) { got = append(got, h) })})
	n.Pulse(PulseOptions{})
	if len(got) != 1 || got[0] != StopCancel {
		t.Errorf("callbacks = %v, want [cancel]", got)
	}
}

func TestPulseDefaultsMerged(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("n", Rectangle(1, 1))
	f.Add(n)
	n.PulseDefaults.Scale = 3
	n.PulseDefaults.Duration = 2
	n.Pulse(PulseOptions{})
	advanceTo(t, f, 0)
	advanceTo(t, f, 1) // half of a 2 s period
	assertNear(t, "peak", n.PulseMagnitudes()[0], 3)
}

func TestFreezePulseTransforms(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("n", Rectangle(1, 1))
	f.Add(n)
	n.Pulse(PulseOptions{})
	advanceTo(t, f, 0)
	advanceTo(t, f, 0.5)
	n.FreezePulseTransforms(false)
	if len(n.FrozenPulseTransforms()) != 1 || !n.IsPulsing() {
		t.Error("FreezePulseTransforms should copy without stopping")
	}
}

func TestProgressions(t *testing.T) {
	// all progressions share extremes and phase
	for name, p := range map[string]Progression{
		"sinusoid": Sinusoid,
		"triangle": Triangle,
		"linear":   Linear,
	} {
		assertNearDelta(t, name+" start", p(0, 1, 0, 1, 0), 0, 1e-6)
		assertNearDelta(t, name+" peak", p(0.25, 1, 0, 1, 0), 1, 1e-6)
		assertNearDelta(t, name+" trough", p(0.75, 1, 0, 1, 0), -1, 1e-6)
	}
	assertNearDelta(t, "abs", SinusoidAbs(0.75, 1, 0, 1, 0), 1, 1e-9)
}
