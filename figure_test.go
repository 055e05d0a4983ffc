package figura

import (
	"errors"
	"testing"
)

// --- Clock ---

func TestFigureClockFirstFrame(t *testing.T) {
	f := newTestFigure()
	advanceTo(t, f, 100)
	assertNear(t, "first frame", f.Now(), 0)
	advanceTo(t, f, 100.25)
	assertNear(t, "second frame", f.Now(), 0.25)
}

func TestFigureClockPause(t *testing.T) {
	f := newTestFigure()
	advanceTo(t, f, 0)
	advanceTo(t, f, 1)
	f.Pause()
	if !f.IsPaused() {
		t.Fatal("not paused")
	}
	advanceTo(t, f, 5)
	assertNear(t, "paused", f.Now(), 1)
	f.Unpause()
	advanceTo(t, f, 5.5)
	assertNear(t, "resumed", f.Now(), 1.5)
}

func TestFigureClockBackwardsIgnored(t *testing.T) {
	f := newTestFigure()
	advanceTo(t, f, 2)
	advanceTo(t, f, 1)
	assertNear(t, "backwards", f.Now(), 0)
	advanceTo(t, f, 1.5)
	assertNear(t, "forward", f.Now(), 0.5)
}

func TestFigureTimeScale(t *testing.T) {
	f := newTestFigure()
	advanceTo(t, f, 0)
	if err := f.Advance(FrameContext{Now: 1, TimeScale: 2}); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "frame scale", f.Now(), 2)

	f.SetTimeScale(0.5)
	advanceTo(t, f, 2)
	assertNear(t, "default scale", f.Now(), 2.5)
}

func TestNilFigureNow(t *testing.T) {
	var f *Figure
	if f.Now() != 0 {
		t.Error("nil figure should report time 0")
	}
}

// --- Animation state ---

func TestFigureIsAnimatingAndStop(t *testing.T) {
	f := newTestFigure()
	a := f.NewPrimitive("a", Rectangle(1, 1))
	b := f.NewPrimitive("b", Rectangle(1, 1))
	f.Add(a, b)
	advanceTo(t, f, 0)
	if f.IsAnimating() {
		t.Fatal("idle figure reports animating")
	}

	var hows []StopHow
	a.Pulse(PulseOptions{Done: Func(func(h StopHow) { hows = append(hows, h) })})
	_ = b.SetVelocity(NewTransform("").Scale(0, 0, 0).Rotate(0).Translate(1, 0, 0))
	b.StartMovingFreely(f.Now(), Func(func(h StopHow) { hows = append(hows, h) }))
	if !f.IsAnimating() {
		t.Fatal("expected animating")
	}

	f.Stop(StopComplete)
	if f.IsAnimating() {
		t.Error("still animating after Stop")
	}
	if len(hows) != 2 || hows[0] != StopComplete || hows[1] != StopComplete {
		t.Errorf("done calls = %v", hows)
	}
	if b.Position().X <= 0 {
		t.Errorf("complete should jump to rest, got %v", b.Position())
	}
}

func TestFigurePanCountsAsAnimating(t *testing.T) {
	f := newTestFigure()
	advanceTo(t, f, 0)
	f.Scene().PanTo(Point{1, 0, 0}, 1, 1, nil, Callback{})
	if !f.IsAnimating() {
		t.Fatal("pan not counted as animating")
	}
	f.Stop(StopCancel)
	if f.IsAnimating() {
		t.Error("pan not cancelled by Stop")
	}
}

// --- Lookup ---

func TestFigureNodeLookup(t *testing.T) {
	f := newTestFigure()
	a := f.NewPrimitive("a", Rectangle(1, 1))
	f.Add(a)
	if got, ok := f.Node(a.ID); !ok || got != a {
		t.Errorf("Node(%d) = %v, %v", a.ID, got, ok)
	}
	if f.Len() != 2 {
		t.Errorf("Len = %d, want 2 (root and a)", f.Len())
	}
	a.Dispose()
	if _, ok := f.Node(a.ID); ok {
		t.Error("disposed node still found")
	}
	if got := f.GetMany("a", "b"); len(got) != 0 {
		t.Errorf("GetMany = %v", got)
	}
}

func TestFigureThresholdsOption(t *testing.T) {
	th := DefaultThresholds()
	th.DragPauseThreshold = 1
	f := NewFigure(FigureOptions{Thresholds: &th})
	assertNear(t, "drag pause", f.Thresholds().DragPauseThreshold, 1)
	th.DragPauseThreshold = 2
	assertNear(t, "copied", f.Thresholds().DragPauseThreshold, 1)
}

// --- Advance ---

func TestAdvanceJoinsErrors(t *testing.T) {
	f := NewFigure(FigureOptions{Viewport: Viewport{Width: 100, Height: 100}})
	f.InjectPress(10, 10)
	err := f.Advance(FrameContext{Now: 0})
	if !errors.Is(err, ErrNoScene) {
		t.Errorf("err = %v, want ErrNoScene", err)
	}
}

func TestAdvanceUpdatesDrawMatrices(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("a", Rectangle(1, 1))
	f.Add(n)
	n.SetPosition(Point{0.5, 0, 0})
	advanceTo(t, f, 0)
	m := n.LastDrawMatrices()
	if len(m) != 1 {
		t.Fatalf("draw matrices = %d, want 1", len(m))
	}
	assertPoint(t, "origin", TransformPoint(m[0], Point{}), Point{0.5, 0, 0})
}
