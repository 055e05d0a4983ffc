package figura

import (
	"errors"
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "pulse", "label": "a.b", "duration": 0.5},
			{"action": "scenario", "label": "home", "duration": 1}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "click" || runner.steps[0].X != 100 || runner.steps[0].Y != 200 {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "wait" || runner.steps[1].Frames != 3 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Label != "a.b" || runner.steps[2].Duration != 0.5 {
		t.Error("step 2 mismatch")
	}
	if runner.steps[3].Action != "scenario" || runner.steps[3].Label != "home" {
		t.Error("step 3 mismatch")
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	_, err := LoadTestScript([]byte(`not json`))
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadTestScript_Empty(t *testing.T) {
	_, err := LoadTestScript([]byte(`{"steps": []}`))
	if err == nil {
		t.Error("expected error for empty steps")
	}
}

func mustRunner(t *testing.T, script string) *TestRunner {
	t.Helper()
	r, err := LoadTestScript([]byte(script))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRunnerStep_Click(t *testing.T) {
	f, n := newTouchFigure(t, MoveOptions{}, 0.2)
	var downs int
	f.On(EventTouchDown, func(e Event) {
		if e.Node == n {
			downs++
		}
	})
	runner := mustRunner(t, `{"steps": [{"action": "click", "x": 100, "y": 100}]}`)

	// First step call: click queues press+release.
	runner.step(f)
	if f.PendingInjections() != 2 {
		t.Fatalf("expected 2 queued events, got %d", f.PendingInjections())
	}
	if runner.Done() {
		t.Error("runner should not be done while inject queue has events")
	}

	// Drain injections.
	_ = f.processInjectedInput()
	_ = f.processInjectedInput()

	runner.step(f)
	if !runner.Done() {
		t.Error("runner should be done after all steps executed and queue drained")
	}
	if downs != 1 {
		t.Errorf("downs = %d, want 1", downs)
	}
}

func TestRunnerDragThroughAdvance(t *testing.T) {
	f, n := newTouchFigure(t, MoveOptions{}, 0.2)
	f.SetTestRunner(mustRunner(t, `{"steps": [
		{"action": "drag", "fromX": 100, "fromY": 100, "toX": 150, "toY": 100, "frames": 4},
		{"action": "stop"}
	]}`))

	now := 0.0
	for i := 0; i < 10; i++ {
		now += 0.1
		advanceTo(t, f, now)
	}
	if !f.testRunner.Done() {
		t.Fatal("runner not done")
	}
	if err := f.testRunner.Err(); err != nil {
		t.Fatal(err)
	}
	if n.MovementMode() != MovementIdle {
		t.Errorf("mode = %v, want idle after stop", n.MovementMode())
	}
	if p := n.Position(); p.X < 0.5 {
		t.Errorf("position = %v, want at least 0.5 along x", p)
	}
}

func TestRunnerWait(t *testing.T) {
	f := newTestFigure()
	runner := mustRunner(t, `{"steps": [{"action": "wait", "frames": 3}]}`)
	for i := range 3 {
		if runner.Done() {
			t.Fatalf("done after %d frames, want 3", i)
		}
		runner.step(f)
	}
	runner.step(f)
	if !runner.Done() {
		t.Error("runner should be done after waiting")
	}
}

func TestRunnerPulse(t *testing.T) {
	f, n := newTouchFigure(t, MoveOptions{}, 0.2)
	f.SetTestRunner(mustRunner(t, `{"steps": [{"action": "pulse", "label": "box", "duration": 0.5}]}`))
	advanceTo(t, f, 0.1)
	if !n.IsPulsing() {
		t.Fatal("box not pulsing")
	}
	assertNear(t, "remaining", n.RemainingPulseTime(), 0.5)
}

func TestRunnerScenario(t *testing.T) {
	f, n := newTouchFigure(t, MoveOptions{}, 0.2)
	n.SetPosition(Point{0.5, 0, 0})
	f.SaveScenarios("right")
	n.SetPosition(Point{})

	f.SetTestRunner(mustRunner(t, `{"steps": [{"action": "scenario", "label": "right"}]}`))
	advanceTo(t, f, 0.1)
	assertPoint(t, "position", n.Position(), Point{0.5, 0, 0})

	n.SetPosition(Point{})
	f.SetTestRunner(mustRunner(t, `{"steps": [{"action": "scenario", "label": "right", "duration": 1}]}`))
	advanceTo(t, f, 0.2)
	if !n.IsAnimating() {
		t.Fatal("expected scenario tween")
	}
	advanceTo(t, f, 1.5)
	assertPoint(t, "tweened", n.Position(), Point{0.5, 0, 0})
}

func TestRunnerErrors(t *testing.T) {
	f := newTestFigure()
	runner := mustRunner(t, `{"steps": [
		{"action": "pulse", "label": "missing"},
		{"action": "jump"}
	]}`)
	runner.step(f)
	if !errors.Is(runner.Err(), ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", runner.Err())
	}
	runner.step(f)
	if !errors.Is(runner.Err(), ErrNotFound) {
		t.Error("first error should be kept")
	}
	if !runner.Done() {
		t.Error("runner should finish despite errors")
	}
}
