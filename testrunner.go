package figura

import (
	"encoding/json"
	"fmt"

	"github.com/tanema/gween/ease"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	FromX    float64 `json:"fromX,omitempty"`
	FromY    float64 `json:"fromY,omitempty"`
	ToX      float64 `json:"toX,omitempty"`
	ToY      float64 `json:"toY,omitempty"`
	Frames   int     `json:"frames,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected touches, pulses and scenario changes across
// frames for automated interaction testing. Attach to a Figure via
// SetTestRunner.
//
// Actions: "click" (x, y), "drag" (fromX, fromY, toX, toY, frames),
// "wait" (frames), "pulse" (label = node path, duration), "scenario"
// (label = scenario name, duration; 0 applies it at once) and "stop".
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	err       error
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Figure via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the figure. The runner's step
// method is called from Figure.Advance before injected input is processed.
func (f *Figure) SetTestRunner(runner *TestRunner) {
	f.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Err returns the first error a step ran into, such as a path that does not
// resolve.
func (r *TestRunner) Err() error {
	return r.err
}

// step advances the test runner by one frame. Called from Figure.Advance.
func (r *TestRunner) step(f *Figure) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(f.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		f.InjectClick(st.X, st.Y)
	case "drag":
		f.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "pulse":
		n, ok := f.Get(st.Label)
		if !ok {
			r.fail(fmt.Errorf("pulse %q: %w", st.Label, ErrNotFound))
			break
		}
		o := PulseOptions{}
		if st.Duration > 0 {
			o.Duration = Ptr(st.Duration)
		}
		n.Pulse(o)
	case "scenario":
		if st.Duration > 0 {
			f.AnimateToScenarios(st.Label, st.Duration, ease.InOutQuad)
		} else {
			f.SetScenarios(st.Label)
		}
	case "stop":
		f.Stop(StopComplete)
	default:
		r.fail(fmt.Errorf("unknown action %q", st.Action))
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(f.injectQueue) == 0 {
		r.done = true
	}
}

func (r *TestRunner) fail(err error) {
	if r.err == nil {
		r.err = err
	}
	Logger().Warn("test script", "step", r.cursor-1, "err", err)
}
