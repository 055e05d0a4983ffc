package figura

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scenarioTween moves a node from its state at the start of the animation
// to a saved scenario. A single gween tween supplies the eased progress;
// every transform value and color channel is interpolated along it.
type scenarioTween struct {
	progress           *gween.Tween
	from, to           *Transform // nil when the transform is not animated
	fromColor, toColor Color
	color              bool
	show               *bool // applied at the end; showing happens at start
	done               Callback
}

// AnimateToScenario tweens n to the scenario saved under name over duration
// seconds along fn (nil is ease.Linear). Transforms of a different shape
// than the target jump at the start. done is called once with StopComplete
// when the tween ends, or with how when it is stopped. It reports false
// when n has no such scenario.
func (n *Node) AnimateToScenario(name string, duration float64, fn ease.TweenFunc, done ...Callback) bool {
	if _, ok := n.ScenarioTarget(name); !ok {
		return false
	}
	n.StopAnimating(StopCancel)
	a := n.newScenarioTween(name, duration, fn)
	if len(done) > 0 {
		a.done = done[0]
	}
	n.animation = a
	if duration <= 0 {
		n.StopAnimating(StopComplete)
	}
	return true
}

// newScenarioTween captures n's current state as the start of a tween to
// the scenario saved under name. Mismatched transforms and showing are
// applied immediately. It returns nil when n has no such scenario.
func (n *Node) newScenarioTween(name string, duration float64, fn ease.TweenFunc) *scenarioTween {
	s, ok := n.ScenarioTarget(name)
	if !ok {
		return nil
	}
	if fn == nil {
		fn = ease.Linear
	}
	a := &scenarioTween{progress: gween.New(0, 1, float32(duration), fn)}
	if t := n.scenarioTransform(s); t != nil {
		if t.IsEqualShapeTo(n.Transform) {
			a.from, a.to = n.Transform.Dup(), t
		} else {
			n.SetTransform(t)
		}
	}
	if s.Has(KeyColor) {
		a.color = true
		a.fromColor, a.toColor = n.Color, s.Color
	}
	if s.Has(KeyIsShown) {
		if s.IsShown {
			n.IsShown = true
		} else {
			a.show = Ptr(false)
		}
	}
	return a
}

// IsAnimating reports whether a scenario tween or an animation sequence
// is running.
func (n *Node) IsAnimating() bool {
	return n.animation != nil || len(n.animations) > 0
}

// stepAnimation advances the scenario tween by dt seconds.
func (n *Node) stepAnimation(dt float64) {
	a := n.animation
	if a == nil {
		return
	}
	p, finished := a.progress.Update(float32(dt))
	if finished {
		n.StopAnimating(StopComplete)
		return
	}
	a.apply(n, float64(p))
}

func (a *scenarioTween) apply(n *Node, p float64) {
	if a.from != nil {
		t, err := a.from.zip(a.to, "tween", func(x, y float64) float64 { return x + (y-x)*p })
		if err == nil {
			n.SetTransform(t)
		}
	}
	if a.color {
		n.Color = a.fromColor.Lerp(a.toColor, p)
	}
}

// StopAnimating ends the scenario tween. StopComplete jumps to the target;
// StopFreeze and StopCancel leave n where it is. The done callback is
// called once with how.
func (n *Node) StopAnimating(how StopHow) {
	a := n.animation
	if a == nil {
		return
	}
	n.animation = nil
	if how == StopComplete {
		a.complete(n)
	}
	a.done.Call(how)
}

// complete jumps n to the tween's target.
func (a *scenarioTween) complete(n *Node) {
	a.apply(n, 1)
	if a.show != nil {
		n.IsShown = *a.show
	}
}

// AnimateToScenarios tweens every node that has saved name. It returns the
// number of nodes animating.
func (f *Figure) AnimateToScenarios(name string, duration float64, fn ease.TweenFunc) int {
	count := 0
	f.Walk(func(n *Node) {
		if n.AnimateToScenario(name, duration, fn) {
			count++
		}
	})
	return count
}
