package figura

import (
	"slices"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Step is one part of an animation sequence. Steps are built with Delay,
// Trigger, OpacityTo, DissolveIn, DissolveOut, ColorTo, TransformTo,
// ToScenario, Custom, Serial and Parallel, and run by an Animation.
//
// A step finishes once. Its done callback, set with OnDone, is called
// synchronously with StopComplete when it runs to the end, or with how
// when the animation is stopped first.
type Step interface {
	base() *stepBase
	begin(n *Node)
	// update advances the step by dt and returns the time left over once it
	// has finished, or -1 while it is still running.
	update(n *Node, dt float64) float64
	// end finishes the step early. StopComplete jumps to its end state.
	end(n *Node, how StopHow)
}

type stepBase struct {
	done     Callback
	begun    bool
	finished bool
}

func (b *stepBase) base() *stepBase { return b }

func (b *stepBase) finish(how StopHow) {
	if b.finished {
		return
	}
	b.finished = true
	b.done.Call(how)
}

// OnDone sets the callback s calls when it finishes and returns s.
func OnDone(s Step, done Callback) Step {
	s.base().done = done
	return s
}

// --- Tweened steps ---

// tweenStep drives apply with eased progress from 0 to 1 over duration.
type tweenStep struct {
	stepBase
	duration float64
	fn       ease.TweenFunc
	progress *gween.Tween
	onBegin  func(n *Node)
	apply    func(n *Node, p float64)
	complete func(n *Node) // defaults to apply(n, 1)
}

func newTweenStep(duration float64, fn ease.TweenFunc) *tweenStep {
	if fn == nil {
		fn = ease.Linear
	}
	return &tweenStep{duration: max(duration, 0), fn: fn}
}

func (s *tweenStep) begin(n *Node) {
	s.begun = true
	s.progress = gween.New(0, 1, float32(s.duration), s.fn)
	if s.onBegin != nil {
		s.onBegin(n)
	}
}

func (s *tweenStep) update(n *Node, dt float64) float64 {
	if s.finished {
		return 0
	}
	p, finished := s.progress.Update(float32(dt))
	if !finished {
		if s.apply != nil {
			s.apply(n, float64(p))
		}
		return -1
	}
	s.completeOn(n)
	s.finish(StopComplete)
	return max(float64(s.progress.Overflow), 0)
}

func (s *tweenStep) completeOn(n *Node) {
	switch {
	case s.complete != nil:
		s.complete(n)
	case s.apply != nil:
		s.apply(n, 1)
	}
}

func (s *tweenStep) end(n *Node, how StopHow) {
	if s.finished {
		return
	}
	if how == StopComplete {
		if !s.begun {
			s.begin(n)
		}
		s.completeOn(n)
	}
	s.finish(how)
}

// Delay waits for duration seconds.
func Delay(duration float64) Step {
	return newTweenStep(duration, nil)
}

// Custom calls fn with the eased progress in [0, 1] every frame for
// duration seconds. fn is called with 1 when the step completes.
func Custom(duration float64, easing ease.TweenFunc, fn func(n *Node, p float64)) Step {
	s := newTweenStep(duration, easing)
	s.apply = fn
	return s
}

// OpacityTo tweens the node's opacity from its value when the step begins
// to target.
func OpacityTo(target, duration float64, fn ease.TweenFunc) Step {
	s := newTweenStep(duration, fn)
	var from float64
	s.onBegin = func(n *Node) { from = n.Opacity }
	s.apply = func(n *Node, p float64) { n.Opacity = from + (target-from)*p }
	return s
}

// DissolveIn shows the node and fades it from transparent to opaque.
func DissolveIn(duration float64, fn ease.TweenFunc) Step {
	s := newTweenStep(duration, fn)
	s.onBegin = func(n *Node) {
		n.IsShown = true
		n.Opacity = 0
	}
	s.apply = func(n *Node, p float64) { n.Opacity = p }
	return s
}

// DissolveOut fades the node to transparent, then hides it and restores
// its opacity.
func DissolveOut(duration float64, fn ease.TweenFunc) Step {
	s := newTweenStep(duration, fn)
	var from float64
	s.onBegin = func(n *Node) { from = n.Opacity }
	s.apply = func(n *Node, p float64) { n.Opacity = from * (1 - p) }
	s.complete = func(n *Node) {
		n.IsShown = false
		n.Opacity = from
	}
	return s
}

// ColorTo tweens the node's color to target.
func ColorTo(target Color, duration float64, fn ease.TweenFunc) Step {
	s := newTweenStep(duration, fn)
	var from Color
	s.onBegin = func(n *Node) { from = n.Color }
	s.apply = func(n *Node, p float64) { n.Color = from.Lerp(target, p) }
	return s
}

// TransformTo tweens the node's transform to target. A target of a
// different shape is applied when the step begins.
func TransformTo(target *Transform, duration float64, fn ease.TweenFunc) Step {
	s := newTweenStep(duration, fn)
	to := target.Dup()
	var from *Transform
	s.onBegin = func(n *Node) {
		if to.IsEqualShapeTo(n.Transform) {
			from = n.Transform.Dup()
			return
		}
		from = nil
		n.SetTransform(to)
	}
	s.apply = func(n *Node, p float64) {
		if from == nil {
			return
		}
		if t, err := from.zip(to, "tween", func(x, y float64) float64 { return x + (y-x)*p }); err == nil {
			n.SetTransform(t)
		}
	}
	return s
}

// ToScenario tweens the node to the scenario saved under name. A missing
// scenario finishes the step without changing the node.
func ToScenario(name string, duration float64, fn ease.TweenFunc) Step {
	s := newTweenStep(duration, fn)
	var tw *scenarioTween
	s.onBegin = func(n *Node) {
		tw = n.newScenarioTween(name, duration, fn)
		if tw == nil && globalDebug {
			debugLog("node %q has no scenario %q", n.Name, name)
		}
	}
	s.apply = func(n *Node, p float64) {
		if tw != nil {
			tw.apply(n, p)
		}
	}
	s.complete = func(n *Node) {
		if tw != nil {
			tw.complete(n)
		}
	}
	return s
}

// --- Trigger ---

type triggerStep struct {
	stepBase
	fn func()
}

// Trigger calls fn once when the sequence reaches it, or when the
// animation is stopped with StopComplete before reaching it.
func Trigger(fn func()) Step {
	return &triggerStep{fn: fn}
}

func (s *triggerStep) begin(*Node) { s.begun = true }

func (s *triggerStep) update(_ *Node, dt float64) float64 {
	s.fire(StopComplete)
	return dt
}

func (s *triggerStep) end(_ *Node, how StopHow) {
	s.fire(how)
}

func (s *triggerStep) fire(how StopHow) {
	if s.finished {
		return
	}
	if how == StopComplete && s.fn != nil {
		s.fn()
	}
	s.finish(how)
}

// --- Serial and parallel ---

type serialStep struct {
	stepBase
	steps []Step
	index int
}

// Serial runs steps one after another. Time left over when a step finishes
// carries into the next one, so zero-length steps finish in the same
// frame.
func Serial(steps ...Step) Step {
	return &serialStep{steps: steps}
}

func (s *serialStep) begin(n *Node) {
	s.begun = true
	s.index = 0
	if len(s.steps) > 0 {
		s.steps[0].begin(n)
	}
}

func (s *serialStep) update(n *Node, dt float64) float64 {
	for !s.finished && s.index < len(s.steps) {
		left := s.steps[s.index].update(n, dt)
		if left < 0 {
			return -1
		}
		dt = left
		s.index++
		if s.index < len(s.steps) {
			s.steps[s.index].begin(n)
		}
	}
	s.finish(StopComplete)
	return dt
}

func (s *serialStep) end(n *Node, how StopHow) {
	if s.finished {
		return
	}
	for i := s.index; i < len(s.steps); i++ {
		st := s.steps[i]
		if how == StopComplete && !st.base().begun {
			st.begin(n)
		}
		st.end(n, how)
	}
	s.index = len(s.steps)
	s.finish(how)
}

type parallelStep struct {
	stepBase
	steps []Step
}

// Parallel runs steps at the same time and finishes when the last one
// does.
func Parallel(steps ...Step) Step {
	return &parallelStep{steps: steps}
}

func (s *parallelStep) begin(n *Node) {
	s.begun = true
	for _, st := range s.steps {
		st.begin(n)
	}
}

func (s *parallelStep) update(n *Node, dt float64) float64 {
	if s.finished {
		return 0
	}
	left := dt
	running := false
	for _, st := range s.steps {
		if st.base().finished {
			continue
		}
		r := st.update(n, dt)
		if r < 0 {
			running = true
			continue
		}
		left = min(left, r)
	}
	if running {
		return -1
	}
	s.finish(StopComplete)
	return left
}

func (s *parallelStep) end(n *Node, how StopHow) {
	for _, st := range s.steps {
		st.end(n, how)
	}
	s.finish(how)
}

// --- Animation ---

// Animation is a named serial sequence of steps on one node, built with
// chained calls and started with Start:
//
//	n.Animate("intro").
//		DissolveIn(0.5, nil).
//		Then(Parallel(OpacityTo(0.5, 1, nil), ToScenario("home", 1, ease.OutQuad))).
//		Trigger(func() { ... }).
//		Start(done)
//
// A node can run several animations at once. Starting one with the same
// non-empty name as a running animation cancels the running one.
type Animation struct {
	Name  string
	node  *Node
	steps []Step
	root  *serialStep
}

// Animate returns an empty animation for n.
func (n *Node) Animate(name string) *Animation {
	return &Animation{Name: name, node: n}
}

// Then appends steps.
func (a *Animation) Then(steps ...Step) *Animation {
	a.steps = append(a.steps, steps...)
	return a
}

// Delay appends a wait.
func (a *Animation) Delay(duration float64) *Animation {
	return a.Then(Delay(duration))
}

// Trigger appends a call to fn.
func (a *Animation) Trigger(fn func()) *Animation {
	return a.Then(Trigger(fn))
}

// OpacityTo appends an opacity tween.
func (a *Animation) OpacityTo(target, duration float64, fn ease.TweenFunc) *Animation {
	return a.Then(OpacityTo(target, duration, fn))
}

// DissolveIn appends a fade in.
func (a *Animation) DissolveIn(duration float64, fn ease.TweenFunc) *Animation {
	return a.Then(DissolveIn(duration, fn))
}

// DissolveOut appends a fade out.
func (a *Animation) DissolveOut(duration float64, fn ease.TweenFunc) *Animation {
	return a.Then(DissolveOut(duration, fn))
}

// TransformTo appends a transform tween.
func (a *Animation) TransformTo(target *Transform, duration float64, fn ease.TweenFunc) *Animation {
	return a.Then(TransformTo(target, duration, fn))
}

// ToScenario appends a scenario tween.
func (a *Animation) ToScenario(name string, duration float64, fn ease.TweenFunc) *Animation {
	return a.Then(ToScenario(name, duration, fn))
}

// Start begins the animation on its node. Zero-length leading steps finish
// immediately. done is called once when the whole animation finishes or is
// stopped.
func (a *Animation) Start(done ...Callback) *Animation {
	if a.IsRunning() {
		return a
	}
	n := a.node
	if a.Name != "" {
		if running := n.Animation(a.Name); running != nil && running != a {
			running.Stop(StopCancel)
		}
	}
	a.root = &serialStep{steps: a.steps}
	if len(done) > 0 {
		a.root.done = done[0]
	}
	n.animations = append(n.animations, a)
	Logger().Debug("start animation", "node", n.Name, "name", a.Name, "steps", len(a.steps))
	a.root.begin(n)
	a.root.update(n, 0)
	n.pruneAnimations()
	return a
}

// IsRunning reports whether the animation has started and not finished.
func (a *Animation) IsRunning() bool {
	return a.root != nil && !a.root.finished
}

// Stop ends the animation with how.
func (a *Animation) Stop(how StopHow) {
	if !a.IsRunning() {
		return
	}
	a.root.end(a.node, how)
	a.node.pruneAnimations()
}

// Animation returns the running animation called name, or nil.
func (n *Node) Animation(name string) *Animation {
	for _, a := range n.animations {
		if a.Name == name && a.IsRunning() {
			return a
		}
	}
	return nil
}

// StopAnimations stops every running animation of n with how.
func (n *Node) StopAnimations(how StopHow) {
	for _, a := range slices.Clone(n.animations) {
		a.Stop(how)
	}
}

// stepAnimations advances n's animations by dt. Animations started by
// callbacks during the step are not advanced until the next frame.
func (n *Node) stepAnimations(dt float64) {
	for _, a := range slices.Clone(n.animations) {
		if a.IsRunning() {
			a.root.update(n, dt)
		}
	}
	n.pruneAnimations()
}

func (n *Node) pruneAnimations() {
	n.animations = slices.DeleteFunc(n.animations, func(a *Animation) bool { return !a.IsRunning() })
}
