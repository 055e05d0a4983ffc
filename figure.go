package figura

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultPathCacheSize is the number of resolved paths kept per figure.
const defaultPathCacheSize = 256

// Viewport is the pixel size of the surface a figure is shown on.
type Viewport struct {
	Width, Height float64
}

// FrameContext carries everything one Advance needs from the host.
type FrameContext struct {
	// Now is the host's monotonic time in seconds.
	Now float64
	// TimeScale multiplies elapsed time. 0 is treated as 1.
	TimeScale float64
}

// FigureOptions configures a new Figure. The zero value gives a figure with
// no scene and a zero viewport.
type FigureOptions struct {
	Scene         *Scene
	Viewport      Viewport
	Thresholds    *Thresholds
	PathCacheSize int
}

// Figure owns a tree of nodes, the scene they are shown in and the clock
// that drives their movement, pulses and animations. A Figure is not safe
// for concurrent use; drive it from a single goroutine.
type Figure struct {
	nodes  map[NodeID]*Node
	root   NodeID
	nextID NodeID

	scene    *Scene
	viewport Viewport

	callbacks  *CallbackRegistry
	paths      *lru.Cache[string, NodeID]
	thresholds Thresholds

	// Clock. now is figure time: host time with pauses removed and the time
	// scale applied.
	now       float64
	hostNow   float64
	hasFrame  bool
	paused    bool
	timeScale float64

	// Interaction
	handlers    handlerRegistry
	touch       touchState
	injectQueue []syntheticTouchEvent
	testRunner  *TestRunner

	debug bool
}

// NewFigure creates a figure with an empty root collection.
func NewFigure(o FigureOptions) *Figure {
	size := o.PathCacheSize
	if size <= 0 {
		size = defaultPathCacheSize
	}
	paths, err := lru.New[string, NodeID](size)
	if err != nil {
		panic("figura: " + err.Error())
	}
	f := &Figure{
		nodes:      make(map[NodeID]*Node),
		scene:      o.Scene,
		viewport:   o.Viewport,
		callbacks:  NewCallbackRegistry(),
		paths:      paths,
		thresholds: DefaultThresholds(),
		timeScale:  1,
	}
	if o.Thresholds != nil {
		f.thresholds = *o.Thresholds
	}
	f.root = f.NewCollection("root").ID
	Logger().Info("figure created", "viewport", o.Viewport, "scene", o.Scene != nil)
	return f
}

// --- Node creation ---

func (f *Figure) newNode(name string, c Content) *Node {
	f.nextID++
	n := &Node{ID: f.nextID, Name: name, Content: c, fig: f}
	nodeDefaults(n)
	f.nodes[n.ID] = n
	return n
}

// NewPrimitive creates a detached leaf node showing d.
func (f *Figure) NewPrimitive(name string, d Drawable) *Node {
	return f.newNode(name, &Primitive{Drawable: d})
}

// NewCollection creates a detached group node.
func (f *Figure) NewCollection(name string) *Node {
	return f.newNode(name, &Collection{})
}

// Add appends nodes to the root collection.
func (f *Figure) Add(nodes ...*Node) {
	root := f.Root()
	for _, n := range nodes {
		root.AddChild(n)
	}
}

// Root returns the root collection.
func (f *Figure) Root() *Node {
	return f.nodes[f.root]
}

// Node returns the node with the given id.
func (f *Figure) Node(id NodeID) (*Node, bool) {
	n, ok := f.nodes[id]
	return n, ok
}

// Len returns the number of live nodes, the root included.
func (f *Figure) Len() int {
	return len(f.nodes)
}

// Get resolves a dotted path from the root.
func (f *Figure) Get(path string) (*Node, bool) {
	return f.Root().Get(path)
}

// GetMany resolves several paths from the root, skipping misses.
func (f *Figure) GetMany(paths ...string) []*Node {
	return f.Root().GetMany(paths...)
}

// Walk calls fn for every node attached to the root in draw order, parents
// before children.
func (f *Figure) Walk(fn func(*Node)) {
	f.Root().walk(fn)
}

// structureChanged drops cached path lookups.
func (f *Figure) structureChanged() {
	f.paths.Purge()
}

// --- Accessors ---

// Scene returns the figure's scene, or nil.
func (f *Figure) Scene() *Scene { return f.scene }

// SetScene replaces the figure's scene. nil removes it.
func (f *Figure) SetScene(s *Scene) { f.scene = s }

// Viewport returns the pixel size of the figure's surface.
func (f *Figure) Viewport() Viewport { return f.viewport }

// SetViewport sets the pixel size of the figure's surface.
func (f *Figure) SetViewport(width, height float64) {
	f.viewport = Viewport{Width: width, Height: height}
}

// Callbacks returns the figure's callback registry.
func (f *Figure) Callbacks() *CallbackRegistry { return f.callbacks }

// Thresholds returns the figure's numeric cutoffs.
func (f *Figure) Thresholds() Thresholds { return f.thresholds }

// SetThresholds replaces the figure's numeric cutoffs.
func (f *Figure) SetThresholds(t Thresholds) { f.thresholds = t }

// SetDebugMode enables or disables debug checks and stderr warnings.
func (f *Figure) SetDebugMode(enabled bool) {
	f.debug = enabled
	globalDebug = enabled
}

// --- Clock ---

// Now returns the figure time in seconds.
func (f *Figure) Now() float64 {
	if f == nil {
		return 0
	}
	return f.now
}

// Pause stops the figure clock. Movement, pulses and animations hold their
// state until Unpause.
func (f *Figure) Pause() {
	f.paused = true
}

// Unpause restarts the figure clock. Time that passed while paused is not
// seen by anything in the figure.
func (f *Figure) Unpause() {
	f.paused = false
}

// IsPaused reports whether the figure clock is stopped.
func (f *Figure) IsPaused() bool {
	return f.paused
}

// SetTimeScale sets the default time scale used when a FrameContext leaves
// TimeScale at 0.
func (f *Figure) SetTimeScale(scale float64) {
	f.timeScale = scale
}

// --- Frame ---

// Advance moves the figure forward to ctx.Now: queued input is processed,
// the scene pan animation, movement, pulses and scenario animations are
// stepped, and draw matrices are recomposed top-down. Completion callbacks
// run synchronously during Advance.
func (f *Figure) Advance(ctx FrameContext) error {
	scale := ctx.TimeScale
	if scale == 0 {
		scale = f.timeScale
	}
	var dt float64
	if f.hasFrame && !f.paused {
		dt = max((ctx.Now-f.hostNow)*scale, 0)
	}
	f.hostNow = ctx.Now
	f.hasFrame = true
	f.now += dt

	if f.testRunner != nil {
		f.testRunner.step(f)
	}
	var errs []error
	if err := f.processInjectedInput(); err != nil {
		errs = append(errs, err)
	}

	if !f.paused {
		if f.scene != nil {
			if err := f.scene.update(float32(dt)); err != nil {
				errs = append(errs, fmt.Errorf("pan: %w", err))
			}
		}
		// Collect first: callbacks may restructure the tree.
		var nodes []*Node
		f.Walk(func(n *Node) { nodes = append(nodes, n) })
		for _, n := range nodes {
			if !n.disposed {
				n.advance(f.now, dt)
			}
		}
	}

	f.Root().updateDrawMatrices([]Mat4{Identity()})
	return errors.Join(errs...)
}

// advance steps a node's free movement, pulse and animations.
func (n *Node) advance(now, dt float64) {
	if n.move.mode == MovementMovingFreely {
		n.nextMovingFreelyFrame(now)
	}
	if n.pulse.active {
		n.nextPulseFrame(now)
	}
	if n.animation != nil {
		n.stepAnimation(dt)
	}
	if len(n.animations) > 0 {
		n.stepAnimations(dt)
	}
}

// IsAnimating reports whether any node is moving freely, pulsing or
// tweening, or the scene is panning.
func (f *Figure) IsAnimating() bool {
	if f.scene != nil && f.scene.IsPanning() {
		return true
	}
	for _, n := range f.nodes {
		if n.move.mode == MovementMovingFreely || n.pulse.active || n.IsAnimating() {
			return true
		}
	}
	return false
}

// Stop stops every node with how.
func (f *Figure) Stop(how StopHow) {
	f.Walk(func(n *Node) { n.stop(how) })
	if f.scene != nil {
		f.scene.CancelPan()
	}
}
