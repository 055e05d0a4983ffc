package figura

// touchAction is the kind of an injected touch event.
type touchAction uint8

const (
	touchPress touchAction = iota
	touchMove
	touchRelease
)

// syntheticTouchEvent is a single injected touch event in pixel space.
type syntheticTouchEvent struct {
	x, y   float64
	action touchAction
}

// InjectPress queues a touch down at pixel (x, y). Queued events are
// consumed one per Advance, before anything else in the frame.
func (f *Figure) InjectPress(x, y float64) {
	f.injectQueue = append(f.injectQueue, syntheticTouchEvent{x: x, y: y, action: touchPress})
}

// InjectMove queues a touch move to pixel (x, y). Use it between
// InjectPress and InjectRelease to simulate a drag.
func (f *Figure) InjectMove(x, y float64) {
	f.injectQueue = append(f.injectQueue, syntheticTouchEvent{x: x, y: y, action: touchMove})
}

// InjectRelease queues a touch up at pixel (x, y).
func (f *Figure) InjectRelease(x, y float64) {
	f.injectQueue = append(f.injectQueue, syntheticTouchEvent{x: x, y: y, action: touchRelease})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same position. Consumes two frames.
func (f *Figure) InjectClick(x, y float64) {
	f.InjectPress(x, y)
	f.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (f *Figure) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	f.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		f.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	f.InjectRelease(toX, toY)
}

// PendingInjections returns the number of queued synthetic events.
func (f *Figure) PendingInjections() int {
	return len(f.injectQueue)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through the touch handlers.
func (f *Figure) processInjectedInput() error {
	if len(f.injectQueue) == 0 {
		return nil
	}
	evt := f.injectQueue[0]
	copy(f.injectQueue, f.injectQueue[1:])
	f.injectQueue = f.injectQueue[:len(f.injectQueue)-1]

	switch evt.action {
	case touchPress:
		return f.TouchDown(evt.x, evt.y)
	case touchMove:
		return f.TouchMove(evt.x, evt.y)
	}
	if err := f.TouchMove(evt.x, evt.y); err != nil {
		return err
	}
	f.TouchUp()
	return nil
}
