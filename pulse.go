package figura

import (
	"math"
)

// pulseState is the runtime state of a node's pulse overlay.
type pulseState struct {
	active     bool
	cfg        PulseConfig
	started    bool
	start      float64
	num        int
	a, b, c    []float64 // per-copy bias, amplitude and phase
	done       Callback
	elapsed    float64
	current    []float64 // last magnitudes, one per copy
	transforms []Mat4
	frozen     []Mat4
}

// Pulse starts a pulse overlay with o merged over n.PulseDefaults. The
// pulse begins on the next Advance. A running pulse is replaced and its
// done callback called with StopCancel.
//
// The overlay never changes n.Transform. It only changes how n is drawn.
func (n *Node) Pulse(o PulseOptions) {
	n.StopPulsing(StopCancel)
	cfg := MergePulseConfig(n.PulseDefaults, o)
	if cfg.Progression == nil {
		cfg.Progression = Sinusoid
	}

	freq := cfg.Frequency
	if freq == 0 {
		if cfg.Duration == 0 {
			freq = 1
		} else {
			freq = 1 / cfg.Duration
		}
	}
	cfg.Frequency = freq

	var peak, rest float64
	switch cfg.Kind {
	case PulseRotation:
		peak = cfg.Rotation
	case PulseTranslation:
		peak = cfg.Translation
	default:
		peak, rest = cfg.Scale, 1
	}
	start := rest
	if cfg.Start != nil {
		start = *cfg.Start
	}
	lo := start
	if cfg.Min != nil {
		lo = *cfg.Min
	}

	ps := &n.pulse
	ps.cfg = cfg
	ps.num = max(cfg.Num, 1)
	ps.a, ps.b, ps.c = pulseAmplitudes(start, lo, peak, ps.num)
	ps.done = cfg.Done
	ps.started = false
	ps.elapsed = 0
	ps.current = nil
	ps.active = true
	Logger().Debug("pulse", "node", n.Name, "kind", cfg.Kind, "duration", cfg.Duration, "num", ps.num)
}

// pulseAmplitudes returns the bias, amplitude and phase of each copy so
// that every copy starts at start. A single copy swings between lo and
// peak; several copies each swing from start to a peak spread evenly
// between peak and lo.
func pulseAmplitudes(start, lo, peak float64, num int) (a, b, c []float64) {
	a = make([]float64, num)
	b = make([]float64, num)
	c = make([]float64, num)
	span := peak - lo
	if num == 1 {
		mid := lo + span/2
		a[0], b[0] = mid, span/2
		if span != 0 {
			c[0] = math.Asin(clamp((start-mid)/(span/2), -1, 1))
		}
		return a, b, c
	}
	step := span / float64(num-1)
	for i := range num {
		target := peak - float64(i)*step
		if target < start {
			r := start - target
			a[i], b[i], c[i] = start-r/2, r/2, math.Pi/2
		} else {
			r := target - start
			a[i], b[i], c[i] = start+r/2, r/2, -math.Pi/2
		}
	}
	return a, b, c
}

// IsPulsing reports whether a pulse overlay is running.
func (n *Node) IsPulsing() bool {
	return n.pulse.active
}

// PulseTransforms returns the current pulse overlay, one matrix per copy.
// It is empty when n is not pulsing.
func (n *Node) PulseTransforms() []Mat4 {
	return append([]Mat4(nil), n.pulse.transforms...)
}

// FrozenPulseTransforms returns the overlay left behind by a frozen pulse.
func (n *Node) FrozenPulseTransforms() []Mat4 {
	return append([]Mat4(nil), n.pulse.frozen...)
}

// RemainingPulseTime returns the seconds left in the current pulse. It is 0
// when not pulsing and +Inf for a pulse without a duration.
func (n *Node) RemainingPulseTime() float64 {
	ps := &n.pulse
	if !ps.active {
		return 0
	}
	if ps.cfg.Duration == 0 {
		return math.Inf(1)
	}
	return ps.cfg.Duration - ps.elapsed
}

// nextPulseFrame rebuilds the pulse overlay for time now. The first frame
// records the start time. Once the duration has passed the pulse stops
// with StopComplete.
func (n *Node) nextPulseFrame(now float64) {
	ps := &n.pulse
	if !ps.active {
		return
	}
	if !ps.started {
		ps.start = now
		ps.started = true
	}
	elapsed := now - ps.start
	if ps.cfg.Duration != 0 && elapsed >= ps.cfg.Duration {
		ps.elapsed = ps.cfg.Duration
		n.StopPulsing(StopComplete)
		return
	}
	ps.elapsed = elapsed

	ps.transforms = ps.transforms[:0]
	ps.current = ps.current[:0]
	for i := range ps.num {
		mag := ps.cfg.Progression(elapsed, ps.cfg.Frequency, ps.a[i], ps.b[i], ps.c[i])
		ps.current = append(ps.current, mag)
		ps.transforms = append(ps.transforms, pulseMatrix(ps.cfg, mag))
	}
}

// pulseMatrix returns the overlay for one copy at magnitude mag. Scale and
// rotation pulses act about cfg.Center.
func pulseMatrix(cfg PulseConfig, mag float64) Mat4 {
	c := cfg.Center
	switch cfg.Kind {
	case PulseRotation:
		return MulAll(Translation(c.X, c.Y, c.Z), RotationZ(mag), Translation(-c.X, -c.Y, -c.Z))
	case PulseTranslation:
		s, co := math.Sincos(cfg.Angle)
		return Translation(mag*co, mag*s, 0)
	}
	return MulAll(Translation(c.X, c.Y, c.Z), Scaling(mag, mag, 1), Translation(-c.X, -c.Y, -c.Z))
}

// PulseMagnitudes returns the magnitude of every copy in the current frame.
func (n *Node) PulseMagnitudes() []float64 {
	return append([]float64(nil), n.pulse.current...)
}

// StopPulsing ends the pulse. StopFreeze keeps the current overlay as the
// frozen overlay; StopCancel and StopComplete drop it. The done callback is
// called once with how.
func (n *Node) StopPulsing(how StopHow) {
	ps := &n.pulse
	wasPulsing := ps.active
	if wasPulsing {
		if how == StopFreeze {
			ps.frozen = append(ps.frozen[:0], ps.transforms...)
		}
		ps.transforms = nil
		ps.current = nil
	}
	ps.active = false
	ps.num = 1
	done := ps.done
	ps.done = Callback{}
	done.Call(how)
	if wasPulsing {
		Logger().Debug("stop pulsing", "node", n.Name, "how", how.String())
	}
}

// FreezePulseTransforms copies the current overlay into the frozen overlay
// without stopping the pulse. With force unset, an empty overlay does not
// clear an existing frozen one.
func (n *Node) FreezePulseTransforms(force bool) {
	ps := &n.pulse
	if len(ps.transforms) == 0 && !force {
		return
	}
	ps.frozen = append(ps.frozen[:0], ps.transforms...)
}

// overlays returns the per-copy overlay matrices: every live copy paired
// with every frozen copy, or either overlay alone. A node with neither has a
// single identity overlay.
func (ps *pulseState) overlays() []Mat4 {
	switch {
	case len(ps.transforms) > 0 && len(ps.frozen) > 0:
		out := make([]Mat4, 0, len(ps.transforms)*len(ps.frozen))
		for _, m := range ps.transforms {
			for _, fz := range ps.frozen {
				out = append(out, Mul(m, fz))
			}
		}
		return out
	case len(ps.transforms) > 0:
		return ps.transforms
	case len(ps.frozen) > 0:
		return ps.frozen
	}
	return []Mat4{Identity()}
}

// ClearFrozenPulseTransforms drops the frozen overlay.
func (n *Node) ClearFrozenPulseTransforms() {
	n.pulse.frozen = nil
}
