package figura

import "math"

// Thresholds are the empirically chosen numeric cutoffs used by movement and
// scenario matching. A Figure carries one set; nodes outside a figure use
// DefaultThresholds.
type Thresholds struct {
	StateDelta          float64 // tolerance when comparing a node against a saved scenario
	DecelerationFloor   float64 // smallest deceleration used while integrating
	DragPauseThreshold  float64 // seconds of stillness before release that discard drag velocity
	MinVelocitySampleDt float64 // drag samples closer together than this are ignored
	Precision           int     // decimal places used when snapping velocities to zero
}

// DefaultThresholds returns the stock cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StateDelta:          0.001,
		DecelerationFloor:   1e-7,
		DragPauseThreshold:  0.05,
		MinVelocitySampleDt: 0.0001,
		Precision:           DefaultPrecision,
	}
}

// Ptr returns a pointer to v. Handy for filling option structs.
func Ptr[T any](v T) *T {
	return &v
}

// --- Movement ---

// MoveType selects which transform component a drag changes.
type MoveType uint8

const (
	MoveTranslation MoveType = iota // drag changes the first translation
	MoveRotation                    // drag changes the first rotation
	MoveScale                       // drag changes the first scale uniformly
	MoveScaleX                      // drag changes the x scale only
	MoveScaleY                      // drag changes the y scale only
)

// String returns the move type name.
func (m MoveType) String() string {
	switch m {
	case MoveTranslation:
		return "translation"
	case MoveRotation:
		return "rotation"
	case MoveScale:
		return "scale"
	case MoveScaleX:
		return "scaleX"
	case MoveScaleY:
		return "scaleY"
	}
	return "unknown"
}

// MoveConfig describes how a movable node responds to drags and how it
// coasts after release.
type MoveConfig struct {
	Type MoveType

	// Bounds limit the moved component. *RectBounds and *LineBounds apply to
	// translations, *RangeBounds to rotations and scales. Nil is unbounded.
	Bounds Bounds

	MaxVelocity           float64 // velocity magnitude cap (units/s); +Inf for none
	Deceleration          float64 // units/s²
	BounceLoss            float64 // fraction of speed lost per bounce, 0..1
	ZeroVelocityThreshold float64 // speeds at or below this snap to zero
}

// DefaultMoveConfig returns the stock movement settings.
func DefaultMoveConfig() MoveConfig {
	return MoveConfig{
		Type:                  MoveTranslation,
		MaxVelocity:           5,
		Deceleration:          5,
		BounceLoss:            0.5,
		ZeroVelocityThreshold: 0.0001,
	}
}

// MoveOptions overrides selected MoveConfig fields. Nil fields keep the
// default.
type MoveOptions struct {
	Type                  *MoveType
	Bounds                Bounds
	MaxVelocity           *float64
	Deceleration          *float64
	BounceLoss            *float64
	ZeroVelocityThreshold *float64
}

// MergeMoveConfig returns defaults with every non-nil override applied.
func MergeMoveConfig(defaults MoveConfig, o MoveOptions) MoveConfig {
	c := defaults
	if o.Type != nil {
		c.Type = *o.Type
	}
	if o.Bounds != nil {
		c.Bounds = o.Bounds
	}
	if o.MaxVelocity != nil {
		c.MaxVelocity = *o.MaxVelocity
	}
	if o.Deceleration != nil {
		c.Deceleration = *o.Deceleration
	}
	if o.BounceLoss != nil {
		c.BounceLoss = clamp(*o.BounceLoss, 0, 1)
	}
	if o.ZeroVelocityThreshold != nil {
		c.ZeroVelocityThreshold = math.Abs(*o.ZeroVelocityThreshold)
	}
	return c
}

// --- Pulse ---

// PulseKind selects what a pulse modulates.
type PulseKind uint8

const (
	PulseScale       PulseKind = iota // scale about the pulse center
	PulseRotation                     // rotate about the pulse center
	PulseTranslation                  // translate along PulseConfig.Angle
)

// PulseConfig describes a pulse. Scale, Rotation and Translation are the
// peak values of their kinds; Start and Min default to the kind's rest value
// (1 for scale, 0 otherwise) when nil.
type PulseConfig struct {
	Kind        PulseKind
	Scale       float64
	Rotation    float64
	Translation float64
	Angle       float64 // direction of a translation pulse

	Start *float64 // value at t = 0
	Min   *float64 // lower extreme of the oscillation

	Duration    float64 // seconds; 0 pulses until stopped
	Frequency   float64 // Hz; 0 means 1/Duration (or 1 when Duration is 0)
	Progression Progression
	Center      Point // pulse origin in draw space
	Num         int   // number of copies drawn

	Done Callback
}

// DefaultPulseConfig returns the stock pulse: a single scale pulse to 2x
// and back over one second.
func DefaultPulseConfig() PulseConfig {
	return PulseConfig{
		Kind:        PulseScale,
		Scale:       2,
		Rotation:    0,
		Translation: 0,
		Duration:    1,
		Progression: Sinusoid,
		Num:         1,
	}
}

// PulseOptions overrides selected PulseConfig fields.
type PulseOptions struct {
	Kind        *PulseKind
	Scale       *float64
	Rotation    *float64
	Translation *float64
	Angle       *float64
	Start       *float64
	Min         *float64
	Duration    *float64
	Frequency   *float64
	Progression Progression
	Center      *Point
	Num         *int
	Done        Callback
}

// MergePulseConfig returns defaults with every non-nil override applied.
// Setting Rotation or Translation without Kind selects that kind.
func MergePulseConfig(defaults PulseConfig, o PulseOptions) PulseConfig {
	c := defaults
	if o.Scale != nil {
		c.Scale = *o.Scale
	}
	if o.Rotation != nil {
		c.Rotation = *o.Rotation
		c.Kind = PulseRotation
	}
	if o.Translation != nil {
		c.Translation = *o.Translation
		c.Kind = PulseTranslation
	}
	if o.Kind != nil {
		c.Kind = *o.Kind
	}
	if o.Angle != nil {
		c.Angle = *o.Angle
	}
	if o.Start != nil {
		c.Start = Ptr(*o.Start)
	}
	if o.Min != nil {
		c.Min = Ptr(*o.Min)
	}
	if o.Duration != nil {
		c.Duration = math.Max(*o.Duration, 0)
	}
	if o.Frequency != nil {
		c.Frequency = *o.Frequency
	}
	if o.Progression != nil {
		c.Progression = o.Progression
	}
	if o.Center != nil {
		c.Center = *o.Center
	}
	if o.Num != nil {
		c.Num = max(*o.Num, 1)
	}
	if o.Done.fn != nil {
		c.Done = o.Done
	}
	return c
}
