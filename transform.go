package figura

import (
	"fmt"
	"math"
	"strings"

	"github.com/brunoga/deep"
)

// ComponentKind identifies one step of a Transform.
type ComponentKind uint8

const (
	ComponentTranslate ComponentKind = iota
	ComponentRotate
	ComponentScale
	ComponentMatrix
)

// String returns the kind name.
func (k ComponentKind) String() string {
	switch k {
	case ComponentTranslate:
		return "translate"
	case ComponentRotate:
		return "rotate"
	case ComponentScale:
		return "scale"
	case ComponentMatrix:
		return "matrix"
	}
	return "unknown"
}

// RotationKind distinguishes the rotation flavours a ComponentRotate holds.
type RotationKind uint8

const (
	RotateZ   RotationKind = iota // Angle about the z axis
	RotateXYZ                     // Value holds rx, ry, rz applied x first
	RotateAxis                    // Angle about the axis in Value
)

// Component is one step of a Transform. Which fields are meaningful depends
// on Kind (and Rotation for rotations):
//
//	translate   Value
//	scale       Value
//	rotate z    Angle
//	rotate xyz  Value (x, y, z angles)
//	rotate axis Value (axis), Angle
//	matrix      Matrix
type Component struct {
	Kind     ComponentKind `msgpack:"k"`
	Rotation RotationKind  `msgpack:"r,omitempty"`
	Value    Point         `msgpack:"v"`
	Angle    float64       `msgpack:"a,omitempty"`
	Matrix   Mat4          `msgpack:"m"`
}

// sameShape reports whether c and o are the same kind of step.
func (c Component) sameShape(o Component) bool {
	if c.Kind != o.Kind {
		return false
	}
	return c.Kind != ComponentRotate || c.Rotation == o.Rotation
}

// matrix returns the matrix of this single step. NaN and infinite values
// are clamped to ±MaxFinite first.
func (c Component) matrix() Mat4 {
	c = c.mapValues(sanitize)
	switch c.Kind {
	case ComponentTranslate:
		return Translation(c.Value.X, c.Value.Y, c.Value.Z)
	case ComponentScale:
		return Scaling(c.Value.X, c.Value.Y, c.Value.Z)
	case ComponentRotate:
		switch c.Rotation {
		case RotateXYZ:
			return RotationXYZ(c.Value.X, c.Value.Y, c.Value.Z)
		case RotateAxis:
			return RotationAxis(c.Value, c.Angle)
		}
		return RotationZ(c.Angle)
	case ComponentMatrix:
		return c.Matrix
	}
	return Identity()
}

// mapValues returns c with f applied to every number it carries.
func (c Component) mapValues(f func(float64) float64) Component {
	switch c.Kind {
	case ComponentMatrix:
		for i := range c.Matrix {
			c.Matrix[i] = f(c.Matrix[i])
		}
	case ComponentRotate:
		switch c.Rotation {
		case RotateZ:
			c.Angle = f(c.Angle)
		case RotateXYZ:
			c.Value = Point{f(c.Value.X), f(c.Value.Y), f(c.Value.Z)}
		case RotateAxis:
			c.Value = Point{f(c.Value.X), f(c.Value.Y), f(c.Value.Z)}
			c.Angle = f(c.Angle)
		}
	default:
		c.Value = Point{f(c.Value.X), f(c.Value.Y), f(c.Value.Z)}
	}
	return c
}

// zipValues combines the numbers of two same-shape components pairwise.
func (c Component) zipValues(o Component, f func(a, b float64) float64) Component {
	switch c.Kind {
	case ComponentMatrix:
		for i := range c.Matrix {
			c.Matrix[i] = f(c.Matrix[i], o.Matrix[i])
		}
	case ComponentRotate:
		switch c.Rotation {
		case RotateZ:
			c.Angle = f(c.Angle, o.Angle)
		case RotateXYZ:
			c.Value = Point{f(c.Value.X, o.Value.X), f(c.Value.Y, o.Value.Y), f(c.Value.Z, o.Value.Z)}
		case RotateAxis:
			c.Value = Point{f(c.Value.X, o.Value.X), f(c.Value.Y, o.Value.Y), f(c.Value.Z, o.Value.Z)}
			c.Angle = f(c.Angle, o.Angle)
		}
	default:
		c.Value = Point{f(c.Value.X, o.Value.X), f(c.Value.Y, o.Value.Y), f(c.Value.Z, o.Value.Z)}
	}
	return c
}

// String formats the component compactly, e.g. "t(1,0,0)".
func (c Component) String() string {
	switch c.Kind {
	case ComponentTranslate:
		return fmt.Sprintf("t(%g,%g,%g)", c.Value.X, c.Value.Y, c.Value.Z)
	case ComponentScale:
		return fmt.Sprintf("s(%g,%g,%g)", c.Value.X, c.Value.Y, c.Value.Z)
	case ComponentRotate:
		switch c.Rotation {
		case RotateXYZ:
			return fmt.Sprintf("rxyz(%g,%g,%g)", c.Value.X, c.Value.Y, c.Value.Z)
		case RotateAxis:
			return fmt.Sprintf("raxis(%g,%g,%g;%g)", c.Value.X, c.Value.Y, c.Value.Z, c.Angle)
		}
		return fmt.Sprintf("r(%g)", c.Angle)
	}
	return fmt.Sprintf("m%v", c.Matrix)
}

// Transform is an ordered chain of translate, rotate, scale and matrix
// steps. The first component is applied to a point first, so the composite
// is C[n-1] × ... × C[1] × C[0].
//
// The composite matrix is cached and recomputed on the next Matrix call
// after any mutation.
type Transform struct {
	Name string

	components []Component
	mat        Mat4
	valid      bool // mat matches components
}

// NewTransform returns an empty (identity) transform.
func NewTransform(name string) *Transform {
	return &Transform{Name: name, mat: Identity(), valid: true}
}

// DefaultTransform returns the scale, rotate, translate chain every node
// starts with: s(1,1,1) r(0) t(0,0,0).
func DefaultTransform(name string) *Transform {
	return NewTransform(name).Scale(1, 1, 1).Rotate(0).Translate(0, 0, 0)
}

// NewTransformFrom returns a transform holding a copy of components.
func NewTransformFrom(name string, components []Component) *Transform {
	t := NewTransform(name)
	t.components = append([]Component(nil), components...)
	t.valid = false
	return t
}

// --- Builders ---

func (t *Transform) add(c Component) *Transform {
	t.components = append(t.components, c)
	t.valid = false
	return t
}

// Translate appends a translation and returns t.
func (t *Transform) Translate(x, y, z float64) *Transform {
	return t.add(Component{Kind: ComponentTranslate, Value: Point{x, y, z}})
}

// Rotate appends a rotation about z and returns t.
func (t *Transform) Rotate(angle float64) *Transform {
	return t.add(Component{Kind: ComponentRotate, Rotation: RotateZ, Angle: angle})
}

// RotateXYZ appends an x, then y, then z rotation and returns t.
func (t *Transform) RotateXYZ(rx, ry, rz float64) *Transform {
	return t.add(Component{Kind: ComponentRotate, Rotation: RotateXYZ, Value: Point{rx, ry, rz}})
}

// RotateAxis appends a rotation of angle about axis and returns t.
func (t *Transform) RotateAxis(axis Point, angle float64) *Transform {
	return t.add(Component{Kind: ComponentRotate, Rotation: RotateAxis, Value: axis, Angle: angle})
}

// Scale appends a scale and returns t.
func (t *Transform) Scale(x, y, z float64) *Transform {
	return t.add(Component{Kind: ComponentScale, Value: Point{x, y, z}})
}

// Custom appends an arbitrary matrix and returns t.
func (t *Transform) Custom(m Mat4) *Transform {
	return t.add(Component{Kind: ComponentMatrix, Matrix: m})
}

// --- Queries ---

// Len returns the number of components.
func (t *Transform) Len() int {
	return len(t.components)
}

// Components returns a copy of the component chain.
func (t *Transform) Components() []Component {
	return append([]Component(nil), t.components...)
}

// Component returns the i-th component.
func (t *Transform) Component(i int) Component {
	return t.components[i]
}

// Matrix returns the composite matrix.
func (t *Transform) Matrix() Mat4 {
	if !t.valid {
		t.mat = composeComponents(t.components)
		t.valid = true
	}
	return t.mat
}

func composeComponents(cs []Component) Mat4 {
	m := Identity()
	for i := len(cs) - 1; i >= 0; i-- {
		c := cs[i]
		switch {
		case c.Kind == ComponentTranslate && c.Value == (Point{}):
			continue
		case c.Kind == ComponentScale && c.Value == (Point{1, 1, 1}):
			continue
		}
		m = Mul(m, c.matrix())
	}
	for i := range m {
		m[i] = sanitize(m[i])
	}
	return m
}

// ComponentIndex returns the index of the n-th component of kind.
func (t *Transform) ComponentIndex(kind ComponentKind, n int) (int, bool) {
	count := 0
	for i, c := range t.components {
		if c.Kind != kind {
			continue
		}
		if count == n {
			return i, true
		}
		count++
	}
	return -1, false
}

// HasComponent reports whether t has at least one component of kind.
func (t *Transform) HasComponent(kind ComponentKind) bool {
	_, ok := t.ComponentIndex(kind, 0)
	return ok
}

func nth(n []int) int {
	if len(n) > 0 {
		return n[0]
	}
	return 0
}

// T returns the n-th translation (default first).
func (t *Transform) T(n ...int) (Point, bool) {
	i, ok := t.ComponentIndex(ComponentTranslate, nth(n))
	if !ok {
		return Point{}, false
	}
	return t.components[i].Value, true
}

// S returns the n-th scale (default first).
func (t *Transform) S(n ...int) (Point, bool) {
	i, ok := t.ComponentIndex(ComponentScale, nth(n))
	if !ok {
		return Point{}, false
	}
	return t.components[i].Value, true
}

// R returns the angle of the n-th rotation (default first). For xyz
// rotations this is the z angle.
func (t *Transform) R(n ...int) (float64, bool) {
	i, ok := t.ComponentIndex(ComponentRotate, nth(n))
	if !ok {
		return 0, false
	}
	c := t.components[i]
	if c.Rotation == RotateXYZ {
		return c.Value.Z, true
	}
	return c.Angle, true
}

// --- Updates ---

// UpdateComponent replaces the i-th component.
func (t *Transform) UpdateComponent(i int, c Component) error {
	if i < 0 || i >= len(t.components) {
		return fmt.Errorf("update component %d of %d: %w", i, len(t.components), ErrNotFound)
	}
	t.components[i] = c
	t.valid = false
	return nil
}

// UpdateTranslation sets the n-th translation (default first). A transform
// with no translation gets one appended.
func (t *Transform) UpdateTranslation(p Point, n ...int) *Transform {
	i, ok := t.ComponentIndex(ComponentTranslate, nth(n))
	if !ok {
		return t.Translate(p.X, p.Y, p.Z)
	}
	t.components[i].Value = p
	t.valid = false
	return t
}

// UpdateRotation sets the angle of the n-th rotation (default first).
func (t *Transform) UpdateRotation(angle float64, n ...int) error {
	i, ok := t.ComponentIndex(ComponentRotate, nth(n))
	if !ok {
		return fmt.Errorf("update rotation %d: %w", nth(n), ErrNotFound)
	}
	if t.components[i].Rotation == RotateXYZ {
		t.components[i].Value.Z = angle
	} else {
		t.components[i].Angle = angle
	}
	t.valid = false
	return nil
}

// UpdateScale sets the n-th scale (default first).
func (t *Transform) UpdateScale(p Point, n ...int) error {
	i, ok := t.ComponentIndex(ComponentScale, nth(n))
	if !ok {
		return fmt.Errorf("update scale %d: %w", nth(n), ErrNotFound)
	}
	t.components[i].Value = p
	t.valid = false
	return nil
}

// Set replaces t's components with a copy of o's.
func (t *Transform) Set(o *Transform) {
	t.components = append(t.components[:0], o.components...)
	t.valid = false
}

// ClipRotation wraps every rotation angle into the given range. Rotation
// axes are left alone.
func (t *Transform) ClipRotation(clip AngleClip) {
	for i, c := range t.components {
		if c.Kind != ComponentRotate {
			continue
		}
		switch c.Rotation {
		case RotateXYZ:
			c.Value = Point{ClipAngle(c.Value.X, clip), ClipAngle(c.Value.Y, clip), ClipAngle(c.Value.Z, clip)}
		default:
			c.Angle = ClipAngle(c.Angle, clip)
		}
		t.components[i] = c
	}
	t.valid = false
}

// --- Comparison ---

// IsEqualShapeTo reports whether o has the same component kinds in the
// same order.
func (t *Transform) IsEqualShapeTo(o *Transform) bool {
	if len(t.components) != len(o.components) {
		return false
	}
	for i := range t.components {
		if !t.components[i].sameShape(o.components[i]) {
			return false
		}
	}
	return true
}

// IsEqualTo reports whether o has the same shape and the same component
// values once rounded to precision (default DefaultPrecision).
func (t *Transform) IsEqualTo(o *Transform, precision ...int) bool {
	if !t.IsEqualShapeTo(o) {
		return false
	}
	p := DefaultPrecision
	if len(precision) > 0 {
		p = precision[0]
	}
	a := t.Round(p)
	b := o.Round(p)
	for i := range a.components {
		if a.components[i] != b.components[i] {
			return false
		}
	}
	return true
}

// IsWithinDelta reports whether the composite matrices of t and o agree
// element-wise within delta (default 1e-8). Different chains describing
// the same geometry compare equal.
func (t *Transform) IsWithinDelta(o *Transform, delta ...float64) bool {
	d := 1e-8
	if len(delta) > 0 {
		d = delta[0]
	}
	return Mat4WithinDelta(t.Matrix(), o.Matrix(), d)
}

// --- Algebra ---

func (t *Transform) zip(o *Transform, op string, f func(a, b float64) float64) (*Transform, error) {
	if !t.IsEqualShapeTo(o) {
		return nil, fmt.Errorf("%s %s and %s: %w", op, t, o, ErrShapeMismatch)
	}
	out := NewTransform(t.Name)
	out.components = make([]Component, len(t.components))
	for i := range t.components {
		out.components[i] = t.components[i].zipValues(o.components[i], f)
	}
	out.valid = false
	return out, nil
}

func (t *Transform) mapAll(f func(float64) float64) *Transform {
	out := NewTransform(t.Name)
	out.components = make([]Component, len(t.components))
	for i := range t.components {
		out.components[i] = t.components[i].mapValues(f)
	}
	out.valid = false
	return out
}

// Add returns the component-wise sum t + o.
func (t *Transform) Add(o *Transform) (*Transform, error) {
	return t.zip(o, "add", func(a, b float64) float64 { return a + b })
}

// Sub returns the component-wise difference t - o.
func (t *Transform) Sub(o *Transform) (*Transform, error) {
	return t.zip(o, "sub", func(a, b float64) float64 { return a - b })
}

// MulValues returns the component-wise product of t and o. This multiplies
// values, not matrices.
func (t *Transform) MulValues(o *Transform) (*Transform, error) {
	return t.zip(o, "mul", func(a, b float64) float64 { return a * b })
}

// Constant returns a transform shaped like t with every value set to v.
func (t *Transform) Constant(v float64) *Transform {
	return t.mapAll(func(float64) float64 { return v })
}

// Zero returns a transform shaped like t with every value 0.
func (t *Transform) Zero() *Transform {
	return t.Constant(0)
}

// Round returns a copy of t with every value rounded to precision (default
// DefaultPrecision).
func (t *Transform) Round(precision ...int) *Transform {
	p := DefaultPrecision
	if len(precision) > 0 {
		p = precision[0]
	}
	return t.mapAll(func(v float64) float64 { return roundTo(v, p) })
}

// IsZero reports whether every value is at or below threshold (default 0).
// Angles are compared after wrapping into [0, 2π).
func (t *Transform) IsZero(threshold ...float64) bool {
	z := 0.0
	if len(threshold) > 0 {
		z = threshold[0]
	}
	small := func(p Point) bool {
		return math.Abs(p.X) <= z && math.Abs(p.Y) <= z && math.Abs(p.Z) <= z
	}
	smallAngle := func(a float64) bool {
		return ClipAngle(a, Clip0To360) <= z
	}
	for _, c := range t.components {
		switch c.Kind {
		case ComponentTranslate, ComponentScale:
			if !small(c.Value) {
				return false
			}
		case ComponentRotate:
			switch c.Rotation {
			case RotateZ:
				if !smallAngle(c.Angle) {
					return false
				}
			case RotateXYZ:
				if !smallAngle(c.Value.X) || !smallAngle(c.Value.Y) || !smallAngle(c.Value.Z) {
					return false
				}
			case RotateAxis:
				if !small(c.Value) || !smallAngle(c.Angle) {
					return false
				}
			}
		case ComponentMatrix:
			for _, v := range c.Matrix {
				if math.Abs(v) > z {
					return false
				}
			}
		}
	}
	return true
}

// ClipMag returns a copy of t with small values snapped to zero and large
// values clamped. Translations are treated as vectors: their magnitude is
// clipped and their direction kept. Every other value is clipped on its
// own. Pass math.Inf(1) as limit for no upper bound.
func (t *Transform) ClipMag(zero, limit float64) *Transform {
	out := NewTransform(t.Name)
	out.components = make([]Component, len(t.components))
	for i, c := range t.components {
		if c.Kind == ComponentTranslate {
			mag := c.Value.Len()
			switch {
			case mag <= zero:
				c.Value = Point{}
			case mag > limit:
				c.Value = c.Value.Scale(limit / mag)
			}
			out.components[i] = c
			continue
		}
		out.components[i] = c.mapValues(func(v float64) float64 { return clipMag(v, zero, limit) })
	}
	out.valid = false
	return out
}

// Velocity returns (t - prev) / dt, clipped with ClipMag(zero, limit).
func (t *Transform) Velocity(prev *Transform, dt, zero, limit float64) (*Transform, error) {
	d, err := t.Sub(prev)
	if err != nil {
		return nil, fmt.Errorf("velocity: %w", err)
	}
	if dt <= 0 {
		return d.Zero(), nil
	}
	v := d.mapAll(func(x float64) float64 { return x / dt })
	return v.ClipMag(zero, limit), nil
}

// Identity returns a transform shaped like t where every step is an
// identity step.
func (t *Transform) Identity() *Transform {
	out := NewTransform(t.Name)
	out.components = make([]Component, len(t.components))
	for i, c := range t.components {
		switch c.Kind {
		case ComponentScale:
			c.Value = Point{1, 1, 1}
		case ComponentMatrix:
			c.Matrix = Identity()
		case ComponentRotate:
			if c.Rotation == RotateAxis {
				c.Value = Point{1, 0, 0}
			} else {
				c.Value = Point{}
			}
			c.Angle = 0
		default:
			c.Value = Point{}
		}
		out.components[i] = c
	}
	out.valid = false
	return out
}

// --- Composition ---

// TransformBy returns a transform that applies t first, then o.
func (t *Transform) TransformBy(o *Transform) *Transform {
	out := NewTransform(t.Name)
	out.components = make([]Component, 0, len(t.components)+len(o.components))
	out.components = append(out.components, t.components...)
	out.components = append(out.components, o.components...)
	out.mat = Mul(o.Matrix(), t.Matrix())
	out.valid = true
	return out
}

// Dup returns a deep copy of t.
func (t *Transform) Dup() *Transform {
	return &Transform{
		Name:       t.Name,
		components: deep.MustCopy(t.components),
		mat:        t.Matrix(),
		valid:      true,
	}
}

// String formats the chain, e.g. "[s(1,1,1) r(0) t(1,0,0)]".
func (t *Transform) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range t.components {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	b.WriteByte(']')
	return b.String()
}
