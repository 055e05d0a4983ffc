package figura

import (
	"errors"
	"math"
	"testing"
)

// --- Composition order ---

func TestTransformFirstComponentAppliedFirst(t *testing.T) {
	tr := NewTransform("").Rotate(math.Pi / 2).Translate(1, 0, 0)
	// rotate (1,0) → (0,1), then translate → (1,1)
	assertPoint(t, "p", TransformPoint(tr.Matrix(), Point{1, 0, 0}), Point{1, 1, 0})
}

func TestTransformTranslateThenRotateOnNode(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("n", Rectangle(1, 1))
	f.Add(n)
	n.SetTransform(NewTransform("").Translate(1, 0, 0).Rotate(math.Pi / 2))
	// translate (0,0) → (1,0), then rotate about the origin → (0,1)
	got, err := n.TransformPoint(Point{}, SpaceDraw, SpaceFigure)
	if err != nil {
		t.Fatal(err)
	}
	assertPoint(t, "draw origin", got, Point{0, 1, 0})
}

func TestTransformScaleRotateTranslate(t *testing.T) {
	tr := NewTransform("").Scale(2, 2, 1).Rotate(math.Pi).Translate(0, 1, 0)
	assertPoint(t, "p", TransformPoint(tr.Matrix(), Point{1, 0, 0}), Point{-2, 1, 0})
}

func TestTransformEmptyIsIdentity(t *testing.T) {
	if !IsIdentity(NewTransform("").Matrix()) {
		t.Error("empty transform is not identity")
	}
	var zero Transform
	if !IsIdentity(zero.Matrix()) {
		t.Error("zero Transform is not identity")
	}
}

func TestDefaultTransformShape(t *testing.T) {
	tr := DefaultTransform("node")
	if tr.String() != "[s(1,1,1) r(0) t(0,0,0)]" {
		t.Errorf("String = %q", tr.String())
	}
	if !IsIdentity(tr.Matrix()) {
		t.Error("default transform should be identity")
	}
}

func TestTransformMatrixCacheInvalidated(t *testing.T) {
	tr := DefaultTransform("")
	_ = tr.Matrix()
	tr.UpdateTranslation(Point{3, 4, 0})
	assertPoint(t, "p", TransformPoint(tr.Matrix(), Point{}), Point{3, 4, 0})
}

func TestTransformByAppliesSelfFirst(t *testing.T) {
	a := NewTransform("").Rotate(math.Pi / 2)
	b := NewTransform("").Translate(1, 0, 0)
	c := a.TransformBy(b)
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	assertMat4(t, "matrix", c.Matrix(), Mul(b.Matrix(), a.Matrix()))
	assertMat4(t, "recomputed", NewTransformFrom("", c.Components()).Matrix(), c.Matrix())
}

// --- Accessors ---

func TestTransformComponentAccess(t *testing.T) {
	tr := NewTransform("").Scale(2, 3, 1).Rotate(0.5).Translate(1, 2, 3).Translate(4, 5, 6)
	s, ok := tr.S()
	if !ok || s != (Point{2, 3, 1}) {
		t.Errorf("S = %v, %v", s, ok)
	}
	r, ok := tr.R()
	if !ok || r != 0.5 {
		t.Errorf("R = %v, %v", r, ok)
	}
	p, ok := tr.T(1)
	if !ok || p != (Point{4, 5, 6}) {
		t.Errorf("T(1) = %v, %v", p, ok)
	}
	if _, ok := tr.T(2); ok {
		t.Error("T(2) should not exist")
	}
	if i, ok := tr.ComponentIndex(ComponentMatrix, 0); ok || i != -1 {
		t.Errorf("ComponentIndex(matrix) = %d, %v", i, ok)
	}
}

func TestUpdateTranslationAppendsWhenMissing(t *testing.T) {
	tr := NewTransform("").Rotate(0)
	tr.UpdateTranslation(Point{1, 0, 0})
	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tr.Len())
	}
}

func TestUpdateRotationMissing(t *testing.T) {
	tr := NewTransform("").Translate(1, 0, 0)
	if err := tr.UpdateRotation(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := tr.UpdateScale(Point{1, 1, 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := tr.UpdateComponent(5, Component{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateRotationXYZSetsZ(t *testing.T) {
	tr := NewTransform("").RotateXYZ(0.1, 0.2, 0.3)
	if err := tr.UpdateRotation(1); err != nil {
		t.Fatal(err)
	}
	r, _ := tr.R()
	assertNear(t, "rz", r, 1)
}

// --- Comparison ---

func TestIsEqualShapeTo(t *testing.T) {
	a := DefaultTransform("")
	b := NewTransform("").Scale(2, 2, 2).Rotate(1).Translate(1, 1, 1)
	if !a.IsEqualShapeTo(b) {
		t.Error("same chain kinds should have equal shape")
	}
	c := NewTransform("").Rotate(1).Scale(1, 1, 1).Translate(0, 0, 0)
	if a.IsEqualShapeTo(c) {
		t.Error("different order should differ in shape")
	}
	d := NewTransform("").Scale(1, 1, 1).RotateXYZ(0, 0, 0).Translate(0, 0, 0)
	if a.IsEqualShapeTo(d) {
		t.Error("rotation flavours should differ in shape")
	}
}

func TestIsEqualToRounds(t *testing.T) {
	a := NewTransform("").Translate(1, 0, 0)
	b := NewTransform("").Translate(1+1e-10, 0, 0)
	if !a.IsEqualTo(b) {
		t.Error("expected equal at default precision")
	}
	if a.IsEqualTo(NewTransform("").Translate(1.01, 0, 0), 3) {
		t.Error("expected unequal at precision 3")
	}
}

func TestIsWithinDeltaComparesGeometry(t *testing.T) {
	a := NewTransform("").Translate(1, 0, 0)
	b := NewTransform("").Custom(Translation(1, 0, 0))
	if !a.IsWithinDelta(b) {
		t.Error("same geometry should be within delta")
	}
}

// --- Algebra ---

func TestTransformAddSub(t *testing.T) {
	a := NewTransform("").Rotate(1).Translate(1, 2, 0)
	b := NewTransform("").Rotate(0.5).Translate(0.5, 0.5, 0)
	sum, err := a.Add(b)
	if err != nil {
		t.Fatal(err)
	}
	r, _ := sum.R()
	p, _ := sum.T()
	assertNear(t, "r", r, 1.5)
	assertPoint(t, "t", p, Point{1.5, 2.5, 0})

	diff, err := sum.Sub(b)
	if err != nil {
		t.Fatal(err)
	}
	if !diff.IsEqualTo(a) {
		t.Errorf("sum - b = %v, want %v", diff, a)
	}
}

func TestTransformAlgebraShapeMismatch(t *testing.T) {
	a := NewTransform("").Translate(1, 0, 0)
	b := NewTransform("").Rotate(1)
	if _, err := a.Add(b); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestTransformMulValues(t *testing.T) {
	a := NewTransform("").Scale(2, 3, 1)
	b := NewTransform("").Scale(4, 5, 1)
	m, err := a.MulValues(b)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := m.S()
	if s != (Point{8, 15, 1}) {
		t.Errorf("S = %v", s)
	}
}

func TestTransformZeroConstantIdentity(t *testing.T) {
	a := NewTransform("").Scale(2, 3, 1).Rotate(1).Translate(1, 2, 3)
	if !a.Zero().IsZero() {
		t.Error("Zero() should be zero")
	}
	c := a.Constant(7)
	p, _ := c.T()
	if p != (Point{7, 7, 7}) {
		t.Errorf("Constant T = %v", p)
	}
	if !IsIdentity(a.Identity().Matrix()) {
		t.Error("Identity() should compose to identity")
	}
	if !a.Identity().IsEqualShapeTo(a) {
		t.Error("Identity() should keep shape")
	}
}

func TestTransformIsZeroThreshold(t *testing.T) {
	a := NewTransform("").Translate(0.001, 0, 0).Rotate(2 * math.Pi)
	if a.IsZero() {
		t.Error("0.001 is not zero at threshold 0")
	}
	if !a.IsZero(0.01) {
		t.Error("expected zero at threshold 0.01")
	}
}

func TestTransformClipMag(t *testing.T) {
	a := NewTransform("").Rotate(-3).Translate(3, 4, 0)
	c := a.ClipMag(0.1, 2)
	p, _ := c.T()
	assertPoint(t, "t", p, Point{1.2, 1.6, 0})
	r, _ := c.R()
	assertNear(t, "r", r, -2)

	small := NewTransform("").Translate(0.01, 0, 0).ClipMag(0.1, 2)
	p, _ = small.T()
	if p != (Point{}) {
		t.Errorf("small translation = %v, want zero", p)
	}
}

func TestTransformVelocity(t *testing.T) {
	prev := NewTransform("").Translate(0, 0, 0)
	cur := NewTransform("").Translate(1, 0, 0)
	v, err := cur.Velocity(prev, 0.1, 0, math.Inf(1))
	if err != nil {
		t.Fatal(err)
	}
	p, _ := v.T()
	assertPoint(t, "v", p, Point{10, 0, 0})

	v, err = cur.Velocity(prev, 0.1, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	p, _ = v.T()
	assertPoint(t, "clipped", p, Point{5, 0, 0})

	v, _ = cur.Velocity(prev, 0, 0, 5)
	if !v.IsZero() {
		t.Error("dt = 0 should give zero velocity")
	}
}

func TestTransformClipRotation(t *testing.T) {
	a := NewTransform("").Rotate(3 * math.Pi)
	a.ClipRotation(ClipMinus180To180)
	r, _ := a.R()
	assertNear(t, "r", math.Abs(r), math.Pi)
}

func TestTransformDupIsIndependent(t *testing.T) {
	a := DefaultTransform("a")
	b := a.Dup()
	b.UpdateTranslation(Point{1, 0, 0})
	p, _ := a.T()
	if p != (Point{}) {
		t.Errorf("original changed to %v", p)
	}
	if b.Name != "a" {
		t.Errorf("Name = %q", b.Name)
	}
}

func TestTransformRound(t *testing.T) {
	a := NewTransform("").Translate(1.23456, 0, 0).Round(2)
	p, _ := a.T()
	if p.X != 1.23 {
		t.Errorf("X = %v", p.X)
	}
}

func TestComponentString(t *testing.T) {
	tr := NewTransform("").RotateXYZ(1, 2, 3).RotateAxis(Point{0, 0, 1}, 0.5)
	if got := tr.String(); got != "[rxyz(1,2,3) raxis(0,0,1;0.5)]" {
		t.Errorf("String = %q", got)
	}
}

func BenchmarkTransformMatrix(b *testing.B) {
	tr := DefaultTransform("")
	for b.Loop() {
		tr.UpdateTranslation(Point{1, 2, 0})
		_ = tr.Matrix()
	}
}
