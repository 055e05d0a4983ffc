package figura

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestProjectionStyleString(t *testing.T) {
	tests := []struct {
		s    ProjectionStyle
		want string
	}{
		{Style2D, "2D"},
		{StyleOrthographic, "orthographic"},
		{StylePerspective, "perspective"},
		{ProjectionStyle(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestSetCameraMovesView(t *testing.T) {
	s := MustScene(SceneOptions{ProjectionOptions: ProjectionOptions{Style: Ptr(StyleOrthographic)}})
	if err := s.SetCamera(CameraOptions{Position: &Point{0.5, 0, 2}, LookAt: &Point{0.5, 0, 0}}); err != nil {
		t.Fatal(err)
	}
	gl := s.FigureToGL(Point{0.5, 0, 0})
	assertNear(t, "gl x", gl.X, 0)
	assertNear(t, "gl y", gl.Y, 0)
}

func TestPanToCompletes(t *testing.T) {
	s := MustScene(SceneOptions{})
	var got []StopHow
	s.PanTo(Point{1, 0, 0}, 2, 1, ease.Linear, Func(func(h StopHow) { got = append(got, h) }))
	if !s.IsPanning() {
		t.Fatal("expected panning")
	}
	if err := s.update(0.5); err != nil {
		t.Fatal(err)
	}
	assertNearDelta(t, "pan x", s.Pan().X, 0.5, 1e-6)
	assertNearDelta(t, "zoom", s.Zoom(), 1.5, 1e-6)
	if err := s.update(0.6); err != nil {
		t.Fatal(err)
	}
	if s.IsPanning() {
		t.Error("pan should have finished")
	}
	assertNearDelta(t, "pan x", s.Pan().X, 1, 1e-6)
	if len(got) != 1 || got[0] != StopComplete {
		t.Errorf("callbacks = %v", got)
	}
}

func TestPanToReplacedCancels(t *testing.T) {
	s := MustScene(SceneOptions{})
	var got []StopHow
	s.PanTo(Point{1, 0, 0}, 1, 1, nil, Func(func(h StopHow) { got = append(got, h) }))
	s.PanTo(Point{-1, 0, 0}, 1, 1, nil, Callback{})
	if len(got) != 1 || got[0] != StopCancel {
		t.Errorf("callbacks = %v", got)
	}
	s.CancelPan()
	if s.IsPanning() {
		t.Error("CancelPan should stop panning")
	}
}

func TestVisibleBounds2D(t *testing.T) {
	s := MustScene(SceneOptions{Zoom: Ptr(2.0)})
	r := s.VisibleBounds()
	assertNear(t, "x", r.X, -0.5)
	assertNear(t, "w", r.Width, 1)
}

func TestVisibleBoundsPerspective(t *testing.T) {
	s := perspectiveScene(t)
	r := s.VisibleBounds()
	// 90° field of view from z=2 sees ±2 at z=0.
	assertNearDelta(t, "x", r.X, -2, 1e-6)
	assertNearDelta(t, "h", r.Height, 4, 1e-6)
}
