package figura

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ProjectionStyle selects how a Scene projects figure space into GL space.
type ProjectionStyle uint8

const (
	Style2D           ProjectionStyle = iota // orthographic, z ignored in GL space
	StyleOrthographic                        // orthographic with depth
	StylePerspective                         // perspective with depth
)

// String returns the style name.
func (s ProjectionStyle) String() string {
	switch s {
	case Style2D:
		return "2D"
	case StyleOrthographic:
		return "orthographic"
	case StylePerspective:
		return "perspective"
	}
	return "unknown"
}

// Camera places the eye of a Scene.
type Camera struct {
	Position Point `msgpack:"position"`
	LookAt   Point `msgpack:"lookAt"`
	Up       Point `msgpack:"up"`
}

// CameraOptions overrides selected Camera fields.
type CameraOptions struct {
	Position *Point
	LookAt   *Point
	Up       *Point
}

func mergeCamera(c Camera, o CameraOptions) Camera {
	if o.Position != nil {
		c.Position = *o.Position
	}
	if o.LookAt != nil {
		c.LookAt = *o.LookAt
	}
	if o.Up != nil {
		c.Up = *o.Up
	}
	return c
}

// Light holds the lighting parameters a renderer may use. The kernel only
// stores them.
type Light struct {
	Directional Point   `msgpack:"directional"`
	Ambient     float64 `msgpack:"ambient"`
	Point       Point   `msgpack:"point"`
}

// LightOptions overrides selected Light fields.
type LightOptions struct {
	Directional *Point
	Ambient     *float64
	Point       *Point
}

func mergeLight(l Light, o LightOptions) Light {
	if o.Directional != nil {
		l.Directional = *o.Directional
	}
	if o.Ambient != nil {
		l.Ambient = *o.Ambient
	}
	if o.Point != nil {
		l.Point = *o.Point
	}
	return l
}

// --- Pan and zoom animation ---

// panZoomAnim holds active pan-to tweens for pan X, pan Y and zoom.
type panZoomAnim struct {
	tweenX, tweenY, tweenZoom *gween.Tween
	doneX, doneY, doneZoom    bool
	done                      Callback
}

// PanTo animates the pan and zoom to the given values over duration seconds.
// done fires with StopComplete when the animation ends, or with StopCancel
// if it is replaced or cancelled.
func (s *Scene) PanTo(pan Point, zoom float64, duration float32, fn ease.TweenFunc, done Callback) {
	s.CancelPan()
	if fn == nil {
		fn = ease.Linear
	}
	s.panAnim = &panZoomAnim{
		tweenX:    gween.New(float32(s.cfg.Pan.X), float32(pan.X), duration, fn),
		tweenY:    gween.New(float32(s.cfg.Pan.Y), float32(pan.Y), duration, fn),
		tweenZoom: gween.New(float32(s.cfg.Zoom), float32(zoom), duration, fn),
		done:      done,
	}
}

// IsPanning reports whether a PanTo animation is running.
func (s *Scene) IsPanning() bool {
	return s.panAnim != nil
}

// CancelPan stops a running PanTo where it is.
func (s *Scene) CancelPan() {
	if s.panAnim == nil {
		return
	}
	done := s.panAnim.done
	s.panAnim = nil
	done.Call(StopCancel)
}

// update advances a running PanTo by dt seconds. Called from Figure.Advance.
func (s *Scene) update(dt float32) error {
	a := s.panAnim
	if a == nil {
		return nil
	}
	pan, zoom := s.cfg.Pan, s.cfg.Zoom
	if !a.doneX {
		v, done := a.tweenX.Update(dt)
		pan.X = float64(v)
		a.doneX = done
	}
	if !a.doneY {
		v, done := a.tweenY.Update(dt)
		pan.Y = float64(v)
		a.doneY = done
	}
	if !a.doneZoom {
		v, done := a.tweenZoom.Update(dt)
		zoom = float64(v)
		a.doneZoom = done
	}
	err := s.SetPanZoom(pan, zoom)
	if a.doneX && a.doneY && a.doneZoom {
		s.panAnim = nil
		a.done.Call(StopComplete)
	}
	return err
}

// VisibleBounds returns the axis-aligned rectangle of figure space in the
// z=0 plane that the scene shows. For perspective scenes the corners of
// the view are intersected with z=0; corners that never reach the plane
// are skipped.
func (s *Scene) VisibleBounds() Rect {
	corners := [4]Point{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		var p Point
		if s.cfg.Style == StylePerspective {
			near := s.GLToFigure(Point{c.X, c.Y, -1})
			far := s.GLToFigure(Point{c.X, c.Y, 1})
			hit, ok := intersectZPlane(near, far, 0)
			if !ok {
				continue
			}
			p = hit
		} else {
			p = s.GLToFigure(c)
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if math.IsInf(minX, 1) {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// intersectZPlane returns where the line through a and b crosses z = z0.
func intersectZPlane(a, b Point, z0 float64) (Point, bool) {
	dz := b.Z - a.Z
	if math.Abs(dz) < 1e-12 {
		return Point{}, false
	}
	t := (z0 - a.Z) / dz
	return a.Add(b.Sub(a).Scale(t)), true
}
