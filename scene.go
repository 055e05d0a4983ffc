package figura

import (
	"fmt"
	"math"
)

// SceneConfig is the full set of Scene parameters.
type SceneConfig struct {
	Style ProjectionStyle `msgpack:"style"`

	// Orthographic and 2D extents at zoom 1.
	Left   float64 `msgpack:"left"`
	Right  float64 `msgpack:"right"`
	Bottom float64 `msgpack:"bottom"`
	Top    float64 `msgpack:"top"`

	Near float64 `msgpack:"near"`
	Far  float64 `msgpack:"far"`

	// Perspective only. FieldOfView is vertical, in radians.
	AspectRatio float64 `msgpack:"aspectRatio"`
	FieldOfView float64 `msgpack:"fieldOfView"`

	Zoom float64 `msgpack:"zoom"`
	Pan  Point   `msgpack:"pan"`

	Camera Camera `msgpack:"camera"`
	Light  Light  `msgpack:"light"`
}

// DefaultSceneConfig returns a 2D scene showing -1..1 on both axes.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Style:       Style2D,
		Left:        -1,
		Right:       1,
		Bottom:      -1,
		Top:         1,
		Near:        0.1,
		Far:         10,
		AspectRatio: 1,
		FieldOfView: 1,
		Zoom:        1,
		Camera: Camera{
			Position: Point{0, 0, 2},
			LookAt:   Point{0, 0, 0},
			Up:       Point{0, 1, 0},
		},
		Light: Light{
			Directional: Point{1, 1, 1},
			Ambient:     0.4,
			Point:       Point{10, 10, 10},
		},
	}
}

// ProjectionOptions overrides selected projection parameters.
type ProjectionOptions struct {
	Style       *ProjectionStyle
	Left        *float64
	Right       *float64
	Bottom      *float64
	Top         *float64
	Near        *float64
	Far         *float64
	AspectRatio *float64
	FieldOfView *float64
}

// SceneOptions overrides selected SceneConfig fields. Nil fields keep the
// default.
type SceneOptions struct {
	ProjectionOptions
	Zoom   *float64
	Pan    *Point
	Camera CameraOptions
	Light  LightOptions
}

func mergeProjection(c SceneConfig, o ProjectionOptions) SceneConfig {
	if o.Style != nil {
		c.Style = *o.Style
	}
	for _, f := range []struct {
		dst *float64
		src *float64
	}{
		{&c.Left, o.Left},
		{&c.Right, o.Right},
		{&c.Bottom, o.Bottom},
		{&c.Top, o.Top},
		{&c.Near, o.Near},
		{&c.Far, o.Far},
		{&c.AspectRatio, o.AspectRatio},
		{&c.FieldOfView, o.FieldOfView},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	return c
}

// MergeSceneOptions returns defaults with every non-nil override applied.
func MergeSceneOptions(defaults SceneConfig, o SceneOptions) SceneConfig {
	c := mergeProjection(defaults, o.ProjectionOptions)
	if o.Zoom != nil {
		c.Zoom = *o.Zoom
	}
	if o.Pan != nil {
		c.Pan = *o.Pan
	}
	c.Camera = mergeCamera(c.Camera, o.Camera)
	c.Light = mergeLight(c.Light, o.Light)
	return c
}

// Frustum describes the near and far clipping rectangles of a Scene in
// figure space.
type Frustum struct {
	NearCenter, FarCenter Point
	NearWidth, NearHeight float64
	FarWidth, FarHeight   float64
	Normal                Point // unit view direction
}

// sceneMatrices is everything a Scene derives from its config.
type sceneMatrices struct {
	projection     Mat4
	cameraMatrix   Mat4
	view           Mat4
	viewProjection Mat4
	inverseVP      Mat4

	cameraPosition Point // panned
	cameraVector   Point
	rightVector    Point
	upVector       Point
	frustum        Frustum
}

// Scene is a projection plus a camera. It maps figure space to GL space.
// Every setter recomputes all derived matrices before returning.
type Scene struct {
	cfg SceneConfig
	m   sceneMatrices

	panAnim  *panZoomAnim
	onUpdate func()
}

// NewScene returns a scene built from the defaults with o applied.
func NewScene(o SceneOptions) (*Scene, error) {
	return NewSceneFromConfig(MergeSceneOptions(DefaultSceneConfig(), o))
}

// NewSceneFromConfig returns a scene for a complete config.
func NewSceneFromConfig(c SceneConfig) (*Scene, error) {
	s := &Scene{}
	if err := s.apply(c); err != nil {
		return nil, err
	}
	return s, nil
}

// MustScene is NewScene that panics on error. Handy for tests and demos
// whose parameters are known to be valid.
func MustScene(o SceneOptions) *Scene {
	s, err := NewScene(o)
	if err != nil {
		panic("figura: " + err.Error())
	}
	return s
}

// Config returns a copy of the scene parameters.
func (s *Scene) Config() SceneConfig { return s.cfg }

// Style returns the projection style.
func (s *Scene) Style() ProjectionStyle { return s.cfg.Style }

// Zoom returns the current zoom.
func (s *Scene) Zoom() float64 { return s.cfg.Zoom }

// Pan returns the current pan.
func (s *Scene) Pan() Point { return s.cfg.Pan }

// Camera returns the (unpanned) camera.
func (s *Scene) Camera() Camera { return s.cfg.Camera }

// Light returns the light parameters.
func (s *Scene) Light() Light { return s.cfg.Light }

// Projection returns the projection matrix.
func (s *Scene) Projection() Mat4 { return s.m.projection }

// CameraMatrix returns the panned camera matrix (camera space to figure
// space).
func (s *Scene) CameraMatrix() Mat4 { return s.m.cameraMatrix }

// View returns the view matrix, the inverse of CameraMatrix.
func (s *Scene) View() Mat4 { return s.m.view }

// ViewProjection returns Projection × View. For 2D scenes the z
// translation is zeroed so all figure-space depths land on GL z = 0.
func (s *Scene) ViewProjection() Mat4 { return s.m.viewProjection }

// InverseViewProjection returns the inverse of ViewProjection. In 2D scenes
// GL z = 0 maps back to figure z = 0.
func (s *Scene) InverseViewProjection() Mat4 { return s.m.inverseVP }

// Frustum returns the near and far clipping rectangles.
func (s *Scene) Frustum() Frustum { return s.m.frustum }

// OnUpdate registers fn to run after every recompute. Pass nil to clear.
func (s *Scene) OnUpdate(fn func()) { s.onUpdate = fn }

// Dup returns an independent copy of s. Running pan animations and the
// update hook are not copied.
func (s *Scene) Dup() *Scene {
	return &Scene{cfg: s.cfg, m: s.m}
}

// --- Setters ---

// Update applies o to the current parameters.
func (s *Scene) Update(o SceneOptions) error {
	return s.apply(MergeSceneOptions(s.cfg, o))
}

// SetCamera moves the camera.
func (s *Scene) SetCamera(o CameraOptions) error {
	c := s.cfg
	c.Camera = mergeCamera(c.Camera, o)
	return s.apply(c)
}

// SetProjection changes projection parameters, including the style when
// o.Style is set.
func (s *Scene) SetProjection(o ProjectionOptions) error {
	return s.apply(mergeProjection(s.cfg, o))
}

// Set2D switches to a 2D projection showing the given extents.
func (s *Scene) Set2D(left, right, bottom, top float64) error {
	style := Style2D
	return s.SetProjection(ProjectionOptions{
		Style: &style, Left: &left, Right: &right, Bottom: &bottom, Top: &top,
	})
}

// SetOrthographic switches to an orthographic projection with o applied.
func (s *Scene) SetOrthographic(o ProjectionOptions) error {
	style := StyleOrthographic
	o.Style = &style
	return s.SetProjection(o)
}

// SetPerspective switches to a perspective projection with o applied.
func (s *Scene) SetPerspective(o ProjectionOptions) error {
	style := StylePerspective
	o.Style = &style
	return s.SetProjection(o)
}

// SetPanZoom sets pan and zoom together.
func (s *Scene) SetPanZoom(pan Point, zoom float64) error {
	c := s.cfg
	c.Pan = pan
	c.Zoom = zoom
	return s.apply(c)
}

// SetPan sets the pan.
func (s *Scene) SetPan(pan Point) error {
	c := s.cfg
	c.Pan = pan
	return s.apply(c)
}

// SetLight changes the light parameters. No matrices depend on them.
func (s *Scene) SetLight(o LightOptions) {
	s.cfg.Light = mergeLight(s.cfg.Light, o)
}

// apply recomputes everything from c and commits only on success, so a
// failed setter leaves the scene unchanged.
func (s *Scene) apply(c SceneConfig) error {
	if c.Zoom == 0 {
		return fmt.Errorf("scene zoom: %w", ErrSingularMatrix)
	}
	m, err := computeSceneMatrices(c)
	if err != nil {
		return err
	}
	s.cfg = c
	s.m = m
	if s.onUpdate != nil {
		s.onUpdate()
	}
	return nil
}

func computeSceneMatrices(c SceneConfig) (sceneMatrices, error) {
	var m sceneMatrices

	if c.Style == StylePerspective {
		m.projection = Perspective(math.Min(c.FieldOfView/c.Zoom, math.Pi), c.AspectRatio, c.Near, c.Far)
	} else {
		m.projection = Orthographic(
			c.Left/c.Zoom, c.Right/c.Zoom, c.Bottom/c.Zoom, c.Top/c.Zoom, c.Near, c.Far,
		)
	}

	position := c.Camera.Position
	m.cameraVector = c.Camera.LookAt.Sub(position).Normalize()
	m.rightVector = m.cameraVector.Cross(c.Camera.Up).Normalize()
	m.upVector = m.rightVector.Cross(m.cameraVector).Normalize()
	shift := m.upVector.Scale(-c.Pan.Y).Add(m.rightVector.Scale(-c.Pan.X))
	m.cameraPosition = position.Add(shift)
	lookAt := c.Camera.LookAt.Add(shift)

	m.cameraMatrix = LookAt(m.cameraPosition, lookAt, c.Camera.Up)
	view, err := Inverse(m.cameraMatrix)
	if err != nil {
		return m, fmt.Errorf("scene view matrix: %w", err)
	}
	m.view = view

	m.viewProjection = Mul(m.projection, m.view)
	if c.Style == Style2D {
		m.viewProjection[11] = 0
	}
	m.inverseVP, err = Inverse(m.viewProjection)
	if err != nil {
		return m, fmt.Errorf("scene view projection: %w", err)
	}

	m.frustum = computeFrustum(c, m)
	return m, nil
}

func computeFrustum(c SceneConfig, m sceneMatrices) Frustum {
	f := Frustum{Normal: m.cameraVector}
	if c.Style == StylePerspective {
		fov := math.Min(math.Pi, c.FieldOfView/c.Zoom)
		f.NearHeight = math.Tan(fov*0.5) * c.Near * 2
		f.FarHeight = math.Tan(fov*0.5) * c.Far * 2
		f.NearWidth = c.AspectRatio * f.NearHeight
		f.FarWidth = c.AspectRatio * f.FarHeight
		f.NearCenter = m.cameraPosition.Add(m.cameraVector.Scale(c.Near))
		f.FarCenter = m.cameraPosition.Add(m.cameraVector.Scale(c.Far))
		return f
	}
	f.NearHeight = (c.Top - c.Bottom) / c.Zoom
	f.NearWidth = (c.Right - c.Left) / c.Zoom
	f.FarHeight = f.NearHeight
	f.FarWidth = f.NearWidth
	offset := m.rightVector.Scale(c.Left/c.Zoom + f.NearWidth/2).
		Add(m.upVector.Scale(c.Bottom/c.Zoom + f.NearHeight/2))
	f.NearCenter = m.cameraPosition.Add(m.cameraVector.Scale(c.Near)).Add(offset)
	f.FarCenter = m.cameraPosition.Add(m.cameraVector.Scale(c.Far)).Add(offset)
	return f
}

// --- Projection ---

// FigureToGL projects a figure-space point into GL space.
func (s *Scene) FigureToGL(p Point) Point {
	p = Sanitize(p)
	if s.cfg.Style == StylePerspective {
		return TransformPointW(s.m.viewProjection, p)
	}
	return TransformPoint(s.m.viewProjection, p)
}

// GLToFigure maps a GL-space point back into figure space.
//
// Perspective scenes cannot use the inverse matrix because the w divide in
// FigureToGL discards the depth scale. Instead camera-space coordinates
// are solved from the projection coefficients:
//
//	z = -P[11] / (gl.z + P[10])
//	x = -gl.x · z / P[0]
//	y = -gl.y · z / P[5]
//
// and mapped to figure space through the camera matrix. Points behind the
// camera do not round trip.
func (s *Scene) GLToFigure(p Point) Point {
	p = Sanitize(p)
	if s.cfg.Style != StylePerspective {
		return TransformPoint(s.m.inverseVP, p)
	}
	pm := s.m.projection
	den := p.Z + pm[10]
	if den == 0 {
		den = SingularEpsilon
	}
	z := -pm[11] / den
	x := -p.X * z / pm[0]
	y := -p.Y * z / pm[5]
	return TransformPoint(s.m.cameraMatrix, Point{x, y, z})
}
