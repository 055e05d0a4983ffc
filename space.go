package figura

import (
	"fmt"
	"math"
)

// Plane is an infinite plane through Point with normal Normal. Pixel points
// in perspective scenes are projected onto a plane to pick a depth.
type Plane struct {
	Point  Point
	Normal Point
}

// ZPlane is the z = 0 plane.
var ZPlane = Plane{Normal: Point{0, 0, 1}}

// intersect returns where the line through a and b crosses the plane.
func (pl Plane) intersect(a, b Point) (Point, bool) {
	d := b.Sub(a)
	den := pl.Normal.Dot(d)
	if math.Abs(den) < SingularEpsilon {
		return Point{}, false
	}
	t := pl.Normal.Dot(pl.Point.Sub(a)) / den
	return a.Add(d.Scale(t)), true
}

// --- Viewport ---

// glToPixel maps GL x, y in [-1, 1] to pixels with y pointing down.
func (v Viewport) glToPixel() Mat4 {
	return Mat4{
		v.Width / 2, 0, 0, v.Width / 2,
		0, -v.Height / 2, 0, v.Height / 2,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// pixelToGL is the inverse of glToPixel.
func (v Viewport) pixelToGL() (Mat4, error) {
	if v.Width == 0 || v.Height == 0 {
		return Identity(), fmt.Errorf("viewport %gx%g: %w", v.Width, v.Height, ErrSingularMatrix)
	}
	return Mat4{
		2 / v.Width, 0, 0, -1,
		0, -2 / v.Height, 0, 1,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}, nil
}

// --- Matrices ---

// toFigureMatrix maps points in space s to figure space.
func (n *Node) toFigureMatrix(s Space) (Mat4, error) {
	switch s {
	case SpaceDraw:
		return n.FigureMatrix(), nil
	case SpaceLocal:
		return n.parentFigureMatrix(), nil
	case SpaceFigure:
		return Identity(), nil
	}
	sc := n.fig.scene
	if sc == nil {
		return Identity(), ErrNoScene
	}
	if s == SpaceGL {
		return sc.InverseViewProjection(), nil
	}
	pix, err := n.fig.viewport.pixelToGL()
	if err != nil {
		return Identity(), err
	}
	return Mul(sc.InverseViewProjection(), pix), nil
}

// fromFigureMatrix maps figure-space points into space s.
func (n *Node) fromFigureMatrix(s Space) (Mat4, error) {
	switch s {
	case SpaceDraw, SpaceLocal:
		m, _ := n.toFigureMatrix(s)
		inv, err := Inverse(m)
		if err != nil {
			if globalDebug {
				debugDumpNode(n, "figure to "+s.String())
			}
			return inv, fmt.Errorf("figure to %s of %q: %w", s, n.Name, err)
		}
		return inv, nil
	case SpaceFigure:
		return Identity(), nil
	}
	sc := n.fig.scene
	if sc == nil {
		return Identity(), ErrNoScene
	}
	if s == SpaceGL {
		return sc.ViewProjection(), nil
	}
	return Mul(n.fig.viewport.glToPixel(), sc.ViewProjection()), nil
}

// SpaceTransformMatrix returns the matrix that maps points in from to points
// in to, as seen by n. Pixel space in a perspective scene has no single
// matrix and returns ErrUnsupportedSpacePair; use TransformPoint instead.
func (n *Node) SpaceTransformMatrix(from, to Space) (Mat4, error) {
	if from == to {
		return Identity(), nil
	}
	if sc := n.fig.scene; sc != nil && sc.Style() == StylePerspective &&
		(from == SpacePixel || to == SpacePixel) {
		return Identity(), fmt.Errorf("%s to %s: %w", from, to, ErrUnsupportedSpacePair)
	}
	a, err := n.toFigureMatrix(from)
	if err != nil {
		return Identity(), fmt.Errorf("%s to %s: %w", from, to, err)
	}
	b, err := n.fromFigureMatrix(to)
	if err != nil {
		return Identity(), fmt.Errorf("%s to %s: %w", from, to, err)
	}
	return Mul(b, a), nil
}

// --- Points ---

// TransformPoint converts p from one space to another as seen by n.
//
// In perspective scenes a pixel has no depth. The pixel is turned into a
// ray from the near to the far plane and the ray is intersected with plane,
// given in the target space (figure space when the target is GL). The
// default plane is z = 0.
func (n *Node) TransformPoint(p Point, from, to Space, plane ...Plane) (Point, error) {
	if from == to {
		return p, nil
	}
	p = Sanitize(p)
	sc := n.fig.scene
	if sc == nil && (from >= SpaceGL || to >= SpaceGL) {
		return Point{}, fmt.Errorf("%s to %s: %w", from, to, ErrNoScene)
	}
	if from == SpacePixel && sc.Style() == StylePerspective {
		pl := ZPlane
		if len(plane) > 0 {
			pl = plane[0]
		}
		return n.pixelRay(p, to, pl)
	}

	fp, err := n.toFigurePoint(p, from)
	if err != nil {
		return Point{}, fmt.Errorf("%s to %s: %w", from, to, err)
	}
	out, err := n.fromFigurePoint(fp, to)
	if err != nil {
		return Point{}, fmt.Errorf("%s to %s: %w", from, to, err)
	}
	return out, nil
}

func (n *Node) toFigurePoint(p Point, from Space) (Point, error) {
	switch from {
	case SpaceGL:
		return n.fig.scene.GLToFigure(p), nil
	case SpacePixel:
		pix, err := n.fig.viewport.pixelToGL()
		if err != nil {
			return Point{}, err
		}
		return n.fig.scene.GLToFigure(TransformPoint(pix, p)), nil
	}
	m, err := n.toFigureMatrix(from)
	if err != nil {
		return Point{}, err
	}
	return TransformPoint(m, p), nil
}

func (n *Node) fromFigurePoint(p Point, to Space) (Point, error) {
	switch to {
	case SpaceGL:
		return n.fig.scene.FigureToGL(p), nil
	case SpacePixel:
		return TransformPoint(n.fig.viewport.glToPixel(), n.fig.scene.FigureToGL(p)), nil
	}
	m, err := n.fromFigureMatrix(to)
	if err != nil {
		return Point{}, err
	}
	return TransformPoint(m, p), nil
}

// pixelRay intersects the perspective ray under pixel p with pl.
func (n *Node) pixelRay(p Point, to Space, pl Plane) (Point, error) {
	pix, err := n.fig.viewport.pixelToGL()
	if err != nil {
		return Point{}, err
	}
	gl := TransformPoint(pix, p)
	sc := n.fig.scene
	near := sc.GLToFigure(Point{gl.X, gl.Y, -1})
	far := sc.GLToFigure(Point{gl.X, gl.Y, 1})

	target := to
	if to == SpaceGL || to == SpacePixel {
		target = SpaceFigure
	}
	m, err := n.fromFigureMatrix(target)
	if err != nil {
		return Point{}, fmt.Errorf("pixel to %s: %w", to, err)
	}
	hit, ok := pl.intersect(TransformPoint(m, near), TransformPoint(m, far))
	if !ok {
		return Point{}, fmt.Errorf("pixel ray parallel to plane: %w", ErrUnsupportedSpacePair)
	}
	switch to {
	case SpaceGL:
		return sc.FigureToGL(hit), nil
	case SpacePixel:
		return p, nil
	}
	return hit, nil
}

// --- Figure-level helpers ---

// TransformPoint converts p between figure, GL and pixel space.
func (f *Figure) TransformPoint(p Point, from, to Space, plane ...Plane) (Point, error) {
	return f.Root().TransformPoint(p, from, to, plane...)
}

// PixelToFigure converts a pixel position to figure space on the z = 0
// plane.
func (f *Figure) PixelToFigure(x, y float64) (Point, error) {
	return f.TransformPoint(Point{x, y, 0}, SpacePixel, SpaceFigure)
}

// FigureToPixel converts a figure-space point to pixels.
func (f *Figure) FigureToPixel(p Point) (Point, error) {
	return f.TransformPoint(p, SpaceFigure, SpacePixel)
}
