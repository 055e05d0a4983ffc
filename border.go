package figura

import "math"

// Border is a set of closed polygons. A polygon does not need to repeat its
// first point at the end.
type Border [][]Point

// Bounds returns the axis-aligned bounding rectangle of every point in b.
// ok is false when b has no points.
func (b Border) Bounds() (r Rect, ok bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range b {
		for _, p := range poly {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Transform returns b with every point mapped through m.
func (b Border) Transform(m Mat4) Border {
	out := make(Border, len(b))
	for i, poly := range b {
		out[i] = make([]Point, len(poly))
		for j, p := range poly {
			out[i][j] = TransformPoint(m, p)
		}
	}
	return out
}

// --- Drawables ---

// Drawable is what a primitive node shows. The kernel only needs its
// outline; rendering is up to the host.
type Drawable interface {
	// Outline returns the drawable's polygons in draw space.
	Outline() Border
}

// Polygon is a single closed outline.
type Polygon struct {
	Points []Point
}

// Outline returns the polygon as a one-element border.
func (p Polygon) Outline() Border {
	return Border{append([]Point(nil), p.Points...)}
}

// Rectangle returns a width × height rectangle centered on the origin.
func Rectangle(width, height float64) Polygon {
	return Polygon{Points: Rect{X: -width / 2, Y: -height / 2, Width: width, Height: height}.Polygon()}
}

// RegularPolygon returns an n-sided polygon of the given radius centered on
// the origin with its first corner on the positive x axis.
func RegularPolygon(sides int, radius float64) Polygon {
	pts := make([]Point, sides)
	for i := range pts {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(sides))
		pts[i] = Point{radius * c, radius * s, 0}
	}
	return Polygon{Points: pts}
}

// Shapes is a drawable made of several polygons.
type Shapes Border

// Outline returns a copy of the polygons.
func (s Shapes) Outline() Border {
	out := make(Border, len(s))
	for i, p := range s {
		out[i] = append([]Point(nil), p...)
	}
	return out
}

// --- Border selection ---

// BorderKind selects which of a node's borders to read.
type BorderKind uint8

const (
	BorderDraw  BorderKind = iota // the visual outline
	BorderTouch                   // the area that reacts to touch
	BorderHole                    // areas inside the touch border that do not react
)

// BorderSource says where a node's border comes from.
type BorderSource uint8

const (
	// BorderAuto uses the drawable outline for primitives and the union of
	// the children for collections. For a touch border it means "same as
	// the draw border".
	BorderAuto BorderSource = iota
	BorderChildren // union of the children's borders (collections)
	BorderRect     // bounding rectangle of the draw border
	BorderBuffer   // bounding rectangle grown by Buffer
	BorderCustom   // the polygons in Custom
)

// BorderSpec configures one border of a node.
type BorderSpec struct {
	Source BorderSource
	Buffer float64 // used by BorderBuffer
	Custom Border  // used by BorderCustom
}

// drawBorder returns the node's visual border in its draw space.
func (n *Node) drawBorder(shownOnly bool) Border {
	return n.resolveBorder(n.BorderSpec, shownOnly, BorderDraw)
}

// touchBorder returns the node's touch border in its draw space.
func (n *Node) touchBorder(shownOnly bool) Border {
	if n.TouchBorderSpec.Source == BorderAuto {
		return n.resolveBorder(n.BorderSpec, shownOnly, BorderTouch)
	}
	return n.resolveBorder(n.TouchBorderSpec, shownOnly, BorderTouch)
}

func (n *Node) resolveBorder(spec BorderSpec, shownOnly bool, kind BorderKind) Border {
	switch spec.Source {
	case BorderCustom:
		return Shapes(spec.Custom).Outline()
	case BorderRect, BorderBuffer:
		base := n.resolveBorder(BorderSpec{}, shownOnly, kind)
		r, ok := base.Bounds()
		if !ok {
			return nil
		}
		if spec.Source == BorderBuffer {
			r = r.Buffer(spec.Buffer)
		}
		return Border{r.Polygon()}
	}
	switch c := n.Content.(type) {
	case *Primitive:
		if c.Drawable == nil {
			return nil
		}
		return c.Drawable.Outline()
	case *Collection:
		return n.childrenBorder(shownOnly, kind)
	}
	return nil
}

// childrenBorder collects every child's border mapped into n's draw space.
func (n *Node) childrenBorder(shownOnly bool, kind BorderKind) Border {
	var out Border
	for _, child := range n.Children() {
		if shownOnly && !child.IsShown {
			continue
		}
		var b Border
		switch kind {
		case BorderTouch:
			b = child.touchBorder(shownOnly)
		case BorderHole:
			b = child.holeBorder(shownOnly)
		default:
			b = child.drawBorder(shownOnly)
		}
		if len(b) == 0 {
			continue
		}
		out = append(out, b.Transform(child.localMatrix())...)
	}
	return out
}

// holeBorder returns the node's hole border in its draw space. Collections
// without their own holes gather their children's.
func (n *Node) holeBorder(shownOnly bool) Border {
	if len(n.HoleBorder) > 0 {
		return Shapes(n.HoleBorder).Outline()
	}
	if _, ok := n.Content.(*Collection); ok {
		return n.childrenBorder(shownOnly, BorderHole)
	}
	return nil
}

// GetBorder returns the requested border expressed in space. With shownOnly
// set, hidden children do not contribute to a collection's border.
func (n *Node) GetBorder(space Space, kind BorderKind, shownOnly bool) (Border, error) {
	var b Border
	switch kind {
	case BorderTouch:
		b = n.touchBorder(shownOnly)
	case BorderHole:
		b = n.holeBorder(shownOnly)
	default:
		b = n.drawBorder(shownOnly)
	}
	if space == SpaceDraw || len(b) == 0 {
		return b, nil
	}
	out := make(Border, len(b))
	for i, poly := range b {
		out[i] = make([]Point, len(poly))
		for j, p := range poly {
			q, err := n.TransformPoint(p, SpaceDraw, space)
			if err != nil {
				return nil, err
			}
			out[i][j] = q
		}
	}
	return out, nil
}
