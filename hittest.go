package figura

import "fmt"

// PointInPolygon reports whether p lies inside poly using the winding
// number rule in the xy plane. Points on an edge may go either way. The
// polygon closes itself; fewer than three points never contain anything.
func PointInPolygon(p Point, poly []Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	wn := 0
	for i := range n {
		a, b := poly[i], poly[(i+1)%n]
		if a.Y <= p.Y {
			if b.Y > p.Y && isLeft(a, b, p) > 0 {
				wn++
			}
		} else if b.Y <= p.Y && isLeft(a, b, p) < 0 {
			wn--
		}
	}
	return wn != 0
}

// isLeft is positive when p is left of the line a→b, negative when right
// and zero when on it.
func isLeft(a, b, p Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (p.X-a.X)*(b.Y-a.Y)
}

// Contains reports whether any polygon of b contains p.
func (b Border) Contains(p Point) bool {
	for _, poly := range b {
		if PointInPolygon(p, poly) {
			return true
		}
	}
	return false
}

// IsBeingTouched reports whether p, given in space, falls inside n's touch
// border. With CannotTouchHole set, points inside the hole border do not
// count. Non-touchable nodes are never touched.
//
// The test uses n's transform without any pulse overlay.
func (n *Node) IsBeingTouched(p Point, space Space) (bool, error) {
	if !n.IsTouchable {
		return false, nil
	}
	dp, err := n.TransformPoint(p, space, SpaceDraw)
	if err != nil {
		return false, err
	}
	return n.touchedInDraw(dp), nil
}

func (n *Node) touchedInDraw(dp Point) bool {
	if !n.touchBorder(true).Contains(dp) {
		return false
	}
	if n.CannotTouchHole && n.holeBorder(true).Contains(dp) {
		return false
	}
	return true
}

// Touched returns the nodes under p, given in space, most important first.
// A touchable collection is tested as a whole and hides its children;
// otherwise shown children are tested from the last drawn to the first, so
// the node drawn on top comes first.
//
// Each node converts p into its own draw space, so in perspective scenes a
// pixel is intersected with that node's draw plane.
func (n *Node) Touched(p Point, space Space) ([]*Node, error) {
	if space == SpaceDraw || space == SpaceLocal {
		fp, err := n.TransformPoint(p, space, SpaceFigure)
		if err != nil {
			return nil, err
		}
		p, space = fp, SpaceFigure
	}
	if space >= SpaceGL && n.fig.scene == nil {
		return nil, fmt.Errorf("touch at %s point: %w", space, ErrNoScene)
	}
	if space == SpacePixel {
		if _, err := n.fig.viewport.pixelToGL(); err != nil {
			return nil, fmt.Errorf("touch at pixel point: %w", err)
		}
	}
	var out []*Node
	n.touched(p, space, &out)
	return out, nil
}

func (n *Node) touched(p Point, space Space, out *[]*Node) {
	if n.IsTouchable {
		dp, err := n.TransformPoint(p, space, SpaceDraw)
		if err != nil {
			if globalDebug {
				debugLog("touch test of %q: %v", n.Name, err)
			}
			return
		}
		if n.touchedInDraw(dp) {
			*out = append(*out, n)
		}
		return
	}
	c, ok := n.Content.(*Collection)
	if !ok {
		return
	}
	for i := len(c.children) - 1; i >= 0; i-- {
		child := n.fig.nodes[c.children[i]]
		if child.IsShown {
			child.touched(p, space, out)
		}
	}
}

// Touched returns every node under p, given in space, in priority order:
// reverse draw order, top-most first. Hidden subtrees are skipped.
func (f *Figure) Touched(p Point, space Space) ([]*Node, error) {
	root := f.Root()
	if !root.IsShown {
		return nil, nil
	}
	return root.Touched(p, space)
}

// TopTouched returns the top-most node under p, or nil.
func (f *Figure) TopTouched(p Point, space Space) (*Node, error) {
	nodes, err := f.Touched(p, space)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}
