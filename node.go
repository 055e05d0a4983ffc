package figura

import (
	"fmt"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// NodeID identifies a node within its Figure. IDs are never reused.
type NodeID uint32

// --- Content ---

// Content is what a node holds: a *Primitive or a *Collection.
type Content interface {
	isContent()
}

// Primitive is the content of a leaf node.
type Primitive struct {
	Drawable Drawable
}

// Collection is the content of a group node. Children are held by id in
// draw order: the last child is drawn last and is touched first.
type Collection struct {
	children []NodeID
}

func (*Primitive) isContent()  {}
func (*Collection) isContent() {}

// --- Node ---

// Node is one element of a figure's tree. Nodes are created by a Figure,
// which owns them; a node refers to its parent by id only.
type Node struct {
	// Identity
	ID   NodeID
	Name string

	// Content is a *Primitive or a *Collection.
	Content Content

	// Transform is the node's own transform, applied after its copies and
	// pulse overlay and before its ancestors' transforms.
	Transform *Transform

	// Copies draw the node once per transform, each applied before
	// Transform. A node with no copies is drawn once.
	Copies []*Transform

	Color   Color
	Opacity float64

	// Visibility & interaction
	IsShown         bool
	IsTouchable     bool
	IsMovable       bool
	CannotTouchHole bool // touches inside HoleBorder are ignored

	// Borders
	BorderSpec      BorderSpec
	TouchBorderSpec BorderSpec
	HoleBorder      Border

	// Move configures dragging and free movement.
	Move MoveConfig

	// PulseDefaults is merged with the options of every Pulse call.
	PulseDefaults PulseConfig

	// OnSetTransform is called after every SetTransform with the clipped
	// transform in place.
	OnSetTransform func(*Node)

	// Metadata
	UserData any

	fig        *Figure
	parent     NodeID
	move       movementState
	pulse      pulseState
	scenarios  *orderedmap.OrderedMap
	animation  *scenarioTween
	animations []*Animation
	lastDraw   []Mat4
	disposed   bool
}

// nodeDefaults sets the default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.Transform = DefaultTransform(n.Name)
	n.Color = ColorWhite
	n.Opacity = 1
	n.IsShown = true
	n.Move = DefaultMoveConfig()
	n.PulseDefaults = DefaultPulseConfig()
	n.scenarios = orderedmap.New()
	n.pulse.num = 1
}

// Figure returns the figure that owns n.
func (n *Node) Figure() *Figure {
	return n.fig
}

// Parent returns n's parent, or nil for the root and detached nodes.
func (n *Node) Parent() *Node {
	if n.parent == 0 {
		return nil
	}
	return n.fig.nodes[n.parent]
}

// IsCollection reports whether n can hold children.
func (n *Node) IsCollection() bool {
	_, ok := n.Content.(*Collection)
	return ok
}

func (n *Node) collection(op string) *Collection {
	c, ok := n.Content.(*Collection)
	if !ok {
		panic(fmt.Sprintf("figura: %s on primitive node %q", op, n.Name))
	}
	return c
}

// thresholds returns the owning figure's thresholds.
func (n *Node) thresholds() Thresholds {
	if n.fig == nil {
		return DefaultThresholds()
	}
	return n.fig.thresholds
}

// --- Tree manipulation ---

func (n *Node) checkAdd(child *Node, op string) *Collection {
	if child == nil {
		panic("figura: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, op+" (parent)")
		debugCheckDisposed(child, op+" (child)")
	}
	c := n.collection(op)
	if child.fig != n.fig {
		panic("figura: child belongs to another figure")
	}
	if isAncestor(child, n) {
		panic("figura: adding child would create a cycle")
	}
	return c
}

// AddChild appends child to n's children, making it the top of the draw
// order. A child that already has a parent is moved.
// Panics if n is a primitive, child is nil, belongs to another figure or
// is an ancestor of n.
func (n *Node) AddChild(child *Node) {
	c := n.checkAdd(child, "AddChild")
	if p := child.Parent(); p != nil {
		p.removeChildByID(child.ID)
	}
	child.parent = n.ID
	c.children = append(c.children, child.ID)
	n.fig.structureChanged()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given draw-order index.
// Same reparenting and checks as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	c := n.checkAdd(child, "AddChildAt")
	if p := child.Parent(); p != nil {
		p.removeChildByID(child.ID)
	}
	if index < 0 || index > len(c.children) {
		panic("figura: child index out of range")
	}
	child.parent = n.ID
	c.children = append(c.children, 0)
	copy(c.children[index+1:], c.children[index:])
	c.children[index] = child.ID
	n.fig.structureChanged()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from n. In-flight movement, pulses and
// animations of the child's subtree are stopped with StopFreeze.
// Panics if child's parent is not n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.parent != n.ID || child.fig != n.fig {
		panic("figura: child's parent is not this node")
	}
	n.removeChildByID(child.ID)
	child.parent = 0
	child.stopSubtree(StopFreeze)
	n.fig.structureChanged()
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	c := n.collection("RemoveChildAt")
	if index < 0 || index >= len(c.children) {
		panic("figura: child index out of range")
	}
	child := n.fig.nodes[c.children[index]]
	n.RemoveChild(child)
	return child
}

// Remove detaches the child at the dotted path below n. It reports false
// when the path does not resolve.
func (n *Node) Remove(path string) bool {
	child, ok := n.Get(path)
	if !ok {
		return false
	}
	child.RemoveFromParent()
	return true
}

// RemoveFromParent detaches n from its parent.
// No-op if n has no parent.
func (n *Node) RemoveFromParent() {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
}

// RemoveChildren detaches all children of n. Children are not disposed.
func (n *Node) RemoveChildren() {
	c := n.collection("RemoveChildren")
	for _, id := range c.children {
		child := n.fig.nodes[id]
		child.parent = 0
		child.stopSubtree(StopFreeze)
	}
	c.children = c.children[:0]
	n.fig.structureChanged()
}

// Children returns n's children in draw order. Primitives have none.
func (n *Node) Children() []*Node {
	c, ok := n.Content.(*Collection)
	if !ok {
		return nil
	}
	out := make([]*Node, 0, len(c.children))
	for _, id := range c.children {
		out = append(out, n.fig.nodes[id])
	}
	return out
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	if c, ok := n.Content.(*Collection); ok {
		return len(c.children)
	}
	return 0
}

// ChildAt returns the child at the given draw-order index.
func (n *Node) ChildAt(index int) *Node {
	return n.fig.nodes[n.collection("ChildAt").children[index]]
}

// ChildIndex returns the draw-order index of child, or -1.
func (n *Node) ChildIndex(child *Node) int {
	c, ok := n.Content.(*Collection)
	if !ok {
		return -1
	}
	for i, id := range c.children {
		if id == child.ID {
			return i
		}
	}
	return -1
}

// SetChildIndex moves child to a new draw-order index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) {
	c := n.collection("SetChildIndex")
	if child.parent != n.ID {
		panic("figura: child's parent is not this node")
	}
	nc := len(c.children)
	if index < 0 || index >= nc {
		panic("figura: child index out of range")
	}
	oldIndex := n.ChildIndex(child)
	if oldIndex == index {
		return
	}
	if oldIndex < index {
		copy(c.children[oldIndex:], c.children[oldIndex+1:index+1])
	} else {
		copy(c.children[index+1:], c.children[index:oldIndex])
	}
	c.children[index] = child.ID
}

// ToFront moves n to the end of its parent's draw order so it is drawn
// last and touched first.
func (n *Node) ToFront() {
	if p := n.Parent(); p != nil {
		p.SetChildIndex(n, p.NumChildren()-1)
	}
}

// ToBack moves n to the start of its parent's draw order.
func (n *Node) ToBack() {
	if p := n.Parent(); p != nil {
		p.SetChildIndex(n, 0)
	}
}

// --- Disposal ---

// Dispose removes n from its parent, stops everything it is doing and
// deletes it and its descendants from the figure.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	if n.fig != nil && n.ID == n.fig.root {
		panic("figura: cannot dispose the root")
	}
	n.RemoveFromParent()
	n.dispose()
	n.fig.structureChanged()
}

func (n *Node) dispose() {
	n.stop(StopCancel)
	for _, child := range n.Children() {
		child.dispose()
	}
	delete(n.fig.nodes, n.ID)
	n.disposed = true
	n.Content = nil
	n.parent = 0
	n.OnSetTransform = nil
	n.UserData = nil
}

// IsDisposed returns true if n has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Paths ---

// Path returns the dotted path of n from the figure root. The root itself
// has an empty path.
func (n *Node) Path() string {
	var names []string
	for p := n; p != nil && p.parent != 0; p = p.Parent() {
		names = append(names, p.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ".")
}

// Get resolves a dotted path of child names below n. It reports false when
// any segment is missing, including when n is a primitive.
func (n *Node) Get(path string) (*Node, bool) {
	if path == "" {
		return n, true
	}
	key := pathKey(n.ID, path)
	if id, ok := n.fig.paths.Get(key); ok {
		if found, ok := n.fig.nodes[id]; ok {
			return found, true
		}
		n.fig.paths.Remove(key)
	}
	cur := n
	for _, name := range strings.Split(path, ".") {
		next := cur.childByName(name)
		if next == nil {
			return nil, false
		}
		cur = next
	}
	n.fig.paths.Add(key, cur.ID)
	return cur, true
}

// GetMany resolves several paths below n, skipping the ones that do not
// resolve.
func (n *Node) GetMany(paths ...string) []*Node {
	out := make([]*Node, 0, len(paths))
	for _, p := range paths {
		if found, ok := n.Get(p); ok {
			out = append(out, found)
		}
	}
	return out
}

func (n *Node) childByName(name string) *Node {
	c, ok := n.Content.(*Collection)
	if !ok {
		return nil
	}
	for _, id := range c.children {
		if child := n.fig.nodes[id]; child.Name == name {
			return child
		}
	}
	return nil
}

// SetName renames n.
func (n *Node) SetName(name string) {
	n.Name = name
	n.fig.structureChanged()
}

func pathKey(from NodeID, path string) string {
	return fmt.Sprintf("%d/%s", from, path)
}

// --- Visibility ---

// Show makes n visible.
func (n *Node) Show() { n.IsShown = true }

// Hide makes n invisible. Its descendants keep their own flags but are no
// longer shown or touchable in the hierarchy.
func (n *Node) Hide() { n.IsShown = false }

// ShowAll shows n and every descendant.
func (n *Node) ShowAll() {
	n.IsShown = true
	for _, child := range n.Children() {
		child.ShowAll()
	}
}

// HideAll hides n and every descendant.
func (n *Node) HideAll() {
	n.IsShown = false
	for _, child := range n.Children() {
		child.HideAll()
	}
}

// ShowOnly shows n and the nodes at the given paths (and their ancestors
// up to n) and hides every other descendant.
func (n *Node) ShowOnly(paths ...string) {
	n.IsShown = true
	for _, child := range n.Children() {
		child.HideAll()
	}
	for _, target := range n.GetMany(paths...) {
		for p := target; p != nil && p != n; p = p.Parent() {
			p.IsShown = true
		}
	}
}

// IsShownInHierarchy reports whether n and all its ancestors are shown.
func (n *Node) IsShownInHierarchy() bool {
	for p := n; p != nil; p = p.Parent() {
		if !p.IsShown {
			return false
		}
	}
	return true
}

// IsTouchableInHierarchy reports whether n is touchable and shown in the
// hierarchy.
func (n *Node) IsTouchableInHierarchy() bool {
	return n.IsTouchable && n.IsShownInHierarchy()
}

// SetTouchable makes n touchable, and movable too when movable is set.
func (n *Node) SetTouchable(movable bool) {
	n.IsTouchable = true
	if movable {
		n.IsMovable = true
	}
}

// SetMovable makes n touchable and movable with o merged over the current
// move settings.
func (n *Node) SetMovable(o MoveOptions) {
	n.IsTouchable = true
	n.IsMovable = true
	n.Move = MergeMoveConfig(n.Move, o)
}

// --- Transform ---

// SetTransform replaces n's transform with a copy of t clipped to the move
// bounds, then calls OnSetTransform.
func (n *Node) SetTransform(t *Transform) {
	clipped := t.Dup()
	n.clipToBounds(clipped)
	n.Transform = clipped
	if n.OnSetTransform != nil {
		n.OnSetTransform(n)
	}
}

// SetPosition sets the first translation.
func (n *Node) SetPosition(p Point) {
	t := n.Transform.Dup()
	t.UpdateTranslation(p)
	n.SetTransform(t)
}

// SetRotation sets the first rotation. It is a no-op when the transform
// has no rotation.
func (n *Node) SetRotation(angle float64) {
	t := n.Transform.Dup()
	if t.UpdateRotation(angle) == nil {
		n.SetTransform(t)
	}
}

// SetScale sets the first scale. It is a no-op when the transform has no
// scale.
func (n *Node) SetScale(s Point) {
	t := n.Transform.Dup()
	if t.UpdateScale(s) == nil {
		n.SetTransform(t)
	}
}

// Position returns the first translation, or the origin.
func (n *Node) Position() Point {
	p, _ := n.Transform.T()
	return p
}

// Rotation returns the first rotation angle, or 0.
func (n *Node) Rotation() float64 {
	r, _ := n.Transform.R()
	return r
}

// Scale returns the first scale, or (1, 1, 1).
func (n *Node) Scale() Point {
	s, ok := n.Transform.S()
	if !ok {
		return Point{1, 1, 1}
	}
	return s
}

// SetColor sets n's color.
func (n *Node) SetColor(c Color) { n.Color = c }

// SetColorAll sets the color of n and every descendant.
func (n *Node) SetColorAll(c Color) {
	n.Color = c
	for _, child := range n.Children() {
		child.SetColorAll(c)
	}
}

// --- Matrices ---

// localMatrix maps draw space to local space.
func (n *Node) localMatrix() Mat4 {
	return n.Transform.Matrix()
}

// copyMatrices returns one matrix per copy, or a single identity when n has
// no copies.
func (n *Node) copyMatrices() []Mat4 {
	if len(n.Copies) == 0 {
		return []Mat4{Identity()}
	}
	out := make([]Mat4, len(n.Copies))
	for i, c := range n.Copies {
		out[i] = c.Matrix()
	}
	return out
}

// FigureMatrix maps n's draw space to figure space without copies or any
// pulse overlay. Space conversion and hit testing use it so that pulsing
// does not move touch areas.
func (n *Node) FigureMatrix() Mat4 {
	return Mul(n.parentFigureMatrix(), n.localMatrix())
}

// parentFigureMatrix maps n's local space to figure space.
func (n *Node) parentFigureMatrix() Mat4 {
	if p := n.Parent(); p != nil {
		return p.FigureMatrix()
	}
	return Identity()
}

// DrawMatrix returns the first draw matrix: ancestors' draw matrix ×
// Transform × first copy × pulse × frozen pulse.
func (n *Node) DrawMatrix() Mat4 {
	return n.DrawMatrices()[0]
}

// DrawMatrices returns one draw matrix per drawn instance. A node with c
// Copies pulsing with Num copies, under a parent drawn k times, is drawn
// k × c × Num times.
func (n *Node) DrawMatrices() []Mat4 {
	parents := []Mat4{Identity()}
	if p := n.Parent(); p != nil {
		parents = p.DrawMatrices()
	}
	return n.composeDraw(parents)
}

func (n *Node) composeDraw(parents []Mat4) []Mat4 {
	local := n.localMatrix()
	copies := n.copyMatrices()
	overlays := n.pulse.overlays()
	out := make([]Mat4, 0, len(parents)*len(copies)*len(overlays))
	for _, p := range parents {
		base := Mul(p, local)
		for _, c := range copies {
			bc := Mul(base, c)
			for _, o := range overlays {
				out = append(out, Mul(bc, o))
			}
		}
	}
	return out
}

// LastDrawMatrices returns the draw matrices computed by the most recent
// Figure.Advance.
func (n *Node) LastDrawMatrices() []Mat4 {
	return n.lastDraw
}

// updateDrawMatrices stores n's draw matrices and recurses top-down.
func (n *Node) updateDrawMatrices(parents []Mat4) {
	n.lastDraw = n.composeDraw(parents)
	for _, child := range n.Children() {
		child.updateDrawMatrices(n.lastDraw)
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent() {
		if p == candidate {
			return true
		}
	}
	return false
}

func (n *Node) removeChildByID(id NodeID) {
	c := n.collection("RemoveChild")
	for i, cid := range c.children {
		if cid == id {
			copy(c.children[i:], c.children[i+1:])
			c.children = c.children[:len(c.children)-1]
			return
		}
	}
}

// stop ends n's movement, pulse and animations with how.
func (n *Node) stop(how StopHow) {
	n.StopAnimating(how)
	n.StopAnimations(how)
	n.StopPulsing(how)
	n.StopBeingMoved(n.fig.Now())
	n.StopMovingFreely(how)
}

func (n *Node) stopSubtree(how StopHow) {
	n.stop(how)
	for _, child := range n.Children() {
		child.stopSubtree(how)
	}
}

// walk calls fn for n and every descendant in draw order, parents first.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children() {
		child.walk(fn)
	}
}
