package figura

import (
	"strings"

	"github.com/brunoga/deep"
)

// ScenarioKeys selects which properties a scenario records.
type ScenarioKeys uint8

const (
	KeyTransform ScenarioKeys = 1 << iota // the whole transform
	KeyColor                              // Color
	KeyIsShown                            // IsShown
	KeyPosition                           // first translation only
	KeyRotation                           // first rotation only
	KeyScale                              // first scale only
)

// DefaultScenarioKeys are recorded when SaveScenario is given no keys.
const DefaultScenarioKeys = KeyTransform | KeyColor | KeyIsShown

// String lists the keys, e.g. "transform|color".
func (k ScenarioKeys) String() string {
	names := []string{"transform", "color", "isShown", "position", "rotation", "scale"}
	var out []string
	for i, name := range names {
		if k&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return "none"
	}
	return strings.Join(out, "|")
}

// Scenario is a named set of node properties. Only the properties in Keys
// are meaningful.
type Scenario struct {
	Keys      ScenarioKeys `msgpack:"keys"`
	Transform []Component  `msgpack:"transform,omitempty"`
	Color     Color        `msgpack:"color"`
	IsShown   bool         `msgpack:"isShown"`
	Position  Point        `msgpack:"position"`
	Rotation  float64      `msgpack:"rotation"`
	Scale     Point        `msgpack:"scale"`
}

// Has reports whether s records every key in k.
func (s Scenario) Has(k ScenarioKeys) bool {
	return s.Keys&k == k
}

// Dup returns a deep copy of s.
func (s Scenario) Dup() Scenario {
	return deep.MustCopy(s)
}

func combineKeys(keys []ScenarioKeys) ScenarioKeys {
	var k ScenarioKeys
	for _, x := range keys {
		k |= x
	}
	if k == 0 {
		return DefaultScenarioKeys
	}
	return k
}

// CurrentScenario returns n's present state for the given keys (default
// transform, color and isShown).
func (n *Node) CurrentScenario(keys ...ScenarioKeys) Scenario {
	s := Scenario{Keys: combineKeys(keys)}
	if s.Has(KeyTransform) {
		s.Transform = n.Transform.Components()
	}
	if s.Has(KeyColor) {
		s.Color = n.Color
	}
	if s.Has(KeyIsShown) {
		s.IsShown = n.IsShown
	}
	if s.Has(KeyPosition) {
		s.Position = n.Position()
	}
	if s.Has(KeyRotation) {
		s.Rotation = n.Rotation()
	}
	if s.Has(KeyScale) {
		s.Scale = n.Scale()
	}
	return s
}

// SaveScenario records n's present state under name. Saving over an
// existing name keeps its position in the scenario order.
func (n *Node) SaveScenario(name string, keys ...ScenarioKeys) {
	n.SetScenarioTarget(name, n.CurrentScenario(keys...))
}

// SetScenarioTarget stores s under name.
func (n *Node) SetScenarioTarget(name string, s Scenario) {
	n.scenarios.Set(name, s.Dup())
}

// ScenarioTarget returns the scenario saved under name.
func (n *Node) ScenarioTarget(name string) (Scenario, bool) {
	v, ok := n.scenarios.Get(name)
	if !ok {
		return Scenario{}, false
	}
	return v.(Scenario).Dup(), true
}

// ScenarioNames returns the saved scenario names in the order they were
// first saved.
func (n *Node) ScenarioNames() []string {
	return n.scenarios.Keys()
}

// DeleteScenario removes the scenario saved under name.
func (n *Node) DeleteScenario(name string) {
	n.scenarios.Delete(name)
}

// SetScenario applies the scenario saved under name in one step. It reports
// false when n has no such scenario.
func (n *Node) SetScenario(name string) bool {
	s, ok := n.ScenarioTarget(name)
	if !ok {
		return false
	}
	n.applyScenario(s)
	Logger().Info("set scenario", "node", n.Name, "scenario", name)
	return true
}

// applyScenario applies s: transform first (through SetTransform), then
// visibility, then color.
func (n *Node) applyScenario(s Scenario) {
	t := n.scenarioTransform(s)
	if t != nil {
		n.SetTransform(t)
	}
	if s.Has(KeyIsShown) {
		n.IsShown = s.IsShown
	}
	if s.Has(KeyColor) {
		n.Color = s.Color
	}
}

// scenarioTransform returns the transform s asks for, or nil when s does
// not touch the transform.
func (n *Node) scenarioTransform(s Scenario) *Transform {
	if !s.Has(KeyTransform) && !s.Has(KeyPosition) && !s.Has(KeyRotation) && !s.Has(KeyScale) {
		return nil
	}
	t := n.Transform.Dup()
	if s.Has(KeyTransform) {
		t = NewTransformFrom(n.Transform.Name, s.Transform)
	}
	if s.Has(KeyPosition) {
		t.UpdateTranslation(s.Position)
	}
	if s.Has(KeyRotation) {
		_ = t.UpdateRotation(s.Rotation)
	}
	if s.Has(KeyScale) {
		_ = t.UpdateScale(s.Scale)
	}
	return t
}

// IsInScenario reports whether n matches the scenario saved under name
// within the figure's StateDelta.
func (n *Node) IsInScenario(name string) bool {
	s, ok := n.ScenarioTarget(name)
	if !ok {
		return false
	}
	delta := n.thresholds().StateDelta
	if t := n.scenarioTransform(s); t != nil {
		if !n.Transform.IsEqualShapeTo(t) || !n.Transform.IsWithinDelta(t, delta) {
			return false
		}
	}
	if s.Has(KeyColor) && !n.Color.WithinDelta(s.Color, delta) {
		return false
	}
	if s.Has(KeyIsShown) && n.IsShown != s.IsShown {
		return false
	}
	return true
}

// SetScenarios applies the scenario name to every node that has saved it.
// It returns the number of nodes changed.
func (f *Figure) SetScenarios(name string) int {
	count := 0
	f.Walk(func(n *Node) {
		if n.SetScenario(name) {
			count++
		}
	})
	return count
}

// SaveScenarios saves the present state of every node under name.
func (f *Figure) SaveScenarios(name string, keys ...ScenarioKeys) {
	f.Walk(func(n *Node) { n.SaveScenario(name, keys...) })
}
