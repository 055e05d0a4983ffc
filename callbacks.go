package figura

import "sort"

// StopHow says how a movement, pulse or animation ended.
type StopHow uint8

const (
	StopCancel   StopHow = iota // stopped where it was, flagged as cancelled
	StopFreeze                  // stopped where it was
	StopComplete                // jumped to its end state
)

// String returns the stop mode name.
func (h StopHow) String() string {
	switch h {
	case StopCancel:
		return "cancel"
	case StopFreeze:
		return "freeze"
	case StopComplete:
		return "complete"
	}
	return "unknown"
}

// CallbackID identifies a registered callback.
type CallbackID uint32

// Callback is a resolved completion notification. The zero value does
// nothing when called.
type Callback struct {
	id   CallbackID
	name string
	fn   func(StopHow)
}

// Func wraps fn as an anonymous callback that is not in any registry.
func Func(fn func(StopHow)) Callback {
	return Callback{fn: fn}
}

// ID returns the registry id, or 0 for anonymous callbacks.
func (c Callback) ID() CallbackID { return c.id }

// Name returns the registered name, or "" for anonymous callbacks.
func (c Callback) Name() string { return c.name }

// IsZero reports whether the callback has no function.
func (c Callback) IsZero() bool { return c.fn == nil }

// Call runs the callback. Calling the zero Callback is a no-op.
func (c Callback) Call(how StopHow) {
	if c.fn != nil {
		c.fn(how)
	}
}

// CallbackRegistry maps stable names to typed callbacks. Names are resolved
// once, when a node is configured, and the resolved Callback is stored on
// the node.
type CallbackRegistry struct {
	nextID CallbackID
	byName map[string]Callback
}

// NewCallbackRegistry returns an empty registry.
func NewCallbackRegistry() *CallbackRegistry {
	return &CallbackRegistry{byName: make(map[string]Callback)}
}

// Register adds fn under name, replacing any previous entry, and returns
// the resolved callback.
func (r *CallbackRegistry) Register(name string, fn func(StopHow)) Callback {
	r.nextID++
	cb := Callback{id: r.nextID, name: name, fn: fn}
	r.byName[name] = cb
	return cb
}

// Resolve returns the callback registered under name.
func (r *CallbackRegistry) Resolve(name string) (Callback, bool) {
	cb, ok := r.byName[name]
	if !ok && globalDebug {
		debugLog("callback %q is not registered", name)
	}
	return cb, ok
}

// Unregister removes name. Callbacks already resolved keep working.
func (r *CallbackRegistry) Unregister(name string) {
	delete(r.byName, name)
}

// Names returns the registered names in sorted order.
func (r *CallbackRegistry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
