package figura

import "testing"

func TestCallbackZeroValue(t *testing.T) {
	var cb Callback
	if !cb.IsZero() || cb.ID() != 0 || cb.Name() != "" {
		t.Errorf("zero callback = %+v", cb)
	}
	cb.Call(StopComplete)
}

func TestFuncIsAnonymous(t *testing.T) {
	var got StopHow = 99
	cb := Func(func(h StopHow) { got = h })
	if cb.IsZero() || cb.ID() != 0 || cb.Name() != "" {
		t.Errorf("anonymous callback = id %d name %q", cb.ID(), cb.Name())
	}
	cb.Call(StopFreeze)
	if got != StopFreeze {
		t.Errorf("got %v, want freeze", got)
	}
}

func TestCallbackRegistry(t *testing.T) {
	r := NewCallbackRegistry()
	var calls []string
	a := r.Register("a", func(h StopHow) { calls = append(calls, "a:"+h.String()) })
	b := r.Register("b", func(h StopHow) { calls = append(calls, "b:"+h.String()) })
	if a.ID() == b.ID() || a.Name() != "a" {
		t.Errorf("ids %d %d name %q", a.ID(), b.ID(), a.Name())
	}

	got, ok := r.Resolve("b")
	if !ok || got.ID() != b.ID() {
		t.Fatalf("Resolve(b) = %v, %v", got.ID(), ok)
	}
	got.Call(StopCancel)
	a.Call(StopComplete)
	assertStrings(t, "calls", calls, []string{"b:cancel", "a:complete"})
	assertStrings(t, "names", r.Names(), []string{"a", "b"})

	r.Unregister("a")
	if _, ok := r.Resolve("a"); ok {
		t.Error("unregistered name still resolves")
	}
	a.Call(StopFreeze)
	if calls[len(calls)-1] != "a:freeze" {
		t.Error("resolved callback stopped working after Unregister")
	}
}

func TestCallbackRegistryReplace(t *testing.T) {
	r := NewCallbackRegistry()
	first := r.Register("x", func(StopHow) {})
	second := r.Register("x", func(StopHow) {})
	got, _ := r.Resolve("x")
	if got.ID() != second.ID() || got.ID() == first.ID() {
		t.Errorf("Resolve returned id %d, want %d", got.ID(), second.ID())
	}
	if len(r.Names()) != 1 {
		t.Errorf("names = %v", r.Names())
	}
}

func TestStopHowString(t *testing.T) {
	tests := map[StopHow]string{
		StopCancel:   "cancel",
		StopFreeze:   "freeze",
		StopComplete: "complete",
		StopHow(42):  "unknown",
	}
	for h, want := range tests {
		if got := h.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", h, got, want)
		}
	}
}

func TestRegisteredCallbackOnPulse(t *testing.T) {
	f := newTestFigure()
	n := f.NewPrimitive("a", Rectangle(1, 1))
	f.Add(n)
	var hows []StopHow
	f.Callbacks().Register("done", func(h StopHow) { hows = append(hows, h) })

	cb, ok := f.Callbacks().Resolve("done")
	if !ok {
		t.Fatal("done not registered")
	}
	n.Pulse(PulseOptions{Done: cb})
	n.StopPulsing(StopCancel)
	if len(hows) != 1 || hows[0] != StopCancel {
		t.Errorf("hows = %v", hows)
	}
}
