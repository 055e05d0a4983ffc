package figura

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	fn()
	_ = w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

// ---- Debug mode tests ------------------------------------------------------

func TestDebugMode_DisposedNodePanics(t *testing.T) {
	f := newTestFigure()
	f.SetDebugMode(true)
	defer f.SetDebugMode(false)

	parent := f.NewCollection("parent")
	f.Add(parent)
	child := f.NewPrimitive("child", Rectangle(1, 1))
	child.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with disposed node, got none")
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()

	parent.AddChild(child)
}

func TestDebugMode_DisposedParentPanics(t *testing.T) {
	f := newTestFigure()
	f.SetDebugMode(true)
	defer f.SetDebugMode(false)

	parent := f.NewCollection("parent")
	parent.Dispose()
	child := f.NewPrimitive("child", Rectangle(1, 1))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild to disposed parent, got none")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()

	parent.AddChild(child)
}

func TestReleaseMode_DisposedNodeNoDebugPanic(t *testing.T) {
	f := newTestFigure()
	f.SetDebugMode(false)

	parent := f.NewCollection("parent")
	f.Add(parent)
	child := f.NewPrimitive("child", Rectangle(1, 1))
	child.Dispose()

	// Release mode skips the disposed check; any panic must come from
	// elsewhere.
	defer func() {
		if r := recover(); r != nil {
			if msg := fmt.Sprint(r); strings.Contains(msg, "disposed") {
				t.Errorf("release mode should not panic on disposed node, got: %s", msg)
			}
		}
	}()
	parent.AddChild(child)
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	f := newTestFigure()
	f.SetDebugMode(true)
	defer f.SetDebugMode(false)

	output := captureStderr(t, func() {
		current := f.Root()
		for i := 0; i < debugMaxTreeDepth+5; i++ {
			child := f.NewCollection(fmt.Sprintf("depth_%d", i))
			current.AddChild(child)
			current = child
		}
	})
	if !strings.Contains(output, "warning: tree depth") {
		t.Errorf("expected tree depth warning in stderr, got: %q", output)
	}
}

func TestDebugMode_ChildCountWarning(t *testing.T) {
	f := newTestFigure()
	f.SetDebugMode(true)
	defer f.SetDebugMode(false)

	output := captureStderr(t, func() {
		parent := f.NewCollection("many_children")
		f.Add(parent)
		for i := 0; i < debugMaxChildCount+1; i++ {
			parent.AddChild(f.NewCollection(fmt.Sprintf("c_%d", i)))
		}
	})
	if !strings.Contains(output, "warning: node") || !strings.Contains(output, "children") {
		t.Errorf("expected child count warning in stderr, got: %q", output)
	}
}

func TestDebugMode_SingularMatrixDump(t *testing.T) {
	f := newTestFigure()
	f.SetDebugMode(true)
	defer f.SetDebugMode(false)

	n := f.NewPrimitive("flat", Rectangle(1, 1))
	f.Add(n)
	n.SetScale(Point{0, 0, 1})

	output := captureStderr(t, func() {
		_, _ = n.TransformPoint(Point{}, SpaceFigure, SpaceDraw)
	})
	if !strings.Contains(output, "figure to draw") || !strings.Contains(output, "flat") {
		t.Errorf("expected node dump in stderr, got: %q", output)
	}
}

func TestDebugMode_UnresolvedCallback(t *testing.T) {
	f := newTestFigure()
	f.SetDebugMode(true)
	defer f.SetDebugMode(false)

	output := captureStderr(t, func() {
		if _, ok := f.Callbacks().Resolve("nope"); ok {
			t.Error("unregistered callback resolved")
		}
	})
	if !strings.Contains(output, `callback "nope"`) {
		t.Errorf("expected unresolved callback warning, got: %q", output)
	}
}

func TestReleaseMode_Silent(t *testing.T) {
	f := newTestFigure()
	f.SetDebugMode(false)
	n := f.NewPrimitive("flat", Rectangle(1, 1))
	f.Add(n)
	n.SetScale(Point{0, 0, 1})

	output := captureStderr(t, func() {
		_, _ = n.TransformPoint(Point{}, SpaceFigure, SpaceDraw)
		_, _ = f.Callbacks().Resolve("nope")
	})
	if output != "" {
		t.Errorf("release mode wrote to stderr: %q", output)
	}
}
