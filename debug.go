package figura

import (
	"fmt"
	"os"

	"github.com/goforj/godump"
)

// globalDebug enables extra runtime checks. Set by Figure.SetDebugMode.
var globalDebug bool

// debugLog prints a warning to stderr.
func debugLog(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[figura] warning: "+format+"\n", args...)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("figura debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent() {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLog("tree depth %d exceeds %d (node %q)", depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if c := n.NumChildren(); c > debugMaxChildCount {
		debugLog("node %q has %d children (threshold %d)", n.Name, c, debugMaxChildCount)
	}
}

// nodeDump is the part of a node's state worth printing when its matrices
// go bad.
type nodeDump struct {
	Path      string
	Transform string
	Copies    int
	Mode      string
	Velocity  string
	Pulsing   bool
	Frozen    int
}

// debugDumpNode writes n's state to stderr with godump.
func debugDumpNode(n *Node, reason string) {
	d := nodeDump{
		Path:      n.Path(),
		Transform: n.Transform.String(),
		Copies:    len(n.Copies),
		Mode:      n.move.mode.String(),
		Pulsing:   n.pulse.active,
		Frozen:    len(n.pulse.frozen),
	}
	if n.move.velocity != nil {
		d.Velocity = n.move.velocity.String()
	}
	debugLog("%s: node %q", reason, n.Name)
	godump.Fdump(os.Stderr, d)
}
