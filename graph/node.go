package graph

import (
	"github.com/reviv-lang/reviv/scope"
	"github.com/reviv-lang/reviv/value"
)

// Node is a Scope Node, per spec §3 and §4.3: exactly one per distinct
// Scope Frame that some emitted Consumer actually reaches. Nodes chain
// into a forest mirroring the lexical nesting of the frames they wrap
// — Parent is the Scope Node for the frame one level further out in
// the same function's Frames list.
type Node struct {
	Frame    *scope.Frame
	Parent   *Node
	Children []*Node

	// Needed is the union, across every Consumer attached anywhere in
	// this node's subtree, of the Bindings it reads or writes from
	// this frame (spec §4.3 rule 3). Keyed by binding name.
	Needed map[string]*scope.Binding

	// Written marks bindings some Consumer assigns to, forcing the
	// factory this node becomes to allocate a shared mutable cell
	// rather than a plain captured parameter (spec §4.3 rule 4).
	Written map[string]bool

	// Consumers attached directly to this node: functions (or
	// computed-key captures, see Consumer.IsComputedKey) whose deepest
	// referenced Scope Node is this one (spec §4.3 rule 5, the
	// "placement rule").
	Consumers []*Consumer

	firstSeen int
}

func newNode(frame *scope.Frame, seen int) *Node {
	return &Node{
		Frame:     frame,
		Needed:    make(map[string]*scope.Binding),
		Written:   make(map[string]bool),
		firstSeen: seen,
	}
}

// Consumer is a function (or a value whose computed property key
// closes over a binding — see IsComputedKey) that depends on one or
// more Scope Nodes, per the spec §3 glossary entry. Only function
// consumers are discovered by Builder.Build today; IsComputedKey
// exists so the Emitter's contract does not need to change if a
// future instrumentation layer starts reporting computed-key captures
// (this repository's value model resolves property keys before they
// reach the classifier, so no such capture is produced).
type Consumer struct {
	Value         *value.Value
	Record        *scope.FunctionRecord
	DeepestNode   *Node
	IsComputedKey bool

	firstSeen int
}

// Graph is the Scope Graph Builder's output: every allocated Scope
// Node, the subset with no parent (one per top-level factory chain),
// and a lookup from Scope Frame identity to the Node wrapping it.
type Graph struct {
	Nodes   []*Node // discovery order, stable across runs over the same input
	Roots   []*Node
	ByFrame map[scope.FrameKey]*Node
}

func (g *Graph) NodeFor(key scope.FrameKey) (*Node, bool) {
	n, ok := g.ByFrame[key]
	return n, ok
}
