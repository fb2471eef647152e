package plan

import (
	"github.com/reviv-lang/reviv/graph"
	"github.com/reviv-lang/reviv/value"
)

// PlannedBinding is one Scope Node binding as the Planner resolved it:
// either an ordinary captured value (passed into the node's factory
// as a parameter) or a Trampoline target, whose assignment must be
// deferred until after the value it points to is itself constructed
// (spec §4.4, the glossary's "Trampoline" entry).
type PlannedBinding struct {
	Name       string
	Value      *value.Value
	Trampoline bool
}

// NodePlan is one Scope Node's construction plan: its bindings in a
// deterministic order, tagged with whether each needs trampoline
// treatment, and the Consumers it hosts (carried through from
// package graph unchanged — the Emitter renders these directly).
type NodePlan struct {
	Node     *graph.Node
	Bindings []PlannedBinding
}

// Step is one entry in a Plan's flat, ordered action sequence. Not
// every field is meaningful for every Op; see StepOp's doc comments
// for which fields a given Op reads.
type Step struct {
	Op          StepOp
	NodeIndex   int // index into Plan.NodePlans; left at zero when Op is not node-related
	ValueID     value.Identity
	PropertyKey value.PropKey
	BindingName string

	// TargetID is the identity of the value a step's action points
	// at: the property value for OpAssignProperty and for an
	// OpDefineAccessor restoring a non-default data descriptor, the
	// prototype for OpSetPrototype (zero when that value is a
	// primitive, which carries no Identity). Unused (zero) otherwise.
	TargetID value.Identity
	// GetterID/SetterID carry the accessor pair for OpDefineAccessor;
	// either may be zero if that half of the pair is absent.
	GetterID value.Identity
	SetterID value.Identity

	// Writable/Enumerable/Configurable carry the descriptor's attribute
	// bits for OpAssignProperty/OpDefineAccessor, so the Emitter can
	// tell a plain `obj.key = v` from a case that needs
	// Object.defineProperty purely to pin down non-default attributes
	// (Writable is meaningless for an accessor descriptor).
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// Plan is the Dependency Planner's complete output: the Scope Node
// plans in parent-before-child (topological) order, the flat step
// sequence the Emitter walks to produce output text, and the full set
// of values the walk reached (so the Emitter can look up a Step's
// ValueID/TargetID back to the *value.Value it names without
// re-walking the graph itself).
type Plan struct {
	NodePlans []*NodePlan
	Steps     []Step
	RootID    value.Identity
	Values    map[value.Identity]*value.Value
}

// nodePlanAt returns the NodePlan at index i, or nil when i is out of
// range.
func (p *Plan) nodePlanAt(i int) *NodePlan {
	if i < 0 || i >= len(p.NodePlans) {
		return nil
	}
	return p.NodePlans[i]
}
