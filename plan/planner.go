// Package plan implements the Dependency Planner & Cycle Breaker of
// spec §4.4: it turns a Scope Graph (package graph) plus the value
// graph it was built from into one deterministic, flat sequence of
// construction Steps the Emitter can walk without ever having to
// reason about ordering or cycles itself.
//
// Grounded on bytecode/emitter.go's shape (a stateful builder walking
// a tree once, appending to one flat output slice) for the walk, and
// on uber-go-dig/internal/graph/graph.go's recursiveDetectCycles
// on-stack marking for the general idea of detecting a back-edge —
// reimplemented locally since that package is internal/ and not
// importable. Unlike dig's graph, Scope Node parent links can never
// cycle (a frame cannot lexically enclose itself); the cycles this
// planner actually breaks live in the value graph, where a Scope
// Node's own binding can point at a function built inside that same
// node's subtree (spec glossary, "Trampoline").
package plan

import (
	"sort"

	"github.com/reviv-lang/reviv/faults"
	"github.com/reviv-lang/reviv/graph"
	"github.com/reviv-lang/reviv/value"
)

// Planner runs one Dependency Planner pass. Construct one per run via
// NewPlanner, call Build once.
type Planner struct {
	g *graph.Graph
}

func NewPlanner(g *graph.Graph) *Planner {
	return &Planner{g: g}
}

// Build produces the complete Plan for root, given g (root's already
// computed Scope Graph). root need not be g's original walk root —
// callers always pass the same value, this signature just keeps the
// dependency explicit.
func (p *Planner) Build(root *value.Value) (*Plan, error) {
	nodePlans, nodeIndex, err := p.buildNodePlans()
	if err != nil {
		return nil, err
	}

	consumerNode := make(map[value.Identity]*graph.Node)
	for _, n := range p.g.Nodes {
		for _, c := range n.Consumers {
			consumerNode[c.Value.Identity] = n
		}
	}

	sb := &stepBuilder{
		nodePlans:     nodePlans,
		nodeIndex:     nodeIndex,
		consumerNode:  consumerNode,
		declaredNodes: make(map[*graph.Node]bool),
		constructed:   make(map[value.Identity]bool),
		values:        make(map[value.Identity]*value.Value),
	}
	sb.walk(root)

	// Trampoline installs run last, in NodePlan order, after every
	// value (including every trampoline target) has already been
	// constructed by the walk above — so declare-before-use holds
	// trivially without needing to interleave this with the walk.
	for idx, np := range nodePlans {
		for _, b := range np.Bindings {
			if !b.Trampoline {
				continue
			}
			if b.Value == nil {
				return nil, faults.New(faults.KindInternalInvariant, nil,
					"node %s: trampoline binding %q has no bound value", np.Node.Frame.Key.BlockID, b.Name)
			}
			sb.steps = append(sb.steps, Step{
				Op: OpInstallTrampoline, NodeIndex: idx, BindingName: b.Name, ValueID: b.Value.Identity,
			})
		}
	}
	sb.steps = append(sb.steps, Step{Op: OpReturnRoot, ValueID: root.Identity})

	return &Plan{NodePlans: nodePlans, Steps: sb.steps, RootID: root.Identity, Values: sb.values}, nil
}

// buildNodePlans implements spec §4.4's binding classification: every
// Needed binding in the Scope Graph is either a plain captured value
// or a Trampoline target, the latter when the binding's value is
// itself one of the Consumers hosted by this node or any descendant
// (a function referencing, through its own scope chain, a sibling or
// itself that has not been constructed yet).
func (p *Planner) buildNodePlans() ([]*NodePlan, map[*graph.Node]int, error) {
	subtree := make(map[*graph.Node]map[value.Identity]bool)
	for _, root := range p.g.Roots {
		collectSubtreeConsumers(root, subtree)
	}

	var ordered []*graph.Node
	var visit func(n *graph.Node)
	visit = func(n *graph.Node) {
		ordered = append(ordered, n)
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, r := range p.g.Roots {
		visit(r)
	}

	index := make(map[*graph.Node]int, len(ordered))
	for i, n := range ordered {
		index[n] = i
	}

	plans := make([]*NodePlan, len(ordered))
	for i, n := range ordered {
		names := make([]string, 0, len(n.Needed))
		for name := range n.Needed {
			names = append(names, name)
		}
		sort.Strings(names)

		subtreeIDs := subtree[n]
		bindings := make([]PlannedBinding, 0, len(names))
		for _, name := range names {
			v := n.Frame.Bindings[name]
			trampoline := v != nil && v.Kind == value.KindFunction && subtreeIDs[v.Identity]
			bindings = append(bindings, PlannedBinding{Name: name, Value: v, Trampoline: trampoline})
		}
		plans[i] = &NodePlan{Node: n, Bindings: bindings}
	}
	return plans, index, nil
}

func collectSubtreeConsumers(n *graph.Node, memo map[*graph.Node]map[value.Identity]bool) map[value.Identity]bool {
	if s, ok := memo[n]; ok {
		return s
	}
	set := make(map[value.Identity]bool)
	for _, c := range n.Consumers {
		set[c.Value.Identity] = true
	}
	for _, child := range n.Children {
		for id := range collectSubtreeConsumers(child, memo) {
			set[id] = true
		}
	}
	memo[n] = set
	return set
}

// stepBuilder walks the value graph once, emitting a flat Step
// sequence. It mirrors graph.Builder's walk shape but appends Steps
// instead of aggregating binding usage.
type stepBuilder struct {
	nodePlans     []*NodePlan
	nodeIndex     map[*graph.Node]int
	consumerNode  map[value.Identity]*graph.Node
	declaredNodes map[*graph.Node]bool
	constructed   map[value.Identity]bool
	values        map[value.Identity]*value.Value
	steps         []Step
}

// ensureNodeChain declares and invokes n's factory (and every
// ancestor's, parent-first) before the first Consumer that needs it
// is constructed, per spec §4.3 rule 2 ("parent before child") lifted
// into emission order.
func (sb *stepBuilder) ensureNodeChain(n *graph.Node) {
	if n == nil || sb.declaredNodes[n] {
		return
	}
	sb.ensureNodeChain(n.Parent)
	sb.declaredNodes[n] = true

	idx := sb.nodeIndex[n]
	np := sb.nodePlans[idx]
	hasTrampoline := false
	for _, b := range np.Bindings {
		if b.Trampoline {
			hasTrampoline = true
			continue
		}
		// An ordinary binding's value is passed into the factory
		// invocation as an argument, so it must be constructed before
		// that invocation even if nothing else in the object graph
		// ever references it as a property.
		sb.walk(b.Value)
	}
	if hasTrampoline {
		sb.steps = append(sb.steps, Step{Op: OpDeclareFactory, NodeIndex: idx})
	}
	sb.steps = append(sb.steps, Step{Op: OpInvokeFactory, NodeIndex: idx})
}

func (sb *stepBuilder) walk(v *value.Value) {
	if v == nil || v.Kind.IsPrimitive() {
		return
	}
	if sb.constructed[v.Identity] {
		return
	}
	sb.constructed[v.Identity] = true
	sb.values[v.Identity] = v

	if v.Kind == value.KindFunction {
		if n, ok := sb.consumerNode[v.Identity]; ok {
			sb.ensureNodeChain(n)
		}
	}
	sb.steps = append(sb.steps, Step{Op: OpConstructValue, ValueID: v.Identity})

	if v.Kind == value.KindFunction && v.Function != nil {
		sb.walk(v.Function.BoundTarget)
		sb.walk(v.Function.BoundThis)
		for _, a := range v.Function.BoundArgs {
			sb.walk(a)
		}
		sb.walk(v.Function.Home)
	}

	if v.Props != nil {
		for _, e := range v.Props.Entries() {
			if e.Desc.IsAccessor() {
				sb.walk(e.Desc.Getter)
				sb.walk(e.Desc.Setter)
				step := Step{
					Op: OpDefineAccessor, ValueID: v.Identity, PropertyKey: e.Key,
					Enumerable: e.Desc.Enumerable, Configurable: e.Desc.Configurable,
				}
				if e.Desc.Getter != nil {
					step.GetterID = e.Desc.Getter.Identity
				}
				if e.Desc.Setter != nil {
					step.SetterID = e.Desc.Setter.Identity
				}
				sb.steps = append(sb.steps, step)
				continue
			}
			sb.walk(e.Desc.Value)
			var targetID value.Identity
			if e.Desc.Value != nil {
				targetID = e.Desc.Value.Identity
			}
			step := Step{
				Op: OpAssignProperty, ValueID: v.Identity, PropertyKey: e.Key, TargetID: targetID,
				Writable: e.Desc.Writable, Enumerable: e.Desc.Enumerable, Configurable: e.Desc.Configurable,
			}
			if !e.Desc.IsDefault() {
				step.Op = OpDefineAccessor
			}
			sb.steps = append(sb.steps, step)
		}
	}
	if !v.PrototypeIsNull && v.Prototype != nil {
		sb.walk(v.Prototype)
		sb.steps = append(sb.steps, Step{Op: OpSetPrototype, ValueID: v.Identity, TargetID: v.Prototype.Identity})
	}

	switch {
	case v.Frozen:
		sb.steps = append(sb.steps, Step{Op: OpFreeze, ValueID: v.Identity})
	case v.Sealed:
		sb.steps = append(sb.steps, Step{Op: OpSeal, ValueID: v.Identity})
	case !v.Extensible:
		sb.steps = append(sb.steps, Step{Op: OpPreventExtensions, ValueID: v.Identity})
	}
}
