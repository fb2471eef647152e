// Package graph implements the Scope Graph Builder of spec §4.3: it
// walks the classified value graph, extracts every function's
// captured frames through package scope, and assembles the Scope
// Node forest the Dependency Planner consumes next.
//
// Grounded on checker/checker.go's scope/symbol-table bookkeeping
// style — a handful of rule-numbered methods mutating one shared
// table as a DFS descends — generalized from "resolve a name against
// enclosing scopes" to "aggregate binding usage against enclosing
// Scope Nodes". Sibling/child ordering is kept deterministic by a
// sort.SliceStable pass over plain slices (source position, then
// first-encounter index), not by an ordered map.
package graph

import (
	"fmt"
	"sort"

	"github.com/reviv-lang/reviv/faults"
	"github.com/reviv-lang/reviv/host"
	"github.com/reviv-lang/reviv/scope"
	"github.com/reviv-lang/reviv/value"
)

// noTracker stands in for a function the caller supplied no Tracker
// for, so Extract always sees a real (ok==false) response rather than
// needing a nil check at every call site — mirroring
// bytecode/vm/ffi_registry.go's convention of a registered no-op
// handler instead of nil special-casing.
type noTracker struct{}

func (noTracker) Track(scope.Token) (scope.TrackResult, bool) { return scope.TrackResult{}, false }

// Builder runs one Scope Graph Builder pass over one value graph.
// Each Builder is single-use: construct one per serialization run via
// NewBuilder, call Build once.
type Builder struct {
	extractor  *scope.Extractor
	trackers   map[value.Identity]scope.Tracker
	classifier *value.Classifier
	catalog    *host.BlockCatalog // optional; nil means fall back to first-seen ordering only

	nodesByFrame map[scope.FrameKey]*Node
	order        []*Node
	visited      map[value.Identity]bool
	seq          int
}

// NewBuilder constructs a Builder for one run. catalog may be nil if
// the caller has no Block catalog (e.g. in tests exercising the
// builder in isolation); sibling Scope Nodes then order purely by
// first-encounter index, per the fallback spec §9 documents.
func NewBuilder(extractor *scope.Extractor, trackers map[value.Identity]scope.Tracker, classifier *value.Classifier, catalog *host.BlockCatalog) *Builder {
	return &Builder{
		extractor:    extractor,
		trackers:     trackers,
		classifier:   classifier,
		catalog:      catalog,
		nodesByFrame: make(map[scope.FrameKey]*Node),
		visited:      make(map[value.Identity]bool),
	}
}

// Build walks root and every value reachable from it, producing the
// Scope Node forest. Cyclic value graphs (an object property pointing
// back to an ancestor) are handled by the visited set below; breaking
// *emission* cycles among Scope Nodes is the Dependency Planner's job
// (package plan), not this one's — the builder only needs to not loop
// forever while aggregating usage.
func (b *Builder) Build(root *value.Value) (*Graph, error) {
	if err := b.walk(root, faults.Path{"$"}); err != nil {
		return nil, err
	}

	g := &Graph{
		Nodes:   b.order,
		ByFrame: b.nodesByFrame,
	}
	for _, n := range b.order {
		b.sortChildren(n)
		b.sortConsumers(n)
		if n.Parent == nil {
			g.Roots = append(g.Roots, n)
		}
	}
	return g, nil
}

func (b *Builder) walk(v *value.Value, path faults.Path) error {
	if v == nil || v.Kind.IsPrimitive() {
		return nil
	}
	if b.visited[v.Identity] {
		return nil
	}
	b.visited[v.Identity] = true

	if v.Kind == value.KindFunction {
		tr, ok := b.trackers[v.Identity]
		if !ok {
			tr = noTracker{}
		}
		record, err := b.extractor.Extract(v, tr, path)
		if err != nil {
			return err
		}
		b.attachConsumer(v, record)

		if v.Function != nil {
			if err := b.walk(v.Function.BoundTarget, path.Push("[[BoundTarget]]")); err != nil {
				return err
			}
			if err := b.walk(v.Function.BoundThis, path.Push("[[BoundThis]]")); err != nil {
				return err
			}
			for i, a := range v.Function.BoundArgs {
				if err := b.walk(a, path.Push(fmt.Sprintf("[[BoundArgs]][%d]", i))); err != nil {
					return err
				}
			}
			if err := b.walk(v.Function.Home, path.Push("[[Home]]")); err != nil {
				return err
			}
		}
	}

	if v.Props != nil {
		for _, e := range v.Props.Entries() {
			keyPath := path.Push(e.Key.String())
			if e.Desc.IsAccessor() {
				if err := b.walk(e.Desc.Getter, keyPath.Push("[[Get]]")); err != nil {
					return err
				}
				if err := b.walk(e.Desc.Setter, keyPath.Push("[[Set]]")); err != nil {
					return err
				}
			} else if err := b.walk(e.Desc.Value, keyPath); err != nil {
				return err
			}
		}
	}
	if !v.PrototypeIsNull && v.Prototype != nil {
		if err := b.walk(v.Prototype, path.Push("[[Prototype]]")); err != nil {
			return err
		}
	}
	return nil
}

// nodeFor allocates-or-returns the Scope Node for a Frame (spec §4.3
// rule 1: "Exactly one Scope Node per live Scope Frame").
func (b *Builder) nodeFor(frame *scope.Frame) *Node {
	n, ok := b.nodesByFrame[frame.Key]
	if ok {
		return n
	}
	n = newNode(frame, b.seq)
	b.seq++
	b.nodesByFrame[frame.Key] = n
	b.order = append(b.order, n)
	return n
}

// attachConsumer implements rules 2 through 5 of spec §4.3 for one
// function: link its frame chain (innermost-to-outermost, matching
// the order package scope already guarantees), aggregate needed and
// written bindings at every frame it touches, and place the Consumer
// itself at the deepest node it reaches.
func (b *Builder) attachConsumer(v *value.Value, record *scope.FunctionRecord) {
	if len(record.Frames) == 0 {
		return // closes over nothing: no Scope Node to attach to
	}

	// Rule 2: link each frame to the next outward frame in the same
	// chain. Frames are reported innermost-first (scope.TrackResult's
	// documented order), so Frames[i] nests directly inside
	// Frames[i+1].
	nodes := make([]*Node, len(record.Frames))
	for i, u := range record.Frames {
		nodes[i] = b.nodeFor(u.Frame)
	}
	for i := 0; i < len(nodes)-1; i++ {
		child, parent := nodes[i], nodes[i+1]
		if child.Parent == nil {
			child.Parent = parent
			parent.Children = append(parent.Children, child)
		}
		// A child already linked to a different parent would mean the
		// same Scope Frame was reported nested inside two distinct
		// outer frames, which package scope's frame-sharing contract
		// rules out; nothing further to reconcile here.
	}

	// Rule 3 (needed) and rule 4 (written): union this function's
	// reads/writes into every frame it touches, not just the deepest.
	for i, u := range record.Frames {
		node := nodes[i]
		for name := range u.Reads {
			b.mergeBinding(node, name, scope.Binding{Read: true})
		}
		for name := range u.Writes {
			b.mergeBinding(node, name, scope.Binding{Written: true})
			node.Written[name] = true
		}
	}

	// Rule 5, the placement rule: attach the Consumer to the deepest
	// Scope Node it reaches.
	deepest := nodes[0]
	deepest.Consumers = append(deepest.Consumers, &Consumer{
		Value:       v,
		Record:      record,
		DeepestNode: deepest,
		firstSeen:   b.seq,
	})
	b.seq++
}

func (b *Builder) mergeBinding(node *Node, name string, flags scope.Binding) {
	existing, ok := node.Needed[name]
	if !ok {
		cp := flags
		cp.Name = name
		node.Needed[name] = &cp
		return
	}
	existing.Merge(flags)
}

// sortChildren orders a node's children by the enclosing Block's
// SourcePos when a catalog is available, falling back to
// first-encounter index (Open Question decision 2, DESIGN.md).
func (b *Builder) sortChildren(n *Node) {
	if len(n.Children) < 2 {
		return
	}
	sort.SliceStable(n.Children, func(i, j int) bool {
		pi, oki := b.sourcePos(n.Children[i])
		pj, okj := b.sourcePos(n.Children[j])
		if oki && okj && pi != pj {
			return pi < pj
		}
		return n.Children[i].firstSeen < n.Children[j].firstSeen
	})
}

// sortConsumers orders the consumers attached directly to one node by
// first-encounter index — the function-literal-position analogue of
// sortChildren, using the only ordering signal this value-graph-only
// model carries for functions discovered at the same Scope Node.
func (b *Builder) sortConsumers(n *Node) {
	if len(n.Consumers) < 2 {
		return
	}
	sort.SliceStable(n.Consumers, func(i, j int) bool {
		return n.Consumers[i].firstSeen < n.Consumers[j].firstSeen
	})
}

func (b *Builder) sourcePos(n *Node) (int, bool) {
	if b.catalog == nil {
		return 0, false
	}
	blk, ok := b.catalog.Lookup(n.Frame.Key.BlockID)
	if !ok {
		return 0, false
	}
	return blk.SourcePos, true
}
