package graph

import (
	"testing"

	"github.com/reviv-lang/reviv/scope"
	"github.com/reviv-lang/reviv/value"
)

type stubTracker struct {
	result scope.TrackResult
}

func (s stubTracker) Track(scope.Token) (scope.TrackResult, bool) { return s.result, true }

func newFn(id value.Identity, name string) *value.Value {
	return value.NewFunction(id, &value.FunctionValue{SubKind: value.FnPlain, Name: name})
}

func newBuilder() (*Builder, *scope.Extractor, map[value.Identity]scope.Tracker) {
	trackers := make(map[value.Identity]scope.Tracker)
	extractor := scope.NewExtractor(scope.NewRunToken(1))
	return NewBuilder(extractor, trackers, value.NewClassifier(), nil), extractor, trackers
}

func TestBuildAllocatesOneNodePerFrame(t *testing.T) {
	b, _, trackers := newBuilder()

	fn := newFn(1, "f")
	trackers[1] = stubTracker{result: scope.TrackResult{
		Fingerprint: "fp",
		Frames: []scope.RawFrame{
			{BlockID: "outer", InstantiationID: 1, Bindings: map[string]*value.Value{"a": value.Number(1)}},
		},
	}}

	root := value.NewObject(100)
	root.Props.Set(value.StringKey("f"), value.Descriptor{Value: fn, Writable: true, Enumerable: true, Configurable: true})

	g, err := b.Build(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Nodes) != 1 {
		t.Fatalf("expected exactly 1 Scope Node, got %d", len(g.Nodes))
	}
	node := g.Nodes[0]
	if _, ok := node.Needed["a"]; !ok {
		t.Fatalf("expected node to need binding %q", "a")
	}
	if len(node.Consumers) != 1 || node.Consumers[0].Value != fn {
		t.Fatalf("expected fn to be attached as the node's consumer")
	}
	if len(g.Roots) != 1 || g.Roots[0] != node {
		t.Fatalf("expected the single node to be a root")
	}
}

func TestBuildLinksParentChildAcrossFrames(t *testing.T) {
	b, _, trackers := newBuilder()

	fn := newFn(1, "inner")
	trackers[1] = stubTracker{result: scope.TrackResult{
		Fingerprint: "fp",
		Frames: []scope.RawFrame{
			{BlockID: "inner-block", InstantiationID: 1, Bindings: map[string]*value.Value{"b": value.Number(2)}},
			{BlockID: "outer-block", InstantiationID: 1, Bindings: map[string]*value.Value{"a": value.Number(1)}},
		},
	}}

	root := value.NewObject(100)
	root.Props.Set(value.StringKey("f"), value.Descriptor{Value: fn, Writable: true, Enumerable: true, Configurable: true})

	g, err := b.Build(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 Scope Nodes, got %d", len(g.Nodes))
	}
	innerNode, ok := g.NodeFor(scope.FrameKey{BlockID: "inner-block", InstantiationID: 1})
	if !ok {
		t.Fatalf("expected a node for inner-block")
	}
	outerNode, ok := g.NodeFor(scope.FrameKey{BlockID: "outer-block", InstantiationID: 1})
	if !ok {
		t.Fatalf("expected a node for outer-block")
	}
	if innerNode.Parent != outerNode {
		t.Fatalf("expected inner node's parent to be the outer node")
	}
	if len(outerNode.Children) != 1 || outerNode.Children[0] != innerNode {
		t.Fatalf("expected outer node to list inner node as its only child")
	}
	if len(g.Roots) != 1 || g.Roots[0] != outerNode {
		t.Fatalf("expected only the outer node to be a root")
	}
	// The consumer is placed at the deepest node it reaches (rule 5).
	if len(innerNode.Consumers) != 1 {
		t.Fatalf("expected the consumer to be placed at the inner node")
	}
	if len(outerNode.Consumers) != 0 {
		t.Fatalf("expected the outer node to carry no direct consumers")
	}
}

func TestBuildMarksWrittenBindings(t *testing.T) {
	b, _, trackers := newBuilder()

	fn := newFn(1, "mutator")
	trackers[1] = stubTracker{result: scope.TrackResult{
		Fingerprint: "fp",
		Frames: []scope.RawFrame{
			{BlockID: "outer", InstantiationID: 1,
				Bindings: map[string]*value.Value{"count": value.Number(0)},
				Writes:   []string{"count"},
			},
		},
	}}
	root := value.NewObject(100)
	root.Props.Set(value.StringKey("f"), value.Descriptor{Value: fn, Writable: true, Enumerable: true, Configurable: true})

	g, err := b.Build(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	node := g.Nodes[0]
	if !node.Written["count"] {
		t.Fatalf("expected %q to be marked written", "count")
	}
	b2 := node.Needed["count"]
	if b2 == nil || !b2.Written || !b2.Read {
		t.Fatalf("expected the aggregated binding to carry both read and written flags, got %+v", b2)
	}
}

func TestBuildSharesAncestorNodeAcrossSiblingFunctions(t *testing.T) {
	b, _, trackers := newBuilder()

	shared := scope.RawFrame{BlockID: "outer", InstantiationID: 1, Bindings: map[string]*value.Value{"a": value.Number(1)}}

	fnA := newFn(1, "a")
	trackers[1] = stubTracker{result: scope.TrackResult{Fingerprint: "fa", Frames: []scope.RawFrame{
		{BlockID: "block-a", InstantiationID: 1, Bindings: map[string]*value.Value{"a": value.Number(1)}},
		shared,
	}}}
	fnB := newFn(2, "b")
	trackers[2] = stubTracker{result: scope.TrackResult{Fingerprint: "fb", Frames: []scope.RawFrame{
		{BlockID: "block-b", InstantiationID: 1, Bindings: map[string]*value.Value{"a": value.Number(1)}},
		shared,
	}}}

	root := value.NewArray(100, 2)
	root.Props.Set(value.IndexKey(0), value.Descriptor{Value: fnA, Writable: true, Enumerable: true, Configurable: true})
	root.Props.Set(value.IndexKey(1), value.Descriptor{Value: fnB, Writable: true, Enumerable: true, Configurable: true})

	g, err := b.Build(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outerNode, ok := g.NodeFor(scope.FrameKey{BlockID: "outer", InstantiationID: 1})
	if !ok {
		t.Fatalf("expected a shared outer node")
	}
	if len(outerNode.Children) != 2 {
		t.Fatalf("expected the outer node to have 2 children (one per sibling block), got %d", len(outerNode.Children))
	}
	if len(g.Roots) != 1 || g.Roots[0] != outerNode {
		t.Fatalf("expected exactly one root shared by both siblings")
	}
}

func TestBuildSkipsClosureFreeFunctions(t *testing.T) {
	b, _, trackers := newBuilder()

	fn := newFn(1, "noop")
	trackers[1] = stubTracker{result: scope.TrackResult{Fingerprint: "fp"}} // no Frames

	root := value.NewObject(100)
	root.Props.Set(value.StringKey("f"), value.Descriptor{Value: fn, Writable: true, Enumerable: true, Configurable: true})

	g, err := b.Build(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Nodes) != 0 {
		t.Fatalf("expected no Scope Nodes for a closure-free function, got %d", len(g.Nodes))
	}
}
