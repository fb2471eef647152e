package plan

import (
	"testing"

	"github.com/reviv-lang/reviv/graph"
	"github.com/reviv-lang/reviv/scope"
	"github.com/reviv-lang/reviv/value"
)

type stubTracker struct{ result scope.TrackResult }

func (s stubTracker) Track(scope.Token) (scope.TrackResult, bool) { return s.result, true }

func buildGraph(t *testing.T, root *value.Value, trackers map[value.Identity]scope.Tracker) *graph.Graph {
	t.Helper()
	extractor := scope.NewExtractor(scope.NewRunToken(1))
	b := graph.NewBuilder(extractor, trackers, value.NewClassifier(), nil)
	g, err := b.Build(root)
	if err != nil {
		t.Fatalf("graph build failed: %v", err)
	}
	return g
}

// TestBuildMarksSelfReferencingBindingAsTrampoline covers the
// canonical cycle this planner exists to break: a function stored in
// the very scope frame it closes over (`let counter; counter =
// function(){ return counter }`).
func TestBuildMarksSelfReferencingBindingAsTrampoline(t *testing.T) {
	fn := value.NewFunction(1, &value.FunctionValue{SubKind: value.FnPlain, Name: "counter"})
	trackers := map[value.Identity]scope.Tracker{
		1: stubTracker{result: scope.TrackResult{
			Fingerprint: "fp-counter",
			Frames: []scope.RawFrame{
				{BlockID: "outer", InstantiationID: 1, Bindings: map[string]*value.Value{"counter": fn}},
			},
		}},
	}

	root := value.NewObject(100)
	root.Props.Set(value.StringKey("counter"), value.Descriptor{Value: fn, Writable: true, Enumerable: true, Configurable: true})

	g := buildGraph(t, root, trackers)

	p, err := NewPlanner(g).Build(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Verify(p); err != nil {
		t.Fatalf("plan failed verification: %v", err)
	}

	if len(p.NodePlans) != 1 {
		t.Fatalf("expected 1 node plan, got %d", len(p.NodePlans))
	}
	np := p.NodePlans[0]
	if len(np.Bindings) != 1 || np.Bindings[0].Name != "counter" || !np.Bindings[0].Trampoline {
		t.Fatalf("expected counter binding to be a trampoline target, got %+v", np.Bindings)
	}

	var sawDeclare, sawInvoke, sawTrampoline, sawReturn bool
	var trampolineIdx, constructIdx int = -1, -1
	for i, s := range p.Steps {
		switch s.Op {
		case OpDeclareFactory:
			sawDeclare = true
		case OpInvokeFactory:
			sawInvoke = true
		case OpConstructValue:
			if s.ValueID == fn.Identity {
				constructIdx = i
			}
		case OpInstallTrampoline:
			sawTrampoline = true
			trampolineIdx = i
		case OpReturnRoot:
			sawReturn = true
			if i != len(p.Steps)-1 {
				t.Fatalf("expected OpReturnRoot to be the last step")
			}
		}
	}
	if !sawDeclare || !sawInvoke || !sawTrampoline || !sawReturn {
		t.Fatalf("expected declare/invoke/trampoline/return steps, got %+v", p.Steps)
	}
	if trampolineIdx <= constructIdx {
		t.Fatalf("expected the trampoline install to follow the function's construction (construct@%d, trampoline@%d)", constructIdx, trampolineIdx)
	}
}

// TestBuildPassesOrdinaryBindingsWithoutTrampoline covers the common
// case: a binding captured from outside the node's own subtree is
// just a plain factory parameter.
func TestBuildPassesOrdinaryBindingsWithoutTrampoline(t *testing.T) {
	fn := value.NewFunction(1, &value.FunctionValue{SubKind: value.FnPlain, Name: "reader"})
	trackers := map[value.Identity]scope.Tracker{
		1: stubTracker{result: scope.TrackResult{
			Fingerprint: "fp-reader",
			Frames: []scope.RawFrame{
				{BlockID: "outer", InstantiationID: 1, Bindings: map[string]*value.Value{"a": value.Number(1)}},
			},
		}},
	}
	root := value.NewObject(100)
	root.Props.Set(value.StringKey("f"), value.Descriptor{Value: fn, Writable: true, Enumerable: true, Configurable: true})

	g := buildGraph(t, root, trackers)
	p, err := NewPlanner(g).Build(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Verify(p); err != nil {
		t.Fatalf("plan failed verification: %v", err)
	}
	if p.NodePlans[0].Bindings[0].Trampoline {
		t.Fatalf("expected an externally captured binding to not need a trampoline")
	}
	for _, s := range p.Steps {
		if s.Op == OpDeclareFactory {
			t.Fatalf("did not expect a pre-declared factory binding when no trampoline is needed")
		}
	}
}

func TestSnapshotRoundTrips(t *testing.T) {
	fn := value.NewFunction(1, &value.FunctionValue{SubKind: value.FnPlain, Name: "f"})
	trackers := map[value.Identity]scope.Tracker{
		1: stubTracker{result: scope.TrackResult{Fingerprint: "fp", Frames: []scope.RawFrame{
			{BlockID: "outer", InstantiationID: 1, Bindings: map[string]*value.Value{"a": value.Number(1)}},
		}}},
	}
	root := value.NewObject(100)
	root.Props.Set(value.StringKey("f"), value.Descriptor{Value: fn, Writable: true, Enumerable: true, Configurable: true})

	g := buildGraph(t, root, trackers)
	p, err := NewPlanner(g).Build(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := Snapshot(p)
	data, err := SerializeSnapshot(snap)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	back, err := DeserializeSnapshot(data)
	if err != nil {
		t.Fatalf("deserialize failed: %v", err)
	}
	if len(back.Nodes) != len(snap.Nodes) || len(back.Steps) != len(snap.Steps) {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, snap)
	}
}
