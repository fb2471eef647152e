package scope

import (
	"testing"

	"github.com/reviv-lang/reviv/faults"
	"github.com/reviv-lang/reviv/value"
)

type fakeTracker struct {
	result TrackResult
	ok     bool
	calls  int
}

func (f *fakeTracker) Track(tok Token) (TrackResult, bool) {
	f.calls++
	return f.result, f.ok
}

func TestExtractMemoizesByIdentity(t *testing.T) {
	tok := NewRunToken(1)
	e := NewExtractor(tok)
	fn := value.NewFunction(1, &value.FunctionValue{SubKind: value.FnPlain, Name: "f"})
	tr := &fakeTracker{ok: true, result: TrackResult{
		Fingerprint: "fp1",
		SourceText:  "function f(){ return extA }",
		Frames: []RawFrame{
			{BlockID: "b1", InstantiationID: 1, Bindings: map[string]*value.Value{"extA": value.Number(1)}},
		},
	}}

	rec1, err := e.Extract(fn, tr, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec2, err := e.Extract(fn, tr, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec1 != rec2 {
		t.Fatalf("expected memoized record to be the same pointer")
	}
	if tr.calls != 1 {
		t.Fatalf("expected tracker to be invoked exactly once, got %d", tr.calls)
	}
}

func TestExtractSharesFrameAcrossFunctions(t *testing.T) {
	tok := NewRunToken(1)
	e := NewExtractor(tok)

	frameSpec := RawFrame{BlockID: "outer", InstantiationID: 7, Bindings: map[string]*value.Value{
		"a": value.Number(1), "b": value.Number(2),
	}}

	fnA := value.NewFunction(1, &value.FunctionValue{Name: "a"})
	trA := &fakeTracker{ok: true, result: TrackResult{Fingerprint: "fa", Frames: []RawFrame{frameSpec}}}
	fnB := value.NewFunction(2, &value.FunctionValue{Name: "b"})
	trB := &fakeTracker{ok: true, result: TrackResult{Fingerprint: "fb", Frames: []RawFrame{frameSpec}}}

	recA, err := e.Extract(fnA, trA, nil)
	if err != nil {
		t.Fatal(err)
	}
	recB, err := e.Extract(fnB, trB, nil)
	if err != nil {
		t.Fatal(err)
	}

	if recA.Frames[0].Frame != recB.Frames[0].Frame {
		t.Fatalf("expected both functions to share the same *Frame instance for the same (block,instantiation)")
	}
	if len(e.AllFrames()) != 1 {
		t.Fatalf("expected exactly one allocated frame, got %d", len(e.AllFrames()))
	}
}

func TestExtractMissingTrackerFailsWhenNotProvenClosureFree(t *testing.T) {
	tok := NewRunToken(1)
	e := NewExtractor(tok)
	fn := value.NewFunction(3, &value.FunctionValue{
		Name: "mystery",
		Home: value.NewObject(9), // presence of Home signals it's a method with a closure
	})
	tr := &fakeTracker{ok: false}

	_, err := e.Extract(fn, tr, faults.Path{"root", "mystery"})
	if err == nil {
		t.Fatalf("expected an error for an unreconstructable function")
	}
	if !faults.Is(err, faults.KindUnreconstructable) {
		t.Fatalf("expected KindUnreconstructable, got %v", err)
	}
}

func TestExtractMissingTrackerBestEffortWhenClosureFree(t *testing.T) {
	tok := NewRunToken(1)
	e := NewExtractor(tok)
	fn := value.NewFunction(4, &value.FunctionValue{Name: "noop", Length: 0})
	tr := &fakeTracker{ok: false}

	rec, err := e.Extract(fn, tr, nil)
	if err != nil {
		t.Fatalf("unexpected error for a closure-free function with no tracker: %v", err)
	}
	if rec.Name != "noop" {
		t.Fatalf("expected best-effort record to carry the function's name")
	}
}
