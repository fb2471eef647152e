package reviv

import (
	"strings"
	"testing"

	"github.com/reviv-lang/reviv/fixture"
)

// TestSerializePlainObject covers the simplest end-to-end path: no
// closures, no cycles, straight through every pipeline stage.
func TestSerializePlainObject(t *testing.T) {
	f, err := fixture.Decode([]byte(`{
		"root": 1,
		"nodes": [
			{"id": 1, "kind": "object", "props": {
				"a": {"value": 2, "writable": true, "enumerable": true, "configurable": true}
			}}
		]
	}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	f.Nodes = append(f.Nodes, fixture.Node{ID: 2, Kind: "number", Number: 1})

	root, trackers, err := f.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	out, err := Serialize(root, trackers)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	if !strings.Contains(out, ".a = 1") {
		t.Fatalf("expected property restoration in output, got:\n%s", out)
	}
}

// TestSerializeCyclicObjectPreservesIdentity covers spec §8's identity
// invariant: an object referencing itself round-trips through the
// pipeline as a single construction plus a self-assignment, never as
// two copies.
func TestSerializeCyclicObjectPreservesIdentity(t *testing.T) {
	f, err := fixture.Decode([]byte(`{
		"root": 1,
		"nodes": [
			{"id": 1, "kind": "object", "props": {
				"self": {"value": 1, "writable": true, "enumerable": true, "configurable": true}
			}}
		]
	}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	root, trackers, err := f.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	out, err := Serialize(root, trackers)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	if !strings.Contains(out, ".self = ") {
		t.Fatalf("expected a self-referential property assignment, got:\n%s", out)
	}
}

// TestSerializeClosureCapturesBinding covers a function capturing a
// free variable from its enclosing Scope Node: the Scope Node's
// factory must appear in the output, nested with its Consumer per
// the Emitter's lexical-nesting architecture.
func TestSerializeClosureCapturesBinding(t *testing.T) {
	f, err := fixture.Decode([]byte(`{
		"root": 1,
		"nodes": [
			{"id": 1, "kind": "function", "name": "reader", "frames": [
				{"blockId": "outer", "instantiationId": 1, "bindings": {"captured": 2}}
			]},
			{"id": 2, "kind": "number", "number": 42}
		]
	}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	f.Nodes[0].SourceText = "function reader() { return captured; }"
	f.Nodes[0].Fingerprint = "fp-reader"

	root, trackers, err := f.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	out, err := Serialize(root, trackers)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	if !strings.Contains(out, "function ") {
		t.Fatalf("expected a Scope Node factory in the output, got:\n%s", out)
	}
}

// TestSerializeMinifyOption exercises the Options plumbing through to
// the Emitter's printer.
func TestSerializeMinifyOption(t *testing.T) {
	f, err := fixture.Decode([]byte(`{
		"root": 1,
		"nodes": [{"id": 1, "kind": "object"}]
	}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	root, trackers, err := f.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	out, err := Serialize(root, trackers, WithMinify(true))
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	if strings.Contains(out, "\n\n") {
		t.Fatalf("expected a tightly minified single statement, got:\n%s", out)
	}
}

// TestSerializeMaxDepthRejectsDeepChains covers the MaxDepth guard:
// a prototype chain longer than the configured bound aborts before
// any pipeline stage runs.
func TestSerializeMaxDepthRejectsDeepChains(t *testing.T) {
	nodes := []fixture.Node{{ID: 1, Kind: "object"}}
	prev := uint64(1)
	for i := uint64(2); i <= 5; i++ {
		id, protoRef := i, prev
		nodes = append(nodes, fixture.Node{ID: id, Kind: "object", Prototype: &protoRef})
		prev = id
	}
	lastProto := prev
	nodes[0].Prototype = &lastProto // close the chain so node 1's deepest ancestor is node 5

	f := &fixture.File{Root: 5, Nodes: nodes}
	root, trackers, err := f.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, err := Serialize(root, trackers, WithMaxDepth(1)); err == nil {
		t.Fatalf("expected MaxDepth to reject a 5-link prototype chain")
	}
}
