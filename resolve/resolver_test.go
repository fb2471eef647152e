package resolve

import (
	"testing"

	"github.com/reviv-lang/reviv/host"
)

func TestResolveBindingPrefersOriginalName(t *testing.T) {
	r := NewResolver(host.NewBuiltins())
	if got := r.ResolveBinding(0, "extA"); got != "extA" {
		t.Fatalf("expected extA, got %q", got)
	}
	// same node, same name: memoized.
	if got := r.ResolveBinding(0, "extA"); got != "extA" {
		t.Fatalf("expected memoized extA, got %q", got)
	}
}

func TestResolveBindingDisambiguatesOnCollision(t *testing.T) {
	r := NewResolver(host.NewBuiltins())
	first := r.ResolveBinding(0, "extA")
	second := r.ResolveBinding(1, "extA") // different node, same source name
	if first == second {
		t.Fatalf("expected distinct bindings named extA in different nodes to get distinct identifiers, got %q twice", first)
	}
	if second != "extA$1" {
		t.Fatalf("expected numeric-suffix disambiguation, got %q", second)
	}
}

func TestResolveBindingAvoidsReservedWordsAndBuiltins(t *testing.T) {
	r := NewResolver(host.NewBuiltins())
	if got := r.ResolveBinding(0, "class"); got != "class$1" {
		t.Fatalf("expected reserved word to be disambiguated, got %q", got)
	}
	if got := r.ResolveBinding(0, "Object"); got != "Object$1" {
		t.Fatalf("expected host builtin to be disambiguated, got %q", got)
	}
}

func TestResolveNodeAssignsShortestAvailable(t *testing.T) {
	r := NewResolver(host.NewBuiltins())
	names := make(map[string]bool)
	for i := 0; i < 5; i++ {
		name := r.ResolveNode(i)
		if names[name] {
			t.Fatalf("expected distinct short names, got repeat %q", name)
		}
		names[name] = true
	}
	if r.ResolveNode(0) != r.ResolveNode(0) {
		t.Fatalf("expected ResolveNode to memoize")
	}
}

func TestResolveConsumerFallsBackToShortNameWhenAnonymous(t *testing.T) {
	r := NewResolver(host.NewBuiltins())
	named := r.ResolveConsumer(1, "handler")
	if named != "handler" {
		t.Fatalf("expected named consumer to keep its name, got %q", named)
	}
	anon := r.ResolveConsumer(2, "")
	if anon == "" {
		t.Fatalf("expected a synthesized name for an anonymous consumer")
	}
}

func TestSubstituteRewritesWholeIdentifiersOnly(t *testing.T) {
	body := "function f(){ return extA + extAB + extA.length }"
	out := Substitute(body, map[string]string{"extA": "a$1"})
	want := "function f(){ return a$1 + extAB + a$1.length }"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestSubstituteHandlesSimultaneousRenamesWithoutChaining(t *testing.T) {
	body := "a + b"
	out := Substitute(body, map[string]string{"a": "b", "b": "c"})
	if out != "b + c" {
		t.Fatalf("expected a single simultaneous pass, got %q", out)
	}
}
