// Package resolve implements the Name Resolver of spec §4.6: once the
// Dependency Planner has decided what must be constructed and in what
// order, something still has to decide what to *call* every Scope
// Node and Consumer in the emitted text, without colliding with a
// reserved word, a host builtin, or another name this run already
// handed out.
//
// Grounded on checker/checker.go's symbol-table scoping conventions —
// shadowing avoidance, one shared table consulted before every new
// declaration — generalized from "type-check a name reference" to
// "allocate an output name". The Emitter nests each Scope Node's
// factory inside its parent's body, but the Resolver still works
// against a single flat namespace: every identifier it hands out is
// unique across the whole run, so no nested declaration can shadow
// another.
package resolve

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/reviv-lang/reviv/host"
	"github.com/reviv-lang/reviv/internal/fingerprint"
	"github.com/reviv-lang/reviv/value"
)

// Resolver assigns output identifiers for one serialization run.
// Construct one via NewResolver; every Resolve* method memoizes, so
// repeated calls for the same Scope Node or Consumer return the same
// name.
type Resolver struct {
	builtins *host.Builtins
	used     map[string]bool
	short    shortNameGenerator
	mangle   bool

	nodeNames     map[int]string
	instanceNames map[int]string
	bindingNames  map[bindingKey]string
	consumerNames map[value.Identity]string
	valueNames    map[value.Identity]string
}

type bindingKey struct {
	nodeIndex int
	name      string
}

func NewResolver(builtins *host.Builtins) *Resolver {
	return &Resolver{
		builtins:      builtins,
		used:          make(map[string]bool),
		nodeNames:     make(map[int]string),
		instanceNames: make(map[int]string),
		bindingNames:  make(map[bindingKey]string),
		consumerNames: make(map[value.Identity]string),
		valueNames:    make(map[value.Identity]string),
	}
}

// WithMangle toggles aggressive renaming: every source-derived name
// (bindings, named function Consumers) gets the same shortest-synthetic
// treatment as a Scope Node, instead of preferring its original text.
// Returns r for chaining at construction time.
func (r *Resolver) WithMangle(mangle bool) *Resolver {
	r.mangle = mangle
	return r
}

// Reserve marks name as unavailable without assigning it to anything
// (host builtins and reserved words are always unavailable, through
// host.Builtins.Blocked). Callers should
// reserve any free identifier a function body references that is
// *not* itself one of this run's bindings — a global the
// instrumented program happens to read — so the Resolver never hands
// that same text out to something else.
func (r *Resolver) Reserve(name string) {
	r.used[fingerprint.NormalizeIdent(name)] = true
}

// ResolveNode returns the identifier for the Scope Node at nodeIndex
// — the name of its factory function (ResolveNodeInstance names the
// variable that factory's result is bound to). Scope Nodes have
// no source name of their own (spec §3: a Scope Frame is a runtime
// construct, not a declaration), so they always get the shortest
// available synthetic identifier.
func (r *Resolver) ResolveNode(nodeIndex int) string {
	if name, ok := r.nodeNames[nodeIndex]; ok {
		return name
	}
	name := r.assignShort()
	r.nodeNames[nodeIndex] = name
	return name
}

// ResolveBinding returns the identifier for one binding inside one
// Scope Node, preferring the binding's original name and falling back
// to a numeric-suffixed variant on collision (spec §4.6:
// "disambiguates via a numeric suffix"). The same (nodeIndex, name)
// pair always resolves to the same identifier; two different nodes
// that each happen to declare a binding called "x" may still resolve
// to different identifiers, since they are different runtime
// bindings.
func (r *Resolver) ResolveBinding(nodeIndex int, name string) string {
	key := bindingKey{nodeIndex: nodeIndex, name: name}
	if resolved, ok := r.bindingNames[key]; ok {
		return resolved
	}
	var resolved string
	if r.mangle {
		resolved = r.assignShort()
	} else {
		resolved = r.assignPreferred(name)
	}
	r.bindingNames[key] = resolved
	return resolved
}

// ResolveConsumer returns the identifier for a function Consumer,
// preferring its declared name (empty for an anonymous function
// expression, in which case it gets a short synthetic name like a
// Scope Node would).
func (r *Resolver) ResolveConsumer(id value.Identity, preferredName string) string {
	if name, ok := r.consumerNames[id]; ok {
		return name
	}
	var resolved string
	if preferredName == "" || r.mangle {
		resolved = r.assignShort()
	} else {
		resolved = r.assignPreferred(preferredName)
	}
	r.consumerNames[id] = resolved
	return resolved
}

// ResolveNodeInstance returns the identifier for the *result* of
// invoking the Scope Node at nodeIndex's factory — a distinct
// identifier from ResolveNode, since the factory function and the
// object its single invocation produces are two separate bindings in
// the emitted text (`function a(x) {...}` vs `const b = a(1);`).
func (r *Resolver) ResolveNodeInstance(nodeIndex int) string {
	if name, ok := r.instanceNames[nodeIndex]; ok {
		return name
	}
	name := r.assignShort()
	r.instanceNames[nodeIndex] = name
	return name
}

// ResolveValue returns the identifier for a top-level constructed
// value (an object, array, RegExp, Date, or closure-free function)
// that is not itself a function Consumer attached to any Scope Node.
// Such values have no source name to prefer, so like a Scope Node they
// always get the shortest available synthetic identifier.
func (r *Resolver) ResolveValue(id value.Identity) string {
	if name, ok := r.valueNames[id]; ok {
		return name
	}
	name := r.assignShort()
	r.valueNames[id] = name
	return name
}

func (r *Resolver) assignPreferred(name string) string {
	normalized := fingerprint.NormalizeIdent(name)
	if normalized == "" {
		normalized = "_"
	}
	candidate := normalized
	for n := 1; r.builtins.Blocked(candidate) || r.used[candidate]; n++ {
		candidate = fmt.Sprintf("%s$%d", normalized, n)
	}
	r.used[candidate] = true
	return candidate
}

func (r *Resolver) assignShort() string {
	for {
		candidate := r.short.next()
		if r.builtins.Blocked(candidate) || r.used[candidate] {
			continue
		}
		r.used[candidate] = true
		return candidate
	}
}

// shortNameGenerator produces minifier-style identifiers in
// increasing length: a, b, ..., z, aa, ab, ..., the bijective base-26
// sequence over the lowercase alphabet.
type shortNameGenerator struct {
	n int
}

const shortNameAlphabet = "abcdefghijklmnopqrstuvwxyz"

func (g *shortNameGenerator) next() string {
	n := g.n
	g.n++
	n++ // bijective base-26 is 1-indexed
	var buf []byte
	for n > 0 {
		n--
		buf = append([]byte{shortNameAlphabet[n%26]}, buf...)
		n /= 26
	}
	return string(buf)
}

// Substitute rewrites every whole-identifier occurrence of a renamed
// binding inside body, per spec §4.6's "substitutes the new names
// into the function's body text wherever the original identifiers
// occurred". All renames are applied in a single pass via one
// alternation so a rename target that happens to equal another
// rename's source is never re-substituted.
//
// This performs a textual, word-boundary substitution rather than a
// full re-parse of body: it will also rewrite an identifier that
// happens to appear inside a string or comment literal with the same
// text. Acceptable here because actual renames are rare (only forced
// by a genuine collision) and re-parsing function bodies is exactly
// the "evaluate/parse the input program" work spec §1 places outside
// this repository's scope.
func Substitute(body string, renames map[string]string) string {
	if len(renames) == 0 {
		return body
	}
	names := make([]string, 0, len(renames))
	for k, v := range renames {
		if k == v {
			continue
		}
		names = append(names, k)
	}
	if len(names) == 0 {
		return body
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	patterns := make([]string, len(names))
	for i, n := range names {
		patterns[i] = regexp.QuoteMeta(n)
	}
	re := regexp.MustCompile(`\b(` + strings.Join(patterns, "|") + `)\b`)
	return re.ReplaceAllStringFunc(body, func(m string) string { return renames[m] })
}
