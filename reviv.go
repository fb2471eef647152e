// Package reviv is the root orchestration package: it wires the six
// pipeline components spec §2 names — value, scope, graph, plan,
// resolve, emit — into the single entry point spec §6 calls
// `reviv.Serialize`.
//
// Grounded on compiler/main.go's top-level Run(args) shape: one
// function that constructs every stage's dependencies in order and
// threads one result into the next, with no component reaching
// sideways into another's internals.
package reviv

import (
	"github.com/reviv-lang/reviv/emit"
	"github.com/reviv-lang/reviv/faults"
	"github.com/reviv-lang/reviv/graph"
	"github.com/reviv-lang/reviv/host"
	"github.com/reviv-lang/reviv/plan"
	"github.com/reviv-lang/reviv/resolve"
	"github.com/reviv-lang/reviv/scope"
	"github.com/reviv-lang/reviv/value"
)

// Serialize runs the full pipeline over root and returns the emitted
// module text. trackers supplies each reachable function's hidden
// Tracker entry point (spec §6's inward interface); a function with
// no entry in trackers is treated as untracked, per spec §4.2.
func Serialize(root *value.Value, trackers map[value.Identity]scope.Tracker, opts ...Option) (string, error) {
	o := newOptions(opts...)

	if o.MaxDepth > 0 {
		if err := checkDepth(root, o.MaxDepth); err != nil {
			return "", err
		}
	}

	catalog := host.NewBlockCatalog(o.Blocks)
	runToken := scope.NewRunToken(1)
	extractor := scope.NewExtractor(runToken)

	builder := graph.NewBuilder(extractor, trackers, value.NewClassifier(), catalog)
	g, err := builder.Build(root)
	if err != nil {
		return "", err
	}

	p, err := plan.NewPlanner(g).Build(root)
	if err != nil {
		return "", err
	}
	if err := plan.Verify(p); err != nil {
		return "", err
	}

	builtins := host.NewBuiltins(o.ExtraGlobals...)
	resolver := resolve.NewResolver(builtins).WithMangle(o.Mangle)

	emitter := emit.NewEmitter(resolver, extractor, emit.Config{
		MaxLineWidth: 80,
		IndentWidth:  2,
		Minify:       o.Minify,
		StrictEnv:    o.StrictEnv,
	})
	res, err := emitter.Emit(p)
	if err != nil {
		return "", err
	}

	return emit.Wrap(res, emit.WrapOptions{Format: o.Format, Inline: o.Inline}), nil
}

// checkDepth walks the own-property/prototype graph breadth-limited
// by identity (so a cyclic graph still terminates) and fails fast if
// any path from root exceeds max edges, per spec §6's MaxDepth guard.
// Kept separate from graph.Builder's own DFS: that walk's job is
// aggregating Scope Node usage, not bounding recursion, and folding a
// second concern into it would make its single responsibility harder
// to verify against spec §4.3.
func checkDepth(root *value.Value, max int) error {
	visited := make(map[value.Identity]bool)
	var walk func(v *value.Value, depth int, path faults.Path) error
	walk = func(v *value.Value, depth int, path faults.Path) error {
		if v == nil || v.Kind.IsPrimitive() {
			return nil
		}
		if depth > max {
			return faults.New(faults.KindInternalInvariant, path, "value graph exceeds configured max depth %d", max)
		}
		if visited[v.Identity] {
			return nil
		}
		visited[v.Identity] = true

		if v.Props != nil {
			for _, e := range v.Props.Entries() {
				if e.Desc.IsAccessor() {
					if err := walk(e.Desc.Getter, depth+1, path.Push(e.Key.String())); err != nil {
						return err
					}
					if err := walk(e.Desc.Setter, depth+1, path.Push(e.Key.String())); err != nil {
						return err
					}
					continue
				}
				if err := walk(e.Desc.Value, depth+1, path.Push(e.Key.String())); err != nil {
					return err
				}
			}
		}
		if !v.PrototypeIsNull {
			if err := walk(v.Prototype, depth+1, path.Push("[[Prototype]]")); err != nil {
				return err
			}
		}
		if v.Kind == value.KindFunction && v.Function != nil {
			if err := walk(v.Function.BoundTarget, depth+1, path.Push("[[BoundTarget]]")); err != nil {
				return err
			}
			if err := walk(v.Function.BoundThis, depth+1, path.Push("[[BoundThis]]")); err != nil {
				return err
			}
			for i, a := range v.Function.BoundArgs {
				if err := walk(a, depth+1, path.Push(indexSegment(i))); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(root, 0, nil)
}

func indexSegment(i int) string {
	return value.IndexKey(uint32(i)).String()
}
