package reviv

import (
	"github.com/reviv-lang/reviv/emit"
	"github.com/reviv-lang/reviv/scope"
)

// Options configures one Serialize run, exactly the `Options{Minify,
// Mangle, Inline, Format, StrictEnv, MaxDepth}` tuple named in
// SPEC_FULL.md §6. Built via functional options so new fields (and
// their defaults) can be added without breaking existing call sites —
// the same shape the teacher's compiler/main.go uses for its own CLI
// flag struct.
type Options struct {
	Minify    bool
	Mangle    bool
	Inline    bool
	Format    emit.Format
	StrictEnv bool

	// MaxDepth bounds the value graph's reference depth (prototype
	// chains and own-property nesting) before Serialize aborts with
	// faults.KindInternalInvariant. Zero means unbounded.
	MaxDepth int

	// ExtraGlobals names additional host identifiers beyond
	// host.NewBuiltins' defaults that the emitted artifact is allowed
	// to reference unqualified (spec §6: "configured globals").
	ExtraGlobals []string

	// Blocks feeds host.NewBlockCatalog, letting a caller that has
	// access to the instrumentation's static block table hand it in
	// for deterministic sibling ordering (spec §4.3 rule 2's source
	// order tie-break). Nil falls back to first-encounter ordering.
	Blocks []scope.Block
}

// Option mutates an Options value being built. Named after, and used
// the same way as, the functional-option pattern the teacher's own
// compiler package applies to its Run configuration.
type Option func(*Options)

func WithMinify(minify bool) Option { return func(o *Options) { o.Minify = minify } }

func WithMangle(mangle bool) Option { return func(o *Options) { o.Mangle = mangle } }

func WithInline(inline bool) Option { return func(o *Options) { o.Inline = inline } }

func WithFormat(format emit.Format) Option { return func(o *Options) { o.Format = format } }

func WithStrictEnv(strict bool) Option { return func(o *Options) { o.StrictEnv = strict } }

func WithMaxDepth(depth int) Option { return func(o *Options) { o.MaxDepth = depth } }

func WithExtraGlobals(names ...string) Option {
	return func(o *Options) { o.ExtraGlobals = append(o.ExtraGlobals, names...) }
}

func WithBlocks(blocks []scope.Block) Option {
	return func(o *Options) { o.Blocks = blocks }
}

func newOptions(opts ...Option) Options {
	var o Options
	for _, apply := range opts {
		apply(&o)
	}
	return o
}
