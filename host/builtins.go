package host

// Builtins is the read-only whitelist of free identifiers the
// emitted artifact may reference unqualified (spec §6: "defines no
// free identifiers except a small whitelist of host builtins
// (Object, Reflect, Promise, Symbol, globals)"), plus the reserved
// words the Name Resolver must never allocate as an output
// identifier (spec §4.6). Grounded on
// bytecode/vm/ffi_registry.go's RuntimeFFIRegistry: a
// mutex-free, build-once, read-many map, here storing booleans
// instead of callables since nothing is ever invoked through it.
type Builtins struct {
	names map[string]struct{}
}

var defaultBuiltins = []string{
	"Object", "Reflect", "Promise", "Symbol", "Array", "Function",
	"Map", "Set", "WeakMap", "WeakSet", "RegExp", "Date", "Error",
	"TypeError", "RangeError", "globalThis", "undefined", "NaN", "Infinity",
}

var reservedWords = []string{
	"break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "export", "extends", "finally",
	"for", "function", "if", "import", "in", "instanceof", "new",
	"return", "super", "switch", "this", "throw", "try", "typeof",
	"var", "void", "while", "with", "yield", "let", "static", "enum",
	"await", "implements", "package", "protected", "interface",
	"private", "public", "null", "true", "false",
}

// NewBuiltins constructs the whitelist for one run, starting from the
// default host surface and adding any extra globals the caller's
// Options configured (spec §6: "a small whitelist ... globals").
func NewBuiltins(extra ...string) *Builtins {
	b := &Builtins{names: make(map[string]struct{}, len(defaultBuiltins)+len(reservedWords)+len(extra))}
	for _, n := range defaultBuiltins {
		b.names[n] = struct{}{}
	}
	for _, n := range extra {
		b.names[n] = struct{}{}
	}
	return b
}

func (b *Builtins) IsHostBuiltin(name string) bool {
	_, ok := b.names[name]
	return ok
}

func IsReservedWord(name string) bool {
	for _, w := range reservedWords {
		if w == name {
			return true
		}
	}
	return false
}

// Blocked reports whether name is unavailable to the Name Resolver as
// an output identifier: either a language reserved word or a host
// builtin this run has chosen to reference unqualified.
func (b *Builtins) Blocked(name string) bool {
	return IsReservedWord(name) || b.IsHostBuiltin(name)
}
