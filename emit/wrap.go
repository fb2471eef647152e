package emit

import (
	"fmt"
	"strings"
)

// Format selects how a Result's root value is exposed to whatever
// loads the emitted text, per spec §6's "format" option.
type Format uint8

const (
	// FormatExpression leaves the root value as a bare trailing
	// expression statement — suitable for `eval`/`new Function`.
	FormatExpression Format = iota
	FormatCommonJS
	FormatESM
)

// WrapOptions carries the two spec §6 options Wrap applies to an
// Emitter's Result: Format picks how the root value is exposed, and
// Inline folds the whole statement list down into a single expression.
// Minify and StrictEnv are applied by the Emitter itself (see Config);
// Mangle and MaxDepth are handled by the root package before an Emitter
// ever sees a Plan.
type WrapOptions struct {
	Format Format
	Inline bool
}

// Wrap composes the final module text for res, choosing the export
// form Format names. Kept as a thin post-pass over the Emitter's
// output rather than folded into Emit itself, so the core renderer
// never needs to know what its caller plans to do with the result
// (spec §1: the reconstruction core is format-agnostic).
//
// When Inline is set, res.Code's `const`/`function` statement list is
// folded into a single IIFE expression that returns the root value —
// spec §6/§8's "must be a single expression when so requested" — and
// Format then selects what receives that one expression (a bare
// expression statement, a CommonJS export, or an ESM default export)
// rather than what receives the bare root identifier.
func Wrap(res Result, opts WrapOptions) string {
	if opts.Inline {
		expr := inlineExpr(res)
		switch opts.Format {
		case FormatCommonJS:
			return fmt.Sprintf("module.exports = %s;\n", expr)
		case FormatESM:
			return fmt.Sprintf("export default %s;\n", expr)
		default:
			return fmt.Sprintf("%s;\n", expr)
		}
	}
	switch opts.Format {
	case FormatCommonJS:
		return fmt.Sprintf("%smodule.exports = %s;\n", res.Code, res.RootName)
	case FormatESM:
		return fmt.Sprintf("%sexport default %s;\n", res.Code, res.RootName)
	default:
		return fmt.Sprintf("%s%s;\n", res.Code, res.RootName)
	}
}

// inlineExpr wraps res.Code's statement list in an immediately-invoked
// function expression that returns the root binding, so the entire
// reconstruction reduces to one expression no matter how many Scope
// Node factories or top-level constructions it took to build it.
func inlineExpr(res Result) string {
	var b strings.Builder
	b.WriteString("(function () {\n")
	for _, line := range strings.Split(strings.TrimRight(res.Code, "\n"), "\n") {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("  return ")
	b.WriteString(res.RootName)
	b.WriteString(";\n})()")
	return b.String()
}
