package emit

import "strings"

// doc is the Wadler/Prettier-style document algebra the Emitter
// builds up instead of concatenating strings directly, so the same
// construction logic can be printed either pretty (one statement per
// line, indented) or minified (flat, doc_printer.go's minify mode) by varying
// only the printer, not the builder. Adapted closely from
// formatter/doc.go: same node set (Text/Concat/Group/Indent/Line/
// IfBreak), repointed at emitting JS-like source instead of Ard
// source.
type doc interface{ isDoc() }

type docText struct{ value string }
type docConcat struct{ parts []doc }
type docGroup struct{ content doc }
type docIndent struct{ content doc }
type docLine struct {
	hard bool
	soft bool
}
type docIfBreak struct {
	broken doc
	flat   doc
}

func (docText) isDoc()    {}
func (docConcat) isDoc()  {}
func (docGroup) isDoc()   {}
func (docIndent) isDoc()  {}
func (docLine) isDoc()    {}
func (docIfBreak) isDoc() {}

func dText(value string) doc {
	if value == "" {
		return docText{value: ""}
	}
	if !strings.Contains(value, "\n") {
		return docText{value: value}
	}
	parts := strings.Split(value, "\n")
	docs := make([]doc, 0, len(parts)*2)
	for i, part := range parts {
		docs = append(docs, docText{value: part})
		if i < len(parts)-1 {
			docs = append(docs, dHardLine())
		}
	}
	return docConcat{parts: docs}
}

func dConcat(parts ...doc) doc {
	flat := make([]doc, 0, len(parts))
	for _, part := range parts {
		if part == nil {
			continue
		}
		if concat, ok := part.(docConcat); ok {
			flat = append(flat, concat.parts...)
			continue
		}
		flat = append(flat, part)
	}
	if len(flat) == 0 {
		return docText{value: ""}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return docConcat{parts: flat}
}

func dGroup(content doc) doc            { return docGroup{content: content} }
func dIndent(content doc) doc           { return docIndent{content: content} }
func dLine() doc                        { return docLine{} }
func dSoftLine() doc                    { return docLine{soft: true} }
func dHardLine() doc                    { return docLine{hard: true} }
func dIfBreak(broken doc, flat doc) doc { return docIfBreak{broken: broken, flat: flat} }

func dJoin(separator doc, docs []doc) doc {
	if len(docs) == 0 {
		return docText{value: ""}
	}
	parts := make([]doc, 0, len(docs)*2)
	for i, item := range docs {
		if i > 0 {
			parts = append(parts, separator)
		}
		parts = append(parts, item)
	}
	return dConcat(parts...)
}

// dReturnObject renders a Scope Node factory's closing `return { ... };`
// statement as a breakable group: one line when the exposed name list
// fits the printer's width, one name per indented line otherwise — the
// same group-and-indent shape dCallArgs uses for a `.bind(...)` argument
// list (with braces here instead of its parentheses), reused here since
// a node can expose an arbitrarily long list of
// bindings/Consumers/child instances.
func dReturnObject(names []string) doc {
	if len(names) == 0 {
		return dText("return {};")
	}
	items := make([]doc, len(names))
	for i, n := range names {
		items[i] = dText(n)
	}
	return dGroup(dConcat(
		dText("return {"),
		dIndent(dConcat(dLine(), dJoin(dConcat(dText(","), dLine()), items))),
		dLine(),
		dText("};"),
	))
}

// dCallArgs renders a parenthesized call argument list as the same
// kind of breakable group: tight on one line when it fits
// (`callee(a, b)`), one argument per indented line when it doesn't.
func dCallArgs(callee string, args []string) doc {
	items := make([]doc, len(args))
	for i, a := range args {
		items[i] = dText(a)
	}
	return dGroup(dConcat(
		dText(callee+"("),
		dIndent(dConcat(dSoftLine(), dJoin(dConcat(dText(","), dLine()), items))),
		dSoftLine(),
		dText(")"),
	))
}

// dObjectLiteral renders an inline `{ field, field }` — the descriptor
// object `Object.defineProperty`'s third argument needs — with the
// same breakable-group treatment as dReturnObject, since a data
// descriptor's field list (writable/enumerable/configurable/value) can
// run long once an accessor pair is involved.
func dObjectLiteral(fields []string) doc {
	items := make([]doc, len(fields))
	for i, f := range fields {
		items[i] = dText(f)
	}
	return dGroup(dConcat(
		dText("{"),
		dIndent(dConcat(dLine(), dJoin(dConcat(dText(","), dLine()), items))),
		dLine(),
		dText("}"),
	))
}
