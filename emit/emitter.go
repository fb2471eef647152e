// Package emit implements the Emitter of spec §4.5: it walks a
// completed Plan and renders it as JS-like source text whose
// evaluation reconstructs the original value graph.
//
// Grounded on formatter/printer.go's per-node-kind rendering methods
// (one method per AST/plan node kind, each returning a doc fragment)
// generalized from printing Ard source back out to printing a Plan's
// Steps. Two concerns stay genuinely separate, matching spec §1/§6:
// this file decides *what* JS text reconstructs a value; doc.go/
// doc_printer.go (formatter/doc.go's algebra) decide how that text is
// laid out on the page; wrap.go decides what optional transforms run
// over the result afterward.
package emit

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/reviv-lang/reviv/faults"
	"github.com/reviv-lang/reviv/graph"
	"github.com/reviv-lang/reviv/plan"
	"github.com/reviv-lang/reviv/resolve"
	"github.com/reviv-lang/reviv/scope"
	"github.com/reviv-lang/reviv/value"
)

// Config controls how an Emitter lays out its output. Minify/MaxLineWidth
// select doc_printer.go's printer mode; StrictEnv controls whether the
// module opens with a "use strict" directive (spec §6's strictEnv
// option). Of spec §6's other toggles, Format and Inline are applied
// afterwards by Wrap (see WrapOptions) and Mangle is a Resolver-level
// decision the root package wires in before handing this package a Plan.
type Config struct {
	MaxLineWidth int
	IndentWidth  int
	Minify       bool
	StrictEnv    bool
}

// Emitter renders one Plan. Construct via NewEmitter; Emit is safe to
// call once per instance (the Resolver it wraps accumulates state
// across the run, same as the rest of this pipeline).
type Emitter struct {
	resolver  *resolve.Resolver
	extractor *scope.Extractor
	cfg       Config
}

func NewEmitter(resolver *resolve.Resolver, extractor *scope.Extractor, cfg Config) *Emitter {
	return &Emitter{resolver: resolver, extractor: extractor, cfg: cfg}
}

// topLevel marks a rendering context that is outside every Scope Node
// factory body — real JS top-level script scope, where none of a
// node's own `let`/`const` declarations (trampoline bindings, plain
// Consumer consts) are in scope, only what that node's factory
// returned and was assigned to its instance const.
const topLevel = -1

// trampolineOwner records that a constructed function value is also a
// Trampoline binding's target, so its construction step must not
// declare a second name for it — the binding name itself is what every
// other reference uses (spec glossary: "the consumer IS the binding").
type trampolineOwner struct {
	nodeIndex int
	name      string
}

type emitState struct {
	p *plan.Plan

	nodeIndexOf    map[*graph.Node]int
	nodeByFrameKey map[scope.FrameKey]*graph.Node
	consumerNode   map[value.Identity]*graph.Node
	trampolineOf map[value.Identity]trampolineOwner
	propSteps    map[value.Identity][]plan.Step

	renderedNode map[int]bool // node factory+invoke already emitted
	renderedVal  map[value.Identity]bool
	topLevel     []doc
	rootName     string
}

// Result is the Emitter's output: the rendered statement list plus the
// name through which the reconstructed root value is reachable, so
// wrap.go can compose a module wrapper (`module.exports = <RootName>`,
// `export default <RootName>`, ...) without re-parsing Code.
type Result struct {
	Code     string
	RootName string
}

// Emit renders p as a complete module body: one `const`/`function`
// statement per top-level construction, Scope Node factories nested
// exactly where real JS lexical scoping needs them to be so the
// verbatim Consumer bodies this Emitter splices in resolve their free
// variables the same way the original closures did.
func (e *Emitter) Emit(p *plan.Plan) (Result, error) {
	st := &emitState{
		p:            p,
		nodeIndexOf:    make(map[*graph.Node]int, len(p.NodePlans)),
		nodeByFrameKey: make(map[scope.FrameKey]*graph.Node, len(p.NodePlans)),
		consumerNode:   make(map[value.Identity]*graph.Node),
		trampolineOf: make(map[value.Identity]trampolineOwner),
		propSteps:    make(map[value.Identity][]plan.Step),
		renderedNode: make(map[int]bool),
		renderedVal:  make(map[value.Identity]bool),
	}
	for i, np := range p.NodePlans {
		st.nodeIndexOf[np.Node] = i
		st.nodeByFrameKey[np.Node.Frame.Key] = np.Node
		for _, c := range np.Node.Consumers {
			st.consumerNode[c.Value.Identity] = np.Node
		}
		for _, b := range np.Bindings {
			if b.Trampoline && b.Value != nil {
				st.trampolineOf[b.Value.Identity] = trampolineOwner{nodeIndex: i, name: b.Name}
			}
		}
	}
	for _, s := range p.Steps {
		switch s.Op {
		case plan.OpAssignProperty, plan.OpDefineAccessor, plan.OpSetPrototype,
			plan.OpFreeze, plan.OpSeal, plan.OpPreventExtensions:
			st.propSteps[s.ValueID] = append(st.propSteps[s.ValueID], s)
		}
	}

	for _, s := range p.Steps {
		switch s.Op {
		case plan.OpConstructValue:
			if err := e.renderConstruct(st, s.ValueID); err != nil {
				return Result{}, err
			}
		case plan.OpDeclareFactory, plan.OpInvokeFactory:
			n := st.p.NodePlans[s.NodeIndex].Node
			if n.Parent != nil {
				continue // nested node: rendered recursively by its root ancestor
			}
			if st.renderedNode[s.NodeIndex] {
				continue
			}
			d, err := e.renderNodeFactory(st, s.NodeIndex)
			if err != nil {
				return Result{}, err
			}
			st.topLevel = append(st.topLevel, d)
		case plan.OpInstallTrampoline:
			// Handled inside renderNodeFactory for the owning node.
		case plan.OpAssignProperty, plan.OpDefineAccessor, plan.OpSetPrototype,
			plan.OpFreeze, plan.OpSeal, plan.OpPreventExtensions:
			// Flushed immediately after the owning value's construction.
		case plan.OpReturnRoot:
			st.rootName = e.nameForValue(st, s.ValueID, topLevel)
		}
	}

	body := dConcat(st.topLevel...)
	if e.cfg.StrictEnv {
		body = dConcat(dText(`"use strict";`), dHardLine(), body)
	}
	pr := newPrinter(e.cfg.MaxLineWidth, e.cfg.IndentWidth, e.cfg.Minify)
	return Result{Code: pr.printDoc(body), RootName: st.rootName}, nil
}

// renderConstruct emits the shell for one value reached by
// OpConstructValue, at top level, unless it is a function Consumer
// attached to some Scope Node (those are declared nested, inside their
// node's factory body — see renderNodeFactory) or the target of a
// Trampoline binding (assigned to its `let` binding inside the owning
// node's factory body, also by renderNodeFactory).
func (e *Emitter) renderConstruct(st *emitState, id value.Identity) error {
	if st.renderedVal[id] {
		return nil
	}
	v := st.p.Values[id]
	if v == nil {
		return internalErr("construct step for unknown value %d", id)
	}
	if v.Kind == value.KindFunction {
		if _, ok := st.trampolineOf[id]; ok {
			return nil // assigned in its node's factory body
		}
		if _, ok := st.consumerNode[id]; ok {
			return nil // deferred to its node's factory body
		}
	}
	st.renderedVal[id] = true

	name := e.nameForValue(st, id, topLevel)
	expr, err := e.renderExpr(st, v, topLevel)
	if err != nil {
		return err
	}
	st.topLevel = append(st.topLevel, dConcat(dText(fmt.Sprintf("const %s = ", name)), expr, dText(";"), dHardLine()))
	st.topLevel = append(st.topLevel, e.renderOwnProps(st, id, name, topLevel)...)
	return nil
}

// renderNodeFactory renders one Scope Node as a nested function
// declaration: its non-Trampoline bindings become parameters, its
// Trampoline bindings become `let`s assigned after everything else in
// its body has been constructed, its Consumers and child nodes are
// declared textually inside its body (so real JS lexical scoping, not
// any explicit threading of values, is what lets a deeply nested
// Consumer see an outer ancestor's binding), and it returns every name
// its body introduced so an outer reference to this node's instance
// can reach all of it.
func (e *Emitter) renderNodeFactory(st *emitState, idx int) (doc, error) {
	st.renderedNode[idx] = true
	np := st.p.NodePlans[idx]
	factoryName := e.resolver.ResolveNode(idx)
	instanceName := e.resolver.ResolveNodeInstance(idx)

	// The invocation statement this function builds (instanceName :=
	// factoryName(args...)) is a sibling statement in whatever scope
	// declared this node's factory, never inside the factory's own
	// body — so the args referencing captured values from an ancestor
	// frame must resolve names as if rendered from that outer context,
	// not from idx itself.
	callerCtx := topLevel
	if np.Node.Parent != nil {
		callerCtx = st.nodeIndexOf[np.Node.Parent]
	}

	var params []string
	var args []string
	var trampolines []string
	for _, b := range np.Bindings {
		bName := e.resolver.ResolveBinding(idx, b.Name)
		if b.Trampoline {
			trampolines = append(trampolines, bName)
			continue
		}
		params = append(params, bName)
		args = append(args, e.refFor(st, b.Value, callerCtx))
	}

	var bodyStmts []doc
	for _, t := range trampolines {
		bodyStmts = append(bodyStmts, dConcat(dText("let "+t+";"), dHardLine()))
	}

	var exposed []string
	exposed = append(exposed, params...)
	exposed = append(exposed, trampolines...)

	for _, c := range np.Node.Consumers {
		d, name, err := e.renderConsumer(st, idx, c)
		if err != nil {
			return nil, err
		}
		bodyStmts = append(bodyStmts, d)
		exposed = append(exposed, name)
	}

	for _, child := range np.Node.Children {
		childIdx, ok := st.nodeIndexOf[child]
		if !ok {
			return nil, internalErr("node %s has a child not present in the plan", np.Node.Frame.Key.BlockID)
		}
		childDoc, err := e.renderNodeFactory(st, childIdx)
		if err != nil {
			return nil, err
		}
		bodyStmts = append(bodyStmts, childDoc)
		exposed = append(exposed, e.resolver.ResolveNodeInstance(childIdx))
	}

	for _, b := range np.Bindings {
		if !b.Trampoline {
			continue
		}
		bName := e.resolver.ResolveBinding(idx, b.Name)
		valExpr, err := e.renderTrampolineValue(st, b.Value, idx)
		if err != nil {
			return nil, err
		}
		bodyStmts = append(bodyStmts, dConcat(dText(bName+" = "), valExpr, dText(";"), dHardLine()))
		if b.Value != nil {
			st.renderedVal[b.Value.Identity] = true
			bodyStmts = append(bodyStmts, e.renderOwnProps(st, b.Value.Identity, bName, idx)...)
		}
	}

	bodyStmts = append(bodyStmts, dConcat(dReturnObject(exposed), dHardLine()))

	funcDoc := dConcat(
		dText(fmt.Sprintf("function %s(%s) {", factoryName, strings.Join(params, ", "))), dHardLine(),
		dIndent(dConcat(bodyStmts...)),
		dText("}"), dHardLine(),
	)
	invokeDoc := dConcat(dText(fmt.Sprintf("const %s = %s(%s);", instanceName, factoryName, strings.Join(args, ", "))), dHardLine())
	return dConcat(funcDoc, invokeDoc), nil
}

// renderTrampolineValue renders a Trampoline binding's function value
// for the assignment that follows its `let` declaration, substituting
// every captured free identifier exactly like an ordinary Consumer —
// including the function's own name, so a named function expression
// whose name collided with another identifier in this run still
// refers to the same renamed variable from inside its own body.
func (e *Emitter) renderTrampolineValue(st *emitState, v *value.Value, cur int) (doc, error) {
	if v == nil || v.Kind != value.KindFunction {
		return e.renderExpr(st, v, cur)
	}
	record, ok := e.extractor.RecordFor(v.Identity)
	if !ok || record == nil {
		return e.renderExpr(st, v, cur)
	}
	return dText(resolve.Substitute(record.SourceText, e.renamesFor(st, record))), nil
}

// renderConsumer declares one function Consumer inside its Scope
// Node's body, splicing its FunctionRecord's verbatim source text
// after substituting every renamed free identifier it closes over
// (spec §4.6: Substitute applies every rename from one node's bindings
// in a single pass). A Consumer that is also a Trampoline's own target
// is declared via `let` instead of `const` so the self-referencing
// assignment (in renderNodeFactory's trampoline-install pass) can
// follow it — spec glossary's "function's own name visible inside its
// own body" case.
func (e *Emitter) renderConsumer(st *emitState, nodeIdx int, c *graph.Consumer) (doc, string, error) {
	record := c.Record
	if record == nil {
		if r, ok := e.extractor.RecordFor(c.Value.Identity); ok {
			record = r
		}
	}
	if record == nil {
		return nil, "", internalErr("consumer %d has no FunctionRecord", c.Value.Identity)
	}

	if owner, ok := st.trampolineOf[c.Value.Identity]; ok && owner.nodeIndex == nodeIdx {
		name := e.resolver.ResolveBinding(nodeIdx, owner.name)
		return dText(""), name, nil
	}

	name := e.resolver.ResolveConsumer(c.Value.Identity, record.Name)
	body := resolve.Substitute(record.SourceText, e.renamesFor(st, record))

	st.renderedVal[c.Value.Identity] = true
	d := dConcat(dText(fmt.Sprintf("const %s = ", name)), dText(body), dText(";"), dHardLine())
	d = dConcat(d, dConcat(e.renderOwnProps(st, c.Value.Identity, name, nodeIdx)...))
	return d, name, nil
}

// renamesFor builds the {original-identifier -> resolved-identifier}
// map a Consumer's verbatim body needs substituted, by walking every
// frame it closes over and asking the Resolver for that frame's Scope
// Node index and each touched binding's resolved name.
func (e *Emitter) renamesFor(st *emitState, record *scope.FunctionRecord) map[string]string {
	renames := make(map[string]string)
	for i := range record.Frames {
		usage := record.Frames[i]
		node, ok := st.nodeByFrameKey[usage.Frame.Key]
		if !ok {
			continue
		}
		idx := st.nodeIndexOf[node]
		for name := range usage.Frame.Bindings {
			if !usage.Touches(name) {
				continue
			}
			renames[name] = e.resolver.ResolveBinding(idx, name)
		}
	}
	return renames
}

// renderOwnProps emits every queued property/prototype/freeze step for
// id, in the order the Planner produced them, now that ownerName is in
// scope. cur is the rendering context (topLevel, or the Scope Node
// index whose body these statements are textually part of) any
// Trampoline/Consumer reference among these steps must be resolved
// against.
func (e *Emitter) renderOwnProps(st *emitState, id value.Identity, ownerName string, cur int) []doc {
	var out []doc
	for _, s := range st.propSteps[id] {
		out = append(out, e.renderPropStep(st, s, ownerName, cur))
	}
	return out
}

func (e *Emitter) renderPropStep(st *emitState, s plan.Step, ownerName string, cur int) doc {
	switch s.Op {
	case plan.OpSetPrototype:
		return dConcat(dText(fmt.Sprintf("Object.setPrototypeOf(%s, %s);", ownerName, e.nameForValue(st, s.TargetID, cur))), dHardLine())
	case plan.OpFreeze:
		return dConcat(dText(fmt.Sprintf("Object.freeze(%s);", ownerName)), dHardLine())
	case plan.OpSeal:
		return dConcat(dText(fmt.Sprintf("Object.seal(%s);", ownerName)), dHardLine())
	case plan.OpPreventExtensions:
		return dConcat(dText(fmt.Sprintf("Object.preventExtensions(%s);", ownerName)), dHardLine())
	case plan.OpAssignProperty:
		return dConcat(dText(fmt.Sprintf("%s = %s;", propertyAccess(ownerName, s.PropertyKey), e.propValueFor(st, s, cur))), dHardLine())
	case plan.OpDefineAccessor:
		return e.renderDefineProperty(st, s, ownerName, cur)
	}
	return dText("")
}

func (e *Emitter) renderDefineProperty(st *emitState, s plan.Step, ownerName string, cur int) doc {
	fields := []string{
		fmt.Sprintf("enumerable: %v", s.Enumerable),
		fmt.Sprintf("configurable: %v", s.Configurable),
	}
	if s.GetterID != 0 || s.SetterID != 0 {
		if s.GetterID != 0 {
			fields = append(fields, "get: "+e.nameForValue(st, s.GetterID, cur))
		}
		if s.SetterID != 0 {
			fields = append(fields, "set: "+e.nameForValue(st, s.SetterID, cur))
		}
	} else {
		fields = append(fields, fmt.Sprintf("writable: %v", s.Writable), "value: "+e.propValueFor(st, s, cur))
	}
	prefix := fmt.Sprintf("Object.defineProperty(%s, %s, ", ownerName, propertyKeyLiteral(s.PropertyKey))
	return dConcat(dText(prefix), dObjectLiteral(fields), dText(");"), dHardLine())
}

// propValueFor renders the value a data-property step stores. A
// primitive value carries no Identity (its TargetID is zero), so its
// literal is read back from the owner's own descriptor for that key.
func (e *Emitter) propValueFor(st *emitState, s plan.Step, cur int) string {
	if owner := st.p.Values[s.ValueID]; owner != nil && owner.Props != nil {
		if d, ok := owner.Props.Get(s.PropertyKey); ok {
			return e.refFor(st, d.Value, cur)
		}
	}
	return e.nameForValue(st, s.TargetID, cur)
}

// renderExpr renders the right-hand side expression for constructing
// v's shell (no own-properties, no prototype — those are separate
// Steps restored by renderOwnProps). cur is the rendering context, see
// renderOwnProps.
func (e *Emitter) renderExpr(st *emitState, v *value.Value, cur int) (doc, error) {
	if lit, ok := literalFor(v); ok {
		return dText(lit), nil
	}
	switch v.Kind {
	case value.KindObject:
		return dText("{}"), nil
	case value.KindArray:
		return dText(fmt.Sprintf("new Array(%d)", v.Length)), nil
	case value.KindRegExp:
		return dText(fmt.Sprintf("/%s/%s", v.RegexSource, v.RegexFlags)), nil
	case value.KindDate:
		if v.DateInvalid {
			return dText(`new Date(NaN)`), nil
		}
		return dText(fmt.Sprintf("new Date(%s)", formatNumber(v.DateMillis))), nil
	case value.KindFunction:
		return e.renderFunctionExpr(st, v, cur)
	case value.KindSymbol:
		if v.Str == "" {
			return dText("Symbol()"), nil
		}
		return dText(fmt.Sprintf("Symbol(%s)", strconv.Quote(v.Str))), nil
	default:
		return nil, internalErr("construct: unhandled kind %s", v.Kind)
	}
}

// literalFor returns the inline JS literal for a primitive value (or
// nil), and false for anything that must instead be referenced by
// name. Kept separate from renderExpr's doc-producing path so
// nameForValue can inline a primitive's text without round-tripping
// through the document algebra and its multi-line splitting.
func literalFor(v *value.Value) (string, bool) {
	if v == nil {
		return "undefined", true
	}
	switch v.Kind {
	case value.KindUndefined:
		return "undefined", true
	case value.KindNull:
		return "null", true
	case value.KindBool:
		return strconv.FormatBool(v.Bool), true
	case value.KindNumber:
		return formatNumber(v.Number), true
	case value.KindString:
		return strconv.Quote(v.Str), true
	case value.KindBigInt:
		return v.BigInt + "n", true
	default:
		return "", false
	}
}

// renderFunctionExpr handles a function value that is neither a
// Trampoline target nor a node Consumer — a closure-free function
// (spec §4.2's "might close over nothing" fallback) or a bound
// function (spec §4.1: captures target/this/args, no source text of
// its own).
func (e *Emitter) renderFunctionExpr(st *emitState, v *value.Value, cur int) (doc, error) {
	if v.Function != nil && v.Function.SubKind == value.FnBound {
		target := e.refFor(st, v.Function.BoundTarget, cur)
		argExprs := []string{e.refFor(st, v.Function.BoundThis, cur)}
		for _, a := range v.Function.BoundArgs {
			argExprs = append(argExprs, e.refFor(st, a, cur))
		}
		return dCallArgs(target+".bind", argExprs), nil
	}
	record, ok := e.extractor.RecordFor(v.Identity)
	if !ok || record == nil {
		return nil, internalErr("function %d has no FunctionRecord and is not bound", v.Identity)
	}
	return dText(record.SourceText), nil
}

// nameForValue returns the identifier through which id should be
// referenced from rendering context cur (topLevel, or the index of
// the Scope Node whose factory body this reference is textually
// inside): a bare `let`/`const` identifier — a Trampoline binding or a
// plain Consumer's own name — when cur is that value's owning node or
// a descendant of it (real JS lexical scoping puts both in view), the
// owning node's exported instance property otherwise (anywhere outside
// that node's own subtree, the returned instance object is the only
// thing any scope ever actually holds onto), or a literal/top-level
// const name when id isn't tied to any Scope Node at all.
func (e *Emitter) nameForValue(st *emitState, id value.Identity, cur int) string {
	if id == 0 {
		return "undefined"
	}
	if owner, ok := st.trampolineOf[id]; ok {
		bName := e.resolver.ResolveBinding(owner.nodeIndex, owner.name)
		if e.isInScope(st, owner.nodeIndex, cur) {
			return bName
		}
		// Outside the owning node's own subtree the `let` binding itself
		// is unreachable (it never escapes the factory body); the node's
		// factory returns it under the same name, so qualify it through
		// the node's instance.
		return e.instanceRef(st, owner.nodeIndex, cur) + "." + bName
	}
	if node, ok := st.consumerNode[id]; ok {
		nodeIdx := st.nodeIndexOf[node]
		if e.isInScope(st, nodeIdx, cur) {
			return e.resolver.ResolveConsumer(id, e.preferredConsumerName(id))
		}
		consumerName := e.resolver.ResolveConsumer(id, e.preferredConsumerName(id))
		return e.instanceRef(st, nodeIdx, cur) + "." + consumerName
	}
	v := st.p.Values[id]
	if lit, ok := literalFor(v); ok {
		return lit
	}
	return e.resolver.ResolveValue(id)
}

// instanceRef names node idx's instance as seen from context cur. A
// nested node's instance const is declared inside its parent's factory
// body, so outside that body it is reached through the parent's own
// instance, whose factory returns it under the same name.
func (e *Emitter) instanceRef(st *emitState, idx, cur int) string {
	name := e.resolver.ResolveNodeInstance(idx)
	parent := st.p.NodePlans[idx].Node.Parent
	if parent == nil || e.isInScope(st, st.nodeIndexOf[parent], cur) {
		return name
	}
	return e.instanceRef(st, st.nodeIndexOf[parent], cur) + "." + name
}

// refFor is nameForValue for a value that may be a primitive:
// primitives carry no Identity, so their literal text is used directly.
func (e *Emitter) refFor(st *emitState, v *value.Value, cur int) string {
	if lit, ok := literalFor(v); ok {
		return lit
	}
	return e.nameForValue(st, v.Identity, cur)
}

func (e *Emitter) preferredConsumerName(id value.Identity) string {
	if r, ok := e.extractor.RecordFor(id); ok {
		return r.Name
	}
	return ""
}

// isInScope reports whether a reference rendered at context cur can
// see ownerIdx's node-local `let`/`const` declarations directly,
// without going through its exported instance object: true when cur is
// ownerIdx itself or nested inside it (a child, grandchild, ... of
// ownerIdx's Scope Node — since a descendant's factory is always
// declared textually inside its ancestors' bodies). topLevel (-1)
// is never in scope of any node.
func (e *Emitter) isInScope(st *emitState, ownerIdx, cur int) bool {
	if cur < 0 {
		return false
	}
	owner := st.p.NodePlans[ownerIdx].Node
	for n := st.p.NodePlans[cur].Node; n != nil; n = n.Parent {
		if n == owner {
			return true
		}
	}
	return false
}

func valueIdentity(v *value.Value) value.Identity {
	if v == nil {
		return 0
	}
	return v.Identity
}

var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func propertyAccess(owner string, key value.PropKey) string {
	if key.IsIndex() {
		return fmt.Sprintf("%s[%d]", owner, key.Index())
	}
	if key.IsString() && identRe.MatchString(key.String()) {
		return owner + "." + key.String()
	}
	return fmt.Sprintf("%s[%s]", owner, propertyKeyLiteral(key))
}

func propertyKeyLiteral(key value.PropKey) string {
	if key.IsIndex() {
		return strconv.FormatUint(uint64(key.Index()), 10)
	}
	if key.IsSymbol() {
		return "Symbol()" // see DESIGN.md: symbol-keyed properties are a known limitation
	}
	return strconv.Quote(key.String())
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0 && math.Signbit(n):
		return "-0"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func internalErr(format string, args ...any) error {
	return faults.New(faults.KindInternalInvariant, nil, format, args...)
}
