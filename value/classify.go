package value

import "sync"

// Classification is the read-only record the Emitter and downstream
// components use to decide how to reproduce a value, per spec §4.1.
// For most Kinds it adds little beyond the Value itself; its real job
// is flagging "special" values and memoizing that judgment by
// identity so repeated visits during the DFS walk (builder, planner)
// don't re-derive it.
type Classification struct {
	Value   *Value
	Special bool // altered descriptors, non-default prototype, frozen/sealed, ...

	// Unreconstructable is set by Classify for a function whose
	// FunctionValue carries an empty Fingerprint, and by
	// MarkUnreconstructable. Per spec §4.2, if such a function
	// closes over nothing it is still emitted via BestEffortBody; if
	// it does close over something, the whole run fails at this value
	// (see faults.KindUnreconstructable).
	Unreconstructable bool
	BestEffortBody    string // verbatim source text, used only when Unreconstructable && closes over nothing
}

// Classifier never mutates the values it is given (spec §4.1
// contract) and caches its verdict per Identity so that a value
// reachable through many paths in the graph is classified exactly
// once. The cache is sync.Map-backed, mirroring vm.GlobalVM's
// methodClosures cache, even though today's pipeline drives the
// classifier from a single goroutine — a future instrumentation
// layer invoking trackers reentrantly is the documented risk this
// guards against (see SPEC_FULL.md §4.1).
type Classifier struct {
	cache sync.Map // Identity -> Classification
}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the memoized Classification for v, computing it on
// first encounter. Both verdicts are computed here from v alone:
// Special from its prototype, extensibility, property descriptors and
// (for functions) sub-kind and name/length descriptors;
// Unreconstructable for a function whose FunctionValue has an empty
// Fingerprint.
func (c *Classifier) Classify(v *Value) Classification {
	if v == nil {
		return Classification{}
	}
	if cached, ok := c.cache.Load(v.Identity); ok {
		return cached.(Classification)
	}
	cl := Classification{
		Value:   v,
		Special: computeSpecial(v),
	}
	if v.Kind == KindFunction && v.Function != nil && v.Function.Fingerprint == "" {
		cl.Unreconstructable = true
	}
	actual, _ := c.cache.LoadOrStore(v.Identity, cl)
	return actual.(Classification)
}

// MarkUnreconstructable overrides a prior verdict once the scope
// extractor has determined a function's tracker is missing and it
// closes over live bindings (so no best-effort body applies).
func (c *Classifier) MarkUnreconstructable(v *Value, bestEffortBody string) {
	cl := c.Classify(v)
	cl.Unreconstructable = true
	cl.BestEffortBody = bestEffortBody
	c.cache.Store(v.Identity, cl)
}

func computeSpecial(v *Value) bool {
	if v.PrototypeIsNull {
		return true
	}
	if v.Prototype != nil {
		return true
	}
	if v.Frozen || v.Sealed || !v.Extensible {
		return true
	}
	if v.Props != nil {
		for _, e := range v.Props.Entries() {
			if !e.Desc.IsDefault() {
				return true
			}
		}
	}
	if v.Kind == KindFunction && v.Function != nil {
		if v.Function.SubKind != FnPlain {
			return true
		}
		if !v.Function.NameDesc.IsDefault() || !v.Function.LengthDesc.IsDefault() {
			return true
		}
	}
	return false
}
