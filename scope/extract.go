package scope

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/reviv-lang/reviv/faults"
	"github.com/reviv-lang/reviv/internal/fingerprint"
	"github.com/reviv-lang/reviv/value"
)

// FunctionRecord is the extractor's output for one function, per spec
// §4.2: fingerprint, ordered frames (innermost first), per-frame
// reads/writes, and the metadata the Emitter needs to reproduce
// name/length and verbatim source text.
type FunctionRecord struct {
	Fingerprint string
	SourceText  string
	// Frames is ordered innermost-first, matching the tracker
	// protocol's documented order (spec §6).
	Frames []Usage

	Name       string
	NameDesc   value.Descriptor
	Length     int
	LengthDesc value.Descriptor
}

// FrameOf returns usage of a particular block, or nil if this
// function does not close over it.
func (r *FunctionRecord) FrameOf(blockID string) *Usage {
	for i := range r.Frames {
		if r.Frames[i].Frame.Key.BlockID == blockID {
			return &r.Frames[i]
		}
	}
	return nil
}

// Extractor invokes each function's tracker once and memoizes the
// result by identity, per spec §4.2 ("The extractor invokes it once
// per function and memoizes"). It also owns the run's Frame registry
// so that two functions sharing a runtime scope frame (same call of
// the same outer function, spec §3) are attached to the exact same
// *Frame value — this is what lets the Scope Graph Builder allocate
// one Scope Node per frame instead of one per function.
type Extractor struct {
	token  Token
	mu     sync.Mutex
	frames map[FrameKey]*Frame
	cache  map[value.Identity]*FunctionRecord
	group  singleflight.Group
}

func NewExtractor(token Token) *Extractor {
	return &Extractor{
		token:  token,
		frames: make(map[FrameKey]*Frame),
		cache:  make(map[value.Identity]*FunctionRecord),
	}
}

// Extract realizes `extract(fn) -> FunctionRecord` from spec §4.2.
// fn must be a Kind==KindFunction value carrying a Tracker; path is
// used only to build a faults.Error when the tracker is missing and
// the function closes over something (the one fatal case spec §4.2
// documents).
//
// Two calls for the same fn.Identity collapse into a single Track
// invocation via singleflight, rather than just racing to fill the
// same cache slot: spec §4.2 requires the tracker be invoked "once
// per function", and a future instrumentation layer that discovers
// and extracts sibling closures from multiple goroutines (the same
// forward-looking concern documented on value.Classifier's sync.Map
// cache) must not be able to violate that by invoking Track twice for
// one identity.
func (e *Extractor) Extract(fn *value.Value, tr Tracker, path faults.Path) (*FunctionRecord, error) {
	e.mu.Lock()
	if cached, ok := e.cache[fn.Identity]; ok {
		e.mu.Unlock()
		return cached, nil
	}
	e.mu.Unlock()

	key := fmt.Sprintf("%d", fn.Identity)
	v, err, _ := e.group.Do(key, func() (any, error) {
		e.mu.Lock()
		if cached, ok := e.cache[fn.Identity]; ok {
			e.mu.Unlock()
			return cached, nil
		}
		e.mu.Unlock()

		result, ok := tr.Track(e.token)
		if !ok {
			return e.handleMissingTracker(fn, path)
		}

		record := &FunctionRecord{
			Fingerprint: result.Fingerprint,
			SourceText:  result.SourceText,
		}
		if record.Fingerprint == "" {
			record.Fingerprint = fingerprint.Of(result.SourceText)
		}
		if fn.Function != nil {
			record.Name = fn.Function.Name
			record.NameDesc = fn.Function.NameDesc
			record.Length = fn.Function.Length
			record.LengthDesc = fn.Function.LengthDesc
		}

		record.Frames = make([]Usage, 0, len(result.Frames))
		for _, raw := range result.Frames {
			frame := e.frameFor(raw)
			writes := make(map[string]bool, len(raw.Writes))
			for _, w := range raw.Writes {
				writes[w] = true
			}
			reads := make(map[string]bool, len(raw.Bindings))
			for name := range raw.Bindings {
				reads[name] = true
			}
			record.Frames = append(record.Frames, Usage{Frame: frame, Reads: reads, Writes: writes})
		}

		e.mu.Lock()
		e.cache[fn.Identity] = record
		e.mu.Unlock()
		return record, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*FunctionRecord), nil
}

// frameFor returns the shared *Frame for raw's key, creating it on
// first sight and merging in any bindings this call observes that an
// earlier function's tracker call did not report (every tracker call
// for the same live frame should agree on the binding set; merging
// rather than asserting keeps extraction robust to an instrumentation
// layer that only reports bindings a given function actually touches).
func (e *Extractor) frameFor(raw RawFrame) *Frame {
	key := FrameKey{BlockID: raw.BlockID, InstantiationID: raw.InstantiationID}

	e.mu.Lock()
	defer e.mu.Unlock()
	frame, ok := e.frames[key]
	if !ok {
		frame = &Frame{Key: key, Bindings: make(map[string]*value.Value, len(raw.Bindings))}
		e.frames[key] = frame
	}
	for name, v := range raw.Bindings {
		frame.Bindings[name] = v
	}
	return frame
}

// handleMissingTracker implements spec §4.2's documented fallback: a
// function with no tracker is unreconstructable; if its body closes
// over nothing the extractor still emits a best-effort record with an
// empty closure, otherwise the whole value fails to serialize.
//
// Since there is no tracker, "closes over nothing" cannot be verified
// from captured bindings. This extractor treats a function with no
// Home object and no BoundTarget as closure-free and returns a
// best-effort record with no frames and no source text; any other
// function fails fast.
func (e *Extractor) handleMissingTracker(fn *value.Value, path faults.Path) (*FunctionRecord, error) {
	if fn.Function == nil {
		return nil, faults.New(faults.KindUnreconstructable, path, "function value has no metadata and no tracker")
	}
	closesOverNothing := fn.Function.Home == nil && fn.Function.BoundTarget == nil
	if !closesOverNothing {
		return nil, faults.New(faults.KindUnreconstructable, path,
			"function %q has no tracker and cannot be proven closure-free", fn.Function.Name)
	}
	record := &FunctionRecord{
		Fingerprint: fingerprint.Of("unreconstructable", fn.Function.Name),
		Name:        fn.Function.Name,
		NameDesc:    fn.Function.NameDesc,
		Length:      fn.Function.Length,
		LengthDesc:  fn.Function.LengthDesc,
	}
	return record, nil
}

// RecordFor returns the memoized FunctionRecord for a function
// identity already seen by Extract, for callers downstream of the
// extractor (package emit) that need to render a function's body
// without re-deriving it. ok is false for any identity Extract was
// never called with, including every non-function value.
func (e *Extractor) RecordFor(id value.Identity) (*FunctionRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.cache[id]
	return r, ok
}

// AllFrames returns every Frame allocated so far, sorted by first
// FrameKey component then instantiation id, so callers iterate frames
// in a deterministic order.
func (e *Extractor) AllFrames() []*Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Frame, 0, len(e.frames))
	for _, f := range e.frames {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.BlockID != out[j].Key.BlockID {
			return out[i].Key.BlockID < out[j].Key.BlockID
		}
		return out[i].Key.InstantiationID < out[j].Key.InstantiationID
	})
	return out
}
