package scope

import "github.com/reviv-lang/reviv/value"

// Token is the "secret token" spec §6 describes: an opaque capability
// that must be presented to a function's hidden tracker entry point
// before it will reveal its captured environment instead of running
// its body. The core never constructs more than one per run; its
// only job is to make clear, in the type system, that Track is not a
// normal call.
type Token struct{ run uint64 }

// RawFrame is the wire shape a Tracker reports for one frame of the
// scope chain, per spec §6's inward protocol:
// `{block_id, instantiation_id, bindings: {name -> value}, writes: [name,...]}`.
type RawFrame struct {
	BlockID         string
	InstantiationID uint64
	Bindings        map[string]*value.Value
	Writes          []string
}

// TrackResult is the full tracker response: frames innermost-first,
// a stable fingerprint for "the same function definition", and the
// verbatim source text of the function body (used for emission and,
// when the tracker is missing, for the best-effort fallback in
// spec §4.2).
type TrackResult struct {
	Frames      []RawFrame
	Fingerprint string
	SourceText  string
}

// Tracker is the instrumentation contract: every instrumented
// function exposes one. Track must be idempotent and side-effect-free
// when called with the run's Token (spec §5) — that is assumed, not
// verified, by this package. ok is false when the function was never
// loaded through the instrumenter (spec §4.2's "unreconstructable"
// case).
type Tracker interface {
	Track(tok Token) (result TrackResult, ok bool)
}

// NewRunToken mints the single Token used for one serialization run.
// Callers (the root reviv.Serialize orchestration) construct exactly
// one and thread it through every Extract call in that run.
func NewRunToken(runID uint64) Token { return Token{run: runID} }
