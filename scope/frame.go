package scope

import "github.com/reviv-lang/reviv/value"

// FrameKey identifies a Scope Frame: one runtime instantiation of one
// lexical Block, per spec §3's "pair (block-id, instantiation-id)".
// Two functions created during the same call of the same outer
// function share a FrameKey for that outer block; two created during
// different calls do not.
type FrameKey struct {
	BlockID         string
	InstantiationID uint64
}

// Frame is a Scope Frame: a FrameKey plus the runtime value bound to
// each binding the frame materializes at serialization time.
type Frame struct {
	Key      FrameKey
	Bindings map[string]*value.Value
}

// Usage is what one function's tracker reports about one Frame it
// closes over: which of the frame's bindings that particular function
// reads and/or writes. Multiple functions sharing a Frame may report
// different (possibly overlapping) Usage for it — the graph builder
// unions these per spec §4.3 rule 3.
type Usage struct {
	Frame  *Frame
	Reads  map[string]bool
	Writes map[string]bool
}

func (u Usage) Touches(name string) bool {
	return u.Reads[name] || u.Writes[name]
}
