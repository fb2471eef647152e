// Package debug provides diagnostic dumping for the two shapes of Go
// value this repository needs to inspect when something goes wrong:
// the live, pointer-cyclic value/Scope Graph (Dump), and a flattened,
// cycle-free snapshot a developer might want to paste back into a Go
// test (Repr).
package debug

import (
	"github.com/alecthomas/repr"
	"github.com/davecgh/go-spew/spew"
)

// dumpConfig disables method-based stringification so a *value.Value
// with a custom String() method still shows its raw field layout. It
// sets no depth limit: a pathological value graph (spec §3's cyclic
// object/prototype references) is exactly the kind of structure this
// exists to debug — spew's cycle detection keeps that safe, where a
// naive recursive %+v would not terminate.
var dumpConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Dump renders v (typically a *value.Value, *graph.Graph, or *plan.Plan
// reached mid-debugging) as an indented, cycle-safe multi-line string.
func Dump(v any) string {
	return dumpConfig.Sdump(v)
}

// Repr renders v as Go-syntax-like source text, for snapshot-style
// values (plan.PlanSnapshot and friends) that are already pointer-free
// and small enough to read back as a literal — useful in a failing
// test's log output when cmp.Diff's line-oriented format is harder to
// eyeball than the whole value would be. Grounded on
// vfilter/utils.go's Debug(arg) -> repr.Println(arg) convention.
func Repr(v any) string {
	return repr.String(v, repr.OmitEmpty(true))
}
