package scope

// Binding is a named slot inside a Block, per spec §3. The boolean
// flags are aggregated from every function that closes over this
// binding across the whole serialization run (the Scope Graph
// Builder is what actually does that aggregation — see
// graph.Node.Needed/Written); Binding itself is the per-occurrence
// record the extractor reports for one function.
type Binding struct {
	Name                     string
	Read                     bool
	Written                  bool
	IsConst                  bool
	IsFunctionExpressionName bool
	IsCaughtError            bool
	IsLoopVar                bool
	HasSiblingCapture        bool
}

// Merge combines another observation of the same binding name (seen
// from a different consumer) into this one, OR-ing the boolean flags.
// Used by the graph builder when aggregating per-function Bindings
// into a Scope Node's needed-bindings set (spec §4.3 rule 3).
func (b *Binding) Merge(other Binding) {
	b.Read = b.Read || other.Read
	b.Written = b.Written || other.Written
	b.IsConst = b.IsConst || other.IsConst
	b.IsFunctionExpressionName = b.IsFunctionExpressionName || other.IsFunctionExpressionName
	b.IsCaughtError = b.IsCaughtError || other.IsCaughtError
	b.IsLoopVar = b.IsLoopVar || other.IsLoopVar
	b.HasSiblingCapture = b.HasSiblingCapture || other.HasSiblingCapture
}
