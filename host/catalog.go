// Package host realizes the two read-only registries spec §6 calls
// "inward" and "outward" external interfaces that are not part of the
// core pipeline proper but that every component needs to consult: the
// Block catalog (what blocks exist, and their declared names/flags)
// and the host builtin whitelist (what free identifiers the emitted
// artifact is allowed to reference).
//
// Both are grounded on the teacher's registry pattern in
// bytecode/vm/module_registry.go (a map keyed by path, built once,
// looked up many times) and bytecode/vm/ffi_registry.go (a map keyed
// by binding name, same shape) — repurposed here from "dispatch a
// call" to "answer a read-only membership/metadata question".
package host

import "github.com/reviv-lang/reviv/scope"

// BlockCatalog is the read-only `block_id -> {parent_block_id?,
// declared_names, flags}` map spec §6 calls the "Block catalog",
// "produced once at module load". One BlockCatalog is built per
// serialization run from whatever the instrumentation layer reports.
type BlockCatalog struct {
	blocks map[string]scope.Block
}

// NewBlockCatalog builds the catalog once, mirroring
// ModuleRegistry.Register being called for every known handler at
// construction time rather than lazily.
func NewBlockCatalog(blocks []scope.Block) *BlockCatalog {
	c := &BlockCatalog{blocks: make(map[string]scope.Block, len(blocks))}
	for _, b := range blocks {
		c.blocks[b.ID] = b
	}
	return c
}

func (c *BlockCatalog) Lookup(id string) (scope.Block, bool) {
	b, ok := c.blocks[id]
	return b, ok
}

// Parent returns the catalog entry for block id's enclosing block, or
// false if id is a module-top block or unknown.
func (c *BlockCatalog) Parent(id string) (scope.Block, bool) {
	b, ok := c.blocks[id]
	if !ok || b.ParentBlockID == "" {
		return scope.Block{}, false
	}
	return c.Lookup(b.ParentBlockID)
}

// Ancestors walks id up to the module-top block, innermost first,
// not including id itself. The graph builder does not call it: it
// links child Scope Nodes to their parent from the order of the
// frames each function's tracker reports.
func (c *BlockCatalog) Ancestors(id string) []scope.Block {
	var out []scope.Block
	cur := id
	for {
		b, ok := c.blocks[cur]
		if !ok || b.ParentBlockID == "" {
			return out
		}
		parent, ok := c.blocks[b.ParentBlockID]
		if !ok {
			return out
		}
		out = append(out, parent)
		cur = parent.ID
	}
}

func (c *BlockCatalog) Len() int { return len(c.blocks) }
