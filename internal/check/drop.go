package check

import (
	"movec/internal/source"
	"movec/internal/types"
)

// exitScope pops the innermost scope and plans its releases: reverse
// declaration order, Copyable bindings skipped (nothing to reclaim), every
// still-live MoveOnly binding released exactly once and transitioned to
// Dropped. Moved-out bindings never appear here - their owner left the
// scope, which is the structural guarantee against double release.
func (c *Checker) exitScope(at source.Span) {
	live, ok := c.table.ExitScope()
	if !ok {
		return
	}
	for _, id := range live {
		b := c.table.Get(id)
		if b.Kind == types.ValueMoveOnly {
			c.plan = append(c.plan, Release{
				Binding: b.Name,
				Decl:    b.Decl,
				At:      at,
			})
		}
		c.table.MarkDropped(id)
	}
}
