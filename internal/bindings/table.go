package bindings

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"movec/internal/source"
	"movec/internal/types"
)

// frame is one lexical scope: declaration order plus a name index.
// The name index keeps Moved/Dropped bindings so stale reads still resolve
// and can be flagged instead of falling through to an outer scope.
type frame struct {
	order []BindingID
	names map[string]BindingID
}

// Table is the binding table of one checker pass: an arena of bindings and
// a stack of scope frames. Index 0 of the arena is the NoBindingID sentinel.
// The table is exclusively owned by one pass; no locking discipline needed.
type Table struct {
	arena  []Binding
	frames []frame
	synth  uint32 // counter for disambiguated duplicate keys
}

// NewTable builds an empty table with the sentinel slot reserved.
func NewTable() *Table {
	return &Table{
		arena: make([]Binding, 1, 16),
	}
}

// Depth returns the number of open scopes.
func (t *Table) Depth() int {
	return len(t.frames)
}

// EnterScope pushes an empty scope frame. No failure mode.
func (t *Table) EnterScope() {
	t.frames = append(t.frames, frame{
		names: make(map[string]BindingID),
	})
}

// ExitScope pops the top frame and returns its still-Live bindings in
// reverse declaration order for drop processing. ok is false when no scope
// is open.
func (t *Table) ExitScope() (live []BindingID, ok bool) {
	if len(t.frames) == 0 {
		return nil, false
	}
	top := t.frames[len(t.frames)-1]
	t.frames = t.frames[:len(t.frames)-1]

	for i := len(top.order) - 1; i >= 0; i-- {
		id := top.order[i]
		if t.arena[id].State == StateLive {
			live = append(live, id)
		}
	}
	return live, true
}

// Declare creates a Live binding for name in the current scope. When a Live
// binding with the same name already exists in this scope, dup is true and
// the new binding is stored under a disambiguated synthetic key: the
// original keeps the name, analysis continues with both.
func (t *Table) Declare(name string, ty types.TypeID, kind types.ValueKind, decl source.Span) (id BindingID, dup bool) {
	if len(t.frames) == 0 {
		t.EnterScope()
	}
	top := &t.frames[len(t.frames)-1]

	key := name
	if prev, exists := top.names[name]; exists && t.arena[prev].State == StateLive {
		dup = true
		t.synth++
		key = name + "#" + strconv.FormatUint(uint64(t.synth), 10)
	}

	id = t.alloc(Binding{
		Name:  name,
		Type:  ty,
		Kind:  kind,
		State: StateLive,
		Decl:  decl,
		Depth: t.depth32(),
	})
	top.order = append(top.order, id)
	top.names[key] = id
	return id, dup
}

// Lookup searches innermost-to-outermost for name. It resolves to
// Moved/Dropped bindings too; state checks belong to the caller.
func (t *Table) Lookup(name string) (BindingID, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if id, ok := t.frames[i].names[name]; ok {
			return id, true
		}
	}
	return NoBindingID, false
}

// Get returns the binding for an ID. The pointer stays valid until the next
// Declare.
func (t *Table) Get(id BindingID) *Binding {
	if !id.IsValid() || int(id) >= len(t.arena) {
		return nil
	}
	return &t.arena[id]
}

// MarkMoved transitions Live -> Moved and records the move site.
// Non-Live states are absorbing: the call is a no-op and returns false.
func (t *Table) MarkMoved(id BindingID, at source.Span) bool {
	b := t.Get(id)
	if b == nil || b.State != StateLive {
		return false
	}
	b.State = StateMoved
	b.MovedAt = at
	return true
}

// MarkDropped transitions Live -> Dropped. Absorbing like MarkMoved.
func (t *Table) MarkDropped(id BindingID) bool {
	b := t.Get(id)
	if b == nil || b.State != StateLive {
		return false
	}
	b.State = StateDropped
	return true
}

// ResetLive is the best-effort recovery hook: after a use-after-move is
// reported, the binding is treated as Live again so later unrelated errors
// stay discoverable in the same pass.
func (t *Table) ResetLive(id BindingID) {
	b := t.Get(id)
	if b == nil {
		return
	}
	b.State = StateLive
	b.MovedAt = source.Span{}
}

func (t *Table) alloc(b Binding) BindingID {
	lenArena, err := safecast.Conv[uint32](len(t.arena))
	if err != nil {
		panic(fmt.Errorf("binding arena overflow: %w", err))
	}
	id := BindingID(lenArena)
	t.arena = append(t.arena, b)
	return id
}

func (t *Table) depth32() uint32 {
	d, err := safecast.Conv[uint32](len(t.frames))
	if err != nil {
		panic(fmt.Errorf("scope depth overflow: %w", err))
	}
	return d
}
