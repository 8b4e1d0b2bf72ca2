package bindings

import (
	"testing"

	"movec/internal/source"
	"movec/internal/types"
)

func declare(t *testing.T, tbl *Table, name string, kind types.ValueKind) BindingID {
	t.Helper()
	id, dup := tbl.Declare(name, types.NoTypeID, kind, source.Span{})
	if dup {
		t.Fatalf("unexpected duplicate for %q", name)
	}
	return id
}

func TestDeclareAndLookup(t *testing.T) {
	tbl := NewTable()
	tbl.EnterScope()

	id := declare(t, tbl, "s", types.ValueMoveOnly)
	got, ok := tbl.Lookup("s")
	if !ok || got != id {
		t.Fatalf("Lookup(s) = %d, %v", got, ok)
	}
	if b := tbl.Get(id); b.State != StateLive || b.Kind != types.ValueMoveOnly {
		t.Errorf("unexpected binding: %+v", b)
	}

	if _, ok := tbl.Lookup("nope"); ok {
		t.Error("Lookup of undeclared name must fail")
	}
}

func TestLookupInnermostWins(t *testing.T) {
	tbl := NewTable()
	tbl.EnterScope()
	outer := declare(t, tbl, "x", types.ValueCopyable)

	tbl.EnterScope()
	inner := declare(t, tbl, "x", types.ValueMoveOnly)

	if got, _ := tbl.Lookup("x"); got != inner {
		t.Errorf("Lookup(x) = %d, want inner %d", got, inner)
	}

	if _, ok := tbl.ExitScope(); !ok {
		t.Fatal("ExitScope failed")
	}
	if got, _ := tbl.Lookup("x"); got != outer {
		t.Errorf("Lookup(x) after exit = %d, want outer %d", got, outer)
	}
}

func TestDuplicateDeclareSameScope(t *testing.T) {
	tbl := NewTable()
	tbl.EnterScope()

	first := declare(t, tbl, "s", types.ValueMoveOnly)
	second, dup := tbl.Declare("s", types.NoTypeID, types.ValueMoveOnly, source.Span{})
	if !dup {
		t.Fatal("expected duplicate flag")
	}
	if second == first {
		t.Fatal("duplicate must still allocate a fresh binding")
	}
	// Исходный binding сохраняет имя.
	if got, _ := tbl.Lookup("s"); got != first {
		t.Errorf("Lookup(s) = %d, want original %d", got, first)
	}
}

func TestRedeclareAfterMoveIsAllowed(t *testing.T) {
	tbl := NewTable()
	tbl.EnterScope()

	first := declare(t, tbl, "s", types.ValueMoveOnly)
	if !tbl.MarkMoved(first, source.Span{Start: 5, End: 6}) {
		t.Fatal("MarkMoved failed")
	}

	second, dup := tbl.Declare("s", types.NoTypeID, types.ValueMoveOnly, source.Span{})
	if dup {
		t.Fatal("redeclare over a moved binding must not be a duplicate")
	}
	if got, _ := tbl.Lookup("s"); got != second {
		t.Errorf("Lookup(s) = %d, want new binding %d", got, second)
	}
}

func TestStateTransitionsAreAbsorbing(t *testing.T) {
	tbl := NewTable()
	tbl.EnterScope()
	id := declare(t, tbl, "s", types.ValueMoveOnly)

	if !tbl.MarkMoved(id, source.Span{Start: 1, End: 2}) {
		t.Fatal("Live -> Moved must succeed")
	}
	if tbl.MarkMoved(id, source.Span{Start: 3, End: 4}) {
		t.Error("Moved -> Moved must be rejected")
	}
	if tbl.MarkDropped(id) {
		t.Error("Moved -> Dropped must be rejected")
	}
	if b := tbl.Get(id); b.MovedAt.Start != 1 {
		t.Errorf("move site overwritten: %v", b.MovedAt)
	}
}

func TestResetLiveRecovery(t *testing.T) {
	tbl := NewTable()
	tbl.EnterScope()
	id := declare(t, tbl, "s", types.ValueMoveOnly)
	tbl.MarkMoved(id, source.Span{Start: 1, End: 2})

	tbl.ResetLive(id)
	b := tbl.Get(id)
	if b.State != StateLive {
		t.Errorf("State = %v, want Live", b.State)
	}
	if !b.MovedAt.Empty() {
		t.Errorf("MovedAt not cleared: %v", b.MovedAt)
	}
}

func TestExitScopeReverseOrderSkipsNonLive(t *testing.T) {
	tbl := NewTable()
	tbl.EnterScope()

	a := declare(t, tbl, "a", types.ValueMoveOnly)
	b := declare(t, tbl, "b", types.ValueMoveOnly)
	c := declare(t, tbl, "c", types.ValueMoveOnly)
	tbl.MarkMoved(b, source.Span{})

	live, ok := tbl.ExitScope()
	if !ok {
		t.Fatal("ExitScope failed")
	}
	if len(live) != 2 || live[0] != c || live[1] != a {
		t.Errorf("live = %v, want [%d %d]", live, c, a)
	}
}

func TestExitScopeWithoutFrame(t *testing.T) {
	tbl := NewTable()
	if _, ok := tbl.ExitScope(); ok {
		t.Error("ExitScope on empty stack must fail")
	}
}
