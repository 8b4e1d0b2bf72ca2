package check

import (
	"testing"

	"movec/internal/ir"
)

func TestDropOrderingIsReverseDeclaration(t *testing.T) {
	b := ir.NewBuilder("drop_order")
	b.Declare("a", ir.Text(), ir.At(0, 9)).
		Declare("b", ir.Text(), ir.At(10, 19)).
		Declare("c", ir.Text(), ir.At(20, 29))

	res := runUnit(t, b.Unit())
	if !res.OK() {
		t.Fatalf("expected clean pass, got %+v", res.Violations)
	}
	want := []string{"c", "b", "a"}
	if len(res.Plan) != len(want) {
		t.Fatalf("plan has %d releases, want %d: %+v", len(res.Plan), len(want), res.Plan)
	}
	for i, name := range want {
		if res.Plan[i].Binding != name {
			t.Errorf("plan[%d] = %q, want %q", i, res.Plan[i].Binding, name)
		}
	}
}

func TestCopyableBindingsAreNotReleased(t *testing.T) {
	b := ir.NewBuilder("copy_drop")
	b.Declare("n", ir.Int(), ir.At(0, 8)).
		Declare("s", ir.Text(), ir.At(9, 18)).
		Declare("flag", ir.Bool(), ir.At(19, 30))

	res := runUnit(t, b.Unit())
	if len(res.Plan) != 1 || res.Plan[0].Binding != "s" {
		t.Errorf("plan = %+v, want exactly one release for 's'", res.Plan)
	}
}

func TestMovedBindingIsNeverReleased(t *testing.T) {
	b := ir.NewBuilder("move_out")
	b.Declare("s1", ir.Text(), ir.At(0, 9)).
		DeclareFrom("s2", ir.Text(), "s1", ir.At(10, 21))

	res := runUnit(t, b.Unit())
	if !res.OK() {
		t.Fatalf("expected clean pass, got %+v", res.Violations)
	}
	if len(res.Plan) != 1 || res.Plan[0].Binding != "s2" {
		t.Errorf("plan = %+v, want only 's2'", res.Plan)
	}
}

func TestAtMostOneReleasePerBinding(t *testing.T) {
	// Move across a scope boundary: the inner owner is released at its
	// block exit, the source is never released.
	b := ir.NewBuilder("cross_scope")
	b.Declare("s", ir.Text(), ir.At(0, 9)).
		BlockEnter(ir.At(10, 11)).
		DeclareFrom("t", ir.Text(), "s", ir.At(12, 22)).
		BlockExit(ir.At(23, 24)).
		Declare("u", ir.Text(), ir.At(25, 34))

	res := runUnit(t, b.Unit())
	if !res.OK() {
		t.Fatalf("expected clean pass, got %+v", res.Violations)
	}

	seen := map[string]int{}
	for _, rel := range res.Plan {
		seen[rel.Binding]++
	}
	for name, n := range seen {
		if n > 1 {
			t.Errorf("binding %q released %d times", name, n)
		}
	}
	if seen["s"] != 0 {
		t.Errorf("moved-out 's' must not be released: %+v", res.Plan)
	}
	if seen["t"] != 1 || seen["u"] != 1 {
		t.Errorf("plan = %+v, want one release each for 't' and 'u'", res.Plan)
	}
}

func TestInnerScopeReleasesBeforeOuter(t *testing.T) {
	b := ir.NewBuilder("nesting")
	b.Declare("outer", ir.Text(), ir.At(0, 12)).
		BlockEnter(ir.At(13, 14)).
		Declare("inner", ir.Text(), ir.At(15, 27)).
		BlockExit(ir.At(28, 29)).
		Declare("late", ir.Text(), ir.At(30, 41))

	res := runUnit(t, b.Unit())
	want := []string{"inner", "late", "outer"}
	if len(res.Plan) != len(want) {
		t.Fatalf("plan = %+v, want %v", res.Plan, want)
	}
	for i, name := range want {
		if res.Plan[i].Binding != name {
			t.Errorf("plan[%d] = %q, want %q", i, res.Plan[i].Binding, name)
		}
	}
	// The inner release happens at the block exit, not at end of unit.
	if res.Plan[0].At.Start != 28 {
		t.Errorf("inner release at %v, want block exit at 28", res.Plan[0].At)
	}
}

func TestMoveOnlyTupleIsReleased(t *testing.T) {
	b := ir.NewBuilder("tuple_drop")
	b.Declare("pair", ir.Tuple(ir.Int(), ir.Text()), ir.At(0, 14)).
		Declare("flat", ir.Tuple(ir.Int(), ir.Bool()), ir.At(15, 29))

	res := runUnit(t, b.Unit())
	if len(res.Plan) != 1 || res.Plan[0].Binding != "pair" {
		t.Errorf("plan = %+v, want only the mixed tuple", res.Plan)
	}
}
