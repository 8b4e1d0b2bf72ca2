package types

import "fmt"

// ValueKind classifies a type for the ownership pass: assignment either
// duplicates the value or transfers exclusive ownership.
type ValueKind uint8

const (
	// ValueCopyable values duplicate freely; reads never consume them.
	ValueCopyable ValueKind = iota
	// ValueMoveOnly values have exactly one owner at a time.
	ValueMoveOnly
	// ValueOpaque marks recovery bindings synthesized for unknown
	// identifiers. Reads behave like Copyable; the drop planner skips them.
	ValueOpaque
)

func (k ValueKind) String() string {
	switch k {
	case ValueCopyable:
		return "Copyable"
	case ValueMoveOnly:
		return "MoveOnly"
	case ValueOpaque:
		return "Opaque"
	default:
		return fmt.Sprintf("ValueKind(%d)", k)
	}
}

// Classify reports the ValueKind of a descriptor. Pure: the result depends
// only on the descriptor structure, so it is computed once per declaration
// and cached on the binding.
func (in *Interner) Classify(id TypeID) ValueKind {
	tt, ok := in.Lookup(id)
	if !ok {
		return ValueOpaque
	}
	switch tt.Kind {
	case KindUnit, KindBool, KindInt, KindFloat, KindChar:
		return ValueCopyable
	case KindText:
		return ValueMoveOnly
	case KindNamed:
		if tt.Release {
			return ValueMoveOnly
		}
		return ValueCopyable
	case KindTuple:
		// Copyable iff every element is Copyable.
		for _, e := range tt.Elems {
			if in.Classify(e) != ValueCopyable {
				return ValueMoveOnly
			}
		}
		return ValueCopyable
	default:
		return ValueOpaque
	}
}
