package types

import "fmt"

// TypeID identifies a type descriptor in the interner arena.
type TypeID uint32

const (
	// NoTypeID marks the absence of a type reference.
	NoTypeID TypeID = 0
)

// IsValid reports whether the ID refers to an interned type.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind enumerates all supported kinds of type descriptors.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBool
	KindInt
	KindFloat
	KindChar
	KindText  // heap-backed growable text
	KindNamed // user type, move-only when it declares a release action
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindText:
		return "text"
	case KindNamed:
		return "named"
	case KindTuple:
		return "tuple"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a structural descriptor. Tuples reference their element types by
// ID, so elements must be interned before the tuple itself.
type Type struct {
	Kind    Kind
	Name    string   // named types only
	Release bool     // named type declares an explicit release action
	Elems   []TypeID // tuple elements, declaration order
}

// MakeNamed builds a named-type descriptor.
func MakeNamed(name string, release bool) Type {
	return Type{Kind: KindNamed, Name: name, Release: release}
}

// MakeTuple builds a tuple descriptor over already-interned element IDs.
func MakeTuple(elems ...TypeID) Type {
	return Type{Kind: KindTuple, Elems: elems}
}
