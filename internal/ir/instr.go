package ir

import (
	"fmt"

	"movec/internal/source"
)

// OpKind enumerates the instruction kinds of a lowered unit.
type OpKind uint8

const (
	OpInvalid OpKind = iota
	// OpDeclare introduces a binding: let name: type = init.
	OpDeclare
	// OpRead is a non-consuming observation of a binding (print, inspect).
	OpRead
	// OpCall consumes identifier arguments by value per the move/copy rule.
	OpCall
	// OpReturn hands ownership of an identifier to the caller.
	OpReturn
	OpBlockEnter
	OpBlockExit
)

func (k OpKind) String() string {
	switch k {
	case OpDeclare:
		return "declare"
	case OpRead:
		return "read"
	case OpCall:
		return "call"
	case OpReturn:
		return "return"
	case OpBlockEnter:
		return "block_enter"
	case OpBlockExit:
		return "block_exit"
	default:
		return fmt.Sprintf("OpKind(%d)", k)
	}
}

// InitKind enumerates initializer forms of OpDeclare.
type InitKind uint8

const (
	// InitValue is a fresh value: literal, constructor, call result.
	InitValue InitKind = iota
	// InitBinding is a bare identifier: move for MoveOnly, copy otherwise.
	InitBinding
	// InitClone is the explicit duplication call. The source binding is
	// read but never consumed.
	InitClone
)

func (k InitKind) String() string {
	switch k {
	case InitValue:
		return "value"
	case InitBinding:
		return "binding"
	case InitClone:
		return "clone"
	default:
		return fmt.Sprintf("InitKind(%d)", k)
	}
}

// Loc is a wire-level byte range. FileIDs do not travel on the wire; the
// decoder binds every Loc to the FileID of the unit being decoded.
type Loc struct {
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
}

// In binds the range to a file.
func (l Loc) In(file source.FileID) source.Span {
	return source.Span{File: file, Start: l.Start, End: l.End}
}

// Arg is one identifier argument of OpCall. Literal arguments carry no
// ownership and are omitted by the lowerer.
type Arg struct {
	Name string `msgpack:"name"`
	Loc  Loc    `msgpack:"loc"`
}

// TypeExpr is the structural type descriptor attached to OpDeclare.
type TypeExpr struct {
	Kind    string     `msgpack:"kind"`              // int|bool|float|char|unit|text|named|tuple
	Name    string     `msgpack:"name,omitempty"`    // named only
	Release bool       `msgpack:"release,omitempty"` // named only
	Elems   []TypeExpr `msgpack:"elems,omitempty"`   // tuple only
}

// Instr is one instruction of a unit. Field use by kind:
//
//	OpDeclare    Name, Type, Init, From (InitBinding/InitClone)
//	OpRead       Name
//	OpCall       Name (callee), Args
//	OpReturn     Name (empty for bare return)
//	OpBlockEnter, OpBlockExit: markers only
type Instr struct {
	Op   OpKind    `msgpack:"op"`
	Name string    `msgpack:"name,omitempty"`
	Type *TypeExpr `msgpack:"type,omitempty"`
	Init InitKind  `msgpack:"init,omitempty"`
	From string    `msgpack:"from,omitempty"`
	Args []Arg     `msgpack:"args,omitempty"`
	Loc  Loc       `msgpack:"loc"`
}

// Unit is one checkable instruction sequence.
type Unit struct {
	Schema uint16  `msgpack:"schema"`
	Name   string  `msgpack:"name"`
	Instrs []Instr `msgpack:"instrs"`
}
