package ir

// Builder assembles units programmatically. Embedders that lower their own
// frontend straight to memory use it instead of the wire codec; so do the
// checker tests.
type Builder struct {
	unit Unit
}

// NewBuilder starts an empty unit.
func NewBuilder(name string) *Builder {
	return &Builder{unit: Unit{Schema: SchemaVersion, Name: name}}
}

// Unit returns the assembled unit.
func (b *Builder) Unit() *Unit {
	u := b.unit
	return &u
}

func (b *Builder) push(in Instr) *Builder {
	b.unit.Instrs = append(b.unit.Instrs, in)
	return b
}

// Declare adds `let name: ty = <fresh value>`.
func (b *Builder) Declare(name string, ty TypeExpr, loc Loc) *Builder {
	t := ty
	return b.push(Instr{Op: OpDeclare, Name: name, Type: &t, Init: InitValue, Loc: loc})
}

// DeclareFrom adds `let name: ty = from` - move or copy per from's kind.
func (b *Builder) DeclareFrom(name string, ty TypeExpr, from string, loc Loc) *Builder {
	t := ty
	return b.push(Instr{Op: OpDeclare, Name: name, Type: &t, Init: InitBinding, From: from, Loc: loc})
}

// DeclareClone adds `let name: ty = from.clone()`.
func (b *Builder) DeclareClone(name string, ty TypeExpr, from string, loc Loc) *Builder {
	t := ty
	return b.push(Instr{Op: OpDeclare, Name: name, Type: &t, Init: InitClone, From: from, Loc: loc})
}

// Read adds a non-consuming observation of name.
func (b *Builder) Read(name string, loc Loc) *Builder {
	return b.push(Instr{Op: OpRead, Name: name, Loc: loc})
}

// Call adds a call that consumes its identifier arguments by value.
func (b *Builder) Call(callee string, loc Loc, args ...Arg) *Builder {
	return b.push(Instr{Op: OpCall, Name: callee, Args: args, Loc: loc})
}

// Return adds `return name`.
func (b *Builder) Return(name string, loc Loc) *Builder {
	return b.push(Instr{Op: OpReturn, Name: name, Loc: loc})
}

// BlockEnter opens a nested scope.
func (b *Builder) BlockEnter(loc Loc) *Builder {
	return b.push(Instr{Op: OpBlockEnter, Loc: loc})
}

// BlockExit closes the innermost scope.
func (b *Builder) BlockExit(loc Loc) *Builder {
	return b.push(Instr{Op: OpBlockExit, Loc: loc})
}

// Shorthand type descriptors.

func Int() TypeExpr   { return TypeExpr{Kind: "int"} }
func Bool() TypeExpr  { return TypeExpr{Kind: "bool"} }
func Float() TypeExpr { return TypeExpr{Kind: "float"} }
func Char() TypeExpr  { return TypeExpr{Kind: "char"} }
func UnitT() TypeExpr { return TypeExpr{Kind: "unit"} }
func Text() TypeExpr  { return TypeExpr{Kind: "text"} }

func Named(name string, release bool) TypeExpr {
	return TypeExpr{Kind: "named", Name: name, Release: release}
}

func Tuple(elems ...TypeExpr) TypeExpr {
	return TypeExpr{Kind: "tuple", Elems: elems}
}

// At is a Loc literal helper.
func At(start, end uint32) Loc { return Loc{Start: start, End: end} }
