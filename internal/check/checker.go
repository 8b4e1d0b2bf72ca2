package check

import (
	"fmt"

	"movec/internal/bindings"
	"movec/internal/diag"
	"movec/internal/ir"
	"movec/internal/source"
	"movec/internal/types"
)

// Checker walks one unit left to right, maintaining the binding table and
// collecting violations plus the release plan. Every violation is
// non-fatal: the walk always reaches the end of the instruction sequence
// unless the scope structure itself is broken.
type Checker struct {
	interner *types.Interner
	reporter diag.Reporter

	table      *bindings.Table
	file       source.FileID
	violations []Violation
	plan       []Release
}

// New builds a checker. A nil reporter discards rendered diagnostics; the
// structured violation list is collected either way.
func New(interner *types.Interner, reporter diag.Reporter) *Checker {
	if interner == nil {
		interner = types.NewInterner()
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Checker{interner: interner, reporter: reporter}
}

// Check runs one pass over the unit. Spans resolve against file. The pass
// exclusively owns its binding table; the table is discarded when the pass
// completes.
func (c *Checker) Check(unit *ir.Unit, file source.FileID) (*Result, error) {
	if unit == nil {
		return nil, &MalformedInputError{Msg: "nil unit"}
	}

	c.table = bindings.NewTable()
	c.file = file
	c.violations = nil
	c.plan = nil

	// Implicit root scope wraps the whole unit.
	c.table.EnterScope()

	var endOff uint32
	for i := range unit.Instrs {
		instr := &unit.Instrs[i]
		span := instr.Loc.In(file)
		if instr.Loc.End > endOff {
			endOff = instr.Loc.End
		}

		switch instr.Op {
		case ir.OpBlockEnter:
			c.table.EnterScope()
		case ir.OpBlockExit:
			if c.table.Depth() <= 1 {
				return nil, &MalformedInputError{Span: span, Msg: "unmatched block exit"}
			}
			c.exitScope(span)
		case ir.OpDeclare:
			c.checkDeclare(instr, span)
		case ir.OpRead:
			c.observe(instr.Name, span)
		case ir.OpCall:
			c.checkCall(instr)
		case ir.OpReturn:
			if instr.Name != "" {
				c.consume(instr.Name, span)
			}
		default:
			return nil, &MalformedInputError{Span: span, Msg: fmt.Sprintf("unknown instruction kind %d", instr.Op)}
		}
	}

	endSpan := source.Span{File: file, Start: endOff, End: endOff}
	if c.table.Depth() > 1 {
		return nil, &MalformedInputError{Span: endSpan, Msg: "unclosed block at end of unit"}
	}
	c.exitScope(endSpan)

	res := &Result{Unit: unit.Name, Violations: c.violations, Plan: c.plan}
	c.table = nil
	return res, nil
}

// checkDeclare handles `let x: T = init`. The initializer is read first;
// only then does x come into scope, so `let x = x` resolves the right-hand
// side against the outer world.
func (c *Checker) checkDeclare(instr *ir.Instr, span source.Span) {
	ty := c.lowerType(instr.Type)
	kind := c.interner.Classify(ty)

	switch instr.Init {
	case ir.InitBinding:
		// Bare identifier: last valid read of a MoveOnly source.
		c.consume(instr.From, span)
	case ir.InitClone:
		// Clone reads the source but never consumes it, regardless of kind.
		c.observe(instr.From, span)
	}

	if _, dup := c.table.Declare(instr.Name, ty, kind, span); dup {
		c.report(Violation{
			Kind:    ViolationDoubleBinding,
			Binding: instr.Name,
			Loc:     span,
		}, nil)
	}
}

// checkCall consumes identifier arguments in order. First consumption
// wins: a second occurrence of the same MoveOnly identifier sees the Moved
// state and is flagged against its own argument span.
func (c *Checker) checkCall(instr *ir.Instr) {
	for i := range instr.Args {
		arg := &instr.Args[i]
		c.consume(arg.Name, arg.Loc.In(c.file))
	}
}

// consume reads name in move position: a Live MoveOnly binding transitions
// to Moved. A flagged occurrence is not itself a consumption.
func (c *Checker) consume(name string, span source.Span) {
	id, ok := c.table.Lookup(name)
	if !ok {
		c.unknown(name, span)
		return
	}
	b := c.table.Get(id)
	if b.State != bindings.StateLive {
		c.useAfterMove(id, b, span)
		return
	}
	if b.Kind == types.ValueMoveOnly {
		c.table.MarkMoved(id, span)
	}
}

// observe reads name without consuming it: prints, inspections, clone
// sources. Copyable and MoveOnly bindings both stay Live.
func (c *Checker) observe(name string, span source.Span) {
	id, ok := c.table.Lookup(name)
	if !ok {
		c.unknown(name, span)
		return
	}
	b := c.table.Get(id)
	if b.State != bindings.StateLive {
		c.useAfterMove(id, b, span)
	}
}

func (c *Checker) useAfterMove(id bindings.BindingID, b *bindings.Binding, span source.Span) {
	movedAt := b.MovedAt
	v := Violation{
		Kind:     ViolationUseAfterMove,
		Binding:  b.Name,
		Loc:      span,
		CausedBy: movedAt,
	}
	var notes []diag.Note
	if !movedAt.Empty() {
		notes = append(notes, diag.Note{Span: movedAt, Msg: fmt.Sprintf("value '%s' was moved here", b.Name)})
	}
	notes = append(notes, diag.Note{Span: b.Decl, Msg: "declared here"})
	c.report(v, notes)

	// Best-effort recovery: treat the binding as Live again so later,
	// unrelated errors are still discoverable in one pass.
	c.table.ResetLive(id)
}

// unknown reports an unresolved identifier and declares a synthetic opaque
// binding in the current scope, so later uses of the name resolve and are
// never falsely flagged as moves.
func (c *Checker) unknown(name string, span source.Span) {
	c.report(Violation{
		Kind:    ViolationUnknownIdent,
		Binding: name,
		Loc:     span,
	}, nil)
	c.table.Declare(name, types.NoTypeID, types.ValueOpaque, span)
}

func (c *Checker) report(v Violation, notes []diag.Note) {
	c.violations = append(c.violations, v)
	c.reporter.Report(v.Kind.Code(), diag.SevError, v.Loc, v.Message(), notes)
}
