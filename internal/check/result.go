package check

import (
	"fmt"

	"movec/internal/diag"
	"movec/internal/source"
)

// ViolationKind enumerates the recoverable ownership violations.
type ViolationKind uint8

const (
	ViolationUseAfterMove ViolationKind = iota
	ViolationDoubleBinding
	ViolationUnknownIdent
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationUseAfterMove:
		return "UseAfterMove"
	case ViolationDoubleBinding:
		return "DoubleBindingName"
	case ViolationUnknownIdent:
		return "UnknownIdentifier"
	default:
		return fmt.Sprintf("ViolationKind(%d)", k)
	}
}

// Code maps the violation onto its diagnostic code.
func (k ViolationKind) Code() diag.Code {
	switch k {
	case ViolationUseAfterMove:
		return diag.OwnUseAfterMove
	case ViolationDoubleBinding:
		return diag.OwnDoubleBinding
	case ViolationUnknownIdent:
		return diag.OwnUnknownIdent
	default:
		return diag.UnknownCode
	}
}

// Violation records one detected rule breach.
type Violation struct {
	Kind    ViolationKind
	Binding string
	Loc     source.Span
	// CausedBy points at the move-inducing instruction for UseAfterMove;
	// empty otherwise.
	CausedBy source.Span
}

// Message renders the human-readable explanation. Shared by the live pass
// and the cache-replay path, so both produce identical diagnostics.
func (v Violation) Message() string {
	switch v.Kind {
	case ViolationUseAfterMove:
		return fmt.Sprintf("use of moved value '%s'", v.Binding)
	case ViolationDoubleBinding:
		return fmt.Sprintf("binding '%s' is already declared in this scope", v.Binding)
	case ViolationUnknownIdent:
		return fmt.Sprintf("unresolved identifier '%s'", v.Binding)
	default:
		return fmt.Sprintf("ownership violation on '%s'", v.Binding)
	}
}

// Release is one entry of the drop plan: the single authorized point at
// which the binding's resource is reclaimed. The planner emits at most one
// per binding; that falls out of the absorbing Moved/Dropped states rather
// than a separate check.
type Release struct {
	Binding string
	Decl    source.Span // declaration site
	At      source.Span // scope exit that triggers the release
}

// Result is the outcome of one completed pass. A pass that hits
// MalformedInput produces no Result at all.
type Result struct {
	Unit       string
	Violations []Violation // detection order, no dedup
	Plan       []Release   // release order across the whole unit
}

// OK reports whether the pass found no violations.
func (r *Result) OK() bool {
	return r != nil && len(r.Violations) == 0
}

// MalformedInputError is the one fatal condition: the scope structure of
// the unit cannot be trusted, so the pass aborts instead of recovering.
type MalformedInputError struct {
	Span source.Span
	Msg  string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input at %s: %s", e.Span, e.Msg)
}
