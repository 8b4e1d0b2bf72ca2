package bindings

import (
	"fmt"

	"movec/internal/source"
	"movec/internal/types"
)

// State tracks the ownership lifecycle of one binding. Live is the only
// state that transitions: Live -> Moved and Live -> Dropped, both absorbing.
type State uint8

const (
	StateLive State = iota
	StateMoved
	StateDropped
)

func (s State) String() string {
	switch s {
	case StateLive:
		return "Live"
	case StateMoved:
		return "Moved"
	case StateDropped:
		return "Dropped"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Binding represents one variable in one scope.
type Binding struct {
	Name    string
	Type    types.TypeID
	Kind    types.ValueKind // cached classification of Type
	State   State
	Decl    source.Span // declaration site
	Depth   uint32      // scope depth at declaration, root = 1
	MovedAt source.Span // move site, set while State == StateMoved
}
