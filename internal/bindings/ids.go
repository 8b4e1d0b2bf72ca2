package bindings

// BindingID identifies a binding in the table arena.
type BindingID uint32

const (
	// NoBindingID marks the absence of a binding reference.
	NoBindingID BindingID = 0
)

// IsValid reports whether the ID refers to an allocated binding.
func (id BindingID) IsValid() bool { return id != NoBindingID }
