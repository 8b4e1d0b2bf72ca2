package check

import (
	"movec/internal/ir"
	"movec/internal/types"
)

// lowerType interns a wire-level descriptor. Unknown descriptor kinds
// lower to NoTypeID, which classifies as Opaque and never consumes.
func (c *Checker) lowerType(te *ir.TypeExpr) types.TypeID {
	if te == nil {
		return types.NoTypeID
	}
	b := c.interner.Builtins()
	switch te.Kind {
	case "int":
		return b.Int
	case "bool":
		return b.Bool
	case "float":
		return b.Float
	case "char":
		return b.Char
	case "unit":
		return b.Unit
	case "text":
		return b.Text
	case "named":
		return c.interner.Intern(types.MakeNamed(te.Name, te.Release))
	case "tuple":
		elems := make([]types.TypeID, len(te.Elems))
		for i := range te.Elems {
			elems[i] = c.lowerType(&te.Elems[i])
		}
		return c.interner.Intern(types.MakeTuple(elems...))
	default:
		return types.NoTypeID
	}
}
