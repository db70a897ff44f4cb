package explorer

import (
	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
)

type enumHandler struct{}

func (enumHandler) CanVisit(c *Context, n *Node) bool {
	if !c.admit(n, expect{cursors: []frontend.CursorKind{frontend.CursorEnumDecl}, types: []frontend.TypeKind{frontend.TypeEnum}}) {
		return false
	}
	return !c.blocked(n, c.Location(n.Cursor))
}

func (enumHandler) Explore(c *Context, n *Node) (cdecl.Node, error) {
	e := &cdecl.Enum{
		Name:        n.Name,
		Location:    c.Location(n.Cursor),
		SizeOf:      size(n.Type.SizeOf()),
		IntegerType: integerType(n.Cursor.EnumIntegerType()),
	}

	for _, ch := range n.Cursor.Children() {
		if ch.Kind() != frontend.CursorEnumConstantDecl {
			continue
		}
		e.Values = append(e.Values, cdecl.EnumValue{Name: ch.Spelling(), Value: ch.EnumConstantValue()})
	}

	return e, nil
}

// integerType describes an enum integer type under its signed name.
func integerType(t frontend.Type) cdecl.TypeInfo {
	return cdecl.TypeInfo{
		Name:    signedIntegerName(t),
		Kind:    cdecl.KindPrimitive,
		SizeOf:  size(t.SizeOf()),
		AlignOf: size(t.AlignOf()),
	}
}

// enumConstantHandler explores one constant of an anonymous enum that has no
// derivable name. The node type is the integer type of the enum.
type enumConstantHandler struct{}

func (enumConstantHandler) CanVisit(c *Context, n *Node) bool {
	if !c.admit(n, expect{cursors: []frontend.CursorKind{frontend.CursorEnumConstantDecl}, types: integerTypes}) {
		return false
	}
	return !c.blocked(n, c.Location(n.Cursor))
}

func (enumConstantHandler) Explore(c *Context, n *Node) (cdecl.Node, error) {
	return &cdecl.EnumConstant{
		Name:     n.Name,
		Location: c.Location(n.Cursor),
		Type:     integerType(n.Type),
		Value:    n.Cursor.EnumConstantValue(),
	}, nil
}

type macroObjectHandler struct{}

func (macroObjectHandler) CanVisit(c *Context, n *Node) bool {
	if n.Macro == nil {
		return false
	}
	return c.admit(n, expect{})
}

func (macroObjectHandler) Explore(c *Context, n *Node) (cdecl.Node, error) {
	m := *n.Macro
	if m.Location.File != "" {
		m.Location.File = c.resolver.Path(m.Location.File)
	}
	return &m, nil
}
