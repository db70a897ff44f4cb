package explorer

import (
	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
)

type functionHandler struct{}

func (functionHandler) CanVisit(c *Context, n *Node) bool {
	if !c.admit(n, expect{cursors: []frontend.CursorKind{frontend.CursorFunctionDecl}, types: functionTypes}) {
		return false
	}
	if len(c.functions) > 0 && !c.functions[n.Name] {
		c.skip(n, "not in the function allow-list")
		return false
	}
	return !c.blocked(n, c.Location(n.Cursor))
}

func (functionHandler) Explore(c *Context, n *Node) (cdecl.Node, error) {
	ret, params, err := c.signature(n, n.Type)
	if err != nil {
		return nil, err
	}

	return &cdecl.Function{
		Name:              n.Name,
		Location:          c.Location(n.Cursor),
		CallingConvention: callingConvention(n.Type.CallingConv()),
		ReturnType:        *ret,
		Parameters:        params,
		IsVariadic:        n.Type.IsVariadic(),
	}, nil
}

type functionPointerHandler struct{}

func (functionPointerHandler) CanVisit(c *Context, n *Node) bool {
	return c.admit(n, expect{types: functionTypes})
}

func (functionPointerHandler) Explore(c *Context, n *Node) (cdecl.Node, error) {
	ret, params, err := c.signature(n, n.Type)
	if err != nil {
		return nil, err
	}

	fp := &cdecl.FunctionPointer{
		Name:              n.Name,
		Location:          c.Location(n.Cursor),
		CallingConvention: callingConvention(n.Type.CallingConv()),
		ReturnType:        *ret,
		Parameters:        params,
		IsVariadic:        n.Type.IsVariadic(),
	}
	if n.PointerType != nil {
		fp.SizeOf = size(n.PointerType.SizeOf())
		fp.AlignOf = size(n.PointerType.AlignOf())
	}
	return fp, nil
}

type variableHandler struct{}

func (variableHandler) CanVisit(c *Context, n *Node) bool {
	if !c.admit(n, expect{cursors: []frontend.CursorKind{frontend.CursorVarDecl}}) {
		return false
	}
	return !c.blocked(n, c.Location(n.Cursor))
}

func (variableHandler) Explore(c *Context, n *Node) (cdecl.Node, error) {
	ti, err := c.VisitType(n, n.Cursor, n.Type, 0, "")
	if err != nil {
		return nil, err
	}

	return &cdecl.Variable{
		Name:     n.Name,
		Location: c.Location(n.Cursor),
		Type:     *ti,
	}, nil
}
