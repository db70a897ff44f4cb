package explorer

import (
	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
)

// Handler explores the nodes of one kind.
type Handler interface {
	// CanVisit reports whether the node should be explored. A false result is
	// a policy decision, never an error.
	CanVisit(c *Context, n *Node) bool
	// Explore builds the declaration for the node. A nil declaration with a
	// nil error means the node produced nothing.
	Explore(c *Context, n *Node) (cdecl.Node, error)
}

var handlers = map[cdecl.Kind]Handler{
	cdecl.KindFunction:        functionHandler{},
	cdecl.KindFunctionPointer: functionPointerHandler{},
	cdecl.KindStruct:          recordHandler{},
	cdecl.KindUnion:           recordHandler{union: true},
	cdecl.KindEnum:            enumHandler{},
	cdecl.KindEnumConstant:    enumConstantHandler{},
	cdecl.KindTypeAlias:       typeAliasHandler{},
	cdecl.KindOpaqueType:      opaqueTypeHandler{},
	cdecl.KindVariable:        variableHandler{},
	cdecl.KindMacroObject:     macroObjectHandler{},
}

// needsType reports whether nodes of the kind carry a front end type.
func needsType(kind cdecl.Kind) bool {
	return kind != cdecl.KindMacroObject
}

var (
	functionTypes = []frontend.TypeKind{frontend.TypeFunctionProto, frontend.TypeFunctionNoProto}

	integerTypes = []frontend.TypeKind{
		frontend.TypeBool, frontend.TypeCharU, frontend.TypeUChar, frontend.TypeUShort,
		frontend.TypeUInt, frontend.TypeULong, frontend.TypeULongLong, frontend.TypeCharS,
		frontend.TypeSChar, frontend.TypeShort, frontend.TypeInt, frontend.TypeLong,
		frontend.TypeLongLong,
	}
)

func callingConvention(cc frontend.CallingConv) cdecl.CallingConvention {
	switch cc {
	case frontend.CallingConvStdCall:
		return cdecl.CallingConventionStdCall
	case frontend.CallingConvFastCall:
		return cdecl.CallingConventionFastCall
	}
	return cdecl.CallingConventionCdecl
}
