package memory

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/c2ffi/frontend"
)

const pointerSize = 8

func Primitive(kind frontend.TypeKind, name string, size int64) *Type {
	return &Type{TypeKind: kind, Name: name, Size: size, Align: size}
}

func Void() *Type { return &Type{TypeKind: frontend.TypeVoid, Name: "void", Size: 1, Align: 1} }
func Bool() *Type { return Primitive(frontend.TypeBool, "_Bool", 1) }
func Char() *Type { return Primitive(frontend.TypeCharS, "char", 1) }
func UChar() *Type { return Primitive(frontend.TypeUChar, "unsigned char", 1) }
func Short() *Type { return Primitive(frontend.TypeShort, "short", 2) }
func Int() *Type { return Primitive(frontend.TypeInt, "int", 4) }
func UInt() *Type { return Primitive(frontend.TypeUInt, "unsigned int", 4) }
func Long() *Type { return Primitive(frontend.TypeLong, "long", 8) }
func ULong() *Type { return Primitive(frontend.TypeULong, "unsigned long", 8) }
func Float() *Type { return Primitive(frontend.TypeFloat, "float", 4) }
func Double() *Type { return Primitive(frontend.TypeDouble, "double", 8) }

// Const returns a const qualified copy of t.
func Const(t *Type) *Type {
	c := *t
	c.Const = true
	if t.CanonicalType == nil {
		c.CanonicalType = t
	}
	return &c
}

func PointerTo(t *Type) *Type {
	return &Type{
		TypeKind:    frontend.TypePointer,
		Name:        t.Name + " *",
		Size:        pointerSize,
		Align:       pointerSize,
		PointeeType: t,
	}
}

func ArrayOf(t *Type, n int64) *Type {
	return &Type{
		TypeKind:    frontend.TypeConstantArray,
		Name:        fmt.Sprintf("%s[%d]", t.Name, n),
		Size:        t.Size * n,
		Align:       t.Align,
		ElementType: t,
		Len:         n,
	}
}

func IncompleteArrayOf(t *Type) *Type {
	return &Type{
		TypeKind:    frontend.TypeIncompleteArray,
		Name:        t.Name + "[]",
		Size:        frontend.SizeIncomplete,
		Align:       t.Align,
		ElementType: t,
	}
}

func FunctionType(ret *Type, params ...*Type) *Type {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return &Type{
		TypeKind:   frontend.TypeFunctionProto,
		Name:       fmt.Sprintf("%s (%s)", ret.Name, strings.Join(names, ", ")),
		Size:       1,
		Align:      4,
		ResultType: ret,
		ParamTypes: params,
		Conv:       frontend.CallingConvC,
	}
}

// FunctionPointerTo returns a pointer to a function type.
func FunctionPointerTo(ret *Type, params ...*Type) *Type {
	return PointerTo(FunctionType(ret, params...))
}

// Attributed wraps t in an attributed type layer.
func Attributed(t *Type) *Type {
	return &Type{
		TypeKind:      frontend.TypeAttributed,
		Name:          t.Name,
		Size:          t.Size,
		Align:         t.Align,
		ModifiedType:  t,
		CanonicalType: t,
	}
}

// Unexposed wraps t in an unexposed layer whose canonical type is t.
func Unexposed(t *Type) *Type {
	return &Type{
		TypeKind:      frontend.TypeUnexposed,
		Name:          t.Name,
		Size:          t.Size,
		Align:         t.Align,
		CanonicalType: t,
	}
}

func record(kind frontend.CursorKind, keyword, name string, size, align int64, fields []*Cursor) *Cursor {
	c := &Cursor{CursorKind: kind, Name: name, Kids: fields, Anonymous: name == ""}
	spelling := keyword + " " + name
	if name == "" {
		spelling = keyword + " (anonymous at memory.h:1:1)"
	}
	c.Ty = &Type{
		TypeKind: frontend.TypeRecord,
		Name:     spelling,
		Size:     size,
		Align:    align,
		Decl:     c,
	}
	return c
}

func Struct(name string, size, align int64, fields ...*Cursor) *Cursor {
	return record(frontend.CursorStructDecl, "struct", name, size, align, fields)
}

func Union(name string, size, align int64, fields ...*Cursor) *Cursor {
	return record(frontend.CursorUnionDecl, "union", name, size, align, fields)
}

// ForwardStruct is a struct declaration that is never defined.
func ForwardStruct(name string) *Cursor {
	return record(frontend.CursorStructDecl, "struct", name, frontend.SizeIncomplete, frontend.SizeIncomplete, nil)
}

// Unnamed marks an anonymous record as declared together with a named field,
// which the front end spells "unnamed".
func Unnamed(c *Cursor) *Cursor {
	c.Ty.Name = strings.Replace(c.Ty.Name, "(anonymous", "(unnamed", 1)
	return c
}

// Field is a field declaration at the given byte offset.
func Field(name string, t *Type, offset int64) *Cursor {
	return &Cursor{CursorKind: frontend.CursorFieldDecl, Name: name, Ty: t, OffsetBits: offset * 8}
}

// Elaborated is the "struct x" spelling of a record or enum declaration.
func Elaborated(decl *Cursor) *Type {
	return &Type{
		TypeKind:      frontend.TypeElaborated,
		Name:          decl.Ty.Name,
		Size:          decl.Ty.Size,
		Align:         decl.Ty.Align,
		NamedType:     decl.Ty,
		CanonicalType: decl.Ty,
		Decl:          decl,
	}
}

func Typedef(name string, underlying *Type) *Cursor {
	c := &Cursor{CursorKind: frontend.CursorTypedefDecl, Name: name, Underlying: underlying}
	c.Ty = &Type{
		TypeKind:      frontend.TypeTypedef,
		Name:          name,
		Size:          underlying.Size,
		Align:         underlying.Align,
		Decl:          c,
		CanonicalType: canonical(underlying),
	}
	return c
}

func canonical(t *Type) *Type {
	if t.CanonicalType != nil {
		return t.CanonicalType
	}
	return t
}

func Enum(name string, integer *Type, constants ...*Cursor) *Cursor {
	c := &Cursor{
		CursorKind:  frontend.CursorEnumDecl,
		Name:        name,
		Kids:        constants,
		IntegerType: integer,
		Anonymous:   name == "",
	}
	spelling := "enum " + name
	if name == "" {
		spelling = "enum (anonymous at memory.h:1:1)"
	}
	c.Ty = &Type{
		TypeKind:      frontend.TypeEnum,
		Name:          spelling,
		Size:          integer.Size,
		Align:         integer.Align,
		Decl:          c,
		CanonicalType: nil,
	}
	for _, k := range constants {
		k.Ty = c.Ty
	}
	return c
}

func EnumConstant(name string, value int64) *Cursor {
	return &Cursor{CursorKind: frontend.CursorEnumConstantDecl, Name: name, Value: value}
}

func Function(name string, ret *Type, params ...*Cursor) *Cursor {
	types := make([]*Type, len(params))
	for i, p := range params {
		types[i] = adjusted(p.Ty)
	}
	return &Cursor{
		CursorKind: frontend.CursorFunctionDecl,
		Name:       name,
		Ty:         FunctionType(ret, types...),
		Link:       frontend.LinkageExternal,
		Args:       params,
		Kids:       params,
	}
}

// adjusted is the type a function type records for a parameter: arrays decay
// to pointers to their element.
func adjusted(t *Type) *Type {
	if t != nil && (t.TypeKind == frontend.TypeConstantArray || t.TypeKind == frontend.TypeIncompleteArray) {
		return PointerTo(t.ElementType)
	}
	return t
}

func Param(name string, t *Type) *Cursor {
	return &Cursor{CursorKind: frontend.CursorParmDecl, Name: name, Ty: t}
}

func Variable(name string, t *Type) *Cursor {
	return &Cursor{CursorKind: frontend.CursorVarDecl, Name: name, Ty: t, Link: frontend.LinkageExternal}
}

// Macro is an object-like macro definition; tokens exclude the macro name.
func Macro(name string, tokens ...string) *Cursor {
	return &Cursor{
		CursorKind: frontend.CursorMacroDefinition,
		Name:       name,
		Toks:       append([]string{name}, tokens...),
	}
}

// FunctionMacro is a function-like macro definition.
func FunctionMacro(name string, tokens ...string) *Cursor {
	c := Macro(name, tokens...)
	c.FunctionLike = true
	return c
}

// At sets the location of c and returns it.
func (c *Cursor) At(file string, line, column int) *Cursor {
	c.Loc = frontend.Location{File: file, Line: line, Column: column, InMainFile: true}
	return c
}

// InSystemHeader marks c as declared in a system header.
func (c *Cursor) InSystemHeader() *Cursor {
	c.Loc.InSystemHeader = true
	c.Loc.InMainFile = false
	return c
}

// Static gives c internal linkage.
func (c *Cursor) Static() *Cursor {
	c.Link = frontend.LinkageInternal
	return c
}

// Evaluated attaches an evaluation result to c.
func (c *Cursor) Evaluated(r frontend.EvalResult) *Cursor {
	c.Eval = &r
	return c
}

// TranslationUnit builds a unit whose root cursor has decls as children.
func TranslationUnit(decls ...*Cursor) *Unit {
	return &Unit{Root: &Cursor{CursorKind: frontend.CursorTranslationUnit, Kids: decls}}
}
