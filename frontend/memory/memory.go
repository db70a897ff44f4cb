// Package memory is an in-memory implementation of the frontend interfaces.
//
// Declarations are assembled with the builder functions in builders.go and
// served by Frontend, either from a fixed path table or from a ParseFunc that
// inspects the source file being parsed.
package memory

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/ardanlabs/c2ffi/frontend"
)

// Frontend implements frontend.Parser. It is safe for concurrent use.
type Frontend struct {
	Units     map[string]*Unit
	ParseFunc func(ctx context.Context, path string, args []string) (*Unit, error)

	mu    sync.Mutex
	calls []Call
}

type Call struct {
	Path string
	Args []string
}

func (f *Frontend) Parse(ctx context.Context, path string, args []string) (frontend.TranslationUnit, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Path: path, Args: append([]string(nil), args...)})
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f.ParseFunc != nil {
		u, err := f.ParseFunc(ctx, path, args)
		if err != nil {
			return nil, err
		}
		return u, nil
	}

	u, ok := f.Units[path]
	if !ok {
		return nil, errors.Mark(errors.Newf("no translation unit registered for %q", path), frontend.ErrParse)
	}
	return u, nil
}

// Calls returns the parse requests seen so far.
func (f *Frontend) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

type Unit struct {
	Root  *Cursor
	Diags []frontend.Diagnostic

	mu     sync.Mutex
	closed bool
}

func (u *Unit) Cursor() frontend.Cursor { return u.Root }
func (u *Unit) Diagnostics() []frontend.Diagnostic { return u.Diags }

func (u *Unit) Close() {
	u.mu.Lock()
	u.closed = true
	u.mu.Unlock()
}

func (u *Unit) Closed() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.closed
}

// Cursor implements frontend.Cursor.
type Cursor struct {
	CursorKind   frontend.CursorKind
	Name         string
	Ty           *Type
	Loc          frontend.Location
	Link         frontend.Linkage
	Anonymous    bool
	Kids         []*Cursor
	Underlying   *Type
	IntegerType  *Type
	Value        int64
	OffsetBits   int64
	FunctionLike bool
	Builtin      bool
	Args         []*Cursor
	Toks         []string
	Eval         *frontend.EvalResult
}

var (
	invalidType   = &Type{TypeKind: frontend.TypeInvalid, Size: frontend.SizeInvalid, Align: frontend.SizeInvalid}
	invalidCursor = &Cursor{CursorKind: frontend.CursorInvalid}
)

func typeOrInvalid(t *Type) frontend.Type {
	if t == nil {
		return invalidType
	}
	return t
}

func cursorOrInvalid(c *Cursor) frontend.Cursor {
	if c == nil {
		return invalidCursor
	}
	return c
}

func cursors(cs []*Cursor) []frontend.Cursor {
	out := make([]frontend.Cursor, len(cs))
	for i, c := range cs {
		out[i] = c
	}
	return out
}

func (c *Cursor) Kind() frontend.CursorKind { return c.CursorKind }
func (c *Cursor) Spelling() string { return c.Name }
func (c *Cursor) Type() frontend.Type { return typeOrInvalid(c.Ty) }
func (c *Cursor) Location() frontend.Location { return c.Loc }
func (c *Cursor) Linkage() frontend.Linkage { return c.Link }
func (c *Cursor) IsAnonymous() bool { return c.Anonymous }
func (c *Cursor) Children() []frontend.Cursor { return cursors(c.Kids) }
func (c *Cursor) TypedefUnderlyingType() frontend.Type { return typeOrInvalid(c.Underlying) }
func (c *Cursor) EnumIntegerType() frontend.Type { return typeOrInvalid(c.IntegerType) }
func (c *Cursor) EnumConstantValue() int64 { return c.Value }
func (c *Cursor) FieldOffsetBits() int64 { return c.OffsetBits }
func (c *Cursor) IsMacroFunctionLike() bool { return c.FunctionLike }
func (c *Cursor) IsMacroBuiltin() bool { return c.Builtin }
func (c *Cursor) Arguments() []frontend.Cursor { return cursors(c.Args) }
func (c *Cursor) Tokens() []string { return c.Toks }

func (c *Cursor) Evaluate() (frontend.EvalResult, bool) {
	if c.Eval == nil {
		return frontend.EvalResult{}, false
	}
	return *c.Eval, true
}

// Type implements frontend.Type.
type Type struct {
	TypeKind      frontend.TypeKind
	Name          string
	Size          int64
	Align         int64
	Const         bool
	Decl          *Cursor
	CanonicalType *Type
	PointeeType   *Type
	ElementType   *Type
	Len           int64
	ResultType    *Type
	ParamTypes    []*Type
	Variadic      bool
	Conv          frontend.CallingConv
	NamedType     *Type
	ModifiedType  *Type
}

func (t *Type) Kind() frontend.TypeKind { return t.TypeKind }
func (t *Type) Spelling() string { return t.Name }
func (t *Type) SizeOf() int64 { return t.Size }
func (t *Type) AlignOf() int64 { return t.Align }
func (t *Type) IsConst() bool { return t.Const }
func (t *Type) Declaration() frontend.Cursor { return cursorOrInvalid(t.Decl) }
func (t *Type) Pointee() frontend.Type { return typeOrInvalid(t.PointeeType) }
func (t *Type) Element() frontend.Type { return typeOrInvalid(t.ElementType) }
func (t *Type) ArrayLen() int64 { return t.Len }
func (t *Type) Result() frontend.Type { return typeOrInvalid(t.ResultType) }
func (t *Type) IsVariadic() bool { return t.Variadic }
func (t *Type) CallingConv() frontend.CallingConv { return t.Conv }
func (t *Type) Named() frontend.Type { return typeOrInvalid(t.NamedType) }
func (t *Type) Modified() frontend.Type { return typeOrInvalid(t.ModifiedType) }

func (t *Type) Canonical() frontend.Type {
	if t.CanonicalType != nil {
		return t.CanonicalType
	}
	return t
}

func (t *Type) Params() []frontend.Type {
	out := make([]frontend.Type, len(t.ParamTypes))
	for i, p := range t.ParamTypes {
		out[i] = p
	}
	return out
}

func (t *Type) Fields() []frontend.Cursor {
	if t.Decl == nil {
		return nil
	}
	var out []frontend.Cursor
	for _, k := range t.Decl.Kids {
		if k.CursorKind == frontend.CursorFieldDecl {
			out = append(out, k)
		}
	}
	return out
}
