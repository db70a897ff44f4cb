// Package libclang implements the frontend interfaces on top of libclang 13
// through go-clang.
package libclang

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-clang/clang-v13/clang"

	"github.com/ardanlabs/c2ffi/frontend"
)

// Parser parses with a fresh index per translation unit, so units produced for
// different platforms never share libclang state.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(ctx context.Context, path string, args []string) (frontend.TranslationUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := clang.NewIndex(0, 0)

	var tu clang.TranslationUnit
	opts := uint32(clang.TranslationUnit_DetailedPreprocessingRecord)
	if code := idx.ParseTranslationUnit2(path, args, nil, opts, &tu); code != clang.Error_Success {
		idx.Dispose()
		return nil, errors.Mark(
			errors.Newf("libclang could not parse %q (error code %d) with arguments %q", path, code, args),
			frontend.ErrParse)
	}

	return &unit{idx: idx, tu: tu}, nil
}

type unit struct {
	idx  clang.Index
	tu   clang.TranslationUnit
	once sync.Once
}

func (u *unit) Cursor() frontend.Cursor {
	return &cursor{c: u.tu.TranslationUnitCursor(), tu: u.tu}
}

func (u *unit) Diagnostics() []frontend.Diagnostic {
	n := u.tu.NumDiagnostics()
	out := make([]frontend.Diagnostic, 0, n)
	for i := uint32(0); i < n; i++ {
		d := u.tu.Diagnostic(i)
		out = append(out, frontend.Diagnostic{
			Severity:  severity(d.Severity()),
			Message:   d.Spelling(),
			Formatted: d.FormatDiagnostic(clang.DefaultDiagnosticDisplayOptions()),
		})
		d.Dispose()
	}
	return out
}

func (u *unit) Close() {
	u.once.Do(func() {
		u.tu.Dispose()
		u.idx.Dispose()
	})
}

func severity(s clang.DiagnosticSeverity) frontend.Severity {
	switch s {
	case clang.Diagnostic_Note:
		return frontend.SeverityNote
	case clang.Diagnostic_Warning:
		return frontend.SeverityWarning
	case clang.Diagnostic_Error:
		return frontend.SeverityError
	case clang.Diagnostic_Fatal:
		return frontend.SeverityFatal
	}
	return frontend.SeverityIgnored
}

type cursor struct {
	c  clang.Cursor
	tu clang.TranslationUnit
}

func (c *cursor) wrap(x clang.Cursor) frontend.Cursor {
	return &cursor{c: x, tu: c.tu}
}

func (c *cursor) wrapType(t clang.Type) frontend.Type {
	return &ctype{t: t, tu: c.tu}
}

func (c *cursor) Kind() frontend.CursorKind { return cursorKind(c.c.Kind()) }
func (c *cursor) Spelling() string { return c.c.Spelling() }
func (c *cursor) Type() frontend.Type { return c.wrapType(c.c.Type()) }
func (c *cursor) IsAnonymous() bool { return c.c.IsAnonymous() }
func (c *cursor) TypedefUnderlyingType() frontend.Type { return c.wrapType(c.c.TypedefDeclUnderlyingType()) }
func (c *cursor) EnumIntegerType() frontend.Type { return c.wrapType(c.c.EnumDeclIntegerType()) }
func (c *cursor) EnumConstantValue() int64 { return c.c.EnumConstantDeclValue() }
func (c *cursor) FieldOffsetBits() int64 { return c.c.OffsetOfField() }
func (c *cursor) IsMacroFunctionLike() bool { return c.c.IsMacroFunctionLike() }
func (c *cursor) IsMacroBuiltin() bool { return c.c.IsMacroBuiltin() }

func (c *cursor) Location() frontend.Location {
	loc := c.c.Location()
	file, line, column, _ := loc.FileLocation()
	return frontend.Location{
		File:           file.Name(),
		Line:           int(line),
		Column:         int(column),
		InSystemHeader: loc.IsInSystemHeader(),
		InMainFile:     loc.IsFromMainFile(),
	}
}

func (c *cursor) Linkage() frontend.Linkage {
	switch c.c.Linkage() {
	case clang.Linkage_NoLinkage:
		return frontend.LinkageNone
	case clang.Linkage_Internal:
		return frontend.LinkageInternal
	case clang.Linkage_UniqueExternal:
		return frontend.LinkageUniqueExternal
	case clang.Linkage_External:
		return frontend.LinkageExternal
	}
	return frontend.LinkageInvalid
}

func (c *cursor) Children() []frontend.Cursor {
	var out []frontend.Cursor
	c.c.Visit(func(child, parent clang.Cursor) clang.ChildVisitResult {
		out = append(out, c.wrap(child))
		return clang.ChildVisit_Continue
	})
	return out
}

func (c *cursor) Arguments() []frontend.Cursor {
	n := c.c.NumArguments()
	if n <= 0 {
		return nil
	}
	out := make([]frontend.Cursor, n)
	for i := range out {
		out[i] = c.wrap(c.c.Argument(uint32(i)))
	}
	return out
}

func (c *cursor) Tokens() []string {
	toks := c.tu.Tokenize(c.c.Extent())
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = c.tu.TokenSpelling(t)
	}
	return out
}

func (c *cursor) Evaluate() (frontend.EvalResult, bool) {
	r := c.c.Evaluate()
	defer r.Dispose()

	switch r.Kind() {
	case clang.Eval_Int:
		res := frontend.EvalResult{Kind: frontend.EvalInt, IsUnsigned: r.IsUnsignedInt()}
		if res.IsUnsigned {
			res.Uint = r.AsUnsigned()
		} else {
			res.Int = r.AsLongLong()
		}
		return res, true

	case clang.Eval_Float:
		return frontend.EvalResult{Kind: frontend.EvalFloat, Float: r.AsDouble()}, true

	case clang.Eval_StrLiteral:
		return frontend.EvalResult{Kind: frontend.EvalString, Str: r.AsStr()}, true
	}

	return frontend.EvalResult{}, false
}

type ctype struct {
	t  clang.Type
	tu clang.TranslationUnit
}

func (t *ctype) wrap(x clang.Type) frontend.Type {
	return &ctype{t: x, tu: t.tu}
}

func (t *ctype) Kind() frontend.TypeKind { return typeKind(t.t.Kind()) }
func (t *ctype) SizeOf() int64 { return t.t.SizeOf() }
func (t *ctype) AlignOf() int64 { return t.t.AlignOf() }
func (t *ctype) IsConst() bool { return t.t.IsConstQualifiedType() }
func (t *ctype) Canonical() frontend.Type { return t.wrap(t.t.CanonicalType()) }
func (t *ctype) Pointee() frontend.Type { return t.wrap(t.t.PointeeType()) }
func (t *ctype) Element() frontend.Type { return t.wrap(t.t.ArrayElementType()) }
func (t *ctype) ArrayLen() int64 { return t.t.ArraySize() }
func (t *ctype) Result() frontend.Type { return t.wrap(t.t.ResultType()) }
func (t *ctype) IsVariadic() bool { return t.t.IsFunctionTypeVariadic() }
func (t *ctype) Named() frontend.Type { return t.wrap(t.t.NamedType()) }
func (t *ctype) Modified() frontend.Type { return t.wrap(t.t.ModifiedType()) }

// Spelling drops the qualifiers libclang prefixes to the type name; constness
// is reported separately by IsConst.
func (t *ctype) Spelling() string {
	s := t.t.Spelling()
	for _, q := range []string{"const ", "volatile ", "restrict "} {
		s = strings.TrimPrefix(s, q)
	}
	return s
}

func (t *ctype) Declaration() frontend.Cursor {
	return &cursor{c: t.t.Declaration(), tu: t.tu}
}

func (t *ctype) Params() []frontend.Type {
	n := t.t.NumArgTypes()
	if n <= 0 {
		return nil
	}
	out := make([]frontend.Type, n)
	for i := range out {
		out[i] = t.wrap(t.t.ArgType(uint32(i)))
	}
	return out
}

func (t *ctype) CallingConv() frontend.CallingConv {
	switch t.t.FunctionTypeCallingConv() {
	case clang.CallingConv_Default:
		return frontend.CallingConvDefault
	case clang.CallingConv_C:
		return frontend.CallingConvC
	case clang.CallingConv_X86StdCall:
		return frontend.CallingConvStdCall
	case clang.CallingConv_X86FastCall:
		return frontend.CallingConvFastCall
	}
	return frontend.CallingConvOther
}

// Fields walks the record type rather than the declaration's children: the
// cursor visitor skips the implicit unnamed field of an anonymous struct or
// union member.
func (t *ctype) Fields() []frontend.Cursor {
	var out []frontend.Cursor
	t.t.CanonicalType().VisitFields(func(field clang.Cursor) clang.VisitorResult {
		out = append(out, &cursor{c: field, tu: t.tu})
		return clang.Visit_Continue
	})
	return out
}
