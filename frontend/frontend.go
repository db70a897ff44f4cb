// Package frontend describes the C compiler front end the explorer consumes.
//
// The front end parses a source file with compilation arguments and exposes the
// result as cursors (declaration sites) and types (semantic C types). The
// interfaces mirror libclang's cursor/type model; package libclang implements them
// on top of libclang and package memory implements them in memory.
package frontend

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrParse marks a translation unit that could not be parsed, or whose parse
// produced error or fatal diagnostics.
var ErrParse = errors.New("parse failed")

// Size sentinels reported by Type.SizeOf and Type.AlignOf.
const (
	SizeInvalid    int64 = -1
	SizeIncomplete int64 = -2
	SizeDependent  int64 = -3
)

type Parser interface {
	Parse(ctx context.Context, path string, args []string) (TranslationUnit, error)
}

type TranslationUnit interface {
	Cursor() Cursor
	Diagnostics() []Diagnostic
	Close()
}

type Cursor interface {
	Kind() CursorKind
	Spelling() string
	Type() Type
	Location() Location
	Linkage() Linkage
	IsAnonymous() bool
	Children() []Cursor

	TypedefUnderlyingType() Type
	EnumIntegerType() Type
	EnumConstantValue() int64
	FieldOffsetBits() int64

	IsMacroFunctionLike() bool
	IsMacroBuiltin() bool

	// Arguments are the parameter declarations of a function declaration.
	Arguments() []Cursor
	// Tokens are the spellings of the tokens covered by the cursor extent.
	Tokens() []string
	// Evaluate folds the cursor (or its initializer) to a constant.
	Evaluate() (EvalResult, bool)
}

type Type interface {
	Kind() TypeKind
	Spelling() string
	SizeOf() int64
	AlignOf() int64
	IsConst() bool

	Declaration() Cursor
	Canonical() Type
	Pointee() Type
	Element() Type
	ArrayLen() int64
	Result() Type
	Params() []Type
	IsVariadic() bool
	CallingConv() CallingConv
	Named() Type
	Modified() Type
	// Fields visits the fields of a record type, including unnamed ones.
	Fields() []Cursor
}

// Location is the raw position the front end reports for a cursor.
type Location struct {
	File           string
	Line           int
	Column         int
	InSystemHeader bool
	InMainFile     bool
}

type Severity int

const (
	SeverityIgnored Severity = iota
	SeverityNote
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	}
	return "ignored"
}

type Diagnostic struct {
	Severity  Severity
	Message   string
	Formatted string
}

func (d Diagnostic) String() string {
	if d.Formatted != "" {
		return d.Formatted
	}
	return d.Severity.String() + ": " + d.Message
}

// Failed reports whether any diagnostic has error or fatal severity.
func Failed(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity >= SeverityError {
			return true
		}
	}
	return false
}

type EvalKind int

const (
	EvalUnexposed EvalKind = iota
	EvalInt
	EvalFloat
	EvalString
)

type EvalResult struct {
	Kind       EvalKind
	Int        int64
	Uint       uint64
	IsUnsigned bool
	Float      float64
	Str        string
}

type Linkage int

const (
	LinkageInvalid Linkage = iota
	LinkageNone
	LinkageInternal
	LinkageUniqueExternal
	LinkageExternal
)

type CallingConv int

const (
	CallingConvDefault CallingConv = iota
	CallingConvC
	CallingConvStdCall
	CallingConvFastCall
	CallingConvOther
)
