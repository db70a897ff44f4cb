package cdecl

import (
	"github.com/cockroachdb/errors"
)

// Kind is the closed set of declaration and type kinds the explorer produces.
type Kind int

const (
	KindUnknown Kind = iota
	KindPrimitive
	KindEnum
	KindEnumConstant
	KindStruct
	KindUnion
	KindTypeAlias
	KindOpaqueType
	KindFunction
	KindFunctionPointer
	KindPointer
	KindArray
	KindVariable
	KindMacroObject
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindPrimitive:       "primitive",
	KindEnum:            "enum",
	KindEnumConstant:    "enum_constant",
	KindStruct:          "struct",
	KindUnion:           "union",
	KindTypeAlias:       "type_alias",
	KindOpaqueType:      "opaque_type",
	KindFunction:        "function",
	KindFunctionPointer: "function_pointer",
	KindPointer:         "pointer",
	KindArray:           "array",
	KindVariable:        "variable",
	KindMacroObject:     "macro_object",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return errors.Newf("unknown declaration kind %q", text)
}

// IsDeclaration reports whether values of this kind are produced as named
// declarations (and so are deferred through the explorer's type queue) rather
// than being described inline by a TypeInfo.
func (k Kind) IsDeclaration() bool {
	switch k {
	case KindEnum, KindStruct, KindUnion, KindTypeAlias, KindOpaqueType, KindFunctionPointer:
		return true
	}
	return false
}

// Class is the identity namespace a kind belongs to. Within one platform a name
// maps to at most one declaration per class.
type Class int

const (
	ClassType Class = iota
	ClassFunction
	ClassVariable
	ClassConstant
)

func (c Class) String() string {
	switch c {
	case ClassFunction:
		return "function"
	case ClassVariable:
		return "variable"
	case ClassConstant:
		return "constant"
	}
	return "type"
}

func (k Kind) Class() Class {
	switch k {
	case KindFunction:
		return ClassFunction
	case KindVariable:
		return ClassVariable
	case KindEnumConstant, KindMacroObject:
		return ClassConstant
	}
	return ClassType
}

// CallingConvention of a function or function pointer.
type CallingConvention int

const (
	CallingConventionCdecl CallingConvention = iota
	CallingConventionStdCall
	CallingConventionFastCall
)

func (c CallingConvention) String() string {
	switch c {
	case CallingConventionStdCall:
		return "stdcall"
	case CallingConventionFastCall:
		return "fastcall"
	}
	return "cdecl"
}

func (c CallingConvention) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CallingConvention) UnmarshalText(text []byte) error {
	switch string(text) {
	case "cdecl", "":
		*c = CallingConventionCdecl
	case "stdcall":
		*c = CallingConventionStdCall
	case "fastcall":
		*c = CallingConventionFastCall
	default:
		return errors.Newf("unknown calling convention %q", text)
	}
	return nil
}
