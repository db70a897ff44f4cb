package generator

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ardanlabs/c2ffi/cdecl"
)

// usage is the position a type is mapped for. C strings are Go strings in
// wrapper signatures and raw byte pointers inside structs.
type usage int

const (
	useField usage = iota
	useParam
	useResult
)

var floatNames = map[string]bool{
	"float":       true,
	"double":      true,
	"long double": true,
	"_Float16":    true,
	"__fp16":      true,
	"__float128":  true,
	"float_t":     true,
	"double_t":    true,
}

var unsignedNames = map[string]bool{
	"size_t":    true,
	"uintptr_t": true,
	"uintmax_t": true,
	"char16_t":  true,
	"char32_t":  true,
}

func isUnsigned(name string) bool {
	return strings.HasPrefix(name, "unsigned ") || strings.HasPrefix(name, "uint") || strings.HasPrefix(name, "u_") || unsignedNames[name]
}

func isBool(name string) bool {
	return name == "_Bool" || name == "bool"
}

func isVoid(t cdecl.TypeInfo) bool {
	return t.Kind == cdecl.KindPrimitive && t.Name == "void"
}

// isCString reports a pointer to plain char.
func isCString(t cdecl.TypeInfo) bool {
	return t.Kind == cdecl.KindPointer && t.InnerType != nil &&
		t.InnerType.Kind == cdecl.KindPrimitive && t.InnerType.Name == "char"
}

func unsupported(t cdecl.TypeInfo) error {
	return errors.Mark(errors.Newf("no Go mapping for %s type %q", t.Kind, t.Name), cdecl.ErrUnsupportedType)
}

func primitiveGoType(t cdecl.TypeInfo) (string, error) {
	switch {
	case t.Name == "void":
		return "", nil
	case isBool(t.Name):
		return "bool", nil
	case floatNames[t.Name]:
		switch t.SizeOf {
		case 4:
			return "float32", nil
		case 8:
			return "float64", nil
		}
		return "", unsupported(t)
	}

	switch t.SizeOf {
	case 1, 2, 4, 8:
		bits := t.SizeOf * 8
		if isUnsigned(t.Name) {
			return fmt.Sprintf("uint%d", bits), nil
		}
		return fmt.Sprintf("int%d", bits), nil
	}
	return "", unsupported(t)
}

func primitiveFFIType(t cdecl.TypeInfo) (string, error) {
	switch {
	case t.Name == "void":
		return "&ffi.TypeVoid", nil
	case isBool(t.Name):
		return "&ffi.TypeUint8", nil
	case floatNames[t.Name]:
		switch t.SizeOf {
		case 4:
			return "&ffi.TypeFloat", nil
		case 8:
			return "&ffi.TypeDouble", nil
		}
		return "", unsupported(t)
	}

	switch t.SizeOf {
	case 1, 2, 4, 8:
		if isUnsigned(t.Name) {
			return fmt.Sprintf("&ffi.TypeUint%d", t.SizeOf*8), nil
		}
		return fmt.Sprintf("&ffi.TypeSint%d", t.SizeOf*8), nil
	}
	return "", unsupported(t)
}

// goType maps a C type onto the Go type used at u.
func (g *Generator) goType(t cdecl.TypeInfo, u usage) (string, error) {
	switch t.Kind {
	case cdecl.KindPrimitive:
		return primitiveGoType(t)

	case cdecl.KindEnum, cdecl.KindStruct, cdecl.KindUnion, cdecl.KindTypeAlias,
		cdecl.KindOpaqueType, cdecl.KindFunctionPointer:
		return g.names.typeName(t.Name), nil

	case cdecl.KindPointer:
		if isCString(t) {
			if u == useField {
				return "*byte", nil
			}
			return "string", nil
		}
		if t.InnerType != nil {
			switch t.InnerType.Kind {
			case cdecl.KindStruct, cdecl.KindUnion:
				return "*" + g.names.typeName(t.InnerType.Name), nil
			case cdecl.KindOpaqueType:
				return g.names.typeName(t.InnerType.Name), nil
			}
		}
		return "uintptr", nil

	case cdecl.KindArray:
		if t.ArraySizeOf == nil || u != useField || t.InnerType == nil {
			return "uintptr", nil
		}
		elem, err := g.goType(*t.InnerType, useField)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("[%d]%s", *t.ArraySizeOf, elem), nil
	}

	return "", unsupported(t)
}

// ffiType maps a C type onto the ffi type describing one argument or return
// value.
func (g *Generator) ffiType(t cdecl.TypeInfo) (string, error) {
	switch t.Kind {
	case cdecl.KindPrimitive:
		return primitiveFFIType(t)

	case cdecl.KindEnum:
		return primitiveFFIType(cdecl.TypeInfo{Name: "int", SizeOf: t.SizeOf})

	case cdecl.KindStruct, cdecl.KindUnion:
		if g.empty[t.Name] {
			return "", errors.Mark(errors.Newf("record %q has no fields", t.Name), cdecl.ErrUnsupportedType)
		}
		return "&FFIType" + g.names.typeName(t.Name), nil

	case cdecl.KindTypeAlias:
		if t.InnerType == nil {
			return "", unsupported(t)
		}
		return g.ffiType(*t.InnerType)

	case cdecl.KindPointer, cdecl.KindArray, cdecl.KindFunctionPointer, cdecl.KindOpaqueType:
		return "&ffi.TypePointer", nil
	}

	return "", unsupported(t)
}

// ffiElements lists the ffi types a value of t occupies inside a struct.
// Arrays repeat their element type.
func (g *Generator) ffiElements(t cdecl.TypeInfo) ([]string, error) {
	if t.Kind != cdecl.KindArray || t.ArraySizeOf == nil || t.InnerType == nil {
		ft, err := g.ffiType(t)
		if err != nil {
			return nil, err
		}
		return []string{ft}, nil
	}

	elem, err := g.ffiElements(*t.InnerType)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(elem)*(*t.ArraySizeOf))
	for range *t.ArraySizeOf {
		out = append(out, elem...)
	}
	return out, nil
}

// unionLayout describes a union as an array of unsigned words of its
// alignment, which has the union's size and alignment.
func unionLayout(r *cdecl.Record) (count int, word int, err error) {
	if r.AlignOf <= 0 || r.SizeOf <= 0 || r.SizeOf%r.AlignOf != 0 || r.AlignOf > 8 {
		return 0, 0, errors.Mark(errors.Newf("union %q: size %d and alignment %d have no word layout", r.Name, r.SizeOf, r.AlignOf), cdecl.ErrUnsupportedType)
	}
	return r.SizeOf / r.AlignOf, r.AlignOf * 8, nil
}

// smallInteger reports a result the ffi call widens to a full register, which
// is read back through ffi.Arg.
func smallInteger(t cdecl.TypeInfo) bool {
	switch t.Kind {
	case cdecl.KindEnum:
		return t.SizeOf < 8
	case cdecl.KindPrimitive:
		return !isVoid(t) && !floatNames[t.Name] && t.SizeOf < 8
	case cdecl.KindTypeAlias:
		return t.InnerType != nil && smallInteger(*t.InnerType)
	}
	return false
}

func boolResult(t cdecl.TypeInfo) bool {
	if t.Kind == cdecl.KindTypeAlias && t.InnerType != nil {
		return boolResult(*t.InnerType)
	}
	return t.Kind == cdecl.KindPrimitive && isBool(t.Name)
}
