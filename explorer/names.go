package explorer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
)

var tagKeywords = []string{"struct ", "union ", "enum "}

// tagName strips the tag keyword from a record or enum type spelling.
func tagName(spelling string) string {
	for _, kw := range tagKeywords {
		if strings.HasPrefix(spelling, kw) {
			return strings.TrimPrefix(spelling, kw)
		}
	}
	return spelling
}

// isAnonymous reports whether a tag spelling names no declaration. libclang
// spells these "struct (anonymous at f.h:1:2)" or "struct (unnamed at ...)".
func isAnonymous(name string) bool {
	return name == "" || strings.Contains(name, "(anonymous") || strings.Contains(name, "(unnamed")
}

var primitiveNames = map[frontend.TypeKind]string{
	frontend.TypeVoid:       "void",
	frontend.TypeBool:       "_Bool",
	frontend.TypeCharU:      "char",
	frontend.TypeCharS:      "char",
	frontend.TypeUChar:      "unsigned char",
	frontend.TypeSChar:      "signed char",
	frontend.TypeChar16:     "char16_t",
	frontend.TypeChar32:     "char32_t",
	frontend.TypeWChar:      "wchar_t",
	frontend.TypeUShort:     "unsigned short",
	frontend.TypeUInt:       "unsigned int",
	frontend.TypeULong:      "unsigned long",
	frontend.TypeULongLong:  "unsigned long long",
	frontend.TypeUInt128:    "unsigned __int128",
	frontend.TypeShort:      "short",
	frontend.TypeInt:        "int",
	frontend.TypeLong:       "long",
	frontend.TypeLongLong:   "long long",
	frontend.TypeInt128:     "__int128",
	frontend.TypeHalf:       "__fp16",
	frontend.TypeFloat16:    "_Float16",
	frontend.TypeFloat:      "float",
	frontend.TypeDouble:     "double",
	frontend.TypeLongDouble: "long double",
	frontend.TypeFloat128:   "__float128",
}

// primitiveName names a primitive type. Pass-through typedefs keep their own
// name.
func primitiveName(t frontend.Type) string {
	if t.Kind() == frontend.TypeTypedef {
		return t.Spelling()
	}
	if name, ok := primitiveNames[t.Kind()]; ok {
		return name
	}
	return t.Spelling()
}

// signedIntegerName is the signed spelling of an enum's integer type, so an
// enum reads the same on platforms that disagree about its signedness.
func signedIntegerName(t frontend.Type) string {
	k := t.Kind()
	if !k.IsInteger() {
		k = t.Canonical().Kind()
	}

	switch k {
	case frontend.TypeCharS, frontend.TypeCharU, frontend.TypeSChar, frontend.TypeUChar, frontend.TypeBool:
		return "signed char"
	case frontend.TypeShort, frontend.TypeUShort:
		return "signed short"
	case frontend.TypeLong, frontend.TypeULong:
		return "signed long"
	case frontend.TypeLongLong, frontend.TypeULongLong:
		return "signed long long"
	}
	return "signed int"
}

// anonymousRecordName names an anonymous struct, union or enum from the place
// it is referenced.
func anonymousRecordName(ref typeRef, spelling string) string {
	p := ref.parent
	switch {
	case p == nil:
		return ""
	case p.Kind == cdecl.KindTypeAlias && ref.depth == 0:
		return p.Name
	case ref.field != "":
		return p.Name + "_" + ref.field
	case strings.Contains(spelling, "(unnamed"):
		return fmt.Sprintf("%s_UNNAMED_FIELD%d", p.Name, ref.index)
	}
	return fmt.Sprintf("%s_ANONYMOUS_FIELD%d", p.Name, ref.index)
}

// EnumNameFromConstants derives a name for an anonymous enum from the text its
// constants share. Plain lock-step stripping of one trailing character from
// every name only finds a shared prefix; this goes further in two steps.
// First the longest names are trimmed until every name has the same length,
// then all names are stripped in lock-step until they agree. When that leaves
// nothing, the same is tried from the front, which finds a shared suffix:
// redColor, greenColor and blueColor give Color. The result is trimmed of
// underscores. Enums with at most one constant, or whose constants share
// nothing, have no name.
func EnumNameFromConstants(constants []string) (string, bool) {
	if len(constants) <= 1 {
		return "", false
	}

	name := commonPart(constants, func(s string) string { return s[:len(s)-1] })
	if name == "" {
		name = commonPart(constants, func(s string) string { return s[1:] })
	}

	name = strings.Trim(name, "_")
	return name, name != ""
}

func commonPart(constants []string, strip func(string) string) string {
	names := append([]string(nil), constants...)
	for {
		shortest := len(names[0])
		for _, n := range names[1:] {
			shortest = min(shortest, len(n))
		}
		if shortest == 0 {
			return ""
		}

		same := true
		for _, n := range names[1:] {
			if n != names[0] {
				same = false
				break
			}
		}
		if same {
			return names[0]
		}

		stripped := false
		for i, n := range names {
			if len(n) > shortest {
				names[i] = strip(n)
				stripped = true
			}
		}
		if !stripped {
			for i, n := range names {
				names[i] = strip(n)
			}
		}
	}
}

// FunctionPointerName builds the synthetic name of an anonymous function
// pointer from its parameter and return type names: FnPtr_Int_CharPtr_Void.
// A function pointer without parameters is FnPtr_<Return>.
func FunctionPointerName(params []string, ret string) string {
	var b strings.Builder
	b.WriteString("FnPtr_")
	for _, p := range params {
		b.WriteString(identifier(p))
		b.WriteByte('_')
	}
	b.WriteString(identifier(ret))
	return b.String()
}

// identifier turns a C type name into an upper camel case identifier:
// "unsigned int" is UnsignedInt, "char*" is CharPtr, "int[4]" is IntArray4.
func identifier(typeName string) string {
	r := strings.NewReplacer("*", " Ptr ", "[", " Array ", "]", " ")
	var b strings.Builder
	for _, word := range strings.FieldsFunc(r.Replace(typeName), func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	}) {
		if word == "const" || word == "volatile" || word == "restrict" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	return b.String()
}
