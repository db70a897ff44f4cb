package merge

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ardanlabs/c2ffi/cdecl"
)

// FirstDifference returns the path of the first field where two declarations
// differ, such as "Fields[1].OffsetOf", ignoring locations. Declarations of
// different kinds differ at "kind". The result is empty when they are equal.
func FirstDifference(a, b cdecl.Node) string {
	if a.NodeKind() != b.NodeKind() {
		return "kind"
	}
	path, _ := difference(reflect.ValueOf(a), reflect.ValueOf(b), nil)
	return strings.Join(path, "")
}

func difference(a, b reflect.Value, path []string) ([]string, bool) {
	if a.IsValid() != b.IsValid() {
		return path, true
	}
	if !a.IsValid() {
		return nil, false
	}
	if a.Type() != b.Type() {
		return path, true
	}

	switch a.Kind() {
	case reflect.Pointer, reflect.Interface:
		if a.IsNil() || b.IsNil() {
			if a.IsNil() != b.IsNil() {
				return path, true
			}
			return nil, false
		}
		return difference(a.Elem(), b.Elem(), path)

	case reflect.Struct:
		if a.Type() == locationType {
			return nil, false
		}
		for i := range a.NumField() {
			name := a.Type().Field(i).Name
			if len(path) > 0 {
				name = "." + name
			}
			if p, ok := difference(a.Field(i), b.Field(i), append(path, name)); ok {
				return p, true
			}
		}
		return nil, false

	case reflect.Slice, reflect.Array:
		for i := range min(a.Len(), b.Len()) {
			if p, ok := difference(a.Index(i), b.Index(i), append(path, fmt.Sprintf("[%d]", i))); ok {
				return p, true
			}
		}
		if a.Len() != b.Len() {
			return append(path, ".len"), true
		}
		return nil, false
	}

	if !reflect.DeepEqual(a.Interface(), b.Interface()) {
		return path, true
	}
	return nil, false
}
