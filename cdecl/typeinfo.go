package cdecl

import "strings"

// TypeInfo describes a resolved type reference. Declarations it refers to are
// referenced by Name only; InnerType is owned by this TypeInfo and never forms
// a cycle.
type TypeInfo struct {
	Name        string    `json:"name" yaml:"name"`
	Kind        Kind      `json:"kind" yaml:"kind"`
	SizeOf      int       `json:"size_of" yaml:"size_of"`
	AlignOf     int       `json:"align_of" yaml:"align_of"`
	ElementSize *int      `json:"element_size,omitempty" yaml:"element_size,omitempty"`
	ArraySizeOf *int      `json:"array_size,omitempty" yaml:"array_size,omitempty"`
	IsConst     bool      `json:"is_const,omitempty" yaml:"is_const,omitempty"`
	InnerType   *TypeInfo `json:"inner_type,omitempty" yaml:"inner_type,omitempty"`
}

// Innermost follows InnerType links to the last type in the chain.
func (t *TypeInfo) Innermost() *TypeInfo {
	cur := t
	for cur != nil && cur.InnerType != nil {
		cur = cur.InnerType
	}
	return cur
}

// PointerDepth counts the pointer layers before a non-pointer type.
func (t *TypeInfo) PointerDepth() int {
	depth := 0
	for cur := t; cur != nil && cur.Kind == KindPointer; cur = cur.InnerType {
		depth++
	}
	return depth
}

// StripArraySuffix lowers a constant array type name "T[N]" to the pointer
// shaped "T*". Every dimension becomes one pointer level: "char[2][8]" is
// "char**".
func StripArraySuffix(name string) string {
	for {
		open := strings.IndexByte(name, '[')
		if open < 0 {
			return name
		}
		end := strings.IndexByte(name[open:], ']')
		if end < 0 {
			return name
		}
		name = name[:open] + name[open+end+1:] + "*"
	}
}
