package merge

import (
	"slices"

	"github.com/ardanlabs/c2ffi/cdecl"
)

// Provenance records where one platform declared a merged declaration.
type Provenance struct {
	Kind     cdecl.Kind     `json:"kind" yaml:"kind"`
	Location cdecl.Location `json:"location" yaml:"location"`
}

// Decl is a declaration together with the platforms that declare it. A
// declaration shared by every platform of the model is platform agnostic.
type Decl[T cdecl.Node] struct {
	Node       T                             `json:"node" yaml:"node"`
	Platforms  []cdecl.Platform              `json:"platforms" yaml:"platforms"`
	Provenance map[cdecl.Platform]Provenance `json:"provenance" yaml:"provenance"`
}

// Model is the cross-platform declaration set. Every list is ordered by name,
// then by platform.
type Model struct {
	Platforms        []cdecl.Platform               `json:"platforms" yaml:"platforms"`
	Functions        []Decl[*cdecl.Function]        `json:"functions" yaml:"functions"`
	FunctionPointers []Decl[*cdecl.FunctionPointer] `json:"function_pointers" yaml:"function_pointers"`
	Records          []Decl[*cdecl.Record]          `json:"records" yaml:"records"`
	Enums            []Decl[*cdecl.Enum]            `json:"enums" yaml:"enums"`
	EnumConstants    []Decl[*cdecl.EnumConstant]    `json:"enum_constants" yaml:"enum_constants"`
	TypeAliases      []Decl[*cdecl.TypeAlias]       `json:"type_aliases" yaml:"type_aliases"`
	OpaqueTypes      []Decl[*cdecl.OpaqueType]      `json:"opaque_types" yaml:"opaque_types"`
	Variables        []Decl[*cdecl.Variable]        `json:"variables" yaml:"variables"`
	MacroObjects     []Decl[*cdecl.MacroObject]     `json:"macro_objects" yaml:"macro_objects"`
	Diagnostics      []cdecl.Diagnostic             `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Universal reports whether a declaration made on platforms is made on every
// platform of the model.
func (m *Model) Universal(platforms []cdecl.Platform) bool {
	return slices.Equal(platforms, m.Platforms)
}

// Len is the number of merged declarations.
func (m *Model) Len() int {
	return len(m.Functions) + len(m.FunctionPointers) + len(m.Records) + len(m.Enums) +
		len(m.EnumConstants) + len(m.TypeAliases) + len(m.OpaqueTypes) + len(m.Variables) +
		len(m.MacroObjects)
}

func (m *Model) add(n cdecl.Node, platforms []cdecl.Platform, prov map[cdecl.Platform]Provenance) {
	switch v := n.(type) {
	case *cdecl.Function:
		m.Functions = append(m.Functions, Decl[*cdecl.Function]{v, platforms, prov})
	case *cdecl.FunctionPointer:
		m.FunctionPointers = append(m.FunctionPointers, Decl[*cdecl.FunctionPointer]{v, platforms, prov})
	case *cdecl.Record:
		m.Records = append(m.Records, Decl[*cdecl.Record]{v, platforms, prov})
	case *cdecl.Enum:
		m.Enums = append(m.Enums, Decl[*cdecl.Enum]{v, platforms, prov})
	case *cdecl.EnumConstant:
		m.EnumConstants = append(m.EnumConstants, Decl[*cdecl.EnumConstant]{v, platforms, prov})
	case *cdecl.TypeAlias:
		m.TypeAliases = append(m.TypeAliases, Decl[*cdecl.TypeAlias]{v, platforms, prov})
	case *cdecl.OpaqueType:
		m.OpaqueTypes = append(m.OpaqueTypes, Decl[*cdecl.OpaqueType]{v, platforms, prov})
	case *cdecl.Variable:
		m.Variables = append(m.Variables, Decl[*cdecl.Variable]{v, platforms, prov})
	case *cdecl.MacroObject:
		m.MacroObjects = append(m.MacroObjects, Decl[*cdecl.MacroObject]{v, platforms, prov})
	}
}
