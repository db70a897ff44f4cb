package cdecl

import (
	"maps"
	"slices"

	"github.com/cockroachdb/errors"
)

// AST is the flat, name keyed declaration set produced for one platform.
type AST struct {
	Platform         Platform                    `json:"platform" yaml:"platform"`
	Functions        map[string]*Function        `json:"functions" yaml:"functions"`
	FunctionPointers map[string]*FunctionPointer `json:"function_pointers" yaml:"function_pointers"`
	Records          map[string]*Record          `json:"records" yaml:"records"`
	Enums            map[string]*Enum            `json:"enums" yaml:"enums"`
	EnumConstants    map[string]*EnumConstant    `json:"enum_constants" yaml:"enum_constants"`
	TypeAliases      map[string]*TypeAlias       `json:"type_aliases" yaml:"type_aliases"`
	OpaqueTypes      map[string]*OpaqueType      `json:"opaque_types" yaml:"opaque_types"`
	Variables        map[string]*Variable        `json:"variables" yaml:"variables"`
	MacroObjects     map[string]*MacroObject     `json:"macro_objects" yaml:"macro_objects"`
}

func NewAST(platform Platform) *AST {
	return &AST{
		Platform:         platform,
		Functions:        make(map[string]*Function),
		FunctionPointers: make(map[string]*FunctionPointer),
		Records:          make(map[string]*Record),
		Enums:            make(map[string]*Enum),
		EnumConstants:    make(map[string]*EnumConstant),
		TypeAliases:      make(map[string]*TypeAlias),
		OpaqueTypes:      make(map[string]*OpaqueType),
		Variables:        make(map[string]*Variable),
		MacroObjects:     make(map[string]*MacroObject),
	}
}

// ErrDuplicate is returned by Add when a name is already taken within its
// class.
var ErrDuplicate = errors.New("duplicate declaration")

// Add inserts a node. A record replaces an opaque type of the same name; any
// other collision inside a class is ErrDuplicate.
func (a *AST) Add(n Node) error {
	name := n.NodeName()
	if existing := a.Lookup(n.NodeKind().Class(), name); existing != nil {
		_, wasOpaque := existing.(*OpaqueType)
		_, isRecord := n.(*Record)
		if !wasOpaque || !isRecord {
			return errors.Mark(errors.Newf("%s %q already declared as %s at %s",
				n.NodeKind(), name, existing.NodeKind(), existing.NodeLocation()), ErrDuplicate)
		}
		delete(a.OpaqueTypes, name)
	}

	switch v := n.(type) {
	case *Function:
		a.Functions[name] = v
	case *FunctionPointer:
		a.FunctionPointers[name] = v
	case *Record:
		a.Records[name] = v
	case *Enum:
		a.Enums[name] = v
	case *EnumConstant:
		a.EnumConstants[name] = v
	case *TypeAlias:
		a.TypeAliases[name] = v
	case *OpaqueType:
		a.OpaqueTypes[name] = v
	case *Variable:
		a.Variables[name] = v
	case *MacroObject:
		a.MacroObjects[name] = v
	default:
		return errors.AssertionFailedf("unexpected node type %T", n)
	}
	return nil
}

// Lookup finds the declaration named name in the given class, or nil.
func (a *AST) Lookup(class Class, name string) Node {
	switch class {
	case ClassFunction:
		if v, ok := a.Functions[name]; ok {
			return v
		}
	case ClassVariable:
		if v, ok := a.Variables[name]; ok {
			return v
		}
	case ClassConstant:
		if v, ok := a.EnumConstants[name]; ok {
			return v
		}
		if v, ok := a.MacroObjects[name]; ok {
			return v
		}
	default:
		if v, ok := a.Records[name]; ok {
			return v
		}
		if v, ok := a.Enums[name]; ok {
			return v
		}
		if v, ok := a.TypeAliases[name]; ok {
			return v
		}
		if v, ok := a.OpaqueTypes[name]; ok {
			return v
		}
		if v, ok := a.FunctionPointers[name]; ok {
			return v
		}
	}
	return nil
}

// Nodes returns every declaration ordered by class, then name.
func (a *AST) Nodes() []Node {
	var out []Node
	out = appendSorted(out, a.Functions)
	out = appendSorted(out, a.Variables)
	out = appendSorted(out, a.Records)
	out = appendSorted(out, a.Enums)
	out = appendSorted(out, a.TypeAliases)
	out = appendSorted(out, a.OpaqueTypes)
	out = appendSorted(out, a.FunctionPointers)
	out = appendSorted(out, a.EnumConstants)
	out = appendSorted(out, a.MacroObjects)
	return out
}

func (a *AST) Len() int {
	return len(a.Functions) + len(a.FunctionPointers) + len(a.Records) + len(a.Enums) +
		len(a.EnumConstants) + len(a.TypeAliases) + len(a.OpaqueTypes) + len(a.Variables) +
		len(a.MacroObjects)
}

// SortedNames returns the keys of m in ascending order.
func SortedNames[T any](m map[string]T) []string {
	return slices.Sorted(maps.Keys(m))
}

func appendSorted[T Node](out []Node, m map[string]T) []Node {
	for _, name := range SortedNames(m) {
		out = append(out, m[name])
	}
	return out
}
