package cdecl

// Node is implemented by every declaration the explorer produces.
type Node interface {
	NodeKind() Kind
	NodeName() string
	NodeLocation() Location
}

type RecordField struct {
	Name      string   `json:"name" yaml:"name"`
	Type      TypeInfo `json:"type" yaml:"type"`
	OffsetOf  int      `json:"offset_of" yaml:"offset_of"`
	PaddingOf int      `json:"padding_of,omitempty" yaml:"padding_of,omitempty"`
}

// Record is a struct or a union.
type Record struct {
	Name                   string        `json:"name" yaml:"name"`
	Location               Location      `json:"location" yaml:"location"`
	IsUnion                bool          `json:"is_union,omitempty" yaml:"is_union,omitempty"`
	SizeOf                 int           `json:"size_of" yaml:"size_of"`
	AlignOf                int           `json:"align_of" yaml:"align_of"`
	Fields                 []RecordField `json:"fields" yaml:"fields"`
	NestedRecords          []string      `json:"nested_records,omitempty" yaml:"nested_records,omitempty"`
	NestedFunctionPointers []string      `json:"nested_function_pointers,omitempty" yaml:"nested_function_pointers,omitempty"`
}

func (r *Record) NodeKind() Kind {
	if r.IsUnion {
		return KindUnion
	}
	return KindStruct
}
func (r *Record) NodeName() string { return r.Name }
func (r *Record) NodeLocation() Location { return r.Location }

type EnumValue struct {
	Name  string `json:"name" yaml:"name"`
	Value int64  `json:"value" yaml:"value"`
}

type Enum struct {
	Name        string      `json:"name" yaml:"name"`
	Location    Location    `json:"location" yaml:"location"`
	SizeOf      int         `json:"size_of" yaml:"size_of"`
	IntegerType TypeInfo    `json:"integer_type" yaml:"integer_type"`
	Values      []EnumValue `json:"values" yaml:"values"`
}

func (e *Enum) NodeKind() Kind { return KindEnum }
func (e *Enum) NodeName() string { return e.Name }
func (e *Enum) NodeLocation() Location { return e.Location }

// EnumConstant is a constant of an anonymous enum that has no usable name.
type EnumConstant struct {
	Name     string   `json:"name" yaml:"name"`
	Location Location `json:"location" yaml:"location"`
	Type     TypeInfo `json:"type" yaml:"type"`
	Value    int64    `json:"value" yaml:"value"`
}

func (c *EnumConstant) NodeKind() Kind { return KindEnumConstant }
func (c *EnumConstant) NodeName() string { return c.Name }
func (c *EnumConstant) NodeLocation() Location { return c.Location }

type TypeAlias struct {
	Name           string   `json:"name" yaml:"name"`
	Location       Location `json:"location" yaml:"location"`
	UnderlyingType TypeInfo `json:"underlying_type" yaml:"underlying_type"`
}

func (a *TypeAlias) NodeKind() Kind { return KindTypeAlias }
func (a *TypeAlias) NodeName() string { return a.Name }
func (a *TypeAlias) NodeLocation() Location { return a.Location }

// OpaqueType is a type whose layout is unknown or intentionally hidden.
type OpaqueType struct {
	Name     string   `json:"name" yaml:"name"`
	Location Location `json:"location" yaml:"location"`
}

func (o *OpaqueType) NodeKind() Kind { return KindOpaqueType }
func (o *OpaqueType) NodeName() string { return o.Name }
func (o *OpaqueType) NodeLocation() Location { return o.Location }

type Parameter struct {
	Name string   `json:"name" yaml:"name"`
	Type TypeInfo `json:"type" yaml:"type"`
}

type Function struct {
	Name              string            `json:"name" yaml:"name"`
	Location          Location          `json:"location" yaml:"location"`
	CallingConvention CallingConvention `json:"calling_convention" yaml:"calling_convention"`
	ReturnType        TypeInfo          `json:"return_type" yaml:"return_type"`
	Parameters        []Parameter       `json:"parameters" yaml:"parameters"`
	IsVariadic        bool              `json:"is_variadic,omitempty" yaml:"is_variadic,omitempty"`
}

func (f *Function) NodeKind() Kind { return KindFunction }
func (f *Function) NodeName() string { return f.Name }
func (f *Function) NodeLocation() Location { return f.Location }

type FunctionPointer struct {
	Name              string            `json:"name" yaml:"name"`
	Location          Location          `json:"location" yaml:"location"`
	SizeOf            int               `json:"size_of" yaml:"size_of"`
	AlignOf           int               `json:"align_of" yaml:"align_of"`
	CallingConvention CallingConvention `json:"calling_convention" yaml:"calling_convention"`
	ReturnType        TypeInfo          `json:"return_type" yaml:"return_type"`
	Parameters        []Parameter       `json:"parameters" yaml:"parameters"`
	IsVariadic        bool              `json:"is_variadic,omitempty" yaml:"is_variadic,omitempty"`
}

func (f *FunctionPointer) NodeKind() Kind { return KindFunctionPointer }
func (f *FunctionPointer) NodeName() string { return f.Name }
func (f *FunctionPointer) NodeLocation() Location { return f.Location }

type Variable struct {
	Name     string   `json:"name" yaml:"name"`
	Location Location `json:"location" yaml:"location"`
	Type     TypeInfo `json:"type" yaml:"type"`
}

func (v *Variable) NodeKind() Kind { return KindVariable }
func (v *Variable) NodeName() string { return v.Name }
func (v *Variable) NodeLocation() Location { return v.Location }

// MacroObject is an object-like macro whose value was folded by the compiler.
type MacroObject struct {
	Name     string   `json:"name" yaml:"name"`
	Location Location `json:"location" yaml:"location"`
	Type     TypeInfo `json:"type" yaml:"type"`
	Value    string   `json:"value" yaml:"value"`
}

func (m *MacroObject) NodeKind() Kind { return KindMacroObject }
func (m *MacroObject) NodeName() string { return m.Name }
func (m *MacroObject) NodeLocation() Location { return m.Location }
