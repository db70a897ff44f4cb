package frontend

type CursorKind int

const (
	CursorInvalid CursorKind = iota
	CursorTranslationUnit
	CursorFunctionDecl
	CursorVarDecl
	CursorParmDecl
	CursorStructDecl
	CursorUnionDecl
	CursorFieldDecl
	CursorEnumDecl
	CursorEnumConstantDecl
	CursorTypedefDecl
	CursorMacroDefinition
	CursorMacroExpansion
	CursorInclusionDirective
	CursorCompoundStmt
	CursorDeclStmt
	CursorOther
)

var cursorKindNames = [...]string{
	CursorInvalid:            "Invalid",
	CursorTranslationUnit:    "TranslationUnit",
	CursorFunctionDecl:       "FunctionDecl",
	CursorVarDecl:            "VarDecl",
	CursorParmDecl:           "ParmDecl",
	CursorStructDecl:         "StructDecl",
	CursorUnionDecl:          "UnionDecl",
	CursorFieldDecl:          "FieldDecl",
	CursorEnumDecl:           "EnumDecl",
	CursorEnumConstantDecl:   "EnumConstantDecl",
	CursorTypedefDecl:        "TypedefDecl",
	CursorMacroDefinition:    "MacroDefinition",
	CursorMacroExpansion:     "MacroExpansion",
	CursorInclusionDirective: "InclusionDirective",
	CursorCompoundStmt:       "CompoundStmt",
	CursorDeclStmt:           "DeclStmt",
	CursorOther:              "Other",
}

func (k CursorKind) String() string {
	if k >= 0 && int(k) < len(cursorKindNames) {
		return cursorKindNames[k]
	}
	return "Other"
}

type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeUnexposed
	TypeVoid
	TypeBool
	TypeCharU
	TypeUChar
	TypeChar16
	TypeChar32
	TypeUShort
	TypeUInt
	TypeULong
	TypeULongLong
	TypeUInt128
	TypeCharS
	TypeSChar
	TypeWChar
	TypeShort
	TypeInt
	TypeLong
	TypeLongLong
	TypeInt128
	TypeHalf
	TypeFloat16
	TypeFloat
	TypeDouble
	TypeLongDouble
	TypeFloat128
	TypePointer
	TypeRecord
	TypeEnum
	TypeTypedef
	TypeFunctionNoProto
	TypeFunctionProto
	TypeConstantArray
	TypeIncompleteArray
	TypeVariableArray
	TypeElaborated
	TypeAttributed
	TypeBlockPointer
	TypeVector
	TypeComplex
	TypeOther
)

var typeKindNames = [...]string{
	TypeInvalid:         "Invalid",
	TypeUnexposed:       "Unexposed",
	TypeVoid:            "Void",
	TypeBool:            "Bool",
	TypeCharU:           "Char_U",
	TypeUChar:           "UChar",
	TypeChar16:          "Char16",
	TypeChar32:          "Char32",
	TypeUShort:          "UShort",
	TypeUInt:            "UInt",
	TypeULong:           "ULong",
	TypeULongLong:       "ULongLong",
	TypeUInt128:         "UInt128",
	TypeCharS:           "Char_S",
	TypeSChar:           "SChar",
	TypeWChar:           "WChar",
	TypeShort:           "Short",
	TypeInt:             "Int",
	TypeLong:            "Long",
	TypeLongLong:        "LongLong",
	TypeInt128:          "Int128",
	TypeHalf:            "Half",
	TypeFloat16:         "Float16",
	TypeFloat:           "Float",
	TypeDouble:          "Double",
	TypeLongDouble:      "LongDouble",
	TypeFloat128:        "Float128",
	TypePointer:         "Pointer",
	TypeRecord:          "Record",
	TypeEnum:            "Enum",
	TypeTypedef:         "Typedef",
	TypeFunctionNoProto: "FunctionNoProto",
	TypeFunctionProto:   "FunctionProto",
	TypeConstantArray:   "ConstantArray",
	TypeIncompleteArray: "IncompleteArray",
	TypeVariableArray:   "VariableArray",
	TypeElaborated:      "Elaborated",
	TypeAttributed:      "Attributed",
	TypeBlockPointer:    "BlockPointer",
	TypeVector:          "Vector",
	TypeComplex:         "Complex",
	TypeOther:           "Other",
}

func (k TypeKind) String() string {
	if k >= 0 && int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "Other"
}

// IsPrimitive reports whether the kind is void, bool, or a builtin integer or
// floating type.
func (k TypeKind) IsPrimitive() bool {
	return k >= TypeVoid && k <= TypeFloat128
}

// IsUnsigned reports whether the kind is an unsigned builtin integer.
func (k TypeKind) IsUnsigned() bool {
	switch k {
	case TypeBool, TypeCharU, TypeUChar, TypeChar16, TypeChar32, TypeUShort,
		TypeUInt, TypeULong, TypeULongLong, TypeUInt128:
		return true
	}
	return false
}

func (k TypeKind) IsInteger() bool {
	return k >= TypeCharU && k <= TypeInt128 || k == TypeBool
}

func (k TypeKind) IsFloating() bool {
	return k >= TypeHalf && k <= TypeFloat128
}

func (k TypeKind) IsFunction() bool {
	return k == TypeFunctionProto || k == TypeFunctionNoProto
}
