package libclang

import (
	"github.com/go-clang/clang-v13/clang"

	"github.com/ardanlabs/c2ffi/frontend"
)

var cursorKinds = map[clang.CursorKind]frontend.CursorKind{
	clang.Cursor_TranslationUnit:    frontend.CursorTranslationUnit,
	clang.Cursor_FunctionDecl:       frontend.CursorFunctionDecl,
	clang.Cursor_VarDecl:            frontend.CursorVarDecl,
	clang.Cursor_ParmDecl:           frontend.CursorParmDecl,
	clang.Cursor_StructDecl:         frontend.CursorStructDecl,
	clang.Cursor_UnionDecl:          frontend.CursorUnionDecl,
	clang.Cursor_FieldDecl:          frontend.CursorFieldDecl,
	clang.Cursor_EnumDecl:           frontend.CursorEnumDecl,
	clang.Cursor_EnumConstantDecl:   frontend.CursorEnumConstantDecl,
	clang.Cursor_TypedefDecl:        frontend.CursorTypedefDecl,
	clang.Cursor_MacroDefinition:    frontend.CursorMacroDefinition,
	clang.Cursor_MacroExpansion:     frontend.CursorMacroExpansion,
	clang.Cursor_InclusionDirective: frontend.CursorInclusionDirective,
	clang.Cursor_CompoundStmt:       frontend.CursorCompoundStmt,
	clang.Cursor_DeclStmt:           frontend.CursorDeclStmt,
}

func cursorKind(k clang.CursorKind) frontend.CursorKind {
	if fk, ok := cursorKinds[k]; ok {
		return fk
	}
	if k.IsInvalid() {
		return frontend.CursorInvalid
	}
	return frontend.CursorOther
}

var typeKinds = map[clang.TypeKind]frontend.TypeKind{
	clang.Type_Invalid:         frontend.TypeInvalid,
	clang.Type_Unexposed:       frontend.TypeUnexposed,
	clang.Type_Void:            frontend.TypeVoid,
	clang.Type_Bool:            frontend.TypeBool,
	clang.Type_Char_U:          frontend.TypeCharU,
	clang.Type_UChar:           frontend.TypeUChar,
	clang.Type_Char16:          frontend.TypeChar16,
	clang.Type_Char32:          frontend.TypeChar32,
	clang.Type_UShort:          frontend.TypeUShort,
	clang.Type_UInt:            frontend.TypeUInt,
	clang.Type_ULong:           frontend.TypeULong,
	clang.Type_ULongLong:       frontend.TypeULongLong,
	clang.Type_UInt128:         frontend.TypeUInt128,
	clang.Type_Char_S:          frontend.TypeCharS,
	clang.Type_SChar:           frontend.TypeSChar,
	clang.Type_WChar:           frontend.TypeWChar,
	clang.Type_Short:           frontend.TypeShort,
	clang.Type_Int:             frontend.TypeInt,
	clang.Type_Long:            frontend.TypeLong,
	clang.Type_LongLong:        frontend.TypeLongLong,
	clang.Type_Int128:          frontend.TypeInt128,
	clang.Type_Half:            frontend.TypeHalf,
	clang.Type_Float16:         frontend.TypeFloat16,
	clang.Type_Float:           frontend.TypeFloat,
	clang.Type_Double:          frontend.TypeDouble,
	clang.Type_LongDouble:      frontend.TypeLongDouble,
	clang.Type_Float128:        frontend.TypeFloat128,
	clang.Type_Pointer:         frontend.TypePointer,
	clang.Type_Record:          frontend.TypeRecord,
	clang.Type_Enum:            frontend.TypeEnum,
	clang.Type_Typedef:         frontend.TypeTypedef,
	clang.Type_FunctionNoProto: frontend.TypeFunctionNoProto,
	clang.Type_FunctionProto:   frontend.TypeFunctionProto,
	clang.Type_ConstantArray:   frontend.TypeConstantArray,
	clang.Type_IncompleteArray: frontend.TypeIncompleteArray,
	clang.Type_VariableArray:   frontend.TypeVariableArray,
	clang.Type_Elaborated:      frontend.TypeElaborated,
	clang.Type_Attributed:      frontend.TypeAttributed,
	clang.Type_BlockPointer:    frontend.TypeBlockPointer,
	clang.Type_Vector:          frontend.TypeVector,
	clang.Type_Complex:         frontend.TypeComplex,
}

func typeKind(k clang.TypeKind) frontend.TypeKind {
	if fk, ok := typeKinds[k]; ok {
		return fk
	}
	return frontend.TypeOther
}
