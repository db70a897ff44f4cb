package explorer

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
	"github.com/ardanlabs/c2ffi/frontend/memory"
)

func TestClassify(t *testing.T) {
	point := memory.Struct("point", 8, 4, memory.Field("x", memory.Int(), 0), memory.Field("y", memory.Int(), 4))
	value := memory.Union("value", 8, 8, memory.Field("i", memory.Long(), 0), memory.Field("d", memory.Double(), 0))
	handle := memory.ForwardStruct("handle")
	color := memory.Enum("color", memory.UInt(), memory.EnumConstant("RED", 0))
	fn := memory.FunctionType(memory.Void(), memory.Int())

	tests := []struct {
		name     string
		typ      frontend.Type
		parent   cdecl.Kind
		want     cdecl.Kind
		wantType frontend.TypeKind
	}{
		{name: "int", typ: memory.Int(), want: cdecl.KindPrimitive, wantType: frontend.TypeInt},
		{name: "void", typ: memory.Void(), want: cdecl.KindPrimitive, wantType: frontend.TypeVoid},
		{name: "struct", typ: memory.Elaborated(point), want: cdecl.KindStruct, wantType: frontend.TypeRecord},
		{name: "union", typ: value.Ty, want: cdecl.KindUnion, wantType: frontend.TypeRecord},
		{name: "forward declaration", typ: memory.Elaborated(handle), want: cdecl.KindOpaqueType, wantType: frontend.TypeRecord},
		{name: "enum", typ: memory.Elaborated(color), want: cdecl.KindEnum, wantType: frontend.TypeEnum},
		{name: "pointer", typ: memory.PointerTo(memory.Char()), want: cdecl.KindPointer, wantType: frontend.TypePointer},
		{name: "function pointer", typ: memory.PointerTo(fn), want: cdecl.KindFunctionPointer, wantType: frontend.TypeFunctionProto},
		{name: "attributed function pointer", typ: memory.PointerTo(memory.Attributed(fn)), want: cdecl.KindFunctionPointer, wantType: frontend.TypeFunctionProto},
		{name: "parenthesized function pointer", typ: memory.PointerTo(memory.Unexposed(fn)), want: cdecl.KindFunctionPointer, wantType: frontend.TypeFunctionProto},
		{name: "function", typ: fn, want: cdecl.KindFunction, wantType: frontend.TypeFunctionProto},
		{name: "function under alias", typ: fn, parent: cdecl.KindTypeAlias, want: cdecl.KindFunctionPointer, wantType: frontend.TypeFunctionProto},
		{name: "array", typ: memory.ArrayOf(memory.Int(), 4), want: cdecl.KindArray, wantType: frontend.TypeConstantArray},
		{name: "flexible array", typ: memory.IncompleteArrayOf(memory.Char()), want: cdecl.KindArray, wantType: frontend.TypeIncompleteArray},
		{name: "unexposed", typ: memory.Unexposed(memory.Double()), want: cdecl.KindPrimitive, wantType: frontend.TypeDouble},
		{name: "attributed", typ: memory.Attributed(memory.Elaborated(point)), want: cdecl.KindStruct, wantType: frontend.TypeRecord},
		{name: "typedef of struct", typ: memory.Typedef("point_t", memory.Elaborated(point)).Ty, want: cdecl.KindTypeAlias, wantType: frontend.TypeTypedef},
		{name: "typedef of pointer", typ: memory.Typedef("handle_t", memory.PointerTo(memory.Elaborated(handle))).Ty, want: cdecl.KindTypeAlias, wantType: frontend.TypeTypedef},
		{name: "typedef of forward declaration", typ: memory.Typedef("handle_t", memory.Elaborated(handle)).Ty, want: cdecl.KindOpaqueType, wantType: frontend.TypeTypedef},
		{name: "typedef of function", typ: memory.Typedef("fn_t", fn).Ty, want: cdecl.KindTypeAlias, wantType: frontend.TypeTypedef},
		{name: "pass-through typedef", typ: memory.Typedef("size_t", memory.ULong()).Ty, want: cdecl.KindPrimitive, wantType: frontend.TypeTypedef},
		{name: "forced opaque typedef", typ: memory.Typedef("secret_t", memory.Elaborated(point)).Ty, want: cdecl.KindOpaqueType, wantType: frontend.TypeTypedef},
		{name: "forced opaque struct", typ: memory.Elaborated(memory.Struct("secret", 4, 4, memory.Field("k", memory.Int(), 0))), want: cdecl.KindOpaqueType, wantType: frontend.TypeRecord},
	}

	cl := NewClassifier([]string{"secret_t", "secret"}, []string{"size_t"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, resolved, err := cl.Classify(tt.typ, tt.parent)
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
			assert.Equal(t, tt.wantType, resolved.Kind())
		})
	}
}

func TestClassifyUnsupported(t *testing.T) {
	cl := NewClassifier(nil, nil)

	for _, typ := range []*memory.Type{
		{TypeKind: frontend.TypeVector, Name: "float4", Size: 16, Align: 16},
		{TypeKind: frontend.TypeBlockPointer, Name: "void (^)(void)", Size: 8, Align: 8},
		{TypeKind: frontend.TypeInvalid},
	} {
		t.Run(typ.TypeKind.String(), func(t *testing.T) {
			_, _, err := cl.Classify(typ, cdecl.KindUnknown)
			require.Error(t, err)
			assert.True(t, errors.Is(err, cdecl.ErrUnsupportedType))
		})
	}
}

func TestClassifyUnsupportedInsideTypedef(t *testing.T) {
	cl := NewClassifier(nil, nil)
	vec := &memory.Type{TypeKind: frontend.TypeVector, Name: "float4", Size: 16, Align: 16}

	_, _, err := cl.Classify(memory.Typedef("float4_t", vec).Ty, cdecl.KindUnknown)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cdecl.ErrUnsupportedType))
	assert.Contains(t, err.Error(), "float4_t")
}
