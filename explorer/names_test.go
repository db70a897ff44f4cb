package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
	"github.com/ardanlabs/c2ffi/frontend/memory"
)

func TestEnumNameFromConstants(t *testing.T) {
	tests := []struct {
		name      string
		constants []string
		want      string
		ok        bool
	}{
		{name: "shared suffix", constants: []string{"redColor", "greenColor", "blueColor"}, want: "Color", ok: true},
		{name: "shared prefix", constants: []string{"COLOR_RED", "COLOR_GREEN", "COLOR_BLUE"}, want: "COLOR", ok: true},
		{name: "prefix wins over suffix", constants: []string{"LOG_LEVEL_DEBUG", "LOG_LEVEL_INFO"}, want: "LOG_LEVEL", ok: true},
		{name: "nothing shared", constants: []string{"FOO", "BAR"}, ok: false},
		{name: "single constant", constants: []string{"ONLY_ONE"}, ok: false},
		{name: "no constants", constants: nil, ok: false},
		{name: "only underscores shared", constants: []string{"_A", "_B"}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EnumNameFromConstants(tt.constants)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFunctionPointerName(t *testing.T) {
	assert.Equal(t, "FnPtr_Int_CharPtr_Void", FunctionPointerName([]string{"int", "char*"}, "void"))
	assert.Equal(t, "FnPtr_Int", FunctionPointerName(nil, "int"))
	assert.Equal(t, "FnPtr_UnsignedLongLong_IntArray4_FooTPtrPtr", FunctionPointerName([]string{"unsigned long long", "int[4]"}, "foo_t**"))
}

func TestSignedIntegerName(t *testing.T) {
	tests := []struct {
		typ  *memory.Type
		want string
	}{
		{typ: memory.UInt(), want: "signed int"},
		{typ: memory.Int(), want: "signed int"},
		{typ: memory.UChar(), want: "signed char"},
		{typ: memory.Char(), want: "signed char"},
		{typ: memory.Short(), want: "signed short"},
		{typ: memory.ULong(), want: "signed long"},
		{typ: memory.Primitive(frontend.TypeULongLong, "unsigned long long", 8), want: "signed long long"},
		{typ: memory.Typedef("u32", memory.UInt()).Ty, want: "signed int"},
	}

	for _, tt := range tests {
		t.Run(tt.typ.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, signedIntegerName(tt.typ))
		})
	}
}

func TestAnonymousRecordName(t *testing.T) {
	parent := &Node{Kind: cdecl.KindStruct, Name: "outer"}
	alias := &Node{Kind: cdecl.KindTypeAlias, Name: "outer_t"}

	assert.Equal(t, "outer_t", anonymousRecordName(typeRef{parent: alias}, "struct (anonymous at a.h:1:9)"))
	assert.Equal(t, "outer_t_ANONYMOUS_FIELD0", anonymousRecordName(typeRef{parent: alias, depth: 1}, "struct (anonymous at a.h:1:9)"))
	assert.Equal(t, "outer_inner", anonymousRecordName(typeRef{parent: parent, field: "inner", index: 2}, "struct (unnamed at a.h:3:5)"))
	assert.Equal(t, "outer_UNNAMED_FIELD2", anonymousRecordName(typeRef{parent: parent, index: 2}, "union (unnamed at a.h:3:5)"))
	assert.Equal(t, "outer_ANONYMOUS_FIELD1", anonymousRecordName(typeRef{parent: parent, index: 1}, "union (anonymous at a.h:3:5)"))
	assert.Equal(t, "", anonymousRecordName(typeRef{}, "union (anonymous at a.h:3:5)"))
}

func TestComputePadding(t *testing.T) {
	field := func(offset int) cdecl.RecordField {
		return cdecl.RecordField{Type: cdecl.TypeInfo{Name: "int", Kind: cdecl.KindPrimitive, SizeOf: 4, AlignOf: 4}, OffsetOf: offset}
	}

	fields := []cdecl.RecordField{field(0), field(4), field(8), field(16)}
	computePadding(24, fields)

	var got []int
	for _, f := range fields {
		got = append(got, f.PaddingOf)
	}
	assert.Equal(t, []int{0, 0, 4, 4}, got)
}

func TestComputePaddingUnion(t *testing.T) {
	fields := []cdecl.RecordField{
		{Type: cdecl.TypeInfo{SizeOf: 8}},
		{Type: cdecl.TypeInfo{SizeOf: 4}},
	}
	computePadding(8, fields)

	assert.Equal(t, 0, fields[0].PaddingOf)
	assert.Equal(t, 4, fields[1].PaddingOf)
}

func TestResolverPath(t *testing.T) {
	r := NewResolver(
		[]string{"/opt/sdk/include", "/work/include"},
		map[string]string{"/tmp/fw123/Metal": "/Library/Frameworks/Metal.framework/Headers"},
	)

	tests := []struct {
		in   string
		want string
	}{
		{in: "/work/include/demo/demo.h", want: "demo/demo.h"},
		{in: "/opt/sdk/include/sdk.h", want: "sdk.h"},
		{in: "/elsewhere/x.h", want: "/elsewhere/x.h"},
		{in: "/tmp/fw123/Metal/MTLDevice.h", want: "/Library/Frameworks/Metal.framework/Headers/MTLDevice.h"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Path(tt.in))
		})
	}

	assert.Equal(t, cdecl.Location{}, r.Location(frontend.Location{}))
	assert.Equal(t, cdecl.Location{File: "a.h", Line: 3, Column: 7}, r.Location(frontend.Location{File: "/work/include/a.h", Line: 3, Column: 7}))
}

func TestResolverBlocked(t *testing.T) {
	r := NewResolver([]string{"/work/include"}, nil)

	assert.True(t, r.Blocked("/work/include/private/impl.h", []string{"private/impl.h"}))
	assert.True(t, r.Blocked("/work/include/private/impl.h", []string{"impl.h"}))
	assert.True(t, r.Blocked("/work/include/private/impl.h", []string{"/work/include/private/impl.h"}))
	assert.False(t, r.Blocked("/work/include/public.h", []string{"impl.h"}))
	assert.False(t, r.Blocked("", []string{"impl.h"}))
}
