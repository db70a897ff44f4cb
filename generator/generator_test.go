package generator

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/merge"
)

const (
	linux   = cdecl.Platform("x86_64-unknown-linux-gnu")
	windows = cdecl.Platform("x86_64-pc-windows-msvc")
	win32   = cdecl.Platform("i686-pc-windows-msvc")
)

func primitive(name string, size int) cdecl.TypeInfo {
	return cdecl.TypeInfo{Name: name, Kind: cdecl.KindPrimitive, SizeOf: size, AlignOf: size}
}

func pointerTo(inner cdecl.TypeInfo) cdecl.TypeInfo {
	return cdecl.TypeInfo{Name: inner.Name + "*", Kind: cdecl.KindPointer, SizeOf: 8, AlignOf: 8, InnerType: &inner}
}

// library declares the demo library as one platform sees it. The size of
// long is the only difference between platforms.
func library(t *testing.T, p cdecl.Platform, longSize int) *cdecl.AST {
	t.Helper()

	ast := cdecl.NewAST(p)
	add := func(n cdecl.Node) {
		require.NoError(t, ast.Add(n))
	}

	vec2 := cdecl.TypeInfo{Name: "vec2", Kind: cdecl.KindStruct, SizeOf: 8, AlignOf: 4}
	add(&cdecl.Record{
		Name:    "vec2",
		SizeOf:  8,
		AlignOf: 4,
		Fields: []cdecl.RecordField{
			{Name: "x", Type: primitive("float", 4)},
			{Name: "y", Type: primitive("float", 4), OffsetOf: 4},
		},
	})
	add(&cdecl.Record{
		Name:    "value",
		IsUnion: true,
		SizeOf:  8,
		AlignOf: 8,
		Fields: []cdecl.RecordField{
			{Name: "i", Type: primitive("int", 4)},
			{Name: "d", Type: primitive("double", 8)},
		},
	})
	add(&cdecl.Record{
		Name:    "sample",
		SizeOf:  2 * longSize,
		AlignOf: longSize,
		Fields: []cdecl.RecordField{
			{Name: "id", Type: primitive("int", 4), PaddingOf: longSize - 4},
			{Name: "ticks", Type: primitive("long", longSize), OffsetOf: longSize},
		},
	})
	add(&cdecl.OpaqueType{Name: "ctx_t"})
	add(&cdecl.Enum{
		Name:        "COLOR",
		SizeOf:      4,
		IntegerType: primitive("signed int", 4),
		Values:      []cdecl.EnumValue{{Name: "RED", Value: 0}, {Name: "GREEN", Value: 1}},
	})

	add(&cdecl.Function{
		Name:       "ctx_open",
		ReturnType: pointerTo(cdecl.TypeInfo{Name: "ctx_t", Kind: cdecl.KindOpaqueType}),
		Parameters: []cdecl.Parameter{{Name: "path", Type: pointerTo(primitive("char", 1))}},
	})
	add(&cdecl.Function{
		Name:       "length",
		ReturnType: primitive("double", 8),
		Parameters: []cdecl.Parameter{{Name: "v", Type: vec2}},
	})
	add(&cdecl.Function{
		Name:       "is_ready",
		ReturnType: primitive("_Bool", 1),
	})
	add(&cdecl.Function{
		Name:       "log_msg",
		ReturnType: primitive("void", 0),
		Parameters: []cdecl.Parameter{{Name: "fmt", Type: pointerTo(primitive("char", 1))}},
		IsVariadic: true,
	})
	add(&cdecl.Variable{Name: "counter", Type: primitive("int", 4)})
	add(&cdecl.MacroObject{Name: "MAX_COUNT", Type: primitive("int", 4), Value: "100"})
	add(&cdecl.MacroObject{Name: "GREETING", Type: pointerTo(primitive("char", 1)), Value: `"hi"`})

	if p == windows {
		add(&cdecl.Function{
			Name:              "GetTickCount",
			CallingConvention: cdecl.CallingConventionStdCall,
			ReturnType:        primitive("unsigned long", 4),
		})
	}

	return ast
}

func model(t *testing.T, asts ...*cdecl.AST) *merge.Model {
	t.Helper()
	m, err := merge.New(nil).Merge(asts...)
	require.NoError(t, err)
	return m
}

func TestGenerate(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	g := New("demo", "demo", model(t, library(t, linux, 8), library(t, windows, 4)), zap.New(core).Sugar())
	files, err := g.Generate()
	require.NoError(t, err)

	for _, name := range []string{"loader.go", "types.go", "consts.go", "functions.go", "types_linux_amd64.go", "types_windows_amd64.go", "functions_windows_amd64.go"} {
		assert.Contains(t, files, name)
	}
	assert.NotContains(t, files, "functions_linux_amd64.go")

	loader := files["loader.go"]
	assert.Contains(t, loader, "package demo")
	assert.Contains(t, loader, `filename = "libdemo.so"`)
	assert.Contains(t, loader, `filename = "demo.dll"`)
	assert.NotContains(t, loader, "prepAbi")

	types := files["types.go"]
	assert.Contains(t, types, "// Code generated by c2ffi. DO NOT EDIT.")
	assert.NotContains(t, types, "//go:build")
	assert.Contains(t, types, "type CtxT uintptr")
	assert.Contains(t, types, "type Vec2 struct {")
	assert.Contains(t, types, "var FFITypeVec2 = ffi.NewType(")
	assert.Contains(t, types, "type Value [1]uint64")
	assert.Contains(t, types, "type Color int32")
	assert.Regexp(t, `Red\s+Color = 0`, types)
	assert.Regexp(t, `Green\s+Color = 1`, types)
	assert.NotContains(t, types, "type Sample")
	assert.NotContains(t, types, "golang.org/x/sys/unix")

	linuxTypes := files["types_linux_amd64.go"]
	assert.Contains(t, linuxTypes, "//go:build linux && amd64")
	assert.Contains(t, linuxTypes, "type Sample struct {")
	assert.Regexp(t, `Ticks\s+int64`, linuxTypes)
	assert.Contains(t, linuxTypes, "&ffi.TypeSint64,")

	windowsTypes := files["types_windows_amd64.go"]
	assert.Contains(t, windowsTypes, "//go:build windows && amd64")
	assert.Regexp(t, `Ticks\s+int32`, windowsTypes)

	consts := files["consts.go"]
	assert.Regexp(t, `MaxCount\s+= 100`, consts)
	assert.Regexp(t, `Greeting\s+= "hi"`, consts)

	funcs := files["functions.go"]
	assert.Contains(t, funcs, "loaders = append(loaders, loadFuncs)")
	assert.Contains(t, funcs, `if ctxOpenFunc, err = prep("ctx_open", &ffi.TypePointer, &ffi.TypePointer); err != nil {`)
	assert.Contains(t, funcs, "func CtxOpen(path string) CtxT {")
	assert.Contains(t, funcs, "pathPtr, _ := unix.BytePtrFromString(path)")
	assert.Contains(t, funcs, "ctxOpenFunc.Call(unsafe.Pointer(&result), unsafe.Pointer(&pathPtr))")
	assert.Contains(t, funcs, `prep("length", &ffi.TypeDouble, &FFITypeVec2)`)
	assert.Contains(t, funcs, "func Length(v Vec2) float64 {")
	assert.Contains(t, funcs, "func IsReady() bool {")
	assert.Contains(t, funcs, "return result.Bool()")
	assert.Contains(t, funcs, `symbol("counter")`)
	assert.Contains(t, funcs, "func Counter() *int32 {")
	assert.NotContains(t, funcs, "LogMsg")
	assert.NotContains(t, funcs, "GetTickCount")

	winFuncs := files["functions_windows_amd64.go"]
	assert.Contains(t, winFuncs, "loaders = append(loaders, loadFuncsWindowsAmd64)")
	assert.Contains(t, winFuncs, `prep("GetTickCount", &ffi.TypeUint32)`)
	assert.Contains(t, winFuncs, "func GetTickCount() uint32 {")
	assert.Contains(t, winFuncs, "return uint32(result)")

	skipped := logs.FilterMessage("declaration not bound").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, "log_msg", skipped[0].ContextMap()["name"])
}

func TestGenerateCallingConvention(t *testing.T) {
	beep := func(p cdecl.Platform) *cdecl.AST {
		ast := cdecl.NewAST(p)
		require.NoError(t, ast.Add(&cdecl.Function{
			Name:              "Beep",
			CallingConvention: cdecl.CallingConventionStdCall,
			ReturnType:        primitive("int", 4),
			Parameters: []cdecl.Parameter{
				{Name: "freq", Type: primitive("unsigned int", 4)},
				{Name: "duration", Type: primitive("unsigned int", 4)},
			},
		}))
		return ast
	}

	files, err := New("win", "kernel32", model(t, beep(win32), beep(windows)), nil).Generate()
	require.NoError(t, err)

	assert.NotContains(t, files, "functions.go")
	assert.Contains(t, files["functions_windows_386.go"], `prepAbi(ffi.Stdcall, "Beep", &ffi.TypeSint32, &ffi.TypeUint32, &ffi.TypeUint32)`)
	assert.Contains(t, files["functions_windows_amd64.go"], `prep("Beep", &ffi.TypeSint32, &ffi.TypeUint32, &ffi.TypeUint32)`)
	assert.Contains(t, files["functions_windows_amd64.go"], "func Beep(freq uint32, duration uint32) int32 {")
	assert.Contains(t, files["loader.go"], "func prepAbi(abi ffi.Abi")
}

func TestGenerateValidation(t *testing.T) {
	m := model(t, cdecl.NewAST(linux))

	_, err := New("func", "demo", m, nil).Generate()
	assert.Error(t, err)

	_, err = New("demo", "", m, nil).Generate()
	assert.Error(t, err)

	_, err = New("demo", "demo", nil, nil).Generate()
	assert.Error(t, err)

	files, err := New("demo", "demo", m, nil).Generate()
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Contains(t, files, "loader.go")
}

func TestToGoName(t *testing.T) {
	tests := map[string]string{
		"ctx_open":       "CtxOpen",
		"MAX_COUNT":      "MaxCount",
		"vec2":           "Vec2",
		"user_id":        "UserID",
		"http_url":       "HTTPURL",
		"CalcConfig":     "CalcConfig",
		"FnPtr_Int_Void": "FnPtrIntVoid",
		"_private":       "Private",
		"2d_point":       "X2dPoint",
	}

	for in, want := range tests {
		assert.Equal(t, want, toGoName(in), in)
	}
}

func TestParamNames(t *testing.T) {
	params := []cdecl.Parameter{
		{Name: "type"},
		{Name: ""},
		{Name: "len"},
		{Name: "result"},
		{Name: "buf_size"},
		{Name: "BufSize"},
	}

	assert.Equal(t, []string{"type_", "arg1", "len_", "result_", "bufSize", "bufSize_"}, paramNames(params))
}

func TestNamerCollisions(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	n := newNamer(zap.New(core).Sugar())

	assert.Equal(t, "Vec2", n.typeName("vec2"))
	assert.Equal(t, "Vec2_", n.ident(cdecl.ClassFunction, "vec2"))
	assert.Equal(t, "Vec2", n.typeName("vec2"))
	assert.Equal(t, "Load_", n.ident(cdecl.ClassFunction, "load"))
	assert.Equal(t, 2, logs.FilterMessage("renamed colliding Go identifier").Len())
}

func TestGoType(t *testing.T) {
	g := New("demo", "demo", &merge.Model{}, nil)
	four := 4

	tests := []struct {
		name string
		in   cdecl.TypeInfo
		use  usage
		want string
		ffi  string
	}{
		{name: "int", in: primitive("int", 4), use: useParam, want: "int32", ffi: "&ffi.TypeSint32"},
		{name: "unsigned long", in: primitive("unsigned long", 8), use: useParam, want: "uint64", ffi: "&ffi.TypeUint64"},
		{name: "size_t", in: primitive("size_t", 8), use: useParam, want: "uint64", ffi: "&ffi.TypeUint64"},
		{name: "uint16_t", in: primitive("uint16_t", 2), use: useParam, want: "uint16", ffi: "&ffi.TypeUint16"},
		{name: "float", in: primitive("float", 4), use: useParam, want: "float32", ffi: "&ffi.TypeFloat"},
		{name: "bool", in: primitive("_Bool", 1), use: useParam, want: "bool", ffi: "&ffi.TypeUint8"},
		{name: "string param", in: pointerTo(primitive("char", 1)), use: useParam, want: "string", ffi: "&ffi.TypePointer"},
		{name: "string field", in: pointerTo(primitive("char", 1)), use: useField, want: "*byte", ffi: "&ffi.TypePointer"},
		{name: "record pointer", in: pointerTo(cdecl.TypeInfo{Name: "vec2", Kind: cdecl.KindStruct}), use: useParam, want: "*Vec2", ffi: "&ffi.TypePointer"},
		{name: "void pointer", in: pointerTo(primitive("void", 0)), use: useParam, want: "uintptr", ffi: "&ffi.TypePointer"},
		{name: "enum", in: cdecl.TypeInfo{Name: "COLOR", Kind: cdecl.KindEnum, SizeOf: 4}, use: useParam, want: "Color", ffi: "&ffi.TypeSint32"},
		{
			name: "array field",
			in:   cdecl.TypeInfo{Name: "int[4]", Kind: cdecl.KindArray, ArraySizeOf: &four, InnerType: &cdecl.TypeInfo{Name: "int", Kind: cdecl.KindPrimitive, SizeOf: 4}},
			use:  useField,
			want: "[4]int32",
			ffi:  "&ffi.TypePointer",
		},
		{
			name: "alias",
			in:   cdecl.TypeInfo{Name: "level", Kind: cdecl.KindTypeAlias, SizeOf: 1, InnerType: &cdecl.TypeInfo{Name: "unsigned char", Kind: cdecl.KindPrimitive, SizeOf: 1}},
			use:  useParam,
			want: "Level",
			ffi:  "&ffi.TypeUint8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.goType(tt.in, tt.use)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			ffiType, err := g.ffiType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.ffi, ffiType)
		})
	}

	_, err := g.goType(primitive("long double", 16), useParam)
	assert.True(t, errors.Is(err, cdecl.ErrUnsupportedType))
}

func TestFFIElements(t *testing.T) {
	g := New("demo", "demo", &merge.Model{}, nil)
	two, three := 2, 3

	row := cdecl.TypeInfo{Kind: cdecl.KindArray, ArraySizeOf: &two, InnerType: &cdecl.TypeInfo{Name: "float", Kind: cdecl.KindPrimitive, SizeOf: 4}}
	matrix := cdecl.TypeInfo{Kind: cdecl.KindArray, ArraySizeOf: &three, InnerType: &row}

	els, err := g.ffiElements(matrix)
	require.NoError(t, err)
	assert.Len(t, els, 6)
	assert.Equal(t, "&ffi.TypeFloat", els[5])
}
