//go:build integration

package libclang_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/explorer"
	"github.com/ardanlabs/c2ffi/frontend/libclang"
	"github.com/ardanlabs/c2ffi/platform"
)

// Run with: go test -tags=integration ./frontend/libclang
// Requires libclang 13 and the clang resource headers.

func TestExploreDemoHeader(t *testing.T) {
	o := platform.New(libclang.New(), zaptest.NewLogger(t).Sugar())
	o.TempDir = t.TempDir()

	results, err := o.Run(context.Background(), platform.Request{
		Header:             "../../testdata/demo.h",
		ClangResourceRoots: []string{"/usr/lib/clang", "/usr/local/lib/clang"},
		Explorer: explorer.Options{
			PassThroughTypeNames: explorer.DefaultPassThroughTypeNames,
			IncludeVariables:     true,
			IncludeDanglingEnums: true,
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	ast := results[0].AST

	require.Contains(t, ast.Functions, "demo_open")
	open := ast.Functions["demo_open"]
	assert.Equal(t, "demo_ctx*", open.ReturnType.Name)
	require.Len(t, open.Parameters, 3)
	assert.Equal(t, cdecl.KindFunctionPointer, open.Parameters[1].Type.Kind)

	assert.True(t, ast.Functions["demo_log"].IsVariadic)
	assert.Contains(t, ast.OpaqueTypes, "demo_ctx")

	require.Contains(t, ast.Records, "demo_vec2")
	assert.Equal(t, 8, ast.Records["demo_vec2"].SizeOf)
	assert.True(t, ast.Records["demo_value"].IsUnion)

	require.Contains(t, ast.Records, "demo_event")
	event := ast.Records["demo_event"]
	require.Len(t, event.Fields, 3)
	assert.Equal(t, "", event.Fields[1].Name)
	assert.Equal(t, 4, event.Fields[1].OffsetOf)
	assert.Equal(t, "char[2][8]", event.Fields[2].Type.Name)
	require.Len(t, event.NestedRecords, 1)
	require.Contains(t, ast.Records, event.NestedRecords[0])
	assert.True(t, ast.Records[event.NestedRecords[0]].IsUnion)
	assert.Zero(t, event.Fields[0].PaddingOf)

	require.Contains(t, ast.Enums, "demo_color")
	assert.Equal(t, int64(5), ast.Enums["demo_color"].Values[2].Value)
	assert.Contains(t, ast.EnumConstants, "DEMO_FLAG_FAST")

	assert.Contains(t, ast.Variables, "demo_counter")

	require.Contains(t, ast.MacroObjects, "DEMO_VERSION")
	assert.Equal(t, "65540", ast.MacroObjects["DEMO_VERSION"].Value)
	assert.Equal(t, `"demo"`, ast.MacroObjects["DEMO_NAME"].Value)
	assert.NotContains(t, ast.MacroObjects, "DEMO_MAX")
}
