package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
	"github.com/ardanlabs/c2ffi/frontend/memory"
	"github.com/ardanlabs/c2ffi/merge"
)

const (
	header  = "/src/include/demo.h"
	linux   = "x86_64-unknown-linux-gnu"
	windows = "x86_64-pc-windows-msvc"
)

// demo parses a header declaring long demo_size(void) and MAX_COUNT. long is
// four bytes on windows. The failing platform reports a parse error.
func demo(failing string) *memory.Frontend {
	return &memory.Frontend{
		ParseFunc: func(ctx context.Context, path string, args []string) (*memory.Unit, error) {
			if filepath.Base(path) == "macros.c" {
				v := memory.Variable("variable_MAX_COUNT", memory.Int()).Evaluated(frontend.EvalResult{Kind: frontend.EvalInt, Int: 100})
				main := &memory.Cursor{CursorKind: frontend.CursorFunctionDecl, Name: "main", Kids: []*memory.Cursor{v}}
				return memory.TranslationUnit(main), nil
			}

			var target string
			for _, a := range args {
				if t, ok := strings.CutPrefix(a, "--target="); ok {
					target = t
				}
			}

			long := memory.Long()
			if target == windows {
				long = memory.Primitive(frontend.TypeLong, "long", 4)
			}

			u := memory.TranslationUnit(
				memory.Function("demo_size", long).At(header, 1, 6),
				memory.Macro("MAX_COUNT", "100").At(header, 2, 9),
			)
			if target == failing {
				u.Diags = []frontend.Diagnostic{
					{Severity: frontend.SeverityError, Message: "unknown type name", Formatted: "demo.h:3:1: error: unknown type name 'foo_t'"},
				}
			}
			return u, nil
		},
	}
}

func run(t *testing.T, fe frontend.Parser, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd(fe)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, demo(""), "extract", "--header", header, "-p", linux, "-p", windows, "-o", dir)
	require.NoError(t, err)

	ast, err := readAST(filepath.Join(dir, linux+".json"))
	require.NoError(t, err)
	assert.Equal(t, cdecl.Platform(linux), ast.Platform)
	require.Contains(t, ast.Functions, "demo_size")
	assert.Equal(t, 8, ast.Functions["demo_size"].ReturnType.SizeOf)
	assert.Equal(t, cdecl.KindPrimitive, ast.Functions["demo_size"].ReturnType.Kind)
	assert.Equal(t, "100", ast.MacroObjects["MAX_COUNT"].Value)

	ast, err = readAST(filepath.Join(dir, windows+".json"))
	require.NoError(t, err)
	assert.Equal(t, 4, ast.Functions["demo_size"].ReturnType.SizeOf)
}

func TestExtractKeepsSucceededPlatforms(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, demo(windows), "extract", "--header", header, "-p", linux, "-p", windows, "-o", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), windows)

	assert.FileExists(t, filepath.Join(dir, linux+".json"))
	assert.NoFileExists(t, filepath.Join(dir, windows+".json"))
}

func TestPrintErrorShowsDiagnostics(t *testing.T) {
	_, err := run(t, demo(windows), "extract", "--header", header, "-p", linux, "-p", windows, "-o", t.TempDir())
	require.Error(t, err)

	var out bytes.Buffer
	PrintError(&out, err)
	assert.Contains(t, out.String(), "error: ")
	assert.Contains(t, out.String(), "demo.h:3:1: error: unknown type name 'foo_t'")
}

func TestPrintErrorCombinedFailures(t *testing.T) {
	darwin := "aarch64-apple-darwin"
	fe := demo(windows)
	parse := fe.ParseFunc
	fe.ParseFunc = func(ctx context.Context, path string, args []string) (*memory.Unit, error) {
		u, err := parse(ctx, path, args)
		if err == nil && slices.Contains(args, "--target="+darwin) {
			u.Diags = []frontend.Diagnostic{
				{Severity: frontend.SeverityError, Message: "missing", Formatted: "demo.h:9:1: error: missing ';'"},
			}
		}
		return u, err
	}

	_, err := run(t, fe, "extract", "--header", header, "-p", windows, "-p", darwin, "-o", t.TempDir())
	require.Error(t, err)

	var out bytes.Buffer
	PrintError(&out, err)
	assert.Contains(t, out.String(), "unknown type name 'foo_t'")
	assert.Contains(t, out.String(), "missing ';'")
}

func TestExtractRequiresHeader(t *testing.T) {
	_, err := run(t, demo(""), "extract", "-p", linux, "-o", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header")
}

func TestExtractRejectsFormat(t *testing.T) {
	_, err := run(t, demo(""), "extract", "--header", header, "-p", linux, "--format", "xml", "-o", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestMerge(t *testing.T) {
	models := t.TempDir()
	_, err := run(t, demo(""), "extract", "--header", header, "-p", linux, "-p", windows, "--format", "yaml", "-o", models)
	require.NoError(t, err)

	out := t.TempDir()
	_, err = run(t, demo(""), "merge",
		filepath.Join(models, windows+".yaml"),
		filepath.Join(models, linux+".yaml"),
		"-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "model.json"))
	require.NoError(t, err)

	var model merge.Model
	require.NoError(t, json.Unmarshal(data, &model))

	assert.Equal(t, []cdecl.Platform{windows, linux}, model.Platforms)
	require.Len(t, model.Functions, 2)
	assert.Equal(t, []cdecl.Platform{windows}, model.Functions[0].Platforms)
	assert.Equal(t, 4, model.Functions[0].Node.ReturnType.SizeOf)
	require.Len(t, model.MacroObjects, 1)
	assert.Equal(t, model.Platforms, model.MacroObjects[0].Platforms)
	require.Len(t, model.Diagnostics, 1)
	assert.Equal(t, "demo_size", model.Diagnostics[0].Name)
}

func TestMergeRejectsBadModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"platform": "nowhere"}`), 0644))

	_, err := run(t, demo(""), "merge", path, "-o", t.TempDir())
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, demo(""), "generate", "--header", header, "-p", linux, "-p", windows,
		"--package", "demo", "-o", dir, "--save-model")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated: "+filepath.Join(dir, "loader.go"))

	for _, name := range []string{"loader.go", "consts.go", "functions_linux_amd64.go", "functions_windows_amd64.go", "model.json"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	loader, err := os.ReadFile(filepath.Join(dir, "loader.go"))
	require.NoError(t, err)
	assert.Contains(t, string(loader), "package demo")
	assert.Contains(t, string(loader), `"libdemo.so"`)

	consts, err := os.ReadFile(filepath.Join(dir, "consts.go"))
	require.NoError(t, err)
	assert.Contains(t, string(consts), "MaxCount = 100")

	linuxFuncs, err := os.ReadFile(filepath.Join(dir, "functions_linux_amd64.go"))
	require.NoError(t, err)
	assert.Contains(t, string(linuxFuncs), "func DemoSize() int64 {")

	windowsFuncs, err := os.ReadFile(filepath.Join(dir, "functions_windows_amd64.go"))
	require.NoError(t, err)
	assert.Contains(t, string(windowsFuncs), "func DemoSize() int32 {")
}

func TestGenerateFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "c2ffi.yaml")
	require.NoError(t, os.WriteFile(config, []byte(`
header: `+header+`
platforms: [`+linux+`]
output:
  package: demo
  library: demolib
`), 0644))

	out := filepath.Join(dir, "bindings")
	_, err := run(t, demo(""), "generate", "--config", config, "-o", out)
	require.NoError(t, err)

	loader, err := os.ReadFile(filepath.Join(out, "loader.go"))
	require.NoError(t, err)
	assert.Contains(t, string(loader), `"libdemolib.so"`)

	funcs, err := os.ReadFile(filepath.Join(out, "functions.go"))
	require.NoError(t, err)
	assert.Contains(t, string(funcs), "func DemoSize() int64 {")
	assert.NoFileExists(t, filepath.Join(out, "model.json"))
}

func TestGenerateFailsOnPlatformError(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, demo(windows), "generate", "--header", header, "-p", linux, "-p", windows, "-o", dir)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "loader.go"))
}

func TestBindFlagsOnlyOverridesWhenSet(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "c2ffi.yaml")
	require.NoError(t, os.WriteFile(config, []byte("output:\n  format: yaml\n"), 0644))

	_, err := run(t, demo(""), "extract", "--config", config, "--header", header, "-p", linux, "-o", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, linux+".yaml"))
}
