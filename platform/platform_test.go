package platform

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/explorer"
	"github.com/ardanlabs/c2ffi/frontend"
	"github.com/ardanlabs/c2ffi/frontend/memory"
)

const (
	header  = "/src/include/demo.h"
	linux   = cdecl.Platform("x86_64-unknown-linux-gnu")
	windows = cdecl.Platform("x86_64-pc-windows-msvc")
	darwin  = cdecl.Platform("aarch64-apple-darwin")
)

func target(args []string) cdecl.Platform {
	for _, a := range args {
		if t, ok := strings.CutPrefix(a, "--target="); ok {
			return cdecl.Platform(t)
		}
	}
	return ""
}

// demo answers the header with a long sized differently per platform, and
// the macro translation unit with a folded MAX_COUNT.
func demo(failing cdecl.Platform) *memory.Frontend {
	return &memory.Frontend{
		ParseFunc: func(ctx context.Context, path string, args []string) (*memory.Unit, error) {
			if filepath.Base(path) == "macros.c" {
				v := memory.Variable("variable_MAX_COUNT", memory.Int()).Evaluated(frontend.EvalResult{Kind: frontend.EvalInt, Int: 100})
				main := &memory.Cursor{CursorKind: frontend.CursorFunctionDecl, Name: "main", Kids: []*memory.Cursor{v}}
				return memory.TranslationUnit(main), nil
			}

			p := target(args)
			long := memory.Long()
			if p == windows {
				long = memory.Primitive(frontend.TypeLong, "long", 4)
			}

			u := memory.TranslationUnit(
				memory.Function("demo_size", long).At(header, 1, 6),
				memory.Macro("MAX_COUNT", "100").At(header, 2, 9),
			)
			if p == failing {
				u.Diags = []frontend.Diagnostic{
					{Severity: frontend.SeverityWarning, Message: "unused"},
					{Severity: frontend.SeverityError, Message: "unknown type name", Formatted: "demo.h:3:1: error: unknown type name 'foo_t'"},
				}
			}
			return u, nil
		},
	}
}

func request(platforms ...cdecl.Platform) Request {
	return Request{
		Header:             header,
		Platforms:          platforms,
		IncludeDirectories: []string{"/src/include"},
		Defines:            []string{"DEMO_EXPORT="},
	}
}

func TestRun(t *testing.T) {
	fe := demo("")
	o := New(fe, zaptest.NewLogger(t).Sugar())
	o.TempDir = t.TempDir()

	results, err := o.Run(context.Background(), request(windows, linux))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, windows, results[0].Platform)
	assert.Equal(t, linux, results[1].Platform)

	for _, r := range results {
		require.NoError(t, r.Err)
		require.Contains(t, r.AST.Functions, "demo_size")
		assert.Equal(t, cdecl.Location{File: "demo.h", Line: 1, Column: 6}, r.AST.Functions["demo_size"].Location)
		require.Contains(t, r.AST.MacroObjects, "MAX_COUNT")
		assert.Equal(t, "100", r.AST.MacroObjects["MAX_COUNT"].Value)
		assert.Equal(t, "demo.h", r.AST.MacroObjects["MAX_COUNT"].Location.File)
	}
	assert.Equal(t, 4, results[0].AST.Functions["demo_size"].ReturnType.SizeOf)
	assert.Equal(t, 8, results[1].AST.Functions["demo_size"].ReturnType.SizeOf)

	var headerCalls int
	for _, c := range fe.Calls() {
		if c.Path == header {
			headerCalls++
			assert.Contains(t, c.Args, "-I/src/include")
			assert.Contains(t, c.Args, "-DDEMO_EXPORT=")
		}
	}
	assert.Equal(t, 2, headerCalls)
}

func TestRunIsolatesFailures(t *testing.T) {
	o := New(demo(windows), zaptest.NewLogger(t).Sugar())
	o.TempDir = t.TempDir()

	results, err := o.Run(context.Background(), request(linux, windows))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)

	require.Len(t, results, 2)
	require.NoError(t, results[1].Err)
	assert.NotNil(t, results[1].AST)

	failed := results[0]
	require.Error(t, failed.Err)
	assert.Nil(t, failed.AST)
	assert.True(t, errors.Is(failed.Err, frontend.ErrParse))
	assert.Contains(t, failed.Err.Error(), "x86_64-pc-windows-msvc")
	assert.Contains(t, strings.Join(errors.GetAllDetails(failed.Err), "\n"), "unknown type name 'foo_t'")
}

func TestRunWarnings(t *testing.T) {
	fe := &memory.Frontend{
		ParseFunc: func(ctx context.Context, path string, args []string) (*memory.Unit, error) {
			u := memory.TranslationUnit(memory.Function("f", memory.Int()))
			u.Diags = []frontend.Diagnostic{{Severity: frontend.SeverityWarning, Message: "implicit conversion"}}
			return u, nil
		},
	}

	req := request(linux)
	req.SystemIncludeDirectories = []string{filepath.Join(t.TempDir(), "missing")}

	results, err := New(fe, nil).Run(context.Background(), req)
	require.NoError(t, err)

	var severities []cdecl.Severity
	for _, d := range results[0].Diagnostics {
		severities = append(severities, d.Severity)
		assert.Equal(t, []cdecl.Platform{linux}, d.Platforms)
	}
	assert.Equal(t, []cdecl.Severity{cdecl.SeverityWarning, cdecl.SeverityError, cdecl.SeverityWarning}, severities)
	assert.Equal(t, "warning: implicit conversion", results[0].Diagnostics[2].Message)
}

func TestRunValidation(t *testing.T) {
	o := New(&memory.Frontend{}, nil)

	_, err := o.Run(context.Background(), Request{})
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = o.Run(context.Background(), request(linux, linux))
	require.Error(t, err)

	_, err = o.Run(context.Background(), request("sparc"))
	require.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New(demo(""), nil).Run(ctx, request(linux))
	require.Error(t, err)
	assert.True(t, errors.Is(results[0].Err, context.Canceled))
}

func TestRunParallelismBound(t *testing.T) {
	var mu sync.Mutex
	var active, peak int

	fe := &memory.Frontend{
		ParseFunc: func(ctx context.Context, path string, args []string) (*memory.Unit, error) {
			mu.Lock()
			active++
			peak = max(peak, active)
			mu.Unlock()

			defer func() {
				mu.Lock()
				active--
				mu.Unlock()
			}()
			return memory.TranslationUnit(), nil
		},
	}

	req := request(linux, windows, darwin)
	req.Parallelism = 1

	results, err := New(fe, nil).Run(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, 1, peak)
}

func TestArgs(t *testing.T) {
	req := Request{
		IncludeDirectories: []string{"/src/include"},
		Defines:            []string{"NDEBUG", "VERSION=2"},
		ExtraArgs:          `-fno-blocks -DGREETING="hello world"`,
	}

	args, err := req.Args(linux, []string{"/usr/include"}, "/tmp/fw")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"-xc", "-std=c11", "--target=x86_64-unknown-linux-gnu",
		"-I/src/include",
		"-I/tmp/fw",
		"-isystem", "/usr/include",
		"-DNDEBUG", "-DVERSION=2",
		"-fno-blocks", "-DGREETING=hello world",
	}, args)

	req.ExtraArgs = `-DBROKEN="unterminated`
	_, err = req.Args(linux, nil, "")
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestSystemIncludes(t *testing.T) {
	root := t.TempDir()
	present := filepath.Join(root, "usr", "include")
	require.NoError(t, os.MkdirAll(present, 0o755))

	clang := filepath.Join(root, "clang")
	for _, v := range []string{"9.0.0", "13.0.1", "13.0.1-rc1", "latest"} {
		require.NoError(t, os.MkdirAll(filepath.Join(clang, v, "include"), 0o755))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(clang, "14.0.0"), 0o755))

	found, diags := systemIncludes(linux, []string{present, filepath.Join(root, "missing")}, []string{clang})
	assert.Equal(t, []string{present, filepath.Join(clang, "13.0.1", "include")}, found)
	require.Len(t, diags, 1)
	assert.Equal(t, cdecl.SeverityWarning, diags[0].Severity)

	_, diags = systemIncludes(linux, []string{filepath.Join(root, "missing")}, nil)
	require.Len(t, diags, 2)
	assert.Equal(t, cdecl.SeverityError, diags[1].Severity)

	_, ok := ClangResourceInclude([]string{filepath.Join(root, "nowhere")})
	assert.False(t, ok)
}

func TestLinkFrameworks(t *testing.T) {
	sdk := t.TempDir()
	headers := filepath.Join(sdk, "Metal.framework", "Headers")
	require.NoError(t, os.MkdirAll(headers, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(headers, "MTLDevice.h"), []byte("int mtl;\n"), 0o644))

	fl, diags, err := linkFrameworks(t.TempDir(), darwin, []string{"Metal", "Missing"}, []string{sdk})
	require.NoError(t, err)

	require.Len(t, diags, 1)
	assert.Equal(t, "Missing", diags[0].Name)

	link := filepath.Join(fl.Dir, "Metal")
	assert.Equal(t, map[string]string{link: headers}, fl.Links)
	_, err = os.Stat(filepath.Join(link, "MTLDevice.h"))
	require.NoError(t, err)

	r := explorer.NewResolver(nil, fl.Links)
	assert.Equal(t, filepath.ToSlash(filepath.Join(headers, "MTLDevice.h")), r.Path(filepath.Join(link, "MTLDevice.h")))

	fl.remove()
	assert.NoDirExists(t, fl.Dir)
}

func TestRunFrameworksOnlyOnApple(t *testing.T) {
	sdk := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(sdk, "Metal.framework", "Headers"), 0o755))

	fe := &memory.Frontend{
		ParseFunc: func(ctx context.Context, path string, args []string) (*memory.Unit, error) {
			return memory.TranslationUnit(), nil
		},
	}

	scratch := t.TempDir()
	req := request(linux, darwin)
	req.Frameworks = []string{"Metal"}
	req.FrameworkDirectories = []string{sdk}

	o := New(fe, nil)
	o.TempDir = scratch
	_, err := o.Run(context.Background(), req)
	require.NoError(t, err)

	for _, c := range fe.Calls() {
		linked := slices.ContainsFunc(c.Args, func(a string) bool { return strings.HasPrefix(a, "-I"+scratch) })
		assert.Equal(t, target(c.Args) == darwin, linked, "target %s", target(c.Args))
	}

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPlatformFor(t *testing.T) {
	assert.Equal(t, linux, platformFor("linux", "amd64"))
	assert.Equal(t, darwin, platformFor("darwin", "arm64"))
	assert.Equal(t, windows, platformFor("windows", "amd64"))

	_, err := HostPlatform().Triple()
	assert.NoError(t, err)
}
