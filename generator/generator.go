// Package generator maps a merged declaration model onto Go bindings that call
// the library through github.com/jupiterrider/ffi.
//
// Declarations shared by every platform go to loader.go, types.go, consts.go
// and functions.go. Platform variants go to files suffixed with the GOOS and
// GOARCH of their platform, such as types_windows_amd64.go, guarded by a
// matching build constraint.
package generator

import (
	"bytes"
	"fmt"
	"go/token"
	"path/filepath"
	"text/template"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/imports"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/logger"
	"github.com/ardanlabs/c2ffi/merge"
)

const header = "// Code generated by c2ffi. DO NOT EDIT.\n\n"

type Generator struct {
	// Dir is the directory the files will be written to. Formatting reads
	// the Go files already there to resolve package level names.
	Dir string

	packageName string
	libName     string
	model       *merge.Model
	log         *zap.SugaredLogger

	names  *namer
	empty  map[string]bool
	has386 bool
}

func New(packageName, libName string, model *merge.Model, log *zap.SugaredLogger) *Generator {
	log = logger.OrNop(log).Named("generator")
	return &Generator{
		packageName: packageName,
		libName:     libName,
		model:       model,
		log:         log,
		names:       newNamer(log),
		empty:       make(map[string]bool),
	}
}

// Generate returns the generated Go files keyed by file name.
func (g *Generator) Generate() (map[string]string, error) {
	if g.model == nil {
		return nil, errors.AssertionFailedf("generator has no model")
	}
	if !token.IsIdentifier(g.packageName) || token.IsKeyword(g.packageName) {
		return nil, errors.WithHint(
			errors.Newf("invalid package name %q", g.packageName),
			"use a Go identifier such as \"bindings\"")
	}
	if g.libName == "" {
		return nil, errors.New("library name is required")
	}

	for _, p := range g.model.Platforms {
		if t, err := p.Triple(); err == nil && t.GOARCH() == "386" {
			g.has386 = true
		}
	}
	for _, d := range g.model.Records {
		if len(d.Node.Fields) == 0 {
			g.empty[d.Node.Name] = true
		}
	}
	g.assignNames()

	universal, units, err := g.partition()
	if err != nil {
		return nil, err
	}

	files := make(map[string]string)
	var needsAbi bool
	for _, u := range append([]*unit{universal}, units...) {
		if err := g.generateUnit(files, u); err != nil {
			return nil, err
		}
		needsAbi = needsAbi || g.usesAbi(u)
	}

	loaderCode, err := g.generateLoader(needsAbi)
	if err != nil {
		return nil, errors.Wrap(err, "generating loader")
	}
	files["loader.go"] = loaderCode

	g.log.Infow("generated bindings",
		"package", g.packageName,
		"files", len(files),
		logger.FieldCount, g.model.Len())

	return files, nil
}

// assignNames fixes the Go identifier of every declaration before anything is
// emitted. Types claim their names first.
func (g *Generator) assignNames() {
	m := g.model
	for _, d := range m.Records {
		g.names.typeName(d.Node.Name)
	}
	for _, d := range m.Enums {
		g.names.typeName(d.Node.Name)
	}
	for _, d := range m.TypeAliases {
		g.names.typeName(d.Node.Name)
	}
	for _, d := range m.OpaqueTypes {
		g.names.typeName(d.Node.Name)
	}
	for _, d := range m.FunctionPointers {
		g.names.typeName(d.Node.Name)
	}
	for _, d := range m.Enums {
		for _, v := range d.Node.Values {
			g.names.ident(cdecl.ClassConstant, v.Name)
		}
	}
	for _, d := range m.EnumConstants {
		g.names.ident(cdecl.ClassConstant, d.Node.Name)
	}
	for _, d := range m.MacroObjects {
		g.names.ident(cdecl.ClassConstant, d.Node.Name)
	}
	for _, d := range m.Functions {
		g.names.ident(cdecl.ClassFunction, d.Node.Name)
	}
	for _, d := range m.Variables {
		g.names.ident(cdecl.ClassVariable, d.Node.Name)
	}
}

func (g *Generator) generateUnit(files map[string]string, u *unit) error {
	type part struct {
		name string
		has  bool
		emit func(*bytes.Buffer, *unit) error
	}

	for _, p := range []part{
		{"types", u.hasTypes(), g.generateTypes},
		{"consts", u.hasConsts(), g.generateConsts},
		{"functions", u.hasFunctions(), g.generateFunctions},
	} {
		if !p.has {
			continue
		}

		var body bytes.Buffer
		if err := p.emit(&body, u); err != nil {
			return errors.Wrapf(err, "generating %s%s", p.name, u.suffix)
		}

		name := p.name + u.suffix + ".go"
		src, err := g.format(name, u, body.Bytes())
		if err != nil {
			return err
		}
		files[name] = src
	}

	return nil
}

// format adds the file preamble and runs the result through goimports, which
// drops the imports a file does not use.
func (g *Generator) format(name string, u *unit, body []byte) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(header)
	if u.constraint != "" {
		fmt.Fprintf(&buf, "//go:build %s\n\n", u.constraint)
	}
	fmt.Fprintf(&buf, "package %s\n\n", g.packageName)
	buf.WriteString("import (\n\t\"fmt\"\n\t\"unsafe\"\n\n\t\"github.com/jupiterrider/ffi\"\n\t\"golang.org/x/sys/unix\"\n)\n\n")
	buf.Write(body)

	out, err := imports.Process(filepath.Join(g.Dir, name), buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return "", errors.WithDetail(errors.Wrapf(err, "formatting %s", name), buf.String())
	}
	return string(out), nil
}

const loaderTemplate = `// Code generated by c2ffi. DO NOT EDIT.

package {{.Package}}

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/jupiterrider/ffi"
)

var lib ffi.Lib

// loaders prepare the symbols of the generated files.
var loaders []func() error

func Load(path string) error {
	var err error
	lib, err = ffi.Load(getLibraryPath(path))
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	for _, load := range loaders {
		if err := load(); err != nil {
			return err
		}
	}

	return nil
}

func getLibraryPath(basePath string) string {
	var filename string
	switch runtime.GOOS {
	case "linux", "freebsd":
		filename = "lib{{.LibName}}.so"
	case "darwin", "ios":
		filename = "lib{{.LibName}}.dylib"
	case "windows":
		filename = "{{.LibName}}.dll"
	default:
		filename = "lib{{.LibName}}.so"
	}
	return filepath.Join(basePath, filename)
}

func prep(name string, ret *ffi.Type, args ...*ffi.Type) (ffi.Fun, error) {
	return lib.Prep(name, ret, args...)
}

func symbol(name string) (uintptr, error) {
	return lib.Get(name)
}
{{- if .NeedsAbi}}

func prepAbi(abi ffi.Abi, name string, ret *ffi.Type, args ...*ffi.Type) (ffi.Fun, error) {
	addr, err := lib.Get(name)
	if err != nil {
		return ffi.Fun{}, err
	}

	var cif ffi.Cif
	if status := ffi.PrepCif(&cif, abi, uint32(len(args)), ret, args...); status != ffi.OK {
		return ffi.Fun{}, fmt.Errorf("%s: prep cif: %v", name, status)
	}

	return ffi.Fun{Addr: addr, Cif: &cif}, nil
}
{{- end}}
`

var loader = template.Must(template.New("loader").Parse(loaderTemplate))

func (g *Generator) generateLoader(needsAbi bool) (string, error) {
	var buf bytes.Buffer
	err := loader.Execute(&buf, map[string]any{
		"Package":  g.packageName,
		"LibName":  g.libName,
		"NeedsAbi": needsAbi,
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
