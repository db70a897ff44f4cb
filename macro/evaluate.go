package macro

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
	"github.com/ardanlabs/c2ffi/logger"
)

const (
	variablePrefix = "variable_"
	sourceName     = "macros.c"
)

// Evaluator folds macro candidates through a front end.
type Evaluator struct {
	parser frontend.Parser
	log    *zap.SugaredLogger

	// TempDir is the parent of the scratch directory; empty means the
	// system default.
	TempDir string
}

func NewEvaluator(parser frontend.Parser, log *zap.SugaredLogger) *Evaluator {
	return &Evaluator{
		parser: parser,
		log:    logger.OrNop(log).Named("macro"),
	}
}

// Evaluate parses a synthetic translation unit that assigns every candidate to
// a variable and reads back the values the compiler folded. Candidates the
// compiler cannot fold are dropped; only a failed parse is an error.
func (e *Evaluator) Evaluate(ctx context.Context, candidates []Candidate, args []string) ([]*cdecl.MacroObject, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	dir, err := os.MkdirTemp(e.TempDir, "c2ffi-macros-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating macro scratch directory")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, sourceName)
	if err := os.WriteFile(path, source(candidates), 0o600); err != nil {
		return nil, errors.Wrap(err, "writing macro translation unit")
	}

	tu, err := e.parser.Parse(ctx, path, args)
	if err != nil {
		return nil, errors.Wrap(err, "parsing macro translation unit")
	}
	defer tu.Close()

	e.log.Debugw("parsed macro translation unit", logger.FieldCount, len(candidates), "diagnostics", len(tu.Diagnostics()))

	byName := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		byName[c.Name] = c
	}

	var out []*cdecl.MacroObject
	for _, v := range variables(tu.Cursor()) {
		name := strings.TrimPrefix(v.Spelling(), variablePrefix)
		c, ok := byName[name]
		if !ok {
			continue
		}

		m, ok := fold(c, v)
		if !ok {
			e.log.Debugw("macro did not fold", logger.FieldName, name, "expression", c.Expression())
			continue
		}
		out = append(out, m)
	}

	e.log.Debugw("evaluated macros", "candidates", len(candidates), "folded", len(out))
	return out, nil
}

// source renders the synthetic translation unit. Headers are included once, in
// first use order.
func source(candidates []Candidate) []byte {
	var b bytes.Buffer

	included := make(map[string]bool)
	for _, c := range candidates {
		if included[c.Location.File] {
			continue
		}
		included[c.Location.File] = true
		fmt.Fprintf(&b, "#include %q\n", filepath.ToSlash(c.Location.File))
	}

	b.WriteString("\nint main(void)\n{\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "\t__auto_type %s%s = %s;\n", variablePrefix, c.Name, c.Expression())
	}
	b.WriteString("\treturn 0;\n}\n")

	return b.Bytes()
}

// variables returns the synthetic variable declarations inside main.
func variables(root frontend.Cursor) []frontend.Cursor {
	var out []frontend.Cursor

	var walk func(frontend.Cursor)
	walk = func(cur frontend.Cursor) {
		for _, ch := range cur.Children() {
			if ch.Kind() == frontend.CursorVarDecl && strings.HasPrefix(ch.Spelling(), variablePrefix) {
				out = append(out, ch)
				continue
			}
			walk(ch)
		}
	}

	for _, cur := range root.Children() {
		if cur.Kind() == frontend.CursorFunctionDecl && cur.Spelling() == "main" {
			walk(cur)
			break
		}
	}
	return out
}

func fold(c Candidate, v frontend.Cursor) (*cdecl.MacroObject, bool) {
	res, ok := v.Evaluate()
	if !ok {
		return nil, false
	}

	ti, ok := valueType(v.Type().Canonical())
	if !ok {
		return nil, false
	}

	m := &cdecl.MacroObject{
		Name: c.Name,
		Location: cdecl.Location{
			File:   c.Location.File,
			Line:   c.Location.Line,
			Column: c.Location.Column,
		},
		Type: ti,
	}

	switch res.Kind {
	case frontend.EvalInt:
		if res.IsUnsigned {
			m.Value = strconv.FormatUint(res.Uint, 10)
		} else {
			m.Value = strconv.FormatInt(res.Int, 10)
		}
	case frontend.EvalFloat:
		m.Value = strconv.FormatFloat(res.Float, 'g', -1, 64)
	case frontend.EvalString:
		m.Value = strconv.Quote(res.Str)
	default:
		return nil, false
	}

	return m, true
}

var valueTypeNames = map[frontend.TypeKind]string{
	frontend.TypeBool:       "_Bool",
	frontend.TypeCharS:      "char",
	frontend.TypeCharU:      "char",
	frontend.TypeSChar:      "signed char",
	frontend.TypeUChar:      "unsigned char",
	frontend.TypeShort:      "short",
	frontend.TypeUShort:     "unsigned short",
	frontend.TypeInt:        "int",
	frontend.TypeUInt:       "unsigned int",
	frontend.TypeLong:       "long",
	frontend.TypeULong:      "unsigned long",
	frontend.TypeLongLong:   "long long",
	frontend.TypeULongLong:  "unsigned long long",
	frontend.TypeFloat:      "float",
	frontend.TypeDouble:     "double",
	frontend.TypeLongDouble: "long double",
}

// valueType describes the type of a folded macro: a primitive, or a string
// literal decayed to a char pointer.
func valueType(t frontend.Type) (cdecl.TypeInfo, bool) {
	if name, ok := valueTypeNames[t.Kind()]; ok {
		return cdecl.TypeInfo{Name: name, Kind: cdecl.KindPrimitive, SizeOf: int(t.SizeOf()), AlignOf: int(t.AlignOf())}, true
	}

	if t.Kind() != frontend.TypePointer {
		return cdecl.TypeInfo{}, false
	}
	pointee := t.Pointee().Canonical()
	inner, ok := valueType(pointee)
	if !ok || inner.Kind != cdecl.KindPrimitive {
		return cdecl.TypeInfo{}, false
	}
	inner.IsConst = pointee.IsConst()

	return cdecl.TypeInfo{
		Name:      inner.Name + "*",
		Kind:      cdecl.KindPointer,
		SizeOf:    int(t.SizeOf()),
		AlignOf:   int(t.AlignOf()),
		InnerType: &inner,
	}, true
}
