package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/logger"
)

func (g *Generator) skip(n cdecl.Node, err error) {
	g.log.Warnw("declaration not bound",
		logger.FieldName, n.NodeName(),
		logger.FieldKind, n.NodeKind().String(),
		logger.FieldError, err)
}

func (g *Generator) generateTypes(buf *bytes.Buffer, u *unit) error {
	for _, o := range u.opaques {
		fmt.Fprintf(buf, "type %s uintptr\n\n", g.names.typeName(o.Name))
	}

	for _, fp := range u.funcPointers {
		fmt.Fprintf(buf, "type %s uintptr\n\n", g.names.typeName(fp.Name))
	}

	for _, e := range u.enums {
		if err := g.writeEnum(buf, e); err != nil {
			g.skip(e, err)
		}
	}

	for _, a := range u.aliases {
		underlying, err := g.goType(a.UnderlyingType, useField)
		if err != nil {
			g.skip(a, err)
			continue
		}
		if underlying == "" {
			g.log.Debugw("void alias skipped", logger.FieldName, a.Name)
			continue
		}
		fmt.Fprintf(buf, "type %s = %s\n\n", g.names.typeName(a.Name), underlying)
	}

	for _, r := range u.records {
		var rec bytes.Buffer
		var err error
		if r.IsUnion {
			err = g.writeUnion(&rec, r)
		} else {
			err = g.writeStruct(&rec, r)
		}
		if err != nil {
			g.skip(r, err)
			continue
		}
		buf.Write(rec.Bytes())
	}

	return nil
}

func (g *Generator) writeEnum(buf *bytes.Buffer, e *cdecl.Enum) error {
	goType, err := primitiveGoType(e.IntegerType)
	if err != nil {
		return err
	}

	name := g.names.typeName(e.Name)
	fmt.Fprintf(buf, "type %s %s\n\n", name, goType)

	if len(e.Values) == 0 {
		return nil
	}
	fmt.Fprintf(buf, "const (\n")
	for _, v := range e.Values {
		fmt.Fprintf(buf, "\t%s %s = %d\n", g.names.ident(cdecl.ClassConstant, v.Name), name, v.Value)
	}
	fmt.Fprintf(buf, ")\n\n")
	return nil
}

func (g *Generator) writeStruct(buf *bytes.Buffer, r *cdecl.Record) error {
	name := g.names.typeName(r.Name)
	if len(r.Fields) == 0 {
		fmt.Fprintf(buf, "type %s struct{}\n\n", name)
		return nil
	}

	var fields, elements []string
	used := make(map[string]bool, len(r.Fields))
	for i, f := range r.Fields {
		goType, err := g.goType(f.Type, useField)
		if err != nil {
			return errors.Wrapf(err, "field %q", f.Name)
		}
		els, err := g.ffiElements(f.Type)
		if err != nil {
			return errors.Wrapf(err, "field %q", f.Name)
		}

		fieldName := toGoName(f.Name)
		if fieldName == "" {
			fieldName = fmt.Sprintf("Field%d", i)
		}
		for used[fieldName] {
			fieldName += "_"
		}
		used[fieldName] = true

		fields = append(fields, fmt.Sprintf("\t%s %s\n", fieldName, goType))
		elements = append(elements, els...)
	}

	fmt.Fprintf(buf, "type %s struct {\n%s}\n\n", name, strings.Join(fields, ""))
	fmt.Fprintf(buf, "var FFIType%s = ffi.NewType(\n", name)
	for _, el := range elements {
		fmt.Fprintf(buf, "\t%s,\n", el)
	}
	fmt.Fprintf(buf, ")\n\n")
	return nil
}

func (g *Generator) writeUnion(buf *bytes.Buffer, r *cdecl.Record) error {
	count, word, err := unionLayout(r)
	if err != nil {
		return err
	}

	name := g.names.typeName(r.Name)
	fmt.Fprintf(buf, "type %s [%d]uint%d\n\n", name, count, word)
	fmt.Fprintf(buf, "var FFIType%s = ffi.NewType(\n", name)
	for range count {
		fmt.Fprintf(buf, "\t&ffi.TypeUint%d,\n", word)
	}
	fmt.Fprintf(buf, ")\n\n")
	return nil
}

func (g *Generator) generateConsts(buf *bytes.Buffer, u *unit) error {
	var lines []string

	for _, c := range u.constants {
		goType, err := g.goType(c.Type, useField)
		if err != nil {
			g.skip(c, err)
			continue
		}
		lines = append(lines, fmt.Sprintf("\t%s %s = %d\n", g.names.ident(cdecl.ClassConstant, c.Name), goType, c.Value))
	}

	for _, m := range u.macros {
		if floatNames[m.Type.Name] && (strings.Contains(m.Value, "Inf") || strings.Contains(m.Value, "NaN")) {
			g.skip(m, errors.Newf("%s has no Go constant", m.Value))
			continue
		}
		lines = append(lines, fmt.Sprintf("\t%s = %s\n", g.names.ident(cdecl.ClassConstant, m.Name), m.Value))
	}

	if len(lines) > 0 {
		fmt.Fprintf(buf, "const (\n%s)\n", strings.Join(lines, ""))
	}
	return nil
}

// binding is a function prepared for emission.
type binding struct {
	fn      *cdecl.Function
	name    string
	funcVar string
	abi     string
	ret     string
	args    []string
}

// abi names the ffi ABI of a function on the unit's architecture, or "" for
// the default one.
func abi(fn *cdecl.Function, u *unit) string {
	if u.goarch != "386" {
		return ""
	}
	switch fn.CallingConvention {
	case cdecl.CallingConventionStdCall:
		return "ffi.Stdcall"
	case cdecl.CallingConventionFastCall:
		return "ffi.Fastcall"
	}
	return ""
}

func (g *Generator) usesAbi(u *unit) bool {
	for _, fn := range u.functions {
		if abi(fn, u) != "" {
			return true
		}
	}
	return false
}

func (g *Generator) bind(fn *cdecl.Function, u *unit) (binding, error) {
	if fn.IsVariadic {
		return binding{}, errors.Mark(errors.New("variadic functions have no fixed call interface"), cdecl.ErrUnsupportedType)
	}

	if _, err := g.goType(fn.ReturnType, useResult); err != nil {
		return binding{}, errors.Wrap(err, "return type")
	}
	ret, err := g.ffiType(fn.ReturnType)
	if err != nil {
		return binding{}, errors.Wrap(err, "return type")
	}

	args := make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		if _, err := g.goType(p.Type, useParam); err != nil {
			return binding{}, errors.Wrapf(err, "parameter %d", i)
		}
		if args[i], err = g.ffiType(p.Type); err != nil {
			return binding{}, errors.Wrapf(err, "parameter %d", i)
		}
	}

	name := g.names.ident(cdecl.ClassFunction, fn.Name)
	return binding{
		fn:      fn,
		name:    name,
		funcVar: lowerFirst(name) + "Func",
		abi:     abi(fn, u),
		ret:     ret,
		args:    args,
	}, nil
}

type variable struct {
	v      *cdecl.Variable
	name   string
	symVar string
	goType string
}

func (g *Generator) generateFunctions(buf *bytes.Buffer, u *unit) error {
	var funcs []binding
	for _, fn := range u.functions {
		b, err := g.bind(fn, u)
		if err != nil {
			g.skip(fn, err)
			continue
		}
		funcs = append(funcs, b)
	}

	var vars []variable
	for _, v := range u.variables {
		goType, err := g.goType(v.Type, useField)
		if err == nil && goType == "" {
			err = errors.New("void variable")
		}
		if err != nil {
			g.skip(v, err)
			continue
		}
		name := g.names.ident(cdecl.ClassVariable, v.Name)
		vars = append(vars, variable{v: v, name: name, symVar: lowerFirst(name) + "Var", goType: goType})
	}

	loadName := "loadFuncs" + toGoName(u.suffix)

	fmt.Fprintf(buf, "var (\n")
	for _, b := range funcs {
		fmt.Fprintf(buf, "\t%s ffi.Fun\n", b.funcVar)
	}
	for _, v := range vars {
		fmt.Fprintf(buf, "\t%s uintptr\n", v.symVar)
	}
	fmt.Fprintf(buf, ")\n\n")

	fmt.Fprintf(buf, "func init() {\n\tloaders = append(loaders, %s)\n}\n\n", loadName)

	fmt.Fprintf(buf, "func %s() error {\n", loadName)
	if len(funcs)+len(vars) > 0 {
		fmt.Fprintf(buf, "\tvar err error\n\n")
	}
	for _, b := range funcs {
		args := append([]string{b.ret}, b.args...)
		if b.abi != "" {
			fmt.Fprintf(buf, "\tif %s, err = prepAbi(%s, %q, %s); err != nil {\n", b.funcVar, b.abi, b.fn.Name, strings.Join(args, ", "))
		} else {
			fmt.Fprintf(buf, "\tif %s, err = prep(%q, %s); err != nil {\n", b.funcVar, b.fn.Name, strings.Join(args, ", "))
		}
		fmt.Fprintf(buf, "\t\treturn fmt.Errorf(\"%s: %%w\", err)\n", b.fn.Name)
		fmt.Fprintf(buf, "\t}\n\n")
	}
	for _, v := range vars {
		fmt.Fprintf(buf, "\tif %s, err = symbol(%q); err != nil {\n", v.symVar, v.v.Name)
		fmt.Fprintf(buf, "\t\treturn fmt.Errorf(\"%s: %%w\", err)\n", v.v.Name)
		fmt.Fprintf(buf, "\t}\n\n")
	}
	fmt.Fprintf(buf, "\treturn nil\n")
	fmt.Fprintf(buf, "}\n\n")

	for _, b := range funcs {
		g.writeWrapper(buf, b)
	}

	for _, v := range vars {
		fmt.Fprintf(buf, "func %s() *%s {\n", v.name, v.goType)
		fmt.Fprintf(buf, "\treturn (*%s)(unsafe.Pointer(%s))\n", v.goType, v.symVar)
		fmt.Fprintf(buf, "}\n\n")
	}

	return nil
}

func (g *Generator) writeWrapper(buf *bytes.Buffer, b binding) {
	fn := b.fn
	names := paramNames(fn.Parameters)

	params := make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		goType, _ := g.goType(p.Type, useParam)
		params[i] = names[i] + " " + goType
	}

	retGoType, _ := g.goType(fn.ReturnType, useResult)
	hasReturn := !isVoid(fn.ReturnType)

	if hasReturn {
		fmt.Fprintf(buf, "func %s(%s) %s {\n", b.name, strings.Join(params, ", "), retGoType)
	} else {
		fmt.Fprintf(buf, "func %s(%s) {\n", b.name, strings.Join(params, ", "))
	}

	for i, p := range fn.Parameters {
		if isCString(p.Type) {
			fmt.Fprintf(buf, "\t%sPtr, _ := unix.BytePtrFromString(%s)\n", names[i], names[i])
		}
	}

	callArgs := []string{"nil"}
	if hasReturn {
		switch {
		case isCString(fn.ReturnType):
			fmt.Fprintf(buf, "\tvar resultPtr *byte\n")
			callArgs[0] = "unsafe.Pointer(&resultPtr)"
		case smallInteger(fn.ReturnType):
			fmt.Fprintf(buf, "\tvar result ffi.Arg\n")
			callArgs[0] = "unsafe.Pointer(&result)"
		default:
			fmt.Fprintf(buf, "\tvar result %s\n", retGoType)
			callArgs[0] = "unsafe.Pointer(&result)"
		}
	}

	for i, p := range fn.Parameters {
		if isCString(p.Type) {
			callArgs = append(callArgs, fmt.Sprintf("unsafe.Pointer(&%sPtr)", names[i]))
		} else {
			callArgs = append(callArgs, fmt.Sprintf("unsafe.Pointer(&%s)", names[i]))
		}
	}

	fmt.Fprintf(buf, "\t%s.Call(%s)\n", b.funcVar, strings.Join(callArgs, ", "))

	if hasReturn {
		switch {
		case isCString(fn.ReturnType):
			fmt.Fprintf(buf, "\tif resultPtr == nil {\n")
			fmt.Fprintf(buf, "\t\treturn \"\"\n")
			fmt.Fprintf(buf, "\t}\n")
			fmt.Fprintf(buf, "\treturn unix.BytePtrToString(resultPtr)\n")
		case smallInteger(fn.ReturnType) && boolResult(fn.ReturnType):
			fmt.Fprintf(buf, "\treturn result.Bool()\n")
		case smallInteger(fn.ReturnType):
			fmt.Fprintf(buf, "\treturn %s(result)\n", retGoType)
		default:
			fmt.Fprintf(buf, "\treturn result\n")
		}
	}

	fmt.Fprintf(buf, "}\n\n")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
