package generator

import (
	"cmp"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/merge"
)

// unit is the set of declarations emitted under one build constraint. The
// universal unit has no constraint and holds what every platform shares.
type unit struct {
	suffix     string
	constraint string
	goarch     string

	records      []*cdecl.Record
	enums        []*cdecl.Enum
	aliases      []*cdecl.TypeAlias
	opaques      []*cdecl.OpaqueType
	funcPointers []*cdecl.FunctionPointer
	constants    []*cdecl.EnumConstant
	macros       []*cdecl.MacroObject
	functions    []*cdecl.Function
	variables    []*cdecl.Variable

	seen map[nameKey]bool
}

func newUnit(goos, goarch string) *unit {
	u := &unit{goarch: goarch, seen: make(map[nameKey]bool)}
	if goos != "" {
		u.suffix = "_" + goos + "_" + goarch
		u.constraint = goos + " && " + goarch
	}
	return u
}

// add keeps the first declaration of a name; platforms that map to the same
// GOOS and GOARCH share a unit.
func (u *unit) add(n cdecl.Node) {
	k := nameKey{n.NodeKind().Class(), n.NodeName()}
	if u.seen[k] {
		return
	}
	u.seen[k] = true

	switch v := n.(type) {
	case *cdecl.Record:
		u.records = append(u.records, v)
	case *cdecl.Enum:
		u.enums = append(u.enums, v)
	case *cdecl.TypeAlias:
		u.aliases = append(u.aliases, v)
	case *cdecl.OpaqueType:
		u.opaques = append(u.opaques, v)
	case *cdecl.FunctionPointer:
		u.funcPointers = append(u.funcPointers, v)
	case *cdecl.EnumConstant:
		u.constants = append(u.constants, v)
	case *cdecl.MacroObject:
		u.macros = append(u.macros, v)
	case *cdecl.Function:
		u.functions = append(u.functions, v)
	case *cdecl.Variable:
		u.variables = append(u.variables, v)
	}
}

func (u *unit) hasTypes() bool {
	return len(u.records)+len(u.enums)+len(u.aliases)+len(u.opaques)+len(u.funcPointers) > 0
}

func (u *unit) hasConsts() bool {
	return len(u.constants)+len(u.macros) > 0
}

func (u *unit) hasFunctions() bool {
	return len(u.functions)+len(u.variables) > 0
}

// partition splits the model into the universal unit and one unit per
// GOOS/GOARCH pair, ordered by suffix.
func (g *Generator) partition() (*unit, []*unit, error) {
	universal := newUnit("", "")
	targets := make(map[cdecl.Platform]*unit)
	byKey := make(map[string]*unit)

	for _, p := range g.model.Platforms {
		t, err := p.Triple()
		if err != nil {
			return nil, nil, errors.Wrap(err, "binding target")
		}
		u := newUnit(t.GOOS(), t.GOARCH())
		if prev, ok := byKey[u.suffix]; ok {
			u = prev
		}
		byKey[u.suffix] = u
		targets[p] = u
	}

	p := placer{g: g, universal: universal, targets: targets}
	place(p, g.model.Records)
	place(p, g.model.Enums)
	place(p, g.model.TypeAliases)
	place(p, g.model.OpaqueTypes)
	place(p, g.model.FunctionPointers)
	place(p, g.model.EnumConstants)
	place(p, g.model.MacroObjects)
	place(p, g.model.Functions)
	place(p, g.model.Variables)

	units := make([]*unit, 0, len(byKey))
	for _, u := range byKey {
		units = append(units, u)
	}
	slices.SortFunc(units, func(a, b *unit) int { return cmp.Compare(a.suffix, b.suffix) })

	return universal, units, nil
}

type placer struct {
	g         *Generator
	universal *unit
	targets   map[cdecl.Platform]*unit
}

func place[T cdecl.Node](p placer, decls []merge.Decl[T]) {
	for _, d := range decls {
		if !p.g.specific(d.Node, d.Platforms) {
			p.universal.add(d.Node)
			continue
		}
		for _, pl := range d.Platforms {
			if u, ok := p.targets[pl]; ok {
				u.add(d.Node)
			}
		}
	}
}

// specific reports whether a declaration has to be emitted per platform.
// Functions with a non default calling convention are bound per platform when
// a 32-bit x86 target is present, the only one where the convention changes
// the call.
func (g *Generator) specific(n cdecl.Node, platforms []cdecl.Platform) bool {
	if !g.model.Universal(platforms) {
		return true
	}
	if fn, ok := n.(*cdecl.Function); ok && fn.CallingConvention != cdecl.CallingConventionCdecl {
		return g.has386
	}
	return false
}
