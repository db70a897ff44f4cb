package explorer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
)

// ErrInvariant marks a node that reached a handler in a state the explorer
// never produces.
var ErrInvariant = errors.New("explorer invariant violated")

type visitKey struct {
	class cdecl.Class
	name  string
}

type visit struct {
	kind     cdecl.Kind
	location cdecl.Location
}

// Context is the state of one platform exploration. It is created by Explore
// and dropped when Explore returns; nothing in it is shared between runs.
type Context struct {
	Platform cdecl.Platform

	opts       *Options
	log        *zap.SugaredLogger
	classifier *Classifier
	resolver   *Resolver
	functions  map[string]bool

	ast     *cdecl.AST
	visited map[visitKey]visit
	phase   phase
	queues  [phaseDone]*queue
}

func newContext(e *Explorer, platform cdecl.Platform) *Context {
	c := &Context{
		Platform:   platform,
		opts:       &e.opts,
		log:        e.log.With("platform", string(platform)),
		classifier: e.classifier,
		resolver:   e.resolver,
		functions:  set(e.opts.FunctionNames),
		ast:        cdecl.NewAST(platform),
		visited:    make(map[visitKey]visit),
	}
	for p := phaseVariables; p < phaseDone; p++ {
		c.queues[p] = &queue{phase: p}
	}
	return c
}

func queueFor(kind cdecl.Kind) phase {
	switch kind {
	case cdecl.KindVariable:
		return phaseVariables
	case cdecl.KindFunction:
		return phaseFunctions
	}
	return phaseTypes
}

// enqueue schedules a node. Queues that were already drained cannot take new
// work.
func (c *Context) enqueue(n *Node) error {
	p := queueFor(n.Kind)
	if p < c.phase {
		return errors.AssertionFailedf("%s %q enqueued after the %s queue was drained", n.Kind, n.Name, p)
	}
	c.queues[p].push(n)
	return nil
}

// Location resolves the location of a cursor.
func (c *Context) Location(cur frontend.Cursor) cdecl.Location {
	if cur == nil {
		return cdecl.Location{}
	}
	return c.resolver.Location(cur.Location())
}

type expect struct {
	cursors []frontend.CursorKind
	types   []frontend.TypeKind
}

// admit runs the checks every handler shares, in order: expected cursor kind,
// expected type kind, underscore prefix and first seen.
func (c *Context) admit(n *Node, e expect) bool {
	if len(e.cursors) > 0 && (n.Cursor == nil || !slices.Contains(e.cursors, n.Cursor.Kind())) {
		c.skip(n, "unexpected cursor kind")
		return false
	}
	if len(e.types) > 0 && !slices.Contains(e.types, n.Type.Kind()) {
		c.skip(n, "unexpected type kind")
		return false
	}
	if n.TopLevel() && !c.opts.AllowUnderscoreNames && strings.HasPrefix(n.Name, "_") {
		c.skip(n, "underscore prefixed name")
		return false
	}
	if prev, ok := c.visited[visitKey{n.Kind.Class(), n.Name}]; ok {
		upgrade := prev.kind == cdecl.KindOpaqueType && (n.Kind == cdecl.KindStruct || n.Kind == cdecl.KindUnion)
		if !upgrade {
			c.log.Debugw("already visited", "name", n.Name, "kind", n.Kind, "first_seen", prev.location.String())
			return false
		}
	}
	return true
}

// blocked applies the header block-list to top level nodes.
func (c *Context) blocked(n *Node, loc cdecl.Location) bool {
	if !n.TopLevel() || n.Cursor == nil {
		return false
	}
	if c.resolver.Blocked(n.Cursor.Location().File, c.opts.BlockedHeaders) {
		c.skip(n, "blocked header "+loc.File)
		return true
	}
	return false
}

func (c *Context) skip(n *Node, reason string) {
	c.log.Debugw("skipping declaration", "name", n.Name, "kind", n.Kind, "reason", reason)
}

func (c *Context) markVisited(n cdecl.Node) {
	c.visited[visitKey{n.NodeKind().Class(), n.NodeName()}] = visit{kind: n.NodeKind(), location: n.NodeLocation()}
}

// typeRef is the place a type is referenced from.
type typeRef struct {
	parent *Node
	cursor frontend.Cursor
	field  string
	index  int
	// depth counts the pointers and arrays between the referencing
	// declaration and the type.
	depth int
}

// VisitType resolves a type referenced by parent through cursor. Named
// declarations it refers to are enqueued on the type queue and described by
// name only. field and index identify the referencing field or parameter and
// name anonymous records.
func (c *Context) VisitType(parent *Node, cursor frontend.Cursor, t frontend.Type, index int, field string) (*cdecl.TypeInfo, error) {
	return c.visitType(typeRef{parent: parent, cursor: cursor, field: field, index: index}, t)
}

func (c *Context) visitType(ref typeRef, t frontend.Type) (*cdecl.TypeInfo, error) {
	parentKind := cdecl.KindUnknown
	if ref.parent != nil && ref.depth == 0 {
		parentKind = ref.parent.Kind
	}

	kind, rt, err := c.classifier.Classify(t, parentKind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case cdecl.KindPrimitive:
		return &cdecl.TypeInfo{
			Name:    primitiveName(rt),
			Kind:    kind,
			SizeOf:  size(rt.SizeOf()),
			AlignOf: size(rt.AlignOf()),
			IsConst: t.IsConst(),
		}, nil

	case cdecl.KindPointer:
		inner, err := c.visitType(ref.deeper(), rt.Pointee())
		if err != nil {
			return nil, err
		}
		return &cdecl.TypeInfo{
			Name:      inner.Name + "*",
			Kind:      kind,
			SizeOf:    size(rt.SizeOf()),
			AlignOf:   size(rt.AlignOf()),
			IsConst:   t.IsConst(),
			InnerType: inner,
		}, nil

	case cdecl.KindArray:
		return c.visitArray(ref, t, rt)

	case cdecl.KindFunction, cdecl.KindFunctionPointer:
		return c.visitFunctionPointer(ref, t, rt)

	case cdecl.KindTypeAlias:
		return c.visitTypeAlias(ref, t, rt)
	}

	return c.visitDeclaration(ref, kind, t, rt)
}

func (r typeRef) deeper() typeRef {
	r.depth++
	return r
}

func (c *Context) visitArray(ref typeRef, t, rt frontend.Type) (*cdecl.TypeInfo, error) {
	elem, err := c.visitType(ref.deeper(), rt.Element())
	if err != nil {
		return nil, err
	}

	elemSize := elem.SizeOf
	ti := &cdecl.TypeInfo{
		Kind:        cdecl.KindArray,
		AlignOf:     size(rt.AlignOf()),
		ElementSize: &elemSize,
		IsConst:     t.IsConst(),
		InnerType:   elem,
	}

	if rt.Kind() == frontend.TypeConstantArray {
		n := int(rt.ArrayLen())
		ti.Name = arrayName(elem, fmt.Sprintf("[%d]", n))
		ti.SizeOf = size(rt.SizeOf())
		ti.ArraySizeOf = &n
		return ti, nil
	}

	ti.Name = elem.Name + "*"
	return ti, nil
}

// arrayName places a dimension after the base element name, so an array of
// char[8] is char[2][8] as C spells it.
func arrayName(elem *cdecl.TypeInfo, dim string) string {
	if elem.Kind == cdecl.KindArray && elem.ArraySizeOf != nil {
		if i := strings.IndexByte(elem.Name, '['); i >= 0 {
			return elem.Name[:i] + dim + elem.Name[i:]
		}
	}
	return elem.Name + dim
}

func (c *Context) visitFunctionPointer(ref typeRef, t, fn frontend.Type) (*cdecl.TypeInfo, error) {
	n := &Node{Kind: cdecl.KindFunctionPointer, Cursor: ref.cursor, Type: fn, Parent: ref.parent}

	if ref.parent != nil && ref.parent.Kind == cdecl.KindTypeAlias && ref.depth == 0 {
		n.Name = ref.parent.Name
	} else {
		ret, params, err := c.signature(n, fn)
		if err != nil {
			return nil, err
		}
		names := make([]string, len(params))
		for i, p := range params {
			names[i] = p.Type.Name
		}
		n.Name = FunctionPointerName(names, ret.Name)
	}

	var sz, al int
	if ptr := t.Canonical(); ptr.Kind() == frontend.TypePointer {
		n.PointerType = ptr
		sz, al = size(ptr.SizeOf()), size(ptr.AlignOf())
	}

	if err := c.enqueue(n); err != nil {
		return nil, err
	}

	return &cdecl.TypeInfo{
		Name:    n.Name,
		Kind:    cdecl.KindFunctionPointer,
		SizeOf:  sz,
		AlignOf: al,
		IsConst: t.IsConst(),
	}, nil
}

// signature resolves the return and parameter types of a function type.
// Parameter names come from the parameter cursors of the declaration when it
// has one per parameter.
func (c *Context) signature(n *Node, fn frontend.Type) (*cdecl.TypeInfo, []cdecl.Parameter, error) {
	ret, err := c.VisitType(n, n.Cursor, fn.Result(), -1, "")
	if err != nil {
		return nil, nil, errors.Wrap(err, "return type")
	}

	types := fn.Params()
	cursors := parameterCursors(n)
	if len(cursors) != len(types) {
		cursors = nil
	}

	params := make([]cdecl.Parameter, len(types))
	for i, pt := range types {
		name := ""
		cur := n.Cursor
		if cursors != nil {
			cur = cursors[i]
			name = cur.Spelling()
			pt = cur.Type()
		}
		if name == "" {
			name = fmt.Sprintf("param%d", i)
		}

		ti, err := c.VisitType(n, cur, pt, i, name)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "parameter %q", name)
		}
		if ti.Kind == cdecl.KindArray {
			ti = decay(ti, types[i])
		}
		params[i] = cdecl.Parameter{Name: name, Type: *ti}
	}

	return ret, params, nil
}

// decay lowers an array parameter to the pointer C passes instead. adjusted is
// the parameter type of the function type, which is already a pointer.
func decay(ti *cdecl.TypeInfo, adjusted frontend.Type) *cdecl.TypeInfo {
	return &cdecl.TypeInfo{
		Name:      cdecl.StripArraySuffix(ti.Name),
		Kind:      cdecl.KindPointer,
		SizeOf:    size(adjusted.SizeOf()),
		AlignOf:   size(adjusted.AlignOf()),
		IsConst:   ti.IsConst,
		InnerType: ti.InnerType,
	}
}

func parameterCursors(n *Node) []frontend.Cursor {
	if n.Cursor == nil {
		return nil
	}
	if n.Kind == cdecl.KindFunction {
		return n.Cursor.Arguments()
	}
	if n.Cursor.Kind() == frontend.CursorFunctionDecl {
		return nil
	}

	var out []frontend.Cursor
	for _, ch := range n.Cursor.Children() {
		if ch.Kind() == frontend.CursorParmDecl {
			out = append(out, ch)
		}
	}
	return out
}

func (c *Context) visitTypeAlias(ref typeRef, t, rt frontend.Type) (*cdecl.TypeInfo, error) {
	decl := rt.Declaration()
	n := &Node{Kind: cdecl.KindTypeAlias, Name: rt.Spelling(), Cursor: decl, Type: rt, Parent: ref.parent}

	inner, err := c.VisitType(n, decl, decl.TypedefUnderlyingType(), 0, "")
	if err != nil {
		return nil, errors.Wrapf(err, "typedef %q", n.Name)
	}

	// typedef struct foo foo; and typedef struct {...} foo; name the
	// underlying declaration itself.
	if inner.Name == n.Name {
		collapsed := *inner
		collapsed.IsConst = t.IsConst()
		return &collapsed, nil
	}

	if err := c.enqueue(n); err != nil {
		return nil, err
	}

	return &cdecl.TypeInfo{
		Name:      n.Name,
		Kind:      cdecl.KindTypeAlias,
		SizeOf:    size(rt.SizeOf()),
		AlignOf:   size(rt.AlignOf()),
		IsConst:   t.IsConst(),
		InnerType: inner,
	}, nil
}

func (c *Context) visitDeclaration(ref typeRef, kind cdecl.Kind, t, rt frontend.Type) (*cdecl.TypeInfo, error) {
	decl := rt.Declaration()

	name := rt.Spelling()
	if rt.Kind() != frontend.TypeTypedef {
		name = tagName(name)
		if isAnonymous(name) || decl.IsAnonymous() {
			name = anonymousRecordName(ref, name)
		}
	}
	if name == "" {
		return nil, errors.Mark(
			errors.AssertionFailedf("anonymous %s %q referenced without a parent", kind, rt.Spelling()),
			ErrInvariant)
	}

	n := &Node{Kind: kind, Name: name, Cursor: decl, Type: rt, Parent: ref.parent}
	if err := c.enqueue(n); err != nil {
		return nil, err
	}

	ti := &cdecl.TypeInfo{Name: name, Kind: kind, IsConst: t.IsConst()}
	if kind != cdecl.KindOpaqueType {
		ti.SizeOf = size(rt.SizeOf())
		ti.AlignOf = size(rt.AlignOf())
	}
	return ti, nil
}

// size turns front end size sentinels into zero.
func size(v int64) int {
	if v < 0 {
		return 0
	}
	return int(v)
}
