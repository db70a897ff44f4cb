package explorer

import (
	"github.com/cockroachdb/errors"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
)

type recordHandler struct {
	union bool
}

func (h recordHandler) CanVisit(c *Context, n *Node) bool {
	kind := frontend.CursorStructDecl
	if h.union {
		kind = frontend.CursorUnionDecl
	}
	return c.admit(n, expect{cursors: []frontend.CursorKind{kind}, types: []frontend.TypeKind{frontend.TypeRecord}})
}

func (h recordHandler) Explore(c *Context, n *Node) (cdecl.Node, error) {
	rec := &cdecl.Record{
		Name:     n.Name,
		Location: c.Location(n.Cursor),
		IsUnion:  h.union,
		SizeOf:   size(n.Type.SizeOf()),
		AlignOf:  size(n.Type.AlignOf()),
	}

	for i, f := range n.Type.Fields() {
		name := f.Spelling()
		ft := f.Type()

		ti, err := c.VisitType(n, f, ft, i, name)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q of %q", name, n.Name)
		}

		switch {
		case name == "" && (ti.Kind == cdecl.KindStruct || ti.Kind == cdecl.KindUnion):
			rec.NestedRecords = append(rec.NestedRecords, ti.Name)
		case ti.Kind == cdecl.KindFunctionPointer && unwrap(ft).Kind() == frontend.TypePointer:
			rec.NestedFunctionPointers = append(rec.NestedFunctionPointers, ti.Name)
		}

		rec.Fields = append(rec.Fields, cdecl.RecordField{
			Name:     name,
			Type:     *ti,
			OffsetOf: int(f.FieldOffsetBits() / 8),
		})
	}

	computePadding(rec.SizeOf, rec.Fields)
	return rec, nil
}

// unwrap removes elaborated and attributed layers, leaving typedefs alone.
func unwrap(t frontend.Type) frontend.Type {
	for {
		switch t.Kind() {
		case frontend.TypeElaborated:
			t = t.Named()
		case frontend.TypeAttributed:
			t = t.Modified()
		default:
			return t
		}
	}
}

type opaqueTypeHandler struct{}

func (opaqueTypeHandler) CanVisit(c *Context, n *Node) bool {
	return c.admit(n, expect{
		cursors: []frontend.CursorKind{frontend.CursorStructDecl, frontend.CursorUnionDecl, frontend.CursorTypedefDecl},
		types:   []frontend.TypeKind{frontend.TypeRecord, frontend.TypeTypedef},
	})
}

func (opaqueTypeHandler) Explore(c *Context, n *Node) (cdecl.Node, error) {
	return &cdecl.OpaqueType{
		Name:     n.Name,
		Location: c.Location(n.Cursor),
	}, nil
}

type typeAliasHandler struct{}

func (typeAliasHandler) CanVisit(c *Context, n *Node) bool {
	return c.admit(n, expect{
		cursors: []frontend.CursorKind{frontend.CursorTypedefDecl},
		types:   []frontend.TypeKind{frontend.TypeTypedef},
	})
}

func (typeAliasHandler) Explore(c *Context, n *Node) (cdecl.Node, error) {
	inner, err := c.VisitType(n, n.Cursor, n.Cursor.TypedefUnderlyingType(), 0, "")
	if err != nil {
		return nil, err
	}
	if inner.Name == n.Name {
		return nil, nil
	}

	return &cdecl.TypeAlias{
		Name:           n.Name,
		Location:       c.Location(n.Cursor),
		UnderlyingType: *inner,
	}, nil
}
