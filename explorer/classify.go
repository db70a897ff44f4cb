package explorer

import (
	"github.com/cockroachdb/errors"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
)

// Classifier maps front end types onto declaration kinds.
type Classifier struct {
	opaque      map[string]bool
	passThrough map[string]bool
}

func NewClassifier(opaqueNames, passThroughNames []string) *Classifier {
	return &Classifier{
		opaque:      set(opaqueNames),
		passThrough: set(passThroughNames),
	}
}

// Classify returns the kind of t and the type the kind was decided on, after
// unwrapping elaborated, attributed and unexposed layers. For function
// pointers the returned type is the function type. parent is the kind of the
// declaration t is referenced from, or KindUnknown.
func (cl *Classifier) Classify(t frontend.Type, parent cdecl.Kind) (cdecl.Kind, frontend.Type, error) {
	k := t.Kind()

	switch {
	case k.IsPrimitive():
		return cdecl.KindPrimitive, t, nil

	case k == frontend.TypeEnum:
		return cdecl.KindEnum, t, nil

	case k == frontend.TypeRecord:
		if cl.opaque[tagName(t.Spelling())] || t.SizeOf() == frontend.SizeIncomplete {
			return cdecl.KindOpaqueType, t, nil
		}
		if t.Declaration().Kind() == frontend.CursorUnionDecl {
			return cdecl.KindUnion, t, nil
		}
		return cdecl.KindStruct, t, nil

	case k == frontend.TypeTypedef:
		name := t.Spelling()
		if cl.passThrough[name] {
			return cdecl.KindPrimitive, t, nil
		}
		if cl.opaque[name] {
			return cdecl.KindOpaqueType, t, nil
		}

		underlying := t.Declaration().TypedefUnderlyingType()
		if underlying.Kind() == frontend.TypePointer {
			return cdecl.KindTypeAlias, t, nil
		}

		uk, _, err := cl.Classify(underlying, cdecl.KindTypeAlias)
		if err != nil {
			return cdecl.KindUnknown, nil, errors.Wrapf(err, "typedef %q", name)
		}
		if uk == cdecl.KindOpaqueType || underlying.SizeOf() == frontend.SizeIncomplete {
			return cdecl.KindOpaqueType, t, nil
		}
		return cdecl.KindTypeAlias, t, nil

	case k.IsFunction():
		if parent == cdecl.KindTypeAlias {
			return cdecl.KindFunctionPointer, t, nil
		}
		return cdecl.KindFunction, t, nil

	case k == frontend.TypePointer:
		pointee := t.Pointee()
		if pointee.Kind() == frontend.TypeAttributed {
			pointee = pointee.Modified()
		}
		if pointee.Kind() == frontend.TypeUnexposed {
			pointee = pointee.Canonical()
		}
		if pointee.Kind().IsFunction() {
			return cdecl.KindFunctionPointer, pointee, nil
		}
		return cdecl.KindPointer, t, nil

	case k == frontend.TypeAttributed:
		return cl.Classify(t.Modified(), parent)

	case k == frontend.TypeElaborated:
		return cl.Classify(t.Named(), parent)

	case k == frontend.TypeConstantArray, k == frontend.TypeIncompleteArray:
		return cdecl.KindArray, t, nil

	case k == frontend.TypeUnexposed:
		canonical := t.Canonical()
		if canonical.Kind() != frontend.TypeUnexposed {
			return cl.Classify(canonical, parent)
		}
	}

	return cdecl.KindUnknown, nil, errors.Mark(
		errors.Newf("cannot classify type %q of kind %s", t.Spelling(), k),
		cdecl.ErrUnsupportedType)
}
