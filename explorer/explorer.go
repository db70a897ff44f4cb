// Package explorer turns a parsed translation unit into the flat, name keyed
// declaration set of one platform.
//
// Exploration is a queue drain. Top level functions, variables, enums and
// evaluated macros seed three FIFO queues; the variables queue is drained
// first, then functions, then types. Handlers never recurse into referenced
// declarations: Context.VisitType describes them by name and enqueues them on
// the type queue, which keeps self referential structures finite.
package explorer

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
	"github.com/ardanlabs/c2ffi/logger"
)

type Explorer struct {
	opts       Options
	log        *zap.SugaredLogger
	classifier *Classifier
	resolver   *Resolver
}

func New(opts Options, log *zap.SugaredLogger) *Explorer {
	return &Explorer{
		opts:       opts,
		log:        logger.OrNop(log),
		classifier: NewClassifier(opts.OpaqueTypeNames, opts.PassThroughTypeNames),
		resolver:   NewResolver(opts.IncludeDirectories, opts.LinkedPaths),
	}
}

// Resolver returns the location resolver the explorer rewrites paths with.
func (e *Explorer) Resolver() *Resolver {
	return e.resolver
}

// Explore walks the translation unit and returns its declarations. Any
// classifier or handler failure aborts the exploration; no partial result is
// returned.
func (e *Explorer) Explore(ctx context.Context, tu frontend.TranslationUnit, platform cdecl.Platform, macros []*cdecl.MacroObject) (*cdecl.AST, error) {
	if tu == nil {
		return nil, errors.AssertionFailedf("nil translation unit")
	}

	c := newContext(e, platform)

	if err := c.seed(tu.Cursor(), macros); err != nil {
		return nil, errors.Wrap(err, "seeding queues")
	}
	c.log.Debugw("seeded queues",
		"variables", c.queues[phaseVariables].len(),
		"functions", c.queues[phaseFunctions].len(),
		"types", c.queues[phaseTypes].len())

	for p := phaseVariables; p < phaseDone; p++ {
		c.phase = p
		q := c.queues[p]
		for n, ok := q.pop(); ok; n, ok = q.pop() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := c.visit(n); err != nil {
				return nil, errors.Wrapf(err, "exploring %s for %s", describe(n), platform)
			}
		}
	}
	c.phase = phaseDone

	c.log.Infow("explored translation unit", logger.FieldCount, c.ast.Len())
	return c.ast, nil
}

func describe(n *Node) string {
	return fmt.Sprintf("%s %q", n.Kind, n.Name)
}

func (c *Context) visit(n *Node) error {
	h, ok := handlers[n.Kind]
	if !ok {
		return errors.Mark(errors.AssertionFailedf("no handler for %s", describe(n)), ErrInvariant)
	}
	if needsType(n.Kind) && (n.Type == nil || n.Type.Kind() == frontend.TypeInvalid) {
		return errors.Mark(errors.AssertionFailedf("%s reached its handler without a type", describe(n)), ErrInvariant)
	}

	if !h.CanVisit(c, n) {
		return nil
	}

	decl, err := h.Explore(c, n)
	if err != nil {
		return err
	}
	if decl == nil {
		return nil
	}

	c.markVisited(decl)
	if err := c.ast.Add(decl); err != nil {
		return err
	}

	c.log.Debugw("explored", logger.FieldName, n.Name, logger.FieldKind, decl.NodeKind().String())
	return nil
}

// seed fills the queues from the top level cursors of the translation unit.
func (c *Context) seed(root frontend.Cursor, macros []*cdecl.MacroObject) error {
	top := root.Children()
	typedefEnums := anonymousEnumTypedefs(top)

	for _, cur := range top {
		if cur.Location().InSystemHeader && !c.opts.IncludeSystemDeclarations {
			continue
		}

		var err error
		switch cur.Kind() {
		case frontend.CursorFunctionDecl:
			if cur.Linkage() != frontend.LinkageExternal {
				continue
			}
			err = c.enqueue(&Node{Kind: cdecl.KindFunction, Name: cur.Spelling(), Cursor: cur, Type: functionType(cur.Type())})

		case frontend.CursorVarDecl:
			if !c.opts.IncludeVariables || cur.Linkage() != frontend.LinkageExternal {
				continue
			}
			err = c.enqueue(&Node{Kind: cdecl.KindVariable, Name: cur.Spelling(), Cursor: cur, Type: cur.Type()})

		case frontend.CursorEnumDecl:
			err = c.seedEnum(cur, typedefEnums)
		}
		if err != nil {
			return err
		}
	}

	for _, m := range macros {
		if err := c.enqueue(&Node{Kind: cdecl.KindMacroObject, Name: m.Name, Macro: m}); err != nil {
			return err
		}
	}

	return nil
}

// functionType removes the attribute layer calling convention attributes put
// around a function type.
func functionType(t frontend.Type) frontend.Type {
	for t.Kind() == frontend.TypeAttributed {
		t = t.Modified()
	}
	return t
}

func (c *Context) seedEnum(cur frontend.Cursor, typedefEnums map[string]string) error {
	name := cur.Spelling()
	anonymous := cur.IsAnonymous() || isAnonymous(name)

	if !anonymous {
		if !c.opts.IncludeDanglingEnums {
			return nil
		}
		return c.enqueue(&Node{Kind: cdecl.KindEnum, Name: name, Cursor: cur, Type: cur.Type()})
	}

	// typedef enum {...} name; is reached through its typedef.
	if alias, ok := typedefEnums[enumKey(cur)]; ok {
		if !c.opts.IncludeDanglingEnums {
			return nil
		}
		return c.enqueue(&Node{Kind: cdecl.KindEnum, Name: alias, Cursor: cur, Type: cur.Type()})
	}

	var constants []frontend.Cursor
	var names []string
	for _, ch := range cur.Children() {
		if ch.Kind() == frontend.CursorEnumConstantDecl {
			constants = append(constants, ch)
			names = append(names, ch.Spelling())
		}
	}

	if derived, ok := EnumNameFromConstants(names); ok {
		return c.enqueue(&Node{Kind: cdecl.KindEnum, Name: derived, Cursor: cur, Type: cur.Type()})
	}

	integer := cur.EnumIntegerType()
	for _, k := range constants {
		if err := c.enqueue(&Node{Kind: cdecl.KindEnumConstant, Name: k.Spelling(), Cursor: k, Type: integer}); err != nil {
			return err
		}
	}
	return nil
}

// anonymousEnumTypedefs maps anonymous enums declared by a typedef to the
// typedef name.
func anonymousEnumTypedefs(top []frontend.Cursor) map[string]string {
	out := make(map[string]string)
	for _, cur := range top {
		if cur.Kind() != frontend.CursorTypedefDecl {
			continue
		}
		u := unwrap(cur.TypedefUnderlyingType())
		if u.Kind() != frontend.TypeEnum {
			continue
		}
		decl := u.Declaration()
		if decl.IsAnonymous() || isAnonymous(decl.Spelling()) {
			out[enumKey(decl)] = cur.Spelling()
		}
	}
	return out
}

func enumKey(cur frontend.Cursor) string {
	loc := cur.Location()
	return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Column)
}
