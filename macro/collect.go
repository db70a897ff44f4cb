// Package macro folds object-like macro definitions into typed constants.
//
// Collect picks candidate macros from a parsed header. Evaluate hands them
// back to the compiler front end inside a synthetic translation unit, so the
// values are whatever the compiler computes for the target platform.
package macro

import (
	"strings"

	"github.com/ardanlabs/c2ffi/explorer"
	"github.com/ardanlabs/c2ffi/frontend"
)

type Options struct {
	IncludeSystemMacros bool
	BlockedHeaders      []string
}

// Candidate is a macro definition that may fold to a constant.
type Candidate struct {
	Name     string
	Location frontend.Location
	Tokens   []string
}

// Expression is the C expression the candidate expands to.
func (c Candidate) Expression() string {
	return strings.Join(c.Tokens, " ")
}

// Collect returns the object-like macros defined in the main file, and in
// system headers when enabled, in definition order. A redefinition keeps the
// first definition.
func Collect(root frontend.Cursor, opts Options, resolver *explorer.Resolver) []Candidate {
	var out []Candidate
	seen := make(map[string]bool)

	for _, cur := range root.Children() {
		if cur.Kind() != frontend.CursorMacroDefinition {
			continue
		}
		if cur.IsMacroFunctionLike() || cur.IsMacroBuiltin() {
			continue
		}

		loc := cur.Location()
		if loc.File == "" {
			continue
		}
		if !loc.InMainFile && !(loc.InSystemHeader && opts.IncludeSystemMacros) {
			continue
		}

		name := cur.Spelling()
		if seen[name] || deniedName(name) {
			continue
		}
		if resolver.Blocked(loc.File, opts.BlockedHeaders) {
			continue
		}

		tokens := cleanTokens(name, cur.Tokens())
		if len(tokens) == 0 {
			continue
		}

		seen[name] = true
		out = append(out, Candidate{Name: name, Location: loc, Tokens: tokens})
	}

	return out
}
