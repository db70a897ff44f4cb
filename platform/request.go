// Package platform runs the header pipeline once per target platform: build
// compiler arguments, parse, fold macros and explore. Platforms run
// concurrently and independently; a failing platform leaves the others
// untouched.
package platform

import (
	"github.com/cockroachdb/errors"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/explorer"
	"github.com/ardanlabs/c2ffi/macro"
)

// Request describes one extraction across platforms.
type Request struct {
	Header    string
	Platforms []cdecl.Platform

	IncludeDirectories       []string
	SystemIncludeDirectories []string
	// ClangResourceRoots are directories holding versioned clang resource
	// directories, such as /usr/lib/clang. The newest one's include
	// directory is added as a system include.
	ClangResourceRoots   []string
	Frameworks           []string
	FrameworkDirectories []string
	Defines              []string
	// ExtraArgs is a shell quoted string of raw compiler arguments.
	ExtraArgs string

	Explorer explorer.Options
	Macros   macro.Options

	// Parallelism bounds the platforms explored at once; zero means
	// GOMAXPROCS.
	Parallelism int
}

func (r Request) validate() error {
	if r.Header == "" {
		return errors.WithHint(errors.New("no header to explore"), "set the header path")
	}
	seen := make(map[cdecl.Platform]bool)
	for _, p := range r.Platforms {
		if seen[p] {
			return errors.Newf("platform %s requested twice", p)
		}
		seen[p] = true
		if _, err := p.Triple(); err != nil {
			return err
		}
	}
	return nil
}

// Result is the outcome of one platform.
type Result struct {
	Platform    cdecl.Platform
	AST         *cdecl.AST
	Diagnostics []cdecl.Diagnostic
	Err         error
}
