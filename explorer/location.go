package explorer

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
)

// Resolver rewrites front end file paths into stable, root relative paths.
type Resolver struct {
	roots []string
	links []link
}

type link struct {
	path   string
	target string
}

func NewResolver(includeDirs []string, linkedPaths map[string]string) *Resolver {
	r := &Resolver{}

	for _, dir := range includeDirs {
		if dir == "" {
			continue
		}
		r.roots = append(r.roots, filepath.Clean(dir))
	}

	for _, path := range slices.Sorted(maps.Keys(linkedPaths)) {
		r.links = append(r.links, link{path: filepath.Clean(path), target: filepath.Clean(linkedPaths[path])})
	}
	slices.SortStableFunc(r.links, func(a, b link) int {
		return cmp.Compare(len(b.path), len(a.path))
	})

	return r
}

// Location converts a front end location; locations without a file are
// builtins and have no location.
func (r *Resolver) Location(loc frontend.Location) cdecl.Location {
	if loc.File == "" {
		return cdecl.Location{}
	}
	return cdecl.Location{
		File:   r.Path(loc.File),
		Line:   loc.Line,
		Column: loc.Column,
	}
}

// Path rewrites a symlinked framework path to the directory the link stands
// for, then strips the first include root the path contains.
func (r *Resolver) Path(path string) string {
	path = filepath.ToSlash(filepath.Clean(path))

	for _, l := range r.links {
		lp := filepath.ToSlash(l.path)
		if path == lp || strings.HasPrefix(path, lp+"/") {
			path = filepath.ToSlash(l.target) + strings.TrimPrefix(path, lp)
			break
		}
	}

	for _, root := range r.roots {
		rp := filepath.ToSlash(root)
		if i := strings.Index(path, rp+"/"); i >= 0 {
			return path[i+len(rp)+1:]
		}
	}

	return path
}

// Blocked reports whether a file matches one of the blocked headers, either
// exactly, by its root relative path or by base name suffix.
func (r *Resolver) Blocked(file string, blocked []string) bool {
	if file == "" || len(blocked) == 0 {
		return false
	}
	abs := filepath.ToSlash(filepath.Clean(file))
	rel := r.Path(file)
	for _, b := range blocked {
		b = filepath.ToSlash(filepath.Clean(b))
		if abs == b || rel == b || strings.HasSuffix(abs, "/"+b) {
			return true
		}
	}
	return false
}
