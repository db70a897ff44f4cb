package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/ardanlabs/c2ffi/cdecl"
)

// systemIncludes returns the configured system include directories that exist,
// followed by the newest clang resource include directory. Missing
// directories are reported as warnings; when none of the configured ones
// exist the report is an error diagnostic.
func systemIncludes(p cdecl.Platform, dirs, resourceRoots []string) ([]string, []cdecl.Diagnostic) {
	var found []string
	var diags []cdecl.Diagnostic

	for _, dir := range dirs {
		if isDir(dir) {
			found = append(found, dir)
			continue
		}
		diags = append(diags, cdecl.Diagnostic{
			Severity:  cdecl.SeverityWarning,
			Message:   fmt.Sprintf("system include directory %q does not exist", dir),
			Platforms: []cdecl.Platform{p},
		})
	}

	if len(dirs) > 0 && len(found) == 0 {
		diags = append(diags, cdecl.Diagnostic{
			Severity:  cdecl.SeverityError,
			Message:   "none of the configured system include directories exist",
			Platforms: []cdecl.Platform{p},
		})
	}

	if dir, ok := ClangResourceInclude(resourceRoots); ok {
		found = append(found, dir)
	}

	return found, diags
}

// ClangResourceInclude finds the include directory of the newest clang
// resource directory under roots. Resource directories are named by version,
// as in /usr/lib/clang/13.0.1/include.
func ClangResourceInclude(roots []string) (string, bool) {
	var best *semver.Version
	var bestDir string

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			v, err := semver.NewVersion(e.Name())
			if err != nil {
				continue
			}
			include := filepath.Join(root, e.Name(), "include")
			if !isDir(include) {
				continue
			}
			if best == nil || v.GreaterThan(best) {
				best, bestDir = v, include
			}
		}
	}

	return bestDir, best != nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
