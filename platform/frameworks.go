package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/ardanlabs/c2ffi/cdecl"
)

// frameworkLinks is a scratch directory in which every framework's Headers
// directory is linked under the framework name, so that <Name/Header.h>
// resolves through a plain -I.
type frameworkLinks struct {
	Dir string
	// Links maps each link to the Headers directory it stands for.
	Links map[string]string
}

// linkFrameworks creates the links for names found in dirs. Frameworks that
// cannot be found are reported as warnings. The caller removes the directory.
func linkFrameworks(base string, p cdecl.Platform, names, dirs []string) (*frameworkLinks, []cdecl.Diagnostic, error) {
	dir, err := os.MkdirTemp(base, "c2ffi-frameworks-*")
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating framework link directory")
	}

	fl := &frameworkLinks{Dir: dir, Links: make(map[string]string)}
	var diags []cdecl.Diagnostic

	for _, name := range names {
		headers, ok := findFramework(name, dirs)
		if !ok {
			diags = append(diags, cdecl.Diagnostic{
				Severity:  cdecl.SeverityWarning,
				Message:   fmt.Sprintf("framework %q not found", name),
				Name:      name,
				Platforms: []cdecl.Platform{p},
			})
			continue
		}

		link := filepath.Join(dir, name)
		if err := os.Symlink(headers, link); err != nil {
			os.RemoveAll(dir)
			return nil, nil, errors.Wrapf(err, "linking framework %q", name)
		}
		fl.Links[link] = headers
	}

	return fl, diags, nil
}

func findFramework(name string, dirs []string) (string, bool) {
	for _, dir := range dirs {
		headers := filepath.Join(dir, name+".framework", "Headers")
		if isDir(headers) {
			return headers, true
		}
	}
	return "", false
}

func (fl *frameworkLinks) remove() {
	if fl != nil {
		os.RemoveAll(fl.Dir)
	}
}
