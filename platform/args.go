package platform

import (
	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"

	"github.com/ardanlabs/c2ffi/cdecl"
)

// Args builds the compiler arguments for one platform. systemIncludes are the
// system include directories that exist; frameworkDir is the directory of
// framework links, or empty.
func (r Request) Args(p cdecl.Platform, systemIncludes []string, frameworkDir string) ([]string, error) {
	args := []string{"-xc", "-std=c11", "--target=" + string(p)}

	for _, dir := range r.IncludeDirectories {
		args = append(args, "-I"+dir)
	}
	if frameworkDir != "" {
		args = append(args, "-I"+frameworkDir)
	}
	for _, dir := range systemIncludes {
		args = append(args, "-isystem", dir)
	}
	for _, d := range r.Defines {
		args = append(args, "-D"+d)
	}

	if r.ExtraArgs != "" {
		extra, err := shellquote.Split(r.ExtraArgs)
		if err != nil {
			return nil, errors.WithHint(
				errors.Wrapf(err, "splitting extra compiler arguments %q", r.ExtraArgs),
				"quote arguments the way a POSIX shell would")
		}
		args = append(args, extra...)
	}

	return args, nil
}
