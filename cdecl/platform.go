package cdecl

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Platform is a target triple such as "x86_64-unknown-linux-gnu" or
// "aarch64-apple-darwin".
type Platform string

var knownSystems = map[string]bool{
	"linux":      true,
	"darwin":     true,
	"macos":      true,
	"ios":        true,
	"windows":    true,
	"android":    true,
	"freebsd":    true,
	"emscripten": true,
	"wasi":       true,
}

// Triple is the parsed form of a Platform.
type Triple struct {
	Arch   string
	Vendor string
	OS     string
	Env    string
}

func ParsePlatform(s string) (Triple, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) < 2 || parts[0] == "" {
		return Triple{}, errors.Newf("invalid target platform %q: expected arch-vendor-os[-env]", s)
	}

	t := Triple{Arch: parts[0]}
	rest := parts[1:]
	if !knownSystems[normalizeSystem(rest[0])] && len(rest) > 1 {
		t.Vendor = rest[0]
		rest = rest[1:]
	}
	t.OS = normalizeSystem(rest[0])
	if len(rest) > 1 {
		t.Env = strings.Join(rest[1:], "-")
	}
	if !knownSystems[t.OS] {
		return Triple{}, errors.Newf("invalid target platform %q: unknown operating system %q", s, t.OS)
	}

	return t, nil
}

func normalizeSystem(s string) string {
	switch {
	case strings.HasPrefix(s, "darwin"), strings.HasPrefix(s, "macos"):
		return "darwin"
	case strings.HasPrefix(s, "ios"):
		return "ios"
	}
	return s
}

func (p Platform) Triple() (Triple, error) {
	return ParsePlatform(string(p))
}

// GOOS maps the platform to the Go operating system name, or "" when the
// platform has no Go counterpart.
func (t Triple) GOOS() string {
	switch t.OS {
	case "emscripten":
		return "js"
	case "wasi":
		return "wasip1"
	}
	return t.OS
}

// GOARCH maps the platform architecture to the Go architecture name.
func (t Triple) GOARCH() string {
	switch t.Arch {
	case "x86_64", "amd64":
		return "amd64"
	case "aarch64", "arm64":
		return "arm64"
	case "i386", "i486", "i586", "i686", "x86":
		return "386"
	case "wasm32":
		return "wasm"
	}
	if strings.HasPrefix(t.Arch, "armv7") || t.Arch == "arm" {
		return "arm"
	}
	return t.Arch
}

// IsApple reports whether the platform uses Apple frameworks.
func (t Triple) IsApple() bool {
	return t.OS == "darwin" || t.OS == "ios" || t.Vendor == "apple"
}

func SortPlatforms(ps []Platform) {
	slices.Sort(ps)
}
