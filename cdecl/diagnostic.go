package cdecl

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

type Severity int

const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "note"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "note":
		*s = SeverityNote
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return errors.Newf("unknown severity %q", text)
	}
	return nil
}

// Diagnostic is a reportable, non-fatal finding.
type Diagnostic struct {
	Severity  Severity   `json:"severity" yaml:"severity"`
	Message   string     `json:"message" yaml:"message"`
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Platforms []Platform `json:"platforms,omitempty" yaml:"platforms,omitempty"`
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", d.Severity, d.Message)
	if len(d.Platforms) > 0 {
		ps := make([]string, len(d.Platforms))
		for i, p := range d.Platforms {
			ps[i] = string(p)
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(ps, ", "))
	}
	return b.String()
}

// ErrUnsupportedType marks a type or cursor the explorer cannot represent.
var ErrUnsupportedType = errors.New("unsupported C construct")
