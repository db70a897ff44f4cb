package cdecl

import "fmt"

// Location is a source position. The zero value means "no location" and is
// used for builtins.
type Location struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty"`
}

func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0
}

func (l Location) String() string {
	if l.IsZero() {
		return "<builtin>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}
