package macro

import (
	"regexp"
	"strings"
)

var printfFormatRe = regexp.MustCompile(`^(PRI|SCN)[diouxX](8|16|32|64|LEAST(8|16|32|64)|FAST(8|16|32|64)|MAX|PTR)$`)
var reservedRe = regexp.MustCompile(`^__\w+__$`)
var apiDeclRe = regexp.MustCompile(`^\w+_API_DECL$`)
var pinvokeRe = regexp.MustCompile(`^PINVOKE_TARGET_\w*$`)

var denied = []*regexp.Regexp{printfFormatRe, reservedRe, apiDeclRe, pinvokeRe}

// deniedName reports whether a macro name is never worth evaluating: format
// specifier tables, reserved compiler names and export decoration macros.
func deniedName(name string) bool {
	if strings.HasPrefix(name, "_") {
		return true
	}
	for _, re := range denied {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// cleanTokens drops the macro name and the line continuation artifacts the
// tokenizer leaves at the start of tokens.
func cleanTokens(name string, tokens []string) []string {
	if len(tokens) > 0 && tokens[0] == name {
		tokens = tokens[1:]
	}

	var out []string
	for _, tok := range tokens {
		tok = strings.TrimLeft(tok, `\`)
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}
