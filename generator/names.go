package generator

import (
	"fmt"
	"go/token"
	"go/types"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/logger"
)

var acronyms = map[string]bool{
	"id":   true,
	"url":  true,
	"api":  true,
	"http": true,
	"json": true,
	"xml":  true,
	"sql":  true,
	"io":   true,
	"ip":   true,
	"tcp":  true,
	"udp":  true,
}

// toGoName turns a C identifier into an exported Go identifier: "ctx_open" is
// CtxOpen, "MAX_COUNT" is MaxCount and "http_url" is HTTPURL.
func toGoName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})

	var b strings.Builder
	for _, part := range parts {
		lower := strings.ToLower(part)
		switch {
		case acronyms[lower]:
			b.WriteString(strings.ToUpper(part))
		case strings.ToUpper(part) == part:
			b.WriteString(strings.ToUpper(part[:1]))
			b.WriteString(lower[1:])
		default:
			b.WriteString(strings.ToUpper(part[:1]))
			b.WriteString(part[1:])
		}
	}

	out := b.String()
	if out != "" && unicode.IsDigit(rune(out[0])) {
		out = "X" + out
	}
	return out
}

func toLowerCamel(name string) string {
	goName := toGoName(name)
	if goName == "" {
		return ""
	}
	runes := []rune(goName)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// Identifiers a wrapper body refers to besides its parameters.
var reservedLocals = map[string]bool{
	"result":    true,
	"resultPtr": true,
	"err":       true,
	"fmt":       true,
	"unsafe":    true,
	"ffi":       true,
	"unix":      true,
}

// paramNames names the parameters of a wrapper. Unnamed parameters become
// argN, and names that would shadow something the wrapper uses get a trailing
// underscore.
func paramNames(params []cdecl.Parameter) []string {
	names := make([]string, len(params))
	used := make(map[string]bool, len(params))
	for i, p := range params {
		name := toLowerCamel(p.Name)
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		for token.IsKeyword(name) || types.Universe.Lookup(name) != nil || reservedLocals[name] || used[name] {
			name += "_"
		}
		used[name] = true
		used[name+"Ptr"] = true
		names[i] = name
	}
	return names
}

type nameKey struct {
	class cdecl.Class
	name  string
}

// namer assigns every C name one Go identifier for the whole package, so a
// declaration and its references agree across platform files.
type namer struct {
	assigned map[nameKey]string
	used     map[string]nameKey
	log      *zap.SugaredLogger
}

func newNamer(log *zap.SugaredLogger) *namer {
	n := &namer{
		assigned: make(map[nameKey]string),
		used:     make(map[string]nameKey),
		log:      log,
	}
	for _, id := range []string{"Load", "FFIType"} {
		n.used[id] = nameKey{}
	}
	return n
}

func (n *namer) ident(class cdecl.Class, cName string) string {
	k := nameKey{class, cName}
	if id, ok := n.assigned[k]; ok {
		return id
	}

	base := toGoName(cName)
	if base == "" {
		base = "X"
	}
	id := base
	for {
		if _, taken := n.used[id]; !taken {
			break
		}
		id += "_"
	}
	if id != base {
		n.log.Warnw("renamed colliding Go identifier",
			logger.FieldName, cName,
			logger.FieldKind, class.String(),
			"go_name", id)
	}

	n.assigned[k] = id
	n.used[id] = k
	return id
}

func (n *namer) typeName(cName string) string {
	return n.ident(cdecl.ClassType, cName)
}
