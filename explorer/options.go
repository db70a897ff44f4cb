package explorer

// Options is the exploration policy for one platform run.
type Options struct {
	// IncludeDirectories are stripped from locations to make them relative.
	IncludeDirectories []string
	// LinkedPaths maps a symlink directory created for framework search paths
	// to the directory it stands for.
	LinkedPaths map[string]string

	// FunctionNames is an allow-list of functions; empty allows every
	// function with external linkage.
	FunctionNames []string
	// BlockedHeaders drops top level declarations whose file matches.
	BlockedHeaders []string
	// OpaqueTypeNames are always explored as opaque types.
	OpaqueTypeNames []string
	// PassThroughTypeNames are typedefs kept as primitives under their own
	// name instead of being resolved, for example size_t.
	PassThroughTypeNames []string

	IncludeVariables          bool
	IncludeDanglingEnums      bool
	AllowUnderscoreNames      bool
	IncludeSystemDeclarations bool
}

// DefaultPassThroughTypeNames are the system typedefs whose width is part of
// their meaning and which bindings map directly.
var DefaultPassThroughTypeNames = []string{
	"int8_t", "int16_t", "int32_t", "int64_t",
	"uint8_t", "uint16_t", "uint32_t", "uint64_t",
	"intptr_t", "uintptr_t", "ptrdiff_t",
	"size_t", "ssize_t", "off_t", "pid_t", "time_t",
	"wchar_t", "bool", "va_list", "__builtin_va_list",
}

func set(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
