// Package config loads c2ffi settings from an optional config file, C2FFI_*
// environment variables and command line flags, in increasing precedence.
package config

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/explorer"
	"github.com/ardanlabs/c2ffi/macro"
	"github.com/ardanlabs/c2ffi/platform"
)

const EnvPrefix = "C2FFI"

// Output formats for declaration models.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Config struct {
	Header      string   `mapstructure:"header"`
	Platforms   []string `mapstructure:"platforms"`
	Parallelism int      `mapstructure:"parallelism"`

	Compiler CompilerConfig `mapstructure:"compiler"`
	Explorer ExplorerConfig `mapstructure:"explorer"`
	Macros   MacroConfig    `mapstructure:"macros"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
}

type CompilerConfig struct {
	IncludeDirectories       []string `mapstructure:"include_directories"`
	SystemIncludeDirectories []string `mapstructure:"system_include_directories"`
	ClangResourceRoots       []string `mapstructure:"clang_resource_roots"`
	Frameworks               []string `mapstructure:"frameworks"`
	FrameworkDirectories     []string `mapstructure:"framework_directories"`
	Defines                  []string `mapstructure:"defines"`
	// Args is a shell quoted string of extra compiler arguments.
	Args string `mapstructure:"args"`
}

type ExplorerConfig struct {
	FunctionNames             []string `mapstructure:"function_names"`
	BlockedHeaders            []string `mapstructure:"blocked_headers"`
	OpaqueTypeNames           []string `mapstructure:"opaque_type_names"`
	PassThroughTypeNames      []string `mapstructure:"pass_through_type_names"`
	IncludeVariables          bool     `mapstructure:"include_variables"`
	IncludeDanglingEnums      bool     `mapstructure:"include_dangling_enums"`
	AllowUnderscoreNames      bool     `mapstructure:"allow_underscore_names"`
	IncludeSystemDeclarations bool     `mapstructure:"include_system_declarations"`
}

type MacroConfig struct {
	IncludeSystemMacros bool `mapstructure:"include_system_macros"`
}

type OutputConfig struct {
	Format    string `mapstructure:"format"`
	Directory string `mapstructure:"directory"`
	Package   string `mapstructure:"package"`
	Library   string `mapstructure:"library"`
}

type LogConfig struct {
	JSON      bool `mapstructure:"json"`
	Verbosity int  `mapstructure:"verbosity"`
}

// New returns a viper instance reading C2FFI_* environment variables, with
// defaults set. Nested keys use underscores: C2FFI_EXPLORER_INCLUDE_VARIABLES.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("header", "")
	v.SetDefault("platforms", []string{string(platform.HostPlatform())})
	v.SetDefault("parallelism", 0)

	v.SetDefault("compiler.include_directories", []string{})
	v.SetDefault("compiler.system_include_directories", []string{})
	v.SetDefault("compiler.clang_resource_roots", []string{"/usr/lib/clang", "/usr/local/lib/clang"})
	v.SetDefault("compiler.frameworks", []string{})
	v.SetDefault("compiler.framework_directories", []string{"/System/Library/Frameworks", "/Library/Frameworks"})
	v.SetDefault("compiler.defines", []string{})
	v.SetDefault("compiler.args", "")

	v.SetDefault("explorer.function_names", []string{})
	v.SetDefault("explorer.blocked_headers", []string{})
	v.SetDefault("explorer.opaque_type_names", []string{})
	v.SetDefault("explorer.pass_through_type_names", explorer.DefaultPassThroughTypeNames)
	v.SetDefault("explorer.include_variables", true)
	v.SetDefault("explorer.include_dangling_enums", true)
	v.SetDefault("explorer.allow_underscore_names", false)
	v.SetDefault("explorer.include_system_declarations", false)

	v.SetDefault("macros.include_system_macros", false)

	v.SetDefault("output.format", FormatJSON)
	v.SetDefault("output.directory", ".")
	v.SetDefault("output.package", "bindings")
	v.SetDefault("output.library", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// Load reads the config file at path, when given, into v and decodes the
// merged settings.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Parallelism < 0 {
		return errors.Newf("parallelism must not be negative, got %d", c.Parallelism)
	}
	if !slices.Contains([]string{FormatJSON, FormatYAML}, c.Output.Format) {
		return errors.WithHint(
			errors.Newf("unknown output format %q", c.Output.Format),
			"use json or yaml")
	}
	for _, p := range c.Platforms {
		if _, err := cdecl.ParsePlatform(p); err != nil {
			return err
		}
	}
	return nil
}

// Request converts the settings into a platform request.
func (c *Config) Request() (platform.Request, error) {
	if err := c.Validate(); err != nil {
		return platform.Request{}, err
	}

	platforms := make([]cdecl.Platform, len(c.Platforms))
	for i, p := range c.Platforms {
		platforms[i] = cdecl.Platform(p)
	}

	return platform.Request{
		Header:                   c.Header,
		Platforms:                platforms,
		IncludeDirectories:       c.Compiler.IncludeDirectories,
		SystemIncludeDirectories: c.Compiler.SystemIncludeDirectories,
		ClangResourceRoots:       c.Compiler.ClangResourceRoots,
		Frameworks:               c.Compiler.Frameworks,
		FrameworkDirectories:     c.Compiler.FrameworkDirectories,
		Defines:                  c.Compiler.Defines,
		ExtraArgs:                c.Compiler.Args,
		Explorer: explorer.Options{
			FunctionNames:             c.Explorer.FunctionNames,
			BlockedHeaders:            c.Explorer.BlockedHeaders,
			OpaqueTypeNames:           c.Explorer.OpaqueTypeNames,
			PassThroughTypeNames:      c.Explorer.PassThroughTypeNames,
			IncludeVariables:          c.Explorer.IncludeVariables,
			IncludeDanglingEnums:      c.Explorer.IncludeDanglingEnums,
			AllowUnderscoreNames:      c.Explorer.AllowUnderscoreNames,
			IncludeSystemDeclarations: c.Explorer.IncludeSystemDeclarations,
		},
		Macros: macro.Options{
			IncludeSystemMacros: c.Macros.IncludeSystemMacros,
			BlockedHeaders:      c.Explorer.BlockedHeaders,
		},
		Parallelism: c.Parallelism,
	}, nil
}
