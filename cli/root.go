// Package cli wires the c2ffi commands: extract explores a header per
// platform, merge folds per platform models into one cross platform model and
// generate runs the whole pipeline down to Go bindings.
package cli

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ardanlabs/c2ffi/config"
	"github.com/ardanlabs/c2ffi/frontend"
	"github.com/ardanlabs/c2ffi/logger"
)

// flagKeys maps command line flags onto configuration keys. A flag overrides
// the config file and environment only when it is set.
var flagKeys = map[string]string{
	"verbose":     "log.verbosity",
	"log-json":    "log.json",
	"header":      "header",
	"platform":    "platforms",
	"parallelism": "parallelism",
	"include":     "compiler.include_directories",
	"isystem":     "compiler.system_include_directories",
	"define":      "compiler.defines",
	"framework":   "compiler.frameworks",
	"args":        "compiler.args",
	"function":    "explorer.function_names",
	"opaque":      "explorer.opaque_type_names",
	"block":       "explorer.blocked_headers",
	"format":      "output.format",
	"output":      "output.directory",
	"package":     "output.package",
	"lib":         "output.library",
}

type app struct {
	v      *viper.Viper
	parser frontend.Parser

	configPath string
	cfg        *config.Config
	log        *zap.SugaredLogger
}

// NewRootCmd returns the c2ffi command tree parsing headers with parser.
func NewRootCmd(parser frontend.Parser) *cobra.Command {
	a := &app{v: config.New(), parser: parser}

	root := &cobra.Command{
		Use:   "c2ffi",
		Short: "Explore C headers and generate Go FFI bindings",
		Long: `c2ffi parses a C header with libclang once per target platform, reduces
it to the declarations a binding needs and generates Go code calling the
library through github.com/jupiterrider/ffi.

Settings come from an optional config file (--config), C2FFI_* environment
variables and flags, in increasing precedence.

Examples:
  c2ffi extract --header include/demo.h -p x86_64-unknown-linux-gnu -p x86_64-pc-windows-msvc -o models
  c2ffi merge models/*.json -o models
  c2ffi generate --config c2ffi.yaml -vv`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Cleanup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (YAML, TOML or JSON)")
	root.PersistentFlags().CountP("verbose", "v", "Increase verbosity (-v info, -vv debug)")
	root.PersistentFlags().Bool("log-json", false, "Log as JSON")

	root.AddCommand(a.extractCmd(), a.mergeCmd(), a.generateCmd())

	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := bindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Verbosity); err != nil {
		return errors.Wrap(err, "initialize logger")
	}

	a.cfg = cfg
	a.log = logger.Named("cli").With("command", cmd.Name())
	return nil
}

// bindFlags binds the flags of the command being run. Commands share keys, so
// binding happens per invocation rather than when the tree is built.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		err = v.BindPFlag(key, f)
	})
	return errors.Wrap(err, "bind flags")
}

func addExploreFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("header", "", "Header file to explore")
	f.StringSliceP("platform", "p", nil, "Target platform triple (repeatable, default host)")
	f.Int("parallelism", 0, "Platforms explored at once (default GOMAXPROCS)")
	f.StringSliceP("include", "I", nil, "User include directory (repeatable)")
	f.StringSlice("isystem", nil, "System include directory (repeatable)")
	f.StringSliceP("define", "D", nil, "Preprocessor definition NAME[=VALUE] (repeatable)")
	f.StringSlice("framework", nil, "Apple framework to link (repeatable)")
	f.String("args", "", "Extra compiler arguments, shell quoted")
	f.StringSlice("function", nil, "Only keep these functions (repeatable)")
	f.StringSlice("opaque", nil, "Treat these records as opaque (repeatable)")
	f.StringSlice("block", nil, "Drop declarations from these headers (repeatable)")
}

// PrintError writes err followed by the details attached to it, such as the
// formatted compiler diagnostics of a failed parse.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
	for _, e := range multierr.Errors(err) {
		for _, detail := range errors.GetAllDetails(e) {
			fmt.Fprintln(w, detail)
		}
	}
}
