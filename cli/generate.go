package cli

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/generator"
	"github.com/ardanlabs/c2ffi/logger"
	"github.com/ardanlabs/c2ffi/merge"
)

func (a *app) generateCmd() *cobra.Command {
	var saveModel bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Explore a header on every platform and generate Go bindings",
		Long: `Explore a header once per target platform, merge the results and write Go
bindings for the library to the output directory. Every platform must
succeed; bindings missing a platform would not build there.

The library name defaults to the header name without its extension, so
include/demo.h loads libdemo.so, libdemo.dylib or demo.dll.

Examples:
  c2ffi generate --header include/demo.h -p x86_64-unknown-linux-gnu -p aarch64-apple-darwin -o bindings
  c2ffi generate --config c2ffi.yaml --package demo --lib demo --save-model`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.explore(cmd.Context())
			if err != nil {
				return err
			}

			asts := make([]*cdecl.AST, len(results))
			for i, r := range results {
				asts[i] = r.AST
			}

			model, err := merge.New(logger.Named("merge")).Merge(asts...)
			if err != nil {
				return err
			}
			report(a.log, model.Diagnostics)

			out := a.cfg.Output
			if err := os.MkdirAll(out.Directory, 0755); err != nil {
				return errors.Wrap(err, "create output directory")
			}

			if saveModel {
				path := modelFile(out.Directory, "model", out.Format)
				if err := writeFile(path, out.Format, model); err != nil {
					return err
				}
			}

			libName := out.Library
			if libName == "" {
				base := filepath.Base(a.cfg.Header)
				libName = base[:len(base)-len(filepath.Ext(base))]
			}

			gen := generator.New(out.Package, libName, model, logger.Logger)
			gen.Dir = out.Directory

			files, err := gen.Generate()
			if err != nil {
				return errors.Wrap(err, "generating code")
			}

			for _, name := range slices.Sorted(maps.Keys(files)) {
				path := filepath.Join(out.Directory, name)
				if err := os.WriteFile(path, []byte(files[name]), 0644); err != nil {
					return errors.Wrapf(err, "writing %s", name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generated: %s\n", path)
			}

			return nil
		},
	}

	addExploreFlags(cmd)
	cmd.Flags().String("format", "", "Model format for --save-model: json or yaml")
	cmd.Flags().StringP("output", "o", "", "Output directory for generated Go files")
	cmd.Flags().String("package", "", "Go package name")
	cmd.Flags().String("lib", "", "Library name (e.g., 'mylib' for libmylib.so)")
	cmd.Flags().BoolVar(&saveModel, "save-model", false, "Also write the merged model to the output directory")

	return cmd
}
