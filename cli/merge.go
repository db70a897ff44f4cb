package cli

import (
	"github.com/spf13/cobra"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/logger"
	"github.com/ardanlabs/c2ffi/merge"
)

func (a *app) mergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <model>...",
		Short: "Merge per platform declaration models into one model",
		Long: `Merge the declaration models written by extract, one per platform, into a
cross platform model written to <output>/model.<format>. The format of each
input follows its extension.

Examples:
  c2ffi merge models/x86_64-unknown-linux-gnu.json models/x86_64-pc-windows-msvc.json -o models`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asts := make([]*cdecl.AST, 0, len(args))
			for _, path := range args {
				ast, err := readAST(path)
				if err != nil {
					return err
				}
				asts = append(asts, ast)
			}

			model, err := merge.New(logger.Named("merge")).Merge(asts...)
			if err != nil {
				return err
			}
			report(a.log, model.Diagnostics)

			path := modelFile(a.cfg.Output.Directory, "model", a.cfg.Output.Format)
			if err := writeFile(path, a.cfg.Output.Format, model); err != nil {
				return err
			}
			a.log.Infow("wrote model", logger.FieldFile, path, logger.FieldCount, model.Len())

			return nil
		},
	}

	cmd.Flags().String("format", "", "Model format: json or yaml")
	cmd.Flags().StringP("output", "o", "", "Output directory")

	return cmd
}
