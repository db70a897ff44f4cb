package cli

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/logger"
	"github.com/ardanlabs/c2ffi/platform"
)

func (a *app) extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Explore a header and write one declaration model per platform",
		Long: `Explore a header once per target platform and write each declaration
model to <output>/<platform>.<format>.

Platforms that fail are reported and the others are still written.

Examples:
  c2ffi extract --header include/demo.h -o models
  c2ffi extract --header demo.h -p aarch64-apple-darwin --framework CoreFoundation --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, runErr := a.explore(cmd.Context())
			if results == nil {
				return runErr
			}

			for _, r := range results {
				if r.AST == nil {
					continue
				}
				path := modelFile(a.cfg.Output.Directory, string(r.Platform), a.cfg.Output.Format)
				if err := writeFile(path, a.cfg.Output.Format, r.AST); err != nil {
					return err
				}
				a.log.Infow("wrote declarations", logger.FieldPlatform, string(r.Platform), logger.FieldFile, path, logger.FieldCount, r.AST.Len())
			}

			return runErr
		},
	}

	addExploreFlags(cmd)
	cmd.Flags().String("format", "", "Model format: json or yaml")
	cmd.Flags().StringP("output", "o", "", "Output directory")

	return cmd
}

// explore runs the platform orchestrator with the loaded settings and reports
// the diagnostics of every platform.
func (a *app) explore(ctx context.Context) ([]platform.Result, error) {
	if a.cfg.Header == "" {
		return nil, errors.WithHint(errors.New("no header given"), "pass --header or set header in the config file")
	}

	req, err := a.cfg.Request()
	if err != nil {
		return nil, err
	}

	results, err := platform.New(a.parser, logger.Named("platform")).Run(ctx, req)
	for _, r := range results {
		report(a.log, r.Diagnostics)
	}
	return results, err
}

func report(log *zap.SugaredLogger, diags []cdecl.Diagnostic) {
	for _, d := range diags {
		fields := []any{logger.FieldName, d.Name, "platforms", d.Platforms}
		switch d.Severity {
		case cdecl.SeverityError:
			log.Errorw(d.Message, fields...)
		case cdecl.SeverityWarning:
			log.Warnw(d.Message, fields...)
		default:
			log.Infow(d.Message, fields...)
		}
	}
}
