package platform

import (
	"context"
	"runtime"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/explorer"
	"github.com/ardanlabs/c2ffi/frontend"
	"github.com/ardanlabs/c2ffi/logger"
	"github.com/ardanlabs/c2ffi/macro"
)

type Orchestrator struct {
	parser frontend.Parser
	log    *zap.SugaredLogger

	// TempDir is the parent of scratch directories; empty means the system
	// default.
	TempDir string
}

func New(parser frontend.Parser, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		parser: parser,
		log:    logger.OrNop(log),
	}
}

// Run explores the header for every requested platform, or for the host
// platform when none is requested. Results are ordered by platform. The
// returned error combines the per platform failures; results of the platforms
// that succeeded are returned with it.
func (o *Orchestrator) Run(ctx context.Context, req Request) ([]Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	platforms := slices.Clone(req.Platforms)
	if len(platforms) == 0 {
		platforms = []cdecl.Platform{HostPlatform()}
	}
	cdecl.SortPlatforms(platforms)

	limit := req.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(platforms))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, p := range platforms {
		g.Go(func() error {
			results[i] = o.explore(ctx, req, p)
			return nil
		})
	}
	_ = g.Wait()

	var err error
	for _, r := range results {
		if r.Err != nil {
			o.log.Warnw("platform failed", logger.FieldPlatform, string(r.Platform), logger.FieldError, r.Err)
			err = multierr.Append(err, r.Err)
		}
	}

	return results, err
}

func (o *Orchestrator) explore(ctx context.Context, req Request, p cdecl.Platform) Result {
	log := o.log.With(logger.FieldPlatform, string(p))
	res := Result{Platform: p}

	ast, diags, err := o.run(ctx, req, p, log)
	res.AST = ast
	res.Diagnostics = diags
	if err != nil {
		res.Err = errors.Wrapf(err, "platform %s", p)
		return res
	}

	log.Infow("platform explored", logger.FieldCount, ast.Len(), "diagnostics", len(diags))
	return res
}

func (o *Orchestrator) run(ctx context.Context, req Request, p cdecl.Platform, log *zap.SugaredLogger) (*cdecl.AST, []cdecl.Diagnostic, error) {
	triple, err := p.Triple()
	if err != nil {
		return nil, nil, err
	}

	sys, diags := systemIncludes(p, req.SystemIncludeDirectories, req.ClangResourceRoots)

	var links *frameworkLinks
	if triple.IsApple() && len(req.Frameworks) > 0 {
		var fdiags []cdecl.Diagnostic
		links, fdiags, err = linkFrameworks(o.TempDir, p, req.Frameworks, req.FrameworkDirectories)
		if err != nil {
			return nil, diags, err
		}
		defer links.remove()
		diags = append(diags, fdiags...)
	}

	frameworkDir := ""
	opts := req.Explorer
	opts.IncludeDirectories = slices.Clone(req.IncludeDirectories)
	if links != nil {
		frameworkDir = links.Dir
		opts.LinkedPaths = links.Links
	}

	args, err := req.Args(p, sys, frameworkDir)
	if err != nil {
		return nil, diags, err
	}
	log.Debugw("parsing header", logger.FieldFile, req.Header, "args", args)

	tu, err := o.parser.Parse(ctx, req.Header, args)
	if err != nil {
		return nil, diags, errors.Wrapf(err, "parsing %s", req.Header)
	}
	defer tu.Close()

	fdiags := tu.Diagnostics()
	if frontend.Failed(fdiags) {
		return nil, diags, parseFailure(req.Header, fdiags)
	}
	for _, d := range fdiags {
		if d.Severity == frontend.SeverityWarning {
			diags = append(diags, cdecl.Diagnostic{
				Severity:  cdecl.SeverityWarning,
				Message:   d.String(),
				Platforms: []cdecl.Platform{p},
			})
		}
	}

	ex := explorer.New(opts, log)

	candidates := macro.Collect(tu.Cursor(), req.Macros, ex.Resolver())
	ev := macro.NewEvaluator(o.parser, log)
	ev.TempDir = o.TempDir
	macros, err := ev.Evaluate(ctx, candidates, args)
	if err != nil {
		return nil, diags, errors.Wrap(err, "evaluating macros")
	}

	ast, err := ex.Explore(ctx, tu, p, macros)
	if err != nil {
		return nil, diags, err
	}

	return ast, diags, nil
}

// parseFailure is an ErrParse error carrying the formatted error diagnostics.
func parseFailure(header string, diags []frontend.Diagnostic) error {
	var lines []string
	for _, d := range diags {
		if d.Severity >= frontend.SeverityError {
			lines = append(lines, d.String())
		}
	}

	err := errors.Newf("%s: %d error diagnostics", header, len(lines))
	err = errors.WithDetail(err, strings.Join(lines, "\n"))
	return errors.Mark(err, frontend.ErrParse)
}
