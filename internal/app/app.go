package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dto-generator/internal/analyze"
	"dto-generator/internal/config"
	"dto-generator/internal/gen"
	"dto-generator/internal/mapping"
	"dto-generator/internal/plan"
)

var (
	// ErrResolution is returned when any spec or definition failed to resolve.
	ErrResolution = errors.New("resolution reported errors")
	// ErrStale is returned by Check when generated files are missing or out of date.
	ErrStale = errors.New("generated files are out of date")
)

// App runs the generation pipeline: load packages, resolve, emit, write.
type App struct {
	cfg    config.Config
	logger *zap.Logger
}

// Result is the outcome of one pipeline run.
type Result struct {
	Plan  *plan.Plan
	Files []gen.GeneratedFile
	// Written lists files that were created or changed.
	Written []string
	// Stale lists files whose content on disk differs (Check only).
	Stale []string
}

// Err reports resolution errors, then staleness.
func (r *Result) Err() error {
	if r.Plan != nil && r.Plan.Diagnostics.HasErrors() {
		return fmt.Errorf("%w: %d error(s)", ErrResolution, len(r.Plan.Diagnostics.Errors))
	}

	if len(r.Stale) > 0 {
		return fmt.Errorf("%w: %s", ErrStale, strings.Join(r.Stale, ", "))
	}

	return nil
}

// New creates an App. A nil logger discards output.
func New(cfg config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &App{cfg: cfg, logger: logger}
}

// Config returns the configuration the app runs with.
func (a *App) Config() config.Config {
	return a.cfg
}

func (a *App) load() (*analyze.TypeGraph, *mapping.MappingFile, error) {
	analyzer := analyze.NewAnalyzer(a.cfg.AnnotationAliases(), a.logger)
	analyzer.Dir = a.cfg.Dir

	graph, err := analyzer.LoadPackages(a.cfg.Packages...)
	if err != nil {
		return nil, nil, err
	}

	if a.cfg.MappingFile == "" {
		return graph, nil, nil
	}

	mf, err := mapping.LoadFile(a.cfg.Path(a.cfg.MappingFile))
	if err != nil {
		return nil, nil, err
	}

	return graph, mf, nil
}

func (a *App) resolver() (*plan.Resolver, error) {
	graph, mf, err := a.load()
	if err != nil {
		return nil, err
	}

	return plan.NewResolver(graph, mf, a.cfg.ResolutionConfig(), a.logger), nil
}

// Plan loads the configured packages and resolves every DTO spec.
func (a *App) Plan(ctx context.Context) (*plan.Plan, error) {
	r, err := a.resolver()
	if err != nil {
		return nil, err
	}

	return r.Resolve(ctx)
}

func (a *App) render(ctx context.Context) (*Result, error) {
	p, err := a.Plan(ctx)
	if err != nil {
		return &Result{Plan: p}, err
	}

	files, err := gen.NewGenerator(a.cfg.GeneratorConfig(), a.logger).Generate(p)
	if err != nil {
		return &Result{Plan: p}, err
	}

	return &Result{Plan: p, Files: files}, nil
}

// Generate resolves and writes generated files. Blueprints that resolved
// are written even when others failed; inspect Result.Err.
func (a *App) Generate(ctx context.Context) (*Result, error) {
	res, err := a.render(ctx)
	if err != nil {
		return res, err
	}

	res.Written, err = gen.WriteFiles(res.Files)
	if err != nil {
		return res, err
	}

	a.logger.Info("generated",
		zap.Int("dtos", len(res.Files)),
		zap.Int("written", len(res.Written)),
		zap.Int("errors", len(res.Plan.Diagnostics.Errors)),
		zap.Int("warnings", len(res.Plan.Diagnostics.Warnings)))

	return res, nil
}

// Check resolves and compares the output with the files on disk without
// writing anything.
func (a *App) Check(ctx context.Context) (*Result, error) {
	res, err := a.render(ctx)
	if err != nil {
		return res, err
	}

	res.Stale, err = gen.StaleFiles(res.Files)
	if err != nil {
		return res, err
	}

	return res, nil
}

// Export writes every discovered spec as a mapping file. Specs are not
// resolved, so failing specs are exported too.
func (a *App) Export(format mapping.Format) ([]byte, error) {
	r, err := a.resolver()
	if err != nil {
		return nil, err
	}

	sources, diags := r.Discover()
	a.logDiagnostics(diags)

	mf := plan.ExportMappingFile(sources)
	if format == mapping.FormatTOML {
		return mapping.MarshalTOML(mf)
	}

	return mapping.Marshal(mf)
}
