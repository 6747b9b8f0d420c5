package plan

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dto-generator/internal/analyze"
	"dto-generator/internal/common"
	"dto-generator/internal/diagnostic"
	"dto-generator/internal/mapping"
	"dto-generator/internal/match"
)

// ResolutionConfig holds configuration for the resolution process.
type ResolutionConfig struct {
	// Concurrency bounds the number of resolutions running at once (0 = GOMAXPROCS).
	Concurrency int
	// StrictMode fails the whole run when any error diagnostic was recorded.
	StrictMode bool
	// MaxSuggestions is the maximum number of "did you mean" names per diagnostic.
	MaxSuggestions int
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() ResolutionConfig {
	return ResolutionConfig{
		Concurrency:    runtime.GOMAXPROCS(0),
		StrictMode:     false,
		MaxSuggestions: 3,
	}
}

// Resolver performs the resolution pipeline.
type Resolver struct {
	graph      *analyze.TypeGraph
	mappingDef *mapping.MappingFile
	config     ResolutionConfig
	logger     *zap.Logger
}

// NewResolver creates a new Resolver. mappingDef may be nil.
func NewResolver(
	graph *analyze.TypeGraph,
	mappingDef *mapping.MappingFile,
	config ResolutionConfig,
	logger *zap.Logger,
) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{
		graph:      graph,
		mappingDef: mappingDef,
		config:     config,
		logger:     logger.Named("plan"),
	}
}

// job is one independent resolution. Results land in a slot owned by the
// job so no state is shared between goroutines.
type job struct {
	subject string
	overlap bool
	run     func() (*Blueprint, error)

	bp  *Blueprint
	err error
}

// Resolve runs the full resolution pipeline and returns a Plan. A failing
// spec or definition is recorded as an error diagnostic and never blocks
// the others.
func (r *Resolver) Resolve(ctx context.Context) (*Plan, error) {
	if r.graph == nil {
		return nil, errors.New("type graph is required")
	}

	sources, diags := r.Discover()
	jobs := r.jobs(sources)

	r.logger.Debug("resolving",
		zap.Int("entities", len(sources.Entities)),
		zap.Int("definitions", len(sources.Definitions)),
		zap.Int("jobs", len(jobs)))

	g, gctx := errgroup.WithContext(ctx)
	if r.config.Concurrency > 0 {
		g.SetLimit(r.config.Concurrency)
	}

	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			j.bp, j.err = j.run()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	plan := &Plan{Sources: sources, TypeGraph: r.graph, Diagnostics: diags}
	seen := make(map[analyze.TypeID]string)

	for _, j := range jobs {
		if j.overlap {
			plan.Diagnostics.AddWarning(diagnostic.CodeIncludeOverridesExclude,
				"both include and exclude are set, exclude is ignored", j.subject, "")
		}

		if j.err != nil {
			r.logger.Debug("resolution failed", zap.String("subject", j.subject), zap.Error(j.err))
			plan.Diagnostics.Add(r.errorDiagnostic(j.subject, j.err))

			continue
		}

		if !r.accept(j.bp, seen, &plan.Diagnostics) {
			continue
		}

		r.logger.Debug("resolved",
			zap.String("subject", j.bp.Subject()),
			zap.Strings("properties", j.bp.PropertyNames()),
			zap.Int("params", len(j.bp.Params())))

		plan.Diagnostics.AddInfo(diagnostic.CodeResolved,
			fmt.Sprintf("%d properties, %d mapper parameters", len(j.bp.Properties), len(j.bp.Params())),
			j.bp.Subject(), "")
		plan.Blueprints = append(plan.Blueprints, *j.bp)
	}

	if r.config.StrictMode && plan.Diagnostics.HasErrors() {
		return plan, errors.New("strict mode: resolution failed with errors")
	}

	return plan, nil
}

func (r *Resolver) jobs(sources *Sources) []*job {
	out := make([]*job, 0, sources.Count())

	for _, es := range sources.Entities {
		for _, spec := range es.Specs {
			out = append(out, &job{
				subject: subject(es.Entity.ID, spec.DtoName),
				overlap: !spec.Include.IsEmpty() && !spec.Exclude.IsEmpty(),
				run:     func() (*Blueprint, error) { return ResolveSimple(es.Entity, spec) },
			})
		}
	}

	for _, ds := range sources.Definitions {
		in := DefinitionInput{
			Spec:       ds.Spec,
			Definition: ds.Definition,
			Overrides:  ds.Overrides,
			Source:     r.graph.GetType(ds.Spec.Source),
		}

		out = append(out, &job{
			subject: subject(ds.Definition.ID, ds.Spec.DtoName),
			overlap: !ds.Spec.Include.IsEmpty() && !ds.Spec.Exclude.IsEmpty(),
			run:     func() (*Blueprint, error) { return ResolveDefinition(in) },
		})
	}

	return out
}

// accept checks the generated name: a valid identifier, unique per package
// and not clashing with a declared type. The later blueprint loses.
func (r *Resolver) accept(bp *Blueprint, seen map[analyze.TypeID]string, diags *diagnostic.Diagnostics) bool {
	if !token.IsIdentifier(bp.DtoName) {
		diags.AddError(diagnostic.CodeInvalidAnnotation,
			fmt.Sprintf("dto name %q is not a valid Go identifier", bp.DtoName), bp.Subject(), "")

		return false
	}

	id := analyze.TypeID{PkgPath: bp.Package, Name: bp.DtoName}

	if prev, ok := seen[id]; ok {
		diags.AddError(diagnostic.CodeDuplicateDtoName,
			fmt.Sprintf("dto %s is already generated by %s", bp.DtoName, prev), bp.Subject(), "")

		return false
	}

	if decl := r.graph.GetType(id); decl != nil {
		diags.AddError(diagnostic.CodeDuplicateDtoName,
			fmt.Sprintf("dto %s collides with a declared type in %s", bp.DtoName, common.PkgAlias(bp.Package)),
			bp.Subject(), "")

		return false
	}

	seen[id] = bp.Subject()

	return true
}

func (r *Resolver) errorDiagnostic(subj string, err error) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticError,
		Code:     diagnostic.CodeResolveFailed,
		Message:  err.Error(),
		Subject:  subj,
	}

	var (
		nf       *PropertyNotFoundError
		conflict *ConflictError
	)

	switch {
	case errors.As(err, &nf):
		d.Code = diagnostic.CodePropertyNotFound
		d.Property = strings.Join(nf.Names, ", ")

		for _, name := range nf.Names {
			d.Suggestions = append(d.Suggestions, match.Suggest(name, nf.Candidates, r.config.MaxSuggestions)...)
		}

		d.Suggestions = common.Unique(d.Suggestions)
	case errors.As(err, &conflict):
		d.Code = diagnostic.CodeDefinitionConflict
		d.Property = strings.Join(conflict.Properties, ", ")
	}

	return d
}
