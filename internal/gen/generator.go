package gen

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"

	"dto-generator/internal/analyze"
	"dto-generator/internal/common"
	"dto-generator/internal/plan"
)

// GeneratedHeader is the first line of every generated file.
const GeneratedHeader = "Code generated by dto-generator. DO NOT EDIT."

// receiverName is the receiver of generated mapper methods, and the source
// parameter of mapper functions.
const receiverName = "s"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// OutputPackage is the import path DTOs are generated into. Empty means
	// next to each source entity, with mappers as methods on the source.
	OutputPackage string
	// OutputPackageName defaults to the last element of OutputPackage.
	OutputPackageName string
	// OutputDir is the directory of OutputPackage. Required with OutputPackage.
	OutputDir string
	// FileSuffix is appended to the snake_case DTO name.
	FileSuffix string
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		FileSuffix:       "_gen.go",
		GenerateComments: true,
	}
}

// Validate checks the configuration.
func (c GeneratorConfig) Validate() error {
	if c.OutputPackage != "" && c.OutputDir == "" {
		return errors.New("output dir is required with an output package")
	}

	if c.FileSuffix == "" || filepath.Ext(c.FileSuffix) != ".go" {
		return fmt.Errorf("file suffix %q must end in .go", c.FileSuffix)
	}

	return nil
}

// Separate reports whether DTOs go into their own package.
func (c GeneratorConfig) Separate() bool {
	return c.OutputPackage != ""
}

// Generator generates Go code from a resolved plan.
type Generator struct {
	config GeneratorConfig
	graph  *analyze.TypeGraph
	logger *zap.Logger
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{config: config, logger: logger.Named("gen")}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the directory the file belongs in.
	Dir string
	// Filename is the name of the file (e.g., "user_summary_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
	// Blueprint is the subject the file was generated for.
	Blueprint string
}

// Path returns the full path of the file.
func (f GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

// Generate renders one file per blueprint, in plan order.
func (g *Generator) Generate(p *plan.Plan) ([]GeneratedFile, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	g.graph = p.TypeGraph

	files := make([]GeneratedFile, 0, len(p.Blueprints))
	seen := make(map[string]string, len(p.Blueprints))

	for i := range p.Blueprints {
		bp := &p.Blueprints[i]

		file, err := g.GenerateBlueprint(bp)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", bp.Subject(), err)
		}

		if prev, ok := seen[file.Path()]; ok {
			return nil, fmt.Errorf("generating %s: %s is already generated for %s", bp.Subject(), file.Path(), prev)
		}

		seen[file.Path()] = bp.Subject()

		g.logger.Debug("generated", zap.String("subject", bp.Subject()), zap.String("file", file.Path()))

		files = append(files, *file)
	}

	return files, nil
}

// GenerateBlueprint renders the DTO struct and its mapper for one blueprint.
func (g *Generator) GenerateBlueprint(bp *plan.Blueprint) (*GeneratedFile, error) {
	pkgPath, pkgName, dir := bp.Package, g.getPkgName(bp.Package), bp.Dir
	if g.config.Separate() {
		pkgPath, dir = g.config.OutputPackage, g.config.OutputDir

		pkgName = g.config.OutputPackageName
		if pkgName == "" {
			pkgName = common.PkgAlias(pkgPath)
		}
	}

	if dir == "" {
		return nil, errors.New("output directory is unknown")
	}

	if pkgPath != bp.Source.PkgPath && analyze.VisibilityOf(bp.Source.Name) == analyze.VisibilityPrivate {
		return nil, fmt.Errorf("source %s is unexported and cannot be mapped from package %s", bp.Source.Name, pkgName)
	}

	for _, p := range bp.Properties {
		if err := checkEmittable(p.Type); err != nil {
			return nil, fmt.Errorf("property %s: %w", p.TargetName, err)
		}
	}

	f := jen.NewFilePathName(pkgPath, pkgName)
	f.HeaderComment(GeneratedHeader)

	g.writeStruct(f, bp)
	f.Line()
	g.writeMapper(f, bp)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering code: %w", err)
	}

	return &GeneratedFile{
		Dir:       dir,
		Filename:  g.filename(bp),
		Content:   buf.Bytes(),
		Blueprint: bp.Subject(),
	}, nil
}

// getPkgName returns the package name for a given package path.
// It tries to look up the name from the type graph, falling back to the path base alias.
func (g *Generator) getPkgName(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	if g.graph != nil {
		if pkgInfo, ok := g.graph.Packages[pkgPath]; ok {
			return pkgInfo.Name
		}
	}

	return common.PkgAlias(pkgPath)
}

func (g *Generator) filename(bp *plan.Blueprint) string {
	return snakeCase(bp.DtoName) + g.config.FileSuffix
}

// mapperName is the method (same package) or function (separate package)
// building the DTO.
func (g *Generator) mapperName(bp *plan.Blueprint) string {
	if g.config.Separate() {
		return "New" + exportedIdent(bp.DtoName)
	}

	return "To" + exportedIdent(bp.DtoName)
}
