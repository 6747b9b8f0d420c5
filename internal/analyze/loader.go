package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph   *TypeGraph
	aliases Aliases
	logger  *zap.Logger
	// Dir is the working directory for package patterns (empty = process cwd).
	Dir string
}

// NewAnalyzer creates a new Analyzer. Directive names are resolved through aliases.
func NewAnalyzer(aliases Aliases, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		graph:   NewTypeGraph(),
		aliases: aliases,
		logger:  logger.Named("analyze"),
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./store", "dto-generator/store").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	// Process each package
	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	a.resolveTypeValues()

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// processPackage extracts struct and interface declarations from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	info := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}
	if len(pkg.GoFiles) > 0 {
		info.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	a.graph.Packages[pkg.PkgPath] = info

	var errs []error

	for _, file := range pkg.Syntax {
		if ast.IsGenerated(file) {
			continue
		}

		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				typeDecl, err := a.analyzeTypeSpec(pkg, genDecl, typeSpec)
				if err != nil {
					pos := pkg.Fset.Position(typeSpec.Pos())
					errs = append(errs, fmt.Errorf("%s: %w", pos, err))
					continue
				}

				if typeDecl == nil {
					continue
				}

				typeDecl.Dir = info.Dir
				a.graph.Types[typeDecl.ID] = typeDecl
				info.Types = append(info.Types, typeDecl.ID)

				a.logger.Debug("analyzed type",
					zap.Stringer("type", typeDecl.ID),
					zap.Stringer("kind", typeDecl.Kind),
					zap.Int("properties", len(typeDecl.Properties)),
					zap.Int("annotations", len(typeDecl.Annotations)))
			}
		}
	}

	return errors.Join(errs...)
}

// analyzeTypeSpec converts a struct or interface type spec. Other specs yield nil.
func (a *Analyzer) analyzeTypeSpec(pkg *packages.Package, genDecl *ast.GenDecl, typeSpec *ast.TypeSpec) (*TypeDecl, error) {
	if typeSpec.TypeParams != nil {
		// Generic declarations cannot be projected without instantiation.
		return nil, nil
	}

	decl := &TypeDecl{
		ID:         TypeID{PkgPath: pkg.PkgPath, Name: typeSpec.Name.Name},
		Visibility: VisibilityOf(typeSpec.Name.Name),
	}

	// A lone spec carries its docs on the GenDecl.
	doc := typeSpec.Doc
	if doc == nil && len(genDecl.Specs) == 1 {
		doc = genDecl.Doc
	}

	annotations, err := ExtractDirectives(doc, a.aliases)
	if err != nil {
		return nil, err
	}

	decl.Annotations = annotations

	switch t := typeSpec.Type.(type) {
	case *ast.StructType:
		decl.Kind = DeclStruct
		err = a.analyzeStructFields(pkg, t, decl)

	case *ast.InterfaceType:
		decl.Kind = DeclInterface
		err = a.analyzeInterfaceMethods(pkg, t, decl)

	default:
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return decl, nil
}

// analyzeStructFields extracts properties from a struct type.
func (a *Analyzer) analyzeStructFields(pkg *packages.Package, st *ast.StructType, decl *TypeDecl) error {
	var errs []error

	order := 0

	for _, field := range st.Fields.List {
		// Embedded fields are not properties.
		if len(field.Names) == 0 {
			continue
		}

		directives, err := ExtractDirectives(field.Doc, a.aliases)
		if err != nil {
			errs = append(errs, err)
		}

		var tags []Annotation

		if field.Tag != nil {
			raw, uerr := strconv.Unquote(field.Tag.Value)
			if uerr == nil {
				tags, err = TagAnnotations(raw)
			} else {
				err = uerr
			}

			if err != nil {
				errs = append(errs, err)
			}
		}

		ref := a.typeRef(pkg.TypesInfo.TypeOf(field.Type))

		for _, name := range field.Names {
			// Only process exported fields
			if !name.IsExported() {
				continue
			}

			decl.Properties = append(decl.Properties, Property{
				Name:        name.Name,
				Type:        ref,
				Annotations: append(append([]Annotation{}, directives...), tags...),
				Order:       order,
			})
			order++
		}
	}

	return errors.Join(errs...)
}

// analyzeInterfaceMethods extracts properties from getter-shaped methods:
// no parameters and exactly one result.
func (a *Analyzer) analyzeInterfaceMethods(pkg *packages.Package, it *ast.InterfaceType, decl *TypeDecl) error {
	var errs []error

	order := 0

	for _, method := range it.Methods.List {
		fn, ok := method.Type.(*ast.FuncType)
		if !ok || len(method.Names) == 0 {
			continue
		}

		if fn.Params.NumFields() != 0 || fn.Results.NumFields() != 1 {
			continue
		}

		directives, err := ExtractDirectives(method.Doc, a.aliases)
		if err != nil {
			errs = append(errs, err)
		}

		name := method.Names[0]
		if !name.IsExported() {
			continue
		}

		decl.Properties = append(decl.Properties, Property{
			Name:        name.Name,
			Type:        a.typeRef(pkg.TypesInfo.TypeOf(fn.Results.List[0].Type)),
			Annotations: directives,
			Order:       order,
		})
		order++
	}

	return errors.Join(errs...)
}

// typeRef converts a go/types.Type into a structural TypeRef.
func (a *Analyzer) typeRef(t types.Type) TypeRef {
	if t == nil {
		return TypeRef{Name: "invalid"}
	}

	t = types.Unalias(t)

	switch tt := t.(type) {
	case *types.Basic:
		return TypeRef{Name: tt.Name()}

	case *types.Named:
		obj := tt.Obj()
		ref := TypeRef{Name: obj.Name()}

		if obj.Pkg() != nil {
			ref.Pkg = obj.Pkg().Path()
		}

		if args := tt.TypeArgs(); args != nil {
			for i := range args.Len() {
				ref.Args = append(ref.Args, a.typeRef(args.At(i)))
			}
		}

		return ref

	case *types.Pointer:
		elem := a.typeRef(tt.Elem())
		if elem.Nullable {
			return TypeRef{Name: PointerName, Args: []TypeRef{elem}, Nullable: true}
		}

		elem.Nullable = true

		return elem

	case *types.Slice:
		return TypeRef{Name: SliceName, Args: []TypeRef{a.typeRef(tt.Elem())}}

	case *types.Array:
		return TypeRef{Name: "[" + strconv.FormatInt(tt.Len(), 10) + "]", Args: []TypeRef{a.typeRef(tt.Elem())}}

	case *types.Map:
		return TypeRef{Name: MapName, Args: []TypeRef{a.typeRef(tt.Key()), a.typeRef(tt.Elem())}}

	case *types.Signature:
		params := a.tupleRef(tt.Params())
		if tt.Variadic() && len(params.Args) > 0 {
			last := &params.Args[len(params.Args)-1]
			*last = TypeRef{Name: VariadicName, Args: last.Args}
		}

		return TypeRef{Name: FuncName, Args: []TypeRef{params, a.tupleRef(tt.Results())}}

	case *types.Chan:
		name := ChanName

		switch tt.Dir() {
		case types.RecvOnly:
			name = RecvChanName
		case types.SendOnly:
			name = SendChanName
		}

		return TypeRef{Name: name, Args: []TypeRef{a.typeRef(tt.Elem())}}

	default:
		// Interface literals and anonymous structs are opaque.
		return TypeRef{Name: types.TypeString(t, nil)}
	}
}

func (a *Analyzer) tupleRef(tuple *types.Tuple) TypeRef {
	ref := TypeRef{Name: TupleName}

	for i := range tuple.Len() {
		ref.Args = append(ref.Args, a.typeRef(tuple.At(i).Type()))
	}

	return ref
}

// resolveTypeValues binds "!type" directive arguments to loaded types.
func (a *Analyzer) resolveTypeValues() {
	for _, decl := range a.graph.Types {
		for i := range decl.Annotations {
			a.resolveArgs(decl.Annotations[i].Args, decl.ID.PkgPath)
		}

		for p := range decl.Properties {
			for i := range decl.Properties[p].Annotations {
				a.resolveArgs(decl.Properties[p].Annotations[i].Args, decl.ID.PkgPath)
			}
		}
	}
}

func (a *Analyzer) resolveArgs(args []Argument, fromPkg string) {
	for i := range args {
		resolveValue(&args[i].Value, a.graph, fromPkg)
	}
}

func resolveValue(v *Value, graph *TypeGraph, fromPkg string) {
	switch v.Kind {
	case ValueType:
		ref := v.Str
		if !strings.Contains(ref, ".") {
			ref = fromPkg + "." + ref
		}

		if decl := ResolveTypeID(ref, graph); decl != nil {
			v.Type = decl.ID
		}

	case ValueList:
		for i := range v.List {
			resolveValue(&v.List[i], graph, fromPkg)
		}
	}
}

// GetStruct returns the declaration of a named struct.
func (a *Analyzer) GetStruct(pkgPath, typeName string) (*TypeDecl, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}
	decl := a.graph.GetType(id)
	if decl == nil {
		return nil, fmt.Errorf("type %s not found", id)
	}
	if decl.Kind != DeclStruct {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", id, decl.Kind)
	}
	return decl, nil
}

// ResolveTypeID resolves a type reference string like:
// - "store.User" (short)
// - "dto-generator/store.User" (full)
// - "User" (name only).
func ResolveTypeID(ref string, graph *TypeGraph) *TypeDecl {
	if graph == nil || ref == "" {
		return nil
	}

	// Name-only: best-effort match by type name, deterministic on ties.
	if !strings.Contains(ref, ".") {
		for _, d := range graph.Decls() {
			if d.ID.Name == ref {
				return d
			}
		}

		return nil
	}

	lastDot := strings.LastIndex(ref, ".")

	pkgStr := ref[:lastDot]

	name := ref[lastDot+1:]
	if pkgStr == "" || name == "" {
		return nil
	}

	// 1) exact match (for fully qualified import path)
	if d := graph.GetType(TypeID{PkgPath: pkgStr, Name: name}); d != nil {
		return d
	}

	// 2) suffix match (for short forms like "store.User" vs "dto-generator/store.User")
	for _, d := range graph.Decls() {
		if d.ID.Name != name {
			continue
		}

		if strings.HasSuffix(d.ID.PkgPath, "/"+pkgStr) {
			return d
		}
	}

	return nil
}
