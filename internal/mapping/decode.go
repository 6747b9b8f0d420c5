package mapping

import (
	"errors"
	"fmt"
	"strings"

	"dto-generator/internal/analyze"
)

var (
	// ErrInvalidAnnotation marks a driving annotation whose arguments cannot be decoded.
	ErrInvalidAnnotation = errors.New("invalid annotation")
	// ErrUnresolvedType marks a type reference that names no loaded type.
	ErrUnresolvedType = errors.New("unresolved type reference")
)

// param is one accepted annotation parameter, in positional order.
type param struct {
	name    string
	aliases []string
}

var (
	simpleSpecParams = []param{
		{name: "dtoName"},
		{name: "include"},
		{name: "exclude"},
		{name: "includeAnnotations"},
	}
	definitionParams = []param{
		{name: "source", aliases: []string{"sourceClass"}},
		{name: "dtoName"},
		{name: "include"},
		{name: "exclude"},
		{name: "includeClassSourceAnnotations", aliases: []string{"includeSourceAnnotations"}},
		{name: "includePropertySourceAnnotations"},
	}
	overrideParams = []param{
		{name: "from"},
		{name: "includeSourceAnnotations"},
	}
)

// args is a decoded annotation argument list keyed by canonical parameter name.
type args struct {
	annotation analyze.Annotation
	values     map[string]analyze.Value
}

func bindArgs(a analyze.Annotation, params []param) (args, error) {
	lookup := make(map[string]string, len(params))
	for _, p := range params {
		lookup[p.name] = p.name
		for _, alias := range p.aliases {
			lookup[alias] = p.name
		}
	}

	out := args{annotation: a, values: make(map[string]analyze.Value, len(a.Args))}
	pos := 0

	for _, arg := range a.Args {
		name := arg.Name
		if name == "" {
			if pos >= len(params) {
				return args{}, fmt.Errorf("%w: %s: too many positional arguments", ErrInvalidAnnotation, a.Name)
			}

			name = params[pos].name
			pos++
		}

		canonical, ok := lookup[name]
		if !ok {
			return args{}, fmt.Errorf("%w: %s: unknown argument %q", ErrInvalidAnnotation, a.Name, name)
		}

		if _, dup := out.values[canonical]; dup {
			return args{}, fmt.Errorf("%w: %s: argument %q given more than once", ErrInvalidAnnotation, a.Name, canonical)
		}

		out.values[canonical] = arg.Value
	}

	return out, nil
}

func (a args) str(name string) (string, error) {
	v, ok := a.values[name]
	if !ok {
		return "", nil
	}

	if v.Kind != analyze.ValueString {
		return "", a.kindError(name, "string", v)
	}

	return strings.TrimSpace(v.Str), nil
}

func (a args) names(name string) (NameSet, error) {
	v, ok := a.values[name]
	if !ok {
		return nil, nil
	}

	list, ok := v.Strings()
	if !ok {
		return nil, a.kindError(name, "list of names", v)
	}

	return NewNameSet(list...), nil
}

func (a args) flag(name string, def bool) (bool, error) {
	v, err := a.optionalBool(name)
	if err != nil {
		return false, err
	}

	if v == nil {
		return def, nil
	}

	return *v, nil
}

func (a args) optionalBool(name string) (*bool, error) {
	v, ok := a.values[name]
	if !ok {
		return nil, nil
	}

	if v.Kind != analyze.ValueBool {
		return nil, a.kindError(name, "bool", v)
	}

	return Bool(v.Bool), nil
}

func (a args) typeID(name string) (analyze.TypeID, error) {
	v, ok := a.values[name]
	if !ok {
		return analyze.TypeID{}, fmt.Errorf("%w: %s: missing required argument %q", ErrInvalidAnnotation, a.annotation.Name, name)
	}

	if v.Kind != analyze.ValueType {
		return analyze.TypeID{}, a.kindError(name, "type reference (!type pkg.Name)", v)
	}

	if v.Type.IsZero() {
		return analyze.TypeID{}, fmt.Errorf("%w: %s: %s %q", ErrUnresolvedType, a.annotation.Name, name, v.Str)
	}

	return v.Type, nil
}

func (a args) kindError(name, want string, got analyze.Value) error {
	return fmt.Errorf("%w: %s: argument %q must be a %s, got %s", ErrInvalidAnnotation, a.annotation.Name, name, want, got.Kind)
}

// DecodeSimpleSpec decodes a spec annotation. Arguments are (dtoName, include,
// exclude, includeAnnotations); includeAnnotations defaults to true.
func DecodeSimpleSpec(a analyze.Annotation) (SimpleSpec, error) {
	bound, err := bindArgs(a, simpleSpecParams)
	if err != nil {
		return SimpleSpec{}, err
	}

	var spec SimpleSpec

	if spec.DtoName, err = bound.str("dtoName"); err != nil {
		return SimpleSpec{}, err
	}

	if spec.DtoName == "" {
		return SimpleSpec{}, fmt.Errorf("%w: %s: dtoName must not be blank", ErrInvalidAnnotation, a.Name)
	}

	if spec.Include, err = bound.names("include"); err != nil {
		return SimpleSpec{}, err
	}

	if spec.Exclude, err = bound.names("exclude"); err != nil {
		return SimpleSpec{}, err
	}

	if spec.IncludeAnnotations, err = bound.flag("includeAnnotations", true); err != nil {
		return SimpleSpec{}, err
	}

	return spec, nil
}

// DecodeDefinitionSpec decodes a definition annotation. Arguments are (source,
// dtoName, include, exclude, includeClassSourceAnnotations,
// includePropertySourceAnnotations); both flags default to true.
func DecodeDefinitionSpec(a analyze.Annotation) (DefinitionSpec, error) {
	bound, err := bindArgs(a, definitionParams)
	if err != nil {
		return DefinitionSpec{}, err
	}

	var spec DefinitionSpec

	if spec.Source, err = bound.typeID("source"); err != nil {
		return DefinitionSpec{}, err
	}

	if spec.DtoName, err = bound.str("dtoName"); err != nil {
		return DefinitionSpec{}, err
	}

	if spec.Include, err = bound.names("include"); err != nil {
		return DefinitionSpec{}, err
	}

	if spec.Exclude, err = bound.names("exclude"); err != nil {
		return DefinitionSpec{}, err
	}

	if spec.IncludeClassSourceAnnotations, err = bound.flag("includeClassSourceAnnotations", true); err != nil {
		return DefinitionSpec{}, err
	}

	if spec.IncludePropertySourceAnnotations, err = bound.flag("includePropertySourceAnnotations", true); err != nil {
		return DefinitionSpec{}, err
	}

	return spec, nil
}

// DecodeOverride decodes a property annotation with arguments (from,
// includeSourceAnnotations). The flag stays unset unless written.
func DecodeOverride(a analyze.Annotation) (PropertyOverride, error) {
	bound, err := bindArgs(a, overrideParams)
	if err != nil {
		return PropertyOverride{}, err
	}

	var o PropertyOverride

	if o.From, err = bound.str("from"); err != nil {
		return PropertyOverride{}, err
	}

	if o.IncludeSourceAnnotations, err = bound.optionalBool("includeSourceAnnotations"); err != nil {
		return PropertyOverride{}, err
	}

	return o, nil
}

// SimpleSpecsOf decodes every spec annotation on an entity, in declaration
// order. Specs that fail to decode are reported in the joined error; the
// others are still returned.
func SimpleSpecsOf(decl *analyze.TypeDecl) ([]SimpleSpec, error) {
	var (
		specs []SimpleSpec
		errs  []error
	)

	for _, a := range decl.Annotations {
		if !a.Is(SpecAnnotation) {
			continue
		}

		spec, err := DecodeSimpleSpec(a)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", decl.ID, err))
			continue
		}

		specs = append(specs, spec)
	}

	return specs, errors.Join(errs...)
}

// DefinitionSpecOf decodes the definition annotation of a type. ok is false
// when the type carries none.
func DefinitionSpecOf(decl *analyze.TypeDecl) (spec DefinitionSpec, ok bool, err error) {
	for _, a := range decl.Annotations {
		if !a.Is(DefAnnotation) {
			continue
		}

		if ok {
			return DefinitionSpec{}, true, fmt.Errorf("%w: %s: more than one %s annotation", ErrInvalidAnnotation, decl.ID, a.Name)
		}

		spec, err = DecodeDefinitionSpec(a)
		if err != nil {
			return DefinitionSpec{}, true, fmt.Errorf("%s: %w", decl.ID, err)
		}

		ok = true
	}

	return spec, ok, nil
}

// OverridesOf decodes the property annotations of a definition type, keyed
// by property name.
func OverridesOf(decl *analyze.TypeDecl) (map[string]PropertyOverride, error) {
	out := make(map[string]PropertyOverride)

	var errs []error

	for _, p := range decl.Properties {
		for _, a := range p.Annotations {
			if !a.Is(PropertyAnnotation) {
				continue
			}

			if _, dup := out[p.Name]; dup {
				errs = append(errs, fmt.Errorf("%w: %s.%s: more than one %s annotation", ErrInvalidAnnotation, decl.ID, p.Name, a.Name))
				continue
			}

			o, err := DecodeOverride(a)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", decl.ID, p.Name, err))
				continue
			}

			out[p.Name] = o
		}
	}

	return out, errors.Join(errs...)
}
