package plan

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"dto-generator/internal/analyze"
	"dto-generator/internal/mapping"
)

// DefinitionInput bundles everything the definition-based resolver reads.
type DefinitionInput struct {
	Spec mapping.DefinitionSpec
	// Definition is the type carrying the spec, its properties shape the DTO.
	Definition *analyze.TypeDecl
	// Overrides is keyed by the definition's own property names.
	Overrides map[string]mapping.PropertyOverride
	Source    *analyze.TypeDecl
}

// mergeGroup tells which step produced a definition property.
type mergeGroup int

const (
	groupRegular mergeGroup = iota
	groupOverride
)

// link is the outcome of matching one definition property against the
// admitted source properties.
type link struct {
	prop     analyze.Property
	group    mergeGroup
	override mapping.PropertyOverride
	// sourceFrom is the source name the property was matched against.
	sourceFrom string
	source     *analyze.Property
}

// ResolveDefinition merges a definition type with its source entity into a
// single blueprint. Any violation aborts the resolution; partial
// blueprints are never returned.
func ResolveDefinition(in DefinitionInput) (*Blueprint, error) {
	def, src := in.Definition, in.Source
	if def == nil {
		return nil, errors.New("definition type is nil")
	}

	if src == nil {
		return nil, &PropertyNotFoundError{Owner: in.Spec.Source, Referrer: def.ID, Field: "source"}
	}

	conflict := func(reason string, props ...string) error {
		return &ConflictError{Definition: def.ID, Source: src.ID, Properties: props, Reason: reason}
	}

	if src.Kind != analyze.DeclStruct {
		return nil, conflict(fmt.Sprintf("source %s is an %s, not a struct", src.ID, src.Kind))
	}

	dtoName := strings.TrimSpace(in.Spec.DtoName)
	if dtoName == "" {
		if def.Visibility != analyze.VisibilityPrivate {
			return nil, conflict("definition is not private and no explicit name provided")
		}

		dtoName = exportedName(def.ID.Name)
	}

	sel, err := Admit(src.ID, src.Properties, in.Spec.Include, in.Spec.Exclude)
	if err != nil {
		var nf *PropertyNotFoundError
		if errors.As(err, &nf) {
			nf.Referrer = def.ID
		}

		return nil, err
	}

	var classAnnotations []analyze.Annotation
	if in.Spec.IncludeClassSourceAnnotations {
		classAnnotations = mapping.StripDriving(src.Annotations)
	}

	classAnnotations = append(classAnnotations, mapping.StripDriving(def.Annotations)...)

	links, err := linkProperties(in, sel, conflict)
	if err != nil {
		return nil, err
	}

	bp := &Blueprint{
		Package:          src.ID.PkgPath,
		Dir:              src.Dir,
		Source:           src.ID,
		Definition:       def.ID,
		DtoName:          dtoName,
		ClassAnnotations: classAnnotations,
	}

	consumed := make(map[string]struct{}, len(links)*2)

	for _, group := range []mergeGroup{groupRegular, groupOverride} {
		for _, l := range links {
			if l.group != group {
				continue
			}

			consumed[l.prop.Name] = struct{}{}
			consumed[l.sourceFrom] = struct{}{}
			bp.Properties = append(bp.Properties, l.resolve(in.Spec.IncludePropertySourceAnnotations))
		}
	}

	for _, p := range sel.Admitted {
		if _, ok := consumed[p.Name]; ok {
			continue
		}

		rp := ResolvedProperty{
			TargetName:  p.Name,
			Type:        p.Type,
			Origin:      FromSourceEntity(p.Name),
			Passthrough: true,
		}

		if in.Spec.IncludePropertySourceAnnotations {
			rp.Annotations = mapping.StripDriving(p.Annotations)
		}

		bp.Properties = append(bp.Properties, rp)
	}

	if err := checkUniqueTargets(bp, conflict); err != nil {
		return nil, err
	}

	return bp, nil
}

// linkProperties partitions and validates the definition's properties.
// Regular properties are validated first and their failure is terminal:
// references to excluded names, then type mismatches. Override properties
// follow in the same manner, with dangling explicit sources reported
// between the two. The exclusion rules use the exclude list as written,
// even when include made it irrelevant for admission.
func linkProperties(in DefinitionInput, sel Selection, conflict func(string, ...string) error) ([]link, error) {
	var regular, overridden []link

	for _, p := range in.Definition.Properties {
		l := link{prop: p, group: groupRegular, sourceFrom: p.Name}

		if o, ok := in.Overrides[p.Name]; ok {
			l.group = groupOverride
			l.override = o
			l.sourceFrom = o.SourceName(p.Name)
			overridden = append(overridden, l)

			continue
		}

		regular = append(regular, l)
	}

	if err := checkLinks(in, sel, regular, conflict); err != nil {
		return nil, err
	}

	if err := checkLinks(in, sel, overridden, conflict); err != nil {
		return nil, err
	}

	return append(regular, overridden...), nil
}

// checkLinks validates one group of links in place, attaching the matched
// source property to each.
func checkLinks(in DefinitionInput, sel Selection, links []link, conflict func(string, ...string) error) error {
	var excluded []string

	for _, l := range links {
		if sel.Exclude.Contains(l.sourceFrom) {
			excluded = append(excluded, refName(l))
		}
	}

	if len(excluded) > 0 {
		return conflict("properties reference excluded source properties", excluded...)
	}

	var dangling []string

	for _, l := range links {
		if _, ok := sel.Property(l.sourceFrom); !ok && l.group == groupOverride && l.override.HasFrom() {
			dangling = append(dangling, l.sourceFrom)
		}
	}

	if len(dangling) > 0 {
		names := make([]string, len(sel.Admitted))
		for i, p := range sel.Admitted {
			names[i] = p.Name
		}

		return &PropertyNotFoundError{
			Owner:      in.Source.ID,
			Referrer:   in.Definition.ID,
			Field:      "from",
			Names:      dangling,
			Candidates: names,
		}
	}

	var mismatched []string

	ts := analyze.TypeStringer{Short: true}

	for i := range links {
		l := &links[i]

		sp, ok := sel.Property(l.sourceFrom)
		if !ok {
			continue
		}

		if !sp.Type.Equal(l.prop.Type) {
			mismatched = append(mismatched, fmt.Sprintf("%s %s != %s %s",
				refName(*l), ts.TypeString(l.prop.Type), sp.Name, ts.TypeString(sp.Type)))

			continue
		}

		l.source = &sp
	}

	if len(mismatched) > 0 {
		return conflict("property types do not match the source", mismatched...)
	}

	return nil
}

// resolve builds the resolved property. specFlag is the spec-level
// property annotation inheritance flag.
func (l link) resolve(specFlag bool) ResolvedProperty {
	rp := ResolvedProperty{TargetName: l.prop.Name, Type: l.prop.Type}

	inherit := specFlag

	switch {
	case l.source == nil:
		rp.Origin = NewProperty()
		inherit = false
	case l.group == groupOverride:
		rp.Origin = RenamedFromSource(l.sourceFrom)

		if l.override.IncludeSourceAnnotations != nil {
			inherit = *l.override.IncludeSourceAnnotations
		}
	default:
		rp.Origin = FromSourceEntity(l.sourceFrom)
	}

	if inherit {
		rp.Annotations = mapping.StripDriving(l.source.Annotations)
	}

	rp.Annotations = append(rp.Annotations, mapping.StripDriving(l.prop.Annotations)...)

	return rp
}

func refName(l link) string {
	if l.sourceFrom != l.prop.Name {
		return l.prop.Name + " (from " + l.sourceFrom + ")"
	}

	return l.prop.Name
}

func checkUniqueTargets(bp *Blueprint, conflict func(string, ...string) error) error {
	seen := make(map[string]struct{}, len(bp.Properties))

	var dup []string

	for _, p := range bp.Properties {
		if _, ok := seen[p.TargetName]; ok {
			dup = append(dup, p.TargetName)
		}

		seen[p.TargetName] = struct{}{}
	}

	if len(dup) > 0 {
		return conflict("duplicate target property names", dup...)
	}

	return nil
}

// exportedName upper-cases the first letter of name.
func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}

	return string(unicode.ToUpper(r)) + name[size:]
}
