package plan

import (
	"dto-generator/internal/analyze"
	"dto-generator/internal/common"
	"dto-generator/internal/diagnostic"
)

// Plan is the final output of the resolution pipeline.
// It contains everything needed for code generation.
type Plan struct {
	// Blueprints is the list of resolved DTOs in deterministic order.
	Blueprints []Blueprint
	// Sources holds the specs the blueprints were resolved from.
	Sources *Sources
	// TypeGraph holds all analyzed types and packages to allow looking up package names.
	TypeGraph *analyze.TypeGraph
	// Diagnostics contains all warnings and errors from resolution.
	Diagnostics diagnostic.Diagnostics
}

// OriginKind tells where a resolved property's value comes from.
type OriginKind int

const (
	// OriginFromSource reads the source property of the same name.
	OriginFromSource OriginKind = iota
	// OriginNew has no source counterpart; its value is a mapper parameter.
	OriginNew
	// OriginRenamed reads an explicitly linked source property.
	OriginRenamed
)

// String returns a human-readable origin kind.
func (k OriginKind) String() string {
	switch k {
	case OriginFromSource:
		return "FromSourceEntity"
	case OriginNew:
		return "NewProperty"
	case OriginRenamed:
		return "RenamedFromSource"
	default:
		return common.UnknownStr
	}
}

// Origin is the provenance of a resolved property.
type Origin struct {
	Kind OriginKind
	// SourceName is the source property read, empty for OriginNew.
	SourceName string
}

// FromSourceEntity builds the origin of a property read under its own name.
func FromSourceEntity(name string) Origin {
	return Origin{Kind: OriginFromSource, SourceName: name}
}

// NewProperty builds the origin of a property absent from the source.
func NewProperty() Origin {
	return Origin{Kind: OriginNew}
}

// RenamedFromSource builds the origin of an explicitly linked property.
func RenamedFromSource(name string) Origin {
	return Origin{Kind: OriginRenamed, SourceName: name}
}

// String renders the origin as Kind or Kind(source).
func (o Origin) String() string {
	if o.Kind == OriginNew {
		return o.Kind.String()
	}

	return o.Kind.String() + "(" + o.SourceName + ")"
}

// ResolvedProperty is one property of a generated DTO.
type ResolvedProperty struct {
	TargetName string
	Type       analyze.TypeRef
	Origin     Origin
	// Annotations are already merged per the inheritance rules.
	Annotations []analyze.Annotation
	// Passthrough is true when the property is taken from the source
	// without being declared by the definition.
	Passthrough bool
}

// NeedsParam reports whether the mapper needs a parameter for this property.
func (p ResolvedProperty) NeedsParam() bool {
	return p.Origin.Kind == OriginNew
}

// SourceName returns the source property the mapper reads, or "" when the
// value is a parameter.
func (p ResolvedProperty) SourceName() string {
	return p.Origin.SourceName
}

// Blueprint is the validated description of one generated DTO and its
// source mapper. It is never mutated after construction.
type Blueprint struct {
	// Package is the import path of the source entity, where the DTO is generated.
	Package string
	// Dir is the directory of the source entity's package.
	Dir string
	// Source is the entity the DTO maps from.
	Source analyze.TypeID
	// Definition is the definition type, zero for simple specs.
	Definition analyze.TypeID
	DtoName    string
	// ClassAnnotations apply to the DTO type itself.
	ClassAnnotations []analyze.Annotation
	Properties       []ResolvedProperty
}

// Params returns the properties that become mapper parameters, in order.
func (b *Blueprint) Params() []ResolvedProperty {
	var out []ResolvedProperty

	for _, p := range b.Properties {
		if p.NeedsParam() {
			out = append(out, p)
		}
	}

	return out
}

// Property returns the resolved property with the given target name.
func (b *Blueprint) Property(name string) (ResolvedProperty, bool) {
	for _, p := range b.Properties {
		if p.TargetName == name {
			return p, true
		}
	}

	return ResolvedProperty{}, false
}

// PropertyNames returns target names in order.
func (b *Blueprint) PropertyNames() []string {
	out := make([]string, len(b.Properties))
	for i, p := range b.Properties {
		out[i] = p.TargetName
	}

	return out
}

// IsDefinition reports whether the blueprint was resolved from a definition type.
func (b *Blueprint) IsDefinition() bool {
	return !b.Definition.IsZero()
}

// Subject identifies the blueprint in diagnostics, e.g. "store.User/UserDto".
func (b *Blueprint) Subject() string {
	return subject(b.Source, b.DtoName)
}

func subject(id analyze.TypeID, name string) string {
	s := common.ShortName(id.PkgPath, id.Name)
	if name != "" {
		s += "/" + name
	}

	return s
}
