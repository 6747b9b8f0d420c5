package mapping

import (
	"slices"
	"strings"

	"dto-generator/internal/analyze"
	"dto-generator/internal/common"
)

// Canonical identities of the annotations that drive DTO generation.
const (
	SpecAnnotation     analyze.AnnotationID = "dto.Spec"
	DefAnnotation      analyze.AnnotationID = "dto.Def"
	PropertyAnnotation analyze.AnnotationID = "dto.Property"
)

// DefaultAliases returns the spellings recognized for the driving annotations.
func DefaultAliases() analyze.Aliases {
	return analyze.Aliases{
		"DtoSpec":      SpecAnnotation,
		"dto.Spec":     SpecAnnotation,
		"DtoDef":       DefAnnotation,
		"dto.Def":      DefAnnotation,
		"DtoProperty":  PropertyAnnotation,
		"dto.Property": PropertyAnnotation,
	}
}

// MergeAliases returns the default aliases extended with user spellings.
// Values may name a canonical identity or another known spelling.
func MergeAliases(extra map[string]string) analyze.Aliases {
	aliases := DefaultAliases()
	for name, target := range extra {
		aliases[name] = aliases.Resolve(target)
	}

	return aliases
}

// IsDriving reports whether a is one of the annotations that configure
// generation. Driving annotations are never copied onto generated output.
func IsDriving(a analyze.Annotation) bool {
	return a.Is(SpecAnnotation) || a.Is(DefAnnotation) || a.Is(PropertyAnnotation)
}

// StripDriving returns annotations without the driving ones, keeping order.
func StripDriving(annotations []analyze.Annotation) []analyze.Annotation {
	var out []analyze.Annotation

	for _, a := range annotations {
		if !IsDriving(a) {
			out = append(out, a)
		}
	}

	return out
}

// NameSet is an ordered set of property names. Duplicates are dropped on
// construction, the first occurrence wins.
type NameSet []string

// NewNameSet builds a NameSet from names.
func NewNameSet(names ...string) NameSet {
	return NameSet(common.Unique(names))
}

// Contains reports membership.
func (s NameSet) Contains(name string) bool {
	return slices.Contains(s, name)
}

// IsEmpty returns true if the set has no names.
func (s NameSet) IsEmpty() bool {
	return common.IsEmpty(s)
}

// Set returns the names as a lookup map.
func (s NameSet) Set() map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for _, n := range s {
		out[n] = struct{}{}
	}

	return out
}

// String renders the set as "[a, b]".
func (s NameSet) String() string {
	return "[" + strings.Join(s, ", ") + "]"
}

// SimpleSpec describes one DTO projected directly from a source entity.
type SimpleSpec struct {
	// DtoName is the name of the generated type. Never blank.
	DtoName string
	// Include restricts the projection to the named properties. Wins over Exclude.
	Include NameSet
	// Exclude drops the named properties when Include is empty.
	Exclude NameSet
	// IncludeAnnotations copies class and property annotations from the source.
	IncludeAnnotations bool
}

// DefinitionSpec configures a DTO shaped by a definition type.
type DefinitionSpec struct {
	// Source is the entity the base properties come from.
	Source analyze.TypeID
	// DtoName, when blank, derives the name from the definition type, which
	// must then be unexported.
	DtoName string
	Include NameSet
	Exclude NameSet
	// IncludeClassSourceAnnotations copies the source type's annotations.
	IncludeClassSourceAnnotations bool
	// IncludePropertySourceAnnotations copies source property annotations
	// unless a PropertyOverride says otherwise.
	IncludePropertySourceAnnotations bool
}

// PropertyOverride is attached to one property of a definition type.
type PropertyOverride struct {
	// From names the source property; blank means the property's own name.
	From string
	// IncludeSourceAnnotations overrides the spec-level property flag when set.
	IncludeSourceAnnotations *bool
}

// HasFrom reports whether an explicit source name was supplied.
func (o PropertyOverride) HasFrom() bool {
	return strings.TrimSpace(o.From) != ""
}

// SourceName returns the source property name the override points at.
func (o PropertyOverride) SourceName(own string) string {
	if o.HasFrom() {
		return strings.TrimSpace(o.From)
	}

	return own
}

// Bool returns a pointer to b, for optional flags.
func Bool(b bool) *bool {
	return &b
}
