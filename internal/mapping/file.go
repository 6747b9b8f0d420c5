package mapping

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"dto-generator/internal/analyze"
)

// MappingFile declares DTO specs outside the source code. It is loaded from
// YAML or TOML and merged with annotation-driven specs.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty" toml:"version,omitempty"`

	// Entities lists simple specs per source entity.
	Entities []EntityMapping `yaml:"entities,omitempty" toml:"entities,omitempty"`

	// Definitions lists definition-based specs.
	Definitions []DefinitionMapping `yaml:"definitions,omitempty" toml:"definitions,omitempty"`
}

// EntityMapping attaches simple specs to a source entity.
type EntityMapping struct {
	// Type identifier (e.g., "store.User" or full path).
	Type  string        `yaml:"type" toml:"type"`
	Specs []SpecMapping `yaml:"specs" toml:"specs"`
}

// SpecMapping is the file form of a SimpleSpec.
type SpecMapping struct {
	DtoName            string  `yaml:"dtoName" toml:"dtoName"`
	Include            NameSet `yaml:"include,omitempty" toml:"include,omitempty"`
	Exclude            NameSet `yaml:"exclude,omitempty" toml:"exclude,omitempty"`
	IncludeAnnotations *bool   `yaml:"includeAnnotations,omitempty" toml:"includeAnnotations,omitempty"`
}

// DefinitionMapping is the file form of a DefinitionSpec plus its overrides.
type DefinitionMapping struct {
	// Type is the definition type identifier.
	Type string `yaml:"type" toml:"type"`
	// Source is the source entity identifier.
	Source                           string                     `yaml:"source" toml:"source"`
	DtoName                          string                     `yaml:"dtoName,omitempty" toml:"dtoName,omitempty"`
	Include                          NameSet                    `yaml:"include,omitempty" toml:"include,omitempty"`
	Exclude                          NameSet                    `yaml:"exclude,omitempty" toml:"exclude,omitempty"`
	IncludeClassSourceAnnotations    *bool                      `yaml:"includeClassSourceAnnotations,omitempty" toml:"includeClassSourceAnnotations,omitempty"`
	IncludePropertySourceAnnotations *bool                      `yaml:"includePropertySourceAnnotations,omitempty" toml:"includePropertySourceAnnotations,omitempty"`
	Overrides                        map[string]OverrideMapping `yaml:"overrides,omitempty" toml:"overrides,omitempty"`
}

// OverrideMapping is the file form of a PropertyOverride.
type OverrideMapping struct {
	From                     string `yaml:"from,omitempty" toml:"from,omitempty"`
	IncludeSourceAnnotations *bool  `yaml:"includeSourceAnnotations,omitempty" toml:"includeSourceAnnotations,omitempty"`
}

// UnmarshalYAML accepts either a single name or a list of names.
func (s *NameSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = NameSet{str}
		} else {
			*s = NameSet{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = NewNameSet(arr...)

		return nil

	default:
		return fmt.Errorf("expected name or list of names, got %v", node.Kind)
	}
}

func flagOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}

	return *v
}

// Spec converts the mapping into a SimpleSpec. includeAnnotations defaults to true.
func (m SpecMapping) Spec() SimpleSpec {
	return SimpleSpec{
		DtoName:            m.DtoName,
		Include:            NewNameSet(m.Include...),
		Exclude:            NewNameSet(m.Exclude...),
		IncludeAnnotations: flagOr(m.IncludeAnnotations, true),
	}
}

// Spec converts the mapping into a DefinitionSpec for a resolved source type.
func (m DefinitionMapping) Spec(source analyze.TypeID) DefinitionSpec {
	return DefinitionSpec{
		Source:                           source,
		DtoName:                          m.DtoName,
		Include:                          NewNameSet(m.Include...),
		Exclude:                          NewNameSet(m.Exclude...),
		IncludeClassSourceAnnotations:    flagOr(m.IncludeClassSourceAnnotations, true),
		IncludePropertySourceAnnotations: flagOr(m.IncludePropertySourceAnnotations, true),
	}
}

// Override converts the mapping into a PropertyOverride.
func (m OverrideMapping) Override() PropertyOverride {
	return PropertyOverride{From: m.From, IncludeSourceAnnotations: m.IncludeSourceAnnotations}
}

// PropertyOverrides converts all overrides of the definition.
func (m DefinitionMapping) PropertyOverrides() map[string]PropertyOverride {
	out := make(map[string]PropertyOverride, len(m.Overrides))
	for name, o := range m.Overrides {
		out[name] = o.Override()
	}

	return out
}

// MergeOverrides returns annotation overrides with file overrides applied on
// top. A file entry replaces the annotation override of the same property.
func MergeOverrides(fromAnnotations, fromFile map[string]PropertyOverride) map[string]PropertyOverride {
	out := make(map[string]PropertyOverride, len(fromAnnotations)+len(fromFile))
	for name, o := range fromAnnotations {
		out[name] = o
	}

	for name, o := range fromFile {
		out[name] = o
	}

	return out
}

// SpecMappingOf is the inverse of SpecMapping.Spec. Default flags are omitted.
func SpecMappingOf(spec SimpleSpec) SpecMapping {
	m := SpecMapping{DtoName: spec.DtoName, Include: spec.Include, Exclude: spec.Exclude}
	if !spec.IncludeAnnotations {
		m.IncludeAnnotations = Bool(false)
	}

	return m
}

// DefinitionMappingOf renders a definition spec and its overrides in file form.
func DefinitionMappingOf(def, source string, spec DefinitionSpec, overrides map[string]PropertyOverride) DefinitionMapping {
	m := DefinitionMapping{
		Type:    def,
		Source:  source,
		DtoName: spec.DtoName,
		Include: spec.Include,
		Exclude: spec.Exclude,
	}

	if !spec.IncludeClassSourceAnnotations {
		m.IncludeClassSourceAnnotations = Bool(false)
	}

	if !spec.IncludePropertySourceAnnotations {
		m.IncludePropertySourceAnnotations = Bool(false)
	}

	if len(overrides) > 0 {
		m.Overrides = make(map[string]OverrideMapping, len(overrides))
		for name, o := range overrides {
			m.Overrides[name] = OverrideMapping{From: o.From, IncludeSourceAnnotations: o.IncludeSourceAnnotations}
		}
	}

	return m
}

// Sort orders entities and definitions by type identifier.
func (mf *MappingFile) Sort() {
	sort.SliceStable(mf.Entities, func(i, j int) bool { return mf.Entities[i].Type < mf.Entities[j].Type })
	sort.SliceStable(mf.Definitions, func(i, j int) bool { return mf.Definitions[i].Type < mf.Definitions[j].Type })
}
