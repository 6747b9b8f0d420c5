package plan

import (
	"gopkg.in/yaml.v3"

	"dto-generator/internal/mapping"
)

// ExportMappingFile renders discovered specs in mapping file form, so
// annotation-driven configuration can be reviewed or moved into a file.
func ExportMappingFile(src *Sources) *mapping.MappingFile {
	mf := &mapping.MappingFile{Version: "1"}
	if src == nil {
		return mf
	}

	for _, es := range src.Entities {
		em := mapping.EntityMapping{Type: es.Entity.ID.String()}
		for _, spec := range es.Specs {
			em.Specs = append(em.Specs, mapping.SpecMappingOf(spec))
		}

		mf.Entities = append(mf.Entities, em)
	}

	for _, ds := range src.Definitions {
		mf.Definitions = append(mf.Definitions, mapping.DefinitionMappingOf(
			ds.Definition.ID.String(), ds.Spec.Source.String(), ds.Spec, ds.Overrides))
	}

	mf.Sort()

	return mf
}

// ExportMappingYAML renders ExportMappingFile as YAML.
func ExportMappingYAML(src *Sources) ([]byte, error) {
	return yaml.Marshal(ExportMappingFile(src))
}
