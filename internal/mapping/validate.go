package mapping

import (
	"fmt"

	"dto-generator/internal/analyze"
	"dto-generator/internal/diagnostic"
)

// Validate validates a mapping file against the given type graph.
// This is a structural validation step only; property-level rules are
// checked during resolution.
func Validate(mf *MappingFile, graph *analyze.TypeGraph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if graph == nil {
		res.AddError("graph_is_nil", "type graph is nil", "", "")
		return res
	}

	for i := range mf.Entities {
		validateEntity(res, &mf.Entities[i], graph)
	}

	seenDefs := map[analyze.TypeID]struct{}{}

	for i := range mf.Definitions {
		dm := &mf.Definitions[i]

		def := validateDefinition(res, dm, graph)
		if def == nil {
			continue
		}

		if _, dup := seenDefs[def.ID]; dup {
			res.AddError(diagnostic.CodeInvalidMapping,
				fmt.Sprintf("definition %s is declared more than once", def.ID), dm.Type, "")

			continue
		}

		seenDefs[def.ID] = struct{}{}
	}

	return res
}

func validateEntity(res *diagnostic.Diagnostics, em *EntityMapping, graph *analyze.TypeGraph) {
	src := analyze.ResolveTypeID(em.Type, graph)
	if src == nil {
		res.AddError(diagnostic.CodeSourceTypeNotFound, fmt.Sprintf("source type %q not found", em.Type), em.Type, "")
		return
	}

	if src.Kind != analyze.DeclStruct {
		res.AddError(diagnostic.CodeInvalidMapping, fmt.Sprintf("source type %s is a %s, not a struct", src.ID, src.Kind), em.Type, "")
	}

	if len(em.Specs) == 0 {
		res.AddWarning(diagnostic.CodeInvalidMapping, "entity has no specs", em.Type, "")
	}

	for j, s := range em.Specs {
		if s.DtoName == "" {
			res.AddError(diagnostic.CodeInvalidMapping, fmt.Sprintf("spec #%d has a blank dtoName", j+1), em.Type, "")
		}
	}
}

func validateDefinition(res *diagnostic.Diagnostics, dm *DefinitionMapping, graph *analyze.TypeGraph) *analyze.TypeDecl {
	def := analyze.ResolveTypeID(dm.Type, graph)
	if def == nil {
		res.AddError(diagnostic.CodeDefinitionTypeNotFound, fmt.Sprintf("definition type %q not found", dm.Type), dm.Type, "")
		return nil
	}

	src := analyze.ResolveTypeID(dm.Source, graph)
	if src == nil {
		res.AddError(diagnostic.CodeSourceTypeNotFound, fmt.Sprintf("source type %q not found", dm.Source), dm.Type, "")
	} else if src.Kind != analyze.DeclStruct {
		res.AddError(diagnostic.CodeInvalidMapping, fmt.Sprintf("source type %s is a %s, not a struct", src.ID, src.Kind), dm.Type, "")
	}

	for name := range dm.Overrides {
		if _, ok := def.Property(name); !ok {
			res.AddError(diagnostic.CodeUnknownOverride,
				fmt.Sprintf("override names property %q which %s does not declare", name, def.ID), dm.Type, name)
		}
	}

	return def
}
