package plan

import (
	"errors"
	"fmt"
	"sort"

	"dto-generator/internal/analyze"
	"dto-generator/internal/diagnostic"
	"dto-generator/internal/mapping"
)

// Sources are the specs discovered in a type graph and mapping file.
type Sources struct {
	Entities    []EntitySource
	Definitions []DefinitionSource
}

// EntitySource is a source entity with the simple specs attached to it.
type EntitySource struct {
	Entity *analyze.TypeDecl
	Specs  []mapping.SimpleSpec
}

// DefinitionSource is a definition type with its spec and overrides.
type DefinitionSource struct {
	Definition *analyze.TypeDecl
	Spec       mapping.DefinitionSpec
	Overrides  map[string]mapping.PropertyOverride
	// FromFile is true when the spec came from the mapping file.
	FromFile bool
}

// Count returns the number of resolutions the sources describe.
func (s *Sources) Count() int {
	n := len(s.Definitions)
	for _, e := range s.Entities {
		n += len(e.Specs)
	}

	return n
}

// Discover collects annotation-driven specs from every declaration in the
// graph, then applies the mapping file. A file entry for a definition
// replaces its annotation spec; file overrides replace annotation
// overrides of the same property.
func (r *Resolver) Discover() (*Sources, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	entities := make(map[analyze.TypeID]*EntitySource)
	definitions := make(map[analyze.TypeID]*DefinitionSource)
	stray := make(map[analyze.TypeID]map[string]mapping.PropertyOverride)

	for _, decl := range r.graph.Decls() {
		subj := subject(decl.ID, "")

		specs, err := mapping.SimpleSpecsOf(decl)
		if err != nil {
			diags.AddError(diagnostic.CodeInvalidAnnotation, err.Error(), subj, "")
		}

		if len(specs) > 0 {
			if decl.Kind != analyze.DeclStruct {
				diags.AddWarning(diagnostic.CodeInvalidAnnotation,
					fmt.Sprintf("%s on %s %s is ignored, only structs can be projected",
						mapping.SpecAnnotation, decl.Kind, decl.ID.Name), subj, "")
			} else {
				entities[decl.ID] = &EntitySource{Entity: decl, Specs: specs}
			}
		}

		overrides, oerr := mapping.OverridesOf(decl)
		if oerr != nil {
			diags.AddError(diagnostic.CodeInvalidAnnotation, oerr.Error(), subj, "")
		}

		spec, ok, err := mapping.DefinitionSpecOf(decl)

		switch {
		case err != nil && errors.Is(err, mapping.ErrUnresolvedType):
			diags.AddError(diagnostic.CodeSourceTypeNotFound, err.Error(), subj, "")
		case err != nil:
			diags.AddError(diagnostic.CodeInvalidAnnotation, err.Error(), subj, "")
		case ok:
			definitions[decl.ID] = &DefinitionSource{Definition: decl, Spec: spec, Overrides: overrides}
		case len(overrides) > 0:
			stray[decl.ID] = overrides
		}
	}

	if r.mappingDef != nil {
		diags.Merge(*mapping.Validate(r.mappingDef, r.graph))
		r.applyMappingFile(entities, definitions, stray)
	}

	for id := range stray {
		diags.AddWarning(diagnostic.CodeUnknownOverride,
			fmt.Sprintf("%s is ignored on %s without %s", mapping.PropertyAnnotation, id.Name, mapping.DefAnnotation),
			subject(id, ""), "")
	}

	src := &Sources{}
	for _, e := range entities {
		src.Entities = append(src.Entities, *e)
	}

	for _, d := range definitions {
		src.Definitions = append(src.Definitions, *d)
	}

	sort.Slice(src.Entities, func(i, j int) bool {
		return lessID(src.Entities[i].Entity.ID, src.Entities[j].Entity.ID)
	})
	sort.Slice(src.Definitions, func(i, j int) bool {
		return lessID(src.Definitions[i].Definition.ID, src.Definitions[j].Definition.ID)
	})

	diags.Sort()

	return src, diags
}

// applyMappingFile merges file entries. Entries Validate rejected are skipped here.
func (r *Resolver) applyMappingFile(
	entities map[analyze.TypeID]*EntitySource,
	definitions map[analyze.TypeID]*DefinitionSource,
	stray map[analyze.TypeID]map[string]mapping.PropertyOverride,
) {
	for _, em := range r.mappingDef.Entities {
		decl := analyze.ResolveTypeID(em.Type, r.graph)
		if decl == nil || decl.Kind != analyze.DeclStruct {
			continue
		}

		es, ok := entities[decl.ID]
		if !ok {
			es = &EntitySource{Entity: decl}
			entities[decl.ID] = es
		}

		for _, sm := range em.Specs {
			if sm.DtoName == "" {
				continue
			}

			es.Specs = append(es.Specs, sm.Spec())
		}
	}

	for _, dm := range r.mappingDef.Definitions {
		decl := analyze.ResolveTypeID(dm.Type, r.graph)
		source := analyze.ResolveTypeID(dm.Source, r.graph)

		if decl == nil || source == nil {
			continue
		}

		var annotated map[string]mapping.PropertyOverride
		if existing, ok := definitions[decl.ID]; ok {
			annotated = existing.Overrides
		} else {
			annotated = stray[decl.ID]
			delete(stray, decl.ID)
		}

		definitions[decl.ID] = &DefinitionSource{
			Definition: decl,
			Spec:       dm.Spec(source.ID),
			Overrides:  mapping.MergeOverrides(annotated, dm.PropertyOverrides()),
			FromFile:   true,
		}
	}
}

func lessID(a, b analyze.TypeID) bool {
	if a.PkgPath != b.PkgPath {
		return a.PkgPath < b.PkgPath
	}

	return a.Name < b.Name
}
