package plan

import (
	"errors"
	"strings"

	"dto-generator/internal/analyze"
	"dto-generator/internal/mapping"
)

// SimpleResult is the outcome of one simple spec. Exactly one of Blueprint
// and Err is set.
type SimpleResult struct {
	Spec      mapping.SimpleSpec
	Blueprint *Blueprint
	Err       error
}

// ResolveSimple projects entity through spec.
func ResolveSimple(entity *analyze.TypeDecl, spec mapping.SimpleSpec) (*Blueprint, error) {
	if entity == nil {
		return nil, errors.New("source entity is nil")
	}

	if strings.TrimSpace(spec.DtoName) == "" {
		return nil, &ConflictError{
			Definition: entity.ID,
			Source:     entity.ID,
			Reason:     "simple spec has no dto name",
		}
	}

	sel, err := Admit(entity.ID, entity.Properties, spec.Include, spec.Exclude)
	if err != nil {
		return nil, err
	}

	bp := &Blueprint{
		Package: entity.ID.PkgPath,
		Dir:     entity.Dir,
		Source:  entity.ID,
		DtoName: strings.TrimSpace(spec.DtoName),
	}

	if spec.IncludeAnnotations {
		bp.ClassAnnotations = mapping.StripDriving(entity.Annotations)
	}

	for _, p := range sel.Admitted {
		rp := ResolvedProperty{
			TargetName:  p.Name,
			Type:        p.Type,
			Origin:      FromSourceEntity(p.Name),
			Passthrough: true,
		}

		if spec.IncludeAnnotations {
			rp.Annotations = mapping.StripDriving(p.Annotations)
		}

		bp.Properties = append(bp.Properties, rp)
	}

	return bp, nil
}

// ResolveSimpleSpecs resolves every spec independently, in input order.
// A failing spec never suppresses its siblings.
func ResolveSimpleSpecs(entity *analyze.TypeDecl, specs []mapping.SimpleSpec) []SimpleResult {
	out := make([]SimpleResult, len(specs))

	for i, spec := range specs {
		bp, err := ResolveSimple(entity, spec)
		out[i] = SimpleResult{Spec: spec, Blueprint: bp, Err: err}
	}

	return out
}
