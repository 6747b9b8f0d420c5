package plan

import (
	"dto-generator/internal/analyze"
	"dto-generator/internal/common"
	"dto-generator/internal/mapping"
)

// Selection is the outcome of admitting candidate properties.
type Selection struct {
	// Admitted holds the candidates that passed, in candidate order.
	Admitted []analyze.Property
	// Include and Exclude are the lists as supplied.
	Include mapping.NameSet
	Exclude mapping.NameSet
}

// Overlaps reports whether both lists were supplied, in which case Exclude
// was ignored.
func (s Selection) Overlaps() bool {
	return !s.Include.IsEmpty() && !s.Exclude.IsEmpty()
}

// Property returns the admitted property with the given name.
func (s Selection) Property(name string) (analyze.Property, bool) {
	for _, p := range s.Admitted {
		if p.Name == name {
			return p, true
		}
	}

	return analyze.Property{}, false
}

// Admit restricts candidates by include, or else by exclude. Every listed
// name must exist among the candidates; all missing names are reported in a
// single PropertyNotFoundError. A non-empty include makes exclude ignored.
func Admit(owner analyze.TypeID, candidates []analyze.Property, include, exclude mapping.NameSet) (Selection, error) {
	sel := Selection{Include: include, Exclude: exclude}

	names := make([]string, len(candidates))
	known := make(map[string]struct{}, len(candidates))

	for i, p := range candidates {
		names[i] = p.Name
		known[p.Name] = struct{}{}
	}

	var (
		field string
		list  mapping.NameSet
	)

	switch {
	case !include.IsEmpty():
		field, list = "include", include
	case !exclude.IsEmpty():
		field, list = "exclude", exclude
	default:
		sel.Admitted = append([]analyze.Property(nil), candidates...)

		return sel, nil
	}

	if missing := common.Missing([]string(list), known); len(missing) > 0 {
		return sel, &PropertyNotFoundError{
			Owner:      owner,
			Field:      field,
			Names:      missing,
			Candidates: names,
		}
	}

	keep := field == "include"
	set := list.Set()

	for _, p := range candidates {
		if _, listed := set[p.Name]; listed == keep {
			sel.Admitted = append(sel.Admitted, p)
		}
	}

	return sel, nil
}
