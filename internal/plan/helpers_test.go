package plan

import (
	"dto-generator/internal/analyze"
	"dto-generator/internal/mapping"
)

const testPkg = "example.com/app"

var (
	tString = analyze.TypeRef{Name: "string"}
	tInt    = analyze.TypeRef{Name: "int64"}
)

func prop(name string, t analyze.TypeRef, annotations ...analyze.Annotation) analyze.Property {
	return analyze.Property{Name: name, Type: t, Annotations: annotations}
}

func marker(name string) analyze.Annotation {
	return analyze.Annotation{ID: analyze.AnnotationID(name), Name: name}
}

func tag(key, value string) analyze.Annotation {
	return analyze.Annotation{
		ID:   analyze.TagID(key),
		Name: key,
		Form: analyze.FormTag,
		Args: []analyze.Argument{{Value: analyze.StringValue(value)}},
	}
}

func driving(id analyze.AnnotationID) analyze.Annotation {
	return analyze.Annotation{ID: id, Name: string(id)}
}

func decl(name string, kind analyze.DeclKind, props ...analyze.Property) *analyze.TypeDecl {
	for i := range props {
		props[i].Order = i
	}

	return &analyze.TypeDecl{
		ID:         analyze.TypeID{PkgPath: testPkg, Name: name},
		Kind:       kind,
		Visibility: analyze.VisibilityOf(name),
		Properties: props,
	}
}

// user is User(ID, Name, Surname).
func user() *analyze.TypeDecl {
	d := decl("User", analyze.DeclStruct,
		prop("ID", tInt, tag("json", "id")),
		prop("Name", tString, tag("json", "name")),
		prop("Surname", tString, tag("json", "surname")),
	)
	d.Annotations = []analyze.Annotation{driving(mapping.SpecAnnotation), marker("Audited")}

	return d
}

func origins(bp *Blueprint) []string {
	out := make([]string, len(bp.Properties))
	for i, p := range bp.Properties {
		out[i] = p.TargetName + ":" + p.Origin.String()
	}

	return out
}

func annotationNames(list []analyze.Annotation) []string {
	var out []string
	for _, a := range list {
		out = append(out, a.String())
	}

	return out
}
