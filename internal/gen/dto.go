package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"dto-generator/internal/analyze"
	"dto-generator/internal/plan"
)

// writeStruct declares the DTO type. Tag-form annotations become struct
// tags, directive annotations are written back as directive comment lines.
func (g *Generator) writeStruct(f *jen.File, bp *plan.Blueprint) {
	if g.config.GenerateComments {
		f.Comment(fmt.Sprintf("%s is generated from %s.", bp.DtoName, g.describe(bp)))
	}

	directives := directiveLines(bp.ClassAnnotations)
	if len(directives) > 0 {
		if g.config.GenerateComments {
			f.Comment("")
		}

		for _, line := range directives {
			f.Comment(line)
		}
	}

	f.Type().Id(bp.DtoName).StructFunc(func(group *jen.Group) {
		for _, p := range bp.Properties {
			for _, line := range directiveLines(p.Annotations) {
				group.Comment(line)
			}

			field := group.Id(p.TargetName).Add(typeCode(p.Type))
			if tags := structTags(p.Annotations); len(tags) > 0 {
				field.Tag(tags)
			}
		}
	})
}

func (g *Generator) describe(bp *plan.Blueprint) string {
	src := bp.Source.Name
	if g.config.Separate() {
		src = g.getPkgName(bp.Source.PkgPath) + "." + src
	}

	if bp.IsDefinition() {
		return src + " shaped by " + bp.Definition.Name
	}

	return src
}

// structTags collects tag annotations by key. A later annotation with the
// same key wins, so a definition's own tags replace inherited ones.
func structTags(annotations []analyze.Annotation) map[string]string {
	tags := make(map[string]string)

	for _, a := range annotations {
		if a.Form != analyze.FormTag {
			continue
		}

		v, _ := a.Positional(0)
		tags[a.Name] = v.Str
	}

	return tags
}

func directiveLines(annotations []analyze.Annotation) []string {
	var out []string

	for _, a := range annotations {
		if a.Form == analyze.FormDirective {
			out = append(out, a.String())
		}
	}

	return out
}
