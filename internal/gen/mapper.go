package gen

import (
	"fmt"
	"strconv"

	"github.com/dave/jennifer/jen"

	"dto-generator/internal/plan"
)

// mapperParam is one parameter of a mapper: a property with no source.
type mapperParam struct {
	name string
	prop plan.ResolvedProperty
}

// mapperParams names the NewProperty entries, in property order.
func mapperParams(bp *plan.Blueprint) []mapperParam {
	params := bp.Params()
	out := make([]mapperParam, 0, len(params))
	used := make(map[string]bool, len(params))

	for _, p := range params {
		name := paramName(p.TargetName)
		for i := 2; used[name]; i++ {
			name = paramName(p.TargetName) + strconv.Itoa(i)
		}

		used[name] = true
		out = append(out, mapperParam{name: name, prop: p})
	}

	return out
}

// writeMapper emits the source → DTO mapper. In the source package it is a
// method on the entity, otherwise a function taking the entity first.
// A nil source yields a DTO holding only the parameters.
func (g *Generator) writeMapper(f *jen.File, bp *plan.Blueprint) {
	params := mapperParams(bp)
	name := g.mapperName(bp)
	source := jen.Id(receiverName).Op("*").Qual(bp.Source.PkgPath, bp.Source.Name)

	if g.config.GenerateComments {
		f.Comment(fmt.Sprintf("%s maps %s to %s.", name, bp.Source.Name, bp.DtoName))

		if len(params) > 0 {
			f.Comment("Parameters supply the properties the source does not have.")
		}
	}

	var fn *jen.Statement
	if g.config.Separate() {
		fn = f.Func().Id(name).ParamsFunc(func(group *jen.Group) {
			group.Add(source)
			for _, p := range params {
				group.Id(p.name).Add(typeCode(p.prop.Type))
			}
		})
	} else {
		fn = f.Func().Params(source).Id(name).ParamsFunc(func(group *jen.Group) {
			for _, p := range params {
				group.Id(p.name).Add(typeCode(p.prop.Type))
			}
		})
	}

	values, onlyParams := jen.Dict{}, jen.Dict{}
	paramIndex := 0

	for _, p := range bp.Properties {
		if p.NeedsParam() {
			values[jen.Id(p.TargetName)] = jen.Id(params[paramIndex].name)
			onlyParams[jen.Id(p.TargetName)] = jen.Id(params[paramIndex].name)
			paramIndex++

			continue
		}

		values[jen.Id(p.TargetName)] = jen.Id(receiverName).Dot(p.SourceName())
	}

	fn.Id(bp.DtoName).Block(
		jen.If(jen.Id(receiverName).Op("==").Nil()).Block(
			jen.Return(jen.Id(bp.DtoName).Values(onlyParams)),
		),
		jen.Line(),
		jen.Return(jen.Id(bp.DtoName).Values(values)),
	)
}
