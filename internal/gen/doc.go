// Package gen provides deterministic Go code generation for resolved DTO blueprints.
//
// Code is built with github.com/dave/jennifer, which manages imports and
// formats the output.
//
// Each blueprint yields one file holding:
//   - the DTO struct; tag annotations become struct tags and directive
//     annotations are kept as directive comment lines
//   - the mapper, a method on the source entity (or a function when DTOs go
//     to a separate package) taking one parameter per property the source
//     cannot supply and reading every other property from the source
package gen
