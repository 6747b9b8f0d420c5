// Package analyze provides package loading and the annotation metadata model.
//
// It uses golang.org/x/tools/go/packages with AST and go/types
// to build a canonical in-memory model of structs, interfaces and
// the annotations applied to them.
//
// Annotations are written either as directive lines in doc comments
//
//	// @DtoSpec {dtoName: UserDto, exclude: [ID]}
//	// @field:Deprecated "use Email"
//
// or as struct tags, which become tag-form annotations keyed "tag:<key>".
// Directive arguments are a YAML flow value; "!type pkg.Name" marks a type
// reference that the loader resolves against the loaded packages.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeRef: structural type (base, generic arguments, nullability)
//   - Annotation: identity, arguments and use-site target
//   - TypeDecl: a struct or interface with ordered properties
package analyze
