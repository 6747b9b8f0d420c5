// Package mapping provides the declarative DTO specs, their decoding from
// annotations, and the optional mapping file.
//
// # Annotations
//
// A source entity declares simple specs with one directive per DTO:
//
//	// @DtoSpec {dtoName: UserDto, exclude: [PasswordHash]}
//	// @DtoSpec {dtoName: UserName, include: [Name, Surname], includeAnnotations: false}
//	type User struct { ... }
//
// A definition type (struct or interface) shapes a DTO from a source entity
// and may add, rename or re-annotate properties:
//
//	// @DtoDef {source: !type User, exclude: [PasswordHash]}
//	type userView struct {
//		Nickname string             // new property, a mapper parameter
//		// @DtoProperty {from: Surname}
//		LastName string             // renamed from User.Surname
//	}
//
// # Mapping File
//
// The same specs can be declared without touching the source, in YAML or
// TOML (selected by extension):
//
//	version: "1"
//	entities:
//	  - type: store.User
//	    specs:
//	      - dtoName: UserDto
//	        exclude: PasswordHash        # a single name or a list
//	definitions:
//	  - type: store.userView
//	    source: store.User
//	    exclude: [PasswordHash]
//	    includeClassSourceAnnotations: false
//	    overrides:
//	      LastName:
//	        from: Surname
//	        includeSourceAnnotations: false
//
// File entity specs are added after annotation specs. A file definition
// replaces the annotation spec of the same definition type, and its overrides
// replace annotation overrides of the same property.
package mapping
