package analyze

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"dto-generator/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "dto-generator/store"
	Name    string // e.g., "User"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// IsZero reports whether the TypeID is unset.
func (t TypeID) IsZero() bool {
	return t.PkgPath == "" && t.Name == ""
}

// Visibility is the declared scope of a type.
type Visibility int

const (
	VisibilityPublic  Visibility = iota // exported identifier
	VisibilityPrivate                   // unexported identifier
)

// String returns a human-readable visibility name.
func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityPrivate:
		return "private"
	default:
		return common.UnknownStr
	}
}

// VisibilityOf derives the visibility of a Go identifier.
func VisibilityOf(name string) Visibility {
	r, _ := utf8.DecodeRuneInString(name)
	if unicode.IsUpper(r) {
		return VisibilityPublic
	}

	return VisibilityPrivate
}

// Composite type names used by TypeRef for unnamed Go types.
const (
	SliceName   = "[]"
	MapName     = "map"
	PointerName = "*"
	FuncName    = "func"
	// TupleName groups the parameters or results of a func ref.
	TupleName    = "()"
	VariadicName = "..."
	ChanName     = "chan"
	RecvChanName = "<-chan"
	SendChanName = "chan<-"
)

// TypeRef is a structural type descriptor: a base name, generic (or element)
// arguments and nullability. Two TypeRefs describe the same type iff Equal.
//
// Named types carry their package path in Pkg. Slices use Name "[]" with the
// element in Args, maps use Name "map" with key and value, arrays use "[N]".
// A Go pointer is expressed as Nullable on the pointee; a pointer to a
// nullable type is wrapped in a "*" ref that is itself Nullable. Func types
// use Name "func" with a parameter and a result tuple, the last parameter of
// a variadic func is a "..." ref. Channels use "chan", "<-chan" or "chan<-"
// with the element. Anonymous structs and interface literals keep their Go
// spelling in Name.
type TypeRef struct {
	Pkg      string
	Name     string
	Args     []TypeRef
	Nullable bool
}

// Equal reports exact structural equality.
func (t TypeRef) Equal(o TypeRef) bool {
	if t.Pkg != o.Pkg || t.Name != o.Name || t.Nullable != o.Nullable || len(t.Args) != len(o.Args) {
		return false
	}

	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}

	return true
}

// IsNamed reports whether the ref points at a declared (package-level) type.
func (t TypeRef) IsNamed() bool {
	return t.Pkg != ""
}

// String renders the type in Go syntax with full package paths.
func (t TypeRef) String() string {
	return NewTypeStringer().TypeString(t)
}

// ValueKind tags an annotation argument value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInt
	ValueFloat
	ValueBool
	ValueList
	ValueType
)

// String returns a human-readable kind name.
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	case ValueBool:
		return "bool"
	case ValueList:
		return "list"
	case ValueType:
		return "type"
	default:
		return common.UnknownStr
	}
}

// Value is a tagged annotation argument value.
type Value struct {
	Kind  ValueKind
	Str   string // ValueString; the unresolved spelling for ValueType
	Int   int64
	Float float64
	Bool  bool
	List  []Value
	Type  TypeID // ValueType, resolved by the loader when possible
}

// StringValue builds a string value.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// BoolValue builds a boolean value.
func BoolValue(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// IntValue builds an integer value.
func IntValue(i int64) Value { return Value{Kind: ValueInt, Int: i} }

// ListValue builds a list value.
func ListValue(items ...Value) Value { return Value{Kind: ValueList, List: items} }

// TypeValue builds a type reference value.
func TypeValue(ref string) Value { return Value{Kind: ValueType, Str: ref} }

// Strings returns the value as a list of strings. A single string is a
// one-element list.
func (v Value) Strings() ([]string, bool) {
	switch v.Kind {
	case ValueString:
		return []string{v.Str}, true
	case ValueList:
		out := make([]string, 0, len(v.List))
		for _, item := range v.List {
			if item.Kind != ValueString {
				return nil, false
			}

			out = append(out, item.Str)
		}

		return out, true
	default:
		return nil, false
	}
}

// String renders the value in directive argument syntax.
func (v Value) String() string {
	switch v.Kind {
	case ValueString:
		return strconv.Quote(v.Str)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}

		return "[" + strings.Join(parts, ", ") + "]"
	case ValueType:
		ref := v.Str
		if !v.Type.IsZero() {
			ref = v.Type.String()
		}

		return typeTag + " " + ref
	default:
		return common.UnknownStr
	}
}

// Argument is one applied annotation argument. Name is empty for positional arguments.
type Argument struct {
	Name  string
	Value Value
}

// UseSite is the optional use-site target of an annotation.
type UseSite int

const (
	UseSiteNone UseSite = iota
	UseSiteField
	UseSiteProperty
	UseSiteGet
	UseSiteSet
	UseSiteParam
	UseSiteSetParam
	UseSiteReceiver
	UseSiteFile
	UseSiteDelegate
)

var useSiteNames = map[UseSite]string{
	UseSiteField:    "field",
	UseSiteProperty: "property",
	UseSiteGet:      "get",
	UseSiteSet:      "set",
	UseSiteParam:    "param",
	UseSiteSetParam: "setparam",
	UseSiteReceiver: "receiver",
	UseSiteFile:     "file",
	UseSiteDelegate: "delegate",
}

// String returns the directive prefix spelling of the use site.
func (u UseSite) String() string {
	if u == UseSiteNone {
		return ""
	}

	if name, ok := useSiteNames[u]; ok {
		return name
	}

	return common.UnknownStr
}

// ParseUseSite maps a directive prefix to a UseSite.
func ParseUseSite(s string) (UseSite, bool) {
	for site, name := range useSiteNames {
		if name == strings.ToLower(s) {
			return site, true
		}
	}

	return UseSiteNone, false
}

// AnnotationForm tells where an annotation was written.
type AnnotationForm int

const (
	// FormDirective is an "@Name args" line in a doc comment.
	FormDirective AnnotationForm = iota
	// FormTag is a struct tag key.
	FormTag
)

// AnnotationID is the canonical identity of an annotation type. Aliased
// spellings of the same annotation share one ID.
type AnnotationID string

// Annotation is an applied annotation instance.
type Annotation struct {
	ID      AnnotationID
	Name    string // as written
	Form    AnnotationForm
	Args    []Argument
	UseSite UseSite
}

// Is reports whether the annotation has the given identity.
func (a Annotation) Is(id AnnotationID) bool {
	return a.ID == id
}

// Arg returns the named argument value.
func (a Annotation) Arg(name string) (Value, bool) {
	for _, arg := range a.Args {
		if arg.Name == name {
			return arg.Value, true
		}
	}

	return Value{}, false
}

// Positional returns the i-th positional (unnamed) argument.
func (a Annotation) Positional(i int) (Value, bool) {
	n := 0

	for _, arg := range a.Args {
		if arg.Name != "" {
			continue
		}

		if n == i {
			return arg.Value, true
		}

		n++
	}

	return Value{}, false
}

// String renders the annotation in the syntax it was written in.
func (a Annotation) String() string {
	if a.Form == FormTag {
		v, _ := a.Positional(0)
		return a.Name + ":" + strconv.Quote(v.Str)
	}

	var b strings.Builder

	b.WriteString(directivePrefix)

	if a.UseSite != UseSiteNone {
		b.WriteString(a.UseSite.String())
		b.WriteByte(':')
	}

	b.WriteString(a.Name)

	switch {
	case len(a.Args) == 0:
	case a.Args[0].Name == "":
		parts := make([]string, len(a.Args))
		for i, arg := range a.Args {
			parts[i] = arg.Value.String()
		}

		if len(parts) == 1 && a.Args[0].Value.Kind != ValueList {
			b.WriteString(" " + parts[0])
		} else {
			b.WriteString(" [" + strings.Join(parts, ", ") + "]")
		}
	default:
		parts := make([]string, len(a.Args))
		for i, arg := range a.Args {
			parts[i] = arg.Name + ": " + arg.Value.String()
		}

		b.WriteString(" {" + strings.Join(parts, ", ") + "}")
	}

	return b.String()
}

// Property is a named, typed attribute of a declared type.
type Property struct {
	Name        string
	Type        TypeRef
	Annotations []Annotation
	Order       int // declaration index within the owning type
}

// DeclKind is the kind of a declared type.
type DeclKind int

const (
	DeclStruct DeclKind = iota
	DeclInterface
)

// String returns a human-readable kind name.
func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclInterface:
		return "interface"
	default:
		return common.UnknownStr
	}
}

// TypeDecl is a declared struct or interface type with its annotations.
type TypeDecl struct {
	ID          TypeID
	Kind        DeclKind
	Visibility  Visibility
	Annotations []Annotation
	Properties  []Property
	// Dir is the directory of the file declaring the type.
	Dir string
}

// Property returns the property with the given name.
func (d *TypeDecl) Property(name string) (Property, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}

	return Property{}, false
}

// PropertyNames returns property names in declaration order.
func (d *TypeDecl) PropertyNames() []string {
	names := make([]string, len(d.Properties))
	for i, p := range d.Properties {
		names[i] = p.Name
	}

	return names
}

// HasAnnotation reports whether the type carries an annotation with the given identity.
func (d *TypeDecl) HasAnnotation(id AnnotationID) bool {
	for _, a := range d.Annotations {
		if a.Is(id) {
			return true
		}
	}

	return false
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeDecl for all struct and interface types.
	Types map[TypeID]*TypeDecl
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeDecl),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeDecl for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeDecl {
	return g.Types[id]
}

// Add registers a declaration and its package.
func (g *TypeGraph) Add(decl *TypeDecl) {
	g.Types[decl.ID] = decl

	pkg, ok := g.Packages[decl.ID.PkgPath]
	if !ok {
		pkg = &PackageInfo{Path: decl.ID.PkgPath, Name: common.PkgAlias(decl.ID.PkgPath), Dir: decl.Dir}
		g.Packages[decl.ID.PkgPath] = pkg
	}

	pkg.Types = append(pkg.Types, decl.ID)
}

// Decls returns all declarations ordered by package path, then name.
func (g *TypeGraph) Decls() []*TypeDecl {
	out := make([]*TypeDecl, 0, len(g.Types))
	for _, d := range g.Types {
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ID.PkgPath != out[j].ID.PkgPath {
			return out[i].ID.PkgPath < out[j].ID.PkgPath
		}

		return out[i].ID.Name < out[j].ID.Name
	})

	return out
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Dir   string   // Directory of the package sources
	Types []TypeID // Types defined in this package
}
