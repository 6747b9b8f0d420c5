package analyze

import (
	"strings"

	"dto-generator/internal/common"
)

// PropertyPath builds a readable "Type.Property" path for diagnostics.
type PropertyPath struct {
	parts []string
}

// NewPropertyPath creates a new PropertyPath from a root type name.
func NewPropertyPath(root string) *PropertyPath {
	return &PropertyPath{
		parts: []string{root},
	}
}

// Property appends a property name to the path.
func (p *PropertyPath) Property(name string) *PropertyPath {
	return &PropertyPath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// String returns the full path string.
func (p *PropertyPath) String() string {
	return strings.Join(p.parts, ".")
}

// TypeStringer renders TypeRefs in Go syntax.
type TypeStringer struct {
	// Short uses the package alias instead of the full import path.
	Short bool
}

// NewTypeStringer creates a TypeStringer that prints full import paths.
func NewTypeStringer() *TypeStringer {
	return &TypeStringer{}
}

// TypeString returns a Go-like string representation of a TypeRef.
func (s *TypeStringer) TypeString(t TypeRef) string {
	var b strings.Builder

	if t.Nullable {
		b.WriteString("*")
	}

	switch {
	case t.Name == SliceName && len(t.Args) == 1:
		b.WriteString("[]" + s.TypeString(t.Args[0]))

	case strings.HasPrefix(t.Name, "[") && len(t.Args) == 1:
		// Arrays: "[N]".
		b.WriteString(t.Name + s.TypeString(t.Args[0]))

	case t.Name == MapName && len(t.Args) == 2:
		b.WriteString("map[" + s.TypeString(t.Args[0]) + "]" + s.TypeString(t.Args[1]))

	case t.Name == PointerName && len(t.Args) == 1:
		b.WriteString(s.TypeString(t.Args[0]))

	case t.Name == FuncName && len(t.Args) == 2:
		b.WriteString("func(" + s.join(t.Args[0].Args) + ")")

		switch results := t.Args[1].Args; len(results) {
		case 0:
		case 1:
			b.WriteString(" " + s.TypeString(results[0]))
		default:
			b.WriteString(" (" + s.join(results) + ")")
		}

	case t.Name == VariadicName && len(t.Args) == 1:
		b.WriteString("..." + s.TypeString(t.Args[0]))

	case isChan(t.Name) && len(t.Args) == 1:
		elem := s.TypeString(t.Args[0])
		if t.Name == ChanName && t.Args[0].Name == RecvChanName && !t.Args[0].Nullable {
			elem = "(" + elem + ")"
		}

		b.WriteString(t.Name + " " + elem)

	default:
		if t.Pkg != "" {
			if s.Short {
				b.WriteString(common.PkgAlias(t.Pkg))
			} else {
				b.WriteString(t.Pkg)
			}

			b.WriteString(".")
		}

		b.WriteString(t.Name)

		if len(t.Args) > 0 {
			b.WriteString("[" + s.join(t.Args) + "]")
		}
	}

	return b.String()
}

func (s *TypeStringer) join(refs []TypeRef) string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = s.TypeString(r)
	}

	return strings.Join(out, ", ")
}

func isChan(name string) bool {
	return name == ChanName || name == RecvChanName || name == SendChanName
}
