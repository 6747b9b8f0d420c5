package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"dto-generator/internal/analyze"
)

// typeCode renders a TypeRef as jen code. Named types are qualified by
// import path so jen manages imports; types in the file's own package stay bare.
func typeCode(t analyze.TypeRef) *jen.Statement {
	s := jen.Null()
	if t.Nullable {
		s = jen.Op("*")
	}

	switch {
	case t.Name == analyze.SliceName && len(t.Args) == 1:
		return s.Index().Add(typeCode(t.Args[0]))

	case strings.HasPrefix(t.Name, "[") && len(t.Args) == 1:
		n, err := strconv.Atoi(strings.Trim(t.Name, "[]"))
		if err != nil {
			return s.Id(t.Name).Add(typeCode(t.Args[0]))
		}

		return s.Index(jen.Lit(n)).Add(typeCode(t.Args[0]))

	case t.Name == analyze.MapName && len(t.Args) == 2:
		return s.Map(typeCode(t.Args[0])).Add(typeCode(t.Args[1]))

	case t.Name == analyze.PointerName && len(t.Args) == 1:
		// The wrapper's own "*" is its Nullable flag.
		return s.Add(typeCode(t.Args[0]))

	case t.Name == analyze.FuncName && len(t.Args) == 2:
		fn := s.Func().Params(typeCodes(t.Args[0].Args)...)

		switch results := t.Args[1].Args; len(results) {
		case 0:
			return fn
		case 1:
			return fn.Add(typeCode(results[0]))
		default:
			return fn.Params(typeCodes(results)...)
		}

	case t.Name == analyze.VariadicName && len(t.Args) == 1:
		return s.Op("...").Add(typeCode(t.Args[0]))

	case t.Name == analyze.ChanName && len(t.Args) == 1:
		elem := typeCode(t.Args[0])
		if t.Args[0].Name == analyze.RecvChanName && !t.Args[0].Nullable {
			elem = jen.Parens(elem)
		}

		return s.Chan().Add(elem)

	case t.Name == analyze.RecvChanName && len(t.Args) == 1:
		return s.Op("<-").Chan().Add(typeCode(t.Args[0]))

	case t.Name == analyze.SendChanName && len(t.Args) == 1:
		return s.Chan().Op("<-").Add(typeCode(t.Args[0]))
	}

	var named *jen.Statement
	if t.Pkg != "" {
		named = s.Qual(t.Pkg, t.Name)
	} else {
		// Builtins and opaque spellings (anonymous structs, interface literals) go out verbatim.
		named = s.Id(t.Name)
	}

	if len(t.Args) > 0 {
		named = named.Types(typeCodes(t.Args)...)
	}

	return named
}

func typeCodes(refs []analyze.TypeRef) []jen.Code {
	out := make([]jen.Code, len(refs))
	for i, r := range refs {
		out[i] = typeCode(r)
	}

	return out
}

// checkEmittable rejects opaque spellings that name declared types. They
// carry full import paths and cannot be qualified in generated code.
func checkEmittable(t analyze.TypeRef) error {
	if t.Pkg != "" || len(t.Args) > 0 || t.Name == analyze.TupleName {
		for _, a := range t.Args {
			if err := checkEmittable(a); err != nil {
				return err
			}
		}

		return nil
	}

	expr, err := parser.ParseExpr(t.Name)
	if err != nil {
		return fmt.Errorf("type %s cannot be written as Go source", t.Name)
	}

	qualified := false

	ast.Inspect(expr, func(n ast.Node) bool {
		if _, ok := n.(*ast.SelectorExpr); ok {
			qualified = true
		}

		return !qualified
	})

	if qualified {
		return fmt.Errorf("type %s refers to declared types and cannot be written as Go source", t.Name)
	}

	return nil
}

// exportedIdent upper-cases the first letter.
func exportedIdent(s string) string {
	if s == "" {
		return s
	}

	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])

	return string(r)
}

// paramName converts a property name to a lowerCamel parameter name:
// "Nickname" → "nickname", "ID" → "id", "URLPath" → "urlPath".
func paramName(s string) string {
	r := []rune(s)

	upper := 0
	for upper < len(r) && unicode.IsUpper(r[upper]) {
		upper++
	}

	switch {
	case upper == 0:
	case upper == 1 || upper == len(r):
		for i := 0; i < upper; i++ {
			r[i] = unicode.ToLower(r[i])
		}
	default:
		// Keep the last capital of an acronym, it starts the next word.
		for i := 0; i < upper-1; i++ {
			r[i] = unicode.ToLower(r[i])
		}
	}

	name := string(r)
	if isReserved(name) {
		name += "_"
	}

	return name
}

var predeclared = map[string]bool{
	"any": true, "bool": true, "byte": true, "comparable": true, "complex64": true,
	"complex128": true, "error": true, "float32": true, "float64": true, "int": true,
	"int8": true, "int16": true, "int32": true, "int64": true, "rune": true,
	"string": true, "uint": true, "uint8": true, "uint16": true, "uint32": true,
	"uint64": true, "uintptr": true, "true": true, "false": true, "iota": true,
	"nil": true, "append": true, "cap": true, "clear": true, "close": true,
	"complex": true, "copy": true, "delete": true, "imag": true, "len": true,
	"make": true, "max": true, "min": true, "new": true, "panic": true,
	"print": true, "println": true, "real": true, "recover": true,
}

func isReserved(name string) bool {
	return predeclared[name] || token.IsKeyword(name) || name == receiverName
}

// snakeCase converts a type name to a file name stem: "UserSummary" → "user_summary".
func snakeCase(s string) string {
	r := []rune(s)

	var b strings.Builder

	for i, c := range r {
		if unicode.IsUpper(c) && i > 0 {
			prevLower := unicode.IsLower(r[i-1]) || unicode.IsDigit(r[i-1])
			nextLower := i+1 < len(r) && unicode.IsLower(r[i+1])

			if prevLower || (unicode.IsUpper(r[i-1]) && nextLower) {
				b.WriteByte('_')
			}
		}

		b.WriteRune(unicode.ToLower(c))
	}

	return b.String()
}
