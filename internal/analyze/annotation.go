package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

const (
	directivePrefix = "@"
	typeTag         = "!type"
	tagIDPrefix     = "tag:"
)

// Aliases maps annotation names as written to their canonical identity.
// Names absent from the table are their own identity.
type Aliases map[string]AnnotationID

// Resolve returns the canonical identity for a written name.
func (a Aliases) Resolve(name string) AnnotationID {
	if id, ok := a[name]; ok {
		return id
	}

	return AnnotationID(name)
}

// TagID returns the identity of a struct tag annotation.
func TagID(key string) AnnotationID {
	return AnnotationID(tagIDPrefix + key)
}

// IsDirectiveLine reports whether a comment line (without the comment markers)
// holds a directive.
func IsDirectiveLine(text string) bool {
	rest, ok := strings.CutPrefix(strings.TrimSpace(text), directivePrefix)
	if !ok || rest == "" {
		return false
	}

	r := []rune(rest)[0]

	return unicode.IsLetter(r)
}

// ExtractDirectives collects every directive of a comment group in order.
func ExtractDirectives(doc *ast.CommentGroup, aliases Aliases) ([]Annotation, error) {
	if doc == nil {
		return nil, nil
	}

	var (
		out  []Annotation
		errs []error
	)

	for _, comment := range doc.List {
		for _, line := range commentLines(comment.Text) {
			if !IsDirectiveLine(line) {
				continue
			}

			a, err := ParseDirective(line, aliases)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			out = append(out, a)
		}
	}

	return out, errors.Join(errs...)
}

func commentLines(text string) []string {
	text = strings.TrimSpace(text)

	if after, ok := strings.CutPrefix(text, "//"); ok {
		return []string{strings.TrimSpace(after)}
	}

	if strings.HasPrefix(text, "/*") && strings.HasSuffix(text, "*/") {
		lines := strings.Split(text[2:len(text)-2], "\n")
		for i := range lines {
			lines[i] = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[i]), "*"))
		}

		return lines
	}

	return nil
}

// ParseDirective parses one "@[site:]Name [args]" line. Arguments are a YAML
// flow value: a mapping gives named arguments, a sequence or scalar gives
// positional ones. A "!type" tagged scalar is a type reference.
func ParseDirective(line string, aliases Aliases) (Annotation, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), directivePrefix)
	if !ok {
		return Annotation{}, fmt.Errorf("directive %q must start with %q", line, directivePrefix)
	}

	head, args, _ := strings.Cut(rest, " ")

	a := Annotation{Form: FormDirective}

	if site, name, found := strings.Cut(head, ":"); found {
		useSite, known := ParseUseSite(site)
		if !known {
			return Annotation{}, fmt.Errorf("directive %q: unknown use-site target %q", line, site)
		}

		a.UseSite = useSite
		head = name
	}

	if !isQualifiedIdent(head) {
		return Annotation{}, fmt.Errorf("directive %q: invalid annotation name %q", line, head)
	}

	a.Name = head
	a.ID = aliases.Resolve(head)

	parsed, err := parseArguments(strings.TrimSpace(args))
	if err != nil {
		return Annotation{}, fmt.Errorf("directive %q: %w", line, err)
	}

	a.Args = parsed

	return a, nil
}

func isQualifiedIdent(s string) bool {
	if s == "" {
		return false
	}

	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}

		for i, r := range part {
			if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
				continue
			}

			return false
		}
	}

	return true
}

func parseArguments(src string) ([]Argument, error) {
	if src == "" {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]

	switch root.Kind {
	case yaml.MappingNode:
		args := make([]Argument, 0, len(root.Content)/2)

		for i := 0; i+1 < len(root.Content); i += 2 {
			v, err := nodeValue(root.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("argument %q: %w", root.Content[i].Value, err)
			}

			args = append(args, Argument{Name: root.Content[i].Value, Value: v})
		}

		return args, nil

	case yaml.SequenceNode:
		args := make([]Argument, 0, len(root.Content))

		for i, item := range root.Content {
			v, err := nodeValue(item)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}

			args = append(args, Argument{Value: v})
		}

		return args, nil

	default:
		v, err := nodeValue(root)
		if err != nil {
			return nil, err
		}

		return []Argument{{Value: v}}, nil
	}
}

func nodeValue(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return scalarValue(node)

	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))

		for _, item := range node.Content {
			v, err := nodeValue(item)
			if err != nil {
				return Value{}, err
			}

			items = append(items, v)
		}

		return ListValue(items...), nil

	case yaml.AliasNode:
		return nodeValue(node.Alias)

	default:
		return Value{}, fmt.Errorf("line %d: nested mappings are not supported as argument values", node.Line)
	}
}

func scalarValue(node *yaml.Node) (Value, error) {
	switch node.Tag {
	case typeTag:
		return TypeValue(node.Value), nil

	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return Value{}, err
		}

		return IntValue(i), nil

	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, err
		}

		return Value{Kind: ValueFloat, Float: f}, nil

	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, err
		}

		return BoolValue(b), nil

	case "!!null":
		return StringValue(""), nil

	default:
		return StringValue(node.Value), nil
	}
}

// TagAnnotations turns a raw struct tag into tag-form annotations, keeping
// the key order of the tag.
func TagAnnotations(tag string) ([]Annotation, error) {
	var out []Annotation

	for tag != "" {
		// Skip leading space.
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}

		tag = tag[i:]
		if tag == "" {
			break
		}

		// Scan to colon. A space, a quote or a control character is a syntax error.
		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}

		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			return nil, fmt.Errorf("malformed struct tag %q", tag)
		}

		key := tag[:i]
		tag = tag[i+1:]

		// Scan quoted string to find value.
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}

		if i >= len(tag) {
			return nil, fmt.Errorf("malformed struct tag value for key %q", key)
		}

		quoted := tag[:i+1]
		tag = tag[i+1:]

		value, err := strconv.Unquote(quoted)
		if err != nil {
			return nil, fmt.Errorf("struct tag key %q: %w", key, err)
		}

		out = append(out, Annotation{
			ID:   TagID(key),
			Name: key,
			Form: FormTag,
			Args: []Argument{{Value: StringValue(value)}},
		})
	}

	return out, nil
}
