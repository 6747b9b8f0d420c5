package gen

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dto-generator/internal/analyze"
	"dto-generator/internal/mapping"
	"dto-generator/internal/plan"
)

const testPkg = "example.com/app"

// compact collapses all whitespace so assertions ignore gofmt alignment.
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func tag(key, value string) analyze.Annotation {
	return analyze.Annotation{
		ID:   analyze.TagID(key),
		Name: key,
		Form: analyze.FormTag,
		Args: []analyze.Argument{{Value: analyze.StringValue(value)}},
	}
}

func directive(t *testing.T, line string) analyze.Annotation {
	t.Helper()

	a, err := analyze.ParseDirective(line, mapping.DefaultAliases())
	require.NoError(t, err)

	return a
}

func profileBlueprint(t *testing.T) *plan.Blueprint {
	t.Helper()

	str := analyze.TypeRef{Name: "string"}

	return &plan.Blueprint{
		Package:          testPkg,
		Dir:              t.TempDir(),
		Source:           analyze.TypeID{PkgPath: testPkg, Name: "User"},
		Definition:       analyze.TypeID{PkgPath: testPkg, Name: "userProfile"},
		DtoName:          "UserProfile",
		ClassAnnotations: []analyze.Annotation{directive(t, "@Cacheable {ttl: 60}")},
		Properties: []plan.ResolvedProperty{
			{TargetName: "Nickname", Type: str, Origin: plan.NewProperty(), Annotations: []analyze.Annotation{tag("json", "nickname")}},
			{
				TargetName:  "LastName",
				Type:        str,
				Origin:      plan.RenamedFromSource("Surname"),
				Annotations: []analyze.Annotation{tag("json", "surname"), tag("json", "last_name")},
			},
			{
				TargetName:  "Email",
				Type:        analyze.TypeRef{Name: "string", Nullable: true},
				Origin:      plan.RenamedFromSource("Email"),
				Annotations: []analyze.Annotation{directive(t, "@field:Sensitive")},
			},
			{
				TargetName:  "ID",
				Type:        analyze.TypeRef{Name: "int64"},
				Origin:      plan.FromSourceEntity("ID"),
				Annotations: []analyze.Annotation{tag("json", "id"), tag("db", "id")},
				Passthrough: true,
			},
			{TargetName: "Type", Type: str, Origin: plan.NewProperty()},
			{TargetName: "CreatedAt", Type: analyze.TypeRef{Pkg: "time", Name: "Time"}, Origin: plan.FromSourceEntity("CreatedAt"), Passthrough: true},
		},
	}
}

func TestGenerator_GenerateBlueprint(t *testing.T) {
	bp := profileBlueprint(t)

	g := NewGenerator(DefaultGeneratorConfig(), nil)
	file, err := g.GenerateBlueprint(bp)
	require.NoError(t, err)

	assert.Equal(t, "user_profile_gen.go", file.Filename)
	assert.Equal(t, bp.Dir, file.Dir)
	assert.Equal(t, "app.User/UserProfile", file.Blueprint)

	content := string(file.Content)
	assert.True(t, strings.HasPrefix(content, "// "+GeneratedHeader+"\n"))

	c := compact(content)
	for _, want := range []string{
		"package app",
		`"time"`,
		"// UserProfile is generated from User shaped by userProfile.",
		"// @Cacheable {ttl: 60}",
		"type UserProfile struct {",
		"Nickname string `json:\"nickname\"`",
		"LastName string `json:\"last_name\"`",
		"// @field:Sensitive Email *string",
		"ID int64 `db:\"id\" json:\"id\"`",
		"Type string",
		"CreatedAt time.Time",
		"func (s *User) ToUserProfile(nickname string, type_ string) UserProfile {",
		"if s == nil { return UserProfile{",
		"LastName: s.Surname,",
		"Email: s.Email,",
		"ID: s.ID,",
		"Nickname: nickname,",
		"Type: type_,",
		"CreatedAt: s.CreatedAt,",
	} {
		assert.Contains(t, c, want)
	}

	assert.NotContains(t, c, `json:"surname"`, "own tag replaces the inherited one")
	assert.NotContains(t, c, "app.User", "source package is not self-imported")

	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, file.Filename, file.Content, parser.ParseComments)
	require.NoError(t, err)
	assert.True(t, ast.IsGenerated(parsed), "loader must skip generated files")
}

func TestGenerator_NoParams(t *testing.T) {
	bp := &plan.Blueprint{
		Package: testPkg,
		Dir:     t.TempDir(),
		Source:  analyze.TypeID{PkgPath: testPkg, Name: "User"},
		DtoName: "UserName",
		Properties: []plan.ResolvedProperty{
			{TargetName: "Name", Type: analyze.TypeRef{Name: "string"}, Origin: plan.FromSourceEntity("Name"), Passthrough: true},
		},
	}

	cfg := DefaultGeneratorConfig()
	cfg.GenerateComments = false

	file, err := NewGenerator(cfg, nil).GenerateBlueprint(bp)
	require.NoError(t, err)

	c := compact(string(file.Content))
	assert.Contains(t, c, "func (s *User) ToUserName() UserName {")
	assert.Contains(t, c, "return UserName{}")
	assert.NotContains(t, c, "is generated from")
}

func TestGenerator_SeparatePackage(t *testing.T) {
	bp := profileBlueprint(t)

	cfg := DefaultGeneratorConfig()
	cfg.OutputPackage = "example.com/app/dto"
	cfg.OutputDir = t.TempDir()

	file, err := NewGenerator(cfg, nil).GenerateBlueprint(bp)
	require.NoError(t, err)
	assert.Equal(t, cfg.OutputDir, file.Dir)

	c := compact(string(file.Content))
	assert.Contains(t, c, "package dto")
	assert.Contains(t, c, `"example.com/app"`)
	assert.Contains(t, c, "func NewUserProfile(s *app.User, nickname string, type_ string) UserProfile {")
	assert.Contains(t, c, "generated from app.User shaped by userProfile")

	// Unexported sources cannot be reached from another package.
	bp.Source.Name = "user"
	_, err = NewGenerator(cfg, nil).GenerateBlueprint(bp)
	assert.Error(t, err)
}

func TestGenerator_FuncAndPointerFields(t *testing.T) {
	order := analyze.TypeRef{Pkg: "example.com/app/store", Name: "Order"}
	bp := &plan.Blueprint{
		Package: testPkg,
		Dir:     t.TempDir(),
		Source:  analyze.TypeID{PkgPath: testPkg, Name: "Job"},
		DtoName: "JobView",
		Properties: []plan.ResolvedProperty{
			{
				TargetName: "Hook",
				Type: analyze.TypeRef{Name: analyze.FuncName, Args: []analyze.TypeRef{
					{Name: analyze.TupleName, Args: []analyze.TypeRef{order}},
					{Name: analyze.TupleName, Args: []analyze.TypeRef{{Name: "error"}}},
				}},
				Origin: plan.FromSourceEntity("Hook"),
			},
			{
				TargetName: "Done",
				Type:       analyze.TypeRef{Name: analyze.RecvChanName, Args: []analyze.TypeRef{order}},
				Origin:     plan.FromSourceEntity("Done"),
			},
			{
				TargetName: "Retries",
				Type:       analyze.TypeRef{Name: analyze.PointerName, Nullable: true, Args: []analyze.TypeRef{{Name: "int", Nullable: true}}},
				Origin:     plan.FromSourceEntity("Retries"),
			},
		},
	}

	file, err := NewGenerator(DefaultGeneratorConfig(), nil).GenerateBlueprint(bp)
	require.NoError(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), file.Filename, file.Content, 0)
	require.NoError(t, err)

	c := compact(string(file.Content))
	assert.Contains(t, c, `"example.com/app/store"`)
	assert.Contains(t, c, "Hook func(store.Order) error")
	assert.Contains(t, c, "Done <-chan store.Order")
	assert.Contains(t, c, "Retries **int")

	// Literal types naming other packages cannot be qualified.
	bp.Properties[0].Type = analyze.TypeRef{Name: "struct{O example.com/app/store.Order}"}

	_, err = NewGenerator(DefaultGeneratorConfig(), nil).GenerateBlueprint(bp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Hook")
}

func TestGeneratorConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultGeneratorConfig().Validate())

	cfg := DefaultGeneratorConfig()
	cfg.OutputPackage = "example.com/app/dto"
	assert.Error(t, cfg.Validate())

	cfg = DefaultGeneratorConfig()
	cfg.FileSuffix = "_gen.txt"
	assert.Error(t, cfg.Validate())
}

func TestGenerator_DuplicateFile(t *testing.T) {
	a := profileBlueprint(t)
	b := *a
	b.DtoName = "UserPROFILE"

	_, err := NewGenerator(DefaultGeneratorConfig(), nil).Generate(&plan.Plan{Blueprints: []plan.Blueprint{*a, b}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_profile_gen.go")
}

func TestGenerator_Store(t *testing.T) {
	graph, err := analyze.NewAnalyzer(mapping.DefaultAliases(), nil).LoadPackages("dto-generator/store")
	require.NoError(t, err)

	p, err := plan.NewResolver(graph, nil, plan.DefaultConfig(), nil).Resolve(context.Background())
	require.NoError(t, err)

	files, err := NewGenerator(DefaultGeneratorConfig(), nil).Generate(p)
	require.NoError(t, err)
	require.Len(t, files, len(p.Blueprints))

	var names []string

	for _, f := range files {
		names = append(names, f.Filename)

		_, err := parser.ParseFile(token.NewFileSet(), f.Filename, f.Content, parser.ParseComments)
		require.NoError(t, err, f.Filename)
		assert.Contains(t, string(f.Content), "package store")
	}

	assert.Equal(t, []string{
		"product_card_gen.go",
		"user_summary_gen.go",
		"user_name_gen.go",
		"order_dto_gen.go",
		"user_profile_gen.go",
	}, names)

	profile := compact(string(files[4].Content))
	assert.Contains(t, profile, "func (s *User) ToUserProfile(nickname string) UserProfile {")
	assert.Contains(t, profile, "// @Cacheable")
	assert.NotContains(t, profile, "DtoDef")

	order := compact(string(files[3].Content))
	assert.Contains(t, order, "Total: s.TotalCents,")
	assert.Contains(t, order, "Items []OrderItem")
}
