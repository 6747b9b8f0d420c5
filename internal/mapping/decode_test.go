package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dto-generator/internal/analyze"
)

func directive(t *testing.T, line string) analyze.Annotation {
	t.Helper()

	a, err := analyze.ParseDirective(line, DefaultAliases())
	require.NoError(t, err)

	return a
}

func TestDecodeSimpleSpec(t *testing.T) {
	tests := []struct {
		line string
		want SimpleSpec
	}{
		{
			line: "@DtoSpec {dtoName: UserDto}",
			want: SimpleSpec{DtoName: "UserDto", IncludeAnnotations: true},
		},
		{
			line: "@DtoSpec {dtoName: UserDto, exclude: ID, includeAnnotations: false}",
			want: SimpleSpec{DtoName: "UserDto", Exclude: NameSet{"ID"}},
		},
		{
			line: "@dto.Spec [UserName, [Name, Surname]]",
			want: SimpleSpec{DtoName: "UserName", Include: NameSet{"Name", "Surname"}, IncludeAnnotations: true},
		},
		{
			line: "@DtoSpec UserDto",
			want: SimpleSpec{DtoName: "UserDto", IncludeAnnotations: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := DecodeSimpleSpec(directive(t, tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeSimpleSpec_Errors(t *testing.T) {
	for _, line := range []string{
		"@DtoSpec",
		`@DtoSpec {dtoName: "  "}`,
		"@DtoSpec {dtoName: 12}",
		"@DtoSpec {dtoName: A, include: [1, 2]}",
		"@DtoSpec {dtoName: A, includeAnnotations: maybe}",
		"@DtoSpec {dtoName: A, unknown: true}",
		"@DtoSpec [A, [], [], true, extra]",
		"@DtoSpec [A, {}]",
	} {
		t.Run(line, func(t *testing.T) {
			a, err := analyze.ParseDirective(line, DefaultAliases())
			if err != nil {
				// Rejected while parsing is fine too.
				return
			}

			_, err = DecodeSimpleSpec(a)
			assert.ErrorIs(t, err, ErrInvalidAnnotation)
		})
	}
}

func TestDecodeDefinitionSpec(t *testing.T) {
	user := analyze.TypeID{PkgPath: "dto-generator/store", Name: "User"}

	a := directive(t, "@DtoDef {sourceClass: !type User, exclude: [PasswordHash], includeSourceAnnotations: false}")
	a.Args[0].Value.Type = user

	got, err := DecodeDefinitionSpec(a)
	require.NoError(t, err)
	assert.Equal(t, DefinitionSpec{
		Source:                           user,
		Exclude:                          NameSet{"PasswordHash"},
		IncludeClassSourceAnnotations:    false,
		IncludePropertySourceAnnotations: true,
	}, got)

	// Unresolved type reference
	_, err = DecodeDefinitionSpec(directive(t, "@DtoDef {source: !type Nowhere}"))
	assert.ErrorIs(t, err, ErrUnresolvedType)

	// Missing source
	_, err = DecodeDefinitionSpec(directive(t, "@DtoDef {dtoName: X}"))
	assert.ErrorIs(t, err, ErrInvalidAnnotation)

	// Source must be a type reference, not a string
	_, err = DecodeDefinitionSpec(directive(t, "@DtoDef {source: User}"))
	assert.ErrorIs(t, err, ErrInvalidAnnotation)

	// Alias and canonical name are the same parameter
	_, err = DecodeDefinitionSpec(directive(t, "@DtoDef {source: !type A, sourceClass: !type B}"))
	assert.ErrorIs(t, err, ErrInvalidAnnotation)
}

func TestDecodeOverride(t *testing.T) {
	o, err := DecodeOverride(directive(t, "@DtoProperty"))
	require.NoError(t, err)
	assert.Equal(t, PropertyOverride{}, o)
	assert.False(t, o.HasFrom())
	assert.Equal(t, "Nickname", o.SourceName("Nickname"))

	o, err = DecodeOverride(directive(t, "@DtoProperty {from: Surname, includeSourceAnnotations: false}"))
	require.NoError(t, err)
	assert.Equal(t, "Surname", o.From)
	require.NotNil(t, o.IncludeSourceAnnotations)
	assert.False(t, *o.IncludeSourceAnnotations)
	assert.Equal(t, "Surname", o.SourceName("LastName"))

	o, err = DecodeOverride(directive(t, "@DtoProperty Surname"))
	require.NoError(t, err)
	assert.True(t, o.HasFrom())
	assert.Nil(t, o.IncludeSourceAnnotations)
}

func TestSpecsOfDecl(t *testing.T) {
	decl := &analyze.TypeDecl{
		ID: analyze.TypeID{PkgPath: "dto-generator/store", Name: "User"},
		Annotations: []analyze.Annotation{
			directive(t, "@DtoSpec {dtoName: A}"),
			directive(t, "@Audited"),
			directive(t, "@DtoSpec {include: [ID]}"),
			directive(t, "@dto.Spec {dtoName: B}"),
		},
	}

	specs, err := SimpleSpecsOf(decl)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAnnotation)
	require.Len(t, specs, 2, "valid specs survive a failing sibling")
	assert.Equal(t, "A", specs[0].DtoName)
	assert.Equal(t, "B", specs[1].DtoName)

	_, ok, err := DefinitionSpecOf(decl)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDefinitionSpecOf_Duplicate(t *testing.T) {
	a := directive(t, "@DtoDef {source: !type User}")
	a.Args[0].Value.Type = analyze.TypeID{PkgPath: "p", Name: "User"}

	decl := &analyze.TypeDecl{ID: analyze.TypeID{PkgPath: "p", Name: "v"}, Annotations: []analyze.Annotation{a, a}}

	_, ok, err := DefinitionSpecOf(decl)
	assert.True(t, ok)
	assert.ErrorIs(t, err, ErrInvalidAnnotation)
}

func TestOverridesOf(t *testing.T) {
	decl := &analyze.TypeDecl{
		ID: analyze.TypeID{PkgPath: "p", Name: "v"},
		Properties: []analyze.Property{
			{Name: "Nickname"},
			{Name: "LastName", Annotations: []analyze.Annotation{directive(t, "@DtoProperty {from: Surname}")}},
			{Name: "Bad", Annotations: []analyze.Annotation{directive(t, "@DtoProperty {from: [a]}")}},
		},
	}

	got, err := OverridesOf(decl)
	assert.ErrorIs(t, err, ErrInvalidAnnotation)
	assert.Equal(t, map[string]PropertyOverride{"LastName": {From: "Surname"}}, got)
}

func TestIsDriving(t *testing.T) {
	assert.True(t, IsDriving(directive(t, "@DtoSpec A")))
	assert.True(t, IsDriving(directive(t, "@dto.Def")))
	assert.True(t, IsDriving(directive(t, "@DtoProperty")))
	assert.False(t, IsDriving(directive(t, "@Audited")))

	custom := MergeAliases(map[string]string{"View": "DtoDef"})
	a, err := analyze.ParseDirective("@View", custom)
	require.NoError(t, err)
	assert.True(t, IsDriving(a), "user alias shares the canonical identity")

	stripped := StripDriving([]analyze.Annotation{directive(t, "@Audited"), a, directive(t, "@Cacheable")})
	require.Len(t, stripped, 2)
	assert.Equal(t, "Audited", stripped[0].Name)
	assert.Equal(t, "Cacheable", stripped[1].Name)
}

func TestNameSet(t *testing.T) {
	s := NewNameSet("a", "b", "a")
	assert.Equal(t, NameSet{"a", "b"}, s)
	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains("c"))
	assert.False(t, s.IsEmpty())
	assert.True(t, NewNameSet().IsEmpty())
	assert.Len(t, s.Set(), 2)
	assert.Equal(t, "[a, b]", s.String())
}
