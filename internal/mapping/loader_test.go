package mapping

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dto-generator/internal/analyze"
)

func TestParse(t *testing.T) {
	yaml := `
version: "1"
entities:
  - type: store.User
    specs:
      - dtoName: UserDto
        exclude: PasswordHash
      - dtoName: " UserName "
        include: [Name, Surname, Name]
        includeAnnotations: false
definitions:
  - type: store.userProfile
    source: store.User
    exclude: [PasswordHash]
    includeClassSourceAnnotations: false
    overrides:
      LastName:
        from: Surname
      Email:
        includeSourceAnnotations: false
`

	mf, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.NotNil(t, mf)

	assert.Equal(t, "1", mf.Version)
	require.Len(t, mf.Entities, 1)

	em := mf.Entities[0]
	assert.Equal(t, "store.User", em.Type)
	require.Len(t, em.Specs, 2)

	// Scalar shorthand for a single name
	assert.Equal(t, NameSet{"PasswordHash"}, em.Specs[0].Exclude)
	assert.Nil(t, em.Specs[0].IncludeAnnotations)
	assert.True(t, em.Specs[0].Spec().IncludeAnnotations)

	// Names are trimmed and de-duplicated
	assert.Equal(t, "UserName", em.Specs[1].DtoName)
	assert.Equal(t, NameSet{"Name", "Surname"}, em.Specs[1].Include)
	assert.False(t, em.Specs[1].Spec().IncludeAnnotations)

	require.Len(t, mf.Definitions, 1)

	dm := mf.Definitions[0]
	src := analyze.TypeID{PkgPath: "dto-generator/store", Name: "User"}
	spec := dm.Spec(src)
	assert.Equal(t, DefinitionSpec{
		Source:                           src,
		Exclude:                          NameSet{"PasswordHash"},
		IncludeClassSourceAnnotations:    false,
		IncludePropertySourceAnnotations: true,
	}, spec)

	overrides := dm.PropertyOverrides()
	require.Len(t, overrides, 2)
	assert.Equal(t, PropertyOverride{From: "Surname"}, overrides["LastName"])
	assert.Equal(t, PropertyOverride{IncludeSourceAnnotations: Bool(false)}, overrides["Email"])
}

func TestParseMinimal(t *testing.T) {
	mf, err := Parse([]byte("entities: []\n"))
	require.NoError(t, err)

	assert.Equal(t, "1", mf.Version) // Default version
	assert.Empty(t, mf.Entities)
	assert.Empty(t, mf.Definitions)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("entities:\n  - type: store.User\n    specs:\n      - exclude: {a: b}\n"))
	assert.Error(t, err)

	_, err = ParseTOML([]byte("entities = ["))
	assert.Error(t, err)
}

func TestParseTOML(t *testing.T) {
	data := `
version = "1"

[[entities]]
type = "store.Product"

[[entities.specs]]
dtoName = "ProductCard"
include = ["SKU", "Name"]

[[definitions]]
type = "store.OrderView"
source = "store.Order"
dtoName = "OrderDto"
includePropertySourceAnnotations = false

[definitions.overrides.Total]
from = "TotalCents"
`

	mf, err := ParseTOML([]byte(data))
	require.NoError(t, err)

	require.Len(t, mf.Entities, 1)
	require.Len(t, mf.Entities[0].Specs, 1)
	assert.Equal(t, SimpleSpec{
		DtoName:            "ProductCard",
		Include:            NameSet{"SKU", "Name"},
		IncludeAnnotations: true,
	}, mf.Entities[0].Specs[0].Spec())

	require.Len(t, mf.Definitions, 1)
	dm := mf.Definitions[0]
	assert.Equal(t, "OrderDto", dm.DtoName)
	require.NotNil(t, dm.IncludePropertySourceAnnotations)
	assert.False(t, *dm.IncludePropertySourceAnnotations)
	assert.Equal(t, "TotalCents", dm.Overrides["Total"].From)
}

func TestMarshalRoundTrip(t *testing.T) {
	mf := &MappingFile{
		Version: "1",
		Entities: []EntityMapping{{
			Type:  "store.User",
			Specs: []SpecMapping{SpecMappingOf(SimpleSpec{DtoName: "UserDto", Exclude: NameSet{"ID"}, IncludeAnnotations: true})},
		}},
		Definitions: []DefinitionMapping{DefinitionMappingOf("store.userProfile", "store.User",
			DefinitionSpec{Exclude: NameSet{"PasswordHash"}, IncludePropertySourceAnnotations: true},
			map[string]PropertyOverride{"LastName": {From: "Surname", IncludeSourceAnnotations: Bool(true)}},
		)},
	}

	for _, format := range []Format{FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dto-mapping."+string(format))
			require.NoError(t, WriteFile(mf, path))

			loaded, err := LoadFile(path)
			require.NoError(t, err)

			if diff := cmp.Diff(mf, loaded); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSpecMappingOf_OmitsDefaults(t *testing.T) {
	m := SpecMappingOf(SimpleSpec{DtoName: "A", IncludeAnnotations: true})
	assert.Nil(t, m.IncludeAnnotations)

	m = SpecMappingOf(SimpleSpec{DtoName: "A"})
	require.NotNil(t, m.IncludeAnnotations)
	assert.False(t, *m.IncludeAnnotations)

	dm := DefinitionMappingOf("d", "s", DefinitionSpec{IncludeClassSourceAnnotations: true}, nil)
	assert.Nil(t, dm.IncludeClassSourceAnnotations)
	require.NotNil(t, dm.IncludePropertySourceAnnotations)
	assert.Nil(t, dm.Overrides)
}

func TestMergeOverrides(t *testing.T) {
	merged := MergeOverrides(
		map[string]PropertyOverride{"LastName": {From: "Surname"}, "Email": {}},
		map[string]PropertyOverride{"LastName": {From: "FamilyName"}},
	)

	assert.Equal(t, map[string]PropertyOverride{
		"LastName": {From: "FamilyName"},
		"Email":    {},
	}, merged)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatTOML, FormatOf("dto.TOML"))
	assert.Equal(t, FormatYAML, FormatOf("dto.yaml"))
	assert.Equal(t, FormatYAML, FormatOf("dto.yml"))
	assert.Equal(t, FormatYAML, FormatOf("dto"))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMappingFile_Sort(t *testing.T) {
	mf := &MappingFile{
		Entities:    []EntityMapping{{Type: "b"}, {Type: "a"}},
		Definitions: []DefinitionMapping{{Type: "z"}, {Type: "y"}},
	}
	mf.Sort()

	assert.Equal(t, "a", mf.Entities[0].Type)
	assert.Equal(t, "y", mf.Definitions[0].Type)
}
