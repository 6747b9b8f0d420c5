package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyPath(t *testing.T) {
	p1 := NewPropertyPath("User")
	assert.Equal(t, "User", p1.String())

	p2 := p1.Property("Surname")
	assert.Equal(t, "User.Surname", p2.String())

	// Appending must not alias the parent path.
	p3 := p1.Property("Name")
	assert.Equal(t, "User.Name", p3.String())
	assert.Equal(t, "User.Surname", p2.String())
}

func TestTypeStringer_TypeString(t *testing.T) {
	timeRef := TypeRef{Pkg: "time", Name: "Time"}

	tests := []struct {
		name  string
		ref   TypeRef
		full  string
		short string
	}{
		{"basic", TypeRef{Name: "string"}, "string", "string"},
		{"named", timeRef, "time.Time", "time.Time"},
		{"nullable", TypeRef{Pkg: "dto-generator/store", Name: "Address", Nullable: true}, "*dto-generator/store.Address", "*store.Address"},
		{"slice", TypeRef{Name: SliceName, Args: []TypeRef{{Name: "int"}}}, "[]int", "[]int"},
		{"array", TypeRef{Name: "[4]", Args: []TypeRef{{Name: "byte"}}}, "[4]byte", "[4]byte"},
		{"map", TypeRef{Name: MapName, Args: []TypeRef{{Name: "string"}, timeRef}}, "map[string]time.Time", "map[string]time.Time"},
		{"double pointer", TypeRef{Name: PointerName, Nullable: true, Args: []TypeRef{{Name: "int", Nullable: true}}}, "**int", "**int"},
		{
			"func",
			TypeRef{Name: FuncName, Args: []TypeRef{
				{Name: TupleName, Args: []TypeRef{{Pkg: "dto-generator/store", Name: "Order"}, {Name: VariadicName, Args: []TypeRef{{Name: "string"}}}}},
				{Name: TupleName, Args: []TypeRef{{Name: "int"}, {Name: "error"}}},
			}},
			"func(dto-generator/store.Order, ...string) (int, error)",
			"func(store.Order, ...string) (int, error)",
		},
		{
			"recv chan",
			TypeRef{Name: RecvChanName, Args: []TypeRef{timeRef}},
			"<-chan time.Time",
			"<-chan time.Time",
		},
		{
			"chan of recv chan",
			TypeRef{Name: ChanName, Args: []TypeRef{{Name: RecvChanName, Args: []TypeRef{{Name: "int"}}}}},
			"chan (<-chan int)",
			"chan (<-chan int)",
		},
		{
			"generic",
			TypeRef{Pkg: "example.com/opt", Name: "Option", Args: []TypeRef{{Name: "string"}}},
			"example.com/opt.Option[string]",
			"opt.Option[string]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.full, NewTypeStringer().TypeString(tt.ref))
			assert.Equal(t, tt.short, (&TypeStringer{Short: true}).TypeString(tt.ref))
		})
	}
}

func TestTypeRef_Equal(t *testing.T) {
	str := TypeRef{Name: "string"}
	nullableStr := TypeRef{Name: "string", Nullable: true}
	list := TypeRef{Name: SliceName, Args: []TypeRef{str}}

	assert.True(t, str.Equal(TypeRef{Name: "string"}))
	assert.False(t, str.Equal(nullableStr), "nullability is part of the type")
	assert.False(t, list.Equal(TypeRef{Name: SliceName, Args: []TypeRef{nullableStr}}))
	assert.True(t, list.Equal(TypeRef{Name: SliceName, Args: []TypeRef{{Name: "string"}}}))
	assert.False(t, TypeRef{Pkg: "a", Name: "T"}.Equal(TypeRef{Pkg: "b", Name: "T"}))
}
