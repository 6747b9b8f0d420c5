package gen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"dto-generator/internal/analyze"
)

func TestTypeCode(t *testing.T) {
	str := analyze.TypeRef{Name: "string"}
	i64 := analyze.TypeRef{Name: "int64"}
	order := analyze.TypeRef{Pkg: "example.com/app/store", Name: "Order"}

	tests := []struct {
		name string
		ref  analyze.TypeRef
		want string
	}{
		{"basic", str, "string"},
		{"nullable", analyze.TypeRef{Name: "string", Nullable: true}, "*string"},
		{"slice", analyze.TypeRef{Name: analyze.SliceName, Args: []analyze.TypeRef{str}}, "[]string"},
		{"array", analyze.TypeRef{Name: "[3]", Args: []analyze.TypeRef{i64}}, "[3]int64"},
		{"map", analyze.TypeRef{Name: analyze.MapName, Args: []analyze.TypeRef{str, i64}}, "map[string]int64"},
		{"named", analyze.TypeRef{Pkg: "time", Name: "Time"}, "time.Time"},
		{
			"pointer to pointer",
			analyze.TypeRef{Name: analyze.PointerName, Nullable: true, Args: []analyze.TypeRef{{Name: "int", Nullable: true}}},
			"**int",
		},
		{
			"triple pointer",
			analyze.TypeRef{Name: analyze.PointerName, Nullable: true, Args: []analyze.TypeRef{
				{Name: analyze.PointerName, Nullable: true, Args: []analyze.TypeRef{{Name: "int", Nullable: true}}},
			}},
			"***int",
		},
		{
			"func",
			analyze.TypeRef{Name: analyze.FuncName, Args: []analyze.TypeRef{
				{Name: analyze.TupleName, Args: []analyze.TypeRef{order, {Name: analyze.VariadicName, Args: []analyze.TypeRef{str}}}},
				{Name: analyze.TupleName, Args: []analyze.TypeRef{{Name: "error"}}},
			}},
			"func(store.Order, ...string) error",
		},
		{
			"func with results",
			analyze.TypeRef{Name: analyze.FuncName, Args: []analyze.TypeRef{
				{Name: analyze.TupleName},
				{Name: analyze.TupleName, Args: []analyze.TypeRef{i64, {Name: "error"}}},
			}},
			"func() (int64, error)",
		},
		{"recv chan", analyze.TypeRef{Name: analyze.RecvChanName, Args: []analyze.TypeRef{order}}, "<-chan store.Order"},
		{"send chan", analyze.TypeRef{Name: analyze.SendChanName, Args: []analyze.TypeRef{str}}, "chan<- string"},
		{
			"chan of recv chan",
			analyze.TypeRef{Name: analyze.ChanName, Args: []analyze.TypeRef{{Name: analyze.RecvChanName, Args: []analyze.TypeRef{str}}}},
			"chan (<-chan string)",
		},
		{
			"generic",
			analyze.TypeRef{Pkg: "example.com/box", Name: "Box", Args: []analyze.TypeRef{i64}},
			"box.Box[int64]",
		},
		{"opaque", analyze.TypeRef{Name: "interface{ String() string }"}, "interface{ String() string }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fmt.Sprintf("%#v", typeCode(tt.ref)))
		})
	}
}

func TestCheckEmittable(t *testing.T) {
	ok := []analyze.TypeRef{
		{Name: "string"},
		{Name: "struct{ID int64}"},
		{Name: "interface{}"},
		{Name: analyze.SliceName, Args: []analyze.TypeRef{{Pkg: "time", Name: "Time"}}},
		{Name: analyze.FuncName, Args: []analyze.TypeRef{{Name: analyze.TupleName}, {Name: analyze.TupleName}}},
	}

	for _, ref := range ok {
		assert.NoError(t, checkEmittable(ref), ref.String())
	}

	bad := []analyze.TypeRef{
		{Name: "struct{O example.com/app/store.Order}"},
		{Name: "interface{ Now() time.Time }"},
		{Name: analyze.MapName, Args: []analyze.TypeRef{{Name: "string"}, {Name: "struct{T time.Time}"}}},
	}

	for _, ref := range bad {
		assert.Error(t, checkEmittable(ref), ref.String())
	}
}

func TestParamName(t *testing.T) {
	tests := map[string]string{
		"Nickname": "nickname",
		"ID":       "id",
		"URLPath":  "urlPath",
		"lastName": "lastName",
		"Type":     "type_",
		"Len":      "len_",
		"S":        "s_",
	}

	for in, want := range tests {
		assert.Equal(t, want, paramName(in), in)
	}
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"UserSummary": "user_summary",
		"OrderDto":    "order_dto",
		"OrderDTO":    "order_dto",
		"HTTPRequest": "http_request",
		"User2Fa":     "user2_fa",
		"dto":         "dto",
	}

	for in, want := range tests {
		assert.Equal(t, want, snakeCase(in), in)
	}
}

func TestExportedIdent(t *testing.T) {
	assert.Equal(t, "UserView", exportedIdent("userView"))
	assert.Equal(t, "", exportedIdent(""))
}
