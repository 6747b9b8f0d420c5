package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dto-generator/internal/mapping"
)

func names(sel Selection) []string {
	var out []string
	for _, p := range sel.Admitted {
		out = append(out, p.Name)
	}

	return out
}

func TestAdmit(t *testing.T) {
	u := user()

	tests := []struct {
		name    string
		include mapping.NameSet
		exclude mapping.NameSet
		want    []string
	}{
		{name: "both empty keeps everything", want: []string{"ID", "Name", "Surname"}},
		{name: "include keeps source order", include: mapping.NameSet{"Surname", "ID"}, want: []string{"ID", "Surname"}},
		{name: "exclude", exclude: mapping.NameSet{"ID"}, want: []string{"Name", "Surname"}},
		{
			name:    "include wins over exclude",
			include: mapping.NameSet{"Name"},
			exclude: mapping.NameSet{"Name", "Surname"},
			want:    []string{"Name"},
		},
		{name: "exclude all", exclude: mapping.NameSet{"ID", "Name", "Surname"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Admit(u.ID, u.Properties, tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(sel))
		})
	}
}

func TestAdmit_MissingNamesBatched(t *testing.T) {
	u := user()

	_, err := Admit(u.ID, u.Properties, mapping.NameSet{"Nmae", "ID", "Email"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	var nf *PropertyNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"Nmae", "Email"}, nf.Names)
	assert.Equal(t, "include", nf.Field)
	assert.Equal(t, u.ID, nf.Owner)
	assert.Equal(t, []string{"ID", "Name", "Surname"}, nf.Candidates)
	assert.Contains(t, err.Error(), `"Nmae", "Email"`)

	_, err = Admit(u.ID, u.Properties, nil, mapping.NameSet{"Password"})
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "exclude", nf.Field)

	// A bad exclude is not validated when include takes over.
	_, err = Admit(u.ID, u.Properties, mapping.NameSet{"ID"}, mapping.NameSet{"Password"})
	assert.NoError(t, err)
}

func TestSelection(t *testing.T) {
	u := user()

	sel, err := Admit(u.ID, u.Properties, mapping.NameSet{"ID"}, mapping.NameSet{"Name"})
	require.NoError(t, err)
	assert.True(t, sel.Overlaps())
	assert.Equal(t, mapping.NameSet{"Name"}, sel.Exclude, "the exclude list is kept as written")

	_, ok := sel.Property("ID")
	assert.True(t, ok)
	_, ok = sel.Property("Name")
	assert.False(t, ok)

	sel, err = Admit(u.ID, u.Properties, nil, mapping.NameSet{"Name"})
	require.NoError(t, err)
	assert.False(t, sel.Overlaps())
}

func TestAdmit_DoesNotAliasCandidates(t *testing.T) {
	u := user()

	sel, err := Admit(u.ID, u.Properties, nil, nil)
	require.NoError(t, err)

	sel.Admitted[0].Name = "changed"
	assert.Equal(t, "ID", u.Properties[0].Name)
}
