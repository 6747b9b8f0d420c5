package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddAndError(t *testing.T) {
	var d Diagnostics
	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())

	d.AddWarning(CodeIncludeOverridesExclude, "exclude is ignored", "store.User/UserDto", "")
	d.AddInfo(CodeResolved, "resolved", "store.User/UserDto", "")
	assert.True(t, d.IsValid())

	d.Add(Diagnostic{
		Severity:    DiagnosticError,
		Code:        CodePropertyNotFound,
		Message:     "property not found",
		Subject:     "store.User/UserDto",
		Property:    "Nmae",
		Suggestions: []string{"Name"},
	})

	require.True(t, d.HasErrors())
	assert.Len(t, d.Warnings, 1)
	assert.Len(t, d.Infos, 1)
	assert.EqualError(t, d.Error(),
		"[store.User/UserDto] Nmae: [property_not_found] property not found (did you mean Name?)")
	assert.Len(t, d.All(), 3)
}

func TestDiagnostics_MergeAndSort(t *testing.T) {
	var a, b Diagnostics

	a.AddError(CodeDefinitionConflict, "second", "b", "")
	b.AddError(CodeDefinitionConflict, "first", "a", "")

	a.Merge(b)
	a.Sort()

	require.Len(t, a.Errors, 2)
	assert.Equal(t, "first", a.Errors[0].Message)
	assert.Equal(t, "second", a.Errors[1].Message)
}

func TestDiagnosticSeverity_String(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}
