package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dto-generator/internal/mapping"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func TestExportCommand(t *testing.T) {
	out, err := run(t, "export", "--dir", "../..", "-p", "./store", "--log-level", "error")
	require.NoError(t, err)

	mf, err := mapping.Parse([]byte(out))
	require.NoError(t, err)
	assert.Len(t, mf.Entities, 2)
	assert.Len(t, mf.Definitions, 2)

	path := filepath.Join(t.TempDir(), "specs.toml")
	_, err = run(t, "export", "--dir", "../..", "-p", "./store", "-o", path)
	require.NoError(t, err)

	loaded, err := mapping.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Entities, 2)
}

func TestExplainCommand(t *testing.T) {
	out, err := run(t, "explain", "OrderDto", "--dir", "../..", "-p", "./store")
	require.NoError(t, err)
	assert.Contains(t, out, "=== store.Order/OrderDto ===")
	assert.Contains(t, out, "Total int64 <- RenamedFromSource(TotalCents)")

	_, err = run(t, "explain", "Nope", "--dir", "../..", "-p", "./store")

	var exitErr exitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.code)
}

func TestCheckCommandReportsStale(t *testing.T) {
	out, err := run(t, "check", "--dir", "../..", "-p", "./store",
		"--output-pkg", "example.com/gen/dto", "--output-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "stale ")
	assert.Contains(t, out, "user_profile_gen.go")
}

func TestInvalidFlagValue(t *testing.T) {
	_, err := run(t, "check", "--dir", "../..", "--log-level", "loud")
	assert.Error(t, err)
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		format, out string
		want        mapping.Format
	}{
		{"", "", mapping.FormatYAML},
		{"", "specs.toml", mapping.FormatTOML},
		{"yml", "specs.toml", mapping.FormatYAML},
		{"TOML", "", mapping.FormatTOML},
	}

	for _, tt := range tests {
		got, err := exportFormat(tt.format, tt.out)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.format+"/"+tt.out)
	}

	_, err := exportFormat("json", "")
	assert.Error(t, err)
}
