package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a mapping file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the encoding from a file extension. Unknown extensions are YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}

	return FormatYAML
}

// LoadFile loads and parses a mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	if FormatOf(path) == FormatTOML {
		return ParseTOML(data)
	}

	return Parse(data)
}

// Parse parses YAML data into a MappingFile.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	err := yaml.Unmarshal(data, &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

// ParseTOML parses TOML data into a MappingFile.
func ParseTOML(data []byte) (*MappingFile, error) {
	var mf MappingFile

	err := toml.Unmarshal(data, &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping TOML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = "1"
	}

	for i := range mf.Entities {
		for j := range mf.Entities[i].Specs {
			s := &mf.Entities[i].Specs[j]
			s.DtoName = strings.TrimSpace(s.DtoName)
			s.Include = NewNameSet(s.Include...)
			s.Exclude = NewNameSet(s.Exclude...)
		}
	}

	for i := range mf.Definitions {
		d := &mf.Definitions[i]
		d.DtoName = strings.TrimSpace(d.DtoName)
		d.Include = NewNameSet(d.Include...)
		d.Exclude = NewNameSet(d.Exclude...)
	}
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// MarshalTOML serializes a MappingFile to TOML.
func MarshalTOML(mf *MappingFile) ([]byte, error) {
	return toml.Marshal(mf)
}

// WriteFile writes a MappingFile to the given path, encoded per its extension.
func WriteFile(mf *MappingFile, path string) error {
	marshal := Marshal
	if FormatOf(path) == FormatTOML {
		marshal = MarshalTOML
	}

	data, err := marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}
