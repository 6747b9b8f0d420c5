package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files into their directories.
// It creates the directories if they don't exist. Files whose content is
// unchanged are left untouched.
func WriteFiles(files []GeneratedFile) (written []string, err error) {
	for _, file := range files {
		if err := os.MkdirAll(file.Dir, dirPerm); err != nil {
			return written, fmt.Errorf("creating output directory: %w", err)
		}

		stale, err := isStale(file)
		if err != nil {
			return written, err
		}

		if !stale {
			continue
		}

		if err := os.WriteFile(file.Path(), file.Content, filePerm); err != nil {
			return written, fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		written = append(written, file.Path())
	}

	return written, nil
}

// StaleFiles returns the paths of files that are missing on disk or differ
// from the generated content.
func StaleFiles(files []GeneratedFile) ([]string, error) {
	var out []string

	for _, file := range files {
		stale, err := isStale(file)
		if err != nil {
			return nil, err
		}

		if stale {
			out = append(out, file.Path())
		}
	}

	return out, nil
}

func isStale(file GeneratedFile) (bool, error) {
	current, err := os.ReadFile(file.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}

	if err != nil {
		return false, fmt.Errorf("reading file %s: %w", file.Filename, err)
	}

	return !bytes.Equal(current, file.Content), nil
}
