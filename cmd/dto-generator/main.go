// Package main provides the CLI entrypoint for dto-generator.
//
// dto-generator reads DTO specs from doc comment annotations and an optional
// mapping file, resolves each spec against its source struct and generates
// the DTO type with a mapper from the source:
//   - generate writes the generated files
//   - check fails when generated files are missing or out of date
//   - watch regenerates on source changes
//   - export prints the discovered specs as a mapping file
//   - explain dumps resolved blueprints
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var exitErr exitError
		if errors.As(err, &exitErr) {
			if !exitErr.silent && exitErr.message != "" {
				fmt.Fprintln(os.Stderr, exitErr.message)
			}
			os.Exit(exitErr.code)
		}

		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
