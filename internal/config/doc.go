// Package config loads dto-generator settings.
//
// Settings come from dto-generator.yaml (or an explicit file), DTOGEN_*
// environment variables and command line flags, in increasing priority.
// Nested keys map to environment names with "." replaced by "_", e.g.
// DTOGEN_OUTPUT_DIR.
//
// Example dto-generator.yaml:
//
//	packages: ["./store/..."]
//	mappingFile: dto-mapping.yaml
//	strict: true
//	output:
//	  package: example.com/app/dto
//	  dir: ./dto
//	aliases:
//	  - name: View
//	    target: dto.Spec
package config
