// Package plan resolves DTO specs into Blueprints consumed by code generation.
//
// Resolution pipeline:
//  1. Analyze packages → type graph
//  2. Discover specs: dto.Spec and dto.Def annotations, then the mapping file
//  3. For each simple spec: admit source properties by include/exclude
//  4. For each definition: merge its declared properties with the admitted
//     source properties (regular, overridden, pass-through), validating
//     exclusions, explicit sources and types
//  5. Emit diagnostics (missing names with suggestions, conflicts,
//     include/exclude overlap, duplicate DTO names)
//
// Every resolution reads immutable input and is independent of the others,
// so the Resolver runs them concurrently and merges results in input order.
package plan
