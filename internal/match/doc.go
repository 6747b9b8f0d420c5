// Package match provides identifier normalization, edit distance and
// ranking of near-miss property names.
//
// Key functions:
//   - NormalizeIdent: folds case and separators for fuzzy comparison
//   - Levenshtein: computes edit distance between strings
//   - RankCandidates: orders candidate names by similarity
//   - Suggest: the "did you mean" list for an unknown property name
package match
