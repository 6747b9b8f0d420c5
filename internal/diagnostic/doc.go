// Package diagnostic provides structured errors, warnings and infos
// collected while resolving DTO specs.
//
// Key capabilities:
//   - Missing property reports with "did you mean" suggestions
//   - Definition conflicts with full subject context
//   - Warnings for silently ignored configuration (include over exclude)
package diagnostic
