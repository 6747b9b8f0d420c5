// Package app wires the pipeline together for the command line: it loads
// packages, resolves DTO specs, renders code and writes, checks, exports
// or explains the result.
package app
