// Package worklist implements the list-view engine: facet extraction,
// search and facet filtering for issues and projects, project
// categorization, worklist ranking, and project role resolution.
//
// Every function here is pure. Inputs are never modified, results are
// freshly allocated, and the same arguments always produce structurally
// equal results, so callers may run them concurrently and memoize them
// however they like. Malformed records never cause errors: a missing or
// unreadable attribute simply fails to match, or ranks last.
//
// Records are read through explicit alias chains (see attrs.go). Time is
// always passed in; nothing here reads the system clock.
package worklist
