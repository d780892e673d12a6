// Package diff compares two schema versions structurally and grades each
// change by whether it breaks the unified access surface.
//
// The comparison is shape-only: field presence, numbers, types and
// cardinality. It does not consult wire data. Results render as plain text,
// Markdown or JSON for CI pipelines.
package diff
