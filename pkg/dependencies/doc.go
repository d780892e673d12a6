// Package dependencies builds a directed import graph over schema source
// files and answers transitive reachability queries.
//
// Files are keyed by their path relative to the schema root. Import
// directives matching a configurable ignore-list of prefixes (well-known
// runtime imports such as google/protobuf/) are excluded from tracking.
// Traversals are breadth-first with a visited set, so they terminate even
// when the file graph contains cycles, and queries for unknown files return
// empty sets rather than errors.
package dependencies
