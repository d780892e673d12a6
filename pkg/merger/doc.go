// Package merger combines per-version schemas into a single merged model.
//
// Merging is purely structural: fields merge by (name, number), messages and
// enums merge by name within their parent scope, and every merged entity
// records the set of versions it appears in. The first-encountered version of
// an entity supplies its baseline shape. Type conflicts are detected and
// classified afterward by pkg/conflict.
package merger
