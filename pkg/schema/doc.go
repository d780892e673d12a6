// Package schema defines the data model shared by the merge, classification
// and diff layers.
//
// # Overview
//
// Two families of types live here:
//
// Per-version descriptors: FieldDescriptor, MessageDescriptor, EnumDescriptor
// and VersionSchema describe one snapshot of a protobuf schema as produced by
// the parsing front end (pkg/analyzer).
//
// Merged model: MergedField, MergedMessage, MergedEnum and MergedSchema
// combine the per-version descriptors into one unified model where every
// entity tracks the subset of versions it is present in. Conflict
// classification (pkg/conflict) annotates merged fields in place.
//
// # Identity rules
//
// Fields merge by (name, number). Messages and enums merge by name, scoped to
// their owning parent path. Enum values merge by name and number.
//
// # Related Packages
//
//   - pkg/merger: builds the merged model
//   - pkg/conflict: classifies merged fields and computes unified types
package schema
