// Package analyzer is the schema-parsing front end. It compiles one
// directory of .proto sources per version with protocompile and converts the
// resulting descriptors into the per-version model consumed by the merger.
//
// Versions compile independently, so AnalyzeAll fans them out across a
// bounded worker group. Well-known imports (google/protobuf/*) resolve from
// protocompile's standard import set without needing files on disk.
package analyzer
