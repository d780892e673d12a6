// Package incremental decides whether a generation run can be skipped by
// comparing the current schema sources against a persisted snapshot.
//
// CRITICAL INVARIANT: SNAPSHOT IMMUTABILITY
// A State is never mutated after construction. Every successful generation
// run builds a brand-new State and persists it with a write-new-then-rename
// discipline, so a crash mid-save can never corrupt the previous snapshot.
//
// Change detection compares file fingerprints (content hash plus size); a
// matching hash with a differing size counts as modified, guarding against
// hash collisions. Detected changes expand through the import graph to every
// transitive dependent, and any non-empty affected set triggers a full
// regeneration. A corrupt or unreadable snapshot is never fatal: it loads as
// the empty state and the run proceeds as a cold start.
package incremental
