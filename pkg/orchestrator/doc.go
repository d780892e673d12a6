// Package orchestrator drives the generation pipeline: change detection
// gates whether anything runs at all, then analyze, merge, classify and emit
// execute as one pass.
//
// The gate works in three steps. First the persisted snapshot is checked
// against the tool version and config digest; a mismatch discards the cache
// entirely. Then current fingerprints are compared against stored ones; no
// changes means the run is skipped. Any change, after expansion through the
// import graph, triggers a full regeneration. Partial regeneration is
// deliberately not attempted.
package orchestrator
