// Package cli implements the protounify command line interface.
//
// Commands:
//
//	generate  run the pipeline once (incremental unless -force)
//	check     classify conflicts without emitting, fail on breaking ones
//	diff      compare two configured versions structurally
//	watch     regenerate on schema source changes
package cli
