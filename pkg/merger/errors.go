package merger

import (
	"fmt"

	"github.com/alnovis/protounify/pkg/schema"
)

// InvalidInputError indicates the merger was given unusable input, such as an
// empty version list or a duplicate version identifier.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid merge input: %s", e.Reason)
}

// FieldNumberConflictError indicates that a single version declares two
// different fields with the same number inside one message. This is invalid
// input, not a cross-version conflict, and aborts the merge.
type FieldNumberConflictError struct {
	Version  schema.VersionID
	Message  string // full message name
	Number   int32
	Existing string // field name already holding the number
	Incoming string // field name attempting to reuse it
}

func (e *FieldNumberConflictError) Error() string {
	return fmt.Sprintf(
		"version %s: message %s declares field number %d twice (%q and %q)",
		e.Version, e.Message, e.Number, e.Existing, e.Incoming)
}
