package conflict

import "github.com/alnovis/protounify/pkg/schema"

// ReadPolicy describes how the unified accessor reads a conflicted field.
type ReadPolicy int

const (
	// ReadDirect reads the native type with no translation.
	ReadDirect ReadPolicy = iota
	// ReadNumeric reads the raw numeric value (enum conflicts).
	ReadNumeric
	// ReadDual exposes both members of an accessor pair.
	ReadDual
	// ReadList always returns a list, wrapping singular values.
	ReadList
	// ReadDefaultOnMismatch returns the baseline type's zero value for
	// versions whose shape does not match.
	ReadDefaultOnMismatch
)

func (r ReadPolicy) String() string {
	return []string{"direct", "numeric", "dual", "list", "default_on_mismatch"}[r]
}

// WritePolicy describes how (or whether) the unified accessor writes a
// conflicted field.
type WritePolicy int

const (
	// WriteDirect writes the native type with no translation.
	WriteDirect WritePolicy = iota
	// WriteNumeric accepts a raw integer; versions lacking the symbolic
	// type store the raw value.
	WriteNumeric
	// WriteRangeChecked accepts the widened type but validates the value
	// against the bounds of every narrower targeted version.
	WriteRangeChecked
	// WriteReEncoded accepts either member of a dual pair and re-encodes
	// per target version.
	WriteReEncoded
	// WriteNotExposed means the unified surface offers no write path;
	// callers must use the version-specific accessor.
	WriteNotExposed
)

func (w WritePolicy) String() string {
	return []string{"direct", "numeric", "range_checked", "re_encoded", "not_exposed"}[w]
}

// Severity grades a conflict for reporting.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityBreaking
)

func (s Severity) String() string {
	return []string{"info", "warning", "breaking"}[s]
}

// Policy is the complete accessor policy for one conflict kind.
type Policy struct {
	Read     ReadPolicy
	Write    WritePolicy
	Severity Severity
}

// PolicyFor returns the policy for a conflict kind. The switch is exhaustive
// over schema.ConflictType.
func PolicyFor(kind schema.ConflictType) Policy {
	switch kind {
	case schema.ConflictNone:
		return Policy{Read: ReadDirect, Write: WriteDirect, Severity: SeverityInfo}
	case schema.ConflictIntEnum:
		return Policy{Read: ReadNumeric, Write: WriteNumeric, Severity: SeverityInfo}
	case schema.ConflictEnumEnum:
		return Policy{Read: ReadNumeric, Write: WriteNumeric, Severity: SeverityWarning}
	case schema.ConflictWidening:
		return Policy{Read: ReadDirect, Write: WriteRangeChecked, Severity: SeverityInfo}
	case schema.ConflictSignedUnsigned:
		return Policy{Read: ReadDirect, Write: WriteRangeChecked, Severity: SeverityWarning}
	case schema.ConflictStringBytes:
		return Policy{Read: ReadDual, Write: WriteReEncoded, Severity: SeverityInfo}
	case schema.ConflictPrimitiveMessage:
		return Policy{Read: ReadDual, Write: WriteNotExposed, Severity: SeverityWarning}
	case schema.ConflictRepeatedSingle:
		return Policy{Read: ReadList, Write: WriteNotExposed, Severity: SeverityWarning}
	case schema.ConflictIncompatible:
		return Policy{Read: ReadDefaultOnMismatch, Write: WriteNotExposed, Severity: SeverityBreaking}
	default:
		return Policy{Read: ReadDefaultOnMismatch, Write: WriteNotExposed, Severity: SeverityBreaking}
	}
}
