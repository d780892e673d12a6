package schema

// ConflictType classifies how a merged field's shape differs across versions.
// The set is closed: every emission path switches exhaustively over it.
type ConflictType int

const (
	// ConflictNone means the field has an identical shape in every version.
	ConflictNone ConflictType = iota
	// ConflictIntEnum marks an integer in some versions and an enum in others.
	ConflictIntEnum
	// ConflictEnumEnum marks two incompatible enum types.
	ConflictEnumEnum
	// ConflictWidening marks a narrower numeric type in at least one version
	// (int32 vs int64, float vs double).
	ConflictWidening
	// ConflictSignedUnsigned marks signed vs unsigned integers of equal width.
	ConflictSignedUnsigned
	// ConflictStringBytes marks string in some versions and bytes in others.
	ConflictStringBytes
	// ConflictPrimitiveMessage marks a scalar in some versions and a message
	// type in others.
	ConflictPrimitiveMessage
	// ConflictRepeatedSingle marks a repeated field in some versions and a
	// singular one in others.
	ConflictRepeatedSingle
	// ConflictIncompatible is the fallback for every other mismatch.
	ConflictIncompatible
)

func (c ConflictType) String() string {
	return []string{
		"NONE", "INT_ENUM", "ENUM_ENUM", "WIDENING", "SIGNED_UNSIGNED",
		"STRING_BYTES", "PRIMITIVE_MESSAGE", "REPEATED_SINGLE", "INCOMPATIBLE",
	}[c]
}

// UnifiedType is the single application-facing type that satisfies every
// version a merged field is present in.
type UnifiedType struct {
	Type     FieldType
	TypeName string // qualified name when Type is message/enum
	Repeated bool   // list representation (always true for REPEATED_SINGLE)

	// Dual accessor pair (STRING_BYTES, PRIMITIVE_MESSAGE): Secondary holds
	// the second member of the pair, FieldTypeUnknown otherwise.
	Secondary     FieldType
	SecondaryName string
}

// IsDual reports whether the unified representation is an accessor pair.
func (u UnifiedType) IsDual() bool {
	return u.Secondary != FieldTypeUnknown
}

// MergedField is one field merged across versions. Identity is (name, number);
// the key set of VersionFields is the presence set. Merged fields are
// append-only while the merger runs and frozen afterward.
type MergedField struct {
	Name   string
	Number int32

	// Versions lists the presence set in declaration order.
	Versions []VersionID
	// VersionFields maps each present version to its descriptor.
	VersionFields map[VersionID]*FieldDescriptor

	// BaselineVersion is the first-encountered version; its descriptor is the
	// default display shape when labels differ. Nothing is discarded - the
	// full per-version map stays available for classification.
	BaselineVersion VersionID

	Conflict ConflictType
	Resolved *UnifiedType
}

// NewMergedField creates a merged field seeded with its first version.
func NewMergedField(version VersionID, fd *FieldDescriptor) *MergedField {
	return &MergedField{
		Name:            fd.Name,
		Number:          fd.Number,
		Versions:        []VersionID{version},
		VersionFields:   map[VersionID]*FieldDescriptor{version: fd},
		BaselineVersion: version,
		Conflict:        ConflictNone,
	}
}

// AddVersion records the field's presence in another version.
func (f *MergedField) AddVersion(version VersionID, fd *FieldDescriptor) {
	if _, ok := f.VersionFields[version]; ok {
		return
	}
	f.Versions = append(f.Versions, version)
	f.VersionFields[version] = fd
}

// Baseline returns the first-encountered version's descriptor.
func (f *MergedField) Baseline() *FieldDescriptor {
	return f.VersionFields[f.BaselineVersion]
}

// PresentIn reports whether the field exists in the given version.
func (f *MergedField) PresentIn(version VersionID) bool {
	_, ok := f.VersionFields[version]
	return ok
}

// MergedMessage is one message merged across versions. Ownership is a strict
// tree: a nested message has exactly one parent and cycles cannot occur.
type MergedMessage struct {
	Name     string
	FullName string // parent path joined with '.', e.g. "Order.LineItem"
	Parent   *MergedMessage

	Versions    []VersionID
	SourceFiles map[VersionID]string

	Fields         []*MergedField
	NestedMessages []*MergedMessage
	NestedEnums    []*MergedEnum
}

// NewMergedMessage creates an empty merged message under the given parent
// (nil for top-level messages).
func NewMergedMessage(name string, parent *MergedMessage) *MergedMessage {
	full := name
	if parent != nil {
		full = parent.FullName + "." + name
	}
	return &MergedMessage{
		Name:        name,
		FullName:    full,
		Parent:      parent,
		SourceFiles: make(map[VersionID]string),
	}
}

// AddVersion records the message's presence in a version.
func (m *MergedMessage) AddVersion(version VersionID) {
	for _, v := range m.Versions {
		if v == version {
			return
		}
	}
	m.Versions = append(m.Versions, version)
}

// PresentIn reports whether the message exists in the given version.
func (m *MergedMessage) PresentIn(version VersionID) bool {
	for _, v := range m.Versions {
		if v == version {
			return true
		}
	}
	return false
}

// Field returns the merged field with the given number, or nil.
func (m *MergedMessage) Field(number int32) *MergedField {
	for _, f := range m.Fields {
		if f.Number == number {
			return f
		}
	}
	return nil
}

// FieldByName returns the merged field with the given name, or nil.
func (m *MergedMessage) FieldByName(name string) *MergedField {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// NestedMessage returns the nested merged message with the given name, or nil.
func (m *MergedMessage) NestedMessage(name string) *MergedMessage {
	for _, n := range m.NestedMessages {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// MergedEnumValue is one enum value merged across versions. Identity is
// (name, number).
type MergedEnumValue struct {
	Name     string
	Number   int32
	Versions []VersionID
}

// AddVersion records the value's presence in a version.
func (v *MergedEnumValue) AddVersion(version VersionID) {
	for _, existing := range v.Versions {
		if existing == version {
			return
		}
	}
	v.Versions = append(v.Versions, version)
}

// MergedEnum is one enum merged across versions by symbolic name.
type MergedEnum struct {
	Name     string
	FullName string
	Versions []VersionID
	Values   []*MergedEnumValue
}

// AddVersion records the enum's presence in a version.
func (e *MergedEnum) AddVersion(version VersionID) {
	for _, v := range e.Versions {
		if v == version {
			return
		}
	}
	e.Versions = append(e.Versions, version)
}

// Value returns the merged value with the given name and number, or nil.
func (e *MergedEnum) Value(name string, number int32) *MergedEnumValue {
	for _, v := range e.Values {
		if v.Name == name && v.Number == number {
			return v
		}
	}
	return nil
}

// MergedSchema is the unified model produced by the merger. Every presence
// set in the model is a subset of Versions.
type MergedSchema struct {
	// Versions lists the merged versions in declaration order. The last
	// version is the default write target.
	Versions []VersionID

	Messages []*MergedMessage
	Enums    []*MergedEnum
}

// Message returns the top-level merged message with the given name, or nil.
func (s *MergedSchema) Message(name string) *MergedMessage {
	for _, m := range s.Messages {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Enum returns the top-level merged enum with the given name, or nil.
func (s *MergedSchema) Enum(name string) *MergedEnum {
	for _, e := range s.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// DefaultVersion returns the default write target (last declared version).
func (s *MergedSchema) DefaultVersion() VersionID {
	if len(s.Versions) == 0 {
		return ""
	}
	return s.Versions[len(s.Versions)-1]
}

// WalkMessages visits every merged message depth-first, parents before
// children.
func (s *MergedSchema) WalkMessages(visit func(*MergedMessage)) {
	var walk func(*MergedMessage)
	walk = func(m *MergedMessage) {
		visit(m)
		for _, n := range m.NestedMessages {
			walk(n)
		}
	}
	for _, m := range s.Messages {
		walk(m)
	}
}
