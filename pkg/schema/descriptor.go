package schema

// VersionID identifies one snapshot of a schema. Values are opaque;
// declaration order in the version list is significant (the last declared
// version is the default write target unless overridden).
type VersionID string

// FieldType represents the protobuf field type.
type FieldType int

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeDouble
	FieldTypeFloat
	FieldTypeInt32
	FieldTypeInt64
	FieldTypeUint32
	FieldTypeUint64
	FieldTypeSint32
	FieldTypeSint64
	FieldTypeFixed32
	FieldTypeFixed64
	FieldTypeSfixed32
	FieldTypeSfixed64
	FieldTypeBool
	FieldTypeString
	FieldTypeBytes
	FieldTypeMessage
	FieldTypeEnum
)

func (ft FieldType) String() string {
	return []string{
		"unknown", "double", "float", "int32", "int64", "uint32", "uint64",
		"sint32", "sint64", "fixed32", "fixed64", "sfixed32", "sfixed64",
		"bool", "string", "bytes", "message", "enum",
	}[ft]
}

// IsInteger reports whether the type is any integer variant.
func (ft FieldType) IsInteger() bool {
	switch ft {
	case FieldTypeInt32, FieldTypeInt64, FieldTypeUint32, FieldTypeUint64,
		FieldTypeSint32, FieldTypeSint64, FieldTypeFixed32, FieldTypeFixed64,
		FieldTypeSfixed32, FieldTypeSfixed64:
		return true
	}
	return false
}

// IsFloatingPoint reports whether the type is float or double.
func (ft FieldType) IsFloatingPoint() bool {
	return ft == FieldTypeFloat || ft == FieldTypeDouble
}

// IsNumeric reports whether the type is integer or floating point.
func (ft FieldType) IsNumeric() bool {
	return ft.IsInteger() || ft.IsFloatingPoint()
}

// IsSigned reports whether an integer type is signed. Non-integer types
// return false.
func (ft FieldType) IsSigned() bool {
	switch ft {
	case FieldTypeInt32, FieldTypeInt64, FieldTypeSint32, FieldTypeSint64,
		FieldTypeSfixed32, FieldTypeSfixed64:
		return true
	}
	return false
}

// IsUnsigned reports whether an integer type is unsigned.
func (ft FieldType) IsUnsigned() bool {
	switch ft {
	case FieldTypeUint32, FieldTypeUint64, FieldTypeFixed32, FieldTypeFixed64:
		return true
	}
	return false
}

// BitWidth returns 32 or 64 for numeric types, 0 otherwise.
func (ft FieldType) BitWidth() int {
	switch ft {
	case FieldTypeInt32, FieldTypeUint32, FieldTypeSint32, FieldTypeFixed32,
		FieldTypeSfixed32, FieldTypeFloat:
		return 32
	case FieldTypeInt64, FieldTypeUint64, FieldTypeSint64, FieldTypeFixed64,
		FieldTypeSfixed64, FieldTypeDouble:
		return 64
	}
	return 0
}

// Cardinality represents how many values a field carries.
type Cardinality int

const (
	CardinalitySingular Cardinality = iota
	CardinalityOptional
	CardinalityRepeated
	CardinalityMap
)

func (c Cardinality) String() string {
	return []string{"singular", "optional", "repeated", "map"}[c]
}

// MapInfo describes the key and value types of a map field.
type MapInfo struct {
	KeyType       FieldType
	ValueType     FieldType
	ValueTypeName string // fully qualified name for message/enum values
}

// FieldDescriptor describes one field as declared in one version.
type FieldDescriptor struct {
	Name        string
	Number      int32
	Type        FieldType
	Cardinality Cardinality
	TypeName    string   // fully qualified name for message/enum types
	Map         *MapInfo // non-nil only when Cardinality == CardinalityMap
}

// IsRepeated reports whether the field is a repeated (non-map) field.
func (f *FieldDescriptor) IsRepeated() bool {
	return f.Cardinality == CardinalityRepeated
}

// IsMap reports whether the field is a map field.
func (f *FieldDescriptor) IsMap() bool {
	return f.Cardinality == CardinalityMap
}

// EnumValueDescriptor describes one enum value in one version.
type EnumValueDescriptor struct {
	Name   string
	Number int32
}

// EnumDescriptor describes one enum in one version.
type EnumDescriptor struct {
	Name     string
	FullName string
	Values   []EnumValueDescriptor
}

// MessageDescriptor describes one message in one version, including its
// nested messages and enums.
type MessageDescriptor struct {
	Name           string
	FullName       string
	SourceFile     string // relative path of the .proto file that declared it
	Fields         []*FieldDescriptor
	NestedMessages []*MessageDescriptor
	NestedEnums    []*EnumDescriptor
}

// Field returns the field with the given number, or nil.
func (m *MessageDescriptor) Field(number int32) *FieldDescriptor {
	for _, f := range m.Fields {
		if f.Number == number {
			return f
		}
	}
	return nil
}

// VersionSchema holds every top-level message and enum of one schema version.
type VersionSchema struct {
	Version  VersionID
	Messages []*MessageDescriptor
	Enums    []*EnumDescriptor
}

// Message returns the top-level message with the given name, or nil.
func (s *VersionSchema) Message(name string) *MessageDescriptor {
	for _, m := range s.Messages {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Enum returns the top-level enum with the given name, or nil.
func (s *VersionSchema) Enum(name string) *EnumDescriptor {
	for _, e := range s.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}
