package conflict

import (
	"sort"

	"github.com/alnovis/protounify/pkg/observability"
	"github.com/alnovis/protounify/pkg/schema"
)

// shape is the comparable form of a per-version field descriptor used for
// classification.
type shape struct {
	Type     schema.FieldType
	TypeName string
	Repeated bool
}

// Classifier annotates merged fields with their conflict kind and unified
// type.
type Classifier struct {
	logger *observability.Logger
}

// NewClassifier creates a Classifier. A nil logger falls back to a default
// stdout logger.
func NewClassifier(logger *observability.Logger) *Classifier {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Classifier{logger: logger}
}

// ClassifySchema classifies every merged field in place and returns a report
// of all non-NONE conflicts found.
func (c *Classifier) ClassifySchema(merged *schema.MergedSchema) *Report {
	report := &Report{}
	merged.WalkMessages(func(msg *schema.MergedMessage) {
		for _, field := range msg.Fields {
			field.Conflict = c.Classify(field)
			field.Resolved = c.Resolve(field)
			if field.Conflict != schema.ConflictNone {
				report.add(msg.FullName, field)
			}
		}
	})
	c.logger.WithFields(map[string]interface{}{
		"conflicts": report.Total(),
		"breaking":  report.CountBySeverity(SeverityBreaking),
	}).Debug("classified merged schema")
	return report
}

// Classify assigns the conflict kind for a merged field. The result depends
// only on the sorted set of distinct per-version shapes, so version order
// never changes the kind.
func (c *Classifier) Classify(field *schema.MergedField) schema.ConflictType {
	shapes := distinctShapes(field)
	if len(shapes) <= 1 {
		return schema.ConflictNone
	}

	// Cardinality disagreement wins over type disagreement: the unified
	// surface must be a list either way.
	if repeatedDisagree(shapes) {
		if sameElementType(shapes) {
			return schema.ConflictRepeatedSingle
		}
		return schema.ConflictIncompatible
	}

	types := distinctTypes(shapes)
	if len(types) == 1 {
		// Same wire type, different named type: only possible for message
		// and enum references.
		switch types[0] {
		case schema.FieldTypeEnum:
			return schema.ConflictEnumEnum
		case schema.FieldTypeMessage:
			return schema.ConflictIncompatible
		}
		return schema.ConflictNone
	}
	if len(types) != 2 {
		return schema.ConflictIncompatible
	}

	a, b := types[0], types[1]
	switch {
	case isIntEnumPair(a, b):
		return schema.ConflictIntEnum
	case a.IsInteger() && b.IsInteger():
		return classifyIntegerPair(a, b)
	case a.IsFloatingPoint() && b.IsFloatingPoint():
		return schema.ConflictWidening
	case isStringBytesPair(a, b):
		return schema.ConflictStringBytes
	case isPrimitiveMessagePair(a, b):
		return schema.ConflictPrimitiveMessage
	default:
		return schema.ConflictIncompatible
	}
}

// Resolve computes the unified type for a merged field. Classify must be
// consulted first; Resolve recomputes the kind itself so it can be called
// standalone.
func (c *Classifier) Resolve(field *schema.MergedField) *schema.UnifiedType {
	kind := c.Classify(field)
	baseline := field.Baseline()
	shapes := distinctShapes(field)

	unified := &schema.UnifiedType{
		Type:     baseline.Type,
		TypeName: baseline.TypeName,
		Repeated: baseline.IsRepeated(),
	}

	switch kind {
	case schema.ConflictNone:
		// Baseline shape is the shape.

	case schema.ConflictIntEnum:
		unified.Type = widestInteger(shapes)
		unified.TypeName = ""
		// Keep the enum name reachable for the optional symbolic accessor.
		for _, s := range shapes {
			if s.Type == schema.FieldTypeEnum {
				unified.SecondaryName = s.TypeName
			}
		}

	case schema.ConflictEnumEnum:
		unified.Type = schema.FieldTypeInt32
		unified.TypeName = ""

	case schema.ConflictWidening:
		unified.Type = widestType(shapes)
		unified.TypeName = ""

	case schema.ConflictSignedUnsigned:
		// Next-wider signed type. uint64 has no wider signed container, so
		// it clamps to int64 and writes stay range-checked.
		unified.Type = schema.FieldTypeInt64
		unified.TypeName = ""

	case schema.ConflictStringBytes:
		unified.Type = schema.FieldTypeString
		unified.Secondary = schema.FieldTypeBytes
		unified.TypeName = ""

	case schema.ConflictPrimitiveMessage:
		for _, s := range shapes {
			if s.Type == schema.FieldTypeMessage {
				unified.Secondary = schema.FieldTypeMessage
				unified.SecondaryName = s.TypeName
			} else {
				unified.Type = s.Type
				unified.TypeName = ""
			}
		}

	case schema.ConflictRepeatedSingle:
		unified.Repeated = true

	case schema.ConflictIncompatible:
		// Baseline type, default value where mismatched.
	}

	return unified
}

// distinctShapes returns the deduplicated per-version shapes, sorted so that
// classification is independent of version order.
func distinctShapes(field *schema.MergedField) []shape {
	set := make(map[shape]bool, len(field.VersionFields))
	for _, fd := range field.VersionFields {
		set[shape{Type: fd.Type, TypeName: fd.TypeName, Repeated: fd.IsRepeated()}] = true
	}
	shapes := make([]shape, 0, len(set))
	for s := range set {
		shapes = append(shapes, s)
	}
	sort.Slice(shapes, func(i, j int) bool {
		if shapes[i].Type != shapes[j].Type {
			return shapes[i].Type < shapes[j].Type
		}
		if shapes[i].TypeName != shapes[j].TypeName {
			return shapes[i].TypeName < shapes[j].TypeName
		}
		return !shapes[i].Repeated && shapes[j].Repeated
	})
	return shapes
}

func distinctTypes(shapes []shape) []schema.FieldType {
	set := make(map[schema.FieldType]bool, len(shapes))
	for _, s := range shapes {
		set[s.Type] = true
	}
	types := make([]schema.FieldType, 0, len(set))
	for t := range set {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func repeatedDisagree(shapes []shape) bool {
	for _, s := range shapes[1:] {
		if s.Repeated != shapes[0].Repeated {
			return true
		}
	}
	return false
}

func sameElementType(shapes []shape) bool {
	for _, s := range shapes[1:] {
		if s.Type != shapes[0].Type || s.TypeName != shapes[0].TypeName {
			return false
		}
	}
	return true
}

func isIntEnumPair(a, b schema.FieldType) bool {
	return (a.IsInteger() && b == schema.FieldTypeEnum) ||
		(b.IsInteger() && a == schema.FieldTypeEnum)
}

func isStringBytesPair(a, b schema.FieldType) bool {
	return (a == schema.FieldTypeString && b == schema.FieldTypeBytes) ||
		(a == schema.FieldTypeBytes && b == schema.FieldTypeString)
}

func isPrimitiveMessagePair(a, b schema.FieldType) bool {
	return (a == schema.FieldTypeMessage) != (b == schema.FieldTypeMessage)
}

// classifyIntegerPair distinguishes widening from sign conflicts for a pair
// of integer types.
func classifyIntegerPair(a, b schema.FieldType) schema.ConflictType {
	if a.IsSigned() == b.IsSigned() {
		return schema.ConflictWidening
	}
	// Mixed signedness. When the signed side is strictly wider it can
	// represent the whole unsigned range, which is plain widening.
	signed, unsigned := a, b
	if b.IsSigned() {
		signed, unsigned = b, a
	}
	if signed.BitWidth() > unsigned.BitWidth() {
		return schema.ConflictWidening
	}
	return schema.ConflictSignedUnsigned
}

// widestInteger returns the widest integer type among the shapes, defaulting
// to int32 when only enums are present.
func widestInteger(shapes []shape) schema.FieldType {
	widest := schema.FieldTypeInt32
	for _, s := range shapes {
		if s.Type.IsInteger() && s.Type.BitWidth() > widest.BitWidth() {
			widest = s.Type
		}
	}
	return widest
}

// widestType returns the shape type with the largest bit width.
func widestType(shapes []shape) schema.FieldType {
	widest := shapes[0].Type
	for _, s := range shapes[1:] {
		if s.Type.BitWidth() > widest.BitWidth() {
			widest = s.Type
		}
	}
	return widest
}
