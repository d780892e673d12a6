package analyzer

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/alnovis/protounify/pkg/schema"
)

// convertFile appends a compiled file's top-level messages and enums to the
// version schema.
func convertFile(vs *schema.VersionSchema, fd protoreflect.FileDescriptor) {
	source := string(fd.Path())

	for i := 0; i < fd.Messages().Len(); i++ {
		md := fd.Messages().Get(i)
		if md.IsMapEntry() {
			continue
		}
		vs.Messages = append(vs.Messages, convertMessage(md, source))
	}
	for i := 0; i < fd.Enums().Len(); i++ {
		vs.Enums = append(vs.Enums, convertEnum(fd.Enums().Get(i)))
	}
}

func convertMessage(md protoreflect.MessageDescriptor, source string) *schema.MessageDescriptor {
	msg := &schema.MessageDescriptor{
		Name:       string(md.Name()),
		FullName:   string(md.FullName()),
		SourceFile: source,
	}

	for i := 0; i < md.Fields().Len(); i++ {
		msg.Fields = append(msg.Fields, convertField(md.Fields().Get(i)))
	}
	for i := 0; i < md.Messages().Len(); i++ {
		nested := md.Messages().Get(i)
		// Map entry messages are synthesized by the compiler and surface
		// through the map field itself, not as nested types.
		if nested.IsMapEntry() {
			continue
		}
		msg.NestedMessages = append(msg.NestedMessages, convertMessage(nested, source))
	}
	for i := 0; i < md.Enums().Len(); i++ {
		msg.NestedEnums = append(msg.NestedEnums, convertEnum(md.Enums().Get(i)))
	}
	return msg
}

func convertField(fd protoreflect.FieldDescriptor) *schema.FieldDescriptor {
	field := &schema.FieldDescriptor{
		Name:   string(fd.Name()),
		Number: int32(fd.Number()),
	}

	if fd.IsMap() {
		field.Cardinality = schema.CardinalityMap
		field.Type = schema.FieldTypeMessage
		info := &schema.MapInfo{
			KeyType:   kindToType(fd.MapKey().Kind()),
			ValueType: kindToType(fd.MapValue().Kind()),
		}
		if name := compositeTypeName(fd.MapValue()); name != "" {
			info.ValueTypeName = name
		}
		field.Map = info
		return field
	}

	field.Type = kindToType(fd.Kind())
	field.TypeName = compositeTypeName(fd)

	switch {
	case fd.IsList():
		field.Cardinality = schema.CardinalityRepeated
	case fd.HasOptionalKeyword():
		field.Cardinality = schema.CardinalityOptional
	default:
		field.Cardinality = schema.CardinalitySingular
	}
	return field
}

func convertEnum(ed protoreflect.EnumDescriptor) *schema.EnumDescriptor {
	enum := &schema.EnumDescriptor{
		Name:     string(ed.Name()),
		FullName: string(ed.FullName()),
	}
	for i := 0; i < ed.Values().Len(); i++ {
		vd := ed.Values().Get(i)
		enum.Values = append(enum.Values, schema.EnumValueDescriptor{
			Name:   string(vd.Name()),
			Number: int32(vd.Number()),
		})
	}
	return enum
}

// compositeTypeName returns the fully qualified name for message and enum
// fields, empty for scalars.
func compositeTypeName(fd protoreflect.FieldDescriptor) string {
	switch fd.Kind() {
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return string(fd.Message().FullName())
	case protoreflect.EnumKind:
		return string(fd.Enum().FullName())
	}
	return ""
}

func kindToType(kind protoreflect.Kind) schema.FieldType {
	switch kind {
	case protoreflect.DoubleKind:
		return schema.FieldTypeDouble
	case protoreflect.FloatKind:
		return schema.FieldTypeFloat
	case protoreflect.Int32Kind:
		return schema.FieldTypeInt32
	case protoreflect.Int64Kind:
		return schema.FieldTypeInt64
	case protoreflect.Uint32Kind:
		return schema.FieldTypeUint32
	case protoreflect.Uint64Kind:
		return schema.FieldTypeUint64
	case protoreflect.Sint32Kind:
		return schema.FieldTypeSint32
	case protoreflect.Sint64Kind:
		return schema.FieldTypeSint64
	case protoreflect.Fixed32Kind:
		return schema.FieldTypeFixed32
	case protoreflect.Fixed64Kind:
		return schema.FieldTypeFixed64
	case protoreflect.Sfixed32Kind:
		return schema.FieldTypeSfixed32
	case protoreflect.Sfixed64Kind:
		return schema.FieldTypeSfixed64
	case protoreflect.BoolKind:
		return schema.FieldTypeBool
	case protoreflect.StringKind:
		return schema.FieldTypeString
	case protoreflect.BytesKind:
		return schema.FieldTypeBytes
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return schema.FieldTypeMessage
	case protoreflect.EnumKind:
		return schema.FieldTypeEnum
	default:
		return schema.FieldTypeUnknown
	}
}
