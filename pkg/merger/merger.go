package merger

import (
	"sort"

	"github.com/alnovis/protounify/pkg/observability"
	"github.com/alnovis/protounify/pkg/schema"
)

// Merger combines per-version schemas into one merged model.
type Merger struct {
	logger *observability.Logger
}

// New creates a Merger. A nil logger falls back to a default stdout logger.
func New(logger *observability.Logger) *Merger {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Merger{logger: logger}
}

// Merge combines the given version schemas, in declaration order, into a
// merged schema. The version list must be non-empty and free of duplicate
// version IDs. Each version must be internally consistent: a message that
// declares the same field number twice aborts the merge with a
// FieldNumberConflictError.
//
// Merged fields are not yet classified; run the conflict classifier on the
// result before emission.
func (m *Merger) Merge(versions []*schema.VersionSchema) (*schema.MergedSchema, error) {
	if len(versions) == 0 {
		return nil, &InvalidInputError{Reason: "no versions to merge"}
	}

	seen := make(map[schema.VersionID]bool, len(versions))
	for _, v := range versions {
		if v == nil {
			return nil, &InvalidInputError{Reason: "nil version schema"}
		}
		if v.Version == "" {
			return nil, &InvalidInputError{Reason: "version with empty ID"}
		}
		if seen[v.Version] {
			return nil, &InvalidInputError{Reason: "duplicate version ID " + string(v.Version)}
		}
		seen[v.Version] = true
	}

	merged := &schema.MergedSchema{}
	for _, v := range versions {
		merged.Versions = append(merged.Versions, v.Version)
	}

	for _, v := range versions {
		m.logger.WithFields(map[string]interface{}{
			"version":  v.Version,
			"messages": len(v.Messages),
			"enums":    len(v.Enums),
		}).Debug("merging version")

		for _, msg := range v.Messages {
			target := merged.Message(msg.Name)
			if target == nil {
				target = schema.NewMergedMessage(msg.Name, nil)
				merged.Messages = append(merged.Messages, target)
			}
			if err := m.mergeMessage(target, v.Version, msg); err != nil {
				return nil, err
			}
		}

		for _, enum := range v.Enums {
			target := merged.Enum(enum.Name)
			if target == nil {
				target = &schema.MergedEnum{Name: enum.Name, FullName: enum.Name}
				merged.Enums = append(merged.Enums, target)
			}
			m.mergeEnum(target, v.Version, enum)
		}
	}

	merged.WalkMessages(func(msg *schema.MergedMessage) {
		sortFields(msg.Fields)
	})

	return merged, nil
}

// mergeMessage folds one version's message into the merged message,
// recursing into nested messages and enums.
func (m *Merger) mergeMessage(target *schema.MergedMessage, version schema.VersionID, msg *schema.MessageDescriptor) error {
	target.AddVersion(version)
	if msg.SourceFile != "" {
		target.SourceFiles[version] = msg.SourceFile
	}

	// A version must not reuse a field number within one message. Cross-version
	// reuse is legal and produces distinct merged fields.
	numbers := make(map[int32]string, len(msg.Fields))
	for _, fd := range msg.Fields {
		if existing, ok := numbers[fd.Number]; ok {
			return &FieldNumberConflictError{
				Version:  version,
				Message:  target.FullName,
				Number:   fd.Number,
				Existing: existing,
				Incoming: fd.Name,
			}
		}
		numbers[fd.Number] = fd.Name
	}

	for _, fd := range msg.Fields {
		field := findField(target, fd.Name, fd.Number)
		if field == nil {
			target.Fields = append(target.Fields, schema.NewMergedField(version, fd))
			continue
		}
		field.AddVersion(version, fd)
	}

	for _, nested := range msg.NestedMessages {
		child := target.NestedMessage(nested.Name)
		if child == nil {
			child = schema.NewMergedMessage(nested.Name, target)
			target.NestedMessages = append(target.NestedMessages, child)
		}
		if err := m.mergeMessage(child, version, nested); err != nil {
			return err
		}
	}

	for _, nested := range msg.NestedEnums {
		var child *schema.MergedEnum
		for _, e := range target.NestedEnums {
			if e.Name == nested.Name {
				child = e
				break
			}
		}
		if child == nil {
			child = &schema.MergedEnum{
				Name:     nested.Name,
				FullName: target.FullName + "." + nested.Name,
			}
			target.NestedEnums = append(target.NestedEnums, child)
		}
		m.mergeEnum(child, version, nested)
	}

	return nil
}

// mergeEnum folds one version's enum into the merged enum. Values merge by
// (name, number).
func (m *Merger) mergeEnum(target *schema.MergedEnum, version schema.VersionID, enum *schema.EnumDescriptor) {
	target.AddVersion(version)
	for _, vd := range enum.Values {
		value := target.Value(vd.Name, vd.Number)
		if value == nil {
			value = &schema.MergedEnumValue{Name: vd.Name, Number: vd.Number}
			target.Values = append(target.Values, value)
		}
		value.AddVersion(version)
	}
}

// findField locates the merged field with the exact (name, number) identity.
// A field that shares only the number or only the name is a different
// identity and merges separately.
func findField(msg *schema.MergedMessage, name string, number int32) *schema.MergedField {
	for _, f := range msg.Fields {
		if f.Name == name && f.Number == number {
			return f
		}
	}
	return nil
}

// sortFields orders merged fields by number, breaking ties by name so that
// distinct identities sharing a number across versions have a stable order.
func sortFields(fields []*schema.MergedField) {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Number != fields[j].Number {
			return fields[i].Number < fields[j].Number
		}
		return fields[i].Name < fields[j].Name
	})
}
