package diff

import (
	"fmt"

	"github.com/alnovis/protounify/pkg/conflict"
	"github.com/alnovis/protounify/pkg/schema"
)

// ChangeKind identifies what structurally changed between two versions.
type ChangeKind int

const (
	ChangeMessageAdded ChangeKind = iota
	ChangeMessageRemoved
	ChangeFieldAdded
	ChangeFieldRemoved
	ChangeFieldType
	ChangeFieldCardinality
	ChangeEnumAdded
	ChangeEnumRemoved
	ChangeEnumValueAdded
	ChangeEnumValueRemoved
)

func (k ChangeKind) String() string {
	return []string{
		"message_added", "message_removed", "field_added", "field_removed",
		"field_type", "field_cardinality", "enum_added", "enum_removed",
		"enum_value_added", "enum_value_removed",
	}[k]
}

// Change is one structural difference between the two versions.
type Change struct {
	Kind     ChangeKind        `json:"-"`
	KindName string            `json:"kind"`
	Location string            `json:"location"`
	Message  string            `json:"message"`
	Severity conflict.Severity `json:"-"`
	Breaking bool              `json:"breaking"`
	OldValue string            `json:"old,omitempty"`
	NewValue string            `json:"new,omitempty"`
}

// Summary counts changes by severity.
type Summary struct {
	Total    int `json:"total"`
	Breaking int `json:"breaking"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// Result is the outcome of one version comparison.
type Result struct {
	OldVersion schema.VersionID `json:"old_version"`
	NewVersion schema.VersionID `json:"new_version"`
	Changes    []Change         `json:"changes"`
	Summary    Summary          `json:"summary"`
}

// HasBreaking reports whether any change is breaking.
func (r *Result) HasBreaking() bool {
	return r.Summary.Breaking > 0
}

// Differ compares two version schemas.
type Differ struct {
	classifier *conflict.Classifier
}

// New creates a Differ.
func New() *Differ {
	return &Differ{classifier: conflict.NewClassifier(nil)}
}

// Compare diffs old against new and grades every change.
func (d *Differ) Compare(oldSchema, newSchema *schema.VersionSchema) *Result {
	result := &Result{
		OldVersion: oldSchema.Version,
		NewVersion: newSchema.Version,
	}

	d.compareMessageSets(result, "", oldSchema.Messages, newSchema.Messages)
	d.compareEnumSets(result, "", oldSchema.Enums, newSchema.Enums)

	for _, c := range result.Changes {
		result.Summary.Total++
		switch c.Severity {
		case conflict.SeverityBreaking:
			result.Summary.Breaking++
		case conflict.SeverityWarning:
			result.Summary.Warnings++
		default:
			result.Summary.Infos++
		}
	}
	return result
}

func (d *Differ) compareMessageSets(result *Result, scope string, oldMsgs, newMsgs []*schema.MessageDescriptor) {
	oldByName := messagesByName(oldMsgs)
	newByName := messagesByName(newMsgs)

	for _, oldMsg := range oldMsgs {
		location := qualify(scope, oldMsg.Name)
		newMsg, ok := newByName[oldMsg.Name]
		if !ok {
			result.add(Change{
				Kind:     ChangeMessageRemoved,
				Location: location,
				Message:  "message removed",
				Severity: conflict.SeverityBreaking,
				Breaking: true,
			})
			continue
		}
		d.compareMessages(result, location, oldMsg, newMsg)
	}
	for _, newMsg := range newMsgs {
		if _, ok := oldByName[newMsg.Name]; !ok {
			result.add(Change{
				Kind:     ChangeMessageAdded,
				Location: qualify(scope, newMsg.Name),
				Message:  "message added",
				Severity: conflict.SeverityInfo,
			})
		}
	}
}

func (d *Differ) compareMessages(result *Result, location string, oldMsg, newMsg *schema.MessageDescriptor) {
	oldFields := fieldsByNumber(oldMsg.Fields)
	newFields := fieldsByNumber(newMsg.Fields)

	for number, oldField := range oldFields {
		fieldLoc := fmt.Sprintf("%s.%s(%d)", location, oldField.Name, number)
		newField, ok := newFields[number]
		if !ok {
			result.add(Change{
				Kind:     ChangeFieldRemoved,
				Location: fieldLoc,
				Message:  "field removed",
				Severity: conflict.SeverityWarning,
			})
			continue
		}
		d.compareFields(result, fieldLoc, oldField, newField)
	}
	for number, newField := range newFields {
		if _, ok := oldFields[number]; !ok {
			result.add(Change{
				Kind:     ChangeFieldAdded,
				Location: fmt.Sprintf("%s.%s(%d)", location, newField.Name, number),
				Message:  "field added",
				Severity: conflict.SeverityInfo,
			})
		}
	}

	d.compareMessageSets(result, location, oldMsg.NestedMessages, newMsg.NestedMessages)
	d.compareEnumSets(result, location, oldMsg.NestedEnums, newMsg.NestedEnums)
}

// compareFields grades a type change by running the conflict classifier over
// the two shapes, so the diff severity always agrees with the policy table.
func (d *Differ) compareFields(result *Result, location string, oldField, newField *schema.FieldDescriptor) {
	if oldField.IsRepeated() != newField.IsRepeated() {
		result.add(Change{
			Kind:     ChangeFieldCardinality,
			Location: location,
			Message:  "cardinality changed",
			Severity: conflict.SeverityWarning,
			OldValue: oldField.Cardinality.String(),
			NewValue: newField.Cardinality.String(),
		})
	}

	if oldField.Type == newField.Type && oldField.TypeName == newField.TypeName {
		return
	}

	merged := schema.NewMergedField("old", oldField)
	merged.AddVersion("new", newField)
	kind := d.classifier.Classify(merged)
	severity := conflict.PolicyFor(kind).Severity

	result.add(Change{
		Kind:     ChangeFieldType,
		Location: location,
		Message:  fmt.Sprintf("type changed (%s)", kind),
		Severity: severity,
		Breaking: severity == conflict.SeverityBreaking,
		OldValue: describeType(oldField),
		NewValue: describeType(newField),
	})
}

func (d *Differ) compareEnumSets(result *Result, scope string, oldEnums, newEnums []*schema.EnumDescriptor) {
	oldByName := enumsByName(oldEnums)
	newByName := enumsByName(newEnums)

	for _, oldEnum := range oldEnums {
		location := qualify(scope, oldEnum.Name)
		newEnum, ok := newByName[oldEnum.Name]
		if !ok {
			result.add(Change{
				Kind:     ChangeEnumRemoved,
				Location: location,
				Message:  "enum removed",
				Severity: conflict.SeverityBreaking,
				Breaking: true,
			})
			continue
		}
		d.compareEnums(result, location, oldEnum, newEnum)
	}
	for _, newEnum := range newEnums {
		if _, ok := oldByName[newEnum.Name]; !ok {
			result.add(Change{
				Kind:     ChangeEnumAdded,
				Location: qualify(scope, newEnum.Name),
				Message:  "enum added",
				Severity: conflict.SeverityInfo,
			})
		}
	}
}

func (d *Differ) compareEnums(result *Result, location string, oldEnum, newEnum *schema.EnumDescriptor) {
	oldValues := make(map[string]int32, len(oldEnum.Values))
	for _, v := range oldEnum.Values {
		oldValues[v.Name] = v.Number
	}
	newValues := make(map[string]int32, len(newEnum.Values))
	for _, v := range newEnum.Values {
		newValues[v.Name] = v.Number
	}

	for name, number := range oldValues {
		if _, ok := newValues[name]; !ok {
			result.add(Change{
				Kind:     ChangeEnumValueRemoved,
				Location: fmt.Sprintf("%s.%s(%d)", location, name, number),
				Message:  "enum value removed",
				Severity: conflict.SeverityWarning,
			})
		}
	}
	for name, number := range newValues {
		if _, ok := oldValues[name]; !ok {
			result.add(Change{
				Kind:     ChangeEnumValueAdded,
				Location: fmt.Sprintf("%s.%s(%d)", location, name, number),
				Message:  "enum value added",
				Severity: conflict.SeverityInfo,
			})
		}
	}
}

func (r *Result) add(c Change) {
	c.KindName = c.Kind.String()
	r.Changes = append(r.Changes, c)
}

func qualify(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

func describeType(fd *schema.FieldDescriptor) string {
	if fd.TypeName != "" {
		return fd.TypeName
	}
	return fd.Type.String()
}

func messagesByName(msgs []*schema.MessageDescriptor) map[string]*schema.MessageDescriptor {
	m := make(map[string]*schema.MessageDescriptor, len(msgs))
	for _, msg := range msgs {
		m[msg.Name] = msg
	}
	return m
}

func enumsByName(enums []*schema.EnumDescriptor) map[string]*schema.EnumDescriptor {
	m := make(map[string]*schema.EnumDescriptor, len(enums))
	for _, e := range enums {
		m[e.Name] = e
	}
	return m
}

func fieldsByNumber(fields []*schema.FieldDescriptor) map[int32]*schema.FieldDescriptor {
	m := make(map[int32]*schema.FieldDescriptor, len(fields))
	for _, f := range fields {
		m[f.Number] = f
	}
	return m
}
