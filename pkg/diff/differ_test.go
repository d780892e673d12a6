package diff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnovis/protounify/pkg/schema"
)

func fd(name string, number int32, ft schema.FieldType) *schema.FieldDescriptor {
	return &schema.FieldDescriptor{Name: name, Number: number, Type: ft}
}

func versionSchema(id string, msgs ...*schema.MessageDescriptor) *schema.VersionSchema {
	return &schema.VersionSchema{Version: schema.VersionID(id), Messages: msgs}
}

func msg(name string, fields ...*schema.FieldDescriptor) *schema.MessageDescriptor {
	return &schema.MessageDescriptor{Name: name, FullName: name, Fields: fields}
}

func findChange(t *testing.T, result *Result, kind ChangeKind) Change {
	t.Helper()
	for _, c := range result.Changes {
		if c.Kind == kind {
			return c
		}
	}
	t.Fatalf("no change of kind %s in %v", kind, result.Changes)
	return Change{}
}

func TestCompareIdenticalSchemas(t *testing.T) {
	d := New()
	a := versionSchema("v1", msg("Order", fd("id", 1, schema.FieldTypeString)))
	b := versionSchema("v2", msg("Order", fd("id", 1, schema.FieldTypeString)))

	result := d.Compare(a, b)
	assert.Empty(t, result.Changes)
	assert.False(t, result.HasBreaking())
}

func TestCompareStructuralChanges(t *testing.T) {
	d := New()

	oldS := versionSchema("v1",
		msg("Order",
			fd("id", 1, schema.FieldTypeString),
			fd("amount", 2, schema.FieldTypeInt32),
			fd("legacy", 9, schema.FieldTypeBool),
		),
		msg("Dropped", fd("x", 1, schema.FieldTypeString)),
	)
	newS := versionSchema("v2",
		msg("Order",
			fd("id", 1, schema.FieldTypeString),
			fd("amount", 2, schema.FieldTypeInt64),
			fd("created_at", 3, schema.FieldTypeInt64),
		),
		msg("Fresh", fd("y", 1, schema.FieldTypeString)),
	)

	result := d.Compare(oldS, newS)

	t.Run("message removed is breaking", func(t *testing.T) {
		c := findChange(t, result, ChangeMessageRemoved)
		assert.Equal(t, "Dropped", c.Location)
		assert.True(t, c.Breaking)
	})

	t.Run("message added is informational", func(t *testing.T) {
		c := findChange(t, result, ChangeMessageAdded)
		assert.Equal(t, "Fresh", c.Location)
		assert.False(t, c.Breaking)
	})

	t.Run("widening type change is not breaking", func(t *testing.T) {
		c := findChange(t, result, ChangeFieldType)
		assert.Contains(t, c.Location, "amount")
		assert.Contains(t, c.Message, "WIDENING")
		assert.False(t, c.Breaking)
		assert.Equal(t, "int32", c.OldValue)
		assert.Equal(t, "int64", c.NewValue)
	})

	t.Run("field add and remove recorded", func(t *testing.T) {
		assert.Contains(t, findChange(t, result, ChangeFieldAdded).Location, "created_at")
		assert.Contains(t, findChange(t, result, ChangeFieldRemoved).Location, "legacy")
	})

	assert.True(t, result.HasBreaking())
	assert.Equal(t, len(result.Changes), result.Summary.Total)
}

func TestCompareIncompatibleTypeChangeIsBreaking(t *testing.T) {
	d := New()
	oldS := versionSchema("v1", msg("Order", fd("flag", 1, schema.FieldTypeString)))
	newS := versionSchema("v2", msg("Order", fd("flag", 1, schema.FieldTypeBool)))

	result := d.Compare(oldS, newS)
	c := findChange(t, result, ChangeFieldType)
	assert.True(t, c.Breaking)
	assert.Contains(t, c.Message, "INCOMPATIBLE")
}

func TestCompareCardinality(t *testing.T) {
	d := New()
	oldS := versionSchema("v1", msg("Order", fd("tag", 1, schema.FieldTypeString)))
	repeated := &schema.FieldDescriptor{Name: "tag", Number: 1, Type: schema.FieldTypeString, Cardinality: schema.CardinalityRepeated}
	newS := versionSchema("v2", msg("Order", repeated))

	result := d.Compare(oldS, newS)
	c := findChange(t, result, ChangeFieldCardinality)
	assert.Equal(t, "singular", c.OldValue)
	assert.Equal(t, "repeated", c.NewValue)
}

func TestCompareEnums(t *testing.T) {
	d := New()
	oldS := versionSchema("v1")
	oldS.Enums = []*schema.EnumDescriptor{{
		Name: "Status",
		Values: []schema.EnumValueDescriptor{
			{Name: "STATUS_UNKNOWN", Number: 0},
			{Name: "STATUS_LEGACY", Number: 1},
		},
	}}
	newS := versionSchema("v2")
	newS.Enums = []*schema.EnumDescriptor{{
		Name: "Status",
		Values: []schema.EnumValueDescriptor{
			{Name: "STATUS_UNKNOWN", Number: 0},
			{Name: "STATUS_CLOSED", Number: 2},
		},
	}}

	result := d.Compare(oldS, newS)
	assert.Contains(t, findChange(t, result, ChangeEnumValueRemoved).Location, "STATUS_LEGACY")
	assert.Contains(t, findChange(t, result, ChangeEnumValueAdded).Location, "STATUS_CLOSED")
}

func TestFormat(t *testing.T) {
	d := New()
	oldS := versionSchema("v1", msg("Order", fd("amount", 1, schema.FieldTypeInt32)))
	newS := versionSchema("v2", msg("Order", fd("amount", 1, schema.FieldTypeInt64)))
	result := d.Compare(oldS, newS)

	t.Run("text", func(t *testing.T) {
		out, err := Format(result, "text")
		require.NoError(t, err)
		assert.Contains(t, out, "diff v1 -> v2")
		assert.Contains(t, out, "field_type")
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := Format(result, "markdown")
		require.NoError(t, err)
		assert.Contains(t, out, "| Kind | Location |")
	})

	t.Run("json round-trips", func(t *testing.T) {
		out, err := Format(result, "json")
		require.NoError(t, err)
		var decoded Result
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, result.Summary.Total, decoded.Summary.Total)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Format(result, "yamlish")
		assert.Error(t, err)
	})
}
