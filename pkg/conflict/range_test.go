package conflict

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnovis/protounify/pkg/schema"
)

func wideningField(t *testing.T) *schema.MergedField {
	t.Helper()
	field := schema.NewMergedField("v1", typed("amount", 1, schema.FieldTypeInt32))
	field.AddVersion("v2", typed("amount", 1, schema.FieldTypeInt64))
	return field
}

func TestValidateIntWrite(t *testing.T) {
	field := wideningField(t)

	t.Run("INT32_MAX accepted", func(t *testing.T) {
		assert.NoError(t, ValidateIntWrite(field, math.MaxInt32, []schema.VersionID{"v1", "v2"}))
	})

	t.Run("INT32_MAX plus one rejected", func(t *testing.T) {
		err := ValidateIntWrite(field, math.MaxInt32+1, []schema.VersionID{"v1", "v2"})
		var rangeErr *RangeExceededError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "amount", rangeErr.Field)
		assert.Equal(t, int64(math.MaxInt32), rangeErr.Max)
	})

	t.Run("INT32_MIN minus one rejected", func(t *testing.T) {
		err := ValidateIntWrite(field, math.MinInt32-1, []schema.VersionID{"v1", "v2"})
		var rangeErr *RangeExceededError
		assert.ErrorAs(t, err, &rangeErr)
	})

	t.Run("wide value accepted when narrow version not targeted", func(t *testing.T) {
		assert.NoError(t, ValidateIntWrite(field, math.MaxInt32+1, []schema.VersionID{"v2"}))
	})

	t.Run("targets where field is absent are skipped", func(t *testing.T) {
		assert.NoError(t, ValidateIntWrite(field, math.MaxInt64, []schema.VersionID{"v3"}))
	})

	t.Run("unsigned target rejects negatives", func(t *testing.T) {
		f := schema.NewMergedField("v1", typed("count", 2, schema.FieldTypeUint32))
		f.AddVersion("v2", typed("count", 2, schema.FieldTypeInt32))

		err := ValidateIntWrite(f, -1, []schema.VersionID{"v1", "v2"})
		var rangeErr *RangeExceededError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, int64(0), rangeErr.Min)

		assert.NoError(t, ValidateIntWrite(f, -1, []schema.VersionID{"v2"}))
	})

	t.Run("intersection of multiple narrow versions", func(t *testing.T) {
		f := schema.NewMergedField("v1", typed("count", 2, schema.FieldTypeUint32))
		f.AddVersion("v2", typed("count", 2, schema.FieldTypeInt32))
		f.AddVersion("v3", typed("count", 2, schema.FieldTypeInt64))

		// [0, MaxUint32] ∩ [MinInt32, MaxInt32] = [0, MaxInt32].
		assert.NoError(t, ValidateIntWrite(f, math.MaxInt32, []schema.VersionID{"v1", "v2", "v3"}))
		assert.Error(t, ValidateIntWrite(f, math.MaxInt32+1, []schema.VersionID{"v1", "v2", "v3"}))
		assert.Error(t, ValidateIntWrite(f, -1, []schema.VersionID{"v1", "v2", "v3"}))
	})
}

func TestValidateFloatWrite(t *testing.T) {
	field := schema.NewMergedField("v1", typed("rate", 3, schema.FieldTypeFloat))
	field.AddVersion("v2", typed("rate", 3, schema.FieldTypeDouble))

	t.Run("finite value in float range accepted", func(t *testing.T) {
		assert.NoError(t, ValidateFloatWrite(field, 1.5, []schema.VersionID{"v1", "v2"}))
	})

	t.Run("value beyond float32 rejected for float target", func(t *testing.T) {
		err := ValidateFloatWrite(field, math.MaxFloat64, []schema.VersionID{"v1", "v2"})
		var rangeErr *RangeExceededError
		assert.ErrorAs(t, err, &rangeErr)
	})

	t.Run("value beyond float32 accepted for double-only target", func(t *testing.T) {
		assert.NoError(t, ValidateFloatWrite(field, math.MaxFloat64, []schema.VersionID{"v2"}))
	})

	t.Run("non-finite values bypass range checks", func(t *testing.T) {
		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			assert.NoError(t, ValidateFloatWrite(field, v, []schema.VersionID{"v1", "v2"}))
		}
	})
}
