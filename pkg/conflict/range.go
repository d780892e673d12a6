package conflict

import (
	"fmt"
	"math"

	"github.com/alnovis/protounify/pkg/schema"
)

// RangeExceededError indicates a write value outside the intersection of the
// representable bounds of the targeted versions. The write is rejected; the
// caller and the rest of the run are unaffected.
type RangeExceededError struct {
	Field string
	Value interface{}
	Min   interface{}
	Max   interface{}
}

func (e *RangeExceededError) Error() string {
	return fmt.Sprintf("field %s: value %v outside representable range [%v, %v]",
		e.Field, e.Value, e.Min, e.Max)
}

// intBounds returns the representable bounds of an integer type as int64.
// The uint64 upper bound clamps to MaxInt64 because unified writes travel
// through int64.
func intBounds(ft schema.FieldType) (min, max int64, ok bool) {
	switch ft {
	case schema.FieldTypeInt32, schema.FieldTypeSint32, schema.FieldTypeSfixed32:
		return math.MinInt32, math.MaxInt32, true
	case schema.FieldTypeInt64, schema.FieldTypeSint64, schema.FieldTypeSfixed64:
		return math.MinInt64, math.MaxInt64, true
	case schema.FieldTypeUint32, schema.FieldTypeFixed32:
		return 0, math.MaxUint32, true
	case schema.FieldTypeUint64, schema.FieldTypeFixed64:
		return 0, math.MaxInt64, true
	case schema.FieldTypeEnum:
		return math.MinInt32, math.MaxInt32, true
	}
	return 0, 0, false
}

// ValidateIntWrite checks an integer write against every targeted version
// the field is present in. The accepted range is the intersection of the
// bounds of each target's declared type; a value outside it returns a
// RangeExceededError. Targets the field is absent from are skipped.
func ValidateIntWrite(field *schema.MergedField, value int64, targets []schema.VersionID) error {
	min := int64(math.MinInt64)
	max := int64(math.MaxInt64)
	constrained := false

	for _, target := range targets {
		fd, ok := field.VersionFields[target]
		if !ok {
			continue
		}
		lo, hi, ok := intBounds(fd.Type)
		if !ok {
			continue
		}
		if lo > min {
			min = lo
		}
		if hi < max {
			max = hi
		}
		constrained = true
	}

	if constrained && (value < min || value > max) {
		return &RangeExceededError{Field: field.Name, Value: value, Min: min, Max: max}
	}
	return nil
}

// ValidateFloatWrite checks a floating-point write against every targeted
// version the field is present in. Non-finite values (NaN, ±Inf) bypass the
// check unconditionally; finite values must fit the narrowest floating-point
// type among the targets.
func ValidateFloatWrite(field *schema.MergedField, value float64, targets []schema.VersionID) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}

	for _, target := range targets {
		fd, ok := field.VersionFields[target]
		if !ok {
			continue
		}
		if fd.Type == schema.FieldTypeFloat && math.Abs(value) > math.MaxFloat32 {
			return &RangeExceededError{
				Field: field.Name,
				Value: value,
				Min:   -math.MaxFloat32,
				Max:   math.MaxFloat32,
			}
		}
	}
	return nil
}
