package mock

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/getmockd/mockconf/pkg/expression"
)

// CheckMode is the comparison strategy of a Descriptor.
type CheckMode string

// Check-actual-value modes test only the actual value.
const (
	CheckExists    CheckMode = "exists"
	CheckNotExists CheckMode = "notExists"
	CheckIsBoolean CheckMode = "isBoolean"
	CheckIsNumber  CheckMode = "isNumber"
	CheckIsString  CheckMode = "isString"
)

// Compare-with-value modes test the actual value against Descriptor.Value.
const (
	CheckEquals        CheckMode = "equals"
	CheckNotEquals     CheckMode = "notEquals"
	CheckIncludes      CheckMode = "includes"
	CheckNotIncludes   CheckMode = "notIncludes"
	CheckStartsWith    CheckMode = "startsWith"
	CheckNotStartsWith CheckMode = "notStartsWith"
	CheckEndsWith      CheckMode = "endsWith"
	CheckNotEndsWith   CheckMode = "notEndsWith"
)

// Pattern and predicate modes.
const (
	CheckRegExp   CheckMode = "regExp"
	CheckFunction CheckMode = "function"
)

// IsCheckActualValue reports whether m ignores Descriptor.Value.
func (m CheckMode) IsCheckActualValue() bool {
	switch m {
	case CheckExists, CheckNotExists, CheckIsBoolean, CheckIsNumber, CheckIsString:
		return true
	}
	return false
}

// IsCompareWithValue reports whether m compares against Descriptor.Value.
func (m CheckMode) IsCompareWithValue() bool {
	switch m {
	case CheckEquals, CheckNotEquals, CheckIncludes, CheckNotIncludes,
		CheckStartsWith, CheckNotStartsWith, CheckEndsWith, CheckNotEndsWith:
		return true
	}
	return false
}

// IsKnown reports whether m is a supported check mode.
func (m CheckMode) IsKnown() bool {
	return m.IsCheckActualValue() || m.IsCompareWithValue() || m == CheckRegExp || m == CheckFunction
}

// Predicate is the callable of the function check mode.
type Predicate func(actual any) bool

// Descriptor tests one field of an entity.
//
// Value is nil for check-actual-value modes, a *regexp.Regexp for CheckRegExp
// and a Predicate for CheckFunction.
type Descriptor struct {
	CheckMode CheckMode
	Value     any
}

// EntityKind distinguishes string-valued maps from JSON values.
type EntityKind int

const (
	// EntityMapped covers headers, cookies, query and params.
	EntityMapped EntityKind = iota
	// EntityPlain covers body and variables.
	EntityPlain
)

func (k EntityKind) String() string {
	if k == EntityPlain {
		return "plain"
	}
	return "mapped"
}

// ValidateDescriptor checks that d's value fits its check mode. whole is true
// when d applies to an entire plain entity rather than one of its fields.
func ValidateDescriptor(d Descriptor, kind EntityKind, whole bool) error {
	mode := d.CheckMode
	switch {
	case !mode.IsKnown():
		return fmt.Errorf("%w: %q", ErrInvalidCheckMode, mode)

	case mode.IsCheckActualValue():
		if d.Value != nil {
			return fmt.Errorf("%w: %s takes no value", ErrInvalidDescriptorValue, mode)
		}

	case mode == CheckRegExp:
		if _, ok := d.Value.(*regexp.Regexp); !ok {
			return fmt.Errorf("%w: %s requires a regular expression, got %T", ErrInvalidDescriptorValue, mode, d.Value)
		}

	case mode == CheckFunction:
		if !isPredicate(d.Value) {
			return fmt.Errorf("%w: %s requires a predicate, got %T", ErrInvalidDescriptorValue, mode, d.Value)
		}

	case kind == EntityMapped:
		if !IsPrimitive(d.Value) {
			return fmt.Errorf("%w: %s on a mapped entity requires a primitive, got %T", ErrInvalidDescriptorValue, mode, d.Value)
		}

	case whole:
		if !isObjectOrArray(d.Value) {
			return fmt.Errorf("%w: %s on a whole plain entity requires an object or array, got %T", ErrInvalidDescriptorValue, mode, d.Value)
		}

	default:
		if isPredicate(d.Value) {
			return fmt.Errorf("%w: %s cannot compare against a function", ErrInvalidDescriptorValue, mode)
		}
	}
	return nil
}

func isPredicate(v any) bool {
	switch v.(type) {
	case Predicate, func(any) bool:
		return true
	}
	return false
}

// IsPrimitive reports whether v is a string, boolean or number.
func IsPrimitive(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isObjectOrArray(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// Raw descriptor fields in configuration files.
const (
	rawCheckModeKey = "checkMode"
	rawValueKey     = "value"
)

// CanonicalMapped converts a raw configuration value into a mapped-entity
// Descriptor. A raw {checkMode, value} object becomes that descriptor; any
// other value is shorthand for equals.
func CanonicalMapped(raw any) (Descriptor, error) {
	if d, ok, err := rawDescriptor(raw); ok || err != nil {
		return d, err
	}
	return Descriptor{CheckMode: CheckEquals, Value: raw}, nil
}

// CanonicalPlain converts a raw configuration value into a PlainEntity. A raw
// {checkMode, value} object constrains the whole value. Any other object is a
// set of dot-path keyed fields, each a descriptor or a raw value. Any other
// value is shorthand for includes on the whole value.
//
// Raw field values must be contained as written: objects and arrays become
// includes (recursive subset), primitives become equals. Substring and
// membership checks need an explicit includes descriptor.
func CanonicalPlain(raw any) (*PlainEntity, error) {
	if d, ok, err := rawDescriptor(raw); ok || err != nil {
		if err != nil {
			return nil, err
		}
		return &PlainEntity{Whole: &d}, nil
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return &PlainEntity{Whole: &Descriptor{CheckMode: CheckIncludes, Value: raw}}, nil
	}

	fields := make(map[string]Descriptor, len(obj))
	for key, value := range obj {
		d, ok, err := rawDescriptor(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if !ok {
			d = rawField(value)
		}
		fields[key] = d
	}
	return &PlainEntity{Fields: fields}, nil
}

func rawField(value any) Descriptor {
	if isObjectOrArray(value) {
		return Descriptor{CheckMode: CheckIncludes, Value: value}
	}
	return Descriptor{CheckMode: CheckEquals, Value: value}
}

// rawDescriptor recognizes the {checkMode, value} object form. String values
// of regExp and function descriptors are compiled.
func rawDescriptor(raw any) (Descriptor, bool, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Descriptor{}, false, nil
	}
	modeRaw, ok := obj[rawCheckModeKey]
	if !ok {
		return Descriptor{}, false, nil
	}
	for key := range obj {
		if key != rawCheckModeKey && key != rawValueKey {
			return Descriptor{}, false, nil
		}
	}

	modeStr, ok := modeRaw.(string)
	if !ok {
		return Descriptor{}, true, fmt.Errorf("%w: %v", ErrInvalidCheckMode, modeRaw)
	}
	d := Descriptor{CheckMode: CheckMode(modeStr), Value: obj[rawValueKey]}

	switch d.CheckMode {
	case CheckRegExp:
		if src, ok := d.Value.(string); ok {
			re, err := regexp.Compile(src)
			if err != nil {
				return Descriptor{}, true, fmt.Errorf("%w: %v", ErrInvalidDescriptorValue, err)
			}
			d.Value = re
		}
	case CheckFunction:
		if src, ok := d.Value.(string); ok {
			prog, err := expression.Compile(src)
			if err != nil {
				return Descriptor{}, true, fmt.Errorf("%w: %v", ErrInvalidDescriptorValue, err)
			}
			d.Value = Predicate(func(actual any) bool {
				ok, err := prog.RunBool(expression.Env(map[string]any{"actual": actual}))
				return err == nil && ok
			})
		}
	}
	return d, true, nil
}
