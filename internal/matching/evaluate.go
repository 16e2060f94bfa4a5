package matching

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/getmockd/mockconf/pkg/mock"
)

// Actual is the value a descriptor is evaluated against. Present is false
// when the request has no such field.
type Actual struct {
	Value   any
	Present bool
}

// Present wraps a value found in the request.
func Present(v any) Actual {
	return Actual{Value: v, Present: true}
}

// Absent is the actual value of a missing field.
var Absent = Actual{}

// Evaluate reports whether actual satisfies the descriptor (mode, expected).
//
// Mapped values are strings and are compared against the string form of
// expected. Plain values are JSON values and are compared structurally.
// Every mode except notExists fails on an absent value.
func Evaluate(mode mock.CheckMode, expected any, actual Actual, kind mock.EntityKind) (bool, error) {
	if !mode.IsKnown() {
		return false, fmt.Errorf("%w: %q", mock.ErrInvalidCheckMode, mode)
	}
	if mode == mock.CheckNotExists {
		return !actual.Present, nil
	}
	if !actual.Present {
		return false, nil
	}

	switch mode {
	case mock.CheckExists:
		return true, nil
	case mock.CheckIsBoolean:
		return isBoolean(actual.Value, kind), nil
	case mock.CheckIsNumber:
		return isNumber(actual.Value, kind), nil
	case mock.CheckIsString:
		_, ok := actual.Value.(string)
		return ok, nil
	case mock.CheckRegExp:
		re, ok := expected.(*regexp.Regexp)
		if !ok {
			return false, fmt.Errorf("%w: regExp requires a regular expression, got %T", mock.ErrInvalidDescriptorValue, expected)
		}
		return re.MatchString(stringForm(actual.Value)), nil
	case mock.CheckFunction:
		return callPredicate(expected, actual.Value)
	}

	if kind == mock.EntityMapped {
		return compareStrings(mode, stringForm(expected), stringForm(actual.Value)), nil
	}
	return comparePlain(mode, expected, actual.Value), nil
}

func isBoolean(v any, kind mock.EntityKind) bool {
	if s, ok := v.(string); ok && kind == mock.EntityMapped {
		_, err := strconv.ParseBool(s)
		return err == nil
	}
	_, ok := v.(bool)
	return ok
}

func isNumber(v any, kind mock.EntityKind) bool {
	if s, ok := v.(string); ok {
		if kind != mock.EntityMapped {
			return false
		}
		_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return err == nil
	}
	if _, ok := v.(json.Number); ok {
		return true
	}
	return mock.IsPrimitive(v) && reflect.TypeOf(v).Kind() != reflect.Bool
}

func callPredicate(fn any, actual any) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	switch p := fn.(type) {
	case mock.Predicate:
		return p(actual), nil
	case func(any) bool:
		return p(actual), nil
	}
	return false, fmt.Errorf("%w: function requires a predicate, got %T", mock.ErrInvalidDescriptorValue, fn)
}

func compareStrings(mode mock.CheckMode, expected, actual string) bool {
	switch mode {
	case mock.CheckEquals:
		return actual == expected
	case mock.CheckNotEquals:
		return actual != expected
	case mock.CheckIncludes:
		return strings.Contains(actual, expected)
	case mock.CheckNotIncludes:
		return !strings.Contains(actual, expected)
	case mock.CheckStartsWith:
		return strings.HasPrefix(actual, expected)
	case mock.CheckNotStartsWith:
		return !strings.HasPrefix(actual, expected)
	case mock.CheckEndsWith:
		return strings.HasSuffix(actual, expected)
	case mock.CheckNotEndsWith:
		return !strings.HasSuffix(actual, expected)
	}
	return false
}

func comparePlain(mode mock.CheckMode, expected, actual any) bool {
	exp, act := normalize(expected), normalize(actual)
	switch mode {
	case mock.CheckEquals:
		return reflect.DeepEqual(exp, act)
	case mock.CheckNotEquals:
		return !reflect.DeepEqual(exp, act)
	case mock.CheckIncludes:
		return includes(exp, act)
	case mock.CheckNotIncludes:
		return !includes(exp, act)
	}
	return compareStrings(mode, stringForm(exp), stringForm(act))
}

// includes reports whether actual contains expected: a recursive subset for
// objects and arrays, a substring for strings and membership when actual is
// an array of primitives.
func includes(expected, actual any) bool {
	switch exp := expected.(type) {
	case map[string]any, []any:
		return subset(exp, actual)
	case string:
		if act, ok := actual.(string); ok {
			return strings.Contains(act, exp)
		}
	}
	if arr, ok := actual.([]any); ok {
		for _, item := range arr {
			if reflect.DeepEqual(expected, item) {
				return true
			}
		}
		return false
	}
	return reflect.DeepEqual(expected, actual)
}

func subset(expected, actual any) bool {
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return false
		}
		for k, v := range exp {
			av, ok := act[k]
			if !ok || !subset(v, av) {
				return false
			}
		}
		return true
	case []any:
		act, ok := actual.([]any)
		if !ok || len(act) != len(exp) {
			return false
		}
		for i := range exp {
			if !subset(exp[i], act[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(expected, actual)
}

// normalize converts v to its JSON data model (map[string]any, []any,
// float64, string, bool, nil). Values that cannot be encoded are returned
// unchanged.
func normalize(v any) any {
	switch v.(type) {
	case nil, string, bool, float64:
		return v
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

// stringForm renders v the way it appears in a URL or header.
func stringForm(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return fmt.Sprint(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
