package matching

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ohler55/ojg/jp"
)

var fieldPaths sync.Map // string -> jp.Expr

// fieldPath compiles a dot path ("user.name", "items[0].id") into a
// JSONPath expression rooted at the value. Paths that already start with
// "$" are used as written.
func fieldPath(path string) (jp.Expr, error) {
	if cached, ok := fieldPaths.Load(path); ok {
		return cached.(jp.Expr), nil
	}
	src := path
	if !strings.HasPrefix(src, "$") {
		if strings.HasPrefix(src, "[") {
			src = "$" + src
		} else {
			src = "$." + src
		}
	}
	x, err := jp.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("invalid field path %q: %w", path, err)
	}
	fieldPaths.Store(path, x)
	return x, nil
}

// Lookup resolves a dot path against a JSON value. A path matching several
// values yields the first.
func Lookup(data any, path string) (Actual, error) {
	if data == nil {
		return Absent, nil
	}
	x, err := fieldPath(path)
	if err != nil {
		return Absent, err
	}
	results := x.Get(normalize(data))
	if len(results) == 0 {
		return Absent, nil
	}
	return Present(results[0]), nil
}

// ValidateFieldPath checks a dot path at load time.
func ValidateFieldPath(path string) error {
	_, err := fieldPath(path)
	return err
}
