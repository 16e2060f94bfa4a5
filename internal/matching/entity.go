package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getmockd/mockconf/pkg/mock"
)

// Request is the normalized view of an incoming request that matching
// works on.
type Request struct {
	Kind mock.Kind

	// Method is the HTTP method, in any case.
	Method string
	// Path is the decoded URL path, including the server and API base URLs.
	Path string

	OperationType mock.OperationType
	OperationName string

	// Headers are keyed by lower-cased name. Query holds the first value of
	// each parameter.
	Headers map[string]string
	Cookies map[string]string
	Query   map[string]string
	// Params are filled from the matched path.
	Params map[string]string

	// Body is the decoded JSON body, or the raw text when it is not JSON.
	// Nil means no body.
	Body      any
	Variables map[string]any
}

// Identity renders the request the way request configs render theirs.
func (r *Request) Identity() string {
	if r.Kind == mock.KindGraphQL {
		return fmt.Sprintf("%s %s", r.OperationType, r.OperationName)
	}
	return fmt.Sprintf("%s %s", strings.ToUpper(r.Method), r.Path)
}

// MatchEntities reports whether every descriptor of e holds for req. A nil
// or empty e matches any request.
func MatchEntities(e *mock.Entities, req *Request) (bool, error) {
	if e.IsEmpty() {
		return true, nil
	}

	mapped := []struct {
		name        string
		descriptors map[string]mock.Descriptor
		actual      map[string]string
		fold        bool
	}{
		{"headers", e.Headers, req.Headers, true},
		{"cookies", e.Cookies, req.Cookies, false},
		{"query", e.Query, req.Query, false},
		{"params", e.Params, req.Params, false},
	}
	for _, m := range mapped {
		ok, err := matchMapped(m.descriptors, m.actual, m.fold)
		if err != nil {
			return false, fmt.Errorf("%s: %w", m.name, err)
		}
		if !ok {
			return false, nil
		}
	}

	if e.Body != nil {
		ok, err := matchPlain(e.Body, req.Body)
		if err != nil || !ok {
			return false, wrapEntityErr("body", err)
		}
	}
	if e.Variables != nil {
		var vars any
		if req.Variables != nil {
			vars = req.Variables
		}
		ok, err := matchPlain(e.Variables, vars)
		if err != nil || !ok {
			return false, wrapEntityErr("variables", err)
		}
	}
	return true, nil
}

func wrapEntityErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

func matchMapped(descriptors map[string]mock.Descriptor, actual map[string]string, fold bool) (bool, error) {
	for _, key := range sortedKeys(descriptors) {
		d := descriptors[key]
		ok, err := Evaluate(d.CheckMode, d.Value, lookupMapped(actual, key, fold), mock.EntityMapped)
		if err != nil {
			return false, fmt.Errorf("%s: %w", key, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func lookupMapped(m map[string]string, key string, fold bool) Actual {
	if v, ok := m[key]; ok {
		return Present(v)
	}
	if fold {
		if v, ok := m[strings.ToLower(key)]; ok {
			return Present(v)
		}
		for k, v := range m {
			if strings.EqualFold(k, key) {
				return Present(v)
			}
		}
	}
	return Absent
}

func matchPlain(p *mock.PlainEntity, actual any) (bool, error) {
	if p.Whole != nil {
		a := Absent
		if actual != nil {
			a = Present(actual)
		}
		return Evaluate(p.Whole.CheckMode, p.Whole.Value, a, mock.EntityPlain)
	}

	for _, key := range sortedKeys(p.Fields) {
		d := p.Fields[key]
		a, err := Lookup(actual, key)
		if err != nil {
			return false, err
		}
		ok, err := Evaluate(d.CheckMode, d.Value, a, mock.EntityPlain)
		if err != nil {
			return false, fmt.Errorf("%s: %w", key, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func sortedKeys(m map[string]mock.Descriptor) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
