package engine

import (
	"bytes"
	"encoding/json"
	"maps"
	"net/http"
	"strings"

	"github.com/getmockd/mockconf/internal/matching"
	"github.com/getmockd/mockconf/pkg/mock"
)

// newMatchRequest builds the matching view of r. gql is nil for REST.
func newMatchRequest(r *http.Request, body []byte, gql *graphQLRequest) *matching.Request {
	req := &matching.Request{
		Kind:   mock.KindREST,
		Method: r.Method,
		Path:   r.URL.Path,
	}
	readMutable(req, r)

	if gql != nil {
		req.Kind = mock.KindGraphQL
		req.OperationType = gql.OperationType
		req.OperationName = gql.OperationName
		req.Variables = gql.Variables
		return req
	}
	req.Body = decodeBody(body)
	return req
}

// readMutable (re)reads the parts of r request interceptors may change.
func readMutable(req *matching.Request, r *http.Request) {
	req.Headers = firstValues(r.Header, true)
	req.Query = firstValues(r.URL.Query(), false)
	req.Cookies = cookieMap(r)
}

func firstValues(values map[string][]string, lower bool) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) == 0 {
			continue
		}
		if lower {
			k = strings.ToLower(k)
		}
		out[k] = v[0]
	}
	return out
}

func cookieMap(r *http.Request) map[string]string {
	cookies := r.Cookies()
	out := make(map[string]string, len(cookies))
	for _, c := range cookies {
		if _, ok := out[c.Name]; !ok {
			out[c.Name] = c.Value
		}
	}
	return out
}

// decodeBody returns the JSON value of body, its text when it is not JSON,
// or nil when it is empty.
func decodeBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err == nil {
		return v
	}
	return string(body)
}

// requestContext is the view handed to data functions.
func requestContext(req *matching.Request) *mock.RequestContext {
	rc := &mock.RequestContext{
		Method:    req.Method,
		Path:      req.Path,
		Params:    maps.Clone(req.Params),
		Query:     maps.Clone(req.Query),
		Headers:   maps.Clone(req.Headers),
		Cookies:   maps.Clone(req.Cookies),
		Body:      req.Body,
		Variables: req.Variables,
	}
	if rc.Params == nil {
		rc.Params = map[string]string{}
	}
	return rc
}
