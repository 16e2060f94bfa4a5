// Package mock defines the strongly typed, pre-validated configuration the
// resolution engine consumes: REST and GraphQL request configs, their routes,
// entity descriptors and response settings.
//
// Values of these types are built by pkg/config from files, or directly by
// Go callers that need callbacks (DataFunc, Predicate, interceptors).
// Everything except queue cursors, which live in the engine, is immutable
// once the server starts.
package mock

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/getmockd/mockconf/pkg/interceptor"
)

// Kind identifies the API a request config belongs to.
type Kind string

const (
	KindREST    Kind = "rest"
	KindGraphQL Kind = "graphql"
)

// Method is a REST request method, lower-cased as in configuration files.
type Method string

const (
	MethodGet     Method = "get"
	MethodPost    Method = "post"
	MethodPut     Method = "put"
	MethodPatch   Method = "patch"
	MethodDelete  Method = "delete"
	MethodOptions Method = "options"
)

var validMethods = map[Method]bool{
	MethodGet:     true,
	MethodPost:    true,
	MethodPut:     true,
	MethodPatch:   true,
	MethodDelete:  true,
	MethodOptions: true,
}

// ParseMethod converts an HTTP method to a Method. The second result is false
// for methods that cannot be configured.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToLower(s))
	return m, validMethods[m]
}

// OperationType is a GraphQL operation type.
type OperationType string

const (
	OperationQuery    OperationType = "query"
	OperationMutation OperationType = "mutation"
)

// Config is the complete server configuration.
type Config struct {
	// BaseURL prefixes every REST path and the GraphQL endpoint.
	BaseURL string

	Rest    *API
	GraphQL *API

	// Interceptors run at server scope.
	Interceptors *interceptor.Interceptors
}

// API groups the request configs of one kind.
type API struct {
	// BaseURL prefixes the request configs of this API. For GraphQL it is the
	// endpoint path.
	BaseURL string

	Configs []*RequestConfig

	// Interceptors run at API-group scope.
	Interceptors *interceptor.Interceptors
}

// RequestConfig declares the routes served for one request identity.
type RequestConfig struct {
	Kind Kind

	// REST identity: Method plus exactly one of Path and PathPattern.
	Method      Method
	Path        string
	PathPattern *regexp.Regexp

	// GraphQL identity: OperationType plus exactly one of OperationName and
	// OperationNamePattern.
	OperationType        OperationType
	OperationName        string
	OperationNamePattern *regexp.Regexp

	// Routes are tried in declaration order; the first match wins.
	Routes []*RouteConfig

	// Interceptors run at request-config scope.
	Interceptors *interceptor.Interceptors
}

// Identity renders the request identity, e.g. "GET /users/:id" or
// "query GetUsers".
func (c *RequestConfig) Identity() string {
	if c.Kind == KindGraphQL {
		name := c.OperationName
		if c.OperationNamePattern != nil {
			name = c.OperationNamePattern.String()
		}
		return fmt.Sprintf("%s %s", c.OperationType, name)
	}
	path := c.Path
	if c.PathPattern != nil {
		path = c.PathPattern.String()
	}
	return fmt.Sprintf("%s %s", strings.ToUpper(string(c.Method)), path)
}

// RouteConfig is one candidate response of a request config.
//
// At most one of Data, DataFunc, Queue and File is set. A route with none of
// them responds with null.
type RouteConfig struct {
	// ID identifies the route across requests. Queue state is keyed by it.
	// Config.AssignRouteIDs fills empty IDs.
	ID string

	Data     any
	DataFunc DataFunc
	Queue    []QueueItem
	File     string

	// Entities constrain which requests the route matches. Nil matches any
	// request with the config's identity.
	Entities *Entities

	Settings Settings

	// Interceptors run at route scope.
	Interceptors *interceptor.Interceptors
}

// DataMode names how a route resolves its response.
type DataMode string

const (
	ModeData  DataMode = "data"
	ModeQueue DataMode = "queue"
	ModeFile  DataMode = "file"
)

// Mode returns how the route resolves its response.
func (r *RouteConfig) Mode() DataMode {
	switch {
	case r.Queue != nil:
		return ModeQueue
	case r.File != "":
		return ModeFile
	default:
		return ModeData
	}
}

// QueueItem is one step of a queued route.
type QueueItem struct {
	Data any
	File string

	// Delay overrides the route's settings delay for this step.
	Delay *time.Duration
}

// Settings tune a route's response.
type Settings struct {
	// Status is the response status. 0 means 200.
	Status int

	// Delay is applied before the response phase.
	Delay time.Duration

	// Polling enables queue mode. It is only valid together with Queue.
	Polling bool
}

// RequestContext is the view of the matched request given to DataFunc.
type RequestContext struct {
	Method    string
	Path      string
	Params    map[string]string
	Query     map[string]string
	Headers   map[string]string
	Cookies   map[string]string
	Body      any
	Variables map[string]any
}

// DataFunc derives response data from the request.
type DataFunc func(ctx context.Context, rc *RequestContext) (any, error)

// Entities holds a route's request constraints.
type Entities struct {
	Headers map[string]Descriptor
	Cookies map[string]Descriptor
	Query   map[string]Descriptor
	Params  map[string]Descriptor

	Body      *PlainEntity
	Variables *PlainEntity
}

// IsEmpty reports whether e constrains nothing.
func (e *Entities) IsEmpty() bool {
	return e == nil || (len(e.Headers) == 0 && len(e.Cookies) == 0 && len(e.Query) == 0 &&
		len(e.Params) == 0 && e.Body == nil && e.Variables == nil)
}

// PlainEntity constrains a JSON value (body or variables), either as a whole
// or through descriptors keyed by dot path ("user.name").
type PlainEntity struct {
	Whole  *Descriptor
	Fields map[string]Descriptor
}
