// Core HTTP request handler for the mock engine.

package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getmockd/mockconf/internal/id"
	"github.com/getmockd/mockconf/internal/matching"
	"github.com/getmockd/mockconf/pkg/httputil"
	"github.com/getmockd/mockconf/pkg/interceptor"
	"github.com/getmockd/mockconf/pkg/logging"
	"github.com/getmockd/mockconf/pkg/metrics"
	"github.com/getmockd/mockconf/pkg/mock"
)

// Service endpoints. They take priority over configured routes.
const (
	HealthPath  = "/__mockconf/health"
	MetricsPath = "/__mockconf/metrics"
)

// DefaultMaxBodySize is the default request body limit (10MB).
const DefaultMaxBodySize = 10 << 20

// statusClientClosedRequest is recorded for requests abandoned by the
// client before a response was written.
const statusClientClosedRequest = 499

// NotFoundBody is the payload of requests that match no route.
type NotFoundBody struct {
	RequestMethodOrOperation string   `json:"requestMethodOrOperation"`
	DecodedURL               string   `json:"decodedUrl"`
	RESTSuggestions          []string `json:"restSuggestions"`
	GraphQLSuggestions       []string `json:"graphqlSuggestions"`
}

// Handler serves a mock.Config.
type Handler struct {
	cfg         *mock.Config
	resolver    *Resolver
	pipeline    *interceptor.Pipeline
	queues      *QueueStates
	metrics     *metrics.Metrics
	log         *slog.Logger
	baseDir     string
	maxBodySize int64
	startTime   time.Time
}

// Option configures a Handler or a Server.
type Option func(*Handler)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithMetrics enables Prometheus metrics, served at MetricsPath.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithBaseDir sets the directory relative file paths are resolved against.
func WithBaseDir(dir string) Option {
	return func(h *Handler) {
		h.baseDir = dir
	}
}

// WithQueueStates shares queue cursors, e.g. across a configuration reload.
func WithQueueStates(q *QueueStates) Option {
	return func(h *Handler) {
		h.queues = q
	}
}

// WithMaxBodySize limits request bodies. Non-positive values keep the
// default.
func WithMaxBodySize(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodySize = n
		}
	}
}

// NewHandler creates a Handler for cfg. cfg must have passed Validate; it
// must not be modified afterwards.
func NewHandler(cfg *mock.Config, opts ...Option) *Handler {
	h := &Handler{
		cfg:         cfg,
		log:         logging.Nop(),
		maxBodySize: DefaultMaxBodySize,
		startTime:   time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}

	cfg.AssignRouteIDs()

	h.resolver = NewResolver(h.queues, h.baseDir)
	h.resolver.metrics = h.metrics
	h.resolver.log = h.log
	h.queues = h.resolver.Queues()

	h.pipeline = interceptor.NewPipeline(
		interceptor.WithLogger(h.log),
		interceptor.WithObserver(func(phase interceptor.Phase, scope interceptor.Scope, err error) {
			if err != nil {
				h.metrics.InterceptorError(string(phase), string(scope))
			}
		}),
	)

	h.metrics.SetConfiguredRoutes(string(mock.KindREST), countRoutes(cfg.Rest))
	h.metrics.SetConfiguredRoutes(string(mock.KindGraphQL), countRoutes(cfg.GraphQL))
	return h
}

func countRoutes(api *mock.API) int {
	if api == nil {
		return 0
	}
	n := 0
	for _, rc := range api.Configs {
		n += len(rc.Routes)
	}
	return n
}

// Queues returns the queue cursors of the handler.
func (h *Handler) Queues() *QueueStates {
	return h.queues
}

// GraphQLEndpoint returns the path GraphQL requests are served at, or ""
// when no GraphQL API is configured.
func (h *Handler) GraphQLEndpoint() string {
	if h.cfg.GraphQL == nil {
		return ""
	}
	return mock.JoinPath(h.cfg.BaseURL, h.cfg.GraphQL.BaseURL)
}

// ServeHTTP implements the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	switch r.URL.Path {
	case HealthPath:
		h.handleHealth(w, r)
		return
	case MetricsPath:
		h.metrics.Handler().ServeHTTP(w, r)
		return
	}

	reqID := id.RequestID(r.Header.Get(id.RequestIDHeader))
	w.Header().Set(id.RequestIDHeader, reqID)
	log := h.log.With("request_id", reqID)

	// MaxBytesReader returns an error when the limit is exceeded, unlike
	// LimitReader which silently truncates.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		status := http.StatusBadRequest
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			log.Warn("request body too large", "path", r.URL.Path, "limit", h.maxBodySize)
		}
		httputil.WriteError(w, status, err.Error(), "")
		h.metrics.ObserveRequest("none", r.Method, status, time.Since(startTime))
		return
	}

	var gql *graphQLRequest
	if endpoint := h.GraphQLEndpoint(); endpoint != "" && trimSlash(r.URL.Path) == trimSlash(endpoint) {
		gql, err = parseGraphQLRequest(r, body)
		if err != nil && !errors.Is(err, errNotGraphQL) {
			log.Debug("invalid graphql request", "error", err)
			httputil.WriteError(w, http.StatusBadRequest, err.Error(), "")
			h.metrics.ObserveRequest(string(mock.KindGraphQL), r.Method, http.StatusBadRequest, time.Since(startTime))
			return
		}
	}

	req := newMatchRequest(r, body, gql)
	status := h.serve(r.Context(), w, r, req, log)

	duration := time.Since(startTime)
	h.metrics.ObserveRequest(string(req.Kind), r.Method, status, duration)
	log.Debug("request served",
		"method", r.Method,
		"path", r.URL.Path,
		"identity", req.Identity(),
		"status", status,
		"duration", duration,
	)
}

func trimSlash(p string) string {
	if p == "/" {
		return p
	}
	return strings.TrimSuffix(p, "/")
}

// serve runs matching, the interceptor pipeline and resolution for one
// request and returns the status written.
func (h *Handler) serve(ctx context.Context, w http.ResponseWriter, r *http.Request, req *matching.Request, log *slog.Logger) int {
	params := interceptor.NewParams(r)

	result, err := matching.Match(h.cfg, req)
	if err != nil {
		var noMatch *matching.NoMatchError
		if errors.As(err, &noMatch) {
			return h.serveNoMatch(ctx, w, r, req, params)
		}
		log.Error("matching failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, err.Error(), "")
		return http.StatusInternalServerError
	}

	slots := []interceptor.Slot{
		{Scope: interceptor.ScopeRoute, Interceptors: result.Route.Interceptors},
		{Scope: interceptor.ScopeRequest, Interceptors: result.Config.Interceptors},
		{Scope: interceptor.ScopeAPI, Interceptors: result.API.Interceptors},
		{Scope: interceptor.ScopeServer, Interceptors: h.cfg.Interceptors},
	}

	if err := h.pipeline.RunRequest(ctx, slots, params); err != nil {
		return h.writeFailure(w, params, http.StatusInternalServerError, err)
	}
	readMutable(req, params.Request())

	res, err := h.resolver.Resolve(ctx, result.Route, requestContext(req))
	if err != nil {
		status := http.StatusInternalServerError
		var resErr *ResolutionError
		if errors.As(err, &resErr) {
			status = resErr.Status
		}
		h.metrics.ResolutionError(status)
		log.Warn("resolution failed", "route", result.Route.ID, "error", err)
		return h.writeFailure(w, params, status, err)
	}
	if res.QueueIndex >= 0 {
		log.Debug("queue step served", "route", result.Route.ID, "index", res.QueueIndex)
	}

	if err := interceptor.Sleep(ctx, res.Delay); err != nil {
		log.Debug("request abandoned during delay", "route", result.Route.ID, "error", err)
		return statusClientClosedRequest
	}

	status := res.StatusCode
	data, err := h.pipeline.RunResponse(ctx, slots, res.Body, params)
	if err != nil {
		status = http.StatusInternalServerError
	}
	if code, ok := params.StatusCode(); ok {
		status = code
	}

	params.Apply(w)
	if raw, ok := data.([]byte); ok {
		httputil.WriteRaw(w, status, res.ContentType, raw)
	} else {
		httputil.WriteJSON(w, status, data)
	}
	return status
}

// serveNoMatch answers a request no route matched. The API and server
// request interceptors still run.
func (h *Handler) serveNoMatch(ctx context.Context, w http.ResponseWriter, r *http.Request, req *matching.Request, params *interceptor.Params) int {
	h.metrics.NoMatch(string(req.Kind))

	api := h.cfg.Rest
	if req.Kind == mock.KindGraphQL {
		api = h.cfg.GraphQL
	}
	var apiInterceptors *interceptor.Interceptors
	if api != nil {
		apiInterceptors = api.Interceptors
	}
	slots := []interceptor.Slot{
		{Scope: interceptor.ScopeAPI, Interceptors: apiInterceptors},
		{Scope: interceptor.ScopeServer, Interceptors: h.cfg.Interceptors},
	}
	if err := h.pipeline.RunRequest(ctx, slots, params); err != nil {
		return h.writeFailure(w, params, http.StatusInternalServerError, err)
	}

	suggestions := matching.Suggest(h.cfg, req)
	body := NotFoundBody{
		RequestMethodOrOperation: r.Method,
		DecodedURL:               decodedURL(r.URL),
		RESTSuggestions:          suggestions.REST,
		GraphQLSuggestions:       suggestions.GraphQL,
	}
	if req.Kind == mock.KindGraphQL {
		body.RequestMethodOrOperation = req.Identity()
	}

	status := http.StatusNotFound
	if code, ok := params.StatusCode(); ok {
		status = code
	}
	params.Apply(w)
	httputil.WriteJSON(w, status, body)
	return status
}

// writeFailure writes err as an error body. Headers and cookies set by
// interceptors before the failure are kept.
func (h *Handler) writeFailure(w http.ResponseWriter, params *interceptor.Params, status int, err error) int {
	var stack string
	var panicErr *interceptor.PanicError
	var resErr *ResolutionError
	switch {
	case errors.As(err, &panicErr):
		stack = string(panicErr.Stack)
	case errors.As(err, &resErr):
		stack = resErr.Stack
	}

	params.Apply(w)
	httputil.WriteError(w, status, err.Error(), stack)
	return status
}

// decodedURL renders the request target decoded. The path keeps a literal
// "+"; only the query decodes it as a space.
func decodedURL(u *url.URL) string {
	s := u.Path
	if u.RawQuery == "" {
		return s
	}
	query, err := url.QueryUnescape(u.RawQuery)
	if err != nil {
		query = u.RawQuery
	}
	return s + "?" + query
}
