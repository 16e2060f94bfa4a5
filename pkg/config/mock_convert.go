package config

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/getmockd/mockconf/internal/matching"
	"github.com/getmockd/mockconf/pkg/expression"
	"github.com/getmockd/mockconf/pkg/interceptor"
	"github.com/getmockd/mockconf/pkg/mock"
)

// ToMockConfig converts the file model into a mock.Config. Patterns and
// expressions are compiled and descriptors canonicalized; the result still
// has to pass mock.Config.Validate.
func (f *File) ToMockConfig() (*mock.Config, error) {
	cfg := &mock.Config{BaseURL: f.BaseURL}

	var err error
	if cfg.Interceptors, err = convertInterceptors("interceptors", f.Interceptors); err != nil {
		return nil, err
	}
	if f.Rest != nil {
		if cfg.Rest, err = convertAPI("rest", mock.KindREST, f.Rest); err != nil {
			return nil, err
		}
	}
	if f.GraphQL != nil {
		if cfg.GraphQL, err = convertAPI("graphql", mock.KindGraphQL, f.GraphQL); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func convertError(path string, err error) error {
	return &mock.ConfigurationError{Path: path, Err: err}
}

func convertInterceptors(path string, f *InterceptorsFile) (*interceptor.Interceptors, error) {
	if f == nil || (f.Request == "" && f.Response == "") {
		return nil, nil
	}
	ic, err := interceptor.FromExpressions(f.Request, f.Response)
	if err != nil {
		return nil, convertError(path, err)
	}
	return ic, nil
}

func convertAPI(path string, kind mock.Kind, f *APIFile) (*mock.API, error) {
	api := &mock.API{BaseURL: f.BaseURL}

	var err error
	if api.Interceptors, err = convertInterceptors(path+".interceptors", f.Interceptors); err != nil {
		return nil, err
	}
	for i := range f.Configs {
		rc, err := convertRequestConfig(fmt.Sprintf("%s.configs[%d]", path, i), kind, &f.Configs[i])
		if err != nil {
			return nil, err
		}
		api.Configs = append(api.Configs, rc)
	}
	return api, nil
}

func convertRequestConfig(path string, kind mock.Kind, f *RequestConfigFile) (*mock.RequestConfig, error) {
	rc := &mock.RequestConfig{Kind: kind}

	switch kind {
	case mock.KindREST:
		rc.Method = mock.Method(strings.ToLower(f.Method))
		rc.Path = f.Path
		if f.PathPattern != "" {
			re, err := regexp.Compile(f.PathPattern)
			if err != nil {
				return nil, convertError(path+".pathPattern", err)
			}
			rc.PathPattern = re
		}
	case mock.KindGraphQL:
		rc.OperationType = mock.OperationType(f.OperationType)
		rc.OperationName = f.OperationName
		if f.OperationNamePattern != "" {
			re, err := regexp.Compile(f.OperationNamePattern)
			if err != nil {
				return nil, convertError(path+".operationNamePattern", err)
			}
			rc.OperationNamePattern = re
		}
	}

	var err error
	if rc.Interceptors, err = convertInterceptors(path+".interceptors", f.Interceptors); err != nil {
		return nil, err
	}
	for i := range f.Routes {
		route, err := convertRoute(fmt.Sprintf("%s.routes[%d]", path, i), &f.Routes[i])
		if err != nil {
			return nil, err
		}
		rc.Routes = append(rc.Routes, route)
	}
	return rc, nil
}

func convertRoute(path string, f *RouteFile) (*mock.RouteConfig, error) {
	route := &mock.RouteConfig{
		Data: f.Data,
		File: f.File,
	}

	if f.DataExpr != "" {
		if f.Data != nil {
			return nil, convertError(path, fmt.Errorf("data and dataExpr are mutually exclusive"))
		}
		fn, err := dataFunc(f.DataExpr)
		if err != nil {
			return nil, convertError(path+".dataExpr", err)
		}
		route.DataFunc = fn
	}

	if f.Queue != nil {
		route.Queue = make([]mock.QueueItem, 0, len(f.Queue))
		for _, item := range f.Queue {
			qi := mock.QueueItem{Data: item.Data, File: item.File}
			if item.Time != nil {
				d := time.Duration(*item.Time) * time.Millisecond
				qi.Delay = &d
			}
			route.Queue = append(route.Queue, qi)
		}
	}

	if s := f.Settings; s != nil {
		route.Settings = mock.Settings{
			Status:  s.Status,
			Delay:   time.Duration(s.Delay) * time.Millisecond,
			Polling: s.Polling,
		}
	}

	if f.Entities != nil {
		entities, err := convertEntities(path+".entities", f.Entities)
		if err != nil {
			return nil, err
		}
		route.Entities = entities
	}

	var err error
	if route.Interceptors, err = convertInterceptors(path+".interceptors", f.Interceptors); err != nil {
		return nil, err
	}
	return route, nil
}

// dataFunc compiles a data expression. The expression sees the request as
// method, path, params, query, headers, cookies, body and variables, plus
// the fake() helper.
func dataFunc(source string) (mock.DataFunc, error) {
	prog, err := expression.Compile(source)
	if err != nil {
		return nil, err
	}
	return func(_ context.Context, rc *mock.RequestContext) (any, error) {
		return prog.Run(expression.Env(map[string]any{
			"method":    rc.Method,
			"path":      rc.Path,
			"params":    rc.Params,
			"query":     rc.Query,
			"headers":   rc.Headers,
			"cookies":   rc.Cookies,
			"body":      rc.Body,
			"variables": rc.Variables,
		}))
	}, nil
}

func convertEntities(path string, f *EntitiesFile) (*mock.Entities, error) {
	e := &mock.Entities{}

	mapped := []struct {
		name string
		raw  map[string]any
		dst  *map[string]mock.Descriptor
	}{
		{"headers", f.Headers, &e.Headers},
		{"cookies", f.Cookies, &e.Cookies},
		{"query", f.Query, &e.Query},
		{"params", f.Params, &e.Params},
	}
	for _, m := range mapped {
		if m.raw == nil {
			continue
		}
		out := make(map[string]mock.Descriptor, len(m.raw))
		for key, raw := range m.raw {
			d, err := mock.CanonicalMapped(raw)
			if err != nil {
				return nil, convertError(path+"."+m.name+"."+key, err)
			}
			out[key] = d
		}
		*m.dst = out
	}

	var err error
	if e.Body, err = convertPlain(path+".body", f.Body); err != nil {
		return nil, err
	}
	if e.Variables, err = convertPlain(path+".variables", f.Variables); err != nil {
		return nil, err
	}
	return e, nil
}

func convertPlain(path string, raw json.RawMessage) (*mock.PlainEntity, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, convertError(path, err)
	}
	p, err := mock.CanonicalPlain(v)
	if err != nil {
		return nil, convertError(path, err)
	}
	keys := make([]string, 0, len(p.Fields))
	for key := range p.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := matching.ValidateFieldPath(key); err != nil {
			return nil, convertError(path+"."+key, err)
		}
	}
	return p, nil
}
