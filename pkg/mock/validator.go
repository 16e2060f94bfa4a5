package mock

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate checks the whole configuration. The first problem found is
// returned as *ConfigurationError.
func (c *Config) Validate() error {
	if c == nil {
		return &ConfigurationError{Err: errors.New("configuration is nil")}
	}
	if c.Rest == nil && c.GraphQL == nil {
		return &ConfigurationError{Err: errors.New("at least one of rest or graphql is required")}
	}
	if c.Rest != nil {
		if err := c.Rest.validate("rest", KindREST); err != nil {
			return err
		}
	}
	if c.GraphQL != nil {
		if err := c.GraphQL.validate("graphql", KindGraphQL); err != nil {
			return err
		}
	}
	return nil
}

func (a *API) validate(path string, kind Kind) error {
	if a.BaseURL != "" && !strings.HasPrefix(a.BaseURL, "/") {
		return configErr(path+".baseUrl", "must start with /")
	}
	for i, rc := range a.Configs {
		p := fmt.Sprintf("%s.configs[%d]", path, i)
		if rc == nil {
			return configErr(p, "request config is nil")
		}
		if rc.Kind == "" {
			rc.Kind = kind
		}
		if rc.Kind != kind {
			return configErr(p, "%s config declared under %s", rc.Kind, kind)
		}
		if err := rc.Validate(p); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the request config; path prefixes error locations.
func (c *RequestConfig) Validate(path string) error {
	switch c.Kind {
	case KindREST:
		if !validMethods[c.Method] {
			return configErr(path+".method", "unsupported method %q", c.Method)
		}
		if (c.Path == "") == (c.PathPattern == nil) {
			return configErr(path, "exactly one of path and pathPattern is required")
		}
		if c.Path != "" && !strings.HasPrefix(c.Path, "/") {
			return configErr(path+".path", "must start with /")
		}
	case KindGraphQL:
		if c.OperationType != OperationQuery && c.OperationType != OperationMutation {
			return configErr(path+".operationType", "unsupported operation type %q", c.OperationType)
		}
		if (c.OperationName == "") == (c.OperationNamePattern == nil) {
			return configErr(path, "exactly one of operationName and operationNamePattern is required")
		}
	default:
		return configErr(path, "unknown kind %q", c.Kind)
	}

	if len(c.Routes) == 0 {
		return configErr(path+".routes", "at least one route is required")
	}
	for i, r := range c.Routes {
		p := fmt.Sprintf("%s.routes[%d]", path, i)
		if r == nil {
			return configErr(p, "route is nil")
		}
		if err := r.validate(p, c.Kind); err != nil {
			return err
		}
	}
	return nil
}

func (r *RouteConfig) validate(path string, kind Kind) error {
	modes := 0
	if r.Data != nil {
		modes++
	}
	if r.DataFunc != nil {
		modes++
	}
	if r.Queue != nil {
		modes++
	}
	if r.File != "" {
		modes++
	}
	if modes > 1 {
		return configErr(path, "data, queue and file are mutually exclusive")
	}

	s := r.Settings
	if s.Status != 0 && (s.Status < 200 || s.Status > 599) {
		return configErr(path+".settings.status", "must be between 200 and 599, got %d", s.Status)
	}
	if s.Delay < 0 {
		return configErr(path+".settings.delay", "must not be negative")
	}
	if s.Polling && r.Queue == nil {
		return configErr(path+".settings.polling", "polling requires queue")
	}
	if r.Queue != nil {
		if !s.Polling {
			return configErr(path+".queue", "queue requires settings.polling")
		}
		if len(r.Queue) == 0 {
			return configErr(path+".queue", "queue must not be empty")
		}
		for i, item := range r.Queue {
			p := fmt.Sprintf("%s.queue[%d]", path, i)
			if item.Data != nil && item.File != "" {
				return configErr(p, "data and file are mutually exclusive")
			}
			if item.Delay != nil && *item.Delay < 0 {
				return configErr(p+".time", "must not be negative")
			}
		}
	}

	if r.Entities != nil {
		if err := r.Entities.validate(path+".entities", kind); err != nil {
			return err
		}
	}
	return nil
}

func (e *Entities) validate(path string, kind Kind) error {
	if kind == KindREST && e.Variables != nil {
		return configErr(path+".variables", "variables are only available for graphql")
	}
	if kind == KindGraphQL {
		if e.Body != nil {
			return configErr(path+".body", "body is only available for rest")
		}
		if len(e.Params) > 0 {
			return configErr(path+".params", "params are only available for rest")
		}
	}

	mapped := []struct {
		name        string
		descriptors map[string]Descriptor
	}{
		{"headers", e.Headers},
		{"cookies", e.Cookies},
		{"query", e.Query},
		{"params", e.Params},
	}
	for _, m := range mapped {
		for _, key := range sortedKeys(m.descriptors) {
			if err := ValidateDescriptor(m.descriptors[key], EntityMapped, false); err != nil {
				return &ConfigurationError{Path: path + "." + m.name + "." + key, Err: err}
			}
		}
	}

	plain := []struct {
		name   string
		entity *PlainEntity
	}{
		{"body", e.Body},
		{"variables", e.Variables},
	}
	for _, p := range plain {
		if p.entity == nil {
			continue
		}
		if err := p.entity.validate(path + "." + p.name); err != nil {
			return err
		}
	}
	return nil
}

func (p *PlainEntity) validate(path string) error {
	if (p.Whole == nil) == (p.Fields == nil) {
		return configErr(path, "exactly one of a whole-value descriptor and field descriptors is required")
	}
	if p.Whole != nil {
		if err := ValidateDescriptor(*p.Whole, EntityPlain, true); err != nil {
			return &ConfigurationError{Path: path, Err: err}
		}
		return nil
	}
	for _, key := range sortedKeys(p.Fields) {
		if err := ValidateDescriptor(p.Fields[key], EntityPlain, false); err != nil {
			return &ConfigurationError{Path: path + "." + key, Err: err}
		}
	}
	return nil
}

func sortedKeys(m map[string]Descriptor) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AssignRouteIDs gives every route without an ID a stable one of the form
// "<kind>/<config index>/<route index>".
func (c *Config) AssignRouteIDs() {
	for _, api := range []struct {
		kind Kind
		api  *API
	}{{KindREST, c.Rest}, {KindGraphQL, c.GraphQL}} {
		if api.api == nil {
			continue
		}
		for i, rc := range api.api.Configs {
			if rc == nil {
				continue
			}
			if rc.Kind == "" {
				rc.Kind = api.kind
			}
			for j, r := range rc.Routes {
				if r != nil && r.ID == "" {
					r.ID = fmt.Sprintf("%s/%d/%d", api.kind, i, j)
				}
			}
		}
	}
}

// JoinPath joins URL path prefixes, normalizing slashes. The result starts
// with "/" and has no trailing slash unless it is the root.
func JoinPath(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		b.WriteString("/")
		b.WriteString(p)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
