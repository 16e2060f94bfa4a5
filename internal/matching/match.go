package matching

import (
	"fmt"

	"github.com/getmockd/mockconf/pkg/mock"
)

// Result is a successful match.
type Result struct {
	API    *mock.API
	Config *mock.RequestConfig
	Route  *mock.RouteConfig

	// Params are the path params (REST) or name captures (GraphQL pattern)
	// of the matched config.
	Params map[string]string
}

// NoMatchError is returned when no route answers a request.
type NoMatchError struct {
	Kind     mock.Kind
	Identity string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no route matches %s", e.Identity)
}

// Match selects the route answering req. Request configs are tried in
// declaration order, and so are the routes within a config. The first
// config with any matching route wins.
//
// On success req.Params holds the extracted params. When nothing matches
// the error is a *NoMatchError. Other errors come from descriptors that
// failed to evaluate.
func Match(cfg *mock.Config, req *Request) (*Result, error) {
	api := cfg.Rest
	if req.Kind == mock.KindGraphQL {
		api = cfg.GraphQL
	}
	noMatch := &NoMatchError{Kind: req.Kind, Identity: req.Identity()}
	if api == nil {
		return nil, noMatch
	}

	var relPath string
	if req.Kind == mock.KindREST {
		p, ok := RelativePath(mock.JoinPath(cfg.BaseURL, api.BaseURL), req.Path)
		if !ok {
			return nil, noMatch
		}
		relPath = p
	}

	for _, rc := range api.Configs {
		params, ok := matchIdentity(rc, req, relPath)
		if !ok {
			continue
		}

		candidate := *req
		candidate.Params = params
		for _, route := range rc.Routes {
			ok, err := MatchEntities(route.Entities, &candidate)
			if err != nil {
				return nil, fmt.Errorf("%s route %s: %w", rc.Identity(), route.ID, err)
			}
			if ok {
				req.Params = params
				return &Result{API: api, Config: rc, Route: route, Params: params}, nil
			}
		}
	}
	return nil, noMatch
}

func matchIdentity(rc *mock.RequestConfig, req *Request, relPath string) (map[string]string, bool) {
	if rc.Kind == mock.KindGraphQL {
		if rc.OperationType != req.OperationType {
			return nil, false
		}
		if rc.OperationNamePattern != nil {
			return matchCaptures(rc.OperationNamePattern, req.OperationName)
		}
		return map[string]string{}, rc.OperationName == req.OperationName
	}

	method, ok := mock.ParseMethod(req.Method)
	if !ok || method != rc.Method {
		return nil, false
	}
	if rc.PathPattern != nil {
		return MatchPathPattern(rc.PathPattern, relPath)
	}
	return MatchPath(rc.Path, relPath)
}
