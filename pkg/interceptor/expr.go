package interceptor

import (
	"context"
	"fmt"

	"github.com/getmockd/mockconf/pkg/expression"
)

// FromExpressions builds Interceptors from expr-lang sources, the form used
// by configuration files. Either source may be empty.
//
// Both programs see the Params operations as functions (getHeader,
// getHeaders, getCookie, setHeader, setCookie, clearCookie, setStatusCode,
// setDelay) and a read-only "request" value. The response program also sees
// "data" and its result replaces the response data.
func FromExpressions(request, response string) (*Interceptors, error) {
	out := &Interceptors{}
	if request != "" {
		prog, err := expression.Compile(request)
		if err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
		out.Request = func(_ context.Context, p *Params) error {
			_, err := prog.Run(paramsEnv(p, nil))
			return err
		}
	}
	if response != "" {
		prog, err := expression.Compile(response)
		if err != nil {
			return nil, fmt.Errorf("response interceptor: %w", err)
		}
		out.Response = func(_ context.Context, data any, p *Params) (any, error) {
			return prog.Run(paramsEnv(p, map[string]any{"data": data}))
		}
	}
	return out, nil
}

func paramsEnv(p *Params, extra map[string]any) map[string]any {
	r := p.Request()
	query := make(map[string]any)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	vars := map[string]any{
		"request": map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
			"query":  query,
		},
		"getHeader":  p.Header,
		"getHeaders": p.Headers,
		"getCookie":  p.Cookie,
		"setHeader": func(name, value string) bool {
			p.SetHeader(name, value)
			return true
		},
		"setCookie": func(name, value string) bool {
			p.SetCookie(name, value, nil)
			return true
		},
		"clearCookie": func(name string) bool {
			p.ClearCookie(name)
			return true
		},
		"setStatusCode": func(code int) bool {
			p.SetStatusCode(code)
			return true
		},
		"setDelay": func(ms int) (bool, error) {
			if err := p.SetDelay(ms); err != nil {
				return false, err
			}
			return true, nil
		},
	}
	for k, v := range extra {
		vars[k] = v
	}
	return expression.Env(vars)
}
