package interceptor

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

// ErrNegativeDelay is returned by SetDelay for negative durations.
var ErrNegativeDelay = errors.New("delay must not be negative")

// CookieOptions are the optional attributes of SetCookie.
type CookieOptions struct {
	Path     string
	Domain   string
	MaxAge   int
	Expires  time.Time
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
}

// Params is the read/write view interceptors get over the in-flight request
// and the outgoing response.
//
// A Params belongs to a single request and is not safe for concurrent use.
type Params struct {
	ctx     context.Context
	request *http.Request

	header     http.Header
	cookies    []*http.Cookie
	statusCode int
	statusSet  bool
	delay      time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewParams creates Params for r. The request's context bounds SetDelay.
func NewParams(r *http.Request) *Params {
	return &Params{
		ctx:     r.Context(),
		request: r,
		header:  make(http.Header),
		sleep:   Sleep,
	}
}

// Request returns the in-flight request. Request interceptors may mutate its
// headers, cookies and query before the response is resolved.
func (p *Params) Request() *http.Request {
	return p.request
}

// Header returns the first value of the named request header.
func (p *Params) Header(name string) string {
	return p.request.Header.Get(name)
}

// Headers returns the request headers keyed by lower-cased name.
func (p *Params) Headers() map[string]string {
	out := make(map[string]string, len(p.request.Header))
	for name, values := range p.request.Header {
		if len(values) > 0 {
			out[strings.ToLower(name)] = values[0]
		}
	}
	return out
}

// Cookie returns the value of the named request cookie, or "".
func (p *Params) Cookie(name string) string {
	c, err := p.request.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetHeader sets a response header.
func (p *Params) SetHeader(name, value string) {
	p.header.Set(name, value)
}

// SetCookie sets a response cookie. A later call for the same name replaces
// the earlier one.
func (p *Params) SetCookie(name, value string, opts *CookieOptions) {
	c := &http.Cookie{Name: name, Value: value, Path: "/"}
	if opts != nil {
		if opts.Path != "" {
			c.Path = opts.Path
		}
		c.Domain = opts.Domain
		c.MaxAge = opts.MaxAge
		c.Expires = opts.Expires
		c.HttpOnly = opts.HTTPOnly
		c.Secure = opts.Secure
		c.SameSite = opts.SameSite
	}
	p.putCookie(c)
}

// ClearCookie expires the named cookie on the client.
func (p *Params) ClearCookie(name string) {
	p.putCookie(&http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, Expires: time.Unix(0, 0)})
}

func (p *Params) putCookie(c *http.Cookie) {
	for i, existing := range p.cookies {
		if existing.Name == c.Name {
			p.cookies[i] = c
			return
		}
	}
	p.cookies = append(p.cookies, c)
}

// SetStatusCode sets the response status code.
func (p *Params) SetStatusCode(code int) {
	p.statusCode = code
	p.statusSet = true
}

// StatusCode returns the status set by an interceptor and whether one was set.
func (p *Params) StatusCode() (int, bool) {
	return p.statusCode, p.statusSet
}

// SetDelay suspends the calling interceptor for ms milliseconds. The wait
// ends early, with the context error, when the request is abandoned.
func (p *Params) SetDelay(ms int) error {
	if ms < 0 {
		return ErrNegativeDelay
	}
	d := time.Duration(ms) * time.Millisecond
	p.delay += d
	return p.sleep(p.ctx, d)
}

// Delay returns the total delay applied through SetDelay.
func (p *Params) Delay() time.Duration {
	return p.delay
}

// ResponseHeader returns the headers interceptors set for the response.
func (p *Params) ResponseHeader() http.Header {
	return p.header
}

// ResponseCookies returns the cookies interceptors set for the response.
func (p *Params) ResponseCookies() []*http.Cookie {
	return p.cookies
}

// Apply copies the headers and cookies collected so far onto w.
func (p *Params) Apply(w http.ResponseWriter) {
	for name, values := range p.header {
		for i, v := range values {
			if i == 0 {
				w.Header().Set(name, v)
				continue
			}
			w.Header().Add(name, v)
		}
	}
	for _, c := range p.cookies {
		http.SetCookie(w, c)
	}
}

// Sleep waits for d or until ctx is done, whichever comes first. Only the
// calling goroutine is suspended.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
