package interceptor

import (
	"context"
	"fmt"
)

// Scope identifies where an interceptor was declared.
type Scope string

// Interceptor scopes, in pipeline order.
const (
	ScopeRoute   Scope = "route"
	ScopeRequest Scope = "request"
	ScopeAPI     Scope = "api"
	ScopeServer  Scope = "server"
)

// Phase identifies the pipeline phase.
type Phase string

// Pipeline phases.
const (
	PhaseRequest  Phase = "request"
	PhaseResponse Phase = "response"
)

// RequestFunc runs before the response is resolved. It may inspect and
// mutate the in-flight request through p.
type RequestFunc func(ctx context.Context, p *Params) error

// ResponseFunc runs before the response is written. It receives the data
// produced so far and returns the data handed to the next slot.
type ResponseFunc func(ctx context.Context, data any, p *Params) (any, error)

// Interceptors is the pair of optional interceptors declared at one scope.
type Interceptors struct {
	Request  RequestFunc
	Response ResponseFunc
}

// IsEmpty reports whether neither interceptor is set.
func (i *Interceptors) IsEmpty() bool {
	return i == nil || (i.Request == nil && i.Response == nil)
}

// Slot is one position in the pipeline.
type Slot struct {
	Scope        Scope
	Interceptors *Interceptors
}

// Error reports an interceptor failure.
type Error struct {
	Phase Phase
	Scope Scope
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s interceptor: %v", e.Scope, e.Phase, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
