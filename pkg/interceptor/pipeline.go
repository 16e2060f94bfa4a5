package interceptor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/getmockd/mockconf/pkg/logging"
)

// Observer is notified after every interceptor invocation. err is nil on
// success.
type Observer func(phase Phase, scope Scope, err error)

// Pipeline runs interceptor slots in order.
type Pipeline struct {
	log      *slog.Logger
	observer Observer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for interceptor failures.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithObserver registers a callback invoked after each interceptor runs.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// NewPipeline creates a Pipeline.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{log: logging.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunRequest invokes the request interceptor of every slot in order. The
// first failure stops the chain and is returned as *Error.
func (pl *Pipeline) RunRequest(ctx context.Context, slots []Slot, params *Params) error {
	for _, slot := range slots {
		if slot.Interceptors == nil || slot.Interceptors.Request == nil {
			continue
		}
		err := callRequest(ctx, slot.Interceptors.Request, params)
		pl.observe(PhaseRequest, slot.Scope, err)
		if err != nil {
			pl.log.Warn("request interceptor failed", "scope", slot.Scope, "error", err)
			return &Error{Phase: PhaseRequest, Scope: slot.Scope, Err: err}
		}
	}
	return nil
}

// RunResponse threads data through the response interceptor of every slot in
// order. On failure it returns the last successfully produced data together
// with an *Error.
func (pl *Pipeline) RunResponse(ctx context.Context, slots []Slot, data any, params *Params) (any, error) {
	for _, slot := range slots {
		if slot.Interceptors == nil || slot.Interceptors.Response == nil {
			continue
		}
		next, err := callResponse(ctx, slot.Interceptors.Response, data, params)
		pl.observe(PhaseResponse, slot.Scope, err)
		if err != nil {
			pl.log.Warn("response interceptor failed", "scope", slot.Scope, "error", err)
			return data, &Error{Phase: PhaseResponse, Scope: slot.Scope, Err: err}
		}
		data = next
	}
	return data, nil
}

func (pl *Pipeline) observe(phase Phase, scope Scope, err error) {
	if pl.observer != nil {
		pl.observer(phase, scope, err)
	}
}

// PanicError is returned when an interceptor panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func callRequest(ctx context.Context, fn RequestFunc, params *Params) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(ctx, params)
}

func callResponse(ctx context.Context, fn ResponseFunc, data any, params *Params) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(ctx, data, params)
}
