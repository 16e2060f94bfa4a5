package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/getmockd/mockconf/pkg/httputil"
	"github.com/getmockd/mockconf/pkg/logging"
	"github.com/getmockd/mockconf/pkg/metrics"
	"github.com/getmockd/mockconf/pkg/mock"
)

// Resolution is what a route resolved to.
type Resolution struct {
	// Body is the response data. For files it is the raw content as []byte.
	Body any
	// ContentType is set for files.
	ContentType string

	StatusCode int
	Delay      time.Duration

	// QueueIndex is the queue element served, -1 outside queue mode.
	QueueIndex int
}

// ResolutionError reports a route that failed to produce a response.
type ResolutionError struct {
	Status int
	Err    error
	Stack  string
}

func (e *ResolutionError) Error() string {
	return e.Err.Error()
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Resolver turns a matched route into a Resolution.
type Resolver struct {
	queues  *QueueStates
	baseDir string
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewResolver creates a Resolver reading files relative to baseDir (the
// working directory when empty).
func NewResolver(queues *QueueStates, baseDir string) *Resolver {
	if queues == nil {
		queues = NewQueueStates()
	}
	return &Resolver{queues: queues, baseDir: baseDir, log: logging.Nop()}
}

// Queues returns the queue cursors the resolver advances.
func (r *Resolver) Queues() *QueueStates {
	return r.queues
}

// Resolve produces the response of route for the request rc.
//
// Queue routes advance their cursor on every call, even when the element
// fails to resolve.
func (r *Resolver) Resolve(ctx context.Context, route *mock.RouteConfig, rc *mock.RequestContext) (*Resolution, error) {
	res := &Resolution{
		StatusCode: http.StatusOK,
		Delay:      route.Settings.Delay,
		QueueIndex: -1,
	}
	if route.Settings.Status != 0 {
		res.StatusCode = route.Settings.Status
	}

	switch route.Mode() {
	case mock.ModeQueue:
		if !route.Settings.Polling {
			return nil, &ResolutionError{Status: http.StatusInternalServerError, Err: fmt.Errorf("route %s: queue requires polling", route.ID)}
		}
		if len(route.Queue) == 0 {
			return nil, &ResolutionError{Status: http.StatusInternalServerError, Err: fmt.Errorf("route %s: queue is empty", route.ID)}
		}
		idx := r.queues.Next(route.ID, len(route.Queue))
		r.metrics.QueueAdvance(route.ID)
		item := route.Queue[idx]
		res.QueueIndex = idx
		if item.Delay != nil {
			res.Delay = *item.Delay
		}
		if item.File == "" {
			res.Body = item.Data
			return res, nil
		}
		if err := r.readFile(item.File, res); err != nil {
			return nil, err
		}

	case mock.ModeFile:
		if err := r.readFile(route.File, res); err != nil {
			return nil, err
		}

	default:
		if route.DataFunc == nil {
			res.Body = route.Data
			return res, nil
		}
		data, err := callDataFunc(ctx, route.DataFunc, rc)
		if err != nil {
			return nil, err
		}
		res.Body = data
	}
	return res, nil
}

func (r *Resolver) readFile(name string, res *Resolution) error {
	path := name
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
		}
		return &ResolutionError{Status: status, Err: fmt.Errorf("reading file %s: %w", name, err)}
	}
	res.Body = body
	res.ContentType = httputil.ContentTypeForFile(name, body)
	return nil
}

func callDataFunc(ctx context.Context, fn mock.DataFunc, rc *mock.RequestContext) (data any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &ResolutionError{
				Status: http.StatusInternalServerError,
				Err:    fmt.Errorf("data function panicked: %v", p),
				Stack:  string(debug.Stack()),
			}
		}
	}()

	data, err = fn(ctx, rc)
	if err != nil {
		return nil, &ResolutionError{
			Status: http.StatusInternalServerError,
			Err:    fmt.Errorf("data function: %w", err),
			Stack:  string(debug.Stack()),
		}
	}
	return data, nil
}
