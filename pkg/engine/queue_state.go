package engine

import (
	"sync"
	"sync/atomic"
)

// RouteState is the mutable state of one queued route.
type RouteState struct {
	cursor atomic.Int64
}

// Cursor returns the number of resolutions served so far.
func (s *RouteState) Cursor() int64 {
	return s.cursor.Load()
}

// QueueStates holds the cursor of every queued route, keyed by route ID.
// States are created on first use and live until Reset.
type QueueStates struct {
	states sync.Map // string -> *RouteState
}

// NewQueueStates creates an empty store.
func NewQueueStates() *QueueStates {
	return &QueueStates{}
}

func (q *QueueStates) state(routeID string) *RouteState {
	if s, ok := q.states.Load(routeID); ok {
		return s.(*RouteState)
	}
	s, _ := q.states.LoadOrStore(routeID, &RouteState{})
	return s.(*RouteState)
}

// Next advances the route's cursor and returns the queue index to serve for
// a queue of length n. Once the queue is exhausted the last index is served
// indefinitely. Concurrent callers never observe the same cursor value.
func (q *QueueStates) Next(routeID string, n int) int {
	c := q.state(routeID).cursor.Add(1) - 1
	if c >= int64(n) {
		return n - 1
	}
	return int(c)
}

// Cursor returns the route's cursor, 0 for routes never resolved.
func (q *QueueStates) Cursor(routeID string) int64 {
	if s, ok := q.states.Load(routeID); ok {
		return s.(*RouteState).Cursor()
	}
	return 0
}

// Reset drops every cursor.
func (q *QueueStates) Reset() {
	q.states.Range(func(key, _ any) bool {
		q.states.Delete(key)
		return true
	})
}
