package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueStates_Next(t *testing.T) {
	q := NewQueueStates()

	assert.Equal(t, int64(0), q.Cursor("r"))
	assert.Equal(t, 0, q.Next("r", 3))
	assert.Equal(t, 1, q.Next("r", 3))
	assert.Equal(t, 2, q.Next("r", 3))
	assert.Equal(t, 2, q.Next("r", 3), "held at the last element")
	assert.Equal(t, 2, q.Next("r", 3))
	assert.Equal(t, int64(5), q.Cursor("r"), "cursor keeps advancing")

	assert.Equal(t, 0, q.Next("other", 3), "routes are independent")
}

func TestQueueStates_Reset(t *testing.T) {
	q := NewQueueStates()
	q.Next("r", 2)
	q.Next("r", 2)

	q.Reset()

	assert.Equal(t, int64(0), q.Cursor("r"))
	assert.Equal(t, 0, q.Next("r", 2))
}

func TestQueueStates_ConcurrentNextNeverRepeats(t *testing.T) {
	const workers = 50
	const n = workers

	q := NewQueueStates()
	indexes := make(chan int, workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			indexes <- q.Next("r", n)
		}()
	}
	wg.Wait()
	close(indexes)

	seen := make(map[int]bool)
	for idx := range indexes {
		require.False(t, seen[idx], "index %d served twice", idx)
		seen[idx] = true
	}
	assert.Len(t, seen, workers)
	assert.Equal(t, int64(workers), q.Cursor("r"))
}
