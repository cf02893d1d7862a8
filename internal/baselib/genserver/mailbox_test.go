package genserver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	testEventuallyTimeout = time.Second
	testEventuallyTick    = 10 * time.Millisecond
)

// recordingHandle appends every item it processes to a mutex-guarded slice,
// so tests can assert on processing order.
func recordingHandle(t *testing.T) (handlerFunc, func() []any) {
	t.Helper()

	var (
		mu      sync.Mutex
		ordered []any
	)

	handle := func(item workItem) {
		mu.Lock()
		ordered = append(ordered, item.message)
		mu.Unlock()

		if item.replyRequired {
			item.done <- okResult(item.message)
		}
	}

	snapshot := func() []any {
		mu.Lock()
		defer mu.Unlock()

		out := make([]any, len(ordered))
		copy(out, ordered)

		return out
	}

	return handle, snapshot
}

func TestThreadedMailboxFIFOOrder(t *testing.T) {
	t.Parallel()

	handle, snapshot := recordingHandle(t)
	mailbox := NewThreadedMailbox(0, handle)
	defer mailbox.Stop()

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		result := mailbox.Submit(ctx, workItem{message: i, replyRequired: true})
		require.Equal(t, StatusOK, result.Status)
		require.Equal(t, i, result.Value)
	}

	ordered := snapshot()
	require.Len(t, ordered, 20)
	for i, v := range ordered {
		require.Equal(t, i, v)
	}
}

func TestThreadedMailboxStopDiscardsQueued(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	handle := func(item workItem) {
		<-block
		if item.replyRequired {
			item.done <- okResult(nil)
		}
	}

	mailbox := NewThreadedMailbox(0, handle)

	ctx := context.Background()

	doneCh := make(chan Result, 1)
	go func() {
		doneCh <- mailbox.Submit(ctx, workItem{message: "first", replyRequired: true})
	}()

	// Give the worker a moment to pick up "first" and start blocking on
	// it, then queue a second item that will never get a turn.
	time.Sleep(20 * time.Millisecond)
	queuedDone := make(chan Result, 1)
	go func() {
		queuedDone <- mailbox.Submit(ctx, workItem{message: "second", replyRequired: true})
	}()
	time.Sleep(20 * time.Millisecond)

	// Stop waits for the worker to finish "first", so run it alongside
	// releasing the handler. stopCh is closed only after the queue has
	// been discarded, so "second" cannot run once block is closed.
	stopped := make(chan struct{})
	go func() {
		mailbox.Stop()
		close(stopped)
	}()
	<-mailbox.stopCh
	close(block)
	<-stopped

	require.Equal(t, StatusStopped, (<-queuedDone).Status)
	<-doneCh
}

func TestDispatchedMailboxSingleFlight(t *testing.T) {
	t.Parallel()

	handle, snapshot := recordingHandle(t)
	pool := NewWorkerPool(4, 64)
	defer pool.Close()

	mailbox := NewDispatchedMailbox(pool, 0, handle)
	defer mailbox.Stop()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mailbox.Submit(ctx, workItem{message: i})
		}(i)
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return len(snapshot()) == 50
	}, testEventuallyTimeout, testEventuallyTick)
}

func TestItemQueuePushPopProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxLen := rapid.IntRange(0, 8).Draw(t, "maxLen")
		q := newItemQueue(maxLen)

		pushed := 0
		ops := rapid.IntRange(1, 40).Draw(t, "ops")

		var expected []int
		for i := 0; i < ops; i++ {
			if rapid.Bool().Draw(t, "doPush") {
				ok, full, closed := q.push(workItem{message: i})
				require.False(t, closed)

				if maxLen > 0 && q.len() > maxLen {
					t.Fatalf("queue exceeded maxLen: %d > %d", q.len(), maxLen)
				}

				if ok {
					pushed++
					expected = append(expected, i)
				} else {
					require.True(t, full)
				}
			} else if len(expected) > 0 {
				item, ok := q.pop()
				require.True(t, ok)
				require.Equal(t, expected[0], item.message)
				expected = expected[1:]
			}
		}
	})
}
