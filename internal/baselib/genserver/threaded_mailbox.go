package genserver

import (
	"context"
	"sync"
	"sync/atomic"
)

// ThreadedMailbox is a Mailbox backed by one dedicated worker goroutine,
// grounded on the teacher's ChannelMailbox
// (internal/baselib/actor/channel_mailbox.go) for its closed-flag/Stop
// discipline, generalized here with an explicit worker loop (the teacher's
// mailbox has no dedicated worker of its own — actors drive their own
// process() loop directly off the mailbox's Receive iterator; spec.md §4.1.1
// asks for the worker to live inside the mailbox instead).
//
// A server with no System attached uses a ThreadedMailbox (spec.md §3).
type ThreadedMailbox struct {
	handle handlerFunc
	queue  *itemQueue

	stopCh   chan struct{}
	stopOnce sync.Once
	workerWg sync.WaitGroup

	closeOnce sync.Once

	// workerGoroutine holds the numeric ID of the dedicated worker
	// goroutine (see currentGoroutineID). Stop uses this to detect the
	// case where a handler running on that very goroutine requests its
	// own server's shutdown (HandleOutcome.Stopping or StopMessage): in
	// that case Stop must not block on workerWg, since the worker can't
	// finish running handle(item) until Stop itself returns.
	workerGoroutine atomic.Uint64
}

// NewThreadedMailbox starts a ThreadedMailbox with the given bounded
// capacity (0 or negative means unbounded) whose worker invokes handle for
// every dequeued item.
func NewThreadedMailbox(maxQueueSize int, handle handlerFunc) *ThreadedMailbox {
	m := &ThreadedMailbox{
		handle: handle,
		queue:  newItemQueue(maxQueueSize),
		stopCh: make(chan struct{}),
	}

	m.workerWg.Add(1)
	go m.worker()

	return m
}

// Submit implements Mailbox.
func (m *ThreadedMailbox) Submit(ctx context.Context, item workItem) Result {
	if item.replyRequired {
		item.done = make(chan Result, 1)
	}

	ok, full, closed := m.queue.push(item)
	switch {
	case closed:
		return stoppedResult()
	case full:
		return Result{Status: StatusHandlerError, Err: ErrQueueFull}
	case !ok:
		return stoppedResult()
	}

	if !item.replyRequired {
		return okResult(nil)
	}

	select {
	case result := <-item.done:
		return result
	case <-ctx.Done():
		return Result{Status: StatusHandlerError, Err: ctx.Err()}
	}
}

// worker is the mailbox's dedicated goroutine: pop one item at a time,
// run the handler, repeat. Stop injects a close on stopCh that causes this
// loop to exit once it next checks it.
func (m *ThreadedMailbox) worker() {
	defer m.workerWg.Done()

	m.workerGoroutine.Store(currentGoroutineID())

	for {
		select {
		case <-m.stopCh:
			return
		case <-m.queue.signal:
		}

		for {
			item, ok := m.queue.pop()
			if !ok {
				break
			}

			log.TraceS(context.Background(), "ThreadedMailbox running item",
				"reply_required", item.replyRequired)

			m.handle(item)

			select {
			case <-m.stopCh:
				return
			default:
			}
		}
	}
}

// Stop implements Mailbox. Called from any goroutine other than the
// mailbox's own worker, it blocks until the worker has fully exited.
// Called from the worker itself (a handler stopping its own server), it
// returns as soon as the stop has been signalled, since waiting for the
// worker to exit here would be waiting on itself.
func (m *ThreadedMailbox) Stop() {
	m.closeOnce.Do(func() {
		discarded := m.queue.close()

		for _, item := range discarded {
			if item.replyRequired {
				item.done <- stoppedResult()
			}
		}

		m.stopOnce.Do(func() { close(m.stopCh) })
	})

	if currentGoroutineID() == m.workerGoroutine.Load() {
		return
	}

	m.workerWg.Wait()
}
