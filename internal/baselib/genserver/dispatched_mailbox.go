package genserver

import (
	"context"
	"sync/atomic"
)

// DispatchedMailbox is a Mailbox with no dedicated worker of its own: it
// schedules its queued items onto a shared Dispatcher, while guaranteeing
// at most one in-flight dispatched task per mailbox at a time (spec.md
// §4.1.2). A server attached to a System uses a DispatchedMailbox.
//
// The single-flight guarantee is implemented with a CAS-guarded
// "in-flight" flag rather than a mutex held across the dispatch call,
// because a mutex would have to be released by a *different* goroutine
// (the dispatcher worker) than the one that acquired it (the submitter) —
// the drain-and-recheck pattern below avoids that mismatch, grounded on
// the same "pop until empty, then recheck for a race" shape as
// other_examples/0bb6d90f_dolthub-dolt__go-libraries-doltcore-sqle-statspro-jobqueue-serialqueue.go.go's
// runner loop.
type DispatchedMailbox struct {
	handle     handlerFunc
	queue      *itemQueue
	dispatcher Dispatcher

	inFlight atomic.Bool
	stopped  atomic.Bool
}

// NewDispatchedMailbox creates a DispatchedMailbox bound to dispatcher,
// with the given bounded capacity (0 or negative means unbounded), whose
// dispatched tasks invoke handle for every dequeued item.
func NewDispatchedMailbox(dispatcher Dispatcher, maxQueueSize int,
	handle handlerFunc) *DispatchedMailbox {

	return &DispatchedMailbox{
		handle:     handle,
		queue:      newItemQueue(maxQueueSize),
		dispatcher: dispatcher,
	}
}

// Submit implements Mailbox.
func (m *DispatchedMailbox) Submit(ctx context.Context, item workItem) Result {
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

	m.maybeDispatch()

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

// maybeDispatch arranges for the mailbox's queue to be drained on the
// shared dispatcher if no dispatched task is already doing so.
func (m *DispatchedMailbox) maybeDispatch() {
	if m.inFlight.CompareAndSwap(false, true) {
		m.dispatcher.Dispatch(m.drain)
	}
}

// drain runs on a dispatcher worker goroutine. It processes items until the
// queue is empty, then releases the in-flight flag; if another submission
// raced in right as the queue emptied, it re-acquires and keeps draining
// rather than leaving that item stranded until some future Submit notices.
func (m *DispatchedMailbox) drain() {
	for {
		item, ok := m.queue.pop()
		if !ok {
			m.inFlight.Store(false)

			if m.queue.len() == 0 {
				return
			}

			if !m.inFlight.CompareAndSwap(false, true) {
				return
			}

			continue
		}

		m.handle(item)
	}
}

// Stop implements Mailbox.
func (m *DispatchedMailbox) Stop() {
	if !m.stopped.CompareAndSwap(false, true) {
		return
	}

	discarded := m.queue.close()

	for _, item := range discarded {
		if item.replyRequired {
			item.done <- stoppedResult()
		}
	}
}
