package genserver

import "context"

// workItem is the unit scheduled by a Mailbox: a message, whether the
// submitter is blocked awaiting a reply, and (for the async-call reply
// path) the sender the computed result should be cast back to. This is
// spec.md §3's "work item" triple, grounded on the teacher's envelope[M, R]
// (internal/baselib/actor/actor.go).
type workItem struct {
	message       any
	replyRequired bool
	sender        *Server

	// done receives exactly one Result once the handler has run (or the
	// mailbox has decided not to run it, e.g. because the server already
	// stopped). Only populated for reply-required submissions; for Cast,
	// Submit returns right after enqueueing and never blocks on it.
	done chan Result
}

// handlerFunc is what a Mailbox actually schedules: the server's message
// pipeline, already closed over the concrete work item. Returning it lets
// ThreadedMailbox and DispatchedMailbox stay ignorant of Server/Behavior
// altogether, the same separation of concerns as the teacher's
// Mailbox[M, R] abstraction.
type handlerFunc func(item workItem)

// Mailbox sequences work items for one Server, guaranteeing at most one
// handler invocation in flight at a time and strict FIFO delivery order.
// This is spec.md §4.1's abstract Mailbox contract. A Mailbox is bound to
// exactly one handlerFunc for its whole lifetime (the owning Server's
// pipeline), so unlike spec.md's abstract "submit(work-item, handler,
// reply-required)" signature, the handler is supplied once at construction
// rather than per Submit call — a Server only ever has one pipeline, so
// threading it through every call would be redundant.
type Mailbox interface {
	// Submit enqueues item for processing. If item is reply-required,
	// Submit blocks until the handler runs (or the mailbox rejects the
	// item) and returns that outcome; otherwise it enqueues and returns
	// immediately.
	//
	// ctx bounds how long Submit is willing to block trying to enqueue
	// (e.g. a bounded mailbox that chooses to block on full would honor
	// it); the current bounded-queue policy fails fast instead, so ctx
	// only matters for its cancellation check while awaiting a reply.
	Submit(ctx context.Context, item workItem) Result

	// Stop halts further processing: no further work items are
	// accepted, any queued-but-unstarted items are discarded, and the
	// mailbox's execution context (worker goroutine or dispatcher
	// binding) is released.
	Stop()
}
