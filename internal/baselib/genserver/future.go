package genserver

import (
	"context"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Future represents the eventual result of an AsyncCall. It is fulfilled
// exactly once: by the AsyncCallWaiter that receives the target server's
// reply, or directly by AsyncCall when the message is nil or the target is
// not running. Grounded on the teacher's Future[T] contract
// (internal/baselib/actor/interface.go), narrowed to the one-shot
// completion semantics spec.md §4.5 actually requires — no ThenApply chain,
// since nothing in spec.md composes futures.
type Future[T any] interface {
	// Await blocks until the future is fulfilled or ctx is cancelled,
	// whichever happens first.
	Await(ctx context.Context) (T, error)

	// OnComplete registers a callback to be invoked exactly once with the
	// fulfilled value. If the future is already fulfilled, the callback
	// fires promptly (synchronously, from the calling goroutine).
	OnComplete(callback func(T))
}

// Promise is the write side of a Future: the AsyncCallWaiter holds one and
// completes it when the reply arrives.
type Promise[T any] interface {
	// Complete attempts to fulfill the promise with value. It returns
	// true if this call was the first to complete it, false if the
	// promise was already fulfilled (Complete is idempotent — spec.md
	// §4.5).
	Complete(value T) bool

	// Future returns the Future associated with this Promise.
	Future() Future[T]
}

// promise is the concrete Promise/Future implementation shared by both
// interfaces above (one object satisfies both, the same way the teacher
// pairs a single implementation across Future/Promise roles).
type promise[T any] struct {
	mu        sync.Mutex
	result    fn.Option[T]
	done      chan struct{}
	closeOnce sync.Once
	callbacks []func(T)
}

// NewPromise constructs an empty, unfulfilled Promise/Future pair.
func NewPromise[T any]() Promise[T] {
	return &promise[T]{
		result: fn.None[T](),
		done:   make(chan struct{}),
	}
}

// Complete implements Promise.
func (p *promise[T]) Complete(value T) bool {
	p.mu.Lock()

	if p.result.IsSome() {
		p.mu.Unlock()
		return false
	}

	p.result = fn.Some(value)
	callbacks := p.callbacks
	p.callbacks = nil
	p.mu.Unlock()

	p.closeOnce.Do(func() { close(p.done) })

	for _, cb := range callbacks {
		cb(value)
	}

	return true
}

// Future implements Promise.
func (p *promise[T]) Future() Future[T] {
	return p
}

// Await implements Future.
func (p *promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()

		return p.result.UnwrapOr(*new(T)), nil

	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete implements Future.
func (p *promise[T]) OnComplete(callback func(T)) {
	p.mu.Lock()

	if p.result.IsSome() {
		value := p.result.UnwrapOr(*new(T))
		p.mu.Unlock()

		callback(value)

		return
	}

	p.callbacks = append(p.callbacks, callback)
	p.mu.Unlock()
}
