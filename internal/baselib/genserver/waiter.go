package genserver

// asyncCallWaiter is the ephemeral recipient behind Server.AsyncCall
// (spec.md §4.5): a SimpleServer with no call handler at all, only a cast
// handler that completes the caller's promise with whatever Result arrives
// and then stops itself. It never appears in any public API; AsyncCall
// wires it up and hands back only the Future.
type asyncCallWaiter struct {
	promise Promise[Result]
}

// newAsyncCallWaiter builds the waiter state backing one AsyncCall.
func newAsyncCallWaiter(promise Promise[Result]) *asyncCallWaiter {
	return &asyncCallWaiter{promise: promise}
}

// handleCast is installed as the waiter Server's HandleCast. The target
// server casts its computed Result back to the waiter (see
// Server.dispatchHandler's item.sender branch); on receipt the waiter
// completes the promise and requests its own shutdown.
func (w *asyncCallWaiter) handleCast(srv *Server, msg any, state any) HandleOutcome {
	result, ok := msg.(Result)
	if !ok {
		return Unhandled()
	}

	w.promise.Complete(result)

	return Stopping()
}
