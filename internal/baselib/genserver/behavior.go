package genserver

// stopMessage is the sentinel message type for spec.md's special ":stop"
// message. It is comparable with == so handler dispatch can special-case it
// before ever reaching user code (spec.md §4.3 step 2, "Internal dispatch").
type stopMessage struct{}

// StopMessage is submitted via Call or Cast to request an orderly shutdown
// of a server. Call(StopMessage) replies with a StatusStopped Result once
// the stop has been processed; Cast(StopMessage) also stops the server, but
// returns StatusOK as soon as the message is enqueued, without waiting for
// the stop to happen.
var StopMessage any = stopMessage{}

// Behavior defines how a Server reacts to messages. This is the interface
// form of spec.md §4's override points (handle-call / handle-cast),
// generalized from the teacher's ActorBehavior[M, R] into the untyped
// message space spec.md's data model calls for (Non-goals explicitly rule
// out typed message schemas). SimpleServer implements Behavior by
// delegating to user-supplied function values instead.
type Behavior interface {
	// HandleCall processes a synchronous request. state is the server's
	// current user state; the returned HandleOutcome carries either a
	// reply and replacement state, an unhandled marker, or a stopping
	// signal.
	HandleCall(srv *Server, msg any, state any) HandleOutcome

	// HandleCast processes a fire-and-forget message. Semantics mirror
	// HandleCall, except the reply (if any) is only observable by an
	// async-call sender, never by the original caller.
	HandleCast(srv *Server, msg any, state any) HandleOutcome
}

// HandleOutcome is the Go rendering of a handler's three possible returns
// from spec.md §4.3 step 4: nil/absent (unhandled), a (reply, new-state)
// pair, or the :stopping signal. Build one with Unhandled, Stopping, or
// Reply — the zero value is Unhandled.
type HandleOutcome struct {
	handled  bool
	stopping bool
	reply    any
	state    any
}

// Unhandled reports that the handler has no response to this message. The
// mailbox pipeline yields StatusUnhandled for it.
func Unhandled() HandleOutcome {
	return HandleOutcome{}
}

// Stopping requests an orderly shutdown of the server that is running this
// handler. The pipeline stops the mailbox, marks the server not-running,
// and yields StatusStopped.
func Stopping() HandleOutcome {
	return HandleOutcome{stopping: true}
}

// Reply returns reply as the submission's result and newState as the
// server's replacement state, atomically applied by the pipeline once the
// handler returns (spec.md §4.3 step 4b).
func Reply(reply, newState any) HandleOutcome {
	return HandleOutcome{handled: true, reply: reply, state: newState}
}
