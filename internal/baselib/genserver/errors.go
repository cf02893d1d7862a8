package genserver

import "errors"

// ErrStopped indicates that a submission (Call, Cast, or AsyncCall) reached
// a server that is not running, or that the submission was itself the
// server's own shutdown handshake (Call(StopMessage)).
var ErrStopped = errors.New("genserver: server stopped")

// ErrQueueFull indicates that a bounded mailbox was at capacity when a
// submission arrived. Both ThreadedMailbox and DispatchedMailbox fail fast
// with this error rather than blocking the submitter — see the ErrQueueFull
// entry in SPEC_FULL.md §7.
var ErrQueueFull = errors.New("genserver: mailbox queue full")

// ErrReentrantCall is returned when a handler calls Call on the very
// server instance that is currently executing it. Because a mailbox only
// ever runs one handler at a time, such a call would otherwise block
// forever waiting for a handler slot that can never free up.
var ErrReentrantCall = errors.New("genserver: reentrant call into own server")

// ErrNilMessage names the nil-message case. Call/Cast/AsyncCall do not
// return it: a nil message is a no-op for which they return the zero Result
// (nil Err) without touching the mailbox.
var ErrNilMessage = errors.New("genserver: nil message")

// HandlerError wraps the cause of a failed handler invocation: either a
// recovered panic, or a handler returning something other than Unhandled,
// Stopping, or Reply. It implements Unwrap so errors.Is/errors.As can reach
// through to the original cause when that cause was itself an error.
type HandlerError struct {
	// Cause is the recovered panic value or the descriptive error
	// constructed for a non-conforming handler return.
	Cause any
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	if err, ok := e.Cause.(error); ok {
		return "genserver: handler error: " + err.Error()
	}

	return "genserver: handler error: " + formatCause(e.Cause)
}

// Unwrap returns the original cause when it is itself an error, enabling
// errors.Is/errors.As to see through the wrapper.
func (e *HandlerError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}

	return nil
}

func formatCause(cause any) string {
	if s, ok := cause.(string); ok {
		return s
	}

	if stringer, ok := cause.(interface{ String() string }); ok {
		return stringer.String()
	}

	return "non-conforming handler result"
}
