// Package counter is a small demo consumer of genserver: a counting
// service built as a named Behavior type, and an echo service built as a
// SimpleServer, shown side by side the way the teacher's actor package
// pairs a typed actor example with a closure-based one.
package counter

import (
	"fmt"

	"github.com/roasbeef/gensrv/internal/baselib/genserver"
)

// Increment asks the counter to add delta to its running total.
type Increment struct {
	Delta int
}

// Reset asks the counter to zero its running total.
type Reset struct{}

// Snapshot asks the counter for its current total without changing it.
type Snapshot struct{}

// Behavior implements genserver.Behavior for a running total. Cast-based
// increments and call-based increments share the same arithmetic; only
// Snapshot is call-only, since a Cast has no one to report a reply to.
type Behavior struct{}

// New constructs a genserver.Server running the counter Behavior, starting
// at zero (or WithInitialState's value, if supplied as an option).
func New(opts ...genserver.ServerOption) *genserver.Server {
	allOpts := append([]genserver.ServerOption{
		genserver.WithInitialState(0),
	}, opts...)

	return genserver.NewServer(Behavior{}, allOpts...)
}

// HandleCall implements genserver.Behavior.
func (Behavior) HandleCall(_ *genserver.Server, msg any,
	state any) genserver.HandleOutcome {

	total, _ := state.(int)

	switch m := msg.(type) {
	case Increment:
		total += m.Delta
		return genserver.Reply(total, total)

	case Reset:
		return genserver.Reply(0, 0)

	case Snapshot:
		return genserver.Reply(total, total)

	default:
		return genserver.Unhandled()
	}
}

// HandleCast implements genserver.Behavior. Snapshot has no meaningful
// cast form (there's no caller to report back to outside an async-call),
// so it falls through to Unhandled here even though it's handled for Call.
func (b Behavior) HandleCast(srv *genserver.Server, msg any,
	state any) genserver.HandleOutcome {

	switch msg.(type) {
	case Increment, Reset:
		return b.HandleCall(srv, msg, state)

	default:
		return genserver.Unhandled()
	}
}

// NewEcho builds a SimpleServer that replies to any Call with a formatted
// echo of the message, and logs nothing on Cast beyond accepting it
// silently. It demonstrates the function-value construction style as an
// alternative to a named Behavior type.
func NewEcho(opts ...genserver.ServerOption) *genserver.Server {
	return genserver.NewSimpleServerWithOptions(
		[]genserver.SimpleServerOption{
			genserver.WithCallFunc(func(_ *genserver.Server, msg any,
				state any) genserver.HandleOutcome {

				return genserver.Reply(
					fmt.Sprintf("echo: %v", msg), state,
				)
			}),
			genserver.WithCastFunc(func(_ *genserver.Server, _ any,
				state any) genserver.HandleOutcome {

				return genserver.Reply(nil, state)
			}),
		},
		opts...,
	)
}
