package genserver

import (
	"context"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ServerConfig holds the configuration parameters for NewServer, following
// the teacher's functional-options shape
// (internal/baselib/actor/system.go's RegisterOption/WithCleanupTimeout).
type ServerConfig struct {
	// Name is the server's identifier. If empty, a unique name is
	// generated (spec.md §3).
	Name string

	// State is the server's initial user state.
	State any

	// MaxQueueSize bounds the mailbox's pending-item count. 0 or
	// negative means unbounded; values below 10 are accepted but
	// discouraged (spec.md §3).
	MaxQueueSize int

	// System, if non-nil, causes the server to start with a
	// DispatchedMailbox bound to this System's dispatcher instead of a
	// ThreadedMailbox (spec.md §3's "server with a system" rule).
	System *System
}

// ServerOption configures a ServerConfig.
type ServerOption func(*ServerConfig)

// WithName sets the server's name.
func WithName(name string) ServerOption {
	return func(cfg *ServerConfig) { cfg.Name = name }
}

// WithInitialState sets the server's initial user state.
func WithInitialState(state any) ServerOption {
	return func(cfg *ServerConfig) { cfg.State = state }
}

// WithMaxQueueSize bounds the server's mailbox.
func WithMaxQueueSize(n int) ServerOption {
	return func(cfg *ServerConfig) { cfg.MaxQueueSize = n }
}

// WithSystem attaches the server to sys at construction time, so it starts
// with a DispatchedMailbox rather than a ThreadedMailbox.
func WithSystem(sys *System) ServerOption {
	return func(cfg *ServerConfig) { cfg.System = sys }
}

// Server owns a name, user state, and a Mailbox, and exposes call/cast/
// async-call over a user-supplied Behavior (spec.md §3/§4.2). Exactly one
// Mailbox is bound to a Server at any instant; user state is observed and
// mutated only from inside a handler invocation scheduled by that mailbox
// (single-writer discipline).
type Server struct {
	name     string
	behavior Behavior

	// state is read and written exclusively from inside dispatchHandler,
	// which the mailbox guarantees runs with at most one invocation in
	// flight at a time.
	state any

	running atomic.Bool

	mu           sync.RWMutex
	mailbox      Mailbox
	system       *System
	maxQueueSize int

	// executingGoroutine records the goroutine currently running this
	// server's handler, so a handler that calls Call on its own Server
	// can be detected and failed fast instead of deadlocking (spec.md
	// §9 "self-call deadlock"). 0 means no handler is currently running.
	executingGoroutine atomic.Uint64
}

// NewServer constructs a Server around behavior. Per spec.md §3: no System
// attached means a ThreadedMailbox; WithSystem means a DispatchedMailbox
// bound to that system's dispatcher.
func NewServer(behavior Behavior, opts ...ServerOption) *Server {
	cfg := ServerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	name := cfg.Name
	if name == "" {
		name = uuid.NewString()
	}

	s := &Server{
		name:         name,
		behavior:     behavior,
		state:        cfg.State,
		system:       cfg.System,
		maxQueueSize: cfg.MaxQueueSize,
	}
	s.running.Store(true)
	s.mailbox = s.newMailbox()

	log.DebugS(context.Background(), "Server started",
		"name", s.name, "has_system", s.system != nil)

	return s
}

// newMailbox builds the mailbox implied by the server's current system
// binding. Must be called with s.mu held, or before s is published.
func (s *Server) newMailbox() Mailbox {
	if s.system != nil {
		return NewDispatchedMailbox(
			s.system.Dispatcher(), s.maxQueueSize, s.dispatchHandler,
		)
	}

	return NewThreadedMailbox(s.maxQueueSize, s.dispatchHandler)
}

// Name returns the server's name.
func (s *Server) Name() string {
	return s.name
}

// Running reports the current value of the running flag. This is a
// best-effort, racy observation (spec.md §4.2/§9): it may be stale the
// instant after it's read if a concurrent Stop or :stop handling is in
// flight.
func (s *Server) Running() bool {
	return s.running.Load()
}

// AttachSystem binds the server to sys, replacing its mailbox with a fresh
// DispatchedMailbox bound to sys's dispatcher. Idempotent when sys is nil.
//
// This discards any unprocessed messages in the old mailbox — spec.md §4.2
// calls this out explicitly as a sharp edge, and it is preserved here
// unchanged: the old mailbox is stopped (draining and failing its pending
// submitters) before the new one takes over.
func (s *Server) AttachSystem(sys *System) {
	if sys == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	oldMailbox := s.mailbox
	s.system = sys
	s.mailbox = s.newMailbox()

	oldMailbox.Stop()

	log.InfoS(context.Background(), "Server attached to new system",
		"name", s.name)
}

func (s *Server) currentMailbox() Mailbox {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.mailbox
}

// Call submits msg with reply-required=true and blocks until the handler
// runs (or the server stops). A nil message is a no-op returning the zero
// Result (spec.md §6).
func (s *Server) Call(ctx context.Context, msg any) Result {
	if msg == nil {
		return Result{}
	}

	if !s.running.Load() {
		return stoppedResult()
	}

	if gid := currentGoroutineID(); s.executingGoroutine.Load() == gid &&
		gid != 0 {

		return Result{Status: StatusHandlerError, Err: ErrReentrantCall}
	}

	item := workItem{message: msg, replyRequired: true}

	return s.currentMailbox().Submit(ctx, item)
}

// Cast submits msg with reply-required=false and returns immediately.
func (s *Server) Cast(ctx context.Context, msg any) Result {
	if msg == nil {
		return Result{}
	}

	if !s.running.Load() {
		return stoppedResult()
	}

	item := workItem{message: msg, replyRequired: false}

	return s.currentMailbox().Submit(ctx, item)
}

// AsyncCall submits msg for asynchronous processing and returns a Future
// that completes with the same value space Call would have returned
// (spec.md §4.2). It spawns an ephemeral AsyncCallWaiter attached to the
// same System as the target (if any), whose after-init phase performs the
// (message, reply-required=false, sender=waiter) submission described in
// spec.md §4.2.
func (s *Server) AsyncCall(ctx context.Context, msg any) Future[Result] {
	promise := NewPromise[Result]()

	if msg == nil {
		promise.Complete(Result{})
		return promise.Future()
	}

	if !s.running.Load() {
		promise.Complete(stoppedResult())
		return promise.Future()
	}

	waiter := newAsyncCallWaiter(promise)

	s.mu.RLock()
	sys := s.system
	s.mu.RUnlock()

	var serverOpts []ServerOption
	if sys != nil {
		serverOpts = append(serverOpts, WithSystem(sys))
	}

	NewSimpleServerWithOptions(
		[]SimpleServerOption{
			WithCastFunc(waiter.handleCast),
			WithAfterInitFunc(func(srv *Server, _ any) {
				item := workItem{
					message:       msg,
					replyRequired: false,
					sender:        srv,
				}

				result := s.currentMailbox().Submit(ctx, item)
				if result.Status == StatusStopped {
					// The target never got to process the
					// message (mailbox already stopped);
					// nothing will ever cast a reply back,
					// so complete the future here to avoid
					// leaking it.
					promise.Complete(result)
					srv.stopSelf()
				}
			}),
		},
		serverOpts...,
	)

	return promise.Future()
}

// dispatchHandler is the handlerFunc bound into this server's Mailbox. It
// implements spec.md §4.3's message-processing pipeline.
func (s *Server) dispatchHandler(item workItem) {
	result := s.runPipeline(item)

	if item.sender != nil && result.Status != StatusStopped {
		item.sender.Cast(context.Background(), result)
	}

	if item.replyRequired {
		item.done <- result
	}
}

// runPipeline executes spec.md §4.3 steps 1-4 for one work item: the
// running gate, the internal :stop dispatch, user dispatch with panic
// trapping (grounded on the recover-and-classify pattern in
// other_examples/9d5a332d_Jeffersonmf-ergo-1__gen-server.go.go), and result
// interpretation.
func (s *Server) runPipeline(item workItem) Result {
	// Step 1: running gate.
	if !s.running.Load() {
		return stoppedResult()
	}

	// Step 2: internal dispatch.
	if _, isStop := item.message.(stopMessage); isStop {
		s.stopSelf()
		return stoppedResult()
	}

	// Step 3: user dispatch, trapped.
	outcome, err := s.invokeHandler(item)
	if err != nil {
		return Result{Status: StatusHandlerError, Err: err}
	}

	// Step 4: result interpretation.
	switch {
	case outcome.stopping:
		s.stopSelf()
		return stoppedResult()

	case outcome.handled:
		s.state = outcome.state
		return okResult(outcome.reply)

	default:
		return unhandledResult()
	}
}

// invokeHandler calls the user behavior for item, recovering from any
// panic and converting it into an error the pipeline turns into a
// StatusHandlerError result. It also marks/unmarks executingGoroutine
// around the call so Call can detect a reentrant self-call.
func (s *Server) invokeHandler(item workItem) (outcome HandleOutcome, err error) {
	gid := currentGoroutineID()
	s.executingGoroutine.Store(gid)
	defer s.executingGoroutine.Store(0)

	defer func() {
		if r := recover(); r != nil {
			err = &HandlerError{Cause: r}
		}
	}()

	if item.replyRequired {
		outcome = s.behavior.HandleCall(s, item.message, s.state)
	} else {
		outcome = s.behavior.HandleCast(s, item.message, s.state)
	}

	return outcome, nil
}

// stopSelf marks the server not-running and stops its current mailbox.
// Idempotent: multiple concurrent stops simply race harmlessly on the
// atomic flag and on Mailbox.Stop's own idempotency.
func (s *Server) stopSelf() {
	s.running.Store(false)
	s.currentMailbox().Stop()
}

// currentGoroutineID extracts the calling goroutine's numeric ID by
// parsing the header line of its own stack trace. This is a best-effort
// mechanism used only for self-call deadlock detection (spec.md §9); it is
// never used as a correctness-critical synchronization primitive.
func currentGoroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	fields := strings.Fields(string(buf[:n]))

	if len(fields) < 2 {
		return 0
	}

	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0
	}

	return id
}
