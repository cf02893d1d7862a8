package genserver

// SimpleServer is a Behavior built from plain function values instead of a
// user-defined type, grounded on the teacher's closure-based actor helpers
// in internal/baselib/actor/example_basic_actor_test.go. It exists so
// quick one-off servers (the AsyncCallWaiter chief among them) don't need a
// named type of their own (spec.md §4.4).
type SimpleServer struct {
	callFun      func(srv *Server, msg any, state any) HandleOutcome
	castFun      func(srv *Server, msg any, state any) HandleOutcome
	afterInitFun func(srv *Server, state any)
}

// SimpleServerOption configures a SimpleServer.
type SimpleServerOption func(*SimpleServer)

// WithCallFunc supplies the HandleCall implementation.
func WithCallFunc(fn func(srv *Server, msg any, state any) HandleOutcome) SimpleServerOption {
	return func(s *SimpleServer) { s.callFun = fn }
}

// WithCastFunc supplies the HandleCast implementation.
func WithCastFunc(fn func(srv *Server, msg any, state any) HandleOutcome) SimpleServerOption {
	return func(s *SimpleServer) { s.castFun = fn }
}

// WithAfterInitFunc registers a callback run once, asynchronously, right
// after the owning Server has been constructed and its mailbox started.
// AsyncCall uses this to perform the waiter's initial submission to the
// target server without the caller of NewSimpleServer needing to reach
// back into the Server before it exists (spec.md §4.5).
func WithAfterInitFunc(fn func(srv *Server, state any)) SimpleServerOption {
	return func(s *SimpleServer) { s.afterInitFun = fn }
}

// NewSimpleServerBehavior builds a Behavior from the given options without
// also constructing a Server, for callers that want to pass it through
// their own NewServer call (e.g. to add WithName/WithInitialState).
func NewSimpleServerBehavior(opts ...SimpleServerOption) *SimpleServer {
	b := &SimpleServer{}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewSimpleServer builds a SimpleServer Behavior and immediately starts a
// Server around it with default ServerConfig, running afterInitFun (if
// any) in its own goroutine so NewSimpleServer itself never blocks on it.
func NewSimpleServer(opts ...SimpleServerOption) *Server {
	return NewSimpleServerWithOptions(opts)
}

// NewSimpleServerWithOptions is NewSimpleServer plus explicit ServerOptions
// (name, initial state, max queue size, system), for callers who need both
// a function-based Behavior and non-default Server configuration.
func NewSimpleServerWithOptions(simpleOpts []SimpleServerOption,
	serverOpts ...ServerOption) *Server {

	behavior := NewSimpleServerBehavior(simpleOpts...)

	srv := NewServer(behavior, serverOpts...)

	if behavior.afterInitFun != nil {
		go behavior.afterInitFun(srv, srv.state)
	}

	return srv
}

// HandleCall implements Behavior.
func (s *SimpleServer) HandleCall(srv *Server, msg any, state any) HandleOutcome {
	if s.callFun == nil {
		return Unhandled()
	}

	return s.callFun(srv, msg, state)
}

// HandleCast implements Behavior.
func (s *SimpleServer) HandleCast(srv *Server, msg any, state any) HandleOutcome {
	if s.castFun == nil {
		return Unhandled()
	}

	return s.castFun(srv, msg, state)
}
