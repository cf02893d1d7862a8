package genserver

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSimpleServerCallFunc(t *testing.T) {
	t.Parallel()

	srv := NewSimpleServer(
		WithCallFunc(func(_ *Server, msg any, state any) HandleOutcome {
			return Reply(msg, state)
		}),
	)
	defer srv.Cast(context.Background(), StopMessage)

	result := srv.Call(context.Background(), "echo")
	require.Equal(t, StatusOK, result.Status)
	require.Equal(t, "echo", result.Value)
}

func TestSimpleServerNoCallFuncIsUnhandled(t *testing.T) {
	t.Parallel()

	srv := NewSimpleServer(
		WithCastFunc(func(_ *Server, _ any, state any) HandleOutcome {
			return Reply(nil, state)
		}),
	)
	defer srv.Cast(context.Background(), StopMessage)

	result := srv.Call(context.Background(), "anything")
	require.Equal(t, StatusUnhandled, result.Status)
}

func TestSimpleServerAfterInitRunsAsynchronously(t *testing.T) {
	t.Parallel()

	var ran atomic.Bool

	srv := NewSimpleServer(
		WithAfterInitFunc(func(_ *Server, _ any) {
			ran.Store(true)
		}),
	)
	defer srv.Cast(context.Background(), StopMessage)

	require.Eventually(t, func() bool {
		return ran.Load()
	}, time.Second, 10*time.Millisecond)
}

func TestSimpleServerWithOptionsPassesServerOptions(t *testing.T) {
	t.Parallel()

	srv := NewSimpleServerWithOptions(
		[]SimpleServerOption{
			WithCallFunc(func(_ *Server, msg any, state any) HandleOutcome {
				return Reply(state, state)
			}),
		},
		WithName("named-simple-server"),
		WithInitialState(42),
	)
	defer srv.Cast(context.Background(), StopMessage)

	require.Equal(t, "named-simple-server", srv.Name())

	result := srv.Call(context.Background(), "get")
	require.Equal(t, 42, result.Value)
}
