package counter

import (
	"context"
	"testing"

	"github.com/roasbeef/gensrv/internal/baselib/genserver"
	"github.com/stretchr/testify/require"
)

func TestCounterIncrementAndSnapshot(t *testing.T) {
	t.Parallel()

	srv := New()
	defer srv.Cast(context.Background(), genserver.StopMessage)

	ctx := context.Background()

	result := srv.Call(ctx, Increment{Delta: 3})
	require.Equal(t, genserver.StatusOK, result.Status)
	require.Equal(t, 3, result.Value)

	result = srv.Call(ctx, Increment{Delta: 4})
	require.Equal(t, 7, result.Value)

	result = srv.Call(ctx, Snapshot{})
	require.Equal(t, 7, result.Value)
}

func TestCounterReset(t *testing.T) {
	t.Parallel()

	srv := New()
	defer srv.Cast(context.Background(), genserver.StopMessage)

	ctx := context.Background()

	srv.Call(ctx, Increment{Delta: 10})
	result := srv.Call(ctx, Reset{})
	require.Equal(t, 0, result.Value)
}

func TestCounterIncrementViaCast(t *testing.T) {
	t.Parallel()

	srv := New()
	defer srv.Cast(context.Background(), genserver.StopMessage)

	ctx := context.Background()

	srv.Cast(ctx, Increment{Delta: 5})

	result := srv.Call(ctx, Snapshot{})
	require.Equal(t, 5, result.Value)
}

// TestCounterCastReturnsImmediately verifies that Cast reports only
// successful enqueueing, not the eventual handler verdict: casting a
// message the Behavior doesn't handle on the cast path still returns
// StatusOK, since the submitter never waits for that message to run.
func TestCounterCastReturnsImmediately(t *testing.T) {
	t.Parallel()

	srv := New()
	defer srv.Cast(context.Background(), genserver.StopMessage)

	result := srv.Cast(context.Background(), Snapshot{})
	require.Equal(t, genserver.StatusOK, result.Status)
}

func TestEchoServerReply(t *testing.T) {
	t.Parallel()

	srv := NewEcho()
	defer srv.Cast(context.Background(), genserver.StopMessage)

	result := srv.Call(context.Background(), "hello")
	require.Equal(t, genserver.StatusOK, result.Status)
	require.Equal(t, "echo: hello", result.Value)
}
