package genserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAsyncCallWaiterStopsAfterDelivering(t *testing.T) {
	t.Parallel()

	srv := NewServer(counterBehavior{}, WithInitialState(0))
	defer srv.Cast(context.Background(), StopMessage)

	ctx := context.Background()

	future := srv.AsyncCall(ctx, incrMsg{by: 2})

	awaitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	result, err := future.Await(awaitCtx)
	require.NoError(t, err)
	require.Equal(t, 2, result.Value)

	// A second AsyncCall against a fresh waiter must also complete
	// independently; the first waiter must not linger and interfere.
	future2 := srv.AsyncCall(ctx, incrMsg{by: 3})

	awaitCtx2, cancel2 := context.WithTimeout(ctx, time.Second)
	defer cancel2()

	result2, err := future2.Await(awaitCtx2)
	require.NoError(t, err)
	require.Equal(t, 5, result2.Value)
}

func TestAsyncCallAgainstStoppedServer(t *testing.T) {
	t.Parallel()

	srv := NewServer(counterBehavior{}, WithInitialState(0))
	srv.Call(context.Background(), StopMessage)

	future := srv.AsyncCall(context.Background(), incrMsg{by: 1})

	awaitCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result, err := future.Await(awaitCtx)
	require.NoError(t, err)
	require.Equal(t, StatusStopped, result.Status)
}

func TestAsyncCallNilMessageIsNoOp(t *testing.T) {
	t.Parallel()

	srv := NewServer(counterBehavior{}, WithInitialState(0))
	defer srv.Cast(context.Background(), StopMessage)

	future := srv.AsyncCall(context.Background(), nil)

	awaitCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result, err := future.Await(awaitCtx)
	require.NoError(t, err)
	require.Equal(t, Result{}, result)
}
