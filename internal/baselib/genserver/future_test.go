package genserver

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPromiseCompleteIsIdempotent(t *testing.T) {
	t.Parallel()

	promise := NewPromise[int]()

	require.True(t, promise.Complete(1))
	require.False(t, promise.Complete(2))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	value, err := promise.Future().Await(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, value)
}

func TestPromiseAwaitContextCancelled(t *testing.T) {
	t.Parallel()

	promise := NewPromise[int]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	value, err := promise.Future().Await(ctx)
	require.Error(t, err)
	require.Equal(t, 0, value)
}

func TestPromiseOnCompleteAfterFulfillment(t *testing.T) {
	t.Parallel()

	promise := NewPromise[string]()
	promise.Complete("done")

	var observed atomic.Value
	promise.Future().OnComplete(func(v string) {
		observed.Store(v)
	})

	require.Equal(t, "done", observed.Load())
}

func TestPromiseOnCompleteBeforeFulfillment(t *testing.T) {
	t.Parallel()

	promise := NewPromise[string]()

	var observed atomic.Value
	promise.Future().OnComplete(func(v string) {
		observed.Store(v)
	})

	promise.Complete("later")

	require.Eventually(t, func() bool {
		v, ok := observed.Load().(string)
		return ok && v == "later"
	}, testEventuallyTimeout, testEventuallyTick)
}
