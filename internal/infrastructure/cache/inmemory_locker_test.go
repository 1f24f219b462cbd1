package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(wait time.Duration) *InMemoryAssetLocker {
	return NewInMemoryAssetLocker(shared.LockConfig{
		Wait:          wait,
		RetryInterval: time.Millisecond,
	})
}

func TestInMemoryAssetLocker_Acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("acquires a free key", func(t *testing.T) {
		locker := newTestLocker(0)
		defer locker.Close()

		release, err := locker.Acquire(ctx, "asset:1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, locker.Size())

		release()
		assert.Equal(t, 0, locker.Size())
	})

	t.Run("rejects a held key once the wait budget is spent", func(t *testing.T) {
		locker := newTestLocker(5 * time.Millisecond)
		defer locker.Close()

		release, err := locker.Acquire(ctx, "asset:1", time.Minute)
		require.NoError(t, err)
		defer release()

		_, err = locker.Acquire(ctx, "asset:1", time.Minute)
		assert.ErrorIs(t, err, shared.ErrLockNotAcquired)

		other, err := locker.Acquire(ctx, "asset:2", time.Minute)
		require.NoError(t, err, "keys are independent")
		other()
	})

	t.Run("waits for the holder to release", func(t *testing.T) {
		locker := newTestLocker(time.Second)
		defer locker.Close()

		release, err := locker.Acquire(ctx, "asset:1", time.Minute)
		require.NoError(t, err)
		go func() {
			time.Sleep(10 * time.Millisecond)
			release()
		}()

		second, err := locker.Acquire(ctx, "asset:1", time.Minute)
		require.NoError(t, err)
		second()
	})

	t.Run("expired lock can be taken over", func(t *testing.T) {
		locker := newTestLocker(0)
		defer locker.Close()

		stale, err := locker.Acquire(ctx, "asset:1", 5*time.Millisecond)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		fresh, err := locker.Acquire(ctx, "asset:1", time.Minute)
		require.NoError(t, err)

		// the expired holder must not release the new lock
		stale()
		_, err = locker.Acquire(ctx, "asset:1", time.Minute)
		assert.ErrorIs(t, err, shared.ErrLockNotAcquired)
		fresh()
	})

	t.Run("release is idempotent", func(t *testing.T) {
		locker := newTestLocker(0)
		defer locker.Close()

		release, err := locker.Acquire(ctx, "asset:1", time.Minute)
		require.NoError(t, err)
		release()
		next, err := locker.Acquire(ctx, "asset:1", time.Minute)
		require.NoError(t, err)
		release()
		assert.Equal(t, 1, locker.Size())
		next()
	})

	t.Run("honours context cancellation", func(t *testing.T) {
		locker := newTestLocker(time.Minute)
		defer locker.Close()

		release, err := locker.Acquire(ctx, "asset:1", time.Minute)
		require.NoError(t, err)
		defer release()

		cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		_, err = locker.Acquire(cctx, "asset:1", time.Minute)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestInMemoryAssetLocker_MutualExclusion(t *testing.T) {
	locker := newTestLocker(5 * time.Second)
	defer locker.Close()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Acquire(context.Background(), "asset:1", time.Minute)
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestInMemoryAssetLocker_Cleanup(t *testing.T) {
	locker := newTestLocker(0)
	defer locker.Close()

	_, err := locker.Acquire(context.Background(), "asset:1", time.Millisecond)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	locker.cleanup()
	assert.Equal(t, 0, locker.Size())
}

func TestInMemoryAssetLocker_Close(t *testing.T) {
	locker := newTestLocker(0)
	assert.NoError(t, locker.Close())
	assert.NoError(t, locker.Close(), "second close is a no-op")
}
