package cache_test

import (
	"context"
	"errors"
	"somthing-shop/internal/cache"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCachesUntilInvalidated(t *testing.T) {
	t.Parallel()

	c := cache.New(time.Minute)
	ctx := context.Background()

	var calls int32
	load := func(ctx context.Context) ([]string, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return []string{"a", "b"}, nil
		}
		return []string{"a"}, nil
	}

	got, err := cache.Fetch(ctx, c, cache.KeyProducts, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	got, err = cache.Fetch(ctx, c, cache.KeyProducts, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	c.Invalidate(cache.KeyProducts)

	got, err = cache.Fetch(ctx, c, cache.KeyProducts, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestFetchErrorIsNotCached(t *testing.T) {
	t.Parallel()

	c := cache.New(time.Minute)
	ctx := context.Background()
	boom := errors.New("gateway down")

	_, err := cache.Fetch(ctx, c, cache.KeyOrders, func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := cache.Fetch(ctx, c, cache.KeyOrders, func(ctx context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestStaleLoadIsNotStored(t *testing.T) {
	t.Parallel()

	c := cache.New(time.Minute)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := cache.Fetch(ctx, c, cache.KeyCoupons, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "stale", v)
	}()

	<-started
	c.Invalidate(cache.KeyCoupons)
	close(release)
	wg.Wait()

	got, err := cache.Fetch(ctx, c, cache.KeyCoupons, func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestCanceledCallerDoesNotFailSharedLoad(t *testing.T) {
	t.Parallel()

	c := cache.New(time.Minute)

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	load := func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-release:
			return "products", nil
		}
	}

	first, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := cache.Fetch(first, c, cache.KeyProducts, load)
		firstDone <- err
	}()
	<-started

	secondDone := make(chan string, 1)
	go func() {
		v, err := cache.Fetch(context.Background(), c, cache.KeyProducts, load)
		assert.NoError(t, err)
		secondDone <- v
	}()
	// let the second caller join the in-flight load
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstDone:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled caller kept waiting on the shared load")
	}

	close(release)
	assert.Equal(t, "products", <-secondDone)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	got, err := cache.Fetch(context.Background(), c, cache.KeyProducts, load)
	require.NoError(t, err)
	assert.Equal(t, "products", got)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestEntriesExpire(t *testing.T) {
	t.Parallel()

	c := cache.New(time.Nanosecond)
	ctx := context.Background()

	var calls int32
	load := func(ctx context.Context) (int32, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	_, err := cache.Fetch(ctx, c, cache.KeyStats, load)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	got, err := cache.Fetch(ctx, c, cache.KeyStats, load)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got)
}

func TestSubscribeReceivesInvalidatedKeys(t *testing.T) {
	t.Parallel()

	c := cache.New(time.Minute)
	keys, cancel := c.Subscribe()

	c.Invalidate(cache.KeyProducts, cache.KeyActivity)

	assert.Equal(t, cache.KeyProducts, <-keys)
	assert.Equal(t, cache.KeyActivity, <-keys)

	cancel()
	cancel()
	_, open := <-keys
	assert.False(t, open)

	// invalidating with no subscribers must not block
	c.Invalidate(cache.KeyProducts)
}
