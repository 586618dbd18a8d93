package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestClient() (*Client, *MemoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(DefaultGCTime)
	store.now = clock.Now
	return New(store, withClock(clock.Now)), store, clock
}

func counting(calls *atomic.Int32, v []string) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) {
		calls.Add(1)
		return v, nil
	}
}

func TestFetch_FreshThenStale(t *testing.T) {
	c, _, clock := newTestClient()
	ctx := context.Background()
	var calls atomic.Int32

	v, err := Fetch(ctx, c, []string{"products"}, counting(&calls, []string{"a"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)

	clock.Advance(59 * time.Second)
	_, err = Fetch(ctx, c, []string{"products"}, counting(&calls, []string{"b"}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())

	clock.Advance(2 * time.Second)
	v, err = Fetch(ctx, c, []string{"products"}, counting(&calls, []string{"b"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, v)
	assert.EqualValues(t, 2, calls.Load())
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	c, store, _ := newTestClient()
	boom := errors.New("boom")

	_, err := Fetch(context.Background(), c, []string{"product", "1"}, func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.Len())
}

func TestFetch_DeduplicatesConcurrentCalls(t *testing.T) {
	c, _, _ := newTestClient()
	var calls atomic.Int32
	release := make(chan struct{})

	fn := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Fetch(context.Background(), c, []string{"products"}, fn)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, []int{42, 42, 42, 42, 42}, results)
}

func TestFetch_CancelledCallerDoesNotFailOthers(t *testing.T) {
	c, _, _ := newTestClient()
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	fn := func(ctx context.Context) (int, error) {
		once.Do(func() { close(started) })
		select {
		case <-release:
			return 7, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := Fetch(ctx, c, []string{"products"}, fn)
		first <- err
	}()
	<-started

	type result struct {
		v   int
		err error
	}
	second := make(chan result, 1)
	go func() {
		v, err := Fetch(context.Background(), c, []string{"products"}, fn)
		second <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, 7, got.v)
}

func TestInvalidate_ByPrefix(t *testing.T) {
	c, store, _ := newTestClient()
	ctx := context.Background()
	one := func(context.Context) (int, error) { return 1, nil }

	for _, key := range [][]string{{"products"}, {"products", "usb"}, {"product", "1"}, {"productsX"}} {
		_, err := Fetch(ctx, c, key, one)
		require.NoError(t, err)
	}
	require.Equal(t, 4, store.Len())

	require.NoError(t, c.Invalidate(ctx, "products"))
	assert.Equal(t, 2, store.Len())

	require.NoError(t, c.Invalidate(ctx, "product", "1"))
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_GCIdleEntries(t *testing.T) {
	c, store, clock := newTestClient()
	ctx := context.Background()
	one := func(context.Context) (int, error) { return 1, nil }

	_, _ = Fetch(ctx, c, []string{"products"}, one)
	clock.Advance(4 * time.Minute)
	_, _ = Fetch(ctx, c, []string{"product", "2"}, one)
	clock.Advance(2 * time.Minute)

	assert.Equal(t, 1, store.Len())
}

func TestEncodeKey(t *testing.T) {
	assert.Equal(t, "products", EncodeKey([]string{"products"}))
	assert.Equal(t, "products/a%2Fb", EncodeKey([]string{"products", "a/b"}))
	assert.True(t, under("products/usb", "products"))
	assert.False(t, under("productsX", "products"))
}
