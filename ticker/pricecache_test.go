package ticker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePriceSource struct {
	mu    sync.Mutex
	calls int
	price float64
	err   error
}

func (f *fakePriceSource) GetName() string {
	return "fake"
}

func (f *fakePriceSource) GetReferencePrice(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.price, f.err
}

func (f *fakePriceSource) set(price float64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.price, f.err = price, err
}

func (f *fakePriceSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 12, 24, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestPriceCache(t *testing.T) {
	ctx := context.Background()

	t.Run("reuses a fresh price", func(t *testing.T) {
		source := &fakePriceSource{price: 140}
		clock := newFakeClock()
		cache := NewPriceCache(source, WithClock(clock.Now))

		assert.Equal(t, 140.0, cache.Get(ctx))
		clock.Advance(59 * time.Second)
		assert.Equal(t, 140.0, cache.Get(ctx))
		assert.Equal(t, 1, source.callCount())
	})

	t.Run("refreshes after the ttl", func(t *testing.T) {
		source := &fakePriceSource{price: 140}
		clock := newFakeClock()
		cache := NewPriceCache(source, WithClock(clock.Now))

		cache.Get(ctx)
		clock.Advance(61 * time.Second)
		source.set(160, nil)
		assert.Equal(t, 160.0, cache.Get(ctx))
		assert.Equal(t, 2, source.callCount())
	})

	t.Run("expires exactly at the ttl", func(t *testing.T) {
		source := &fakePriceSource{price: 140}
		clock := newFakeClock()
		cache := NewPriceCache(source, WithClock(clock.Now), WithTTL(10*time.Second))

		cache.Get(ctx)
		clock.Advance(10 * time.Second)
		cache.Get(ctx)
		assert.Equal(t, 2, source.callCount())
	})

	t.Run("fallback when nothing is cached", func(t *testing.T) {
		source := &fakePriceSource{err: errors.New("rate limited")}
		cache := NewPriceCache(source)
		assert.Equal(t, DefaultFallbackPrice, cache.Get(ctx))

		cache = NewPriceCache(source, WithFallbackPrice(99))
		assert.Equal(t, 99.0, cache.Get(ctx))

		_, _, ok := cache.Peek()
		assert.False(t, ok, "a failure must not populate the cache")
	})

	t.Run("keeps the last price on failure", func(t *testing.T) {
		source := &fakePriceSource{price: 140}
		clock := newFakeClock()
		cache := NewPriceCache(source, WithClock(clock.Now))

		cache.Get(ctx)
		capturedAt := clock.Now()
		clock.Advance(2 * time.Minute)
		source.set(0, errors.New("timeout"))
		assert.Equal(t, 140.0, cache.Get(ctx))

		price, at, ok := cache.Peek()
		assert.True(t, ok)
		assert.Equal(t, 140.0, price)
		assert.Equal(t, capturedAt, at)

		// Still stale, so the next call retries
		cache.Get(ctx)
		assert.Equal(t, 3, source.callCount())
	})
}
