package ticker

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snowgift/snow-gift/exchange"
)

const (
	DefaultPriceTTL      = 60 * time.Second
	DefaultFallbackPrice = 150.0
)

// PriceCache holds the last reference price and when it was captured.
// Refreshes are serialized, so concurrent callers share one outbound request.
type PriceCache struct {
	source   exchange.ReferencePriceSource
	ttl      time.Duration
	fallback float64
	now      func() time.Time

	mu         sync.Mutex
	price      float64
	capturedAt time.Time
	cached     bool
}

type CacheOption func(*PriceCache)

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *PriceCache) {
		c.ttl = ttl
	}
}

func WithFallbackPrice(price float64) CacheOption {
	return func(c *PriceCache) {
		c.fallback = price
	}
}

func WithClock(now func() time.Time) CacheOption {
	return func(c *PriceCache) {
		c.now = now
	}
}

func NewPriceCache(source exchange.ReferencePriceSource, opts ...CacheOption) *PriceCache {
	c := &PriceCache{
		source:   source,
		ttl:      DefaultPriceTTL,
		fallback: DefaultFallbackPrice,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached price while it is fresh, otherwise asks the source.
// A failed refresh returns the last known price, or the fallback when there
// is none, and leaves the cache untouched.
func (c *PriceCache) Get(ctx context.Context) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.cached && now.Sub(c.capturedAt) < c.ttl {
		return c.price
	}

	price, err := c.source.GetReferencePrice(ctx)
	if err != nil {
		logEntry := logrus.WithError(err).WithField("source", c.source.GetName())
		if c.cached {
			logEntry.Warnf("Failed to refresh reference price, keep using %v", c.price)
			return c.price
		}
		logEntry.Warnf("Failed to get reference price, using fallback %v", c.fallback)
		return c.fallback
	}

	c.price, c.capturedAt, c.cached = price, now, true
	logrus.Debugf("%s - reference price refreshed to %v", c.source.GetName(), price)
	return price
}

// Peek reports the cached value without refreshing it.
func (c *PriceCache) Peek() (price float64, capturedAt time.Time, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.price, c.capturedAt, c.cached
}
