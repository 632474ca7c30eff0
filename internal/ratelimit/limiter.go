package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Upstream identifies an external data source subject to outbound rate limiting
type Upstream string

const (
	// UpstreamPolygon represents the Polygon quote API
	UpstreamPolygon Upstream = "polygon"
	// UpstreamMarketwatch represents the MarketWatch performance pages
	UpstreamMarketwatch Upstream = "marketwatch"
)

// Limiter throttles outbound calls per upstream so a burst of cache misses
// cannot hammer the quote API or get the scraper blocked.
type Limiter struct {
	limiters map[Upstream]*rate.Limiter
	mu       sync.RWMutex
}

// New creates a Limiter with no upstreams configured; unconfigured upstreams
// are not limited.
func New() *Limiter {
	return &Limiter{
		limiters: make(map[Upstream]*rate.Limiter),
	}
}

// Set configures the allowed requests per second for an upstream.
// rps <= 0 means unlimited.
func (l *Limiter) Set(upstream Upstream, rps float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rps <= 0 {
		l.limiters[upstream] = rate.NewLimiter(rate.Inf, 1)
		return
	}
	l.limiters[upstream] = rate.NewLimiter(rate.Limit(rps), 1)
}

// Wait blocks until the rate limiter permits a request to the given upstream.
// It returns an error if the context is canceled before the event can proceed.
func (l *Limiter) Wait(ctx context.Context, upstream Upstream) error {
	l.mu.RLock()
	limiter, exists := l.limiters[upstream]
	l.mu.RUnlock()

	if !exists {
		// No limiter configured for this upstream; allow the request
		return nil
	}

	return limiter.Wait(ctx)
}

// Allow reports whether a request to the given upstream may happen now
func (l *Limiter) Allow(upstream Upstream) bool {
	l.mu.RLock()
	limiter, exists := l.limiters[upstream]
	l.mu.RUnlock()

	if !exists {
		return true
	}

	return limiter.Allow()
}
