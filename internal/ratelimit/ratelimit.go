// Package ratelimit provides a keyed token-bucket rate limiter, grounded
// on the teacher's internal/chain/ratelimit.go per-endpoint limiter
// generalized to key by whatever callers need: an RPC endpoint, or a
// dApp origin. Idle buckets are swept so a long-running process doesn't
// accumulate one limiter per origin forever.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultOriginRate and DefaultOriginBurst are the per-origin limits the
// dApp provider bridge applies to every inbound request.
const (
	DefaultOriginRate  = 1
	DefaultOriginBurst = 10

	// idleTimeout is how long a key's bucket survives without a request
	// before Sweep reclaims it.
	idleTimeout = time.Hour
)

type bucket struct {
	limiter    *rate.Limiter
	lastUsedAt time.Time
}

// Limiter is a keyed token-bucket rate limiter, safe for concurrent use.
type Limiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	rateLimit  rate.Limit
	burstLimit int
}

// New creates a Limiter allowing ratePerSecond sustained requests per
// key with the given burst.
func New(ratePerSecond float64, burst int) *Limiter {
	return &Limiter{
		buckets:    make(map[string]*bucket),
		rateLimit:  rate.Limit(ratePerSecond),
		burstLimit: burst,
	}
}

// NewOriginLimiter creates the per-origin limiter the provider bridge
// uses: 1 request/second sustained, burst of 10.
func NewOriginLimiter() *Limiter {
	return New(DefaultOriginRate, DefaultOriginBurst)
}

// Allow reports whether a request keyed by key may proceed immediately,
// without blocking.
func (l *Limiter) Allow(key string) bool {
	return l.bucketFor(key).Allow()
}

// Wait blocks until a request keyed by key is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.bucketFor(key).Wait(ctx)
}

func (l *Limiter) bucketFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.rateLimit, l.burstLimit)}
		l.buckets[key] = b
	}
	b.lastUsedAt = time.Now()
	return b.limiter
}

// Sweep removes buckets that have had no requests for longer than
// idleTimeout, keyed relative to now. Intended to run on a periodic
// ticker owned by whatever holds the Limiter (the central state, for
// the per-origin case).
func (l *Limiter) Sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if now.Sub(b.lastUsedAt) > idleTimeout {
			delete(l.buckets, key)
		}
	}
}
