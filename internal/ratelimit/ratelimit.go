// Package ratelimit keeps one token bucket per client key.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
	now     func() time.Time
}

// New returns a limiter allowing rps requests per second per key with the
// given burst. A non-positive rps disables limiting.
func New(rps float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.r > 0
}

func (l *Limiter) Allow(key string) bool {
	if !l.Enabled() {
		return true
	}
	return l.get(key).AllowN(l.now(), 1)
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.clients[key]; ok {
		c.seen = l.now()
		return c.lim
	}
	lim := rate.NewLimiter(l.r, l.burst)
	l.clients[key] = &client{lim: lim, seen: l.now()}
	return lim
}

// Sweep drops keys idle for longer than maxIdle and returns how many were
// removed.
func (l *Limiter) Sweep(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-maxIdle)
	removed := 0
	for key, c := range l.clients {
		if c.seen.Before(cutoff) {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

// Run sweeps stale keys every minute until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	if !l.Enabled() {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep(3 * time.Minute)
		}
	}
}
