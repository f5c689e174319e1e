// Package ratelimit throttles credential endpoints per client IP. The
// limiter is in-process so it works identically in demo mode, where no
// shared store exists.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	loginRate  = rate.Limit(1) // sustained attempts per second
	loginBurst = 5

	staleAfter    = 10 * time.Minute
	sweepInterval = time.Minute
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter keeps one token bucket per client IP and drops buckets
// that have been idle long enough to refill completely.
type LoginLimiter struct {
	mu        sync.Mutex
	entries   map[string]*entry
	lastSweep time.Time
}

func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		entries:   make(map[string]*entry),
		lastSweep: time.Now(),
	}
}

func (l *LoginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > sweepInterval {
		l.sweep(now)
	}

	e, ok := l.entries[ip]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(loginRate, loginBurst)}
		l.entries[ip] = e
	}
	e.lastSeen = now
	return e.limiter.Allow()
}

func (l *LoginLimiter) sweep(now time.Time) {
	for ip, e := range l.entries {
		if now.Sub(e.lastSeen) > staleAfter {
			delete(l.entries, ip)
		}
	}
	l.lastSweep = now
}
