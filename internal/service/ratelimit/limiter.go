package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a token-bucket limiter keyed by provider name. Both upstream
// providers are rate limited, so every fetch must pass Allow first; a
// denied fetch is treated like any other transient upstream fault.
type Limiter struct {
	mu sync.Mutex
	m  map[string]*bucket
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket)} }

// Configure registers or resets the bucket for a provider.
func (l *Limiter) Configure(provider string, capacity, refillPerSec float64) {
	l.mu.Lock()
	l.m[provider] = &bucket{
		tokens:     capacity,
		capacity:   capacity,
		refillRate: refillPerSec,
		last:       time.Now(),
	}
	l.mu.Unlock()
}

// Allow consumes one token for the provider if available. An unconfigured
// provider is never limited.
func (l *Limiter) Allow(provider string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[provider]
	if !ok {
		return true
	}
	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}
