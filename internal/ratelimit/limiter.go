package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type KeyType string

const (
	KeyIP         KeyType = "ip"
	KeyIPEndpoint KeyType = "ip_endpoint"
)

// Limiter keeps one token bucket per key.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

func NewLimiter() *Limiter {
	return &Limiter{buckets: make(map[string]*rate.Limiter)}
}

// Allow returns true if the request is allowed, false if rate limited.
func (l *Limiter) Allow(key string, rps float64, burst int, now time.Time) bool {
	if key == "" {
		return true
	}
	if rps <= 0 || burst <= 0 {
		return true
	}

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(rate.Limit(rps), burst)
		l.buckets[key] = b
	}
	l.mu.Unlock()

	if b.Limit() != rate.Limit(rps) {
		b.SetLimitAt(now, rate.Limit(rps))
	}
	if b.Burst() != burst {
		b.SetBurstAt(now, burst)
	}

	return b.AllowN(now, 1)
}

// Key builds the bucket key for a client, optionally scoped to an endpoint.
func Key(mode, ip, endpoint string) string {
	switch mode {
	case string(KeyIPEndpoint):
		return ip + "|" + endpoint
	case string(KeyIP):
		fallthrough
	default:
		return ip
	}
}
