package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// KeyedLimiter hands out one token-bucket limiter per key (the booking
// API keys by user id). Limiters are created lazily on first use.
type KeyedLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	Burst             int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 5,
		Burst:             10,
	}
}

func NewKeyedLimiter(cfg Config) *KeyedLimiter {
	if cfg.RequestsPerSecond <= 0 {
		cfg = DefaultConfig()
	}
	return &KeyedLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: cfg,
	}
}

func (l *KeyedLimiter) limiter(key string) *rate.Limiter {
	l.mu.RLock()
	lim, exists := l.limiters[key]
	l.mu.RUnlock()

	if exists {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, exists = l.limiters[key]; exists {
		return lim
	}

	lim = rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.Burst)
	l.limiters[key] = lim
	return lim
}

// Allow reports whether a request under the key may proceed now.
func (l *KeyedLimiter) Allow(key string) bool {
	return l.limiter(key).Allow()
}
