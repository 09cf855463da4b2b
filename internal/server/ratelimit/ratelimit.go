// Package ratelimit provides per-client request limiting using token buckets.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// EndpointConfig sets a limit for one route. Path matches by prefix; an
// empty Method matches every method.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per Window
	Window time.Duration
	Burst  int           // burst capacity, defaults to Limit
}

// Config holds limiter configuration
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Endpoints       []EndpointConfig
}

// DefaultConfig returns the limiter configuration for the interview API.
// Endpoints that fan out to LLM providers get the tightest budgets.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    300,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Endpoints: []EndpointConfig{
			// LLM-heavy operations
			{Path: "/resumes", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
			{Path: "/interviews", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

			// Credential guessing protection
			{Path: "/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
			{Path: "/auth/register", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},

			// Unlimited
			{Path: "/health", Limit: 0},
		},
	}
}

// Info reports the outcome of one limit check
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type bucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
}

func (b *bucket) take() (ok bool, remaining int, retryAfter time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now
	b.lastAccess = now

	if b.tokens >= 1 {
		b.tokens--
		return true, int(b.tokens), 0
	}
	wait := time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
	return false, 0, wait
}

// Limiter tracks one token bucket per client and endpoint
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  *Config
	stop    chan struct{}
}

// NewLimiter creates a limiter and starts its idle-bucket cleanup loop
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop()
	}
	return l
}

// Allow reports whether a request from clientID to the endpoint may proceed
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	cfg := l.match(path, method)
	if cfg.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + cfg.Path + ":" + method
	b := l.bucketFor(key, cfg)

	ok, remaining, retryAfter := b.take()
	return ok, Info{
		Allowed:    ok,
		Limit:      cfg.Limit,
		Remaining:  remaining,
		RetryAfter: retryAfter,
	}
}

// Stop terminates the cleanup loop
func (l *Limiter) Stop() {
	close(l.stop)
}

func (l *Limiter) match(path, method string) EndpointConfig {
	for _, ep := range l.config.Endpoints {
		if !strings.HasPrefix(path, ep.Path) {
			continue
		}
		if ep.Method == "" || ep.Method == method {
			return ep
		}
	}
	return EndpointConfig{
		Path:   "",
		Limit:  l.config.DefaultLimit,
		Window: l.config.DefaultWindow,
	}
}

func (l *Limiter) bucketFor(key string, cfg EndpointConfig) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}

	capacity := cfg.Burst
	if capacity <= 0 {
		capacity = cfg.Limit
	}
	b := &bucket{
		capacity:   float64(capacity),
		refillRate: float64(cfg.Limit) / cfg.Window.Seconds(),
		tokens:     float64(capacity),
		lastRefill: time.Now(),
		lastAccess: time.Now(),
	}
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.dropIdleBuckets(time.Now().Add(-time.Hour))
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) dropIdleBuckets(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		b.mu.Lock()
		idle := b.lastAccess.Before(cutoff)
		b.mu.Unlock()
		if idle {
			delete(l.buckets, key)
		}
	}
}
