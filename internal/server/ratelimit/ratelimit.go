// Package ratelimit throttles generation traffic per client with token
// buckets. Each PDF generation occupies a headless Chrome tab for
// seconds at a time, so the generation endpoints carry much smaller
// budgets than an ordinary JSON API would.
package ratelimit

import (
	"sync"
	"time"
)

// Buckets idle longer than this are dropped by the janitor.
const bucketTTL = time.Hour

// Info reports the outcome of a limit decision. A zero Limit means no
// budget applied: limiting disabled, client whitelisted, or an
// unlimited endpoint such as the health check.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// bucket holds the token state for one client+endpoint pair. The level
// refills continuously at perSecond and is capped at capacity, which is
// the burst size.
type bucket struct {
	mu        sync.Mutex
	capacity  float64
	perSecond float64
	level     float64
	refilled  time.Time
	lastSeen  time.Time
}

func newBucket(capacity int, perSecond float64) *bucket {
	now := time.Now()
	return &bucket{
		capacity:  float64(capacity),
		perSecond: perSecond,
		level:     float64(capacity),
		refilled:  now,
		lastSeen:  now,
	}
}

// take consumes one token if available and reports the post-decision
// state: remaining whole tokens, the time at which the bucket is full
// again, and on denial how long until the next token arrives.
func (b *bucket) take(now time.Time) (ok bool, info Info) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.level = min(b.capacity, b.level+now.Sub(b.refilled).Seconds()*b.perSecond)
	b.refilled = now
	b.lastSeen = now

	if b.level >= 1 {
		b.level--
		ok = true
	}

	info.Allowed = ok
	info.Remaining = int(b.level)
	info.ResetTime = now
	if b.level < b.capacity {
		full := (b.capacity - b.level) / b.perSecond
		info.ResetTime = now.Add(time.Duration(full * float64(time.Second)))
	}
	if !ok {
		next := (1 - b.level) / b.perSecond
		info.RetryAfter = time.Duration(next * float64(time.Second))
	}
	return ok, info
}

func (b *bucket) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSeen.Before(cutoff)
}

// Limiter hands out buckets keyed by client and endpoint and answers
// allow/deny for incoming requests. A janitor goroutine drops buckets
// that have gone idle so abandoned clients do not accumulate.
type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	config  *Config
	janitor *time.Ticker
	done    chan struct{}
}

// NewLimiter creates a limiter for the given configuration. A nil
// config behaves like LoadConfig with no environment overrides.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = defaultConfig()
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.janitor = time.NewTicker(config.CleanupInterval)
		l.done = make(chan struct{})
		go l.runJanitor()
	}

	return l
}

// Allow decides whether a request from clientID to the given path and
// method may proceed. The returned Info carries the header values the
// server should expose either way.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	limit, window, burst := l.config.budgetFor(path, method)
	if limit <= 0 {
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + method + " " + path
	ok, info := l.bucketFor(key, limit, window, burst).take(time.Now())
	info.Limit = limit
	return ok, info
}

// bucketFor returns the bucket for key, creating it on first use.
func (l *Limiter) bucketFor(key string, limit int, window time.Duration, burst int) *bucket {
	l.mu.RLock()
	b := l.buckets[key]
	l.mu.RUnlock()
	if b != nil {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b = l.buckets[key]; b == nil {
		b = newBucket(burst, float64(limit)/window.Seconds())
		l.buckets[key] = b
	}
	return b
}

func (l *Limiter) runJanitor() {
	for {
		select {
		case <-l.janitor.C:
			l.sweep(time.Now().Add(-bucketTTL))
		case <-l.done:
			return
		}
	}
}

// sweep removes buckets last seen before cutoff.
func (l *Limiter) sweep(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop shuts down the janitor goroutine.
func (l *Limiter) Stop() {
	if l.janitor != nil {
		l.janitor.Stop()
	}
	if l.done != nil {
		close(l.done)
	}
}
