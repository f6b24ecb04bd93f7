package limiter

import (
	"sync"
	"time"
)

// MemoryLimiter counts failed login attempts per key (ip|login) inside a
// sliding window. State is per process.
type MemoryLimiter struct {
	mu       sync.Mutex
	failures map[string][]time.Time
	window   time.Duration
	maxFails int
	now      func() time.Time
}

func NewMemoryLimiter(window time.Duration, maxFails int) *MemoryLimiter {
	return &MemoryLimiter{
		failures: make(map[string][]time.Time),
		window:   window,
		maxFails: maxFails,
		now:      time.Now,
	}
}

// TooMany reports whether key reached maxFails inside the window.
func (r *MemoryLimiter) TooMany(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.recent(key)) >= r.maxFails
}

func (r *MemoryLimiter) Fail(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures[key] = append(r.recent(key), r.now())
}

// Reset clears the failures of key, typically after a successful login.
func (r *MemoryLimiter) Reset(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.failures, key)
}

// recent drops failures older than the window and forgets keys left empty.
// Callers hold mu.
func (r *MemoryLimiter) recent(key string) []time.Time {
	cutoff := r.now().Add(-r.window)
	kept := r.failures[key][:0]

	for _, at := range r.failures[key] {
		if !at.Before(cutoff) {
			kept = append(kept, at)
		}
	}

	if len(kept) == 0 {
		delete(r.failures, key)
		return nil
	}

	r.failures[key] = kept

	return kept
}
