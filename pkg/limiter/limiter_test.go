package limiter

import (
	"testing"
	"time"
)

type clock struct{ at time.Time }

func (c *clock) now() time.Time { return c.at }

func newLimiter(window time.Duration, maxFails int) (*MemoryLimiter, *clock) {
	c := &clock{at: time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)}

	lim := NewMemoryLimiter(window, maxFails)
	lim.now = c.now

	return lim, c
}

func TestMemoryLimiterWindowSlides(t *testing.T) {
	lim, c := newLimiter(time.Minute, 3)
	key := "10.0.0.1|admin"

	if lim.TooMany(key) {
		t.Fatalf("should not be limited initially")
	}

	lim.Fail(key)
	lim.Fail(key)

	if lim.TooMany(key) {
		t.Fatalf("should not be limited before reaching the threshold")
	}

	c.at = c.at.Add(30 * time.Second)
	lim.Fail(key)

	if !lim.TooMany(key) {
		t.Fatalf("should be limited after reaching the threshold")
	}

	c.at = c.at.Add(31 * time.Second)

	if lim.TooMany(key) {
		t.Fatalf("the first two failures left the window")
	}

	c.at = c.at.Add(time.Minute)

	if lim.TooMany(key) || len(lim.failures) != 0 {
		t.Fatalf("expired keys should be forgotten, got %v", lim.failures)
	}
}

func TestMemoryLimiterReset(t *testing.T) {
	lim, _ := newLimiter(time.Minute, 2)
	key := "127.0.0.1|admin"

	lim.Fail(key)
	lim.Fail(key)

	if !lim.TooMany(key) {
		t.Fatalf("should be limited after two failures")
	}

	lim.Reset(key)

	if lim.TooMany(key) {
		t.Fatalf("reset should clear the failures")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	lim, _ := newLimiter(time.Minute, 1)

	lim.Fail("127.0.0.1|admin")

	if lim.TooMany("127.0.0.1|editor") {
		t.Fatalf("another login should not be limited")
	}
}
