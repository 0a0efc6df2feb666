package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	sweepEvery = time.Minute
	staleAfter = 10 * time.Minute
)

type bucket struct {
	tokens float64
	seen   time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory. Buckets
// idle for ten minutes are swept by a background goroutine until Close.
type MemoryLimiter struct {
	perSecond float64
	capacity  float64
	now       func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	closeOnce sync.Once
	done      chan struct{}
}

// NewMemoryLimiter refills perSecond tokens each second up to capacity.
func NewMemoryLimiter(perSecond float64, capacity int) *MemoryLimiter {
	return newMemoryLimiter(perSecond, capacity, time.Now)
}

// PerMinute allows n requests per minute per key with a burst of n.
func PerMinute(n int) *MemoryLimiter {
	return NewMemoryLimiter(float64(n)/60, n)
}

func newMemoryLimiter(perSecond float64, capacity int, now func() time.Time) *MemoryLimiter {
	m := &MemoryLimiter{
		perSecond: perSecond,
		capacity:  float64(capacity),
		now:       now,
		buckets:   make(map[string]*bucket),
		done:      make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Allow takes one token from key's bucket.
func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{tokens: m.capacity, seen: now}
		m.buckets[key] = b
	}
	b.tokens = min(m.capacity, b.tokens+now.Sub(b.seen).Seconds()*m.perSecond)
	b.seen = now

	if b.tokens < 1 {
		return false, nil
	}
	b.tokens--
	return true, nil
}

// Len reports how many keys currently hold a bucket.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

// Close stops the sweeper. Safe to call more than once.
func (m *MemoryLimiter) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}

func (m *MemoryLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *MemoryLimiter) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-staleAfter)
	for key, b := range m.buckets {
		if b.seen.Before(cutoff) {
			delete(m.buckets, key)
		}
	}
}
