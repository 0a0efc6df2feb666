package ratelimit

import (
	"context"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(t *testing.T, perSecond float64, capacity int) (*MemoryLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := newMemoryLimiter(perSecond, capacity, clock.Now)
	t.Cleanup(func() { require.NoError(t, m.Close()) })
	return m, clock
}

func allowN(t *testing.T, m *MemoryLimiter, key string, n int) int {
	t.Helper()
	allowed := 0
	for range n {
		ok, err := m.Allow(context.Background(), key)
		require.NoError(t, err)
		if ok {
			allowed++
		}
	}
	return allowed
}

func TestMemoryLimiterBurst(t *testing.T) {
	m, _ := newTestLimiter(t, 1, 3)
	assert.Equal(t, 3, allowN(t, m, "k", 5))
}

func TestMemoryLimiterRefill(t *testing.T) {
	m, clock := newTestLimiter(t, 2, 2)
	assert.Equal(t, 2, allowN(t, m, "k", 2))
	assert.Equal(t, 0, allowN(t, m, "k", 1))

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, 1, allowN(t, m, "k", 2), "half a second refills one token at 2/s")

	clock.Advance(time.Hour)
	assert.Equal(t, 2, allowN(t, m, "k", 5), "refill caps at capacity")
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	m, _ := newTestLimiter(t, 1, 1)
	assert.Equal(t, 1, allowN(t, m, "a", 2))
	assert.Equal(t, 1, allowN(t, m, "b", 2))
	assert.Equal(t, 2, m.Len())
}

func TestMemoryLimiterSweep(t *testing.T) {
	m, clock := newTestLimiter(t, 1, 1)
	allowN(t, m, "old", 1)
	clock.Advance(staleAfter + time.Second)
	allowN(t, m, "fresh", 1)

	m.sweep()
	assert.Equal(t, 1, m.Len())
	m.mu.Lock()
	_, ok := m.buckets["fresh"]
	m.mu.Unlock()
	assert.True(t, ok)
}

func TestMemoryLimiterConcurrent(t *testing.T) {
	m, _ := newTestLimiter(t, 0, 50)
	var allowed atomic.Int64
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				if ok, _ := m.Allow(context.Background(), "shared"); ok {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), allowed.Load())
}

func TestPerMinute(t *testing.T) {
	m := PerMinute(60)
	t.Cleanup(func() { _ = m.Close() })
	assert.InDelta(t, 1.0, m.perSecond, 1e-9)
	assert.InDelta(t, 60.0, m.capacity, 1e-9)
}

func TestCloseIsIdempotent(t *testing.T) {
	m := NewMemoryLimiter(1, 1)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestNoopLimiter(t *testing.T) {
	var l Limiter = NoopLimiter{}
	for range 100 {
		ok, err := l.Allow(context.Background(), "k")
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.NoError(t, l.Close())
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.168.1.1:12345"
	assert.Equal(t, "192.168.1.1", ClientKey(r))

	r.RemoteAddr = "[::1]:8080"
	assert.Equal(t, "::1", ClientKey(r))

	r.RemoteAddr = "unix-socket"
	assert.Equal(t, "unix-socket", ClientKey(r))
	r.Header.Set("X-Forwarded-For", "10.0.0.1")
	assert.Equal(t, "unix-socket", ClientKey(r))
}
