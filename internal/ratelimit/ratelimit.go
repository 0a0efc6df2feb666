// Package ratelimit throttles HTTP API callers with a token bucket per client.
//
// The default budget mirrors the relay's max_msgs_per_minute so a peer that
// pre-validates every envelope here cannot outrun what the relay will accept.
package ratelimit

import (
	"context"
	"net"
	"net/http"
)

// Limiter decides whether a request identified by key should be allowed.
// Implementations must be safe for concurrent use.
type Limiter interface {
	// Allow returns true if the request should proceed. An error signals a
	// limiter malfunction; callers fail open.
	Allow(ctx context.Context, key string) (bool, error)

	// Close releases background resources.
	Close() error
}

// NoopLimiter permits every request. Used when rate limiting is disabled.
type NoopLimiter struct{}

func (NoopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
func (NoopLimiter) Close() error                                { return nil }

// ClientKey returns the client IP from RemoteAddr. X-Forwarded-For is not
// trusted; a deployment behind a proxy must have the proxy set RemoteAddr.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
