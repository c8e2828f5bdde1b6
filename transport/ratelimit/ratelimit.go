// Package ratelimit provides the per-connection token bucket applied to
// mutating client messages.
//
// Each websocket connection owns one Bucket created from the active tuning
// profile: it holds capacity tokens and regains one token per refill
// interval, capped at capacity. Allow never queues or blocks; a message
// arriving with the bucket empty is rejected outright and the connection
// stays open.
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// Bucket is a token bucket for one connection.
type Bucket struct {
	limiter *rate.Limiter
}

// NewBucket returns a bucket holding capacity tokens that regains one token
// every refill interval.
func NewBucket(capacity int, refill time.Duration) *Bucket {
	return &Bucket{limiter: rate.NewLimiter(rate.Every(refill), capacity)}
}

// Allow consumes a token when one is available and reports whether the
// message may proceed.
func (b *Bucket) Allow() bool {
	return b.limiter.Allow()
}
