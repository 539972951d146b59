package ratelimit

import (
	"context"
	"time"
)

// Entry is the state of one (endpoint, client) bucket within its window.
type Entry struct {
	Count   int
	ResetAt time.Time
}

// Store holds rate-limit entries. Increment must be atomic per key: when
// the key is absent or its window expired the entry restarts at count 1,
// otherwise the counter grows by one. Implementations own their entries
// exclusively.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (Entry, error)
	Reset(ctx context.Context, key string) error
}
