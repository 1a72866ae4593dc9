package port

import (
	"context"
	"time"
)

// Cache is a string key-value store with per-key expiry. It fronts lookups
// that are read on every message, such as sender display names.
type Cache interface {
	// Get returns ErrMiss when key is absent or expired.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value; a ttl <= 0 keeps it until deleted.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// ErrMiss reports a key that is not cached.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
