package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for missing or expired keys.
var ErrNotFound = errors.New("session: not found")

// Cache holds per-user client-state blobs: template fill values, the copy
// buffer, milestone flags, saved prompt chains. Implementations are the
// in-process TTL map and the Redis adapter.
// [LSP] both are valid substitutes; tests use the in-process one.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set with ttl = 0 stores without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}
