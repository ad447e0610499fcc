package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when a key is absent. Expired entries are
// indistinguishable from absent ones; expiry belongs to the store.
var ErrMiss = errors.New("cache: key not found")

// Store is the key-value contract the weather engine caches through.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
