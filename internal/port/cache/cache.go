// Package cache defines the port interface for key-value storage.
//
// It backs both short-lived availability results and the demo NFT state that
// the browser front-end used to keep in localStorage.
package cache

import (
	"context"
	"time"
)

// Cache is the port interface for key-value caching.
// A zero ttl means the entry does not expire on its own.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
