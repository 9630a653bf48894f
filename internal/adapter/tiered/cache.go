// Package tiered implements a two-level (L1 + L2) cache adapter.
package tiered

import (
	"context"
	"time"

	"github.com/Strob0t/basenames/internal/port/cache"
)

// Cache combines a lossy in-process L1 with an authoritative L2.
// Get checks L1 first, then L2, backfilling L1 on an L2 hit.
// Writes land in L2 before L1 so a refused L1 write never loses data.
type Cache struct {
	l1       cache.Cache
	l2       cache.Cache
	l1Expire time.Duration
}

var _ cache.Cache = (*Cache)(nil)

// New creates a tiered cache. l1Expire bounds how long any entry lives in L1.
func New(l1, l2 cache.Cache, l1Expire time.Duration) *Cache {
	return &Cache{l1: l1, l2: l2, l1Expire: l1Expire}
}

// Get checks L1, then L2.
func (c *Cache) Get(ctx context.Context, key string) (data []byte, ok bool, err error) {
	val, found, err := c.l1.Get(ctx, key)
	if err == nil && found {
		return val, true, nil
	}

	val, found, err = c.l2.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	_ = c.l1.Set(ctx, key, val, c.l1Expire)
	return val, true, nil
}

// Set writes to L2 and then L1.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.l2.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	_ = c.l1.Set(ctx, key, value, c.l1TTL(ttl))
	return nil
}

// Delete removes from L1 and then L2.
func (c *Cache) Delete(ctx context.Context, key string) error {
	_ = c.l1.Delete(ctx, key)
	return c.l2.Delete(ctx, key)
}

// l1TTL is the shorter of ttl and l1Expire, treating zero as unbounded.
func (c *Cache) l1TTL(ttl time.Duration) time.Duration {
	switch {
	case ttl == 0:
		return c.l1Expire
	case c.l1Expire == 0:
		return ttl
	default:
		return min(ttl, c.l1Expire)
	}
}
