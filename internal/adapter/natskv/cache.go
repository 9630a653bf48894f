// Package natskv implements the cache port using a NATS JetStream KV bucket
// as the shared L2 store.
package natskv

import (
	"context"
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// encodedPrefix marks keys that were base64url-encoded to satisfy the KV key
// alphabet.
const encodedPrefix = "b64."

var validKey = regexp.MustCompile(`^[-/_=a-zA-Z0-9]+(\.[-/_=a-zA-Z0-9]+)*$`)

// Cache wraps a NATS JetStream KeyValue bucket.
type Cache struct {
	kv jetstream.KeyValue
}

// New creates a cache over an existing bucket.
func New(kv jetstream.KeyValue) *Cache {
	return &Cache{kv: kv}
}

// Get retrieves a value from the bucket.
func (c *Cache) Get(ctx context.Context, key string) (data []byte, ok bool, err error) {
	entry, err := c.kv.Get(ctx, storageKey(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return entry.Value(), true, nil
}

// Set stores a value. Expiry is managed at bucket level, so ttl is ignored.
func (c *Cache) Set(ctx context.Context, key string, value []byte, _ time.Duration) error {
	_, err := c.kv.Put(ctx, storageKey(key), value)
	return err
}

// Delete removes a value from the bucket.
func (c *Cache) Delete(ctx context.Context, key string) error {
	err := c.kv.Delete(ctx, storageKey(key))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil
	}
	return err
}

// emptyKey stands in for the empty key. Raw base64url never encodes a
// non-empty key to a lone underscore.
const emptyKey = encodedPrefix + "_"

// storageKey returns key unchanged when the KV alphabet allows it and an
// encoded form otherwise. Keys that already carry the encoded prefix are
// encoded again so they cannot collide with encoded keys.
func storageKey(key string) string {
	if key == "" {
		return emptyKey
	}
	if validKey.MatchString(key) && !strings.HasPrefix(key, encodedPrefix) {
		return key
	}
	return encodedPrefix + base64.RawURLEncoding.EncodeToString([]byte(key))
}
