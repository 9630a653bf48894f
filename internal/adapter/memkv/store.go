// Package memkv implements the cache port as a process-local map with
// per-entry expiry. It is the authoritative store for demo state when no
// NATS KV bucket is configured.
package memkv

import (
	"context"
	"sync"
	"time"

	"github.com/Strob0t/basenames/internal/port/cache"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero = never
}

// Store is a concurrency-safe in-memory key-value store. Unlike the L1
// cache it never evicts live entries.
type Store struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

var _ cache.Cache = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{data: make(map[string]entry), now: time.Now}
}

// Get returns a copy of the value for key.
func (s *Store) Get(_ context.Context, key string) (data []byte, ok bool, err error) {
	s.mu.RLock()
	e, found := s.data[key]
	s.mu.RUnlock()

	if !found {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, still := s.data[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set stores a copy of value. A zero ttl never expires.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included until
// they are next read.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
